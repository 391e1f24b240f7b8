package clarify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"poultryqa/internal/config"
	"poultryqa/internal/domain"

	"github.com/redis/go-redis/v9"
)

// pendingTTL bounds how long a conversation may sit waiting for
// answer_clarification before the session is considered abandoned.
const pendingTTL = 30 * time.Minute

// PendingClarification is what gets persisted between emitting a
// ClarificationRequest and the caller answering it via answer_clarification.
type PendingClarification struct {
	Request  domain.ClarificationRequest `json:"request"`
	Entities domain.ExtractedEntities    `json:"entities"`
	Intent   domain.Intent               `json:"intent"`
	Query    domain.Query                `json:"query"`
}

// PendingStore persists in-flight clarification sessions, keyed by
// conversation_id, since answers arrive on a later, independent request.
type PendingStore struct {
	client redis.UniversalClient
}

// NewPendingStore connects to Redis and verifies it with a Ping.
func NewPendingStore(ctx context.Context, cfg config.RedisConfig) (*PendingStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis pending-clarification ping: %w", err)
	}
	return &PendingStore{client: client}, nil
}

func pendingKey(conversationID string) string {
	return "clarify:pending:" + conversationID
}

// Save persists a pending clarification for conversationID, overwriting any
// existing one.
func (s *PendingStore) Save(ctx context.Context, conversationID string, pending PendingClarification) error {
	data, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("marshal pending clarification: %w", err)
	}
	return s.client.Set(ctx, pendingKey(conversationID), data, pendingTTL).Err()
}

// Load retrieves and clears the pending clarification for conversationID.
// Returns ok=false if none exists (expired or never set).
func (s *PendingStore) Load(ctx context.Context, conversationID string) (PendingClarification, bool, error) {
	key := pendingKey(conversationID)
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return PendingClarification{}, false, nil
	}
	if err != nil {
		return PendingClarification{}, false, fmt.Errorf("get pending clarification: %w", err)
	}
	var pending PendingClarification
	if err := json.Unmarshal([]byte(val), &pending); err != nil {
		return PendingClarification{}, false, fmt.Errorf("unmarshal pending clarification: %w", err)
	}
	_ = s.client.Del(ctx, key).Err()
	return pending, true, nil
}

// Close closes the underlying Redis client.
func (s *PendingStore) Close() error {
	return s.client.Close()
}
