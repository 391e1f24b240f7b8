package domaingate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"poultryqa/internal/config"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// ClickHouseAuditSink persists every rejection into a ClickHouse table for
// later review, per the spec's "logged with full context for later
// auditing." Grounded on the DSN-parse-then-ping pattern used for the
// teacher's ClickHouse-backed token metrics reader.
type ClickHouseAuditSink struct {
	conn  clickhouse.Conn
	table string
}

// NewClickHouseAuditSink opens a connection and verifies it with a Ping.
func NewClickHouseAuditSink(ctx context.Context, cfg config.ClickHouseConfig) (*ClickHouseAuditSink, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, fmt.Errorf("clickhouse dsn is required")
	}
	opts, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse clickhouse dsn: %w", err)
	}
	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open clickhouse connection: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.Ping(pingCtx); err != nil {
		return nil, fmt.Errorf("clickhouse ping: %w", err)
	}

	table := cfg.Table
	if table == "" {
		table = "domain_rejections"
	}
	return &ClickHouseAuditSink{conn: conn, table: table}, nil
}

// RecordRejection inserts one row: (ts, query, language, reason, confidence,
// agri_hits, non_agri_hits).
func (s *ClickHouseAuditSink) RecordRejection(ctx context.Context, rec RejectionRecord) error {
	q := fmt.Sprintf(`INSERT INTO %s (ts, query, language, reason, confidence, agri_hits, non_agri_hits) VALUES (?, ?, ?, ?, ?, ?, ?)`, s.table)
	return s.conn.Exec(ctx, q,
		time.Now(),
		rec.Query,
		rec.Language,
		rec.Reason,
		rec.Confidence,
		rec.AgriHits,
		rec.NonAgriHits,
	)
}

// Close closes the underlying connection.
func (s *ClickHouseAuditSink) Close() error {
	return s.conn.Close()
}
