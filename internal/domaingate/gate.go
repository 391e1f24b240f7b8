// Package domaingate rejects off-domain queries before any retrieval work
// is attempted, using a weighted keyword scoring model over per-language
// agricultural/non-agricultural term lists.
package domaingate

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"poultryqa/internal/domain"

	"github.com/rs/zerolog"
)

// Config tunes the gate. Threshold is the minimum confidence (0-100) to
// accept a query that matched neither list decisively.
type Config struct {
	Threshold float64
}

// DefaultConfig matches the spec's default threshold of 15.
func DefaultConfig() Config {
	return Config{Threshold: 15}
}

// RejectionAuditSink persists a rejected query's full context for later
// review (C3's ClickHouse audit log in the full deployment).
type RejectionAuditSink interface {
	RecordRejection(ctx context.Context, rec RejectionRecord) error
}

// RejectionRecord is what gets audited on every reject decision.
type RejectionRecord struct {
	Query      string
	Language   string
	Reason     string
	Confidence float64
	AgriHits   []string
	NonAgriHits []string
}

// Result is the gate's verdict.
type Result struct {
	Accepted        bool
	Confidence      float64
	RejectionReason string
}

// Gate implements DomainGate (C3).
type Gate struct {
	cfg   Config
	audit RejectionAuditSink
	log   zerolog.Logger
}

// New constructs a Gate. audit may be nil (no audit persistence).
func New(cfg Config, audit RejectionAuditSink, log zerolog.Logger) *Gate {
	return &Gate{cfg: cfg, audit: audit, log: log}
}

var nonWordRe = regexp.MustCompile(`[^\w\s]`)

// normalize lowercases, strips diacritics, and collapses non-word
// characters to spaces, matching the source validator's normalization.
func normalize(s string) string {
	s = strings.ToLower(s)
	s = stripDiacritics(s)
	s = nonWordRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

func stripDiacritics(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', unicode.IsSpace(r):
			b.WriteRune(r)
		default:
			if repl, ok := diacriticFold[r]; ok {
				b.WriteRune(repl)
			} else if r < unicode.MaxASCII {
				b.WriteRune(r)
			} else {
				b.WriteRune(' ')
			}
		}
	}
	return b.String()
}

var diacriticFold = map[rune]rune{
	'à': 'a', 'â': 'a', 'ä': 'a', 'á': 'a',
	'é': 'e', 'è': 'e', 'ê': 'e', 'ë': 'e',
	'î': 'i', 'ï': 'i', 'í': 'i',
	'ô': 'o', 'ö': 'o', 'ó': 'o',
	'ù': 'u', 'û': 'u', 'ü': 'u', 'ú': 'u',
	'ç': 'c', 'ñ': 'n',
	'œ': 'o', // coarse fold of the "oe" ligature: "œuf" becomes "ouf", matching keywords written with "œ" (not ones spelled "oeuf")
}

func findKeywords(normalized string, keywords []string) []string {
	var found []string
	for _, kw := range keywords {
		if strings.Contains(normalized, normalize(kw)) {
			found = append(found, kw)
		}
	}
	return found
}

func keywordsFor(lang string, table map[string][]string) []string {
	if kws, ok := table[lang]; ok {
		return kws
	}
	return table["en"]
}

// Evaluate decides whether query is in-domain.
func (g *Gate) Evaluate(ctx context.Context, query domain.Query) Result {
	normalized := normalize(query.Text)
	wordCount := len(strings.Fields(normalized))

	if wordCount == 0 {
		return Result{Accepted: false, Confidence: 0, RejectionReason: "empty_query"}
	}

	agriHits := findKeywords(normalized, keywordsFor(query.Language, agriKeywords))
	nonAgriHits := findKeywords(normalized, keywordsFor(query.Language, nonAgriKeywords))

	agriRatio := float64(len(agriHits)) / float64(wordCount)
	confidence := agriRatio*100 + float64(len(agriHits))*15
	if confidence > 100 {
		confidence = 100
	}
	penalty := float64(len(nonAgriHits)) * 25
	if penalty > 75 {
		penalty = 75
	}
	confidence -= penalty
	if confidence < 0 {
		confidence = 0
	}

	var result Result
	switch {
	case len(nonAgriHits) > 0 && len(agriHits) == 0:
		result = Result{Accepted: false, Confidence: 0, RejectionReason: "non_agricultural"}
	case len(agriHits) > 0:
		result = Result{Accepted: true, Confidence: confidence}
	case confidence >= g.cfg.Threshold:
		result = Result{Accepted: true, Confidence: confidence}
	default:
		result = Result{Accepted: false, Confidence: confidence, RejectionReason: "too_general"}
	}

	if !result.Accepted {
		g.log.Info().
			Str("reason", result.RejectionReason).
			Float64("confidence", result.Confidence).
			Int("agri_hits", len(agriHits)).
			Int("non_agri_hits", len(nonAgriHits)).
			Msg("domain gate rejected query")
		if g.audit != nil {
			_ = g.audit.RecordRejection(ctx, RejectionRecord{
				Query:       query.Text,
				Language:    query.Language,
				Reason:      result.RejectionReason,
				Confidence:  result.Confidence,
				AgriHits:    agriHits,
				NonAgriHits: nonAgriHits,
			})
		}
	}

	return result
}
