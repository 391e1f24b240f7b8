package perfstore

import (
	"context"
	"fmt"
	"strings"

	"poultryqa/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Client implements PerfStore (C5) over the relational pool.
type Client struct {
	pool *pgxpool.Pool
}

// NewClient wraps an already-opened pool.
func NewClient(pool *pgxpool.Pool) *Client {
	return &Client{pool: pool}
}

// Query executes q against the performance tables and returns the matching
// rows plus a row-count-derived confidence.
//
// Schema (joined on strain and metric name): strains(id, name, species),
// metrics(id, name, unit), performance_rows(strain_id, metric_id, sex,
// age_days, value).
func (c *Client) Query(ctx context.Context, q domain.PerfQuery) (domain.PerfResult, error) {
	stmt, args := buildQuery(q)

	rows, err := c.pool.Query(ctx, stmt, args...)
	if err != nil {
		return domain.PerfResult{}, domain.NewPerfStoreBackend(domain.ComponentPerfStore, "query performance_rows", err)
	}
	defer rows.Close()

	var result []domain.PerfRow
	for rows.Next() {
		var r domain.PerfRow
		if err := rows.Scan(&r.Line, &r.Sex, &r.AgeDays, &r.Metric, &r.Value, &r.Unit); err != nil {
			return domain.PerfResult{}, domain.NewPerfStoreBackend(domain.ComponentPerfStore, "scan performance row", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return domain.PerfResult{}, domain.NewPerfStoreBackend(domain.ComponentPerfStore, "iterate performance rows", err)
	}

	if len(result) == 0 {
		return domain.PerfResult{}, domain.NewPerfStoreEmpty(domain.ComponentPerfStore)
	}

	return domain.PerfResult{Rows: result, Confidence: confidenceFor(len(result))}, nil
}

// buildQuery renders q into a parameterized SQL statement and its argument
// list. Missing optional fields are simply omitted from the WHERE clause
// (wildcards); age_range expands to BETWEEN.
func buildQuery(q domain.PerfQuery) (string, []any) {
	where := make([]string, 0, 5)
	args := make([]any, 0, 5)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.Species != "" {
		where = append(where, "strains.species ILIKE "+arg(q.Species))
	}
	if q.Line != "" {
		where = append(where, "strains.name ILIKE "+arg("%"+q.Line+"%"))
	}
	if q.Sex != "" {
		where = append(where, "performance_rows.sex = "+arg(string(q.Sex)))
	}
	switch {
	case q.AgeRange != nil:
		where = append(where, "performance_rows.age_days BETWEEN "+arg(q.AgeRange.Min)+" AND "+arg(q.AgeRange.Max))
	case q.AgeDays != nil:
		where = append(where, "performance_rows.age_days = "+arg(*q.AgeDays))
	}
	if len(q.Metrics) > 0 {
		placeholders := make([]string, len(q.Metrics))
		for i, m := range q.Metrics {
			placeholders[i] = arg(m)
		}
		where = append(where, "metrics.name IN ("+strings.Join(placeholders, ",")+")")
	}

	stmt := `
SELECT strains.name, performance_rows.sex, performance_rows.age_days,
       metrics.name, performance_rows.value, metrics.unit
FROM performance_rows
JOIN strains ON strains.id = performance_rows.strain_id
JOIN metrics ON metrics.id = performance_rows.metric_id`
	if len(where) > 0 {
		stmt += "\nWHERE " + strings.Join(where, " AND ")
	}
	stmt += "\nORDER BY performance_rows.age_days, metrics.name"

	return stmt, args
}

// confidenceFor applies the row-count confidence formula.
func confidenceFor(rowCount int) float64 {
	n := rowCount
	if n > 8 {
		n = 8
	}
	c := float64(2+n) / 10
	if c > 1.0 {
		c = 1.0
	}
	return c
}
