package perfstore

import (
	"context"
	"fmt"
)

// Catalog returns the distinct (species, line) pairs currently loaded in
// the performance tables, formatted as "species/line" strings. Used by
// C9's CLARIFY path so a clarifying question can name what's actually
// queryable instead of asking blind.
func (c *Client) Catalog(ctx context.Context) ([]string, error) {
	rows, err := c.pool.Query(ctx, `
SELECT DISTINCT strains.species, strains.name
FROM strains
ORDER BY strains.species, strains.name`)
	if err != nil {
		return nil, fmt.Errorf("query strain catalog: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var species, name string
		if err := rows.Scan(&species, &name); err != nil {
			return nil, fmt.Errorf("scan strain catalog row: %w", err)
		}
		out = append(out, species+"/"+name)
	}
	return out, rows.Err()
}
