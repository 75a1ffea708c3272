package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

var demoCategories = []string{"Club Jerseys", "National Team Jerseys", "Retro Jerseys"}

type demoArticle struct {
	code     string
	name     string
	team     string
	season   string
	size     string
	category string
	stock    int
}

var demoArticles = []demoArticle{
	{"PSG-001-L", "PSG Home Jersey", "Paris Saint-Germain", "2024/25", "L", "Club Jerseys", 3},
	{"RMA-002-M", "Real Madrid Away Jersey", "Real Madrid", "2024/25", "M", "Club Jerseys", 2},
	{"ARG-003-S", "Argentina Home Jersey", "Argentina", "2024", "S", "National Team Jerseys", 5},
}

// SeedDemo fills the catalog with a small demo data set for local
// development. All inserts are idempotent.
func SeedDemo(ctx context.Context, db *pgxpool.Pool) error {
	for _, name := range demoCategories {
		_, err := db.Exec(ctx, `INSERT INTO categories (name, active)
			SELECT $1, TRUE
			WHERE NOT EXISTS (SELECT 1 FROM categories WHERE name = $1)`, name)
		if err != nil {
			return fmt.Errorf("failed to insert category %q: %w", name, err)
		}
	}
	log.Printf("  - %d demo categories ensured", len(demoCategories))

	for _, a := range demoArticles {
		_, err := db.Exec(ctx, `INSERT INTO articles
			(code, name, team, season, size, category_id, article_state_id, stock, active)
			VALUES ($1, $2, $3, $4, $5,
				(SELECT id FROM categories WHERE name = $6),
				(SELECT id FROM article_states WHERE code = 'AVAILABLE'),
				$7, TRUE)
			ON CONFLICT (code) DO NOTHING`,
			a.code, a.name, a.team, a.season, a.size, a.category, a.stock)
		if err != nil {
			return fmt.Errorf("failed to insert article %q: %w", a.code, err)
		}
	}
	log.Printf("  - %d demo articles ensured", len(demoArticles))
	return nil
}
