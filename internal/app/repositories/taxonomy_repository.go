package repositories

import (
	"context"
	"fmt"

	"github.com/clasit/syllabus-manager/internal/app/models"
	"github.com/clasit/syllabus-manager/internal/db"
)

// TaxonomyRepository handles database operations for taxonomy terms
type TaxonomyRepository struct {
	db *db.PostgresDB
}

// NewTaxonomyRepository creates a new taxonomy repository
func NewTaxonomyRepository(database *db.PostgresDB) *TaxonomyRepository {
	return &TaxonomyRepository{
		db: database,
	}
}

// Upsert inserts a term or refreshes an existing one. Slug uniqueness is
// enforced per taxonomy by the store; re-importing a slug updates in place
// and never duplicates.
func (r *TaxonomyRepository) Upsert(ctx context.Context, term *models.TaxonomyTerm) error {
	query := `
		INSERT INTO taxonomy_terms (taxonomy, slug, name, description)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (taxonomy, slug)
		DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description
		RETURNING id
	`

	err := r.db.Pool.QueryRow(ctx, query,
		term.Taxonomy, term.Slug, term.Name, term.Description).Scan(&term.ID)
	if err != nil {
		return fmt.Errorf("error upserting taxonomy term: %w", err)
	}

	return nil
}

// ListByTaxonomy retrieves all terms of one taxonomy ordered by name
func (r *TaxonomyRepository) ListByTaxonomy(ctx context.Context, taxonomy models.Taxonomy) ([]*models.TaxonomyTerm, error) {
	query := `
		SELECT id, taxonomy, slug, name, description
		FROM taxonomy_terms
		WHERE taxonomy = $1
		ORDER BY name
	`

	rows, err := r.db.Pool.Query(ctx, query, taxonomy)
	if err != nil {
		return nil, fmt.Errorf("error listing taxonomy terms: %w", err)
	}
	defer rows.Close()

	var terms []*models.TaxonomyTerm
	for rows.Next() {
		var term models.TaxonomyTerm
		if err := rows.Scan(
			&term.ID,
			&term.Taxonomy,
			&term.Slug,
			&term.Name,
			&term.Description,
		); err != nil {
			return nil, fmt.Errorf("error scanning taxonomy term: %w", err)
		}
		terms = append(terms, &term)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return terms, nil
}
