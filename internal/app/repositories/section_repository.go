package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/clasit/syllabus-manager/internal/app/models"
	"github.com/clasit/syllabus-manager/internal/db"
	"github.com/clasit/syllabus-manager/internal/pkg/dberrors"
)

// Section error types
var (
	ErrSectionNotFound      = errors.New("course section not found")
	ErrSectionAlreadyExists = errors.New("course section with this section ID already exists")
	ErrTermNotFound         = errors.New("taxonomy term not found")
)

// SectionRepository handles database operations for persisted course sections
type SectionRepository struct {
	db *db.PostgresDB
}

// NewSectionRepository creates a new section repository
func NewSectionRepository(database *db.PostgresDB) *SectionRepository {
	return &SectionRepository{
		db: database,
	}
}

// Create inserts a new section record and attaches its semester, department
// and level tags. Record and tags land atomically; separate records are
// never part of one transaction.
func (r *SectionRepository) Create(ctx context.Context, section *models.CourseSection, scope models.Scope) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		query := `
			INSERT INTO course_sections (section_id, course_code, course_title, section_number, instructors)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at
		`

		err := tx.QueryRow(ctx, query,
			section.SectionID,
			section.CourseCode,
			section.CourseTitle,
			section.SectionNumber,
			section.Instructors,
		).Scan(&section.ID, &section.CreatedAt, &section.UpdatedAt)
		if err != nil {
			if dberrors.IsUniqueViolation(err) {
				return ErrSectionAlreadyExists
			}
			return fmt.Errorf("error inserting section: %w", err)
		}

		tags := map[models.Taxonomy]string{
			models.TaxonomySemester:   scope.Term,
			models.TaxonomyDepartment: scope.Department,
			models.TaxonomyLevel:      scope.Level,
		}
		for taxonomy, slug := range tags {
			if err := attachTerm(ctx, tx, section.ID, taxonomy, slug); err != nil {
				return err
			}
		}
		return nil
	})
}

// attachTerm links a section record to one taxonomy term by slug.
func attachTerm(ctx context.Context, tx pgx.Tx, sectionID int64, taxonomy models.Taxonomy, slug string) error {
	var termID int64
	err := tx.QueryRow(ctx,
		`SELECT id FROM taxonomy_terms WHERE taxonomy = $1 AND slug = $2`,
		taxonomy, slug).Scan(&termID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %s %q", ErrTermNotFound, taxonomy, slug)
		}
		return fmt.Errorf("error resolving taxonomy term: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO section_terms (section_id, term_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		sectionID, termID)
	if err != nil {
		return fmt.Errorf("error attaching taxonomy term: %w", err)
	}
	return nil
}

// Update overwrites a record's feed-sourced fields and its denormalized
// metadata by local record ID.
func (r *SectionRepository) Update(ctx context.Context, section *models.CourseSection) error {
	query := `
		UPDATE course_sections
		SET course_code = $1, course_title = $2, section_number = $3, instructors = $4, updated_at = NOW()
		WHERE id = $5
	`

	cmdTag, err := r.db.Pool.Exec(ctx, query,
		section.CourseCode,
		section.CourseTitle,
		section.SectionNumber,
		section.Instructors,
		section.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating section: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrSectionNotFound
	}

	return nil
}

// GetByID retrieves a section record by its local identifier
func (r *SectionRepository) GetByID(ctx context.Context, id int64) (*models.CourseSection, error) {
	query := `
		SELECT id, section_id, course_code, course_title, section_number, instructors, syllabus_path, created_at, updated_at
		FROM course_sections
		WHERE id = $1
	`

	var section models.CourseSection
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&section.ID,
		&section.SectionID,
		&section.CourseCode,
		&section.CourseTitle,
		&section.SectionNumber,
		&section.Instructors,
		&section.SyllabusPath,
		&section.CreatedAt,
		&section.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSectionNotFound
		}
		return nil, fmt.Errorf("error retrieving section: %w", err)
	}

	return &section, nil
}

// FindRefsByScope returns the identifier and stored section ID of every
// record tagged with the scope's semester AND department AND level terms.
func (r *SectionRepository) FindRefsByScope(ctx context.Context, scope models.Scope) ([]models.SectionRef, error) {
	query := `
		SELECT s.id, s.section_id
		FROM course_sections s
		JOIN section_terms st1 ON st1.section_id = s.id
		JOIN taxonomy_terms t1 ON t1.id = st1.term_id AND t1.taxonomy = 'semester' AND t1.slug = $1
		JOIN section_terms st2 ON st2.section_id = s.id
		JOIN taxonomy_terms t2 ON t2.id = st2.term_id AND t2.taxonomy = 'department' AND t2.slug = $2
		JOIN section_terms st3 ON st3.section_id = s.id
		JOIN taxonomy_terms t3 ON t3.id = st3.term_id AND t3.taxonomy = 'program-level' AND t3.slug = $3
	`

	rows, err := r.db.Pool.Query(ctx, query, scope.Term, scope.Department, scope.Level)
	if err != nil {
		return nil, fmt.Errorf("error querying sections by scope: %w", err)
	}
	defer rows.Close()

	var refs []models.SectionRef
	for rows.Next() {
		var ref models.SectionRef
		if err := rows.Scan(&ref.ID, &ref.SectionID); err != nil {
			return nil, fmt.Errorf("error scanning section ref: %w", err)
		}
		refs = append(refs, ref)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return refs, nil
}

// SetSyllabusPath records or clears the attached syllabus document path.
func (r *SectionRepository) SetSyllabusPath(ctx context.Context, id int64, path *string) error {
	cmdTag, err := r.db.Pool.Exec(ctx,
		`UPDATE course_sections SET syllabus_path = $1, updated_at = NOW() WHERE id = $2`,
		path, id)
	if err != nil {
		return fmt.Errorf("error setting syllabus path: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrSectionNotFound
	}

	return nil
}
