package models

// Taxonomy names a controlled vocabulary that section records are tagged with.
type Taxonomy string

const (
	TaxonomySemester   Taxonomy = "semester"
	TaxonomyDepartment Taxonomy = "department"
	TaxonomyLevel      Taxonomy = "program-level"
)

// TaxonomyTerm is one controlled-vocabulary entry. Slug is the stable code
// from the feed and is unique within its taxonomy; Name may be transformed
// for display while Description keeps the raw feed label.
type TaxonomyTerm struct {
	ID          int64    `json:"id" db:"id"`
	Taxonomy    Taxonomy `json:"taxonomy" db:"taxonomy"`
	Slug        string   `json:"slug" db:"slug"`
	Name        string   `json:"name" db:"name"`
	Description string   `json:"description" db:"description"`
}
