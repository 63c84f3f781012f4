package repositories

import (
	"github.com/clasit/syllabus-manager/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	SectionRepository  *SectionRepository
	TaxonomyRepository *TaxonomyRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		SectionRepository:  NewSectionRepository(database),
		TaxonomyRepository: NewTaxonomyRepository(database),
	}
}
