package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/clasit/syllabus-manager/internal/app/models"
	"github.com/clasit/syllabus-manager/internal/app/repositories"
	"github.com/clasit/syllabus-manager/internal/pkg/apperrors"
	"github.com/clasit/syllabus-manager/internal/pkg/logger"
)

// SectionStore is the slice of the document store the reconciliation
// engine drives.
type SectionStore interface {
	Create(ctx context.Context, section *models.CourseSection, scope models.Scope) error
	Update(ctx context.Context, section *models.CourseSection) error
	FindRefsByScope(ctx context.Context, scope models.Scope) ([]models.SectionRef, error)
}

// CatalogSource is the cached view of the external feed.
type CatalogSource interface {
	Get(ctx context.Context, scope models.Scope, overrides map[string]string) (map[string]models.CatalogSection, error)
	Courses(ctx context.Context, scope models.Scope, overrides map[string]string) ([]models.Course, error)
}

// SyncResult is the aggregate outcome of one batch pass. Every item is
// attempted; failures are counted, not fatal.
type SyncResult struct {
	Created int
	Updated int
	Failed  int
	Message string
}

// SyncService reconciles locally persisted section records against the
// cached external catalog for one scope at a time.
type SyncService struct {
	sections SectionStore
	catalog  CatalogSource
}

// NewSyncService creates a new sync service instance
func NewSyncService(sections SectionStore, catalog CatalogSource) *SyncService {
	return &SyncService{
		sections: sections,
		catalog:  catalog,
	}
}

func validateScope(scope models.Scope) error {
	if strings.TrimSpace(scope.Term) == "" ||
		strings.TrimSpace(scope.Department) == "" ||
		strings.TrimSpace(scope.Level) == "" {
		return fmt.Errorf("%w: term, department and level are required", apperrors.ErrValidationFailed)
	}
	return nil
}

// Match answers "which existing records does the feed still confirm": the
// intersection of locally stored section IDs with the scope's current
// catalog mapping, as sectionID → local record ID. Records absent from the
// feed and feed sections with no local record are both excluded.
func (s *SyncService) Match(ctx context.Context, scope models.Scope) (map[string]int64, error) {
	if err := validateScope(scope); err != nil {
		return nil, err
	}

	external, err := s.catalog.Get(ctx, scope, nil)
	if err != nil {
		return nil, err
	}

	refs, err := s.sections.FindRefsByScope(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("error querying local records: %w", err)
	}

	return matchRefs(refs, external), nil
}

// matchRefs intersects local record refs with the external mapping.
func matchRefs(refs []models.SectionRef, external map[string]models.CatalogSection) map[string]int64 {
	matched := make(map[string]int64)
	for _, ref := range refs {
		if _, ok := external[ref.SectionID]; ok {
			matched[ref.SectionID] = ref.ID
		}
	}
	return matched
}

// UpdateCourses overwrites every matched local record with the external
// record's current fields. A single record's failure is logged and the
// batch continues; there is no transaction spanning the batch.
func (s *SyncService) UpdateCourses(ctx context.Context, scope models.Scope) (*SyncResult, error) {
	if err := validateScope(scope); err != nil {
		return nil, err
	}

	external, err := s.catalog.Get(ctx, scope, nil)
	if err != nil {
		return nil, err
	}

	refs, err := s.sections.FindRefsByScope(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("error querying local records: %w", err)
	}

	result := &SyncResult{}
	for sectionID, recordID := range matchRefs(refs, external) {
		ext := external[sectionID]
		section := &models.CourseSection{
			ID:            recordID,
			SectionID:     sectionID,
			CourseCode:    ext.CourseCode,
			CourseTitle:   ext.CourseTitle,
			SectionNumber: ext.SectionNumber,
			Instructors:   ext.Instructors,
		}

		if err := s.sections.Update(ctx, section); err != nil {
			logger.Error().Err(err).Str("sectionId", sectionID).Int64("recordId", recordID).Msg("Failed to update section record")
			result.Failed++
			continue
		}
		logger.Info().Str("sectionId", sectionID).Int64("recordId", recordID).Msg("Updated section record")
		result.Updated++
	}

	result.Message = fmt.Sprintf("Updated %d section(s), %d failed", result.Updated, result.Failed)
	return result, nil
}

// CreateCourses populates a scope for the first time: one record per feed
// course, using only the course's first section. Additional sections are
// skipped on creation even though Update handles them once matched; tests
// pin this asymmetry. Insert failures are logged per record and the batch
// continues.
func (s *SyncService) CreateCourses(ctx context.Context, scope models.Scope) (*SyncResult, error) {
	if err := validateScope(scope); err != nil {
		return nil, err
	}

	courses, err := s.catalog.Courses(ctx, scope, nil)
	if err != nil {
		return nil, err
	}

	// TODO: retire local records that have disappeared from the feed
	result := &SyncResult{}
	for _, course := range courses {
		if len(course.Sections) == 0 {
			continue
		}
		first := course.Sections[0]
		section := &models.CourseSection{
			SectionID:     first.SectionID,
			CourseCode:    course.Code,
			CourseTitle:   course.Title,
			SectionNumber: first.Number,
			Instructors:   first.Instructors,
		}

		if err := s.sections.Create(ctx, section, scope); err != nil {
			if errors.Is(err, repositories.ErrSectionAlreadyExists) {
				logger.Warn().Str("sectionId", first.SectionID).Msg("Section record already exists, skipping")
			} else {
				logger.Error().Err(err).Str("sectionId", first.SectionID).Msg("Failed to insert section record")
			}
			result.Failed++
			continue
		}
		logger.Info().Str("sectionId", first.SectionID).Int64("recordId", section.ID).Msg("Inserted section record")
		result.Created++
	}

	result.Message = fmt.Sprintf("Created %d section(s), %d failed", result.Created, result.Failed)
	return result, nil
}
