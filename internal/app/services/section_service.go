package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/clasit/syllabus-manager/internal/app/models"
	"github.com/clasit/syllabus-manager/internal/app/repositories"
	"github.com/clasit/syllabus-manager/internal/pkg/apperrors"
	"github.com/clasit/syllabus-manager/internal/pkg/logger"
)

// SectionRecordStore is the single-record slice of the document store used
// outside the batch reconciliation paths.
type SectionRecordStore interface {
	Create(ctx context.Context, section *models.CourseSection, scope models.Scope) error
	GetByID(ctx context.Context, id int64) (*models.CourseSection, error)
	SetSyllabusPath(ctx context.Context, id int64, path *string) error
}

// FileStore stores and removes syllabus documents.
type FileStore interface {
	SaveFile(fileHeader *multipart.FileHeader, subPath string) (string, error)
	DeleteFile(relPath string) error
}

// SectionService manages individual section records and their attached
// syllabus documents.
type SectionService struct {
	sections SectionRecordStore
	files    FileStore
}

// NewSectionService creates a new section service instance
func NewSectionService(sections SectionRecordStore, files FileStore) *SectionService {
	return &SectionService{
		sections: sections,
		files:    files,
	}
}

// CreateSection inserts one section record from explicit data. The join
// key is derived from the scope term, course code and section number when
// not supplied.
func (s *SectionService) CreateSection(ctx context.Context, section *models.CourseSection, scope models.Scope) error {
	if err := validateScope(scope); err != nil {
		return err
	}
	if strings.TrimSpace(section.CourseCode) == "" ||
		strings.TrimSpace(section.CourseTitle) == "" ||
		strings.TrimSpace(section.SectionNumber) == "" {
		return fmt.Errorf("%w: course code, title and section number are required", apperrors.ErrValidationFailed)
	}

	if section.SectionID == "" {
		section.SectionID = models.SectionID(scope.Term, section.CourseCode, section.SectionNumber)
	}
	if len(section.Instructors) == 0 {
		section.Instructors = []string{models.NoInstructors}
	}

	if err := s.sections.Create(ctx, section, scope); err != nil {
		if errors.Is(err, repositories.ErrSectionAlreadyExists) {
			return apperrors.ErrSectionAlreadyExists
		}
		return fmt.Errorf("error creating section: %w", err)
	}

	logger.Info().Str("sectionId", section.SectionID).Int64("recordId", section.ID).Msg("Created section record")
	return nil
}

// GetSection retrieves one section record by local ID.
func (s *SectionService) GetSection(ctx context.Context, id int64) (*models.CourseSection, error) {
	section, err := s.sections.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrSectionNotFound) {
			return nil, apperrors.ErrSectionNotFound
		}
		return nil, fmt.Errorf("error retrieving section: %w", err)
	}
	return section, nil
}

// AttachSyllabus stores an uploaded syllabus document for a section and
// records its path, replacing any previous attachment.
func (s *SectionService) AttachSyllabus(ctx context.Context, id int64, fileHeader *multipart.FileHeader) (string, error) {
	section, err := s.GetSection(ctx, id)
	if err != nil {
		return "", err
	}

	path, err := s.files.SaveFile(fileHeader, "syllabi")
	if err != nil {
		return "", fmt.Errorf("error storing syllabus file: %w", err)
	}

	if err := s.sections.SetSyllabusPath(ctx, id, &path); err != nil {
		_ = s.files.DeleteFile(path)
		return "", fmt.Errorf("error recording syllabus path: %w", err)
	}

	// Previous attachment is orphaned once the record points elsewhere.
	if section.SyllabusPath != nil && *section.SyllabusPath != path {
		_ = s.files.DeleteFile(*section.SyllabusPath)
	}

	logger.Info().Int64("recordId", id).Str("path", path).Msg("Attached syllabus document")
	return path, nil
}

// DetachSyllabus removes a section's syllabus document and clears the
// stored path.
func (s *SectionService) DetachSyllabus(ctx context.Context, id int64) error {
	section, err := s.GetSection(ctx, id)
	if err != nil {
		return err
	}
	if section.SyllabusPath == nil {
		return apperrors.ErrNoSyllabus
	}

	if err := s.sections.SetSyllabusPath(ctx, id, nil); err != nil {
		return fmt.Errorf("error clearing syllabus path: %w", err)
	}
	if err := s.files.DeleteFile(*section.SyllabusPath); err != nil {
		logger.Warn().Err(err).Int64("recordId", id).Msg("Failed to delete detached syllabus file")
	}

	logger.Info().Int64("recordId", id).Msg("Detached syllabus document")
	return nil
}
