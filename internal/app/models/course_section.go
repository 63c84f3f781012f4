package models

import "time"

// CourseSection is one locally persisted section record. SectionID is
// denormalized onto the record and used as the reconciliation join key;
// CourseCode, CourseTitle and SectionNumber mirror the feed metadata.
type CourseSection struct {
	ID            int64     `json:"id" db:"id"`
	SectionID     string    `json:"sectionId" db:"section_id"`
	CourseCode    string    `json:"courseCode" db:"course_code"`
	CourseTitle   string    `json:"courseTitle" db:"course_title"`
	SectionNumber string    `json:"sectionNumber" db:"section_number"`
	Instructors   []string  `json:"instructors" db:"instructors"`
	SyllabusPath  *string   `json:"syllabusPath,omitempty" db:"syllabus_path"` // Nullable
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// SectionRef is the minimal projection used by the reconciliation match:
// a record identifier plus its stored section ID.
type SectionRef struct {
	ID        int64  `json:"id" db:"id"`
	SectionID string `json:"sectionId" db:"section_id"`
}
