package dto

// ScopeRequest selects one catalog slice for a sync operation.
type ScopeRequest struct {
	Semester   string `json:"semester" form:"semester" binding:"required"`
	Department string `json:"department" form:"department" binding:"required"`
	Level      string `json:"level" form:"level" binding:"required"`
}

// SyncResultResponse is the aggregate outcome of a batch create or update.
// Every item is attempted; Failed counts the records whose write was logged
// and skipped, there is no partial rollback.
type SyncResultResponse struct {
	Created int    `json:"created,omitempty"`
	Updated int    `json:"updated,omitempty"`
	Failed  int    `json:"failed"`
	Message string `json:"message"`
}

// MatchResponse maps confirmed section IDs to their local record IDs.
type MatchResponse struct {
	Matched map[string]int64 `json:"matched"`
	Count   int              `json:"count"`
}

// ImportResultResponse is the aggregate outcome of a taxonomy filter import.
type ImportResultResponse struct {
	Imported int    `json:"imported"`
	Message  string `json:"message"`
}

// CreateSectionRequest creates a single section record from explicit data,
// outside the feed-driven create path.
type CreateSectionRequest struct {
	CourseCode    string   `json:"courseCode" binding:"required"`
	CourseTitle   string   `json:"courseTitle" binding:"required"`
	SectionNumber string   `json:"sectionNumber" binding:"required"`
	Semester      string   `json:"semester" binding:"required"`
	Department    string   `json:"department" binding:"required"`
	Level         string   `json:"level" binding:"required"`
	Instructors   []string `json:"instructors"`
}
