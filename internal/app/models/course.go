package models

// NoInstructors is the single-entry marker for a feed section with no
// assigned instructors. It keeps an unstaffed section distinguishable
// from a failed fetch, which returns no data at all.
const NoInstructors = "--"

// Course represents one course as returned by the schedule feed.
// Courses are immutable once fetched and are rebuilt on every cache refresh.
type Course struct {
	Code     string    `json:"code"`
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// Section represents one section of a feed course. SectionID is the
// reconciliation join key and stays stable across fetches of the same
// scope as long as term, course code and section number are unchanged.
type Section struct {
	Number      string   `json:"number"`
	SectionID   string   `json:"sectionId"`
	Instructors []string `json:"instructors"`
}

// CatalogSection is one entry of the flattened per-scope catalog mapping,
// keyed by SectionID. It carries everything the reconciliation engine
// writes onto a local record.
type CatalogSection struct {
	SectionID     string   `json:"sectionId"`
	CourseCode    string   `json:"courseCode"`
	CourseTitle   string   `json:"courseTitle"`
	SectionNumber string   `json:"sectionNumber"`
	Instructors   []string `json:"instructors"`
}
