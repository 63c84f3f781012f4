package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/clasit/syllabus-manager/internal/app/models"
	"github.com/clasit/syllabus-manager/internal/pkg/apperrors"
)

// Client fetches course data from the schedule-of-courses feed. The feed
// protocol is a fixed contract: a parameterized GET returning a JSON array
// whose first element carries the COURSES field.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a feed client with a bounded request timeout.
// A timed-out request surfaces as a fetch failure like any other
// transport error.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// defaultQuery returns the full filter set the feed expects. Values mirror
// the feed's own sentinels: empty strings, literal "false"/"true" flags and
// "--" for the unset level bounds.
func defaultQuery() url.Values {
	return url.Values{
		"category":      {"RES"},
		"course-code":   {""},
		"course-title":  {""},
		"cred-srch":     {""},
		"credits":       {""},
		"day-f":         {""},
		"day-m":         {""},
		"day-r":         {""},
		"day-s":         {""},
		"day-t":         {""},
		"day-w":         {""},
		"days":          {"false"},
		"dept":          {""},
		"eep":           {""},
		"fitsSchedule":  {"false"},
		"ge":            {""},
		"ge-b":          {""},
		"ge-c":          {""},
		"ge-h":          {""},
		"ge-m":          {""},
		"ge-n":          {""},
		"ge-p":          {""},
		"ge-s":          {""},
		"instructor":    {""},
		"last-row":      {"0"},
		"level-max":     {"--"},
		"level-min":     {"--"},
		"no-open-seats": {"false"},
		"online-a":      {""},
		"online-b":      {""},
		"online-c":      {""},
		"online-e":      {""},
		"online-h":      {""},
		"online-p":      {""},
		"prog-level":    {""},
		"term":          {""},
		"var-cred":      {"true"},
		"writing":       {""},
	}
}

// Feed wire shapes. The envelope is an array of mixed element types; only
// element 0 is specified, so the rest is left raw.
type feedCourse struct {
	Code     string        `json:"code"`
	Name     string        `json:"name"`
	Sections []feedSection `json:"sections"`
}

type feedSection struct {
	Number      string           `json:"number"`
	Instructors []feedInstructor `json:"instructors"`
}

type feedInstructor struct {
	Name string `json:"name"`
}

// Fetch retrieves the course list for one scope. Overrides merge onto the
// default filter set and may replace any default; unrecognized keys are
// passed through untouched. Every failure mode collapses into
// apperrors.ErrFetchFailed with no partial result.
func (c *Client) Fetch(ctx context.Context, scope models.Scope, overrides map[string]string) ([]models.Course, error) {
	query := defaultQuery()
	query.Set("term", scope.Term)
	query.Set("dept", scope.Department)
	query.Set("prog-level", scope.Level)
	for key, value := range overrides {
		query.Set(key, value)
	}

	requestURL := c.baseURL + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", apperrors.ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", apperrors.ErrFetchFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status=%d", apperrors.ErrFetchFailed, resp.StatusCode)
	}

	courses, err := parseEnvelope(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFetchFailed, err)
	}

	return normalizeCourses(scope, courses), nil
}

// parseEnvelope extracts element 0's COURSES array. Anything else is a
// parse failure, never an empty success.
func parseEnvelope(body []byte) ([]feedCourse, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(body, &elements); err != nil {
		return nil, fmt.Errorf("decoding response envelope: %v", err)
	}
	if len(elements) == 0 {
		return nil, fmt.Errorf("response envelope is empty")
	}

	var head struct {
		Courses []feedCourse `json:"COURSES"`
	}
	if err := json.Unmarshal(elements[0], &head); err != nil {
		return nil, fmt.Errorf("decoding COURSES element: %v", err)
	}
	if head.Courses == nil {
		return nil, fmt.Errorf("response has no COURSES field")
	}

	return head.Courses, nil
}

// normalizeCourses converts wire courses into domain records, deriving each
// section's join key and reformatting instructor display names. Feed order
// is preserved.
func normalizeCourses(scope models.Scope, courses []feedCourse) []models.Course {
	out := make([]models.Course, 0, len(courses))
	for _, fc := range courses {
		course := models.Course{
			Code:     fc.Code,
			Title:    fc.Name,
			Sections: make([]models.Section, 0, len(fc.Sections)),
		}
		for _, fs := range fc.Sections {
			course.Sections = append(course.Sections, models.Section{
				Number:      fs.Number,
				SectionID:   models.SectionID(scope.Term, fc.Code, fs.Number),
				Instructors: normalizeInstructors(fs.Instructors),
			})
		}
		out = append(out, course)
	}
	return out
}

// normalizeInstructors rewrites "Last, First Middle" display names to
// "First Middle Last". Names without the comma pattern pass through; an
// empty list yields the no-instructors marker.
func normalizeInstructors(instructors []feedInstructor) []string {
	if len(instructors) == 0 {
		return []string{models.NoInstructors}
	}
	out := make([]string, 0, len(instructors))
	for _, inst := range instructors {
		out = append(out, formatInstructorName(inst.Name))
	}
	return out
}

func formatInstructorName(name string) string {
	last, rest, found := strings.Cut(name, ", ")
	if !found || last == "" || rest == "" {
		return name
	}
	return rest + " " + last
}
