package timeentry

import "strings"

// Entry is one timesheet row, either scraped from the grid or replayed into the
// entry form. JSON names follow what the calling process sends and expects.
type Entry struct {
	ClientID string   `json:"id,omitempty"`
	Date     string   `json:"Date"`
	Project  string   `json:"Project"`
	Activity string   `json:"Activity"`
	WorkItem string   `json:"WorkItem"`
	Hours    *float64 `json:"Hours,omitempty"`
	Comment  string   `json:"Comment"`
}

// Key identifies an entry within one scrape session.
type Key struct {
	Date     string
	Project  string
	Activity string
	WorkItem string
}

func (e Entry) Key() Key {
	return Key{
		Date:     e.Date,
		Project:  e.Project,
		Activity: e.Activity,
		WorkItem: e.WorkItem,
	}
}

func (k Key) String() string {
	return strings.Join([]string{k.Date, k.Project, k.Activity, k.WorkItem}, "/")
}

// KeySet tracks keys already collected in a session.
type KeySet map[Key]struct{}

// Add records key and reports whether it was not present before.
func (s KeySet) Add(key Key) bool {
	if _, exists := s[key]; exists {
		return false
	}
	s[key] = struct{}{}
	return true
}

func HoursPtr(value float64) *float64 {
	out := value
	return &out
}
