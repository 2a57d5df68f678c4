package catalog

import "strconv"

// Course is one educational offering, a node in the progression graph.
type Course struct {
	ID                int    `json:"courseId"`
	Name              string `json:"courseName"`
	Provider          string `json:"provider"`
	Level             int    `json:"level"`
	SubjectArea       string `json:"subjectArea,omitempty"`
	Description       string `json:"description,omitempty"`
	QualificationType string `json:"qualificationType,omitempty"`
	URL               string `json:"courseUrl,omitempty"`
}

// Tooltip returns the one-line summary shown when hovering a graph node.
func (c Course) Tooltip() string {
	return c.Provider + " - " + c.Name + " (Level " + strconv.Itoa(c.Level) + ")"
}

// Connection is a directed "leads to" edge between two courses.
type Connection struct {
	ID           int    `json:"connectionId"`
	FromCourseID int    `json:"fromCourseId"`
	ToCourseID   int    `json:"toCourseId"`
	Notes        string `json:"notes,omitempty"`
}

// IsSelfLoop reports whether the connection points back at its own course.
func (c Connection) IsSelfLoop() bool {
	return c.FromCourseID == c.ToCourseID
}

// Route pairs a connection with the full record of its other endpoint:
// the target for outgoing queries, the source for incoming ones.
type Route struct {
	Connection Connection `json:"connection"`
	Course     Course     `json:"course"`
}

// ConnectionDetail is a connection with both endpoint courses resolved.
type ConnectionDetail struct {
	Connection
	FromCourse *Course `json:"fromCourse,omitempty"`
	ToCourse   *Course `json:"toCourse,omitempty"`
}

// Dataset is everything a single ingestion run produces.
type Dataset struct {
	Courses     []Course
	Connections []Connection
	KSB         []KSB
}
