package ingest

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/pathways/internal/catalog"
)

// Course CSV columns.
const (
	colCourseID   = "CourseId"
	colCourseName = "Course Name"
	colProvider   = "Provider"
	colLevel      = "Course Level"
	colPathway    = "Pathway"
	colLink       = "Link"
	colDesc       = "Description"
	colQualType   = "Qualification Type"
)

// Connection CSV columns.
const (
	colConnectionID = "ConnectionId"
	colFromID       = "FromCourseID"
	colToID         = "ToCourseID"
	colNotes        = "Notes"
)

// KSB CSV columns.
const (
	colKnowledge  = "KnowledgeAreas"
	colSkills     = "SkillsAreas"
	colBehaviours = "Behaviours"
	colStandards  = "OccupationalStandards"
	colCareers    = "CareerPathways"
	colConfidence = "OverallConfidenceScore"
	colNotesKSB   = "AnalysisNotes"
	colProcessed  = "ProcessedDate"
	colSourceURL  = "SourceURL"
	colResponse   = "StandardizedResponse"
)

// rawConnection is a connection row before endpoint validation. Endpoint
// ids that failed to parse are nil.
type rawConnection struct {
	line  int
	id    int
	from  *int
	to    *int
	notes string
	fromS string
	toS   string
}

// parseCourses reads the course CSV. Rows without a numeric id or level,
// or without a name, are rejected.
func parseCourses(r io.Reader) ([]catalog.Course, []Rejection, error) {
	records, err := readRecords(r)
	if err != nil {
		return nil, nil, fmt.Errorf("courses: %w", err)
	}

	var (
		courses  []catalog.Course
		rejected []Rejection
	)
	for _, rec := range records {
		id, err := rec.int(colCourseID)
		if err != nil {
			rejected = append(rejected, Rejection{File: "courses", Line: rec.line, Reason: err.Error()})
			continue
		}
		level, err := rec.int(colLevel)
		if err != nil {
			rejected = append(rejected, Rejection{File: "courses", Line: rec.line, Reason: err.Error()})
			continue
		}
		name := rec.get(colCourseName)
		if name == "" {
			rejected = append(rejected, Rejection{File: "courses", Line: rec.line, Reason: "missing course name"})
			continue
		}
		courses = append(courses, catalog.Course{
			ID:                id,
			Name:              name,
			Provider:          rec.get(colProvider),
			Level:             level,
			SubjectArea:       rec.get(colPathway),
			Description:       rec.get(colDesc),
			QualificationType: rec.get(colQualType),
			URL:               rec.get(colLink),
		})
	}
	return courses, rejected, nil
}

// parseConnections reads the connection CSV. Ids are taken from the
// ConnectionId column when present, otherwise assigned by row order.
func parseConnections(r io.Reader) ([]rawConnection, error) {
	records, err := readRecords(r)
	if err != nil {
		return nil, fmt.Errorf("connections: %w", err)
	}

	raws := make([]rawConnection, 0, len(records))
	for i, rec := range records {
		rc := rawConnection{
			line:  rec.line,
			id:    i + 1,
			notes: rec.get(colNotes),
			fromS: rec.get(colFromID),
			toS:   rec.get(colToID),
		}
		if id, err := rec.int(colConnectionID); err == nil {
			rc.id = id
		}
		if n, err := strconv.Atoi(rc.fromS); err == nil {
			rc.from = &n
		}
		if n, err := strconv.Atoi(rc.toS); err == nil {
			rc.to = &n
		}
		raws = append(raws, rc)
	}
	return raws, nil
}

// parseKSB reads the enrichment CSV. Rows with a non-numeric course id are
// skipped; malformed list columns become empty lists.
func parseKSB(r io.Reader) ([]catalog.KSB, []Rejection, error) {
	records, err := readRecords(r)
	if err != nil {
		return nil, nil, fmt.Errorf("ksb: %w", err)
	}

	var (
		out      []catalog.KSB
		rejected []Rejection
	)
	for _, rec := range records {
		id, err := rec.int(colCourseID)
		if err != nil {
			rejected = append(rejected, Rejection{File: "ksb", Line: rec.line, Reason: err.Error()})
			continue
		}
		k := catalog.KSB{
			CourseID:              id,
			Pathway:               rec.get(colPathway),
			KnowledgeAreas:        catalog.ParseItems(rec.get(colKnowledge)),
			SkillsAreas:           catalog.ParseItems(rec.get(colSkills)),
			Behaviours:            catalog.ParseItems(rec.get(colBehaviours)),
			OccupationalStandards: catalog.ParseStandards(rec.get(colStandards)),
			CareerPathways:        catalog.ParseCareers(rec.get(colCareers)),
			AnalysisNotes:         rec.get(colNotesKSB),
			SourceURL:             rec.get(colSourceURL),
			StandardizedResponse:  rec.get(colResponse),
		}
		if n, err := rec.int(colConfidence); err == nil {
			k.OverallConfidence = n
		}
		if t, ok := parseDate(rec.get(colProcessed)); ok {
			k.ProcessedDate = &t
		}
		out = append(out, k)
	}
	return out, rejected, nil
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
