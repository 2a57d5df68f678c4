// Package ingest turns the course, connection and KSB CSV exports into a
// validated catalog.Dataset and swaps it into the store.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"go.uber.org/zap"

	"github.com/abhisek/pathways/internal/catalog"
)

// Rejection reasons for connection rows.
const (
	ReasonInvalidID = "invalid course id"
	ReasonNotFound  = "referenced course id not found"
	ReasonDuplicate = "duplicate connection"
)

// Default file names inside a data directory.
const (
	CoursesFile     = "courses.csv"
	ConnectionsFile = "connections.csv"
	KSBFile         = "ksb.csv"
)

// Rejection is one input row that was not loaded.
type Rejection struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Reason string `json:"reason"`
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
}

// Report summarises one ingestion run.
type Report struct {
	Courses     int         `json:"courses"`
	Connections int         `json:"connections"`
	KSB         int         `json:"ksbMappings"`
	Rejected    []Rejection `json:"rejected,omitempty"`
	Warnings    []string    `json:"warnings,omitempty"`
	MissingFrom []int       `json:"missingFrom,omitempty"`
	MissingTo   []int       `json:"missingTo,omitempty"`
}

// Files names the three input CSVs. KSB may be empty or point at a file
// that does not exist.
type Files struct {
	Courses     string
	Connections string
	KSB         string
}

// FilesIn returns the default file names inside dir.
func FilesIn(dir string) Files {
	return Files{
		Courses:     filepath.Join(dir, CoursesFile),
		Connections: filepath.Join(dir, ConnectionsFile),
		KSB:         filepath.Join(dir, KSBFile),
	}
}

// Read parses and validates all inputs into a Dataset.
func Read(files Files) (catalog.Dataset, Report, error) {
	var (
		ds     catalog.Dataset
		report Report
	)

	courses, rejected, err := readFile(files.Courses, parseCourses)
	if err != nil {
		return ds, report, err
	}
	report.Rejected = append(report.Rejected, rejected...)
	courses, dups := dedupeCourses(courses)
	report.Rejected = append(report.Rejected, dups...)

	raws, _, err := readFile(files.Connections, func(r io.Reader) ([]rawConnection, []Rejection, error) {
		raws, err := parseConnections(r)
		return raws, nil, err
	})
	if err != nil {
		return ds, report, err
	}

	conns := validateConnections(courses, raws, &report)

	var ksb []catalog.KSB
	if files.KSB != "" {
		ksb, rejected, err = readFile(files.KSB, parseKSB)
		switch {
		case errors.Is(err, os.ErrNotExist):
			report.Warnings = append(report.Warnings, "ksb file not found, loading without enrichment")
		case err != nil:
			return ds, report, err
		default:
			report.Rejected = append(report.Rejected, rejected...)
		}
	}

	ds = catalog.Dataset{Courses: courses, Connections: conns, KSB: ksb}
	report.Courses = len(courses)
	report.Connections = len(conns)
	report.KSB = len(ksb)
	return ds, report, nil
}

func readFile[T any](path string, parse func(io.Reader) ([]T, []Rejection, error)) ([]T, []Rejection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return parse(f)
}

// dedupeCourses keeps the first row for each course id.
func dedupeCourses(courses []catalog.Course) ([]catalog.Course, []Rejection) {
	seen := make(map[int]bool, len(courses))
	kept := courses[:0]
	var rejected []Rejection
	for _, c := range courses {
		if seen[c.ID] {
			rejected = append(rejected, Rejection{
				File:   "courses",
				Reason: fmt.Sprintf("duplicate course id %d", c.ID),
			})
			continue
		}
		seen[c.ID] = true
		kept = append(kept, c)
	}
	return kept, rejected
}

// validateConnections keeps rows whose endpoints parse and exist, drops
// repeated (from, to) pairs and warns on self-loops. Rejections and the
// distinct missing endpoint ids are recorded on report.
func validateConnections(courses []catalog.Course, raws []rawConnection, report *Report) []catalog.Connection {
	ids := make(map[int]bool, len(courses))
	for _, c := range courses {
		ids[c.ID] = true
	}

	type pair struct{ from, to int }
	seen := make(map[pair]int)
	missingFrom := make(map[int]bool)
	missingTo := make(map[int]bool)

	var conns []catalog.Connection
	for _, rc := range raws {
		reject := func(reason string) {
			report.Rejected = append(report.Rejected, Rejection{
				File: "connections", Line: rc.line, Reason: reason, From: rc.fromS, To: rc.toS,
			})
		}

		if rc.from == nil || rc.to == nil {
			reject(ReasonInvalidID)
			continue
		}
		from, to := *rc.from, *rc.to
		fromOK, toOK := ids[from], ids[to]
		if !fromOK {
			missingFrom[from] = true
		}
		if !toOK {
			missingTo[to] = true
		}
		if !fromOK || !toOK {
			reject(ReasonNotFound)
			continue
		}

		p := pair{from, to}
		if first, dup := seen[p]; dup {
			reject(fmt.Sprintf("%s of connection %d", ReasonDuplicate, first))
			continue
		}
		seen[p] = rc.id

		if from == to {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("connection %d (line %d) is a self-loop on course %d", rc.id, rc.line, from))
		}
		conns = append(conns, catalog.Connection{ID: rc.id, FromCourseID: from, ToCourseID: to, Notes: rc.notes})
	}

	report.MissingFrom = sortedKeys(missingFrom)
	report.MissingTo = sortedKeys(missingTo)
	return conns
}

func sortedKeys(m map[int]bool) []int {
	if len(m) == 0 {
		return nil
	}
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Replacer atomically swaps the stored dataset.
type Replacer interface {
	Replace(ctx context.Context, ds catalog.Dataset) error
}

// Loader runs ingestion into a store.
type Loader struct {
	store  Replacer
	logger *zap.Logger
}

// NewLoader returns a Loader writing to store.
func NewLoader(store Replacer, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{store: store, logger: logger}
}

// Run reads, validates and stores the dataset. Nothing is written when
// reading fails.
func (l *Loader) Run(ctx context.Context, files Files) (Report, error) {
	ds, report, err := Read(files)
	if err != nil {
		return report, err
	}

	for _, rej := range report.Rejected {
		l.logger.Warn("row rejected",
			zap.String("file", rej.File),
			zap.Int("line", rej.Line),
			zap.String("reason", rej.Reason))
	}
	for _, w := range report.Warnings {
		l.logger.Warn(w)
	}
	if len(report.MissingFrom) > 0 || len(report.MissingTo) > 0 {
		l.logger.Warn("connections reference unknown courses",
			zap.Ints("missingFrom", report.MissingFrom),
			zap.Ints("missingTo", report.MissingTo))
	}

	if err := l.store.Replace(ctx, ds); err != nil {
		return report, fmt.Errorf("store dataset: %w", err)
	}

	l.logger.Info("dataset loaded",
		zap.Int("courses", report.Courses),
		zap.Int("connections", report.Connections),
		zap.Int("ksbMappings", report.KSB),
		zap.Int("rejected", len(report.Rejected)))
	return report, nil
}
