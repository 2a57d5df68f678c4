package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/pathways/internal/catalog"
)

var ksbColumns = []string{
	"course_id", "pathway",
	"knowledge_areas", "skills_areas", "behaviours",
	"occupational_standards", "career_pathways",
	"overall_confidence_score", "analysis_notes", "processed_date",
	"source_url", "standardized_response",
}

// ksbRow is the on-disk shape of a KSB record: list fields stay as JSON
// text until decoded.
type ksbRow struct {
	CourseID             int
	Pathway              string
	Knowledge            string
	Skills               string
	Behaviours           string
	Standards            string
	Careers              string
	OverallConfidence    int
	AnalysisNotes        string
	ProcessedDate        string
	SourceURL            string
	StandardizedResponse string
}

func (r *ksbRow) dest() []any {
	return []any{
		&r.CourseID, &r.Pathway,
		&r.Knowledge, &r.Skills, &r.Behaviours,
		&r.Standards, &r.Careers,
		&r.OverallConfidence, &r.AnalysisNotes, &r.ProcessedDate,
		&r.SourceURL, &r.StandardizedResponse,
	}
}

// decode turns the stored row into a typed record. Malformed list
// columns decode to empty lists.
func (r ksbRow) decode() catalog.KSB {
	k := catalog.KSB{
		CourseID:              r.CourseID,
		Pathway:               r.Pathway,
		KnowledgeAreas:        catalog.ParseItems(r.Knowledge),
		SkillsAreas:           catalog.ParseItems(r.Skills),
		Behaviours:            catalog.ParseItems(r.Behaviours),
		OccupationalStandards: catalog.ParseStandards(r.Standards),
		CareerPathways:        catalog.ParseCareers(r.Careers),
		OverallConfidence:     r.OverallConfidence,
		AnalysisNotes:         r.AnalysisNotes,
		SourceURL:             r.SourceURL,
		StandardizedResponse:  r.StandardizedResponse,
	}
	if t, err := time.Parse(time.RFC3339, r.ProcessedDate); err == nil {
		k.ProcessedDate = &t
	}
	return k
}

func encodeKSB(k catalog.KSB) ([]any, error) {
	lists := []any{k.KnowledgeAreas, k.SkillsAreas, k.Behaviours, k.OccupationalStandards, k.CareerPathways}
	encoded := make([]any, len(lists))
	for i, l := range lists {
		b, err := json.Marshal(l)
		if err != nil {
			return nil, fmt.Errorf("encode ksb lists for course %d: %w", k.CourseID, err)
		}
		if string(b) == "null" {
			b = []byte("[]")
		}
		encoded[i] = string(b)
	}

	var processed string
	if k.ProcessedDate != nil {
		processed = k.ProcessedDate.UTC().Format(time.RFC3339)
	}

	values := []any{k.CourseID, k.Pathway}
	values = append(values, encoded...)
	return append(values,
		k.OverallConfidence, k.AnalysisNotes, processed,
		k.SourceURL, k.StandardizedResponse,
	), nil
}

// KSB returns every enrichment record ordered by course id.
func (s *Store) KSB(ctx context.Context) ([]catalog.KSB, error) {
	b := builder()
	q, args := b.Select(ksbColumns...).
		From(b.Table(ksbTable)).
		OrderBy("course_id", "id").
		Query()
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list ksb mappings: %w", err)
	}
	defer rows.Close()

	records := []catalog.KSB{}
	for rows.Next() {
		var r ksbRow
		if err := rows.Scan(r.dest()...); err != nil {
			return nil, fmt.Errorf("scan ksb mapping: %w", err)
		}
		records = append(records, r.decode())
	}
	return records, rows.Err()
}

// KSBForCourse returns the enrichment for one course or ErrNotFound.
func (s *Store) KSBForCourse(ctx context.Context, courseID int) (catalog.KSB, error) {
	b := builder()
	q, args := b.Select(ksbColumns...).
		From(b.Table(ksbTable)).
		Where(entsql.EQ("course_id", courseID)).
		OrderBy("id").
		Limit(1).
		Query()
	var r ksbRow
	err := s.db.QueryRowContext(ctx, q, args...).Scan(r.dest()...)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.KSB{}, fmt.Errorf("ksb for course %d: %w", courseID, ErrNotFound)
	}
	if err != nil {
		return catalog.KSB{}, fmt.Errorf("get ksb for course %d: %w", courseID, err)
	}
	return r.decode(), nil
}
