package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// KSB is the knowledge/skills/behaviours enrichment for one course.
// It is produced by an external analysis pipeline and is read-only here.
type KSB struct {
	CourseID              int        `json:"courseId"`
	Pathway               string     `json:"pathway,omitempty"`
	KnowledgeAreas        []KSBItem  `json:"knowledgeAreas"`
	SkillsAreas           []KSBItem  `json:"skillsAreas"`
	Behaviours            []KSBItem  `json:"behaviours"`
	OccupationalStandards []Standard `json:"occupationalStandards"`
	CareerPathways        []Career   `json:"careerPathways"`
	OverallConfidence     int        `json:"overallConfidenceScore"`
	AnalysisNotes         string     `json:"analysisNotes,omitempty"`
	ProcessedDate         *time.Time `json:"processedDate,omitempty"`
	SourceURL             string     `json:"sourceUrl,omitempty"`
	StandardizedResponse  string     `json:"standardizedResponse,omitempty"`
}

// KSBItem is a knowledge area, skill area or behaviour.
type KSBItem struct {
	ID          LooseString `json:"id,omitempty"`
	Description string      `json:"description"`
	Confidence  float64     `json:"confidence"`
}

// Standard is an occupational standard the course maps onto.
type Standard struct {
	Name       string      `json:"name"`
	Level      LooseString `json:"level,omitempty"`
	Confidence float64     `json:"confidence"`
}

// Career is a job role the course supports.
type Career struct {
	Role       string      `json:"role"`
	Level      LooseString `json:"level,omitempty"`
	Confidence float64     `json:"confidence"`
}

// Empty reports whether the record carries no list data at all.
func (k KSB) Empty() bool {
	return len(k.KnowledgeAreas) == 0 && len(k.SkillsAreas) == 0 &&
		len(k.Behaviours) == 0 && len(k.OccupationalStandards) == 0 &&
		len(k.CareerPathways) == 0
}

// LooseString decodes from either a JSON string or a JSON number. The
// analysis pipeline is inconsistent about ids and levels ("K1" vs 4).
type LooseString string

func (s *LooseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = LooseString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = LooseString(n.String())
	return nil
}

func (s LooseString) String() string { return string(s) }

// ParseItems decodes a serialised list of knowledge/skill/behaviour items.
// Malformed input yields an empty list.
func ParseItems(raw string) []KSBItem {
	return parseList[KSBItem](raw)
}

// ParseStandards decodes a serialised list of occupational standards.
func ParseStandards(raw string) []Standard {
	return parseList[Standard](raw)
}

// ParseCareers decodes a serialised list of career pathways.
func ParseCareers(raw string) []Career {
	return parseList[Career](raw)
}

func parseList[T any](raw string) []T {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []T{}
	}
	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return []T{}
	}
	return out
}

// FormatConfidence renders an item confidence as "7/10".
func FormatConfidence(c float64) string {
	return strconv.FormatFloat(c, 'f', -1, 64) + "/10"
}
