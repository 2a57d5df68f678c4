package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/abhisek/pathways/internal/catalog"
	"github.com/abhisek/pathways/internal/search"
)

// Mapping is a KSB record with its course's headline fields joined in.
type Mapping struct {
	catalog.KSB
	CourseName string `json:"courseName"`
	Provider   string `json:"provider"`
	Level      int    `json:"level"`
}

// SearchRequest is the body of POST /api/ksb/search.
type SearchRequest struct {
	Query         string `json:"query" validate:"notblank,max=200"`
	SearchType    string `json:"searchType" validate:"omitempty,oneof=all knowledge skills careers behaviours standards"`
	MinConfidence int    `json:"minConfidence" validate:"gte=0,lte=10"`
}

// CareerRole is one entry of GET /api/ksb/careers.
type CareerRole struct {
	Role       string              `json:"role"`
	Level      catalog.LooseString `json:"level,omitempty"`
	Confidence float64             `json:"confidence"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

func (s *Server) courseIndex(r *http.Request) (map[int]catalog.Course, []catalog.Course, error) {
	courses, err := s.store.Courses(r.Context())
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[int]catalog.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}
	return byID, courses, nil
}

func joinMapping(k catalog.KSB, c catalog.Course) Mapping {
	return Mapping{KSB: k, CourseName: c.Name, Provider: c.Provider, Level: c.Level}
}

func (s *Server) listMappings(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.KSB(r.Context())
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	byID, _, err := s.courseIndex(r)
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	out := make([]Mapping, len(records))
	for i, k := range records {
		out[i] = joinMapping(k, byID[k.CourseID])
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getMapping(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "courseId")
	if !ok {
		return
	}
	k, err := s.store.KSBForCourse(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "KSB data not found for this course")
		return
	}
	course, err := s.store.Course(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "KSB data not found for this course")
		return
	}
	writeJSON(w, http.StatusOK, joinMapping(k, course))
}

func (s *Server) skills(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.KSB(r.Context())
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	seen := make(map[string]bool)
	out := []string{}
	for _, k := range records {
		for _, item := range k.SkillsAreas {
			if item.Description == "" || seen[item.Description] {
				continue
			}
			seen[item.Description] = true
			out = append(out, item.Description)
		}
	}
	sort.Strings(out)
	writeJSON(w, http.StatusOK, out)
}

// careerRoles lists each role once, keeping the entry with the highest
// confidence.
func (s *Server) careerRoles(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.KSB(r.Context())
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	best := make(map[string]CareerRole)
	for _, k := range records {
		for _, c := range k.CareerPathways {
			if c.Role == "" {
				continue
			}
			if prev, ok := best[c.Role]; ok && prev.Confidence >= c.Confidence {
				continue
			}
			best[c.Role] = CareerRole{Role: c.Role, Level: c.Level, Confidence: c.Confidence}
		}
	}
	out := make([]CareerRole, 0, len(best))
	for _, c := range best {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Role < out[j].Role })
	writeJSON(w, http.StatusOK, out)
}

// searchKSB scores enriched courses only; courses without a KSB record
// never match here.
func (s *Server) searchKSB(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	cats, err := search.ParseSearchType(req.SearchType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := s.store.KSB(r.Context())
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	byID, _, err := s.courseIndex(r)
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	enriched := make([]catalog.Course, 0, len(records))
	for _, k := range records {
		if c, ok := byID[k.CourseID]; ok {
			enriched = append(enriched, c)
		}
	}

	searchType := req.SearchType
	if searchType == "" {
		searchType = "all"
	}
	s.metrics.searches.WithLabelValues(searchType).Inc()

	results := search.Skills(enriched, req.Query, search.Index(records), search.Options{
		Categories:    cats,
		MinConfidence: req.MinConfidence,
		Fuzzy:         search.NoFuzzy,
	})
	if results == nil {
		results = []search.Result{}
	}
	writeJSON(w, http.StatusOK, results)
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	switch f := verrs[0]; f.Field() {
	case "Query":
		return "Query is required"
	case "SearchType":
		return "searchType must be one of all, knowledge, skills, careers, behaviours, standards"
	case "MinConfidence":
		return "minConfidence must be between 0 and 10"
	default:
		return f.Error()
	}
}

func (s *Server) careerMapping(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.careers.All())
}

func (s *Server) careerLink(w http.ResponseWriter, r *http.Request) {
	title := chi.URLParam(r, "jobTitle")
	if unescaped, err := url.PathUnescape(title); err == nil {
		title = unescaped
	}
	writeJSON(w, http.StatusOK, s.careers.Resolve(title))
}
