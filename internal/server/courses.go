package server

import (
	"context"
	"net/http"

	"github.com/abhisek/pathways/internal/catalog"
)

func (s *Server) listCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := s.store.Courses(r.Context())
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

func (s *Server) coursesByLevel(w http.ResponseWriter, r *http.Request) {
	level, ok := intParam(w, r, "level")
	if !ok {
		return
	}
	courses, err := s.store.CoursesByLevel(r.Context(), level)
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

func (s *Server) getCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	course, err := s.store.Course(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "Course not found")
		return
	}
	writeJSON(w, http.StatusOK, course)
}

func (s *Server) progression(w http.ResponseWriter, r *http.Request) {
	s.routes(w, r, s.store.Outgoing)
}

func (s *Server) preceding(w http.ResponseWriter, r *http.Request) {
	s.routes(w, r, s.store.Incoming)
}

func (s *Server) routes(w http.ResponseWriter, r *http.Request, query func(ctx context.Context, id int) ([]catalog.Route, error)) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	routes, err := query(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, routes)
}

func (s *Server) listConnections(w http.ResponseWriter, r *http.Request) {
	conns, err := s.store.Connections(r.Context())
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, conns)
}

func (s *Server) getConnection(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	conn, err := s.store.Connection(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "Connection not found")
		return
	}
	writeJSON(w, http.StatusOK, conn)
}
