package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/haivivi/kgview/pkg/query"
	"github.com/haivivi/kgview/pkg/session"
)

func (s *Server) requireSessions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.sessions == nil {
			writeJSON(w, http.StatusNotFound, errorBody{Error: "sessions are disabled"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	list, err := s.sessions.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []*session.State{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	view := query.DefaultView()
	if r.ContentLength != 0 {
		if err := decode(r, &view); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	st, err := s.sessions.New(r.Context(), "", view)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	st, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) putSession(w http.ResponseWriter, r *http.Request) {
	var view query.View
	if err := decode(r, &view); err != nil {
		s.writeError(w, r, err)
		return
	}
	st := &session.State{ID: chi.URLParam(r, "id"), View: view}
	if err := s.sessions.Save(r.Context(), st); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.sessions.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

