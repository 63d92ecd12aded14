package server

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/haivivi/kgview/pkg/graph"
	"github.com/haivivi/kgview/pkg/query"
	"github.com/haivivi/kgview/pkg/record"
)

type statsResponse struct {
	Vertices int `json:"vertices"`
	Edges    int `json:"edges"`
}

type vertexSummary struct {
	ID     graph.VertexID `json:"id"`
	Label  string         `json:"label"`
	Degree int            `json:"degree"`
}

type vertexDetail struct {
	vertexSummary
	Adjacent []string     `json:"adjacent"`
	Incident []graph.Edge `json:"incident"`
}

type vertexRequest struct {
	Label string `json:"label"`
}

type removedResponse struct {
	Removed int    `json:"removed"`
	Warning string `json:"warning,omitempty"`
}

// labelParam returns the decoded {label} segment. chi matches against the
// raw path when the URL carries escapes that differ from the default
// encoding, and only then is the segment still escaped.
func labelParam(r *http.Request) (string, error) {
	label := chi.URLParam(r, "label")
	if r.URL.RawPath == "" {
		return label, nil
	}
	label, err := url.PathUnescape(label)
	if err != nil {
		return "", fmt.Errorf("%w: label: %v", errBadRequest, err)
	}
	return label, nil
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	var resp statsResponse
	err := s.ws.Read(func(g *graph.Store) error {
		resp = statsResponse{Vertices: g.VertexCount(), Edges: g.EdgeCount()}
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) listVertices(w http.ResponseWriter, r *http.Request) {
	out := []vertexSummary{}
	err := s.ws.Read(func(g *graph.Store) error {
		for _, v := range g.Vertices() {
			d, err := g.Degree(v.Label)
			if err != nil {
				return err
			}
			out = append(out, vertexSummary{ID: v.ID, Label: v.Label, Degree: d})
		}
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getVertex(w http.ResponseWriter, r *http.Request) {
	label, err := labelParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var detail vertexDetail
	err = s.ws.Read(func(g *graph.Store) error {
		v, ok := g.Vertex(label)
		if !ok {
			return &graph.UnknownVertexError{Labels: []string{label}}
		}
		incident, _ := g.IncidentEdges(label)
		adjacent, _ := g.AdjacentVertices(label)
		detail = vertexDetail{
			vertexSummary: vertexSummary{ID: v.ID, Label: v.Label, Degree: len(incident)},
			Adjacent:      make([]string, 0, len(adjacent)),
			Incident:      incident,
		}
		for _, a := range adjacent {
			detail.Adjacent = append(detail.Adjacent, a.Label)
		}
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) insertVertex(w http.ResponseWriter, r *http.Request) {
	var req vertexRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	v, err := s.ws.InsertVertex(r.Context(), req.Label)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) removeVertex(w http.ResponseWriter, r *http.Request) {
	label, err := labelParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	n, err := s.ws.RemoveVertex(r.Context(), label)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := removedResponse{Removed: n}
	if n == 0 {
		resp.Warning = fmt.Sprintf("vertex %q not found", label)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) listEdges(w http.ResponseWriter, r *http.Request) {
	var edges []graph.Edge
	err := s.ws.Read(func(g *graph.Store) error {
		edges = g.Edges()
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if edges == nil {
		edges = []graph.Edge{}
	}
	writeJSON(w, http.StatusOK, edges)
}

func (s *Server) insertEdge(w http.ResponseWriter, r *http.Request) {
	var req graph.EdgeKey
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	e, err := s.ws.InsertEdge(r.Context(), req.Source, req.Target, req.Relation)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) removeEdge(w http.ResponseWriter, r *http.Request) {
	var req graph.EdgeKey
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	ok, err := s.ws.RemoveEdge(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := removedResponse{}
	if ok {
		resp.Removed = 1
	} else {
		resp.Warning = fmt.Sprintf("no edge (%s - %s - %s)", req.Source, req.Relation, req.Target)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) adjacent(w http.ResponseWriter, r *http.Request) {
	a, b := r.URL.Query().Get("a"), r.URL.Query().Get("b")
	var adj bool
	err := s.ws.Read(func(g *graph.Store) error {
		var err error
		adj, err = g.AreAdjacent(a, b)
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"adjacent": adj})
}

func (s *Server) relations(w http.ResponseWriter, _ *http.Request) {
	rels := query.Relations(s.ws.Records())
	if rels == nil {
		rels = []string{}
	}
	writeJSON(w, http.StatusOK, rels)
}

// records applies a view to the current records. The view comes from the
// relation, all and q parameters. When none is given, a session parameter
// names a stored session whose view is used; otherwise every relation is
// selected. all=0 with no relation is an explicitly empty selection.
func (s *Server) records(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	view := query.DefaultView()
	if params.Has("relation") || params.Has("all") || params.Has("q") {
		view = query.View{
			Relations:    params["relation"],
			AllRelations: params.Get("all") == "1" || params.Get("all") == "true",
			Query:        params.Get("q"),
		}
		if !params.Has("relation") && !params.Has("all") {
			view.AllRelations = true
		}
	} else if id := params.Get("session"); id != "" {
		if s.sessions == nil {
			s.writeError(w, r, fmt.Errorf("%w: sessions are disabled", errBadRequest))
			return
		}
		st, err := s.sessions.Get(r.Context(), id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		view = st.View
	}
	res := query.Apply(s.ws.Records(), view)
	if res.Records == nil {
		res.Records = []record.Record{}
	}
	writeJSON(w, http.StatusOK, res)
}
