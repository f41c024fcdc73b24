// Package server implements graphd's HTTP API (C10): the REST surface
// described in spec.md §6, routed with the standard library's
// http.ServeMux (grounded on the teacher's pkg/server buildRouter
// pattern), with mutating routes guarded by pkg/auth's Basic Auth check.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dreamware/graphd/pkg/auth"
	"github.com/dreamware/graphd/pkg/graph"
	"github.com/dreamware/graphd/pkg/logging"
	"github.com/dreamware/graphd/pkg/service"
)

// Server wires the graph service to an HTTP handler.
type Server struct {
	svc   *service.Service
	creds *auth.Credentials
	log   *logging.Logger
}

// New builds a Server. creds may be nil to disable auth entirely (useful
// in tests); in production it is always set.
func New(svc *service.Service, creds *auth.Credentials, log *logging.Logger) *Server {
	return &Server{svc: svc, creds: creds, log: log}
}

// Handler builds the routed, logged, authenticated http.Handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /graphs", s.handleListGraphs)
	mux.Handle("POST /graphs", s.authed(s.handleCreateGraph))
	mux.Handle("POST /graphs/{graph}/nodes", s.authed(s.handleAddNode))
	mux.Handle("POST /graphs/{graph}/edges", s.authed(s.handleAddEdge))
	mux.HandleFunc("GET /graphs/{graph}/adjacency", s.handleAdjacency)
	mux.HandleFunc("GET /graphs/{graph}/relations", s.handleRelations)
	mux.HandleFunc("GET /graphs/{graph}/{method}", s.handleSearchPath)

	return s.withLogging(mux)
}

func (s *Server) authed(handler http.HandlerFunc) http.Handler {
	if s.creds == nil {
		return handler
	}
	return s.creds.Middleware(handler)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListGraphs(w http.ResponseWriter, r *http.Request) {
	names, err := s.svc.ListGraphs()
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, names)
}

type createGraphRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateGraph(w http.ResponseWriter, r *http.Request) {
	var req createGraphRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		s.writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if err := s.svc.CreateGraph(req.Name); err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"name": req.Name})
}

type addNodeRequest struct {
	NodeID     uint64            `json:"node_id"`
	Label      string            `json:"label"`
	Properties map[string]string `json:"properties"`
}

func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	graphName := r.PathValue("graph")
	var req addNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	n, err := s.svc.AddNode(graphName, graph.NodeID(req.NodeID), req.Label, req.Properties)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, n)
}

type addEdgeRequest struct {
	EdgeID     uint64            `json:"edge_id"`
	From       uint64            `json:"from"`
	To         uint64            `json:"to"`
	Label      string            `json:"label"`
	Properties map[string]string `json:"properties"`
}

func (s *Server) handleAddEdge(w http.ResponseWriter, r *http.Request) {
	graphName := r.PathValue("graph")
	var req addEdgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	e, err := s.svc.AddEdge(graphName, graph.EdgeID(req.EdgeID), req.Label, graph.NodeID(req.From), graph.NodeID(req.To), req.Properties)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleAdjacency(w http.ResponseWriter, r *http.Request) {
	graphName := r.PathValue("graph")
	adjacency, err := s.svc.GetAdjacency(graphName)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	out := make(map[string][]graph.NodeID, len(adjacency))
	for id, neighbors := range adjacency {
		out[strconv.FormatUint(uint64(id), 10)] = neighbors
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"adjacency_list": out})
}

func (s *Server) handleRelations(w http.ResponseWriter, r *http.Request) {
	graphName := r.PathValue("graph")
	relations, err := s.svc.GetRelations(graphName)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, relations)
}

func (s *Server) handleSearchPath(w http.ResponseWriter, r *http.Request) {
	graphName := r.PathValue("graph")
	method := r.PathValue("method")

	query := r.URL.Query()
	origin, err := strconv.ParseUint(query.Get("origin"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid or missing origin")
		return
	}
	goal, err := strconv.ParseUint(query.Get("goal"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid or missing goal")
		return
	}
	propertyName := query.Get("property_name")

	path, err := s.svc.SearchPath(graphName, method, graph.NodeID(origin), graph.NodeID(goal), propertyName)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"path": path})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps the service's error taxonomy onto HTTP status
// codes per spec.md §7: *NotFound and *AlreadyExists map to 400,
// MethodNotSupported/InvalidQuery map to 400, StorageError and anything
// else maps to 500.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrGraphNotFound),
		errors.Is(err, service.ErrGraphAlreadyExists),
		errors.Is(err, service.ErrNodeNotFound),
		errors.Is(err, service.ErrNodeAlreadyExists),
		errors.Is(err, service.ErrEdgeNotFound),
		errors.Is(err, service.ErrEdgeAlreadyExists),
		errors.Is(err, service.ErrInvalidOperation),
		errors.Is(err, service.ErrUnsupportedOp),
		errors.Is(err, service.ErrMethodNotSupported),
		errors.Is(err, service.ErrInvalidQuery):
		s.writeError(w, http.StatusBadRequest, strings.TrimSpace(err.Error()))
	default:
		s.writeError(w, http.StatusInternalServerError, strings.TrimSpace(err.Error()))
	}
}
