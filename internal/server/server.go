// Package server exposes the membox storage service over HTTP.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/entl/membox/internal/logging"
	"github.com/entl/membox/internal/memory"
	"github.com/entl/membox/internal/storage"
)

// Server handles the membox HTTP API.
type Server struct {
	svc     *memory.Service
	version string
	build   string
}

// New creates a Server backed by the given memory service.
// version and build are typically injected at link time via -ldflags.
func New(svc *memory.Service, version, build string) *Server {
	return &Server{
		svc:     svc,
		version: version,
		build:   build,
	}
}

// Router builds the HTTP route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogging)

	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.HandleFunc("/version", s.handleVersion).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/commands", s.handleSubmitCommand).Methods("POST")
	api.HandleFunc("/commands", s.handleListCommands).Methods("GET")
	api.HandleFunc("/commands/{id}", s.handleGetCommand).Methods("GET")
	api.HandleFunc("/commands/{id}", s.handleDeleteCommand).Methods("DELETE")
	api.HandleFunc("/tags", s.handleTags).Methods("GET")
	api.HandleFunc("/categories", s.handleCategories).Methods("GET")

	return r
}

// requestLogging logs one line per handled request.
func requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request handled")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{Version: s.version, Build: s.build})
}

func (s *Server) handleSubmitCommand(w http.ResponseWriter, r *http.Request) {
	var req SubmitCommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if verr := validateSubmitCommand(&req); verr != nil {
		writeJSON(w, http.StatusBadRequest, verr)
		return
	}

	cmd := &storage.Command{
		Command:     req.Command,
		Description: req.Description,
		Workdir:     req.Workdir,
		Status:      req.Status,
		Category:    req.Category,
		Tags:        req.Tags,
	}
	id, err := s.svc.AddCommandSync(cmd)
	if err != nil {
		logging.Error().Err(err).Msg("failed to store command")
		http.Error(w, "failed to store command", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, SubmitCommandResponse{ID: id})
}

func (s *Server) handleListCommands(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	opts := storage.QueryOptions{
		Query:    q.Get("q"),
		Status:   q.Get("status"),
		Category: q.Get("category"),
		Tags:     q["tag"],
		Limit:    limit,
	}

	commands, err := s.svc.Search(r.Context(), opts)
	if err != nil {
		logging.Error().Err(err).Msg("failed to query commands")
		http.Error(w, "failed to query commands", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, CommandListResponse{Commands: toEntries(commands)})
}

func (s *Server) handleGetCommand(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	cmd, err := s.svc.Get(r.Context(), id)
	if err != nil {
		logging.Error().Err(err).Str("id", id).Msg("failed to get command")
		http.Error(w, "failed to get command", http.StatusInternalServerError)
		return
	}
	if cmd == nil {
		http.Error(w, "command not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, toEntry(cmd))
}

func (s *Server) handleDeleteCommand(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	existed, err := s.svc.Delete(r.Context(), id)
	if err != nil {
		logging.Error().Err(err).Str("id", id).Msg("failed to delete command")
		http.Error(w, "failed to delete command", http.StatusInternalServerError)
		return
	}
	if !existed {
		http.Error(w, "command not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.svc.Tags(r.Context())
	if err != nil {
		logging.Error().Err(err).Msg("failed to query tags")
		http.Error(w, "failed to query tags", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, TagsResponse{Tags: tags})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.svc.Categories(r.Context())
	if err != nil {
		logging.Error().Err(err).Msg("failed to query categories")
		http.Error(w, "failed to query categories", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, CategoriesResponse{Categories: categories})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error().Err(err).Msg("failed to encode response")
	}
}
