package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/aretw0/switchyard/internal/logging"
	"github.com/aretw0/switchyard/internal/presentation/graph"
	"github.com/aretw0/switchyard/pkg/domain"
	"github.com/aretw0/switchyard/pkg/ports"
	"github.com/go-chi/chi/v5"
)

// VersionResolver maps a requested Minecraft version to one the catalog supports.
type VersionResolver interface {
	Resolve(ctx context.Context, requested domain.VersionDescriptor) (domain.VersionDescriptor, error)
}

// Server exposes read-only introspection of the wizard flows, the version resolver and
// the recorded projects.
type Server struct {
	flows    map[domain.ProjectKind]*domain.FlowGraph
	resolver VersionResolver
	projects ports.ProjectStore
	metrics  http.Handler
	version  string
	logger   *slog.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithFlows registers the flow graph of each project kind.
func WithFlows(flows map[domain.ProjectKind]*domain.FlowGraph) ServerOption {
	return func(s *Server) {
		s.flows = flows
	}
}

// WithResolver enables GET /versions/resolve.
func WithResolver(r VersionResolver) ServerOption {
	return func(s *Server) {
		s.resolver = r
	}
}

// WithProjects enables the /projects endpoints.
func WithProjects(store ports.ProjectStore) ServerOption {
	return func(s *Server) {
		s.projects = store
	}
}

// WithMetrics mounts h on /metrics.
func WithMetrics(h http.Handler) ServerOption {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithVersion sets the version reported by /info.
func WithVersion(v string) ServerOption {
	return func(s *Server) {
		s.version = v
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewHandler creates the HTTP handler.
func NewHandler(opts ...ServerOption) http.Handler {
	s := &Server{
		version: "dev",
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/flows", s.ListFlows)
	r.Get("/flows/{kind}", s.GetFlow)
	r.Get("/versions/resolve", s.ResolveVersion)
	r.Get("/projects", s.ListProjects)
	r.Get("/projects/{id}", s.GetProject)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"name":    "switchyard",
		"version": s.version,
	})
}

// ListFlows handles GET /flows.
func (s *Server) ListFlows(w http.ResponseWriter, r *http.Request) {
	kinds := make([]string, 0, len(s.flows))
	for k := range s.flows {
		kinds = append(kinds, string(k))
	}
	slices.Sort(kinds)
	s.writeJSON(w, http.StatusOK, map[string][]string{"kinds": kinds})
}

// GetFlow handles GET /flows/{kind}. ?format=mermaid returns a Mermaid flowchart.
func (s *Server) GetFlow(w http.ResponseWriter, r *http.Request) {
	kind := domain.ProjectKind(chi.URLParam(r, "kind"))
	g, ok := s.flows[kind]
	if !ok {
		http.Error(w, "unknown project kind", http.StatusNotFound)
		return
	}

	if r.URL.Query().Get("format") == "mermaid" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(graph.GenerateMermaid(g, nil)))
		return
	}
	s.writeJSON(w, http.StatusOK, graph.Describe(kind, g))
}

// ResolveVersion handles GET /versions/resolve?id=&type=&release_time=.
func (s *Server) ResolveVersion(w http.ResponseWriter, r *http.Request) {
	if s.resolver == nil {
		http.Error(w, "version resolver not configured", http.StatusServiceUnavailable)
		return
	}

	q := r.URL.Query()
	requested := domain.VersionDescriptor{ID: q.Get("id"), Kind: domain.KindRelease}
	if requested.ID == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}
	if raw := q.Get("type"); raw != "" {
		kind, ok := domain.ParseVersionKind(raw)
		if !ok {
			http.Error(w, "invalid type", http.StatusBadRequest)
			return
		}
		requested.Kind = kind
	}
	if raw := q.Get("release_time"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			http.Error(w, "invalid release_time: want RFC 3339", http.StatusBadRequest)
			return
		}
		requested.ReleaseTime = t
	}

	resolved, err := s.resolver.Resolve(r.Context(), requested)
	switch {
	case err == nil:
		s.writeJSON(w, http.StatusOK, resolved)
	case errors.Is(err, domain.ErrUnsupportedVersion):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrCatalogUnavailable):
		s.logger.Warn("version catalog unavailable", "id", requested.ID, "err", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		s.logger.Error("resolve failed", "id", requested.ID, "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ListProjects handles GET /projects.
func (s *Server) ListProjects(w http.ResponseWriter, r *http.Request) {
	if s.projects == nil {
		http.Error(w, "project store not configured", http.StatusServiceUnavailable)
		return
	}
	ids, err := s.projects.List(r.Context())
	if err != nil {
		s.logger.Error("list projects failed", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"projects": ids})
}

// GetProject handles GET /projects/{id}.
func (s *Server) GetProject(w http.ResponseWriter, r *http.Request) {
	if s.projects == nil {
		http.Error(w, "project store not configured", http.StatusServiceUnavailable)
		return
	}
	rec, err := s.projects.Load(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrProjectNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.Error("load project failed", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
