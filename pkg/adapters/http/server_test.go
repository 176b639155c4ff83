package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/switchyard/internal/presentation/graph"
	"github.com/aretw0/switchyard/pkg/adapters/memory"
	"github.com/aretw0/switchyard/pkg/domain"
	"github.com/aretw0/switchyard/pkg/dsl"
	"github.com/aretw0/switchyard/pkg/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type step struct{ id string }

func (s step) ID() string                                               { return s.id }
func (s step) TranslationKey() string                                   { return s.id }
func (s step) Fields() []domain.Field                                   { return nil }
func (s step) OnEnter(context.Context, *domain.Store, domain.Scheduler) {}
func (s step) OnExit(*domain.Store) error                               { return nil }
func (s step) Validate(*domain.Store) map[string]string                 { return nil }

func testFlow(t *testing.T) *domain.FlowGraph {
	t.Helper()
	b := dsl.New()
	for _, id := range []string{"project_details", "license", "license_custom", "git"} {
		b.Add(id, func() domain.WizardStep { return step{id: id} })
	}
	license, ok := b.Step("license")
	require.True(t, ok)
	license.
		BranchLabeled("license is custom", func(*domain.Store) bool { return false }, "license_custom").
		Go("git")
	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func newTestHandler(t *testing.T) (http.Handler, *memory.Store) {
	t.Helper()
	catalog := memory.NewCatalog(
		domain.VersionDescriptor{ID: "1.20.4", Kind: domain.KindRelease, ReleaseTime: day(1)},
		domain.VersionDescriptor{ID: "1.20.6", Kind: domain.KindRelease, ReleaseTime: day(20)},
	)
	store := memory.NewStore()
	h := NewHandler(
		WithFlows(map[domain.ProjectKind]*domain.FlowGraph{domain.ProjectNeoForge: testFlow(t)}),
		WithResolver(resolver.New(catalog)),
		WithProjects(store),
		WithVersion("1.2.3"),
		WithMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("switchyard_steps_total 1\n"))
		})),
	)
	return h, store
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestServer_HealthAndInfo(t *testing.T) {
	h, _ := newTestHandler(t)

	w := get(h, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = get(h, "/info")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"switchyard","version":"1.2.3"}`, w.Body.String())
}

func TestServer_Preflight(t *testing.T) {
	h, _ := newTestHandler(t)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/flows", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestServer_Flows(t *testing.T) {
	h, _ := newTestHandler(t)

	w := get(h, "/flows")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"kinds":["neoforge"]}`, w.Body.String())

	w = get(h, "/flows/neoforge")
	require.Equal(t, http.StatusOK, w.Code)
	var view graph.FlowView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "project_details", view.FirstStep)
	require.Len(t, view.Steps, 4)
	assert.True(t, view.Steps[0].First)
	assert.True(t, view.Steps[3].Terminal)
	assert.Contains(t, view.Transitions, graph.TransitionView{
		From: "license", To: "license_custom", Conditional: true, Label: "license is custom",
	})
	assert.Contains(t, view.Transitions, graph.TransitionView{From: "license", To: "git"})

	w = get(h, "/flows/neoforge?format=mermaid")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "graph TD\n"))
	assert.Contains(t, w.Body.String(), `license -- "license is custom" --> license_custom`)

	w = get(h, "/flows/fabric")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_ResolveVersion(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name   string
		query  string
		status int
		wantID string
	}{
		{name: "exact", query: "id=1.20.6", status: http.StatusOK, wantID: "1.20.6"},
		{name: "dash prefix", query: "id=1.20.4-rc1&type=snapshot", status: http.StatusOK, wantID: "1.20.4"},
		{
			name:   "closest release",
			query:  "id=24w03a&type=snapshot&release_time=2024-01-18T00:00:00Z",
			status: http.StatusOK,
			wantID: "1.20.6",
		},
		{name: "missing id", query: "", status: http.StatusBadRequest},
		{name: "bad type", query: "id=x&type=nightly", status: http.StatusBadRequest},
		{name: "bad time", query: "id=x&release_time=yesterday", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(h, "/versions/resolve?"+tt.query)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.wantID == "" {
				return
			}
			var got domain.VersionDescriptor
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestServer_ResolveVersion_NoReleases(t *testing.T) {
	h := NewHandler(WithResolver(resolver.New(memory.NewCatalog())))
	w := get(h, "/versions/resolve?id=24w03a&type=snapshot")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_Projects(t *testing.T) {
	h, store := newTestHandler(t)

	w := get(h, "/projects")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"projects":[]}`, w.Body.String())

	require.NoError(t, store.Save(context.Background(), &domain.ProjectRecord{
		ID:     "p1",
		Kind:   domain.ProjectNeoForge,
		Name:   "Example Mod",
		Status: domain.StatusCreated,
	}))

	w = get(h, "/projects")
	assert.JSONEq(t, `{"projects":["p1"]}`, w.Body.String())

	w = get(h, "/projects/p1")
	require.Equal(t, http.StatusOK, w.Code)
	var rec domain.ProjectRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, "Example Mod", rec.Name)

	w = get(h, "/projects/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_Unconfigured(t *testing.T) {
	h := NewHandler()
	assert.Equal(t, http.StatusServiceUnavailable, get(h, "/projects").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(h, "/versions/resolve?id=1.20.4").Code)
	assert.Equal(t, http.StatusNotFound, get(h, "/metrics").Code)
}

func TestServer_Metrics(t *testing.T) {
	h, _ := newTestHandler(t)
	w := get(h, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "switchyard_steps_total")
}
