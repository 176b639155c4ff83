package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/switchyard/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifestJSON = `{
  "latest": {"release": "1.21.1", "snapshot": "24w33a"},
  "versions": [
    {"id": "24w33a", "type": "snapshot", "releaseTime": "2024-08-15T12:39:34+00:00"},
    {"id": "1.21.1", "type": "release", "releaseTime": "2024-08-08T12:24:45+00:00"},
    {"id": "1.21", "type": "release", "releaseTime": "2024-06-13T08:24:03+00:00"},
    {"id": "b1.7.3", "type": "old_beta", "releaseTime": "2011-07-07T22:00:00+00:00"}
  ]
}`

func metadata(versions ...string) string {
	out := `<?xml version="1.0" encoding="UTF-8"?><metadata><versioning><versions>`
	for _, v := range versions {
		out += "<version>" + v + "</version>"
	}
	return out + `</versions></versioning></metadata>`
}

type fixture struct {
	srv  *httptest.Server
	hits map[string]*atomic.Int32
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	docs := map[string]string{
		"/manifest.json": manifestJSON,
		"/neoforge.xml":  metadata("20.4.80-beta", "21.0.167", "21.1.9", "21.1.77", "21.1.65", "21.1.1-beta"),
		"/forge.xml":     metadata("1.20.1-47.1.0", "1.20.1-47.3.0", "1.20.1-47.2.20", "1.19.4-45.2.0"),
		"/fabric-api.xml": metadata(
			"0.92.2+1.20.1", "0.102.0+1.21", "0.102.1+1.21.1", "0.103.0+1.21.1", "0.9.0+build.204",
		),
		"/parchment/parchment-1.21.1/maven-metadata.xml": metadata("2024.07.28", "2024.11.10", "2024.11.17"),
		"/meta/versions/loader/1.21.1": `[
			{"loader": {"version": "0.16.4", "stable": true}},
			{"loader": {"version": "0.16.5-beta.1", "stable": false}},
			{"loader": {"version": "0.16.5", "stable": true}}
		]`,
		"/meta/versions/yarn/1.21.1": `[
			{"gameVersion": "1.21.1", "version": "1.21.1+build.2", "build": 2, "stable": true},
			{"gameVersion": "1.21.1", "version": "1.21.1+build.3", "build": 3, "stable": true},
			{"gameVersion": "1.21.1", "version": "1.21.1+build.1", "build": 1, "stable": true}
		]`,
	}
	f := &fixture{hits: make(map[string]*atomic.Int32)}
	for path := range docs {
		f.hits[path] = &atomic.Int32{}
	}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		doc, ok := docs[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		f.hits[r.URL.Path].Add(1)
		_, _ = w.Write([]byte(doc))
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fixture) url(path string) string {
	return f.srv.URL + path
}

func TestMojang(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := NewMojang(NewClient(), f.url("/manifest.json"))

	all, err := m.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "24w33a", all[0].ID)
	assert.True(t, all[0].IsSnapshot())
	assert.Equal(t, domain.KindOldBeta, all[3].Kind)
	assert.Equal(t, time.Date(2024, time.August, 8, 12, 24, 45, 0, time.UTC), all[1].ReleaseTime.UTC())

	v, ok, err := m.FetchExact(ctx, "1.21")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, domain.KindRelease, v.Kind)

	_, ok, err = m.FetchExact(ctx, "1.99")
	require.NoError(t, err)
	assert.False(t, ok)

	latest, err := m.LatestRelease(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.21.1", latest)

	assert.Equal(t, int32(1), f.hits["/manifest.json"].Load(), "manifest should be served from cache")
}

func TestMojang_Unavailable(t *testing.T) {
	f := newFixture(t)
	m := NewMojang(NewClient(), f.url("/missing.json"))
	_, err := m.FetchAll(context.Background())
	assert.ErrorContains(t, err, "unexpected status 404")
}

func TestClient_TTL(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := NewClient(WithTTL(time.Nanosecond))

	_, err := c.Get(ctx, f.url("/manifest.json"))
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, err = c.Get(ctx, f.url("/manifest.json"))
	require.NoError(t, err)

	assert.Equal(t, int32(2), f.hits["/manifest.json"].Load())
}

func TestNeoForge(t *testing.T) {
	f := newFixture(t)
	n := NewNeoForge(NewClient(), f.url("/neoforge.xml"))

	got, err := n.VersionsFor(context.Background(), "1.21.1")
	require.NoError(t, err)
	assert.Equal(t, []string{"21.1.77", "21.1.65", "21.1.9", "21.1.1-beta"}, got)

	got, err = n.VersionsFor(context.Background(), "1.21")
	require.NoError(t, err)
	assert.Equal(t, []string{"21.0.167"}, got)

	got, err = n.VersionsFor(context.Background(), "24w33a")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNeoForgePrefix(t *testing.T) {
	tests := []struct {
		mc   string
		want string
		ok   bool
	}{
		{"1.20.4", "20.4.", true},
		{"1.21", "21.0.", true},
		{"1.21.1", "21.1.", true},
		{"24w33a", "", false},
		{"1.", "", false},
	}
	for _, tt := range tests {
		got, ok := NeoForgePrefix(tt.mc)
		assert.Equal(t, tt.ok, ok, tt.mc)
		assert.Equal(t, tt.want, got, tt.mc)
	}
}

func TestForge(t *testing.T) {
	f := newFixture(t)
	got, err := NewForge(NewClient(), f.url("/forge.xml")).VersionsFor(context.Background(), "1.20.1")
	require.NoError(t, err)
	assert.Equal(t, []string{"1.20.1-47.3.0", "1.20.1-47.2.20", "1.20.1-47.1.0"}, got)

	games, err := NewForge(NewClient(), f.url("/forge.xml")).GameVersions(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"1.20.1", "1.19.4"}, games)
}

func TestFabricAPI(t *testing.T) {
	f := newFixture(t)
	api := NewFabricAPI(NewClient(), f.url("/fabric-api.xml"))

	got, err := api.VersionsFor(context.Background(), "1.21.1")
	require.NoError(t, err)
	assert.Equal(t, []string{"0.103.0+1.21.1", "0.102.1+1.21.1"}, got)

	all, err := api.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 5)
	assert.Equal(t, "0.103.0+1.21.1", all[0])

	games, err := api.GameVersions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"1.21.1", "1.21", "1.20.1"}, games)

	assert.Equal(t, "1.20.1", FabricAPIMinecraft("0.92.2+1.20.1"))
	assert.Equal(t, "", FabricAPIMinecraft("0.3.0"))
	assert.Equal(t, "", FabricAPIMinecraft("0.9.0+build.204"))
}

func TestParchment(t *testing.T) {
	f := newFixture(t)
	p := NewParchment(NewClient(), f.url("/parchment/"))

	got, err := p.VersionsFor(context.Background(), "1.21.1")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024.11.17", "2024.11.10", "2024.07.28"}, got)

	_, err = p.VersionsFor(context.Background(), "1.12.2")
	assert.Error(t, err)

	_, err = p.All(context.Background())
	assert.Error(t, err)
}

func TestFabricLoader(t *testing.T) {
	f := newFixture(t)
	got, err := NewFabricLoader(NewClient(), f.url("/meta")).VersionsFor(context.Background(), "1.21.1")
	require.NoError(t, err)
	assert.Equal(t, []string{"0.16.5", "0.16.4", "0.16.5-beta.1"}, got)
}

func TestFabricYarn(t *testing.T) {
	f := newFixture(t)
	got, err := NewFabricYarn(NewClient(), f.url("/meta")).VersionsFor(context.Background(), "1.21.1")
	require.NoError(t, err)
	assert.Equal(t, []string{"1.21.1+build.3", "1.21.1+build.2", "1.21.1+build.1"}, got)

	_, err = NewFabricYarn(NewClient(), f.url("/meta")).VersionsFor(context.Background(), "1.12.2")
	assert.Error(t, err)
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"21.1.77", "21.1.9", 1},
		{"21.1.1-beta", "21.1.1", -1},
		{"1.20.4", "1.20", 1},
		{"1.21", "1.21.0", 0},
		{"2024.07.28", "2024.11.10", -1},
		{"10.13.4.1614", "10.13.4.1558", 1},
		{"0.92.2+1.20.1", "0.102.0+1.21", -1},
	}
	for _, tt := range tests {
		t.Run(tt.a+" vs "+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareVersions(tt.a, tt.b))
		})
	}
}
