package onboarding

import (
	"cmp"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/switchyard/pkg/domain"
	"github.com/aretw0/switchyard/pkg/ports"
	"golang.org/x/mod/semver"
)

// DefaultCacheTTL bounds how long a flow reuses its filtered game version list.
const DefaultCacheTTL = 5 * time.Minute

// neoForgeMinimum is the oldest game version with a NeoForge MDK.
const neoForgeMinimum = "1.20.4"

var plainRelease = regexp.MustCompile(`^\d+\.\d+(\.\d+)?$`)

// Catalogs bundles the listings queried by the wizard steps. Nil members leave the
// matching choice lists empty.
type Catalogs struct {
	Minecraft    ports.VersionCatalog
	NeoForge     ports.LoaderCatalog
	Forge        ports.LoaderCatalog
	FabricLoader ports.LoaderCatalog
	FabricAPI    ports.LoaderCatalog
	// FabricGames lists the game versions Fabric API is published for.
	FabricGames ports.GameVersionLister
	Parchment   ports.LoaderCatalog
	Yarn        ports.LoaderCatalog
}

// gameVersions caches the game versions offered by one flow. Fetches run on the
// worker pool, so access is guarded.
type gameVersions struct {
	mu      sync.Mutex
	list    []domain.VersionDescriptor
	expires time.Time

	ttl  time.Duration
	now  func() time.Time
	load func(ctx context.Context) ([]domain.VersionDescriptor, error)
}

func (g *gameVersions) get(ctx context.Context) ([]domain.VersionDescriptor, error) {
	g.mu.Lock()
	if g.list != nil && g.now().Before(g.expires) {
		list := slices.Clone(g.list)
		g.mu.Unlock()
		return list, nil
	}
	g.mu.Unlock()

	list, err := g.load(ctx)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	g.list = list
	g.expires = g.now().Add(g.ttl)
	g.mu.Unlock()
	return slices.Clone(list), nil
}

// lookup returns the cached descriptor for id. loaded is false before the first
// successful fetch.
func (g *gameVersions) lookup(id string) (v domain.VersionDescriptor, found, loaded bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.list == nil {
		return domain.VersionDescriptor{}, false, false
	}
	for _, d := range g.list {
		if d.ID == id {
			return d, true, true
		}
	}
	return domain.VersionDescriptor{}, false, true
}

// gameVersionLoader returns the game version listing of a project kind.
func (o *Onboarding) gameVersionLoader(kind domain.ProjectKind) func(ctx context.Context) ([]domain.VersionDescriptor, error) {
	return func(ctx context.Context) ([]domain.VersionDescriptor, error) {
		if o.catalogs.Minecraft == nil {
			return nil, fmt.Errorf("no minecraft catalog configured")
		}
		all, err := o.catalogs.Minecraft.FetchAll(ctx)
		if err != nil {
			return nil, err
		}
		switch kind {
		case domain.ProjectNeoForge:
			return neoForgeGames(all), nil
		case domain.ProjectForge:
			return forgeGames(all), nil
		case domain.ProjectFabric:
			if o.catalogs.FabricGames == nil {
				return nil, fmt.Errorf("no fabric api catalog configured")
			}
			ids, err := o.catalogs.FabricGames.GameVersions(ctx)
			if err != nil {
				return nil, err
			}
			return fabricGames(all, ids), nil
		}
		return nil, fmt.Errorf("unknown project kind %q", kind)
	}
}

// neoForgeGames keeps X.Y(.Z) ids not older than neoForgeMinimum, newest first.
func neoForgeGames(all []domain.VersionDescriptor) []domain.VersionDescriptor {
	var out []domain.VersionDescriptor
	for _, v := range all {
		if !plainRelease.MatchString(v.ID) {
			continue
		}
		if semver.Compare("v"+v.ID, "v"+neoForgeMinimum) < 0 {
			continue
		}
		out = append(out, v)
	}
	slices.SortStableFunc(out, func(a, b domain.VersionDescriptor) int {
		return semver.Compare("v"+b.ID, "v"+a.ID)
	})
	return out
}

// forgeGames drops snapshots and pre-releases, keeping catalog order.
func forgeGames(all []domain.VersionDescriptor) []domain.VersionDescriptor {
	var out []domain.VersionDescriptor
	for _, v := range all {
		if strings.Contains(v.ID, "-") || strings.Contains(v.ID, "w") {
			continue
		}
		out = append(out, v)
	}
	return out
}

// fabricGames keeps the catalog entries Fabric API supports, newest release first.
func fabricGames(all []domain.VersionDescriptor, supported []string) []domain.VersionDescriptor {
	var out []domain.VersionDescriptor
	for _, v := range all {
		if slices.Contains(supported, v.ID) {
			out = append(out, v)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.VersionDescriptor) int {
		return cmp.Compare(b.ReleaseTime.Unix(), a.ReleaseTime.Unix())
	})
	return out
}

// guessDescriptor describes a game version the catalog has not been asked about yet.
// The creation pipeline looks it up again before relying on its release time.
func guessDescriptor(id string) domain.VersionDescriptor {
	kind := domain.KindSnapshot
	if plainRelease.MatchString(id) {
		kind = domain.KindRelease
	}
	return domain.VersionDescriptor{ID: id, Kind: kind}
}
