package ports

import (
	"context"
	"time"

	"github.com/aretw0/switchyard/pkg/domain"
)

// VersionCatalog is the queryable list of game versions.
// Both methods wrap transport and parse failures; callers treat them as fatal.
type VersionCatalog interface {
	// FetchExact looks up one version by id. ok is false when the id is unknown.
	FetchExact(ctx context.Context, id string) (v domain.VersionDescriptor, ok bool, err error)

	// FetchAll returns every version in catalog order.
	FetchAll(ctx context.Context) ([]domain.VersionDescriptor, error)
}

// LoaderCatalog lists the versions of a mod loader or mapping set available for a game
// version, newest first.
type LoaderCatalog interface {
	VersionsFor(ctx context.Context, minecraft string) ([]string, error)
}

// GameVersionLister lists the game version ids a loader publishes builds for.
type GameVersionLister interface {
	GameVersions(ctx context.Context) ([]string, error)
}

// LoaderCatalogFunc adapts a function to LoaderCatalog.
type LoaderCatalogFunc func(ctx context.Context, minecraft string) ([]string, error)

func (f LoaderCatalogFunc) VersionsFor(ctx context.Context, minecraft string) ([]string, error) {
	return f(ctx, minecraft)
}

// Cache stores raw catalog payloads between runs.
type Cache interface {
	// Get returns ok=false on a miss.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
}
