package memory

import (
	"context"
	"slices"

	"github.com/aretw0/switchyard/pkg/domain"
)

// Catalog implements ports.VersionCatalog and ports.LoaderCatalog over fixed data.
// It backs offline runs and tests.
type Catalog struct {
	versions []domain.VersionDescriptor
	loaders  map[string][]string
}

// NewCatalog creates a catalog that serves versions in the given order.
func NewCatalog(versions ...domain.VersionDescriptor) *Catalog {
	return &Catalog{
		versions: slices.Clone(versions),
		loaders:  make(map[string][]string),
	}
}

// WithLoaderVersions registers the loader versions listed for a game version.
func (c *Catalog) WithLoaderVersions(minecraft string, versions ...string) *Catalog {
	c.loaders[minecraft] = slices.Clone(versions)
	return c
}

// FetchExact looks up a version by id.
func (c *Catalog) FetchExact(ctx context.Context, id string) (domain.VersionDescriptor, bool, error) {
	for _, v := range c.versions {
		if v.ID == id {
			return v, true, nil
		}
	}
	return domain.VersionDescriptor{}, false, nil
}

// FetchAll returns every version in registration order.
func (c *Catalog) FetchAll(ctx context.Context) ([]domain.VersionDescriptor, error) {
	return slices.Clone(c.versions), nil
}

// VersionsFor returns the loader versions registered for minecraft.
func (c *Catalog) VersionsFor(ctx context.Context, minecraft string) ([]string, error) {
	return slices.Clone(c.loaders[minecraft]), nil
}
