// Package resolver maps a requested game version to the version an upstream toolchain
// actually publishes a branch or archive for.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aretw0/switchyard/internal/logging"
	"github.com/aretw0/switchyard/pkg/domain"
	"github.com/aretw0/switchyard/pkg/ports"
)

var (
	branchShaped = regexp.MustCompile(`^\d+\.\d+$`)
	patchSuffix  = regexp.MustCompile(`\.\d+$`)
)

// Resolver picks the closest supported version using a VersionCatalog.
type Resolver struct {
	catalog ports.VersionCatalog
	logger  *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

// New creates a Resolver backed by catalog.
func New(catalog ports.VersionCatalog, opts ...Option) *Resolver {
	r := &Resolver{
		catalog: catalog,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the version to use for requested.
//
// Releases already shaped like a branch ("1.21") are returned as is. Other releases
// fall back to their branch when the catalog knows it, else to themselves. Snapshots
// use their release prefix ("1.21-pre1" -> "1.21") when known, otherwise the release
// published closest in time. Ties keep the catalog's first entry.
//
// Catalog failures wrap domain.ErrCatalogUnavailable. A catalog without releases
// yields domain.ErrUnsupportedVersion.
func (r *Resolver) Resolve(ctx context.Context, requested domain.VersionDescriptor) (domain.VersionDescriptor, error) {
	if !requested.IsSnapshot() {
		if branchShaped.MatchString(requested.ID) {
			return requested, nil
		}
		candidate := patchSuffix.ReplaceAllString(requested.ID, "")
		found, ok, err := r.fetchExact(ctx, candidate)
		if err != nil {
			return domain.VersionDescriptor{}, err
		}
		if ok {
			r.logger.Debug("resolved release branch", "requested", requested.ID, "resolved", found.ID)
			return found, nil
		}
		r.logger.Debug("no branch for release, keeping requested", "requested", requested.ID, "candidate", candidate)
		return requested, nil
	}

	if dash := strings.IndexByte(requested.ID, '-'); dash > 0 {
		found, ok, err := r.fetchExact(ctx, requested.ID[:dash])
		if err != nil {
			return domain.VersionDescriptor{}, err
		}
		if ok {
			r.logger.Debug("resolved snapshot prefix", "requested", requested.ID, "resolved", found.ID)
			return found, nil
		}
	}

	return r.closestRelease(ctx, requested)
}

func (r *Resolver) closestRelease(ctx context.Context, requested domain.VersionDescriptor) (domain.VersionDescriptor, error) {
	all, err := r.catalog.FetchAll(ctx)
	if err != nil {
		return domain.VersionDescriptor{}, fmt.Errorf("%w: list versions: %w", domain.ErrCatalogUnavailable, err)
	}

	target := requested.ReleaseTime.Unix()
	var (
		best     domain.VersionDescriptor
		bestDiff int64
		found    bool
	)
	for _, v := range all {
		if v.Kind != domain.KindRelease {
			continue
		}
		diff := abs(v.ReleaseTime.Unix() - target)
		if !found || diff < bestDiff {
			best, bestDiff, found = v, diff, true
		}
	}

	if !found {
		return domain.VersionDescriptor{}, fmt.Errorf("%w: no release close to %s", domain.ErrUnsupportedVersion, requested.ID)
	}
	r.logger.Debug("resolved snapshot by release time", "requested", requested.ID, "resolved", best.ID, "diff_seconds", bestDiff)
	return best, nil
}

func (r *Resolver) fetchExact(ctx context.Context, id string) (domain.VersionDescriptor, bool, error) {
	v, ok, err := r.catalog.FetchExact(ctx, id)
	if err != nil {
		return domain.VersionDescriptor{}, false, fmt.Errorf("%w: lookup %s: %w", domain.ErrCatalogUnavailable, id, err)
	}
	return v, ok, nil
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
