package creation

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"

	"github.com/aretw0/switchyard/pkg/domain"
	"github.com/aretw0/switchyard/pkg/ports"
)

// WrapperProperties is the Gradle wrapper configuration relative to the project root.
var WrapperProperties = filepath.Join("gradle", "wrapper", "gradle-wrapper.properties")

var distributionURL = regexp.MustCompile(`distributionUrl=https\\://services\.gradle\.org/distributions/gradle-[^\s]+`)

// ExtractMdk unpacks the downloaded template into the project directory, pins the
// Gradle wrapper and records the upstream version the template targets.
type ExtractMdk struct {
	archive       string
	gradleVersion string
	files         ports.FileSystem
	archiver      ports.Archiver
	resolver      VersionResolver
	catalog       ports.VersionCatalog
	logger        *slog.Logger
}

func (a *ExtractMdk) ID() string             { return ActionExtractMdk }
func (a *ExtractMdk) TranslationKey() string { return translationKey(ActionExtractMdk) }

func (a *ExtractMdk) Run(ctx context.Context, pc *domain.ProjectContext, sink domain.ProgressSink) error {
	dir := pc.ProjectDir
	archive := filepath.Join(dir, a.archive)
	if !a.files.Exists(archive) {
		return fmt.Errorf("%w: %s", domain.ErrArchiveNotFound, archive)
	}

	sink.Info("Extracting " + a.archive + "...")
	if err := a.archiver.Unzip(ctx, archive, dir); err != nil {
		return fmt.Errorf("unzip %s: %w", a.archive, err)
	}
	if err := a.hoist(dir); err != nil {
		return err
	}

	sink.Info("Deleting " + a.archive + "...")
	if err := a.files.Delete(archive); err != nil {
		return fmt.Errorf("delete archive: %w", err)
	}

	sink.Info("Updating Gradle wrapper to version " + a.gradleVersion + "...")
	if err := PinGradleWrapper(a.files, dir, a.gradleVersion); err != nil {
		return err
	}

	requested, err := domain.Require(pc.Data, domain.KeyMinecraftVersion)
	if err != nil {
		return err
	}
	requested, err = a.complete(ctx, requested)
	if err != nil {
		return err
	}
	sink.Info("Resolving template version for " + requested.ID + "...")
	resolved, err := a.resolver.Resolve(ctx, requested)
	if err != nil {
		return err
	}
	a.logger.Debug("resolved template version", "requested", requested.ID, "resolved", resolved.ID)
	domain.Set(pc.Data, domain.KeyMdkVersion, resolved)
	domain.Set(pc.Data, domain.KeyExampleModBranch, resolved.ID)
	return nil
}

// hoist flattens archives that wrap everything in a single top-level directory.
func (a *ExtractMdk) hoist(dir string) error {
	entries, err := a.files.List(dir)
	if err != nil {
		return fmt.Errorf("list %s: %w", dir, err)
	}
	var rest []string
	for _, e := range entries {
		if e != a.archive {
			rest = append(rest, e)
		}
	}
	if len(rest) != 1 || !a.files.IsDir(filepath.Join(dir, rest[0])) {
		return nil
	}
	if err := a.files.MoveContentsUp(filepath.Join(dir, rest[0])); err != nil {
		return fmt.Errorf("move %s up: %w", rest[0], err)
	}
	return nil
}

// complete replaces a descriptor the wizard guessed offline with the catalog entry.
// Guessed descriptors carry no release time, so one the catalog does not know cannot
// be resolved.
func (a *ExtractMdk) complete(ctx context.Context, v domain.VersionDescriptor) (domain.VersionDescriptor, error) {
	if !v.ReleaseTime.IsZero() || a.catalog == nil {
		return v, nil
	}
	found, ok, err := a.catalog.FetchExact(ctx, v.ID)
	if err != nil {
		return v, fmt.Errorf("%w: lookup %s: %w", domain.ErrCatalogUnavailable, v.ID, err)
	}
	if !ok {
		return v, fmt.Errorf("%w: %s is not listed by the version catalog", domain.ErrUnsupportedVersion, v.ID)
	}
	return found, nil
}

// PinGradleWrapper rewrites the wrapper distribution URL of the project in dir.
func PinGradleWrapper(files ports.FileSystem, dir, version string) error {
	path := filepath.Join(dir, WrapperProperties)
	if !files.Exists(path) {
		return fmt.Errorf("gradle-wrapper.properties not found at %s", path)
	}
	content, err := files.ReadString(path)
	if err != nil {
		return err
	}
	pinned := `distributionUrl=https\://services.gradle.org/distributions/gradle-` + version + "-bin.zip"
	return files.WriteString(path, distributionURL.ReplaceAllLiteralString(content, pinned))
}
