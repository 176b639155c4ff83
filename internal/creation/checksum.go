package creation

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/switchyard/pkg/domain"
	"github.com/aretw0/switchyard/pkg/ports"
)

// ForgeMaven hosts the Forge MDK archives and their digests.
const ForgeMaven = "https://maven.minecraftforge.net/net/minecraftforge/forge"

// ForgeMdkURL locates the MDK of the chosen Forge version, e.g. "1.20.1-47.3.0".
func ForgeMdkURL(data *domain.Store) (string, error) {
	v, err := domain.Require(data, domain.KeyLoaderVersion)
	if err != nil {
		return "", err
	}
	return ForgeMaven + "/" + v + "/forge-" + v + "-mdk.zip", nil
}

// VerifiedDownload fetches a file and the digest published next to it, and keeps the
// file only when they agree.
type VerifiedDownload struct {
	id          string
	archive     string
	source      func(data *domain.Store) (string, error)
	algorithm   string
	transport   ports.Transport
	files       ports.FileSystem
	checksummer ports.Checksummer
}

func (a *VerifiedDownload) ID() string             { return a.id }
func (a *VerifiedDownload) TranslationKey() string { return translationKey(a.id) }

func (a *VerifiedDownload) Run(ctx context.Context, pc *domain.ProjectContext, sink domain.ProgressSink) error {
	url, err := a.source(pc.Data)
	if err != nil {
		return err
	}
	target := filepath.Join(pc.ProjectDir, a.archive)
	sidecar := target + "." + a.algorithm

	// Nothing unverified survives a failed run.
	discard := func(err error) error {
		if cleanup := errors.Join(a.files.Delete(target), a.files.Delete(sidecar)); cleanup != nil {
			return fmt.Errorf("%w (cleanup: %v)", err, cleanup)
		}
		return err
	}

	sink.Info("Downloading " + url)
	if err := a.transport.Download(ctx, url, target); err != nil {
		return discard(fmt.Errorf("download %s: %w", url, err))
	}
	if err := a.transport.Download(ctx, url+"."+a.algorithm, sidecar); err != nil {
		return discard(fmt.Errorf("download %s digest: %w", url, err))
	}

	raw, err := a.files.ReadString(sidecar)
	if err != nil {
		return discard(fmt.Errorf("read digest: %w", err))
	}
	expected := firstToken(raw)
	if expected == "" {
		return discard(fmt.Errorf("%w: empty %s digest for %s", domain.ErrChecksumMismatch, a.algorithm, url))
	}

	sink.Info("Verifying " + a.algorithm + " checksum...")
	ok, err := a.checksummer.Verify(target, a.algorithm, expected)
	if err != nil {
		return discard(fmt.Errorf("verify %s: %w", a.archive, err))
	}
	if !ok {
		return discard(fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, a.archive))
	}
	return a.files.Delete(sidecar)
}

// firstToken accepts both bare digests and "<hex>  <file>" sidecars.
func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
