package creation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"

	"github.com/aretw0/switchyard/pkg/domain"
	"github.com/aretw0/switchyard/pkg/ports"
)

// Attempt records the outcome of one download candidate.
type Attempt struct {
	URL string
	Err error
}

// CandidateFunc lists the URLs to try for a project, most specific first.
type CandidateFunc func(data *domain.Store) ([]string, error)

// FallbackDownload fetches the first candidate that succeeds.
// Failures of all but the last candidate are recorded and absorbed.
type FallbackDownload struct {
	id         string
	archive    string
	candidates CandidateFunc
	transport  ports.Transport
	logger     *slog.Logger
}

func (a *FallbackDownload) ID() string             { return a.id }
func (a *FallbackDownload) TranslationKey() string { return translationKey(a.id) }

func (a *FallbackDownload) Run(ctx context.Context, pc *domain.ProjectContext, sink domain.ProgressSink) error {
	urls, err := a.candidates(pc.Data)
	if err != nil {
		return err
	}
	dest := filepath.Join(pc.ProjectDir, a.archive)
	attempts, err := DownloadFirst(ctx, a.transport, urls, dest, sink)
	for _, at := range attempts {
		if at.Err != nil {
			a.logger.Debug("download candidate failed", "action_id", a.id, "url", at.URL, "err", at.Err)
		}
	}
	return err
}

// DownloadFirst tries urls in order and stops at the first success. It returns one
// Attempt per candidate tried and the error of the last one when none succeeded.
// A cancelled context stops the loop immediately.
func DownloadFirst(ctx context.Context, transport ports.Transport, urls []string, dest string, sink domain.ProgressSink) ([]Attempt, error) {
	if len(urls) == 0 {
		return nil, errors.New("no download candidates")
	}
	attempts := make([]Attempt, 0, len(urls))
	for i, url := range urls {
		if err := ctx.Err(); err != nil {
			return attempts, err
		}
		if i == 0 {
			sink.Info("Downloading " + url)
		} else {
			sink.Info("Falling back to " + url)
		}
		err := transport.Download(ctx, url, dest)
		attempts = append(attempts, Attempt{URL: url, Err: err})
		if err == nil {
			return attempts, nil
		}
	}
	last := attempts[len(attempts)-1]
	return attempts, fmt.Errorf("download %s: %w", last.URL, last.Err)
}

// NeoForgeCandidates lists the NeoForge MDK locations: the ModDevGradle and NeoGradle
// release assets for the chosen NeoForge version, then the main branch archives of
// the same repositories.
func NeoForgeCandidates(data *domain.Store) ([]string, error) {
	mc, err := domain.Require(data, domain.KeyMinecraftVersion)
	if err != nil {
		return nil, err
	}
	neo, err := domain.Require(data, domain.KeyLoaderVersion)
	if err != nil {
		return nil, err
	}

	repo := func(flavor string) string {
		return "https://github.com/NeoForgeMDKs/MDK-" + mc.ID + "-" + flavor
	}
	asset := "/releases/download/" + neo + "/neoforged-mdk-" + neo + ".zip"
	return []string{
		repo("ModDevGradle") + asset,
		repo("NeoGradle") + asset,
		repo("ModDevGradle") + "/archive/refs/heads/main.zip",
		repo("NeoGradle") + "/archive/refs/heads/main.zip",
	}, nil
}

// FabricExampleModRepo hosts the Fabric template, one branch per game release line.
const FabricExampleModRepo = "https://github.com/FabricMC/fabric-example-mod"

var releaseLine = regexp.MustCompile(`^(\d+\.\d+)\.\d+$`)

// FabricCandidates lists the fabric-example-mod branch archives for the exact game
// version, then its release line, then the default branch.
func FabricCandidates(data *domain.Store) ([]string, error) {
	mc, err := domain.Require(data, domain.KeyMinecraftVersion)
	if err != nil {
		return nil, err
	}
	branch := func(name string) string {
		return FabricExampleModRepo + "/archive/refs/heads/" + name + ".zip"
	}
	urls := []string{branch(mc.ID)}
	if m := releaseLine.FindStringSubmatch(mc.ID); m != nil {
		urls = append(urls, branch(m[1]))
	}
	return append(urls, FabricExampleModRepo+"/archive/HEAD.zip"), nil
}
