// Package onboarding assembles the project creation wizards of every supported mod
// loader from a shared set of form steps.
package onboarding

import (
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"time"

	"github.com/aretw0/switchyard/internal/logging"
	"github.com/aretw0/switchyard/pkg/domain"
	"github.com/aretw0/switchyard/pkg/dsl"
)

// Defaults prefill the wizard. Empty members fall back to the environment.
type Defaults struct {
	// Location is the parent directory of new projects. Defaults to the home directory.
	Location string
	GroupID  string
	// Version defaults to 1.0.0.
	Version string
	// Author defaults to the current user name.
	Author string
}

// Onboarding builds the wizard graphs. It is safe for concurrent use; each graph
// instantiates fresh steps per visit.
type Onboarding struct {
	catalogs Catalogs
	defaults Defaults
	ttl      time.Duration
	now      func() time.Time
	logger   *slog.Logger
	games    map[domain.ProjectKind]*gameVersions
}

// Option configures an Onboarding.
type Option func(*Onboarding)

// WithDefaults sets the prefilled answers.
func WithDefaults(d Defaults) Option {
	return func(o *Onboarding) {
		o.defaults = d
	}
}

// WithCacheTTL sets how long the game version list of a flow is reused.
func WithCacheTTL(ttl time.Duration) Option {
	return func(o *Onboarding) {
		o.ttl = ttl
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *Onboarding) {
		o.now = now
	}
}

// WithLogger configures the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Onboarding) {
		o.logger = l
	}
}

// New creates the wizard factory over the given catalogs.
func New(catalogs Catalogs, opts ...Option) *Onboarding {
	o := &Onboarding{
		catalogs: catalogs,
		ttl:      DefaultCacheTTL,
		now:      time.Now,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.defaults = o.defaults.withFallbacks()

	o.games = make(map[domain.ProjectKind]*gameVersions, len(domain.ProjectKinds))
	for _, kind := range domain.ProjectKinds {
		o.games[kind] = &gameVersions{ttl: o.ttl, now: o.now, load: o.gameVersionLoader(kind)}
	}
	return o
}

func (d Defaults) withFallbacks() Defaults {
	if d.Location == "" {
		if home, err := os.UserHomeDir(); err == nil {
			d.Location = home
		}
	}
	if d.Version == "" {
		d.Version = "1.0.0"
	}
	if d.Author == "" {
		if u, err := user.Current(); err == nil {
			d.Author = u.Username
		}
	}
	return d
}

var sequences = map[domain.ProjectKind][]StepKind{
	domain.ProjectNeoForge: {
		StepProjectDetails, StepMavenCoordinates, StepMinecraftVersion, StepMappingChannel,
		StepMappingVersion, StepNeoForge, StepModDetails, StepLicense, StepLicenseCustom,
		StepGit, StepOptionalDetails,
	},
	domain.ProjectForge: {
		StepProjectDetails, StepMavenCoordinates, StepMinecraftVersion, StepMappingChannel,
		StepMappingVersion, StepForge, StepModDetails, StepLicense, StepLicenseCustom,
		StepGit, StepOptionalDetails,
	},
	domain.ProjectFabric: {
		StepProjectDetails, StepMavenCoordinates, StepMinecraftVersion, StepMappingChannel,
		StepMappingVersion, StepFabricLoader, StepFabricAPI, StepModDetails, StepLicense,
		StepLicenseCustom, StepGit, StepAccessWidener, StepSplitSources, StepOptionalDetails,
	},
}

// Sequence returns the steps of a project kind in builder order.
func Sequence(kind domain.ProjectKind) ([]StepKind, bool) {
	seq, ok := sequences[kind]
	return append([]StepKind(nil), seq...), ok
}

// loaderStep is the step following the mappings for a project kind.
func loaderStep(kind domain.ProjectKind) StepKind {
	switch kind {
	case domain.ProjectForge:
		return StepForge
	case domain.ProjectFabric:
		return StepFabricLoader
	}
	return StepNeoForge
}

// Flow builds the wizard graph of a project kind.
//
// The graph walks the steps in sequence order with two shortcuts: the mojmap channel
// skips the mapping version, and the custom license step is only shown when the
// license is "custom".
func (o *Onboarding) Flow(kind domain.ProjectKind) (*domain.FlowGraph, error) {
	seq, ok := sequences[kind]
	if !ok {
		return nil, fmt.Errorf("unknown project kind %q", kind)
	}

	b := dsl.New()
	for _, sk := range seq {
		build, ok := stepFactories[sk]
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownStep, sk)
		}
		b.Add(string(sk), func() domain.WizardStep { return build(o, kind) })
	}

	if mapping, ok := b.Step(string(StepMappingChannel)); ok {
		mapping.BranchLabeled("mojmap", usesMojmap, string(loaderStep(kind)))
	}
	if license, ok := b.Step(string(StepLicense)); ok {
		license.
			BranchLabeled("custom license", usesCustomLicense, string(StepLicenseCustom)).
			Go(string(StepGit))
	}

	g, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("%s flow: %w", kind, err)
	}
	return g, nil
}

// Flows builds the graph of every supported project kind.
func (o *Onboarding) Flows() (map[domain.ProjectKind]*domain.FlowGraph, error) {
	out := make(map[domain.ProjectKind]*domain.FlowGraph, len(domain.ProjectKinds))
	for _, kind := range domain.ProjectKinds {
		g, err := o.Flow(kind)
		if err != nil {
			return nil, err
		}
		out[kind] = g
	}
	return out, nil
}

func usesMojmap(s *domain.Store) bool {
	return domain.GetOr(s, domain.KeyMappingChannel, "") == ChannelMojmap
}

func usesCustomLicense(s *domain.Store) bool {
	return domain.GetOr(s, domain.KeyLicense, "") == LicenseCustom
}
