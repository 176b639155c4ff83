// Package creation holds the pipeline actions that turn wizard answers into a mod
// project on disk, and the per loader pipelines built from them.
package creation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/switchyard/internal/logging"
	"github.com/aretw0/switchyard/pkg/domain"
	"github.com/aretw0/switchyard/pkg/ports"
)

// DefaultGradleVersion is written to the Gradle wrapper of every new project.
const DefaultGradleVersion = "8.14.3"

// Action ids.
const (
	ActionCreateDirectory        = "create_directory"
	ActionDownloadNeoForgeMdk    = "download_neoforge_mdk"
	ActionDownloadForgeMdk       = "download_forge_mdk"
	ActionDownloadFabricTemplate = "download_fabric_template"
	ActionExtractMdk             = "extract_mdk"
	ActionUpdateGradleProperties = "update_gradle_properties"
	ActionInitGit                = "init_git"
)

// Archive names inside the project directory.
const (
	NeoForgeArchive = "neoforge-mdk.zip"
	ForgeArchive    = "forge-mdk.zip"
	FabricArchive   = "fabric-template.zip"
)

// VersionResolver maps a game version to the one upstream publishes templates for.
type VersionResolver interface {
	Resolve(ctx context.Context, requested domain.VersionDescriptor) (domain.VersionDescriptor, error)
}

// Deps are the collaborators of the creation actions.
type Deps struct {
	Transport   ports.Transport
	Files       ports.FileSystem
	Archiver    ports.Archiver
	Checksummer ports.Checksummer
	Commands    ports.CommandRunner
	Resolver    VersionResolver
	// Catalog completes game versions the wizard could not look up. May be nil.
	Catalog ports.VersionCatalog

	// GradleVersion defaults to DefaultGradleVersion.
	GradleVersion string
	Logger        *slog.Logger
}

func (d Deps) withDefaults() Deps {
	if d.GradleVersion == "" {
		d.GradleVersion = DefaultGradleVersion
	}
	if d.Logger == nil {
		d.Logger = logging.NewNop()
	}
	return d
}

// Actions returns the creation pipeline of a project kind in execution order.
func Actions(kind domain.ProjectKind, deps Deps) ([]domain.PipelineAction, error) {
	deps = deps.withDefaults()

	var download domain.PipelineAction
	var archive string
	switch kind {
	case domain.ProjectNeoForge:
		archive = NeoForgeArchive
		download = &FallbackDownload{
			id:         ActionDownloadNeoForgeMdk,
			archive:    archive,
			candidates: NeoForgeCandidates,
			transport:  deps.Transport,
			logger:     deps.Logger,
		}
	case domain.ProjectForge:
		archive = ForgeArchive
		download = &VerifiedDownload{
			id:          ActionDownloadForgeMdk,
			archive:     archive,
			source:      ForgeMdkURL,
			algorithm:   "sha1",
			transport:   deps.Transport,
			files:       deps.Files,
			checksummer: deps.Checksummer,
		}
	case domain.ProjectFabric:
		archive = FabricArchive
		download = &FallbackDownload{
			id:         ActionDownloadFabricTemplate,
			archive:    archive,
			candidates: FabricCandidates,
			transport:  deps.Transport,
			logger:     deps.Logger,
		}
	default:
		return nil, fmt.Errorf("unknown project kind %q", kind)
	}

	return []domain.PipelineAction{
		&CreateDirectory{files: deps.Files},
		download,
		&ExtractMdk{
			archive:       archive,
			gradleVersion: deps.GradleVersion,
			files:         deps.Files,
			archiver:      deps.Archiver,
			resolver:      deps.Resolver,
			catalog:       deps.Catalog,
			logger:        deps.Logger,
		},
		&UpdateGradleProperties{kind: kind, files: deps.Files},
		&InitGit{commands: deps.Commands},
	}, nil
}

func translationKey(id string) string {
	return "project.creation.task." + id
}

// CreateDirectory makes sure the project directory exists.
type CreateDirectory struct {
	files ports.FileSystem
}

func (a *CreateDirectory) ID() string             { return ActionCreateDirectory }
func (a *CreateDirectory) TranslationKey() string { return translationKey(ActionCreateDirectory) }

func (a *CreateDirectory) Run(ctx context.Context, pc *domain.ProjectContext, sink domain.ProgressSink) error {
	if pc.ProjectDir == "" {
		return fmt.Errorf("%w: project directory", domain.ErrMissingContext)
	}
	if a.files.Exists(pc.ProjectDir) && !a.files.IsDir(pc.ProjectDir) {
		return fmt.Errorf("%s exists and is not a directory", pc.ProjectDir)
	}
	sink.Info("Creating " + pc.ProjectDir)
	return a.files.MkdirAll(pc.ProjectDir)
}

// InitGit runs git init when the user asked for a repository.
type InitGit struct {
	commands ports.CommandRunner
}

func (a *InitGit) ID() string             { return ActionInitGit }
func (a *InitGit) TranslationKey() string { return translationKey(ActionInitGit) }

func (a *InitGit) Run(ctx context.Context, pc *domain.ProjectContext, sink domain.ProgressSink) error {
	if !domain.GetOr(pc.Data, domain.KeyInitGit, false) {
		sink.Info("Skipping git repository")
		return nil
	}
	sink.Info("Initializing git repository...")
	if _, err := a.commands.Run(ctx, pc.ProjectDir, "git", "init"); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	return nil
}
