package onboarding

import (
	"context"

	"github.com/aretw0/switchyard/pkg/domain"
)

// StepKind identifies one of the screens the onboarding flows are assembled from.
// The kind doubles as the step id inside a flow.
type StepKind string

const (
	StepProjectDetails   StepKind = "project_details"
	StepMavenCoordinates StepKind = "maven_coordinates"
	StepMinecraftVersion StepKind = "minecraft_version"
	StepMappingChannel   StepKind = "mapping_channel"
	StepMappingVersion   StepKind = "mapping_version"
	StepNeoForge         StepKind = "neo"
	StepForge            StepKind = "forge"
	StepFabricLoader     StepKind = "fabric_loader"
	StepFabricAPI        StepKind = "fabric_api"
	StepModDetails       StepKind = "mod_details"
	StepLicense          StepKind = "license"
	StepLicenseCustom    StepKind = "license_custom"
	StepGit              StepKind = "git"
	StepAccessWidener    StepKind = "access_widener"
	StepSplitSources     StepKind = "split_sources"
	StepOptionalDetails  StepKind = "optional_details"
)

// FormStep is a WizardStep made of fields and optional hooks.
type FormStep struct {
	id     string
	title  string
	fields []domain.Field

	enter    func(ctx context.Context, s *domain.Store, sched domain.Scheduler)
	exit     func(s *domain.Store) error
	validate func(s *domain.Store) map[string]string
}

func newFormStep(kind StepKind, fields ...domain.Field) *FormStep {
	return &FormStep{
		id:     string(kind),
		title:  titleKey(kind),
		fields: fields,
	}
}

func (f *FormStep) onEnter(fn func(ctx context.Context, s *domain.Store, sched domain.Scheduler)) *FormStep {
	f.enter = fn
	return f
}

func (f *FormStep) onExit(fn func(s *domain.Store) error) *FormStep {
	f.exit = fn
	return f
}

func (f *FormStep) withValidation(fn func(s *domain.Store) map[string]string) *FormStep {
	f.validate = fn
	return f
}

func (f *FormStep) ID() string {
	return f.id
}

func (f *FormStep) TranslationKey() string {
	return f.title
}

func (f *FormStep) Fields() []domain.Field {
	return f.fields
}

func (f *FormStep) OnEnter(ctx context.Context, s *domain.Store, sched domain.Scheduler) {
	if f.enter != nil {
		f.enter(ctx, s, sched)
	}
}

func (f *FormStep) OnExit(s *domain.Store) error {
	if f.exit == nil {
		return nil
	}
	return f.exit(s)
}

func (f *FormStep) Validate(s *domain.Store) map[string]string {
	if f.validate == nil {
		return nil
	}
	return f.validate(s)
}

// stepFactory builds a fresh step for the given project kind.
type stepFactory func(o *Onboarding, kind domain.ProjectKind) *FormStep

// stepFactories maps every StepKind to its constructor.
var stepFactories = map[StepKind]stepFactory{
	StepProjectDetails:   projectDetailsStep,
	StepMavenCoordinates: mavenCoordinatesStep,
	StepMinecraftVersion: minecraftVersionStep,
	StepMappingChannel:   mappingChannelStep,
	StepMappingVersion:   mappingVersionStep,
	StepNeoForge:         neoForgeStep,
	StepForge:            forgeStep,
	StepFabricLoader:     fabricLoaderStep,
	StepFabricAPI:        fabricAPIStep,
	StepModDetails:       modDetailsStep,
	StepLicense:          licenseStep,
	StepLicenseCustom:    licenseCustomStep,
	StepGit:              gitStep,
	StepAccessWidener:    accessWidenerStep,
	StepSplitSources:     splitSourcesStep,
	StepOptionalDetails:  optionalDetailsStep,
}
