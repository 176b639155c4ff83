package onboarding

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/aretw0/switchyard/pkg/domain"
	"github.com/aretw0/switchyard/pkg/ports"
)

// Mapping channels.
const (
	ChannelParchment = "parchment"
	ChannelMojmap    = "mojmap"
	ChannelYarn      = "yarn"
)

// DefaultAccessWidenerPath is expanded by the Fabric build with the mod id.
const DefaultAccessWidenerPath = "${modid}.accesswidener"

const messagePrefix = "project.creation."

func titleKey(kind StepKind) string {
	return messagePrefix + string(kind) + ".title"
}

func field(key string, kind domain.FieldKind) domain.Field {
	return domain.Field{
		Key:   key,
		Label: messagePrefix + key,
		Info:  messagePrefix + key + ".info",
		Kind:  kind,
	}
}

func fixed(text string) func(*domain.Store) string {
	return func(*domain.Store) string { return text }
}

// firstOption defaults a choice to its first current option.
func firstOption(key string) func(*domain.Store) string {
	return func(s *domain.Store) string {
		if opts, ok := domain.Get(s, domain.OptionsKey(key)); ok && len(opts) > 0 {
			return opts[0]
		}
		return ""
	}
}

// oneOf rejects text outside options. Empty text is left to the required check.
func oneOf(options []string) func(string) error {
	return func(s string) error {
		if s == "" || slices.Contains(options, s) {
			return nil
		}
		return fmt.Errorf("%q is not one of the available options", s)
	}
}

// choiceUpdate replaces the options of a choice field. A stored value that is no
// longer offered is replaced by preferred, or the first option. An empty value is
// kept, optional choices use it to mean "none".
func choiceUpdate(key string, options []string, preferred string) domain.Update {
	return domain.Update{
		Field: key,
		Apply: func(s *domain.Store) {
			domain.Set(s, domain.OptionsKey(key), options)
			if len(options) == 0 {
				return
			}
			if cur, ok := s.Value(key); ok {
				if text, isText := cur.(string); isText && (text == "" || slices.Contains(options, text)) {
					return
				}
			}
			pick := options[0]
			if preferred != "" && slices.Contains(options, preferred) {
				pick = preferred
			}
			s.SetValue(key, pick)
		},
	}
}

// scheduleListing fetches catalog versions for the chosen game version into a choice.
func scheduleListing(s *domain.Store, sched domain.Scheduler, name, key string, catalog ports.LoaderCatalog) {
	mc, ok := domain.Get(s, domain.KeyMinecraftVersion)
	if !ok || catalog == nil {
		return
	}
	sched.Schedule(name, func(ctx context.Context) (domain.Update, error) {
		versions, err := catalog.VersionsFor(ctx, mc.ID)
		if err != nil {
			return domain.Update{}, fmt.Errorf("list %s for %s: %w", name, mc.ID, err)
		}
		return choiceUpdate(key, versions, ""), nil
	})
}

// deriveWhenAbsent stores derive(project name) under key unless a value exists.
func deriveWhenAbsent(s *domain.Store, key domain.Key[string], derive func(string) string) {
	if s.Contains(key.Name()) {
		return
	}
	name := domain.GetOr(s, domain.KeyProjectName, "")
	if name == "" {
		return
	}
	if v := derive(name); v != "" {
		domain.Set(s, key, v)
	}
}

func projectDetailsStep(o *Onboarding, _ domain.ProjectKind) *FormStep {
	name := field(domain.KeyProjectName.Name(), domain.FieldText)
	name.Required = true
	name.Validate = ValidateProjectName

	location := field(domain.KeyProjectLocation.Name(), domain.FieldDirectory)
	location.Required = true
	location.Default = fixed(o.defaults.Location)
	location.Validate = ValidateLocation

	return newFormStep(StepProjectDetails, name, location).
		withValidation(func(s *domain.Store) map[string]string {
			dir := projectDir(s)
			if dir == "" {
				return nil
			}
			info, err := os.Stat(dir)
			switch {
			case err != nil:
				return nil
			case !info.IsDir():
				return map[string]string{location.Key: dir + " exists and is not a directory"}
			}
			if entries, err := os.ReadDir(dir); err == nil && len(entries) > 0 {
				return map[string]string{name.Key: dir + " already exists and is not empty"}
			}
			return nil
		}).
		onExit(func(s *domain.Store) error {
			domain.Set(s, domain.KeyProjectDir, projectDir(s))
			return nil
		})
}

func projectDir(s *domain.Store) string {
	name := domain.GetOr(s, domain.KeyProjectName, "")
	loc := domain.GetOr(s, domain.KeyProjectLocation, "")
	if name == "" || loc == "" {
		return ""
	}
	return filepath.Join(loc, name)
}

func mavenCoordinatesStep(o *Onboarding, _ domain.ProjectKind) *FormStep {
	group := field(domain.KeyGroupID.Name(), domain.FieldText)
	group.Required = true
	group.Default = fixed(o.defaults.GroupID)
	group.Validate = ValidateGroupID

	artifact := field(domain.KeyArtifactID.Name(), domain.FieldText)
	artifact.Required = true
	artifact.Validate = ValidateArtifactID

	version := field(domain.KeyVersion.Name(), domain.FieldText)
	version.Required = true
	version.Default = fixed(o.defaults.Version)
	version.Validate = ValidateVersion

	return newFormStep(StepMavenCoordinates, group, artifact, version).
		onEnter(func(_ context.Context, s *domain.Store, _ domain.Scheduler) {
			deriveWhenAbsent(s, domain.KeyArtifactID, ArtifactIDFromName)
		})
}

func minecraftVersionStep(o *Onboarding, kind domain.ProjectKind) *FormStep {
	games := o.games[kind]
	key := domain.KeyMinecraftVersion.Name()

	mc := field(key, domain.FieldChoice)
	mc.Required = true
	mc.Default = firstOption(key)
	mc.Parse = func(text string) (any, error) {
		v, found, loaded := games.lookup(text)
		switch {
		case found:
			return v, nil
		case loaded:
			return nil, fmt.Errorf("%s is not available for %s projects", text, kind)
		}
		return guessDescriptor(text), nil
	}

	return newFormStep(StepMinecraftVersion, mc).
		onEnter(func(_ context.Context, _ *domain.Store, sched domain.Scheduler) {
			sched.Schedule("minecraft_versions", func(ctx context.Context) (domain.Update, error) {
				list, err := games.get(ctx)
				if err != nil {
					return domain.Update{}, fmt.Errorf("list minecraft versions: %w", err)
				}
				o.logger.Debug("minecraft versions listed", "kind", kind, "count", len(list))
				return gameVersionUpdate(list), nil
			})
		})
}

// gameVersionUpdate offers list and keeps the chosen version a catalog entry. Without
// a valid choice the newest release is selected.
func gameVersionUpdate(list []domain.VersionDescriptor) domain.Update {
	key := domain.KeyMinecraftVersion
	ids := make([]string, 0, len(list))
	for _, v := range list {
		ids = append(ids, v.ID)
	}
	return domain.Update{
		Field: key.Name(),
		Apply: func(s *domain.Store) {
			domain.Set(s, domain.OptionsKey(key.Name()), ids)
			if len(list) == 0 {
				return
			}
			if cur, ok := domain.Get(s, key); ok {
				if i := slices.IndexFunc(list, func(v domain.VersionDescriptor) bool { return v.ID == cur.ID }); i >= 0 {
					domain.Set(s, key, list[i])
					return
				}
			}
			pick := list[0]
			if i := slices.IndexFunc(list, func(v domain.VersionDescriptor) bool { return v.Kind == domain.KindRelease }); i >= 0 {
				pick = list[i]
			}
			domain.Set(s, key, pick)
		},
	}
}

func mappingChannels(kind domain.ProjectKind) []string {
	if kind == domain.ProjectFabric {
		return []string{ChannelYarn, ChannelMojmap}
	}
	return []string{ChannelParchment, ChannelMojmap}
}

func mappingChannelStep(_ *Onboarding, kind domain.ProjectKind) *FormStep {
	channels := mappingChannels(kind)
	key := domain.KeyMappingChannel.Name()

	channel := field(key, domain.FieldChoice)
	channel.Required = true
	channel.Translate = true
	channel.Default = fixed(channels[0])
	channel.Validate = oneOf(channels)

	return newFormStep(StepMappingChannel, channel).
		onEnter(func(_ context.Context, s *domain.Store, _ domain.Scheduler) {
			domain.Set(s, domain.OptionsKey(key), channels)
		}).
		onExit(func(s *domain.Store) error {
			// Mojang mappings have one release per game version.
			if !usesMojmap(s) {
				return nil
			}
			mc, err := domain.Require(s, domain.KeyMinecraftVersion)
			if err != nil {
				return err
			}
			domain.Set(s, domain.KeyMappingVersion, mc.ID)
			return nil
		})
}

func mappingVersionStep(o *Onboarding, _ domain.ProjectKind) *FormStep {
	key := domain.KeyMappingVersion.Name()

	version := field(key, domain.FieldChoice)
	version.Required = true
	version.Default = firstOption(key)

	return newFormStep(StepMappingVersion, version).
		onEnter(func(_ context.Context, s *domain.Store, sched domain.Scheduler) {
			var catalog ports.LoaderCatalog
			switch domain.GetOr(s, domain.KeyMappingChannel, "") {
			case ChannelParchment:
				catalog = o.catalogs.Parchment
			case ChannelYarn:
				catalog = o.catalogs.Yarn
			}
			scheduleListing(s, sched, "mapping_versions", key, catalog)
		})
}

func loaderVersionStep(kind StepKind, catalog ports.LoaderCatalog) *FormStep {
	key := domain.KeyLoaderVersion.Name()

	version := field(key, domain.FieldChoice)
	version.Required = true
	version.Default = firstOption(key)

	return newFormStep(kind, version).
		onEnter(func(_ context.Context, s *domain.Store, sched domain.Scheduler) {
			scheduleListing(s, sched, string(kind)+"_versions", key, catalog)
		})
}

func neoForgeStep(o *Onboarding, _ domain.ProjectKind) *FormStep {
	return loaderVersionStep(StepNeoForge, o.catalogs.NeoForge)
}

func forgeStep(o *Onboarding, _ domain.ProjectKind) *FormStep {
	return loaderVersionStep(StepForge, o.catalogs.Forge)
}

func fabricLoaderStep(o *Onboarding, _ domain.ProjectKind) *FormStep {
	key := domain.KeyFabricLoaderVersion.Name()

	version := field(key, domain.FieldChoice)
	version.Required = true
	version.Default = firstOption(key)

	return newFormStep(StepFabricLoader, version).
		onEnter(func(_ context.Context, s *domain.Store, sched domain.Scheduler) {
			scheduleListing(s, sched, "fabric_loader_versions", key, o.catalogs.FabricLoader)
		})
}

func fabricAPIStep(o *Onboarding, _ domain.ProjectKind) *FormStep {
	key := domain.KeyFabricAPIVersion.Name()

	version := field(key, domain.FieldChoice)
	version.Default = firstOption(key)

	return newFormStep(StepFabricAPI, version).
		onEnter(func(_ context.Context, s *domain.Store, sched domain.Scheduler) {
			scheduleListing(s, sched, "fabric_api_versions", key, o.catalogs.FabricAPI)
		})
}

func modDetailsStep(_ *Onboarding, _ domain.ProjectKind) *FormStep {
	id := field(domain.KeyModID.Name(), domain.FieldText)
	id.Required = true
	id.Validate = ValidateModID

	name := field(domain.KeyModName.Name(), domain.FieldText)
	name.Required = true
	name.Validate = ValidateModName

	class := field(domain.KeyMainClass.Name(), domain.FieldText)
	class.Required = true
	class.Validate = ValidateMainClass

	return newFormStep(StepModDetails, id, name, class).
		onEnter(func(_ context.Context, s *domain.Store, _ domain.Scheduler) {
			deriveWhenAbsent(s, domain.KeyModID, ModIDFromName)
			deriveWhenAbsent(s, domain.KeyModName, func(n string) string { return n })
			deriveWhenAbsent(s, domain.KeyMainClass, MainClassFromName)
		})
}

func licenseStep(_ *Onboarding, _ domain.ProjectKind) *FormStep {
	ids := licenseIDs()
	key := domain.KeyLicense.Name()

	license := field(key, domain.FieldChoice)
	license.Required = true
	license.Default = fixed(DefaultLicense)
	license.Validate = oneOf(ids)

	return newFormStep(StepLicense, license).
		onEnter(func(_ context.Context, s *domain.Store, _ domain.Scheduler) {
			domain.Set(s, domain.OptionsKey(key), ids)
		}).
		onExit(func(s *domain.Store) error {
			if !usesCustomLicense(s) {
				s.Delete(domain.KeyLicenseCustom.Name())
			}
			return nil
		})
}

func licenseCustomStep(_ *Onboarding, _ domain.ProjectKind) *FormStep {
	custom := field(domain.KeyLicenseCustom.Name(), domain.FieldText)
	custom.Required = true
	custom.Validate = ValidateSingleLine
	return newFormStep(StepLicenseCustom, custom)
}

func gitStep(_ *Onboarding, _ domain.ProjectKind) *FormStep {
	git := field(domain.KeyInitGit.Name(), domain.FieldToggle)
	git.Default = fixed(strconv.FormatBool(true))
	return newFormStep(StepGit, git)
}

func accessWidenerStep(_ *Onboarding, _ domain.ProjectKind) *FormStep {
	use := field(domain.KeyUseAccessWidener.Name(), domain.FieldToggle)
	use.Default = fixed(strconv.FormatBool(true))

	path := field(domain.KeyAccessWidenerPath.Name(), domain.FieldText)
	path.Default = fixed(DefaultAccessWidenerPath)
	path.Validate = ValidateSingleLine

	return newFormStep(StepAccessWidener, use, path).
		withValidation(func(s *domain.Store) map[string]string {
			if domain.GetOr(s, domain.KeyUseAccessWidener, false) && domain.GetOr(s, domain.KeyAccessWidenerPath, "") == "" {
				return map[string]string{path.Key: "required when the access widener is enabled"}
			}
			return nil
		}).
		onExit(func(s *domain.Store) error {
			if !domain.GetOr(s, domain.KeyUseAccessWidener, false) {
				s.Delete(path.Key)
			}
			return nil
		})
}

func splitSourcesStep(_ *Onboarding, _ domain.ProjectKind) *FormStep {
	split := field(domain.KeySplitSources.Name(), domain.FieldToggle)
	split.Default = fixed(strconv.FormatBool(true))
	return newFormStep(StepSplitSources, split)
}

func optionalDetailsStep(o *Onboarding, _ domain.ProjectKind) *FormStep {
	author := field(domain.KeyAuthor.Name(), domain.FieldText)
	author.Default = fixed(o.defaults.Author)
	author.Validate = ValidateSingleLine

	description := field(domain.KeyDescription.Name(), domain.FieldTextArea)

	issues := field(domain.KeyIssuesURL.Name(), domain.FieldText)
	issues.Validate = ValidateURL
	homepage := field(domain.KeyHomepageURL.Name(), domain.FieldText)
	homepage.Validate = ValidateURL
	sources := field(domain.KeySourcesURL.Name(), domain.FieldText)
	sources.Validate = ValidateURL

	return newFormStep(StepOptionalDetails, author, description, issues, homepage, sources)
}
