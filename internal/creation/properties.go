package creation

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aretw0/switchyard/internal/onboarding"
	"github.com/aretw0/switchyard/pkg/domain"
	"github.com/aretw0/switchyard/pkg/ports"
	"gopkg.in/ini.v1"
)

// GradleProperties is the template's property file relative to the project root.
const GradleProperties = "gradle.properties"

// Property is one gradle.properties assignment.
type Property struct {
	Key   string
	Value string
}

// UpdateGradleProperties writes the wizard answers into the template's
// gradle.properties. Only keys the template already declares are touched.
type UpdateGradleProperties struct {
	kind  domain.ProjectKind
	files ports.FileSystem
}

func (a *UpdateGradleProperties) ID() string { return ActionUpdateGradleProperties }
func (a *UpdateGradleProperties) TranslationKey() string {
	return translationKey(ActionUpdateGradleProperties)
}

func (a *UpdateGradleProperties) Run(ctx context.Context, pc *domain.ProjectContext, sink domain.ProgressSink) error {
	path := filepath.Join(pc.ProjectDir, GradleProperties)
	if !a.files.Exists(path) {
		return fmt.Errorf("%s not found at %s", GradleProperties, path)
	}
	props, err := PropertiesFor(a.kind, pc.Data)
	if err != nil {
		return err
	}
	content, err := a.files.ReadString(path)
	if err != nil {
		return err
	}

	sink.Info("Updating " + GradleProperties + "...")
	updated, err := RewriteProperties(content, props)
	if err != nil {
		return err
	}
	return a.files.WriteString(path, updated)
}

// PropertiesFor maps the answers of a project kind to the properties its template uses.
func PropertiesFor(kind domain.ProjectKind, data *domain.Store) ([]Property, error) {
	mc, err := domain.Require(data, domain.KeyMinecraftVersion)
	if err != nil {
		return nil, err
	}
	get := func(k domain.Key[string]) string {
		return domain.GetOr(data, k, "")
	}

	license := get(domain.KeyLicense)
	if license == onboarding.LicenseCustom {
		license = get(domain.KeyLicenseCustom)
	}
	channel := get(domain.KeyMappingChannel)
	mapping := get(domain.KeyMappingVersion)

	props := []Property{{"minecraft_version", mc.ID}}
	switch kind {
	case domain.ProjectNeoForge:
		props = append(props, Property{"neo_version", get(domain.KeyLoaderVersion)})
		if channel == onboarding.ChannelParchment {
			props = append(props,
				Property{"parchment_minecraft_version", mc.ID},
				Property{"parchment_mappings_version", mapping},
			)
		}
	case domain.ProjectForge:
		loader := get(domain.KeyLoaderVersion)
		if _, after, ok := strings.Cut(loader, "-"); ok {
			loader = after
		}
		props = append(props, Property{"forge_version", loader})
		switch channel {
		case onboarding.ChannelParchment:
			props = append(props,
				Property{"mapping_channel", "parchment"},
				Property{"mapping_version", mapping + "-" + mc.ID},
			)
		case onboarding.ChannelMojmap:
			props = append(props,
				Property{"mapping_channel", "official"},
				Property{"mapping_version", mc.ID},
			)
		}
	case domain.ProjectFabric:
		if channel == onboarding.ChannelYarn {
			props = append(props, Property{"yarn_mappings", mapping})
		}
		props = append(props,
			Property{"loader_version", get(domain.KeyFabricLoaderVersion)},
			Property{"fabric_version", get(domain.KeyFabricAPIVersion)},
			Property{"maven_group", get(domain.KeyGroupID)},
			Property{"archives_base_name", get(domain.KeyArtifactID)},
		)
	default:
		return nil, fmt.Errorf("unknown project kind %q", kind)
	}

	return append(props,
		Property{"mod_id", get(domain.KeyModID)},
		Property{"mod_name", get(domain.KeyModName)},
		Property{"mod_license", license},
		Property{"mod_version", get(domain.KeyVersion)},
		Property{"mod_group_id", get(domain.KeyGroupID)},
		Property{"mod_authors", get(domain.KeyAuthor)},
		Property{"mod_description", get(domain.KeyDescription)},
	), nil
}

// RewriteProperties replaces the values of declared keys line by line, keeping
// comments, ordering and formatting. Empty values and undeclared keys are skipped.
func RewriteProperties(content string, props []Property) (string, error) {
	declared, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:     true,
		SkipUnrecognizableLines: true,
	}, []byte(content))
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", GradleProperties, err)
	}
	section := declared.Section(ini.DefaultSection)

	for _, p := range props {
		if p.Value == "" || !section.HasKey(p.Key) {
			continue
		}
		line := regexp.MustCompile(`(?m)^(\s*` + regexp.QuoteMeta(p.Key) + `\s*[=:]\s*).*$`)
		value := escapeValue(p.Value)
		content = line.ReplaceAllStringFunc(content, func(m string) string {
			return line.FindStringSubmatch(m)[1] + value
		})
	}
	return content, nil
}

// escapeValue applies the java.util.Properties escapes a single-line value needs.
func escapeValue(v string) string {
	return strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\r", `\r`, "\t", `\t`).Replace(v)
}
