package catalog

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"
)

// Default repository locations.
const (
	NeoForgeMetadataURL  = "https://maven.neoforged.net/releases/net/neoforged/neoforge/maven-metadata.xml"
	ForgeMetadataURL     = "https://maven.minecraftforge.net/net/minecraftforge/forge/maven-metadata.xml"
	FabricAPIMetadataURL = "https://maven.fabricmc.net/net/fabricmc/fabric-api/fabric-api/maven-metadata.xml"
	ParchmentMavenURL    = "https://maven.parchmentmc.org/org/parchmentmc/data"
)

type mavenMetadata struct {
	Versioning struct {
		Latest   string   `xml:"latest"`
		Release  string   `xml:"release"`
		Versions []string `xml:"versions>version"`
	} `xml:"versioning"`
}

// Maven implements ports.LoaderCatalog on a maven-metadata.xml document.
type Maven struct {
	client *Client
	// url returns the metadata location for a game version.
	url func(minecraft string) string
	// match selects the artifact versions built for a game version. Nil keeps all.
	match func(minecraft, version string) bool
	// orderKey extracts the part of a version used for ordering. Nil uses the version.
	orderKey func(minecraft, version string) string
	// game extracts the game version an artifact version targets. Nil when the
	// repository does not encode it.
	game func(version string) string
}

// VersionsFor lists the artifact versions for minecraft, newest first.
func (m *Maven) VersionsFor(ctx context.Context, minecraft string) ([]string, error) {
	all, err := m.fetch(ctx, m.url(minecraft))
	if err != nil {
		return nil, err
	}

	var out []string
	for _, v := range all {
		if m.match == nil || m.match(minecraft, v) {
			out = append(out, v)
		}
	}
	m.sort(minecraft, out)
	return out, nil
}

// All lists every published version, newest first. Parchment has no global listing
// and returns an error.
func (m *Maven) All(ctx context.Context) ([]string, error) {
	all, err := m.fetch(ctx, m.url(""))
	if err != nil {
		return nil, err
	}
	m.sort("", all)
	return all, nil
}

func (m *Maven) fetch(ctx context.Context, url string) ([]string, error) {
	if url == "" {
		return nil, fmt.Errorf("maven repository has no global listing")
	}
	data, err := m.client.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	var doc mavenMetadata
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", url, err)
	}
	return doc.Versioning.Versions, nil
}

func (m *Maven) sort(minecraft string, versions []string) {
	if m.orderKey == nil {
		SortNewestFirst(versions)
		return
	}
	keyed := make(map[string]string, len(versions))
	for _, v := range versions {
		keyed[v] = m.orderKey(minecraft, v)
	}
	sortByKey(versions, keyed)
}

func fixed(url string) func(string) string {
	return func(string) string { return url }
}

// NewNeoForge lists NeoForge builds. NeoForge numbers its builds after the game
// version without the leading "1.": game 1.21.1 maps to 21.1.x and 1.21 to 21.0.x.
func NewNeoForge(client *Client, url string) *Maven {
	if url == "" {
		url = NeoForgeMetadataURL
	}
	return &Maven{
		client: client,
		url:    fixed(url),
		match: func(minecraft, version string) bool {
			prefix, ok := NeoForgePrefix(minecraft)
			return ok && strings.HasPrefix(version, prefix)
		},
	}
}

// NeoForgePrefix returns the NeoForge version prefix for a game version.
func NeoForgePrefix(minecraft string) (string, bool) {
	rest, ok := strings.CutPrefix(minecraft, "1.")
	if !ok || rest == "" {
		return "", false
	}
	parts := strings.Split(rest, ".")
	switch len(parts) {
	case 1:
		return parts[0] + ".0.", true
	case 2:
		return parts[0] + "." + parts[1] + ".", true
	}
	return "", false
}

// NewForge lists Forge builds, published as "<game>-<forge>".
func NewForge(client *Client, url string) *Maven {
	if url == "" {
		url = ForgeMetadataURL
	}
	return &Maven{
		client: client,
		url:    fixed(url),
		match: func(minecraft, version string) bool {
			return strings.HasPrefix(version, minecraft+"-")
		},
		orderKey: func(minecraft, version string) string {
			_, build, _ := strings.Cut(version, "-")
			return build
		},
		game: func(version string) string {
			mc, _, _ := strings.Cut(version, "-")
			return mc
		},
	}
}

// NewFabricAPI lists Fabric API builds, published as "<api>+<game>".
func NewFabricAPI(client *Client, url string) *Maven {
	if url == "" {
		url = FabricAPIMetadataURL
	}
	return &Maven{
		client: client,
		url:    fixed(url),
		match: func(minecraft, version string) bool {
			return FabricAPIMinecraft(version) == minecraft
		},
		game: FabricAPIMinecraft,
	}
}

// GameVersions lists the distinct game versions the repository publishes builds for,
// in the order of their newest build.
func (m *Maven) GameVersions(ctx context.Context) ([]string, error) {
	if m.game == nil {
		return nil, fmt.Errorf("repository does not encode game versions")
	}
	all, err := m.All(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []string
	for _, v := range all {
		mc := m.game(v)
		if mc == "" || seen[mc] {
			continue
		}
		seen[mc] = true
		out = append(out, mc)
	}
	return out, nil
}

// FabricAPIMinecraft returns the game version a Fabric API build targets, or "".
// Early builds carry "+build.N" instead of a game version.
func FabricAPIMinecraft(version string) string {
	_, mc, ok := strings.Cut(version, "+")
	if !ok || mc == "" || mc[0] < '0' || mc[0] > '9' {
		return ""
	}
	return mc
}

// NewParchment lists Parchment mapping exports. Parchment publishes one artifact per
// game version under baseURL.
func NewParchment(client *Client, baseURL string) *Maven {
	if baseURL == "" {
		baseURL = ParchmentMavenURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	return &Maven{
		client: client,
		url: func(minecraft string) string {
			if minecraft == "" {
				return ""
			}
			return fmt.Sprintf("%s/parchment-%s/maven-metadata.xml", baseURL, minecraft)
		},
	}
}
