package catalog

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// FabricMetaURL is the Fabric metadata service.
const FabricMetaURL = "https://meta.fabricmc.net/v2"

type fabricLoaderEntry struct {
	Loader struct {
		Version string `json:"version"`
		Stable  bool   `json:"stable"`
	} `json:"loader"`
}

// FabricLoader implements ports.LoaderCatalog on the Fabric metadata service.
type FabricLoader struct {
	client  *Client
	baseURL string
}

// NewFabricLoader creates a Fabric loader catalog. An empty baseURL uses FabricMetaURL.
func NewFabricLoader(client *Client, baseURL string) *FabricLoader {
	if baseURL == "" {
		baseURL = FabricMetaURL
	}
	return &FabricLoader{client: client, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// VersionsFor lists the loader versions compatible with minecraft. Stable builds come
// first, each group newest first.
func (f *FabricLoader) VersionsFor(ctx context.Context, minecraft string) ([]string, error) {
	data, err := f.client.Get(ctx, f.baseURL+"/versions/loader/"+url.PathEscape(minecraft))
	if err != nil {
		return nil, err
	}
	var entries []fabricLoaderEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse fabric loader versions: %w", err)
	}

	var stable, unstable []string
	for _, e := range entries {
		if e.Loader.Stable {
			stable = append(stable, e.Loader.Version)
		} else {
			unstable = append(unstable, e.Loader.Version)
		}
	}
	SortNewestFirst(stable)
	SortNewestFirst(unstable)
	return append(stable, unstable...), nil
}

type yarnEntry struct {
	Version string `json:"version"`
	Build   int    `json:"build"`
}

// FabricYarn lists Yarn mapping builds from the Fabric metadata service.
type FabricYarn struct {
	client  *Client
	baseURL string
}

// NewFabricYarn creates a Yarn mappings catalog. An empty baseURL uses FabricMetaURL.
func NewFabricYarn(client *Client, baseURL string) *FabricYarn {
	if baseURL == "" {
		baseURL = FabricMetaURL
	}
	return &FabricYarn{client: client, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// VersionsFor lists the Yarn builds for minecraft, highest build first.
func (y *FabricYarn) VersionsFor(ctx context.Context, minecraft string) ([]string, error) {
	data, err := y.client.Get(ctx, y.baseURL+"/versions/yarn/"+url.PathEscape(minecraft))
	if err != nil {
		return nil, err
	}
	var entries []yarnEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse yarn versions: %w", err)
	}

	slices.SortStableFunc(entries, func(a, b yarnEntry) int {
		return cmp.Compare(b.Build, a.Build)
	})
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Version)
	}
	return out, nil
}
