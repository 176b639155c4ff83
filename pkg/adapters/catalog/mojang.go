package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/switchyard/pkg/domain"
)

// MojangManifestURL is the official game version manifest.
const MojangManifestURL = "https://piston-meta.mojang.com/mc/game/version_manifest_v2.json"

type manifest struct {
	Latest struct {
		Release  string `json:"release"`
		Snapshot string `json:"snapshot"`
	} `json:"latest"`
	Versions []domain.VersionDescriptor `json:"versions"`
}

// Mojang implements ports.VersionCatalog on the launcher version manifest.
type Mojang struct {
	client *Client
	url    string
}

// NewMojang creates a catalog reading the manifest at url. An empty url uses
// MojangManifestURL.
func NewMojang(client *Client, url string) *Mojang {
	if url == "" {
		url = MojangManifestURL
	}
	return &Mojang{client: client, url: url}
}

func (m *Mojang) load(ctx context.Context) (*manifest, error) {
	data, err := m.client.Get(ctx, m.url)
	if err != nil {
		return nil, err
	}
	var doc manifest
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse version manifest: %w", err)
	}
	return &doc, nil
}

// FetchExact looks up one version by id.
func (m *Mojang) FetchExact(ctx context.Context, id string) (domain.VersionDescriptor, bool, error) {
	doc, err := m.load(ctx)
	if err != nil {
		return domain.VersionDescriptor{}, false, err
	}
	for _, v := range doc.Versions {
		if v.ID == id {
			return v, true, nil
		}
	}
	return domain.VersionDescriptor{}, false, nil
}

// FetchAll returns every version in manifest order, newest first.
func (m *Mojang) FetchAll(ctx context.Context) ([]domain.VersionDescriptor, error) {
	doc, err := m.load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Versions, nil
}

// LatestRelease returns the id the manifest marks as the latest release.
func (m *Mojang) LatestRelease(ctx context.Context) (string, error) {
	doc, err := m.load(ctx)
	if err != nil {
		return "", err
	}
	return doc.Latest.Release, nil
}
