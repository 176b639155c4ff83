package onboarding

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/switchyard/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidators(t *testing.T) {
	tests := []struct {
		name  string
		fn    func(string) error
		valid []string
		bad   []string
	}{
		{"project name", ValidateProjectName, []string{"Example Mod", "mod-1"}, []string{"", "a/b", "what?", "dots."}},
		{"group id", ValidateGroupID, []string{"com.example", "io.github.user_1"}, []string{"", "com..example", "1com", "com-example"}},
		{"artifact id", ValidateArtifactID, []string{"example-mod", "mod.core_2"}, []string{"", "Example", "-mod"}},
		{"version", ValidateVersion, []string{"1.0.0", "1.0.0-beta+2"}, []string{"", "1 0", "-1"}},
		{"mod id", ValidateModID, []string{"examplemod", "my_mod2"}, []string{"", "a", "Mod", "2mod", "my-mod"}},
		{"main class", ValidateMainClass, []string{"ExampleMod", "_Mod$1"}, []string{"", "1Mod", "Example Mod"}},
		{"url", ValidateURL, []string{"", "https://example.com/issues", "http://localhost:8080"}, []string{"example.com", "ftp://example.com", "https://"}},
		{"single line", ValidateSingleLine, []string{"", "Jane Doe"}, []string{"a\nb"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, v := range tt.valid {
				assert.NoError(t, tt.fn(v), "%q should be valid", v)
			}
			for _, v := range tt.bad {
				assert.Error(t, tt.fn(v), "%q should be rejected", v)
			}
		})
	}
}

func TestDerivations(t *testing.T) {
	tests := []struct {
		name, artifact, modID, class string
	}{
		{"Example Mod", "example-mod", "example_mod", "ExampleMod"},
		{"  my cool--mod!! ", "my-cool-mod", "my_cool_mod", "MyCoolMod"},
		{"42 Things", "42-things", "mod_42_things", "Mod42Things"},
		{"!!!", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.artifact, ArtifactIDFromName(tt.name))
			assert.Equal(t, tt.modID, ModIDFromName(tt.name))
			assert.Equal(t, tt.class, MainClassFromName(tt.name))
		})
	}

	long := ModIDFromName("an extremely long project name that keeps going well past the limit of mod ids")
	assert.LessOrEqual(t, len(long), maxModIDLength)
	assert.NoError(t, ValidateModID(long))
}

func TestGameFilters(t *testing.T) {
	ids := func(vs []domain.VersionDescriptor) []string {
		out := make([]string, 0, len(vs))
		for _, v := range vs {
			out = append(out, v.ID)
		}
		return out
	}

	assert.Equal(t, []string{"1.21.1", "1.21", "1.20.6", "1.20.4"}, ids(neoForgeGames(games)))
	assert.Equal(t, []string{"1.21.1", "1.21", "1.20.6", "1.20.4", "1.20.1"}, ids(forgeGames(games)))
	assert.Equal(t, []string{"1.21.1", "1.20.1"}, ids(fabricGames(games, []string{"1.20.1", "1.21.1", "1.99"})))
}

func TestGameVersions_CacheTTL(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	loads := 0
	failing := false
	g := &gameVersions{
		ttl: DefaultCacheTTL,
		now: func() time.Time { return now },
		load: func(context.Context) ([]domain.VersionDescriptor, error) {
			if failing {
				return nil, errors.New("offline")
			}
			loads++
			return games[:2], nil
		},
	}

	_, _, loaded := g.lookup("1.21.1")
	assert.False(t, loaded)

	ctx := context.Background()
	_, err := g.get(ctx)
	require.NoError(t, err)
	_, err = g.get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, loads)

	v, found, loaded := g.lookup("1.21.1")
	assert.True(t, found)
	assert.True(t, loaded)
	assert.Equal(t, "1.21.1", v.ID)
	_, found, loaded = g.lookup("1.12.2")
	assert.False(t, found)
	assert.True(t, loaded)

	now = now.Add(DefaultCacheTTL + time.Second)
	_, err = g.get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, loads)

	now = now.Add(DefaultCacheTTL + time.Second)
	failing = true
	_, err = g.get(ctx)
	assert.Error(t, err)
	_, found, _ = g.lookup("1.21.1")
	assert.True(t, found, "a failed refresh keeps the previous list")
}

func TestGuessDescriptor(t *testing.T) {
	assert.Equal(t, domain.KindRelease, guessDescriptor("1.21.1").Kind)
	assert.Equal(t, domain.KindSnapshot, guessDescriptor("24w40a").Kind)
}
