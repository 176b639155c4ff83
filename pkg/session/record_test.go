package session

import (
	"fmt"
	"testing"

	"github.com/aretw0/switchyard/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestNewRecord(t *testing.T) {
	answers := domain.NewStoreFrom(map[string]any{
		"project_name":          "Fabric Thing",
		"fabric_loader_version": "0.16.5",
		"fabric_api_version":    "0.103.0+1.21.1",
		"split_sources":         true,
		"minecraft_version":     domain.VersionDescriptor{ID: "1.21.1", Kind: domain.KindRelease},
		"empty":                 nil,
	})
	domain.Set(answers, domain.OptionsKey("minecraft_version"), []string{"1.21.1", "1.21"})

	rec := NewRecord(domain.ProjectFabric, domain.NewProjectContext(answers, "/work/thing"), nil)

	assert.Equal(t, domain.StatusCreated, rec.Status)
	assert.Equal(t, "Fabric Thing", rec.Name)
	assert.Equal(t, "1.21.1", rec.MinecraftVersion)
	assert.Equal(t, "0.16.5", rec.LoaderVersion)
	assert.Equal(t, "/work/thing", rec.Directory)
	assert.Equal(t, true, rec.Answers["split_sources"])
	assert.Equal(t, "1.21.1", rec.Answers["minecraft_version"])
	assert.NotContains(t, rec.Answers, "minecraft_version.options")
	assert.NotContains(t, rec.Answers, "empty")
	assert.Empty(t, rec.FailedAction)
}

func TestNewRecord_Failure(t *testing.T) {
	pctx := domain.NewProjectContext(domain.NewStore(), "/work/x")

	rec := NewRecord(domain.ProjectNeoForge, pctx, fmt.Errorf("pipeline: %w", &domain.ActionError{ActionID: "init_git"}))
	assert.Equal(t, domain.StatusFailed, rec.Status)
	assert.Equal(t, "init_git", rec.FailedAction)

	rec = NewRecord(domain.ProjectNeoForge, pctx, fmt.Errorf("plain failure"))
	assert.Equal(t, domain.StatusFailed, rec.Status)
	assert.Empty(t, rec.FailedAction)
}
