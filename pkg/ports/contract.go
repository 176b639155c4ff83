package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/switchyard/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunProjectStoreContract runs a suite of tests to verify that a ProjectStore
// implementation adheres to the defined interface contract.
func RunProjectStoreContract(t *testing.T, store ProjectStore) {
	ctx := context.Background()
	id := "contract-" + time.Now().Format("20060102150405")

	record := func(id string) *domain.ProjectRecord {
		return &domain.ProjectRecord{
			ID:               id,
			Kind:             domain.ProjectNeoForge,
			Name:             "Example Mod",
			Directory:        "/tmp/example-mod",
			ModID:            "examplemod",
			MinecraftVersion: "1.21.1",
			LoaderVersion:    "21.1.77",
			Status:           domain.StatusCreated,
			CreatedAt:        time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
			Answers:          map[string]any{"license": "MIT"},
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		rec := record(id)
		require.NoError(t, store.Save(ctx, rec), "Save should not return error")

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, rec.ID, loaded.ID)
		assert.Equal(t, rec.Kind, loaded.Kind)
		assert.Equal(t, rec.ModID, loaded.ModID)
		assert.Equal(t, rec.MinecraftVersion, loaded.MinecraftVersion)
		assert.True(t, rec.CreatedAt.Equal(loaded.CreatedAt))
		assert.Equal(t, "MIT", loaded.Answers["license"])
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		rec := record(id)
		rec.Status = domain.StatusFailed
		rec.FailedAction = "extract_mdk"
		require.NoError(t, store.Save(ctx, rec))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusFailed, loaded.Status)
		assert.Equal(t, "extract_mdk", loaded.FailedAction)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+id)
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, record(id)))

		require.NoError(t, store.Delete(ctx, id), "Delete should not return error")

		_, err := store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrProjectNotFound, "Load after Delete should return ErrProjectNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := id + "-1"
		id2 := id + "-2"
		require.NoError(t, store.Save(ctx, record(id1)))
		require.NoError(t, store.Save(ctx, record(id2)))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
