package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/switchyard/pkg/adapters/memory"
	"github.com/aretw0/switchyard/pkg/domain"
	"github.com/aretw0/switchyard/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunProjectStoreContract(t, store)
}

func TestMemoryStore_CopyOnRead(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Save(ctx, &domain.ProjectRecord{ID: "p", Answers: map[string]any{"a": 1}}))

	rec, err := store.Load(ctx, "p")
	require.NoError(t, err)
	rec.Answers["a"] = 2

	again, err := store.Load(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Answers["a"])
}

func TestCatalog(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	c := memory.NewCatalog(
		domain.VersionDescriptor{ID: "1.21.1", Kind: domain.KindRelease, ReleaseTime: now},
		domain.VersionDescriptor{ID: "24w33a", Kind: domain.KindSnapshot, ReleaseTime: now},
	).WithLoaderVersions("1.21.1", "21.1.77", "21.1.76")

	v, ok, err := c.FetchExact(ctx, "24w33a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, v.IsSnapshot())

	_, ok, _ = c.FetchExact(ctx, "nope")
	assert.False(t, ok)

	all, _ := c.FetchAll(ctx)
	assert.Len(t, all, 2)

	loaders, _ := c.VersionsFor(ctx, "1.21.1")
	assert.Equal(t, []string{"21.1.77", "21.1.76"}, loaders)
	loaders, _ = c.VersionsFor(ctx, "1.7.10")
	assert.Empty(t, loaders)
}
