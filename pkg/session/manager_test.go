package session_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/switchyard/pkg/adapters/memory"
	"github.com/aretw0/switchyard/pkg/domain"
	"github.com/aretw0/switchyard/pkg/ports"
	"github.com/aretw0/switchyard/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func projectContext(dir string) *domain.ProjectContext {
	answers := domain.NewStoreFrom(map[string]any{
		"project_name":      "Example Mod",
		"group_id":          "com.example",
		"artifact_id":       "example-mod",
		"mod_id":            "examplemod",
		"loader_version":    "21.1.77",
		"license":           "MIT",
		"init_git":          true,
		"minecraft_version": domain.VersionDescriptor{ID: "1.21.1", Kind: domain.KindRelease},
	})
	domain.Set(answers, domain.OptionsKey("license"), []string{"MIT", "LGPL-3.0"})
	return domain.NewProjectContext(answers, dir)
}

func TestManager_CreateRecordsSuccess(t *testing.T) {
	store := memory.NewStore()
	mgr := session.NewManager(store)
	ctx := context.Background()

	ran := false
	rec, err := mgr.Create(ctx, domain.ProjectNeoForge, projectContext("/tmp/example"), func(context.Context) error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
	require.NotNil(t, rec)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, domain.StatusCreated, rec.Status)
	assert.False(t, rec.CreatedAt.IsZero())

	loaded, err := mgr.Load(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Example Mod", loaded.Name)
	assert.Equal(t, "1.21.1", loaded.MinecraftVersion)
	assert.Equal(t, "/tmp/example", loaded.Directory)

	ids, err := mgr.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{rec.ID}, ids)

	require.NoError(t, mgr.Delete(ctx, rec.ID))
	_, err = mgr.Load(ctx, rec.ID)
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestManager_CreateRecordsFailure(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	boom := &domain.ActionError{ActionID: "extract_mdk", Err: domain.ErrArchiveNotFound}

	rec, err := mgr.Create(context.Background(), domain.ProjectForge, projectContext("/tmp/failing"), func(context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, domain.ErrArchiveNotFound)
	require.NotNil(t, rec)
	assert.Equal(t, domain.StatusFailed, rec.Status)
	assert.Equal(t, "extract_mdk", rec.FailedAction)
	assert.Equal(t, domain.ProjectForge, rec.Kind)
}

func TestManager_SerializesSameDirectory(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	ctx := context.Background()

	var active, peak atomic.Int32
	run := func(context.Context) error {
		n := active.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		active.Add(-1)
		return nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Equivalent paths share one lock.
			dir := "/tmp/same"
			if i%2 == 0 {
				dir = "/tmp/./same/"
			}
			_, err := mgr.Create(ctx, domain.ProjectFabric, projectContext(dir), run)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), peak.Load())
	ids, _ := mgr.List(ctx)
	assert.Len(t, ids, 8)
}

type recordingLocker struct {
	mu       sync.Mutex
	keys     []string
	ttls     []time.Duration
	released int
	fail     error
}

func (l *recordingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fail != nil {
		return nil, l.fail
	}
	l.keys = append(l.keys, key)
	l.ttls = append(l.ttls, ttl)
	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.released++
		return nil
	}, nil
}

func TestManager_DistributedLock(t *testing.T) {
	locker := &recordingLocker{}
	mgr := session.NewManager(memory.NewStore(), session.WithLocker(locker), session.WithLockTTL(time.Minute))

	_, err := mgr.Create(context.Background(), domain.ProjectNeoForge, projectContext("/srv/mods/example"), func(context.Context) error {
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"dir:/srv/mods/example"}, locker.keys)
	assert.Equal(t, []time.Duration{time.Minute}, locker.ttls)
	assert.Equal(t, 1, locker.released)
}

func TestManager_DistributedLockFailure(t *testing.T) {
	locker := &recordingLocker{fail: errors.New("redis down")}
	mgr := session.NewManager(memory.NewStore(), session.WithLocker(locker))

	ran := false
	rec, err := mgr.Create(context.Background(), domain.ProjectNeoForge, projectContext("/srv/x"), func(context.Context) error {
		ran = true
		return nil
	})
	assert.ErrorContains(t, err, "redis down")
	assert.Nil(t, rec)
	assert.False(t, ran)
}
