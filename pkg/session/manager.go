package session

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"log/slog"

	"github.com/aretw0/switchyard/internal/logging"
	"github.com/aretw0/switchyard/pkg/domain"
	"github.com/aretw0/switchyard/pkg/ports"
)

// DefaultLockTTL bounds how long a crashed process can hold a project directory.
const DefaultLockTTL = 10 * time.Minute

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates creation sessions and the project records they produce.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.ProjectStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	now     func() time.Time
	newID   func() string
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the distributed lock TTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new Manager with the given record store.
func NewManager(store ports.ProjectStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		now:     time.Now,
		newID:   newRecordID,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(key) after unlocking.
func (m *Manager) acquire(key string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		entry = &lockEntry{}
		m.locks[key] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, key)
	}
}

// Create runs fn while holding the lock for the project directory, then records the
// outcome. The returned error is fn's unless the record could not be saved.
func (m *Manager) Create(ctx context.Context, kind domain.ProjectKind, pctx *domain.ProjectContext, fn func(context.Context) error) (*domain.ProjectRecord, error) {
	key := "dir:" + filepath.Clean(pctx.ProjectDir)

	var rec *domain.ProjectRecord
	var runErr error
	err := m.WithLock(ctx, key, func(ctx context.Context) error {
		runErr = fn(ctx)
		rec = NewRecord(kind, pctx, runErr)
		rec.ID = m.newID()
		rec.CreatedAt = m.now().UTC()
		// The outcome is persisted even when ctx was cancelled mid-run.
		if err := m.store.Save(context.WithoutCancel(ctx), rec); err != nil {
			return fmt.Errorf("failed to record project: %w", err)
		}
		m.logger.Info("project recorded", "id", rec.ID, "kind", kind, "status", rec.Status, "dir", rec.Directory)
		return nil
	})
	if err != nil {
		if runErr != nil {
			m.logger.Warn("project record not saved", "err", err)
			return rec, runErr
		}
		return rec, err
	}
	return rec, runErr
}

// Load retrieves a project record.
func (m *Manager) Load(ctx context.Context, id string) (*domain.ProjectRecord, error) {
	var rec *domain.ProjectRecord
	err := m.WithLock(ctx, "record:"+id, func(ctx context.Context) error {
		var err error
		rec, err = m.store.Load(ctx, id)
		return err
	})
	return rec, err
}

// Delete removes a project record. The project files are left untouched.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.WithLock(ctx, "record:"+id, func(ctx context.Context) error {
		return m.store.Delete(ctx, id)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying record store.
func (m *Manager) Store() ports.ProjectStore {
	return m.store
}

// WithLock executes a function while holding the lock for key.
func (m *Manager) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	entry := m.acquire(key)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(key)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, key, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"key", key,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
