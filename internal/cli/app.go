package cli

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/switchyard/internal/config"
	"github.com/aretw0/switchyard/internal/creation"
	"github.com/aretw0/switchyard/internal/logging"
	"github.com/aretw0/switchyard/internal/metrics"
	"github.com/aretw0/switchyard/internal/onboarding"
	"github.com/aretw0/switchyard/pkg/adapters/archive"
	"github.com/aretw0/switchyard/pkg/adapters/catalog"
	"github.com/aretw0/switchyard/pkg/adapters/checksum"
	"github.com/aretw0/switchyard/pkg/adapters/file"
	httpadapter "github.com/aretw0/switchyard/pkg/adapters/http"
	"github.com/aretw0/switchyard/pkg/adapters/memory"
	"github.com/aretw0/switchyard/pkg/adapters/osfs"
	"github.com/aretw0/switchyard/pkg/adapters/process"
	"github.com/aretw0/switchyard/pkg/adapters/redis"
	"github.com/aretw0/switchyard/pkg/adapters/sqlite"
	"github.com/aretw0/switchyard/pkg/domain"
	"github.com/aretw0/switchyard/pkg/observability"
	"github.com/aretw0/switchyard/pkg/persistence/middleware"
	"github.com/aretw0/switchyard/pkg/ports"
	"github.com/aretw0/switchyard/pkg/resolver"
	"github.com/aretw0/switchyard/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
)

// App holds the collaborators shared by every command.
type App struct {
	Config     config.Config
	Logger     *slog.Logger
	Catalogs   onboarding.Catalogs
	Onboarding *onboarding.Onboarding
	Resolver   *resolver.Resolver
	Sessions   *session.Manager
	Metrics    *metrics.Metrics
	Registry   *prometheus.Registry

	transport ports.Transport
	runner    ports.CommandRunner
	closers   []func() error
}

// NewApp wires the application from cfg. debug forces debug logging.
func NewApp(cfg config.Config, debug bool) (*App, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if debug {
		level = slog.LevelDebug
	}
	logger := logging.New(level)

	app := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
	}
	app.Metrics = metrics.New(app.Registry)

	var (
		cache  ports.Cache = memory.NewCache()
		store  ports.ProjectStore
		locker ports.DistributedLocker
	)
	switch cfg.Store {
	case config.StoreFile:
		store = file.New(cfg.StorePath)
	case config.StoreMemory:
		store = memory.NewStore()
	case config.StoreSQLite:
		db, err := sqlite.Open(cfg.StorePath + ".db")
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, db.Close)
		store = db
	case config.StoreRedis:
		rs := redis.New(cfg.RedisAddress, cfg.RedisPassword, cfg.RedisDB)
		app.closers = append(app.closers, rs.Close)
		store = rs
		cache = redis.NewCache(rs.Client(), "switchyard:catalog:")
		locker = redis.NewLocker(rs.Client(), "switchyard:")
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store)
	}

	store, err = protectStore(store, cfg)
	if err != nil {
		return nil, err
	}

	client := catalog.NewClient(
		catalog.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout.Duration}),
		catalog.WithCache(cache),
		catalog.WithTTL(cfg.CacheTTL.Duration),
		catalog.WithUserAgent(cfg.UserAgent),
		catalog.WithLogger(logger),
	)
	mojang := catalog.NewMojang(client, cfg.Catalogs.Mojang)
	fabricAPI := catalog.NewFabricAPI(client, cfg.Catalogs.FabricAPI)
	app.Catalogs = onboarding.Catalogs{
		Minecraft:    mojang,
		NeoForge:     catalog.NewNeoForge(client, cfg.Catalogs.NeoForge),
		Forge:        catalog.NewForge(client, cfg.Catalogs.Forge),
		FabricLoader: catalog.NewFabricLoader(client, cfg.Catalogs.FabricMeta),
		FabricAPI:    fabricAPI,
		FabricGames:  fabricAPI,
		Parchment:    catalog.NewParchment(client, cfg.Catalogs.Parchment),
		Yarn:         catalog.NewFabricYarn(client, cfg.Catalogs.FabricMeta),
	}
	app.Onboarding = onboarding.New(app.Catalogs,
		onboarding.WithCacheTTL(cfg.CacheTTL.Duration),
		onboarding.WithLogger(logger),
	)
	app.Resolver = resolver.New(mojang, resolver.WithLogger(logger))

	sessionOpts := []session.Option{session.WithLogger(logger)}
	if locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(locker), session.WithLockTTL(10*time.Minute))
	}
	app.Sessions = session.NewManager(store, sessionOpts...)

	app.transport = httpadapter.NewTransport(
		httpadapter.WithUserAgent(cfg.UserAgent),
		httpadapter.WithTimeout(cfg.HTTPTimeout.Duration),
		httpadapter.WithTransportLogger(logger),
	)
	app.runner = process.NewRunner(
		process.WithPrograms(cfg.Programs),
		process.WithLogger(logger),
	)
	return app, nil
}

// protectStore applies the configured answer redaction and encryption.
func protectStore(store ports.ProjectStore, cfg config.Config) (ports.ProjectStore, error) {
	var mws []middleware.Middleware
	if len(cfg.RedactAnswers) > 0 {
		pii, err := middleware.NewPIIMiddleware(cfg.RedactAnswers)
		if err != nil {
			return nil, err
		}
		mws = append(mws, pii)
	}
	if cfg.EncryptionKey != "" {
		active, err := middleware.DecodeKey(cfg.EncryptionKey)
		if err != nil {
			return nil, err
		}
		encCfg := middleware.EncryptionConfig{ActiveKey: active}
		for _, k := range cfg.FallbackKeys {
			key, err := middleware.DecodeKey(k)
			if err != nil {
				return nil, fmt.Errorf("fallback key: %w", err)
			}
			encCfg.FallbackKeys = append(encCfg.FallbackKeys, key)
		}
		enc, err := middleware.NewEncryptionMiddleware(encCfg)
		if err != nil {
			return nil, err
		}
		mws = append(mws, enc)
	}
	return middleware.Chain(store, mws...), nil
}

// LoaderCatalogs names the listings exposed by the introspection servers.
func (a *App) LoaderCatalogs() map[string]ports.LoaderCatalog {
	return map[string]ports.LoaderCatalog{
		"neoforge":      a.Catalogs.NeoForge,
		"forge":         a.Catalogs.Forge,
		"fabric_loader": a.Catalogs.FabricLoader,
		"fabric_api":    a.Catalogs.FabricAPI,
		"parchment":     a.Catalogs.Parchment,
		"yarn":          a.Catalogs.Yarn,
	}
}

// CreationDeps returns the collaborators of the creation pipeline.
func (a *App) CreationDeps() creation.Deps {
	return creation.Deps{
		Transport:     a.transport,
		Files:         osfs.New(),
		Archiver:      archive.New(),
		Checksummer:   checksum.New(),
		Commands:      a.runner,
		Resolver:      a.Resolver,
		Catalog:       a.Catalogs.Minecraft,
		GradleVersion: a.Config.GradleVersion,
		Logger:        a.Logger,
	}
}

// Hooks combines logging and metrics hooks.
func (a *App) Hooks() domain.LifecycleHooks {
	return observability.LogHooks(a.Logger).Merge(a.Metrics.Hooks())
}

// Close releases store connections.
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
