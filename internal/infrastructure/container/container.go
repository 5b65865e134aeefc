// Package container wires the application together with Uber FX
package container

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	catalogapp "github.com/pantrymatch/v1/internal/application/catalog"
	ingredientapp "github.com/pantrymatch/v1/internal/application/ingredient"
	pantryapp "github.com/pantrymatch/v1/internal/application/pantry"
	recipeapp "github.com/pantrymatch/v1/internal/application/recipe"
	userapp "github.com/pantrymatch/v1/internal/application/user"
	"github.com/pantrymatch/v1/internal/domain/ingredient"
	"github.com/pantrymatch/v1/internal/infrastructure/cache"
	"github.com/pantrymatch/v1/internal/infrastructure/config"
	"github.com/pantrymatch/v1/internal/infrastructure/http/apiserver"
	"github.com/pantrymatch/v1/internal/infrastructure/monitoring"
	gormRepo "github.com/pantrymatch/v1/internal/infrastructure/persistence/gorm"
	"github.com/pantrymatch/v1/internal/infrastructure/persistence/migrations"
	"github.com/pantrymatch/v1/internal/infrastructure/persistence/postgres"
	"github.com/pantrymatch/v1/internal/infrastructure/persistence/sqlite"
	"github.com/pantrymatch/v1/internal/ports/inbound"
	"github.com/pantrymatch/v1/internal/ports/outbound"
	"github.com/pantrymatch/v1/pkg/healthcheck"
	"github.com/pantrymatch/v1/pkg/logger"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	MonitoringModule,
	DatabaseModule,
	CacheModule,
	RepositoryModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigPath is the config file to load. Supplying it is optional; without
// it the usual search paths are tried.
type ConfigPath string

type configParams struct {
	fx.In

	Path ConfigPath `optional:"true"`
}

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func(p configParams) (*config.Config, error) {
		return config.Load(string(p.Path))
	},
)

// LoggerModule provides the root logger and its adjustable level
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, zap.AtomicLevel, error) {
		return logger.NewAtomic(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.IsDevelopment(),
		})
	},
)

// MonitoringModule provides metrics, tracing and health checks
var MonitoringModule = fx.Provide(
	monitoring.NewMetricsCollector,
	func(m *monitoring.MetricsCollector) outbound.EngineMetrics { return m },
	provideTracing,
	func(cfg *config.Config, log *zap.Logger) *healthcheck.HealthCheck {
		return healthcheck.New(cfg.App.Version, log)
	},
)

// DatabaseModule provides the gorm handle for the configured driver
var DatabaseModule = fx.Provide(provideDatabase)

// CacheModule provides Redis or the in-memory cache
var CacheModule = fx.Provide(
	provideCache,
	func(b *cache.Backend) outbound.CacheRepository { return b.Repository },
)

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	gormRepo.NewIngredientRepository,
	gormRepo.NewPantryRepository,
	gormRepo.NewRecipeRepository,
	gormRepo.NewUserRepository,
	gormRepo.NewCatalogRepository,
	gormRepo.NewTransactor,
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	func(repo outbound.IngredientRepository, cfg *config.Config, metrics outbound.EngineMetrics, log *zap.Logger) *ingredientapp.Service {
		thresholds := ingredient.Thresholds{
			Match:  cfg.Matching.MatchThreshold,
			Search: cfg.Matching.SearchThreshold,
		}
		return ingredientapp.NewService(repo, thresholds, log, ingredientapp.WithMetrics(metrics))
	},
	func(s *ingredientapp.Service) inbound.IngredientService { return s },
	func(s *ingredientapp.Service) pantryapp.Resolver { return s },

	fx.Annotate(
		pantryapp.NewService,
		fx.As(new(inbound.PantryService)),
	),
	fx.Annotate(
		userapp.NewUserService,
		fx.As(new(inbound.UserService)),
	),
	func(s inbound.UserService) inbound.UserChecker { return s },
	func(
		recipes outbound.RecipeRepository,
		pantries outbound.PantryRepository,
		users inbound.UserChecker,
		cfg *config.Config,
		metrics outbound.EngineMetrics,
		log *zap.Logger,
	) inbound.RecipeService {
		return recipeapp.NewRecipeService(recipes, pantries, users, cfg.Matching.RecommendationLimit, metrics, log)
	},
	func(repo outbound.CatalogRepository, c outbound.CacheRepository, cfg *config.Config, log *zap.Logger) inbound.CatalogService {
		return catalogapp.NewService(repo, c, cfg.Cache.CuisinesTTL, log)
	},
)

type serviceParams struct {
	fx.In

	Ingredients inbound.IngredientService
	Pantry      inbound.PantryService
	Recipes     inbound.RecipeService
	Users       inbound.UserService
	Catalog     inbound.CatalogService
}

// HTTPModule provides the API server
var HTTPModule = fx.Provide(
	func(p serviceParams) apiserver.Services {
		return apiserver.Services{
			Ingredients: p.Ingredients,
			Pantry:      p.Pantry,
			Recipes:     p.Recipes,
			Users:       p.Users,
			Catalog:     p.Catalog,
		}
	},
	apiserver.NewServer,
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterHealthChecks,
	WatchConfig,
	RegisterLifecycleHooks,
)

func provideTracing(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*monitoring.TracingProvider, error) {
	tp, err := monitoring.NewTracingProvider(context.Background(), monitoring.TracingConfig{
		ServiceName:    cfg.App.Name,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		Endpoint:       cfg.Monitoring.OTLPEndpoint,
		Insecure:       cfg.Monitoring.OTLPInsecure,
		SamplingRate:   cfg.Monitoring.SamplingRate,
		Enabled:        cfg.Monitoring.EnableTracing,
	}, log)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return tp.Shutdown(ctx)
		},
	})
	return tp, nil
}

func provideDatabase(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	metrics *monitoring.MetricsCollector,
) (*gorm.DB, error) {
	var db *gorm.DB
	switch cfg.Database.Driver {
	case "postgres":
		if cfg.Database.AutoMigrate {
			if err := migrate(cfg.Database, log); err != nil {
				return nil, err
			}
		}
		cm, err := postgres.NewConnectionManager(context.Background(), cfg.Database, log)
		if err != nil {
			return nil, err
		}
		db = cm.DB()

	default:
		var err error
		db, err = sqlite.SetupDatabase(cfg.Database.Path, postgres.GormLogLevel(cfg.Database.LogLevel))
		if err != nil {
			return nil, fmt.Errorf("failed to setup SQLite database: %w", err)
		}
		if cfg.App.SeedDemo {
			if err := sqlite.SeedDatabase(db); err != nil {
				log.Warn("Failed to seed database", zap.Error(err))
			}
		}
		log.Info("Connected to SQLite database", zap.String("path", cfg.Database.Path))
	}

	monitor := gormRepo.NewQueryMonitor(metrics, log, cfg.Database.SlowQueryThreshold)
	if err := monitor.Install(db); err != nil {
		return nil, fmt.Errorf("failed to install query monitor: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
	return db, nil
}

func migrate(cfg config.DatabaseConfig, log *zap.Logger) error {
	m, err := migrations.NewFromURL(cfg.MigrationURL(), log.Named("migrations"))
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()
	return m.Up()
}

func provideCache(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*cache.Backend, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	backend, err := cache.New(ctx, cfg.Redis, log)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return backend.Close()
		},
	})
	return backend, nil
}

// RegisterHealthChecks attaches the database and, when enabled, Redis checks
func RegisterHealthChecks(health *healthcheck.HealthCheck, db *gorm.DB, backend *cache.Backend) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	health.Register("database", healthcheck.NewDatabaseChecker(sqlDB))
	if backend.Redis != nil {
		health.Register("redis", healthcheck.NewRedisChecker(backend.Redis))
	}
	return nil
}

// WatchConfig applies log level edits from the config file without a restart
func WatchConfig(cfg *config.Config, level zap.AtomicLevel, log *zap.Logger) {
	cfg.Watch(
		func(updated *config.Config) {
			next := logger.ParseLevel(updated.App.LogLevel)
			if next != level.Level() {
				level.SetLevel(next)
				log.Info("Log level changed", zap.String("level", next.String()))
			}
		},
		func(err error) {
			log.Warn("Ignoring invalid configuration change", zap.Error(err))
		},
	)
}

// RegisterLifecycleHooks starts and stops the API server
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	cfg *config.Config,
	log *zap.Logger,
	server *apiserver.Server,
	tracer *monitoring.TracingProvider,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting PantryMatch",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
				zap.String("database", cfg.Database.Driver),
				zap.Bool("tracing", tracer.Enabled()),
			)

			go func() {
				if err := server.Start(); err != nil {
					log.Error("HTTP server stopped", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down PantryMatch")

			shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			_ = log.Sync()
			return nil
		},
	})
}
