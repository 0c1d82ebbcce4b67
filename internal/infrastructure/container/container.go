// Package container wires the application together with Uber Fx.
package container

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	memberapp "github.com/blankbase/blankbase/internal/application/member"
	"github.com/blankbase/blankbase/internal/domain/member"
	"github.com/blankbase/blankbase/internal/infrastructure/config"
	"github.com/blankbase/blankbase/internal/infrastructure/http/apiserver"
	"github.com/blankbase/blankbase/internal/infrastructure/http/webserver"
	gormpersist "github.com/blankbase/blankbase/internal/infrastructure/persistence/gorm"
	"github.com/blankbase/blankbase/pkg/logger"
)

// APIModule assembles the JSON API process.
var APIModule = fx.Options(
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	RepositoryModule,
	ServiceModule,
	fx.Provide(func(cfg *config.Config, log *zap.Logger, svc *memberapp.Service) *apiserver.Server {
		return apiserver.NewServer(cfg, log, svc)
	}),
	fx.Invoke(registerAPILifecycle),
)

// WebModule assembles the page-serving frontend process.
var WebModule = fx.Options(
	ConfigModule,
	LoggerModule,
	SessionModule,
	fx.Provide(webserver.NewServer),
	fx.Invoke(registerWebLifecycle),
)

// ConfigModule provides configuration.
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides the zap logger.
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// DatabaseModule opens the database and seeds demo rows when asked.
var DatabaseModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
		db, err := gormpersist.Open(cfg.Database, log)
		if err != nil {
			return nil, err
		}
		if cfg.Database.SeedDemoData {
			if err := gormpersist.Seed(context.Background(), db, cfg.Database.SeedCount, log); err != nil {
				log.Warn("demo data seeding failed", zap.Error(err))
			}
		}
		return db, nil
	},
)

// RepositoryModule provides repository implementations.
var RepositoryModule = fx.Provide(
	fx.Annotate(
		gormpersist.NewMemberRepository,
		fx.As(new(member.Repository)),
	),
	gormpersist.NewUnitOfWork,
)

// ServiceModule provides application services.
var ServiceModule = fx.Provide(
	func(repo member.Repository, cfg *config.Config, log *zap.Logger) *memberapp.Service {
		return memberapp.NewService(repo, cfg.UI, log)
	},
)

// SessionModule picks the session backend from configuration.
var SessionModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) webserver.Store {
		if cfg.Session.Backend == "redis" {
			client := redis.NewClient(&redis.Options{
				Addr:        cfg.RedisAddr(),
				Password:    cfg.Redis.Password,
				DB:          cfg.Redis.Database,
				DialTimeout: cfg.Redis.DialTimeout,
				PoolSize:    cfg.Redis.PoolSize,
			})
			log.Info("using redis session store", zap.String("addr", cfg.RedisAddr()))
			return webserver.NewRedisStore(client, log)
		}
		log.Info("using in-memory session store")
		return webserver.NewMemoryStore(log)
	},
)

func registerAPILifecycle(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	db *gorm.DB,
	server *apiserver.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("starting API process",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)
			go func() {
				if err := server.Start(); err != nil {
					log.Error("API server exited", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := server.Shutdown(ctx); err != nil {
				log.Error("API server shutdown failed", zap.Error(err))
			}
			if sqlDB, err := db.DB(); err == nil {
				if err := sqlDB.Close(); err != nil {
					log.Error("database close failed", zap.Error(err))
				}
			}
			_ = log.Sync()
			return nil
		},
	})
}

func registerWebLifecycle(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	server *webserver.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("starting web process",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)
			go func() {
				if err := server.Start(); err != nil {
					log.Error("web server exited", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := server.Shutdown(ctx); err != nil {
				log.Error("web server shutdown failed", zap.Error(err))
			}
			_ = log.Sync()
			return nil
		},
	})
}
