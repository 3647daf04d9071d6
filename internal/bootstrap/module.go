package bootstrap

import (
	"context"
	"log/slog"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"industriguard/internal/bootstrap/config"
	"industriguard/internal/bootstrap/database"
	"industriguard/internal/bootstrap/logging"
	"industriguard/internal/httpserver"
	sqliterepo "industriguard/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "industriguard/internal/infrastructure/persistence/sqlite/uow"
	"industriguard/internal/ports"
	usecasesafety "industriguard/internal/usecase/safety"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewSafetyRepository,
			fx.As(new(ports.SafetyRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliteuow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(httpserver.NewHub),
	fx.Provide(func(hub *httpserver.Hub) ports.Broadcaster { return hub }),
	fx.Provide(usecasesafety.NewService),
	fx.Provide(httpserver.NewServer),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

func provideApp(cfg config.Config, db *gorm.DB) *App {
	return &App{
		Config: cfg,
		DB:     db,
	}
}
