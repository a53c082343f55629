package main

import (
	"context"
	"log/slog"
	"sync"

	"personjson/config"
	"personjson/internal/delivery"
	"personjson/internal/delivery/console"
	logs "personjson/internal/infra/log"
	"personjson/internal/infra/persistence/postgres"
	"personjson/internal/usecase/impl"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Logger     *slog.Logger
	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectUsecase(),
		injectDelivery(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewPersonRepositoryProvider,
			postgres.NewTransactionManager,
			postgres.NewAddressColumnDecoder,
			newSchemaPreparer,
		),
	)
}

// newSchemaPreparer binds the schema setup to the shared connection pool.
func newSchemaPreparer(db *gorm.DB, logger *slog.Logger) console.SchemaPreparer {
	return func(ctx context.Context, mode string) error {
		return postgres.PrepareSchema(ctx, db, logger, mode)
	}
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewPersonService,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				console.NewDemo,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// startServer runs every delivery once the app has started and shuts the app down when
// they have all returned.
func startServer(ctx context.Context, params startServerParams) {
	slog.SetDefault(params.Logger)

	params.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				var (
					wg       sync.WaitGroup
					mu       sync.Mutex
					exitCode int
				)
				for _, d := range params.Deliveries {
					wg.Go(func() {
						if err := d.Serve(ctx); err != nil {
							params.Logger.Error("Delivery failed", slog.Any("error", err))
							mu.Lock()
							exitCode = 1
							mu.Unlock()
						}
					})
				}
				wg.Wait()

				if err := params.Shutdown(fx.ExitCode(exitCode)); err != nil {
					params.Logger.Error("Failed to shut down", slog.Any("error", err))
				}
			}()

			return nil
		},
	})
}
