package signal

import (
	"context"

	"github.com/agrihub/fieldbill/internal/signal/relay"
	"github.com/agrihub/fieldbill/internal/signal/repository"
	"github.com/agrihub/fieldbill/internal/signal/service"
	"go.uber.org/fx"
)

var Module = fx.Module("signal.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Provide(service.NewEnqueuer),
)

// RelayModule runs the outbox drain loop. Split from Module so tests and
// tooling can use the outbox without a broker connection.
var RelayModule = fx.Module("signal.relay",
	fx.Provide(relay.NewWorker),
	fx.Invoke(runWorker),
)

func runWorker(lc fx.Lifecycle, worker *relay.Worker) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ctx, cancel := context.WithCancel(context.Background())

			go worker.RunForever(ctx)

			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					cancel()
					return nil
				},
			})

			return nil
		},
	})
}
