package main

import (
	"github.com/agrihub/fieldbill/internal/bill"
	"github.com/agrihub/fieldbill/internal/clock"
	"github.com/agrihub/fieldbill/internal/config"
	"github.com/agrihub/fieldbill/internal/migration"
	"github.com/agrihub/fieldbill/internal/mqtt"
	"github.com/agrihub/fieldbill/internal/observability"
	"github.com/agrihub/fieldbill/internal/ratelimit"
	"github.com/agrihub/fieldbill/internal/resource"
	"github.com/agrihub/fieldbill/internal/server"
	"github.com/agrihub/fieldbill/internal/signal"
	"github.com/agrihub/fieldbill/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		resource.Module,
		bill.Module,
		signal.Module,
		ratelimit.Module,

		// Hardware side: broker client plus the outbox drain loop.
		mqtt.Module,
		signal.RelayModule,

		fx.Provide(server.NewEngine),
		fx.Provide(server.NewServer),
		fx.Invoke(func(s *server.Server) {
			s.RegisterRoutes()
		}),
		fx.Invoke(server.RunHTTP),
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
