package migration

import (
	billdomain "github.com/agrihub/fieldbill/internal/bill/domain"
	"github.com/agrihub/fieldbill/internal/config"
	resourcedomain "github.com/agrihub/fieldbill/internal/resource/domain"
	signaldomain "github.com/agrihub/fieldbill/internal/signal/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		// Versioned SQL migrations target postgres. Other dialects
		// (sqlite for local hacking, mysql) derive the schema from
		// the models instead.
		if cfg.DBType != "postgres" {
			return conn.AutoMigrate(
				&resourcedomain.Resource{},
				&billdomain.Bill{},
				&signaldomain.Intent{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
