package bill

import (
	"github.com/agrihub/fieldbill/internal/bill/repository"
	"github.com/agrihub/fieldbill/internal/bill/service"
	"go.uber.org/fx"
)

var Module = fx.Module("bill.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
