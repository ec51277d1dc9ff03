package resource

import (
	"github.com/agrihub/fieldbill/internal/resource/repository"
	"github.com/agrihub/fieldbill/internal/resource/service"
	"go.uber.org/fx"
)

var Module = fx.Module("resource.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
