package master

import (
	"github.com/smallbiznis/brokerage/internal/master/repository"
	"github.com/smallbiznis/brokerage/internal/master/service"
	"go.uber.org/fx"
)

var Module = fx.Module("master.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
