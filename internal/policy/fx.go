package policy

import (
	"github.com/smallbiznis/brokerage/internal/policy/service"
	"go.uber.org/fx"
)

var Module = fx.Module("policy.service",
	fx.Provide(service.NewService),
)
