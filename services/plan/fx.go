package plan

import "go.uber.org/fx"

var Module = fx.Module("plan.module",
	fx.Provide(NewService, NewHandler),
)

var Gateway = fx.Module("plan.routes",
	fx.Invoke(RegisterRoutes),
)
