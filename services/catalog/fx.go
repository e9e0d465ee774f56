package catalog

import "go.uber.org/fx"

var Module = fx.Module("catalog.module",
	fx.Provide(NewService, NewHandler),
)

var Gateway = fx.Module("catalog.routes",
	fx.Invoke(RegisterRoutes),
)
