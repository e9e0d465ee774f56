package campaign

import "go.uber.org/fx"

var Module = fx.Module("campaign.module",
	fx.Provide(NewStore, NewService, NewHandler),
)

var Gateway = fx.Module("campaign.routes",
	fx.Invoke(RegisterRoutes),
)
