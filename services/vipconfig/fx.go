package vipconfig

import "go.uber.org/fx"

var Module = fx.Module("vipconfig.module",
	fx.Provide(NewStore),
)
