package shipment

import "go.uber.org/fx"

var Module = fx.Module("shipment.module",
	fx.Provide(NewEventStore, NewService, NewTask, NewHandler),
)

var Gateway = fx.Module("shipment.routes",
	fx.Invoke(RegisterRoutes, registerTaskHandlers),
)
