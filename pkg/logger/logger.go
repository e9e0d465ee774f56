package logger

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"vipclub-backend/pkg/config"
)

var Module = fx.Module("logger",
	fx.Provide(
		New,
	),
)

type Params struct {
	fx.In

	Cfg *config.Config
}

// New builds the process logger. Development gets the human-readable console
// encoder; production emits JSON with Stackdriver-friendly field names. The
// result is installed as the zap global so packages can log without wiring
// a logger through every constructor.
func New(p Params) *zap.Logger {
	log := zap.Must(zap.NewDevelopment())

	if p.Cfg.AppEnv == "production" {
		c := zap.NewProductionConfig()
		c.Encoding = "json"
		c.OutputPaths = []string{"stdout"}
		c.ErrorOutputPaths = []string{"stderr"}
		c.EncoderConfig.TimeKey = "timestamp"
		c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		c.EncoderConfig.LevelKey = "severity"
		c.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		c.EncoderConfig.CallerKey = "caller"
		c.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
		c.EncoderConfig.StacktraceKey = "stacktrace"
		log = zap.Must(c.Build())
	}

	log = log.With(
		zap.String("env", p.Cfg.AppEnv),
		zap.String("service_name", p.Cfg.AppName),
	)

	zap.ReplaceGlobals(log)
	return log
}
