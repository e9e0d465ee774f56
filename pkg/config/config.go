package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var config = viper.New()

type Config struct {
	AppEnv     string `mapstructure:"APP_ENV"`
	AppName    string `mapstructure:"APP_NAME"`
	AppVersion string `mapstructure:"APP_VERSION"`
	TLS        struct {
		Enable   bool   `mapstructure:"ENABLE"`
		CertPath string `mapstructure:"CERT_PATH"`
		KeyPath  string `mapstructure:"KEY_PATH"`
	} `mapstructure:"TLS"`
	Server struct {
		Addr         string        `mapstructure:"ADDR"`
		ReadTimeout  time.Duration `mapstructure:"READ_TIMEOUT"`
		WriteTimeout time.Duration `mapstructure:"WRITE_TIMEOUT"`
		IdleTimeout  time.Duration `mapstructure:"IDLE_TIMEOUT"`
	} `mapstructure:"HTTP_SERVER"`
	Mongo struct {
		URI string `mapstructure:"URI"`
		// DatabaseSuffix is appended to the company ID to form the
		// per-company database name, e.g. "8217_VIP_Program".
		DatabaseSuffix string `mapstructure:"DATABASE_SUFFIX"`
	} `mapstructure:"MONGO"`
	SessionDB struct {
		// Path to the SQLite file holding the platform SDK session table.
		Path string `mapstructure:"PATH"`
	} `mapstructure:"SESSION_DB"`
	Redis struct {
		Addr        string        `mapstructure:"ADDR"`
		Password    string        `mapstructure:"PASSWORD"`
		DB          int           `mapstructure:"DB"`
		PoolSize    int           `mapstructure:"POOL_SIZE"`
		PoolTimeout time.Duration `mapstructure:"POOL_TIMEOUT"`
	} `mapstructure:"REDIS"`
	Platform struct {
		BaseURL string        `mapstructure:"BASE_URL"`
		Timeout time.Duration `mapstructure:"TIMEOUT"`
	} `mapstructure:"PLATFORM"`
	Webhook struct {
		Queue string `mapstructure:"QUEUE"`
	} `mapstructure:"WEBHOOK"`
}

var Module = fx.Module("config", fx.Provide(LoadConfig))

func LoadConfig() *Config {
	config.SetConfigName("config")
	config.SetConfigType("yaml")
	config.AddConfigPath(".")

	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AutomaticEnv()

	if err := config.ReadInConfig(); err != nil {
		zap.L().Error("failed to read config", zap.Error(err))
		os.Exit(1)
	}

	var cfg Config
	if err := config.Unmarshal(&cfg); err != nil {
		zap.L().Error("failed to unmarshal config", zap.Error(err))
		os.Exit(1)
	}

	applyDefaults(&cfg)

	return &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Mongo.DatabaseSuffix == "" {
		cfg.Mongo.DatabaseSuffix = "_VIP_Program"
	}
	if cfg.SessionDB.Path == "" {
		cfg.SessionDB.Path = "session_storage.db"
	}
	if cfg.Platform.Timeout == 0 {
		cfg.Platform.Timeout = 30 * time.Second
	}
	if cfg.Webhook.Queue == "" {
		cfg.Webhook.Queue = "vipclub"
	}
}
