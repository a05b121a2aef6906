package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/EternisAI/kvgate/internal/api/http"
	"github.com/EternisAI/kvgate/internal/auth"
	"github.com/EternisAI/kvgate/internal/db"
	"github.com/EternisAI/kvgate/internal/launcher"
	"github.com/EternisAI/kvgate/internal/readiness"
	"github.com/EternisAI/kvgate/internal/startup"
	"github.com/EternisAI/kvgate/internal/store"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log       LogConfig
	Http      http.Config
	Grpc      GrpcConfig
	Store     store.Config
	Readiness startup.ReadinessConfig
	Launcher  launcher.Config
	Profiles  startup.ProfilesConfig
	DB        db.Config
	Auth      auth.Config
}

type GrpcConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

var config Config

func setDefaults() {
	viper.SetDefault("log.level", LOG_LEVEL_INFO)
	viper.SetDefault("http.port", 8080)
	viper.SetDefault("grpc.enabled", true)
	viper.SetDefault("grpc.port", 9090)
	viper.SetDefault("store.host", "localhost")
	viper.SetDefault("store.port", 6379)
	viper.SetDefault("store.db", 0)
	viper.SetDefault("store.password", "")
	viper.SetDefault("store.dial_timeout", store.DefaultDialTimeout)
	viper.SetDefault("readiness.max_attempts", readiness.DefaultMaxAttempts)
	viper.SetDefault("readiness.retry_interval", readiness.DefaultRetryInterval)
	viper.SetDefault("readiness.fail_fast_on_auth", false)
	viper.SetDefault("launcher.mode", launcher.ModeProcess)
	viper.SetDefault("launcher.command", launcher.DefaultCommand)
	viper.SetDefault("launcher.args", []string{})
	viper.SetDefault("launcher.image", launcher.DefaultImage)
	viper.SetDefault("profiles.backend", startup.BackendRedis)
	viper.SetDefault("profiles.key_prefix", "AgentProfile")
	viper.SetDefault("db.url", "")
	viper.SetDefault("db.schema", "")
	viper.SetDefault("auth.jwt_secret", "")
	viper.SetDefault("auth.token_ttl", auth.DefaultTokenTTL)
}

func InitConfig() {
	var err error

	_ = godotenv.Load()

	viper.SetConfigName("application")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./cmd/kvgate-server")
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()

	_ = viper.BindEnv("auth.jwt_secret", "KVGATE_JWT_SECRET")
	_ = viper.BindEnv("store.password", "REDIS_PASSWORD")

	// Every key has a default, so a missing file is not fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic(err)
		}
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		panic(err)
	}

	initLogger(config.Log.Level)

	// Pretty print config as JSON (only at DEBUG level)
	if strings.ToUpper(config.Log.Level) == LOG_LEVEL_DEBUG {
		redacted := config
		redacted.Store.Password = redact(redacted.Store.Password)
		redacted.Auth.JWTSecret = redact(redacted.Auth.JWTSecret)
		redacted.DB.Url = redact(redacted.DB.Url)
		configJSON, err := json.MarshalIndent(redacted, "", "  ")
		if err == nil {
			fmt.Println("Config loaded:")
			fmt.Println(string(configJSON))
		}
	}
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}
