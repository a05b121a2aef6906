package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/EternisAI/kvgate/internal/readiness"
	"github.com/EternisAI/kvgate/internal/startup"
	"github.com/EternisAI/kvgate/internal/store"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log       LogConfig
	Store     store.Config
	Readiness startup.ReadinessConfig
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

var config Config

func InitConfig() {
	var err error

	_ = godotenv.Load()

	viper.SetConfigName("application")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./cmd/kvgate-wait")
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("log.level", "INFO")
	viper.SetDefault("store.host", "localhost")
	viper.SetDefault("store.port", 6379)
	viper.SetDefault("store.db", 0)
	viper.SetDefault("store.password", "")
	viper.SetDefault("store.dial_timeout", store.DefaultDialTimeout)
	viper.SetDefault("readiness.max_attempts", readiness.DefaultMaxAttempts)
	viper.SetDefault("readiness.retry_interval", readiness.DefaultRetryInterval)
	viper.SetDefault("readiness.fail_fast_on_auth", false)

	_ = viper.BindEnv("store.password", "REDIS_PASSWORD")

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

	if strings.EqualFold(config.Log.Level, "DEBUG") {
		shown := config
		if shown.Store.Password != "" {
			shown.Store.Password = "***"
		}
		configJSON, err := json.MarshalIndent(shown, "", "  ")
		if err == nil {
			fmt.Println("Config loaded:")
			fmt.Println(string(configJSON))
		}
	}
}

// Logs go to stderr so stdout stays clean for scripts.
func initLogger(logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "ERROR":
		level = slog.LevelError
	case "WARNING":
		level = slog.LevelWarn
	case "DEBUG":
		level = slog.LevelDebug
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
