package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/corray333/backend-labs/commerce/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// MustInit loads .env and config.yaml into viper and installs the default logger.
// Both files are optional; every key has a default and can be overridden from the
// environment, e.g. SERVER_HTTP_PORT for server.http.port.
func MustInit() {
	envErr := godotenv.Load("./.env")

	SetDefaults()
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("/etc/commerce-svc")
	viper.AddConfigPath(".")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	configErr := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if configErr != nil && !errors.As(configErr, &notFound) {
		panic("error while reading config file: " + configErr.Error())
	}

	SetupLogger()

	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		slog.Warn("Error while loading .env file", "error", envErr)
	}
	if configErr != nil {
		slog.Warn("Config file not found, using defaults and environment")
	}
}

// SetDefaults registers the default of every configuration key.
func SetDefaults() {
	viper.SetDefault("server.http.port", "8080")
	viper.SetDefault("server.http.read_timeout_seconds", 15)
	viper.SetDefault("server.http.write_timeout_seconds", 15)
	viper.SetDefault("server.http.cors.allowed_origins", []string{"*"})
	viper.SetDefault("server.http.cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	viper.SetDefault("server.http.cors.allowed_headers", []string{"Authorization", "Content-Type", "X-Request-Id"})
	viper.SetDefault("server.http.cors.exposed_headers", []string{"X-Request-Id"})
	viper.SetDefault("server.http.cors.allow_credentials", false)
	viper.SetDefault("server.http.cors.max_age", 300)

	viper.SetDefault("postgres.max_conns", 10)
	viper.SetDefault("postgres.migrations_path", "./migrations")
	viper.SetDefault("postgres.migrate_on_start", true)

	viper.SetDefault("orders.default_limit", 10)
	viper.SetDefault("orders.max_limit", 100)

	viper.SetDefault("rabbitmq.enabled", false)
	viper.SetDefault("rabbitmq.exchange", "orders")
	viper.SetDefault("rabbitmq.outbox.poll_interval_seconds", 10)
	viper.SetDefault("rabbitmq.outbox.batch_size", 100)
	viper.SetDefault("rabbitmq.outbox.retry_interval_seconds", 30)
	viper.SetDefault("rabbitmq.outbox.max_retries", 5)

	viper.SetDefault("tracing.enabled", false)
	viper.SetDefault("tracing.service_name", "commerce-svc")
	viper.SetDefault("tracing.jaeger_endpoint", "http://jaeger:14268/api/traces")

	viper.SetDefault("auth.jwt_secret", "")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")
}

func SetupLogger() {
	handler := logger.NewHandler(&logger.Options{
		Level:  viper.GetString("log.level"),
		Format: viper.GetString("log.format"),
	})
	log := slog.New(handler)
	slog.SetDefault(log)
}
