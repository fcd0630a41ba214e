// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Postgres  PostgresConfig  `yaml:"-"`
	LevelDB   LevelDBConfig   `yaml:"leveldb"`
	RabbitMQ  RabbitMQConfig  `yaml:"rabbitmq"`
	Worker    WorkerConfig    `yaml:"worker"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
}

// SchedulerConfig holds the planning limits of the decomposition engine
type SchedulerConfig struct {
	MaxParallel int `yaml:"maxParallel"`
	MaxDepth    int `yaml:"maxDepth"`
	HistorySize int `yaml:"historySize"`
}

// PostgresConfig holds PostgreSQL configuration. The URL is optional:
// without it decomposition history stays in memory.
type PostgresConfig struct {
	URL string `yaml:"-"`
}

// LevelDBConfig holds LevelDB configuration
type LevelDBConfig struct {
	Path string `yaml:"path"`
}

// RabbitMQConfig holds RabbitMQ configuration. The URL is optional:
// without it no status events are published.
type RabbitMQConfig struct {
	URL         string `yaml:"url"`
	StatusQueue string `yaml:"statusQueue"`
}

// WorkerConfig holds plan runner configuration
type WorkerConfig struct {
	MaxWorkers      int `yaml:"maxWorkers"`
	ShutdownTimeout int `yaml:"shutdownTimeout"`
}

// Default configuration values
const (
	DefaultServerPort         = "8080"
	DefaultServerReadTimeout  = 30
	DefaultServerWriteTimeout = 30
	DefaultMaxParallel        = 4
	DefaultMaxDepth           = 100
	DefaultHistorySize        = 50
	DefaultMaxWorkers         = 10
	DefaultShutdownTimeout    = 30
	DefaultLevelDBPath        = "./data/leveldb"
	DefaultStatusQueue        = "stratum.status"
)

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an environment variable as integer or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// Load reads configuration from an optional YAML file and overlays
// STRATUM_* environment variables and defaults on top of it.
func Load(configPath string) (*Config, error) {
	var config Config

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	config.Server = ServerConfig{
		Port:         getEnv("STRATUM_SERVER_PORT", firstNonEmpty(config.Server.Port, DefaultServerPort)),
		ReadTimeout:  getEnvInt("STRATUM_SERVER_READ_TIMEOUT", firstPositive(config.Server.ReadTimeout, DefaultServerReadTimeout)),
		WriteTimeout: getEnvInt("STRATUM_SERVER_WRITE_TIMEOUT", firstPositive(config.Server.WriteTimeout, DefaultServerWriteTimeout)),
	}

	config.Scheduler = SchedulerConfig{
		MaxParallel: getEnvInt("STRATUM_SCHEDULER_MAX_PARALLEL", firstPositive(config.Scheduler.MaxParallel, DefaultMaxParallel)),
		MaxDepth:    getEnvInt("STRATUM_SCHEDULER_MAX_DEPTH", firstPositive(config.Scheduler.MaxDepth, DefaultMaxDepth)),
		HistorySize: getEnvInt("STRATUM_SCHEDULER_HISTORY_SIZE", firstPositive(config.Scheduler.HistorySize, DefaultHistorySize)),
	}

	config.Postgres = PostgresConfig{
		URL: os.Getenv("STRATUM_POSTGRES_URL"),
	}

	config.LevelDB = LevelDBConfig{
		Path: getEnv("STRATUM_LEVELDB_PATH", firstNonEmpty(config.LevelDB.Path, DefaultLevelDBPath)),
	}

	config.RabbitMQ = RabbitMQConfig{
		URL:         getEnv("STRATUM_RABBITMQ_URL", config.RabbitMQ.URL),
		StatusQueue: getEnv("STRATUM_RABBITMQ_STATUS_QUEUE", firstNonEmpty(config.RabbitMQ.StatusQueue, DefaultStatusQueue)),
	}

	config.Worker = WorkerConfig{
		MaxWorkers:      getEnvInt("STRATUM_WORKER_MAX_WORKERS", firstPositive(config.Worker.MaxWorkers, DefaultMaxWorkers)),
		ShutdownTimeout: getEnvInt("STRATUM_WORKER_SHUTDOWN_TIMEOUT", firstPositive(config.Worker.ShutdownTimeout, DefaultShutdownTimeout)),
	}

	return &config, nil
}

func firstNonEmpty(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func firstPositive(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}
