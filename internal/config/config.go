package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/flybeeper/track-analyzer/internal/analysis"
	"github.com/flybeeper/track-analyzer/internal/filter"
	"github.com/flybeeper/track-analyzer/internal/gforce"
	"github.com/flybeeper/track-analyzer/internal/stops"
)

// Config содержит конфигурацию приложения
type Config struct {
	Environment string
	Server      ServerConfig
	Analysis    AnalysisConfig
	Performance PerformanceConfig
	Monitoring  MonitoringConfig
}

// ServerConfig конфигурация HTTP сервера
type ServerConfig struct {
	Address        string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxUploadBytes int64
	AllowedOrigins []string
}

// AnalysisConfig пороги конвейера анализа
type AnalysisConfig struct {
	FilterLevel int

	// Фильтр выбросов
	MADMultiplier float64
	MaxAccel      float64 // м/с²
	LooseMaxAccel float64 // м/с²
	MaxDecel      float64 // м/с², отрицательное
	MaxJump       float64 // км/ч

	// Сглаживание
	StopThreshold float64 // км/ч
	WindowSize    int
	PreserveDelta float64 // км/ч
	PreserveBelow float64 // км/ч

	// Остановки
	PauseThreshold   time.Duration
	TrafficStopMin   time.Duration
	TrafficStopMax   time.Duration
	StopDistance     float64 // м
	MergeDistance    float64 // м
	GeohashPrecision int

	// Перегрузки
	Gravity   float64
	MaxAccelG float64
	MinDecelG float64
}

// PerformanceConfig конфигурация производительности
type PerformanceConfig struct {
	BatchWorkers int
	RateLimitRPS float64
	RateBurst    int
}

// MonitoringConfig конфигурация мониторинга
type MonitoringConfig struct {
	MetricsEnabled bool
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Address:        getEnv("SERVER_ADDRESS", ":8090"),
			ReadTimeout:    getDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:    getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			MaxUploadBytes: int64(getInt("MAX_UPLOAD_BYTES", 32<<20)),
			AllowedOrigins: []string{getEnv("CORS_ALLOWED_ORIGIN", "*")},
		},
		Analysis: AnalysisConfig{
			FilterLevel:      getInt("FILTER_LEVEL", 3),
			MADMultiplier:    getFloat("MAD_MULTIPLIER", 3),
			MaxAccel:         getFloat("MAX_ACCEL", 1.72),
			LooseMaxAccel:    getFloat("LOOSE_MAX_ACCEL", 4),
			MaxDecel:         getFloat("MAX_DECEL", -9.8),
			MaxJump:          getFloat("MAX_SPEED_JUMP_KMH", 20),
			StopThreshold:    getFloat("STOP_SNAP_KMH", 2),
			WindowSize:       getInt("SMOOTHING_WINDOW", 5),
			PreserveDelta:    getFloat("PRESERVE_DELTA_KMH", 10),
			PreserveBelow:    getFloat("PRESERVE_BELOW_KMH", 30),
			PauseThreshold:   getDuration("PAUSE_THRESHOLD", 3*time.Minute),
			TrafficStopMin:   getDuration("TRAFFIC_STOP_MIN", 10*time.Second),
			TrafficStopMax:   getDuration("TRAFFIC_STOP_MAX", 2*time.Minute),
			StopDistance:     getFloat("STOP_DISTANCE_M", 15),
			MergeDistance:    getFloat("STOP_MERGE_DISTANCE_M", 20),
			GeohashPrecision: getInt("GEOHASH_PRECISION", 8),
			Gravity:          getFloat("GRAVITY", 9.81),
			MaxAccelG:        getFloat("MAX_ACCEL_G", 0.5),
			MinDecelG:        getFloat("MIN_DECEL_G", -1.0),
		},
		Performance: PerformanceConfig{
			BatchWorkers: getInt("BATCH_WORKERS", 4),
			RateLimitRPS: getFloat("RATE_LIMIT_RPS", 10),
			RateBurst:    getInt("RATE_LIMIT_BURST", 20),
		},
		Monitoring: MonitoringConfig{
			MetricsEnabled: getBool("METRICS_ENABLED", true),
		},
	}

	// Валидация
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("SERVER_ADDRESS is required")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}

	a := c.Analysis
	if a.FilterLevel < 1 || a.FilterLevel > 3 {
		return fmt.Errorf("FILTER_LEVEL must be between 1 and 3")
	}
	if a.MADMultiplier <= 0 {
		return fmt.Errorf("MAD_MULTIPLIER must be positive")
	}
	if a.MaxAccel <= 0 || a.LooseMaxAccel <= 0 {
		return fmt.Errorf("MAX_ACCEL and LOOSE_MAX_ACCEL must be positive")
	}
	if a.MaxDecel >= 0 {
		return fmt.Errorf("MAX_DECEL must be negative")
	}
	if a.MaxJump <= 0 {
		return fmt.Errorf("MAX_SPEED_JUMP_KMH must be positive")
	}
	if a.WindowSize < 1 {
		return fmt.Errorf("SMOOTHING_WINDOW must be at least 1")
	}
	if a.TrafficStopMin > a.TrafficStopMax {
		return fmt.Errorf("TRAFFIC_STOP_MIN must not exceed TRAFFIC_STOP_MAX")
	}
	if a.PauseThreshold <= 0 {
		return fmt.Errorf("PAUSE_THRESHOLD must be positive")
	}
	if a.GeohashPrecision < 1 || a.GeohashPrecision > 12 {
		return fmt.Errorf("GEOHASH_PRECISION must be between 1 and 12")
	}
	if a.Gravity <= 0 {
		return fmt.Errorf("GRAVITY must be positive")
	}
	if a.MaxAccelG <= 0 || a.MinDecelG >= 0 {
		return fmt.Errorf("MAX_ACCEL_G must be positive and MIN_DECEL_G negative")
	}

	// Проверка производительности
	if c.Performance.BatchWorkers <= 0 {
		return fmt.Errorf("BATCH_WORKERS must be positive")
	}
	if c.Performance.RateLimitRPS <= 0 || c.Performance.RateBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}

	return nil
}

// AnalyzerConfig собирает конфигурацию стадий конвейера
func (a AnalysisConfig) AnalyzerConfig() *analysis.Config {
	return &analysis.Config{
		Filter: &filter.FilterConfig{
			MADMultiplier: a.MADMultiplier,
			MaxAccel:      a.MaxAccel,
			LooseMaxAccel: a.LooseMaxAccel,
			MaxDecel:      a.MaxDecel,
			MaxJump:       a.MaxJump,
			StopThreshold: a.StopThreshold,
			WindowSize:    a.WindowSize,
			PreserveDelta: a.PreserveDelta,
			PreserveBelow: a.PreserveBelow,
			Level:         a.FilterLevel,
		},
		Stops: &stops.Config{
			PauseThreshold:   a.PauseThreshold,
			TrafficStopMin:   a.TrafficStopMin,
			TrafficStopMax:   a.TrafficStopMax,
			StopDistance:     a.StopDistance,
			MergeDistance:    a.MergeDistance,
			GeohashPrecision: a.GeohashPrecision,
		},
		GForce: &gforce.Config{
			Gravity:   a.Gravity,
			MaxAccelG: a.MaxAccelG,
			MinDecelG: a.MinDecelG,
		},
	}
}

// Helper функции для чтения переменных окружения

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// LogLevel возвращает уровень логирования
func LogLevel() string {
	return getEnv("LOG_LEVEL", "info")
}

// LogFormat возвращает формат логирования
func LogFormat() string {
	return getEnv("LOG_FORMAT", "json")
}

// IsDevelopment проверяет, запущено ли приложение в режиме разработки
func IsDevelopment() bool {
	return getEnv("APP_ENV", "production") == "development"
}
