package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Generator GeneratorConfig
	Export    ExportConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// GeneratorConfig tunes the assignment engine. Weights apply to soft
// constraints only; hard eligibility rules are not configurable.
type GeneratorConfig struct {
	FairnessWeight      float64
	PreferenceWeight    float64
	SelectionPoolSize   int
	JitterAmplitude     float64
	VacationWeeklyQuota float64
	WorkdaysPerMonth    int
	CoverageWarnBelow   float64
	WorkloadCVWarnAbove float64
	ResultCacheTTL      time.Duration
}

// ExportConfig governs roster export rendering.
type ExportConfig struct {
	Enabled bool
	Title   string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Generator = GeneratorConfig{
		FairnessWeight:      v.GetFloat64("GENERATOR_FAIRNESS_WEIGHT"),
		PreferenceWeight:    v.GetFloat64("GENERATOR_PREFERENCE_WEIGHT"),
		SelectionPoolSize:   v.GetInt("GENERATOR_SELECTION_POOL"),
		JitterAmplitude:     v.GetFloat64("GENERATOR_JITTER"),
		VacationWeeklyQuota: v.GetFloat64("GENERATOR_VACATION_WEEKLY_QUOTA"),
		WorkdaysPerMonth:    v.GetInt("GENERATOR_WORKDAYS_PER_MONTH"),
		CoverageWarnBelow:   v.GetFloat64("GENERATOR_COVERAGE_WARN_BELOW"),
		WorkloadCVWarnAbove: v.GetFloat64("GENERATOR_WORKLOAD_CV_WARN_ABOVE"),
		ResultCacheTTL:      parseDuration(v.GetString("GENERATOR_RESULT_CACHE_TTL"), time.Hour),
	}

	cfg.Export = ExportConfig{
		Enabled: v.GetBool("ENABLE_EXPORT"),
		Title:   v.GetString("EXPORT_TITLE"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "rostergen")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 20)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("GENERATOR_FAIRNESS_WEIGHT", 3.0)
	v.SetDefault("GENERATOR_PREFERENCE_WEIGHT", 1.0)
	v.SetDefault("GENERATOR_SELECTION_POOL", 3)
	v.SetDefault("GENERATOR_JITTER", 0.05)
	v.SetDefault("GENERATOR_VACATION_WEEKLY_QUOTA", 0.3)
	v.SetDefault("GENERATOR_WORKDAYS_PER_MONTH", 22)
	v.SetDefault("GENERATOR_COVERAGE_WARN_BELOW", 0.95)
	v.SetDefault("GENERATOR_WORKLOAD_CV_WARN_ABOVE", 0.25)
	v.SetDefault("GENERATOR_RESULT_CACHE_TTL", "1h")

	v.SetDefault("ENABLE_EXPORT", true)
	v.SetDefault("EXPORT_TITLE", "Monthly Radiology Roster")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
