package config

import (
	"errors"
	"fmt"
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

	Database   DatabaseConfig
	Redis      RedisConfig
	CORS       CORSConfig
	Log        LogConfig
	Cache      CacheConfig
	Scheduling SchedulingConfig
	Exports    ExportsConfig
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

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CacheConfig tunes the week-view read cache.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// PeriodDef describes one period of the daily grid. Break periods exist on the
// grid but cannot be assigned.
type PeriodDef struct {
	Label string
	Start string
	End   string
	Break bool
}

// SchedulingConfig carries the shared period grid and exam validation bounds.
type SchedulingConfig struct {
	Periods             []PeriodDef
	ExamMinDurationMins int
	ExamMaxDurationMins int
	CoreSubjectCount    int
}

// ExportsConfig gates the timetable export endpoints.
type ExportsConfig struct {
	Enabled bool
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

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("ENABLE_CACHE"),
		TTL:     parseDuration(v.GetString("CACHE_TTL"), 5*time.Minute),
	}

	periods, err := parsePeriods(v.GetString("SCHEDULE_PERIODS"))
	if err != nil {
		return nil, err
	}
	cfg.Scheduling = SchedulingConfig{
		Periods:             periods,
		ExamMinDurationMins: v.GetInt("EXAM_MIN_DURATION_MINUTES"),
		ExamMaxDurationMins: v.GetInt("EXAM_MAX_DURATION_MINUTES"),
		CoreSubjectCount:    v.GetInt("CORE_SUBJECT_COUNT"),
	}

	cfg.Exports = ExportsConfig{
		Enabled: v.GetBool("ENABLE_EXPORTS"),
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
	v.SetDefault("DB_NAME", "scheduler")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("CACHE_TTL", "5m")

	v.SetDefault("SCHEDULE_PERIODS", "09:00-09:40,09:40-10:20,BREAK:10:20-10:40,10:40-11:20,11:20-12:00,LUNCH:12:00-12:40,12:40-13:20,13:20-14:00")
	v.SetDefault("EXAM_MIN_DURATION_MINUTES", 30)
	v.SetDefault("EXAM_MAX_DURATION_MINUTES", 300)
	v.SetDefault("CORE_SUBJECT_COUNT", 6)

	v.SetDefault("ENABLE_EXPORTS", true)
}

// parsePeriods decodes the SCHEDULE_PERIODS value. Entries are comma separated
// "HH:MM-HH:MM" ranges; a "LABEL:" prefix marks a named break period.
func parsePeriods(raw string) ([]PeriodDef, error) {
	parts := splitAndTrim(raw)
	if len(parts) == 0 {
		return nil, fmt.Errorf("SCHEDULE_PERIODS must define at least one period")
	}

	defs := make([]PeriodDef, 0, len(parts))
	for i, part := range parts {
		def := PeriodDef{Label: fmt.Sprintf("Period %d", i+1)}
		if idx := strings.Index(part, ":"); idx > 0 && isAlpha(part[:idx]) {
			def.Label = part[:1] + strings.ToLower(part[1:idx])
			def.Break = true
			part = part[idx+1:]
		}
		bounds := strings.SplitN(part, "-", 2)
		if len(bounds) != 2 {
			return nil, fmt.Errorf("invalid period range %q", part)
		}
		def.Start = strings.TrimSpace(bounds[0])
		def.End = strings.TrimSpace(bounds[1])
		defs = append(defs, def)
	}
	return defs, nil
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
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
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
