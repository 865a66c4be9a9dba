package config

import (
	"errors"
	"strconv"
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
	CORS      CORSConfig
	Log       LogConfig
	Metrics   MetricsConfig
	Scheduler SchedulerConfig
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
	AutoMigrate  bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CORSConfig lists browser origins allowed to call the API. Empty allows any.
type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

// SchedulerConfig carries the tunables of the scheduling engine.
type SchedulerConfig struct {
	Generations     int
	EliteCount      int
	MutationRate    float64
	MaxAttempts     int
	CreditCeiling   int
	SectionCapacity int
	MaxSections     int
	MeetingCount    int
	Days            []string
	Seed            int64
	JobTTL          time.Duration
}

// Scheduler defaults applied when the environment leaves a value empty or invalid.
const (
	DefaultGenerations     = 50
	DefaultEliteCount      = 10
	DefaultMutationRate    = 0.1
	DefaultMaxAttempts     = 100
	DefaultCreditCeiling   = 24
	DefaultSectionCapacity = 50
	DefaultMaxSections     = 2
	DefaultMeetingCount    = 12
)

// DefaultSchedulerDays lists the teaching days used when SCHEDULER_DAYS is empty.
var DefaultSchedulerDays = []string{"SENIN", "SELASA", "RABU", "KAMIS", "JUMAT"}

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
		if !errors.As(err, &notFound) && !isMissingFile(err) {
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
		AutoMigrate:  v.GetBool("DB_AUTO_MIGRATE"),
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

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}

	days := splitAndTrim(strings.ToUpper(v.GetString("SCHEDULER_DAYS")))
	if len(days) == 0 {
		days = append([]string(nil), DefaultSchedulerDays...)
	}

	cfg.Scheduler = SchedulerConfig{
		Generations:     positiveInt(v.GetString("SCHEDULER_GENERATIONS"), DefaultGenerations),
		EliteCount:      nonNegativeInt(v.GetString("SCHEDULER_ELITE_COUNT"), DefaultEliteCount),
		MutationRate:    probability(v.GetString("SCHEDULER_MUTATION_RATE"), DefaultMutationRate),
		MaxAttempts:     positiveInt(v.GetString("SCHEDULER_MAX_ATTEMPTS"), DefaultMaxAttempts),
		CreditCeiling:   positiveInt(v.GetString("SCHEDULER_CREDIT_CEILING"), DefaultCreditCeiling),
		SectionCapacity: positiveInt(v.GetString("SCHEDULER_SECTION_CAPACITY"), DefaultSectionCapacity),
		MaxSections:     positiveInt(v.GetString("SCHEDULER_MAX_SECTIONS"), DefaultMaxSections),
		MeetingCount:    positiveInt(v.GetString("SCHEDULER_MEETING_COUNT"), DefaultMeetingCount),
		Days:            days,
		Seed:            v.GetInt64("SCHEDULER_SEED"),
		JobTTL:          parseDuration(v.GetString("SCHEDULER_JOB_TTL"), 24*time.Hour),
	}

	return cfg, nil
}

// DefaultScheduler returns the scheduler configuration used when nothing is overridden.
func DefaultScheduler() SchedulerConfig {
	return SchedulerConfig{
		Generations:     DefaultGenerations,
		EliteCount:      DefaultEliteCount,
		MutationRate:    DefaultMutationRate,
		MaxAttempts:     DefaultMaxAttempts,
		CreditCeiling:   DefaultCreditCeiling,
		SectionCapacity: DefaultSectionCapacity,
		MaxSections:     DefaultMaxSections,
		MeetingCount:    DefaultMeetingCount,
		Days:            append([]string(nil), DefaultSchedulerDays...),
		JobTTL:          24 * time.Hour,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "jadwal")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("ENABLE_METRICS", true)

	v.SetDefault("SCHEDULER_GENERATIONS", DefaultGenerations)
	v.SetDefault("SCHEDULER_ELITE_COUNT", DefaultEliteCount)
	v.SetDefault("SCHEDULER_MUTATION_RATE", DefaultMutationRate)
	v.SetDefault("SCHEDULER_MAX_ATTEMPTS", DefaultMaxAttempts)
	v.SetDefault("SCHEDULER_CREDIT_CEILING", DefaultCreditCeiling)
	v.SetDefault("SCHEDULER_SECTION_CAPACITY", DefaultSectionCapacity)
	v.SetDefault("SCHEDULER_MAX_SECTIONS", DefaultMaxSections)
	v.SetDefault("SCHEDULER_MEETING_COUNT", DefaultMeetingCount)
	v.SetDefault("SCHEDULER_DAYS", strings.Join(DefaultSchedulerDays, ","))
	v.SetDefault("SCHEDULER_SEED", 0)
	v.SetDefault("SCHEDULER_JOB_TTL", "24h")
}

func isMissingFile(err error) bool {
	return strings.Contains(err.Error(), "no such file or directory")
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

func positiveInt(raw string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func nonNegativeInt(raw string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

func probability(raw string, fallback float64) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || value < 0 || value > 1 {
		return fallback
	}
	return value
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
