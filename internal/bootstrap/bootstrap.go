// Package bootstrap assembles the scheduling services from configuration so
// the HTTP server and the CLI share one wiring.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/jadwal-api/internal/models"
	"github.com/noah-isme/jadwal-api/internal/repository"
	"github.com/noah-isme/jadwal-api/internal/service"
	"github.com/noah-isme/jadwal-api/pkg/cache"
	"github.com/noah-isme/jadwal-api/pkg/config"
	"github.com/noah-isme/jadwal-api/pkg/database"
)

const cacheNamespace = "jadwal-api"

// Container holds the live connections and the services built on them.
type Container struct {
	DB      *sqlx.DB
	Redis   *redis.Client
	Cache   *repository.CacheRepository
	Metrics *service.MetricsService
	Jadwal  *service.JadwalService
	Jobs    *service.GenerationJobService
	Export  *service.ExportService
}

// New opens Postgres (running migrations when enabled) and Redis, then builds
// the services. Redis is optional: without it caching is disabled and job
// state is kept in memory.
func New(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(db.DB, logger); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	c := &Container{DB: db, Metrics: service.NewMetricsService()}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logger.Warn("redis unavailable, caching disabled", zap.Error(err))
	} else {
		c.Redis = redisClient
		c.Cache = repository.NewCacheRepository(redisClient, cacheNamespace, logger)
	}

	days, err := ParseDays(cfg.Scheduler.Days)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	var cacheRepo service.CacheRepository
	if c.Cache != nil {
		cacheRepo = c.Cache
	}
	cacheSvc := service.NewCacheService(cacheRepo, c.Metrics, 0, logger, c.Cache != nil)
	validate := validator.New()

	courses := repository.NewCourseRepository(db)
	rooms := repository.NewRoomRepository(db)
	shifts := repository.NewShiftRepository(db)
	lecturers := repository.NewLecturerRepository(db)
	students := repository.NewStudentRepository(db)
	jadwal := repository.NewJadwalRepository(db)
	meetings := repository.NewMeetingRepository(db)

	c.Jadwal = service.NewJadwalService(
		courses, rooms, shifts, lecturers, students, jadwal, meetings, db,
		cacheSvc, c.Metrics, validate, logger, EngineConfig(cfg.Scheduler, days),
	)
	c.Jobs = service.NewGenerationJobService(c.Jadwal, cacheSvc, cfg.Scheduler.JobTTL, validate, logger)
	c.Export = service.NewExportService(jadwal, meetings, courses, rooms, shifts, lecturers, validate, logger)
	return c, nil
}

// EngineConfig maps scheduler settings onto the engine configuration.
func EngineConfig(s config.SchedulerConfig, days []models.Weekday) service.JadwalServiceConfig {
	return service.JadwalServiceConfig{
		Genetic: service.GeneticConfig{
			Generations:  s.Generations,
			EliteCount:   s.EliteCount,
			MutationRate: s.MutationRate,
		},
		Distribution: service.DistributionConfig{
			CreditCeiling:   s.CreditCeiling,
			SectionCapacity: s.SectionCapacity,
			MaxSections:     s.MaxSections,
		},
		MaxAttempts:  s.MaxAttempts,
		MeetingCount: s.MeetingCount,
		Days:         days,
		Seed:         s.Seed,
	}
}

// ParseDays converts configured day names into weekdays.
func ParseDays(raw []string) ([]models.Weekday, error) {
	days := make([]models.Weekday, 0, len(raw))
	for _, name := range raw {
		day, err := models.ParseWeekday(name)
		if err != nil {
			return nil, fmt.Errorf("SCHEDULER_DAYS: %w", err)
		}
		days = append(days, day)
	}
	return days, nil
}

// PingRedis reports Redis health; it is nil-safe so probes work without Redis.
func (c *Container) PingRedis(ctx context.Context) error {
	if c.Cache == nil {
		return nil
	}
	return c.Cache.Ping(ctx)
}

// Close releases the connections.
func (c *Container) Close() error {
	var firstErr error
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			firstErr = err
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
