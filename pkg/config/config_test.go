package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSchedulerDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultScheduler(), cfg.Scheduler)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Empty(t, cfg.CORS.AllowedOrigins)
}

func TestLoadSchedulerOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("SCHEDULER_GENERATIONS", "80")
	t.Setenv("SCHEDULER_MUTATION_RATE", "1.5")
	t.Setenv("SCHEDULER_CREDIT_CEILING", "-3")
	t.Setenv("SCHEDULER_DAYS", "senin, rabu")
	t.Setenv("SCHEDULER_SEED", "42")
	t.Setenv("SCHEDULER_JOB_TTL", "2h")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 80, cfg.Scheduler.Generations)
	assert.Equal(t, DefaultMutationRate, cfg.Scheduler.MutationRate)
	assert.Equal(t, DefaultCreditCeiling, cfg.Scheduler.CreditCeiling)
	assert.Equal(t, []string{"SENIN", "RABU"}, cfg.Scheduler.Days)
	assert.Equal(t, int64(42), cfg.Scheduler.Seed)
	assert.Equal(t, 2*time.Hour, cfg.Scheduler.JobTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}

// chdirTemp moves into an empty directory so no stray .env file is read.
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
