package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/jadwal-api/pkg/errors"
)

type memoryCache struct {
	values map[string][]byte
	getErr error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: make(map[string][]byte)}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	if m.getErr != nil {
		return m.getErr
	}
	raw, ok := m.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.values[key] = raw
	return nil
}

func (m *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	for key := range m.values {
		if strings.HasPrefix(key, strings.TrimSuffix(pattern, "*")) {
			delete(m.values, key)
		}
	}
	return nil
}

func TestCacheServiceHitMissAndInvalidate(t *testing.T) {
	repo := newMemoryCache()
	metrics := NewMetricsService()
	cache := NewCacheService(repo, metrics, time.Minute, nil, true)
	ctx := context.Background()

	var out map[string]int
	hit, err := cache.Get(ctx, "jadwal:distribution:GANJIL:2024/2025", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, cache.Set(ctx, "jadwal:distribution:GANJIL:2024/2025", map[string]int{"courses": 3}, 0))
	hit, err = cache.Get(ctx, "jadwal:distribution:GANJIL:2024/2025", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 3, out["courses"])

	require.NoError(t, cache.Invalidate(ctx, "jadwal:distribution:*"))
	assert.Empty(t, repo.values)

	snapshot := metrics.Snapshot()
	assert.EqualValues(t, 1, snapshot.CacheHits)
	assert.EqualValues(t, 1, snapshot.CacheMisses)
	assert.Equal(t, 0.5, snapshot.CacheHitRatio)
}

func TestCacheServiceDisabledIsNoop(t *testing.T) {
	var nilCache *CacheService
	assert.False(t, nilCache.Enabled())
	hit, err := nilCache.Get(context.Background(), "k", &struct{}{})
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, nilCache.Set(context.Background(), "k", 1, 0))

	disabled := NewCacheService(newMemoryCache(), nil, 0, nil, false)
	assert.False(t, disabled.Enabled())
}

func TestCacheServiceSurfacesBackendErrors(t *testing.T) {
	repo := newMemoryCache()
	repo.getErr = errors.New("connection reset")
	cache := NewCacheService(repo, nil, 0, nil, true)

	hit, err := cache.Get(context.Background(), "k", &struct{}{})
	assert.Error(t, err)
	assert.False(t, hit)
}

func TestJadwalServiceDistributionCachedUntilCommit(t *testing.T) {
	f := newEngineFixture()
	repo := newMemoryCache()
	svc := NewJadwalService(f.courses, f.rooms, f.shifts, f.lecturers, f.students, f.jadwal, f.meetings, nil,
		NewCacheService(repo, nil, time.Minute, nil, true), nil, nil, nil, f.cfg)
	query := dtoTermGanjil()

	first, err := svc.PlanDistribution(context.Background(), query)
	require.NoError(t, err)
	require.Len(t, repo.values, 1)

	second, err := svc.PlanDistribution(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, first.Stats, second.Stats)

	_, err = svc.Create(context.Background(), validJadwalRequest())
	require.NoError(t, err)
	assert.Empty(t, repo.values)
}
