package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/jadwal-api/internal/models"
)

func TestMetricsServiceSnapshot(t *testing.T) {
	metrics := NewMetricsService()

	metrics.ObserveHTTPRequest("POST", "/api/v1/jadwal", 201, 20*time.Millisecond)
	metrics.ObserveHTTPRequest("POST", "/api/v1/jadwal", 409, 40*time.Millisecond)
	metrics.ObserveGeneration("COMPLETED", time.Second)
	metrics.RecordSection(sectionScheduled)
	metrics.RecordSection(sectionScheduled)
	metrics.RecordSection(sectionFailed)
	metrics.RecordConflicts([]models.ScheduleConflict{
		{Dimension: models.ConflictRoom},
		{Dimension: models.ConflictStudent},
	})

	snapshot := metrics.Snapshot()
	assert.EqualValues(t, 2, snapshot.RequestsTotal)
	assert.InDelta(t, 30.0, snapshot.AverageRequestDurationMs, 0.001)
	assert.EqualValues(t, 1, snapshot.GenerationRuns)
	assert.EqualValues(t, 2, snapshot.SectionsScheduled)
	assert.EqualValues(t, 1, snapshot.SectionsFailed)
	assert.EqualValues(t, 2, snapshot.ConflictsDetected)

	families, err := metrics.Registry().Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, family := range families {
		names[family.GetName()] = true
	}
	assert.True(t, names["jadwal_generation_duration_seconds"])
	assert.True(t, names["jadwal_sections_total"])
	assert.True(t, names["jadwal_conflicts_total"])
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var metrics *MetricsService
	metrics.ObserveGeneration("PARTIAL", time.Second)
	metrics.RecordSection(sectionFailed)
	metrics.RecordConflicts([]models.ScheduleConflict{{Dimension: models.ConflictRoom}})
	assert.Equal(t, MetricsSnapshot{}, metrics.Snapshot())
}
