package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/jadwal-api/internal/models"
	appErrors "github.com/noah-isme/jadwal-api/pkg/errors"
)

var ganjil2024 = models.Term{Semester: models.SemesterGanjil, AcademicYear: "2024/2025"}

func TestGenerateMeetingDatesWeekly(t *testing.T) {
	dates, err := GenerateMeetingDates(models.Senin, ganjil2024, 12)
	require.NoError(t, err)
	require.Len(t, dates, 12)

	// 1 September 2024 is a Sunday.
	assert.Equal(t, time.Date(2024, time.September, 2, 0, 0, 0, 0, time.UTC), dates[0])
	assert.Equal(t, time.Date(2024, time.November, 18, 0, 0, 0, 0, time.UTC), dates[11])
	for i, date := range dates {
		assert.Equal(t, time.Monday, date.Weekday())
		if i > 0 {
			assert.Equal(t, 7*24*time.Hour, date.Sub(dates[i-1]))
		}
	}
}

func TestGenerateMeetingDatesAnchorDayIncluded(t *testing.T) {
	term := models.Term{Semester: models.SemesterGanjil, AcademicYear: "2025/2026"}
	dates, err := GenerateMeetingDates(models.Senin, term, 3)
	require.NoError(t, err)
	// 1 September 2025 is itself a Monday.
	assert.Equal(t, time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC), dates[0])
}

func TestGenerateMeetingDatesGenapAnchor(t *testing.T) {
	term := models.Term{Semester: models.SemesterGenap, AcademicYear: "2024/2025"}
	dates, err := GenerateMeetingDates(models.Jumat, term, 0)
	require.NoError(t, err)
	require.Len(t, dates, DefaultMeetingCount)
	// 1 February 2025 is a Saturday.
	assert.Equal(t, time.Date(2025, time.February, 7, 0, 0, 0, 0, time.UTC), dates[0])
}

func TestGenerateMeetingDatesIsDeterministic(t *testing.T) {
	first, err := GenerateMeetingDates(models.Rabu, ganjil2024, 12)
	require.NoError(t, err)
	second, err := GenerateMeetingDates(models.Rabu, ganjil2024, 12)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerateMeetingDatesRejectsBadInput(t *testing.T) {
	_, err := GenerateMeetingDates(models.Weekday("MINGGU"), ganjil2024, 12)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = GenerateMeetingDates(models.Senin, models.Term{Semester: models.SemesterGanjil, AcademicYear: "2024"}, 12)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = GenerateMeetingDates(models.Senin, models.Term{Semester: "PENDEK", AcademicYear: "2024/2025"}, 12)
	assert.Error(t, err)
}

func TestBuildMeetingsNumbersFromOne(t *testing.T) {
	dates, err := GenerateMeetingDates(models.Kamis, ganjil2024, 3)
	require.NoError(t, err)

	seq := 0
	meetings := buildMeetings("j1", dates, func() string {
		seq++
		return "m" + string(rune('0'+seq))
	})
	require.Len(t, meetings, 3)
	for i, meeting := range meetings {
		assert.Equal(t, i+1, meeting.Number)
		assert.Equal(t, "j1", meeting.JadwalID)
		assert.Equal(t, dates[i], meeting.Date)
	}
	assert.Equal(t, "m1", meetings[0].ID)
}
