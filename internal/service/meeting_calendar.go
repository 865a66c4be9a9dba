package service

import (
	"fmt"
	"time"

	"github.com/noah-isme/jadwal-api/internal/models"
	appErrors "github.com/noah-isme/jadwal-api/pkg/errors"
)

// DefaultMeetingCount is the number of sessions generated per jadwal.
const DefaultMeetingCount = 12

// TermAnchor returns the first calendar day of a term: September 1 of the
// start year for GANJIL, February 1 of the following year for GENAP.
func TermAnchor(term models.Term) (time.Time, error) {
	if err := term.Validate(); err != nil {
		return time.Time{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	start, _ := term.StartYear()
	if term.Semester == models.SemesterGanjil {
		return time.Date(start, time.September, 1, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Date(start+1, time.February, 1, 0, 0, 0, 0, time.UTC), nil
}

// GenerateMeetingDates produces count weekly dates on day, the first being the
// earliest such weekday on or after the term anchor. A non-positive count
// falls back to DefaultMeetingCount.
func GenerateMeetingDates(day models.Weekday, term models.Term, count int) ([]time.Time, error) {
	target, ok := day.TimeWeekday()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown weekday %q", day))
	}
	anchor, err := TermAnchor(term)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		count = DefaultMeetingCount
	}

	first := anchor
	for first.Weekday() != target {
		first = first.AddDate(0, 0, 1)
	}

	dates := make([]time.Time, count)
	for i := range dates {
		dates[i] = first.AddDate(0, 0, 7*i)
	}
	return dates, nil
}

func buildMeetings(jadwalID string, dates []time.Time, newID func() string) []models.Meeting {
	meetings := make([]models.Meeting, len(dates))
	for i, date := range dates {
		meetings[i] = models.Meeting{
			ID:       newID(),
			JadwalID: jadwalID,
			Number:   i + 1,
			Date:     date,
		}
	}
	return meetings
}
