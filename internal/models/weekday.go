package models

import (
	"fmt"
	"strings"
	"time"
)

// Weekday is a teaching day name as stored on jadwal records.
type Weekday string

const (
	Senin  Weekday = "SENIN"
	Selasa Weekday = "SELASA"
	Rabu   Weekday = "RABU"
	Kamis  Weekday = "KAMIS"
	Jumat  Weekday = "JUMAT"
	Sabtu  Weekday = "SABTU"
)

// Weekdays lists every schedulable day in calendar order.
var Weekdays = []Weekday{Senin, Selasa, Rabu, Kamis, Jumat, Sabtu}

var weekdayToTime = map[Weekday]time.Weekday{
	Senin:  time.Monday,
	Selasa: time.Tuesday,
	Rabu:   time.Wednesday,
	Kamis:  time.Thursday,
	Jumat:  time.Friday,
	Sabtu:  time.Saturday,
}

// ParseWeekday normalises raw input into a Weekday.
func ParseWeekday(raw string) (Weekday, error) {
	day := Weekday(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := weekdayToTime[day]; !ok {
		return "", fmt.Errorf("unknown weekday %q", raw)
	}
	return day, nil
}

// TimeWeekday maps the day onto the standard library weekday.
func (d Weekday) TimeWeekday() (time.Weekday, bool) {
	wd, ok := weekdayToTime[d]
	return wd, ok
}

// Valid reports whether d is a known teaching day.
func (d Weekday) Valid() bool {
	_, ok := weekdayToTime[d]
	return ok
}
