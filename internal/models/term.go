package models

import (
	"fmt"
	"strconv"
	"strings"
)

// SemesterParity identifies the half of the academic year a term belongs to.
type SemesterParity string

const (
	// SemesterGanjil is the odd (first-half) term, starting in September.
	SemesterGanjil SemesterParity = "GANJIL"
	// SemesterGenap is the even (second-half) term, starting in February.
	SemesterGenap SemesterParity = "GENAP"
)

// Valid reports whether p is a known parity.
func (p SemesterParity) Valid() bool {
	return p == SemesterGanjil || p == SemesterGenap
}

// Matches reports whether a course semester (1-8) runs in this parity.
func (p SemesterParity) Matches(courseSemester int) bool {
	if courseSemester%2 == 1 {
		return p == SemesterGanjil
	}
	return p == SemesterGenap
}

// Term identifies one academic half-year.
type Term struct {
	Semester     SemesterParity `json:"semester"`
	AcademicYear string         `json:"academic_year"`
}

// String renders the term as "GANJIL 2024/2025".
func (t Term) String() string {
	return fmt.Sprintf("%s %s", t.Semester, t.AcademicYear)
}

// Key is a stable identifier usable in cache keys and lock maps.
func (t Term) Key() string {
	return string(t.Semester) + ":" + t.AcademicYear
}

// StartYear parses the first year of the academic year string "YYYY/YYYY+1".
func (t Term) StartYear() (int, error) {
	parts := strings.Split(strings.TrimSpace(t.AcademicYear), "/")
	if len(parts) != 2 {
		return 0, fmt.Errorf("academic year %q must look like 2024/2025", t.AcademicYear)
	}
	start, err := strconv.Atoi(parts[0])
	if err != nil || len(parts[0]) != 4 {
		return 0, fmt.Errorf("academic year %q has an invalid start year", t.AcademicYear)
	}
	end, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 4 {
		return 0, fmt.Errorf("academic year %q has an invalid end year", t.AcademicYear)
	}
	if end != start+1 {
		return 0, fmt.Errorf("academic year %q must span consecutive years", t.AcademicYear)
	}
	return start, nil
}

// Validate checks both halves of the term identifier.
func (t Term) Validate() error {
	if !t.Semester.Valid() {
		return fmt.Errorf("semester %q must be GANJIL or GENAP", t.Semester)
	}
	_, err := t.StartYear()
	return err
}
