package service

import (
	"github.com/noah-isme/jadwal-api/internal/models"
)

type occupancyKey struct {
	Resource string
	ShiftID  string
	Day      models.Weekday
}

// generationSession owns the occupancy state of one bulk generation run. It
// starts from the committed jadwal of the term and grows as sections are
// reserved, so later sections see earlier placements.
type generationSession struct {
	term      models.Term
	rooms     map[occupancyKey]string
	lecturers map[occupancyKey]string
	students  map[occupancyKey]string
	sections  map[string]string
	scheduled map[string]bool
	reserved  []models.Jadwal
}

func newGenerationSession(term models.Term, existing []models.Jadwal) *generationSession {
	s := &generationSession{
		term:      term,
		rooms:     make(map[occupancyKey]string),
		lecturers: make(map[occupancyKey]string),
		students:  make(map[occupancyKey]string),
		sections:  make(map[string]string),
		scheduled: make(map[string]bool),
	}
	for _, item := range existing {
		if item.Term() != term {
			continue
		}
		s.occupy(item)
	}
	return s
}

// courseScheduled reports whether any section of the course already exists.
func (s *generationSession) courseScheduled(courseID string) bool {
	return s.scheduled[courseID]
}

// canPlace mirrors the resource rules of DetectConflicts against the
// in-memory occupancy maps.
func (s *generationSession) canPlace(j models.Jadwal) bool {
	if _, taken := s.sections[sectionKey(j.CourseID, j.Class)]; taken {
		return false
	}
	if _, taken := s.rooms[occupancyKey{Resource: j.RoomID, ShiftID: j.ShiftID, Day: j.Day}]; taken {
		return false
	}
	for _, id := range j.LecturerIDs {
		if _, taken := s.lecturers[occupancyKey{Resource: id, ShiftID: j.ShiftID, Day: j.Day}]; taken {
			return false
		}
	}
	for _, id := range j.StudentIDs {
		if _, taken := s.students[occupancyKey{Resource: id, ShiftID: j.ShiftID, Day: j.Day}]; taken {
			return false
		}
	}
	return true
}

// reserve records a committed section.
func (s *generationSession) reserve(j models.Jadwal) {
	s.occupy(j)
	s.reserved = append(s.reserved, j)
}

func (s *generationSession) occupy(j models.Jadwal) {
	s.sections[sectionKey(j.CourseID, j.Class)] = j.ID
	s.scheduled[j.CourseID] = true
	s.rooms[occupancyKey{Resource: j.RoomID, ShiftID: j.ShiftID, Day: j.Day}] = j.ID
	for _, id := range j.LecturerIDs {
		s.lecturers[occupancyKey{Resource: id, ShiftID: j.ShiftID, Day: j.Day}] = j.ID
	}
	for _, id := range j.StudentIDs {
		s.students[occupancyKey{Resource: id, ShiftID: j.ShiftID, Day: j.Day}] = j.ID
	}
}

func sectionKey(courseID, class string) string {
	return courseID + "|" + sectionLabel(class)
}
