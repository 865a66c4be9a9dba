package service

import (
	"fmt"

	"github.com/noah-isme/jadwal-api/internal/models"
)

// ConflictCandidate is a proposed jadwal together with the catalog records it
// references, so detection needs no further lookups.
type ConflictCandidate struct {
	Jadwal    models.Jadwal
	Course    models.Course
	Lecturers []models.Lecturer
	Students  []models.Student
}

// DetectConflicts lists every resource and eligibility conflict of candidate
// against the existing jadwal of its term. Records from other terms and the
// candidate's own record are ignored. The result is ordered by rule: room,
// course, lecturer, student, lecturer eligibility, student eligibility.
func DetectConflicts(candidate ConflictCandidate, existing []models.Jadwal) []models.ScheduleConflict {
	c := candidate.Jadwal
	term := c.Term()
	class := sectionLabel(c.Class)

	peers := make([]models.Jadwal, 0, len(existing))
	for _, item := range existing {
		if item.ID != "" && item.ID == c.ID {
			continue
		}
		if item.Term() != term {
			continue
		}
		peers = append(peers, item)
	}

	conflicts := make([]models.ScheduleConflict, 0)

	for _, item := range peers {
		if item.RoomID == c.RoomID && sameSlot(item, c) {
			conflicts = append(conflicts, models.ScheduleConflict{
				Dimension:        models.ConflictRoom,
				Field:            "roomId",
				Reason:           fmt.Sprintf("room %s is already booked on %s for shift %s", c.RoomID, c.Day, c.ShiftID),
				SubjectID:        c.RoomID,
				ExistingJadwalID: item.ID,
			})
		}
	}

	for _, item := range peers {
		if item.CourseID == c.CourseID && sectionLabel(item.Class) == class {
			conflicts = append(conflicts, models.ScheduleConflict{
				Dimension:        models.ConflictCourse,
				Field:            "courseId",
				Reason:           fmt.Sprintf("course %s class %s is already scheduled this term", c.CourseID, class),
				SubjectID:        c.CourseID,
				ExistingJadwalID: item.ID,
			})
		}
	}

	for _, lecturerID := range c.LecturerIDs {
		for _, item := range peers {
			if sameSlot(item, c) && containsID(item.LecturerIDs, lecturerID) {
				conflicts = append(conflicts, models.ScheduleConflict{
					Dimension:        models.ConflictLecturer,
					Field:            "lecturerIds",
					Reason:           fmt.Sprintf("lecturer %s already teaches on %s for shift %s", lecturerID, c.Day, c.ShiftID),
					SubjectID:        lecturerID,
					ExistingJadwalID: item.ID,
				})
			}
		}
	}

	if len(c.StudentIDs) > 0 {
		for _, item := range peers {
			if !sameSlot(item, c) || len(item.StudentIDs) == 0 {
				continue
			}
			taken := make(map[string]struct{}, len(item.StudentIDs))
			for _, id := range item.StudentIDs {
				taken[id] = struct{}{}
			}
			for _, studentID := range c.StudentIDs {
				if _, ok := taken[studentID]; !ok {
					continue
				}
				conflicts = append(conflicts, models.ScheduleConflict{
					Dimension:        models.ConflictStudent,
					Field:            "studentIds",
					Reason:           fmt.Sprintf("student %s already has a class on %s for shift %s", studentID, c.Day, c.ShiftID),
					SubjectID:        studentID,
					ExistingJadwalID: item.ID,
				})
			}
		}
	}

	for _, lecturer := range candidate.Lecturers {
		if lecturerEligibleFor(lecturer, candidate.Course) {
			continue
		}
		conflicts = append(conflicts, models.ScheduleConflict{
			Dimension: models.ConflictLecturerEligibility,
			Field:     "lecturerIds",
			Reason:    fmt.Sprintf("lecturer %s (%s) cannot teach %s course %s", lecturer.ID, lecturer.FieldOfInterest, candidate.Course.FieldOfInterest, candidate.Course.ID),
			SubjectID: lecturer.ID,
		})
	}

	for _, student := range candidate.Students {
		if StudentCanTakeCourse(student.Semester, candidate.Course.Semester) {
			continue
		}
		conflicts = append(conflicts, models.ScheduleConflict{
			Dimension: models.ConflictStudentEligibility,
			Field:     "studentIds",
			Reason:    fmt.Sprintf("student %s in semester %d cannot take semester %d course %s", student.ID, student.Semester, candidate.Course.Semester, candidate.Course.ID),
			SubjectID: student.ID,
		})
	}

	return conflicts
}

func sameSlot(a, b models.Jadwal) bool {
	return a.ShiftID == b.ShiftID && a.Day == b.Day
}

func sectionLabel(class string) string {
	if class == "" {
		return models.DefaultClass
	}
	return class
}

func containsID(ids []string, target string) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}
