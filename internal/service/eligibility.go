package service

import (
	"sort"
	"strings"

	"github.com/noah-isme/jadwal-api/internal/models"
)

const maxCourseSemester = 8

// LecturerCanTeach reports whether a lecturer with lecturerField may teach a
// course tagged courseField. General courses are open to everyone.
func LecturerCanTeach(lecturerField, courseField string) bool {
	course := normalizeField(courseField)
	if course == models.FieldGeneral {
		return true
	}
	return normalizeField(lecturerField) == course
}

// EligibleCourseSemesters lists the course semesters a student in
// studentSemester may take, ascending and without duplicates.
func EligibleCourseSemesters(studentSemester int) []int {
	switch {
	case studentSemester <= 0:
		return nil
	case studentSemester == 1:
		return []int{1}
	case studentSemester == 2:
		return []int{1, 2}
	}

	set := map[int]struct{}{studentSemester: {}}
	if studentSemester%2 == 1 {
		set[1] = struct{}{}
	} else {
		set[2] = struct{}{}
	}
	if ahead := studentSemester + 4; ahead <= maxCourseSemester {
		set[ahead] = struct{}{}
	}

	result := make([]int, 0, len(set))
	for sem := range set {
		result = append(result, sem)
	}
	sort.Ints(result)
	return result
}

// StudentCanTakeCourse reports whether a student in studentSemester may take
// a course offered for courseSemester.
func StudentCanTakeCourse(studentSemester, courseSemester int) bool {
	for _, sem := range EligibleCourseSemesters(studentSemester) {
		if sem == courseSemester {
			return true
		}
	}
	return false
}

// lecturerAssignedTo reports whether the course lists the lecturer explicitly.
// Explicit assignment bypasses the field-of-interest rule.
func lecturerAssignedTo(course models.Course, lecturerID string) bool {
	for _, id := range course.LecturerIDs {
		if id == lecturerID {
			return true
		}
	}
	return false
}

func lecturerEligibleFor(lecturer models.Lecturer, course models.Course) bool {
	if lecturerAssignedTo(course, lecturer.ID) {
		return true
	}
	return LecturerCanTeach(lecturer.FieldOfInterest, course.FieldOfInterest)
}

func normalizeField(field string) string {
	normalized := strings.ToUpper(strings.TrimSpace(field))
	if normalized == models.FieldGeneralAlias {
		return models.FieldGeneral
	}
	return normalized
}
