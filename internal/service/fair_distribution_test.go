package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/jadwal-api/internal/models"
)

func makeStudents(prefix string, n, semester int) []models.Student {
	students := make([]models.Student, n)
	for i := range students {
		students[i] = models.Student{ID: fmt.Sprintf("%s%03d", prefix, i), Semester: semester, Active: true}
	}
	return students
}

func theoryCourse(id string, semester, sks int) models.Course {
	return models.Course{ID: id, Name: id, SKS: sks, Semester: semester, IsTheory: true, FieldOfInterest: models.FieldGeneral}
}

func TestPlanSingleSectionForSmallPool(t *testing.T) {
	planner := NewFairDistributionPlanner(DistributionConfig{})
	result := planner.Plan([]models.Course{theoryCourse("c1", 1, 3)}, makeStudents("s", 30, 1), nil)

	require.Len(t, result.Courses, 1)
	plan := result.Courses[0]
	assert.Len(t, plan.Selected, 30)
	require.Len(t, plan.Sections, 1)
	assert.Equal(t, "A", plan.Sections[0].Label)
	assert.Len(t, plan.Sections[0].StudentIDs, 30)
	assert.Equal(t, 3, result.Workloads["s000"])
}

func TestPlanCapsRosterAtTwoFullSections(t *testing.T) {
	planner := NewFairDistributionPlanner(DistributionConfig{})
	result := planner.Plan([]models.Course{theoryCourse("c1", 1, 3)}, makeStudents("s", 120, 1), nil)

	require.Len(t, result.Courses, 1)
	plan := result.Courses[0]
	assert.Equal(t, 120, plan.EligiblePool)
	assert.Len(t, plan.Selected, 100)
	assert.Equal(t, 20, plan.Dropped)
	require.Len(t, plan.Sections, 2)
	assert.Len(t, plan.Sections[0].StudentIDs, 50)
	assert.Len(t, plan.Sections[1].StudentIDs, 50)
	assert.Equal(t, "B", plan.Sections[1].Label)
}

func TestPlanRespectsCreditCeiling(t *testing.T) {
	planner := NewFairDistributionPlanner(DistributionConfig{CreditCeiling: 24})
	courses := []models.Course{
		theoryCourse("c1", 1, 4),
		theoryCourse("c2", 1, 4),
		theoryCourse("c3", 1, 4),
	}
	initial := map[string]int{"s000": 20}

	result := planner.Plan(courses, makeStudents("s", 3, 1), initial)

	for id, load := range result.Workloads {
		assert.LessOrEqual(t, load, 24, "student %s", id)
	}
	assert.Equal(t, 24, result.Workloads["s000"])
	assert.Equal(t, 12, result.Workloads["s001"])
	assert.Equal(t, 20, initial["s000"], "initial workloads must not be modified")
}

func TestPlanServesScarceCourseFirst(t *testing.T) {
	planner := NewFairDistributionPlanner(DistributionConfig{CreditCeiling: 6})
	students := append(makeStudents("a", 4, 1), makeStudents("b", 2, 5)...)
	courses := []models.Course{
		theoryCourse("popular", 1, 3),
		theoryCourse("scarce", 5, 3),
	}

	result := planner.Plan(courses, students, nil)

	require.Len(t, result.Courses, 2)
	assert.Equal(t, "scarce", result.Courses[0].Course.ID)
	assert.Equal(t, []string{"b000", "b001"}, result.Courses[0].Selected)
	assert.Len(t, result.Courses[1].Selected, 6)
}

func TestPlanPrefersLightestWorkload(t *testing.T) {
	planner := NewFairDistributionPlanner(DistributionConfig{SectionCapacity: 1, MaxSections: 1})
	initial := map[string]int{"s000": 9, "s001": 3, "s002": 6}

	result := planner.Plan([]models.Course{theoryCourse("c1", 1, 3)}, makeStudents("s", 3, 1), initial)

	require.Len(t, result.Courses, 1)
	assert.Equal(t, []string{"s001"}, result.Courses[0].Selected)
	assert.Equal(t, 2, result.Courses[0].Dropped)
}

func TestPlanSkipsCoursesWithoutEligibleStudents(t *testing.T) {
	planner := NewFairDistributionPlanner(DistributionConfig{})
	students := makeStudents("s", 5, 1)
	students[0].Active = false

	result := planner.Plan([]models.Course{theoryCourse("c7", 7, 3), theoryCourse("c1", 1, 3)}, students, nil)

	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "c7", result.Skipped[0].ID)
	require.Len(t, result.Courses, 1)
	assert.NotContains(t, result.Courses[0].Selected, "s000")
}

func TestDivideIntoSectionsBalances(t *testing.T) {
	planner := NewFairDistributionPlanner(DistributionConfig{})
	ids := make([]string, 75)
	for i := range ids {
		ids[i] = fmt.Sprintf("s%02d", i)
	}

	sections := planner.DivideIntoSections(ids)
	require.Len(t, sections, 2)
	assert.Len(t, sections[0].StudentIDs, 38)
	assert.Len(t, sections[1].StudentIDs, 37)
	assert.Nil(t, planner.DivideIntoSections(nil))
}

func TestPlanCoursesFiltersByParityAndTheory(t *testing.T) {
	practical := theoryCourse("lab", 1, 1)
	practical.IsTheory = false
	courses := []models.Course{theoryCourse("c1", 1, 3), theoryCourse("c2", 2, 3), practical}

	ganjil := PlanCourses(models.Term{Semester: models.SemesterGanjil, AcademicYear: "2024/2025"}, courses)
	require.Len(t, ganjil, 1)
	assert.Equal(t, "c1", ganjil[0].ID)

	genap := PlanCourses(models.Term{Semester: models.SemesterGenap, AcademicYear: "2024/2025"}, courses)
	require.Len(t, genap, 1)
	assert.Equal(t, "c2", genap[0].ID)
}

func TestSectionLabel(t *testing.T) {
	assert.Equal(t, "A", SectionLabel(0))
	assert.Equal(t, "B", SectionLabel(1))
	assert.Equal(t, "Z", SectionLabel(25))
	assert.Equal(t, "AA", SectionLabel(26))
}
