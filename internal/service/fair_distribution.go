package service

import (
	"sort"

	"github.com/noah-isme/jadwal-api/internal/models"
)

// DistributionConfig bounds the rosters the planner may build.
type DistributionConfig struct {
	CreditCeiling   int
	SectionCapacity int
	MaxSections     int
}

// PlannedSection is one class section of a planned course roster.
type PlannedSection struct {
	Label      string
	StudentIDs []string
}

// CoursePlan is the roster chosen for one course.
type CoursePlan struct {
	Course       models.Course
	EligiblePool int
	Selected     []string
	Dropped      int
	Sections     []PlannedSection
}

// DistributionResult is the outcome of a planning run. Courses are listed in
// the order they were served.
type DistributionResult struct {
	Courses   []CoursePlan
	Skipped   []models.Course
	Workloads map[string]int
}

// FairDistributionPlanner assigns students to theory courses while keeping
// every student under the credit ceiling and favouring scarce courses.
type FairDistributionPlanner struct {
	cfg DistributionConfig
}

// NewFairDistributionPlanner applies defaults to missing bounds.
func NewFairDistributionPlanner(cfg DistributionConfig) *FairDistributionPlanner {
	if cfg.CreditCeiling <= 0 {
		cfg.CreditCeiling = 24
	}
	if cfg.SectionCapacity <= 0 {
		cfg.SectionCapacity = 50
	}
	if cfg.MaxSections <= 0 {
		cfg.MaxSections = 2
	}
	return &FairDistributionPlanner{cfg: cfg}
}

// Config returns the bounds in effect.
func (p *FairDistributionPlanner) Config() DistributionConfig {
	return p.cfg
}

// PlanCourses filters the catalog down to the theory courses of the term.
func PlanCourses(term models.Term, courses []models.Course) []models.Course {
	result := make([]models.Course, 0, len(courses))
	for _, course := range courses {
		if course.IsTheory && term.Semester.Matches(course.Semester) {
			result = append(result, course)
		}
	}
	return result
}

// Plan builds rosters for the given courses. initial holds credit loads the
// students already carry this term; it is not modified.
func (p *FairDistributionPlanner) Plan(courses []models.Course, students []models.Student, initial map[string]int) DistributionResult {
	workloads := make(map[string]int, len(students))
	for id, load := range initial {
		workloads[id] = load
	}

	active := make([]models.Student, 0, len(students))
	for _, student := range students {
		if student.Active {
			active = append(active, student)
		}
	}

	type pool struct {
		course   models.Course
		eligible []models.Student
	}
	pools := make([]pool, 0, len(courses))
	for _, course := range courses {
		pools = append(pools, pool{course: course, eligible: p.eligible(course, active, workloads)})
	}

	sort.SliceStable(pools, func(i, j int) bool {
		if len(pools[i].eligible) == len(pools[j].eligible) {
			return pools[i].course.ID < pools[j].course.ID
		}
		return len(pools[i].eligible) < len(pools[j].eligible)
	})

	limit := p.cfg.SectionCapacity * p.cfg.MaxSections
	result := DistributionResult{Workloads: workloads}
	for _, entry := range pools {
		candidates := p.eligible(entry.course, entry.eligible, workloads)
		if len(candidates) == 0 {
			result.Skipped = append(result.Skipped, entry.course)
			continue
		}

		sort.SliceStable(candidates, func(i, j int) bool {
			wi, wj := workloads[candidates[i].ID], workloads[candidates[j].ID]
			if wi == wj {
				return candidates[i].ID < candidates[j].ID
			}
			return wi < wj
		})

		dropped := 0
		if len(candidates) > limit {
			dropped = len(candidates) - limit
			candidates = candidates[:limit]
		}

		selected := make([]string, len(candidates))
		for i, student := range candidates {
			selected[i] = student.ID
			workloads[student.ID] += entry.course.SKS
		}

		result.Courses = append(result.Courses, CoursePlan{
			Course:       entry.course,
			EligiblePool: len(entry.eligible),
			Selected:     selected,
			Dropped:      dropped,
			Sections:     p.DivideIntoSections(selected),
		})
	}
	return result
}

// DivideIntoSections splits a roster into evenly sized sections labelled A, B,
// and so on. Students beyond the total capacity are dropped.
func (p *FairDistributionPlanner) DivideIntoSections(studentIDs []string) []PlannedSection {
	if len(studentIDs) == 0 {
		return nil
	}
	limit := p.cfg.SectionCapacity * p.cfg.MaxSections
	if len(studentIDs) > limit {
		studentIDs = studentIDs[:limit]
	}

	count := (len(studentIDs) + p.cfg.SectionCapacity - 1) / p.cfg.SectionCapacity
	base := len(studentIDs) / count
	extra := len(studentIDs) % count

	sections := make([]PlannedSection, 0, count)
	offset := 0
	for i := 0; i < count; i++ {
		size := base
		if i < extra {
			size++
		}
		roster := make([]string, size)
		copy(roster, studentIDs[offset:offset+size])
		sections = append(sections, PlannedSection{Label: SectionLabel(i), StudentIDs: roster})
		offset += size
	}
	return sections
}

// SectionLabel maps a zero-based section index to A, B, ... Z, AA, AB.
func SectionLabel(index int) string {
	label := ""
	for n := index; n >= 0; n = n/26 - 1 {
		label = string(rune('A'+n%26)) + label
	}
	return label
}

func (p *FairDistributionPlanner) eligible(course models.Course, students []models.Student, workloads map[string]int) []models.Student {
	result := make([]models.Student, 0, len(students))
	for _, student := range students {
		if !StudentCanTakeCourse(student.Semester, course.Semester) {
			continue
		}
		if workloads[student.ID]+course.SKS > p.cfg.CreditCeiling {
			continue
		}
		result = append(result, student)
	}
	return result
}
