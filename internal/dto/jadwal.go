package dto

import (
	"time"

	"github.com/noah-isme/jadwal-api/internal/models"
)

// TermQuery identifies a term in query strings and payloads.
type TermQuery struct {
	Semester     string `json:"semester" form:"semester" validate:"required,oneof=GANJIL GENAP"`
	AcademicYear string `json:"academicYear" form:"academicYear" validate:"required"`
}

// Term converts the query into the model identifier.
func (q TermQuery) Term() models.Term {
	return models.Term{Semester: models.SemesterParity(q.Semester), AcademicYear: q.AcademicYear}
}

// JadwalRequest proposes a single jadwal for conflict checking or creation.
type JadwalRequest struct {
	CourseID     string   `json:"courseId" validate:"required"`
	RoomID       string   `json:"roomId" validate:"required"`
	ShiftID      string   `json:"shiftId" validate:"required"`
	Day          string   `json:"day" validate:"required"`
	Class        string   `json:"class" validate:"omitempty,max=2"`
	LecturerIDs  []string `json:"lecturerIds" validate:"required,min=1,max=2,dive,required"`
	StudentIDs   []string `json:"studentIds" validate:"omitempty,dive,required"`
	Semester     string   `json:"semester" validate:"required,oneof=GANJIL GENAP"`
	AcademicYear string   `json:"academicYear" validate:"required"`
	Override     bool     `json:"override"`
}

// ConflictCheckResponse is the diagnostic answer of checkConflicts.
type ConflictCheckResponse struct {
	Clean     bool                      `json:"clean"`
	Conflicts []models.ScheduleConflict `json:"conflicts"`
}

// MeetingDate is one generated session date.
type MeetingDate struct {
	Number int    `json:"number"`
	Date   string `json:"date"`
}

// CreateJadwalResponse reports whether the candidate was committed. A rejected
// candidate carries its conflicts and no jadwal.
type CreateJadwalResponse struct {
	Committed bool                      `json:"committed"`
	Jadwal    *models.Jadwal            `json:"jadwal,omitempty"`
	Meetings  []MeetingDate             `json:"meetings,omitempty"`
	Conflicts []models.ScheduleConflict `json:"conflicts"`
}

// MeetingDatesQuery asks for a term calendar on one weekday.
type MeetingDatesQuery struct {
	Day          string `json:"day" form:"day" validate:"required"`
	Semester     string `json:"semester" form:"semester" validate:"required,oneof=GANJIL GENAP"`
	AcademicYear string `json:"academicYear" form:"academicYear" validate:"required"`
	Count        int    `json:"count" form:"count" validate:"omitempty,min=1,max=52"`
}

// GenerateAllRequest triggers full-catalog generation for a term.
type GenerateAllRequest struct {
	Semester     string `json:"semester" validate:"required,oneof=GANJIL GENAP"`
	AcademicYear string `json:"academicYear" validate:"required"`
	PreferredDay string `json:"preferredDay" validate:"omitempty"`
}

// GenerationStatus classifies the outcome of a bulk generation run.
type GenerationStatus string

const (
	GenerationCompleted GenerationStatus = "COMPLETED"
	GenerationPartial   GenerationStatus = "PARTIAL"
	GenerationNothing   GenerationStatus = "NOTHING_TO_DO"
)

// ScheduledSection is a section that received a conflict-free slot.
type ScheduledSection struct {
	CourseID     string         `json:"courseId"`
	CourseName   string         `json:"courseName"`
	Class        string         `json:"class"`
	JadwalID     string         `json:"jadwalId"`
	RoomID       string         `json:"roomId"`
	ShiftID      string         `json:"shiftId"`
	Day          models.Weekday `json:"day"`
	LecturerIDs  []string       `json:"lecturerIds"`
	StudentCount int            `json:"studentCount"`
	Attempts     int            `json:"attempts"`
}

// FailedSection is a section the generator gave up on.
type FailedSection struct {
	CourseID     string `json:"courseId"`
	CourseName   string `json:"courseName"`
	Class        string `json:"class"`
	StudentCount int    `json:"studentCount"`
	Attempts     int    `json:"attempts"`
	Reason       string `json:"reason"`
}

// SkippedCourse is a course left out before slotting started.
type SkippedCourse struct {
	CourseID   string `json:"courseId"`
	CourseName string `json:"courseName"`
	Reason     string `json:"reason"`
}

// GenerationStats aggregates a bulk generation run.
type GenerationStats struct {
	CoursesConsidered       int       `json:"coursesConsidered"`
	SectionsScheduled       int       `json:"sectionsScheduled"`
	SectionsFailed          int       `json:"sectionsFailed"`
	TotalStudentsScheduled  int       `json:"totalStudentsScheduled"`
	TotalCreditsDistributed int       `json:"totalCreditsDistributed"`
	Generations             int       `json:"generations"`
	BestFitness             float64   `json:"bestFitness"`
	MeanFitness             float64   `json:"meanFitness"`
	FitnessHistory          []float64 `json:"fitnessHistory,omitempty"`
	DurationMs              int64     `json:"durationMs"`
}

// GenerationSummary is the result of generateAllSchedules.
type GenerationSummary struct {
	Term      models.Term        `json:"term"`
	Status    GenerationStatus   `json:"status"`
	Message   string             `json:"message,omitempty"`
	Succeeded []ScheduledSection `json:"succeeded"`
	Failed    []FailedSection    `json:"failed"`
	Skipped   []SkippedCourse    `json:"skipped"`
	Stats     GenerationStats    `json:"stats"`
}

// SectionRoster is one planned class section.
type SectionRoster struct {
	Class      string   `json:"class"`
	StudentIDs []string `json:"studentIds"`
}

// CourseDistribution is the planned roster of one course.
type CourseDistribution struct {
	CourseID     string          `json:"courseId"`
	CourseName   string          `json:"courseName"`
	SKS          int             `json:"sks"`
	Semester     int             `json:"semester"`
	EligiblePool int             `json:"eligiblePool"`
	StudentCount int             `json:"studentCount"`
	Dropped      int             `json:"dropped"`
	Sections     []SectionRoster `json:"sections"`
}

// DistributionStats aggregates a distribution plan.
type DistributionStats struct {
	CoursesPlanned   int `json:"coursesPlanned"`
	StudentsAssigned int `json:"studentsAssigned"`
	Enrolments       int `json:"enrolments"`
	TotalCredits     int `json:"totalCredits"`
}

// DistributionPlanResponse is a planned roster for every pending theory course.
type DistributionPlanResponse struct {
	Term    models.Term          `json:"term"`
	Courses []CourseDistribution `json:"courses"`
	Skipped []SkippedCourse      `json:"skipped"`
	Stats   DistributionStats    `json:"stats"`
}

// GenerationJobState tracks an asynchronous generation run.
type GenerationJobState string

const (
	JobQueued  GenerationJobState = "QUEUED"
	JobRunning GenerationJobState = "RUNNING"
	JobDone    GenerationJobState = "DONE"
	JobFailed  GenerationJobState = "FAILED"
)

// GenerationJob is persisted in the cache while an async run progresses.
type GenerationJob struct {
	ID         string             `json:"id"`
	State      GenerationJobState `json:"state"`
	Request    GenerateAllRequest `json:"request"`
	Summary    *GenerationSummary `json:"summary,omitempty"`
	Error      string             `json:"error,omitempty"`
	EnqueuedAt time.Time          `json:"enqueuedAt"`
	FinishedAt *time.Time         `json:"finishedAt,omitempty"`
}

// ExportQuery selects the term and document format of an export.
type ExportQuery struct {
	Semester     string `form:"semester" validate:"required,oneof=GANJIL GENAP"`
	AcademicYear string `form:"academicYear" validate:"required"`
	Format       string `form:"format" validate:"omitempty,oneof=csv pdf xlsx"`
}
