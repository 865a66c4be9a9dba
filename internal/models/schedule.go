package models

// ConflictDimension names the rule a candidate jadwal violates.
type ConflictDimension string

const (
	ConflictRoom                ConflictDimension = "ROOM"
	ConflictCourse              ConflictDimension = "COURSE"
	ConflictLecturer            ConflictDimension = "LECTURER"
	ConflictStudent             ConflictDimension = "STUDENT"
	ConflictLecturerEligibility ConflictDimension = "LECTURER_ELIGIBILITY"
	ConflictStudentEligibility  ConflictDimension = "STUDENT_ELIGIBILITY"
)

// ScheduleConflict describes one reason a candidate jadwal cannot be committed.
// ExistingJadwalID is empty for eligibility conflicts.
type ScheduleConflict struct {
	Dimension        ConflictDimension `json:"dimension"`
	Field            string            `json:"field"`
	Reason           string            `json:"reason"`
	SubjectID        string            `json:"subject_id,omitempty"`
	ExistingJadwalID string            `json:"existing_jadwal_id,omitempty"`
}
