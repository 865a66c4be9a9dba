package models

import "time"

// Jadwal is a committed (or candidate) assignment of one course section to a
// room, shift and day for a term.
type Jadwal struct {
	ID           string         `db:"id" json:"id"`
	CourseID     string         `db:"course_id" json:"course_id"`
	RoomID       string         `db:"room_id" json:"room_id"`
	ShiftID      string         `db:"shift_id" json:"shift_id"`
	Day          Weekday        `db:"day" json:"day"`
	Class        string         `db:"class" json:"class"`
	Semester     SemesterParity `db:"semester" json:"semester"`
	AcademicYear string         `db:"academic_year" json:"academic_year"`
	Override     bool           `db:"override" json:"override"`
	LecturerIDs  []string       `db:"-" json:"lecturer_ids"`
	StudentIDs   []string       `db:"-" json:"student_ids"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// Term returns the term the jadwal belongs to.
func (j Jadwal) Term() Term {
	return Term{Semester: j.Semester, AcademicYear: j.AcademicYear}
}

// JadwalMember is a row of the jadwal_lecturers or jadwal_students link tables.
type JadwalMember struct {
	JadwalID string `db:"jadwal_id"`
	MemberID string `db:"member_id"`
}

// DefaultClass is the section label used when only one section exists.
const DefaultClass = "A"
