package models

// FieldGeneral is the field-of-interest tag any lecturer may teach.
// FieldGeneralAlias is accepted as the same tag.
const (
	FieldGeneral      = "UMUM"
	FieldGeneralAlias = "GENERAL"
)

// Course is a subject offered in a term (mata kuliah).
type Course struct {
	ID              string   `db:"id" json:"id"`
	Code            string   `db:"code" json:"code"`
	Name            string   `db:"name" json:"name"`
	SKS             int      `db:"sks" json:"sks"`
	FieldOfInterest string   `db:"field_of_interest" json:"field_of_interest"`
	IsTheory        bool     `db:"is_theory" json:"is_theory"`
	Semester        int      `db:"semester" json:"semester"`
	LecturerIDs     []string `db:"-" json:"lecturer_ids,omitempty"`
}

// CourseLecturer links a course to an explicitly assigned lecturer.
type CourseLecturer struct {
	CourseID   string `db:"course_id"`
	LecturerID string `db:"lecturer_id"`
}
