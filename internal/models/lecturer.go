package models

// Lecturer is a teaching staff member (dosen).
type Lecturer struct {
	ID              string `db:"id" json:"id"`
	Name            string `db:"name" json:"name"`
	FieldOfInterest string `db:"field_of_interest" json:"field_of_interest"`
}
