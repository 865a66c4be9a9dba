package models

// Student is an enrolled learner (mahasiswa).
type Student struct {
	ID       string `db:"id" json:"id"`
	NIM      string `db:"nim" json:"nim"`
	Name     string `db:"name" json:"name"`
	Semester int    `db:"semester" json:"semester"`
	Active   bool   `db:"active" json:"active"`
}
