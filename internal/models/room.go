package models

// RoomCategory hints whether a room suits lectures or practical work.
type RoomCategory string

const (
	RoomCategoryClassroom RoomCategory = "KELAS"
	RoomCategoryLab       RoomCategory = "LAB"
)

// Room is a physical teaching space.
type Room struct {
	ID       string       `db:"id" json:"id"`
	Name     string       `db:"name" json:"name"`
	Capacity int          `db:"capacity" json:"capacity"`
	Category RoomCategory `db:"category" json:"category"`
	Active   bool         `db:"active" json:"active"`
}
