package models

// Shift is a named daily time window shared by all rooms, e.g. 08:00-09:40.
type Shift struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	StartTime string `db:"start_time" json:"start_time"`
	EndTime   string `db:"end_time" json:"end_time"`
	Active    bool   `db:"active" json:"active"`
}

// Label renders the window as "08:00-09:40".
func (s Shift) Label() string {
	return s.StartTime + "-" + s.EndTime
}
