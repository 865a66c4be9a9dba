package models

import "time"

// Meeting (pertemuan) is one dated session of a committed jadwal.
type Meeting struct {
	ID        string    `db:"id" json:"id"`
	JadwalID  string    `db:"jadwal_id" json:"jadwal_id"`
	Number    int       `db:"number" json:"number"`
	Date      time.Time `db:"date" json:"date"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
