package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/jadwal-api/internal/models"
)

// LecturerRepository reads lecturers.
type LecturerRepository struct {
	db *sqlx.DB
}

// NewLecturerRepository constructs a LecturerRepository.
func NewLecturerRepository(db *sqlx.DB) *LecturerRepository {
	return &LecturerRepository{db: db}
}

// List returns every lecturer.
func (r *LecturerRepository) List(ctx context.Context) ([]models.Lecturer, error) {
	const query = `SELECT id, name, field_of_interest FROM lecturers ORDER BY name ASC`
	var lecturers []models.Lecturer
	if err := r.db.SelectContext(ctx, &lecturers, query); err != nil {
		return nil, fmt.Errorf("list lecturers: %w", err)
	}
	return lecturers, nil
}

// FindByIDs returns the lecturers among ids that exist.
func (r *LecturerRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Lecturer, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `SELECT id, name, field_of_interest FROM lecturers WHERE id = ANY($1) ORDER BY name ASC`
	var lecturers []models.Lecturer
	if err := r.db.SelectContext(ctx, &lecturers, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("find lecturers: %w", err)
	}
	return lecturers, nil
}
