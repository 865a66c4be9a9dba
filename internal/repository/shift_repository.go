package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/jadwal-api/internal/models"
)

const shiftColumns = "id, name, start_time, end_time, active"

// ShiftRepository reads the daily time windows.
type ShiftRepository struct {
	db *sqlx.DB
}

// NewShiftRepository constructs a ShiftRepository.
func NewShiftRepository(db *sqlx.DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

// List returns all shifts ordered by start time.
func (r *ShiftRepository) List(ctx context.Context) ([]models.Shift, error) {
	query := fmt.Sprintf("SELECT %s FROM shifts ORDER BY start_time ASC", shiftColumns)
	var shifts []models.Shift
	if err := r.db.SelectContext(ctx, &shifts, query); err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	return shifts, nil
}

// ListActive returns the shifts open for scheduling.
func (r *ShiftRepository) ListActive(ctx context.Context) ([]models.Shift, error) {
	query := fmt.Sprintf("SELECT %s FROM shifts WHERE active = TRUE ORDER BY start_time ASC", shiftColumns)
	var shifts []models.Shift
	if err := r.db.SelectContext(ctx, &shifts, query); err != nil {
		return nil, fmt.Errorf("list active shifts: %w", err)
	}
	return shifts, nil
}

// FindByID fetches a shift by ID.
func (r *ShiftRepository) FindByID(ctx context.Context, id string) (*models.Shift, error) {
	query := fmt.Sprintf("SELECT %s FROM shifts WHERE id = $1", shiftColumns)
	var shift models.Shift
	if err := r.db.GetContext(ctx, &shift, query, id); err != nil {
		return nil, err
	}
	return &shift, nil
}
