package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/jadwal-api/internal/models"
)

// MeetingRepository persists pertemuan rows.
type MeetingRepository struct {
	db *sqlx.DB
}

// NewMeetingRepository constructs a MeetingRepository.
func NewMeetingRepository(db *sqlx.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

func (r *MeetingRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// BulkCreate inserts a jadwal's meeting calendar.
func (r *MeetingRepository) BulkCreate(ctx context.Context, exec sqlx.ExtContext, meetings []models.Meeting) error {
	if len(meetings) == 0 {
		return nil
	}
	target := r.exec(exec)
	now := time.Now().UTC()

	const query = `INSERT INTO pertemuan (id, jadwal_id, number, date, created_at) VALUES (:id, :jadwal_id, :number, :date, :created_at)`
	for i := range meetings {
		meeting := &meetings[i]
		if meeting.ID == "" {
			meeting.ID = uuid.NewString()
		}
		if meeting.CreatedAt.IsZero() {
			meeting.CreatedAt = now
		}
		if _, err := sqlx.NamedExecContext(ctx, target, query, meeting); err != nil {
			return fmt.Errorf("insert pertemuan: %w", err)
		}
	}
	return nil
}

// ListByJadwalIDs returns meetings of the given jadwal ordered by sequence.
func (r *MeetingRepository) ListByJadwalIDs(ctx context.Context, ids []string) ([]models.Meeting, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `SELECT id, jadwal_id, number, date, created_at FROM pertemuan WHERE jadwal_id = ANY($1) ORDER BY jadwal_id, number`
	var meetings []models.Meeting
	if err := r.db.SelectContext(ctx, &meetings, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("list pertemuan: %w", err)
	}
	return meetings, nil
}
