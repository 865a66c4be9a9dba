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

// JadwalRepository persists jadwal with their lecturer and student links.
// Soft-deleted rows are invisible to every read.
type JadwalRepository struct {
	db *sqlx.DB
}

// NewJadwalRepository constructs a JadwalRepository.
func NewJadwalRepository(db *sqlx.DB) *JadwalRepository {
	return &JadwalRepository{db: db}
}

func (r *JadwalRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// ListByTerm returns the live jadwal of a term with member ids attached.
func (r *JadwalRepository) ListByTerm(ctx context.Context, term models.Term) ([]models.Jadwal, error) {
	const query = `SELECT id, course_id, room_id, shift_id, day, class, semester, academic_year, override, created_at, updated_at
FROM jadwal WHERE semester = $1 AND academic_year = $2 AND deleted_at IS NULL ORDER BY created_at ASC`
	var items []models.Jadwal
	if err := r.db.SelectContext(ctx, &items, query, term.Semester, term.AcademicYear); err != nil {
		return nil, fmt.Errorf("list jadwal by term: %w", err)
	}
	if len(items) == 0 {
		return items, nil
	}

	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}

	lecturers, err := r.members(ctx, "SELECT jadwal_id, lecturer_id AS member_id FROM jadwal_lecturers WHERE jadwal_id = ANY($1) ORDER BY lecturer_id", ids)
	if err != nil {
		return nil, fmt.Errorf("list jadwal lecturers: %w", err)
	}
	students, err := r.members(ctx, "SELECT jadwal_id, student_id AS member_id FROM jadwal_students WHERE jadwal_id = ANY($1) ORDER BY student_id", ids)
	if err != nil {
		return nil, fmt.Errorf("list jadwal students: %w", err)
	}

	for i := range items {
		items[i].LecturerIDs = lecturers[items[i].ID]
		items[i].StudentIDs = students[items[i].ID]
	}
	return items, nil
}

func (r *JadwalRepository) members(ctx context.Context, query string, ids []string) (map[string][]string, error) {
	var rows []models.JadwalMember
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return nil, err
	}
	result := make(map[string][]string, len(ids))
	for _, row := range rows {
		result[row.JadwalID] = append(result[row.JadwalID], row.MemberID)
	}
	return result, nil
}

// Create inserts the jadwal and its link rows using exec (or the pool when nil).
func (r *JadwalRepository) Create(ctx context.Context, exec sqlx.ExtContext, jadwal *models.Jadwal) error {
	target := r.exec(exec)
	if jadwal.ID == "" {
		jadwal.ID = uuid.NewString()
	}
	if jadwal.Class == "" {
		jadwal.Class = models.DefaultClass
	}
	now := time.Now().UTC()
	jadwal.CreatedAt = now
	jadwal.UpdatedAt = now

	const query = `INSERT INTO jadwal (id, course_id, room_id, shift_id, day, class, semester, academic_year, override, created_at, updated_at)
VALUES (:id, :course_id, :room_id, :shift_id, :day, :class, :semester, :academic_year, :override, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, target, query, jadwal); err != nil {
		return fmt.Errorf("insert jadwal: %w", err)
	}

	if len(jadwal.LecturerIDs) > 0 {
		const linkLecturers = `INSERT INTO jadwal_lecturers (jadwal_id, lecturer_id) SELECT $1, UNNEST($2::text[])`
		if _, err := target.ExecContext(ctx, linkLecturers, jadwal.ID, pq.Array(jadwal.LecturerIDs)); err != nil {
			return fmt.Errorf("insert jadwal lecturers: %w", err)
		}
	}
	if len(jadwal.StudentIDs) > 0 {
		const linkStudents = `INSERT INTO jadwal_students (jadwal_id, student_id) SELECT $1, UNNEST($2::text[])`
		if _, err := target.ExecContext(ctx, linkStudents, jadwal.ID, pq.Array(jadwal.StudentIDs)); err != nil {
			return fmt.Errorf("insert jadwal students: %w", err)
		}
	}
	return nil
}
