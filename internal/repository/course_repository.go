package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/jadwal-api/internal/models"
)

const courseColumns = "id, code, name, sks, field_of_interest, is_theory, semester"

// CourseRepository reads the course catalog together with explicit lecturer
// assignments.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns every course ordered by semester and code.
func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM courses ORDER BY semester ASC, code ASC", courseColumns)
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	var links []models.CourseLecturer
	if err := r.db.SelectContext(ctx, &links, "SELECT course_id, lecturer_id FROM course_lecturers ORDER BY course_id, lecturer_id"); err != nil {
		return nil, fmt.Errorf("list course lecturers: %w", err)
	}
	byCourse := make(map[string][]string, len(courses))
	for _, link := range links {
		byCourse[link.CourseID] = append(byCourse[link.CourseID], link.LecturerID)
	}
	for i := range courses {
		courses[i].LecturerIDs = byCourse[courses[i].ID]
	}
	return courses, nil
}

// FindByID fetches one course. sql.ErrNoRows is returned unwrapped.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM courses WHERE id = $1", courseColumns)
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	var lecturerIDs []string
	if err := r.db.SelectContext(ctx, &lecturerIDs, "SELECT lecturer_id FROM course_lecturers WHERE course_id = $1 ORDER BY lecturer_id", id); err != nil {
		return nil, fmt.Errorf("list course lecturers: %w", err)
	}
	course.LecturerIDs = lecturerIDs
	return &course, nil
}
