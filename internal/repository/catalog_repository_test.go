package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/jadwal-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestCourseRepositoryListAttachesLecturers(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, code, name, sks, field_of_interest, is_theory, semester FROM courses ORDER BY semester ASC, code ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name", "sks", "field_of_interest", "is_theory", "semester"}).
			AddRow("c1", "IF101", "Algoritma", 3, "UMUM", true, 1).
			AddRow("c2", "IF301", "Data Mining", 3, "DATA_MINING", true, 3))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT course_id, lecturer_id FROM course_lecturers ORDER BY course_id, lecturer_id")).
		WillReturnRows(sqlmock.NewRows([]string{"course_id", "lecturer_id"}).
			AddRow("c2", "l1").
			AddRow("c2", "l2"))

	courses, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Empty(t, courses[0].LecturerIDs)
	assert.Equal(t, []string{"l1", "l2"}, courses[1].LecturerIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryFindByIDNotFound(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM courses WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryFindByID(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM courses WHERE id = $1")).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name", "sks", "field_of_interest", "is_theory", "semester"}).
			AddRow("c1", "IF101", "Algoritma", 3, "UMUM", true, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT lecturer_id FROM course_lecturers WHERE course_id = $1")).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"lecturer_id"}).AddRow("l9"))

	course, err := repo.FindByID(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "Algoritma", course.Name)
	assert.Equal(t, []string{"l9"}, course.LecturerIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryListActive(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewRoomRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, capacity, category, active FROM rooms WHERE active = TRUE ORDER BY name ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "capacity", "category", "active"}).
			AddRow("r1", "R.101", 50, "KELAS", true).
			AddRow("r2", "Lab 1", 30, "LAB", true))

	rooms, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, models.RoomCategoryLab, rooms[1].Category)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShiftRepositoryListActiveOrdersByStart(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewShiftRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, start_time, end_time, active FROM shifts WHERE active = TRUE ORDER BY start_time ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "start_time", "end_time", "active"}).
			AddRow("s1", "Shift 1", "08:00", "09:40", true))

	shifts, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Equal(t, "08:00-09:40", shifts[0].Label())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLecturerRepositoryFindByIDs(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewLecturerRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, field_of_interest FROM lecturers WHERE id = ANY($1) ORDER BY name ASC")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "field_of_interest"}).
			AddRow("l1", "Budi", "JARINGAN"))

	lecturers, err := repo.FindByIDs(context.Background(), []string{"l1", "l2"})
	require.NoError(t, err)
	require.Len(t, lecturers, 1)
	assert.Equal(t, "JARINGAN", lecturers[0].FieldOfInterest)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLecturerRepositoryFindByIDsEmpty(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewLecturerRepository(db)

	lecturers, err := repo.FindByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, lecturers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListActive(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, nim, name, semester, active FROM students WHERE active = TRUE ORDER BY nim ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nim", "name", "semester", "active"}).
			AddRow("m1", "2101", "Ani", 3, true))

	students, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, 3, students[0].Semester)
	assert.NoError(t, mock.ExpectationsWereMet())
}
