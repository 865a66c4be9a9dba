package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/jadwal-api/internal/dto"
	"github.com/noah-isme/jadwal-api/internal/models"
	appErrors "github.com/noah-isme/jadwal-api/pkg/errors"
	"github.com/noah-isme/jadwal-api/pkg/export"
)

const defaultExportFormat = "csv"

var exportHeaders = []string{"Hari", "Jam", "Kode", "Mata Kuliah", "Kelas", "SKS", "Ruang", "Dosen", "Mahasiswa", "Pertemuan Pertama", "Pertemuan Terakhir", "Jumlah Pertemuan"}

type roomLister interface {
	List(ctx context.Context) ([]models.Room, error)
}

type shiftLister interface {
	List(ctx context.Context) ([]models.Shift, error)
}

type lecturerLister interface {
	List(ctx context.Context) ([]models.Lecturer, error)
}

type courseLister interface {
	List(ctx context.Context) ([]models.Course, error)
}

type termJadwalReader interface {
	ListByTerm(ctx context.Context, term models.Term) ([]models.Jadwal, error)
}

type meetingReader interface {
	ListByJadwalIDs(ctx context.Context, ids []string) ([]models.Meeting, error)
}

// ExportFile is a rendered schedule document.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders the committed schedule of a term.
type ExportService struct {
	jadwal    termJadwalReader
	meetings  meetingReader
	courses   courseLister
	rooms     roomLister
	shifts    shiftLister
	lecturers lecturerLister
	renderers map[string]export.Renderer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExportService constructs an ExportService with CSV, PDF and XLSX renderers.
func NewExportService(jadwal termJadwalReader, meetings meetingReader, courses courseLister, rooms roomLister, shifts shiftLister, lecturers lecturerLister, validate *validator.Validate, logger *zap.Logger) *ExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	renderers := map[string]export.Renderer{}
	for _, renderer := range []export.Renderer{export.NewCSVExporter(), export.NewPDFExporter(), export.NewXLSXExporter()} {
		renderers[renderer.Extension()] = renderer
	}
	return &ExportService{
		jadwal:    jadwal,
		meetings:  meetings,
		courses:   courses,
		rooms:     rooms,
		shifts:    shifts,
		lecturers: lecturers,
		renderers: renderers,
		validator: validate,
		logger:    logger,
	}
}

// Export renders the term schedule in the requested format (csv by default).
func (s *ExportService) Export(ctx context.Context, query dto.ExportQuery) (*ExportFile, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export query")
	}
	term := dto.TermQuery{Semester: query.Semester, AcademicYear: query.AcademicYear}.Term()
	if err := term.Validate(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	format := strings.ToLower(query.Format)
	if format == "" {
		format = defaultExportFormat
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", query.Format))
	}

	dataset, err := s.buildDataset(ctx, term)
	if err != nil {
		return nil, err
	}
	body, err := renderer.Render(dataset)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render jadwal export")
	}

	s.logger.Info("jadwal exported", zap.String("term", term.Key()), zap.String("format", format), zap.Int("rows", len(dataset.Rows)))
	return &ExportFile{
		Filename:    fmt.Sprintf("jadwal-%s-%s.%s", strings.ToLower(string(term.Semester)), strings.ReplaceAll(term.AcademicYear, "/", "-"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

func (s *ExportService) buildDataset(ctx context.Context, term models.Term) (export.Dataset, error) {
	items, err := s.jadwal.ListByTerm(ctx, term)
	if err != nil {
		return export.Dataset{}, appErrors.Internal(err, "failed to load term jadwal")
	}
	courses, err := s.courses.List(ctx)
	if err != nil {
		return export.Dataset{}, appErrors.Internal(err, "failed to load courses")
	}
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return export.Dataset{}, appErrors.Internal(err, "failed to load rooms")
	}
	shifts, err := s.shifts.List(ctx)
	if err != nil {
		return export.Dataset{}, appErrors.Internal(err, "failed to load shifts")
	}
	lecturers, err := s.lecturers.List(ctx)
	if err != nil {
		return export.Dataset{}, appErrors.Internal(err, "failed to load lecturers")
	}

	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	var meetings []models.Meeting
	if len(ids) > 0 {
		if meetings, err = s.meetings.ListByJadwalIDs(ctx, ids); err != nil {
			return export.Dataset{}, appErrors.Internal(err, "failed to load meetings")
		}
	}

	courseIndex := indexCourses(courses)
	roomNames := make(map[string]string, len(rooms))
	for _, room := range rooms {
		roomNames[room.ID] = room.Name
	}
	shiftIndex := make(map[string]models.Shift, len(shifts))
	for _, shift := range shifts {
		shiftIndex[shift.ID] = shift
	}
	lecturerNames := make(map[string]string, len(lecturers))
	for _, lecturer := range lecturers {
		lecturerNames[lecturer.ID] = lecturer.Name
	}
	calendar := make(map[string][]models.Meeting, len(items))
	for _, meeting := range meetings {
		calendar[meeting.JadwalID] = append(calendar[meeting.JadwalID], meeting)
	}

	sort.SliceStable(items, func(i, j int) bool {
		di, dj := dayOrder(items[i].Day), dayOrder(items[j].Day)
		if di != dj {
			return di < dj
		}
		si, sj := shiftIndex[items[i].ShiftID].StartTime, shiftIndex[items[j].ShiftID].StartTime
		if si != sj {
			return si < sj
		}
		return courseIndex[items[i].CourseID].Name < courseIndex[items[j].CourseID].Name
	})

	rows := make([]map[string]string, 0, len(items))
	for _, item := range items {
		course := courseIndex[item.CourseID]
		names := make([]string, 0, len(item.LecturerIDs))
		for _, id := range item.LecturerIDs {
			if name, ok := lecturerNames[id]; ok {
				names = append(names, name)
			} else {
				names = append(names, id)
			}
		}
		row := map[string]string{
			"Hari":             string(item.Day),
			"Jam":              shiftIndex[item.ShiftID].Label(),
			"Kode":             course.Code,
			"Mata Kuliah":      course.Name,
			"Kelas":            sectionLabel(item.Class),
			"SKS":              strconv.Itoa(course.SKS),
			"Ruang":            roomNames[item.RoomID],
			"Dosen":            strings.Join(names, ", "),
			"Mahasiswa":        strconv.Itoa(len(item.StudentIDs)),
			"Jumlah Pertemuan": strconv.Itoa(len(calendar[item.ID])),
		}
		if sessions := calendar[item.ID]; len(sessions) > 0 {
			sort.Slice(sessions, func(a, b int) bool { return sessions[a].Number < sessions[b].Number })
			row["Pertemuan Pertama"] = sessions[0].Date.Format(meetingDateLayout)
			row["Pertemuan Terakhir"] = sessions[len(sessions)-1].Date.Format(meetingDateLayout)
		}
		rows = append(rows, row)
	}

	return export.Dataset{
		Title:   "Jadwal Kuliah " + term.String(),
		Headers: exportHeaders,
		Rows:    rows,
	}, nil
}

func dayOrder(day models.Weekday) int {
	for i, d := range models.Weekdays {
		if d == day {
			return i
		}
	}
	return len(models.Weekdays)
}
