package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/jadwal-api/internal/dto"
	"github.com/noah-isme/jadwal-api/internal/models"
	appErrors "github.com/noah-isme/jadwal-api/pkg/errors"
)

func (s *roomStub) List(ctx context.Context) ([]models.Room, error) {
	return append([]models.Room(nil), s.items...), nil
}

func (s *shiftStub) List(ctx context.Context) ([]models.Shift, error) {
	return append([]models.Shift(nil), s.items...), nil
}

func (s *meetingStub) ListByJadwalIDs(ctx context.Context, ids []string) ([]models.Meeting, error) {
	result := make([]models.Meeting, 0, len(s.items))
	for _, item := range s.items {
		if containsID(ids, item.JadwalID) {
			result = append(result, item)
		}
	}
	return result, nil
}

func newExportFixture(t *testing.T) (*engineFixture, *ExportService) {
	t.Helper()
	f := newEngineFixture()
	svc := f.service()

	second := validJadwalRequest()
	second.CourseID = "c2"
	second.ShiftID = "s2"
	second.Day = "SELASA"
	second.LecturerIDs = []string{"l1", "l2"}
	first := validJadwalRequest()
	first.ShiftID = "s2"
	first.StudentIDs = []string{"m000", "m001", "m002"}

	for _, req := range []dto.JadwalRequest{second, first} {
		resp, err := svc.Create(context.Background(), req)
		require.NoError(t, err)
		require.True(t, resp.Committed)
	}

	exporter := NewExportService(f.jadwal, f.meetings, f.courses, f.rooms, f.shifts, f.lecturers, nil, nil)
	return f, exporter
}

func TestExportServiceCSVOrdersByDayAndShift(t *testing.T) {
	_, exporter := newExportFixture(t)

	file, err := exporter.Export(context.Background(), dto.ExportQuery{Semester: "GANJIL", AcademicYear: "2024/2025"})
	require.NoError(t, err)
	assert.Equal(t, "jadwal-ganjil-2024-2025.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)

	records, err := csv.NewReader(bytes.NewReader(file.Body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, exportHeaders, records[0])
	assert.Equal(t, []string{"SENIN", "09:20-11:00", "IF101", "Algoritma", "A", "3", "R101", "Dosen Satu", "3", "2024-09-02", "2024-11-18", "12"}, records[1])
	assert.Equal(t, "SELASA", records[2][0])
	assert.Equal(t, "Dosen Satu, Dosen Dua", records[2][7])
}

func TestExportServiceRendersBinaryFormats(t *testing.T) {
	_, exporter := newExportFixture(t)

	pdf, err := exporter.Export(context.Background(), dto.ExportQuery{Semester: "GANJIL", AcademicYear: "2024/2025", Format: "pdf"})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", pdf.ContentType)
	assert.True(t, bytes.HasPrefix(pdf.Body, []byte("%PDF")))

	xlsx, err := exporter.Export(context.Background(), dto.ExportQuery{Semester: "GANJIL", AcademicYear: "2024/2025", Format: "xlsx"})
	require.NoError(t, err)
	assert.Equal(t, "jadwal-ganjil-2024-2025.xlsx", xlsx.Filename)
	assert.NotEmpty(t, xlsx.Body)
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	_, exporter := newExportFixture(t)

	_, err := exporter.Export(context.Background(), dto.ExportQuery{Semester: "GANJIL", AcademicYear: "2024/2025", Format: "docx"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}
