package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/jadwal-api/internal/dto"
	"github.com/noah-isme/jadwal-api/internal/models"
	"github.com/noah-isme/jadwal-api/internal/service"
	appErrors "github.com/noah-isme/jadwal-api/pkg/errors"
)

type jadwalEngineMock struct {
	createResp   *dto.CreateJadwalResponse
	generateErr  error
	capturedGen  dto.GenerateAllRequest
	capturedDate dto.MeetingDatesQuery
}

func (m *jadwalEngineMock) CheckConflicts(ctx context.Context, req dto.JadwalRequest) (*dto.ConflictCheckResponse, error) {
	return &dto.ConflictCheckResponse{Clean: true, Conflicts: []models.ScheduleConflict{}}, nil
}

func (m *jadwalEngineMock) Create(ctx context.Context, req dto.JadwalRequest) (*dto.CreateJadwalResponse, error) {
	return m.createResp, nil
}

func (m *jadwalEngineMock) GenerateAll(ctx context.Context, req dto.GenerateAllRequest) (*dto.GenerationSummary, error) {
	m.capturedGen = req
	if m.generateErr != nil {
		return nil, m.generateErr
	}
	return &dto.GenerationSummary{Status: dto.GenerationCompleted}, nil
}

func (m *jadwalEngineMock) PlanDistribution(ctx context.Context, query dto.TermQuery) (*dto.DistributionPlanResponse, error) {
	return &dto.DistributionPlanResponse{Term: query.Term()}, nil
}

func (m *jadwalEngineMock) MeetingDates(ctx context.Context, query dto.MeetingDatesQuery) ([]dto.MeetingDate, error) {
	m.capturedDate = query
	return []dto.MeetingDate{{Number: 1, Date: "2024-09-02"}}, nil
}

type generationJobsMock struct {
	enqueued bool
}

func (m *generationJobsMock) Enqueue(ctx context.Context, req dto.GenerateAllRequest) (*dto.GenerationJob, error) {
	m.enqueued = true
	return &dto.GenerationJob{ID: "job-1", State: dto.JobQueued, Request: req}, nil
}

func (m *generationJobsMock) Get(ctx context.Context, id string) (*dto.GenerationJob, error) {
	if id != "job-1" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "generation job not found")
	}
	return &dto.GenerationJob{ID: id, State: dto.JobDone}, nil
}

type exporterMock struct{}

func (exporterMock) Export(ctx context.Context, query dto.ExportQuery) (*service.ExportFile, error) {
	return &service.ExportFile{Filename: "jadwal.csv", ContentType: "text/csv", Body: []byte("Hari\nSENIN\n")}, nil
}

func newJadwalRouter(engine *jadwalEngineMock, jobs *generationJobsMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &JadwalHandler{engine: engine, jobs: jobs, exporter: exporterMock{}}
	r := gin.New()
	r.POST("/jadwal/check", h.Check)
	r.POST("/jadwal", h.Create)
	r.POST("/jadwal/generate", h.Generate)
	r.GET("/jadwal/generate/jobs/:id", h.Job)
	r.GET("/jadwal/distribution", h.Distribution)
	r.GET("/jadwal/meeting-dates", h.MeetingDates)
	r.GET("/jadwal/export", h.Export)
	return r
}

const jadwalPayload = `{"courseId":"c1","roomId":"r1","shiftId":"s1","day":"SENIN","lecturerIds":["l1"],"semester":"GANJIL","academicYear":"2024/2025"}`

func TestJadwalHandlerCreateCommitted(t *testing.T) {
	engine := &jadwalEngineMock{createResp: &dto.CreateJadwalResponse{Committed: true, Jadwal: &models.Jadwal{ID: "j1"}}}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/jadwal", bytes.NewReader([]byte(jadwalPayload)))
	req.Header.Set("Content-Type", "application/json")

	newJadwalRouter(engine, &generationJobsMock{}).ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
}

func TestJadwalHandlerCreateRejectedReturnsConflicts(t *testing.T) {
	engine := &jadwalEngineMock{createResp: &dto.CreateJadwalResponse{
		Committed: false,
		Conflicts: []models.ScheduleConflict{{Dimension: models.ConflictRoom, Field: "roomId", ExistingJadwalID: "j0"}},
	}}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/jadwal", bytes.NewReader([]byte(jadwalPayload)))
	req.Header.Set("Content-Type", "application/json")

	newJadwalRouter(engine, &generationJobsMock{}).ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)
	var body struct {
		Data  dto.CreateJadwalResponse `json:"data"`
		Error appErrors.Error          `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, appErrors.ErrConflict.Code, body.Error.Code)
	require.Len(t, body.Data.Conflicts, 1)
	assert.Equal(t, models.ConflictRoom, body.Data.Conflicts[0].Dimension)
}

func TestJadwalHandlerCheckInvalidJSON(t *testing.T) {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/jadwal/check", bytes.NewReader([]byte(`{"courseId":`)))
	req.Header.Set("Content-Type", "application/json")

	newJadwalRouter(&jadwalEngineMock{}, &generationJobsMock{}).ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestJadwalHandlerGenerateSync(t *testing.T) {
	engine := &jadwalEngineMock{}
	jobs := &generationJobsMock{}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/jadwal/generate", bytes.NewReader([]byte(`{"semester":"GANJIL","academicYear":"2024/2025","preferredDay":"RABU"}`)))
	req.Header.Set("Content-Type", "application/json")

	newJadwalRouter(engine, jobs).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "RABU", engine.capturedGen.PreferredDay)
	assert.False(t, jobs.enqueued)
}

func TestJadwalHandlerGenerateAsync(t *testing.T) {
	jobs := &generationJobsMock{}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/jadwal/generate?async=true", bytes.NewReader([]byte(`{"semester":"GANJIL","academicYear":"2024/2025"}`)))
	req.Header.Set("Content-Type", "application/json")

	newJadwalRouter(&jadwalEngineMock{}, jobs).ServeHTTP(w, req)

	require.Equal(t, http.StatusAccepted, w.Code)
	assert.True(t, jobs.enqueued)
}

func TestJadwalHandlerGenerateBusy(t *testing.T) {
	engine := &jadwalEngineMock{generateErr: appErrors.ErrSchedulerBusy}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/jadwal/generate", bytes.NewReader([]byte(`{"semester":"GANJIL","academicYear":"2024/2025"}`)))
	req.Header.Set("Content-Type", "application/json")

	newJadwalRouter(engine, &generationJobsMock{}).ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestJadwalHandlerJobNotFound(t *testing.T) {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/jadwal/generate/jobs/unknown", nil)

	newJadwalRouter(&jadwalEngineMock{}, &generationJobsMock{}).ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestJadwalHandlerMeetingDatesBindsQuery(t *testing.T) {
	engine := &jadwalEngineMock{}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/jadwal/meeting-dates?day=SENIN&semester=GANJIL&academicYear=2024/2025&count=14", nil)

	newJadwalRouter(engine, &generationJobsMock{}).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "SENIN", engine.capturedDate.Day)
	assert.Equal(t, 14, engine.capturedDate.Count)
}

func TestJadwalHandlerDistribution(t *testing.T) {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/jadwal/distribution?semester=GENAP&academicYear=2024/2025", nil)

	newJadwalRouter(&jadwalEngineMock{}, &generationJobsMock{}).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"GENAP"`)
}

func TestJadwalHandlerExportStreamsAttachment(t *testing.T) {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/jadwal/export?semester=GANJIL&academicYear=2024/2025&format=csv", nil)

	newJadwalRouter(&jadwalEngineMock{}, &generationJobsMock{}).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="jadwal.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "Hari\nSENIN\n", w.Body.String())
}
