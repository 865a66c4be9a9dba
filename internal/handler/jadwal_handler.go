package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/jadwal-api/internal/dto"
	"github.com/noah-isme/jadwal-api/internal/service"
	appErrors "github.com/noah-isme/jadwal-api/pkg/errors"
	"github.com/noah-isme/jadwal-api/pkg/response"
)

type jadwalEngine interface {
	CheckConflicts(ctx context.Context, req dto.JadwalRequest) (*dto.ConflictCheckResponse, error)
	Create(ctx context.Context, req dto.JadwalRequest) (*dto.CreateJadwalResponse, error)
	GenerateAll(ctx context.Context, req dto.GenerateAllRequest) (*dto.GenerationSummary, error)
	PlanDistribution(ctx context.Context, query dto.TermQuery) (*dto.DistributionPlanResponse, error)
	MeetingDates(ctx context.Context, query dto.MeetingDatesQuery) ([]dto.MeetingDate, error)
}

type generationJobs interface {
	Enqueue(ctx context.Context, req dto.GenerateAllRequest) (*dto.GenerationJob, error)
	Get(ctx context.Context, id string) (*dto.GenerationJob, error)
}

type jadwalExporter interface {
	Export(ctx context.Context, query dto.ExportQuery) (*service.ExportFile, error)
}

// JadwalHandler exposes the scheduling engine over HTTP.
type JadwalHandler struct {
	engine   jadwalEngine
	jobs     generationJobs
	exporter jadwalExporter
}

// NewJadwalHandler constructs the handler.
func NewJadwalHandler(engine *service.JadwalService, jobs *service.GenerationJobService, exporter *service.ExportService) *JadwalHandler {
	return &JadwalHandler{engine: engine, jobs: jobs, exporter: exporter}
}

// Check godoc
// @Summary Check a proposed jadwal for conflicts
// @Description Read-only diagnostic. Returns every room, course, lecturer and student conflict plus eligibility violations.
// @Tags Jadwal
// @Accept json
// @Produce json
// @Param payload body dto.JadwalRequest true "Proposed jadwal"
// @Success 200 {object} response.Envelope
// @Router /jadwal/check [post]
func (h *JadwalHandler) Check(c *gin.Context) {
	var req dto.JadwalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid jadwal payload"))
		return
	}
	result, err := h.engine.CheckConflicts(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Create godoc
// @Summary Create a jadwal and its meeting calendar
// @Description Conflicting proposals are rejected with 409 and the conflict list unless override is set.
// @Tags Jadwal
// @Accept json
// @Produce json
// @Param payload body dto.JadwalRequest true "Proposed jadwal"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /jadwal [post]
func (h *JadwalHandler) Create(c *gin.Context) {
	var req dto.JadwalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid jadwal payload"))
		return
	}
	result, err := h.engine.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !result.Committed {
		response.Rejected(c, appErrors.Clone(appErrors.ErrConflict, "jadwal conflicts with the existing schedule"), result)
		return
	}
	response.Created(c, result)
}

// Generate godoc
// @Summary Generate jadwal for every unscheduled course of a term
// @Description With async=true the run is queued and a job is returned with 202.
// @Tags Jadwal
// @Accept json
// @Produce json
// @Param async query bool false "Queue the run"
// @Param payload body dto.GenerateAllRequest true "Term and optional preferred day"
// @Success 200 {object} response.Envelope
// @Success 202 {object} response.Envelope
// @Router /jadwal/generate [post]
func (h *JadwalHandler) Generate(c *gin.Context) {
	var req dto.GenerateAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generation payload"))
		return
	}

	async, _ := strconv.ParseBool(c.DefaultQuery("async", "false"))
	if async {
		job, err := h.jobs.Enqueue(c.Request.Context(), req)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Accepted(c, job)
		return
	}

	summary, err := h.engine.GenerateAll(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary)
}

// Job godoc
// @Summary Get an async generation job
// @Tags Jadwal
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /jadwal/generate/jobs/{id} [get]
func (h *JadwalHandler) Job(c *gin.Context) {
	job, err := h.jobs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job)
}

// Distribution godoc
// @Summary Plan the fair student distribution of a term
// @Tags Jadwal
// @Produce json
// @Param semester query string true "GANJIL or GENAP"
// @Param academicYear query string true "Academic year, e.g. 2024/2025"
// @Success 200 {object} response.Envelope
// @Router /jadwal/distribution [get]
func (h *JadwalHandler) Distribution(c *gin.Context) {
	var query dto.TermQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid term query"))
		return
	}
	plan, err := h.engine.PlanDistribution(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan)
}

// MeetingDates godoc
// @Summary Generate the meeting calendar of a weekday in a term
// @Tags Jadwal
// @Produce json
// @Param day query string true "SENIN..SABTU"
// @Param semester query string true "GANJIL or GENAP"
// @Param academicYear query string true "Academic year, e.g. 2024/2025"
// @Param count query int false "Number of meetings"
// @Success 200 {object} response.Envelope
// @Router /jadwal/meeting-dates [get]
func (h *JadwalHandler) MeetingDates(c *gin.Context) {
	var query dto.MeetingDatesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid meeting dates query"))
		return
	}
	dates, err := h.engine.MeetingDates(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dates, map[string]interface{}{"count": len(dates)})
}

// Export godoc
// @Summary Download the committed schedule of a term
// @Tags Jadwal
// @Produce octet-stream
// @Param semester query string true "GANJIL or GENAP"
// @Param academicYear query string true "Academic year, e.g. 2024/2025"
// @Param format query string false "csv, pdf or xlsx"
// @Success 200 {file} file
// @Router /jadwal/export [get]
func (h *JadwalHandler) Export(c *gin.Context) {
	var query dto.ExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export query"))
		return
	}
	file, err := h.exporter.Export(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Body)
}
