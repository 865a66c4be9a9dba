package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/jadwal-api/internal/dto"
	appErrors "github.com/noah-isme/jadwal-api/pkg/errors"
	"github.com/noah-isme/jadwal-api/pkg/jobs"
)

// JobTypeGenerateAll tags queued bulk generation runs.
const JobTypeGenerateAll = "jadwal.generate_all"

const generationJobPrefix = "jadwal:job:"

type generationRunner interface {
	GenerateAll(ctx context.Context, req dto.GenerateAllRequest) (*dto.GenerationSummary, error)
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// GenerationJobService runs bulk generation in the background and keeps the
// job state in the cache, or in memory when the cache is disabled.
type GenerationJobService struct {
	runner    generationRunner
	cache     *CacheService
	queue     jobEnqueuer
	ttl       time.Duration
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time

	mu    sync.RWMutex
	local map[string]dto.GenerationJob
}

// NewGenerationJobService constructs the async generation service. The queue
// is attached afterwards because it needs Handle as its handler.
func NewGenerationJobService(runner generationRunner, cache *CacheService, ttl time.Duration, validate *validator.Validate, logger *zap.Logger) *GenerationJobService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GenerationJobService{
		runner:    runner,
		cache:     cache,
		ttl:       ttl,
		validator: validate,
		logger:    logger,
		now:       time.Now,
		local:     make(map[string]dto.GenerationJob),
	}
}

// AttachQueue sets the queue jobs are dispatched to.
func (s *GenerationJobService) AttachQueue(queue jobEnqueuer) {
	s.queue = queue
}

// Enqueue records a queued job and dispatches it.
func (s *GenerationJobService) Enqueue(ctx context.Context, req dto.GenerateAllRequest) (*dto.GenerationJob, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation payload")
	}
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "generation queue unavailable")
	}

	job := dto.GenerationJob{
		ID:         uuid.NewString(),
		State:      dto.JobQueued,
		Request:    req,
		EnqueuedAt: s.now().UTC(),
	}
	if err := s.save(ctx, job); err != nil {
		return nil, appErrors.Internal(err, "failed to record generation job")
	}
	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: JobTypeGenerateAll, Payload: req, Enqueued: job.EnqueuedAt}); err != nil {
		return nil, appErrors.Internal(err, "failed to enqueue generation job")
	}
	return &job, nil
}

// Get returns the current state of a job.
func (s *GenerationJobService) Get(ctx context.Context, id string) (*dto.GenerationJob, error) {
	var job dto.GenerationJob
	if s.cache.Enabled() {
		hit, err := s.cache.Get(ctx, generationJobPrefix+id, &job)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to load generation job")
		}
		if !hit {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("generation job %s not found", id))
		}
		return &job, nil
	}

	s.mu.RLock()
	job, ok := s.local[id]
	s.mu.RUnlock()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("generation job %s not found", id))
	}
	return &job, nil
}

// Handle is the queue handler running one generation job.
func (s *GenerationJobService) Handle(ctx context.Context, queued jobs.Job) error {
	req, ok := queued.Payload.(dto.GenerateAllRequest)
	if !ok {
		return fmt.Errorf("unexpected payload %T for job %s", queued.Payload, queued.ID)
	}

	job := dto.GenerationJob{ID: queued.ID, State: dto.JobRunning, Request: req, EnqueuedAt: queued.Enqueued}
	if err := s.save(ctx, job); err != nil {
		s.logger.Warn("failed to mark generation job running", zap.String("job_id", job.ID), zap.Error(err))
	}

	summary, runErr := s.runner.GenerateAll(ctx, req)
	finished := s.now().UTC()
	job.FinishedAt = &finished
	if runErr != nil {
		job.State = dto.JobFailed
		job.Error = appErrors.FromError(runErr).Message
	} else {
		job.State = dto.JobDone
		job.Summary = summary
	}
	if err := s.save(ctx, job); err != nil {
		s.logger.Error("failed to record generation job result", zap.String("job_id", job.ID), zap.Error(err))
	}
	return runErr
}

func (s *GenerationJobService) save(ctx context.Context, job dto.GenerationJob) error {
	if s.cache.Enabled() {
		return s.cache.Set(ctx, generationJobPrefix+job.ID, job, s.ttl)
	}
	s.mu.Lock()
	s.local[job.ID] = job
	s.mu.Unlock()
	return nil
}
