package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mroth/weightedrand/v2"
	"go.uber.org/zap"

	"github.com/noah-isme/jadwal-api/internal/dto"
	"github.com/noah-isme/jadwal-api/internal/models"
	appErrors "github.com/noah-isme/jadwal-api/pkg/errors"
	"github.com/noah-isme/jadwal-api/pkg/middleware/requestid"
)

const (
	sectionScheduled = "scheduled"
	sectionFailed    = "failed"

	distributionCachePrefix = "jadwal:distribution:"
	meetingDateLayout       = "2006-01-02"

	preferredRoomWeight = 4
	fallbackRoomWeight  = 1
	maxTeamSize         = 2
)

type courseCatalog interface {
	List(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type roomCatalog interface {
	ListActive(ctx context.Context) ([]models.Room, error)
	FindByID(ctx context.Context, id string) (*models.Room, error)
}

type shiftCatalog interface {
	ListActive(ctx context.Context) ([]models.Shift, error)
	FindByID(ctx context.Context, id string) (*models.Shift, error)
}

type lecturerCatalog interface {
	List(ctx context.Context) ([]models.Lecturer, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Lecturer, error)
}

type studentCatalog interface {
	ListActive(ctx context.Context) ([]models.Student, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Student, error)
}

type jadwalWriter interface {
	ListByTerm(ctx context.Context, term models.Term) ([]models.Jadwal, error)
	Create(ctx context.Context, exec sqlx.ExtContext, jadwal *models.Jadwal) error
}

type meetingWriter interface {
	BulkCreate(ctx context.Context, exec sqlx.ExtContext, meetings []models.Meeting) error
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// JadwalServiceConfig carries the engine tunables.
type JadwalServiceConfig struct {
	Genetic      GeneticConfig
	Distribution DistributionConfig
	MaxAttempts  int
	MeetingCount int
	Days         []models.Weekday
	Seed         int64
	CacheTTL     time.Duration
}

// JadwalService is the entry point of the scheduling engine: it checks and
// commits single jadwal, generates the whole term and plans rosters.
type JadwalService struct {
	courses   courseCatalog
	rooms     roomCatalog
	shifts    shiftCatalog
	lecturers lecturerCatalog
	students  studentCatalog
	jadwal    jadwalWriter
	meetings  meetingWriter
	tx        txProvider
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       JadwalServiceConfig
	planner   *FairDistributionPlanner
	locks     *termLocks
	newID     func() string

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewJadwalService wires the engine dependencies.
func NewJadwalService(
	courses courseCatalog,
	rooms roomCatalog,
	shifts shiftCatalog,
	lecturers lecturerCatalog,
	students studentCatalog,
	jadwal jadwalWriter,
	meetings meetingWriter,
	tx txProvider,
	cache *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg JadwalServiceConfig,
) *JadwalService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 100
	}
	if cfg.MeetingCount <= 0 {
		cfg.MeetingCount = DefaultMeetingCount
	}
	if len(cfg.Days) == 0 {
		cfg.Days = []models.Weekday{models.Senin, models.Selasa, models.Rabu, models.Kamis, models.Jumat}
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	planner := NewFairDistributionPlanner(cfg.Distribution)
	cfg.Distribution = planner.Config()

	return &JadwalService{
		courses:   courses,
		rooms:     rooms,
		shifts:    shifts,
		lecturers: lecturers,
		students:  students,
		jadwal:    jadwal,
		meetings:  meetings,
		tx:        tx,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		planner:   planner,
		locks:     newTermLocks(),
		newID:     uuid.NewString,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// CheckConflicts reports every conflict of the proposed jadwal without writing.
func (s *JadwalService) CheckConflicts(ctx context.Context, req dto.JadwalRequest) (*dto.ConflictCheckResponse, error) {
	candidate, err := s.resolveCandidate(ctx, req)
	if err != nil {
		return nil, err
	}
	conflicts, err := s.detect(ctx, candidate)
	if err != nil {
		return nil, err
	}
	return &dto.ConflictCheckResponse{Clean: len(conflicts) == 0, Conflicts: conflicts}, nil
}

// Create commits the proposed jadwal and its meeting calendar. A conflicting
// candidate without the override flag is returned uncommitted with its
// conflicts; with the flag it is committed and the conflicts are reported.
func (s *JadwalService) Create(ctx context.Context, req dto.JadwalRequest) (*dto.CreateJadwalResponse, error) {
	candidate, err := s.resolveCandidate(ctx, req)
	if err != nil {
		return nil, err
	}
	conflicts, err := s.detect(ctx, candidate)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 && !candidate.Jadwal.Override {
		return &dto.CreateJadwalResponse{Committed: false, Conflicts: conflicts}, nil
	}

	record := candidate.Jadwal
	record.ID = s.newID()
	meetings, err := s.commit(ctx, &record)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		s.logger.Warn("jadwal committed with override",
			zap.String("request_id", requestid.FromContext(ctx)),
			zap.String("jadwal_id", record.ID),
			zap.String("course_id", record.CourseID),
			zap.Int("conflicts", len(conflicts)),
		)
	}
	s.invalidateDistribution(ctx)

	return &dto.CreateJadwalResponse{
		Committed: true,
		Jadwal:    &record,
		Meetings:  toMeetingDates(meetings),
		Conflicts: conflicts,
	}, nil
}

// MeetingDates returns the term calendar of one weekday.
func (s *JadwalService) MeetingDates(ctx context.Context, query dto.MeetingDatesQuery) ([]dto.MeetingDate, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid meeting dates query")
	}
	day, err := models.ParseWeekday(query.Day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	count := query.Count
	if count <= 0 {
		count = s.cfg.MeetingCount
	}
	term := dto.TermQuery{Semester: query.Semester, AcademicYear: query.AcademicYear}.Term()
	dates, err := GenerateMeetingDates(day, term, count)
	if err != nil {
		return nil, err
	}
	result := make([]dto.MeetingDate, len(dates))
	for i, date := range dates {
		result[i] = dto.MeetingDate{Number: i + 1, Date: date.Format(meetingDateLayout)}
	}
	return result, nil
}

// PlanDistribution computes rosters for the theory courses of the term that
// have no jadwal yet, starting from the credit loads already committed.
func (s *JadwalService) PlanDistribution(ctx context.Context, query dto.TermQuery) (*dto.DistributionPlanResponse, error) {
	term, err := s.validateTerm(query)
	if err != nil {
		return nil, err
	}

	cacheKey := distributionCachePrefix + term.Key()
	var cached dto.DistributionPlanResponse
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load courses")
	}
	students, err := s.students.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load students")
	}
	existing, err := s.jadwal.ListByTerm(ctx, term)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load term jadwal")
	}

	session := newGenerationSession(term, existing)
	pending := make([]models.Course, 0, len(courses))
	for _, course := range PlanCourses(term, courses) {
		if !session.courseScheduled(course.ID) {
			pending = append(pending, course)
		}
	}

	plan := s.planner.Plan(pending, students, initialWorkloads(existing, indexCourses(courses)))
	resp := toDistributionResponse(term, plan)

	if err := s.cache.Set(ctx, cacheKey, resp, s.cfg.CacheTTL); err != nil {
		s.logger.Debug("distribution plan not cached", zap.String("term", term.Key()), zap.Error(err))
	}
	return resp, nil
}

// GenerateAll schedules every course of the term that has no jadwal yet.
// Sections that cannot be placed within the attempt cap are reported as
// failed and do not abort the run.
func (s *JadwalService) GenerateAll(ctx context.Context, req dto.GenerateAllRequest) (*dto.GenerationSummary, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation payload")
	}
	term, err := s.validateTerm(dto.TermQuery{Semester: req.Semester, AcademicYear: req.AcademicYear})
	if err != nil {
		return nil, err
	}
	var preferred models.Weekday
	if strings.TrimSpace(req.PreferredDay) != "" {
		if preferred, err = models.ParseWeekday(req.PreferredDay); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
		}
	}

	if !s.locks.acquire(term.Key()) {
		return nil, appErrors.ErrSchedulerBusy
	}
	defer s.locks.release(term.Key())

	start := time.Now()
	summary, err := s.generate(ctx, term, preferred)
	if err != nil {
		return nil, err
	}
	summary.Stats.DurationMs = time.Since(start).Milliseconds()

	s.metrics.ObserveGeneration(string(summary.Status), time.Since(start))
	s.logger.Info("jadwal generation finished",
		zap.String("request_id", requestid.FromContext(ctx)),
		zap.String("term", term.Key()),
		zap.String("status", string(summary.Status)),
		zap.Int("scheduled", summary.Stats.SectionsScheduled),
		zap.Int("failed", summary.Stats.SectionsFailed),
		zap.Int("skipped", len(summary.Skipped)),
		zap.Int64("duration_ms", summary.Stats.DurationMs),
	)
	if summary.Stats.SectionsScheduled > 0 {
		s.invalidateDistribution(ctx)
	}
	return summary, nil
}

type generationCatalog struct {
	courses   []models.Course
	rooms     []models.Room
	shifts    []models.Shift
	lecturers []models.Lecturer
	students  []models.Student
	existing  []models.Jadwal
}

type sectionJob struct {
	course   models.Course
	label    string
	students []string
}

func (s *JadwalService) generate(ctx context.Context, term models.Term, preferred models.Weekday) (*dto.GenerationSummary, error) {
	catalog, err := s.loadCatalog(ctx, term)
	if err != nil {
		return nil, err
	}

	summary := &dto.GenerationSummary{
		Term:      term,
		Succeeded: make([]dto.ScheduledSection, 0),
		Failed:    make([]dto.FailedSection, 0),
		Skipped:   make([]dto.SkippedCourse, 0),
	}

	session := newGenerationSession(term, catalog.existing)
	pending := make([]models.Course, 0, len(catalog.courses))
	for _, course := range catalog.courses {
		if term.Semester.Matches(course.Semester) && !session.courseScheduled(course.ID) {
			pending = append(pending, course)
		}
	}
	summary.Stats.CoursesConsidered = len(pending)

	if reason := nothingToDo(pending, catalog); reason != "" {
		summary.Status = dto.GenerationNothing
		summary.Message = reason
		return summary, nil
	}

	rng := s.runRand()
	plan := s.planner.Plan(PlanCourses(term, pending), catalog.students, initialWorkloads(catalog.existing, indexCourses(catalog.courses)))
	for _, course := range plan.Skipped {
		summary.Skipped = append(summary.Skipped, dto.SkippedCourse{
			CourseID:   course.ID,
			CourseName: course.Name,
			Reason:     "no eligible student fits under the credit ceiling",
		})
	}

	jobs := make([]sectionJob, 0, len(pending))
	scheduledCourses := make([]models.Course, 0, len(pending))
	for _, coursePlan := range plan.Courses {
		scheduledCourses = append(scheduledCourses, coursePlan.Course)
		for _, section := range coursePlan.Sections {
			jobs = append(jobs, sectionJob{course: coursePlan.Course, label: section.Label, students: section.StudentIDs})
		}
	}
	for _, course := range pending {
		if course.IsTheory {
			continue
		}
		scheduledCourses = append(scheduledCourses, course)
		jobs = append(jobs, sectionJob{course: course, label: models.DefaultClass})
	}

	if len(jobs) == 0 {
		summary.Status = dto.GenerationNothing
		summary.Message = "no course has students to schedule"
		return summary, nil
	}

	ga := NewGeneticScheduler(s.cfg.Genetic, rng)
	search := ga.Run(scheduledCourses, catalog.rooms, catalog.shifts, catalog.lecturers)
	hints := search.Best()
	if n := len(search.BestFitness); n > 0 {
		summary.Stats.Generations = n
		summary.Stats.BestFitness = search.BestFitness[n-1]
		summary.Stats.MeanFitness = search.MeanFitness[n-1]
		summary.Stats.FitnessHistory = search.BestFitness
	}

	placer, err := newSectionPlacer(s.cfg, catalog, rng, preferred)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to prepare room selection")
	}

	distinct := make(map[string]struct{})
	for _, job := range jobs {
		hint, hasHint := hints[job.course.ID]
		record, attempts, reason := placer.place(session, term, job, hint, hasHint)
		if reason != "" {
			summary.Failed = append(summary.Failed, dto.FailedSection{
				CourseID:     job.course.ID,
				CourseName:   job.course.Name,
				Class:        job.label,
				StudentCount: len(job.students),
				Attempts:     attempts,
				Reason:       reason,
			})
			s.metrics.RecordSection(sectionFailed)
			s.logger.Debug("section not scheduled",
				zap.String("course_id", job.course.ID),
				zap.String("class", job.label),
				zap.Int("attempts", attempts),
				zap.String("reason", reason),
			)
			continue
		}

		record.ID = s.newID()
		if _, err := s.commit(ctx, &record); err != nil {
			s.logger.Error("failed to persist generated jadwal", zap.String("course_id", job.course.ID), zap.Error(err))
			return nil, err
		}
		session.reserve(record)
		s.metrics.RecordSection(sectionScheduled)

		for _, id := range job.students {
			distinct[id] = struct{}{}
		}
		summary.Stats.TotalCreditsDistributed += len(job.students) * job.course.SKS
		summary.Succeeded = append(summary.Succeeded, dto.ScheduledSection{
			CourseID:     job.course.ID,
			CourseName:   job.course.Name,
			Class:        record.Class,
			JadwalID:     record.ID,
			RoomID:       record.RoomID,
			ShiftID:      record.ShiftID,
			Day:          record.Day,
			LecturerIDs:  record.LecturerIDs,
			StudentCount: len(job.students),
			Attempts:     attempts,
		})
	}

	summary.Stats.SectionsScheduled = len(summary.Succeeded)
	summary.Stats.SectionsFailed = len(summary.Failed)
	summary.Stats.TotalStudentsScheduled = len(distinct)
	if len(summary.Failed) > 0 {
		summary.Status = dto.GenerationPartial
	} else {
		summary.Status = dto.GenerationCompleted
	}
	return summary, nil
}

func (s *JadwalService) loadCatalog(ctx context.Context, term models.Term) (*generationCatalog, error) {
	var (
		catalog generationCatalog
		err     error
	)
	if catalog.courses, err = s.courses.List(ctx); err != nil {
		return nil, appErrors.Internal(err, "failed to load courses")
	}
	if catalog.rooms, err = s.rooms.ListActive(ctx); err != nil {
		return nil, appErrors.Internal(err, "failed to load rooms")
	}
	if catalog.shifts, err = s.shifts.ListActive(ctx); err != nil {
		return nil, appErrors.Internal(err, "failed to load shifts")
	}
	if catalog.lecturers, err = s.lecturers.List(ctx); err != nil {
		return nil, appErrors.Internal(err, "failed to load lecturers")
	}
	if catalog.students, err = s.students.ListActive(ctx); err != nil {
		return nil, appErrors.Internal(err, "failed to load students")
	}
	if catalog.existing, err = s.jadwal.ListByTerm(ctx, term); err != nil {
		return nil, appErrors.Internal(err, "failed to load term jadwal")
	}
	return &catalog, nil
}

func nothingToDo(pending []models.Course, catalog *generationCatalog) string {
	switch {
	case len(pending) == 0:
		return "every course of the term already has a jadwal"
	case len(catalog.rooms) == 0:
		return "no active rooms available"
	case len(catalog.shifts) == 0:
		return "no active shifts available"
	case len(catalog.lecturers) == 0:
		return "no lecturers available"
	}
	return ""
}

// resolveCandidate validates the request and loads every referenced record.
func (s *JadwalService) resolveCandidate(ctx context.Context, req dto.JadwalRequest) (ConflictCandidate, error) {
	var candidate ConflictCandidate
	if err := s.validator.Struct(req); err != nil {
		return candidate, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid jadwal payload")
	}
	day, err := models.ParseWeekday(req.Day)
	if err != nil {
		return candidate, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	term, err := s.validateTerm(dto.TermQuery{Semester: req.Semester, AcademicYear: req.AcademicYear})
	if err != nil {
		return candidate, err
	}

	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		return candidate, notFoundOrInternal(err, "course", req.CourseID)
	}
	room, err := s.rooms.FindByID(ctx, req.RoomID)
	if err != nil {
		return candidate, notFoundOrInternal(err, "room", req.RoomID)
	}
	if !room.Active {
		return candidate, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("room %s is inactive", room.ID))
	}
	shift, err := s.shifts.FindByID(ctx, req.ShiftID)
	if err != nil {
		return candidate, notFoundOrInternal(err, "shift", req.ShiftID)
	}
	if !shift.Active {
		return candidate, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("shift %s is inactive", shift.ID))
	}

	lecturerIDs := uniqueIDs(req.LecturerIDs)
	lecturers, err := s.lecturers.FindByIDs(ctx, lecturerIDs)
	if err != nil {
		return candidate, appErrors.Internal(err, "failed to load lecturers")
	}
	if missing := missingIDs(lecturerIDs, lecturerIDsOf(lecturers)); len(missing) > 0 {
		return candidate, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("lecturer not found: %s", strings.Join(missing, ", ")))
	}

	studentIDs := uniqueIDs(req.StudentIDs)
	var students []models.Student
	if len(studentIDs) > 0 {
		if students, err = s.students.FindByIDs(ctx, studentIDs); err != nil {
			return candidate, appErrors.Internal(err, "failed to load students")
		}
		if missing := missingIDs(studentIDs, studentIDsOf(students)); len(missing) > 0 {
			return candidate, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student not found: %s", strings.Join(missing, ", ")))
		}
	}

	candidate = ConflictCandidate{
		Jadwal: models.Jadwal{
			CourseID:     course.ID,
			RoomID:       room.ID,
			ShiftID:      shift.ID,
			Day:          day,
			Class:        sectionLabel(strings.ToUpper(strings.TrimSpace(req.Class))),
			Semester:     term.Semester,
			AcademicYear: term.AcademicYear,
			Override:     req.Override,
			LecturerIDs:  lecturerIDs,
			StudentIDs:   studentIDs,
		},
		Course:    *course,
		Lecturers: lecturers,
		Students:  students,
	}
	return candidate, nil
}

func (s *JadwalService) detect(ctx context.Context, candidate ConflictCandidate) ([]models.ScheduleConflict, error) {
	existing, err := s.jadwal.ListByTerm(ctx, candidate.Jadwal.Term())
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load term jadwal")
	}
	conflicts := DetectConflicts(candidate, existing)
	s.metrics.RecordConflicts(conflicts)
	return conflicts, nil
}

// commit persists the jadwal and its meetings in one transaction when a
// transaction provider is configured.
func (s *JadwalService) commit(ctx context.Context, record *models.Jadwal) (meetings []models.Meeting, err error) {
	dates, err := GenerateMeetingDates(record.Day, record.Term(), s.cfg.MeetingCount)
	if err != nil {
		return nil, err
	}
	meetings = buildMeetings(record.ID, dates, s.newID)

	if s.tx == nil {
		if err = s.jadwal.Create(ctx, nil, record); err != nil {
			return nil, appErrors.Internal(err, "failed to create jadwal")
		}
		if err = s.meetings.BulkCreate(ctx, nil, meetings); err != nil {
			return nil, appErrors.Internal(err, "failed to create meetings")
		}
		return meetings, nil
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to begin jadwal transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.jadwal.Create(ctx, tx, record); err != nil {
		err = appErrors.Internal(err, "failed to create jadwal")
		return nil, err
	}
	if err = s.meetings.BulkCreate(ctx, tx, meetings); err != nil {
		err = appErrors.Internal(err, "failed to create meetings")
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		err = appErrors.Internal(err, "failed to commit jadwal transaction")
		return nil, err
	}
	return meetings, nil
}

func (s *JadwalService) validateTerm(query dto.TermQuery) (models.Term, error) {
	if err := s.validator.Struct(query); err != nil {
		return models.Term{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid term")
	}
	term := query.Term()
	if err := term.Validate(); err != nil {
		return models.Term{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	return term, nil
}

func (s *JadwalService) invalidateDistribution(ctx context.Context) {
	_ = s.cache.Invalidate(ctx, distributionCachePrefix+"*")
}

// runRand derives an independent source for one run so concurrent runs on
// different terms never share a *rand.Rand.
func (s *JadwalService) runRand() *rand.Rand {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return rand.New(rand.NewSource(s.rng.Int63()))
}

// sectionPlacer picks random slots for sections until one is free.
type sectionPlacer struct {
	maxAttempts int
	days        []models.Weekday
	preferred   models.Weekday
	rng         *rand.Rand
	rooms       map[string]models.Room
	shifts      []models.Shift
	lecturers   []models.Lecturer
	theoryRooms *weightedrand.Chooser[models.Room, int]
	labRooms    *weightedrand.Chooser[models.Room, int]
}

func newSectionPlacer(cfg JadwalServiceConfig, catalog *generationCatalog, rng *rand.Rand, preferred models.Weekday) (*sectionPlacer, error) {
	theory, err := newRoomChooser(catalog.rooms, models.RoomCategoryClassroom)
	if err != nil {
		return nil, err
	}
	lab, err := newRoomChooser(catalog.rooms, models.RoomCategoryLab)
	if err != nil {
		return nil, err
	}
	rooms := make(map[string]models.Room, len(catalog.rooms))
	for _, room := range catalog.rooms {
		rooms[room.ID] = room
	}
	return &sectionPlacer{
		maxAttempts: cfg.MaxAttempts,
		days:        cfg.Days,
		preferred:   preferred,
		rng:         rng,
		rooms:       rooms,
		shifts:      catalog.shifts,
		lecturers:   catalog.lecturers,
		theoryRooms: theory,
		labRooms:    lab,
	}, nil
}

// newRoomChooser weights rooms of the favoured category four to one.
func newRoomChooser(rooms []models.Room, favoured models.RoomCategory) (*weightedrand.Chooser[models.Room, int], error) {
	choices := make([]weightedrand.Choice[models.Room, int], 0, len(rooms))
	for _, room := range rooms {
		weight := fallbackRoomWeight
		if room.Category == favoured {
			weight = preferredRoomWeight
		}
		choices = append(choices, weightedrand.NewChoice(room, weight))
	}
	return weightedrand.NewChooser(choices...)
}

// place returns the placed jadwal and the attempts spent, or a failure reason.
// The first attempt follows the search hint when one exists.
func (p *sectionPlacer) place(session *generationSession, term models.Term, job sectionJob, hint Chromosome, hasHint bool) (models.Jadwal, int, string) {
	pool, fixed := p.lecturerPool(job.course)
	if len(pool) == 0 {
		return models.Jadwal{}, 0, fmt.Sprintf("no lecturer may teach %s courses", job.course.FieldOfInterest)
	}

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		candidate := models.Jadwal{
			CourseID:     job.course.ID,
			Class:        job.label,
			Semester:     term.Semester,
			AcademicYear: term.AcademicYear,
			StudentIDs:   job.students,
			Day:          p.day(),
			RoomID:       p.room(job.course).ID,
			ShiftID:      p.shifts[p.rng.Intn(len(p.shifts))].ID,
		}
		if fixed {
			candidate.LecturerIDs = pool
		} else {
			candidate.LecturerIDs = []string{pool[p.rng.Intn(len(pool))]}
		}

		if attempt == 1 && hasHint {
			if _, ok := p.rooms[hint.RoomID]; ok {
				candidate.RoomID = hint.RoomID
			}
			if p.hasShift(hint.ShiftID) {
				candidate.ShiftID = hint.ShiftID
			}
			if !fixed && containsID(pool, hint.LecturerID) {
				candidate.LecturerIDs = []string{hint.LecturerID}
			}
		}

		if session.canPlace(candidate) {
			return candidate, attempt, ""
		}
	}
	return models.Jadwal{}, p.maxAttempts, fmt.Sprintf("no free room, shift and day found after %d attempts", p.maxAttempts)
}

// lecturerPool returns the explicit team of the course when it has one,
// otherwise every field-eligible lecturer to pick one from.
func (p *sectionPlacer) lecturerPool(course models.Course) ([]string, bool) {
	if len(course.LecturerIDs) > 0 {
		team := make([]string, 0, maxTeamSize)
		for _, lecturer := range p.lecturers {
			if len(team) < maxTeamSize && lecturerAssignedTo(course, lecturer.ID) {
				team = append(team, lecturer.ID)
			}
		}
		if len(team) > 0 {
			return team, true
		}
	}
	pool := make([]string, 0, len(p.lecturers))
	for _, lecturer := range p.lecturers {
		if LecturerCanTeach(lecturer.FieldOfInterest, course.FieldOfInterest) {
			pool = append(pool, lecturer.ID)
		}
	}
	return pool, false
}

func (p *sectionPlacer) day() models.Weekday {
	if p.preferred != "" {
		return p.preferred
	}
	return p.days[p.rng.Intn(len(p.days))]
}

func (p *sectionPlacer) room(course models.Course) models.Room {
	if course.IsTheory {
		return p.theoryRooms.PickSource(p.rng)
	}
	return p.labRooms.PickSource(p.rng)
}

func (p *sectionPlacer) hasShift(id string) bool {
	for _, shift := range p.shifts {
		if shift.ID == id {
			return true
		}
	}
	return false
}

type termLocks struct {
	mu      sync.Mutex
	running map[string]struct{}
}

func newTermLocks() *termLocks {
	return &termLocks{running: make(map[string]struct{})}
}

func (l *termLocks) acquire(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.running[key]; busy {
		return false
	}
	l.running[key] = struct{}{}
	return true
}

func (l *termLocks) release(key string) {
	l.mu.Lock()
	delete(l.running, key)
	l.mu.Unlock()
}

// initialWorkloads sums the credits students already carry in the term.
func initialWorkloads(existing []models.Jadwal, courses map[string]models.Course) map[string]int {
	workloads := make(map[string]int)
	for _, item := range existing {
		course, ok := courses[item.CourseID]
		if !ok {
			continue
		}
		for _, id := range item.StudentIDs {
			workloads[id] += course.SKS
		}
	}
	return workloads
}

func indexCourses(courses []models.Course) map[string]models.Course {
	index := make(map[string]models.Course, len(courses))
	for _, course := range courses {
		index[course.ID] = course
	}
	return index
}

func toDistributionResponse(term models.Term, plan DistributionResult) *dto.DistributionPlanResponse {
	resp := &dto.DistributionPlanResponse{
		Term:    term,
		Courses: make([]dto.CourseDistribution, 0, len(plan.Courses)),
		Skipped: make([]dto.SkippedCourse, 0, len(plan.Skipped)),
	}
	assigned := make(map[string]struct{})
	for _, entry := range plan.Courses {
		sections := make([]dto.SectionRoster, 0, len(entry.Sections))
		for _, section := range entry.Sections {
			sections = append(sections, dto.SectionRoster{Class: section.Label, StudentIDs: section.StudentIDs})
		}
		for _, id := range entry.Selected {
			assigned[id] = struct{}{}
		}
		resp.Courses = append(resp.Courses, dto.CourseDistribution{
			CourseID:     entry.Course.ID,
			CourseName:   entry.Course.Name,
			SKS:          entry.Course.SKS,
			Semester:     entry.Course.Semester,
			EligiblePool: entry.EligiblePool,
			StudentCount: len(entry.Selected),
			Dropped:      entry.Dropped,
			Sections:     sections,
		})
		resp.Stats.Enrolments += len(entry.Selected)
		resp.Stats.TotalCredits += len(entry.Selected) * entry.Course.SKS
	}
	for _, course := range plan.Skipped {
		resp.Skipped = append(resp.Skipped, dto.SkippedCourse{
			CourseID:   course.ID,
			CourseName: course.Name,
			Reason:     "no eligible student fits under the credit ceiling",
		})
	}
	resp.Stats.CoursesPlanned = len(resp.Courses)
	resp.Stats.StudentsAssigned = len(assigned)
	return resp
}

func toMeetingDates(meetings []models.Meeting) []dto.MeetingDate {
	result := make([]dto.MeetingDate, len(meetings))
	for i, meeting := range meetings {
		result[i] = dto.MeetingDate{Number: meeting.Number, Date: meeting.Date.Format(meetingDateLayout)}
	}
	return result
}

func notFoundOrInternal(err error, entity, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s %s not found", entity, id))
	}
	return appErrors.Internal(err, fmt.Sprintf("failed to load %s", entity))
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

func missingIDs(requested, found []string) []string {
	present := make(map[string]struct{}, len(found))
	for _, id := range found {
		present[id] = struct{}{}
	}
	missing := make([]string, 0)
	for _, id := range requested {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)
	return missing
}

func lecturerIDsOf(items []models.Lecturer) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

func studentIDsOf(items []models.Student) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}
