// Package pipeline runs the questionnaire flow: completeness gate, remote
// analysis, best-effort portrait and archiving, one state machine per
// browser session.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gdugdh24/yuelao-backend/internal/config"
	"github.com/gdugdh24/yuelao-backend/internal/domain"
	"github.com/gdugdh24/yuelao-backend/internal/infrastructure/metrics"
	"github.com/gdugdh24/yuelao-backend/internal/repository"
	"github.com/gdugdh24/yuelao-backend/internal/usecase/completeness"
)

const (
	stagePreAnalysis  = "pre-analysis"
	stagePostAnalysis = "post-analysis"
)

type Analyzer interface {
	AnalyzeMatch(ctx context.Context, profile domain.Profile, goal domain.RelationshipGoal) (*domain.AnalysisResult, error)
}

type ImageGenerator interface {
	GenerateMatchImage(ctx context.Context, prompt string) (*domain.MatchImage, error)
}

// SubmitRequest is the payload of the submit event.
type SubmitRequest struct {
	Profile          domain.Profile          `json:"profile"`
	RelationshipGoal domain.RelationshipGoal `json:"relationship_goal" binding:"required,oneof=CASUAL_PARTNER LIFE_PARTNER"`
}

type Option func(*PipelineUseCase)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(uc *PipelineUseCase) { uc.now = now }
}

// WithIDGenerator overrides uuid.New for sessions and records.
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(uc *PipelineUseCase) { uc.newID = newID }
}

// WithMetrics records flow outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(uc *PipelineUseCase) { uc.metrics = m }
}

type PipelineUseCase struct {
	analyzer Analyzer
	imager   ImageGenerator
	archive  repository.SubmissionRepository
	cfg      config.PipelineConfig
	logger   *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
	newID    func() uuid.UUID

	mu       sync.RWMutex
	sessions map[uuid.UUID]*session

	ctx      context.Context
	stop     context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once

	// runMu orders wg.Add for new runs against Shutdown.
	runMu  sync.Mutex
	closed bool
}

func NewPipelineUseCase(
	analyzer Analyzer,
	imager ImageGenerator,
	archive repository.SubmissionRepository,
	cfg config.PipelineConfig,
	logger *slog.Logger,
	opts ...Option,
) *PipelineUseCase {
	if logger == nil {
		logger = slog.Default()
	}

	ctx, stop := context.WithCancel(context.Background())
	uc := &PipelineUseCase{
		analyzer: analyzer,
		imager:   imager,
		archive:  archive,
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "pipeline")),
		now:      time.Now,
		newID:    uuid.New,
		sessions: make(map[uuid.UUID]*session),
		ctx:      ctx,
		stop:     stop,
	}
	for _, opt := range opts {
		opt(uc)
	}

	if cfg.SessionTTL > 0 {
		uc.wg.Add(1)
		go uc.janitor(janitorInterval(cfg.SessionTTL))
	}

	return uc
}

// Open creates a session. EntryAdmin lands directly in the Admin state; the
// caller is responsible for deciding whether the entry is allowed.
func (uc *PipelineUseCase) Open(entry domain.Entry) Snapshot {
	state := domain.ViewHero
	if entry == domain.EntryAdmin {
		state = domain.ViewAdmin
	}

	s := newSession(uc.newID(), state, uc.now())

	uc.mu.Lock()
	uc.sessions[s.id] = s
	uc.mu.Unlock()
	uc.metrics.SessionsChanged(1)

	uc.logger.Debug("session opened", slog.String("session_id", s.id.String()), slog.String("state", string(state)))

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (uc *PipelineUseCase) Get(id uuid.UUID) (Snapshot, error) {
	s, err := uc.session(id)
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = uc.now()
	return s.snapshotLocked(), nil
}

// Await blocks while the session is Analyzing, until the run settles or ctx
// is done, and then returns the current snapshot.
func (uc *PipelineUseCase) Await(ctx context.Context, id uuid.UUID) (Snapshot, error) {
	s, err := uc.session(id)
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
		}
	}

	return uc.Get(id)
}

// Start moves Hero to Form.
func (uc *PipelineUseCase) Start(id uuid.UUID) (Snapshot, error) {
	return uc.transition(id, func(s *session) error {
		if s.state != domain.ViewHero {
			return domain.ErrInvalidTransition
		}
		s.state = domain.ViewForm
		return nil
	})
}

// Back moves InsufficientData to Form with the profile kept.
func (uc *PipelineUseCase) Back(id uuid.UUID) (Snapshot, error) {
	return uc.transition(id, func(s *session) error {
		if s.state != domain.ViewInsufficientData {
			return domain.ErrInvalidTransition
		}
		s.state = domain.ViewForm
		return nil
	})
}

// Reset returns to Hero and drops the result and image. A reset during
// Analyzing abandons the run: its context is cancelled and any late result
// is discarded.
func (uc *PipelineUseCase) Reset(id uuid.UUID) (Snapshot, error) {
	return uc.transition(id, func(s *session) error {
		switch s.state {
		case domain.ViewForm, domain.ViewResult, domain.ViewInsufficientData:
		case domain.ViewAnalyzing:
			s.abandonLocked()
			uc.logger.Info("analysis abandoned", slog.String("session_id", s.id.String()))
		default:
			return domain.ErrInvalidTransition
		}
		s.state = domain.ViewHero
		s.errMsg = ""
		s.result = nil
		s.image = nil
		return nil
	})
}

// CloseAdmin leaves the Admin view.
func (uc *PipelineUseCase) CloseAdmin(id uuid.UUID) (Snapshot, error) {
	return uc.transition(id, func(s *session) error {
		if s.state != domain.ViewAdmin {
			return domain.ErrInvalidTransition
		}
		s.state = domain.ViewHero
		return nil
	})
}

// Submit applies the completeness gate and, when it passes, starts the
// analysis run in the background. The returned snapshot is either
// InsufficientData or Analyzing.
func (uc *PipelineUseCase) Submit(id uuid.UUID, req *SubmitRequest) (Snapshot, error) {
	if !req.RelationshipGoal.Valid() {
		return Snapshot{}, domain.ErrInvalidGoal
	}

	var (
		target       *session
		epoch        uint64
		runCtx       context.Context
		submissionID uuid.UUID
	)

	snap, err := uc.transition(id, func(s *session) error {
		if s.state != domain.ViewForm {
			return domain.ErrInvalidTransition
		}

		s.profile = req.Profile
		s.goal = req.RelationshipGoal
		s.errMsg = ""

		if err := completeness.Check(s.profile); err != nil {
			s.state = domain.ViewInsufficientData
			uc.metrics.Submission(metrics.OutcomeInsufficient)
			uc.logger.Info("submission rejected by completeness gate",
				slog.String("session_id", s.id.String()),
				slog.Any("reason", err),
			)
			return nil
		}

		if !uc.reserveRun() {
			return domain.ErrShuttingDown
		}

		ctx, cancel := context.WithCancel(uc.ctx)
		target = s
		runCtx = ctx
		epoch = s.beginRunLocked(cancel)
		submissionID = uc.newID()
		uc.metrics.Submission(metrics.OutcomeAccepted)
		return nil
	})
	if err != nil || target == nil {
		return snap, err
	}

	go uc.run(runCtx, target, epoch, submissionID, req.Profile, req.RelationshipGoal)

	return snap, nil
}

func (uc *PipelineUseCase) run(
	ctx context.Context,
	s *session,
	epoch uint64,
	submissionID uuid.UUID,
	profile domain.Profile,
	goal domain.RelationshipGoal,
) {
	defer uc.wg.Done()

	logger := uc.logger.With(
		slog.String("session_id", s.id.String()),
		slog.String("submission_id", submissionID.String()),
	)

	uc.archiveRecord(logger, stagePreAnalysis, submissionID, goal, profile, nil)

	// A reset or Shutdown during the pre-analysis write skips the remote call.
	if err := ctx.Err(); err != nil {
		applied := s.settle(epoch, func() {
			s.state = domain.ViewForm
			s.errMsg = domain.AnalysisFailureMessage
		})
		logger.Info("run stopped before analysis", slog.Bool("settled", applied), slog.Any("error", err))
		return
	}

	started := uc.now()
	actx, cancel := withTimeout(ctx, uc.cfg.AnalysisTimeout)
	result, err := uc.analyzer.AnalyzeMatch(actx, profile, goal)
	cancel()
	elapsed := uc.now().Sub(started)

	if err != nil {
		var failure *domain.AnalysisFailure
		if !errors.As(err, &failure) {
			failure = &domain.AnalysisFailure{Err: err}
		}

		applied := s.settle(epoch, func() {
			s.state = domain.ViewForm
			s.errMsg = domain.AnalysisFailureMessage
		})
		if applied {
			uc.metrics.Analysis(metrics.OutcomeFailure, elapsed)
			logger.Warn("analysis failed", slog.Any("error", failure))
		} else {
			uc.metrics.Analysis(metrics.OutcomeAbandoned, elapsed)
			logger.Info("discarding failed analysis of abandoned run", slog.Any("error", failure))
		}
		return
	}

	if !s.current(epoch) {
		uc.metrics.Analysis(metrics.OutcomeAbandoned, elapsed)
		logger.Info("discarding analysis result of abandoned run")
		return
	}
	uc.metrics.Analysis(metrics.OutcomeSuccess, elapsed)

	uc.archiveRecord(logger, stagePostAnalysis, submissionID, goal, profile, result)

	var image *domain.MatchImage
	if strings.TrimSpace(result.ImagePrompt) != "" {
		image = uc.generateImage(ctx, logger, result.ImagePrompt)
	} else {
		uc.metrics.Image(metrics.OutcomeSkipped)
	}

	applied := s.settle(epoch, func() {
		s.state = domain.ViewResult
		s.result = result
		s.image = image
	})
	if !applied {
		logger.Info("discarding result of abandoned run")
		return
	}

	logger.Info("submission completed",
		slog.String("archetype", result.ArchetypeTitle),
		slog.Bool("has_image", image != nil),
	)
}

// generateImage never fails the run: errors are logged and yield no image.
func (uc *PipelineUseCase) generateImage(ctx context.Context, logger *slog.Logger, prompt string) *domain.MatchImage {
	ictx, cancel := withTimeout(ctx, uc.cfg.ImageTimeout)
	defer cancel()

	image, err := uc.imager.GenerateMatchImage(ictx, prompt)
	if err != nil {
		var failure *domain.ImageGenerationFailure
		if !errors.As(err, &failure) {
			failure = &domain.ImageGenerationFailure{Err: err}
		}
		uc.metrics.Image(metrics.OutcomeFailure)
		logger.Warn("image generation failed", slog.Any("error", failure))
		return nil
	}
	uc.metrics.Image(metrics.OutcomeSuccess)
	return image
}

// archiveRecord appends one record. Failures are logged only.
func (uc *PipelineUseCase) archiveRecord(
	logger *slog.Logger,
	stage string,
	submissionID uuid.UUID,
	goal domain.RelationshipGoal,
	profile domain.Profile,
	result *domain.AnalysisResult,
) {
	record := &domain.SubmissionRecord{
		ID:               uc.newID(),
		SubmissionID:     submissionID,
		CreatedAt:        uc.now().UTC(),
		RelationshipGoal: goal,
		Profile:          profile,
		AnalysisResult:   result,
	}

	// Archive writes outlive an abandoned run.
	ctx, cancel := withTimeout(context.Background(), uc.cfg.ArchiveTimeout)
	defer cancel()

	if err := uc.archive.Append(ctx, record); err != nil {
		uc.metrics.ArchiveWrite(stage, metrics.OutcomeFailure)
		logger.Warn("archive write failed", slog.Any("error", &domain.ArchiveWriteFailure{Stage: stage, Err: err}))
		return
	}
	uc.metrics.ArchiveWrite(stage, metrics.OutcomeSuccess)
	logger.Debug("archive write", slog.String("stage", stage), slog.String("record_id", record.ID.String()))
}

func (uc *PipelineUseCase) transition(id uuid.UUID, fn func(s *session) error) (Snapshot, error) {
	s, err := uc.session(id)
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSeen = uc.now()
	if err := fn(s); err != nil {
		return s.snapshotLocked(), err
	}
	return s.snapshotLocked(), nil
}

func (uc *PipelineUseCase) session(id uuid.UUID) (*session, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	s, ok := uc.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s, nil
}

// reserveRun accounts for a new run goroutine unless Shutdown has begun.
func (uc *PipelineUseCase) reserveRun() bool {
	uc.runMu.Lock()
	defer uc.runMu.Unlock()

	if uc.closed {
		return false
	}
	uc.wg.Add(1)
	return true
}

// Shutdown cancels in-flight runs, stops the janitor and waits for both.
// Submissions accepted after it starts fail with ErrShuttingDown.
func (uc *PipelineUseCase) Shutdown() {
	uc.runMu.Lock()
	uc.closed = true
	uc.runMu.Unlock()

	uc.stopOnce.Do(uc.stop)
	uc.wg.Wait()
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
