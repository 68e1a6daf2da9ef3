package services

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"runtime/debug"
	"sync"
	"time"

	"github.com/SAP-F-2025/frame-player/internal/cache"
	apperrors "github.com/SAP-F-2025/frame-player/internal/errors"
	"github.com/SAP-F-2025/frame-player/internal/events"
	"github.com/SAP-F-2025/frame-player/internal/loader"
	"github.com/SAP-F-2025/frame-player/internal/models"
	"github.com/SAP-F-2025/frame-player/internal/player"
	"github.com/SAP-F-2025/frame-player/internal/repositories"
	"github.com/SAP-F-2025/frame-player/internal/validator"
	"github.com/google/uuid"
)

// SessionService hosts the live assessment sessions of this process
type SessionService interface {
	Start(ctx context.Context, req *StartRequest) (*models.SessionSnapshot, error)
	Get(ctx context.Context, id string) (*models.SessionSnapshot, error)

	Next(ctx context.Context, id string) (*ActionResult, error)
	Prev(ctx context.Context, id string) (*ActionResult, error)
	Input(ctx context.Context, id, frameID, regionID, text string) (*ActionResult, error)
	ClickHotspot(ctx context.Context, id, frameID, regionID string) (*ActionResult, error)
	Mistake(ctx context.Context, id, frameID string) (*ActionResult, error)

	Result(ctx context.Context, id string) (*models.ScoreResult, error)
	Review(ctx context.Context, id string) (*SessionReview, error)
	Assets(ctx context.Context, id string) (fs.FS, error)

	End(ctx context.Context, id string) error
	// Sweep ends every session idle for longer than the configured TTL
	Sweep(ctx context.Context) int
	RunJanitor(ctx context.Context, interval time.Duration)
	Count() int
	Close()
}

type StartRequest struct {
	Source   models.SessionSource `json:"source" validate:"omitempty,session_source"`
	FrameSet string               `json:"frame_set" validate:"required_if=Source frame_set,max=200"`

	// Archive holds the uploaded zip bundle for the zip source
	Archive []byte `json:"-"`
}

// ActionResult reports whether an interaction changed the session, plus its new state
type ActionResult struct {
	Applied bool                   `json:"applied"`
	Session models.SessionSnapshot `json:"session"`
}

type SessionReview struct {
	SessionID string               `json:"session_id"`
	Result    models.ScoreResult   `json:"result"`
	Percent   float64              `json:"percentage"`
	Frames    []models.FrameReview `json:"frames"`
}

type SessionServiceConfig struct {
	Policy  player.Policy
	IdleTTL time.Duration
	// DimensionTTL bounds how long resolved image sizes stay cached
	DimensionTTL time.Duration
	// AssetBasePath prefixes the per-session asset URLs, e.g. /api/v1/sessions
	AssetBasePath string
	Scheduler     player.Scheduler
	Now           func() time.Time
}

type sessionEntry struct {
	session  *player.Session
	source   models.SessionSource
	frameSet string
	assets   fs.FS
}

type sessionService struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry

	config       SessionServiceConfig
	normalizer   *loader.Normalizer
	validator    *validator.Validator
	defaultDir   *loader.DirSource
	frameSets    repositories.FrameSetRepository
	dimensions   cache.CacheService
	publisher    events.EventPublisher
	logger       *slog.Logger
	opLogger     *ServiceLogger
	janitorOnce  sync.Once
	janitorClose chan struct{}
}

// NewSessionService wires the session registry. defaultDir and frameSets may be nil,
// which disables the corresponding session sources.
func NewSessionService(
	config SessionServiceConfig,
	normalizer *loader.Normalizer,
	validator *validator.Validator,
	defaultDir *loader.DirSource,
	frameSets repositories.FrameSetRepository,
	dimensions cache.CacheService,
	publisher events.EventPublisher,
	logger *slog.Logger,
) SessionService {
	if config.Scheduler == nil {
		config.Scheduler = player.RealScheduler()
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.AssetBasePath == "" {
		config.AssetBasePath = "/api/v1/sessions"
	}
	if dimensions == nil {
		dimensions = cache.NewMemoryCache()
	}

	return &sessionService{
		sessions:     make(map[string]*sessionEntry),
		config:       config,
		normalizer:   normalizer,
		validator:    validator,
		defaultDir:   defaultDir,
		frameSets:    frameSets,
		dimensions:   dimensions,
		publisher:    publisher,
		logger:       logger,
		opLogger:     NewServiceLogger(logger, LogConfig{Service: "frame-player", Component: "sessions"}),
		janitorClose: make(chan struct{}),
	}
}

// ===== LIFECYCLE =====

func (s *sessionService) Start(ctx context.Context, req *StartRequest) (snap *models.SessionSnapshot, err error) {
	op := s.opLogger.WithOperation(ctx, "start_session")
	id := uuid.NewString()
	defer func() { op.LogResult(id, "session", err) }()

	if req.Source == "" {
		req.Source = models.SourceDirectory
	}
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, validator.ToValidationErrors(err))
	}

	src, err := s.sourceFor(req)
	if err != nil {
		return nil, err
	}

	raw, err := src.Load(ctx)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: %s", ErrFrameSetNotFound, req.FrameSet)
		}
		return nil, err
	}

	baseURL := path.Join(s.config.AssetBasePath, id, "assets")
	resolver := loader.NewCachedResolver(
		loader.NewFSResolver(src.Assets(), baseURL),
		s.dimensions, src.Key(), s.config.DimensionTTL, s.logger,
	)

	frames, err := s.normalizer.Normalize(ctx, raw, resolver)
	if err != nil {
		return nil, err
	}

	sess, err := player.NewSession(id, frames,
		player.WithPolicy(s.config.Policy),
		player.WithScheduler(s.config.Scheduler),
		player.WithClock(s.config.Now),
		player.WithReviewHook(func(res models.ScoreResult) { s.onCompleted(id, res) }),
	)
	if err != nil {
		return nil, apperrors.NewDataFormatError("frames cannot form a session", err)
	}

	s.mu.Lock()
	s.sessions[id] = &sessionEntry{session: sess, source: req.Source, frameSet: req.FrameSet, assets: src.Assets()}
	s.mu.Unlock()

	s.publish(events.NewSessionEvent(events.EventSessionStarted, id, events.SessionStartedEvent{
		Source:     req.Source,
		FrameSet:   req.FrameSet,
		FrameCount: len(frames),
		StartedAt:  sess.StartedAt(),
	}))

	out := sess.Snapshot()
	return &out, nil
}

func (s *sessionService) sourceFor(req *StartRequest) (loader.Source, error) {
	switch req.Source {
	case models.SourceDirectory:
		if s.defaultDir == nil {
			return nil, fmt.Errorf("%w: no asset directory configured", ErrUnavailable)
		}
		return s.defaultDir, nil
	case models.SourceZip:
		if len(req.Archive) == 0 {
			return nil, fmt.Errorf("%w: zip source needs an uploaded archive", ErrBadRequest)
		}
		return loader.NewZipSource(req.Archive)
	case models.SourceFrameSet:
		if s.frameSets == nil || s.defaultDir == nil {
			return nil, fmt.Errorf("%w: frame sets need a database and an asset directory", ErrUnavailable)
		}
		return loader.NewFrameSetSource(req.FrameSet, s.frameSets, s.defaultDir), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, req.Source)
	}
}

func (s *sessionService) End(ctx context.Context, id string) error {
	if !s.remove(id, events.EndReasonClosed) {
		return ErrSessionNotFound
	}
	return nil
}

func (s *sessionService) remove(id string, reason events.EndReason) bool {
	s.mu.Lock()
	e, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return false
	}

	e.session.Close()
	s.publish(events.NewSessionEvent(events.EventSessionEnded, id, events.SessionEndedEvent{
		Reason:    reason,
		Completed: e.session.Mode() == models.ModeReviewing,
		EndedAt:   s.config.Now(),
	}))
	s.logger.Info("Session ended", "session_id", id, "reason", reason)
	return true
}

func (s *sessionService) Sweep(ctx context.Context) int {
	if s.config.IdleTTL <= 0 {
		return 0
	}
	cutoff := s.config.Now().Add(-s.config.IdleTTL)

	s.mu.RLock()
	var idle []string
	for id, e := range s.sessions {
		if e.session.LastActivity().Before(cutoff) {
			idle = append(idle, id)
		}
	}
	s.mu.RUnlock()

	n := 0
	for _, id := range idle {
		if s.remove(id, events.EndReasonExpired) {
			n++
		}
	}
	return n
}

// RunJanitor sweeps idle sessions until ctx is done or Close is called
func (s *sessionService) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.janitorClose:
			return
		case <-ticker.C:
			if n := s.sweepRecovering(ctx); n > 0 {
				s.logger.Info("Expired idle sessions", "count", n)
			}
		}
	}
}

// sweepRecovering keeps the janitor alive when disposing a session panics
func (s *sessionService) sweepRecovering(ctx context.Context) (n int) {
	defer func() {
		if r := recover(); r != nil {
			s.opLogger.LogRecovery(ctx, "sweep_sessions", r, debug.Stack())
		}
	}()
	return s.Sweep(ctx)
}

func (s *sessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close ends every session and stops the janitor
func (s *sessionService) Close() {
	s.janitorOnce.Do(func() { close(s.janitorClose) })

	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	for _, id := range ids {
		s.remove(id, events.EndReasonClosed)
	}
}

// ===== NAVIGATION & INTERACTION =====

func (s *sessionService) Get(ctx context.Context, id string) (*models.SessionSnapshot, error) {
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	snap := e.session.Snapshot()
	return &snap, nil
}

func (s *sessionService) Next(ctx context.Context, id string) (*ActionResult, error) {
	return s.act(id, func(p *player.Session) bool { return p.GoNext() })
}

func (s *sessionService) Prev(ctx context.Context, id string) (*ActionResult, error) {
	return s.act(id, func(p *player.Session) bool { return p.GoPrev() })
}

func (s *sessionService) Input(ctx context.Context, id, frameID, regionID, text string) (*ActionResult, error) {
	return s.act(id, func(p *player.Session) bool { return p.RecordInputText(frameID, regionID, text) })
}

func (s *sessionService) ClickHotspot(ctx context.Context, id, frameID, regionID string) (*ActionResult, error) {
	return s.act(id, func(p *player.Session) bool { return p.RecordHotspotClick(frameID, regionID) })
}

func (s *sessionService) Mistake(ctx context.Context, id, frameID string) (*ActionResult, error) {
	return s.act(id, func(p *player.Session) bool { return p.RecordBackgroundMistake(frameID) })
}

func (s *sessionService) act(id string, fn func(*player.Session) bool) (*ActionResult, error) {
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	applied := fn(e.session)
	return &ActionResult{Applied: applied, Session: e.session.Snapshot()}, nil
}

// ===== RESULTS =====

func (s *sessionService) Result(ctx context.Context, id string) (*models.ScoreResult, error) {
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	res, ok := e.session.Result()
	if !ok {
		return nil, notReviewing(id, e.session)
	}
	return &res, nil
}

func (s *sessionService) Review(ctx context.Context, id string) (*SessionReview, error) {
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	frames, ok := e.session.Review()
	if !ok {
		return nil, notReviewing(id, e.session)
	}
	res, _ := e.session.Result()
	return &SessionReview{
		SessionID: id,
		Result:    res,
		Percent:   res.Percentage(),
		Frames:    frames,
	}, nil
}

func (s *sessionService) Assets(ctx context.Context, id string) (fs.FS, error) {
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	return e.assets, nil
}

// ===== HELPERS =====

func notReviewing(id string, p *player.Session) error {
	return fmt.Errorf("%w: %w", ErrNotReviewing, NewBusinessRuleError(
		"review_required",
		"results are available once the last frame has been passed",
		map[string]interface{}{
			"session_id":  id,
			"frame_index": p.Index(),
			"frame_count": p.FrameCount(),
		},
	))
}

func (s *sessionService) entry(id string) (*sessionEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return e, nil
}

func (s *sessionService) onCompleted(id string, res models.ScoreResult) {
	s.logger.Info("Session completed",
		"session_id", id,
		"score", res.Scored,
		"total", res.Total,
		"mistake_frames", res.MistakeFrameCount)

	s.publish(events.NewSessionEvent(events.EventSessionCompleted, id, events.SessionCompletedEvent{
		Score:             res.Scored,
		TotalPossible:     res.Total,
		Percentage:        res.Percentage(),
		MistakeFrameCount: res.MistakeFrameCount,
		CompletedAt:       s.config.Now(),
	}))
}

// publish never fails the caller; events are informational
func (s *sessionService) publish(event *events.SessionEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSessionEvent(context.Background(), event); err != nil {
		s.logger.Warn("Failed to publish session event",
			"event_type", event.Type,
			"session_id", event.SessionID,
			"error", err)
	}
}
