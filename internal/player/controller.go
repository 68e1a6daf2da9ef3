package player

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/SAP-F-2025/frame-player/internal/models"
)

var (
	ErrNoFrames          = errors.New("session needs at least one frame")
	ErrDuplicateRegionID = errors.New("duplicate frame or region id")
)

// Policy controls the UI pacing around hotspot clicks and background mistakes.
type Policy struct {
	// AutoAdvance moves to the next frame once a hotspot click is confirmed.
	AutoAdvance bool
	// AdvanceDelay is how long the just-clicked indicator stays before advancing.
	AdvanceDelay time.Duration
	// FlashDuration is how long the mistake indicator stays on.
	FlashDuration time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		AutoAdvance:   true,
		AdvanceDelay:  200 * time.Millisecond,
		FlashDuration: 700 * time.Millisecond,
	}
}

type Option func(*Session)

func WithPolicy(p Policy) Option { return func(s *Session) { s.policy = p } }

func WithScheduler(sched Scheduler) Option { return func(s *Session) { s.sched = sched } }

func WithClock(now func() time.Time) Option { return func(s *Session) { s.now = now } }

// WithReviewHook registers fn to be called, outside the session lock, once the
// session enters review mode.
func WithReviewHook(fn func(models.ScoreResult)) Option {
	return func(s *Session) { s.onReview = fn }
}

// Session is the navigation and interaction controller of one assessment run.
// It owns the answer store and mistake record; every mutation goes through it.
type Session struct {
	mu sync.Mutex

	id         string
	frames     []models.Frame
	frameIndex map[string]int

	answers  models.AnswerStore
	mistakes models.MistakeRecord

	index  int
	mode   models.SessionMode
	result *models.ScoreResult

	justClicked  string
	mistakeFlash bool
	advanceTimer Timer
	advanceGen   uint64
	flashTimer   Timer
	flashGen     uint64

	policy   Policy
	sched    Scheduler
	now      func() time.Time
	onReview func(models.ScoreResult)

	startedAt    time.Time
	lastActivity time.Time
	closed       bool
}

func NewSession(id string, frames []models.Frame, opts ...Option) (*Session, error) {
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}

	s := &Session{
		id:         id,
		frames:     make([]models.Frame, len(frames)),
		frameIndex: make(map[string]int, len(frames)),
		answers:    make(models.AnswerStore, len(frames)),
		mistakes:   make(models.MistakeRecord),
		mode:       models.ModeActive,
		policy:     DefaultPolicy(),
		sched:      RealScheduler(),
		now:        time.Now,
	}
	for _, o := range opts {
		o(s)
	}

	seen := make(map[string]bool)
	for i, f := range frames {
		if f.ID == "" || seen[f.ID] {
			return nil, fmt.Errorf("%w: frame %d", ErrDuplicateRegionID, i)
		}
		seen[f.ID] = true
		for _, r := range f.Regions {
			if r.ID == "" || seen[r.ID] {
				return nil, fmt.Errorf("%w: region %q on frame %d", ErrDuplicateRegionID, r.ID, i)
			}
			seen[r.ID] = true
		}

		s.frames[i] = f.Clone()
		s.frameIndex[f.ID] = i
		s.answers[f.ID] = models.NewAnswerRecord()
	}

	s.startedAt = s.now()
	s.lastActivity = s.startedAt
	return s, nil
}

func (s *Session) ID() string { return s.id }

// ===== NAVIGATION =====

// GoNext advances one frame. On the last frame of an active session it enters
// review mode instead, which freezes answers and fixes the score.
func (s *Session) GoNext() bool {
	s.mu.Lock()
	moved, hook := s.goNextLocked()
	s.touch()
	s.mu.Unlock()

	hook()
	return moved
}

// GoPrev moves back one frame in either mode. No-op on the first frame.
func (s *Session) GoPrev() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.closed || s.index == 0 {
		return false
	}
	s.changeFrame(s.index - 1)
	return true
}

func (s *Session) goNextLocked() (bool, func()) {
	noop := func() {}
	if s.closed {
		return false, noop
	}

	if s.index < len(s.frames)-1 {
		s.changeFrame(s.index + 1)
		return true, noop
	}
	if s.mode == models.ModeReviewing {
		return false, noop
	}

	s.mode = models.ModeReviewing
	s.clearTransients()
	res := Score(s.frames, s.answers, s.mistakes)
	s.result = &res

	if s.onReview == nil {
		return true, noop
	}
	hook := s.onReview
	return true, func() { hook(res) }
}

func (s *Session) changeFrame(i int) {
	s.index = i
	s.clearTransients()
}

func (s *Session) clearTransients() {
	if s.advanceTimer != nil {
		s.advanceTimer.Stop()
		s.advanceTimer = nil
	}
	if s.flashTimer != nil {
		s.flashTimer.Stop()
		s.flashTimer = nil
	}
	s.advanceGen++
	s.flashGen++
	s.justClicked = ""
	s.mistakeFlash = false
}

// ===== INTERACTION =====

// interactive returns the current frame if frameID names it and the session still
// accepts answers. Events for any other frame are stale and dropped.
func (s *Session) interactive(frameID string) (models.Frame, bool) {
	if s.closed || s.mode != models.ModeActive {
		return models.Frame{}, false
	}
	f := s.frames[s.index]
	if f.ID != frameID {
		return models.Frame{}, false
	}
	return f, true
}

// RecordInputText overwrites the text typed into an input region.
func (s *Session) RecordInputText(frameID, regionID, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	f, ok := s.interactive(frameID)
	if !ok {
		return false
	}
	r, ok := f.Region(regionID)
	if !ok || !r.IsInput() {
		return false
	}

	s.answers[frameID].Inputs[regionID] = text
	return true
}

// RecordHotspotClick marks a hotspot as clicked, flags it as just clicked and, under
// the auto-advance policy, moves to the next frame after AdvanceDelay.
func (s *Session) RecordHotspotClick(frameID, regionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	f, ok := s.interactive(frameID)
	if !ok {
		return false
	}
	r, ok := f.Region(regionID)
	if !ok || !r.IsHotspot() {
		return false
	}

	s.answers[frameID].Hotspots[regionID] = true
	s.justClicked = regionID

	// a second click replaces the pending advance instead of stacking another one
	if s.advanceTimer != nil {
		s.advanceTimer.Stop()
	}
	s.advanceGen++
	gen := s.advanceGen
	s.advanceTimer = s.sched.AfterFunc(s.policy.AdvanceDelay, func() { s.confirmHotspot(gen) })
	return true
}

func (s *Session) confirmHotspot(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.advanceGen {
		s.mu.Unlock()
		return
	}
	s.advanceTimer = nil
	s.justClicked = ""

	hook := func() {}
	if s.policy.AutoAdvance {
		_, hook = s.goNextLocked()
	}
	s.mu.Unlock()

	hook()
}

// RecordBackgroundMistake marks the current frame as having a stray click, which
// voids all of its hotspots when scoring. Frames without hotspots are never marked.
func (s *Session) RecordBackgroundMistake(frameID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	f, ok := s.interactive(frameID)
	if !ok || !f.HasHotspots() {
		return false
	}

	s.mistakes[frameID] = true
	s.mistakeFlash = true

	if s.flashTimer != nil {
		s.flashTimer.Stop()
	}
	s.flashGen++
	gen := s.flashGen
	s.flashTimer = s.sched.AfterFunc(s.policy.FlashDuration, func() { s.endFlash(gen) })
	return true
}

func (s *Session) endFlash(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.flashGen {
		return
	}
	s.flashTimer = nil
	s.mistakeFlash = false
}

// ===== READ ACCESS =====

func (s *Session) Snapshot() models.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.frames[s.index]
	shown := f.Clone()
	if s.mode == models.ModeActive {
		shown = f.WithoutAnswers()
	}
	snap := models.SessionSnapshot{
		SessionID:           s.id,
		Mode:                s.mode,
		FrameIndex:          s.index,
		FrameCount:          len(s.frames),
		IsLastFrame:         s.index == len(s.frames)-1,
		Frame:               shown,
		Answers:             s.answers.Record(f.ID).Clone(),
		MistakeOnFrame:      s.mistakes.Marked(f.ID),
		JustClickedRegionID: s.justClicked,
		MistakeFlash:        s.mistakeFlash,
		StartedAt:           s.startedAt,
		LastActivityAt:      s.lastActivity,
	}
	if s.result != nil {
		res := *s.result
		snap.Result = &res
	}
	return snap
}

func (s *Session) Mode() models.SessionMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

func (s *Session) FrameCount() int {
	return len(s.frames)
}

// Frames returns a copy of the frame sequence.
func (s *Session) Frames() []models.Frame {
	out := make([]models.Frame, len(s.frames))
	for i, f := range s.frames {
		out[i] = f.Clone()
	}
	return out
}

// Answers returns a copy of the whole answer store.
func (s *Session) Answers() models.AnswerStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers.Clone()
}

func (s *Session) Mistakes() models.MistakeRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mistakes.Clone()
}

// Result returns the score fixed when the session entered review mode.
func (s *Session) Result() (models.ScoreResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return models.ScoreResult{}, false
	}
	return *s.result, true
}

// Review returns the per-region breakdown; only available in review mode.
func (s *Session) Review() ([]models.FrameReview, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != models.ModeReviewing {
		return nil, false
	}
	return Review(s.frames, s.answers, s.mistakes), true
}

func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// Close cancels pending timers. A closed session ignores every further event.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearTransients()
	s.closed = true
}

func (s *Session) touch() {
	s.lastActivity = s.now()
}
