package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gdugdh24/yuelao-backend/internal/domain"
	"github.com/gdugdh24/yuelao-backend/internal/usecase/completeness"
)

// Snapshot is a read-only view of one session.
type Snapshot struct {
	ID               uuid.UUID               `json:"id"`
	State            domain.ViewState        `json:"state"`
	Completeness     int                     `json:"completeness"`
	Error            string                  `json:"error,omitempty"`
	Profile          domain.Profile          `json:"profile"`
	RelationshipGoal domain.RelationshipGoal `json:"relationship_goal,omitempty"`
	Result           *domain.AnalysisResult  `json:"result"`
	Image            *string                 `json:"image"`
}

// session is guarded by mu. Every field except id is mutated only under it.
type session struct {
	mu sync.Mutex

	id       uuid.UUID
	state    domain.ViewState
	profile  domain.Profile
	goal     domain.RelationshipGoal
	errMsg   string
	result   *domain.AnalysisResult
	image    *domain.MatchImage
	lastSeen time.Time

	// epoch identifies the current run; a write back from any other epoch
	// is stale and dropped.
	epoch  uint64
	cancel context.CancelFunc
	done   chan struct{}
}

func newSession(id uuid.UUID, state domain.ViewState, now time.Time) *session {
	return &session{
		id:       id,
		state:    state,
		profile:  domain.NewProfile(),
		lastSeen: now,
	}
}

func (s *session) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:               s.id,
		State:            s.state,
		Completeness:     completeness.Score(s.profile),
		Error:            s.errMsg,
		Profile:          s.profile,
		RelationshipGoal: s.goal,
		Result:           s.result,
	}
	if s.image != nil {
		uri := s.image.DataURI()
		snap.Image = &uri
	}
	return snap
}

// beginRunLocked enters Analyzing and returns the epoch of the new run.
func (s *session) beginRunLocked(cancel context.CancelFunc) uint64 {
	s.epoch++
	s.state = domain.ViewAnalyzing
	s.errMsg = ""
	s.result = nil
	s.image = nil
	s.cancel = cancel
	s.done = make(chan struct{})
	return s.epoch
}

// endRunLocked releases waiters and the run context. It does not pick the
// next state.
func (s *session) endRunLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
}

// abandonLocked detaches the session from any in-flight run.
func (s *session) abandonLocked() {
	s.epoch++
	s.endRunLocked()
}

func (s *session) current(epoch uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch == epoch && s.state == domain.ViewAnalyzing
}

// settle applies fn and leaves Analyzing if epoch is still the current run.
func (s *session) settle(epoch uint64, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch || s.state != domain.ViewAnalyzing {
		return false
	}
	fn()
	s.endRunLocked()
	return true
}
