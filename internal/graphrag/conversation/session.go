package conversation

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/entity"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/facts"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/types"
)

// ErrStaleTurn is returned when a turn is committed after a newer one began.
var ErrStaleTurn = types.NewError(types.STALE_TURN, "turn superseded by a newer question")

// Turn is one answered question.
type Turn struct {
	Seq        int           `json:"seq"`
	Question   string        `json:"question"`
	Recognized entity.Set    `json:"recognized"`
	Resolved   entity.Set    `json:"resolved"`
	Bundle     *facts.Bundle `json:"bundle,omitempty"`
	Answer     string        `json:"answer"`
	At         time.Time     `json:"at"`
}

// Ticket identifies the turn a caller started. Only the newest ticket may commit.
type Ticket struct {
	generation uint64
}

// Session is the conversation state of one user. It is never shared between
// users, but a reset may arrive while an earlier turn is still in flight.
type Session struct {
	ID string

	mu         sync.Mutex
	turns      []Turn
	context    entity.Set
	generation atomic.Uint64
}

// NewSession creates an empty session with a fresh identifier.
func NewSession() *Session {
	return &Session{ID: uuid.NewString()}
}

// Begin starts a new turn and marks every earlier ticket stale.
func (s *Session) Begin() Ticket {
	return Ticket{generation: s.generation.Add(1)}
}

// IsCurrent reports whether t belongs to the newest turn.
func (s *Session) IsCurrent(t Ticket) bool {
	return s.generation.Load() == t.generation
}

// Context returns the most recent entity context used to resolve anaphora.
func (s *Session) Context() entity.Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.context.Clone()
}

// Turns returns a copy of the turn log.
func (s *Session) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// LastTurns returns at most n of the most recent turns, oldest first.
func (s *Session) LastTurns(n int) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n <= 0 || len(s.turns) == 0 {
		return nil
	}
	start := len(s.turns) - n
	if start < 0 {
		start = 0
	}
	out := make([]Turn, len(s.turns)-start)
	copy(out, s.turns[start:])
	return out
}

// Commit appends a turn. Newly recognized entities replace the context
// wholesale; a turn that recognized nothing leaves the context as it was.
func (s *Session) Commit(t Ticket, turn Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.IsCurrent(t) {
		return ErrStaleTurn
	}

	turn.Seq = len(s.turns) + 1
	if turn.At.IsZero() {
		turn.At = time.Now()
	}
	s.turns = append(s.turns, turn)

	if !turn.Recognized.IsEmpty() {
		s.context = turn.Recognized.Clone()
	}
	return nil
}

// Reset clears every turn and the entity context, and invalidates in-flight turns.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation.Add(1)
	s.turns = nil
	s.context = entity.Set{}
}
