package simulator

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heliotherm-dev/heliotherm/internal/solar"
)

// Snapshot is the externally visible state of the simulator: the parameters
// of the latest accepted run plus its aggregates and identity.
type Snapshot struct {
	RunID     string
	UpdatedAt time.Time
	Params    solar.Params
	Summary   solar.Summary
}

// Simulator wraps the pure simulation core in a mutable device. It holds the
// current parameter set and the result of the latest run. Writes validate a
// copy, recompute under the lock and swap atomically, so readers always see
// a complete run and the newest accepted write wins; a rejected write leaves
// the previous run untouched.
type Simulator struct {
	mu     sync.RWMutex
	params solar.Params
	result solar.Result
	runID  string
	at     time.Time
}

func New(p solar.Params) (*Simulator, error) {
	s := &Simulator{}
	if err := s.recompute(p); err != nil {
		return nil, err
	}
	return s, nil
}

// recompute runs the full simulation for p and replaces the current run.
// Callers other than New hold mu.
func (s *Simulator) recompute(p solar.Params) error {
	res, err := solar.Run(p)
	if err != nil {
		return err
	}
	s.params = p
	s.result = res
	s.runID = uuid.NewString()
	s.at = time.Now()
	return nil
}

func (s *Simulator) Get() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		RunID:     s.runID,
		UpdatedAt: s.at,
		Params:    s.params,
		Summary:   s.result.Summary,
	}
}

func (s *Simulator) Params() solar.Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params
}

func (s *Simulator) Result() solar.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// SetParam updates one named parameter and re-runs the simulation.
func (s *Simulator) SetParam(name string, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.params
	if err := next.Set(name, value); err != nil {
		return err
	}
	return s.recompute(next)
}

// Apply replaces the whole parameter set and re-runs the simulation.
func (s *Simulator) Apply(p solar.Params) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recompute(p)
}
