// Package cycle tracks Red-Green-Blue TDD iterations as a finite
// state machine, one cycle per tracked unit. Persistence goes through
// an explicitly owned Store handle rather than process-wide state.
package cycle

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/unbound-force/tddguard/internal/model"
)

// Sentinel errors.
var (
	// ErrCycleActive means a unit already has an unarchived cycle.
	ErrCycleActive = errors.New("cycle already active for unit")

	// ErrUnknownCycle means the cycle ID is not tracked.
	ErrUnknownCycle = errors.New("unknown cycle")

	// ErrCycleArchived means the cycle was already completed.
	ErrCycleArchived = errors.New("cycle already archived")
)

// CycleStateError reports a transition request along a forbidden
// edge. The cycle state is unchanged when this is returned.
type CycleStateError struct {
	CycleID string
	From    model.Phase
	To      model.Phase
}

func (e *CycleStateError) Error() string {
	return fmt.Sprintf("cycle %s: invalid transition %s -> %s", e.CycleID, e.From, e.To)
}

// Store persists cycles for an external collaborator. Save overwrites
// by cycle ID; Load returns the most recent cycle for a unit, with ok
// false when none exists.
type Store interface {
	Save(cycle model.TDDCycle) error
	Load(unitID string) (model.TDDCycle, bool, error)
}

// MemoryStore is the in-memory Store reference implementation.
type MemoryStore struct {
	mu     sync.RWMutex
	byUnit map[string]model.TDDCycle
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byUnit: make(map[string]model.TDDCycle)}
}

// Save stores the cycle as the unit's most recent.
func (s *MemoryStore) Save(cycle model.TDDCycle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byUnit[cycle.UnitID] = cycle
	return nil
}

// Load returns the unit's most recent cycle.
func (s *MemoryStore) Load(unitID string) (model.TDDCycle, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byUnit[unitID]
	return c, ok, nil
}

// allowedEdges is the transition table. Green back to Red is
// permitted but flagged, since it skips the refactor step.
var allowedEdges = map[model.Phase][]model.Phase{
	model.PhaseRed:   {model.PhaseGreen},
	model.PhaseGreen: {model.PhaseBlue, model.PhaseRed},
	model.PhaseBlue:  {model.PhaseRed},
}

func edgeAllowed(from, to model.Phase) bool {
	for _, p := range allowedEdges[from] {
		if p == to {
			return true
		}
	}
	return false
}

// entry pairs a tracked cycle with its own lock, so concurrent
// updates to different cycles never contend.
type entry struct {
	mu    sync.Mutex
	cycle model.TDDCycle
}

// Tracker owns the per-unit cycle state machines.
type Tracker struct {
	store Store
	now   func() time.Time

	mu      sync.Mutex
	entries map[string]*entry // by cycle ID
	active  map[string]string // unit ID -> active cycle ID

	vmu        sync.Mutex
	violations []model.Violation
}

// NewTracker returns a tracker persisting through the given store.
func NewTracker(store Store) *Tracker {
	return &Tracker{
		store:   store,
		now:     time.Now,
		entries: make(map[string]*entry),
		active:  make(map[string]string),
	}
}

// StartCycle creates a new cycle for the unit in the Red phase and
// returns its ID. Fails with ErrCycleActive while the unit already
// has an unarchived cycle, in memory or in the store.
func (t *Tracker) StartCycle(unitID string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, busy := t.active[unitID]; busy {
		return "", fmt.Errorf("unit %s: %w", unitID, ErrCycleActive)
	}
	if prev, ok, err := t.store.Load(unitID); err != nil {
		return "", fmt.Errorf("load cycle for %s: %w", unitID, err)
	} else if ok && !prev.Archived {
		// Resume the persisted cycle instead of refusing outright.
		e := &entry{cycle: prev}
		t.entries[prev.ID] = e
		t.active[unitID] = prev.ID
		return "", fmt.Errorf("unit %s: %w", unitID, ErrCycleActive)
	}

	c := model.TDDCycle{
		ID:        "cycle-" + uuid.New().String()[:8],
		UnitID:    unitID,
		Phase:     model.PhaseRed,
		StartedAt: t.now(),
	}
	if err := t.store.Save(c); err != nil {
		return "", fmt.Errorf("save cycle %s: %w", c.ID, err)
	}

	t.entries[c.ID] = &entry{cycle: c}
	t.active[unitID] = c.ID
	return c.ID, nil
}

// Transition moves a cycle along one edge, recording a timestamped
// PhaseTransition. A forbidden edge fails with CycleStateError, emits
// a skipped-red-phase violation, and leaves the cycle untouched. The
// permitted Green to Red shortcut emits a no-refactor-step violation.
func (t *Tracker) Transition(cycleID string, to model.Phase) error {
	e, err := t.lookup(cycleID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cycle.Archived {
		return fmt.Errorf("cycle %s: %w", cycleID, ErrCycleArchived)
	}

	from := e.cycle.Phase
	if !edgeAllowed(from, to) {
		t.record(model.NewViolation(model.SkippedRedPhase,
			e.cycle.UnitID,
			fmt.Sprintf("requested %s -> %s on cycle %s", from, to, cycleID)))
		return &CycleStateError{CycleID: cycleID, From: from, To: to}
	}

	if from == model.PhaseGreen && to == model.PhaseRed {
		t.record(model.NewViolation(model.NoRefactorStep,
			e.cycle.UnitID,
			fmt.Sprintf("cycle %s restarted without a refactor phase", cycleID)))
	}

	e.cycle.History = append(e.cycle.History, model.PhaseTransition{
		From: from,
		To:   to,
		At:   t.now(),
	})
	e.cycle.Phase = to

	if err := t.store.Save(e.cycle); err != nil {
		return fmt.Errorf("save cycle %s: %w", cycleID, err)
	}
	return nil
}

// CompleteCycle archives the cycle and computes its per-phase
// duration summary. The unit becomes free for a new cycle.
func (t *Tracker) CompleteCycle(cycleID string) (model.TDDCycle, error) {
	e, err := t.lookup(cycleID)
	if err != nil {
		return model.TDDCycle{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cycle.Archived {
		return model.TDDCycle{}, fmt.Errorf("cycle %s: %w", cycleID, ErrCycleArchived)
	}

	e.cycle.Archived = true
	e.cycle.Durations = phaseDurations(e.cycle, t.now())

	if err := t.store.Save(e.cycle); err != nil {
		return model.TDDCycle{}, fmt.Errorf("save cycle %s: %w", cycleID, err)
	}

	t.mu.Lock()
	delete(t.active, e.cycle.UnitID)
	t.mu.Unlock()

	return e.cycle, nil
}

// Snapshot returns the current state of a cycle.
func (t *Tracker) Snapshot(cycleID string) (model.TDDCycle, error) {
	e, err := t.lookup(cycleID)
	if err != nil {
		return model.TDDCycle{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cycle, nil
}

// ActiveCycle returns the unit's current unarchived cycle, if any.
func (t *Tracker) ActiveCycle(unitID string) (model.TDDCycle, bool) {
	t.mu.Lock()
	id, ok := t.active[unitID]
	var e *entry
	if ok {
		e = t.entries[id]
	}
	t.mu.Unlock()

	if e == nil {
		return model.TDDCycle{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cycle, true
}

// Violations drains the accumulated cycle-discipline violations.
func (t *Tracker) Violations() []model.Violation {
	t.vmu.Lock()
	defer t.vmu.Unlock()
	out := t.violations
	t.violations = nil
	return out
}

func (t *Tracker) lookup(cycleID string) (*entry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[cycleID]
	if !ok {
		return nil, fmt.Errorf("cycle %s: %w", cycleID, ErrUnknownCycle)
	}
	return e, nil
}

func (t *Tracker) record(v model.Violation) {
	t.vmu.Lock()
	defer t.vmu.Unlock()
	t.violations = append(t.violations, v)
}

// phaseDurations attributes wall time between transitions to the
// phase the cycle was in, closing the final open segment at "end".
func phaseDurations(c model.TDDCycle, end time.Time) model.PhaseDurations {
	d := make(model.PhaseDurations)

	prev := c.StartedAt
	phase := model.PhaseRed
	for _, tr := range c.History {
		d[tr.From] += tr.At.Sub(prev)
		prev = tr.At
		phase = tr.To
	}
	d[phase] += end.Sub(prev)
	return d
}
