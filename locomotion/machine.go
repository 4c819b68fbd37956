package locomotion

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Machine runs one character's phase transitions. The phase registry is
// populated explicitly and idempotently at construction; entering an
// unregistered phase is impossible by construction.
type Machine struct {
	ctx *Context
	log zerolog.Logger

	registry map[string]Phase
	order    []Phase

	current   Phase
	enteredAt time.Duration
	clock     time.Duration
}

// NewMachine builds a machine over the default phase set, starting in idle.
func NewMachine(ctx *Context, logger zerolog.Logger) *Machine {
	m := &Machine{
		ctx:      ctx,
		log:      logger,
		registry: make(map[string]Phase),
	}
	for _, p := range defaultPhases() {
		m.register(p)
	}
	m.current = m.registry[PhaseIdle]
	m.wireTimeInPhase()
	return m
}

// register adds a phase once; repeated registration of the same name is a
// no-op so startup wiring stays idempotent.
func (m *Machine) register(p Phase) {
	if p == nil {
		return
	}
	if _, ok := m.registry[p.Name()]; ok {
		return
	}
	m.registry[p.Name()] = p
	m.order = append(m.order, p)
}

func (m *Machine) wireTimeInPhase() {
	if m.ctx == nil {
		return
	}
	m.ctx.TimeInPhase = func() time.Duration {
		return m.clock - m.enteredAt
	}
}

// Current returns the active phase.
func (m *Machine) Current() Phase {
	if m == nil {
		return nil
	}
	return m.current
}

// PhaseName returns the active phase's name, for consumers like animation.
func (m *Machine) PhaseName() string {
	if m == nil || m.current == nil {
		return ""
	}
	return m.current.Name()
}

// TimeInPhase is the simulated time spent in the active phase.
func (m *Machine) TimeInPhase() time.Duration {
	if m == nil {
		return 0
	}
	return m.clock - m.enteredAt
}

// Update executes the active phase, then runs one decision pass: candidates
// are evaluated in registration order, restricted to the current phase's
// allowed-next set, and at most one transition is taken per tick. A panic in
// any hook or predicate is contained here; the current phase is retained and
// the pass retried next tick.
func (m *Machine) Update(dt float64) {
	if m == nil || m.current == nil || dt <= 0 {
		return
	}
	m.clock += time.Duration(dt * float64(time.Second))

	m.safely("execute", func() {
		m.current.Execute(m.ctx, dt)
	})
	m.safely("decide", m.decide)
}

func (m *Machine) decide() {
	if !m.current.CanExit(m.ctx) {
		return
	}

	allowed := make(map[string]bool, 4)
	for _, name := range m.current.AllowedNext() {
		allowed[name] = true
	}

	for _, candidate := range m.order {
		if candidate == m.current {
			continue
		}
		if !allowed[candidate.Name()] {
			continue
		}
		if !candidate.ShouldEnter(m.ctx) {
			continue
		}
		m.transition(candidate)
		return
	}
}

func (m *Machine) transition(next Phase) {
	m.current.Exit(m.ctx)
	next.Enter(m.ctx)
	m.log.Debug().
		Str("from", m.current.Name()).
		Str("to", next.Name()).
		Dur("after", m.clock-m.enteredAt).
		Msg("locomotion: phase transition")
	m.current = next
	m.enteredAt = m.clock
}

// Force switches to a named phase immediately, bypassing the decision pass.
// It is how jump() enters the jumping phase. The target must be registered;
// forcing the current phase is a no-op (no self-transitions).
func (m *Machine) Force(name string) error {
	if m == nil || m.current == nil {
		return fmt.Errorf("locomotion: machine not initialized")
	}
	next, ok := m.registry[name]
	if !ok {
		return fmt.Errorf("locomotion: phase %q not registered", name)
	}
	if next == m.current {
		return nil
	}
	m.transition(next)
	return nil
}

// safely contains a panicking phase hook: the failure is logged, the current
// phase retained, and the simulation carries on.
func (m *Machine) safely(stage string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error().
				Str("stage", stage).
				Str("phase", m.PhaseName()).
				Interface("panic", r).
				Msg("locomotion: state evaluation failed, retaining phase")
		}
	}()
	fn()
}
