package locomotion

import (
	"errors"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/milk9111/locomotion/character"
	"github.com/milk9111/locomotion/input"
	"github.com/milk9111/locomotion/physics"
)

// Controller ties one character body, its phase machine, and an input source
// into the per-tick control flow: sample input, handle jump, step physics,
// drive the body, then decide the phase. All collaborators are injected at
// construction.
type Controller struct {
	world   *physics.World
	body    *character.Body
	machine *Machine
	source  input.Source
	log     zerolog.Logger

	timing Timing

	// lastDir is the raw, ungated command direction; phase predicates read
	// it even while the active phase suppresses walking.
	lastDir mgl64.Vec3
}

// Timing carries the phase-machine durations, usually derived from tuning.
type Timing struct {
	MinAirborne  time.Duration
	LandingDwell time.Duration
}

func NewController(world *physics.World, body *character.Body, source input.Source, timing Timing, logger zerolog.Logger) (*Controller, error) {
	if world == nil || body == nil {
		return nil, errors.New("locomotion: controller needs a world and a body")
	}
	if source == nil {
		source = &input.Static{}
	}

	c := &Controller{
		world:  world,
		body:   body,
		source: source,
		log:    logger,
		timing: timing,
	}

	ctx := &Context{
		Direction:      func() mgl64.Vec3 { return c.lastDir },
		Velocity:       body.Velocity,
		IsGrounded:     func() bool { return body.IsGrounded(0) },
		LandedRecently: body.HasLandedRecently,
		AtInflection:   body.AtPointOfInflection,
		Epsilon:        body.VelocityEpsilon(),
		LandedWindow:   body.LandedWindow(),
		MinAirborne:    timing.MinAirborne,
		LandingDwell:   timing.LandingDwell,
	}
	c.machine = NewMachine(ctx, logger)
	return c, nil
}

// Tick advances one simulation frame: input sampling, physics step, body
// update, phase decision. dt is in seconds.
func (c *Controller) Tick(dt float64) {
	if c == nil || dt <= 0 {
		return
	}

	cmd := c.source.Poll()
	c.lastDir = cmd.Direction

	if cmd.Jump && c.machine.Current().CanJump() &&
		(c.body.IsGrounded(0) || c.body.HasLandedRecently(c.body.LandedWindow())) {
		c.Jump()
	}

	dir := cmd.Direction
	if !c.machine.Current().CanWalk() {
		dir = mgl64.Vec3{}
	}

	c.world.Step(dt)
	c.body.UpdatePosition(dt, dir)
	c.machine.Update(dt)
}

// Jump launches the body and forces the jumping phase, regardless of the
// current grounded state. Gating (CanJump, grounded) is Tick's concern.
func (c *Controller) Jump() {
	if c == nil {
		return
	}
	c.body.Jump()
	if err := c.machine.Force(PhaseJumping); err != nil {
		c.log.Error().Err(err).Msg("locomotion: jump transition failed")
	}
}

// Machine exposes the phase machine, mainly for tests and debug overlays.
func (c *Controller) Machine() *Machine {
	if c == nil {
		return nil
	}
	return c.machine
}

// Body exposes the character body wrapper.
func (c *Controller) Body() *character.Body {
	if c == nil {
		return nil
	}
	return c.body
}

// Position, Velocity, PhaseName and Grounded are the read surface for
// camera, HUD, and animation consumers.

func (c *Controller) Position() mgl64.Vec3 {
	if c == nil {
		return mgl64.Vec3{}
	}
	return c.body.Position()
}

func (c *Controller) Velocity() mgl64.Vec3 {
	if c == nil {
		return mgl64.Vec3{}
	}
	return c.body.Velocity()
}

func (c *Controller) PhaseName() string {
	if c == nil {
		return ""
	}
	return c.machine.PhaseName()
}

func (c *Controller) Grounded() bool {
	if c == nil {
		return false
	}
	return c.body.IsGrounded(0)
}
