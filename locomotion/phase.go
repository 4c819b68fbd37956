// Package locomotion decides which movement phase a character is in (idle,
// walking, jumping, airborne, landing) and drives the physics-grounded body
// while in it.
package locomotion

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Phase is one mutually exclusive movement mode. Phases are stateless
// singletons; per-phase timing lives on the machine.
type Phase interface {
	Name() string

	// CanWalk gates directional input while the phase is active; CanJump
	// gates jump requests.
	CanWalk() bool
	CanJump() bool

	// AllowedNext lists the phases this one may legally hand off to.
	AllowedNext() []string

	// ShouldEnter is the entry predicate evaluated during the decision pass.
	ShouldEnter(ctx *Context) bool

	// CanExit lets a phase hold itself active for a minimum dwell.
	CanExit(ctx *Context) bool

	Enter(ctx *Context)
	Exit(ctx *Context)
	Execute(ctx *Context, dt float64)
}

// Context provides controlled access to the character body and input for a
// phase. It uses callbacks to keep phases decoupled from concrete types.
type Context struct {
	Direction      func() mgl64.Vec3
	Velocity       func() mgl64.Vec3
	IsGrounded     func() bool
	LandedRecently func(time.Duration) bool
	AtInflection   func() bool

	// TimeInPhase is the simulated time spent in the machine's current phase.
	TimeInPhase func() time.Duration

	// Epsilon is the single "vertical velocity is approximately zero"
	// threshold shared by every predicate.
	Epsilon float64

	LandedWindow time.Duration
	MinAirborne  time.Duration
	LandingDwell time.Duration
}

func (c *Context) directionZero() bool {
	if c == nil || c.Direction == nil {
		return true
	}
	d := c.Direction()
	return d.X() == 0 && d.Z() == 0
}

func (c *Context) verticalVelocity() float64 {
	if c == nil || c.Velocity == nil {
		return 0
	}
	return c.Velocity().Y()
}

func (c *Context) grounded() bool {
	return c != nil && c.IsGrounded != nil && c.IsGrounded()
}

func (c *Context) timeInPhase() time.Duration {
	if c == nil || c.TimeInPhase == nil {
		return 0
	}
	return c.TimeInPhase()
}
