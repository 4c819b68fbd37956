package locomotion

import "math"

// Phase names double as registry keys and transition-table entries.
const (
	PhaseIdle     = "idle"
	PhaseWalking  = "walking"
	PhaseJumping  = "jumping"
	PhaseAirborne = "airborne"
	PhaseLanding  = "landing"
)

// Phase singletons (avoid allocations on transitions).
var (
	phaseIdle     Phase = &idlePhase{}
	phaseWalking  Phase = &walkingPhase{}
	phaseJumping  Phase = &jumpingPhase{}
	phaseAirborne Phase = &airbornePhase{}
	phaseLanding  Phase = &landingPhase{}
)

type idlePhase struct{}

func (idlePhase) Name() string          { return PhaseIdle }
func (idlePhase) CanWalk() bool         { return true }
func (idlePhase) CanJump() bool         { return true }
func (idlePhase) AllowedNext() []string { return []string{PhaseWalking, PhaseAirborne} }
func (idlePhase) ShouldEnter(ctx *Context) bool {
	return ctx.directionZero() && math.Abs(ctx.verticalVelocity()) <= ctx.Epsilon
}
func (idlePhase) CanExit(*Context) bool     { return true }
func (idlePhase) Enter(*Context)            {}
func (idlePhase) Exit(*Context)             {}
func (idlePhase) Execute(*Context, float64) {}

type walkingPhase struct{}

func (walkingPhase) Name() string          { return PhaseWalking }
func (walkingPhase) CanWalk() bool         { return true }
func (walkingPhase) CanJump() bool         { return true }
func (walkingPhase) AllowedNext() []string { return []string{PhaseIdle, PhaseAirborne} }
func (walkingPhase) ShouldEnter(ctx *Context) bool {
	return !ctx.directionZero() && math.Abs(ctx.verticalVelocity()) <= ctx.Epsilon
}
func (walkingPhase) CanExit(*Context) bool     { return true }
func (walkingPhase) Enter(*Context)            {}
func (walkingPhase) Exit(*Context)             {}
func (walkingPhase) Execute(*Context, float64) {}

// jumpingPhase is entered explicitly through Machine.Force by jump(); its
// predicate exists for completeness but the decision pass never reaches it.
type jumpingPhase struct{}

func (jumpingPhase) Name() string          { return PhaseJumping }
func (jumpingPhase) CanWalk() bool         { return true } // directional control retained
func (jumpingPhase) CanJump() bool         { return false }
func (jumpingPhase) AllowedNext() []string { return []string{PhaseAirborne} }
func (jumpingPhase) ShouldEnter(ctx *Context) bool {
	return ctx.verticalVelocity() > ctx.Epsilon
}
func (jumpingPhase) CanExit(*Context) bool     { return true }
func (jumpingPhase) Enter(*Context)            {}
func (jumpingPhase) Exit(*Context)             {}
func (jumpingPhase) Execute(*Context, float64) {}

type airbornePhase struct{}

func (airbornePhase) Name() string          { return PhaseAirborne }
func (airbornePhase) CanWalk() bool         { return false }
func (airbornePhase) CanJump() bool         { return false }
func (airbornePhase) AllowedNext() []string { return []string{PhaseLanding} }

// ShouldEnter fires at the apex of a jump arc (inflection, or upward velocity
// decayed to the epsilon) and whenever the body is off the ground without
// rising. It deliberately does not fire while ascent is still strong, so a
// fresh jump stays in the jumping phase until its apex.
func (airbornePhase) ShouldEnter(ctx *Context) bool {
	if ctx.AtInflection != nil && ctx.AtInflection() {
		return true
	}
	return !ctx.grounded() && ctx.verticalVelocity() <= ctx.Epsilon
}
func (airbornePhase) CanExit(*Context) bool     { return true }
func (airbornePhase) Enter(*Context)            {}
func (airbornePhase) Exit(*Context)             {}
func (airbornePhase) Execute(*Context, float64) {}

type landingPhase struct{}

func (landingPhase) Name() string          { return PhaseLanding }
func (landingPhase) CanWalk() bool         { return true }
func (landingPhase) CanJump() bool         { return false }
func (landingPhase) AllowedNext() []string { return []string{PhaseIdle, PhaseWalking} }

// ShouldEnter requires both a ground signal and a minimum time spent
// airborne, so a jump impulse cannot immediately self-land on the surface it
// pushed off from.
func (landingPhase) ShouldEnter(ctx *Context) bool {
	if ctx.timeInPhase() < ctx.MinAirborne {
		return false
	}
	return ctx.grounded() || (ctx.LandedRecently != nil && ctx.LandedRecently(ctx.LandedWindow))
}

// CanExit holds the phase for a minimum dwell even when grounded is already
// true at entry, preventing flicker against idle on bumpy contact.
func (landingPhase) CanExit(ctx *Context) bool {
	return ctx.timeInPhase() >= ctx.LandingDwell
}
func (landingPhase) Enter(*Context)            {}
func (landingPhase) Exit(*Context)             {}
func (landingPhase) Execute(*Context, float64) {}

// defaultPhases is the static transition registry, in stable decision order.
func defaultPhases() []Phase {
	return []Phase{phaseIdle, phaseWalking, phaseJumping, phaseAirborne, phaseLanding}
}
