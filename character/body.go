package character

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/physics"
	"github.com/milk9111/locomotion/tuning"
)

// Config holds the movement constants for one character body.
type Config struct {
	MoveSpeed  float64
	JumpHeight float64

	CapsuleRadius     float64
	CapsuleHalfLength float64
	Mass              float64
	LinearDamping     float64

	MoveRampAccel float64
	GroundDamping float64

	ProbeInterval time.Duration
	ProbeDistance float64

	VelocityEpsilon float64
	StrongFallSpeed float64

	LandedWindow time.Duration

	StabilizeHorizontal float64
	StabilizeVertical   float64
}

// ConfigFrom maps a tuning spec onto a body config.
func ConfigFrom(spec tuning.Spec) Config {
	return Config{
		MoveSpeed:           spec.MoveSpeed,
		JumpHeight:          spec.JumpHeight,
		CapsuleRadius:       spec.CapsuleRadius,
		CapsuleHalfLength:   spec.CapsuleHalfLength,
		Mass:                spec.Mass,
		LinearDamping:       spec.LinearDamping,
		MoveRampAccel:       spec.MoveRampAccel,
		GroundDamping:       spec.GroundDamping,
		ProbeInterval:       durationMS(spec.GroundProbeIntervalMS),
		ProbeDistance:       spec.GroundProbeDistance,
		VelocityEpsilon:     spec.VelocityEpsilon,
		StrongFallSpeed:     spec.StrongFallSpeed,
		LandedWindow:        durationMS(spec.LandedRecentlyMS),
		StabilizeHorizontal: spec.StabilizeHorizontal,
		StabilizeVertical:   spec.StabilizeVertical,
	}
}

func durationMS(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

// Body wraps one capsule rigid body and exposes a minimal, safe movement API
// on top of it. All timing is driven by the simulated clock advanced through
// UpdatePosition, so behavior is independent of wall-clock jitter.
type Body struct {
	world *physics.World
	body  *physics.Body
	cfg   Config
	log   zerolog.Logger

	clock     time.Duration
	lastProbe time.Duration

	grounded    bool
	lastGround  time.Duration // simulated timestamp of last confirmed contact
	hasContact  bool          // lastGround is only meaningful when true
	prevVertVel float64
	inflection  bool

	accel     mgl64.Vec3
	destroyed bool
}

// NewBody spawns a capsule body into the world at the given position.
func NewBody(world *physics.World, cfg Config, spawn mgl64.Vec3, logger zerolog.Logger) (*Body, error) {
	if world == nil {
		return nil, errors.New("character: nil physics world")
	}
	if cfg.MoveSpeed <= 0 || cfg.JumpHeight <= 0 || cfg.CapsuleRadius <= 0 || cfg.CapsuleHalfLength <= 0 {
		return nil, fmt.Errorf("character: invalid config: move=%v jump=%v radius=%v half=%v",
			cfg.MoveSpeed, cfg.JumpHeight, cfg.CapsuleRadius, cfg.CapsuleHalfLength)
	}
	if cfg.Mass <= 0 {
		cfg.Mass = 1
	}
	if cfg.VelocityEpsilon <= 0 {
		cfg.VelocityEpsilon = 0.05
	}

	rb := world.AddBody(physics.BodyDef{
		Position:      spawn,
		Mass:          cfg.Mass,
		Radius:        cfg.CapsuleRadius,
		HalfLength:    cfg.CapsuleHalfLength,
		LinearDamping: cfg.LinearDamping,
	})
	return &Body{
		world: world,
		body:  rb,
		cfg:   cfg,
		log:   logger,
		// Negative sentinel so the very first update probes immediately.
		lastProbe: -cfg.ProbeInterval,
	}, nil
}

// Retune replaces the movement constants. The capsule shape and mass of the
// live rigid body are kept; those require a respawn.
func (b *Body) Retune(cfg Config) {
	if b == nil {
		return
	}
	cfg.CapsuleRadius = b.cfg.CapsuleRadius
	cfg.CapsuleHalfLength = b.cfg.CapsuleHalfLength
	cfg.Mass = b.cfg.Mass
	b.cfg = cfg
}

// Destroy removes the rigid body from the simulation. The wrapper no-ops
// afterwards.
func (b *Body) Destroy() {
	if b == nil || b.destroyed {
		return
	}
	b.world.RemoveBody(b.body)
	b.destroyed = true
}

func (b *Body) ready() bool {
	return b != nil && !b.destroyed && b.body != nil && b.world != nil
}

// UpdatePosition applies one tick of movement control: horizontal velocity
// from the input direction (vertical preserved), damping when idle, upright
// enforcement, and throttled ground detection. Call it after the physics step.
func (b *Body) UpdatePosition(dt float64, dir mgl64.Vec3) {
	if !b.ready() || dt <= 0 || !common.Finite(dt) {
		return
	}
	b.clock += time.Duration(dt * float64(time.Second))

	vel := b.body.Velocity()
	if !finite(vel) {
		b.log.Error().Msg("character: non-finite velocity read back, failing closed")
		b.body.SetVelocity(mgl64.Vec3{})
		b.prevVertVel = 0
		b.inflection = false
		return
	}

	// Latch the apex crossing for this tick: vertical velocity fell from
	// above the epsilon to at-or-below it since the previous update.
	b.inflection = b.prevVertVel > b.cfg.VelocityEpsilon && vel.Y() <= b.cfg.VelocityEpsilon

	horizontal := mgl64.Vec3{dir.X(), 0, dir.Z()}
	if !finite(horizontal) {
		b.log.Warn().Msg("character: non-finite input direction ignored")
		horizontal = mgl64.Vec3{}
	}

	if mag := horizontal.Len(); mag > 1e-6 {
		want := horizontal.Mul(b.cfg.MoveSpeed / mag)

		// Supplemental ramp force while below target speed. Direct velocity
		// control below keeps the cap authoritative either way.
		speed := math.Hypot(vel.X(), vel.Z())
		if b.cfg.MoveRampAccel > 0 && speed < b.cfg.MoveSpeed {
			scale := 1 - speed/b.cfg.MoveSpeed
			b.body.ApplyForce(want.Mul(b.cfg.MoveRampAccel * b.cfg.Mass * scale / b.cfg.MoveSpeed))
		}

		vel[0] = want.X()
		vel[2] = want.Z()
	} else {
		// No input: damp toward rest instead of stopping instantly.
		factor := common.Clamp(1-b.cfg.GroundDamping*dt, 0, 1)
		vel[0] *= factor
		vel[2] *= factor
		if math.Hypot(vel.X(), vel.Z()) < 1e-3 {
			vel[0] = 0
			vel[2] = 0
		}
	}

	// Never hand the engine more horizontal speed than move speed.
	if speed := math.Hypot(vel.X(), vel.Z()); speed > b.cfg.MoveSpeed {
		scale := b.cfg.MoveSpeed / speed
		vel[0] *= scale
		vel[2] *= scale
	}

	b.body.SetVelocity(vel)
	b.enforceUpright()

	if b.clock-b.lastProbe >= b.cfg.ProbeInterval {
		b.lastProbe = b.clock
		b.refreshGrounded()
	}

	b.prevVertVel = b.body.Velocity().Y()
}

// Jump launches the body with a vertical speed that produces the configured
// jump height under the current gravity, so tuning gravity does not change
// the visual arc. The grounded cache is cleared so landing logic cannot fire
// on the surface that was just pushed off.
func (b *Body) Jump() {
	if !b.ready() {
		return
	}
	g := math.Abs(b.world.Gravity().Y())
	if g < 1e-9 {
		b.log.Warn().Msg("character: jump with zero gravity, skipping")
		return
	}
	force := math.Sqrt(2 * g * b.cfg.JumpHeight)

	vel := b.body.Velocity()
	vel[1] = force
	b.body.SetVelocity(vel)

	b.grounded = false
	b.hasContact = false
	b.lastProbe = b.clock
	b.prevVertVel = force
	b.inflection = false
}

// IsGrounded returns the cached grounded flag. A positive extendedDistance
// runs an immediate, uncached downward probe extended by that distance, for
// lookahead landing checks.
func (b *Body) IsGrounded(extendedDistance float64) bool {
	if !b.ready() {
		return false
	}
	if extendedDistance > 0 {
		return b.probeRays(extendedDistance)
	}
	return b.grounded
}

// HasLandedRecently reports whether a ground contact was confirmed within the
// threshold of simulated time.
func (b *Body) HasLandedRecently(threshold time.Duration) bool {
	if !b.ready() || !b.hasContact {
		return false
	}
	return b.clock-b.lastGround <= threshold
}

// AtPointOfInflection reports whether vertical velocity crossed from above
// the epsilon to at-or-below it between the previous and current update: the
// apex of a jump arc. The flag holds for the rest of the tick it was detected
// on, so callers running after UpdatePosition observe it.
func (b *Body) AtPointOfInflection() bool {
	if !b.ready() {
		return false
	}
	return b.inflection
}

// Patch is a partial x/y/z override; nil axes keep their current value.
type Patch struct {
	X *float64
	Y *float64
	Z *float64
}

// Float is a convenience for building patches inline.
func Float(v float64) *float64 { return &v }

// SetVelocity overrides the given axes of linear velocity, keeping the rest.
// Non-finite components are dropped and logged.
func (b *Body) SetVelocity(p Patch) {
	if !b.ready() {
		return
	}
	vel := b.body.Velocity()
	applyPatch(&vel, p, b.log, "velocity")
	b.body.SetVelocity(vel)
}

// SetAcceleration overrides the given axes of a continuous acceleration,
// applied to the body as force (F = m*a) every step until changed.
func (b *Body) SetAcceleration(p Patch) {
	if !b.ready() {
		return
	}
	applyPatch(&b.accel, p, b.log, "acceleration")
	b.body.SetConstantForce(b.accel.Mul(b.cfg.Mass))
}

func applyPatch(v *mgl64.Vec3, p Patch, log zerolog.Logger, what string) {
	axes := [3]*float64{p.X, p.Y, p.Z}
	for i, a := range axes {
		if a == nil {
			continue
		}
		if !common.Finite(*a) {
			log.Warn().Str("axis", string("xyz"[i])).Msgf("character: non-finite %s component dropped", what)
			continue
		}
		v[i] = *a
	}
}

// Position returns the capsule center in world space.
func (b *Body) Position() mgl64.Vec3 {
	if !b.ready() {
		return mgl64.Vec3{}
	}
	return b.body.Position()
}

func (b *Body) Velocity() mgl64.Vec3 {
	if !b.ready() {
		return mgl64.Vec3{}
	}
	return b.body.Velocity()
}

func (b *Body) Yaw() float64 {
	if !b.ready() {
		return 0
	}
	return b.body.Yaw()
}

// Radius is the capsule radius.
func (b *Body) Radius() float64 {
	if b == nil {
		return 0
	}
	return b.cfg.CapsuleRadius
}

// HalfLength is the capsule core segment's half length.
func (b *Body) HalfLength() float64 {
	if b == nil {
		return 0
	}
	return b.cfg.CapsuleHalfLength
}

// VelocityEpsilon exposes the shared "vertical velocity is approximately
// zero" threshold so phase predicates use the same value as the body.
func (b *Body) VelocityEpsilon() float64 {
	if b == nil {
		return 0.05
	}
	return b.cfg.VelocityEpsilon
}

// LandedWindow is the configured landed-recently threshold.
func (b *Body) LandedWindow() time.Duration {
	if b == nil {
		return 0
	}
	return b.cfg.LandedWindow
}

// Clock is the simulated time accumulated by UpdatePosition.
func (b *Body) Clock() time.Duration {
	if b == nil {
		return 0
	}
	return b.clock
}

// enforceUpright keeps the capsule from tipping: angular velocity is reduced
// to its yaw component every update.
func (b *Body) enforceUpright() {
	w := b.body.AngularVelocity()
	if w.X() != 0 || w.Z() != 0 {
		b.body.SetAngularVelocity(mgl64.Vec3{0, w.Y(), 0})
	}
}

func finite(v mgl64.Vec3) bool {
	return common.Finite(v.X()) && common.Finite(v.Y()) && common.Finite(v.Z())
}
