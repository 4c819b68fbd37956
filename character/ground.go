package character

import "github.com/go-gl/mathgl/mgl64"

const (
	// Lateral probe offsets sit just inside the capsule radius so rays on
	// edges and slopes still land on geometry under the hull.
	probeOffsetScale = 0.9

	// Rays start a little inside the capsule bottom so a body resting
	// exactly on a surface still registers.
	probeLift = 0.02

	// A contact counts as ground support when its normal points mostly up
	// and it is a resting touch, not a deep overlap.
	groundNormalMinY       = 0.7
	contactPenetrationSlop = 0.05
)

// refreshGrounded combines three independent signals: multi-point raycasts,
// a contact-penetration fallback, and a velocity-inflection heuristic. A
// single downward ray is unreliable on edges and slopes, and raw contacts
// false-positive right after a jump while the capsule still overlaps the
// launch surface.
func (b *Body) refreshGrounded() {
	vy := b.body.Velocity().Y()
	was := b.grounded

	// While clearly ascending, skip the rays entirely: right after a jump
	// the capsule is still within probe range of the launch surface.
	grounded := false
	if vy <= b.cfg.VelocityEpsilon {
		grounded = b.probeRays(0)
	}

	if !grounded && vy <= b.cfg.VelocityEpsilon {
		for _, c := range b.world.Contacts(b.body) {
			if c.Normal.Y() >= groundNormalMinY && c.Penetration <= contactPenetrationSlop {
				grounded = true
				break
			}
		}
	}

	// Thin geometry and slow probe windows: a hard fall snapping to
	// near-zero vertical velocity is a landing even without a fresh hit.
	if !grounded && b.prevVertVel < -b.cfg.StrongFallSpeed && vy >= -b.cfg.VelocityEpsilon {
		grounded = true
	}

	b.grounded = grounded
	if grounded {
		b.lastGround = b.clock
		b.hasContact = true
		if !was {
			b.stabilizeOnGround()
		}
	}
}

// probeRays casts downward from the capsule's lower bound: the center point
// plus four lateral offsets for edges and slopes.
func (b *Body) probeRays(extended float64) bool {
	bottom := b.body.Bottom()
	origin := mgl64.Vec3{bottom.X(), bottom.Y() + probeLift, bottom.Z()}
	maxDist := probeLift + b.cfg.ProbeDistance + extended
	down := mgl64.Vec3{0, -1, 0}

	if _, ok := b.world.Raycast(origin, down, maxDist); ok {
		return true
	}

	lateral := b.cfg.CapsuleRadius * probeOffsetScale
	offsets := [4]mgl64.Vec3{
		{lateral, 0, 0},
		{-lateral, 0, 0},
		{0, 0, lateral},
		{0, 0, -lateral},
	}
	for _, off := range offsets {
		if _, ok := b.world.Raycast(origin.Add(off), down, maxDist); ok {
			return true
		}
	}
	return false
}

// stabilizeOnGround damps the impact on a fresh landing to suppress
// simulator bounce, and re-asserts the upright orientation.
func (b *Body) stabilizeOnGround() {
	vel := b.body.Velocity()
	vel[0] *= b.cfg.StabilizeHorizontal
	vel[2] *= b.cfg.StabilizeHorizontal
	vel[1] *= b.cfg.StabilizeVertical
	b.body.SetVelocity(vel)
	b.enforceUpright()
}
