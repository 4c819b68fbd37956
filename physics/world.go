package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

const (
	// Two passes over the static set settles most corner/step contacts
	// without a full solver.
	resolveIterations = 2

	// Restitution is effectively zero; characters should not bounce.
	contactSlop = 1e-4
)

// Contact is one penetration manifold point between a body and the static
// world, recorded during the most recent step.
type Contact struct {
	Point       mgl64.Vec3
	Normal      mgl64.Vec3
	Penetration float64
}

// World steps capsule bodies against static box geometry. It provides exactly
// the surface a character controller consumes: body mutation, raycasts, and
// contact queries. It is not a general-purpose solver.
type World struct {
	gravity  mgl64.Vec3
	boxes    []Box
	bodies   []*Body
	contacts map[*Body][]Contact

	log zerolog.Logger
}

func NewWorld(gravity mgl64.Vec3, logger zerolog.Logger) *World {
	return &World{
		gravity:  gravity,
		contacts: make(map[*Body][]Contact),
		log:      logger,
	}
}

func (w *World) Gravity() mgl64.Vec3 {
	if w == nil {
		return mgl64.Vec3{}
	}
	return w.gravity
}

func (w *World) SetGravity(g mgl64.Vec3) {
	if w == nil || !finiteVec(g) {
		return
	}
	w.gravity = g
}

// AddBox registers a static collider.
func (w *World) AddBox(b Box) {
	if w == nil {
		return
	}
	w.boxes = append(w.boxes, b)
}

// AddBody creates a capsule body and adds it to the simulation.
func (w *World) AddBody(def BodyDef) *Body {
	if w == nil {
		return nil
	}
	b := newBody(def)
	b.inWorld = true
	w.bodies = append(w.bodies, b)
	return b
}

// RemoveBody releases a body from the simulation. Further steps ignore it and
// its contact cache is dropped.
func (w *World) RemoveBody(b *Body) {
	if w == nil || b == nil {
		return
	}
	for i, other := range w.bodies {
		if other == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			break
		}
	}
	delete(w.contacts, b)
	b.inWorld = false
}

// Contacts returns the penetration manifolds recorded for the body during the
// most recent step. The slice is owned by the world; callers must not mutate it.
func (w *World) Contacts(b *Body) []Contact {
	if w == nil || b == nil {
		return nil
	}
	return w.contacts[b]
}

// Step advances the simulation by dt seconds: integrates forces and gravity,
// applies damping, moves bodies, and resolves penetration against the static
// set. Accumulated one-shot forces and impulses are consumed.
func (w *World) Step(dt float64) {
	if w == nil || dt <= 0 {
		return
	}

	for _, b := range w.bodies {
		if b == nil {
			continue
		}

		vel := b.vel
		vel = vel.Add(b.impulse.Mul(1.0 / b.mass))
		accel := w.gravity.Add(b.force.Add(b.constantForce).Mul(1.0 / b.mass))
		vel = vel.Add(accel.Mul(dt))
		if b.linearDamping > 0 {
			vel = vel.Mul(1.0 / (1.0 + b.linearDamping*dt))
		}

		if !finiteVec(vel) {
			w.log.Error().Msg("physics: non-finite velocity after integration, zeroing")
			vel = mgl64.Vec3{}
		}

		b.vel = vel
		b.pos = b.pos.Add(vel.Mul(dt))
		b.yaw += b.angVel.Y() * dt
		b.force = mgl64.Vec3{}
		b.impulse = mgl64.Vec3{}

		if !finiteVec(b.pos) {
			w.log.Error().Msg("physics: non-finite position after integration, reverting")
			b.pos = b.pos.Sub(vel.Mul(dt))
			b.vel = mgl64.Vec3{}
		}

		w.resolveStatic(b)
	}
}

func (w *World) resolveStatic(b *Body) {
	manifolds := w.contacts[b][:0]

	for iter := 0; iter < resolveIterations; iter++ {
		for _, box := range w.boxes {
			segBottom := b.pos.Y() - b.halfLength
			segTop := b.pos.Y() + b.halfLength
			c, ok := box.capsuleContact(b.pos.X(), b.pos.Z(), segBottom, segTop, b.radius)
			if !ok {
				continue
			}

			if c.Penetration > contactSlop {
				b.pos = b.pos.Add(c.Normal.Mul(c.Penetration))
			}
			// Kill velocity into the surface; no restitution.
			vn := b.vel.Dot(c.Normal)
			if vn < 0 {
				b.vel = b.vel.Sub(c.Normal.Mul(vn))
			}

			if iter == 0 {
				manifolds = append(manifolds, c)
			}
		}
	}

	w.contacts[b] = manifolds
}

// Raycast finds the nearest static-geometry intersection along dir from
// origin, within maxDist. dir must be non-zero; it is normalized internally.
func (w *World) Raycast(origin, dir mgl64.Vec3, maxDist float64) (Hit, bool) {
	if w == nil || maxDist <= 0 || !finiteVec(origin) || !finiteVec(dir) {
		return Hit{}, false
	}
	length := dir.Len()
	if length < 1e-12 {
		return Hit{}, false
	}
	unit := dir.Mul(1.0 / length)

	best := Hit{Distance: maxDist + 1}
	found := false
	for _, box := range w.boxes {
		hit, ok := box.rayIntersect(origin, unit, maxDist)
		if ok && hit.Distance < best.Distance {
			best = hit
			found = true
		}
	}
	if !found {
		return Hit{}, false
	}
	return best, true
}
