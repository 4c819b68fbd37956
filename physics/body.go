package physics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/locomotion/common"
)

// Body is a dynamic capsule-shaped rigid body. The capsule is always vertical;
// orientation is reduced to a yaw angle, which is all a character needs.
type Body struct {
	pos mgl64.Vec3
	vel mgl64.Vec3

	yaw    float64
	angVel mgl64.Vec3

	mass          float64
	linearDamping float64

	radius     float64
	halfLength float64

	// force and impulse accumulate for one step and are cleared by it.
	// constantForce persists until replaced (continuous acceleration).
	force         mgl64.Vec3
	impulse       mgl64.Vec3
	constantForce mgl64.Vec3

	inWorld bool
}

// BodyDef holds the construction parameters for a capsule body.
type BodyDef struct {
	Position      mgl64.Vec3
	Mass          float64
	Radius        float64
	HalfLength    float64
	LinearDamping float64
}

func newBody(def BodyDef) *Body {
	mass := def.Mass
	if mass <= 0 {
		mass = 1
	}
	return &Body{
		pos:           def.Position,
		mass:          mass,
		radius:        def.Radius,
		halfLength:    def.HalfLength,
		linearDamping: def.LinearDamping,
	}
}

func (b *Body) Position() mgl64.Vec3 {
	if b == nil {
		return mgl64.Vec3{}
	}
	return b.pos
}

func (b *Body) SetPosition(p mgl64.Vec3) {
	if b == nil || !finiteVec(p) {
		return
	}
	b.pos = p
}

func (b *Body) Velocity() mgl64.Vec3 {
	if b == nil {
		return mgl64.Vec3{}
	}
	return b.vel
}

// SetVelocity replaces the linear velocity. Non-finite vectors are ignored.
func (b *Body) SetVelocity(v mgl64.Vec3) {
	if b == nil || !finiteVec(v) {
		return
	}
	b.vel = v
}

// ApplyForce accumulates a force for the next step only.
func (b *Body) ApplyForce(f mgl64.Vec3) {
	if b == nil || !finiteVec(f) {
		return
	}
	b.force = b.force.Add(f)
}

// ApplyImpulse changes velocity by impulse/mass at the next step.
func (b *Body) ApplyImpulse(j mgl64.Vec3) {
	if b == nil || !finiteVec(j) {
		return
	}
	b.impulse = b.impulse.Add(j)
}

// SetConstantForce replaces the continuously applied force. Used to model a
// constant acceleration (F = m*a).
func (b *Body) SetConstantForce(f mgl64.Vec3) {
	if b == nil || !finiteVec(f) {
		return
	}
	b.constantForce = f
}

func (b *Body) ConstantForce() mgl64.Vec3 {
	if b == nil {
		return mgl64.Vec3{}
	}
	return b.constantForce
}

func (b *Body) Yaw() float64 {
	if b == nil {
		return 0
	}
	return b.yaw
}

func (b *Body) SetYaw(yaw float64) {
	if b == nil || !common.Finite(yaw) {
		return
	}
	b.yaw = yaw
}

// Orientation returns the body's rotation as a quaternion about the up axis.
func (b *Body) Orientation() mgl64.Quat {
	if b == nil {
		return mgl64.QuatIdent()
	}
	return mgl64.QuatRotate(b.yaw, mgl64.Vec3{0, 1, 0})
}

func (b *Body) AngularVelocity() mgl64.Vec3 {
	if b == nil {
		return mgl64.Vec3{}
	}
	return b.angVel
}

func (b *Body) SetAngularVelocity(w mgl64.Vec3) {
	if b == nil || !finiteVec(w) {
		return
	}
	b.angVel = w
}

func (b *Body) Mass() float64 {
	if b == nil {
		return 0
	}
	return b.mass
}

func (b *Body) Radius() float64 {
	if b == nil {
		return 0
	}
	return b.radius
}

func (b *Body) HalfLength() float64 {
	if b == nil {
		return 0
	}
	return b.halfLength
}

// Bottom returns the lowest point of the capsule.
func (b *Body) Bottom() mgl64.Vec3 {
	if b == nil {
		return mgl64.Vec3{}
	}
	return mgl64.Vec3{b.pos.X(), b.pos.Y() - b.halfLength - b.radius, b.pos.Z()}
}

func finiteVec(v mgl64.Vec3) bool {
	return common.Finite(v.X()) && common.Finite(v.Y()) && common.Finite(v.Z())
}
