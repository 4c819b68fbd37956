package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/locomotion/common"
)

// Box is a static axis-aligned collider in world space.
type Box struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// NewBox builds a box from a center point and full extents.
func NewBox(center, size mgl64.Vec3) Box {
	half := size.Mul(0.5)
	return Box{Min: center.Sub(half), Max: center.Add(half)}
}

// Contains reports whether p lies inside the box (inclusive).
func (b Box) Contains(p mgl64.Vec3) bool {
	return p.X() >= b.Min.X() && p.X() <= b.Max.X() &&
		p.Y() >= b.Min.Y() && p.Y() <= b.Max.Y() &&
		p.Z() >= b.Min.Z() && p.Z() <= b.Max.Z()
}

func (b Box) closestPoint(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		common.Clamp(p.X(), b.Min.X(), b.Max.X()),
		common.Clamp(p.Y(), b.Min.Y(), b.Max.Y()),
		common.Clamp(p.Z(), b.Min.Z(), b.Max.Z()),
	}
}

// Hit describes the nearest intersection of a ray with static geometry.
type Hit struct {
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
}

// rayIntersect runs the slab test against the box. dir does not need to be
// normalized as long as maxDist is expressed in the same scale; callers here
// always pass a unit direction.
func (b Box) rayIntersect(origin, dir mgl64.Vec3, maxDist float64) (Hit, bool) {
	tMin := 0.0
	tMax := maxDist
	normal := mgl64.Vec3{}

	for axis := 0; axis < 3; axis++ {
		o := origin[axis]
		d := dir[axis]
		lo := b.Min[axis]
		hi := b.Max[axis]

		if math.Abs(d) < 1e-12 {
			if o < lo || o > hi {
				return Hit{}, false
			}
			continue
		}

		inv := 1.0 / d
		t1 := (lo - o) * inv
		t2 := (hi - o) * inv
		sign := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1.0
		}
		if t1 > tMin {
			tMin = t1
			normal = mgl64.Vec3{}
			normal[axis] = sign
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return Hit{}, false
		}
	}

	return Hit{
		Point:    origin.Add(dir.Mul(tMin)),
		Normal:   normal,
		Distance: tMin,
	}, true
}

// capsuleContact computes the contact between a vertical capsule (segment
// from segBottom to segTop at (px, pz), inflated by radius) and the box.
// The returned normal points from the box surface toward the capsule.
func (b Box) capsuleContact(px, pz, segBottom, segTop, radius float64) (Contact, bool) {
	// Closest point on the capsule's core segment to the box. The segment is
	// vertical, so only the Y coordinate needs solving.
	sy := common.Clamp(common.Clamp((segBottom+segTop)/2, b.Min.Y(), b.Max.Y()), segBottom, segTop)
	center := mgl64.Vec3{px, sy, pz}
	closest := b.closestPoint(center)
	delta := center.Sub(closest)
	dist := delta.Len()

	if dist > radius {
		return Contact{}, false
	}

	if dist > 1e-9 {
		return Contact{
			Point:       closest,
			Normal:      delta.Mul(1.0 / dist),
			Penetration: radius - dist,
		}, true
	}

	// Segment point is inside the box: push out along the axis with the
	// smallest distance to a face.
	bestAxis := 0
	bestSign := 1.0
	bestDepth := math.Inf(1)
	for axis := 0; axis < 3; axis++ {
		toMax := b.Max[axis] - center[axis]
		toMin := center[axis] - b.Min[axis]
		if toMax < bestDepth {
			bestDepth = toMax
			bestAxis = axis
			bestSign = 1.0
		}
		if toMin < bestDepth {
			bestDepth = toMin
			bestAxis = axis
			bestSign = -1.0
		}
	}
	normal := mgl64.Vec3{}
	normal[bestAxis] = bestSign
	return Contact{
		Point:       center,
		Normal:      normal,
		Penetration: radius + bestDepth,
	}, true
}
