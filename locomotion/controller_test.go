package locomotion

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/locomotion/character"
	"github.com/milk9111/locomotion/input"
	"github.com/milk9111/locomotion/physics"
	"github.com/milk9111/locomotion/tuning"
)

// newTestController stands a full stack up on the given static geometry:
// world, capsule body from the default tuning, machine, and input source.
func newTestController(t *testing.T, source input.Source, boxes ...physics.Box) *Controller {
	t.Helper()
	spec := tuning.Default()

	w := physics.NewWorld(mgl64.Vec3{0, spec.GravityY, 0}, zerolog.Nop())
	for _, box := range boxes {
		w.AddBox(box)
	}

	cfg := character.ConfigFrom(spec)
	spawn := mgl64.Vec3{0, cfg.CapsuleHalfLength + cfg.CapsuleRadius, 0}
	body, err := character.NewBody(w, cfg, spawn, zerolog.Nop())
	require.NoError(t, err)

	timing := Timing{
		MinAirborne:  150 * time.Millisecond,
		LandingDwell: 120 * time.Millisecond,
	}
	c, err := NewController(w, body, source, timing, zerolog.Nop())
	require.NoError(t, err)
	return c
}

func floor() physics.Box {
	return physics.NewBox(mgl64.Vec3{0, -0.5, 0}, mgl64.Vec3{40, 1, 40})
}

func TestControllerSpawnSettlesIdle(t *testing.T) {
	c := newTestController(t, nil, floor())

	for i := 0; i < 5; i++ {
		c.Tick(dt)
	}

	assert.Equal(t, PhaseIdle, c.PhaseName())
	assert.True(t, c.Grounded())
	assert.InDelta(t, 0, c.Velocity().Len(), 1e-3)
}

func TestControllerWalksOnInput(t *testing.T) {
	src := &input.Static{Command: input.Command{Direction: mgl64.Vec3{1, 0, 0}}}
	c := newTestController(t, src, floor())

	for i := 0; i < 60; i++ {
		c.Tick(dt)
	}

	assert.Equal(t, PhaseWalking, c.PhaseName())
	assert.True(t, c.Grounded())

	speed := math.Hypot(c.Velocity().X(), c.Velocity().Z())
	assert.InDelta(t, tuning.Default().MoveSpeed, speed, 1e-6)

	// Releasing input settles back to idle.
	src.Command = input.Command{}
	for i := 0; i < 60; i++ {
		c.Tick(dt)
	}
	assert.Equal(t, PhaseIdle, c.PhaseName())
}

func TestControllerJumpCycle(t *testing.T) {
	// One settling tick so the grounded cache is warm, then a jump, then
	// free fall under zero input.
	src := input.NewQueue(
		input.Command{},
		input.Command{Jump: true},
	)
	c := newTestController(t, src, floor())

	c.Tick(dt) // settle
	require.Equal(t, PhaseIdle, c.PhaseName())

	c.Tick(dt) // jump fires
	require.Equal(t, PhaseJumping, c.PhaseName())
	require.Greater(t, c.Velocity().Y(), 0.0)
	require.False(t, c.Grounded())

	var (
		phases       []string
		airborneTick int
		landingTick  = -1
	)
	for i := 0; i < 240 && landingTick < 0; i++ {
		c.Tick(dt)
		name := c.PhaseName()
		phases = append(phases, name)
		switch name {
		case PhaseAirborne:
			if airborneTick == 0 {
				airborneTick = i
				// Airborne begins at the apex, not during strong ascent.
				assert.LessOrEqual(t, c.Velocity().Y(), c.Body().VelocityEpsilon())
			}
		case PhaseLanding:
			landingTick = i
		case PhaseJumping:
		default:
			t.Fatalf("phase %q reached mid-air at tick %d", name, i)
		}
	}
	require.GreaterOrEqual(t, landingTick, 0, "jump cycle never landed: %v", phases)
	require.Greater(t, airborneTick, 0, "jumping must pass through airborne")

	// The airborne stretch respects the minimum airborne time.
	assert.GreaterOrEqual(t, landingTick-airborneTick, 8)

	// Landing dwells, then the machine settles to idle at rest.
	for i := 0; i < 60; i++ {
		c.Tick(dt)
	}
	assert.Equal(t, PhaseIdle, c.PhaseName())
	assert.True(t, c.Grounded())
}

func TestControllerIgnoresJumpMidAir(t *testing.T) {
	src := input.NewQueue(
		input.Command{},
		input.Command{Jump: true},
		input.Command{},
		input.Command{},
		input.Command{Jump: true}, // mid-ascent, must be ignored
	)
	c := newTestController(t, src, floor())

	c.Tick(dt)
	c.Tick(dt)
	require.Equal(t, PhaseJumping, c.PhaseName())
	first := c.Velocity().Y()

	c.Tick(dt)
	c.Tick(dt)
	c.Tick(dt)
	assert.Equal(t, PhaseJumping, c.PhaseName())
	assert.Less(t, c.Velocity().Y(), first, "a mid-air jump must not relaunch")
}

func TestControllerWalksOffLedge(t *testing.T) {
	src := &input.Static{Command: input.Command{Direction: mgl64.Vec3{1, 0, 0}}}
	c := newTestController(t, src,
		physics.NewBox(mgl64.Vec3{0, -0.5, 0}, mgl64.Vec3{2, 1, 2}), // small platform
		physics.NewBox(mgl64.Vec3{0, -3, 0}, mgl64.Vec3{40, 1, 40}), // ground below
	)

	seen := map[string]bool{}
	var order []string
	for i := 0; i < 150; i++ {
		c.Tick(dt)
		name := c.PhaseName()
		if !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
	}

	// Walk, drop off the edge without a jump, land, resume walking.
	require.GreaterOrEqual(t, len(order), 3, "phases seen: %v", order)
	assert.Equal(t, []string{PhaseWalking, PhaseAirborne, PhaseLanding}, order[:3])
	assert.Equal(t, PhaseWalking, c.PhaseName())
	assert.False(t, seen[PhaseJumping])
	assert.Less(t, c.Position().Y(), 0.0, "ended up on the lower ground")
}

func TestControllerSuppressesDirectionWhileAirborne(t *testing.T) {
	src := &input.Static{Command: input.Command{Direction: mgl64.Vec3{1, 0, 0}}}
	c := newTestController(t, src,
		physics.NewBox(mgl64.Vec3{0, -0.5, 0}, mgl64.Vec3{2, 1, 2}),
		physics.NewBox(mgl64.Vec3{0, -3, 0}, mgl64.Vec3{40, 1, 40}),
	)

	for i := 0; i < 300; i++ {
		c.Tick(dt)
		if c.PhaseName() == PhaseAirborne {
			before := math.Hypot(c.Velocity().X(), c.Velocity().Z())
			c.Tick(dt)
			after := math.Hypot(c.Velocity().X(), c.Velocity().Z())
			assert.LessOrEqual(t, after, before+1e-9, "held input must not accelerate an airborne body")
			return
		}
	}
	t.Fatal("never went airborne")
}

func TestControllerFallFromHeight(t *testing.T) {
	spec := tuning.Default()
	w := physics.NewWorld(mgl64.Vec3{0, spec.GravityY, 0}, zerolog.Nop())
	w.AddBox(floor())

	cfg := character.ConfigFrom(spec)
	spawn := mgl64.Vec3{0, 3, 0} // well above the floor
	body, err := character.NewBody(w, cfg, spawn, zerolog.Nop())
	require.NoError(t, err)

	timing := Timing{MinAirborne: 150 * time.Millisecond, LandingDwell: 120 * time.Millisecond}
	c, err := NewController(w, body, nil, timing, zerolog.Nop())
	require.NoError(t, err)

	seen := map[string]bool{}
	var order []string
	for i := 0; i < 180; i++ {
		c.Tick(dt)
		name := c.PhaseName()
		if !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
	}

	assert.Equal(t, []string{PhaseAirborne, PhaseLanding, PhaseIdle}, order)
	assert.Equal(t, PhaseIdle, c.PhaseName())
	assert.True(t, c.Grounded())
}

func TestControllerNilBodyRejected(t *testing.T) {
	w := physics.NewWorld(mgl64.Vec3{0, -9.81, 0}, zerolog.Nop())
	_, err := NewController(w, nil, nil, Timing{}, zerolog.Nop())
	assert.Error(t, err)
}
