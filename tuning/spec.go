package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Spec holds every gameplay constant the locomotion core reads. Values are in
// meters, seconds, and meters-per-second unless the field name says otherwise.
type Spec struct {
	MoveSpeed  float64 `yaml:"move_speed"`
	JumpHeight float64 `yaml:"jump_height"`

	CapsuleRadius     float64 `yaml:"capsule_radius"`
	CapsuleHalfLength float64 `yaml:"capsule_half_length"`
	Mass              float64 `yaml:"mass"`
	LinearDamping     float64 `yaml:"linear_damping"`

	GravityY float64 `yaml:"gravity_y"`

	// Extra horizontal force applied while below move speed, for a smoother
	// ramp-up on top of direct velocity control.
	MoveRampAccel float64 `yaml:"move_ramp_accel"`

	// Horizontal damping rate applied when there is no directional input.
	GroundDamping float64 `yaml:"ground_damping"`

	GroundProbeIntervalMS float64 `yaml:"ground_probe_interval_ms"`
	GroundProbeDistance   float64 `yaml:"ground_probe_distance"`

	// Single epsilon for "vertical velocity is approximately zero", shared by
	// every phase predicate.
	VelocityEpsilon float64 `yaml:"velocity_epsilon"`

	// Downward speed considered a strong fall for the inflection heuristic.
	StrongFallSpeed float64 `yaml:"strong_fall_speed"`

	LandedRecentlyMS float64 `yaml:"landed_recently_ms"`
	MinAirborneMS    float64 `yaml:"min_airborne_ms"`
	LandingDwellMS   float64 `yaml:"landing_dwell_ms"`

	StabilizeHorizontal float64 `yaml:"stabilize_horizontal"`
	StabilizeVertical   float64 `yaml:"stabilize_vertical"`
}

// Load reads a spec from disk. Missing fields are not defaulted: the file
// must be complete. Use Default for the built-in values.
func Load(path string) (Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Spec{}, fmt.Errorf("tuning: load %s: %w", path, err)
	}
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return Spec{}, fmt.Errorf("tuning: unmarshal %s: %w", path, err)
	}
	if err := spec.Validate(); err != nil {
		return Spec{}, fmt.Errorf("tuning: %s: %w", path, err)
	}
	return spec, nil
}

// Validate rejects values the controller cannot operate with.
func (s Spec) Validate() error {
	checks := []struct {
		name string
		ok   bool
	}{
		{"move_speed", s.MoveSpeed > 0},
		{"jump_height", s.JumpHeight > 0},
		{"capsule_radius", s.CapsuleRadius > 0},
		{"capsule_half_length", s.CapsuleHalfLength > 0},
		{"mass", s.Mass > 0},
		{"gravity_y", s.GravityY < 0},
		{"ground_probe_interval_ms", s.GroundProbeIntervalMS > 0},
		{"ground_probe_distance", s.GroundProbeDistance > 0},
		{"velocity_epsilon", s.VelocityEpsilon > 0},
		{"strong_fall_speed", s.StrongFallSpeed > 0},
		{"ground_damping", s.GroundDamping > 0},
		{"stabilize_horizontal", s.StabilizeHorizontal > 0 && s.StabilizeHorizontal <= 1},
		{"stabilize_vertical", s.StabilizeVertical > 0 && s.StabilizeVertical <= 1},
	}
	for _, c := range checks {
		if !c.ok {
			return fmt.Errorf("invalid %s", c.name)
		}
	}
	return nil
}
