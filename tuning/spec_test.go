package tuning

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultsAreValid(t *testing.T) {
	spec, err := parseDefaults()
	require.NoError(t, err)
	assert.Equal(t, 6.0, spec.MoveSpeed)
	assert.Equal(t, 1.2, spec.JumpHeight)
	assert.Equal(t, -9.81, spec.GravityY)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	require.NoError(t, os.WriteFile(path, defaultsYAML, 0o644))

	spec, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), spec)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("move_speed: [not a number"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Spec)
	}{
		{"zero_move_speed", func(s *Spec) { s.MoveSpeed = 0 }},
		{"negative_jump_height", func(s *Spec) { s.JumpHeight = -1 }},
		{"zero_radius", func(s *Spec) { s.CapsuleRadius = 0 }},
		{"zero_mass", func(s *Spec) { s.Mass = 0 }},
		{"upward_gravity", func(s *Spec) { s.GravityY = 9.81 }},
		{"zero_epsilon", func(s *Spec) { s.VelocityEpsilon = 0 }},
		{"stabilize_above_one", func(s *Spec) { s.StabilizeVertical = 1.5 }},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			spec := Default()
			c.mutate(&spec)
			assert.Error(t, spec.Validate())
		})
	}
}

func TestWatchDeliversReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	require.NoError(t, os.WriteFile(path, defaultsYAML, 0o644))

	w, err := Watch(path)
	require.NoError(t, err)
	defer w.Close()

	changed := Default()
	changed.MoveSpeed = 9
	data, err := yaml.Marshal(changed)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	select {
	case spec := <-w.Specs:
		assert.Equal(t, 9.0, spec.MoveSpeed)
	case err := <-w.Errors:
		t.Fatalf("unexpected watcher error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload delivered")
	}
}

func TestWatchReportsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	require.NoError(t, os.WriteFile(path, defaultsYAML, 0o644))

	w, err := Watch(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("move_speed: -1\n"), 0o644))

	select {
	case spec := <-w.Specs:
		t.Fatalf("invalid file delivered as spec: %+v", spec)
	case err := <-w.Errors:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("no error delivered")
	}
}

func TestWatchIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	require.NoError(t, os.WriteFile(path, defaultsYAML, 0o644))

	w, err := Watch(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), defaultsYAML, 0o644))

	select {
	case spec := <-w.Specs:
		t.Fatalf("unrelated file triggered a reload: %+v", spec)
	case <-time.After(300 * time.Millisecond):
	}
}
