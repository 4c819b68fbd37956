package input

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

// Script drives a character from a tengo program, for soak scenarios and
// demos. The script sees a tick counter `t` and assigns `move_x`, `move_z`,
// and `jump` at its top level:
//
//	move_x := 0.0
//	move_z := 0.0
//	jump := false
//	if t < 60 { move_x = 1.0 }
//	if t == 60 { jump = true }
//
// Script errors are logged and yield an empty command; they never stop the
// simulation.
type Script struct {
	compiled *tengo.Compiled
	tick     int64
	log      zerolog.Logger
}

func NewScript(src []byte, logger zerolog.Logger) (*Script, error) {
	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap("math", "rand"))
	if err := script.Add("t", int64(0)); err != nil {
		return nil, fmt.Errorf("input: add script globals: %w", err)
	}
	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("input: compile script: %w", err)
	}
	return &Script{compiled: compiled, log: logger}, nil
}

func (s *Script) Poll() Command {
	if s == nil || s.compiled == nil {
		return Command{}
	}

	if err := s.compiled.Set("t", s.tick); err != nil {
		s.log.Warn().Err(err).Msg("input: script set tick failed")
		return Command{}
	}
	s.tick++

	if err := s.compiled.Run(); err != nil {
		s.log.Warn().Err(err).Int64("tick", s.tick-1).Msg("input: script run failed")
		return Command{}
	}

	return Command{
		Direction: mgl64.Vec3{
			s.compiled.Get("move_x").Float(),
			0,
			s.compiled.Get("move_z").Float(),
		},
		Jump: s.compiled.Get("jump").Bool(),
	}
}
