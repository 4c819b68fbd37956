// Package input defines the per-tick command surface the locomotion core
// consumes. Device handling lives with the host; sources here are the
// scaffolding a headless core needs: fixed values, queued sequences, and
// scripted scenarios.
package input

import "github.com/go-gl/mathgl/mgl64"

// Command is one tick of player intent: a camera-relative horizontal
// direction (unit or near-unit) and an edge-triggered jump request.
type Command struct {
	Direction mgl64.Vec3
	Jump      bool
}

// Source produces one command per tick.
type Source interface {
	Poll() Command
}

// Static always returns the same command. Mutate fields between ticks to
// drive a character by hand (tests, tools).
type Static struct {
	Command Command
}

func (s *Static) Poll() Command {
	if s == nil {
		return Command{}
	}
	return s.Command
}

// Queue replays a fixed sequence of commands, then returns zero commands.
type Queue struct {
	cmds []Command
	next int
}

func NewQueue(cmds ...Command) *Queue {
	return &Queue{cmds: cmds}
}

func (q *Queue) Poll() Command {
	if q == nil || q.next >= len(q.cmds) {
		return Command{}
	}
	cmd := q.cmds[q.next]
	q.next++
	return cmd
}
