package main

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/locomotion/input"
)

// keyboardSource maps WASD/arrows and space onto the locomotion command. The
// demo camera is fixed, so the mapping is world-aligned: A/D along x, W/S
// along z (depth in the side view).
type keyboardSource struct{}

func (keyboardSource) Poll() input.Command {
	var dir mgl64.Vec3
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		dir[0] -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		dir[0] += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		dir[2] -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		dir[2] += 1
	}
	if l := dir.Len(); l > 1 {
		dir = dir.Mul(1 / l)
	}

	return input.Command{
		Direction: dir,
		Jump:      inpututil.IsKeyJustPressed(ebiten.KeySpace),
	}
}
