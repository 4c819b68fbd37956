package main

import (
	"fmt"
	"image/color"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog"

	"github.com/milk9111/locomotion/character"
	"github.com/milk9111/locomotion/input"
	"github.com/milk9111/locomotion/locomotion"
	"github.com/milk9111/locomotion/physics"
	"github.com/milk9111/locomotion/tuning"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	tickSeconds = 1.0 / 60.0

	// Side-view projection: world meters to screen pixels.
	pixelsPerMeter = 60.0
	originX        = baseWidth / 2.0
	originY        = baseHeight - 120.0
)

// Game is a debug visualizer for the locomotion core: a side-view projection
// of the 3D world with an on-screen phase readout. It is a consumer of the
// core, not part of it.
type Game struct {
	world      *physics.World
	controller *locomotion.Controller
	watcher    *tuning.Watcher
	boxes      []physics.Box
	log        zerolog.Logger

	frames int
}

func NewGame(spec tuning.Spec, scriptPath string, logger zerolog.Logger) (*Game, error) {
	world := physics.NewWorld(mgl64.Vec3{0, spec.GravityY, 0}, logger)

	boxes := []physics.Box{
		// Floor with its top face at y=0, plus a few steps to jump between.
		physics.NewBox(mgl64.Vec3{0, -0.5, 0}, mgl64.Vec3{40, 1, 40}),
		physics.NewBox(mgl64.Vec3{3, 0.4, 0}, mgl64.Vec3{2, 0.8, 2}),
		physics.NewBox(mgl64.Vec3{6, 0.9, 0}, mgl64.Vec3{2, 1.8, 2}),
		physics.NewBox(mgl64.Vec3{-4, 0.6, 0}, mgl64.Vec3{3, 1.2, 3}),
	}
	for _, b := range boxes {
		world.AddBox(b)
	}

	cfg := character.ConfigFrom(spec)
	spawn := mgl64.Vec3{0, cfg.CapsuleHalfLength + cfg.CapsuleRadius, 0}
	body, err := character.NewBody(world, cfg, spawn, logger)
	if err != nil {
		return nil, err
	}

	var source input.Source
	if scriptPath != "" {
		src, err := os.ReadFile(scriptPath)
		if err != nil {
			return nil, fmt.Errorf("read input script: %w", err)
		}
		script, err := input.NewScript(src, logger)
		if err != nil {
			return nil, err
		}
		source = script
	} else {
		source = &keyboardSource{}
	}

	timing := locomotion.Timing{
		MinAirborne:  durationMS(spec.MinAirborneMS),
		LandingDwell: durationMS(spec.LandingDwellMS),
	}
	controller, err := locomotion.NewController(world, body, source, timing, logger)
	if err != nil {
		return nil, err
	}

	return &Game{
		world:      world,
		controller: controller,
		boxes:      boxes,
		log:        logger,
	}, nil
}

func (g *Game) Close() {
	if g == nil {
		return
	}
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	if g.controller != nil && g.controller.Body() != nil {
		g.controller.Body().Destroy()
	}
}

func (g *Game) Update() error {
	g.frames++

	if g.watcher != nil {
		select {
		case spec, ok := <-g.watcher.Specs:
			if ok {
				g.controller.Body().Retune(character.ConfigFrom(spec))
				g.log.Info().Msg("tuning reloaded")
			}
		case err, ok := <-g.watcher.Errors:
			if ok {
				g.log.Warn().Err(err).Msg("tuning reload failed")
			}
		default:
		}
	}

	g.controller.Tick(tickSeconds)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	boxColor := color.RGBA{R: 90, G: 90, B: 110, A: 255}
	for _, b := range g.boxes {
		x, y := worldToScreen(b.Min.X(), b.Max.Y())
		w := float32((b.Max.X() - b.Min.X()) * pixelsPerMeter)
		h := float32((b.Max.Y() - b.Min.Y()) * pixelsPerMeter)
		vector.StrokeRect(screen, x, y, w, h, 2, boxColor, true)
	}

	g.drawCapsule(screen)

	pos := g.controller.Position()
	vel := g.controller.Velocity()
	readout := fmt.Sprintf(
		"FPS: %.1f\nPhase: %s\nGrounded: %v\nPos: (%.2f, %.2f, %.2f)\nVel: (%.2f, %.2f, %.2f)",
		ebiten.ActualFPS(),
		g.controller.PhaseName(),
		g.controller.Grounded(),
		pos.X(), pos.Y(), pos.Z(),
		vel.X(), vel.Y(), vel.Z(),
	)
	ebitenutil.DebugPrintAt(screen, readout, 10, 10)
}

func (g *Game) drawCapsule(screen *ebiten.Image) {
	body := g.controller.Body()
	pos := body.Position()

	radius := float32(body.Radius() * pixelsPerMeter)
	half := float32(body.HalfLength() * pixelsPerMeter)

	capsuleColor := color.RGBA{R: 120, G: 220, B: 120, A: 255}
	if !g.controller.Grounded() {
		capsuleColor = color.RGBA{R: 220, G: 180, B: 80, A: 255}
	}

	cx, cy := worldToScreen(pos.X(), pos.Y())
	vector.StrokeCircle(screen, cx, cy-half, radius, 2, capsuleColor, true)
	vector.StrokeCircle(screen, cx, cy+half, radius, 2, capsuleColor, true)
	vector.StrokeLine(screen, cx-radius, cy-half, cx-radius, cy+half, 2, capsuleColor, true)
	vector.StrokeLine(screen, cx+radius, cy-half, cx+radius, cy+half, 2, capsuleColor, true)
}

func worldToScreen(x, y float64) (float32, float32) {
	return float32(originX + x*pixelsPerMeter), float32(originY - y*pixelsPerMeter)
}

func durationMS(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}
