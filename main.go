package main

import (
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"github.com/milk9111/locomotion/tuning"
)

func main() {
	scriptPath := flag.String("script", "", "drive input from a tengo script instead of the keyboard")
	tuningPath := flag.String("tuning", "", "tuning yaml (defaults embedded)")
	watch := flag.Bool("watch", false, "hot-reload the tuning file on change")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if !*debug {
		logger = logger.Level(zerolog.InfoLevel)
	}

	spec := tuning.Default()
	if *tuningPath != "" {
		loaded, err := tuning.Load(*tuningPath)
		if err != nil {
			logger.Fatal().Err(err).Msg("load tuning")
		}
		spec = loaded
	}

	game, err := NewGame(spec, *scriptPath, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("build game")
	}
	defer game.Close()

	if *watch && *tuningPath != "" {
		watcher, err := tuning.Watch(*tuningPath)
		if err != nil {
			logger.Fatal().Err(err).Msg("watch tuning")
		}
		game.watcher = watcher
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("locomotion")

	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal().Err(err).Msg("run")
	}
}
