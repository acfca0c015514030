//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"bigmap/internal/app"
	"bigmap/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	mapCfg, err := cfg.MapConfig()
	if err != nil {
		log.Fatal(err)
	}
	logger := core.NewLogger(os.Stderr, mapCfg.LogLevel)

	game, err := app.New(mapCfg, cfg, logger)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowTitle("bigmap")
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(game.Layout(0, 0))

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
