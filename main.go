package main

import (
	"flag"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/warrens/common"
)

func main() {
	roomName := flag.String("room", "room", "room name in prefabs/ (basename, .yaml optional)")
	debug := flag.Bool("debug", false, "enable debug overlay and hot reload")
	seed := flag.Int64("seed", 0, "rng seed, 0 picks one from the clock")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth, common.BaseHeight)
	ebiten.SetWindowTitle("warrens")
	ebiten.SetTPS(common.TickRate)

	game, err := NewGame(*roomName, *seed, *debug)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
