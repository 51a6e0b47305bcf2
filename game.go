package main

import (
	"fmt"
	"image/color"
	"log"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/warrens/common"
	"github.com/milk9111/warrens/ecs"
	"github.com/milk9111/warrens/ecs/component"
	"github.com/milk9111/warrens/ecs/system"
	"github.com/milk9111/warrens/prefabs"
)

type Game struct {
	room     *Room
	roomName string
	seed     int64
	debug    bool

	paused  bool
	pauseUI *ebitenui.UI

	gameOverMsg string
	gameOverUI  *ebitenui.UI

	watcher *prefabs.Watcher
}

func NewGame(roomName string, seed int64, debug bool) (*Game, error) {
	g := &Game{
		roomName: roomName,
		seed:     seed,
		debug:    debug,
	}
	g.pauseUI = NewPauseUI(g)

	if err := g.rebuild(); err != nil {
		return nil, err
	}

	if debug {
		watcher, err := prefabs.NewWatcher("prefabs", "prefabs/scripts")
		if err != nil {
			log.Printf("game: hot reload unavailable: %v", err)
		} else {
			g.watcher = watcher
		}
	}

	return g, nil
}

// rebuild reloads the room file and constructs a fresh world.
func (g *Game) rebuild() error {
	spec, err := prefabs.LoadRoomSpec(g.roomName)
	if err != nil {
		return fmt.Errorf("game: load room %q: %w", g.roomName, err)
	}
	g.room = BuildRoom(spec, g.seed)
	g.gameOverMsg = ""
	g.gameOverUI = nil
	return nil
}

func (g *Game) Update() error {
	g.pollWatcher()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	g.room.World.Update()

	if e, ok := ecs.First(g.room.World, component.GameOverPendingComponent.Kind()); ok {
		if p, ok := ecs.Get(g.room.World, e, component.GameOverPendingComponent.Kind()); ok && g.gameOverMsg == "" {
			g.gameOverMsg = p.Message
			g.gameOverUI = NewGameOverUI(g, p.Message)
		}
	}
	if g.gameOverUI != nil {
		g.gameOverUI.Update()
	}

	if _, ok := ecs.First(g.room.World, component.ResetRoomRequestComponent.Kind()); ok {
		if err := g.rebuild(); err != nil {
			return err
		}
	}

	return nil
}

// pollWatcher applies any pending room or script edits. Room edits rebuild
// the world; script edits only drop compiled runtimes.
func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("game: reloading after edit to %s", path)
			g.room.AI.InvalidateScripts()
			if err := g.rebuild(); err != nil {
				log.Printf("game: reload failed: %v", err)
			}
		case err, ok := <-g.watcher.Errors:
			if ok && err != nil {
				log.Printf("game: watcher error: %v", err)
			}
		default:
			return
		}
	}
}

// Close releases the hot-reload watcher, if one was started.
func (g *Game) Close() {
	if g.watcher == nil {
		return
	}
	if err := g.watcher.Close(); err != nil {
		log.Printf("game: closing watcher: %v", err)
	}
	g.watcher = nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.NRGBA{R: 0x14, G: 0x12, B: 0x1c, A: 0xff})
	system.Draw(g.room.World, screen)

	if g.debug {
		system.DrawDebug(g.room.World, screen)
		ebitenutil.DebugPrint(screen, fmt.Sprintf("tps %.1f", ebiten.ActualTPS()))
	}

	if g.gameOverUI != nil {
		g.gameOverUI.Draw(screen)
	}
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return common.BaseWidth, common.BaseHeight
}
