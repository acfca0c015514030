//go:build ebiten

package app

import (
	"fmt"
	"log/slog"

	"bigmap/internal/core"
	"bigmap/internal/pool"
	"bigmap/internal/render"
	"bigmap/internal/screens"
	"bigmap/internal/ui"
	"bigmap/internal/viewport"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game adapts the screen manager to the ebiten.Game interface. Dragging the
// map with the left mouse button pans it; releasing moves the anchor.
type Game struct {
	mgr     *screens.Manager
	view    *viewport.Controller
	layer   *render.SpriteLayer
	hud     *ui.HUD
	overlay *ui.Overlay
	cam     render.Camera
	logger  *slog.Logger

	width    int
	height   int
	hudWidth int
}

// New builds the pools, the screen manager and the viewport for mapCfg and
// opens the map on its start screen.
func New(mapCfg core.Config, cfg *Config, logger *slog.Logger) (*Game, error) {
	geom, err := core.NewGeometry(mapCfg)
	if err != nil {
		return nil, err
	}
	scale := cfg.Scale
	if scale <= 0 {
		scale = 1
	}

	tile := int(geom.CellWidth*float64(scale)) - 2
	layer := render.NewSpriteLayer(render.NewCellTemplate(tile, tile))
	handles := pool.NewHandlePool(layer.Factory(), pool.WithName("handles"), pool.WithLogger(logger))
	data := pool.NewDataPool[core.CellData](pool.WithName("data"), pool.WithLogger(logger))
	mgr := screens.New(geom, handles, data, screens.WithLogger(logger), screens.WithSeed(mapCfg.Seed))

	start := mapCfg.Start()
	if err := mgr.InitializeAt(start, core.Vec3{}); err != nil {
		return nil, fmt.Errorf("opening map at %v: %w", start, err)
	}

	g := &Game{
		mgr:      mgr,
		view:     viewport.New(geom, mgr, start, logger),
		layer:    layer,
		overlay:  ui.NewOverlay(mgr),
		logger:   logger,
		width:    cfg.Width,
		height:   cfg.Height,
		hudWidth: cfg.HUDWidth,
	}
	g.cam = render.Camera{Scale: float64(scale), Width: g.width, Height: g.height}
	g.hud = ui.NewHUD(mgr, "Big map", cfg.HUDWidth)
	g.hud.AddButton("Home", g.Home)
	g.hud.AddButton("Labels", layer.ToggleLabels)
	return g, nil
}

// Home pans back to the start screen.
func (g *Game) Home() {
	if _, err := g.view.Home(); err != nil {
		g.logger.Error("home failed", "err", err)
	}
}

// Update handles input for the frame.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.Home()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		g.layer.ToggleLabels()
	}

	g.overlay.Update()
	g.hud.Update(g.width)
	g.updateDrag()
	return nil
}

func (g *Game) updateDrag() {
	mx, my := ebiten.CursorPosition()
	pointer := g.cam.ScreenToWorld(float64(mx), float64(my))

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && !g.hud.Contains(mx, my) {
		g.view.Press(pointer)
	}
	if g.view.Dragging() && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		g.view.Drag(pointer)
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		if _, _, err := g.view.Release(); err != nil {
			g.logger.Error("drag release failed", "err", err)
		}
	}
}

// Draw renders the live cells, the overlay and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	offset := g.view.Offset()
	g.layer.Draw(screen, g.cam, offset)
	g.overlay.Draw(screen, g.cam, offset)
	g.hud.Draw(screen, g.width)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width + g.hudWidth, g.height
}
