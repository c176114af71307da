package app

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/depeter/couchreel/internal/config"
	"github.com/depeter/couchreel/internal/ui"
)

// Game implements ebiten.Game and manages the overall application.
type Game struct {
	Screens *ui.ScreenManager

	// Width and Height are the logical screen size reported by the last Layout call.
	Width, Height int
}

// NewGame creates the Game sized to the configured window.
func NewGame(cfg *config.Config) *Game {
	return &Game{
		Screens: ui.NewScreenManager(),
		Width:   cfg.UI.Width,
		Height:  cfg.UI.Height,
	}
}

func (g *Game) Update() error {
	// Layout runs before Update each tick; screens see size changes here so
	// they never resize mid-draw.
	g.Screens.Resize(g.Width, g.Height)

	// Alt+Enter toggles fullscreen
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) && ebiten.IsKeyPressed(ebiten.KeyAlt) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}

	// F12 toggles debug overlay
	ui.ToggleDebugOverlay()

	if err := g.Screens.Update(); err != nil {
		return err
	}
	if g.Screens.StackSize() == 0 {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(ui.ColorBackground)
	g.Screens.Draw(screen)
	ui.DrawDebugOverlay(screen, g.Screens.Current())
}

// Layout tracks the window size one to one, so a window resize becomes a
// viewport-size change for the reel.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		g.Width, g.Height = outsideWidth, outsideHeight
	}
	return g.Width, g.Height
}
