package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var debugOverlayVisible bool

// DebugSource is implemented by screens that expose internal state to the
// debug overlay.
type DebugSource interface {
	DebugLines() []string
}

// ToggleDebugOverlay toggles the debug overlay on F12.
func ToggleDebugOverlay() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		debugOverlayVisible = !debugOverlayVisible
	}
}

// DrawDebugOverlay draws the debug overlay if visible. src may be nil.
func DrawDebugOverlay(screen *ebiten.Image, src Screen) {
	if !debugOverlayVisible {
		return
	}

	const (
		padX    = 16.0
		padY    = 12.0
		lineH   = 18.0
		marginR = 20.0
		marginT = 20.0
	)

	var lines []string
	if ds, ok := src.(DebugSource); ok {
		lines = ds.DebugLines()
	}

	// header + separator + body
	panelH := float64(2+max(len(lines), 1))*lineH + padY*2
	panelW := 420.0
	px := float64(screen.Bounds().Dx()) - panelW - marginR
	py := marginT

	vector.DrawFilledRect(screen, float32(px), float32(py), float32(panelW), float32(panelH), ColorOverlay, false)

	x := px + padX
	y := py + padY

	DrawText(screen, "Debug (F12 to close)", x, y, FontSizeSmall, ColorPrimary)
	y += lineH

	name := "(no screen)"
	if src != nil {
		name = src.Name()
	}
	DrawText(screen, "--- "+name+" ---", x, y, FontSizeSmall, ColorTextMuted)
	y += lineH

	if len(lines) == 0 {
		DrawText(screen, "(none)", x, y, FontSizeSmall, ColorTextSecondary)
		return
	}
	for _, line := range lines {
		DrawText(screen, line, x, y, FontSizeSmall, ColorText)
		y += lineH
	}
}
