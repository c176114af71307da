package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// IsModifierPressed reports whether any modifier key (Alt, Ctrl, Shift, Meta) is held.
func IsModifierPressed() bool {
	return ebiten.IsKeyPressed(ebiten.KeyAlt) ||
		ebiten.IsKeyPressed(ebiten.KeyControl) ||
		ebiten.IsKeyPressed(ebiten.KeyShift) ||
		ebiten.IsKeyPressed(ebiten.KeyMeta)
}

// BackPressed reports whether a back action (Esc, Backspace, mouse back) happened this frame.
func BackPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyEscape) ||
		inpututil.IsKeyJustPressed(ebiten.KeyBackspace) ||
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButton3)
}

// ReloadPressed reports whether R (without modifiers) was just pressed.
func ReloadPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyR) && !IsModifierPressed()
}

// Lerp for smooth animation
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
