package icon

import (
	"image"
	"image/color"
)

var (
	darkBG     = color.RGBA{R: 0x10, G: 0x10, B: 0x14, A: 0xFF}
	stripCol   = color.RGBA{R: 0x1C, G: 0x1C, B: 0x24, A: 0xFF}
	sprocket   = color.RGBA{R: 0x60, G: 0x60, B: 0x6C, A: 0xFF}
	posterCols = []color.RGBA{
		{R: 0x00, G: 0xA4, B: 0xDC, A: 0xFF}, // Jellyfin blue
		{R: 0xAA, G: 0x5C, B: 0xC3, A: 0xFF}, // purple accent
		{R: 0x00, G: 0x78, B: 0xA8, A: 0xFF},
	}
	motionCol = color.RGBA{R: 0x00, G: 0x52, B: 0x6E, A: 0x80} // half-transparent blue, premultiplied
)

// Generate returns 64x64 and 32x32 icon images for use with ebiten.SetWindowIcon.
func Generate() []image.Image {
	return []image.Image{
		generate(64),
		generate(32),
	}
}

func generate(size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	s := float64(size)

	fillRect(img, 0, 0, s, s, darkBG)
	drawStrip(img, s)
	return img
}

// drawStrip draws a film strip with three posters, the outer two cut by the
// icon edge so the strip reads as running past.
func drawStrip(img *image.RGBA, s float64) {
	stripY := s * 0.18
	stripH := s * 0.64
	fillRect(img, 0, stripY, s, stripH, stripCol)

	// Sprocket holes along both edges
	holeW := s * 0.07
	holeH := s * 0.06
	for x := s * 0.03; x < s; x += s * 0.14 {
		fillRoundedRect(img, x, stripY+s*0.03, holeW, holeH, s*0.015, sprocket)
		fillRoundedRect(img, x, stripY+stripH-s*0.03-holeH, holeW, holeH, s*0.015, sprocket)
	}

	// Posters
	posterW := s * 0.30
	posterH := s * 0.40
	posterY := stripY + (stripH-posterH)/2
	pitch := posterW + s*0.06
	startX := -posterW * 0.45
	for i, c := range posterCols {
		x := startX + float64(i)*pitch
		// motion trail to the right of each poster
		fillRect(img, x+posterW, posterY+posterH*0.35, s*0.06, posterH*0.30, motionCol)
		fillRoundedRect(img, x, posterY, posterW, posterH, s*0.03, c)
	}
}

func fillRect(img *image.RGBA, xf, yf, wf, hf float64, c color.Color) {
	bounds := img.Bounds()
	x0, y0 := max(int(xf), 0), max(int(yf), 0)
	x1, y1 := min(int(xf+wf), bounds.Max.X), min(int(yf+hf), bounds.Max.Y)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			blendPixel(img, x, y, c)
		}
	}
}

func fillRoundedRect(img *image.RGBA, xf, yf, wf, hf, r float64, c color.Color) {
	bounds := img.Bounds()
	x0, y0 := max(int(xf), 0), max(int(yf), 0)
	x1, y1 := min(int(xf+wf), bounds.Max.X-1), min(int(yf+hf), bounds.Max.Y-1)

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			fx, fy := float64(x), float64(y)
			// distance from the nearest corner center, zero outside the corner squares
			dx := max(xf+r-fx, fx-(xf+wf-r), 0)
			dy := max(yf+r-fy, fy-(yf+hf-r), 0)
			if dx*dx+dy*dy <= r*r {
				blendPixel(img, x, y, c)
			}
		}
	}
}

// blendPixel composites the premultiplied color c over the pixel at (x, y).
func blendPixel(img *image.RGBA, x, y int, c color.Color) {
	r0, g0, b0, a0 := c.RGBA()
	if a0 == 0 {
		return
	}
	if a0 == 0xFFFF {
		img.Set(x, y, c)
		return
	}

	existing := img.RGBAAt(x, y)
	inv := 0xFFFF - a0
	blend := func(src uint32, dst uint8) uint8 {
		return uint8((src + uint32(dst)*257*inv/0xFFFF) >> 8)
	}
	img.SetRGBA(x, y, color.RGBA{
		R: blend(r0, existing.R),
		G: blend(g0, existing.G),
		B: blend(b0, existing.B),
		A: 0xFF,
	})
}
