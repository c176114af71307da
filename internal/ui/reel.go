package ui

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/depeter/couchreel/internal/cache"
	"github.com/depeter/couchreel/internal/config"
	"github.com/depeter/couchreel/internal/reel"
	"github.com/depeter/couchreel/internal/slider"
	"github.com/depeter/couchreel/internal/source"
)

// ReelScreen shows the items of a source as an endlessly drifting poster
// strip that can be dragged and hovered.
type ReelScreen struct {
	src      source.Source
	imgCache *cache.ImageCache
	cfg      config.ReelConfig

	sched   *slider.Scheduler
	layout  *reel.Layout
	tracker reel.Tracker
	slider  *slider.Slider[source.Item]

	width, height int
	entered       bool

	// poster textures, game goroutine only
	posters map[string]*ebiten.Image
	art     *reel.Posters

	hoverIdx   int
	hoverAlpha float64

	// cancelled on exit; scopes the source and poster loads
	ctx    context.Context
	cancel context.CancelFunc

	// fields below are shared with loader goroutines
	mu       sync.Mutex
	gen      int
	loading  bool
	loaded   bool
	loadErr  error
	incoming []source.Item
}

func NewReelScreen(src source.Source, imgCache *cache.ImageCache, cfg config.ReelConfig) *ReelScreen {
	rs := &ReelScreen{
		src:      src,
		imgCache: imgCache,
		cfg:      cfg,
		sched:    slider.NewScheduler(time.Now()),
		posters:  make(map[string]*ebiten.Image),
		art:      reel.NewPosters(),
		hoverIdx: -1,
	}
	rs.layout = &reel.Layout{
		ItemWidth: float64(cfg.ItemWidth),
		Gap:       cfg.Gap,
		Rendered: func() int {
			if rs.slider == nil {
				return 0
			}
			return len(rs.slider.Content())
		},
		Base: func() int {
			if rs.slider == nil {
				return 0
			}
			return len(rs.slider.Items())
		},
	}
	return rs
}

func (rs *ReelScreen) Name() string { return "Reel" }

func (rs *ReelScreen) OnEnter() {
	rs.entered = true
	rs.ctx, rs.cancel = context.WithCancel(context.Background())
	if rs.slider != nil {
		rs.slider.Mount()
	}

	rs.mu.Lock()
	needLoad := !rs.loaded && !rs.loading
	rs.mu.Unlock()
	if needLoad {
		rs.load()
	}
}

func (rs *ReelScreen) OnExit() {
	rs.entered = false
	if rs.slider != nil {
		rs.slider.Unmount()
	}
	rs.tracker.Reset()
	if rs.cancel != nil {
		rs.cancel()
	}

	// Drop any in-flight load; it is restarted on the next OnEnter.
	rs.mu.Lock()
	if rs.loading {
		rs.gen++
		rs.loading = false
	}
	rs.mu.Unlock()
}

// Resize lays the strip out for a window of the given logical size and
// forwards the change to the slider.
func (rs *ReelScreen) Resize(width, height int) {
	rs.width, rs.height = width, height

	cardH := float64(rs.cfg.ItemHeight)
	stripH := cardH + CaptionHeight + PosterFocusPad*2
	top := (float64(height) - stripH) / 2
	rs.layout.Viewport = reel.Rect{
		X: SectionPadding,
		Y: max(top, SectionPadding+SectionTitleH),
		W: float64(width) - SectionPadding*2,
		H: stripH,
	}
	rs.tracker.Bounds = rs.layout.Viewport

	if rs.slider != nil {
		rs.slider.Resize(slider.ViewportSize{Width: width, Height: height})
	}
}

func (rs *ReelScreen) load() {
	rs.mu.Lock()
	rs.gen++
	gen := rs.gen
	rs.loading = true
	rs.loadErr = nil
	rs.mu.Unlock()

	ctx := rs.ctx
	go func() {
		items, err := rs.src.Load(ctx)

		rs.mu.Lock()
		defer rs.mu.Unlock()
		if gen != rs.gen {
			return
		}
		rs.loading = false
		if err != nil {
			log.Printf("Reel: load from %s failed: %v", rs.src.Name(), err)
			rs.loadErr = err
			return
		}
		log.Printf("Reel: loaded %d items from %s", len(items), rs.src.Name())
		rs.incoming = items
		rs.loaded = true
	}()
}

// install hands freshly loaded items to the slider, creating it on first use.
func (rs *ReelScreen) install(items []source.Item) error {
	if rs.slider != nil {
		if err := rs.slider.SetItems(items); err != nil {
			return err
		}
		rs.requestPosters(items)
		return nil
	}

	s, err := slider.New(slider.Config{
		Gap:          rs.cfg.Gap,
		PauseOnHover: rs.cfg.PauseOnHover,
		Speed:        rs.cfg.Speed,
		ResumeDelay:  rs.cfg.ResumeDelay(),
	}, items, rs.layout, rs.sched)
	if err != nil {
		return fmt.Errorf("create slider: %w", err)
	}
	s.OnLayout = func(replicas int) {
		log.Printf("Reel: %d replicas per side, %d cards rendered", replicas, len(s.Content()))
	}
	rs.slider = s
	if rs.width > 0 && rs.height > 0 {
		s.Resize(slider.ViewportSize{Width: rs.width, Height: rs.height})
	}
	if rs.entered {
		s.Mount()
	}
	rs.requestPosters(items)
	return nil
}

// requestPosters starts loads for posters that have no texture yet. Loads
// are scoped to the screen's context, so leaving the screen cancels the ones
// still waiting for a fetch slot.
func (rs *ReelScreen) requestPosters(items []source.Item) {
	for _, item := range items {
		url := item.ImageURL
		if rs.posters[url] != nil || !rs.art.Request(url) {
			continue
		}

		// Also check if already cached
		if img := rs.imgCache.Get(url); img != nil {
			rs.posters[url] = ebiten.NewImageFromImage(img)
			continue
		}
		rs.imgCache.LoadAsync(rs.ctx, url, func(img image.Image, err error) {
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("Reel: poster %s: %v", url, err)
			}
			rs.art.Done(url, img, err)
		})
	}
}

// promotePosters turns decoded images into textures and re-requests posters
// whose loads were cancelled. Texture creation must happen on the game
// goroutine.
func (rs *ReelScreen) promotePosters() {
	decoded, retry := rs.art.Drain()
	for url, img := range decoded {
		rs.posters[url] = ebiten.NewImageFromImage(img)
	}
	if retry && rs.slider != nil {
		rs.requestPosters(rs.slider.Items())
	}
}

func (rs *ReelScreen) Update() (*ScreenTransition, error) {
	if BackPressed() {
		return &ScreenTransition{Type: TransitionPop}, nil
	}

	rs.mu.Lock()
	incoming := rs.incoming
	rs.incoming = nil
	busy := rs.loading
	rs.mu.Unlock()

	if ReloadPressed() && !busy {
		rs.mu.Lock()
		rs.loaded = false
		rs.mu.Unlock()
		// decoded copies are only kept until they become textures; failed
		// posters get another try with the reloaded items
		rs.imgCache.Clear()
		rs.art.Reset()
		rs.load()
	}

	if incoming != nil {
		if err := rs.install(incoming); err != nil {
			log.Printf("Reel: %v", err)
			rs.mu.Lock()
			rs.loadErr = err
			rs.mu.Unlock()
		}
	}
	rs.promotePosters()

	if rs.slider != nil {
		rs.tracker.Update(rs.sample(), rs.slider)
	}
	rs.sched.Step(time.Now())

	rs.updateHover()
	return nil, nil
}

// sample reads this frame's pointer state from ebiten.
func (rs *ReelScreen) sample() reel.Sample {
	cx, cy := ebiten.CursorPosition()
	s := reel.Sample{
		MouseDown:   ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		CursorX:     float64(cx),
		CursorY:     float64(cy),
		CursorValid: cx >= 0 && cy >= 0 && cx < rs.width && cy < rs.height,
	}
	for _, id := range ebiten.AppendTouchIDs(nil) {
		x, y := ebiten.TouchPosition(id)
		s.Touches = append(s.Touches, reel.Touch{ID: int(id), X: float64(x), Y: float64(y)})
	}
	return s
}

func (rs *ReelScreen) updateHover() {
	target := 0.0
	if rs.slider != nil && rs.tracker.Hovering() && !rs.tracker.Dragging() {
		cx, _ := ebiten.CursorPosition()
		if i := rs.layout.ItemAt(float64(cx), rs.slider.Offset()); i >= 0 {
			if i != rs.hoverIdx {
				rs.hoverAlpha = 0
			}
			rs.hoverIdx = i
			target = 1
		}
	}
	rs.hoverAlpha = Lerp(rs.hoverAlpha, target, FocusAnimSpeed)
	if target == 0 && rs.hoverAlpha < 0.01 {
		rs.hoverIdx = -1
	}
}

func (rs *ReelScreen) Draw(dst *ebiten.Image) {
	vp := rs.layout.Viewport
	DrawText(dst, rs.heading(), vp.X, vp.Y-SectionTitleH, FontSizeHeading, ColorText)

	rs.mu.Lock()
	loading, loadErr := rs.loading, rs.loadErr
	rs.mu.Unlock()

	cx, cy := float64(rs.width)/2, float64(rs.height)/2
	if rs.slider == nil {
		switch {
		case loadErr != nil:
			DrawTextCentered(dst, "Failed to load: "+loadErr.Error(), cx, cy, FontSizeBody, ColorError)
			DrawTextCentered(dst, "Press R to retry", cx, cy+FontSizeBody*2, FontSizeSmall, ColorTextMuted)
		case loading:
			DrawTextCentered(dst, "Loading...", cx, cy, FontSizeTitle, ColorTextSecondary)
		}
		return
	}

	rs.drawStrip(dst)

	if status := rs.status(); status != "" {
		DrawText(dst, status, vp.X, vp.Y+vp.H+8, FontSizeSmall, ColorTextMuted)
	}
	if loadErr != nil {
		DrawText(dst, loadErr.Error(), vp.X, vp.Y+vp.H+8+FontSizeSmall*2, FontSizeSmall, ColorError)
	}
}

func (rs *ReelScreen) heading() string {
	if rs.slider == nil {
		return "CouchReel"
	}
	return fmt.Sprintf("CouchReel · %s · %d items", rs.src.Name(), len(rs.slider.Items()))
}

func (rs *ReelScreen) status() string {
	s := rs.slider
	switch {
	case s.Dragging():
		return "Dragging"
	case s.ResumePending():
		return "Resuming shortly"
	case s.Paused() != 0:
		return "Paused (" + s.Paused().String() + ")"
	}
	return ""
}

func (rs *ReelScreen) drawStrip(dst *ebiten.Image) {
	vp := rs.layout.Viewport
	if vp.W <= 0 || vp.H <= 0 {
		return
	}
	clip := image.Rect(int(vp.X), int(vp.Y), int(vp.X+vp.W), int(vp.Y+vp.H))
	strip, ok := dst.SubImage(clip).(*ebiten.Image)
	if !ok {
		return
	}

	offset := rs.slider.Offset()
	content := rs.slider.Content()
	first, last := rs.layout.Visible(offset)

	w := rs.layout.ItemWidth
	h := float64(rs.cfg.ItemHeight)
	iy := vp.Y + PosterFocusPad

	for i := first; i < last; i++ {
		item := content[i].Item
		ix := rs.layout.ItemX(i, offset)

		if i == rs.hoverIdx && rs.hoverAlpha > 0.01 {
			clr := fade(ColorFocusBorder, rs.hoverAlpha)
			vector.DrawFilledRect(strip,
				float32(ix-PosterFocusPad), float32(iy-PosterFocusPad),
				float32(w+PosterFocusPad*2), float32(h+PosterFocusPad*2),
				clr, false)
		}

		if img := rs.posters[item.ImageURL]; img != nil {
			op := &ebiten.DrawImageOptions{}
			bounds := img.Bounds()
			op.GeoM.Scale(w/float64(bounds.Dx()), h/float64(bounds.Dy()))
			op.GeoM.Translate(ix, iy)
			op.Filter = ebiten.FilterLinear
			strip.DrawImage(img, op)
		} else {
			vector.DrawFilledRect(strip, float32(ix), float32(iy), float32(w), float32(h), ColorSurface, false)
			DrawTextCentered(strip, truncateText(item.Title, w-16, FontSizeBody), ix+w/2, iy+h/2, FontSizeBody, ColorTextMuted)
		}

		titleColor := ColorTextSecondary
		if i == rs.hoverIdx {
			titleColor = ColorText
		}
		DrawText(strip, truncateText(item.Title, w, FontSizeSmall), ix, iy+h+6, FontSizeSmall, titleColor)
		if item.Subtitle != "" {
			DrawText(strip, truncateText(item.Subtitle, w, FontSizeCaption), ix, iy+h+8+FontSizeSmall, FontSizeCaption, ColorTextMuted)
		}
	}
}

// fade scales a premultiplied color by a.
func fade(c color.RGBA, a float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * a),
	}
}

// DebugLines reports engine state for the F12 overlay.
func (rs *ReelScreen) DebugLines() []string {
	lines := []string{
		fmt.Sprintf("source: %s", rs.src.Name()),
		fmt.Sprintf("window: %dx%d  viewport: %.0f", rs.width, rs.height, rs.layout.ViewportWidth()),
		fmt.Sprintf("scheduler: %d frames, %d timers", rs.sched.PendingFrames(), rs.sched.PendingTimers()),
	}
	s := rs.slider
	if s == nil {
		return append(lines, "slider: not created")
	}
	first, last := rs.layout.Visible(s.Offset())
	return append(lines,
		fmt.Sprintf("offset: %.1f", s.Offset()),
		fmt.Sprintf("replicas: %d per side, %d rendered", s.Replicas(), len(s.Content())),
		fmt.Sprintf("base: %.0f  track: %.0f", rs.layout.BaseWidth(), rs.layout.TrackWidth()),
		fmt.Sprintf("visible: [%d, %d)", first, last),
		fmt.Sprintf("running: %v  paused: %s", s.Running(), s.Paused()),
		fmt.Sprintf("dragging: %v  resume pending: %v", s.Dragging(), s.ResumePending()),
		fmt.Sprintf("posters: %d loaded, %d failed", len(rs.posters), rs.art.Failed()),
	)
}
