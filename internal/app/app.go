// Package app implements the viewer's main loop: it feeds pointer and
// keyboard input into the book, advances the simulation and draws it.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/folio/internal/assets"
	"github.com/Faultbox/folio/internal/book"
	"github.com/Faultbox/folio/internal/config"
	"github.com/Faultbox/folio/internal/engine/audio"
	"github.com/Faultbox/folio/internal/engine/camera"
	"github.com/Faultbox/folio/internal/engine/debug"
	"github.com/Faultbox/folio/internal/engine/input"
	"github.com/Faultbox/folio/internal/engine/renderer"
	"github.com/Faultbox/folio/internal/engine/scene"
	"github.com/Faultbox/folio/internal/engine/window"
	"github.com/Faultbox/folio/internal/logger"
)

// Background is the clear color behind the book.
var Background = book.Color{R: 0.93, G: 0.92, B: 0.9}

// App is the running viewer.
type App struct {
	cfg     *config.Config
	log     *zap.Logger
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	leaves   *renderer.LeafRenderer
	input    *input.Input
	camera   *camera.BookCamera
	assets   *assets.Manager
	book     *book.Book
	scene    *scene.Scene
	audio    *audio.Player
	shots    *debug.Screenshots
	light    renderer.Light

	hover     hover
	draws     []renderer.LeafDraw
	shoot     bool
	cancel    context.CancelFunc
	preloaded chan struct{}
	unsub     func()
}

// New opens the window and builds the book described by cfg.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg:   cfg,
		log:   logger.Named("app"),
		hover: newHover(),
	}
	a.log.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Int("pictures", len(cfg.Book.Pictures)),
	)

	var err error
	a.window, err = window.New(window.Config{
		Title:      "Folio",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		MSAA:       cfg.Graphics.MSAA,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer AFTER window, the GL context must exist.
	fbW, fbH := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{
		Width:      fbW,
		Height:     fbH,
		Background: Background,
		MSAA:       cfg.Graphics.MSAA > 0,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.assets = assets.NewManager(assets.Options{
		Dir:      cfg.Assets.Dir,
		MaxSize:  cfg.Assets.MaxSize,
		Workers:  cfg.Assets.Workers,
		Circular: cfg.CircularSurfaces(),
		Log:      logger.Named("assets"),
	})

	nav := book.NavigatorFunc(func(route string) {
		a.log.Info("navigate", zap.String("route", route))
	})
	a.book, err = book.New(cfg.BookSettings(),
		book.WithNavigator(nav),
		book.WithAssets(a.assets),
		book.WithLogger(logger.Named("book")),
	)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to build book: %w", err)
	}

	a.scene, err = scene.New(a.book)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.leaves, err = renderer.NewLeafRenderer(a.book.Geometry(), len(a.book.Leaves()))
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create leaf renderer: %w", err)
	}
	a.draws = make([]renderer.LeafDraw, len(a.book.Leaves()))

	winW, winH := a.window.GetSize()
	a.camera = camera.NewBookCamera(winW, winH)
	a.input = input.New()

	a.audio = newAudio(cfg.Audio, logger.Named("audio"))
	a.light = renderer.LightFromSun(cfg.Graphics.Light)
	a.shots = debug.NewScreenshots(cfg.Graphics.ScreenshotDir, "folio")

	last := a.book.Snapshot()
	a.window.SetTitle(Title(cfg.Book.PageNames, last))
	a.unsub = a.book.Subscribe(func(s book.Snapshot) {
		a.window.SetTitle(Title(cfg.Book.PageNames, s))
		if PageChanged(last, s) && a.audio.Initialized() {
			if err := a.audio.Play(audio.CueFlip); err != nil {
				a.log.Debug("flip cue", zap.Error(err))
			}
		}
		last = s
	})

	var ctx context.Context
	ctx, a.cancel = context.WithCancel(context.Background())
	a.preloaded = make(chan struct{})
	go func() {
		defer close(a.preloaded)
		if err := a.assets.Preload(ctx, book.Surfaces(cfg.BookSettings().Pages)); err != nil {
			a.log.Warn("preload incomplete", zap.Error(err))
		}
	}()

	a.log.Info("viewer initialized")
	return a, nil
}

// Run starts the main loop and returns when the window closes.
func (a *App) Run() error {
	a.running = true

	start := time.Now()
	last := time.Duration(0)
	frameCount := 0
	fpsTimer := time.Now()

	var budget time.Duration
	if !a.cfg.Graphics.VSync && a.cfg.Graphics.FPSLimit > 0 {
		budget = time.Second / time.Duration(a.cfg.Graphics.FPSLimit)
	}

	a.log.Info("starting main loop")

	for a.running {
		frameStart := time.Now()
		now := time.Since(start)
		dt := now - last
		last = now

		// 1. Process input
		if a.input.Update() {
			a.running = false
			break
		}
		a.handleEvents()

		// 2. Update
		a.assets.Poll(renderer.UploadTexture)
		a.camera.Update(dt.Seconds())
		a.book.Update(now, dt)
		a.scene.Pose()
		a.window.SetPointer(a.book.Highlighted())

		// 3. Render
		a.render()
		if a.shoot {
			a.shoot = false
			a.screenshot()
		}

		// 4. Present
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frameCount), zap.Duration("dt", dt))
			frameCount = 0
			fpsTimer = time.Now()
		}
		if budget > 0 {
			if spent := time.Since(frameStart); spent < budget {
				time.Sleep(budget - spent)
			}
		}
	}

	return nil
}

// Close releases resources in reverse order of creation.
func (a *App) Close() {
	a.log.Info("closing viewer")

	if a.cancel != nil {
		a.cancel()
		<-a.preloaded
	}
	if a.unsub != nil {
		a.unsub()
	}
	if a.audio != nil {
		a.audio.Close()
	}
	if a.assets != nil {
		a.assets.Wait()
		renderer.DeleteTextures(a.assets.Textures())
		a.assets.Close()
	}
	if a.leaves != nil {
		a.leaves.Close()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}

// newAudio prepares the page flip cue. Audio problems only cost the cue.
func newAudio(cfg config.AudioConfig, log *zap.Logger) *audio.Player {
	p := audio.New(cfg.Volume, log)
	if !cfg.Enabled {
		return p
	}
	if err := p.LoadFile(audio.CueFlip, cfg.FlipSound); err != nil {
		log.Warn("flip sound unavailable", zap.Error(err))
		return p
	}
	if err := p.Init(); err != nil {
		log.Warn("audio disabled", zap.Error(err))
	}
	return p
}

func (a *App) handleEvents() {
	for _, ev := range a.input.Events() {
		switch ev.Type {
		case input.EventWindowResize:
			a.camera.Resize(ev.Width, ev.Height)
			a.renderer.Resize(a.window.DrawableSize())
		case input.EventMouseMove:
			hits := a.scene.PickScreen(a.camera, float64(ev.MouseX), float64(ev.MouseY))
			a.hover.Move(a.book, hits)
		case input.EventMouseLeave:
			a.hover.Clear(a.book)
		case input.EventMouseDown:
			if ev.Button != 1 {
				continue
			}
			hits := a.scene.PickScreen(a.camera, float64(ev.MouseX), float64(ev.MouseY))
			a.log.Debug("click",
				zap.Int("hits", len(hits)),
				zap.Stringer("action", a.book.Evaluate(hits).Kind))
			a.book.Click(hits)
		case input.EventKeyDown:
			a.handleKey(ev.Key)
		}
	}
}

func (a *App) handleKey(k input.Key) {
	snap := a.book.Snapshot()
	if k == input.KeyScreenshot {
		a.shoot = true
		return
	}
	if k == input.KeyEscape {
		if snap.Overlay {
			a.book.SetOverlay(false)
			return
		}
		a.running = false
		return
	}
	if page, ok := input.PageFor(k, snap.Target, snap.Leaves); ok {
		a.book.SetTarget(page)
	}
}

func (a *App) screenshot() {
	pixels, w, h := a.renderer.ReadPixels()
	path, err := a.shots.SaveGL(pixels, w, h)
	if err != nil {
		a.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}

func (a *App) render() {
	a.renderer.Begin()
	for i, n := range scene.Order(a.book.Snapshot()) {
		l := a.book.Leaves()[n]
		pos, norm := a.scene.Leaf(n)
		a.draws[i] = renderer.LeafDraw{
			Model:     a.book.LeafTransform(n),
			Positions: pos,
			Normals:   norm,
			Materials: l.Materials,
		}
	}
	a.leaves.Draw(a.camera.ViewProjection(), a.camera.Position(), a.light, a.draws)
	a.renderer.End()
}
