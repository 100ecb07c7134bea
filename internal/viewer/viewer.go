// Package viewer runs the interactive terrain viewer: an SDL2 window with
// an OpenGL surface driven by the engine.
package viewer

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/isoterrain/internal/config"
	"github.com/Faultbox/isoterrain/internal/engine"
	"github.com/Faultbox/isoterrain/internal/engine/debug"
	"github.com/Faultbox/isoterrain/internal/engine/glrender"
	"github.com/Faultbox/isoterrain/internal/engine/input"
	"github.com/Faultbox/isoterrain/internal/engine/window"
	"github.com/Faultbox/isoterrain/internal/logger"
	"github.com/Faultbox/isoterrain/pkg/math"
)

const windowTitle = "isoterrain"

// Viewer is the interactive application.
type Viewer struct {
	cfg     *config.Config
	running bool

	window  *window.Window
	surface *glrender.Surface
	input   *input.Input
	engine  *engine.Engine
	capture *debug.ScreenshotCapture
	name    string

	log *zap.Logger
}

// New creates the window, GL surface and engine, and loads the configured terrain.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		cfg:     cfg,
		capture: debug.NewScreenshotCapture(cfg.Debug.CaptureDir, "isoterrain"),
		name:    engine.TerrainName(cfg.Terrain),
		log:     logger.Named("viewer"),
	}

	hf, err := engine.LoadTerrain(cfg.Terrain)
	if err != nil {
		return nil, err
	}

	// Window first, since the OpenGL context must exist before the surface.
	v.window, err = window.New(window.Config{
		Title:      windowTitle,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	}, logger.Named("window"))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	w, h := v.window.GetDrawableSize()
	v.surface, err = glrender.New(w, h, logger.Named("glrender"))
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create surface: %w", err)
	}

	v.engine = engine.New(v.surface, engine.OptionsFromConfig(cfg, logger.Named("engine")))
	v.engine.SetTerrain(hf)
	lo, hi := hf.Range()
	v.engine.SetObserver(math.V3(float64(hf.Width())/2, float64(hf.Height())/2, (lo+hi)/2))
	v.engine.SetDebug(cfg.Debug.Enabled)

	v.input = input.New(v.engine.Pointer())

	v.log.Info("viewer initialized",
		zap.String("terrain", v.name),
		zap.Int("columns", hf.Width()),
		zap.Int("rows", hf.Height()))
	return v, nil
}

// Run starts the main loop and returns when the window closes.
func (v *Viewer) Run() error {
	v.running = true

	var frameBudget time.Duration
	if v.cfg.Graphics.FPSLimit > 0 {
		frameBudget = time.Second / time.Duration(v.cfg.Graphics.FPSLimit)
	}

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting main loop")

	for v.running {
		now := time.Now()
		dt := now.Sub(lastTime)
		lastTime = now

		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents()

		stats := v.engine.Tick(dt)
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.window.SetTitle(fmt.Sprintf("%s - %s - %d fps - %d/%d tiles - zoom %.2f",
				windowTitle, v.name, frameCount, stats.Visible, stats.Total, v.engine.Zoom()))
			v.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.Duration("dt", dt),
				zap.Int("visible", stats.Visible),
				zap.Int("textures", v.surface.Textures()))
			frameCount = 0
			fpsTimer = time.Now()
		}

		if frameBudget > 0 {
			if spent := time.Since(now); spent < frameBudget {
				time.Sleep(frameBudget - spent)
			}
		}
	}

	return nil
}

func (v *Viewer) handleEvents() {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			w, h := v.window.GetDrawableSize()
			v.surface.Resize(w, h)
			v.engine.Resize(float64(w), float64(h))

		case input.EventMouseWheel:
			v.engine.SetZoom(v.engine.Zoom() + float64(event.Wheel)*v.cfg.Viewport.ZoomStep)

		case input.EventKeyDown:
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				v.running = false
			case sdl.SCANCODE_F3:
				v.engine.SetDebug(!v.engine.Debug())
			case sdl.SCANCODE_F12:
				v.screenshot()
			case sdl.SCANCODE_0:
				v.engine.SetZoom(1)
			}
		}
	}
}

func (v *Viewer) screenshot() {
	size := v.surface.Size()
	name, err := v.capture.CaptureFromPixels(v.surface.ReadPixels(), int(size.X), int(size.Y))
	if err != nil {
		v.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("file", name))
}

// Close releases the engine, surface and window.
func (v *Viewer) Close() error {
	v.log.Info("closing viewer")

	var err error
	if v.engine != nil {
		err = multierr.Append(err, v.engine.Close())
	}
	if v.window != nil {
		v.window.Close()
	}
	return err
}
