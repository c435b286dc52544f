// Package app implements the main application loop. It owns the
// window, the renderer and the camera, feeds pointer events to the
// placement tool, and hosts the tool's draw handlers.
package app

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/socketforge/internal/catalog"
	"github.com/Faultbox/socketforge/internal/config"
	"github.com/Faultbox/socketforge/internal/engine/camera"
	"github.com/Faultbox/socketforge/internal/engine/input"
	"github.com/Faultbox/socketforge/internal/engine/picking"
	"github.com/Faultbox/socketforge/internal/engine/render"
	"github.com/Faultbox/socketforge/internal/engine/window"
	"github.com/Faultbox/socketforge/internal/logger"
	"github.com/Faultbox/socketforge/internal/sockets"
	"github.com/Faultbox/socketforge/internal/tool"
	"github.com/Faultbox/socketforge/pkg/math"
)

// Vertical field of view in radians (45 degrees).
const fovY = 0.7853981634

// App is the running application.
type App struct {
	config    *config.Config
	running   bool
	window    *window.Window
	renderer  *render.Renderer
	instances *render.Instances
	input     *input.Input
	camera    *camera.OrbitCamera
	tool      *tool.Tool

	// Cached per frame for picking and drawing.
	viewProj    math.Mat4
	invViewProj math.Mat4

	middleDown bool

	drawHandlers map[int]func()
	nextHandler  int
}

// New creates the application: window, GL renderer, catalog and tool.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		config:       cfg,
		drawHandlers: make(map[int]func()),
	}

	var err error
	a.window, err = window.New(window.Config{
		Title:      "SocketForge",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	// Renderer needs the GL context the window created.
	a.renderer, err = render.New()
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	mods, err := catalog.LoadFile(cfg.Catalog.Path)
	if err != nil {
		a.renderer.Close()
		a.window.Close()
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	logger.Info("catalog loaded",
		zap.String("path", cfg.Catalog.Path),
		zap.Int("modules", len(mods)),
	)

	a.instances = render.NewInstances(a.renderer)
	a.input = input.New()
	a.camera = camera.New()

	var rng *rand.Rand
	if cfg.Tool.Seed != 0 {
		rng = rand.New(rand.NewSource(cfg.Tool.Seed))
	} else {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	style := render.SocketStyle{
		SocketRadius:    cfg.Tool.SocketRadius,
		HighlightRadius: cfg.Tool.HighlightRadius,
		SocketColor:     cfg.Tool.SocketColor,
		HighlightColor:  cfg.Tool.HighlightColor,
	}

	a.tool = tool.New(mods, a.instances, tool.Options{
		PickRadius: cfg.Tool.PickRadius,
		Rand:       rng,
		Draw: func(root *sockets.Node) {
			a.renderer.DrawSockets(root, style)
		},
		Log: logger.Log,
	})

	if err := a.tool.Start(a); err != nil {
		a.renderer.Close()
		a.window.Close()
		return nil, fmt.Errorf("starting tool: %w", err)
	}

	return a, nil
}

// AddDrawHandler registers fn to run once per frame after the scene is
// drawn. The returned function unregisters it.
func (a *App) AddDrawHandler(fn func()) (func(), error) {
	id := a.nextHandler
	a.nextHandler++
	a.drawHandlers[id] = fn
	return func() {
		delete(a.drawHandlers, id)
	}, nil
}

// Run drives the main loop until the window closes or the tool is
// cancelled with escape.
func (a *App) Run() error {
	a.running = true
	logger.Info("entering main loop")

	for a.running {
		if a.input.Update() {
			break
		}

		a.updateMatrices()

		for _, ev := range a.input.Events() {
			a.handleEvent(ev)
		}

		a.render()
		a.window.SwapBuffers()
	}

	return nil
}

// Close releases all resources. New cleans up after itself on its own
// error paths, so Close is only called on a fully constructed App.
func (a *App) Close() {
	logger.Info("shutting down")

	a.tool.Cancel()
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}

// updateMatrices recomputes the view-projection matrix and its inverse
// for the current camera and window size.
func (a *App) updateMatrices() {
	proj := math.Perspective(fovY, a.window.Aspect(), 0.1, 500.0)
	a.viewProj = proj.Mul(a.camera.ViewMatrix())
	a.invViewProj = a.viewProj.InverseSafe()
}

func (a *App) handleEvent(ev input.Event) {
	switch ev.Type {
	case input.EventKeyDown:
		if ev.Key == sdl.SCANCODE_ESCAPE {
			a.tool.Handle(tool.Event{Kind: tool.EventCancel})
			a.running = false
		}

	case input.EventMouseDown:
		switch ev.Button {
		case input.ButtonMiddle:
			a.middleDown = true
		case input.ButtonLeft:
			a.tool.Handle(a.pointerEvent(tool.EventPrimaryDown, ev.MouseX, ev.MouseY))
		case input.ButtonRight:
			a.tool.Handle(a.pointerEvent(tool.EventSecondaryDown, ev.MouseX, ev.MouseY))
		}

	case input.EventMouseUp:
		if ev.Button == input.ButtonMiddle {
			a.middleDown = false
		}

	case input.EventMouseMove:
		if a.middleDown {
			if sdl.GetModState()&sdl.KMOD_SHIFT != 0 {
				a.camera.HandlePan(float32(ev.RelX), float32(ev.RelY))
			} else {
				a.camera.HandleDrag(float32(ev.RelX), float32(ev.RelY))
			}
			a.repickUnderPointer()
			return
		}
		a.tool.Handle(a.pointerEvent(tool.EventPointerMove, ev.MouseX, ev.MouseY))

	case input.EventMouseWheel:
		a.camera.HandleZoom(float32(ev.WheelY))
		a.repickUnderPointer()
	}
}

// repickUnderPointer refreshes the highlight after a camera change
// moves the scene under a stationary pointer.
func (a *App) repickUnderPointer() {
	a.updateMatrices()
	x, y := a.input.MousePosition()
	a.tool.Handle(a.pointerEvent(tool.EventPointerMove, x, y))
}

// pointerEvent builds a tool event carrying the camera position and
// the world-space ray through the given pixel.
func (a *App) pointerEvent(kind tool.EventKind, x, y int) tool.Event {
	w, h := a.window.Size()
	ray := picking.ScreenToRay(float32(x), float32(y), float32(w), float32(h), a.invViewProj)
	return tool.Event{
		Kind:   kind,
		Camera: a.camera.Position(),
		Ray:    ray.Direction,
	}
}

// render draws one frame: the placed instances, then every registered
// draw handler (the tool draws its sockets through one of these).
func (a *App) render() {
	w, h := a.window.Size()
	a.renderer.BeginFrame(a.viewProj, w, h)

	a.instances.Draw()

	for _, fn := range a.drawHandlers {
		fn()
	}
}
