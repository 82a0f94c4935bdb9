package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/aerostudio/aerocalc/internal/aero"
	"github.com/aerostudio/aerocalc/internal/config"
	"github.com/aerostudio/aerocalc/internal/engine/debug"
	"github.com/aerostudio/aerocalc/internal/engine/gpu"
	"github.com/aerostudio/aerocalc/internal/engine/input"
	"github.com/aerostudio/aerocalc/internal/engine/scene"
	"github.com/aerostudio/aerocalc/internal/engine/window"
	"github.com/aerostudio/aerocalc/internal/logger"
	"github.com/aerostudio/aerocalc/internal/project"
)

const defaultPlaneSize float32 = 5.0

// Editor wires the window, input pump, scene controller and renderer
// into the main loop.
type Editor struct {
	cfg  *config.Config
	proj *project.Project

	win      *window.Window
	input    *input.Input
	buffers  *gpu.MeshBuffer
	ctrl     *scene.Controller
	renderer *scene.Renderer
	shots    *debug.ScreenshotCapture
}

// NewEditor creates the window, GL context and scene.
func NewEditor(cfg *config.Config, proj *project.Project) (*Editor, error) {
	win, err := window.New(window.Config{
		Title:      fmt.Sprintf("AeroCalc — %s", proj.Descriptor.Name),
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, err
	}

	if err := gl.Init(); err != nil {
		win.Close()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	renderer, err := scene.NewRenderer(cfg.Viewport.GridSize, cfg.Viewport.GridSpacing)
	if err != nil {
		win.Close()
		return nil, err
	}

	buffers := &gpu.MeshBuffer{}
	ctrl := scene.NewController(buffers, cfg.Graphics.Width, cfg.Graphics.Height)
	ctrl.ShowGrid = cfg.Viewport.ShowGrid
	ctrl.ShowAxes = cfg.Viewport.ShowAxes
	ctrl.Camera.MinZoom = cfg.Viewport.MinZoom
	ctrl.Camera.MaxZoom = cfg.Viewport.MaxZoom
	ctrl.Camera.ZoomSpeed = cfg.Viewport.ZoomSpeed
	ctrl.SetFlow(aero.FlowConditions{
		AirDensity:      cfg.Flow.AirDensity,
		Temperature:     cfg.Flow.Temperature,
		Velocity:        cfg.Flow.Velocity,
		AngleOfAttack:   cfg.Flow.AngleOfAttack,
		TurbulenceModel: cfg.Flow.TurbulenceModel,
	})

	ed := &Editor{
		cfg:      cfg,
		proj:     proj,
		win:      win,
		input:    input.New(),
		buffers:  buffers,
		ctrl:     ctrl,
		renderer: renderer,
		shots:    debug.NewScreenshotCapture(filepath.Join(proj.Path, "screenshots"), "viewport"),
	}
	ed.restoreSession()
	return ed, nil
}

// Run drives the event loop until quit.
func (e *Editor) Run() error {
	for {
		if quit := e.input.Update(); quit {
			return nil
		}

		for _, ev := range e.input.Events() {
			e.handleEvent(ev)
		}

		w, h := e.win.DrawableSize()
		if err := e.renderer.RenderFrame(e.ctrl, e.buffers, w, h); err != nil {
			return err
		}
		e.win.SwapBuffers()
	}
}

func (e *Editor) handleEvent(ev input.Event) {
	switch ev.Type {
	case input.EventWindowResize:
		e.ctrl.Resize(ev.Width, ev.Height)

	case input.EventMouseDown:
		if btn, ok := sceneButton(ev.Button); ok {
			e.ctrl.OnPointerDown(float32(ev.MouseX), float32(ev.MouseY), btn)
		}

	case input.EventMouseUp:
		if btn, ok := sceneButton(ev.Button); ok {
			e.ctrl.OnPointerUp(float32(ev.MouseX), float32(ev.MouseY), btn)
		}

	case input.EventMouseMove:
		left := ev.ButtonState&sdl.ButtonLMask() != 0
		middle := ev.ButtonState&sdl.ButtonMMask() != 0
		e.ctrl.OnPointerMove(
			float32(ev.MouseX), float32(ev.MouseY),
			float32(ev.DeltaX), float32(ev.DeltaY),
			left, middle,
		)

	case input.EventMouseWheel:
		e.ctrl.OnScroll(ev.WheelY)

	case input.EventKeyDown:
		e.handleKey(ev.Key)
	}
}

func (e *Editor) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_O:
		e.openMeshDialog()
	case sdl.SCANCODE_P:
		if err := e.ctrl.CreateWindPlane(defaultPlaneSize, defaultPlaneSize); err != nil {
			logger.Warn("wind plane", zap.Error(err))
		}
	case sdl.SCANCODE_DELETE:
		e.ctrl.RemoveWindPlane()
	case sdl.SCANCODE_G:
		e.ctrl.ShowGrid = !e.ctrl.ShowGrid
	case sdl.SCANCODE_X:
		e.ctrl.ShowAxes = !e.ctrl.ShowAxes
	case sdl.SCANCODE_R:
		e.ctrl.ResetView()
	case sdl.SCANCODE_F:
		e.computeForces()
	case sdl.SCANCODE_F12:
		e.captureScreenshot()
	case sdl.SCANCODE_ESCAPE:
		e.ctrl.ClearSelection()
	}
}

func (e *Editor) openMeshDialog() {
	path, err := dialog.File().
		Title("Open mesh").
		Filter("Wavefront OBJ", "obj").
		Load()
	if err != nil {
		if !errors.Is(err, dialog.ErrCancelled) {
			logger.Warn("open dialog", zap.Error(err))
		}
		return
	}

	if err := e.ctrl.LoadMesh(path); err != nil {
		logger.Error("mesh load failed", zap.String("path", path), zap.Error(err))
		dialog.Message("Could not load mesh:\n%v", err).Title("Load error").Error()
	}
}

func (e *Editor) computeForces() {
	forces, err := e.ctrl.ComputeForces()
	if err != nil {
		logger.Warn("force computation", zap.Error(err))
		return
	}
	e.win.SetTitle(fmt.Sprintf("AeroCalc — %s  |  L %.2f N  D %.2f N  M %.2f N·m",
		e.proj.Descriptor.Name, forces.Lift, forces.Drag, forces.Moment))
}

func (e *Editor) captureScreenshot() {
	w, h := e.win.DrawableSize()
	pixels := make([]byte, w*h*4)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))

	path, err := e.shots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

func (e *Editor) restoreSession() {
	var s scene.Session
	ok, err := e.proj.LoadSession(&s)
	if err != nil {
		logger.Warn("session restore failed", zap.Error(err))
		return
	}
	if ok {
		e.ctrl.ImportState(s)
	}
}

func (e *Editor) saveSession() {
	if err := e.proj.SaveSession(e.ctrl.ExportState()); err != nil {
		logger.Warn("session save failed", zap.Error(err))
	}
}

// Close persists the session and tears down GL resources in reverse
// creation order.
func (e *Editor) Close() {
	e.saveSession()
	e.ctrl.Close()
	e.renderer.Release()
	e.win.Close()
}

func sceneButton(b uint8) (scene.Button, bool) {
	switch b {
	case sdl.BUTTON_LEFT:
		return scene.ButtonLeft, true
	case sdl.BUTTON_MIDDLE:
		return scene.ButtonMiddle, true
	case sdl.BUTTON_RIGHT:
		return scene.ButtonRight, true
	}
	return 0, false
}
