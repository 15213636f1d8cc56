package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hajimehoshi/ebiten/v2/audio"

	"gones/internal/cartridge"
	"gones/internal/graphics"
	"gones/internal/system"
)

// ntscCyclesPerFrame is the NTSC CPU-cycle budget for one 60 Hz video
// frame (29780.5 cycles/frame, rounded as the teacher's emulator.go
// does); palCyclesPerFrame is the larger budget of PAL's slower refresh.
const (
	ntscCyclesPerFrame = 29781
	palCyclesPerFrame  = 33248
)

// Application owns one loaded ROM's running System plus the host-side
// graphics backend, input state and audio player that drive it — the
// "external collaborator" layer spec.md §1 deliberately keeps outside
// the emulation core.
type Application struct {
	config *Config

	sys *system.System
	romPath string
	prog    *cartridge.Program

	backend graphics.Backend
	window  graphics.Window
	video   *graphics.VideoProcessor
	player  *audio.Player

	keys keyState

	cancel context.CancelFunc
}

// NewApplication loads configPath (writing defaults if it doesn't
// exist) and initializes the graphics backend named by the config.
func NewApplication(configPath string) (*Application, error) {
	cfg := NewConfig()
	if configPath != "" {
		if err := cfg.LoadFromFile(configPath); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	app := &Application{config: cfg}
	if err := app.initGraphics(); err != nil {
		return nil, err
	}
	return app, nil
}

func (app *Application) initGraphics() error {
	backendType := graphics.BackendType(app.config.Video.Backend)
	if app.config.Emulation.TestMode {
		backendType = graphics.BackendHeadless
	}

	backend, err := graphics.CreateBackend(backendType)
	if err != nil {
		return fmt.Errorf("create graphics backend: %w", err)
	}

	gcfg := graphics.Config{
		WindowTitle:  "gones",
		WindowWidth:  app.config.Window.Width,
		WindowHeight: app.config.Window.Height,
		Fullscreen:   app.config.Window.Fullscreen,
		VSync:        app.config.Video.VSync,
		Filter:       app.config.Video.Filter,
		AspectRatio:  app.config.Video.AspectRatio,
		Headless:     backendType == graphics.BackendHeadless,
		Debug:        app.config.Debug.EnableLogging,
	}

	if err := backend.Initialize(gcfg); err != nil {
		if backendType != graphics.BackendHeadless {
			// no display available — fall back rather than fail outright.
			backend, err = graphics.CreateBackend(graphics.BackendHeadless)
			if err != nil {
				return fmt.Errorf("create fallback headless backend: %w", err)
			}
			gcfg.Headless = true
			if err := backend.Initialize(gcfg); err != nil {
				return fmt.Errorf("initialize fallback headless backend: %w", err)
			}
		} else {
			return fmt.Errorf("initialize graphics backend: %w", err)
		}
	}
	app.backend = backend

	if !backend.IsHeadless() {
		window, err := backend.CreateWindow(gcfg.WindowTitle, gcfg.WindowWidth, gcfg.WindowHeight)
		if err != nil {
			return fmt.Errorf("create window: %w", err)
		}
		app.window = window
	}

	app.video = graphics.NewVideoProcessor(app.config.Video.Brightness, app.config.Video.Contrast, app.config.Video.Saturation)
	return nil
}

// LoadROM parses romPath, restores its battery-backed save if present,
// and builds a fresh System wired to this Application's input/audio/
// video hooks.
func (app *Application) LoadROM(romPath string) error {
	f, err := os.Open(romPath)
	if err != nil {
		return fmt.Errorf("open rom: %w", err)
	}
	defer f.Close()

	prog, err := cartridge.Load(f)
	if err != nil {
		return fmt.Errorf("load rom: %w", err)
	}

	savePath := savePathFor(app.config.Paths.SaveData, romPath)
	if err := loadSaveData(prog, savePath); err != nil {
		return err
	}

	hooks := system.HostHooks{
		PollP1: app.keys.Poll1,
		PollP2: app.keys.Poll2,
	}
	if app.window != nil {
		hooks.FrameReady = app.presentFrame
	}

	sys, err := system.New(prog, hooks)
	if err != nil {
		return fmt.Errorf("initialize system: %w", err)
	}

	app.sys = sys
	app.prog = prog
	app.romPath = romPath

	if app.window != nil {
		app.window.SetTitle(fmt.Sprintf("gones - %s", filepath.Base(romPath)))
	}
	if app.config.Audio.Enabled {
		player, err := startAudio(sys.APU.Ring(), app.config.Audio.SampleRate, app.config.Audio.Volume)
		if err != nil {
			return fmt.Errorf("start audio: %w", err)
		}
		app.player = player
	}
	return nil
}

func (app *Application) presentFrame(frame *[256 * 240]uint32) {
	if app.window == nil {
		return
	}
	processed := app.video.ProcessFrame(*frame)
	app.window.RenderFrame(processed)
}

// Run drives the loaded ROM until the window closes (or, in test-mode/
// headless runs, until ctx is cancelled). For headless/terminal
// backends the emulation loop runs as a goroutine under an
// errgroup.Group; the ebiten path runs the game loop on the calling
// goroutine and steps the System from its update callback. The audio
// player pulls from the APU ring on its own and is not managed by Run.
func (app *Application) Run(ctx context.Context) error {
	if app.sys == nil {
		return fmt.Errorf("no ROM loaded")
	}

	ctx, cancel := context.WithCancel(ctx)
	app.cancel = cancel
	g, ctx := errgroup.WithContext(ctx)

	if ebitengineWindow, ok := graphics.AsEbitengineWindow(app.window); ok {
		ebitengineWindow.SetEmulatorUpdateFunc(func() error {
			app.pumpInput()
			app.sys.Step()
			if app.sys.Halted() {
				cancel()
			}
			if ebitengineWindow.ShouldClose() {
				cancel()
			}
			return ctx.Err()
		})

		// ebiten.RunGame must be called from this goroutine (the one
		// that owns the OS's main thread), so it isn't dispatched
		// through the errgroup like runHeadlessLoop below — errgroup's
		// job here is purely to propagate its completion as ctx
		// cancellation for any other goroutine sharing this Run call.
		err := ebitengineWindow.Run()
		cancel()
		if waitErr := g.Wait(); waitErr != nil && err == nil {
			err = waitErr
		}
		if err == context.Canceled {
			return nil
		}
		return err
	}

	g.Go(func() error { return app.runHeadlessLoop(ctx) })
	err := g.Wait()
	if err == context.Canceled {
		return nil
	}
	return err
}

// runHeadlessLoop drives System.Step on a fixed 60 Hz ticker for
// headless/terminal backends, which have no game-loop callback of
// their own.
func (app *Application) runHeadlessLoop(ctx context.Context) error {
	cyclesPerFrame := uint64(ntscCyclesPerFrame)
	if app.config.Emulation.TVSystem == "PAL" {
		cyclesPerFrame = palCyclesPerFrame
	}

	ticker := time.NewTicker(16667 * time.Microsecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			app.pumpInput()
			var consumed uint64
			for consumed < cyclesPerFrame {
				consumed += app.sys.Step()
				if app.sys.Halted() {
					return nil
				}
			}
			if app.window != nil && app.window.ShouldClose() {
				return nil
			}
		}
	}
}

func (app *Application) pumpInput() {
	if app.window == nil {
		return
	}
	for _, event := range app.window.PollEvents() {
		if event.Type == graphics.InputEventTypeQuit {
			if app.cancel != nil {
				app.cancel()
			}
			continue
		}
		app.keys.Apply(event)
	}
}

// Stop requests that Run return at the next opportunity.
func (app *Application) Stop() {
	if app.cancel != nil {
		app.cancel()
	}
}

// Cleanup persists the loaded ROM's battery-backed save, stops audio
// playback, and releases the graphics backend.
func (app *Application) Cleanup() error {
	if app.prog != nil && app.romPath != "" {
		savePath := savePathFor(app.config.Paths.SaveData, app.romPath)
		if err := saveSaveData(app.prog, savePath); err != nil {
			return err
		}
	}
	if app.player != nil {
		app.player.Close()
	}
	if app.window != nil {
		app.window.Cleanup()
	}
	if app.backend != nil {
		return app.backend.Cleanup()
	}
	return nil
}

// System returns the running emulator core, for callers (e.g. the
// trace CLI subcommand) that need direct access to TestStatus/
// TestMessage/Trace.
func (app *Application) System() *system.System { return app.sys }

// Config returns the application's configuration, for CLI subcommands
// that need to adjust it before LoadROM is called.
func (app *Application) Config() *Config { return app.config }

// EnableHeadlessTestMode switches to the headless graphics backend and
// turns on the blargg test-mode harness, re-initializing the graphics
// backend that was created in NewApplication. Must be called before
// LoadROM.
func (app *Application) EnableHeadlessTestMode() error {
	if app.backend != nil {
		app.backend.Cleanup()
	}
	app.window = nil
	app.config.Video.Backend = "headless"
	app.config.Emulation.TestMode = true
	return app.initGraphics()
}
