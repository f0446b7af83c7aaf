package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gdlib/gdengine/internal/config"
	"github.com/gdlib/gdengine/internal/controller"
	"github.com/gdlib/gdengine/internal/core/actor"
	"github.com/gdlib/gdengine/internal/core/event"
	"github.com/gdlib/gdengine/internal/core/manager"
	coresys "github.com/gdlib/gdengine/internal/core/system"
	"github.com/gdlib/gdengine/internal/data"
	"github.com/gdlib/gdengine/internal/input"
	"github.com/gdlib/gdengine/internal/interaction"
	"github.com/gdlib/gdengine/internal/persist"
	"github.com/gdlib/gdengine/internal/picking"
	"github.com/gdlib/gdengine/internal/render"
	"github.com/gdlib/gdengine/internal/scene"
	"github.com/gdlib/gdengine/internal/scripting"
	"github.com/gdlib/gdengine/internal/system"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(name string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Printf("\033[36;1m  │\033[0m  %-41s\033[36;1m│\033[0m\n", name+"  v0.1.0")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

// headlessInput is the input source of the null backend: nothing is ever pressed.
type headlessInput struct {
	*input.State
}

func (h headlessInput) Poll() { h.BeginFrame() }

// ── Main loop ─────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/engine.toml"
	if p := os.Getenv("GDAPP_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	// the terminal backend owns stdout
	if cfg.Render.Backend == "terminal" && cfg.Logging.File == "" {
		cfg.Logging.File = "gdapp.log"
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Engine.Name)

	// 3. Scripts
	var scripts controller.ScriptRunner
	if cfg.Scripting.Enabled {
		printSection("Scripting")
		engine, err := scripting.NewEngine(cfg.Scripting.Dir, log.Named("lua"))
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer engine.Close()
		scripts = engine
		printOK("Lua scripts loaded from " + cfg.Scripting.Dir)
		fmt.Println()
	}

	// 4. Optional snapshot database
	var repo *persist.SnapshotRepo
	if cfg.Database.Enabled {
		printSection("Database")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		if err := persist.RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK("Migrations applied")
		fmt.Println()
		repo = persist.NewSnapshotRepo(db)
	}

	// 5. Scene definition
	printSection("Scene")
	def, err := data.LoadScene(cfg.Scene.Path)
	if err != nil {
		return fmt.Errorf("load scene: %w", err)
	}
	printStat("Cameras", len(def.Cameras))
	printStat("Actors", len(def.Actors))
	fmt.Println()

	// 6. Renderer and input
	var (
		renderer render.FrameRenderer
		source   system.Poller
		screenVP render.Viewport
		term     *input.TerminalSource
		screen   tcell.Screen
	)
	switch cfg.Render.Backend {
	case "terminal":
		screen, err = tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("terminal: %w", err)
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("terminal init: %w", err)
		}
		defer screen.Fini()
		screen.EnableMouse()
		tr := render.NewTerminalRenderer(screen)
		tr.SetDebug(cfg.Render.DebugHUD)
		term = input.NewTerminalSource(screen)
		renderer, source, screenVP = tr, term, tr.ScreenViewport()
	default:
		renderer = render.NewRecorder()
		source = headlessInput{input.NewState()}
		screenVP = render.Viewport{Width: 160, Height: 90}
	}

	// 7. Core: dispatcher, managers, scene
	events := event.NewDispatcher(cfg.Engine.EventCapacity, log.Named("events"))
	defer events.Close()
	live := actor.StatusDrawn | actor.StatusUpdated
	cameras := manager.NewCameraManager(events, cfg.Engine.CameraCapacity, live, log)
	objects := manager.NewObjectManager(cameras, events, cfg.Engine.ObjectCapacity, live, log)

	sc, err := scene.Build(def, scene.Deps{
		Events:  events,
		Input:   source,
		Scripts: scripts,
		Screen:  screenVP,
		Move: controller.MoveParameters{
			MoveSpeed:        cfg.Input.MoveSpeed,
			StrafeSpeed:      cfg.Input.StrafeSpeed,
			RotationSpeed:    cfg.Input.RotationSpeed,
			MouseSensitivity: cfg.Input.MouseSensitivity,
		},
		Log: log,
	})
	if err != nil {
		return fmt.Errorf("build scene: %w", err)
	}
	defer sc.Close()
	sc.Install(objects, cameras)

	if repo != nil && cfg.Scene.Restore {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.SnapshotTimeout)
		id, states, err := repo.Latest(ctx, def.Name)
		cancel()
		switch {
		case errors.Is(err, persist.ErrNoSnapshot):
			log.Info("no snapshot to restore", zap.String("scene", def.Name))
		case err != nil:
			return fmt.Errorf("restore snapshot: %w", err)
		default:
			n := persist.Apply(states, func(id string) (*actor.Actor, bool) {
				return objects.Find(manager.ByID(id))
			})
			log.Info("snapshot restored", zap.Int64("snapshot", id), zap.Int("actors", n))
		}
	}

	interact := interaction.NewSystem(objects, events, log)
	if sc.Player != nil {
		interact.SetPlayer(sc.Player)
	}
	for zone, cam := range sc.Zones {
		interact.AddZone(zone, cam)
	}
	pointer := picking.NewPointer(events)
	defer pointer.Close()
	if tr, ok := renderer.(*render.TerminalRenderer); ok {
		tr.AddOverlay(pointer)
	}

	events.Subscribe(event.CategoryPlayer, func(e event.Data) {
		if e.Action == event.OnWin {
			log.Info("player won", zap.Stringer("event", e))
			events.Publish(event.New(event.CategoryMainMenu, event.OnPause))
		}
	})

	// 8. Create systems and register with runner
	quit := make(chan struct{})
	var quitOnce sync.Once
	requestQuit := func() { quitOnce.Do(func() { close(quit) }) }

	runner := coresys.NewRunner()
	runner.Register(system.NewInputSystem(source, system.DefaultBindings, events, cfg.Scene.StartPaused, requestQuit, log))
	runner.Register(system.NewEventSystem(events))
	runner.Register(system.NewUpdateSystem(cameras, objects))
	runner.Register(interact)
	runner.Register(picking.NewPicker(objects, cameras, events, cfg.Engine.PickDistance))
	var persistSys *system.PersistenceSystem
	if repo != nil {
		persistSys = system.NewPersistenceSystem(objects, repo, def.Name, runner.Frame,
			cfg.Database.SnapshotTimeout, cfg.Database.KeepSnapshots, events, log)
		runner.Register(persistSys)
	}
	runner.Register(system.NewCleanupSystem(objects, cameras))
	runner.Register(system.NewDrawSystem(objects, cameras, renderer, events))

	// 9. Start sequence: optional pause, then the start camera
	if cfg.Scene.StartPaused {
		events.Publish(event.New(event.CategoryMainMenu, event.OnPause))
	}
	if cfg.Scene.StartCamera != "" {
		events.Publish(event.New(event.CategoryCamera, event.OnCameraSetActive, cfg.Scene.StartCamera))
	}

	// 10. Frame loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Engine.TickRate)
	defer ticker.Stop()

	log.Info("frame loop started",
		zap.String("scene", def.Name),
		zap.Duration("tick", cfg.Engine.TickRate),
		zap.String("backend", cfg.Render.Backend))

	stop := func(reason string) error {
		log.Info("shutting down", zap.String("reason", reason), zap.Uint64("frames", runner.Frame()))
		if persistSys != nil {
			persistSys.Save()
		}
		return nil
	}

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Engine.TickRate)
			if term != nil {
				if term.Quit() {
					return stop("terminal closed")
				}
				if term.Resized() {
					screen.Sync()
					w, h := screen.Size()
					screenVP = resizeCameras(cameras, screenVP, render.Viewport{Width: w, Height: h})
					runner.TickPhase(coresys.PhaseDraw, 0)
				}
			}
		case <-quit:
			return stop("quit key")
		case sig := <-shutdownCh:
			return stop(sig.String())
		}
	}
}

// resizeCameras moves full-screen cameras to the new screen size.
func resizeCameras(cameras *manager.CameraManager, old, next render.Viewport) render.Viewport {
	for _, c := range cameras.Cameras() {
		if c.Viewport != old {
			continue
		}
		c.Viewport = next
		c.Projection.AspectRatio = next.AspectRatio()
	}
	return next
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	if cfg.File != "" {
		zapCfg.OutputPaths = []string{cfg.File}
		zapCfg.ErrorOutputPaths = []string{cfg.File}
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	return zapCfg.Build()
}
