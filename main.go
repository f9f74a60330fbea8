package main

import (
	"log"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"musicplayer/internal/config"
	"musicplayer/internal/controller"
	"musicplayer/internal/discord"
	"musicplayer/internal/engine"
	"musicplayer/internal/library"
	"musicplayer/internal/session"
	"musicplayer/internal/state"
	"musicplayer/internal/tags"
	"musicplayer/internal/ui"
)

func logger(prefix string) *log.Logger {
	return log.New(os.Stderr, prefix+": ", log.LstdFlags)
}

// openEngine builds the configured engine, falling back to beep when it is
// not available in this build.
func openEngine(cfg *config.Config) engine.Engine {
	opts := engine.Options{TickInterval: cfg.TickInterval(), Logger: logger("engine")}
	eng, err := engine.New(cfg.Engine, opts)
	if err == nil {
		return eng
	}
	log.Printf("engine %s: %v", cfg.Engine, err)
	if cfg.Engine != "beep" {
		if eng, err = engine.New("beep", opts); err == nil {
			return eng
		}
	}
	log.Fatalf("no playback engine: %v", err)
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("config: %v, using defaults", err)
		cfg = config.Default()
	}

	statePath, err := state.Path()
	if err != nil {
		log.Printf("state path: %v", err)
		statePath = "state.json"
	}
	store, err := state.Open(statePath)
	if err != nil {
		log.Printf("state: %v, using defaults", err)
	}

	eng := openEngine(cfg)
	defer func() {
		if err := eng.Release(); err != nil {
			log.Printf("release engine: %v", err)
		}
	}()

	filter := library.NewFilter(cfg.Extensions)

	a := app.NewWithID("io.github.musicplayer")
	win := ui.New(a, filter.Extensions(), logger("ui"))

	sess := session.New(eng,
		session.WithView(win),
		session.WithDispatcher(fyne.Do),
		session.WithLogger(logger("session")),
	)

	opts := []controller.Option{
		controller.WithTagReader(tags.NewReader(cfg.ArtworkMaxSize)),
		controller.WithFilter(filter),
		controller.WithStore(store),
		controller.WithLogger(logger("controller")),
	}
	if cfg.Discord.Enabled {
		dc := discord.New(cfg.Discord.ClientID)
		if err := dc.Connect(); err != nil {
			// Non-fatal: presence retries on the next update.
			log.Printf("discord: %v", err)
		}
		defer dc.Disconnect()
		opts = append(opts, controller.WithPresence(dc))
	}
	ctrl := controller.New(sess, win, opts...)
	defer func() {
		if err := ctrl.Close(); err != nil {
			log.Printf("save state: %v", err)
		}
	}()

	win.Bind(ctrl, sess)
	if len(os.Args) > 1 {
		if err := ctrl.OpenFile(os.Args[1]); err != nil {
			log.Printf("open %s: %v", os.Args[1], err)
		}
	}
	win.ShowAndRun()
}
