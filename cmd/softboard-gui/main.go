// softboard-gui is a desktop host window for the keyboard: it renders the
// laid-out key strip, routes taps through the input-method engine, and
// shows the committed text. Useful for trying layouts and dictionaries
// without an IBus session.
package main

import (
	"flag"
	"fmt"
	"os"

	"gioui.org/app"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"softboard/cmd/softboard-gui/internal/theme"
	"softboard/cmd/softboard-gui/internal/ui"
	"softboard/internal/config"
	"softboard/internal/logging"
	"softboard/internal/metrics"
	"softboard/internal/rime"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "Path to config file")
	flag.Parse()

	go func() {
		if err := run(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "softboard-gui: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}()
	app.Main()
}

func run(configPath string) error {
	loader := config.NewLoader(configPath)
	cfg, err := loader.Load()
	if err != nil {
		return err
	}
	defer loader.Close()

	log, err := logging.New(&logging.Config{
		Level:     logging.ParseLevel(cfg.Logging.Level),
		Format:    logging.ParseFormat(cfg.Logging.Format),
		Output:    cfg.Logging.Output,
		FilePath:  cfg.Logging.FilePath,
		Component: "softboard-gui",
	})
	if err != nil {
		return err
	}
	defer log.Close()
	logging.SetDefault(log)

	m := metrics.NewSoftboard()

	engine, err := rime.New(rime.Options{
		DataDir:     cfg.Engine.DataDir,
		UserDataDir: cfg.Engine.UserDataDir,
		Settings: rime.Settings{
			ToneScheme:      cfg.Engine.ToneScheme,
			EnableCorrector: cfg.Engine.EnableCorrector,
		},
		CandidateLimit: cfg.Engine.CandidateLimit,
		Logger:         log,
		Metrics:        m,
	})
	if err != nil {
		return err
	}
	defer engine.Close()

	loader.OnChange(func(c *config.Config) {
		engine.ApplySettings(rime.Settings{
			ToneScheme:      c.Engine.ToneScheme,
			EnableCorrector: c.Engine.EnableCorrector,
		})
	})
	if err := loader.Watch(); err != nil {
		log.Warn("config watch unavailable", "error", err)
	}

	t := theme.NewTheme(material.NewTheme())
	keyboard, err := ui.NewKeyboard(t, engine, m, cfg.Keyboard, log)
	if err != nil {
		return err
	}

	w := new(app.Window)
	w.Option(app.Title("Softboard"))
	w.Option(app.Size(unit.Dp(420), keyboard.MinHeight()))

	err = loop(w, keyboard)
	log.Debug("metrics snapshot", "metrics", m.Registry.String())
	return err
}

func loop(w *app.Window, keyboard *ui.Keyboard) error {
	var ops op.Ops
	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			return e.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)

			keyboard.Layout(gtx)

			e.Frame(gtx.Ops)
		}
	}
}
