//go:build linux

// softboard-ibus is the Linux IBus input-method engine.
//
// It connects to the IBus daemon via D-Bus, feeds key events through the
// softboard engine, and commits the selected candidates.
//
// Installation:
//  1. Copy binary to /usr/local/bin/softboard-ibus
//  2. Run: softboard-ibus -install
//  3. Restart IBus: ibus restart
//  4. Enable via: ibus-setup or GNOME Settings > Keyboard > Input Sources
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"softboard/internal/config"
	"softboard/internal/ibus"
	"softboard/internal/logging"
	"softboard/internal/metrics"
	"softboard/internal/rime"
)

func main() {
	installFlag := flag.Bool("install", false, "Install IBus component")
	uninstallFlag := flag.Bool("uninstall", false, "Uninstall IBus component")
	configPath := flag.String("config", config.DefaultPath(), "Path to config file")
	flag.Parse()

	if *installFlag {
		if err := installComponent(); err != nil {
			fmt.Fprintf(os.Stderr, "install failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Installed. Run 'ibus restart' to load.")
		return
	}
	if *uninstallFlag {
		if err := uninstallComponent(); err != nil {
			fmt.Fprintf(os.Stderr, "uninstall failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Uninstalled.")
		return
	}

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "softboard-ibus: %v\n", err)
		os.Exit(1)
	}
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
		Component: "softboard-ibus",
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

	// Settings edits regenerate the engine's config patches live.
	loader.OnChange(func(c *config.Config) {
		engine.ApplySettings(rime.Settings{
			ToneScheme:      c.Engine.ToneScheme,
			EnableCorrector: c.Engine.EnableCorrector,
		})
	})
	if err := loader.Watch(); err != nil {
		log.Warn("config watch unavailable", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bridge := ibus.New(engine, log)
	if err := bridge.Start(ctx); err != nil {
		return err
	}
	defer bridge.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down")
	log.Debug("metrics snapshot", "metrics", m.Registry.String())
	return nil
}

func componentPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "ibus", "component", "softboard.xml"), nil
}

func installComponent() error {
	path, err := componentPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	binPath, err := os.Executable()
	if err != nil {
		binPath = "/usr/local/bin/softboard-ibus"
	}

	componentXML := `<?xml version="1.0" encoding="utf-8"?>
<component>
    <name>com.softboard.ibus</name>
    <description>Softboard input method</description>
    <exec>` + binPath + `</exec>
    <version>1.0.0</version>
    <license>MIT</license>
    <textdomain>softboard</textdomain>
    <engines>
        <engine>
            <name>softboard</name>
            <language>yue</language>
            <license>MIT</license>
            <icon>softboard</icon>
            <layout>us</layout>
            <longname>Softboard</longname>
            <description>Softboard phonetic input method</description>
            <rank>99</rank>
            <symbol>粵</symbol>
        </engine>
    </engines>
</component>`

	return os.WriteFile(path, []byte(componentXML), 0o644)
}

func uninstallComponent() error {
	path, err := componentPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
