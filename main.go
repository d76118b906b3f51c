// Package main provides the entry point for the Cube ROI Editor.
package main

import (
	"log/slog"
	"os"

	"cube-roi-editor/internal/api"
	"cube-roi-editor/internal/app"
	"cube-roi-editor/internal/config"
	"cube-roi-editor/internal/version"
	"cube-roi-editor/ui/mainwindow"
	"cube-roi-editor/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
)

func main() {
	cfg := config.Load()

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	log.Info("starting cube-roi-editor", "version", version.Version, "server", cfg.ServerURL)

	appPrefs := prefs.Load()
	serverURL := appPrefs.String(prefs.KeyServerURL, cfg.ServerURL)

	state := app.NewState()
	client := api.New(serverURL, log)

	fyneApp := fyneapp.NewWithID("io.github.cube-roi-editor")
	win := mainwindow.New(fyneApp, state, client, appPrefs, log)

	// Pull the stored layout before the first render; a failure leaves the
	// model empty and lands on the status line.
	win.LoadROIs()
	win.StartStreams()

	win.ShowAndRun()
}
