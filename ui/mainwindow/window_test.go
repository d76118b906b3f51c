package mainwindow

import (
	"testing"

	"cube-roi-editor/internal/api"
	"cube-roi-editor/internal/app"
	"cube-roi-editor/ui/prefs"

	"fyne.io/fyne/v2/test"
)

func newTestWindow(t *testing.T) *MainWindow {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return New(test.NewApp(), app.NewState(), api.New("http://127.0.0.1:5000", nil), prefs.Load(), nil)
}

func TestSaveServerURLPersists(t *testing.T) {
	mw := newTestWindow(t)

	mw.saveServerURL("  http://cube-pi:5000  ")

	// A fresh load sees what the next launch will see.
	reloaded := prefs.Load()
	if got := reloaded.String(prefs.KeyServerURL, ""); got != "http://cube-pi:5000" {
		t.Errorf("persisted server URL = %q, want http://cube-pi:5000", got)
	}
}

func TestClosePersistsActiveCameraAndSize(t *testing.T) {
	mw := newTestWindow(t)
	mw.state.SetActiveCamera("1")

	mw.onClosed()

	reloaded := prefs.Load()
	if got := reloaded.String(prefs.KeyActiveCamera, "0"); got != "1" {
		t.Errorf("persisted active camera = %q, want 1", got)
	}
	if reloaded.Float(prefs.KeyWindowWidth, 0) <= 0 {
		t.Error("window width not persisted")
	}
}
