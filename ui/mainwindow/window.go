// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"cube-roi-editor/internal/api"
	"cube-roi-editor/internal/app"
	"cube-roi-editor/internal/cube"
	"cube-roi-editor/internal/roi"
	"cube-roi-editor/internal/version"
	"cube-roi-editor/ui/overlay"
	"cube-roi-editor/ui/prefs"
	"cube-roi-editor/ui/stream"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

const requestTimeout = 20 * time.Second

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app    fyne.App
	state  *app.State
	client *api.Client
	prefs  *prefs.Prefs
	log    *slog.Logger

	overlays  [2]*overlay.CameraOverlay
	cameraSel *widget.RadioGroup

	statusMu  sync.Mutex
	statusBar *widget.Label

	captureFirst *widget.Check
	sendUART     *widget.Check

	streamCancel context.CancelFunc
}

// New creates the main window and wires it to the state and the backend
// client.
func New(fyneApp fyne.App, state *app.State, client *api.Client, p *prefs.Prefs, log *slog.Logger) *MainWindow {
	win := fyneApp.NewWindow("Cube ROI Editor")

	if log == nil {
		log = slog.Default()
	}
	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		client: client,
		prefs:  p,
		log:    log,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.restorePreferences()

	win.SetOnClosed(mw.onClosed)
	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	for i, id := range roi.CameraIDs {
		mw.overlays[i] = overlay.New(mw.state, id)
	}

	mw.cameraSel = widget.NewRadioGroup([]string{"Camera 0", "Camera 1"}, func(selected string) {
		if selected == "Camera 1" {
			mw.state.SetActiveCamera(roi.CameraIDs[1])
		} else {
			mw.state.SetActiveCamera(roi.CameraIDs[0])
		}
	})
	mw.cameraSel.Horizontal = true
	mw.cameraSel.SetSelected("Camera 0")

	mw.statusBar = widget.NewLabel("Ready")
	mw.statusBar.Truncation = fyne.TextTruncateEllipsis

	mw.captureFirst = widget.NewCheck("Capture first", nil)
	mw.captureFirst.SetChecked(true)
	mw.sendUART = widget.NewCheck("Send UART", nil)

	toolbar := container.NewHBox(
		widget.NewLabel("Edit:"),
		mw.cameraSel,
		widget.NewSeparator(),
		widget.NewButton("Load ROIs", mw.onLoadROIs),
		widget.NewButton("Save ROIs", mw.onSaveROIs),
		widget.NewButton("Reset", mw.onResetROIs),
		widget.NewSeparator(),
		widget.NewButton("Detect", mw.onDetect),
		widget.NewButton("Capture State", mw.onCaptureState),
		widget.NewButton("Solve", mw.onSolve),
		mw.captureFirst,
		mw.sendUART,
	)

	feeds := container.NewGridWithColumns(2, mw.overlays[0], mw.overlays[1])

	content := container.NewBorder(
		toolbar,                           // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		feeds,                             // center
	)

	mw.SetContent(content)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Load ROIs", mw.onLoadROIs),
		fyne.NewMenuItem("Save ROIs", mw.onSaveROIs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Reset Active Camera", func() { mw.resetROIs(mw.state.ActiveCamera()) }),
		fyne.NewMenuItem("Reset All Cameras", func() { mw.resetROIs("") }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Preferences...", mw.onPreferences),
	)

	cubeMenu := fyne.NewMenu("Cube",
		fyne.NewMenuItem("Detect Colors", mw.onDetect),
		fyne.NewMenuItem("Capture State", mw.onCaptureState),
		fyne.NewMenuItem("Solve", mw.onSolve),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Show Last Capture", mw.onShowCubeState),
		fyne.NewMenuItem("Server Health", mw.onHealth),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, cubeMenu, helpMenu))
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventStatus, func(data interface{}) {
		if msg, ok := data.(string); ok {
			mw.updateStatus(msg)
		}
	})

	mw.state.On(app.EventCubeStateCaptured, func(data interface{}) {
		if faces, ok := data.(cube.FaceState); ok {
			mw.updateStatus("Captured: " + faces.Summary())
		}
	})
}

// restorePreferences applies the persisted server URL, camera and window
// size.
func (mw *MainWindow) restorePreferences() {
	w := mw.prefs.Float(prefs.KeyWindowWidth, 1100)
	h := mw.prefs.Float(prefs.KeyWindowHeight, 500)
	mw.Resize(fyne.NewSize(float32(w), float32(h)))

	if cam := mw.prefs.String(prefs.KeyActiveCamera, roi.CameraIDs[0]); cam == roi.CameraIDs[1] {
		mw.cameraSel.SetSelected("Camera 1")
	}
}

// StartStreams begins consuming both camera feeds. Frames arrive on
// stream goroutines and are handed to the overlays.
func (mw *MainWindow) StartStreams() {
	ctx, cancel := context.WithCancel(context.Background())
	mw.streamCancel = cancel

	for _, ov := range mw.overlays {
		ov := ov
		go stream.Run(ctx, mw.client.StreamURL(ov.CameraID()), mw.log, ov.SetFrame)
	}
}

func (mw *MainWindow) onClosed() {
	if mw.streamCancel != nil {
		mw.streamCancel()
	}

	size := mw.Canvas().Size()
	mw.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
	mw.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
	mw.prefs.SetString(prefs.KeyActiveCamera, mw.state.ActiveCamera())
	_ = mw.prefs.Save()
}

// LoadROIs fetches the stored layout from the backend and replaces the
// model. Used both from the toolbar and at startup.
func (mw *MainWindow) LoadROIs() {
	mw.onLoadROIs()
}

func (mw *MainWindow) onLoadROIs() {
	mw.updateStatus("Loading ROIs...")
	mw.async(func(ctx context.Context) {
		cfg, err := mw.client.FetchROIs(ctx)
		if err != nil {
			mw.state.Status("Load failed: " + err.Error())
			return
		}
		mw.state.ApplyROIConfig(cfg)
		mw.state.Status("ROIs loaded")
	})
}

func (mw *MainWindow) onSaveROIs() {
	cfg := mw.state.ROIs.Snapshot()
	mw.updateStatus("Saving ROIs...")
	mw.async(func(ctx context.Context) {
		if err := mw.client.SaveROIs(ctx, cfg); err != nil {
			mw.state.Status("Save failed: " + err.Error())
			return
		}
		mw.state.Status("ROIs saved")
	})
}

func (mw *MainWindow) onResetROIs() {
	mw.resetROIs(mw.state.ActiveCamera())
}

// resetROIs resets one camera's layout, or every camera when cameraID is
// empty. The backend answers with the resulting full layout.
func (mw *MainWindow) resetROIs(cameraID string) {
	mw.updateStatus("Resetting ROIs...")
	mw.async(func(ctx context.Context) {
		cfg, err := mw.client.ResetROIs(ctx, cameraID)
		if err != nil {
			mw.state.Status("Reset failed: " + err.Error())
			return
		}
		mw.state.ApplyROIConfig(cfg)
		if cameraID == "" {
			mw.state.Status("All cameras reset to defaults")
		} else {
			mw.state.Status("Camera " + cameraID + " reset to defaults")
		}
	})
}

func (mw *MainWindow) onDetect() {
	mw.updateStatus("Detecting colors...")
	mw.async(func(ctx context.Context) {
		resp, err := mw.client.Detect(ctx)
		if err != nil {
			mw.state.Status("Detect failed: " + err.Error())
			return
		}
		mw.state.ApplyDetections(resp.Cameras)
		mw.state.Status("Detection complete")
	})
}

func (mw *MainWindow) onCaptureState() {
	mw.updateStatus("Capturing cube state...")
	mw.async(func(ctx context.Context) {
		resp, err := mw.client.CaptureState(ctx)
		if err != nil {
			mw.state.Status("Capture failed: " + err.Error())
			return
		}
		if resp.Detections != nil {
			mw.state.ApplyDetections(resp.Detections)
		}
		faces := cube.FromCapture(resp.Faces)
		mw.state.Emit(app.EventCubeStateCaptured, faces)
		if !resp.Complete {
			mw.state.Status("Capture incomplete: " + faces.Summary())
		}
	})
}

func (mw *MainWindow) onSolve() {
	req := api.SolveRequest{
		CaptureFirst: mw.captureFirst.Checked,
		SendUART:     mw.sendUART.Checked,
	}
	mw.updateStatus("Solving...")
	mw.async(func(ctx context.Context) {
		resp, err := mw.client.Solve(ctx, req)
		if err != nil {
			mw.state.Status("Solve failed: " + err.Error())
			return
		}
		msg := "Solution: " + resp.Solution
		if resp.UART != nil {
			msg += fmt.Sprintf(" (sent to %s)", resp.UART.Port)
		}
		mw.state.Status(msg)
	})
}

func (mw *MainWindow) onShowCubeState() {
	mw.async(func(ctx context.Context) {
		resp, err := mw.client.CubeState(ctx)
		if err != nil {
			mw.state.Status("Cube state unavailable: " + err.Error())
			return
		}
		faces := cube.FromCapture(resp.Faces)
		if faces.Complete() {
			mw.state.Status("Last capture: " + faces.Summary())
		} else {
			mw.state.Status("No complete capture yet: " + faces.Summary())
		}
	})
}

func (mw *MainWindow) onHealth() {
	mw.async(func(ctx context.Context) {
		resp, err := mw.client.Health(ctx)
		if err != nil {
			mw.state.Status("Server unreachable: " + err.Error())
			return
		}
		msg := "Server " + resp.Status
		for id, st := range resp.CameraStatus {
			msg += fmt.Sprintf(", camera %s %s", id, st)
		}
		mw.state.Status(msg)
	})
}

func (mw *MainWindow) onPreferences() {
	entry := widget.NewEntry()
	entry.SetText(mw.prefs.String(prefs.KeyServerURL, ""))
	entry.SetPlaceHolder("http://127.0.0.1:5000")

	items := []*widget.FormItem{
		widget.NewFormItem("Server URL", entry),
	}
	dialog.ShowForm("Preferences", "Save", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		mw.saveServerURL(entry.Text)
	}, mw.Window)
}

// saveServerURL persists the backend URL. The client is constructed at
// startup, so a change takes effect on the next launch.
func (mw *MainWindow) saveServerURL(url string) {
	mw.prefs.SetString(prefs.KeyServerURL, strings.TrimSpace(url))
	if err := mw.prefs.Save(); err != nil {
		mw.state.Status("Preferences not saved: " + err.Error())
		return
	}
	mw.state.Status("Server URL saved, applies on next start")
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Cube ROI Editor",
		fmt.Sprintf("Cube ROI Editor %s\n\nROI overlay editor for the cube-solver rig.\n\nBuild: %s\nCommit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}

// async runs fn off the UI goroutine with a bounded context.
func (mw *MainWindow) async(fn func(ctx context.Context)) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		fn(ctx)
	}()
}

// updateStatus serializes status writes; completions of overlapping
// requests can land on different goroutines.
func (mw *MainWindow) updateStatus(message string) {
	mw.statusMu.Lock()
	defer mw.statusMu.Unlock()
	mw.statusBar.SetText(message)
}
