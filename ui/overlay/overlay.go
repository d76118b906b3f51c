package overlay

import (
	"image"
	"sync"

	"cube-roi-editor/internal/app"
	"cube-roi-editor/internal/drag"
	"cube-roi-editor/pkg/colorutil"
	"cube-roi-editor/pkg/geometry"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// CameraOverlay shows one camera's video frame with the ROI boxes on top.
// The widget is the drag surface: pointer-down on a box starts a session,
// drags are delivered here until pointer-up regardless of where the
// pointer goes, and a locked (non-active) camera ignores pointer-down.
//
// Pointer events arrive on the UI event loop while renders can be
// triggered by a network completion's event emit, so the box state is
// mutex-guarded.
type CameraOverlay struct {
	widget.BaseWidget

	st       *app.State
	cameraID string

	video    *canvas.Image
	boxLayer *fyne.Container

	mu      sync.Mutex
	boxes   []Box
	roiBoxs []*roiBox
}

var (
	_ fyne.Draggable    = (*CameraOverlay)(nil)
	_ desktop.Mouseable = (*CameraOverlay)(nil)
)

// New creates the overlay for one camera and subscribes it to model
// events. Either camera's overlay re-renders on a wholesale replace or an
// active-camera switch.
func New(st *app.State, cameraID string) *CameraOverlay {
	o := &CameraOverlay{
		st:       st,
		cameraID: cameraID,
		boxLayer: container.NewWithoutLayout(),
	}

	placeholder := image.NewRGBA(image.Rect(0, 0, 16, 9))
	o.video = canvas.NewImageFromImage(placeholder)
	o.video.FillMode = canvas.ImageFillStretch
	o.video.SetMinSize(fyne.NewSize(480, 270))

	st.On(app.EventROIsReplaced, func(interface{}) { o.Render() })
	st.On(app.EventPredictionsReplaced, func(interface{}) { o.Render() })
	st.On(app.EventActiveCameraChanged, func(interface{}) { o.Render() })

	o.ExtendBaseWidget(o)
	return o
}

// CameraID returns the camera this overlay belongs to.
func (o *CameraOverlay) CameraID() string {
	return o.cameraID
}

// SetFrame replaces the video frame under the boxes.
func (o *CameraOverlay) SetFrame(img image.Image) {
	if img == nil {
		return
	}
	o.video.Image = img
	o.video.Refresh()
}

// Render recreates every visual box from the ROI store and the prediction
// cache, in store order. Not called per pointer-move: during a drag only
// the active box is repositioned.
func (o *CameraOverlay) Render() {
	size := o.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return
	}

	active := o.st.IsActive(o.cameraID)
	boxes := Build(o.st.ROIs.Get(o.cameraID), o.st.Predictions, o.cameraID, active, size.Width, size.Height)

	roiBoxs := make([]*roiBox, len(boxes))
	objects := make([]fyne.CanvasObject, 0, len(boxes)*4)
	for i, spec := range boxes {
		rb := newROIBox(spec)
		roiBoxs[i] = rb
		objects = append(objects, rb.objects()...)
	}

	o.mu.Lock()
	o.boxes = boxes
	o.roiBoxs = roiBoxs
	o.boxLayer.Objects = objects
	o.mu.Unlock()
	o.boxLayer.Refresh()
}

// MouseDown starts a drag session when the press lands on a box of the
// active camera. The press point decides the mode: the corner handle
// resizes, anywhere else moves.
func (o *CameraOverlay) MouseDown(ev *desktop.MouseEvent) {
	if !o.st.IsActive(o.cameraID) {
		return
	}
	o.mu.Lock()
	index, resize, ok := HitTest(o.boxes, ev.Position.X, ev.Position.Y)
	o.mu.Unlock()
	if !ok {
		return
	}
	mode := drag.ModeMove
	if resize {
		mode = drag.ModeResize
	}

	size := o.Size()
	o.st.Drag.Begin(o.cameraID, index, mode,
		float64(ev.Position.X), float64(ev.Position.Y),
		float64(size.Width), float64(size.Height))
}

// MouseUp ends any drag session, even when the press never became a drag.
func (o *CameraOverlay) MouseUp(*desktop.MouseEvent) {
	o.st.Drag.End()
}

// Dragged feeds pointer moves into the drag controller and repositions
// only the dragged box.
func (o *CameraOverlay) Dragged(ev *fyne.DragEvent) {
	session, ok := o.st.Drag.Session()
	if !ok || session.Camera != o.cameraID {
		return
	}

	rect, ok := o.st.Drag.Move(float64(ev.Position.X), float64(ev.Position.Y))
	if !ok {
		return
	}
	o.placeBox(session.Index, rect)
}

// DragEnd ends the drag session wherever the pointer was released.
func (o *CameraOverlay) DragEnd() {
	o.st.Drag.End()
}

// Resize re-renders so the pixel projection tracks the widget size.
func (o *CameraOverlay) Resize(size fyne.Size) {
	o.BaseWidget.Resize(size)
	o.Render()
}

// CreateRenderer implements fyne.Widget.
func (o *CameraOverlay) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(o.video, o.boxLayer))
}

func (o *CameraOverlay) placeBox(index int, rect geometry.Rect) {
	size := o.Size()

	o.mu.Lock()
	defer o.mu.Unlock()
	if index < 0 || index >= len(o.boxes) {
		return
	}
	o.boxes[index] = Place(o.boxes[index], rect, size.Width, size.Height)
	o.roiBoxs[index].place(o.boxes[index])
}

// roiBox groups the canvas objects of one visual box.
type roiBox struct {
	frame  *canvas.Rectangle
	handle *canvas.Rectangle
	name   *canvas.Text
	pred   *canvas.Text
}

func newROIBox(spec Box) *roiBox {
	stroke := colorutil.Sticker(faceLetter(spec.Name))
	if spec.Locked {
		stroke = colorutil.LockedGray
	}

	rb := &roiBox{
		frame:  canvas.NewRectangle(colorutil.Transparent),
		handle: canvas.NewRectangle(colorutil.HandleFill),
		name:   canvas.NewText(spec.Name, colorutil.CaptionText),
		pred:   canvas.NewText(spec.Pred, colorutil.CaptionText),
	}
	rb.frame.StrokeColor = stroke
	rb.frame.StrokeWidth = 2
	rb.name.TextSize = 10
	rb.name.TextStyle = fyne.TextStyle{Bold: true}
	rb.pred.TextSize = 9
	if spec.Locked {
		rb.handle.Hide()
		rb.name.Color = colorutil.LockedGray
		rb.pred.Color = colorutil.LockedGray
	}

	rb.place(spec)
	return rb
}

func (b *roiBox) objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{b.frame, b.handle, b.name, b.pred}
}

func (b *roiBox) place(spec Box) {
	b.frame.Move(fyne.NewPos(spec.X, spec.Y))
	b.frame.Resize(fyne.NewSize(spec.W, spec.H))

	b.handle.Move(fyne.NewPos(spec.HandleX, spec.HandleY))
	b.handle.Resize(fyne.NewSize(spec.HandleW, spec.HandleH))

	b.name.Move(fyne.NewPos(spec.X+3, spec.Y+1))
	b.pred.Move(fyne.NewPos(spec.X+3, spec.Y+spec.H-13))

	b.frame.Refresh()
	b.handle.Refresh()
	b.name.Refresh()
	b.pred.Refresh()
}

// faceLetter extracts the face color letter from a box caption like "W5".
func faceLetter(name string) string {
	if name == "" {
		return ""
	}
	return name[:1]
}
