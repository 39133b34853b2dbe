package backend

import (
	"errors"
	"image"
	"sort"
	"strings"

	"github.com/go-vgo/robotgo"
	"github.com/kbinani/screenshot"
)

// Desktop implements Backend on the local desktop using robotgo for process
// and keyboard control and the screenshot package for pixel capture.
type Desktop struct{}

// NewDesktop returns the desktop backend.
func NewDesktop() *Desktop {
	return &Desktop{}
}

// ListApps returns the running processes that look like user-facing
// applications, sorted by name.
func (d *Desktop) ListApps() ([]AppInfo, error) {
	procs, err := robotgo.Process()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	apps := make([]AppInfo, 0, len(procs))
	for _, p := range procs {
		name := strings.TrimSpace(p.Name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		apps = append(apps, AppInfo{Name: name, PID: p.Pid})
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].Name < apps[j].Name })
	return apps, nil
}

// Focus activates the application and resolves its window bounds.
func (d *Desktop) Focus(app AppInfo) (Window, error) {
	if err := robotgo.ActivePid(app.PID); err != nil {
		return Window{}, &FocusError{App: app.Name, Err: err}
	}
	x, y, w, h := robotgo.GetBounds(app.PID)
	return Window{PID: app.PID, Bounds: image.Rect(x, y, x+w, y+h)}, nil
}

// Capture grabs the window region, or the primary display when the window's
// geometry is unknown.
func (d *Desktop) Capture(win Window) (image.Image, error) {
	rect := win.Bounds
	if rect.Dx() <= 0 || rect.Dy() <= 0 {
		if screenshot.NumActiveDisplays() == 0 {
			return nil, &CaptureError{PID: win.PID, Err: errors.New("no active displays")}
		}
		rect = screenshot.GetDisplayBounds(0)
	}
	img, err := screenshot.CaptureRect(rect)
	if err != nil {
		return nil, &CaptureError{PID: win.PID, Err: err}
	}
	return img, nil
}

// SendNextPage taps the right-arrow key, the near-universal next-page
// binding in e-reader apps.
func (d *Desktop) SendNextPage(win Window) error {
	if err := robotgo.KeyTap("right"); err != nil {
		return &SignalError{Err: err}
	}
	return nil
}
