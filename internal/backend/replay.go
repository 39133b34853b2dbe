package backend

import (
	"errors"
	"image"
)

// Replay is a scripted Backend for tests and dry runs. Capture returns the
// frame at the current script position; SendNextPage advances the position,
// and the final frame repeats once the script is exhausted, which models a
// document stuck on its last page.
type Replay struct {
	App    AppInfo
	Frames []image.Image

	// FailCaptures maps a 1-based capture attempt number to an error
	// injected for that attempt. Failed attempts still consume their
	// slot, so retries observe transient faults clearing.
	FailCaptures map[int]error
	// FailSignals works like FailCaptures for SendNextPage attempts.
	FailSignals map[int]error
	// FailFocus makes every Focus call fail.
	FailFocus error

	captureCalls int
	signalCalls  int
	pos          int
}

// NewReplay builds a replay backend over the given frame script.
func NewReplay(frames ...image.Image) *Replay {
	return &Replay{
		App:    AppInfo{Name: "replay", PID: 1},
		Frames: frames,
	}
}

func (r *Replay) ListApps() ([]AppInfo, error) {
	return []AppInfo{r.App}, nil
}

func (r *Replay) Focus(app AppInfo) (Window, error) {
	if r.FailFocus != nil {
		return Window{}, &FocusError{App: app.Name, Err: r.FailFocus}
	}
	return Window{PID: app.PID}, nil
}

func (r *Replay) Capture(win Window) (image.Image, error) {
	r.captureCalls++
	if err, ok := r.FailCaptures[r.captureCalls]; ok {
		return nil, &CaptureError{PID: win.PID, Err: err}
	}
	if len(r.Frames) == 0 {
		return nil, &CaptureError{PID: win.PID, Err: errors.New("empty frame script")}
	}
	return r.Frames[r.pos], nil
}

func (r *Replay) SendNextPage(win Window) error {
	r.signalCalls++
	if err, ok := r.FailSignals[r.signalCalls]; ok {
		return &SignalError{Err: err}
	}
	if r.pos < len(r.Frames)-1 {
		r.pos++
	}
	return nil
}

// CaptureCalls reports how many Capture attempts were made, failures
// included.
func (r *Replay) CaptureCalls() int { return r.captureCalls }

// SignalCalls reports how many SendNextPage attempts were made.
func (r *Replay) SignalCalls() int { return r.signalCalls }
