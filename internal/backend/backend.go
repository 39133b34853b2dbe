// Package backend abstracts the OS-level operations the capture loop
// depends on: enumerating and focusing applications, grabbing a window's
// pixels, and injecting the next-page key press. The loop only ever talks to
// the Backend interface, so tests drive it with a replay implementation.
package backend

import (
	"fmt"
	"image"
)

// AppInfo identifies a running application a user can pick as the capture
// target.
type AppInfo struct {
	Name string
	PID  int
}

// Window is a handle to the focused target window. Bounds may be zero when
// the platform cannot report window geometry; Capture then falls back to the
// primary display.
type Window struct {
	PID    int
	Bounds image.Rectangle
}

// Backend is the capability surface over the OS.
type Backend interface {
	// ListApps enumerates running applications.
	ListApps() ([]AppInfo, error)
	// Focus brings the application to the foreground and returns a
	// handle to its window.
	Focus(app AppInfo) (Window, error)
	// Capture returns the window's current pixel content at native
	// resolution.
	Capture(win Window) (image.Image, error)
	// SendNextPage injects the next-page key press. Fire and forget:
	// there is no confirmation the document actually advanced.
	SendNextPage(win Window) error
}

// FocusError reports a failure to focus the target application.
type FocusError struct {
	App string
	Err error
}

func (e *FocusError) Error() string {
	return fmt.Sprintf("focus %q: %v", e.App, e.Err)
}

func (e *FocusError) Unwrap() error { return e.Err }

// CaptureError reports a failure to capture the target window.
type CaptureError struct {
	PID int
	Err error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("capture window of pid %d: %v", e.PID, e.Err)
}

func (e *CaptureError) Unwrap() error { return e.Err }

// SignalError reports a failure to inject the next-page key press.
type SignalError struct {
	Err error
}

func (e *SignalError) Error() string {
	return fmt.Sprintf("send next-page key: %v", e.Err)
}

func (e *SignalError) Unwrap() error { return e.Err }
