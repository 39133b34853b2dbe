// Package capture drives one capture run: grab the target window, fingerprint
// the frame, compare against the previous frame, advance the document, and
// stop once a sustained duplicate streak shows the last page was reached.
package capture

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/JiHoon-0330/ebook-pdf/internal/backend"
	"github.com/JiHoon-0330/ebook-pdf/internal/compare"
	"github.com/JiHoon-0330/ebook-pdf/internal/frames"
	"github.com/JiHoon-0330/ebook-pdf/internal/metadata"
	"github.com/JiHoon-0330/ebook-pdf/internal/phash"
)

// State names a position in the capture state machine.
type State int

const (
	StateIdle State = iota
	StateCapturing
	StateComparing
	StateAdvancing
	StateTerminating
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCapturing:
		return "capturing"
	case StateComparing:
		return "comparing"
	case StateAdvancing:
		return "advancing"
	case StateTerminating:
		return "terminating"
	case StateDone:
		return "done"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Frame is one capture instance, 1-indexed in sequence order.
type Frame struct {
	Index      int
	Image      image.Image
	Path       string
	Prints     phash.Pair
	Verdict    compare.Verdict
	CapturedAt time.Time
}

// Options are the tunable parameters of a run.
type Options struct {
	// DuplicateStreak is how many consecutive duplicate verdicts confirm
	// the end of the document. A single duplicate can be redraw flicker
	// or a slow page render; only a sustained streak is reliable, since
	// the next-page signal cannot report whether it had any effect.
	DuplicateStreak int
	// MaxRetries bounds each collaborator call before the run aborts.
	MaxRetries    int
	RetryInterval time.Duration
	// FocusDelay runs once after focusing, PageLoadDelay before every
	// capture, SettleDelay after every next-page signal. All blocking:
	// the process has nothing else to do mid-run.
	FocusDelay    time.Duration
	PageLoadDelay time.Duration
	SettleDelay   time.Duration
}

// DefaultOptions carries timings tuned for desktop e-reader apps.
func DefaultOptions() Options {
	return Options{
		DuplicateStreak: 10,
		MaxRetries:      3,
		RetryInterval:   300 * time.Millisecond,
		FocusDelay:      time.Second,
		PageLoadDelay:   500 * time.Millisecond,
		SettleDelay:     time.Second,
	}
}

// Result is what a finished (or aborted) run hands over. Frames always holds
// every captured frame, so a failed assembly or an aborted run loses
// nothing.
type Result struct {
	RunID     string
	Frames    []*Frame
	Cancelled bool
}

// Pages returns the images to render, in sequence order, with the trailing
// confirmed duplicate trimmed. A run cancelled right after a new page keeps
// that page.
func (r *Result) Pages() []image.Image {
	seq := r.Frames
	if n := len(seq); n > 0 && seq[n-1].Verdict == compare.VerdictDuplicate {
		seq = seq[:n-1]
	}
	images := make([]image.Image, len(seq))
	for i, f := range seq {
		images[i] = f.Image
	}
	return images
}

// Run owns all state of one capture run. Nothing here is shared: a new Run
// is created per capture, so several can exist in-process without touching
// each other.
type Run struct {
	ID string

	backend    backend.Backend
	hasher     *phash.Hasher
	comparator *compare.Comparator
	store      frames.Store
	meta       *metadata.Store
	opts       Options
	log        *logrus.Entry

	state    State
	sequence []*Frame
	streak   int
	prev     *phash.Pair
}

// NewRun wires a run. meta may be nil when run records are not wanted.
func NewRun(b backend.Backend, h *phash.Hasher, c *compare.Comparator, store frames.Store, meta *metadata.Store, opts Options, log *logrus.Logger) *Run {
	id := uuid.New().String()
	return &Run{
		ID:         id,
		backend:    b,
		hasher:     h,
		comparator: c,
		store:      store,
		meta:       meta,
		opts:       opts,
		log:        log.WithField("run_id", id),
		state:      StateIdle,
	}
}

// State reports the machine's current state.
func (r *Run) State() State { return r.state }

// Execute drives the run against the chosen application until the duplicate
// streak confirms the last page, the context is cancelled, or a collaborator
// keeps failing. The Result is non-nil even on error so partially captured
// frames stay recoverable.
func (r *Run) Execute(ctx context.Context, app backend.AppInfo) (*Result, error) {
	started := time.Now()
	r.recordRun(app, statusRunning, started, time.Time{})

	if err := r.store.Clear(); err != nil {
		return r.finish(app, started, statusAborted), fmt.Errorf("failed to clear screenshots: %w", err)
	}

	var win backend.Window
	err := withRetry(ctx, r.log, "focus", r.opts.MaxRetries, r.opts.RetryInterval, func() error {
		var ferr error
		win, ferr = r.backend.Focus(app)
		return ferr
	})
	if err != nil {
		if ctx.Err() != nil {
			return r.finish(app, started, statusCancelled), nil
		}
		return r.finish(app, started, statusAborted), err
	}

	r.state = StateCapturing
	r.log.WithField("app", app.Name).Info("target focused, starting capture")
	if !sleepCtx(ctx, r.opts.FocusDelay) {
		return r.finish(app, started, statusCancelled), nil
	}

	for {
		if ctx.Err() != nil {
			return r.finish(app, started, statusCancelled), nil
		}

		r.state = StateCapturing
		if !sleepCtx(ctx, r.opts.PageLoadDelay) {
			return r.finish(app, started, statusCancelled), nil
		}

		var img image.Image
		err := withRetry(ctx, r.log, "capture", r.opts.MaxRetries, r.opts.RetryInterval, func() error {
			var cerr error
			img, cerr = r.backend.Capture(win)
			return cerr
		})
		if err != nil {
			if ctx.Err() != nil {
				return r.finish(app, started, statusCancelled), nil
			}
			return r.finish(app, started, statusAborted), err
		}

		prints, err := r.hasher.HashPair(img)
		if err != nil {
			return r.finish(app, started, statusAborted), fmt.Errorf("frame %d: %w", len(r.sequence)+1, err)
		}

		r.state = StateComparing
		verdict := r.comparator.Compare(r.prev, prints)
		frame := r.appendFrame(img, prints, verdict)

		if verdict == compare.VerdictNew {
			r.streak = 0
			r.log.WithFields(logrus.Fields{
				"frame": frame.Index,
				"path":  frame.Path,
			}).Info("new page captured")
		} else {
			r.streak++
			r.log.WithFields(logrus.Fields{
				"frame":  frame.Index,
				"streak": r.streak,
			}).Info("duplicate page")
			if r.streak >= r.opts.DuplicateStreak {
				r.log.WithField("streak", r.streak).Info("duplicate streak reached, ending capture")
				return r.finish(app, started, statusCompleted), nil
			}
		}

		r.state = StateAdvancing
		err = withRetry(ctx, r.log, "next-page signal", r.opts.MaxRetries, r.opts.RetryInterval, func() error {
			return r.backend.SendNextPage(win)
		})
		if err != nil {
			if ctx.Err() != nil {
				return r.finish(app, started, statusCancelled), nil
			}
			return r.finish(app, started, statusAborted), err
		}

		if !sleepCtx(ctx, r.opts.SettleDelay) {
			return r.finish(app, started, statusCancelled), nil
		}
	}
}

// appendFrame persists the capture and appends it to the sequence. Every
// captured frame lands here, duplicates included; the trailing one is
// trimmed at assembly time.
func (r *Run) appendFrame(img image.Image, prints phash.Pair, verdict compare.Verdict) *Frame {
	frame := &Frame{
		Index:      len(r.sequence) + 1,
		Image:      img,
		Prints:     prints,
		Verdict:    verdict,
		CapturedAt: time.Now(),
	}

	path, err := r.store.Put(frame.Index, img)
	if err != nil {
		// The in-memory frame still makes it into the PDF; only the
		// on-disk recovery copy is lost.
		r.log.WithError(err).Warnf("failed to persist frame %d", frame.Index)
	}
	frame.Path = path

	r.sequence = append(r.sequence, frame)
	r.prev = &prints

	if r.meta != nil {
		rec := metadata.FrameRecord{
			RunID:       r.ID,
			Index:       frame.Index,
			Path:        frame.Path,
			Fingerprint: fmt.Sprintf("%016x", uint64(prints.Full)),
			ROI:         fmt.Sprintf("%016x", uint64(prints.ROI)),
			Verdict:     verdict.String(),
			CapturedAt:  frame.CapturedAt,
		}
		if err := r.meta.PutFrame(rec); err != nil {
			r.log.WithError(err).Warnf("failed to record frame %d", frame.Index)
		}
	}
	return frame
}

const (
	statusRunning   = "running"
	statusCompleted = "completed"
	statusCancelled = "cancelled"
	statusAborted   = "aborted"
)

func (r *Run) finish(app backend.AppInfo, started time.Time, status string) *Result {
	r.state = StateTerminating
	res := &Result{RunID: r.ID, Frames: r.sequence, Cancelled: status == statusCancelled}
	r.recordRun(app, status, started, time.Now())
	r.state = StateDone
	return res
}

// MarkAssembled records the rendered output on the run record once the
// assembler has finished.
func (r *Run) MarkAssembled(outputPath string, pages int) {
	if r.meta == nil {
		return
	}
	rec, err := r.meta.GetRun(r.ID)
	if err != nil {
		r.log.WithError(err).Warn("failed to load run record")
		return
	}
	rec.OutputPath = outputPath
	rec.Pages = pages
	if err := r.meta.PutRun(rec); err != nil {
		r.log.WithError(err).Warn("failed to update run record")
	}
}

func (r *Run) recordRun(app backend.AppInfo, status string, started, finished time.Time) {
	if r.meta == nil {
		return
	}
	rec := metadata.RunRecord{
		RunID:      r.ID,
		AppName:    app.Name,
		AppPID:     app.PID,
		Status:     status,
		Frames:     len(r.sequence),
		StartedAt:  started,
		FinishedAt: finished,
	}
	if err := r.meta.PutRun(rec); err != nil {
		r.log.WithError(err).Warn("failed to record run")
	}
}
