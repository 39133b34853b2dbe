package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/JiHoon-0330/ebook-pdf/config"
	"github.com/JiHoon-0330/ebook-pdf/internal/assemble"
	"github.com/JiHoon-0330/ebook-pdf/internal/backend"
	"github.com/JiHoon-0330/ebook-pdf/internal/capture"
	"github.com/JiHoon-0330/ebook-pdf/internal/compare"
	"github.com/JiHoon-0330/ebook-pdf/internal/frames"
	"github.com/JiHoon-0330/ebook-pdf/internal/metadata"
	"github.com/JiHoon-0330/ebook-pdf/internal/phash"
	"github.com/JiHoon-0330/ebook-pdf/internal/picker"
	"github.com/JiHoon-0330/ebook-pdf/internal/splitter"
	"github.com/JiHoon-0330/ebook-pdf/pkg/env"
	"github.com/JiHoon-0330/ebook-pdf/pkg/logging"
)

func main() {
	env.LoadEnv()

	app := &cli.App{
		Name:  "ebook-pdf",
		Usage: "Capture a paginated app window into a PDF",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "verbose text logging",
			},
			&cli.StringFlag{
				Name:  "config",
				Value: env.GetEnv("EBOOK_PDF_CONFIG_DIR", "."),
				Usage: "directory holding config.yaml",
			},
		},
		Before: func(c *cli.Context) error {
			logging.InitLogger(c.Bool("debug"))
			return config.LoadConfig(c.String("config"))
		},
		Commands: []*cli.Command{
			{
				Name:  "capture",
				Usage: "Capture pages from a running app and assemble the PDF",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "app",
						Aliases: []string{"a"},
						Usage:   "target app name (skips the interactive picker)",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "output PDF path (overrides config)",
					},
				},
				Action: runCapture,
			},
			{
				Name:   "apps",
				Usage:  "List running applications",
				Action: runApps,
			},
			{
				Name:      "split",
				Usage:     "Extract a page range into a new PDF",
				ArgsUsage: "[input.pdf]",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "start", Aliases: []string{"s"}, Usage: "first page (1-based)"},
					&cli.IntFlag{Name: "end", Aliases: []string{"e"}, Usage: "last page (inclusive)"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output PDF path"},
					&cli.BoolFlag{Name: "interactive", Aliases: []string{"i"}, Usage: "pick the file and range interactively"},
				},
				Action: runSplit,
			},
			{
				Name:      "info",
				Usage:     "Show page count and title of a PDF",
				ArgsUsage: "input.pdf",
				Action:    runInfo,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logging.Log.Fatal(err)
	}
}

func runCapture(c *cli.Context) error {
	cfg := config.Config
	log := logging.Log

	desktop := backend.NewDesktop()
	apps, err := desktop.ListApps()
	if err != nil {
		return fmt.Errorf("failed to list running apps: %w", err)
	}
	if len(apps) == 0 {
		return errors.New("no running applications found")
	}

	target, err := selectApp(c.String("app"), apps)
	if err != nil {
		return err
	}
	if target == nil {
		log.Info("no app selected, exiting")
		return nil
	}

	store, err := frames.NewLocalStore(cfg.ScreenshotsDir)
	if err != nil {
		return err
	}
	logFile, err := logging.TeeToFile(filepath.Join(cfg.ScreenshotsDir, "run.log"))
	if err != nil {
		log.WithError(err).Warn("run log unavailable, logging to stdout only")
	} else {
		defer logFile.Close()
	}
	meta, err := metadata.Open(cfg.MetadataDir)
	if err != nil {
		return err
	}
	defer meta.Close()

	hasher := &phash.Hasher{
		SampleSize: cfg.HashSampleSize,
		BlockSize:  cfg.HashBlockSize,
		ROI: phash.Region{
			Left:   cfg.ROILeft,
			Top:    cfg.ROITop,
			Right:  cfg.ROIRight,
			Bottom: cfg.ROIBottom,
		},
	}
	comparator := &compare.Comparator{
		FullThreshold: cfg.FullThreshold,
		ROIThreshold:  cfg.ROIThreshold,
	}
	opts := capture.Options{
		DuplicateStreak: cfg.DuplicateStreak,
		MaxRetries:      cfg.MaxRetries,
		RetryInterval:   time.Duration(cfg.RetryIntervalMS) * time.Millisecond,
		FocusDelay:      time.Duration(cfg.FocusDelayMS) * time.Millisecond,
		PageLoadDelay:   time.Duration(cfg.PageLoadDelayMS) * time.Millisecond,
		SettleDelay:     time.Duration(cfg.SettleDelayMS) * time.Millisecond,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Infof("🚀 capturing %q, press Ctrl+C to stop early", target.Name)
	run := capture.NewRun(desktop, hasher, comparator, store, meta, opts, log)
	res, err := run.Execute(ctx, *target)
	if err != nil {
		log.WithError(err).Errorf("run aborted, %d captured frames kept in %s", len(res.Frames), store.Dir())
		return err
	}
	if res.Cancelled {
		log.Infof("run cancelled, assembling the %d frames captured so far", len(res.Frames))
	}

	output := c.String("output")
	if output == "" {
		output = cfg.OutputPath
	}

	pages := res.Pages()
	assembler := &assemble.Assembler{MaxDimension: cfg.MaxPDFDimension}
	if err := assembler.Assemble(pages, output); err != nil {
		if errors.Is(err, assemble.ErrEmptySequence) {
			return errors.New("no distinct pages captured; check the similarity thresholds")
		}
		log.WithError(err).Errorf("assembly failed, raw frames kept in %s", store.Dir())
		return err
	}
	run.MarkAssembled(output, len(pages))

	log.Infof("✅ wrote %d pages to %s", len(pages), output)
	return nil
}

// selectApp resolves the --app flag against the running apps, or falls back
// to the interactive picker.
func selectApp(name string, apps []backend.AppInfo) (*backend.AppInfo, error) {
	if name == "" {
		names := make([]string, len(apps))
		for i, app := range apps {
			names[i] = app.Name
		}
		idx, err := picker.Pick("Running applications", names)
		if err != nil || idx < 0 {
			return nil, err
		}
		return &apps[idx], nil
	}
	needle := strings.ToLower(name)
	for _, app := range apps {
		if strings.ToLower(app.Name) == needle {
			return &app, nil
		}
	}
	for _, app := range apps {
		if strings.Contains(strings.ToLower(app.Name), needle) {
			return &app, nil
		}
	}
	return nil, fmt.Errorf("no running app matches %q", name)
}

func runApps(c *cli.Context) error {
	desktop := backend.NewDesktop()
	apps, err := desktop.ListApps()
	if err != nil {
		return fmt.Errorf("failed to list running apps: %w", err)
	}
	for _, app := range apps {
		fmt.Printf("%8d  %s\n", app.PID, app.Name)
	}
	return nil
}

func runSplit(c *cli.Context) error {
	input := c.Args().First()
	if c.Bool("interactive") || input == "" {
		return runSplitInteractive(c)
	}
	start := c.Int("start")
	end := c.Int("end")
	if start == 0 || end == 0 {
		return errors.New("both --start and --end are required, or use -i for the interactive mode")
	}

	output := c.String("output")
	if output == "" {
		output = splitter.DefaultOutputPath(input, start, end)
	}

	if err := splitter.ExtractRange(input, output, start, end); err != nil {
		return err
	}
	logging.Log.Infof("✅ extracted pages %d-%d to %s", start, end, output)
	return nil
}

// runSplitInteractive walks the user through the split: pick a PDF found
// near the working directory, enter the page range, confirm overwrites.
func runSplitInteractive(c *cli.Context) error {
	input := c.Args().First()
	if input == "" {
		pdfs, err := splitter.FindPDFs(".")
		if err != nil {
			return err
		}
		switch len(pdfs) {
		case 0:
			return errors.New("no PDF files found in the current directory")
		case 1:
			input = pdfs[0]
			fmt.Printf("found a single PDF, using %s\n", input)
		default:
			idx, err := picker.Pick("PDF files", pdfs)
			if err != nil {
				return err
			}
			if idx < 0 {
				return nil
			}
			input = pdfs[idx]
		}
	}

	info, err := splitter.Inspect(input)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d pages\n", info.Path, info.Pages)

	start, ok, err := promptPage(fmt.Sprintf("Start page (1-%d)", info.Pages), 1, info.Pages)
	if err != nil || !ok {
		return err
	}
	end, ok, err := promptPage(fmt.Sprintf("End page (%d-%d)", start, info.Pages), start, info.Pages)
	if err != nil || !ok {
		return err
	}

	output := c.String("output")
	if output == "" {
		output = splitter.DefaultOutputPath(input, start, end)
	}
	if _, statErr := os.Stat(output); statErr == nil {
		overwrite, err := picker.Confirm(fmt.Sprintf("%s already exists, overwrite?", output), false)
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Println("cancelled")
			return nil
		}
	}

	if err := splitter.ExtractRange(input, output, start, end); err != nil {
		return err
	}
	logging.Log.Infof("✅ extracted pages %d-%d to %s", start, end, output)
	return nil
}

// promptPage asks for a page number until it gets one inside [min, max].
// ok is false when the user cancelled.
func promptPage(label string, min, max int) (page int, ok bool, err error) {
	for {
		value, ok, err := picker.Prompt(label)
		if err != nil || !ok {
			return 0, false, err
		}
		page, convErr := strconv.Atoi(value)
		if convErr != nil || page < min || page > max {
			fmt.Printf("enter a number between %d and %d\n", min, max)
			continue
		}
		return page, true, nil
	}
}

func runInfo(c *cli.Context) error {
	input := c.Args().First()
	if input == "" {
		return errors.New("usage: info input.pdf")
	}
	info, err := splitter.Inspect(input)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d pages", info.Path, info.Pages)
	if info.Title != "" {
		fmt.Printf(" (%q)", info.Title)
	}
	fmt.Println()
	return nil
}
