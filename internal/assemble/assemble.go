package assemble

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/jung-kurt/gofpdf"
	"github.com/nfnt/resize"
)

// ErrEmptySequence is returned when there are no pages to render. No output
// file is created in that case.
var ErrEmptySequence = errors.New("assemble: no frames to render")

// RenderError reports a failure while encoding a page.
type RenderError struct {
	Page int
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render page %d: %v", e.Page, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

const DefaultMaxDimension = 2880 // 1.5x the larger FHD edge

// Assembler renders an ordered frame sequence into a single PDF, one page
// per frame.
type Assembler struct {
	// MaxDimension caps the larger edge of a page in pixels. Retina
	// captures come in far above FHD.
	MaxDimension int
}

// NewAssembler returns an Assembler with the default resolution cap.
func NewAssembler() *Assembler {
	return &Assembler{MaxDimension: DefaultMaxDimension}
}

// Assemble writes one PDF page per image, in order, to outPath. The page
// size is derived from the first image, scaled down when it exceeds the
// configured cap; every image is resized to that page size. The input slice
// is not mutated.
func (a *Assembler) Assemble(images []image.Image, outPath string) error {
	if len(images) == 0 {
		return ErrEmptySequence
	}

	first := images[0].Bounds()
	targetW, targetH := a.pageSize(first.Dx(), first.Dy())

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: float64(targetW), Ht: float64(targetH)},
	})

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	for i, img := range images {
		scaled := resize.Resize(uint(targetW), uint(targetH), img, resize.Lanczos3)

		var buf bytes.Buffer
		if err := png.Encode(&buf, scaled); err != nil {
			return &RenderError{Page: i + 1, Err: err}
		}

		name := fmt.Sprintf("page_%04d", i+1)
		pdf.RegisterImageOptionsReader(name, opts, &buf)
		pdf.AddPage()
		pdf.ImageOptions(name, 0, 0, float64(targetW), float64(targetH), false, opts, 0, "")
		if pdf.Err() {
			return &RenderError{Page: i + 1, Err: pdf.Error()}
		}
	}

	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return &RenderError{Page: len(images), Err: err}
	}
	return nil
}

// pageSize shrinks the source dimensions so the larger edge fits the cap,
// preserving aspect ratio. Sources already under the cap keep their native
// resolution.
func (a *Assembler) pageSize(w, h int) (int, int) {
	max := a.MaxDimension
	if max <= 0 {
		max = DefaultMaxDimension
	}
	larger := w
	if h > w {
		larger = h
	}
	if larger <= max {
		return w, h
	}
	scale := float64(max) / float64(larger)
	return int(float64(w) * scale), int(float64(h) * scale)
}
