package splitter

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// writeTestPDF creates a PDF with the given number of pages.
func writeTestPDF(t *testing.T, path string, pages int) {
	t.Helper()
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetFont("Helvetica", "", 12)
	for i := 1; i <= pages; i++ {
		pdf.AddPage()
		pdf.Text(40, 40, "page")
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		t.Fatalf("failed to write test PDF: %v", err)
	}
}

func TestExtractRange(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.pdf")
	out := filepath.Join(dir, "out.pdf")
	writeTestPDF(t, in, 5)

	if err := ExtractRange(in, out, 2, 4); err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	pages, err := api.PageCountFile(out)
	if err != nil {
		t.Fatalf("failed to read extracted PDF: %v", err)
	}
	if pages != 3 {
		t.Errorf("extracted PDF has %d pages, want 3", pages)
	}
}

func TestExtractRangeValidation(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.pdf")
	writeTestPDF(t, in, 3)

	cases := []struct {
		name       string
		start, end int
	}{
		{"start below one", 0, 2},
		{"end past document", 1, 4},
		{"inverted range", 3, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out := filepath.Join(dir, "out.pdf")
			err := ExtractRange(in, out, c.start, c.end)
			var rangeErr *InvalidRangeError
			if !errors.As(err, &rangeErr) {
				t.Fatalf("got %v, want InvalidRangeError", err)
			}
			if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
				t.Error("invalid range still created an output file")
			}
		})
	}
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.pdf")
	writeTestPDF(t, in, 2)

	info, err := Inspect(in)
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	if info.Pages != 2 {
		t.Errorf("info.Pages = %d, want 2", info.Pages)
	}
}

func TestFindPDFs(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "pdfs"), 0755); err != nil {
		t.Fatalf("failed to create pdfs dir: %v", err)
	}
	for _, name := range []string{"b.pdf", "a.pdf", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "pdfs", "c.pdf"), []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write nested pdf: %v", err)
	}

	got, err := FindPDFs(dir)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.pdf"),
		filepath.Join(dir, "b.pdf"),
		filepath.Join(dir, "pdfs", "c.pdf"),
	}
	if len(got) != len(want) {
		t.Fatalf("found %d files, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("paths[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestDefaultOutputPath(t *testing.T) {
	got := DefaultOutputPath("/tmp/ebook.pdf", 10, 20)
	if got != "/tmp/ebook_10-20.pdf" {
		t.Errorf("DefaultOutputPath = %s", got)
	}
}
