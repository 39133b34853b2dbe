package splitter

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"rsc.io/pdf"
)

// InvalidRangeError reports a page range outside the document.
type InvalidRangeError struct {
	Start, End, Total int
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid page range %d-%d for a %d-page document", e.Start, e.End, e.Total)
}

// Info summarizes a PDF for interactive listing.
type Info struct {
	Path  string
	Pages int
	Title string
}

// Inspect reads the page count and title of a PDF.
func Inspect(path string) (Info, error) {
	r, err := pdf.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("failed to open %s: %w", path, err)
	}

	info := Info{Path: path, Pages: r.NumPage()}
	if meta := r.Trailer().Key("Info"); !meta.IsNull() {
		if title := meta.Key("Title"); !title.IsNull() {
			info.Title = title.Text()
		}
	}
	return info, nil
}

// ExtractRange writes pages start..end (1-based, inclusive) of in to out as
// a standalone PDF.
func ExtractRange(in, out string, start, end int) error {
	total, err := api.PageCountFile(in)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", in, err)
	}
	if start < 1 || end > total || start > end {
		return &InvalidRangeError{Start: start, End: end, Total: total}
	}

	pages := []string{fmt.Sprintf("%d-%d", start, end)}
	if err := api.TrimFile(in, out, pages, nil); err != nil {
		return fmt.Errorf("failed to extract pages %d-%d: %w", start, end, err)
	}
	return nil
}

// FindPDFs lists the PDF files under dir and its pdfs/ subdirectory,
// deduplicated and sorted.
func FindPDFs(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	if err != nil {
		return nil, err
	}
	nested, err := filepath.Glob(filepath.Join(dir, "pdfs", "*.pdf"))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var paths []string
	for _, p := range append(matches, nested...) {
		if seen[p] {
			continue
		}
		seen[p] = true
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}

// DefaultOutputPath derives the splitter's output name from the input,
// e.g. ebook.pdf with range 10-20 becomes ebook_10-20.pdf.
func DefaultOutputPath(in string, start, end int) string {
	stem := strings.TrimSuffix(in, filepath.Ext(in))
	return fmt.Sprintf("%s_%d-%d.pdf", stem, start, end)
}
