package frames

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Store persists captured frames for one run.
type Store interface {
	// Put writes the frame for the given 1-based sequence index and
	// returns the path it was stored at.
	Put(index int, img image.Image) (string, error)
	// List returns the stored frame paths in sequence order.
	List() ([]string, error)
	// Clear removes every stored frame.
	Clear() error
	// Dir returns the directory frames are stored under.
	Dir() string
}

// LocalStore implements Store on the local filesystem. Filenames carry the
// sequence index so a partially captured run can be recovered by hand.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the screenshots directory if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create screenshots directory: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Put(index int, img image.Image) (string, error) {
	path := filepath.Join(s.dir, fmt.Sprintf("frame_%04d.png", index))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create frame file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to encode frame %d: %w", index, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close frame file: %w", err)
	}
	return path, nil
}

func (s *LocalStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read screenshots directory: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "frame_") && strings.HasSuffix(name, ".png") {
			paths = append(paths, filepath.Join(s.dir, name))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Clear removes all stored frames. Runs call this before capturing so stale
// frames from a previous document never leak into the new PDF.
func (s *LocalStore) Clear() error {
	paths, err := s.List()
	if err != nil {
		return err
	}
	for _, p := range paths {
		if err := os.Remove(p); err != nil {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}
	return nil
}

func (s *LocalStore) Dir() string { return s.dir }
