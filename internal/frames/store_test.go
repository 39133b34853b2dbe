package frames

import (
	"image"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalStorePutListClear(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	img := image.NewGray(image.Rect(0, 0, 4, 4))
	for _, idx := range []int{2, 1, 3} {
		if _, err := store.Put(idx, img); err != nil {
			t.Fatalf("failed to put frame %d: %v", idx, err)
		}
	}

	paths, err := store.List()
	if err != nil {
		t.Fatalf("failed to list frames: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("listed %d frames, want 3", len(paths))
	}
	for i, want := range []string{"frame_0001.png", "frame_0002.png", "frame_0003.png"} {
		if got := filepath.Base(paths[i]); got != want {
			t.Errorf("paths[%d] = %s, want %s", i, got, want)
		}
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("failed to clear store: %v", err)
	}
	paths, err = store.List()
	if err != nil {
		t.Fatalf("failed to list after clear: %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("listed %d frames after clear, want 0", len(paths))
	}
}

func TestLocalStoreIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Put(1, image.NewGray(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("failed to put frame: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("failed to clear: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "notes.txt")); err != nil {
		t.Errorf("clear removed an unrelated file: %v", err)
	}
}
