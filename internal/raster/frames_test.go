package raster

import (
	"image/color"
	"image/png"
	"os"
	"sync"
	"testing"
)

// writeTestFrame writes an in-memory frame to a temp PNG file and returns its path.
func writeTestFrame(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	tmpFile, err := os.CreateTemp(t.TempDir(), "frame-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer tmpFile.Close()

	if err := png.Encode(tmpFile, solidFrame(width, height, c)); err != nil {
		t.Fatalf("failed to encode frame: %v", err)
	}
	return tmpFile.Name()
}

func TestFrameCacheLoad(t *testing.T) {
	cache := NewFrameCache()
	path := writeTestFrame(t, 64, 48, color.RGBA{128, 0, 0, 255})

	img, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 48 {
		t.Errorf("dimensions: got %dx%d, want 64x48", img.Bounds().Dx(), img.Bounds().Dy())
	}

	// Second load must come from the cache even after the file is gone.
	os.Remove(path)
	if _, err := cache.Load(path); err != nil {
		t.Errorf("cached Load failed: %v", err)
	}

	cache.Evict(path)
	if _, err := cache.Load(path); err == nil {
		t.Error("expected error loading evicted frame with removed file")
	}
}

func TestFrameCacheLoadErrors(t *testing.T) {
	cache := NewFrameCache()

	if _, err := cache.Load("/nonexistent/frame.png"); err == nil {
		t.Error("expected error for missing file")
	}

	bad, err := os.CreateTemp(t.TempDir(), "bad-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	bad.WriteString("not a png")
	bad.Close()

	if _, err := cache.Load(bad.Name()); err == nil {
		t.Error("expected decode error for invalid file")
	}
}

func TestFrameCacheConcurrent(t *testing.T) {
	cache := NewFrameCache()
	path := writeTestFrame(t, 16, 16, color.RGBA{0, 128, 0, 255})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(path); err != nil {
				t.Errorf("concurrent Load failed: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestLoadFrameInfo(t *testing.T) {
	cache := NewFrameCache()
	path := writeTestFrame(t, 32, 24, color.RGBA{0, 0, 128, 255})

	info, err := LoadFrameInfo(cache, path)
	if err != nil {
		t.Fatalf("LoadFrameInfo failed: %v", err)
	}
	if info.Width != 32 || info.Height != 24 {
		t.Errorf("dimensions: got %dx%d, want 32x24", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("format: got %q, want png", info.Format)
	}
	if info.FileSizeBytes <= 0 {
		t.Errorf("file size: got %d, want > 0", info.FileSizeBytes)
	}
}
