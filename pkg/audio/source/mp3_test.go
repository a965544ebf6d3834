// ABOUTME: Unit tests for the MP3 file source
// ABOUTME: Exercises decoder wiring through the error paths and Open dispatch
package source

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// writeFile writes raw bytes under a temp dir and returns the path.
func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestOpenMP3RejectsInvalidData(t *testing.T) {
	// No 0xFF sync byte anywhere, so the decoder cannot find a frame.
	path := writeFile(t, "garbage.mp3", bytes.Repeat([]byte("not an mp3 stream. "), 64))

	src, err := OpenMP3(path)
	if err == nil {
		src.Close()
		t.Fatal("OpenMP3() on garbage succeeded, want decode error")
	}
}

func TestOpenMP3MissingFile(t *testing.T) {
	if _, err := OpenMP3(filepath.Join(t.TempDir(), "missing.mp3")); err == nil {
		t.Fatal("OpenMP3() on a missing file succeeded, want error")
	}
}

func TestOpenDispatchesMP3(t *testing.T) {
	// Open must route .mp3 to the MP3 decoder; the garbage payload proves
	// the decoder ran by failing there rather than on extension dispatch.
	path := writeFile(t, "garbage.mp3", bytes.Repeat([]byte{0x00, 0x01, 0x02, 0x03}, 256))

	src, err := Open(path)
	if err == nil {
		src.Close()
		t.Fatal("Open() on a garbage .mp3 succeeded, want decode error")
	}
}
