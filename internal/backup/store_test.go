package backup

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"anyfix/internal/logging"
)

func testLogger() *logging.Logger {
	return logging.NewLogger(logging.Config{Level: logging.ErrorLevel})
}

func TestPutAndRestoreByteForByte(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewStore(filepath.Join(tmpDir, "backups"), "run-1", testLogger())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	original := []byte("const items: any[] = [];\r\nconst weird = \"\x00\xff bytes\";\n")
	target := filepath.Join(tmpDir, "sample.ts")
	if err := os.WriteFile(target, original, 0644); err != nil {
		t.Fatal(err)
	}

	if err := store.Put(target, original); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// Mutate the file, then restore.
	if err := os.WriteFile(target, []byte("broken content"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := store.Restore(target); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	restored, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(restored, original) {
		t.Error("restored content is not byte-identical to the original")
	}
}

func TestFirstBackupWins(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewStore(filepath.Join(tmpDir, "backups"), "run-1", testLogger())
	if err != nil {
		t.Fatal(err)
	}

	target := filepath.Join(tmpDir, "a.ts")
	if err := store.Put(target, []byte("pre-run state")); err != nil {
		t.Fatal(err)
	}
	// A second Put must not overwrite the pre-run state.
	if err := store.Put(target, []byte("mid-run state")); err != nil {
		t.Fatal(err)
	}

	content, err := store.Content(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "pre-run state" {
		t.Errorf("content = %q, want pre-run state", content)
	}
}

func TestOpenStoreAcrossProcesses(t *testing.T) {
	tmpDir := t.TempDir()
	root := filepath.Join(tmpDir, "backups")

	store, err := NewStore(root, "run-7", testLogger())
	if err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(tmpDir, "b.ts")
	if err := store.Put(target, []byte("original")); err != nil {
		t.Fatal(err)
	}

	reopened, err := OpenStore(root, "run-7", testLogger())
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}

	files := reopened.Files()
	if len(files) != 1 || files[0] != target {
		t.Errorf("Files = %v", files)
	}

	content, err := reopened.Content(target)
	if err != nil {
		t.Fatalf("Content: %v", err)
	}
	if string(content) != "original" {
		t.Errorf("content = %q", content)
	}
}

func TestOpenStoreMissingRun(t *testing.T) {
	if _, err := OpenStore(t.TempDir(), "no-such-run", testLogger()); err == nil {
		t.Error("expected error for missing run")
	}
}

func TestChecksumMismatchDetected(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewStore(filepath.Join(tmpDir, "backups"), "run-1", testLogger())
	if err != nil {
		t.Fatal(err)
	}

	target := filepath.Join(tmpDir, "c.ts")
	if err := store.Put(target, []byte("trusted bytes")); err != nil {
		t.Fatal(err)
	}

	// Swap the stored blob for one holding different bytes.
	e := store.manifest[target]
	blob := filepath.Join(store.Dir(), e.Name)
	if err := os.WriteFile(blob, corrupt(t, target), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Content(target); err == nil {
		t.Error("expected checksum mismatch error")
	}
}

// corrupt returns a valid zstd frame holding different bytes.
func corrupt(t *testing.T, path string) []byte {
	t.Helper()
	other, err := NewStore(t.TempDir(), "x", testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if err := other.Put(path, []byte("tampered bytes")); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(other.Dir(), other.manifest[path].Name))
	if err != nil {
		t.Fatal(err)
	}
	return data
}
