// Package backup implements the run-scoped backup store. Every file is backed
// up before its first mutation in a run and can be restored byte-for-byte;
// restores are verified against a recorded content hash.
package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/klauspost/compress/zstd"

	"anyfix/internal/logging"
)

const manifestName = "manifest.json"

// entry records one backed-up file in the manifest.
type entry struct {
	// Name is the compressed blob filename inside the run directory.
	Name string `json:"name"`

	// SHA256 is the hex digest of the original (uncompressed) bytes.
	SHA256 string `json:"sha256"`

	// Size is the original byte length.
	Size int64 `json:"size"`
}

// Store holds the backups of one campaign run.
type Store struct {
	dir      string
	logger   *logging.Logger
	manifest map[string]entry
}

// NewStore creates the backup directory for a run. Failure here is fatal to
// the campaign: without a writable backup location the safety invariant
// cannot be established and no file may be mutated.
func NewStore(backupRoot, runID string, logger *logging.Logger) (*Store, error) {
	dir := filepath.Join(backupRoot, runID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	return &Store{
		dir:      dir,
		logger:   logger.With(map[string]interface{}{"component": "backup"}),
		manifest: make(map[string]entry),
	}, nil
}

// OpenStore opens an existing run's backup directory for restoration.
func OpenStore(backupRoot, runID string, logger *logging.Logger) (*Store, error) {
	dir := filepath.Join(backupRoot, runID)

	data, err := os.ReadFile(filepath.Join(dir, manifestName))
	if err != nil {
		return nil, fmt.Errorf("failed to read backup manifest: %w", err)
	}

	manifest := make(map[string]entry)
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("malformed backup manifest: %w", err)
	}

	return &Store{
		dir:      dir,
		logger:   logger.With(map[string]interface{}{"component": "backup"}),
		manifest: manifest,
	}, nil
}

// Dir returns the run's backup directory.
func (s *Store) Dir() string {
	return s.dir
}

// Files returns the backed-up file paths, sorted.
func (s *Store) Files() []string {
	files := make([]string, 0, len(s.manifest))
	for path := range s.manifest {
		files = append(files, path)
	}
	sort.Strings(files)
	return files
}

// Put backs up the original content of a file. The first backup in a run
// wins: a later Put for the same path is a no-op, so the stored bytes are
// always the pre-run state.
func (s *Store) Put(path string, content []byte) error {
	if _, exists := s.manifest[path]; exists {
		return nil
	}

	sum := sha256.Sum256(content)
	name := hex.EncodeToString(sum[:8]) + "-" + hex.EncodeToString(pathDigest(path)) + ".zst"

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return err
	}
	compressed := enc.EncodeAll(content, nil)
	if err := enc.Close(); err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(s.dir, name), compressed, 0644); err != nil {
		return fmt.Errorf("failed to write backup for %s: %w", path, err)
	}

	s.manifest[path] = entry{
		Name:   name,
		SHA256: hex.EncodeToString(sum[:]),
		Size:   int64(len(content)),
	}
	if err := s.saveManifest(); err != nil {
		return err
	}

	s.logger.Debug("backed up file", map[string]interface{}{
		"file":  path,
		"bytes": len(content),
	})
	return nil
}

// Content returns the original bytes of a backed-up file, verified against
// the recorded digest.
func (s *Store) Content(path string) ([]byte, error) {
	e, ok := s.manifest[path]
	if !ok {
		return nil, fmt.Errorf("no backup recorded for %s", path)
	}

	compressed, err := os.ReadFile(filepath.Join(s.dir, e.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to read backup blob: %w", err)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	content, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress backup: %w", err)
	}

	sum := sha256.Sum256(content)
	if hex.EncodeToString(sum[:]) != e.SHA256 {
		return nil, fmt.Errorf("backup checksum mismatch for %s", path)
	}
	return content, nil
}

// Restore writes the backed-up bytes back to the file, atomically.
func (s *Store) Restore(path string) error {
	content, err := s.Content(path)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".anyfix-restore-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}

	s.logger.Info("restored file from backup", map[string]interface{}{
		"file": path,
	})
	return nil
}

func (s *Store) saveManifest() error {
	data, err := json.MarshalIndent(s.manifest, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, manifestName), data, 0644)
}

func pathDigest(path string) []byte {
	sum := sha256.Sum256([]byte(path))
	return sum[:6]
}
