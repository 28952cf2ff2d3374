// Package download moves published popgetter files into a local store with
// a bounded worker pool, skipping files that are already present.
package download

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const manifestName = "manifest.yaml"

// ManifestEntry records where a stored file came from.
type ManifestEntry struct {
	URL       string    `yaml:"url"`
	Bytes     int       `yaml:"bytes"`
	FetchedAt time.Time `yaml:"fetched-at"`
}

// Store is the on-disk mirror of downloaded release files, keyed by their
// release-relative path.
type Store struct {
	Path string

	mu       sync.Mutex
	manifest map[string]ManifestEntry
}

func OpenStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("download: no location set for the local store")
	}
	if err := os.MkdirAll(path, 0750); err != nil {
		return nil, fmt.Errorf("download: couldn't create store directory %s: %w", path, err)
	}

	s := &Store{Path: path, manifest: map[string]ManifestEntry{}}

	data, err := os.ReadFile(filepath.Join(path, manifestName))
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("download: couldn't read store manifest: %w", err)
	}
	if err := yaml.Unmarshal(data, &s.manifest); err != nil {
		return nil, fmt.Errorf("download: store manifest is corrupt: %w", err)
	}

	return s, nil
}

// Abs returns the store path of a release-relative file.
func (s *Store) Abs(relpath string) string {
	return filepath.Join(s.Path, filepath.FromSlash(relpath))
}

// Has reports whether a file is already stored.
func (s *Store) Has(relpath string) bool {
	info, err := os.Stat(s.Abs(relpath))
	return err == nil && !info.IsDir()
}

// ReadFile reads a stored file.
func (s *Store) ReadFile(relpath string) ([]byte, error) {
	data, err := os.ReadFile(s.Abs(relpath))
	if err != nil {
		return nil, fmt.Errorf("download: couldn't read stored file %s: %w", relpath, err)
	}
	return data, nil
}

// Write stores a downloaded file and records it in the manifest.
func (s *Store) Write(relpath string, url string, data []byte) error {
	abs := s.Abs(relpath)
	if err := os.MkdirAll(filepath.Dir(abs), 0750); err != nil {
		return fmt.Errorf("download: couldn't create directory for %s: %w", relpath, err)
	}

	f, err := os.Create(abs)
	if err != nil {
		return fmt.Errorf("download: couldn't create file %s: %w", abs, err)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("download: couldn't write file %s: %w", abs, err)
	}

	s.mu.Lock()
	s.manifest[relpath] = ManifestEntry{
		URL:       url,
		Bytes:     len(data),
		FetchedAt: time.Now().UTC(),
	}
	s.mu.Unlock()

	return nil
}

// WriteManifest flushes the manifest to disk.  Call it once after a batch of
// writes.
func (s *Store) WriteManifest() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := yaml.Marshal(s.manifest)
	if err != nil {
		return fmt.Errorf("download: couldn't serialise store manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.Path, manifestName), data, 0644); err != nil {
		return fmt.Errorf("download: couldn't write store manifest: %w", err)
	}
	return nil
}
