// Package videos provides filesystem storage and signed playback URLs for
// movement demonstration videos.
package videos

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ErrTooLarge is returned by Save when the upload exceeds the configured cap.
var ErrTooLarge = errors.New("video exceeds maximum allowed size")

// Storage manages video filesystem operations.
// Thread-safe for concurrent operations.
type Storage struct {
	basePath string
	maxSize  int64
	mu       sync.RWMutex // Protects file operations
}

// NewStorage creates a Storage rooted at basePath. Videos are stored flat
// under that directory. maxSize caps uploads in bytes.
func NewStorage(basePath string, maxSize int64) (*Storage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	if maxSize <= 0 {
		return nil, fmt.Errorf("max size must be positive")
	}

	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create videos directory: %w", err)
	}

	return &Storage{
		basePath: basePath,
		maxSize:  maxSize,
	}, nil
}

// MaxSize returns the configured upload cap in bytes.
func (s *Storage) MaxSize() int64 {
	return s.maxSize
}

// Ping verifies the storage directory is still reachable.
func (s *Storage) Ping() error {
	info, err := os.Stat(s.basePath)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("video storage path %q is not a directory", s.basePath)
	}
	return nil
}

// Save streams the upload to disk under a freshly generated object name that
// preserves the original file's extension. Returns the object name and the
// number of bytes written. The partial file is removed when the stream fails
// or exceeds the size cap.
func (s *Storage) Save(r io.Reader, originalName string) (string, int64, error) {
	object, err := newObjectName(originalName)
	if err != nil {
		return "", 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.basePath, object)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644) //#nosec G304 -- object name is generated, not user input
	if err != nil {
		return "", 0, fmt.Errorf("failed to create video file: %w", err)
	}

	// Read one byte past the cap so we can tell "exactly at the cap" from
	// "over it".
	written, err := io.Copy(f, io.LimitReader(r, s.maxSize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", 0, fmt.Errorf("failed to write video file: %w", err)
	}
	if written > s.maxSize {
		_ = os.Remove(path)
		return "", 0, ErrTooLarge
	}
	if written == 0 {
		_ = os.Remove(path)
		return "", 0, fmt.Errorf("video data cannot be empty")
	}

	return object, written, nil
}

// Open returns the stored video file for reading. The caller owns the
// returned file and must close it. Supports seeking for range requests.
func (s *Storage) Open(object string) (*os.File, os.FileInfo, error) {
	path, err := s.resolve(object)
	if err != nil {
		return nil, nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(path) //#nosec G304 -- path is validated against the storage root
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("video not found: %s", object)
		}
		return nil, nil, fmt.Errorf("failed to open video file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("failed to stat video file: %w", err)
	}

	return f, info, nil
}

// Exists checks whether a stored object is present.
func (s *Storage) Exists(object string) bool {
	path, err := s.resolve(object)
	if err != nil {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err = os.Stat(path)
	return err == nil
}

// Delete removes a stored object. Deleting a missing object is not an error.
func (s *Storage) Delete(object string) error {
	path, err := s.resolve(object)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete video file: %w", err)
	}

	return nil
}

// resolve validates an object name and returns its full path. Object names
// are flat file names; anything with a path separator is rejected.
func (s *Storage) resolve(object string) (string, error) {
	if object == "" {
		return "", fmt.Errorf("object name cannot be empty")
	}
	if strings.ContainsAny(object, `/\`) || object == "." || object == ".." {
		return "", fmt.Errorf("invalid object name: %s", object)
	}
	return filepath.Join(s.basePath, object), nil
}

// newObjectName generates a random object name, keeping the original
// extension so playback gets a sensible content type.
func newObjectName(originalName string) (string, error) {
	name, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate object name: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	// Extensions come from user-supplied filenames; keep only sane ones.
	if len(ext) > 10 || strings.ContainsAny(ext, `/\`) {
		ext = ""
	}
	return name + ext, nil
}
