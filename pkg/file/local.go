package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultMaxSize caps how much a Source reads for a single object.
const DefaultMaxSize int64 = 5 << 20

// Source reads whole static assets by name.
type Source interface {
	ReadFile(ctx context.Context, name string) ([]byte, error)
}

// LocalSource implements Source for the local filesystem.
// It is safe for concurrent use.
type LocalSource struct {
	baseDir string
	maxSize int64
}

// LocalOption configures LocalSource.
type LocalOption func(*LocalSource)

// WithLocalMaxSize overrides DefaultMaxSize.
func WithLocalMaxSize(n int64) LocalOption {
	return func(s *LocalSource) {
		if n > 0 {
			s.maxSize = n
		}
	}
}

// NewLocalSource creates a source rooted at baseDir.
// All reads are confined to baseDir to prevent path traversal attacks.
func NewLocalSource(baseDir string, opts ...LocalOption) (*LocalSource, error) {
	if baseDir == "" {
		return nil, ErrInvalidConfig
	}

	absBaseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to resolve base directory: %v", ErrFailedToGetAbsolutePath, err)
	}

	s := &LocalSource{baseDir: absBaseDir, maxSize: DefaultMaxSize}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ReadFile reads name relative to the base directory.
func (s *LocalSource) ReadFile(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOperationCanceled, err)
	}

	path, err := s.resolvePath(name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, name)
		}
		return nil, fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, name)
	}

	return readLimited(f, s.maxSize)
}

// resolvePath ensures the resolved path is within baseDir.
func (s *LocalSource) resolvePath(name string) (string, error) {
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, name)
	}

	absPath, err := filepath.Abs(filepath.Join(s.baseDir, filepath.Clean(name)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToGetAbsolutePath, err)
	}

	if !strings.HasPrefix(absPath, s.baseDir+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, name)
	}

	return absPath, nil
}

func readLimited(r io.Reader, max int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}
	if int64(len(data)) > max {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, max)
	}
	return data, nil
}
