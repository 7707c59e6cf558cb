// Package upload stores media files referenced from teacher profiles.
package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrTooLarge   = errors.New("file too large")
	ErrInvalidRef = errors.New("invalid upload reference")
	ErrNotFound   = errors.New("upload not found")
)

var extPattern = regexp.MustCompile(`^\.[a-z0-9]{1,8}$`)

// Store keeps uploads as flat files named <uuid><ext> under one directory.
type Store struct {
	dir      string
	maxBytes int64
}

func NewStore(dir string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	if maxBytes <= 0 {
		maxBytes = 50 << 20
	}
	return &Store{dir: dir, maxBytes: maxBytes}, nil
}

func (s *Store) MaxBytes() int64 {
	return s.maxBytes
}

// Save copies r to a new file and returns its reference. originalName only
// contributes its extension.
func (s *Store) Save(r io.Reader, originalName string) (string, error) {
	ref := uuid.NewString() + safeExt(originalName)
	path := filepath.Join(s.dir, ref)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}

	n, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > s.maxBytes {
		err = ErrTooLarge
	}
	if err != nil {
		os.Remove(path)
		return "", err
	}
	return ref, nil
}

// Path resolves a reference returned by Save.
func (s *Store) Path(ref string) (string, error) {
	ext := filepath.Ext(ref)
	if ext != "" && !extPattern.MatchString(ext) {
		return "", ErrInvalidRef
	}
	if _, err := uuid.Parse(strings.TrimSuffix(ref, ext)); err != nil {
		return "", ErrInvalidRef
	}

	path := filepath.Join(s.dir, ref)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", err
	}
	return path, nil
}

func safeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if !extPattern.MatchString(ext) {
		return ""
	}
	return ext
}
