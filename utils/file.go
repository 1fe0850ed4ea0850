package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// SafeJoinDir performs a filepath.Join of 'parent' and 'subdir' but returns an error
// if the resulting path points outside of 'parent'.
// See also https://github.com/cyphar/filepath-securejoin.
func SafeJoinDir(parent, subdir string) (string, error) {
	res := filepath.Join(parent, subdir)
	if !strings.HasPrefix(filepath.Clean(res), filepath.Clean(parent)+string(os.PathSeparator)) {
		return res, errors.Errorf("unsafe path join: '%s' with '%s'", parent, subdir)
	}
	return res, nil
}

// RequireDir returns a NotFound error if path does not exist and an InvalidLayout error
// if it is not a directory.
func RequireDir(path string) error {
	info, err := stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return NewInvalidLayoutError(path, "is not a directory")
	}
	return nil
}

// RequireFile returns a NotFound error if path does not exist and an InvalidLayout error
// if it is not a regular file.
func RequireFile(path string) error {
	info, err := stat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return NewInvalidLayoutError(path, "is not a regular file")
	}
	return nil
}

func stat(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		return info, nil
	case errors.Is(err, os.ErrNotExist):
		return nil, NewNotFoundError(path)
	default:
		return nil, NewIOError(path, err)
	}
}
