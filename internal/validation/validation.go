// Package validation checks user-supplied paths before the CLI touches the
// filesystem.
package validation

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// Security limits to prevent resource exhaustion (CWE-400).
const (
	// MaxFileSize is the maximum name list size (256 MB).
	MaxFileSize = 256 << 20
	// MaxPathLength is the maximum allowed path length.
	MaxPathLength = 4096
)

// Common validation errors.
var (
	ErrPathTooLong      = errors.New("path too long")
	ErrInvalidCharacter = errors.New("invalid character in path")
	ErrEmptyPath        = errors.New("path cannot be empty")
	ErrFileTooLarge     = errors.New("file too large")
	ErrNotRegularFile   = errors.New("not a regular file")
)

// ValidatePath performs basic validation on a path.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if len(path) > MaxPathLength {
		return ErrPathTooLong
	}
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%w: null byte not allowed", ErrInvalidCharacter)
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidCharacter)
		}
	}
	return nil
}

// ValidateInputFile validates path and checks that it names a regular file
// no larger than MaxFileSize.
func ValidateInputFile(path string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotRegularFile, path)
	}
	if info.Size() > MaxFileSize {
		return fmt.Errorf("%w: %s is %d bytes (max %d)", ErrFileTooLarge, path, info.Size(), MaxFileSize)
	}
	return nil
}
