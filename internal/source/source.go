// Package source loads name lists for batch encoding and indexing.
//
// Supported inputs are plain text (one name per line, '#' starts a comment)
// and XML (names selected by XPath). Either may be xz-compressed, signalled
// by a trailing ".xz" extension.
package source

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/JuniperPhonetic/core/errors"
	"github.com/FocuswithJustin/JuniperPhonetic/core/xml"
	"github.com/FocuswithJustin/JuniperPhonetic/internal/validation"
)

// MaxLineBytes bounds a single line of a text name list.
const MaxLineBytes = 1 << 20

// Options controls how a name list is read.
type Options struct {
	// XPath selects name nodes in XML inputs. Empty means xml.DefaultNameXPath.
	XPath string
	// MaxBytes bounds the decompressed size of the list. Zero means
	// validation.MaxFileSize.
	MaxBytes int64
}

// Load reads every name in the file at path.
func Load(path string, opts Options) ([]string, error) {
	if err := validation.ValidateInputFile(path); err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	name := path
	if strings.EqualFold(filepath.Ext(name), ".xz") {
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, errors.NewIO("decompress", path, err)
		}
		r = xr
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}

	limit := opts.MaxBytes
	if limit <= 0 {
		limit = validation.MaxFileSize
	}
	lr := &io.LimitedReader{R: r, N: limit + 1}
	tooLarge := func() bool { return lr.N <= 0 }

	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".lst", "":
		names, err := ReadLines(lr)
		if tooLarge() {
			return nil, errors.NewIO("read", path, validation.ErrFileTooLarge)
		}
		if err != nil {
			return nil, errors.NewIO("read", path, err)
		}
		return names, nil
	case ".xml":
		data, err := io.ReadAll(lr)
		if err != nil {
			return nil, errors.NewIO("read", path, err)
		}
		if tooLarge() {
			return nil, errors.NewIO("read", path, validation.ErrFileTooLarge)
		}
		names, err := xml.ExtractText(data, opts.XPath)
		if err != nil {
			return nil, errors.NewParse("XML", path, err.Error())
		}
		return names, nil
	default:
		return nil, errors.NewUnsupported("name list format", filepath.Ext(name))
	}
}

// ReadLines returns the trimmed, non-empty, non-comment lines of r. A line
// longer than MaxLineBytes fails with bufio.ErrTooLong.
func ReadLines(r io.Reader) ([]string, error) {
	var names []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineBytes)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := sc.Err(); err != nil {
		return names, err
	}
	return names, nil
}

// ParseLines is ReadLines over an in-memory buffer.
func ParseLines(data []byte) ([]string, error) {
	return ReadLines(bytes.NewReader(data))
}
