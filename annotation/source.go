package annotation

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/teranos/standoff/errors"
)

// maxLineSize bounds a single annotation line; long text spans exceed bufio's default
const maxLineSize = 4 << 20

// Source yields the lines of one annotated document. Open may be called
// more than once; each call starts from the first line.
type Source interface {
	// Name is the document name used in namespaces and graph paths
	Name() string
	Open(ctx context.Context) (io.ReadCloser, error)
}

// FileSource reads a document from an .ann file
type FileSource struct {
	Path string
}

// Name returns the file name without directory or extension
func (s FileSource) Name() string {
	base := filepath.Base(s.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (s FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "open annotations %s", s.Path)
	}
	return f, nil
}

// StringSource serves annotations held in memory
type StringSource struct {
	Document string
	Content  string
}

func (s StringSource) Name() string { return s.Document }

func (s StringSource) Open(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(s.Content)), nil
}

// RecordFunc receives each parsed record, or the parse error for a line that
// could not become one. Returning an error stops the scan with that error.
type RecordFunc func(rec Record, parseErr error) error

// Scan parses src line by line and calls fn for every non-empty line.
// Context cancellation is checked between lines.
func Scan(ctx context.Context, src Source, fn RecordFunc) error {
	rc, err := src.Open(ctx)
	if err != nil {
		return err
	}
	defer rc.Close()

	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Text()
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		rec, perr := ParseLine(lineNo, line)
		if rec == nil && perr == nil {
			continue
		}
		if err := fn(rec, perr); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "read %s after line %d", src.Name(), lineNo)
	}
	return nil
}
