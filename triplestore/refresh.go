package triplestore

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/standoff/annotation"
	"github.com/teranos/standoff/convert"
	"github.com/teranos/standoff/errors"
	"github.com/teranos/standoff/logger"
)

// AnnotationExt is the extension of files picked up by a refresh
const AnnotationExt = ".ann"

// Converter turns one annotated document into parts
type Converter interface {
	Parts(ctx context.Context, src annotation.Source) (*convert.Result, error)
}

// FileResult is the outcome for one annotation file
type FileResult struct {
	Path     string        `json:"path"`
	User     string        `json:"user"`
	Document string        `json:"document"`
	GraphURL string        `json:"graph_url,omitempty"`
	Uploaded bool          `json:"uploaded"`
	Empty    bool          `json:"empty,omitempty"`
	Bytes    int           `json:"bytes"`
	Duration time.Duration `json:"duration_ns"`
	Err      error         `json:"-"`
}

// Summary counts a refresh's outcomes
type Summary struct {
	Uploaded int
	Empty    int
	Failed   int
}

// Summarize tallies results
func Summarize(results []FileResult) Summary {
	var s Summary
	for _, r := range results {
		switch {
		case r.Err != nil:
			s.Failed++
		case r.Empty:
			s.Empty++
		case r.Uploaded:
			s.Uploaded++
		}
	}
	return s
}

// Refresher converts every annotation file under a directory and uploads
// each graph. The user of a file is its parent directory's name.
type Refresher struct {
	converter Converter
	client    *Client
	limiter   *rate.Limiter
	logger    *zap.SugaredLogger

	// DryRun converts without uploading
	DryRun bool
}

// NewRefresher paces uploads at rps with the given burst; rps <= 0 is unlimited.
func NewRefresher(converter Converter, client *Client, rps float64, burst int, log *zap.SugaredLogger) *Refresher {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if rps > 0 {
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
	if log == nil {
		log = logger.ComponentLogger("refresh")
	}
	return &Refresher{
		converter: converter,
		client:    client,
		limiter:   limiter,
		logger:    log,
	}
}

// Refresh processes dir recursively in lexical order. A failing file is
// recorded in its result and does not stop the walk; cancellation does.
func (r *Refresher) Refresh(ctx context.Context, dir string) ([]FileResult, error) {
	paths, err := annotationFiles(dir)
	if err != nil {
		return nil, err
	}

	r.logger.Infow("Refreshing annotations",
		logger.FieldPath, dir,
		logger.FieldCount, len(paths),
		"dry_run", r.DryRun,
	)

	results := make([]FileResult, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res := r.refreshFile(ctx, path)
		if res.Err != nil {
			if errors.Is(res.Err, context.Canceled) || errors.Is(res.Err, context.DeadlineExceeded) {
				return append(results, res), res.Err
			}
			r.logger.Warnw("Refresh failed for file",
				logger.FieldFile, path,
				logger.FieldError, res.Err,
			)
		}
		results = append(results, res)
	}

	s := Summarize(results)
	r.logger.Infow("Refresh finished",
		"uploaded", s.Uploaded,
		"empty", s.Empty,
		"failed", s.Failed,
	)
	return results, nil
}

func (r *Refresher) refreshFile(ctx context.Context, path string) FileResult {
	start := time.Now()
	src := annotation.FileSource{Path: path}
	res := FileResult{
		Path:     path,
		User:     filepath.Base(filepath.Dir(path)),
		Document: src.Name(),
	}
	defer func() { res.Duration = time.Since(start) }()

	conv, err := r.converter.Parts(convert.WithUser(ctx, res.User), src)
	if err != nil {
		res.Err = err
		return res
	}
	if conv.Output.Empty() {
		res.Empty = true
		return res
	}

	doc := conv.Output.Document()
	res.Bytes = len(doc)
	res.GraphURL = r.client.GraphURL(conv.GraphPath)
	if r.DryRun {
		return res
	}

	if err := r.limiter.Wait(ctx); err != nil {
		res.Err = err
		return res
	}
	if err := r.client.PutGraph(ctx, conv.GraphPath, doc); err != nil {
		res.Err = err
		return res
	}
	res.Uploaded = true
	return res
}

func annotationFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), AnnotationExt) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(err, "walk %s", dir),
			"refresh expects a directory of <user>/<document>.ann files",
		)
	}
	return paths, nil
}
