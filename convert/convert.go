// Package convert turns standoff annotations into a Turtle graph.
//
// A conversion is one forward pass over a document's records. Each record
// kind has its own emission rule; global entities reached through
// normalization links are described once, in a block appended after the pass.
// Output is all or nothing: a normalization store failure aborts the
// conversion, while malformed lines are skipped and counted.
package convert

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/standoff/annotation"
	"github.com/teranos/standoff/errors"
	"github.com/teranos/standoff/logger"
	"github.com/teranos/standoff/metrics"
	"github.com/teranos/standoff/normdb"
	"github.com/teranos/standoff/ontology"
	"github.com/teranos/standoff/resolve"
	"github.com/teranos/standoff/turtle"
)

// Converter runs conversions. It keeps no per-conversion state and is safe
// for concurrent use.
type Converter struct {
	ontology ontology.Loader
	store    normdb.Store
	identity Identity
	metrics  *metrics.Metrics
	logger   *zap.SugaredLogger
}

// Option configures a Converter
type Option func(*Converter)

// WithMetrics records conversions in m
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Converter) { c.metrics = m }
}

// WithLogger sets the converter's logger
func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *Converter) { c.logger = log }
}

// New creates a converter. The loader is consulted once per conversion, so
// an ontology.Cache gives every conversion a stable snapshot.
func New(loader ontology.Loader, store normdb.Store, identity Identity, opts ...Option) *Converter {
	c := &Converter{
		ontology: loader,
		store:    store,
		identity: identity,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.ComponentLogger("convert")
	}
	return c
}

// Parts converts src and returns the output in parts form.
func (c *Converter) Parts(ctx context.Context, src annotation.Source) (*Result, error) {
	start := time.Now()
	id := uuid.NewString()
	ctx = logger.WithConversionID(ctx, id)
	ctx = logger.WithDocument(ctx, src.Name())
	log := logger.FromContext(ctx, c.logger)

	result, err := c.run(ctx, src, log)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.ConversionFinished(metrics.StatusFailed, elapsed)
		log.Warnw("Conversion aborted",
			logger.FieldError, err,
			logger.FieldDurationMS, elapsed.Milliseconds(),
		)
		return nil, err
	}

	result.ConversionID = id
	result.Duration = elapsed
	c.metrics.ConversionFinished(metrics.StatusOK, elapsed)
	c.metrics.EntitiesDeferred(result.Stats.Deferred)

	log.Infow("Conversion complete",
		logger.FieldUserID, result.User,
		logger.FieldCount, result.Stats.Lines-result.Stats.Skipped,
		logger.FieldSkipped, result.Stats.Skipped,
		"deferred_entities", result.Stats.Deferred,
		logger.FieldDurationMS, elapsed.Milliseconds(),
	)
	return result, nil
}

// Document converts src and returns the flattened Turtle document.
func (c *Converter) Document(ctx context.Context, src annotation.Source) (string, *Result, error) {
	result, err := c.Parts(ctx, src)
	if err != nil {
		return "", nil, err
	}
	return result.Output.Document(), result, nil
}

func (c *Converter) run(ctx context.Context, src annotation.Source, log *zap.SugaredLogger) (*Result, error) {
	document := src.Name()

	cfg, err := c.ontology.Load()
	if err != nil {
		return nil, errors.Wrapf(err, "convert %s", document)
	}

	user, err := userFrom(ctx, c.identity)
	if err != nil {
		return nil, errors.Wrapf(err, "convert %s", document)
	}

	ns := cfg.DocumentNamespace(user, document)
	cv := &conversion{
		ctx:      ctx,
		cfg:      cfg,
		res:      resolve.New(cfg, ns),
		store:    c.store,
		metrics:  c.metrics,
		log:      log,
		entities: newEntityCache(),
		stats:    Stats{Records: make(map[string]int)},
	}

	err = annotation.Scan(ctx, src, func(rec annotation.Record, perr error) error {
		cv.stats.Lines++
		if perr != nil {
			cv.skip(perr, reasonOf(perr))
			return nil
		}
		if err := cv.emit(rec); err != nil {
			if errors.IsMalformedRecord(err) {
				cv.skip(err, "malformed")
				return nil
			}
			return errors.WithDetailf(
				errors.Wrapf(err, "document %s line %d", document, rec.Line()),
				"record %s (%s)", rec.RecordID(), rec.Kind(),
			)
		}
		cv.stats.Records[rec.Kind().String()]++
		c.metrics.RecordEmitted(rec.Kind().String())
		return nil
	})
	if err != nil {
		return nil, err
	}

	cv.flushEntities()

	prefixes := make([]string, 0, len(cfg.Namespaces))
	for _, n := range cfg.Namespaces {
		prefixes = append(prefixes, turtle.PrefixLine(n.Prefix, n.URI))
	}

	return &Result{
		User:      user,
		Document:  document,
		Namespace: cv.res.Namespace(),
		GraphPath: cfg.GraphPath(user, document),
		Output:    Output{Prefixes: prefixes, Data: cv.buf.String()},
		Stats:     cv.stats,
	}, nil
}

// conversion is the state of one pass, discarded when it ends
type conversion struct {
	ctx      context.Context
	cfg      *ontology.Config
	res      *resolve.Resolver
	store    normdb.Store
	metrics  *metrics.Metrics
	log      *zap.SugaredLogger
	entities *entityCache
	stats    Stats
	buf      strings.Builder
}

func (cv *conversion) skip(err error, reason string) {
	cv.stats.Skipped++
	cv.metrics.RecordSkipped(reason)
	cv.log.Debugw("Skipping annotation line", logger.FieldError, err.Error())
}

func reasonOf(err error) string {
	if errors.Is(err, annotation.ErrUnknownKind) {
		return "unknown_kind"
	}
	return "malformed"
}
