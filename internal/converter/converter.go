package converter

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/insightdelivered/phonebill-converter/internal/config"
	"github.com/insightdelivered/phonebill-converter/internal/extractor"
	"github.com/insightdelivered/phonebill-converter/internal/metrics"
	"github.com/insightdelivered/phonebill-converter/internal/parser"
	"github.com/insightdelivered/phonebill-converter/internal/report"
	"github.com/insightdelivered/phonebill-converter/internal/store"
)

// Converter runs the extract, parse and report pipeline over documents.
// Documents are processed one after another; a failing document is logged
// and skipped.
type Converter struct {
	cfg     config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	store   *store.DB
}

// Options configures a Converter. Only Config is required.
type Options struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	// Store, when set, receives the calls and messages of every parsed document.
	Store *store.DB
}

// New creates a Converter.
func New(opts Options) *Converter {
	cfg := config.Default()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Converter{cfg: cfg, logger: logger, metrics: opts.Metrics, store: opts.Store}
}

// Failure records a document that was skipped.
type Failure struct {
	Path string `json:"path"`
	Err  error  `json:"-"`
}

func (f Failure) Error() string { return fmt.Sprintf("%s: %v", f.Path, f.Err) }

// Run processes paths in order and collects the rows of every document
// that parsed into one table.
func (c *Converter) Run(runID string, paths []string, b report.Builder) (*report.Table, []Failure) {
	table := report.NewTable(b)
	var failures []Failure
	for _, path := range paths {
		res, err := c.Document(runID, path, false)
		if err != nil {
			c.logger.Error("skipping document", "run", runID, "path", path, "error", err)
			failures = append(failures, Failure{Path: path, Err: err})
			continue
		}
		table.Append(b, res.Book)
	}
	return table, failures
}

// Document extracts and parses one file. With trace set, the result
// carries a per-token trace.
func (c *Converter) Document(runID, path string, trace bool) (*parser.Result, error) {
	start := time.Now()
	logger := c.logger.With("run", runID, "path", path)

	doc, err := extractor.Open(path, extractor.Options{
		Encoding: c.cfg.Encoding,
		Source:   c.cfg.Source,
		Logger:   logger,
	})
	if err != nil {
		c.count(statusOf(err), time.Since(start))
		return nil, err
	}

	p := parser.New(parser.Options{
		Year:     c.cfg.Year,
		Strict:   c.cfg.Strict,
		Trace:    trace,
		Logger:   logger,
		Recorder: c.recorder(),
	})
	res, err := p.Parse(doc)
	if err != nil {
		c.count(metrics.StatusFailed, time.Since(start))
		return nil, err
	}

	if c.store != nil {
		n, err := c.store.SaveBook(runID, path, res.Book)
		if err != nil {
			c.count(metrics.StatusFailed, time.Since(start))
			return nil, fmt.Errorf("store %s: %w", path, err)
		}
		logger.Debug("entries stored", "rows", n)
	}

	c.count(metrics.StatusOK, time.Since(start))
	return res, nil
}

func (c *Converter) recorder() parser.Recorder {
	if c.metrics == nil {
		return nil
	}
	return c.metrics
}

func (c *Converter) count(status string, elapsed time.Duration) {
	if c.metrics != nil {
		c.metrics.Document(status, elapsed)
	}
}

func statusOf(err error) string {
	if errors.Is(err, extractor.ErrUnreadable) {
		return metrics.StatusUnreadable
	}
	return metrics.StatusFailed
}
