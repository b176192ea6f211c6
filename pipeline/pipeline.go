package pipeline

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/qaembed/ai"
	"github.com/poiesic/qaembed/core"
	"github.com/poiesic/qaembed/embed"
	"github.com/poiesic/qaembed/storage"
)

// Record statuses reported to a Recorder.
const (
	StatusEmbedded  = "embedded"
	StatusTruncated = "truncated"
	StatusFailed    = "failed"
)

// MaxBodyExcerpt is the number of characters of an endpoint response logged
// for a failed record.
const MaxBodyExcerpt = 800

// Recorder receives one call per processed record. usedLength is zero for
// failed records.
type Recorder interface {
	RecordRecord(status string, usedLength int)
}

type nopRecorder struct{}

func (nopRecorder) RecordRecord(string, int) {}

// Config holds configuration for a run.
type Config struct {
	// ReportInterval is how often to report progress (number of records)
	ReportInterval int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ReportInterval: 100,
	}
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithRecorder sets the recorder for per-record metrics.
func WithRecorder(recorder Recorder) Option {
	return func(p *Pipeline) {
		p.recorder = recorder
	}
}

// WithProgress enables a progress line written to w.
func WithProgress(w io.Writer) Option {
	return func(p *Pipeline) {
		p.progress = w
	}
}

// Failure describes a skipped record.
type Failure struct {
	Ordinal int
	PostURL string
	Kind    embed.Kind
	Err     error
}

// Summary describes a finished run.
type Summary struct {
	Total     int
	Embedded  int
	Truncated int
	Failed    int
	Requests  int
	Elapsed   time.Duration
	Failures  []Failure
}

// Pipeline embeds records sequentially and writes the results once.
type Pipeline struct {
	searcher *embed.Searcher
	writer   storage.ResultWriter
	config   *Config
	logger   *slog.Logger
	recorder Recorder
	progress io.Writer
}

// New creates a pipeline.
func New(searcher *embed.Searcher, writer storage.ResultWriter, config *Config, opts ...Option) (*Pipeline, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	if writer == nil {
		return nil, ErrWriterRequired
	}
	if config == nil {
		config = DefaultConfig()
	}

	p := &Pipeline{
		searcher: searcher,
		writer:   writer,
		config:   config,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.recorder == nil {
		p.recorder = nopRecorder{}
	}
	p.logger = p.logger.With("component", "pipeline")
	return p, nil
}

// Run embeds every record and writes the successful results.
// Per-record failures never abort the run; only a canceled context or a
// failing write does.
func (p *Pipeline) Run(ctx context.Context, records []*core.Record) (*Summary, error) {
	start := time.Now()
	summary := &Summary{Total: len(records)}

	var tracker *ProgressTracker
	if p.progress != nil {
		tracker = NewProgressTracker(p.progress, len(records), p.config.ReportInterval)
		tracker.Start()
	}

	results := make([]*core.ResultRecord, 0, len(records))
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, res, err := p.embedRecord(ctx, record)
		if res != nil {
			summary.Requests += res.Requests()
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			summary.Failed++
			summary.Failures = append(summary.Failures, Failure{
				Ordinal: record.Ordinal,
				PostURL: record.PostURL,
				Kind:    embed.KindOf(err),
				Err:     err,
			})
			p.logFailure(record, err)
			p.recorder.RecordRecord(StatusFailed, 0)
			if tracker != nil {
				tracker.Record(false)
			}
			continue
		}

		status := StatusEmbedded
		if res.Truncated() {
			status = StatusTruncated
			summary.Truncated++
			p.logger.Warn("auto-truncated to context limit",
				"ordinal", record.Ordinal,
				"input_length", res.InputLength,
				"used_length", res.UsedLength)
		}
		summary.Embedded++
		results = append(results, result)
		p.recorder.RecordRecord(status, res.UsedLength)
		if tracker != nil {
			tracker.Record(true)
		}

		p.logger.Info("embedded",
			"ordinal", record.Ordinal,
			"total", len(records),
			"used_length", res.UsedLength,
			"requests", res.Requests())
	}

	if tracker != nil {
		tracker.Finish()
	}

	if err := p.writer.Write(ctx, results); err != nil {
		return nil, err
	}

	summary.Elapsed = time.Since(start)
	p.logger.Info("saved embedded examples",
		"embedded", summary.Embedded,
		"total", summary.Total,
		"failed", summary.Failed,
		"truncated", summary.Truncated,
		"elapsed", summary.Elapsed.Round(time.Millisecond))

	return summary, nil
}

func (p *Pipeline) embedRecord(ctx context.Context, record *core.Record) (*core.ResultRecord, *embed.Result, error) {
	res, err := p.searcher.Search(ctx, record.InputText())
	if err != nil {
		return nil, nil, err
	}
	result := core.NewResultRecord(record, res.Embedding, res.UsedLength)
	if err := core.ValidateResultRecord(result); err != nil {
		return nil, res, err
	}
	return result, res, nil
}

func (p *Pipeline) logFailure(record *core.Record, err error) {
	attrs := []any{
		"ordinal", record.Ordinal,
		"kind", embed.KindOf(err),
		"error", excerpt(err.Error(), MaxBodyExcerpt),
	}
	if record.PostURL != "" {
		attrs = append(attrs, "post_url", record.PostURL)
	}
	if ee, ok := ai.AsEndpointError(err); ok {
		if ee.StatusCode != 0 {
			attrs = append(attrs, "status", ee.StatusCode)
		}
		if ee.Endpoint != "" {
			attrs = append(attrs, "endpoint", ee.Endpoint)
		}
		if ee.Body != "" {
			attrs = append(attrs, "response", excerpt(ee.Body, MaxBodyExcerpt))
		}
	}
	p.logger.Error("failed embedding record", attrs...)
}

// excerpt returns at most n characters of s.
func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
