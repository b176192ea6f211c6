package embed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/qaembed/ai"
)

// CleanText removes NUL characters and surrounding whitespace.
func CleanText(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\x00", ""))
}

// Shot issues single embedding requests and validates their responses.
type Shot struct {
	embedder   ai.Embedder
	classifier *Classifier
	config     Config
	logger     *slog.Logger
}

// Option configures a Shot or a Searcher.
type Option func(*options)

type options struct {
	classifier *Classifier
	logger     *slog.Logger
	recorder   Recorder
}

// WithClassifier sets the length rejection classifier.
// Default is NewClassifier().
func WithClassifier(classifier *Classifier) Option {
	return func(o *options) {
		o.classifier = classifier
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRecorder sets the request recorder used by a Searcher.
func WithRecorder(recorder Recorder) Option {
	return func(o *options) {
		o.recorder = recorder
	}
}

func applyOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.classifier == nil {
		o.classifier = defaultClassifier
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.recorder == nil {
		o.recorder = nopRecorder{}
	}
	return o
}

// NewShot creates a Shot sending requests through embedder.
func NewShot(embedder ai.Embedder, config *Config, opts ...Option) (*Shot, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	o := applyOptions(opts)
	return &Shot{
		embedder:   embedder,
		classifier: o.classifier,
		config:     *config,
		logger:     o.logger.With("component", "embed-shot"),
	}, nil
}

// Embed sends text to the endpoint exactly once.
// Texts shorter than MinInputChars after cleaning fail without a request.
func (s *Shot) Embed(ctx context.Context, text string) Outcome {
	if n := utf8.RuneCountInString(CleanText(text)); n < s.config.MinInputChars {
		return fatal(fmt.Errorf("%w: %d characters, need %d", ErrInputTooShort, n, s.config.MinInputChars))
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.RequestTimeout)
	defer cancel()

	vector, err := s.embedder.EmbedText(ctx, text)
	if err != nil {
		if s.classifier.IsLengthExceeded(err) {
			return tooLong(fmt.Errorf("%w: %w", ErrLengthExceeded, err))
		}
		return fatal(err)
	}

	if len(vector) == 0 {
		return fatal(ErrEmptyEmbedding)
	}
	if len(vector) != s.config.ExpectedDim {
		s.logger.Warn("unexpected embedding size", "size", len(vector), "expected", s.config.ExpectedDim)
	}
	return success(vector)
}
