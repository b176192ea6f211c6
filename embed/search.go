package embed

import (
	"context"
	"fmt"
	"log/slog"
	"math"
)

// Phase identifies the stage of a search an attempt belongs to.
type Phase string

const (
	PhaseInitial Phase = "initial"
	PhaseShrink  Phase = "shrink"
	PhaseRefine  Phase = "refine"
	PhaseConfirm Phase = "confirm"
)

// Recorder receives one call per request issued by a Searcher.
type Recorder interface {
	RecordRequest(phase, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) RecordRequest(string, string) {}

// State is the bracket known to a search. Zero means not yet known for
// Acceptable and Rejected, since every attempted length is positive.
type State struct {
	Acceptable int // longest length known to succeed
	Rejected   int // shortest length known to fail for its length
	Current    int // length of the next candidate
}

// Attempt records a single request and the state after handling it.
type Attempt struct {
	Phase   Phase
	Length  int
	Outcome OutcomeKind
	State   State
}

// Result is the outcome of a successful search.
type Result struct {
	Embedding   []float32
	UsedLength  int
	InputLength int
	Attempts    []Attempt
}

// Truncated reports whether only a prefix of the input was embedded.
func (r *Result) Truncated() bool {
	return r.UsedLength < r.InputLength
}

// Requests returns the number of requests issued for the search.
func (r *Result) Requests() int {
	return len(r.Attempts)
}

// Searcher finds the longest prefix of a text an endpoint accepts.
// Requests are issued strictly one at a time.
type Searcher struct {
	shot     *Shot
	config   Config
	recorder Recorder
	logger   *slog.Logger
}

// NewSearcher creates a Searcher on top of shot.
func NewSearcher(shot *Shot, opts ...Option) (*Searcher, error) {
	if shot == nil {
		return nil, ErrEmbedderRequired
	}
	o := applyOptions(opts)
	return &Searcher{
		shot:     shot,
		config:   shot.config,
		recorder: o.recorder,
		logger:   o.logger.With("component", "embed-search"),
	}, nil
}

// Search embeds the longest acceptable prefix of raw.
//
// The first candidate is min(len(text), MaxChars). A rejected candidate is
// shrunk by ShrinkRatio; the first accepted one ends the shrinking phase. If
// something was rejected, the gap between the accepted and the rejected length
// is bisected until it is at most Tolerance wide and the accepted prefix is
// embedded once more to produce the returned vector.
func (s *Searcher) Search(ctx context.Context, raw string) (*Result, error) {
	text := []rune(CleanText(raw))
	if len(text) < s.config.MinInputChars {
		return nil, fmt.Errorf("%w: %d characters, need %d", ErrInputTooShort, len(text), s.config.MinInputChars)
	}

	res := &Result{InputLength: len(text)}
	st := State{Current: min(len(text), s.config.MaxChars)}
	var accepted []float32

	for attempt := 1; accepted == nil; attempt++ {
		if attempt > s.config.MaxTries {
			return nil, fmt.Errorf("%w: %d attempts, last rejected at %d characters", ErrSearchExhausted, s.config.MaxTries, st.Rejected)
		}

		length := st.Current
		phase := PhaseShrink
		if attempt == 1 {
			phase = PhaseInitial
		}
		out := s.try(ctx, phase, text, length)
		switch out.Kind {
		case OutcomeSuccess:
			st.Acceptable = length
			accepted = out.Vector
		case OutcomeTooLong:
			st.Rejected = length
			next := int(math.Floor(float64(length) * s.config.ShrinkRatio))
			if next < s.config.MinChars {
				res.Attempts = append(res.Attempts, Attempt{phase, length, out.Kind, st})
				return nil, fmt.Errorf("%w: floor is %d characters: %w", ErrTruncationFloorExceeded, s.config.MinChars, out.Err)
			}
			st.Current = next
		default:
			return nil, out.Err
		}
		res.Attempts = append(res.Attempts, Attempt{phase, length, out.Kind, st})
	}

	if st.Rejected > 0 {
		for st.Rejected-st.Acceptable > s.config.Tolerance {
			mid := (st.Acceptable + st.Rejected) / 2
			st.Current = mid

			out := s.try(ctx, PhaseRefine, text, mid)
			switch out.Kind {
			case OutcomeSuccess:
				st.Acceptable = mid
				accepted = out.Vector
			case OutcomeTooLong:
				st.Rejected = mid
			default:
				return nil, out.Err
			}
			res.Attempts = append(res.Attempts, Attempt{PhaseRefine, mid, out.Kind, st})
		}

		if s.config.ConfirmFinal {
			vector, err := s.confirm(ctx, text, &st, res)
			if err != nil {
				return nil, err
			}
			if vector != nil {
				accepted = vector
			}
		}
	}

	res.Embedding = accepted
	res.UsedLength = st.Acceptable

	s.logger.Debug("search complete",
		"input_length", res.InputLength,
		"used_length", res.UsedLength,
		"requests", res.Requests())

	return res, nil
}

// confirm embeds the accepted prefix again. A length rejection at a length
// that was already accepted keeps the earlier vector.
func (s *Searcher) confirm(ctx context.Context, text []rune, st *State, res *Result) ([]float32, error) {
	st.Current = st.Acceptable
	out := s.try(ctx, PhaseConfirm, text, st.Acceptable)
	res.Attempts = append(res.Attempts, Attempt{PhaseConfirm, st.Acceptable, out.Kind, *st})

	switch out.Kind {
	case OutcomeSuccess:
		return out.Vector, nil
	case OutcomeTooLong:
		s.logger.Warn("accepted length rejected on confirmation", "length", st.Acceptable)
		return nil, nil
	default:
		return nil, out.Err
	}
}

func (s *Searcher) try(ctx context.Context, phase Phase, text []rune, length int) Outcome {
	out := s.shot.Embed(ctx, string(text[:length]))
	s.recorder.RecordRequest(string(phase), out.Kind.String())
	s.logger.Debug("embedding attempt", "phase", phase, "length", length, "outcome", out.Kind)
	return out
}
