package embed

import "errors"

var (
	// ErrInputTooShort is returned when the cleaned text is below Config.MinInputChars.
	ErrInputTooShort = errors.New("embedding input text too short")

	// ErrEmptyEmbedding is returned when the endpoint succeeds without a vector.
	ErrEmptyEmbedding = errors.New("empty embedding returned from endpoint")

	// ErrLengthExceeded marks an endpoint rejection caused by the input length.
	// It never escapes a Searcher on its own.
	ErrLengthExceeded = errors.New("input exceeds the endpoint context length")

	// ErrTruncationFloorExceeded is returned when shrinking would go below Config.MinChars.
	ErrTruncationFloorExceeded = errors.New("input still exceeds context length at the truncation floor")

	// ErrSearchExhausted is returned when Config.MaxTries attempts are rejected.
	ErrSearchExhausted = errors.New("no working truncation length within retry limit")

	// ErrInvalidConfig is returned for an unusable Config.
	ErrInvalidConfig = errors.New("invalid embed config")

	// ErrEmbedderRequired is returned when no ai.Embedder is provided.
	ErrEmbedderRequired = errors.New("embedder required")
)

// Kind classifies an error returned by Shot or Searcher.
type Kind int

const (
	// KindOther is any transport or service failure not attributable to input length.
	KindOther Kind = iota
	KindInputTooShort
	KindEmptyEmbedding
	KindLengthExceeded
	KindTruncationFloorExceeded
	KindSearchExhausted
)

func (k Kind) String() string {
	switch k {
	case KindInputTooShort:
		return "input_too_short"
	case KindEmptyEmbedding:
		return "empty_embedding"
	case KindLengthExceeded:
		return "length_exceeded"
	case KindTruncationFloorExceeded:
		return "truncation_floor_exceeded"
	case KindSearchExhausted:
		return "search_exhausted"
	default:
		return "other"
	}
}

// KindOf maps err onto the error taxonomy.
// Terminal search errors take precedence over the length rejection they wrap.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrTruncationFloorExceeded):
		return KindTruncationFloorExceeded
	case errors.Is(err, ErrSearchExhausted):
		return KindSearchExhausted
	case errors.Is(err, ErrInputTooShort):
		return KindInputTooShort
	case errors.Is(err, ErrEmptyEmbedding):
		return KindEmptyEmbedding
	case errors.Is(err, ErrLengthExceeded):
		return KindLengthExceeded
	default:
		return KindOther
	}
}
