package embed

// OutcomeKind tags the result of a single embedding request.
type OutcomeKind int

const (
	// OutcomeSuccess carries a non-empty vector.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeTooLong means the endpoint rejected the input for its length.
	OutcomeTooLong
	// OutcomeFatal is any other failure. It must not be retried with a shorter input.
	OutcomeFatal
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeTooLong:
		return "too_long"
	default:
		return "fatal"
	}
}

// Outcome is the tagged result of Shot.Embed.
// Vector is set only for OutcomeSuccess; Err is set for the other kinds.
type Outcome struct {
	Kind   OutcomeKind
	Vector []float32
	Err    error
}

func success(vector []float32) Outcome {
	return Outcome{Kind: OutcomeSuccess, Vector: vector}
}

func tooLong(err error) Outcome {
	return Outcome{Kind: OutcomeTooLong, Err: err}
}

func fatal(err error) Outcome {
	return Outcome{Kind: OutcomeFatal, Err: err}
}
