package embed

import (
	"strings"

	"github.com/poiesic/qaembed/ai"
)

// DefaultPhrases are the length-exceeded messages of Ollama and OpenAI-compatible servers.
var DefaultPhrases = []string{
	"exceeds the context length",
	"maximum context length",
}

// Classifier recognizes context length rejections by their error text.
// A Classifier is immutable and safe for concurrent use.
type Classifier struct {
	phrases []string
}

// NewClassifier creates a Classifier matching any of phrases, case-insensitively.
// With no phrases, DefaultPhrases are used.
func NewClassifier(phrases ...string) *Classifier {
	if len(phrases) == 0 {
		phrases = DefaultPhrases
	}
	lowered := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			lowered = append(lowered, p)
		}
	}
	return &Classifier{phrases: lowered}
}

// IsLengthExceeded reports whether err says the input exceeded the context length.
// The response body is inspected when the error carries one, the error message otherwise.
func (c *Classifier) IsLengthExceeded(err error) bool {
	if err == nil {
		return false
	}
	payload := strings.ToLower(errorPayload(err))
	for _, p := range c.phrases {
		if strings.Contains(payload, p) {
			return true
		}
	}
	return false
}

func errorPayload(err error) string {
	if ee, ok := ai.AsEndpointError(err); ok && ee.Body != "" {
		return ee.Body
	}
	return err.Error()
}

var defaultClassifier = NewClassifier()

// IsContextLengthError reports whether err is a context length rejection under DefaultPhrases.
func IsContextLengthError(err error) bool {
	return defaultClassifier.IsLengthExceeded(err)
}
