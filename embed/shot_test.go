package embed

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/qaembed/ai"
	"github.com/poiesic/qaembed/ai/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleText = strings.Repeat("How do I reshape a tensor? ", 4)

func newTestShot(t *testing.T, embedder ai.Embedder, opts ...Option) *Shot {
	t.Helper()
	shot, err := NewShot(embedder, DefaultConfig(), opts...)
	require.NoError(t, err)
	return shot
}

func TestNewShot(t *testing.T) {
	_, err := NewShot(nil, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	cfg := DefaultConfig()
	cfg.ShrinkRatio = 1
	_, err = NewShot(mock.NewMockEmbedder(), cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	shot, err := NewShot(mock.NewMockEmbedder(), nil)
	require.NoError(t, err)
	assert.Equal(t, *DefaultConfig(), shot.config)
}

func TestShot_Embed_Success(t *testing.T) {
	m := mock.NewMockEmbedder()
	out := newTestShot(t, m).Embed(context.Background(), sampleText)

	require.Equal(t, OutcomeSuccess, out.Kind)
	assert.NoError(t, out.Err)
	assert.Len(t, out.Vector, mock.DefaultDimension)
	assert.Equal(t, []string{sampleText}, m.Texts(), "text is sent unmodified")
}

func TestShot_Embed_InputTooShort(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "ten characters", text: "0123456789"},
		{name: "padding does not count", text: "\x00\x00   " + strings.Repeat("a", 29) + "  \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mock.NewMockEmbedder()
			out := newTestShot(t, m).Embed(context.Background(), tt.text)

			assert.Equal(t, OutcomeFatal, out.Kind)
			assert.ErrorIs(t, out.Err, ErrInputTooShort)
			assert.Zero(t, m.CallCount(), "no request for degenerate input")
		})
	}
}

func TestShot_Embed_EmptyEmbedding(t *testing.T) {
	m := mock.NewMockEmbedder()
	m.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{}, nil
	}

	out := newTestShot(t, m).Embed(context.Background(), sampleText)
	assert.Equal(t, OutcomeFatal, out.Kind)
	assert.ErrorIs(t, out.Err, ErrEmptyEmbedding)
}

func TestShot_Embed_DimensionMismatchWarns(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	m := mock.NewMockEmbedder()
	m.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{0.1, 0.2, 0.3}, nil
	}

	out := newTestShot(t, m, WithLogger(logger)).Embed(context.Background(), sampleText)
	require.Equal(t, OutcomeSuccess, out.Kind)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, out.Vector)
	assert.Contains(t, buf.String(), "unexpected embedding size")
	assert.Contains(t, buf.String(), "expected=768")
}

func TestShot_Embed_TooLong(t *testing.T) {
	limited := mock.NewContextLimitEmbedder(50)
	out := newTestShot(t, limited).Embed(context.Background(), sampleText)

	assert.Equal(t, OutcomeTooLong, out.Kind)
	assert.ErrorIs(t, out.Err, ErrLengthExceeded)

	ee, ok := ai.AsEndpointError(out.Err)
	require.True(t, ok, "endpoint error is preserved")
	assert.Equal(t, 500, ee.StatusCode)
}

func TestShot_Embed_OtherError(t *testing.T) {
	serverErr := &ai.EndpointError{Endpoint: "http://h", StatusCode: 500, Body: "internal server error"}
	m := mock.NewMockEmbedder()
	m.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, serverErr
	}

	out := newTestShot(t, m).Embed(context.Background(), sampleText)
	assert.Equal(t, OutcomeFatal, out.Kind)
	assert.Same(t, serverErr, out.Err, "error surfaces unmodified")
}

func TestShot_Embed_Timeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RequestTimeout = 20 * time.Millisecond

	m := mock.NewMockEmbedder()
	m.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		<-ctx.Done()
		return nil, &ai.EndpointError{Endpoint: "http://h", Cause: ctx.Err()}
	}

	shot, err := NewShot(m, cfg)
	require.NoError(t, err)

	out := shot.Embed(context.Background(), sampleText)
	assert.Equal(t, OutcomeFatal, out.Kind)
	assert.True(t, errors.Is(out.Err, context.DeadlineExceeded))
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "abc", CleanText("\x00 a\x00bc \n"))
	assert.Equal(t, "", CleanText("\x00\t "))
}
