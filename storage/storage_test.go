package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/qaembed/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResults() []*core.ResultRecord {
	rec := &core.Record{
		Ordinal:  1,
		PostURL:  "https://stackoverflow.com/q/1",
		Title:    "Reshape fails",
		APIName:  "tf.reshape",
		Question: "Why?",
		Answer:   "Because.",
		Labels:   core.Labels{Level1: "SAM", ReasonsForNotLabeling: "NA"},
	}
	return []*core.ResultRecord{core.NewResultRecord(rec, []float32{0.1, 0.2}, 40)}
}

func TestJSONFileWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	w := NewJSONFileWriter(path)
	defer w.Close()

	require.NoError(t, w.Write(context.Background(), sampleResults()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.HasPrefix(text, "[\n  {\n    \"postURL\""), "two-space indentation")
	assert.Contains(t, text, `"mlApiName": "tf.reshape"`)
	assert.Contains(t, text, `"usedLength": 40`)
	assert.Contains(t, text, `"leafContractCategory": ""`)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.ElementsMatch(t,
		[]string{"postURL", "title", "question", "answer", "mlApiName", "embedding", "usedLength", "label"},
		keys(decoded[0]))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file is removed")
}

func TestJSONFileWriter_EmptyRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, NewJSONFileWriter(path).Write(context.Background(), nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestJSONFileWriter_ReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o600))

	require.NoError(t, NewJSONFileWriter(path).Write(context.Background(), sampleResults()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")
}

func TestJSONFileWriter_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.json")
	assert.Error(t, NewJSONFileWriter(path).Write(context.Background(), sampleResults()))
}

func TestJSONFileWriter_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), "out.json")
	assert.ErrorIs(t, NewJSONFileWriter(path).Write(ctx, sampleResults()), context.Canceled)
	assert.NoFileExists(t, path)
}

type recordingWriter struct {
	writes   int
	closed   bool
	writeErr error
	closeErr error
}

func (w *recordingWriter) Write(ctx context.Context, records []*core.ResultRecord) error {
	w.writes++
	return w.writeErr
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return w.closeErr
}

func TestMultiWriter(t *testing.T) {
	a, b := &recordingWriter{}, &recordingWriter{}
	m, err := NewMultiWriter(a, nil, b)
	require.NoError(t, err)

	require.NoError(t, m.Write(context.Background(), sampleResults()))
	assert.Equal(t, 1, a.writes)
	assert.Equal(t, 1, b.writes)

	require.NoError(t, m.Close())
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}

func TestMultiWriter_StopsOnError(t *testing.T) {
	boom := errors.New("disk full")
	a, b := &recordingWriter{writeErr: boom}, &recordingWriter{}
	m, err := NewMultiWriter(a, b)
	require.NoError(t, err)

	assert.ErrorIs(t, m.Write(context.Background(), sampleResults()), boom)
	assert.Equal(t, 0, b.writes)
}

func TestMultiWriter_CloseJoinsErrors(t *testing.T) {
	e1, e2 := errors.New("first"), errors.New("second")
	m, err := NewMultiWriter(&recordingWriter{closeErr: e1}, &recordingWriter{closeErr: e2})
	require.NoError(t, err)

	err = m.Close()
	assert.ErrorIs(t, err, e1)
	assert.ErrorIs(t, err, e2)
}

func TestNewMultiWriter_Empty(t *testing.T) {
	_, err := NewMultiWriter(nil)
	assert.ErrorIs(t, err, ErrNoWriters)
}

func TestUnmarshalResultRecord(t *testing.T) {
	original := sampleResults()[0]
	original.Label = core.Labels{
		Level1:                    "SAM",
		Level2:                    "DT",
		Level3:                    "PT",
		LeafContractCategory:      "PT",
		RootCause:                 "Unacceptable input type",
		Effect:                    "Crash",
		MLLibrary:                 "TensorFlow",
		ContractViolationLocation: "Model construction",
		DetectionTechnique:        "Static",
		ReasonsForNotLabeling:     "NA",
		ReasonsForLabeling:        "Clear contract",
	}

	decoded, err := UnmarshalResultRecord(MarshalResultRecord(original))
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
	assert.Equal(t, []float32{0.1, 0.2}, decoded.Embedding)
	assert.Equal(t, 40, decoded.UsedLength)

	_, err = UnmarshalResultRecord([]byte{0xff})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestDuplicates(t *testing.T) {
	a := sampleResults()[0]
	b := *a
	b.Ordinal = 2
	c := *a
	c.Ordinal = 3
	c.Id = a.Id + 1

	assert.Empty(t, Duplicates([]*core.ResultRecord{a, &c}))
	assert.Equal(t, []int{2}, Duplicates([]*core.ResultRecord{a, &b, &c}))
	assert.Empty(t, Duplicates(nil))
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
