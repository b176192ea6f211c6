package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResultRecord() ResultRecord {
	return ResultRecord{
		Id:         IDFromContent("https://stackoverflow.com/q/1"),
		Ordinal:    7,
		PostURL:    "https://stackoverflow.com/q/1",
		Title:      "Shape mismatch",
		Question:   "Why does `fit` fail?",
		Answer:     "Reshape the input. ü",
		MLAPIName:  "tf.keras.Model.fit",
		Embedding:  []float32{0.25, -1.5, 3.125, 0},
		UsedLength: 9000,
		Label: Labels{
			Level1:                    "SAM",
			Level2:                    "DT",
			Level3:                    "PT",
			LeafContractCategory:      "Leaf",
			RootCause:                 "Unacceptable input type",
			Effect:                    "Crash",
			MLLibrary:                 "TensorFlow",
			ContractViolationLocation: "Model construction",
			DetectionTechnique:        "Static",
			ReasonsForNotLabeling:     "NA",
			ReasonsForLabeling:        "Clear contract",
		},
	}
}

func TestResultRecordMUS(t *testing.T) {
	original := sampleResultRecord()

	buf := make([]byte, ResultRecordMUS.Size(original))
	n := ResultRecordMUS.Marshal(original, buf)
	assert.Equal(t, len(buf), n)

	decoded, n, err := ResultRecordMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, original, decoded)

	skipped, err := ResultRecordMUS.Skip(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), skipped)
}

func TestResultRecordMUS_Truncated(t *testing.T) {
	original := sampleResultRecord()
	buf := make([]byte, ResultRecordMUS.Size(original))
	ResultRecordMUS.Marshal(original, buf)

	_, _, err := ResultRecordMUS.Unmarshal(buf[:len(buf)/2])
	assert.Error(t, err)
}

func TestEmbeddingMUS_InvalidLength(t *testing.T) {
	buf := make([]byte, EmbeddingMUS.Size([]float32{1, 2}))
	EmbeddingMUS.Marshal([]float32{1, 2}, buf)

	// Length prefix survives, components do not.
	_, _, err := EmbeddingMUS.Unmarshal(buf[:1])
	assert.ErrorIs(t, err, ErrInvalidLength)
}
