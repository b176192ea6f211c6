package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "\ufeffSO Post URL,Title,ML API Name,Question,Answer,Level 1 (Central Contract Category),Level 2,Level 3 (Hybrid Patterns),Root Cause\n" +
	`https://stackoverflow.com/q/1,Reshape fails,tf.reshape,"<p>Why does <code>tf.reshape</code> fail?</p>","<p>Check the shape.</p>",SAM,DT,PT,Unacceptable Input` + "\n" +
	`https://stackoverflow.com/q/2,,,"plain question","plain answer",AMO,,,` + "\n"

func TestReadCSV(t *testing.T) {
	records, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, 1, first.Ordinal)
	assert.Equal(t, "https://stackoverflow.com/q/1", first.PostURL, "BOM is stripped from the first column")
	assert.Equal(t, "Reshape fails", first.Title)
	assert.Equal(t, "tf.reshape", first.APIName)
	assert.Equal(t, "Why does `tf.reshape` fail?", first.Question)
	assert.Equal(t, "Check the shape.", first.Answer)
	assert.Equal(t, "SAM", first.Labels.Level1)
	assert.Equal(t, "DT", first.Labels.Level2)
	assert.Equal(t, "PT", first.Labels.Level3)
	assert.Equal(t, "PT", first.Labels.LeafContractCategory, "leaf falls back to level 3")
	assert.Equal(t, "Unacceptable Input", first.Labels.RootCause)
	assert.Equal(t, "NA", first.Labels.ReasonsForNotLabeling)

	second := records[1]
	assert.Equal(t, 2, second.Ordinal)
	assert.Empty(t, second.Title)
	assert.Equal(t, "AMO", second.Labels.Level1)
	assert.Empty(t, second.Labels.LeafContractCategory)
}

func TestReadCSV_ShortRows(t *testing.T) {
	input := "url,question,answer,effect\nhttps://x,q,a\n"

	records, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "https://x", records[0].PostURL)
	assert.Empty(t, records[0].Labels.Effect)
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrMissingHeader)
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	records, err := ReadCSV(strings.NewReader("Title,Question,Answer\n"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRow_Pick(t *testing.T) {
	tests := []struct {
		name string
		row  Row
		want string
	}{
		{"first alias", Row{"SO Post URL": "a", "url": "b"}, "a"},
		{"skips empty", Row{"SO Post URL": "", "so_post_url": "b"}, "b"},
		{"last alias", Row{"Post URL": "d"}, "d"},
		{"missing", Row{"link": "x"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.row.Pick(FieldPostURL))
		})
	}
}

func TestRow_Labels(t *testing.T) {
	row := Row{
		"level3":                    "L3",
		"leafContractCategory":      "Leaf",
		"reasonsForNotLabeling":     "unclear",
		"Reasons for labeling":      "clear contract",
		"contractViolationLocation": "API call",
	}

	labels := row.Labels()
	assert.Equal(t, "L3", labels.Level3)
	assert.Equal(t, "Leaf", labels.LeafContractCategory)
	assert.Equal(t, "unclear", labels.ReasonsForNotLabeling)
	assert.Equal(t, "clear contract", labels.ReasonsForLabeling)
	assert.Equal(t, "API call", labels.ContractViolationLocation)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o600))

	records, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
