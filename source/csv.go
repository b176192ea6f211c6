package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/poiesic/qaembed/core"
	"github.com/poiesic/qaembed/markup"
)

const bom = "\ufeff"

// ReadCSV reads every record from r. The first row names the columns.
func ReadCSV(r io.Reader) ([]*core.Record, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("source: read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], bom)
	}

	var records []*core.Record
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("source: read row %d: %w", len(records)+1, err)
		}

		row := make(Row, len(header))
		for i, name := range header {
			if i < len(fields) {
				row[name] = fields[i]
			}
		}
		records = append(records, NewRecord(len(records)+1, row))
	}
	return records, nil
}

// LoadFile reads every record from the CSV file at path.
func LoadFile(path string) ([]*core.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// NewRecord builds the record at the given 1-based ordinal from row.
func NewRecord(ordinal int, row Row) *core.Record {
	return &core.Record{
		Ordinal:  ordinal,
		PostURL:  row.Pick(FieldPostURL),
		Title:    row.Pick(FieldTitle),
		APIName:  row.Pick(FieldAPIName),
		Question: markup.ToMarkdown(row.Pick(FieldQuestion)),
		Answer:   markup.ToMarkdown(row.Pick(FieldAnswer)),
		Labels:   row.Labels(),
	}
}
