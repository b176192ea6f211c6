package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/poiesic/qaembed/core"
)

// JSONFileWriter writes results as a JSON array indented by two spaces.
// The file is written to a temporary sibling and renamed into place.
type JSONFileWriter struct {
	path string
}

var _ ResultWriter = (*JSONFileWriter)(nil)

// NewJSONFileWriter creates a writer targeting path.
func NewJSONFileWriter(path string) *JSONFileWriter {
	return &JSONFileWriter{path: path}
}

// Path returns the output path.
func (w *JSONFileWriter) Path() string {
	return w.path
}

// Write replaces the output file with records.
func (w *JSONFileWriter) Write(ctx context.Context, records []*core.ResultRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if records == nil {
		records = []*core.ResultRecord{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}

	dir := filepath.Dir(w.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(w.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, w.path)
}

// Close is a no-op.
func (w *JSONFileWriter) Close() error {
	return nil
}
