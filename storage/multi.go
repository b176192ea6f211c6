package storage

import (
	"context"
	"errors"

	"github.com/poiesic/qaembed/core"
)

// MultiWriter writes the same records to every underlying writer in order.
// The first failing write stops the fan-out.
type MultiWriter struct {
	writers []ResultWriter
}

var _ ResultWriter = (*MultiWriter)(nil)

// NewMultiWriter combines writers. Nil writers are skipped.
func NewMultiWriter(writers ...ResultWriter) (*MultiWriter, error) {
	var ws []ResultWriter
	for _, w := range writers {
		if w != nil {
			ws = append(ws, w)
		}
	}
	if len(ws) == 0 {
		return nil, ErrNoWriters
	}
	return &MultiWriter{writers: ws}, nil
}

// Write writes records to each writer.
func (m *MultiWriter) Write(ctx context.Context, records []*core.ResultRecord) error {
	for _, w := range m.writers {
		if err := w.Write(ctx, records); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every writer and joins their errors.
func (m *MultiWriter) Close() error {
	var errs []error
	for _, w := range m.writers {
		errs = append(errs, w.Close())
	}
	return errors.Join(errs...)
}
