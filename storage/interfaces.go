package storage

import (
	"context"

	"github.com/poiesic/qaembed/core"
)

// ResultWriter persists the results of a run.
// Write is called once per run with every successful record, in input order.
type ResultWriter interface {
	// Write stores records. An empty slice still produces an (empty) output.
	Write(ctx context.Context, records []*core.ResultRecord) error

	// Close releases any resources held by the writer.
	Close() error
}
