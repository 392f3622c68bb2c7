package ports

import "context"

// ResultSink appends completed survey rows to an external append-only store.
type ResultSink interface {
	// AppendRow writes one row after the last non-empty entry in the
	// sink's primary column at the given location.
	AppendRow(ctx context.Context, location string, row []any) error
}
