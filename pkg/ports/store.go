package ports

import (
	"context"

	"github.com/dmelnikov/healthwave/pkg/domain"
)

// RecordStore persists respondent records keyed by (identity, wave date).
// Records are never deleted; a later wave supersedes them under a new date.
// Implementations need not serialize read-modify-write sequences — that is
// the session manager's job.
type RecordStore interface {
	// Load retrieves the record for an identity at a wave date.
	// Returns domain.ErrRecordNotFound if the pair has no record.
	Load(ctx context.Context, identity, date string) (*domain.Record, error)

	// Save persists the record for an identity at a wave date,
	// overwriting any prior record for the same pair.
	Save(ctx context.Context, identity, date string, rec *domain.Record) error
}
