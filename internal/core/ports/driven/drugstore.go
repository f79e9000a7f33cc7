package driven

import (
	"context"

	"github.com/pharmadex/labelseed/internal/core/domain"
)

// DrugStore persists canonical drug records with insert-or-update semantics.
// The store exclusively owns its storage connection; no other component
// touches storage directly.
type DrugStore interface {
	// LoadBatch processes a batch of records inside one transaction.
	// Per-record failures are counted and do not abort the remaining
	// records. The batch commits when at least one record succeeded and
	// rolls back otherwise; committed is false after a rollback. The
	// returned error is reserved for infrastructure failures (e.g. the
	// transaction could not be started), not per-record ones.
	LoadBatch(ctx context.Context, records []domain.DrugRecord) (committed bool, err error)

	// CreateIndexes builds the post-load indexes. Idempotent; each index
	// statement failure is skipped independently and never affects
	// committed data.
	CreateIndexes(ctx context.Context) error

	// Stats returns a snapshot of the aggregate counters.
	Stats() domain.LoadStats

	// Close releases the storage connection.
	Close() error
}

// DrugReader serves the read-only projections consumed by downstream
// content services. It imposes no invariants on the ingestion core.
type DrugReader interface {
	// GetDrug fetches a drug and its label by identity key.
	GetDrug(ctx context.Context, id string) (*domain.DrugDetail, error)

	// Search returns drugs matching the query, bounded by its limit.
	Search(ctx context.Context, q domain.SearchQuery) ([]domain.StoredDrug, error)

	// FindSimilar returns drugs sharing indication text with the given
	// drug, falling back to drugs from the same manufacturer.
	FindSimilar(ctx context.Context, id string, limit int) ([]domain.StoredDrug, error)

	// CountDrugs returns the total number of stored drug identities.
	CountDrugs(ctx context.Context) (int, error)
}
