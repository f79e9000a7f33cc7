package driving

import (
	"context"

	"github.com/pharmadex/labelseed/internal/core/domain"
)

// Seeder runs the full ingestion pipeline: parse, transform, batch, load.
type Seeder interface {
	// Run ingests the whole source collection and returns the final report.
	// Cancellation is honoured between batches only: an in-flight batch
	// fully commits or fully rolls back before Run returns, and the report
	// carries the last consumed offset so the run can resume after it.
	Run(ctx context.Context) (*domain.RunReport, error)

	// Status returns a read-only snapshot of the run in progress.
	// Safe to call concurrently with Run.
	Status() SeedStatus
}

// SeedStatus is a point-in-time view of an ingestion run.
type SeedStatus struct {
	// Running indicates whether a run is in progress.
	Running bool

	// Consumed is the count of source documents consumed so far,
	// including documents skipped for resumption.
	Consumed int

	// Total is the source document count, zero when counting was disabled.
	Total int

	Stats domain.LoadStats
}
