package domain

import "time"

// LoadStats holds the aggregate counters maintained by the batch loader.
// Counters are authoritative even when an enclosing batch is reported
// failed: per-record outcomes recorded before a rollback stay counted.
type LoadStats struct {
	// Processed is the number of records that completed the insert-or-update
	// path (Processed == Inserted + Updated).
	Processed int

	// Inserted is the number of new drug identities created.
	Inserted int

	// Updated is the number of existing drug identities overwritten in place.
	Updated int

	// Skipped is the number of records rejected by loader-side validation.
	Skipped int

	// Errors is the number of record-scoped storage failures.
	Errors int
}

// SuccessRate returns the percentage of attempted records that succeeded.
func (s LoadStats) SuccessRate() float64 {
	attempted := s.Processed + s.Errors
	if attempted == 0 {
		return 0
	}
	return float64(s.Processed) / float64(attempted) * 100
}

// QualityScore returns a 0-100 data-quality score derived from the error
// rate over loaded records. A run with no loaded records scores 100.
func (s LoadStats) QualityScore() float64 {
	loaded := s.Inserted + s.Updated
	if loaded == 0 {
		return 100
	}
	score := 100 - float64(s.Errors)/float64(loaded)*100
	if score < 0 {
		return 0
	}
	return score
}

// RunReport is the outcome surface of a full ingestion run.
type RunReport struct {
	Stats LoadStats

	// TotalRecords is the source document count when counting was enabled,
	// zero otherwise.
	TotalRecords int

	// LastOffset is the count of source documents consumed. After an
	// interruption it is the safe resume offset.
	LastOffset int

	// Interrupted is true when the run was cancelled between batches.
	Interrupted bool

	Elapsed time.Duration
}

// Rate returns the processing throughput in records per second.
func (r RunReport) Rate() float64 {
	if r.Elapsed <= 0 || r.Stats.Processed == 0 {
		return 0
	}
	return float64(r.Stats.Processed) / r.Elapsed.Seconds()
}
