package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Parser errors. Both are fatal for the whole run.

	// ErrInputNotFound indicates the source label file does not exist.
	ErrInputNotFound = errors.New("input file not found")

	// ErrMalformedInput indicates the source bytes are not parseable as
	// a JSON array of label documents. The stream aborts at this point;
	// there is no partial-document recovery.
	ErrMalformedInput = errors.New("malformed input")

	// Transform errors.

	// ErrRecordRejected indicates a document cannot be transformed into a
	// valid record (no resolvable drug name). Rejected documents are
	// excluded from the batch, not counted as load errors.
	ErrRecordRejected = errors.New("record rejected")

	// Load errors.

	// ErrBatchFailed indicates every record in a batch failed and the batch
	// transaction was rolled back. Non-fatal: the run continues with the
	// next batch, and per-record error counters remain authoritative.
	ErrBatchFailed = errors.New("batch failed")

	// ErrStoreClosed indicates the storage handle has been closed.
	ErrStoreClosed = errors.New("store closed")
)
