// Package postgres provides the PostgreSQL-backed implementation of the
// drug storage ports.
//
// The Store implements driven.DrugStore for the batch loading path and
// driven.DrugReader for read projections. Schema migrations are embedded
// and applied on startup. Each batch runs in a single transaction with
// per-record savepoints, so a failing record is rolled back on its own
// without poisoning the rest of the batch.
//
// # Import Rules
//
//   - CAN import domain types and driven ports
//   - CANNOT import driving adapters or services
package postgres
