// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - LabelSource: Streams raw label documents from the source file
//   - Transformer: Maps raw documents to canonical drug records
//   - DrugStore: Batch persistence with insert-or-update semantics
//
// # Optional Interfaces
//
//   - DrugReader: Read-only projections consumed by downstream services.
//     The ingestion pipeline itself never reads through it.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, parser, or transformer package
package driven
