// Package domain defines the core business entities for labelseed.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawLabel: An arbitrarily-shaped source document from the label file
//   - DrugRecord: The canonical record produced by transformation
//   - QualityIssue: A data-quality diagnostic emitted during transformation
//   - LoadStats: Aggregate counters maintained by the batch loader
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
