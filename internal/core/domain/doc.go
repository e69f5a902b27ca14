// Package domain defines the core entities shared by every ad workload.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - BuildDescriptor: the packaged build facts (group, entry point, encoding)
//   - SortReport: the outcome of an external polyphase sort
//   - Board and SolveStats: eight queens search state and counters
//   - User and UserPage: rows of the B-tree indexed user table
//   - TourResult and ACOParams: ant colony optimisation inputs and outputs
//   - Run: a persisted record of any algorithm execution
//   - Settings: typed application defaults
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
