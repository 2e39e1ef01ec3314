// Package domain defines the core business entities for varsearch.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - VariantRecord: One annotated variant row of the resident dataset
//   - UserVariant: One lookup key parsed from a user's raw genotype file
//   - Match: The pairing of a UserVariant with its dataset record
//   - FilterCriteria: Optional filters plus pagination for ad-hoc search
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
