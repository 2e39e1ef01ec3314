package driven

import (
	"context"

	"github.com/custodia-labs/varsearch-cli/internal/core/domain"
)

// VariantStore is the resident query engine over a fully materialised
// variant dataset. The store is read-only: it is materialised once from
// a dataset image and then serves arbitrarily many concurrent reads.
type VariantStore interface {
	// MaxBindParams returns the engine's hard ceiling on bound
	// parameters per statement. Batch sizes must stay strictly below
	// this, leaving headroom for fixed parameters a query may add.
	MaxBindParams() int

	// LookupBatch returns all records whose ID matches one of the
	// given ids, compared case-insensitively. ids must already be
	// lowercased and len(ids) must be below MaxBindParams(). The
	// result carries no ordering guarantee relative to ids and omits
	// ids with no record.
	LookupBatch(ctx context.Context, ids []string) ([]domain.VariantRecord, error)

	// Search executes the filtered count + page query pair for the
	// given criteria over one shared predicate. Pagination defaults
	// are applied to non-positive Limit and negative Offset.
	Search(ctx context.Context, criteria domain.FilterCriteria) (*domain.SearchPage, error)

	// Count returns the total number of records in the dataset.
	Count(ctx context.Context) (int, error)

	// Close releases the engine and any backing resources.
	Close() error
}

// StoreOpener materialises a VariantStore from an opaque dataset image.
// On error no store handle escapes; the caller stays in the
// "not loaded" state.
type StoreOpener func(data []byte) (VariantStore, error)
