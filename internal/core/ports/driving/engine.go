package driving

import (
	"context"

	"github.com/custodia-labs/varsearch-cli/internal/core/domain"
)

// EngineService exposes the embedded query engine to external actors.
// Load must succeed exactly once before MatchAll or Search are usable;
// after that the resident dataset is read-only and the three operations
// are safe to call concurrently.
type EngineService interface {
	// Load streams the dataset image at url into memory and
	// materialises the variant store from it, reporting progress in
	// [0,100]. A second call returns domain.ErrAlreadyLoaded.
	Load(ctx context.Context, url string, onProgress domain.LoadProgressFunc) error

	// MatchAll looks up every key in the resident dataset, batched
	// under the engine's bind-parameter ceiling. Keys without a record
	// are dropped silently; duplicate keys yield duplicate matches.
	MatchAll(ctx context.Context, keys []domain.UserVariant, onProgress domain.MatchProgressFunc) ([]domain.Match, error)

	// Search runs the filtered count + page query pair described by
	// criteria against the resident dataset.
	Search(ctx context.Context, criteria domain.FilterCriteria) (*domain.SearchPage, error)
}
