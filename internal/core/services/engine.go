package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/varsearch-cli/internal/core/domain"
	"github.com/custodia-labs/varsearch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/varsearch-cli/internal/core/ports/driving"
	"github.com/custodia-labs/varsearch-cli/internal/logger"
)

// Ensure Engine implements the interface.
var _ driving.EngineService = (*Engine)(nil)

// DefaultBatchSize is the number of keys matched per lookup query.
// It must stay strictly below the store's bind-parameter ceiling,
// with headroom for fixed parameters a query may add.
const DefaultBatchSize = 500

// Progress sub-ranges for Load. The phases have very different
// durations, so each gets a reserved slice of [0,100] and the caller
// sees continuous progress across all three.
const (
	progressDownloadStart    = 30
	progressMaterialiseStart = 80
	progressDone             = 100
)

// Engine owns the resident variant store and implements the three
// engine operations: one-time streaming load, batched exact-key
// matching, and filtered search.
//
// The store reference is the only load-time-mutable state. Load writes
// it exactly once under the lock; afterwards MatchAll and Search take
// read locks only, so concurrent queries never contend.
type Engine struct {
	fetcher   driven.DatasetFetcher
	openStore driven.StoreOpener
	batchSize int

	mu    sync.RWMutex
	store driven.VariantStore
}

// NewEngine creates an engine with no resident store. openStore is
// invoked once, by Load, with the downloaded dataset image.
func NewEngine(fetcher driven.DatasetFetcher, openStore driven.StoreOpener) *Engine {
	return &Engine{
		fetcher:   fetcher,
		openStore: openStore,
		batchSize: DefaultBatchSize,
	}
}

// SetBatchSize overrides the match batch size. Values outside
// (0, store ceiling) are clamped at match time.
func (e *Engine) SetBatchSize(n int) {
	if n > 0 {
		e.batchSize = n
	}
}

// Load streams the dataset image at url into one contiguous buffer and
// materialises the variant store from it. Progress is reported as a
// monotonically non-decreasing percentage that reaches 100 exactly at
// success. On failure at any phase the store stays absent.
func (e *Engine) Load(ctx context.Context, url string, onProgress domain.LoadProgressFunc) error {
	logger.Section("Dataset Load")
	logger.Debug("Source: %s", url)

	e.mu.RLock()
	loaded := e.store != nil
	e.mu.RUnlock()
	if loaded {
		return domain.ErrAlreadyLoaded
	}

	report := newProgressReporter(onProgress)
	report(0)
	report(progressDownloadStart)

	data, err := e.fetcher.Fetch(ctx, url, func(received, total int64) {
		report(downloadPercent(received, total))
	})
	if err != nil {
		return fmt.Errorf("fetching dataset: %w", err)
	}
	logger.Debug("Downloaded %d bytes", len(data))
	report(progressMaterialiseStart)

	store, err := e.openStore(data)
	if err != nil {
		return fmt.Errorf("materialising dataset: %w", err)
	}

	e.mu.Lock()
	if e.store != nil {
		// A concurrent Load won the race; keep the first store.
		e.mu.Unlock()
		store.Close() //nolint:errcheck
		return domain.ErrAlreadyLoaded
	}
	e.store = store
	e.mu.Unlock()

	if logger.IsVerbose() {
		if n, err := store.Count(ctx); err == nil {
			logger.Info("Dataset resident: %d variants", n)
		}
	}

	report(progressDone)
	return nil
}

// MatchAll partitions keys into contiguous groups sized under the
// store's bind-parameter ceiling, issues one lookup per group and
// pairs every returned row with every input occurrence of its key.
// A failing group contributes zero matches and matching continues.
func (e *Engine) MatchAll(
	ctx context.Context, keys []domain.UserVariant, onProgress domain.MatchProgressFunc,
) ([]domain.Match, error) {
	store := e.currentStore()
	if store == nil {
		return nil, domain.ErrStoreNotLoaded
	}

	logger.Section("Batch Match")
	total := len(keys)
	batch := e.effectiveBatchSize(store)
	logger.Debug("Keys: %d, batch size: %d", total, batch)

	var matches []domain.Match //nolint:prealloc // match count unknown upfront
	for start := 0; start < total; start += batch {
		end := start + batch
		if end > total {
			end = total
		}
		group := keys[start:end]

		ids := make([]string, len(group))
		for i, key := range group {
			ids[i] = key.NormalizedID()
		}

		rows, err := store.LookupBatch(ctx, ids)
		if err != nil {
			// Partial-failure tolerant: one bad group never aborts
			// the whole operation.
			logger.Warn("Lookup for keys [%d:%d) failed: %v", start, end, err)
		}

		for i := range rows {
			rowID := strings.ToLower(rows[i].ID)
			for _, key := range group {
				if key.NormalizedID() == rowID {
					matches = append(matches, domain.Match{Input: key, Record: rows[i]})
				}
			}
		}

		if onProgress != nil {
			onProgress(end, total)
		}
	}

	logger.Info("Matched %d of %d keys", len(matches), total)
	return matches, nil
}

// Search runs the filtered count + page query pair for criteria
// against the resident store. Unlike MatchAll, a query failure aborts
// the whole call: a partial count/page pair is worse than a visible
// failure.
func (e *Engine) Search(ctx context.Context, criteria domain.FilterCriteria) (*domain.SearchPage, error) {
	store := e.currentStore()
	if store == nil {
		return nil, domain.ErrStoreNotLoaded
	}

	logger.Section("Filtered Search")
	criteria = criteria.Normalized()
	logger.Debug("Criteria: query=%q chrom=%q gene=%q limit=%d offset=%d",
		criteria.Query, criteria.Chromosome, criteria.Gene, criteria.Limit, criteria.Offset)

	page, err := store.Search(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("executing filtered search: %w", err)
	}

	logger.Info("Results: %d of %d total", len(page.Results), page.Total)
	return page, nil
}

// Loaded reports whether a dataset is resident.
func (e *Engine) Loaded() bool {
	return e.currentStore() != nil
}

// Close releases the resident store, if any.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.store == nil {
		return nil
	}
	err := e.store.Close()
	e.store = nil
	return err
}

func (e *Engine) currentStore() driven.VariantStore {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store
}

// effectiveBatchSize clamps the configured batch size strictly below
// the store's bind-parameter ceiling.
func (e *Engine) effectiveBatchSize(store driven.VariantStore) int {
	batch := e.batchSize
	if ceiling := store.MaxBindParams(); batch >= ceiling {
		batch = ceiling - 1
	}
	if batch < 1 {
		batch = 1
	}
	return batch
}

// newProgressReporter wraps onProgress so reported percentages are
// clamped to [0,100] and strictly non-decreasing regardless of how the
// underlying phases interleave. A nil callback yields a no-op.
func newProgressReporter(onProgress domain.LoadProgressFunc) func(int) {
	if onProgress == nil {
		return func(int) {}
	}
	last := -1
	return func(percent int) {
		if percent > 100 {
			percent = 100
		}
		if percent <= last {
			return
		}
		last = percent
		onProgress(percent)
	}
}

// downloadPercent maps received bytes linearly into the download
// sub-range. With an unknown total the download phase holds at its
// start; completion still drives progress to 100.
func downloadPercent(received, total int64) int {
	if total <= 0 {
		return progressDownloadStart
	}
	if received > total {
		received = total
	}
	span := int64(progressMaterialiseStart - progressDownloadStart)
	return progressDownloadStart + int(received*span/total)
}
