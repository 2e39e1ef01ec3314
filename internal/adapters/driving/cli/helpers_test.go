package cli

import (
	"context"

	"github.com/custodia-labs/varsearch-cli/internal/core/domain"
)

// mockEngineService implements driving.EngineService for command tests.
type mockEngineService struct {
	loadErr   error
	loadTicks []int
	matches   []domain.Match
	matchErr  error
	page      *domain.SearchPage
	searchErr error

	loadURLs []string
	keys     [][]domain.UserVariant
	criteria []domain.FilterCriteria
}

func (m *mockEngineService) Load(_ context.Context, url string, onProgress domain.LoadProgressFunc) error {
	m.loadURLs = append(m.loadURLs, url)
	if m.loadErr != nil {
		return m.loadErr
	}
	if onProgress != nil {
		for _, tick := range m.loadTicks {
			onProgress(tick)
		}
	}
	return nil
}

func (m *mockEngineService) MatchAll(
	_ context.Context, keys []domain.UserVariant, onProgress domain.MatchProgressFunc,
) ([]domain.Match, error) {
	m.keys = append(m.keys, keys)
	if m.matchErr != nil {
		return nil, m.matchErr
	}
	if onProgress != nil {
		onProgress(len(keys), len(keys))
	}
	return m.matches, nil
}

func (m *mockEngineService) Search(_ context.Context, criteria domain.FilterCriteria) (*domain.SearchPage, error) {
	m.criteria = append(m.criteria, criteria)
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.page, nil
}

// setupTestEngine installs a mock engine and returns it with a cleanup
// that restores the service vars and resets command flag state.
func setupTestEngine(mock *mockEngineService) (*mockEngineService, func()) {
	oldEngine := engineService
	oldConfig := configStore
	engineService = mock
	configStore = nil

	return mock, func() {
		engineService = oldEngine
		configStore = oldConfig
		rootCmd.SetArgs(nil)
		matchURL = ""
		matchJSON = false
		searchURL = ""
		searchChromosome = ""
		searchGene = ""
		searchSignificance = ""
		searchCondition = ""
		searchLimit = domain.DefaultPageSize
		searchOffset = 0
		searchJSON = false
	}
}

func strPtr(s string) *string { return &s }
