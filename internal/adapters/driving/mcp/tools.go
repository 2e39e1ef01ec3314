package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/varsearch-cli/internal/core/domain"
	"github.com/custodia-labs/varsearch-cli/internal/logger"
)

// Tool names.
const (
	toolLoad   = "load"
	toolMatch  = "match"
	toolSearch = "search"
)

// LoadInput is the input schema for the load tool.
type LoadInput struct {
	URL string `json:"url" jsonschema:"the URL of the variant dataset image to download"`
}

// LoadOutput is the output schema for the load tool.
type LoadOutput struct {
	Loaded bool `json:"loaded"`
}

// KeyInput is one lookup key for the match tool.
type KeyInput struct {
	RSID       string `json:"rsid" jsonschema:"the variant identifier to look up"`
	Genotype   string `json:"genotype,omitempty" jsonschema:"the observed genotype call"`
	Chromosome string `json:"chromosome,omitempty"`
	Position   string `json:"position,omitempty"`
}

// MatchInput is the input schema for the match tool.
type MatchInput struct {
	Keys []KeyInput `json:"keys" jsonschema:"the lookup keys parsed from a raw genotype file"`
}

// MatchOutput is the output schema for the match tool.
type MatchOutput struct {
	Matches []MatchEntry `json:"matches"`
	Count   int          `json:"count"`
}

// MatchEntry pairs one input key with its dataset record.
type MatchEntry struct {
	Key    KeyInput             `json:"key"`
	Record domain.VariantRecord `json:"record"`
}

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query        string `json:"query,omitempty" jsonschema:"free-text term matched across id, gene, condition and significance"`
	Chromosome   string `json:"chromosome,omitempty" jsonschema:"exact chromosome, e.g. 17 or X"`
	Gene         string `json:"gene,omitempty" jsonschema:"gene symbol or alias substring"`
	Significance string `json:"significance,omitempty" jsonschema:"clinical significance substring"`
	Condition    string `json:"condition,omitempty" jsonschema:"condition substring"`
	Limit        int    `json:"limit,omitempty" jsonschema:"maximum number of results (default 50)"`
	Offset       int    `json:"offset,omitempty" jsonschema:"number of results to skip"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []domain.VariantRecord `json:"results"`
	Total   int                    `json:"total"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolLoad,
		Description: "Download the variant dataset and hold it resident for matching and search",
	}, s.handleLoad)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolMatch,
		Description: "Match lookup keys from a raw genotype file against the loaded dataset",
	}, s.handleMatch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolSearch,
		Description: "Run a filtered, paginated search over the loaded dataset",
	}, s.handleSearch)
}

// handleLoad handles the load tool invocation. Ticks become progress
// notifications with Total fixed at 100.
func (s *Server) handleLoad(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input LoadInput,
) (*mcp.CallToolResult, LoadOutput, error) {
	var onProgress domain.LoadProgressFunc
	if token := requestProgressToken(req); token != nil {
		onProgress = func(percent int) {
			notifyProgress(ctx, req.Session, token, float64(percent), 100)
		}
	}

	if err := s.engine.Load(ctx, input.URL, onProgress); err != nil {
		return errorResult(err), LoadOutput{}, nil
	}
	return nil, LoadOutput{Loaded: true}, nil
}

// handleMatch handles the match tool invocation. Per-group ticks
// become progress notifications carrying processed and total counts.
func (s *Server) handleMatch(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input MatchInput,
) (*mcp.CallToolResult, MatchOutput, error) {
	keys := make([]domain.UserVariant, len(input.Keys))
	for i, key := range input.Keys {
		keys[i] = domain.UserVariant{
			RSID:       key.RSID,
			Genotype:   key.Genotype,
			Chromosome: key.Chromosome,
			Position:   key.Position,
		}
	}

	var onProgress domain.MatchProgressFunc
	if token := requestProgressToken(req); token != nil {
		onProgress = func(processed, total int) {
			notifyProgress(ctx, req.Session, token, float64(processed), float64(total))
		}
	}

	matches, err := s.engine.MatchAll(ctx, keys, onProgress)
	if err != nil {
		return errorResult(err), MatchOutput{}, nil
	}

	output := MatchOutput{
		Matches: make([]MatchEntry, len(matches)),
		Count:   len(matches),
	}
	for i := range matches {
		output.Matches[i] = MatchEntry{
			Key: KeyInput{
				RSID:       matches[i].Input.RSID,
				Genotype:   matches[i].Input.Genotype,
				Chromosome: matches[i].Input.Chromosome,
				Position:   matches[i].Input.Position,
			},
			Record: matches[i].Record,
		}
	}
	return nil, output, nil
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	criteria := domain.FilterCriteria{
		Query:        input.Query,
		Chromosome:   input.Chromosome,
		Gene:         input.Gene,
		Significance: input.Significance,
		Condition:    input.Condition,
		Limit:        input.Limit,
		Offset:       input.Offset,
	}

	page, err := s.engine.Search(ctx, criteria)
	if err != nil {
		return errorResult(err), SearchOutput{}, nil
	}

	return nil, SearchOutput{Results: page.Results, Total: page.Total}, nil
}

// requestProgressToken extracts the caller's progress token, if any.
func requestProgressToken(req *mcp.CallToolRequest) any {
	if req == nil || req.Params == nil {
		return nil
	}
	return req.Params.GetProgressToken()
}

// notifyProgress emits one progress notification for token. Ticks are
// sent as they happen and always precede the tool's own result on the
// session stream.
func notifyProgress(ctx context.Context, session *mcp.ServerSession, token any, progress, total float64) {
	err := session.NotifyProgress(ctx, &mcp.ProgressNotificationParams{
		ProgressToken: token,
		Progress:      progress,
		Total:         total,
	})
	if err != nil {
		logger.Warn("Sending progress notification: %v", err)
	}
}
