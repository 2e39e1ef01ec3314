package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/varsearch-cli/internal/core/domain"
	"github.com/custodia-labs/varsearch-cli/internal/core/ports/driving"
)

// Ensure Client implements the interface: a caller holding a Client
// cannot tell it apart from the engine itself.
var _ driving.EngineService = (*Client)(nil)

// Client drives a remote engine server over an MCP session. Progress
// callbacks are replaced by generated tokens on the wire; incoming
// progress notifications are routed back to the registered callback by
// token. Calls are safe for concurrent use; the session multiplexes
// them by request ID.
type Client struct {
	session *mcp.ClientSession

	mu        sync.Mutex
	callbacks map[string]func(progress, total float64)
}

// NewClient connects to an engine server over the given transport.
func NewClient(ctx context.Context, transport mcp.Transport) (*Client, error) {
	c := &Client{
		callbacks: make(map[string]func(progress, total float64)),
	}

	impl := &mcp.Implementation{
		Name:    "varsearch-host",
		Version: Version,
	}
	client := mcp.NewClient(impl, &mcp.ClientOptions{
		ProgressNotificationHandler: c.handleProgress,
	})

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to engine server: %w", err)
	}
	c.session = session
	return c, nil
}

// Close terminates the session.
func (c *Client) Close() error {
	return c.session.Close()
}

// Load invokes the remote load tool.
func (c *Client) Load(ctx context.Context, url string, onProgress domain.LoadProgressFunc) error {
	var callback func(progress, total float64)
	if onProgress != nil {
		callback = func(progress, _ float64) {
			onProgress(int(progress))
		}
	}

	res, err := c.callTool(ctx, toolLoad, LoadInput{URL: url}, callback)
	if err != nil {
		return err
	}
	if res.IsError {
		return resultError(res)
	}
	return nil
}

// MatchAll invokes the remote match tool.
func (c *Client) MatchAll(
	ctx context.Context, keys []domain.UserVariant, onProgress domain.MatchProgressFunc,
) ([]domain.Match, error) {
	input := MatchInput{Keys: make([]KeyInput, len(keys))}
	for i, key := range keys {
		input.Keys[i] = KeyInput{
			RSID:       key.RSID,
			Genotype:   key.Genotype,
			Chromosome: key.Chromosome,
			Position:   key.Position,
		}
	}

	var callback func(progress, total float64)
	if onProgress != nil {
		callback = func(progress, total float64) {
			onProgress(int(progress), int(total))
		}
	}

	res, err := c.callTool(ctx, toolMatch, input, callback)
	if err != nil {
		return nil, err
	}
	if res.IsError {
		return nil, resultError(res)
	}

	var output MatchOutput
	if err := decodeOutput(res, &output); err != nil {
		return nil, err
	}

	matches := make([]domain.Match, len(output.Matches))
	for i, entry := range output.Matches {
		matches[i] = domain.Match{
			Input: domain.UserVariant{
				RSID:       entry.Key.RSID,
				Genotype:   entry.Key.Genotype,
				Chromosome: entry.Key.Chromosome,
				Position:   entry.Key.Position,
			},
			Record: entry.Record,
		}
	}
	return matches, nil
}

// Search invokes the remote search tool.
func (c *Client) Search(ctx context.Context, criteria domain.FilterCriteria) (*domain.SearchPage, error) {
	input := SearchInput{
		Query:        criteria.Query,
		Chromosome:   criteria.Chromosome,
		Gene:         criteria.Gene,
		Significance: criteria.Significance,
		Condition:    criteria.Condition,
		Limit:        criteria.Limit,
		Offset:       criteria.Offset,
	}

	res, err := c.callTool(ctx, toolSearch, input, nil)
	if err != nil {
		return nil, err
	}
	if res.IsError {
		return nil, resultError(res)
	}

	var output SearchOutput
	if err := decodeOutput(res, &output); err != nil {
		return nil, err
	}
	return &domain.SearchPage{Results: output.Results, Total: output.Total}, nil
}

// callTool runs one tool call, registering callback under a fresh
// progress token for its duration.
func (c *Client) callTool(
	ctx context.Context, name string, args any, callback func(progress, total float64),
) (*mcp.CallToolResult, error) {
	params := &mcp.CallToolParams{Name: name, Arguments: args}

	if callback != nil {
		token := uuid.NewString()
		c.mu.Lock()
		c.callbacks[token] = callback
		c.mu.Unlock()
		defer func() {
			c.mu.Lock()
			delete(c.callbacks, token)
			c.mu.Unlock()
		}()
		params.SetProgressToken(token)
	}

	res, err := c.session.CallTool(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("calling %s tool: %w", name, err)
	}
	return res, nil
}

// handleProgress routes one progress notification to the callback its
// token names. Notifications for unknown tokens are dropped.
func (c *Client) handleProgress(_ context.Context, req *mcp.ProgressNotificationClientRequest) {
	token, ok := req.Params.ProgressToken.(string)
	if !ok {
		return
	}

	c.mu.Lock()
	callback := c.callbacks[token]
	c.mu.Unlock()

	if callback != nil {
		callback(req.Params.Progress, req.Params.Total)
	}
}

// decodeOutput re-decodes a tool result's structured content into out.
func decodeOutput(res *mcp.CallToolResult, out any) error {
	data, err := json.Marshal(res.StructuredContent)
	if err != nil {
		return fmt.Errorf("encoding tool output: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding tool output: %w", err)
	}
	return nil
}
