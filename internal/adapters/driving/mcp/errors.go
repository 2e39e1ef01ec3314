// Package mcp exposes the variant engine over the Model Context
// Protocol. Tool calls map one-to-one onto the engine operations, and
// progress callbacks cross the boundary as progress notifications
// keyed by the request's progress token.
package mcp

import (
	"encoding/json"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/varsearch-cli/internal/core/domain"
)

// ErrMissingEngine is returned when the engine service is not provided.
var ErrMissingEngine = errors.New("mcp: engine service is required")

// Error kinds carried inside tool error results. Each kind maps to one
// domain sentinel so errors.Is works identically on both sides.
const (
	kindSourceUnavailable = "source_unavailable"
	kindStreamUnreadable  = "stream_unreadable"
	kindStoreNotLoaded    = "store_not_loaded"
	kindAlreadyLoaded     = "already_loaded"
	kindQueryFailed       = "query_failed"
	kindInvalidInput      = "invalid_input"
	kindInternal          = "internal"
)

// toolError is the payload of an isError tool result: a routable kind
// plus the human-readable message, which is always preserved.
type toolError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// sentinelKinds fixes the classification order for errorResult.
var sentinelKinds = []struct {
	kind     string
	sentinel error
}{
	{kindSourceUnavailable, domain.ErrSourceUnavailable},
	{kindStreamUnreadable, domain.ErrStreamUnreadable},
	{kindStoreNotLoaded, domain.ErrStoreNotLoaded},
	{kindAlreadyLoaded, domain.ErrAlreadyLoaded},
	{kindQueryFailed, domain.ErrQueryFailed},
	{kindInvalidInput, domain.ErrInvalidInput},
}

var kindSentinels = map[string]error{
	kindSourceUnavailable: domain.ErrSourceUnavailable,
	kindStreamUnreadable:  domain.ErrStreamUnreadable,
	kindStoreNotLoaded:    domain.ErrStoreNotLoaded,
	kindAlreadyLoaded:     domain.ErrAlreadyLoaded,
	kindQueryFailed:       domain.ErrQueryFailed,
	kindInvalidInput:      domain.ErrInvalidInput,
}

// errorResult classifies err and wraps it into an isError tool result
// whose text content is the JSON-encoded toolError.
func errorResult(err error) *mcp.CallToolResult {
	te := toolError{Kind: kindInternal, Message: err.Error()}
	for _, entry := range sentinelKinds {
		if errors.Is(err, entry.sentinel) {
			te.Kind = entry.kind
			break
		}
	}

	data, marshalErr := json.Marshal(te)
	if marshalErr != nil {
		data = []byte(te.Message)
	}
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}
}

// remoteError rehydrates a tool error on the calling side. Error()
// reproduces the server-side message; Unwrap exposes the domain
// sentinel matching the kind.
type remoteError struct {
	message  string
	sentinel error
}

func (e *remoteError) Error() string {
	return e.message
}

func (e *remoteError) Unwrap() error {
	return e.sentinel
}

// resultError converts an isError tool result back into an error that
// satisfies errors.Is for the corresponding domain sentinel.
func resultError(res *mcp.CallToolResult) error {
	for _, content := range res.Content {
		text, ok := content.(*mcp.TextContent)
		if !ok {
			continue
		}

		var te toolError
		if err := json.Unmarshal([]byte(text.Text), &te); err == nil && te.Message != "" {
			if sentinel, known := kindSentinels[te.Kind]; known {
				return &remoteError{message: te.Message, sentinel: sentinel}
			}
			return errors.New(te.Message)
		}
		return errors.New(text.Text)
	}
	return errors.New("tool call failed")
}
