// Package fetch implements the DatasetFetcher port over HTTP.
//
// The dataset image is streamed in transport-sized chunks and
// accumulated into one contiguous buffer; callers observe cumulative
// byte counts as the stream arrives.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/varsearch-cli/internal/core/domain"
	"github.com/custodia-labs/varsearch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/varsearch-cli/internal/logger"
)

// Ensure HTTPFetcher implements the interface.
var _ driven.DatasetFetcher = (*HTTPFetcher)(nil)

// progressTicksPerSecond caps progress delivery during the chunked
// read loop so a fast local download does not flood the caller. The
// final tick bypasses the cap.
const progressTicksPerSecond = 20

// readChunkSize is the read buffer size for the streaming loop.
const readChunkSize = 32 * 1024

// HTTPFetcher streams dataset images over HTTP. Timeouts are the
// transport's responsibility; configure them on the supplied client.
type HTTPFetcher struct {
	client *http.Client
	ticks  *rate.Limiter
}

// NewHTTPFetcher creates a fetcher using client, or http.DefaultClient
// when client is nil.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{
		client: client,
		ticks:  rate.NewLimiter(progressTicksPerSecond, 1),
	}
}

// Fetch downloads the image at url, reporting cumulative received
// bytes through onChunk. A non-success status wraps
// domain.ErrSourceUnavailable; a body that fails mid-stream wraps
// domain.ErrStreamUnreadable.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string, onChunk driven.ChunkProgressFunc) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building dataset request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: status %d", domain.ErrSourceUnavailable, resp.StatusCode)
	}

	total := resp.ContentLength
	logger.Debug("Fetching %s (expected size: %d)", url, total)

	var buf bytes.Buffer
	if total > 0 {
		buf.Grow(int(total))
	}

	chunk := make([]byte, readChunkSize)
	for {
		n, err := resp.Body.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			if onChunk != nil && f.ticks.Allow() {
				onChunk(int64(buf.Len()), total)
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrStreamUnreadable, err)
		}
	}

	// Always land a final tick with the complete byte count.
	if onChunk != nil {
		onChunk(int64(buf.Len()), total)
	}

	logger.Debug("Fetched %d bytes", buf.Len())
	return buf.Bytes(), nil
}
