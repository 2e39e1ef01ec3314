package driven

import "context"

// ChunkProgressFunc reports cumulative bytes received for a streaming
// fetch. total is the expected size, or -1 when the transport does not
// announce one. received values are monotonically non-decreasing.
type ChunkProgressFunc func(received, total int64)

// DatasetFetcher streams a dataset image from a source location and
// returns it as one contiguous buffer.
type DatasetFetcher interface {
	// Fetch downloads the image at url, invoking onChunk as bytes
	// arrive. onChunk may be nil. A final call with the complete byte
	// count is always made before Fetch returns successfully.
	//
	// Transport failures wrap domain.ErrSourceUnavailable; a body
	// that cannot be consumed wraps domain.ErrStreamUnreadable.
	Fetch(ctx context.Context, url string, onChunk ChunkProgressFunc) ([]byte, error)
}
