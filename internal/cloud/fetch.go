package cloud

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// FetchRemote opens a stream over the content at the given URL and returns
// it together with the response headers. The caller owns the stream and must
// close it.
func (c *RealClient) FetchRemote(ctx context.Context, uri string) (io.ReadCloser, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build request for %s: %w", uri, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch %s: %w", uri, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, nil, fmt.Errorf("failed to fetch %s: unexpected status %s", uri, resp.Status)
	}

	return resp.Body, resp.Header, nil
}
