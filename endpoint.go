package modelsync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// endpointClient handles HTTP communication with the digest-lookup and
// download endpoints.
type endpointClient struct {
	// digestURL is the digest-lookup endpoint.
	digestURL string

	// downloadURL is the artifact download endpoint.
	downloadURL string

	// token is the bearer token sent on every request.
	token string

	// httpClient is used for HTTP requests.
	httpClient HTTPClient

	// logger receives diagnostic messages. May be nil.
	logger Logger
}

// newEndpointClient creates a client for the given endpoint pair.
func newEndpointClient(digestURL, downloadURL, token string, client HTTPClient, logger Logger) *endpointClient {
	return &endpointClient{
		digestURL:   digestURL,
		downloadURL: downloadURL,
		token:       token,
		httpClient:  client,
		logger:      logger,
	}
}

// get issues an authenticated GET and returns the response. Responsibility
// for closing the body is the caller's. 401/403 map to ErrUnauthorized and
// any other non-200 status to ErrTransport, in both cases with the body
// already closed.
func (e *endpointClient) get(ctx context.Context, url, what string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating %s request: %w", what, err)
	}
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", what, err, ErrTransport)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		resp.Body.Close()
		return nil, fmt.Errorf("%s: status %d: %w", what, resp.StatusCode, ErrUnauthorized)
	case resp.StatusCode != http.StatusOK:
		resp.Body.Close()
		return nil, fmt.Errorf("%s: status %d: %w", what, resp.StatusCode, ErrTransport)
	}

	return resp, nil
}

// fetchLatestDigest fetches and parses the latest-digest record.
func (e *endpointClient) fetchLatestDigest(ctx context.Context) (DigestRecord, error) {
	resp, err := e.get(ctx, e.digestURL, "fetching latest digest")
	if err != nil {
		return DigestRecord{}, err
	}
	defer resp.Body.Close()

	var rec DigestRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return DigestRecord{}, fmt.Errorf("parsing digest response: %w", ErrParse)
	}
	if rec.Digest == "" {
		return DigestRecord{}, fmt.Errorf("digest response missing digest field: %w", ErrParse)
	}

	if e.logger != nil {
		e.logger.Debug("fetched latest digest", "digest", rec.Digest, "status", rec.Status)
	}

	return rec, nil
}

// downloadTo streams the artifact body into w and returns the byte count.
// The onProgress callback, if non-nil, receives the cumulative byte count as
// the body is read.
func (e *endpointClient) downloadTo(ctx context.Context, w io.Writer, onProgress func(total int64)) (int64, error) {
	resp, err := e.get(ctx, e.downloadURL, "downloading artifact")
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if onProgress != nil {
		reader = &progressReader{reader: resp.Body, onProgress: onProgress}
	}

	n, err := io.Copy(w, reader)
	if err != nil {
		return n, fmt.Errorf("reading artifact body: %v: %w", err, ErrTransport)
	}

	if e.logger != nil {
		e.logger.Debug("artifact downloaded", "bytes", n)
	}

	return n, nil
}

// progressReader wraps an io.Reader and reports cumulative bytes read.
type progressReader struct {
	reader     io.Reader
	total      int64
	onProgress func(total int64)
}

func (pr *progressReader) Read(p []byte) (n int, err error) {
	n, err = pr.reader.Read(p)
	if n > 0 {
		pr.total += int64(n)
		pr.onProgress(pr.total)
	}
	return
}
