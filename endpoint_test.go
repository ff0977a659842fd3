package modelsync

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchLatestDigest(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"digest":"9e107d9d372bb6826bd81d3542a419d6","status":"ok"}`))
	}))
	defer server.Close()

	client := newEndpointClient(server.URL, server.URL, "secret-token", server.Client(), nil)

	rec, err := client.fetchLatestDigest(context.Background())
	if err != nil {
		t.Fatalf("fetchLatestDigest() error = %v", err)
	}

	if rec.Digest != "9e107d9d372bb6826bd81d3542a419d6" {
		t.Errorf("Digest = %q, want %q", rec.Digest, "9e107d9d372bb6826bd81d3542a419d6")
	}
	if rec.Status != "ok" {
		t.Errorf("Status = %q, want %q", rec.Status, "ok")
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer secret-token")
	}
}

func TestFetchLatestDigestAuthError(t *testing.T) {
	for _, code := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		}))

		client := newEndpointClient(server.URL, server.URL, "bad-token", server.Client(), nil)
		_, err := client.fetchLatestDigest(context.Background())
		server.Close()

		if !errors.Is(err, ErrUnauthorized) {
			t.Errorf("status %d: error = %v, want ErrUnauthorized", code, err)
		}
		if errors.Is(err, ErrTransport) || errors.Is(err, ErrParse) {
			t.Errorf("status %d: error = %v, must not be ErrTransport or ErrParse", code, err)
		}
	}
}

func TestFetchLatestDigestServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newEndpointClient(server.URL, server.URL, "tok", server.Client(), nil)
	_, err := client.fetchLatestDigest(context.Background())

	if !errors.Is(err, ErrTransport) {
		t.Errorf("error = %v, want ErrTransport", err)
	}
}

func TestFetchLatestDigestParseError(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{not json`},
		{"missing digest field", `{"status":"ok"}`},
		{"empty digest", `{"digest":"","status":"ok"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newEndpointClient(server.URL, server.URL, "tok", server.Client(), nil)
			_, err := client.fetchLatestDigest(context.Background())

			if !errors.Is(err, ErrParse) {
				t.Errorf("error = %v, want ErrParse", err)
			}
		})
	}
}

func TestFetchLatestDigestNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := newEndpointClient(server.URL, server.URL, "tok", server.Client(), nil)
	server.Close() // connection refused from here on

	_, err := client.fetchLatestDigest(context.Background())
	if !errors.Is(err, ErrTransport) {
		t.Errorf("error = %v, want ErrTransport", err)
	}
}

func TestDownloadTo(t *testing.T) {
	body := []byte("raw model artifact bytes")
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write(body)
	}))
	defer server.Close()

	client := newEndpointClient(server.URL, server.URL, "secret-token", server.Client(), nil)

	var buf bytes.Buffer
	var lastTotal int64
	n, err := client.downloadTo(context.Background(), &buf, func(total int64) {
		lastTotal = total
	})
	if err != nil {
		t.Fatalf("downloadTo() error = %v", err)
	}

	if n != int64(len(body)) {
		t.Errorf("downloadTo() n = %d, want %d", n, len(body))
	}
	if !bytes.Equal(buf.Bytes(), body) {
		t.Errorf("downloaded bytes = %q, want %q", buf.Bytes(), body)
	}
	if lastTotal != int64(len(body)) {
		t.Errorf("final progress total = %d, want %d", lastTotal, len(body))
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer secret-token")
	}
}

func TestDownloadToAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := newEndpointClient(server.URL, server.URL, "tok", server.Client(), nil)

	var buf bytes.Buffer
	_, err := client.downloadTo(context.Background(), &buf, nil)

	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
	if buf.Len() != 0 {
		t.Errorf("buffer has %d bytes, want 0", buf.Len())
	}
}

func TestDownloadToTruncatedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Promise more bytes than are sent; the client sees an early EOF.
		w.Header().Set("Content-Length", "1000")
		w.Write([]byte("only a fragment"))
	}))
	defer server.Close()

	client := newEndpointClient(server.URL, server.URL, "tok", server.Client(), nil)

	var buf bytes.Buffer
	_, err := client.downloadTo(context.Background(), &buf, nil)

	if !errors.Is(err, ErrTransport) {
		t.Errorf("error = %v, want ErrTransport", err)
	}
}

func TestDownloadToNoToken(t *testing.T) {
	var gotAuth string
	var sawHeader bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, sawHeader = r.Header["Authorization"]
		w.Write([]byte("x"))
	}))
	defer server.Close()

	client := newEndpointClient(server.URL, server.URL, "", server.Client(), nil)

	var buf bytes.Buffer
	if _, err := client.downloadTo(context.Background(), &buf, nil); err != nil {
		t.Fatalf("downloadTo() error = %v", err)
	}
	if sawHeader || gotAuth != "" {
		t.Errorf("Authorization header sent without a token: %q", gotAuth)
	}
}
