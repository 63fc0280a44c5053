package whttp

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"time"
)

type LoggingRoundTripper struct {
	Proxied http.RoundTripper
}

func (lrt LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	slog.InfoContext(req.Context(), "outbound request", "method", req.Method, "host", req.URL.Host, "path", req.URL.Path)

	res, err := lrt.Proxied.RoundTrip(req)
	if err != nil {
		slog.ErrorContext(req.Context(), "outbound request failed", "error", err.Error())
		return res, err
	}

	b := bytes.NewBuffer(make([]byte, 0))
	reader := io.TeeReader(res.Body, b)

	body, _ := io.ReadAll(reader)
	slog.InfoContext(req.Context(), "outbound response", "status", res.Status, "size", len(body))

	defer res.Body.Close()

	res.Body = io.NopCloser(b)

	return res, nil
}

// NewLoggingClient builds an HTTP client which logs every round trip. Both
// upstreams get one of these with their own timeout; once a request is
// issued it runs to completion or to that timeout, nothing cancels it
// halfway.
func NewLoggingClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: LoggingRoundTripper{Proxied: http.DefaultTransport},
		Timeout:   timeout,
	}
}
