package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"
)

// httpCaller is the shared transport for vendor REST calls. It owns the
// timing boundaries: total latency runs from just before the request is
// issued until the full body is read, and TTFB is stamped when the first
// response-body byte arrives.
type httpCaller struct {
	client      *http.Client
	timeout     time.Duration
	pingTimeout time.Duration
}

func newHTTPCaller(timeout, pingTimeout time.Duration) *httpCaller {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if pingTimeout <= 0 {
		pingTimeout = 5 * time.Second
	}
	return &httpCaller{
		client:      &http.Client{},
		timeout:     timeout,
		pingTimeout: pingTimeout,
	}
}

type wireCall struct {
	url     string
	headers map[string]string
	payload any
}

type wireResponse struct {
	status      int
	contentType string
	body        []byte
	ttfbMs      float64
	latencyMs   float64
	kind        ErrorKind // empty on success
	errMsg      string
}

func (c *httpCaller) post(ctx context.Context, call wireCall) *wireResponse {
	data, err := json.Marshal(call.payload)
	if err != nil {
		return &wireResponse{kind: ErrKindUnknown, errMsg: "marshal request: " + err.Error()}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, call.url, bytes.NewReader(data))
	if err != nil {
		return &wireResponse{kind: ErrKindUnknown, errMsg: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range call.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		kind, msg := classifyTransportErr(err)
		return &wireResponse{kind: kind, errMsg: msg, latencyMs: msSince(start)}
	}
	defer resp.Body.Close()

	// First body byte marks TTFB. A clean EOF here means an empty body.
	var first [1]byte
	n, err := resp.Body.Read(first[:])
	ttfb := msSince(start)
	if err != nil && err != io.EOF {
		kind, msg := classifyTransportErr(err)
		return &wireResponse{status: resp.StatusCode, kind: kind, errMsg: msg, latencyMs: msSince(start)}
	}

	rest, err := io.ReadAll(resp.Body)
	latency := msSince(start)
	if err != nil {
		kind, msg := classifyTransportErr(err)
		return &wireResponse{status: resp.StatusCode, kind: kind, errMsg: msg, ttfbMs: ttfb, latencyMs: msSince(start)}
	}

	body := append(first[:n], rest...)

	w := &wireResponse{
		status:      resp.StatusCode,
		contentType: resp.Header.Get("Content-Type"),
		body:        body,
		ttfbMs:      ttfb,
		latencyMs:   latency,
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		w.kind = ErrKindHTTP
		w.errMsg = "API error " + resp.Status + ": " + truncate(string(body), 200)
		return w
	}
	if len(body) == 0 {
		w.kind = ErrKindEmptyResponse
		w.errMsg = "empty audio response from API"
	}
	return w
}

// ping issues a minimal HEAD request and reports the round trip in
// milliseconds, or 0 when the endpoint does not answer in time.
func (c *httpCaller) ping(ctx context.Context, url string, headers map[string]string) float64 {
	ctx, cancel := context.WithTimeout(ctx, c.pingTimeout)
	defer cancel()

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0
	}
	resp.Body.Close()
	return msSince(start)
}

func classifyTransportErr(err error) (ErrorKind, string) {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrKindTimeout, "request timeout"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrKindTimeout, "request timeout"
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return ErrKindConnection, "connection refused"
	}
	return ErrKindUnknown, err.Error()
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
