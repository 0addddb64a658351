package gateway

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/openai/openai-go/v3/option"

	"github.com/codybook/codybook/internal/session"
)

// preferredHeaderOrder lists the headers reports show first; anything else
// follows alphabetically.
var preferredHeaderOrder = []string{"Accept", "Content-Type", "Authorization", "X-Requested-With"}

// recorder captures one session.APICall per request that flows through the
// SDK. Calls are numbered in issue order; the caller collects each record
// with take() right after the SDK call returns.
type recorder struct {
	mu   sync.Mutex
	seq  int
	last *session.APICall
	now  func() time.Time
}

func newRecorder() *recorder {
	return &recorder{now: time.Now}
}

func (r *recorder) nextID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return session.NewCallID(r.seq)
}

func (r *recorder) set(call *session.APICall) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = call
}

// take returns the record of the most recent exchange and clears it.
func (r *recorder) take() *session.APICall {
	r.mu.Lock()
	defer r.mu.Unlock()
	call := r.last
	r.last = nil
	return call
}

// middleware records the request and response of every exchange without
// altering either. Bodies are read and restored so the SDK sees them intact.
func (r *recorder) middleware(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
	call := &session.APICall{
		ID:      r.nextID(),
		URL:     req.URL.String(),
		Headers: captureHeaders(req.Header),
	}

	if body, err := requestBody(req); err == nil && len(body) > 0 {
		call.RequestPayload = parseJSON(body)
	}

	start := r.now()
	resp, err := next(req)
	call.LatencyMS = r.now().Sub(start).Milliseconds()

	if err != nil {
		call.Err = &session.CallError{Kind: "request_error", Message: err.Error()}
		r.set(call)
		return resp, err
	}

	call.StatusCode = resp.StatusCode
	if body, readErr := responseBody(resp); readErr == nil && len(body) > 0 {
		payload := parseJSON(body)
		call.ResponsePayload = payload
		call.Usage = usageFromPayload(payload)
		if resp.StatusCode >= 400 {
			call.Err = &session.CallError{
				Kind:       "http_error",
				Message:    http.StatusText(resp.StatusCode),
				StatusCode: resp.StatusCode,
				Body:       string(body),
			}
		}
	}

	r.set(call)
	return resp, nil
}

// captureHeaders flattens an http.Header into the ordered form reports use.
func captureHeaders(h http.Header) []session.Header {
	seen := make(map[string]bool, len(h))
	headers := make([]session.Header, 0, len(h))
	appendHeader := func(name string) {
		values := h.Values(name)
		if len(values) == 0 || seen[name] {
			return
		}
		seen[name] = true
		for _, v := range values {
			headers = append(headers, session.Header{Name: name, Value: v})
		}
	}

	for _, name := range preferredHeaderOrder {
		appendHeader(name)
	}

	rest := make([]string, 0, len(h))
	for name := range h {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		appendHeader(name)
	}
	return headers
}

// requestBody returns the request body bytes, leaving the request readable.
func requestBody(req *http.Request) ([]byte, error) {
	if req.GetBody != nil {
		rc, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	if req.Body == nil {
		return nil, nil
	}
	data, err := io.ReadAll(req.Body)
	req.Body.Close()
	req.Body = io.NopCloser(bytes.NewReader(data))
	return data, err
}

// responseBody returns the response body bytes and restores the body so the
// SDK can still decode it.
func responseBody(resp *http.Response) ([]byte, error) {
	if resp.Body == nil {
		return nil, nil
	}
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(data))
	return data, err
}

// parseJSON decodes a body into a generic value, falling back to the raw
// text when the body is not JSON.
func parseJSON(body []byte) any {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return string(body)
	}
	return v
}

// usageFromPayload extracts the token counters from a completion payload.
func usageFromPayload(payload any) *session.Usage {
	m, ok := payload.(map[string]any)
	if !ok {
		return nil
	}
	raw, ok := m["usage"]
	if !ok || raw == nil {
		return nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var usage session.Usage
	if err := json.Unmarshal(data, &usage); err != nil {
		return nil
	}
	return &usage
}
