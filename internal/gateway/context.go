package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/codybook/codybook/internal/session"
)

// contextRequest is the POST body of /.api/cody/context.
type contextRequest struct {
	Query            string         `json:"query"`
	Repos            []session.Repo `json:"repos"`
	CodeResultsCount int            `json:"codeResultsCount"`
	TextResultsCount int            `json:"textResultsCount"`
	Version          string         `json:"version,omitempty"`
	FilePatterns     []string       `json:"filePatterns,omitempty"`
}

// contextResponse mirrors the result shape of /.api/cody/context.
type contextResponse struct {
	Results []struct {
		Blob struct {
			Path       string `json:"path"`
			Repository struct {
				Name string `json:"name"`
			} `json:"repository"`
		} `json:"blob"`
		StartLine    int    `json:"startLine"`
		EndLine      int    `json:"endLine"`
		ChunkContent string `json:"chunkContent"`
	} `json:"results"`
}

// SearchContext runs one context search against the configured repositories.
// The returned call record is non-nil whenever a request was attempted, so
// failed searches still render with their error details.
func (c *Client) SearchContext(ctx context.Context, query string, repos []session.Repo, params session.SearchParams) ([]session.ResultChunk, *session.APICall, error) {
	reqBody := contextRequest{
		Query:            query,
		Repos:            repos,
		CodeResultsCount: params.CodeResults,
		TextResultsCount: params.TextResults,
		Version:          params.Version,
		FilePatterns:     params.FilePatterns,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal context request: %w", err)
	}

	url := c.ContextEndpoint()
	call := &session.APICall{
		ID:  c.rec.nextID(),
		URL: url,
		Headers: []session.Header{
			{Name: "Accept", Value: "application/json"},
			{Name: "Content-Type", Value: "application/json"},
			{Name: "Authorization", Value: "token " + c.accessToken},
			{Name: "X-Requested-With", Value: c.xRequestedWith},
		},
	}
	call.RequestPayload = parseJSON(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create context request: %w", err)
	}
	for _, h := range call.Headers {
		req.Header.Set(h.Name, h.Value)
	}

	start := c.rec.now()
	resp, err := c.http.Do(req)
	call.LatencyMS = c.rec.now().Sub(start).Milliseconds()
	logCall(call, err)
	if err != nil {
		call.Err = &session.CallError{Kind: "request_error", Message: err.Error()}
		return nil, call, fmt.Errorf("context search failed: %w", err)
	}
	defer resp.Body.Close()

	call.StatusCode = resp.StatusCode
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		call.Err = &session.CallError{Kind: "read_error", Message: err.Error(), StatusCode: resp.StatusCode}
		return nil, call, fmt.Errorf("failed to read context response: %w", err)
	}
	call.ResponsePayload = parseJSON(respBody)

	if resp.StatusCode != http.StatusOK {
		call.Err = &session.CallError{
			Kind:       "http_error",
			Message:    http.StatusText(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
		return nil, call, fmt.Errorf("context search returned HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	var decoded contextResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		call.Err = &session.CallError{Kind: "decode_error", Message: err.Error(), StatusCode: resp.StatusCode, Body: string(respBody)}
		return nil, call, fmt.Errorf("failed to parse context response: %w", err)
	}

	chunks := make([]session.ResultChunk, 0, len(decoded.Results))
	for _, r := range decoded.Results {
		chunks = append(chunks, session.ResultChunk{
			Repository: r.Blob.Repository.Name,
			Path:       r.Blob.Path,
			StartLine:  r.StartLine,
			EndLine:    r.EndLine,
			Content:    r.ChunkContent,
		})
	}
	return chunks, call, nil
}
