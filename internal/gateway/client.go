// Package gateway is the HTTP client for the LLM gateway. Chat completions
// and model listings go through the OpenAI-compatible endpoints under
// /.api/llm using the openai-go SDK; context search posts to
// /.api/cody/context directly. Every exchange is captured as a
// session.APICall so reports can reproduce the request and response.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/codybook/codybook/internal/config"
	"github.com/codybook/codybook/internal/log"
	"github.com/codybook/codybook/internal/session"
)

const defaultTimeout = 120 * time.Second

// Client talks to one gateway instance.
type Client struct {
	endpoint       string
	accessToken    string
	xRequestedWith string

	oai  openai.Client
	http *http.Client
	rec  *recorder
}

// New builds a client from the resolved configuration. The SDK retries are
// disabled so one logical exchange maps to exactly one captured call.
func New(cfg *config.Config) *Client {
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	rec := newRecorder()
	httpClient := &http.Client{Timeout: defaultTimeout}

	oai := openai.NewClient(
		option.WithAPIKey(cfg.AccessToken),
		option.WithBaseURL(endpoint+"/.api/llm"),
		option.WithHeader("X-Requested-With", cfg.XRequestedWith),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
		option.WithMiddleware(rec.middleware),
	)

	return &Client{
		endpoint:       endpoint,
		accessToken:    cfg.AccessToken,
		xRequestedWith: cfg.XRequestedWith,
		oai:            oai,
		http:           httpClient,
		rec:            rec,
	}
}

// Endpoint returns the gateway base URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// ChatEndpoint returns the chat completions URL, for report metadata.
func (c *Client) ChatEndpoint() string {
	return c.endpoint + "/.api/llm/chat/completions"
}

// ContextEndpoint returns the context search URL, for report metadata.
func (c *Client) ContextEndpoint() string {
	return c.endpoint + "/.api/cody/context"
}

// ListModels fetches the model listing. The returned call record carries the
// raw listing payload.
func (c *Client) ListModels(ctx context.Context) ([]session.ModelInfo, *session.APICall, error) {
	page, err := c.oai.Models.List(ctx)
	call := c.rec.take()
	logCall(call, err)
	if err != nil {
		return nil, call, fmt.Errorf("failed to list models: %w", err)
	}

	models := make([]session.ModelInfo, 0, len(page.Data))
	for _, m := range page.Data {
		models = append(models, session.ModelInfo{
			ID:      m.ID,
			Object:  "model",
			Created: m.Created,
			OwnedBy: m.OwnedBy,
		})
	}
	return models, call, nil
}

// GetModel fetches the detail record of a single model.
func (c *Client) GetModel(ctx context.Context, modelID string) (session.ModelInfo, *session.APICall, error) {
	m, err := c.oai.Models.Get(ctx, modelID)
	call := c.rec.take()
	logCall(call, err)
	if err != nil {
		return session.ModelInfo{}, call, fmt.Errorf("failed to get model %q: %w", modelID, err)
	}

	return session.ModelInfo{
		ID:      m.ID,
		Object:  "model",
		Created: m.Created,
		OwnedBy: m.OwnedBy,
	}, call, nil
}

// ChatRequest is one chat completion exchange.
type ChatRequest struct {
	Model       string
	Messages    []session.Message
	MaxTokens   int
	Temperature float64
	Tools       []session.Tool
}

// ChatResult is the decoded outcome of one chat completion.
type ChatResult struct {
	Content   string
	ToolCalls []session.MessageToolCall
	Usage     *session.Usage
}

// ChatCompletion sends one completion request. The returned call record is
// non-nil whenever the request reached the wire, including on error.
func (c *Client) ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResult, *session.APICall, error) {
	params := openai.ChatCompletionNewParams{
		Model:    req.Model,
		Messages: toMessageParams(req.Messages),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if len(req.Tools) > 0 {
		params.Tools = toToolParams(req.Tools)
	}

	completion, err := c.oai.Chat.Completions.New(ctx, params)
	call := c.rec.take()
	logCall(call, err)
	if err != nil {
		return nil, call, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, call, fmt.Errorf("no response received from model %q", req.Model)
	}

	msg := completion.Choices[0].Message
	result := &ChatResult{
		Content: msg.Content,
		Usage: &session.Usage{
			PromptTokens:     int(completion.Usage.PromptTokens),
			CompletionTokens: int(completion.Usage.CompletionTokens),
			TotalTokens:      int(completion.Usage.TotalTokens),
		},
	}
	for _, tc := range msg.ToolCalls {
		result.ToolCalls = append(result.ToolCalls, session.MessageToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	if call != nil && call.Usage == nil {
		call.Usage = result.Usage
	}
	return result, call, nil
}

// toMessageParams converts transcript messages to the SDK's union form.
func toMessageParams(messages []session.Message) []openai.ChatCompletionMessageParamUnion {
	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case session.RoleSystem:
			params = append(params, openai.SystemMessage(m.Content))
		case session.RoleTool:
			params = append(params, openai.ToolMessage(m.Content, m.ToolCallID))
		case session.RoleAssistant:
			var asstMsg openai.ChatCompletionAssistantMessageParam
			if m.Content != "" {
				asstMsg.Content.OfString = openai.Opt(m.Content)
			}
			if len(m.ToolCalls) > 0 {
				asstMsg.ToolCalls = make([]openai.ChatCompletionMessageToolCallUnionParam, len(m.ToolCalls))
				for i, tc := range m.ToolCalls {
					asstMsg.ToolCalls[i] = openai.ChatCompletionMessageToolCallUnionParam{
						OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
							ID: tc.ID,
							Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
								Name:      tc.Name,
								Arguments: tc.Arguments,
							},
						},
					}
				}
			}
			params = append(params, openai.ChatCompletionMessageParamUnion{OfAssistant: &asstMsg})
		default:
			params = append(params, openai.UserMessage(m.Content))
		}
	}
	return params
}

// toToolParams converts tool definitions to the SDK's function tool form.
func toToolParams(tools []session.Tool) []openai.ChatCompletionToolUnionParam {
	params := make([]openai.ChatCompletionToolUnionParam, 0, len(tools))
	for _, t := range tools {
		var funcParams openai.FunctionParameters
		if t.Parameters != nil {
			funcParams = t.Parameters
		}
		params = append(params, openai.ChatCompletionToolUnionParam{
			OfFunction: &openai.ChatCompletionFunctionToolParam{
				Function: openai.FunctionDefinitionParam{
					Name:        t.Name,
					Description: openai.String(t.Description),
					Parameters:  funcParams,
				},
			},
		})
	}
	return params
}

// RawPayload returns the response payload of a call as a generic value, for
// exports that embed the untouched API response.
func RawPayload(call *session.APICall) any {
	if call == nil {
		return nil
	}
	return call.ResponsePayload
}

func logCall(call *session.APICall, err error) {
	if call == nil {
		return
	}
	log.LogCall(call.ID, call.URL, call.StatusCode, call.LatencyMS, err)
}
