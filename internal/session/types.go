// Package session defines the canonical record types captured during one
// cookbook run: conversation messages, per-exchange API call details, tool
// call traces, search records and the per-shape session metadata. The report
// package consumes these; the gateway client and the commands produce them.
package session

import "fmt"

// Role represents the role of a message participant.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// MessageToolCall is a tool invocation carried inside an assistant message,
// with arguments kept as the raw JSON string the model produced.
type MessageToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Message represents one turn of a conversation transcript. Order inside a
// slice of messages is turn order and is semantically meaningful.
type Message struct {
	Role       Role              `json:"role"`
	Content    string            `json:"content"`
	Name       string            `json:"name,omitempty"`
	ToolCallID string            `json:"tool_call_id,omitempty"`
	ToolCalls  []MessageToolCall `json:"tool_calls,omitempty"`

	// CallID links a user message to the APICall issued for it. When empty,
	// renderers fall back to positional pairing (Nth user turn, Nth call).
	CallID string `json:"-"`
}

// Header is one request header entry. Headers are kept as an ordered slice
// rather than a map so reports reproduce them in the order they were sent.
type Header struct {
	Name  string
	Value string
}

// Usage holds the token counters reported by the gateway for one exchange.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CallError describes a failed exchange: transport errors, non-2xx statuses
// and malformed response bodies all end up here.
type CallError struct {
	Kind       string
	Message    string
	StatusCode int
	Body       string
}

// APICall is the full record of one HTTP exchange with the gateway. It is
// created right before the request goes out and completed once the response
// (or failure) arrives.
type APICall struct {
	// ID is the correlation identifier assigned at creation time, e.g.
	// "call_0003". Records that reference this call carry the same ID.
	ID string

	URL            string
	Headers        []Header
	RequestPayload any

	StatusCode      int
	LatencyMS       int64
	ResponsePayload any
	Usage           *Usage

	// ContextSize and ContextDescription are set for manual-context calls.
	ContextSize        int
	ContextDescription string

	Err *CallError
}

// ToolCallRecord is one model-issued function invocation together with the
// locally computed result (a JSON string, or raw text on tool failure).
type ToolCallRecord struct {
	FunctionName string
	Arguments    map[string]any
	CallID       string
	Result       string
}

// Tool describes one function the model may call. Parameters is the JSON
// schema forwarded to the gateway.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Step is one stage of a tool-calling session. The three variants are
// InitialRequest, ToolExecution and FinalResponse; steps are numbered by
// their position (1-based) in the session slice.
type Step interface {
	isStep()
}

// InitialRequest is the first exchange of a tool-calling session.
type InitialRequest struct {
	UserQuery string
	Call      *APICall
}

// ToolExecution groups the tool invocations run between two exchanges.
type ToolExecution struct {
	ToolCalls []ToolCallRecord
}

// FinalResponse is the closing exchange carrying the model's answer after
// tool results were fed back.
type FinalResponse struct {
	AIResponse string
	Call       *APICall
}

func (InitialRequest) isStep() {}
func (ToolExecution) isStep()  {}
func (FinalResponse) isStep()  {}

// ResultChunk is one code or text snippet returned by a context search.
type ResultChunk struct {
	Repository string
	Path       string
	StartLine  int
	EndLine    int
	Content    string
}

// SearchParams are the knobs of one context-search request.
type SearchParams struct {
	CodeResults  int
	TextResults  int
	FilePatterns []string
	Version      string
}

// SearchRecord captures one context-search query with its results.
type SearchRecord struct {
	Query   string
	Results []ResultChunk
	Call    *APICall
	Params  SearchParams
}

// ManualMode selects how a manual-context session is rendered.
type ManualMode string

const (
	ModeRefactoringExamples ManualMode = "refactoring_examples"
	ModeInteractiveContext  ManualMode = "interactive_context"
	ModeCustomContext       ManualMode = "custom_context"
)

// TaskOrInteraction is one unit of work in a manual-context session. The
// variants are RefactoringTask, Interaction and CustomAnalysis.
type TaskOrInteraction interface {
	isTask()
}

// RefactoringTask is one predefined refactoring prompt run against the
// loaded context file.
type RefactoringTask struct {
	Number    int
	Name      string
	Prompt    string
	Response  string
	Completed bool
}

// Interaction is one question/answer turn of the interactive context mode.
type Interaction struct {
	Timestamp          string
	ContextDescription string
	ContextSize        int
	Question           string
	Response           string
	Success            bool
}

// CustomAnalysis is the single task of a custom-context session: a
// user-supplied code block analyzed with a template prompt.
type CustomAnalysis struct {
	Name        string
	CodeContent string
	Prompt      string
	Response    string
	Completed   bool
}

func (RefactoringTask) isTask() {}
func (Interaction) isTask()     {}
func (CustomAnalysis) isTask()  {}

// ContextSwitch records one context change (load/paste/default) during an
// interactive manual-context session.
type ContextSwitch struct {
	Action      string
	FilePath    string
	ContextSize int
	Description string
	Timestamp   string
}

// Repo names one repository included in a context search.
type Repo struct {
	Name string `json:"name"`
}

// ChatMetadata summarizes a plain chat session.
type ChatMetadata struct {
	ModelID       string
	Temperature   float64
	MaxTokens     int
	Duration      string
	APICallsCount int
}

// ToolMetadata summarizes a tool-calling session.
type ToolMetadata struct {
	ModelID              string
	Temperature          float64
	MaxTokens            int
	Duration             string
	TotalAPICalls        int
	TotalToolCalls       int
	UserQuery            string
	AvailableTools       []Tool
	CompleteConversation []Message
}

// SearchMetadata summarizes a context-search session.
type SearchMetadata struct {
	Mode                 string
	Duration             string
	DefaultRepos         []Repo
	Endpoint             string
	IncludesConversation bool
	ConversationHistory  []Message
}

// ManualMetadata summarizes a manual-context session. Only the fields of
// the active mode are rendered.
type ManualMetadata struct {
	ModelID       string
	Mode          ManualMode
	Duration      string
	APICallsCount int

	// refactoring_examples
	TotalTasks     int
	CompletedTasks int
	ContextFile    string
	ContextSize    int

	// interactive_context
	TotalInteractions    int
	TotalContextSwitches int
	ContextSwitches      []ContextSwitch

	// custom_context
	CustomType        string
	CustomContextSize int
}

// ModelInfo is one entry of the gateway's model listing.
type ModelInfo struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// NewCallID formats the correlation identifier for the nth call of a
// session (1-based).
func NewCallID(n int) string {
	return fmt.Sprintf("call_%04d", n)
}
