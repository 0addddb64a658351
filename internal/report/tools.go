package report

import (
	"fmt"
	"strings"

	"github.com/codybook/codybook/internal/session"
)

// SaveToolSession renders a tool-calling session: overview, available
// tools, then the steps in order, then the complete conversation dump for
// audit. Every step ends with a separator. A step variant the renderer does
// not know is an explicit error rather than being silently skipped.
func (r *Reporter) SaveToolSession(steps []session.Step, meta session.ToolMetadata, scriptName string) (string, error) {
	if scriptName == "" {
		scriptName = "tool-calling-session"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Tool Calling Session: %s\n\n", orNA(meta.ModelID))
	fmt.Fprintf(&sb, "**Generated:** %s\n\n", r.generatedAt())
	fmt.Fprintf(&sb, "**Script:** %s\n\n", scriptName)
	fmt.Fprintf(&sb, "**Session Duration:** %s\n\n", orNA(meta.Duration))
	sb.WriteString("---\n\n")

	sb.WriteString("## Session Overview\n\n")
	fmt.Fprintf(&sb, "- **Model ID:** `%s`\n", orNA(meta.ModelID))
	fmt.Fprintf(&sb, "- **Temperature:** `%v`\n", meta.Temperature)
	fmt.Fprintf(&sb, "- **Max Tokens:** `%d`\n", meta.MaxTokens)
	fmt.Fprintf(&sb, "- **Total API Calls:** `%d`\n", meta.TotalAPICalls)
	fmt.Fprintf(&sb, "- **Total Tool Calls:** `%d`\n", meta.TotalToolCalls)
	fmt.Fprintf(&sb, "- **User Query:** `%s`\n\n", orNA(meta.UserQuery))

	if len(meta.AvailableTools) > 0 {
		sb.WriteString("## Available Tools\n\n")
		for _, tool := range meta.AvailableTools {
			name := tool.Name
			if name == "" {
				name = "Unknown"
			}
			desc := tool.Description
			if desc == "" {
				desc = "No description"
			}
			fmt.Fprintf(&sb, "- **%s:** %s\n", name, desc)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Tool Calling Flow\n\n")

	for i, step := range steps {
		number := i + 1
		switch s := step.(type) {
		case session.InitialRequest:
			writeInitialRequest(&sb, number, s)
		case session.ToolExecution:
			writeToolExecution(&sb, number, s)
		case session.FinalResponse:
			writeFinalResponse(&sb, number, s)
		default:
			return "", fmt.Errorf("unsupported step type %T at step %d", step, number)
		}
		sb.WriteString("---\n\n")
	}

	if len(meta.CompleteConversation) > 0 {
		sb.WriteString("## Complete Conversation Context\n\n")
		sb.WriteString("This shows the full conversation that was built up during the tool calling process:\n\n")
		sb.WriteString(FencedJSON(meta.CompleteConversation))
		sb.WriteString("\n")
	}

	sb.WriteString("## Continue With This Model\n\n")
	sb.WriteString("To use this model for more tool calling:\n\n")
	sb.WriteString("```bash\n")
	fmt.Fprintf(&sb, "codybook tools %s\n", orNA(meta.ModelID))
	sb.WriteString("```\n")

	filename := r.sink.Filename(scriptName, []string{modelQualifier(meta.ModelID)}, "md")
	return r.save(filename, sb.String())
}

func writeInitialRequest(sb *strings.Builder, number int, s session.InitialRequest) {
	fmt.Fprintf(sb, "### Step %d: 📤 Initial AI Request\n\n", number)
	fmt.Fprintf(sb, "**User Query:** %s\n\n", orNA(s.UserQuery))

	if s.Call == nil {
		return
	}
	sb.WriteString("#### 🔄 API Call Details\n\n")
	fmt.Fprintf(sb, "- **Endpoint:** `%s`\n", orNA(s.Call.URL))
	sb.WriteString("- **Method:** `POST`\n")
	fmt.Fprintf(sb, "- **Status Code:** `%d`\n", s.Call.StatusCode)
	fmt.Fprintf(sb, "- **Response Time:** `%d`ms\n\n", s.Call.LatencyMS)

	writeHeaders(sb, "Headers", s.Call.Headers)

	sb.WriteString("**Complete Request Payload:**\n\n")
	sb.WriteString(FencedJSON(s.Call.RequestPayload))
	sb.WriteString("\n")

	sb.WriteString("**Complete Response Payload:**\n\n")
	sb.WriteString(FencedJSON(s.Call.ResponsePayload))
	sb.WriteString("\n")
}

func writeToolExecution(sb *strings.Builder, number int, s session.ToolExecution) {
	fmt.Fprintf(sb, "### Step %d: 🔧 Tool Execution\n\n", number)

	for i, tc := range s.ToolCalls {
		name := tc.FunctionName
		if name == "" {
			name = "Unknown"
		}
		fmt.Fprintf(sb, "#### Tool Call #%d: %s\n\n", i+1, name)
		fmt.Fprintf(sb, "- **Function:** `%s`\n", orNA(tc.FunctionName))
		fmt.Fprintf(sb, "- **Call ID:** `%s`\n\n", orNA(tc.CallID))

		sb.WriteString("**Function Arguments:**\n\n")
		sb.WriteString(FencedJSON(tc.Arguments))
		sb.WriteString("\n")

		sb.WriteString("**Function Result:**\n\n")
		sb.WriteString(FencedJSONString(tc.Result))
		sb.WriteString("\n")
	}
}

func writeFinalResponse(sb *strings.Builder, number int, s session.FinalResponse) {
	fmt.Fprintf(sb, "### Step %d: 🎯 Final AI Response\n\n", number)

	if s.Call != nil {
		sb.WriteString("#### 🔄 API Call Details\n\n")
		fmt.Fprintf(sb, "- **Endpoint:** `%s`\n", orNA(s.Call.URL))
		sb.WriteString("- **Method:** `POST`\n")
		fmt.Fprintf(sb, "- **Status Code:** `%d`\n", s.Call.StatusCode)
		fmt.Fprintf(sb, "- **Response Time:** `%d`ms\n\n", s.Call.LatencyMS)

		writeUsage(sb, s.Call.Usage)

		sb.WriteString("**Complete Response Payload:**\n\n")
		sb.WriteString(FencedJSON(s.Call.ResponsePayload))
		sb.WriteString("\n")
	}

	if s.AIResponse != "" {
		sb.WriteString("#### 🤖 Final AI Response Content\n\n")
		fmt.Fprintf(sb, "%s\n\n", s.AIResponse)
	}
}
