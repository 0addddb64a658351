package report

import (
	"fmt"
	"strings"

	"github.com/codybook/codybook/internal/session"
)

// SaveChatSession renders a plain chat session and writes it to the sink.
// The conversation is walked in turn order: every user message opens a
// numbered exchange block followed by the API call that served it, every
// assistant message renders as the response block with its token usage.
//
// Pairing prefers the message's CallID; user turns without one pair with
// the Nth call record positionally. When fewer call records than user turns
// exist, trailing turns simply omit the API subsection.
func (r *Reporter) SaveChatSession(conversation []session.Message, calls []*session.APICall, meta session.ChatMetadata, scriptName string) (string, error) {
	if scriptName == "" {
		scriptName = "chat-session"
	}

	byID := make(map[string]*session.APICall, len(calls))
	for _, c := range calls {
		if c != nil && c.ID != "" {
			byID[c.ID] = c
		}
	}
	lookup := func(msg session.Message, userTurn int) *session.APICall {
		if msg.CallID != "" {
			if c, ok := byID[msg.CallID]; ok {
				return c
			}
		}
		if idx := userTurn - 1; idx >= 0 && idx < len(calls) {
			return calls[idx]
		}
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Chat Session: %s\n\n", orNA(meta.ModelID))
	fmt.Fprintf(&sb, "**Generated:** %s\n\n", r.generatedAt())
	fmt.Fprintf(&sb, "**Script:** %s\n\n", scriptName)
	fmt.Fprintf(&sb, "**Session Duration:** %s\n\n", orNA(meta.Duration))
	sb.WriteString("---\n\n")

	sb.WriteString("## Session Settings\n\n")
	fmt.Fprintf(&sb, "- **Model ID:** `%s`\n", orNA(meta.ModelID))
	fmt.Fprintf(&sb, "- **Temperature:** `%v`\n", meta.Temperature)
	fmt.Fprintf(&sb, "- **Max Tokens:** `%d`\n", meta.MaxTokens)
	fmt.Fprintf(&sb, "- **Total Messages:** `%d`\n", len(conversation))
	fmt.Fprintf(&sb, "- **Total API Calls:** `%d`\n\n", meta.APICallsCount)

	sb.WriteString("## Conversation Flow\n\n")

	userTurn := 0
	for _, msg := range conversation {
		switch msg.Role {
		case session.RoleUser:
			userTurn++
			fmt.Fprintf(&sb, "### %d. 👤 User Message\n\n", userTurn)
			fmt.Fprintf(&sb, "%s\n\n", msg.Content)

			if call := lookup(msg, userTurn); call != nil {
				fmt.Fprintf(&sb, "#### 🔄 API Request #%d\n\n", userTurn)
				fmt.Fprintf(&sb, "- **Endpoint:** `%s`\n", orNA(call.URL))
				sb.WriteString("- **Method:** `POST`\n")
				fmt.Fprintf(&sb, "- **Status Code:** `%d`\n", call.StatusCode)
				fmt.Fprintf(&sb, "- **Response Time:** `%d`ms\n\n", call.LatencyMS)

				writeHeaders(&sb, "Headers", call.Headers)

				sb.WriteString("**Complete Request Payload:**\n\n")
				sb.WriteString(FencedJSON(call.RequestPayload))
				sb.WriteString("\n")
			}

		case session.RoleAssistant:
			sb.WriteString("#### 🤖 Assistant Response\n\n")
			fmt.Fprintf(&sb, "%s\n\n", msg.Content)

			// Usage belongs to the call that produced this response.
			if idx := userTurn - 1; idx >= 0 && idx < len(calls) && calls[idx] != nil {
				writeUsage(&sb, calls[idx].Usage)
			}
			sb.WriteString("---\n\n")
		}
	}

	sb.WriteString("## Continue This Session\n\n")
	sb.WriteString("To continue with this model:\n\n")
	sb.WriteString("```bash\n")
	fmt.Fprintf(&sb, "codybook chat %s\n", orNA(meta.ModelID))
	sb.WriteString("```\n")

	filename := r.sink.Filename(scriptName, []string{modelQualifier(meta.ModelID)}, "md")
	return r.save(filename, sb.String())
}
