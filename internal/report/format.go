package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/codybook/codybook/internal/session"
)

// Redacted is written in place of secret-bearing header values.
const Redacted = "[REDACTED]"

// notAvailable is the placeholder for fields the caller never populated.
const notAvailable = "N/A"

// RedactHeaderValue masks the value of any header whose name contains
// "token" or "authorization", matched case-insensitively. All other headers
// pass through unchanged.
func RedactHeaderValue(name, value string) string {
	lower := strings.ToLower(name)
	if strings.Contains(lower, "token") || strings.Contains(lower, "authorization") {
		return Redacted
	}
	return value
}

// HeaderLines renders ordered headers as display lines, one per entry,
// preserving input order and redacting secret values.
func HeaderLines(headers []session.Header) []string {
	lines := make([]string, 0, len(headers))
	for _, h := range headers {
		lines = append(lines, fmt.Sprintf("- `%s: %s`", h.Name, RedactHeaderValue(h.Name, h.Value)))
	}
	return lines
}

// PrettyJSON renders any JSON-serializable value with 2-space indentation,
// HTML escaping disabled and non-ASCII characters preserved. Values that
// cannot be marshaled fall back to their fmt representation so rendering
// never fails.
func PrettyJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return strings.TrimRight(buf.String(), "\n")
}

// FencedJSON wraps a value's pretty-printed form in a json code fence.
func FencedJSON(v any) string {
	return "```json\n" + PrettyJSON(v) + "\n```\n"
}

// FencedJSONString re-pretty-prints a string that is expected to contain
// JSON (tool results usually do). When the string does not parse, the raw
// text is emitted in a plain fence instead; this path never errors.
func FencedJSONString(s string) string {
	var parsed any
	if err := json.Unmarshal([]byte(s), &parsed); err == nil {
		return FencedJSON(parsed)
	}
	return "```\n" + s + "\n```\n"
}

// orNA substitutes the placeholder for empty string fields.
func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}

// writeHeaders emits a titled, redacted header list. Nothing is written for
// an empty header set.
func writeHeaders(sb *strings.Builder, title string, headers []session.Header) {
	if len(headers) == 0 {
		return
	}
	fmt.Fprintf(sb, "**%s:**\n", title)
	for _, line := range HeaderLines(headers) {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

// writeUsage emits the token counters of one exchange if present.
func writeUsage(sb *strings.Builder, u *session.Usage) {
	if u == nil {
		return
	}
	sb.WriteString("**Token Usage:**\n")
	fmt.Fprintf(sb, "- Prompt Tokens: `%d`\n", u.PromptTokens)
	fmt.Fprintf(sb, "- Completion Tokens: `%d`\n", u.CompletionTokens)
	fmt.Fprintf(sb, "- Total Tokens: `%d`\n\n", u.TotalTokens)
}

// errorBodyLimit bounds how much of a failed response body a report keeps.
const errorBodyLimit = 200

// writeCallError emits the error descriptor of a failed exchange, with the
// response body truncated to errorBodyLimit characters.
func writeCallError(sb *strings.Builder, e *session.CallError) {
	if e == nil {
		return
	}
	sb.WriteString("**⚠️ Error Details:**\n")
	fmt.Fprintf(sb, "- **Type:** `%s`\n", orNA(e.Kind))
	fmt.Fprintf(sb, "- **Message:** %s\n", orNA(e.Message))
	if e.StatusCode != 0 {
		fmt.Fprintf(sb, "- **Status Code:** `%d`\n", e.StatusCode)
	}
	if e.Body != "" {
		body := e.Body
		if len(body) > errorBodyLimit {
			body = body[:errorBodyLimit]
		}
		fmt.Fprintf(sb, "- **Response Body:** %s...\n", body)
	}
	sb.WriteString("\n")
}
