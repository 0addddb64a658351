package report

import (
	"os"
	"testing"
	"time"

	"github.com/codybook/codybook/internal/session"
)

// testReporter builds a reporter writing into a temp directory with a fixed
// clock so filenames and generation timestamps are deterministic.
func testReporter(t *testing.T) *Reporter {
	t.Helper()
	r := New(NewSink(t.TempDir()), nil)
	fixed := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	r.now = func() time.Time { return fixed }
	r.sink.now = r.now
	return r
}

func readReport(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read report %s: %v", path, err)
	}
	return string(data)
}

func TestChatSessionRenderIsIdempotent(t *testing.T) {
	r := testReporter(t)

	conversation := []session.Message{
		{Role: session.RoleUser, Content: "hello"},
		{Role: session.RoleAssistant, Content: "hi there"},
	}
	calls := []*session.APICall{{
		ID:         "call_0001",
		URL:        "https://sourcegraph.example.com/.api/llm/chat/completions",
		StatusCode: 200,
		LatencyMS:  42,
	}}
	meta := session.ChatMetadata{ModelID: "anthropic::2024-10-22::claude-sonnet-4-latest", Temperature: 0.7, MaxTokens: 4000, Duration: "3.0 seconds", APICallsCount: 1}

	path1, err := r.SaveChatSession(conversation, calls, meta, "chat-session")
	if err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	first := readReport(t, path1)

	path2, err := r.SaveChatSession(conversation, calls, meta, "chat-session")
	if err != nil {
		t.Fatalf("second save failed: %v", err)
	}
	second := readReport(t, path2)

	if path1 != path2 {
		t.Errorf("fixed clock should produce the same filename, got %s and %s", path1, path2)
	}
	if first != second {
		t.Error("rendering the same session twice produced different documents")
	}
}
