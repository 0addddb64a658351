package report

import (
	"strings"
	"testing"

	"github.com/codybook/codybook/internal/session"
)

func searchMeta(mode string) session.SearchMetadata {
	return session.SearchMetadata{
		Mode:     mode,
		Duration: "8.2 seconds",
		DefaultRepos: []session.Repo{
			{Name: "github.com/sourcegraph/cody"},
			{Name: "github.com/sourcegraph/sourcegraph"},
		},
		Endpoint: "https://sourcegraph.example.com/.api/cody/context",
	}
}

func searchCall(latency int64) *session.APICall {
	return &session.APICall{
		ID:         "call_0001",
		URL:        "https://sourcegraph.example.com/.api/cody/context",
		StatusCode: 200,
		LatencyMS:  latency,
		Headers: []session.Header{
			{Name: "Authorization", Value: "token sgp_secret"},
		},
		RequestPayload: map[string]any{"query": "q"},
	}
}

func TestPerformanceSummaryAggregates(t *testing.T) {
	r := testReporter(t)

	searches := []session.SearchRecord{
		{Query: "one", Call: searchCall(100), Results: []session.ResultChunk{{Repository: "r", Path: "a.go"}}},
		{Query: "two", Call: searchCall(250)},
		{Query: "three", Call: nil}, // failed request, counts as 0ms
	}

	path, err := r.SaveContextSearchSession(searches, searchMeta("interactive"), "")
	if err != nil {
		t.Fatalf("SaveContextSearchSession failed: %v", err)
	}
	doc := readReport(t, path)

	for _, want := range []string{
		"## Performance Summary",
		"- **Total Results Found:** `1`",
		"- **Total API Response Time:** `350`ms",
		"- **Average Response Time:** `116.7`ms",
		"- **Fastest Query:** `0`ms",
		"- **Slowest Query:** `250`ms",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestSearchRecordRendering(t *testing.T) {
	r := testReporter(t)

	searches := []session.SearchRecord{
		{
			Query: "error handling patterns",
			Params: session.SearchParams{
				CodeResults:  10,
				TextResults:  3,
				FilePatterns: []string{`\.go$`, `\.ts$`},
				Version:      "1.0",
			},
			Call: searchCall(75),
			Results: []session.ResultChunk{
				{
					Repository: "github.com/sourcegraph/cody",
					Path:       "lib/errors.go",
					StartLine:  10,
					EndLine:    11,
					Content:    "func wrap(err error) error {\n\treturn fmt.Errorf(\"wrapped: %w\", err)",
				},
			},
		},
	}

	path, err := r.SaveContextSearchSession(searches, searchMeta("examples"), "")
	if err != nil {
		t.Fatalf("SaveContextSearchSession failed: %v", err)
	}
	doc := readReport(t, path)

	for _, want := range []string{
		`### 1. Search: "error handling patterns"`,
		"- **File Patterns:** `\\.go$, \\.ts$`",
		"- **Results Found:** `1`",
		"- `Authorization: [REDACTED]`",
		"#### 📄 Search Results (1 found)",
		"- **Lines:** `10-11`",
		"  10: func wrap(err error) error {",
		"  11: \treturn fmt.Errorf(\"wrapped: %w\", err)",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestSearchRecordNoResults(t *testing.T) {
	r := testReporter(t)

	searches := []session.SearchRecord{
		{Query: "nothing matches this", Params: session.SearchParams{CodeResults: 5, TextResults: 3}, Call: searchCall(30)},
	}

	path, err := r.SaveContextSearchSession(searches, searchMeta("interactive"), "")
	if err != nil {
		t.Fatalf("SaveContextSearchSession failed: %v", err)
	}
	doc := readReport(t, path)

	if !strings.Contains(doc, "*No results found for this query.*") {
		t.Error("empty result set must render the explicit no-results marker")
	}
	if !strings.Contains(doc, "- **File Patterns:** `None`") {
		t.Error("missing File Patterns None placeholder")
	}
}

func TestSearchFailedCallRendersError(t *testing.T) {
	r := testReporter(t)

	failed := searchCall(12)
	failed.StatusCode = 500
	failed.Err = &session.CallError{
		Kind:       "http_error",
		Message:    "Internal Server Error",
		StatusCode: 500,
		Body:       strings.Repeat("x", 300),
	}

	path, err := r.SaveContextSearchSession(
		[]session.SearchRecord{{Query: "boom", Call: failed}},
		searchMeta("interactive"), "")
	if err != nil {
		t.Fatalf("SaveContextSearchSession failed: %v", err)
	}
	doc := readReport(t, path)

	if !strings.Contains(doc, "**⚠️ Error Details:**") {
		t.Error("failed call must render the error descriptor")
	}
	if !strings.Contains(doc, strings.Repeat("x", 200)+"...") {
		t.Error("error body should be truncated to 200 characters with ellipsis")
	}
	if strings.Contains(doc, strings.Repeat("x", 201)) {
		t.Error("error body exceeded the truncation limit")
	}
}

func TestConversationHistorySection(t *testing.T) {
	r := testReporter(t)

	meta := searchMeta("conversational")
	meta.IncludesConversation = true
	meta.ConversationHistory = []session.Message{
		{Role: session.RoleSystem, Content: "You are helping analyze code search results."},
		{Role: session.RoleUser, Content: "What does this function do?"},
		{Role: session.RoleAssistant, Content: "It wraps errors."},
	}

	path, err := r.SaveContextSearchSession(
		[]session.SearchRecord{{Query: "q", Call: searchCall(10)}},
		meta, "")
	if err != nil {
		t.Fatalf("SaveContextSearchSession failed: %v", err)
	}
	doc := readReport(t, path)

	for _, want := range []string{
		"## Conversation History",
		"### 1. 🔧 System Context",
		"### 2. 👤 User Question",
		"### 3. 🤖 Assistant Response",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
}
