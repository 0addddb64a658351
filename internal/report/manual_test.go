package report

import (
	"strings"
	"testing"

	"github.com/codybook/codybook/internal/session"
)

func manualCall(latency int64, contextSize int, description string) *session.APICall {
	return &session.APICall{
		ID:                 "call_0001",
		URL:                "https://sourcegraph.example.com/.api/llm/chat/completions",
		StatusCode:         200,
		LatencyMS:          latency,
		ContextSize:        contextSize,
		ContextDescription: description,
		Headers: []session.Header{
			{Name: "Authorization", Value: "token sgp_secret"},
		},
	}
}

func TestSaveManualRefactoringSession(t *testing.T) {
	r := testReporter(t)

	entries := []session.TaskOrInteraction{
		session.RefactoringTask{Number: 1, Name: "Security Review", Prompt: "Review for vulnerabilities.", Response: "Found two issues.", Completed: true},
		session.RefactoringTask{Number: 2, Name: "Performance Optimization", Prompt: "Find bottlenecks.", Completed: false},
	}
	calls := []*session.APICall{manualCall(120, 42, "code examples for security review"), nil}
	meta := session.ManualMetadata{
		ModelID:        "anthropic::2024-10-22::claude-sonnet-4-latest",
		Mode:           session.ModeRefactoringExamples,
		Duration:       "20.0 seconds",
		APICallsCount:  2,
		TotalTasks:     2,
		CompletedTasks: 1,
		ContextFile:    "sample-code.md",
		ContextSize:    42,
	}

	path, err := r.SaveManualContextSession(entries, calls, meta, "")
	if err != nil {
		t.Fatalf("SaveManualContextSession failed: %v", err)
	}
	doc := readReport(t, path)

	for _, want := range []string{
		"**Mode:** refactoring_examples",
		"- **Context File:** `sample-code.md`",
		"## Refactoring Tasks",
		"### 1. Security Review",
		"**Status:** ✅ Completed",
		"- **Context Size:** `42 characters`",
		"- **Context Description:** code examples for security review",
		"- `Authorization: [REDACTED]`",
		"### 2. Performance Optimization",
		"**Status:** ❌ Failed",
		"**AI Response:** No response received",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestSaveManualInteractiveSession(t *testing.T) {
	r := testReporter(t)

	entries := []session.TaskOrInteraction{
		session.Interaction{
			Timestamp:          "2025-03-14 09:25:00",
			ContextDescription: "content from main.go",
			ContextSize:        512,
			Question:           "Is this thread safe?",
			Response:           "No, the map needs a mutex.",
			Success:            true,
		},
	}
	calls := []*session.APICall{manualCall(95, 512, "content from main.go")}
	meta := session.ManualMetadata{
		ModelID:              "m",
		Mode:                 session.ModeInteractiveContext,
		TotalInteractions:    1,
		TotalContextSwitches: 2,
		ContextSwitches: []session.ContextSwitch{
			{Action: "load", FilePath: "main.go", ContextSize: 512, Description: "content from main.go", Timestamp: "2025-03-14 09:24:00"},
			{Action: "paste", ContextSize: 80, Description: "pasted content", Timestamp: "2025-03-14 09:26:00"},
		},
	}

	path, err := r.SaveManualContextSession(entries, calls, meta, "")
	if err != nil {
		t.Fatalf("SaveManualContextSession failed: %v", err)
	}
	doc := readReport(t, path)

	for _, want := range []string{
		"## Context Management",
		"### Context Switches",
		"#### 1. load - 2025-03-14 09:24:00",
		"- **File Path:** `main.go`",
		"#### 2. paste - 2025-03-14 09:26:00",
		"## Interactive Session",
		"### Interaction 1 - 2025-03-14 09:25:00",
		"**Context:** content from main.go (512 characters)",
		"**Status:** ✅ Success",
		"**👤 User Question:**",
		"**🤖 Assistant Response:**",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestSaveManualCustomNoResponse(t *testing.T) {
	r := testReporter(t)

	entries := []session.TaskOrInteraction{
		session.CustomAnalysis{
			Name:        "Custom: security audit",
			CodeContent: "eval(userInput)",
			Prompt:      "Please perform a security audit on this code.",
			Completed:   false,
		},
	}
	calls := []*session.APICall{manualCall(44, 15, "security audit")}
	meta := session.ManualMetadata{
		ModelID:           "m",
		Mode:              session.ModeCustomContext,
		CustomType:        "security audit",
		CustomContextSize: 15,
	}

	path, err := r.SaveManualContextSession(entries, calls, meta, "")
	if err != nil {
		t.Fatalf("SaveManualContextSession failed: %v", err)
	}
	doc := readReport(t, path)

	if !strings.Contains(doc, "**AI Analysis:** No response received") {
		t.Error("missing the literal no-response marker")
	}
	for _, want := range []string{
		"## Custom Context Analysis",
		"### Custom: security audit",
		"**User's Code:**",
		"eval(userInput)",
		"- **Custom Type:** `security audit`",
		"- **Context Size:** `15 characters`",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestSaveManualUnknownMode(t *testing.T) {
	r := testReporter(t)

	meta := session.ManualMetadata{ModelID: "m", Mode: "surprise_mode"}
	_, err := r.SaveManualContextSession(nil, nil, meta, "")
	if err == nil {
		t.Fatal("unknown mode must fail loudly")
	}
	if !strings.Contains(err.Error(), "unsupported manual-context mode") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSaveManualModeEntryMismatch(t *testing.T) {
	r := testReporter(t)

	entries := []session.TaskOrInteraction{
		session.Interaction{Question: "misplaced"},
	}
	meta := session.ManualMetadata{ModelID: "m", Mode: session.ModeRefactoringExamples}

	_, err := r.SaveManualContextSession(entries, nil, meta, "")
	if err == nil {
		t.Fatal("entry variant not matching the mode must fail")
	}
	if !strings.Contains(err.Error(), "refactoring_examples session contains") {
		t.Errorf("unexpected error: %v", err)
	}
}
