package report

import (
	"strings"
	"testing"

	"github.com/codybook/codybook/internal/session"
)

type bogusStep struct{ session.Step }

func toolSessionMeta() session.ToolMetadata {
	return session.ToolMetadata{
		ModelID:       "anthropic::2024-10-22::claude-sonnet-4-latest",
		Temperature:   0.7,
		MaxTokens:     4000,
		Duration:      "5.0 seconds",
		TotalAPICalls: 2,
		UserQuery:     "What's the weather in Tokyo?",
		AvailableTools: []session.Tool{
			{Name: "get_current_weather", Description: "Get the current weather for a specific location"},
		},
		CompleteConversation: []session.Message{
			{Role: session.RoleUser, Content: "What's the weather in Tokyo?"},
		},
	}
}

func TestSaveToolSessionDirectResponse(t *testing.T) {
	r := testReporter(t)

	call := chatCall("call_0001", 80)
	steps := []session.Step{
		session.InitialRequest{UserQuery: "What is 2+2?", Call: call},
		session.FinalResponse{AIResponse: "4", Call: call},
	}

	path, err := r.SaveToolSession(steps, toolSessionMeta(), "")
	if err != nil {
		t.Fatalf("SaveToolSession failed: %v", err)
	}
	doc := readReport(t, path)

	if got := strings.Count(doc, "### Step "); got != 2 {
		t.Errorf("direct response session should have exactly 2 step headings, got %d", got)
	}
	if strings.Contains(doc, "Tool Execution") {
		t.Error("direct response session must not render a Tool Execution step")
	}
	if !strings.Contains(doc, "### Step 1: 📤 Initial AI Request") {
		t.Error("missing initial request heading")
	}
	if !strings.Contains(doc, "### Step 2: 🎯 Final AI Response") {
		t.Error("missing final response heading")
	}
}

func TestSaveToolSessionFullFlow(t *testing.T) {
	r := testReporter(t)

	steps := []session.Step{
		session.InitialRequest{UserQuery: "weather in Tokyo?", Call: chatCall("call_0001", 100)},
		session.ToolExecution{ToolCalls: []session.ToolCallRecord{
			{
				FunctionName: "get_current_weather",
				Arguments:    map[string]any{"location": "Tokyo", "unit": "celsius"},
				CallID:       "toolu_01",
				Result:       `{"location":"Tokyo","temperature":22}`,
			},
			{
				FunctionName: "calculate_math",
				Arguments:    map[string]any{"expression": "sin(pi/2)"},
				CallID:       "toolu_02",
				Result:       "plain failure text",
			},
		}},
		session.FinalResponse{AIResponse: "It's 22°C in Tokyo.", Call: chatCall("call_0002", 90)},
	}

	path, err := r.SaveToolSession(steps, toolSessionMeta(), "")
	if err != nil {
		t.Fatalf("SaveToolSession failed: %v", err)
	}
	doc := readReport(t, path)

	for _, want := range []string{
		"## Available Tools",
		"- **get_current_weather:** Get the current weather for a specific location",
		"### Step 2: 🔧 Tool Execution",
		"#### Tool Call #1: get_current_weather",
		"- **Call ID:** `toolu_01`",
		"**Function Arguments:**",
		"\"location\": \"Tokyo\"",
		"**Function Result:**",
		"\"temperature\": 22",
		"#### Tool Call #2: calculate_math",
		"```\nplain failure text\n```",
		"## Complete Conversation Context",
		"#### 🤖 Final AI Response Content",
		"It's 22°C in Tokyo.",
		"codybook tools anthropic::2024-10-22::claude-sonnet-4-latest",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}

	// One separator per step
	if got := strings.Count(doc, "\n---\n"); got < 3 {
		t.Errorf("expected at least one separator per step, got %d", got)
	}
}

func TestSaveToolSessionUnknownStep(t *testing.T) {
	r := testReporter(t)

	steps := []session.Step{
		session.InitialRequest{UserQuery: "q", Call: nil},
		bogusStep{},
	}

	_, err := r.SaveToolSession(steps, toolSessionMeta(), "")
	if err == nil {
		t.Fatal("unknown step variant must fail loudly")
	}
	if !strings.Contains(err.Error(), "unsupported step type") {
		t.Errorf("unexpected error message: %v", err)
	}
	if !strings.Contains(err.Error(), "step 2") {
		t.Errorf("error should name the offending step position: %v", err)
	}
}
