package report

import (
	"strings"
	"testing"

	"github.com/codybook/codybook/internal/session"
)

var testModels = []session.ModelInfo{
	{ID: "anthropic::2024-10-22::claude-sonnet-4-latest", Object: "model", Created: 1729555200, OwnedBy: "anthropic"},
	{ID: "openai::2024-02-01::gpt-4o", Created: 1706745600, OwnedBy: "openai"},
	{OwnedBy: ""},
}

func TestSaveModelsCSV(t *testing.T) {
	r := testReporter(t)

	path, err := r.SaveModelsCSV(testModels, "models")
	if err != nil {
		t.Fatalf("SaveModelsCSV failed: %v", err)
	}
	doc := readReport(t, path)

	lines := strings.Split(strings.TrimSpace(doc), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 records, got %d lines", len(lines))
	}
	if lines[0] != "model_id,owner,created,object_type" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if lines[1] != "anthropic::2024-10-22::claude-sonnet-4-latest,anthropic,1729555200,model" {
		t.Errorf("unexpected first record: %q", lines[1])
	}
	// Missing fields fall back to N/A and the default object type
	if lines[3] != "N/A,N/A,0,model" {
		t.Errorf("unexpected placeholder record: %q", lines[3])
	}
}

func TestSaveModelsMarkdown(t *testing.T) {
	r := testReporter(t)

	path, err := r.SaveModelsMarkdown(testModels, "models")
	if err != nil {
		t.Fatalf("SaveModelsMarkdown failed: %v", err)
	}
	doc := readReport(t, path)

	for _, want := range []string{
		"**Total Models Found:** 3",
		"| Model ID | Owner | Created | Object Type |",
		"| anthropic::2024-10-22::claude-sonnet-4-latest | anthropic | 1729555200 | model |",
		"## Usage Examples",
		"codybook chat MODEL_ID",
		"## Model ID Format",
		"`${ProviderID}::${APIVersionID}::${ModelID}`",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestSaveModelInstanceMarkdown(t *testing.T) {
	r := testReporter(t)

	model := testModels[0]
	raw := map[string]any{"id": model.ID, "object": "model"}

	path, err := r.SaveModelInstanceMarkdown(model, raw, "model-instance")
	if err != nil {
		t.Fatalf("SaveModelInstanceMarkdown failed: %v", err)
	}
	doc := readReport(t, path)

	for _, want := range []string{
		"# Model Instance Details: anthropic::2024-10-22::claude-sonnet-4-latest",
		"## Model ID Breakdown",
		"- **Provider:** `anthropic`",
		"- **API Version:** `2024-10-22`",
		"- **Model Name:** `claude-sonnet-4-latest`",
		"## Raw API Response",
		"```json",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestSaveModelInstanceMarkdownNoBreakdown(t *testing.T) {
	r := testReporter(t)

	path, err := r.SaveModelInstanceMarkdown(session.ModelInfo{ID: "plain-model"}, nil, "")
	if err != nil {
		t.Fatalf("SaveModelInstanceMarkdown failed: %v", err)
	}
	doc := readReport(t, path)

	if strings.Contains(doc, "## Model ID Breakdown") {
		t.Error("breakdown section must be skipped for IDs without the :: pattern")
	}
}

func TestSaveJSON(t *testing.T) {
	r := testReporter(t)

	path, err := r.SaveJSON(map[string]any{"data": []any{1, 2}}, "models", true)
	if err != nil {
		t.Fatalf("SaveJSON failed: %v", err)
	}
	doc := readReport(t, path)

	if !strings.Contains(doc, "\"data\": [") {
		t.Errorf("expected pretty-printed JSON, got %q", doc)
	}
	if !strings.HasSuffix(path, ".json") {
		t.Errorf("expected .json extension, got %q", path)
	}
}
