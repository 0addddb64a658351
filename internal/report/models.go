package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/codybook/codybook/internal/session"
)

// SaveModelsCSV writes the model listing as a flat CSV export.
func (r *Reporter) SaveModelsCSV(models []session.ModelInfo, scriptName string) (string, error) {
	if scriptName == "" {
		scriptName = "models"
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write([]string{"model_id", "owner", "created", "object_type"}); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, m := range models {
		object := m.Object
		if object == "" {
			object = "model"
		}
		record := []string{orNA(m.ID), orNA(m.OwnedBy), strconv.FormatInt(m.Created, 10), object}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV: %w", err)
	}

	filename := r.sink.Filename(scriptName, nil, "csv")
	return r.save(filename, sb.String())
}

// SaveJSON writes any JSON-serializable data as a flat JSON export.
func (r *Reporter) SaveJSON(data any, scriptName string, pretty bool) (string, error) {
	if scriptName == "" {
		scriptName = "data"
	}

	var content string
	if pretty {
		content = PrettyJSON(data) + "\n"
	} else {
		raw, err := json.Marshal(data)
		if err != nil {
			return "", fmt.Errorf("failed to marshal JSON export: %w", err)
		}
		content = string(raw) + "\n"
	}

	filename := r.sink.Filename(scriptName, nil, "json")
	return r.save(filename, content)
}

// SaveModelsMarkdown writes the model listing as a Markdown table with
// usage hints and the model-ID format notes.
func (r *Reporter) SaveModelsMarkdown(models []session.ModelInfo, scriptName string) (string, error) {
	if scriptName == "" {
		scriptName = "models"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Available Models: %s\n\n", scriptName)
	fmt.Fprintf(&sb, "**Generated:** %s\n\n", r.generatedAt())
	fmt.Fprintf(&sb, "**Total Models Found:** %d\n\n", len(models))
	sb.WriteString("---\n\n")

	sb.WriteString("## Available Models\n\n")
	sb.WriteString("| Model ID | Owner | Created | Object Type |\n")
	sb.WriteString("|----------|-------|---------|-------------|\n")
	for _, m := range models {
		object := m.Object
		if object == "" {
			object = "model"
		}
		fmt.Fprintf(&sb, "| %s | %s | %d | %s |\n", orNA(m.ID), orNA(m.OwnedBy), m.Created, object)
	}

	sb.WriteString("\n## Usage Examples\n\n")
	sb.WriteString("Copy any model ID from above to use in other commands:\n\n")
	sb.WriteString("```bash\n")
	sb.WriteString("# Get model details\n")
	sb.WriteString("codybook model MODEL_ID\n\n")
	sb.WriteString("# Start chat with specific model\n")
	sb.WriteString("codybook chat MODEL_ID\n\n")
	sb.WriteString("# Use with tools\n")
	sb.WriteString("codybook tools MODEL_ID\n\n")
	sb.WriteString("# Use with manual context\n")
	sb.WriteString("codybook manual MODEL_ID\n")
	sb.WriteString("```\n")

	sb.WriteString("\n## Model ID Format\n\n")
	sb.WriteString("Model IDs follow the pattern: `${ProviderID}::${APIVersionID}::${ModelID}`\n\n")
	sb.WriteString("Examples:\n")
	sb.WriteString("- `anthropic::2024-10-22::claude-sonnet-4-latest`\n")
	sb.WriteString("- `openai::2024-02-01::gpt-4o`\n")
	sb.WriteString("- `mistral::v1::mixtral-8x7b-instruct`\n")

	filename := r.sink.Filename(scriptName, nil, "md")
	return r.save(filename, sb.String())
}

// SaveModelInstanceMarkdown writes the detail view of a single model,
// including the raw API payload for reference.
func (r *Reporter) SaveModelInstanceMarkdown(model session.ModelInfo, raw any, scriptName string) (string, error) {
	if scriptName == "" {
		scriptName = "model-instance"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Model Instance Details: %s\n\n", orNA(model.ID))
	fmt.Fprintf(&sb, "**Generated:** %s\n\n", r.generatedAt())
	fmt.Fprintf(&sb, "**Script:** %s\n\n", scriptName)
	sb.WriteString("---\n\n")

	sb.WriteString("## Model Information\n\n")
	fmt.Fprintf(&sb, "- **Model ID:** `%s`\n", orNA(model.ID))
	fmt.Fprintf(&sb, "- **Object Type:** `%s`\n", orNA(model.Object))
	fmt.Fprintf(&sb, "- **Owner:** `%s`\n", orNA(model.OwnedBy))
	created := notAvailable
	if model.Created != 0 {
		created = strconv.FormatInt(model.Created, 10)
	}
	fmt.Fprintf(&sb, "- **Created:** `%s`\n\n", created)

	sb.WriteString("## Usage Examples\n\n")
	sb.WriteString("Use this model ID in other commands:\n\n")
	sb.WriteString("```bash\n")
	sb.WriteString("# Start interactive chat\n")
	fmt.Fprintf(&sb, "codybook chat %s\n\n", orNA(model.ID))
	sb.WriteString("# Use with function calling\n")
	fmt.Fprintf(&sb, "codybook tools %s\n\n", orNA(model.ID))
	sb.WriteString("# Use with manual context\n")
	fmt.Fprintf(&sb, "codybook manual %s\n", orNA(model.ID))
	sb.WriteString("```\n\n")

	if parts := strings.Split(model.ID, "::"); len(parts) == 3 {
		sb.WriteString("## Model ID Breakdown\n\n")
		fmt.Fprintf(&sb, "- **Provider:** `%s`\n", parts[0])
		fmt.Fprintf(&sb, "- **API Version:** `%s`\n", parts[1])
		fmt.Fprintf(&sb, "- **Model Name:** `%s`\n\n", parts[2])
	}

	sb.WriteString("## Raw API Response\n\n")
	sb.WriteString(FencedJSON(raw))

	filename := r.sink.Filename(scriptName, []string{modelQualifier(model.ID)}, "md")
	return r.save(filename, sb.String())
}
