package report

import (
	"fmt"
	"strings"

	"github.com/codybook/codybook/internal/session"
)

// SaveManualContextSession renders a manual-context session. The document
// branches strictly on the session mode; an unrecognized mode or an entry
// that does not match the mode's variant is an explicit error.
func (r *Reporter) SaveManualContextSession(entries []session.TaskOrInteraction, calls []*session.APICall, meta session.ManualMetadata, scriptName string) (string, error) {
	if scriptName == "" {
		scriptName = "manual-context-session"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Manual Context Session: %s\n\n", orNA(meta.ModelID))
	fmt.Fprintf(&sb, "**Generated:** %s\n\n", r.generatedAt())
	fmt.Fprintf(&sb, "**Script:** %s\n\n", scriptName)
	fmt.Fprintf(&sb, "**Mode:** %s\n\n", orNA(string(meta.Mode)))
	fmt.Fprintf(&sb, "**Session Duration:** %s\n\n", orNA(meta.Duration))
	sb.WriteString("---\n\n")

	sb.WriteString("## Session Settings\n\n")
	fmt.Fprintf(&sb, "- **Model ID:** `%s`\n", orNA(meta.ModelID))
	fmt.Fprintf(&sb, "- **Mode:** `%s`\n", orNA(string(meta.Mode)))
	fmt.Fprintf(&sb, "- **Duration:** `%s`\n", orNA(meta.Duration))
	fmt.Fprintf(&sb, "- **Total API Calls:** `%d`\n", meta.APICallsCount)

	switch meta.Mode {
	case session.ModeRefactoringExamples:
		fmt.Fprintf(&sb, "- **Total Tasks:** `%d`\n", meta.TotalTasks)
		fmt.Fprintf(&sb, "- **Completed Tasks:** `%d`\n", meta.CompletedTasks)
		fmt.Fprintf(&sb, "- **Context File:** `%s`\n", orNA(meta.ContextFile))
		fmt.Fprintf(&sb, "- **Context Size:** `%d characters`\n", meta.ContextSize)
	case session.ModeInteractiveContext:
		fmt.Fprintf(&sb, "- **Total Interactions:** `%d`\n", meta.TotalInteractions)
		fmt.Fprintf(&sb, "- **Context Switches:** `%d`\n", meta.TotalContextSwitches)
	case session.ModeCustomContext:
		fmt.Fprintf(&sb, "- **Custom Type:** `%s`\n", orNA(meta.CustomType))
		fmt.Fprintf(&sb, "- **Context Size:** `%d characters`\n", meta.CustomContextSize)
	default:
		return "", fmt.Errorf("unsupported manual-context mode %q", meta.Mode)
	}
	sb.WriteString("\n")

	if meta.Mode == session.ModeInteractiveContext {
		writeContextManagement(&sb, meta.ContextSwitches)
	}

	var err error
	switch meta.Mode {
	case session.ModeRefactoringExamples:
		sb.WriteString("## Refactoring Tasks\n\n")
		err = writeRefactoringTasks(&sb, entries, calls)
	case session.ModeInteractiveContext:
		sb.WriteString("## Interactive Session\n\n")
		err = writeInteractiveSession(&sb, entries, calls)
	case session.ModeCustomContext:
		sb.WriteString("## Custom Context Analysis\n\n")
		err = writeCustomAnalysis(&sb, entries, calls)
	}
	if err != nil {
		return "", err
	}

	sb.WriteString("## Continue Working\n\n")
	sb.WriteString("To continue with this model:\n\n")
	sb.WriteString("```bash\n")
	fmt.Fprintf(&sb, "codybook manual %s\n", orNA(meta.ModelID))
	sb.WriteString("```\n")

	filename := r.sink.Filename(scriptName, []string{string(meta.Mode), modelQualifier(meta.ModelID)}, "md")
	return r.save(filename, sb.String())
}

func writeContextManagement(sb *strings.Builder, switches []session.ContextSwitch) {
	sb.WriteString("## Context Management\n\n")
	if len(switches) == 0 {
		sb.WriteString("No context switches recorded.\n\n")
		return
	}
	sb.WriteString("### Context Switches\n\n")
	for i, sw := range switches {
		action := sw.Action
		if action == "" {
			action = "Unknown Action"
		}
		fmt.Fprintf(sb, "#### %d. %s - %s\n\n", i+1, action, orNA(sw.Timestamp))
		fmt.Fprintf(sb, "- **Action:** `%s`\n", orNA(sw.Action))
		if sw.FilePath != "" {
			fmt.Fprintf(sb, "- **File Path:** `%s`\n", sw.FilePath)
		}
		fmt.Fprintf(sb, "- **Context Size:** `%d characters`\n", sw.ContextSize)
		fmt.Fprintf(sb, "- **Description:** %s\n\n", orNA(sw.Description))
	}
}

func writeRefactoringTasks(sb *strings.Builder, entries []session.TaskOrInteraction, calls []*session.APICall) error {
	for i, entry := range entries {
		task, ok := entry.(session.RefactoringTask)
		if !ok {
			return fmt.Errorf("refactoring_examples session contains %T at entry %d", entry, i+1)
		}

		number := task.Number
		if number == 0 {
			number = i + 1
		}
		name := task.Name
		if name == "" {
			name = "Unknown Task"
		}
		fmt.Fprintf(sb, "### %d. %s\n\n", number, name)
		fmt.Fprintf(sb, "**Status:** %s\n\n", completionStatus(task.Completed))
		sb.WriteString("**Prompt:**\n")
		fmt.Fprintf(sb, "%s\n\n", orNA(task.Prompt))

		if i < len(calls) && calls[i] != nil {
			writeManualCallDetails(sb, calls[i], number)
		}

		if task.Response != "" {
			sb.WriteString("**AI Response:**\n\n")
			fmt.Fprintf(sb, "%s\n\n", task.Response)
		} else {
			sb.WriteString("**AI Response:** No response received\n\n")
		}
		sb.WriteString("---\n\n")
	}
	return nil
}

func writeInteractiveSession(sb *strings.Builder, entries []session.TaskOrInteraction, calls []*session.APICall) error {
	for i, entry := range entries {
		interaction, ok := entry.(session.Interaction)
		if !ok {
			return fmt.Errorf("interactive_context session contains %T at entry %d", entry, i+1)
		}

		fmt.Fprintf(sb, "### Interaction %d - %s\n\n", i+1, orNA(interaction.Timestamp))
		fmt.Fprintf(sb, "**Context:** %s (%d characters)\n\n", orNA(interaction.ContextDescription), interaction.ContextSize)
		fmt.Fprintf(sb, "**Status:** %s\n\n", successStatus(interaction.Success))
		sb.WriteString("**👤 User Question:**\n")
		fmt.Fprintf(sb, "%s\n\n", orNA(interaction.Question))

		if i < len(calls) && calls[i] != nil {
			writeManualCallDetails(sb, calls[i], i+1)
		}

		if interaction.Response != "" {
			sb.WriteString("**🤖 Assistant Response:**\n\n")
			fmt.Fprintf(sb, "%s\n\n", interaction.Response)
		} else {
			sb.WriteString("**🤖 Assistant Response:** No response received\n\n")
		}
		sb.WriteString("---\n\n")
	}
	return nil
}

// writeCustomAnalysis renders the single task of a custom-context session.
func writeCustomAnalysis(sb *strings.Builder, entries []session.TaskOrInteraction, calls []*session.APICall) error {
	if len(entries) == 0 {
		return nil
	}
	task, ok := entries[0].(session.CustomAnalysis)
	if !ok {
		return fmt.Errorf("custom_context session contains %T", entries[0])
	}

	name := task.Name
	if name == "" {
		name = "Custom Analysis"
	}
	fmt.Fprintf(sb, "### %s\n\n", name)
	fmt.Fprintf(sb, "**Status:** %s\n\n", completionStatus(task.Completed))

	if task.CodeContent != "" {
		sb.WriteString("**User's Code:**\n\n")
		sb.WriteString("```\n")
		sb.WriteString(task.CodeContent)
		sb.WriteString("\n```\n\n")
	}

	sb.WriteString("**Analysis Prompt:**\n")
	fmt.Fprintf(sb, "%s\n\n", orNA(task.Prompt))

	if len(calls) > 0 && calls[0] != nil {
		writeManualCallDetails(sb, calls[0], 1)
	}

	if task.Response != "" {
		sb.WriteString("**AI Analysis:**\n\n")
		fmt.Fprintf(sb, "%s\n\n", task.Response)
	} else {
		sb.WriteString("**AI Analysis:** No response received\n\n")
	}
	return nil
}

// writeManualCallDetails is the per-request detail block of manual-context
// sessions: it adds the context size and description to the usual fields
// and renders the error descriptor for failed calls.
func writeManualCallDetails(sb *strings.Builder, call *session.APICall, number int) {
	fmt.Fprintf(sb, "#### 🔄 API Request #%d\n\n", number)
	fmt.Fprintf(sb, "- **Endpoint:** `%s`\n", orNA(call.URL))
	sb.WriteString("- **Method:** `POST`\n")
	fmt.Fprintf(sb, "- **Status Code:** `%d`\n", call.StatusCode)
	fmt.Fprintf(sb, "- **Response Time:** `%d`ms\n", call.LatencyMS)
	fmt.Fprintf(sb, "- **Context Size:** `%d characters`\n", call.ContextSize)
	fmt.Fprintf(sb, "- **Context Description:** %s\n\n", orNA(call.ContextDescription))

	writeHeaders(sb, "Request Headers", call.Headers)

	if call.RequestPayload != nil {
		sb.WriteString("**Request Payload:**\n\n")
		sb.WriteString(FencedJSON(call.RequestPayload))
		sb.WriteString("\n")
	}

	writeUsage(sb, call.Usage)
	writeCallError(sb, call.Err)
}

func completionStatus(completed bool) string {
	if completed {
		return "✅ Completed"
	}
	return "❌ Failed"
}

func successStatus(success bool) string {
	if success {
		return "✅ Success"
	}
	return "❌ Failed"
}
