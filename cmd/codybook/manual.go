package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/codybook/codybook/internal/session"
	"github.com/codybook/codybook/internal/ui"
)

const defaultContextFile = "sample-code.md"

var manualContextFile string

var manualCmd = &cobra.Command{
	Use:   "manual [model-id]",
	Short: "Manually provide code context to the model",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		modelID := app.resolveModel(args)

		ui.Banner("🔧 Manual Context Passing", "Provide your own code context for analysis")
		fmt.Println("   📝 Code review and refactoring suggestions")
		fmt.Println("   🔍 Security vulnerability analysis")
		fmt.Println("   ⚡ Performance optimization recommendations")
		fmt.Println("   🐛 Bug identification and fixes")

		choice, _ := app.readLine("\nChoose mode:\n1. 🔧 Run refactoring examples\n2. 💬 Interactive context mode\n3. 📝 Create custom context\nEnter choice (1, 2, or 3): ")
		switch choice {
		case "2":
			app.manualInteractive(cmd.Context(), modelID)
		case "3":
			app.manualCustom(cmd.Context(), modelID)
		default:
			if choice != "1" {
				fmt.Println("Invalid choice. Running refactoring examples...")
			}
			app.manualRefactoring(cmd.Context(), modelID)
		}
		return nil
	},
}

// loadContext reads one or more files into a single context blob. Patterns
// may use ** globs; matches are concatenated with file-path banners.
func loadContext(pattern string) (string, error) {
	base, glob := doublestar.SplitPattern(filepath.ToSlash(pattern))
	matches, err := doublestar.Glob(os.DirFS(base), glob)
	if err != nil || len(matches) == 0 {
		// Plain path, no glob expansion
		data, readErr := os.ReadFile(pattern)
		if readErr != nil {
			if err != nil {
				return "", fmt.Errorf("invalid pattern %q: %w", pattern, err)
			}
			return "", readErr
		}
		return string(data), nil
	}

	var sb strings.Builder
	for _, match := range matches {
		path := filepath.Join(base, filepath.FromSlash(match))
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "// File: %s\n", path)
		sb.Write(data)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no readable files match %q", pattern)
	}
	return sb.String(), nil
}

// sendWithContext wraps the user message with the supplied context. The
// gateway does not accept a system role for this flow, so the context is
// folded into the user message.
func (a *app) sendWithContext(ctx context.Context, modelID, userMessage, contextContent, contextDescription string) (string, *session.APICall) {
	content := fmt.Sprintf(
		"You are a senior software engineer helping with code review and refactoring. You have been provided with %s to analyze and improve.\n\nHere is the context you should analyze:\n\n```\n%s\n```\n\n%s",
		contextDescription, contextContent, userMessage,
	)
	messages := []session.Message{{Role: session.RoleUser, Content: content}}

	fmt.Printf("\n🤖 Sending request to %s\n", modelID)
	fmt.Printf("📄 Context: %s (%d characters)\n", contextDescription, len(contextContent))

	result, call, err := a.client.ChatCompletion(ctx, chatRequest(modelID, messages, 0.7, 4000))
	if call != nil {
		call.ContextSize = len(contextContent)
		call.ContextDescription = contextDescription
	}
	if err != nil {
		ui.Errorf("%v", err)
		return "", call
	}

	fmt.Printf("\n🤖 Assistant:\n%s\n", result.Content)
	if result.Usage != nil {
		fmt.Println("\n📊 Usage:")
		fmt.Printf("   Prompt tokens: %d\n", result.Usage.PromptTokens)
		fmt.Printf("   Completion tokens: %d\n", result.Usage.CompletionTokens)
		fmt.Printf("   Total tokens: %d\n", result.Usage.TotalTokens)
	}
	return result.Content, call
}

var refactoringTasks = []struct {
	name   string
	prompt string
}{
	{"Security Review", "Please review this code for security vulnerabilities and suggest improvements. Focus on authentication, SQL injection, and input validation issues."},
	{"Code Quality Improvement", "Analyze this code for best practices violations and suggest refactoring improvements. Focus on error handling, resource management, and code organization."},
	{"Performance Optimization", "Review this code for performance issues and suggest optimizations. Look for inefficient algorithms, unnecessary loops, and resource usage."},
	{"Specific Function Refactor", "Please refactor the JavaScript `processUserData` function to be more readable, efficient, and follow modern JavaScript best practices. Provide the improved code."},
	{"Database Connection Fix", "Fix the Go database connection function to properly handle errors, manage resources, and follow Go best practices. Show the corrected code."},
}

func (a *app) manualRefactoring(ctx context.Context, modelID string) {
	contextFile := manualContextFile
	if contextFile == "" {
		contextFile = defaultContextFile
	}
	contextContent, err := loadContext(contextFile)
	if err != nil {
		ui.Errorf("Failed to load context from %s: %v", contextFile, err)
		return
	}
	ui.Successf("Loaded %d characters from %s", len(contextContent), contextFile)

	start := time.Now()
	var entries []session.TaskOrInteraction
	var calls []*session.APICall
	completed := 0

	fmt.Printf("\n🔧 Running %d refactoring examples:\n", len(refactoringTasks))
	for i, task := range refactoringTasks {
		fmt.Printf("\n📝 TASK %d/%d: %s\n", i+1, len(refactoringTasks), task.name)

		description := fmt.Sprintf("code examples for %s", strings.ToLower(task.name))
		response, call := a.sendWithContext(ctx, modelID, task.prompt, contextContent, description)
		entries = append(entries, session.RefactoringTask{
			Number:    i + 1,
			Name:      task.name,
			Prompt:    task.prompt,
			Response:  response,
			Completed: response != "",
		})
		calls = append(calls, call)
		if response != "" {
			completed++
		}

		if i < len(refactoringTasks)-1 {
			if _, ok := a.readLine(fmt.Sprintf("\n⏸️  Press Enter to continue to task %d...", i+2)); !ok {
				break
			}
		}
	}

	meta := session.ManualMetadata{
		ModelID:        modelID,
		Mode:           session.ModeRefactoringExamples,
		Duration:       formatDuration(time.Since(start)),
		APICallsCount:  len(calls),
		TotalTasks:     len(entries),
		CompletedTasks: completed,
		ContextFile:    contextFile,
		ContextSize:    len(contextContent),
	}
	reportSaved(a.reporter.SaveManualContextSession(entries, calls, meta, "manual-context-session"))
}

func (a *app) manualInteractive(ctx context.Context, modelID string) {
	fmt.Println("\n💬 Interactive Context Mode")
	fmt.Printf("🤖 Model: %s\n", modelID)
	fmt.Println("📋 Commands: 'quit'/'exit' to end, 'load' to load a new file, 'show' to show current context")

	start := time.Now()
	var entries []session.TaskOrInteraction
	var calls []*session.APICall
	var switches []session.ContextSwitch

	currentContext := ""
	contextDescription := ""

	timestamp := func() string { return time.Now().Format("2006-01-02 15:04:05") }
	recordSwitch := func(action, path, description string) {
		switches = append(switches, session.ContextSwitch{
			Action:      action,
			FilePath:    path,
			ContextSize: len(currentContext),
			Description: description,
			Timestamp:   timestamp(),
		})
	}
	load := func(path string) {
		content, err := loadContext(path)
		if err != nil {
			ui.Errorf("Failed to load %s: %v", path, err)
			return
		}
		currentContext = content
		contextDescription = fmt.Sprintf("content from %s", path)
		recordSwitch("load", path, contextDescription)
		ui.Successf("Loaded %d characters from %s", len(content), path)
	}

	for {
		if currentContext == "" {
			fmt.Println("\n📄 No context loaded. Available options:")
			fmt.Println("   1. Type 'load' to load a file (glob patterns like src/**/*.go work)")
			fmt.Println("   2. Type 'paste' to paste context directly")
			fmt.Printf("   3. Type 'default' to use %s\n", defaultContextFile)

			input, ok := a.readLine("\n👤 What would you like to do? ")
			if !ok || isQuit(input) {
				break
			}
			switch strings.ToLower(input) {
			case "load":
				if path, ok := a.readLine("📁 Enter file path: "); ok && path != "" {
					load(path)
				}
			case "paste":
				fmt.Println("📋 Paste your content (Ctrl+D when finished):")
				if content := a.readBlock(); strings.TrimSpace(content) != "" {
					currentContext = content
					contextDescription = "pasted content"
					recordSwitch("paste", "", contextDescription)
					ui.Successf("Loaded %d characters from pasted content", len(content))
				}
			case "default":
				load(defaultContextFile)
			}
			continue
		}

		input, ok := a.readLine("\n👤 Ask something about the code (or 'load'/'show'/'quit'): ")
		if !ok || isQuit(input) {
			break
		}
		switch strings.ToLower(input) {
		case "":
			continue
		case "load":
			if path, ok := a.readLine("📁 Enter file path: "); ok && path != "" {
				load(path)
			}
			continue
		case "show":
			fmt.Printf("📄 Current context: %s (%d characters)\n", contextDescription, len(currentContext))
			preview := currentContext
			if len(preview) > 300 {
				preview = preview[:300] + "..."
			}
			fmt.Println(ui.DimStyle.Render(preview))
			continue
		}

		response, call := a.sendWithContext(ctx, modelID, input, currentContext, contextDescription)
		entries = append(entries, session.Interaction{
			Timestamp:          timestamp(),
			ContextDescription: contextDescription,
			ContextSize:        len(currentContext),
			Question:           input,
			Response:           response,
			Success:            response != "",
		})
		calls = append(calls, call)
	}
	fmt.Println("👋 Goodbye!")

	if len(entries) == 0 && len(switches) == 0 {
		return
	}
	meta := session.ManualMetadata{
		ModelID:              modelID,
		Mode:                 session.ModeInteractiveContext,
		Duration:             formatDuration(time.Since(start)),
		APICallsCount:        len(calls),
		TotalInteractions:    len(entries),
		TotalContextSwitches: len(switches),
		ContextSwitches:      switches,
	}
	reportSaved(a.reporter.SaveManualContextSession(entries, calls, meta, "manual-context-session"))
}

var customTemplates = map[string]struct {
	description string
	prompt      string
}{
	"1": {"code snippet for review", "Please review this code snippet and suggest improvements for readability, performance, and best practices:"},
	"2": {"bug report with code", "This code has a bug. Please identify the issue and provide a fix:"},
	"3": {"performance issue analysis", "This code is running slowly. Please analyze it for performance bottlenecks and suggest optimizations:"},
	"4": {"security audit", "Please perform a security audit on this code. Identify potential vulnerabilities and suggest fixes:"},
}

func (a *app) manualCustom(ctx context.Context, modelID string) {
	fmt.Println("\n📝 Custom Context Creator")
	fmt.Println("Create your own code context for AI analysis")
	fmt.Println("Choose context type:")
	fmt.Println("1. Code snippet")
	fmt.Println("2. Bug report with code")
	fmt.Println("3. Performance issue description")
	fmt.Println("4. Security audit request")

	choice, _ := a.readLine("Enter choice (1-4): ")
	template, ok := customTemplates[choice]
	if !ok {
		ui.Errorf("Invalid choice")
		return
	}

	fmt.Printf("\n📝 Enter your code for %s:\n", template.description)
	fmt.Println("(Press Ctrl+D when finished)")
	codeContent := a.readBlock()
	if strings.TrimSpace(codeContent) == "" {
		ui.Errorf("No code provided")
		return
	}
	ui.Successf("Loaded %d characters", len(codeContent))

	start := time.Now()
	response, call := a.sendWithContext(ctx, modelID, template.prompt, codeContent, template.description)

	entries := []session.TaskOrInteraction{session.CustomAnalysis{
		Name:        fmt.Sprintf("Custom: %s", template.description),
		CodeContent: codeContent,
		Prompt:      template.prompt,
		Response:    response,
		Completed:   response != "",
	}}
	calls := []*session.APICall{call}

	meta := session.ManualMetadata{
		ModelID:           modelID,
		Mode:              session.ModeCustomContext,
		Duration:          formatDuration(time.Since(start)),
		APICallsCount:     len(calls),
		CustomType:        template.description,
		CustomContextSize: len(codeContent),
	}
	reportSaved(a.reporter.SaveManualContextSession(entries, calls, meta, "manual-context-session"))
}

func init() {
	manualCmd.Flags().StringVar(&manualContextFile, "context-file", "", "context file or glob pattern for refactoring mode")
	rootCmd.AddCommand(manualCmd)
}
