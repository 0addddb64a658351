package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/codybook/codybook/internal/gateway"
	"github.com/codybook/codybook/internal/session"
	"github.com/codybook/codybook/internal/tools"
	"github.com/codybook/codybook/internal/ui"
)

var toolExamples = []string{
	"What time is it?",
	"Calculate the square root of 144",
	"What's the weather like in San Francisco?",
	"What's 15 * 23?",
	"Can you tell me the weather in Tokyo and also calculate sin(pi/2)?",
}

var toolsCmd = &cobra.Command{
	Use:   "tools [model-id]",
	Short: "Tool calling with full API visibility",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		modelID := app.resolveModel(args)

		ui.Banner("🛠️  Tool Calling", "Complete API communication for every tool call")
		fmt.Println("🎯 Available Tools:")
		for _, t := range tools.Definitions() {
			fmt.Printf("   🔧 %s - %s\n", t.Name, t.Description)
		}

		choice, _ := app.readLine("\nChoose mode:\n1. 📚 Run examples with full API visibility\n2. 💬 Interactive mode\nEnter choice (1 or 2): ")
		switch choice {
		case "2":
			app.toolsInteractive(cmd.Context(), modelID)
		default:
			if choice != "1" {
				fmt.Println("Invalid choice. Starting with examples...")
			}
			app.toolsExamples(cmd.Context(), modelID)
		}
		return nil
	},
}

func (a *app) toolsExamples(ctx context.Context, modelID string) {
	fmt.Printf("\n🧪 Running %d tool calling examples:\n", len(toolExamples))
	fmt.Println(strings.Repeat("-", 70))

	for i, example := range toolExamples {
		fmt.Printf("\n📝 EXAMPLE %d/%d: %s\n", i+1, len(toolExamples), example)
		a.runToolConversation(ctx, modelID, example)
		if i < len(toolExamples)-1 {
			if _, ok := a.readLine(fmt.Sprintf("\n⏸️  Press Enter to continue to example %d...", i+2)); !ok {
				return
			}
		}
	}
}

func (a *app) toolsInteractive(ctx context.Context, modelID string) {
	fmt.Println("\n💬 Interactive Tool Calling Mode")
	fmt.Printf("🤖 Model: %s\n", modelID)
	fmt.Println("Type 'quit', 'exit', or 'bye' to end")

	for {
		input, ok := a.readLine("\n👤 You: ")
		if !ok || isQuit(input) {
			fmt.Println("👋 Goodbye!")
			return
		}
		if input == "" {
			continue
		}
		a.runToolConversation(ctx, modelID, input)
	}
}

// runToolConversation drives one tool-calling exchange: initial request,
// local tool execution, final response. Each conversation is saved as its
// own session report.
func (a *app) runToolConversation(ctx context.Context, modelID, userMessage string) {
	start := time.Now()
	defs := tools.Definitions()

	conversation := []session.Message{{Role: session.RoleUser, Content: userMessage}}
	var steps []session.Step
	var callCount, toolCallCount int

	send := func() (*gateway.ChatResult, *session.APICall, error) {
		return a.client.ChatCompletion(ctx, gateway.ChatRequest{
			Model:       modelID,
			Messages:    conversation,
			Temperature: 0.7,
			MaxTokens:   4000,
			Tools:       defs,
		})
	}

	fmt.Println("\n🔄 STEP 1: Sending initial request to AI")
	result, call, err := send()
	if err != nil {
		ui.Errorf("%v", err)
		return
	}
	callCount++
	steps = append(steps, session.InitialRequest{UserQuery: userMessage, Call: call})

	conversation = append(conversation, session.Message{
		Role:      session.RoleAssistant,
		Content:   result.Content,
		ToolCalls: result.ToolCalls,
	})

	if len(result.ToolCalls) > 0 {
		fmt.Printf("\n🔄 STEP 2: AI decided to call %d tool(s)\n", len(result.ToolCalls))

		records := make([]session.ToolCallRecord, 0, len(result.ToolCalls))
		for i, tc := range result.ToolCalls {
			callID := tc.ID
			if callID == "" {
				callID = fmt.Sprintf("call_%d", i+1)
			}

			args := map[string]any{}
			if err := json.Unmarshal([]byte(tc.Arguments), &args); err != nil && tc.Arguments != "" {
				args = map[string]any{"_raw": tc.Arguments}
			}

			fmt.Printf("\n   🔧 Tool Call #%d:\n", i+1)
			fmt.Printf("      Function: %s\n", tc.Name)
			fmt.Printf("      Call ID: %s\n", callID)

			toolResult := tools.Execute(tc.Name, args)
			fmt.Printf("      📤 Result: %s\n", toolResult)
			toolCallCount++

			records = append(records, session.ToolCallRecord{
				FunctionName: tc.Name,
				Arguments:    args,
				CallID:       callID,
				Result:       toolResult,
			})
			conversation = append(conversation, session.Message{
				Role:       session.RoleTool,
				Content:    toolResult,
				Name:       tc.Name,
				ToolCallID: callID,
			})
		}
		steps = append(steps, session.ToolExecution{ToolCalls: records})

		fmt.Println("\n🔄 STEP 3: Sending tool results back to AI for final response")
		final, finalCall, err := send()
		if err != nil {
			ui.Errorf("No final response received: %v", err)
		} else {
			callCount++
			steps = append(steps, session.FinalResponse{AIResponse: final.Content, Call: finalCall})
			conversation = append(conversation, session.Message{Role: session.RoleAssistant, Content: final.Content})
			if final.Content != "" {
				fmt.Println("\n🎯 FINAL AI RESPONSE:")
				fmt.Printf("🤖 Assistant: %s\n", final.Content)
			} else {
				fmt.Println("\n🎯 AI provided tool results but no additional text response")
			}
		}
	} else {
		fmt.Println("\n🔄 AI provided direct response (no tools needed)")
		if result.Content != "" {
			fmt.Println("\n🎯 AI RESPONSE:")
			fmt.Printf("🤖 Assistant: %s\n", result.Content)
		}
		steps = append(steps, session.FinalResponse{AIResponse: result.Content, Call: call})
	}

	if result.Usage != nil {
		fmt.Println("\n📊 API Usage Statistics:")
		fmt.Printf("   Prompt tokens: %d\n", result.Usage.PromptTokens)
		fmt.Printf("   Completion tokens: %d\n", result.Usage.CompletionTokens)
		fmt.Printf("   Total tokens: %d\n", result.Usage.TotalTokens)
	}

	meta := session.ToolMetadata{
		ModelID:              modelID,
		Temperature:          0.7,
		MaxTokens:            4000,
		Duration:             formatDuration(time.Since(start)),
		TotalAPICalls:        callCount,
		TotalToolCalls:       toolCallCount,
		UserQuery:            userMessage,
		AvailableTools:       defs,
		CompleteConversation: conversation,
	}
	reportSaved(a.reporter.SaveToolSession(steps, meta, "tool-calling-session"))
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}
