package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/codybook/codybook/internal/gateway"
	"github.com/codybook/codybook/internal/session"
	"github.com/codybook/codybook/internal/ui"
)

func chatRequest(modelID string, messages []session.Message, temperature float64, maxTokens int) gateway.ChatRequest {
	return gateway.ChatRequest{
		Model:       modelID,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
}

var chatCmd = &cobra.Command{
	Use:   "chat [model-id]",
	Short: "Interactive chat with conversation memory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		modelID := app.resolveModel(args)

		ui.Banner("🚀 Interactive Chat", fmt.Sprintf("Model: %s", modelID))

		// Quick test message before the loop starts
		ui.Infof("🧪 Testing with a quick message:")
		app.sendChat(cmd.Context(), modelID, []session.Message{
			{Role: session.RoleUser, Content: "Say hello and introduce yourself briefly!"},
		}, 0.7, 100)
		fmt.Println(strings.Repeat("=", 70))

		fmt.Println("Type 'quit', 'exit', or 'bye' to end the conversation")
		fmt.Println("Type 'temp' to change temperature, 'tokens' to change max tokens, or 'clear' to clear conversation history")

		temperature := 0.7
		maxTokens := 4000
		start := time.Now()

		var conversation []session.Message
		var calls []*session.APICall

		for {
			input, ok := app.readLine("\n👤 You: ")
			if !ok || isQuit(input) {
				fmt.Println("👋 Goodbye!")
				break
			}

			switch strings.ToLower(input) {
			case "":
				continue
			case "clear":
				conversation = nil
				calls = nil
				ui.Successf("Conversation history cleared")
				continue
			case "temp":
				if v, ok := app.readFloat("Enter new temperature (0.0-1.0): ", 0.0, 1.0); ok {
					temperature = v
					ui.Successf("Temperature set to %v", temperature)
				} else {
					ui.Errorf("Invalid temperature value")
				}
				continue
			case "tokens":
				if v, ok := app.readInt("Enter max tokens (1-4000): ", 1, 4000); ok {
					maxTokens = v
					ui.Successf("Max tokens set to %d", maxTokens)
				} else {
					ui.Errorf("Max tokens must be between 1 and 4000")
				}
				continue
			}

			conversation = append(conversation, session.Message{Role: session.RoleUser, Content: input})

			reply, call := app.sendChat(cmd.Context(), modelID, conversation, temperature, maxTokens)
			if call != nil {
				conversation[len(conversation)-1].CallID = call.ID
				calls = append(calls, call)
			}
			if reply != "" {
				conversation = append(conversation, session.Message{Role: session.RoleAssistant, Content: reply})
			}
		}

		if len(conversation) == 0 {
			return nil
		}

		meta := session.ChatMetadata{
			ModelID:       modelID,
			Temperature:   temperature,
			MaxTokens:     maxTokens,
			Duration:      formatDuration(time.Since(start)),
			APICallsCount: len(calls),
		}
		reportSaved(app.reporter.SaveChatSession(conversation, calls, meta, "chat-session"))
		return nil
	},
}

// sendChat runs one completion, prints the outcome and returns the reply
// text with the captured call record.
func (a *app) sendChat(ctx context.Context, modelID string, messages []session.Message, temperature float64, maxTokens int) (string, *session.APICall) {
	fmt.Printf("🤖 Sending message to %s...\n", modelID)
	fmt.Printf("⚙️  Temperature: %v, Max Tokens: %d\n", temperature, maxTokens)

	result, call, err := a.client.ChatCompletion(ctx, chatRequest(modelID, messages, temperature, maxTokens))
	if err != nil {
		ui.Errorf("%v", err)
		return "", call
	}

	fmt.Printf("\n🤖 Assistant: %s\n", result.Content)
	if result.Usage != nil {
		fmt.Println("\n📊 Usage:")
		fmt.Printf("   Prompt tokens: %d\n", result.Usage.PromptTokens)
		fmt.Printf("   Completion tokens: %d\n", result.Usage.CompletionTokens)
		fmt.Printf("   Total tokens: %d\n", result.Usage.TotalTokens)
	}
	return result.Content, call
}

func (a *app) readFloat(prompt string, min, max float64) (float64, bool) {
	input, ok := a.readLine(prompt)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(input, 64)
	if err != nil || v < min || v > max {
		return 0, false
	}
	return v, true
}

func (a *app) readInt(prompt string, min, max int) (int, bool) {
	input, ok := a.readLine(prompt)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(input)
	if err != nil || v < min || v > max {
		return 0, false
	}
	return v, true
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
