package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/codybook/codybook/internal/session"
	"github.com/codybook/codybook/internal/ui"
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Search code context using natural language queries",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}

		ui.Banner("🔍 Code Context Search", "Find relevant code using natural language queries")

		choice, _ := app.readLine("\nChoose mode:\n1. Run examples\n2. Interactive search\n3. Conversational search\nEnter choice (1, 2, or 3): ")
		switch choice {
		case "2":
			app.contextInteractive(cmd.Context())
		case "3":
			app.contextConversational(cmd.Context())
		default:
			if choice != "1" {
				fmt.Println("Invalid choice. Running examples...")
			}
			app.contextExamples(cmd.Context())
		}
		return nil
	},
}

// defaultRepos converts the configured repository names.
func (a *app) defaultRepos() []session.Repo {
	repos := make([]session.Repo, 0, len(a.cfg.Search.Repos))
	for _, name := range a.cfg.Search.Repos {
		repos = append(repos, session.Repo{Name: name})
	}
	return repos
}

// runSearch performs one search, prints the results and returns the record.
func (a *app) runSearch(ctx context.Context, query string, params session.SearchParams) session.SearchRecord {
	repos := a.defaultRepos()
	fmt.Printf("\n🔍 Searching: %q\n", query)

	chunks, call, err := a.client.SearchContext(ctx, query, repos, params)
	record := session.SearchRecord{Query: query, Results: chunks, Call: call, Params: params}
	if err != nil {
		ui.Errorf("%v", err)
		return record
	}

	ui.Successf("Found %d results", len(chunks))
	for i, chunk := range chunks {
		fmt.Printf("\n📄 Result %d: %s/%s (lines %d-%d)\n", i+1, chunk.Repository, chunk.Path, chunk.StartLine, chunk.EndLine)
		preview := chunk.Content
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		fmt.Println(ui.DimStyle.Render(preview))
	}
	return record
}

func (a *app) contextExamples(ctx context.Context) {
	examples := []struct {
		query  string
		params session.SearchParams
	}{
		{"how to initialize a database connection?", session.SearchParams{CodeResults: 5, TextResults: 2, FilePatterns: []string{`\.go$`, `\.ts$`, `\.py$`}, Version: "1.0"}},
		{"authentication middleware implementation", session.SearchParams{CodeResults: 5, TextResults: 2, FilePatterns: []string{`\.go$`, `\.ts$`}, Version: "1.0"}},
		{"error handling patterns", session.SearchParams{CodeResults: 10, TextResults: 3, Version: "1.0"}},
		{"unit test examples", session.SearchParams{CodeResults: 5, TextResults: 2, FilePatterns: []string{`.*test.*`, `.*spec.*`}, Version: "1.0"}},
	}

	start := time.Now()
	fmt.Println("🧪 Running context search examples:")
	fmt.Println(strings.Repeat("=", 70))

	var searches []session.SearchRecord
	for i, example := range examples {
		fmt.Printf("\n📝 Example %d/%d\n", i+1, len(examples))
		searches = append(searches, a.runSearch(ctx, example.query, example.params))
		fmt.Println(strings.Repeat("=", 70))
	}

	a.saveSearchSession(searches, "examples", start, nil)
}

func (a *app) contextInteractive(ctx context.Context) {
	fmt.Println("🚀 Interactive Context Search")
	fmt.Println("Type 'quit', 'exit', 'bye' to end, 'history' to see search history, or 'clear' to clear history")
	fmt.Println(strings.Repeat("-", 50))
	fmt.Println("📚 Default repositories:")
	for _, repo := range a.defaultRepos() {
		fmt.Printf("   - %s\n", repo.Name)
	}

	start := time.Now()
	var searches []session.SearchRecord

	for {
		input, ok := a.readLine("\n🔍 Enter your search query: ")
		if !ok || isQuit(input) {
			fmt.Println("👋 Goodbye!")
			break
		}
		switch strings.ToLower(input) {
		case "":
			fmt.Println("Please enter a search query")
			continue
		case "clear":
			searches = nil
			ui.Successf("Search history cleared")
			continue
		case "history":
			if len(searches) == 0 {
				fmt.Println("📜 No search history")
				continue
			}
			fmt.Println("📜 Search History:")
			for i, s := range searches {
				fmt.Printf("   %d. %s (found %d results)\n", i+1, s.Query, len(s.Results))
			}
			continue
		}

		params := session.SearchParams{
			CodeResults: a.cfg.Search.CodeResults,
			TextResults: a.cfg.Search.TextResults,
			Version:     "1.0",
		}
		if patterns, ok := a.readLine("📁 File patterns (optional, comma-separated): "); ok && patterns != "" {
			for _, p := range strings.Split(patterns, ",") {
				params.FilePatterns = append(params.FilePatterns, strings.TrimSpace(p))
			}
		}
		if v, ok := a.readInt(fmt.Sprintf("📊 Number of code results (default %d): ", params.CodeResults), 1, 100); ok {
			params.CodeResults = v
		}
		if v, ok := a.readInt(fmt.Sprintf("📊 Number of text results (default %d): ", params.TextResults), 1, 100); ok {
			params.TextResults = v
		}

		searches = append(searches, a.runSearch(ctx, input, params))
	}

	a.saveSearchSession(searches, "interactive", start, nil)
}

func (a *app) contextConversational(ctx context.Context) {
	fmt.Println("🚀 Conversational Context Search")
	fmt.Println("Search for code and ask questions about the results!")
	fmt.Println("Type 'quit', 'exit', 'bye' to end, 'search' to perform a new search, or 'clear' to clear context")
	fmt.Println(strings.Repeat("-", 70))

	start := time.Now()
	modelID := a.cfg.DefaultModel
	var searches []session.SearchRecord
	var conversation []session.Message
	haveContext := false

	for {
		if !haveContext {
			fmt.Println("\n🔍 First, let's search for some code context...")
			query, ok := a.readLine("Enter your search query: ")
			if !ok || isQuit(query) {
				fmt.Println("👋 Goodbye!")
				break
			}
			if query == "" {
				fmt.Println("Please enter a search query")
				continue
			}

			params := session.SearchParams{CodeResults: 5, TextResults: 3, Version: "1.0"}
			record := a.runSearch(ctx, query, params)
			searches = append(searches, record)
			if len(record.Results) == 0 {
				fmt.Println("No results found. Try a different search query.")
				continue
			}

			var summary strings.Builder
			fmt.Fprintf(&summary, "Search results for '%s':\n", query)
			for i, chunk := range record.Results {
				if i >= 3 {
					break
				}
				content := chunk.Content
				if len(content) > 200 {
					content = content[:200]
				}
				fmt.Fprintf(&summary, "%d. %s/%s: %s...\n", i+1, chunk.Repository, chunk.Path, content)
			}
			conversation = append(conversation, session.Message{
				Role:    session.RoleSystem,
				Content: fmt.Sprintf("You are helping analyze code search results. Here are the search results:\n%s", summary.String()),
			})
			haveContext = true
			fmt.Printf("\n💬 Now you can ask questions about these %d search results!\n", len(record.Results))
		}

		input, ok := a.readLine("\n👤 Ask about the code (or type 'search' for new search): ")
		if !ok || isQuit(input) {
			fmt.Println("👋 Goodbye!")
			break
		}
		switch strings.ToLower(input) {
		case "":
			fmt.Println("Please enter a question or 'search' for new search")
			continue
		case "search":
			haveContext = false
			conversation = nil
			ui.Successf("Starting new search...")
			continue
		case "clear":
			kept := conversation[:0]
			for _, msg := range conversation {
				if msg.Role == session.RoleSystem {
					kept = append(kept, msg)
				}
			}
			conversation = kept
			ui.Successf("Conversation cleared (keeping search context)")
			continue
		}

		conversation = append(conversation, session.Message{Role: session.RoleUser, Content: input})
		reply, call := a.sendChat(ctx, modelID, conversation, 0.7, 4000)
		if call != nil {
			conversation[len(conversation)-1].CallID = call.ID
		}
		if reply != "" {
			conversation = append(conversation, session.Message{Role: session.RoleAssistant, Content: reply})
		}
	}

	a.saveSearchSession(searches, "conversational", start, conversation)
}

func (a *app) saveSearchSession(searches []session.SearchRecord, mode string, start time.Time, conversation []session.Message) {
	if len(searches) == 0 {
		return
	}
	meta := session.SearchMetadata{
		Mode:                 mode,
		Duration:             formatDuration(time.Since(start)),
		DefaultRepos:         a.defaultRepos(),
		Endpoint:             a.client.ContextEndpoint(),
		IncludesConversation: len(conversation) > 0,
		ConversationHistory:  conversation,
	}
	reportSaved(a.reporter.SaveContextSearchSession(searches, meta, "context-search-session"))
}

func init() {
	rootCmd.AddCommand(contextCmd)
}
