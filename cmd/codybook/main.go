// Command codybook is a cookbook of LLM-gateway API examples: model
// listings, chat completions, tool calling, context search and manual
// context passing. Every session is captured and saved as a Markdown
// report under the output directory.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/codybook/codybook/internal/log"
)

var version = "0.1.0"

func init() {
	// Load .env file if it exists (silent fail if not found)
	_ = godotenv.Load()

	// Initialize logging (enabled via CODYBOOK_DEBUG=1)
	_ = log.Init()
}

var rootCmd = &cobra.Command{
	Use:   "codybook",
	Short: "codybook - LLM gateway API cookbook",
	Long: `codybook demonstrates the hosted LLM gateway API end to end:
listing models, chat completions, tool calling, code context search and
manual context passing. Each session is saved as a Markdown report.`,
	Version: version,
}

func main() {
	defer log.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
