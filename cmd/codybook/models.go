package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codybook/codybook/internal/gateway"
	"github.com/codybook/codybook/internal/ui"
)

var (
	modelsCSV      bool
	modelsJSON     bool
	modelsMarkdown bool
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models available on the gateway",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}

		ui.Banner("🔍 Available Models", fmt.Sprintf("Fetching models from %s", app.client.Endpoint()))

		models, call, err := app.client.ListModels(cmd.Context())
		if err != nil {
			return err
		}

		ui.Successf("Found %d available models:", len(models))
		fmt.Println()
		fmt.Print(ui.ModelTable(models))
		fmt.Println()
		ui.Infof("💡 Tip: Copy a model ID to use with 'codybook model MODEL_ID'")

		if modelsCSV {
			reportSaved(app.reporter.SaveModelsCSV(models, "models"))
		}
		if modelsJSON {
			reportSaved(app.reporter.SaveJSON(gateway.RawPayload(call), "models", true))
		}
		if modelsMarkdown {
			reportSaved(app.reporter.SaveModelsMarkdown(models, "models"))
		}
		return nil
	},
}

func init() {
	modelsCmd.Flags().BoolVar(&modelsCSV, "csv", true, "save the listing as CSV")
	modelsCmd.Flags().BoolVar(&modelsJSON, "json", false, "save the raw listing payload as JSON")
	modelsCmd.Flags().BoolVar(&modelsMarkdown, "markdown", true, "save the listing as a Markdown table")
	rootCmd.AddCommand(modelsCmd)
}
