package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codybook/codybook/internal/gateway"
	"github.com/codybook/codybook/internal/ui"
)

var modelCmd = &cobra.Command{
	Use:   "model <model-id>",
	Short: "Show the detail record of one model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		modelID := args[0]

		ui.Banner("🔍 Model Instance", fmt.Sprintf("Fetching details for model: %s", modelID))

		model, call, err := app.client.GetModel(cmd.Context(), modelID)
		if err != nil {
			ui.Errorf("%v", err)
			ui.Infof("💡 Run 'codybook models' to see available model IDs")
			return err
		}

		ui.Successf("Model Details:")
		fmt.Printf("ID:         %s\n", model.ID)
		fmt.Printf("Object:     %s\n", model.Object)
		fmt.Printf("Owner:      %s\n", model.OwnedBy)
		fmt.Printf("Created:    %d\n", model.Created)
		fmt.Println()
		ui.Infof("💡 This model can be used with 'codybook chat %s'", model.ID)

		reportSaved(app.reporter.SaveModelInstanceMarkdown(model, gateway.RawPayload(call), "model-instance"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelCmd)
}
