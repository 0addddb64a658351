package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codybook/codybook/internal/config"
	"github.com/codybook/codybook/internal/ui"
)

var showWidth int

var showCmd = &cobra.Command{
	Use:   "show [report-file]",
	Short: "Render a saved Markdown report in the terminal",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		path := ""
		if len(args) > 0 {
			path = args[0]
		} else {
			path, err = newestReport(cfg.OutputDir)
			if err != nil {
				return err
			}
			ui.Infof("📄 Showing newest report: %s", path)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read report: %w", err)
		}

		fmt.Print(ui.RenderMarkdown(string(content), showWidth))
		return nil
	},
}

// newestReport picks the most recently modified Markdown file in the output
// directory. Filenames start with a timestamp, but modification time is the
// source of truth.
func newestReport(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read output directory %s: %w", dir, err)
	}

	type report struct {
		path string
		mod  int64
	}
	var reports []report
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		reports = append(reports, report{filepath.Join(dir, entry.Name()), info.ModTime().UnixNano()})
	}
	if len(reports) == 0 {
		return "", fmt.Errorf("no reports found in %s", dir)
	}

	sort.Slice(reports, func(i, j int) bool { return reports[i].mod > reports[j].mod })
	return reports[0].path, nil
}

func init() {
	showCmd.Flags().IntVar(&showWidth, "width", 100, "word wrap width")
	rootCmd.AddCommand(showCmd)
}
