package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/codybook/codybook/internal/config"
	"github.com/codybook/codybook/internal/gateway"
	"github.com/codybook/codybook/internal/log"
	"github.com/codybook/codybook/internal/report"
	"github.com/codybook/codybook/internal/ui"
)

// app bundles what every command needs: resolved configuration, the
// gateway client and a reporter writing into the output directory.
type app struct {
	cfg      *config.Config
	client   *gateway.Client
	reporter *report.Reporter
	stdin    *bufio.Scanner
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	return &app{
		cfg:      cfg,
		client:   gateway.New(cfg),
		reporter: report.New(report.NewSink(cfg.OutputDir), log.Logger()),
		stdin:    scanner,
	}, nil
}

// readLine prompts and reads one line. ok is false on EOF.
func (a *app) readLine(prompt string) (string, bool) {
	fmt.Print(ui.PromptStyle.Render(prompt))
	if !a.stdin.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.stdin.Text()), true
}

// readBlock reads lines until EOF, for pasted context.
func (a *app) readBlock() string {
	var lines []string
	for a.stdin.Scan() {
		lines = append(lines, a.stdin.Text())
	}
	return strings.Join(lines, "\n")
}

// isQuit reports whether input ends an interactive loop.
func isQuit(input string) bool {
	switch strings.ToLower(input) {
	case "quit", "exit", "bye":
		return true
	}
	return false
}

// formatDuration renders a session duration for report metadata.
func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.1f seconds", d.Seconds())
}

// resolveModel picks the model from args, falling back to the configured
// default.
func (a *app) resolveModel(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	ui.Infof("💡 Using default model: %s", a.cfg.DefaultModel)
	ui.Infof("💡 Run 'codybook models' to see all available models")
	return a.cfg.DefaultModel
}

// reportSaved announces a saved report; save failures are printed and
// swallowed so a finished session never exits non-zero over its report.
func reportSaved(path string, err error) {
	if err != nil {
		ui.Errorf("Failed to save session report: %v", err)
		return
	}
	ui.Successf("Session saved to: %s", path)
}
