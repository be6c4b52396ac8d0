package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/CosmoTheDev/scamshield/internal/api"
	"github.com/CosmoTheDev/scamshield/internal/config"
	"github.com/CosmoTheDev/scamshield/models"
	"github.com/charmbracelet/lipgloss"
	"go.yaml.in/yaml/v3"
)

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#14B8A6")).
	MarginBottom(1)

var successStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#10B981"))

var warnStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#F59E0B"))

var failStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#EF4444"))

var dimStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#6B7280"))

var outputFormats = []string{"table", "json", "yaml"}

func validateOutput(format string) error {
	for _, f := range outputFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("unknown output format %q (expected %s)", format, strings.Join(outputFormats, "|"))
}

// writeStructured encodes v as JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported structured format %q", format)
}

// loadClient loads the config and builds a backend client from it.
func loadClient() (*config.Config, *api.Client, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, api.New(cfg.API), nil
}

func levelStyle(level models.RiskLevel) lipgloss.Style {
	switch level {
	case models.RiskCritical:
		return failStyle.Bold(true)
	case models.RiskCaution:
		return warnStyle.Bold(true)
	default:
		return successStyle.Bold(true)
	}
}

func printReports(w io.Writer, records []models.ReportRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No reports found."))
		return
	}
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("%-14s %-26s %-11s %s", "CATEGORY", "IDENTIFIER", "FILED", "DESCRIPTION")))
	for _, r := range records {
		fmt.Fprintf(w, "%-14s %-26s %-11s %s\n",
			r.Category.Label(),
			r.ScammerIdentifier,
			r.CreatedAt.Format(models.DateLayout),
			r.DisplayDescription(),
		)
	}
}
