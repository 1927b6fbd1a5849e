package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
)

// FormatResponse formats a response according to the specified format
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatHuman:
		return formatHuman(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func formatJSON(resp interface{}) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

func formatHuman(resp interface{}) (string, error) {
	switch v := resp.(type) {
	case *AnalyzeResponseCLI:
		return formatAnalyzeHuman(v)
	case *RunResponseCLI:
		return formatRunHuman(v)
	case *HistoryResponseCLI:
		return formatHistoryHuman(v)
	case *DoctorResponseCLI:
		return formatDoctorHuman(v)
	default:
		// For unknown types, fall back to JSON
		return formatJSON(resp)
	}
}

// formatAnalyzeHuman formats an AnalyzeResponseCLI in human-readable format
func formatAnalyzeHuman(resp *AnalyzeResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString("Explicit-any Analysis\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	b.WriteString(fmt.Sprintf("Rule: %s\n", resp.Rule))
	b.WriteString(fmt.Sprintf("Warnings: %d across %d files\n", resp.Warnings, resp.Files))
	b.WriteString(fmt.Sprintf("Profile: %s\n\n", resp.Profile))

	b.WriteString("Planned actions:\n")
	b.WriteString(fmt.Sprintf("  replace:  %d\n", resp.Replace))
	b.WriteString(fmt.Sprintf("  document: %d\n", resp.Document))
	b.WriteString(fmt.Sprintf("  preserve: %d\n\n", resp.Preserve))

	if len(resp.ByPattern) > 0 {
		b.WriteString("By pattern:\n")
		for _, p := range resp.ByPattern {
			b.WriteString(fmt.Sprintf("  %-22s %d\n", p.Label, p.Count))
		}
	}

	return b.String(), nil
}

// formatRunHuman formats a RunResponseCLI in human-readable format
func formatRunHuman(resp *RunResponseCLI) (string, error) {
	var b strings.Builder

	title := "Campaign Run"
	if resp.DryRun {
		title += " (dry run)"
	}
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	b.WriteString(fmt.Sprintf("Run ID: %s\n", resp.RunID))
	b.WriteString(fmt.Sprintf("Profile: %s\n", resp.Profile))
	b.WriteString(fmt.Sprintf("Duration: %s\n\n", resp.Duration))

	b.WriteString(fmt.Sprintf("Warnings: %d -> %d (%.1f%% reduction)\n\n",
		resp.WarningsBefore, resp.WarningsAfter, resp.ReductionPct))

	b.WriteString(fmt.Sprintf("Files processed: %d\n", resp.FilesProcessed))
	b.WriteString(fmt.Sprintf("  replaced:   %d\n", resp.Replacements))
	b.WriteString(fmt.Sprintf("  documented: %d\n", resp.Documented))
	b.WriteString(fmt.Sprintf("  preserved:  %d\n", resp.Preserved))
	b.WriteString(fmt.Sprintf("  rollbacks:  %d\n", resp.Rollbacks))
	b.WriteString(fmt.Sprintf("  failures:   %d\n", resp.Failures))

	if resp.ReportPath != "" {
		b.WriteString(fmt.Sprintf("\nReport: %s\n", resp.ReportPath))
	}

	return b.String(), nil
}

// formatHistoryHuman formats a HistoryResponseCLI in human-readable format
func formatHistoryHuman(resp *HistoryResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString("Campaign History\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	if len(resp.Runs) == 0 {
		b.WriteString("No campaign runs recorded yet.\n")
	}

	for _, r := range resp.Runs {
		marker := ""
		if r.DryRun {
			marker = " [dry run]"
		}
		b.WriteString(fmt.Sprintf("%s  %s%s\n", r.StartedAt.Format(time.RFC3339), r.RunID, marker))
		b.WriteString(fmt.Sprintf("  profile=%s files=%d replaced=%d documented=%d rollbacks=%d warnings %d->%d\n",
			r.Profile, r.FilesProcessed, r.Replacements, r.Documented, r.Rollbacks,
			r.WarningsBefore, r.WarningsAfter))
	}

	if len(resp.Counts) > 0 {
		b.WriteString("\nWarning counts:\n")
		for _, c := range resp.Counts {
			b.WriteString(fmt.Sprintf("  %s  %5d  (%s)\n", c.RecordedAt.Format(time.RFC3339), c.Count, c.Source))
		}
	}

	return b.String(), nil
}

// formatDoctorHuman formats a DoctorResponseCLI in human-readable format
func formatDoctorHuman(resp *DoctorResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString("anyfix Doctor\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	healthIcon := "✓"
	healthText := "All checks passed"
	if !resp.Healthy {
		healthIcon = "✗"
		healthText = "Issues found"
	}
	b.WriteString(fmt.Sprintf("%s %s\n\n", healthIcon, healthText))

	for _, check := range resp.Checks {
		var icon string
		switch check.Status {
		case "pass":
			icon = "✓"
		case "warn":
			icon = "⚠"
		case "fail":
			icon = "✗"
		default:
			icon = "?"
		}

		b.WriteString(fmt.Sprintf("%s %s: %s\n", icon, check.Name, check.Message))

		if len(check.SuggestedFixes) > 0 {
			b.WriteString("  Suggested fixes:\n")
			for _, fix := range check.SuggestedFixes {
				b.WriteString(fmt.Sprintf("    - %s\n", fix.Description))
				if fix.Command != "" {
					b.WriteString(fmt.Sprintf("      $ %s\n", fix.Command))
				}
			}
		}
		b.WriteString("\n")
	}

	return b.String(), nil
}
