// Package report renders a completed analysis report to files. The
// report record's field set is the contract; this package owns the wire
// formats.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/threatmesh-systems/threatmesh/internal/models"
)

// WriteJSON writes the full report as indented JSON.
func WriteJSON(report *models.AnalysisReport, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// WriteCSV writes the correlation findings as CSV rows: one row per
// correlation with its type, score, indicator count, and description.
func WriteCSV(report *models.AnalysisReport, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"id", "type", "confidence", "indicators", "sources", "description"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, c := range report.Correlations {
		row := []string{
			c.ID,
			string(c.Type),
			strconv.FormatFloat(c.ConfidenceScore, 'f', 2, 64),
			strconv.Itoa(len(c.Indicators)),
			strings.Join(c.Details.Sources, ";"),
			c.Description,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

// WriteMarkdown writes a human-readable summary.
func WriteMarkdown(report *models.AnalysisReport, path string) error {
	return os.WriteFile(path, []byte(Markdown(report)), 0644)
}

// Markdown renders the report summary as Markdown text.
func Markdown(report *models.AnalysisReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Threat Intelligence Analysis Report\n\n")
	fmt.Fprintf(&b, "Completed: %s (%d ms)\n\n", report.CompletedAt.Format("2006-01-02 15:04:05 UTC"), report.ElapsedMS)
	if report.ErrorMessage != "" {
		fmt.Fprintf(&b, "> **Pipeline error:** %s\n\n", report.ErrorMessage)
	}

	fmt.Fprintf(&b, "## Totals\n\n")
	fmt.Fprintf(&b, "- Indicators: %d\n", report.TotalIndicators)
	fmt.Fprintf(&b, "- Threat actors: %d\n", report.TotalActors)
	fmt.Fprintf(&b, "- Correlations: %d (%d high-confidence)\n", len(report.Correlations), len(report.HighConfidenceCorrelations))
	fmt.Fprintf(&b, "- Infrastructure pivots: %d\n\n", len(report.Pivots))

	writeBreakdown(&b, "Indicators by kind", report.ByKind)
	writeBreakdown(&b, "Indicators by source", report.BySource)
	writeBreakdown(&b, "Indicators by confidence", report.ByConfidence)

	if len(report.TopActors) > 0 {
		fmt.Fprintf(&b, "## Top actors\n\n")
		for _, a := range report.TopActors {
			fmt.Fprintf(&b, "- %s (%d indicators)\n", a.Name, a.IndicatorCount)
		}
		b.WriteString("\n")
	}

	if len(report.TopMalwareFamilies) > 0 {
		fmt.Fprintf(&b, "## Top malware families\n\n")
		for _, m := range report.TopMalwareFamilies {
			fmt.Fprintf(&b, "- %s (%d samples)\n", m.Family, m.SampleCount)
		}
		b.WriteString("\n")
	}

	if len(report.HighConfidenceCorrelations) > 0 {
		fmt.Fprintf(&b, "## High-confidence correlations\n\n")
		for _, c := range report.HighConfidenceCorrelations {
			fmt.Fprintf(&b, "- [%.2f] %s: %s\n", c.ConfidenceScore, c.Type, c.Description)
		}
		b.WriteString("\n")
	}

	if len(report.Pivots) > 0 {
		fmt.Fprintf(&b, "## Infrastructure pivots\n\n")
		for _, p := range report.Pivots {
			fmt.Fprintf(&b, "- [%.2f] %s %s (%s)\n",
				p.ConfidenceScore, p.Type, p.Indicator.Value, strings.Join(p.Evidence, ", "))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func writeBreakdown(b *strings.Builder, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(b, "## %s\n\n", title)
	for _, k := range keys {
		fmt.Fprintf(b, "- %s: %d\n", k, counts[k])
	}
	b.WriteString("\n")
}
