// Package report renders a prediction into a downloadable full-report
// document. The renderer consumes an answer bundle; it knows nothing about
// how the bundle was produced.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/prescripto/health-recommender/internal/domain"
)

// FullReport is the assembled document for one prediction.
type FullReport struct {
	PredictionID string
	GeneratedAt  time.Time
	Symptoms     []string
	Unrecognized []string
	Bundle       domain.AnswerBundle
}

// RenderMarkdown renders the report as a Markdown document. Section order
// follows the interactive view: description, precautions, medications, diet,
// workout. Empty sections render a placeholder line instead of being omitted,
// so a report for a label missing from some reference tables is still a
// complete document.
func RenderMarkdown(r *FullReport) string {
	var b strings.Builder

	b.WriteString("# Full Disease Report\n\n")
	fmt.Fprintf(&b, "- Report ID: %s\n", r.PredictionID)
	fmt.Fprintf(&b, "- Generated: %s\n", r.GeneratedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "- Predicted Disease: **%s**\n\n", r.Bundle.Disease)

	if len(r.Symptoms) > 0 {
		b.WriteString("## Reported Symptoms\n\n")
		writeList(&b, r.Symptoms)
	}
	if len(r.Unrecognized) > 0 {
		b.WriteString("## Unrecognized Symptoms\n\n")
		writeList(&b, r.Unrecognized)
	}

	b.WriteString("## Description\n\n")
	if r.Bundle.Description != "" {
		b.WriteString(r.Bundle.Description)
		b.WriteString("\n\n")
	} else {
		b.WriteString("No description available.\n\n")
	}

	writeSection(&b, "Precautions", r.Bundle.Precautions)
	writeSection(&b, "Medications", r.Bundle.Medications)
	writeSection(&b, "Diet", r.Bundle.Diets)
	writeSection(&b, "Workout", r.Bundle.Workouts)

	return b.String()
}

func writeSection(b *strings.Builder, title string, items []string) {
	fmt.Fprintf(b, "## %s\n\n", title)
	if len(items) == 0 {
		fmt.Fprintf(b, "No %s recommendations available.\n\n", strings.ToLower(title))
		return
	}
	writeList(b, items)
}

func writeList(b *strings.Builder, items []string) {
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}
