package pipeline

import (
	"fmt"
	"strings"
)

// DefaultReportFile is the report path used when none is configured.
const DefaultReportFile = "competitor_analysis.md"

// Render assembles the report as a markdown document: header with run
// metadata, one section per completed stage, and banner notes for degraded
// or incomplete runs.
func (r *Report) Render() string {
	var body strings.Builder

	// Header
	body.WriteString("# Competitor Analysis\n\n")
	body.WriteString(fmt.Sprintf("**Startup idea**: %s\n\n", r.Description))
	if !r.FinishedAt.IsZero() {
		body.WriteString(fmt.Sprintf("**Generated**: %s\n\n", r.FinishedAt.UTC().Format("2006-01-02 15:04 UTC")))
	}
	if r.Model != "" {
		body.WriteString(fmt.Sprintf("**Model**: %s\n\n", r.Model))
	}
	if r.RunID != "" {
		body.WriteString(fmt.Sprintf("**Run**: %s\n\n", r.RunID))
	}

	// Banner notes
	if r.Degraded {
		body.WriteString("> **Note**: Web search was unavailable for this run. Competitor findings come from model knowledge alone and may be out of date.\n\n")
	}
	if !r.Complete() {
		body.WriteString(fmt.Sprintf("> **Incomplete**: The %s stage failed. Sections below cover only the stages that finished.\n\n", r.FailedStage))
	}

	// Stage sections
	for _, out := range r.Outputs {
		body.WriteString(fmt.Sprintf("## %s\n\n%s\n\n", sectionTitle(out.Stage), out.Text))
	}

	return strings.TrimRight(body.String(), "\n") + "\n"
}
