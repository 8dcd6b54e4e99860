package pipeline

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rivalscan/rivalscan/internal/search"
	"github.com/rivalscan/rivalscan/internal/util"
)

// stagePromptTemplate frames every stage prompt: the persona the model
// adopts, the task, and the startup under analysis. Evidence and prior
// stage outputs follow as separate sections.
const stagePromptTemplate = `You are a %s, %s. Your goal is to %s.

Task: %s

Expected output: %s

Startup idea:
%s
`

// searchUnavailableNotice replaces the evidence block when search failed.
// The model should know it is working without fresh results.
const searchUnavailableNotice = "Web search was unavailable for this run. Rely on your own knowledge of the market."

// searchQuery builds the research-stage query from the startup description.
func searchQuery(description string) string {
	return "competitors for " + util.CollapseWhitespace(description)
}

// renderPrompt assembles the prompt for one stage. maxChars is a rune
// budget; when the assembled prompt exceeds it, prior stage outputs are
// trimmed oldest first until it fits. The persona header, the description,
// and the evidence block are never cut. maxChars <= 0 disables the budget.
func renderPrompt(sd StageDescriptor, pctx *Context, evidence []search.Result, degraded bool, maxChars int) string {
	outs := pctx.Outputs()
	prompt := assemblePrompt(sd, pctx.Description, outs, evidence, degraded)
	if maxChars <= 0 {
		return prompt
	}

	total := utf8.RuneCountInString(prompt)
	if total <= maxChars {
		return prompt
	}

	excess := total - maxChars
	for i := 0; i < len(outs) && excess > 0; i++ {
		n := utf8.RuneCountInString(outs[i].Text)
		keep := n - excess
		if keep <= 3 {
			// TruncateString never shrinks below its "..." marker, so a
			// section cut that far collapses entirely.
			outs[i].Text = ""
		} else {
			outs[i].Text = util.TruncateString(outs[i].Text, keep)
		}
		excess -= n - utf8.RuneCountInString(outs[i].Text)
	}

	return assemblePrompt(sd, pctx.Description, outs, evidence, degraded)
}

// assemblePrompt writes the prompt sections in fixed order: persona header
// with the description, then search evidence for the research stage, then
// one labelled section per completed stage.
func assemblePrompt(sd StageDescriptor, description string, outputs []StageOutput, evidence []search.Result, degraded bool) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf(stagePromptTemplate,
		sd.Role, sd.Backstory, sd.Goal, sd.Task, sd.Expected, description))

	if sd.UsesSearch {
		b.WriteString("\n")
		if degraded {
			b.WriteString(searchUnavailableNotice)
			b.WriteString("\n")
		} else {
			b.WriteString("Web search results:\n")
			b.WriteString(formatEvidence(evidence))
		}
	}

	for _, out := range outputs {
		b.WriteString(fmt.Sprintf("\n## %s\n\n%s\n", sectionTitle(out.Stage), out.Text))
	}

	return b.String()
}

// formatEvidence renders search results one per line. Titles and snippets
// are collapsed to single-line form; raw snippets often carry line breaks.
func formatEvidence(results []search.Result) string {
	if len(results) == 0 {
		return "No results found.\n"
	}
	var b strings.Builder
	for i, r := range results {
		b.WriteString(fmt.Sprintf("%d. %s | %s | %s\n",
			i+1, util.CollapseWhitespace(r.Title), r.URL, util.CollapseWhitespace(r.Snippet)))
	}
	return b.String()
}

// sectionTitle returns the human heading for a stage's output section.
func sectionTitle(stage Stage) string {
	if sd, ok := descriptorFor(stage); ok {
		return sd.Title
	}
	return string(stage)
}
