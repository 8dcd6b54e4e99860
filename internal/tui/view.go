package tui

import (
	"fmt"
	"strings"

	"github.com/rivalscan/rivalscan/internal/util"
)

// View renders the stage checklist
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Competitor analysis"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(m.headerDescription()))
	b.WriteString("\n\n")

	for _, row := range m.rows {
		b.WriteString(m.renderRow(row))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	b.WriteString("\n")

	return b.String()
}

// headerDescription collapses and truncates the startup description so the
// header stays on one line.
func (m Model) headerDescription() string {
	desc := util.CollapseWhitespace(m.description)
	limit := 72
	if m.width > 0 && m.width-6 < limit {
		limit = m.width - 6
	}
	if limit > 3 {
		desc = util.TruncateANSI(desc, limit)
	}
	return desc
}

func (m Model) renderRow(row stageRow) string {
	marker := statusStyle(row.status).Render(statusIcon(row.status))
	line := "  " + marker + " " + row.title

	if note := rowAnnotation(row); note != "" {
		style := mutedStyle
		if row.degraded || row.status == statusFailed {
			style = warningStyle
		}
		line += " " + style.Render(note)
	}
	return line
}

// rowAnnotation summarizes a finished or degraded row in parentheses.
func rowAnnotation(row stageRow) string {
	switch row.status {
	case statusDone:
		secs := fmt.Sprintf("%.1fs", row.duration.Seconds())
		switch {
		case row.degraded:
			return fmt.Sprintf("(%s, no search)", secs)
		case row.resultCount > 0:
			return fmt.Sprintf("(%s, %d results)", secs, row.resultCount)
		default:
			return fmt.Sprintf("(%s)", secs)
		}
	case statusFailed:
		return "(failed)"
	case statusRunning:
		if row.degraded {
			return "(search unavailable)"
		}
	}
	return ""
}

func (m Model) renderFooter() string {
	switch {
	case m.failed:
		return errorMsgStyle.Render("✗ Run failed: " + m.errText)
	case m.done:
		line := successMsgStyle.Render(fmt.Sprintf("✓ Analysis complete in %.1fs", m.duration.Seconds()))
		if m.degraded {
			line += "  " + warningStyle.Render("(web search was unavailable)")
		}
		return line
	default:
		return m.spinner.View() + " Analyzing... " + helpStyle.Render("q to quit")
	}
}
