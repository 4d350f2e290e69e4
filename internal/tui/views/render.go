package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/f3rmion/pnc/internal/sections"
	"github.com/f3rmion/pnc/internal/tui/theme"
)

// RenderSections renders the report with th. Collapsible tables show only
// their summary unless expand is set.
func RenderSections(secs []sections.Section, th theme.Theme, width int, expand bool) string {
	blocks := make([]string, 0, len(secs))
	for _, s := range secs {
		body := renderContent(s.Content, th, width, expand)
		blocks = append(blocks, th.Section.Render(s.Title)+"\n"+body)
	}
	return strings.Join(blocks, "\n")
}

func renderContent(c sections.Content, th theme.Theme, width int, expand bool) string {
	wrap := func(style lipgloss.Style, s string) string {
		if width > 0 {
			style = style.Width(width)
		}
		return style.Render(s)
	}
	labeled := func(label, text string) string {
		return th.Label.Render(label+":") + " " + th.Value.Render(sections.Wrap(text, width-lipgloss.Width(label)-2))
	}

	var lines []string
	switch c := c.(type) {
	case sections.Text:
		if c.Placeholder {
			lines = append(lines, wrap(th.Muted, c.Value))
		} else {
			lines = append(lines, wrap(th.Value, c.Value))
		}

	case sections.Indicator:
		if c.Positive {
			lines = append(lines, th.Positive.Render("✔ "+c.Label))
		} else {
			lines = append(lines, th.Negative.Render("✘ "+c.Label))
		}

	case sections.Lines:
		for _, l := range c.Items {
			lines = append(lines, labeled(l.Label, l.Text))
		}

	case sections.Counterexample:
		lines = append(lines, labeled(sections.CounterDescription, c.Description))
		lines = append(lines, th.Label.Render(sections.CounterValues+":"))
		for _, v := range c.Values {
			lines = append(lines, "  "+th.Subtitle.Render(v.Label)+" "+th.Value.Render(v.Text))
		}
		lines = append(lines, th.Label.Render(sections.CounterPremises+":")+" "+th.Value.Render(c.Premises))
		lines = append(lines, th.Label.Render(sections.CounterConclusion+":")+" "+th.Value.Render(c.Conclusion))
		lines = append(lines, labeled(sections.CounterExplanation, c.Explanation))

	case sections.Table:
		if c.Collapsible && !expand {
			lines = append(lines, th.Muted.Render("▸ "+c.Summary+"  (t: expandir)"))
			break
		}
		if c.Collapsible {
			lines = append(lines, th.Muted.Render("▾ "+c.Summary))
		}
		lines = append(lines, renderTable(c, th))

	case sections.FactChecks:
		for _, f := range c.Items {
			badge := th.Negative.Render("✘ " + f.Status)
			if f.Verified {
				badge = th.Positive.Render("✔ " + f.Status)
			}
			lines = append(lines, th.Label.Render(f.Label)+" "+badge)
			if f.Premise != "" {
				lines = append(lines, "  "+th.Muted.Render(sections.Wrap(f.Premise, width-2)))
			}
			if f.Explanation != "" {
				lines = append(lines, "  "+th.Value.Render(sections.Wrap(f.Explanation, width-2)))
			}
		}

	case sections.News:
		for _, n := range c.Blocks {
			lines = append(lines, labeled(sections.NewsPremisePrefix, n.Premise))
			if n.Empty != "" {
				lines = append(lines, "  "+th.Muted.Render(n.Empty))
				continue
			}
			for _, s := range n.Sources {
				lines = append(lines, "  • "+th.Value.Render(sections.Wrap(s.String(), width-4)))
			}
		}
	}
	return strings.Join(lines, "\n")
}

func renderTable(c sections.Table, th theme.Theme) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(th.TableBorder).
		Headers(c.Columns...).
		Rows(c.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return th.TableHeader
			}
			return th.TableCell
		})
	return t.Render()
}
