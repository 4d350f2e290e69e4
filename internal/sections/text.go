package sections

import (
	"bufio"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"
)

// Options control the plain-text and markdown renderers.
type Options struct {
	Width        int  // Wrap paragraphs at this display width; 0 disables wrapping
	ExpandTables bool // Show rows of collapsible tables instead of their summary
}

// Markers used by the plain-text renderer.
const (
	markValid     = "✔"
	markInvalid   = "✘"
	markCollapsed = "[+]"
	markExpanded  = "[-]"
)

// WriteText renders secs as plain text.
func WriteText(w io.Writer, secs []Section, opts Options) error {
	bw := bufio.NewWriter(w)
	for i, s := range secs {
		if i > 0 {
			bw.WriteString("\n")
		}
		bw.WriteString("== " + s.Title + " ==\n")
		bw.WriteString(textBody(s.Content, opts))
	}
	return bw.Flush()
}

// Report renders secs as plain text with collapsible tables folded.
func Report(secs []Section) string {
	var b strings.Builder
	_ = WriteText(&b, secs, Options{})
	return b.String()
}

func textBody(c Content, opts Options) string {
	var b strings.Builder
	para := func(prefix, s string) {
		b.WriteString(prefix + Wrap(s, opts.Width-runewidth.StringWidth(prefix)) + "\n")
	}

	switch c := c.(type) {
	case Text:
		para("", c.Value)
	case Indicator:
		mark := markInvalid
		if c.Positive {
			mark = markValid
		}
		b.WriteString(mark + " " + c.Label + "\n")
	case Lines:
		for _, l := range c.Items {
			para(l.Label+": ", l.Text)
		}
	case Counterexample:
		para(CounterDescription+": ", c.Description)
		b.WriteString(CounterValues + ":\n")
		for _, v := range c.Values {
			b.WriteString("  " + v.Label + ": " + v.Text + "\n")
		}
		b.WriteString(CounterPremises + ": " + c.Premises + "\n")
		b.WriteString(CounterConclusion + ": " + c.Conclusion + "\n")
		para(CounterExplanation+": ", c.Explanation)
	case Table:
		if c.Collapsible && !opts.ExpandTables {
			b.WriteString(markCollapsed + " " + c.Summary + "\n")
			break
		}
		if c.Collapsible {
			b.WriteString(markExpanded + " " + c.Summary + "\n")
		}
		b.WriteString(asciiTable(c.Columns, c.Rows) + "\n")
	case FactChecks:
		for _, f := range c.Items {
			mark := markInvalid
			if f.Verified {
				mark = markValid
			}
			b.WriteString(f.Label + ": " + mark + " " + f.Status + "\n")
			if f.Explanation != "" {
				para("    ", f.Explanation)
			}
		}
	case News:
		for _, n := range c.Blocks {
			para(NewsPremisePrefix+": ", n.Premise)
			if n.Empty != "" {
				b.WriteString("  (" + n.Empty + ")\n")
				continue
			}
			for _, s := range n.Sources {
				para("  - ", s.String())
			}
		}
	}
	return b.String()
}

func asciiTable(columns []string, rows [][]string) string {
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.ASCIIBorder()).
		Headers(columns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			return cell
		})
	return t.Render()
}

// Wrap breaks s into lines no wider than width display cells, breaking only
// at single spaces. Runs of spaces inside a line are kept. Words longer than
// width stay on their own line. A width <= 0 returns s unchanged.
func Wrap(s string, width int) string {
	if width <= 0 {
		return s
	}

	var lines []string
	for _, paragraph := range strings.Split(s, "\n") {
		var line strings.Builder
		lineWidth := 0
		started := false
		for _, word := range strings.Split(paragraph, " ") {
			wordWidth := runewidth.StringWidth(word)
			if started && lineWidth > 0 && lineWidth+1+wordWidth > width {
				lines = append(lines, line.String())
				line.Reset()
				lineWidth = 0
				started = false
			}
			if started {
				line.WriteString(" ")
				lineWidth++
			}
			line.WriteString(word)
			lineWidth += wordWidth
			started = true
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}
