package sections

import (
	"strings"
)

// Markdown renders secs as a GitHub-flavoured markdown document suitable for
// glamour. Collapsible tables show only their summary unless expanded.
func Markdown(secs []Section, opts Options) string {
	var b strings.Builder
	for i, s := range secs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("## " + s.Title + "\n\n")
		b.WriteString(markdownBody(s.Content, opts))
	}
	return b.String()
}

func markdownBody(c Content, opts Options) string {
	var b strings.Builder

	switch c := c.(type) {
	case Text:
		if c.Placeholder {
			b.WriteString("_" + mdEscape(c.Value) + "_\n")
		} else {
			b.WriteString(mdEscape(c.Value) + "\n")
		}
	case Indicator:
		mark := markInvalid
		if c.Positive {
			mark = markValid
		}
		b.WriteString("**" + mark + " " + c.Label + "**\n")
	case Lines:
		for _, l := range c.Items {
			b.WriteString("- **" + l.Label + ":** " + mdEscape(l.Text) + "\n")
		}
	case Counterexample:
		b.WriteString("**" + CounterDescription + ":** " + mdEscape(c.Description) + "\n\n")
		b.WriteString("**" + CounterValues + ":**\n\n")
		for _, v := range c.Values {
			b.WriteString("- " + mdEscape(v.Label) + ": " + mdEscape(v.Text) + "\n")
		}
		b.WriteString("\n**" + CounterPremises + ":** `" + c.Premises + "`\n\n")
		b.WriteString("**" + CounterConclusion + ":** `" + c.Conclusion + "`\n\n")
		b.WriteString("**" + CounterExplanation + ":** " + mdEscape(c.Explanation) + "\n")
	case Table:
		if c.Collapsible {
			b.WriteString("_" + c.Summary + "_\n")
			if !opts.ExpandTables {
				break
			}
			b.WriteString("\n")
		}
		b.WriteString(markdownTable(c.Columns, c.Rows))
	case FactChecks:
		for _, f := range c.Items {
			mark := markInvalid
			if f.Verified {
				mark = markValid
			}
			b.WriteString("- **" + f.Label + ":** " + mark + " " + f.Status)
			if f.Explanation != "" {
				b.WriteString(" — " + mdEscape(f.Explanation))
			}
			b.WriteString("\n")
		}
	case News:
		for _, n := range c.Blocks {
			b.WriteString("**" + NewsPremisePrefix + ":** " + mdEscape(n.Premise) + "\n\n")
			if n.Empty != "" {
				b.WriteString("_" + n.Empty + "_\n\n")
				continue
			}
			for _, s := range n.Sources {
				b.WriteString("- **" + mdEscape(s.Outlet) + "**: " + mdEscape(s.Opinion) + " " + Dash + " [" + s.Link + "](" + s.Link + ")\n")
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func markdownTable(columns []string, rows [][]string) string {
	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("|")
		for i := range columns {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(" " + strings.ReplaceAll(mdEscape(cell), "|", `\|`) + " |")
		}
		b.WriteString("\n")
	}

	writeRow(columns)
	b.WriteString("|")
	for range columns {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, r := range rows {
		writeRow(r)
	}
	return b.String()
}

var mdReplacer = strings.NewReplacer(
	`*`, `\*`,
	`_`, `\_`,
	"`", "\\`",
	"\n", " ",
)

func mdEscape(s string) string {
	return mdReplacer.Replace(s)
}
