package sections

import (
	"fmt"

	"github.com/f3rmion/pnc/internal/analysis"
)

// Build maps a result to its sections. The titles and their order never
// depend on the data; only the contents do. Build does not mutate res.
func Build(res analysis.Result) []Section {
	return []Section{
		{Title: TitlePremises, Content: premises(res)},
		{Title: TitleConclusion, Content: conclusion(res)},
		{Title: TitleFormalLogic, Content: validity(res)},
		{Title: TitleLogicExplanation, Content: textOr(res.Logic.Explanation, Dash)},
		{Title: TitleCounterexample, Content: counterexample(res)},
		{Title: TitleTruthTable, Content: truthTable(res)},
		{Title: TitlePropositions, Content: propositions(res)},
		{Title: TitleFactCheck, Content: factChecks(res)},
		{Title: TitleNews, Content: news(res)},
		{Title: TitleVerdict, Content: textOr(res.Verdict, Dash)},
		{Title: TitleVerdictExplanation, Content: textOr(res.VerdictExplanation, Dash)},
	}
}

func premiseLabel(i int) string {
	return fmt.Sprintf("P%d", i+1)
}

func textOr(s, fallback string) Text {
	if s == "" {
		return Text{Value: fallback, Placeholder: true}
	}
	return Text{Value: s}
}

func premises(res analysis.Result) Lines {
	lines := Lines{Items: make([]Line, 0, len(res.Parse.Premises))}
	for i, p := range res.Parse.Premises {
		lines.Items = append(lines.Items, Line{Label: premiseLabel(i), Text: p.Natural})
	}
	return lines
}

func conclusion(res analysis.Result) Text {
	if res.Parse.Conclusion == nil {
		return Text{Value: NoConclusion, Placeholder: true}
	}
	return textOr(res.Parse.Conclusion.Natural, NoConclusion)
}

func validity(res analysis.Result) Indicator {
	if res.Logic.Valid() {
		return Indicator{Positive: true, Label: LabelValid}
	}
	return Indicator{Positive: false, Label: LabelInvalid}
}

func counterexample(res analysis.Result) Content {
	ex := res.Logic.Example
	if ex == nil {
		return Text{Value: NoCounterexample, Placeholder: true}
	}

	c := Counterexample{
		Description: orDash(ex.Description),
		Values:      make([]Line, 0, len(ex.Values)),
		Premises:    dump(ex.Premises),
		Conclusion:  dump(ex.Conclusion),
		Explanation: orDash(ex.Explanation),
	}
	for _, a := range ex.Values {
		c.Values = append(c.Values, Line{Label: a.Atom, Text: assignmentText(a.Value)})
	}
	return c
}

func truthTable(res analysis.Result) Content {
	atoms := res.Logic.Atoms
	rows := res.Logic.TruthTable
	if len(atoms) == 0 || len(rows) == 0 {
		return Text{Value: TableNotAvailable, Placeholder: true}
	}

	columns := make([]string, 0, len(atoms)+3)
	columns = append(columns, atoms...)
	columns = append(columns, ColumnPremises, ColumnConclusion, ColumnValid)

	t := Table{
		Columns:     columns,
		Rows:        make([][]string, 0, len(rows)),
		Collapsible: true,
		Summary:     rowSummary(len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, TruthRowCells(atoms, r))
	}
	return t
}

// TruthRowCells renders one truth-table row in atoms order followed by the
// premises, conclusion and validity columns. A missing atom value renders as
// a dash rather than failing.
func TruthRowCells(atoms []string, r analysis.TruthRow) []string {
	cells := make([]string, 0, len(atoms)+3)
	for _, a := range atoms {
		cells = append(cells, truthText(r.Atoms[a]))
	}
	return append(cells, dump(r.Premises), truthText(r.Conclusion), yesNo(r.Valid))
}

func rowSummary(n int) string {
	if n == 1 {
		return tableSummaryOneLine
	}
	return fmt.Sprintf(tableSummaryFormat, n)
}

func propositions(res analysis.Result) Table {
	t := Table{
		Columns: []string{ColumnLabel, ColumnNatural, ColumnFormal, ColumnType},
		Rows:    make([][]string, 0, len(res.Propositions)),
	}
	for _, p := range res.Propositions {
		t.Rows = append(t.Rows, []string{p.Label, p.Natural, p.Formal, p.Type})
	}
	return t
}

func factChecks(res analysis.Result) FactChecks {
	fc := FactChecks{Items: make([]FactCheckItem, 0, len(res.FactChecks))}
	for i, f := range res.FactChecks {
		item := FactCheckItem{
			Label:       premiseLabel(i),
			Verified:    f.Verified,
			Status:      LabelNotConfirmed,
			Explanation: f.Explanation,
		}
		if f.Verified {
			item.Status = LabelVerified
		}
		if i < len(res.Parse.Premises) {
			item.Premise = res.Parse.Premises[i].Natural
		}
		fc.Items = append(fc.Items, item)
	}
	return fc
}

func news(res analysis.Result) News {
	n := News{Blocks: make([]NewsBlock, 0, len(res.News))}
	for _, item := range res.News {
		block := NewsBlock{
			Premise: item.Premise,
			Sources: make([]NewsSource, 0, len(item.Sources)),
		}
		for _, s := range item.Sources {
			block.Sources = append(block.Sources, NewsSource{
				Outlet:  s.Outlet,
				Opinion: s.Opinion,
				Link:    s.Link,
			})
		}
		if len(block.Sources) == 0 {
			block.Empty = NoSources
		}
		n.Blocks = append(n.Blocks, block)
	}
	return n
}

func orDash(s string) string {
	if s == "" {
		return Dash
	}
	return s
}

func dump(raw []byte) string {
	if len(raw) == 0 {
		return Dash
	}
	return string(raw)
}

func truthText(v analysis.Value) string {
	switch v.Kind {
	case analysis.ValueBool:
		if v.Bool {
			return CellTrue
		}
		return CellFalse
	case analysis.ValueOther:
		return v.Text
	default:
		return Dash
	}
}

func yesNo(v analysis.Value) string {
	switch v.Kind {
	case analysis.ValueBool:
		if v.Bool {
			return CellYes
		}
		return CellNo
	case analysis.ValueOther:
		return v.Text
	default:
		return Dash
	}
}

func assignmentText(v analysis.Value) string {
	switch v.Kind {
	case analysis.ValueBool:
		if v.Bool {
			return AssignmentTrue
		}
		return AssignmentFalse
	case analysis.ValueOther:
		return v.Text
	default:
		return Dash
	}
}
