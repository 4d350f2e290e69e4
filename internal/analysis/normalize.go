package analysis

import (
	"bytes"
	"fmt"
)

// Reserved truth-table row keys; every other key is an atom.
const (
	rowPremises   = "premises"
	rowConclusion = "conclusion"
	rowValid      = "VALID"
)

// Empty returns a Result with every list present and empty.
func Empty() Result {
	return Result{
		Parse: Parse{Premises: []Statement{}},
		Logic: Logic{
			TruthTable: []TruthRow{},
			Atoms:      []string{},
		},
		FactChecks:   []FactCheck{},
		Propositions: []Proposition{},
		News:         []NewsItem{},
	}
}

// Normalize turns a raw API body into a fully-defaulted Result.
//
// Missing fields are never errors: lists default to empty, optional scalars to
// "" or nil, and values of an unexpected type are coerced to their text. An
// empty body or JSON null yields Empty(). Only a body that is not JSON, or
// whose root is not an object, fails with KindMalformedResult.
func Normalize(raw []byte) (Result, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Empty(), nil
	}

	root, err := parseTree(raw)
	if err != nil {
		return Result{}, NewError(KindMalformedResult, fmt.Errorf("decoding body: %w", err))
	}
	if root.isAbsent() {
		return Empty(), nil
	}
	if !root.isObject() {
		return Result{}, NewError(KindMalformedResult, fmt.Errorf("root is not an object"))
	}

	res := Empty()
	res.Parse = normalizeParse(root.get("gpt"))
	res.Logic = normalizeLogic(root.get("logic"))

	for _, n := range root.get("fact_check").list() {
		res.FactChecks = append(res.FactChecks, FactCheck{
			Verified:    n.get("verified").isTrue(),
			Explanation: n.get("explicacao").text(),
		})
	}

	for _, m := range root.get("propositions").object() {
		res.Propositions = append(res.Propositions, Proposition{
			Label:   m.key,
			Natural: m.val.get("natural").text(),
			Formal:  m.val.get("formal").text(),
			Type:    m.val.get("type").text(),
		})
	}

	for _, n := range root.get("noticias").list() {
		item := NewsItem{
			Premise: n.get("premise").text(),
			Sources: []Source{},
		}
		for _, s := range n.get("sources").list() {
			item.Sources = append(item.Sources, Source{
				Outlet:  s.get("fonte").text(),
				Opinion: s.get("opniao").text(),
				Link:    s.get("link").text(),
			})
		}
		res.News = append(res.News, item)
	}

	res.Verdict = root.get("verdict").text()
	res.VerdictExplanation = root.get("verdictExplanation").text()

	return res, nil
}

func normalizeParse(n *node) Parse {
	p := Parse{Premises: []Statement{}}
	for _, item := range n.get("premises").list() {
		p.Premises = append(p.Premises, statement(item))
	}
	if c := n.get("conclusion"); !c.isAbsent() {
		s := statement(c)
		p.Conclusion = &s
	}
	return p
}

// statement reads {natural: ...}; a bare value stands for its own text.
func statement(n *node) Statement {
	if n.isObject() {
		return Statement{Natural: n.get("natural").text()}
	}
	return Statement{Natural: n.text()}
}

func normalizeLogic(n *node) Logic {
	l := Logic{
		TruthTable:  []TruthRow{},
		Atoms:       []string{},
		Explanation: n.get("explanation").text(),
	}

	if v := n.get("isValid"); v != nil && v.kind == kindBool {
		valid := v.b
		l.IsValid = &valid
	}

	if ex := n.get("example"); !ex.isAbsent() {
		l.Example = normalizeCounterexample(ex)
	}

	for _, a := range n.get("atoms").list() {
		l.Atoms = append(l.Atoms, a.text())
	}

	for _, r := range n.get("truthTable").list() {
		row := TruthRow{
			Atoms:      map[string]Value{},
			Premises:   r.get(rowPremises).raw(),
			Conclusion: r.get(rowConclusion).value(),
			Valid:      r.get(rowValid).value(),
		}
		for _, m := range r.object() {
			switch m.key {
			case rowPremises, rowConclusion, rowValid:
				continue
			}
			row.Atoms[m.key] = m.val.value()
		}
		l.TruthTable = append(l.TruthTable, row)
	}

	return l
}

func normalizeCounterexample(n *node) *Counterexample {
	ex := &Counterexample{
		Description: n.get("descricao").text(),
		Values:      []Assignment{},
		Premises:    n.get("premissas").raw(),
		Conclusion:  n.get("conclusao").raw(),
		Explanation: n.get("explicacao").text(),
	}
	if !n.isObject() {
		// Keep whatever was sent visible instead of dropping it.
		ex.Description = n.text()
		return ex
	}
	for _, m := range n.get("valores").object() {
		ex.Values = append(ex.Values, Assignment{Atom: m.key, Value: m.val.value()})
	}
	return ex
}
