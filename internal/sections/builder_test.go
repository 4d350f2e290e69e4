package sections

import (
	"testing"

	"github.com/f3rmion/pnc/internal/analysis"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNormalize(t *testing.T, raw string) analysis.Result {
	t.Helper()
	res, err := analysis.Normalize([]byte(raw))
	require.NoError(t, err)
	return res
}

func titlesOf(secs []Section) []string {
	out := make([]string, len(secs))
	for i, s := range secs {
		out[i] = s.Title
	}
	return out
}

func contentOf(t *testing.T, secs []Section, title string) Content {
	t.Helper()
	for _, s := range secs {
		if s.Title == title {
			return s.Content
		}
	}
	t.Fatalf("section %q not found", title)
	return nil
}

func TestBuild_TitlesAreFixed(t *testing.T) {
	bodies := map[string]string{
		"empty":        `{}`,
		"only verdict": `{"verdict": "ok"}`,
		"premises":     `{"gpt": {"premises": [{"natural": "a"}]}}`,
		"full logic":   `{"logic": {"isValid": true, "atoms": ["A"], "truthTable": [{"A": true}], "example": {}}}`,
		"garbage":      `{"gpt": 1, "logic": "x", "fact_check": {}, "propositions": [], "noticias": "n"}`,
	}

	for name, raw := range bodies {
		t.Run(name, func(t *testing.T) {
			secs := Build(mustNormalize(t, raw))
			if diff := cmp.Diff(Titles(), titlesOf(secs)); diff != "" {
				t.Errorf("titles mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuild_PremisesNumbered(t *testing.T) {
	res := mustNormalize(t, `{"gpt": {"premises": [{"natural": "um"}, {"natural": "dois"}, {"natural": "três"}]}}`)

	got := contentOf(t, Build(res), TitlePremises)
	want := Lines{Items: []Line{
		{Label: "P1", Text: "um"},
		{Label: "P2", Text: "dois"},
		{Label: "P3", Text: "três"},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("premises mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_EmptyResultFallbacks(t *testing.T) {
	secs := Build(analysis.Empty())

	want := []Section{
		{Title: TitlePremises, Content: Lines{Items: []Line{}}},
		{Title: TitleConclusion, Content: Text{Value: NoConclusion, Placeholder: true}},
		{Title: TitleFormalLogic, Content: Indicator{Label: LabelInvalid}},
		{Title: TitleLogicExplanation, Content: Text{Value: Dash, Placeholder: true}},
		{Title: TitleCounterexample, Content: Text{Value: NoCounterexample, Placeholder: true}},
		{Title: TitleTruthTable, Content: Text{Value: TableNotAvailable, Placeholder: true}},
		{Title: TitlePropositions, Content: Table{
			Columns: []string{ColumnLabel, ColumnNatural, ColumnFormal, ColumnType},
			Rows:    [][]string{},
		}},
		{Title: TitleFactCheck, Content: FactChecks{Items: []FactCheckItem{}}},
		{Title: TitleNews, Content: News{Blocks: []NewsBlock{}}},
		{Title: TitleVerdict, Content: Text{Value: Dash, Placeholder: true}},
		{Title: TitleVerdictExplanation, Content: Text{Value: Dash, Placeholder: true}},
	}
	if diff := cmp.Diff(want, secs); diff != "" {
		t.Errorf("empty sections mismatch (-want +got):\n%s", diff)
	}

	// The zero Result (nil slices) must not crash either.
	assert.NotPanics(t, func() { Build(analysis.Result{}) })
}

func TestBuild_TruthTableRow(t *testing.T) {
	res := mustNormalize(t, `{"logic": {
		"atoms": ["A", "B"],
		"truthTable": [{"A": true, "B": false, "premises": [true], "conclusion": false, "VALID": false}]
	}}`)

	got := contentOf(t, Build(res), TitleTruthTable)
	want := Table{
		Columns:     []string{"A", "B", ColumnPremises, ColumnConclusion, ColumnValid},
		Rows:        [][]string{{"True", "False", "[true]", "False", "No"}},
		Collapsible: true,
		Summary:     "1 linha",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("truth table mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_TruthTableMissingCells(t *testing.T) {
	res := mustNormalize(t, `{"logic": {
		"atoms": ["A", "B", "C"],
		"truthTable": [{"A": true, "VALID": true}, {"A": false, "B": "?", "conclusion": true}, {"A": true}, {"B": true}]
	}}`)

	table, ok := contentOf(t, Build(res), TitleTruthTable).(Table)
	require.True(t, ok)
	assert.Equal(t, "4 linhas", table.Summary)
	assert.Equal(t, []string{"True", Dash, Dash, Dash, Dash, "Yes"}, table.Rows[0])
	assert.Equal(t, []string{"False", "?", Dash, Dash, "True", Dash}, table.Rows[1])
}

func TestBuild_TruthTableNeedsAtomsAndRows(t *testing.T) {
	for _, raw := range []string{
		`{"logic": {"atoms": ["A"]}}`,
		`{"logic": {"truthTable": [{"A": true}]}}`,
		`{"logic": {"atoms": [], "truthTable": []}}`,
	} {
		got := contentOf(t, Build(mustNormalize(t, raw)), TitleTruthTable)
		assert.Equal(t, Text{Value: TableNotAvailable, Placeholder: true}, got, raw)
	}
}

func TestBuild_FactCheckAlignment(t *testing.T) {
	res := mustNormalize(t, `{
		"gpt": {"premises": [{"natural": "primeira"}, {"natural": "segunda"}]},
		"fact_check": [{"verified": true, "explicacao": "confere"}]
	}`)

	var secs []Section
	require.NotPanics(t, func() { secs = Build(res) })

	got := contentOf(t, secs, TitleFactCheck)
	want := FactChecks{Items: []FactCheckItem{
		{Label: "P1", Premise: "primeira", Verified: true, Status: LabelVerified, Explanation: "confere"},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("fact checks mismatch (-want +got):\n%s", diff)
	}

	premises := contentOf(t, secs, TitlePremises).(Lines)
	assert.Len(t, premises.Items, 2)
}

func TestBuild_FactChecksBeyondPremises(t *testing.T) {
	res := mustNormalize(t, `{"fact_check": [{"verified": false}, {"explicacao": "sem campo"}]}`)

	fc := contentOf(t, Build(res), TitleFactCheck).(FactChecks)
	require.Len(t, fc.Items, 2)
	for _, item := range fc.Items {
		assert.Equal(t, LabelNotConfirmed, item.Status)
		assert.Empty(t, item.Premise)
	}
	assert.Equal(t, "P2", fc.Items[1].Label)
}

func TestBuild_Counterexample(t *testing.T) {
	res := mustNormalize(t, `{"logic": {"isValid": false, "example": {
		"descricao": "A verdadeiro e B falso",
		"valores": {"A": true, "B": false, "C": "talvez"},
		"premissas": [true, true],
		"conclusao": false,
		"explicacao": "as premissas valem e a conclusão não"
	}}}`)

	got := contentOf(t, Build(res), TitleCounterexample)
	want := Counterexample{
		Description: "A verdadeiro e B falso",
		Values: []Line{
			{Label: "A", Text: "Verdadeiro"},
			{Label: "B", Text: "Falso"},
			{Label: "C", Text: "talvez"},
		},
		Premises:    "[true,true]",
		Conclusion:  "false",
		Explanation: "as premissas valem e a conclusão não",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("counterexample mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_DumpsKeepFormulasLiteral(t *testing.T) {
	res := mustNormalize(t, `{"logic": {
		"atoms": ["A"],
		"truthTable": [{"A": true, "premises": ["A -> B"], "conclusion": false, "VALID": false}],
		"example": {"premissas": ["A -> B", "A & C"], "conclusao": "B <-> C", "valores": {"A": true}}
	}}`)
	secs := Build(res)

	ex := contentOf(t, secs, TitleCounterexample).(Counterexample)
	assert.Equal(t, `["A -> B","A & C"]`, ex.Premises)
	assert.Equal(t, `"B <-> C"`, ex.Conclusion)

	table := contentOf(t, secs, TitleTruthTable).(Table)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"True", `["A -> B"]`, "False", "No"}, table.Rows[0])
}

func TestBuild_PropositionsKeepOrder(t *testing.T) {
	res := mustNormalize(t, `{"propositions": {
		"P3": {"natural": "c", "formal": "C", "type": "premise"},
		"P1": {"formal": "A"},
		"K": {}
	}}`)

	got := contentOf(t, Build(res), TitlePropositions).(Table)
	want := [][]string{
		{"P3", "c", "C", "premise"},
		{"P1", "", "A", ""},
		{"K", "", "", ""},
	}
	if diff := cmp.Diff(want, got.Rows); diff != "" {
		t.Errorf("propositions mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, got.Collapsible)
}

func TestBuild_NewsEmptySources(t *testing.T) {
	res := mustNormalize(t, `{"noticias": [
		{"premise": "a", "sources": []},
		{"premise": "b", "sources": [{"fonte": "Folha", "opniao": "contesta", "link": "https://f.example"}]}
	]}`)

	got := contentOf(t, Build(res), TitleNews).(News)
	require.Len(t, got.Blocks, 2)
	assert.Equal(t, NoSources, got.Blocks[0].Empty)
	assert.Empty(t, got.Blocks[1].Empty)
	assert.Equal(t, "Folha: contesta — [https://f.example]", got.Blocks[1].Sources[0].String())
}

func TestBuild_ValidityIsTwoState(t *testing.T) {
	tests := []struct {
		raw  string
		want Indicator
	}{
		{raw: `{"logic": {"isValid": true}}`, want: Indicator{Positive: true, Label: LabelValid}},
		{raw: `{"logic": {"isValid": false}}`, want: Indicator{Label: LabelInvalid}},
		{raw: `{"logic": {}}`, want: Indicator{Label: LabelInvalid}},
		{raw: `{"logic": {"isValid": "true"}}`, want: Indicator{Label: LabelInvalid}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, contentOf(t, Build(mustNormalize(t, tt.raw)), TitleFormalLogic), tt.raw)
	}
}

func TestBuild_ValidArgumentScenario(t *testing.T) {
	res := mustNormalize(t, `{
		"gpt": {
			"premises": [{"natural": "Todos os corvos são pretos"}, {"natural": "este pássaro é um corvo"}],
			"conclusion": {"natural": "este pássaro é preto"}
		},
		"logic": {"isValid": true},
		"fact_check": [{"verified": true, "explicacao": "ok"}, {"verified": true, "explicacao": "ok"}],
		"noticias": [],
		"verdict": "Argumento sólido"
	}`)
	secs := Build(res)

	assert.Len(t, contentOf(t, secs, TitlePremises).(Lines).Items, 2)
	assert.Equal(t, Text{Value: "este pássaro é preto"}, contentOf(t, secs, TitleConclusion))
	assert.Equal(t, Indicator{Positive: true, Label: LabelValid}, contentOf(t, secs, TitleFormalLogic))

	fc := contentOf(t, secs, TitleFactCheck).(FactChecks)
	require.Len(t, fc.Items, 2)
	for _, item := range fc.Items {
		assert.Equal(t, LabelVerified, item.Status)
	}

	assert.Empty(t, contentOf(t, secs, TitleNews).(News).Blocks)
	assert.Equal(t, Text{Value: "Argumento sólido"}, contentOf(t, secs, TitleVerdict))
	assert.Equal(t, Text{Value: NoCounterexample, Placeholder: true}, contentOf(t, secs, TitleCounterexample))
}

func TestBuild_Deterministic(t *testing.T) {
	res := mustNormalize(t, `{"propositions": {"b": {}, "a": {}}, "logic": {"atoms": ["X"], "truthTable": [{"X": true}]}}`)
	first := Build(res)
	for i := 0; i < 10; i++ {
		if diff := cmp.Diff(first, Build(res)); diff != "" {
			t.Fatalf("build %d differs:\n%s", i, diff)
		}
	}
}
