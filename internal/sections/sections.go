// Package sections turns an analysis result into the fixed, ordered list of
// display sections shown to the user. Building is pure; renderers for plain
// text and markdown live alongside, the styled terminal renderer lives in tui.
package sections

// Section titles, in display order.
const (
	TitlePremises           = "Premissas"
	TitleConclusion         = "Conclusão"
	TitleFormalLogic        = "Lógica Formal"
	TitleLogicExplanation   = "Explicação da Lógica"
	TitleCounterexample     = "Contraexemplo"
	TitleTruthTable         = "Tabela Verdade"
	TitlePropositions       = "Proposições Formais"
	TitleFactCheck          = "Fact-check"
	TitleNews               = "Notícias"
	TitleVerdict            = "Veredito Geral"
	TitleVerdictExplanation = "Explicação do Veredito"
)

// Fixed display text.
const (
	Dash                = "—"
	NoConclusion        = "— Sem conclusão —"
	LabelValid          = "Valid"
	LabelInvalid        = "Invalid"
	NoCounterexample    = "no counterexample — argument valid."
	TableNotAvailable   = "table not available"
	LabelVerified       = "Verified"
	LabelNotConfirmed   = "Not confirmed"
	NoSources           = "no source returned for this premise"
	CellTrue            = "True"
	CellFalse           = "False"
	CellYes             = "Yes"
	CellNo              = "No"
	AssignmentTrue      = "Verdadeiro"
	AssignmentFalse     = "Falso"
	ColumnPremises      = "Premises"
	ColumnConclusion    = "Conclusion"
	ColumnValid         = "Valid"
	ColumnLabel         = "Rótulo"
	ColumnNatural       = "Natural"
	ColumnFormal        = "Formal"
	ColumnType          = "Tipo"
	CounterDescription  = "Descrição"
	CounterValues       = "Valores"
	CounterPremises     = "Premissas"
	CounterConclusion   = "Conclusão"
	CounterExplanation  = "Explicação"
	NewsPremisePrefix   = "Premissa"
	tableSummaryFormat  = "%d linhas"
	tableSummaryOneLine = "1 linha"
)

// Titles returns every section title in display order.
func Titles() []string {
	return []string{
		TitlePremises,
		TitleConclusion,
		TitleFormalLogic,
		TitleLogicExplanation,
		TitleCounterexample,
		TitleTruthTable,
		TitlePropositions,
		TitleFactCheck,
		TitleNews,
		TitleVerdict,
		TitleVerdictExplanation,
	}
}

// Section is one titled block of the report.
type Section struct {
	Title   string
	Content Content
}

// Content is the renderable body of a section. The concrete types are the
// ones declared in this package; renderers switch on them.
type Content interface {
	isContent()
}

// Text is a single paragraph. Placeholder is set when Value is fallback text.
type Text struct {
	Value       string
	Placeholder bool
}

// Line is a labeled line such as "P1: ...".
type Line struct {
	Label string
	Text  string
}

// Lines is an ordered list of labeled lines; it may be empty.
type Lines struct {
	Items []Line
}

// Indicator is a two-state badge.
type Indicator struct {
	Positive bool
	Label    string
}

// Table is tabular data. A Collapsible table starts collapsed and its
// Summary (the row count) is shown before the rows are expanded.
type Table struct {
	Columns     []string
	Rows        [][]string
	Collapsible bool
	Summary     string
}

// Counterexample shows a valuation that refutes the argument.
type Counterexample struct {
	Description string
	Values      []Line // "A: Verdadeiro"
	Premises    string // Literal dump
	Conclusion  string // Literal dump
	Explanation string
}

// FactCheckItem is the verdict on one premise.
type FactCheckItem struct {
	Label       string // "P1"
	Premise     string // Paired premise text, "" when there is none
	Verified    bool
	Status      string
	Explanation string
}

// FactChecks lists one item per fact-check entry.
type FactChecks struct {
	Items []FactCheckItem
}

// NewsSource is one outlet's take on a premise.
type NewsSource struct {
	Outlet  string
	Opinion string
	Link    string
}

// String formats the source as "{fonte}: {opniao} — [link]".
func (s NewsSource) String() string {
	return s.Outlet + ": " + s.Opinion + " " + Dash + " [" + s.Link + "]"
}

// NewsBlock groups the sources of one premise. Empty holds the fixed
// message shown instead of an empty list.
type NewsBlock struct {
	Premise string
	Sources []NewsSource
	Empty   string
}

// News lists one block per premise that was searched.
type News struct {
	Blocks []NewsBlock
}

func (Text) isContent()           {}
func (Lines) isContent()          {}
func (Indicator) isContent()      {}
func (Table) isContent()          {}
func (Counterexample) isContent() {}
func (FactChecks) isContent()     {}
func (News) isContent()           {}
