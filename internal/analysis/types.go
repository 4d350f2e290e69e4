// Package analysis defines the shape of an argument analysis returned by the
// remote API and the single place where missing fields receive defaults.
package analysis

import "encoding/json"

// ValueKind tells how a loosely-typed JSON scalar arrived.
type ValueKind int

const (
	ValueMissing ValueKind = iota // Field absent or null
	ValueBool                     // A JSON boolean
	ValueOther                    // Any other JSON value, kept as display text
)

// Value is a scalar whose type the API does not guarantee.
// Truth-table cells use it so that an unexpected value is shown, not dropped.
type Value struct {
	Kind ValueKind
	Bool bool   // Set when Kind == ValueBool
	Text string // Display text when Kind == ValueOther
}

// BoolValue returns a Value holding b.
func BoolValue(b bool) Value {
	return Value{Kind: ValueBool, Bool: b}
}

// MarshalJSON writes the value back as null, a boolean or a string.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueBool:
		return json.Marshal(v.Bool)
	case ValueOther:
		return json.Marshal(v.Text)
	default:
		return []byte("null"), nil
	}
}

// IsTrue reports whether v is the JSON boolean true.
func (v Value) IsTrue() bool {
	return v.Kind == ValueBool && v.Bool
}

// Statement is a natural-language sentence produced by the parser stage.
type Statement struct {
	Natural string `json:"natural"`
}

// Parse holds the premises and conclusion extracted from the input text.
type Parse struct {
	Premises   []Statement `json:"premises"`             // Order-significant, numbered P1..PN
	Conclusion *Statement  `json:"conclusion,omitempty"` // Nil when the API sent none
}

// Assignment is one atom's truth value in a counterexample.
type Assignment struct {
	Atom  string `json:"atom"`
	Value Value  `json:"value"`
}

// Counterexample is a valuation under which the premises hold and the
// conclusion fails. Premises and Conclusion are kept as raw JSON because the
// API sends arbitrary structures there and they are displayed verbatim.
type Counterexample struct {
	Description string          `json:"descricao"`
	Values      []Assignment    `json:"valores"` // In the order the API sent them
	Premises    json.RawMessage `json:"premissas,omitempty"`
	Conclusion  json.RawMessage `json:"conclusao,omitempty"`
	Explanation string          `json:"explicacao"`
}

// TruthRow is one line of the truth table.
type TruthRow struct {
	Atoms      map[string]Value `json:"atoms"` // Keyed by atom name
	Premises   json.RawMessage  `json:"premises,omitempty"`
	Conclusion Value            `json:"conclusion"`
	Valid      Value            `json:"VALID"`
}

// Logic is the formal-logic part of the analysis.
type Logic struct {
	IsValid     *bool           `json:"isValid,omitempty"` // Nil when absent; displayed as invalid
	Explanation string          `json:"explanation,omitempty"`
	Example     *Counterexample `json:"example,omitempty"`
	TruthTable  []TruthRow      `json:"truthTable,omitempty"`
	Atoms       []string        `json:"atoms,omitempty"` // Column order for TruthTable
}

// Valid reports the two-state validity used for display.
func (l Logic) Valid() bool {
	return l.IsValid != nil && *l.IsValid
}

// FactCheck assesses the premise at the same index in Parse.Premises.
type FactCheck struct {
	Verified    bool   `json:"verified"` // True only when the API sent boolean true
	Explanation string `json:"explicacao"`
}

// Proposition is a formalised premise or conclusion, keyed by its label.
type Proposition struct {
	Label   string `json:"label"`
	Natural string `json:"natural"`
	Formal  string `json:"formal"`
	Type    string `json:"type"`
}

// Source is a news outlet's position on a premise.
type Source struct {
	Outlet  string `json:"fonte"`
	Opinion string `json:"opniao"`
	Link    string `json:"link"`
}

// NewsItem groups the sources found for one premise.
type NewsItem struct {
	Premise string   `json:"premise"`
	Sources []Source `json:"sources"`
}

// Result is a fully-defaulted analysis. Every slice is non-nil after
// Normalize; optional scalars are empty strings or nil pointers.
type Result struct {
	Parse              Parse         `json:"gpt"`
	Logic              Logic         `json:"logic"`
	FactChecks         []FactCheck   `json:"fact_check"`
	Propositions       []Proposition `json:"propositions"` // In the API's key order
	News               []NewsItem    `json:"noticias"`
	Verdict            string        `json:"verdict,omitempty"`
	VerdictExplanation string        `json:"verdictExplanation,omitempty"`
}
