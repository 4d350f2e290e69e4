// Package session sequences one analysis interaction: input validation, the
// outstanding request, and the result or failure that is currently shown.
//
// A Machine is not safe for concurrent use. It is driven by a single event
// loop (the TUI update loop, or a command running one submission); the only
// thing that happens elsewhere is the network call itself.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/f3rmion/pnc/internal/analysis"
	"go.uber.org/zap"
)

// State is the lifecycle state of the interaction.
type State int

const (
	Idle State = iota
	Submitting
	Success
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// User-facing notices. Diagnostic detail goes to the log, never here.
const (
	NoticeValidation = "Digite um texto"
	NoticeFailure    = "Erro ao chamar API"
	NoticeInProgress = "Analisando..."
)

// ErrEmptyInput is returned by Submit for empty or whitespace-only text.
var ErrEmptyInput = analysis.NewError(analysis.KindValidation, errors.New("input is empty"))

// Ticket identifies one submission. Only the ticket of the most recent
// submission may change what is displayed.
type Ticket uint64

// Analyzer performs the remote analysis.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (json.RawMessage, error)
}

// Machine holds the (state, result) pair and the notice shown to the user.
type Machine struct {
	state  State
	result *analysis.Result
	notice string
	err    error
	latest Ticket
	logger *zap.Logger
}

// New creates an idle machine. A nil logger discards diagnostics.
func New(logger *zap.Logger) *Machine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Machine{logger: logger}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Result returns the displayed result, or nil when none is shown.
func (m *Machine) Result() *analysis.Result { return m.result }

// Notice returns the validation, failure or progress notice, if any.
func (m *Machine) Notice() string { return m.notice }

// Err returns the error that moved the machine to Failed.
func (m *Machine) Err() error { return m.err }

// Pending returns the ticket of the most recent submission.
func (m *Machine) Pending() Ticket { return m.latest }

// Submit starts a submission of text.
//
// Empty input is refused with ErrEmptyInput: no ticket is issued, the state
// does not change and the validation notice is raised, unless a request is
// outstanding, whose progress notice stays. Otherwise any shown
// result or notice is cleared, the machine enters Submitting, and the returned
// ticket must accompany the outcome passed to Resolve or Reject.
func (m *Machine) Submit(text string) (Ticket, error) {
	if strings.TrimSpace(text) == "" {
		if m.state != Submitting {
			m.notice = NoticeValidation
		}
		return 0, ErrEmptyInput
	}

	m.latest++
	m.state = Submitting
	m.result = nil
	m.err = nil
	m.notice = NoticeInProgress

	m.logger.Debug("submission started",
		zap.Uint64("ticket", uint64(m.latest)),
		zap.Int("chars", len(text)))

	return m.latest, nil
}

// Resolve delivers the raw body for ticket t. It reports whether the outcome
// was applied; outcomes of superseded submissions are dropped. A body that
// does not normalize is handled as a failure.
func (m *Machine) Resolve(t Ticket, raw json.RawMessage) bool {
	if !m.current(t) {
		m.logger.Debug("dropping stale response", zap.Uint64("ticket", uint64(t)))
		return false
	}

	res, err := analysis.Normalize(raw)
	if err != nil {
		m.fail(err)
		return true
	}

	m.state = Success
	m.result = &res
	m.notice = ""
	m.logger.Info("analysis received",
		zap.Uint64("ticket", uint64(t)),
		zap.Int("premises", len(res.Parse.Premises)),
		zap.Bool("valid", res.Logic.Valid()))
	return true
}

// Reject delivers a failure for ticket t. It reports whether it was applied.
func (m *Machine) Reject(t Ticket, err error) bool {
	if !m.current(t) {
		m.logger.Debug("dropping stale failure", zap.Uint64("ticket", uint64(t)), zap.Error(err))
		return false
	}
	m.fail(err)
	return true
}

// Edit records that the input changed. A finished interaction returns to
// Idle and its failure notice is cleared; a shown result stays visible.
func (m *Machine) Edit() {
	switch m.state {
	case Success:
		m.state = Idle
	case Failed:
		m.state = Idle
		m.notice = ""
		m.err = nil
	case Idle:
		if m.notice == NoticeValidation {
			m.notice = ""
		}
	}
}

// Show displays a result that did not come from a submission, such as one
// reopened from history. Any outstanding submission is superseded.
func (m *Machine) Show(res analysis.Result) {
	m.latest++
	m.state = Success
	m.result = &res
	m.err = nil
	m.notice = ""
}

// Run performs one complete submission synchronously.
func (m *Machine) Run(ctx context.Context, a Analyzer, text string) error {
	t, err := m.Submit(text)
	if err != nil {
		return err
	}

	raw, err := a.Analyze(ctx, text)
	if err != nil {
		m.Reject(t, err)
		return err
	}

	m.Resolve(t, raw)
	return m.err
}

func (m *Machine) current(t Ticket) bool {
	return m.state == Submitting && t == m.latest
}

func (m *Machine) fail(err error) {
	m.state = Failed
	m.result = nil
	m.err = err
	m.notice = NoticeFailure

	kind := analysis.KindOf(err)
	if kind == analysis.KindUnknown {
		kind = analysis.KindNetworkOrServer
	}
	m.logger.Error("analysis failed",
		zap.Uint64("ticket", uint64(m.latest)),
		zap.String("kind", kind.String()),
		zap.Int("status", analysis.StatusOf(err)),
		zap.Error(err))
}
