package views

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/pnc/internal/history"
	"github.com/f3rmion/pnc/internal/sections"
	"github.com/f3rmion/pnc/internal/session"
	"github.com/f3rmion/pnc/internal/tui/theme"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBody = `{
	"gpt": {"premises": [{"natural": "Todo homem é mortal"}, {"natural": "Sócrates é homem"}], "conclusion": {"natural": "Sócrates é mortal"}},
	"logic": {"isValid": true, "atoms": ["p"], "truthTable": [{"p": true, "premises": [true], "conclusion": true, "VALID": true}]},
	"verdict": "Argumento válido"
}`

type fakeAnalyzer struct {
	mu    sync.Mutex
	calls []string
	raw   json.RawMessage
	err   error
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, text string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, text)
	return f.raw, f.err
}

type fakeStore struct {
	saved   []history.Entry
	deleted []string
	err     error
}

func (s *fakeStore) Save(ctx context.Context, text string, raw json.RawMessage) (history.Entry, error) {
	if s.err != nil {
		return history.Entry{}, s.err
	}
	e := history.Entry{ID: uuid.New(), Text: text, Raw: raw}
	s.saved = append(s.saved, e)
	return e, nil
}

func (s *fakeStore) List(ctx context.Context, limit int) ([]history.Entry, error) {
	out := make([]history.Entry, 0, len(s.saved))
	for i := len(s.saved) - 1; i >= 0; i-- {
		out = append(out, s.saved[i])
	}
	return out, s.err
}

func (s *fakeStore) Delete(ctx context.Context, id string) (history.Entry, error) {
	for i, e := range s.saved {
		if e.ID.String() == id {
			s.saved = append(s.saved[:i], s.saved[i+1:]...)
			s.deleted = append(s.deleted, id)
			return e, nil
		}
	}
	return history.Entry{}, history.ErrNotFound
}

// run executes cmd and returns its messages, expanding one level of batch.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		if c != nil {
			out = append(out, c())
		}
	}
	return out
}

func findDone(t *testing.T, msgs []tea.Msg) analysisDoneMsg {
	t.Helper()
	for _, msg := range msgs {
		if done, ok := msg.(analysisDoneMsg); ok {
			return done
		}
	}
	t.Fatalf("no analysisDoneMsg in %v", msgs)
	return analysisDoneMsg{}
}

var ctrlS = tea.KeyMsg{Type: tea.KeyCtrlS}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newAnalyze(a session.Analyzer, s HistoryStore) AnalyzeModel {
	m := NewAnalyzeModel(a, s, theme.Dark(), nil)
	m.SetSize(100, 60)
	return m
}

func TestAnalyze_BlankInputDoesNotCallBackend(t *testing.T) {
	a := &fakeAnalyzer{}
	m := newAnalyze(a, nil)
	m.editor.SetValue("   ")

	m, cmd := m.Update(ctrlS)

	assert.Nil(t, cmd)
	assert.Empty(t, a.calls)
	assert.Equal(t, session.Idle, m.State())
	assert.Contains(t, m.View(), session.NoticeValidation)
}

func TestAnalyze_SubmitAndSucceed(t *testing.T) {
	a := &fakeAnalyzer{raw: json.RawMessage(sampleBody)}
	store := &fakeStore{}
	m := newAnalyze(a, store)
	m.editor.SetValue("Todo homem é mortal, Sócrates é homem.")

	m, cmd := m.Update(ctrlS)
	require.NotNil(t, cmd)
	assert.Equal(t, session.Submitting, m.State())
	assert.Contains(t, m.View(), session.NoticeInProgress)
	assert.False(t, m.Capturing(), "editor is released while submitting")

	done := findDone(t, run(cmd))
	m, cmd = m.Update(done)

	assert.Equal(t, session.Success, m.State())
	require.Len(t, m.secs, len(sections.Titles()))
	view := m.View()
	assert.Contains(t, view, sections.TitlePremises)
	assert.Contains(t, view, "Todo homem é mortal")

	msgs := run(cmd)
	require.Len(t, msgs, 1)
	saved, ok := msgs[0].(EntrySavedMsg)
	require.True(t, ok)
	assert.Equal(t, "Todo homem é mortal, Sócrates é homem.", saved.Entry.Text)
	assert.Len(t, store.saved, 1)
}

func TestAnalyze_BlankSubmitWhileSubmitting(t *testing.T) {
	a := &fakeAnalyzer{raw: json.RawMessage(sampleBody)}
	m := newAnalyze(a, nil)
	m.editor.SetValue("texto")

	m, cmd := m.Update(ctrlS)
	done := findDone(t, run(cmd))

	m.editor.SetValue(" ")
	m, cmd = m.Update(ctrlS)

	assert.Nil(t, cmd)
	assert.Equal(t, session.Submitting, m.State())
	view := m.View()
	assert.Contains(t, view, session.NoticeInProgress)
	assert.NotContains(t, view, session.NoticeValidation)

	m, _ = m.Update(done)
	assert.Equal(t, session.Success, m.State())
}

func TestAnalyze_FailureShowsGenericNotice(t *testing.T) {
	a := &fakeAnalyzer{err: errors.New("dial tcp: connection refused")}
	store := &fakeStore{}
	m := newAnalyze(a, store)
	m.editor.SetValue("texto")

	m, cmd := m.Update(ctrlS)
	m, cmd = m.Update(findDone(t, run(cmd)))

	assert.Nil(t, cmd, "failures are not saved")
	assert.Equal(t, session.Failed, m.State())
	view := m.View()
	assert.Contains(t, view, session.NoticeFailure)
	assert.NotContains(t, view, "connection refused")
	assert.Empty(t, store.saved)
}

func TestAnalyze_StaleResponseIgnored(t *testing.T) {
	a := &fakeAnalyzer{raw: json.RawMessage(`{"verdict": "primeiro"}`)}
	m := newAnalyze(a, nil)
	m.editor.SetValue("primeiro")

	m, first := m.Update(ctrlS)
	firstDone := findDone(t, run(first))

	a.raw = json.RawMessage(`{"verdict": "segundo"}`)
	m, second := m.Update(ctrlS)
	secondDone := findDone(t, run(second))

	m, _ = m.Update(secondDone)
	m, _ = m.Update(firstDone)

	require.Equal(t, session.Success, m.State())
	assert.Equal(t, "segundo", m.machine.Result().Verdict)
}

func TestAnalyze_EditReturnsToIdle(t *testing.T) {
	a := &fakeAnalyzer{err: errors.New("boom")}
	m := newAnalyze(a, nil)
	m.editor.SetValue("texto")

	m, cmd := m.Update(ctrlS)
	m, _ = m.Update(findDone(t, run(cmd)))
	require.Equal(t, session.Failed, m.State())

	m, _ = m.Update(key("e"))
	require.True(t, m.Capturing())
	m, _ = m.Update(key("!"))

	assert.Equal(t, session.Idle, m.State())
	assert.NotContains(t, m.View(), session.NoticeFailure)
}

func TestAnalyze_TruthTableToggle(t *testing.T) {
	a := &fakeAnalyzer{raw: json.RawMessage(sampleBody)}
	m := newAnalyze(a, nil)
	m.editor.SetValue("texto")

	m, cmd := m.Update(ctrlS)
	m, _ = m.Update(findDone(t, run(cmd)))

	collapsed := RenderSections(m.secs, m.theme, 80, m.expand)
	assert.Contains(t, collapsed, "1 linha")
	assert.NotContains(t, collapsed, sections.ColumnConclusion)

	m, _ = m.Update(key("t"))
	require.True(t, m.expand)
	expanded := RenderSections(m.secs, m.theme, 80, m.expand)
	assert.Contains(t, expanded, sections.ColumnConclusion)
}

func TestAnalyze_CopyReport(t *testing.T) {
	a := &fakeAnalyzer{raw: json.RawMessage(sampleBody)}
	m := newAnalyze(a, nil)
	var copied string
	m.copy = func(s string) error {
		copied = s
		return nil
	}
	m.editor.SetValue("texto")

	m, cmd := m.Update(ctrlS)
	m, _ = m.Update(findDone(t, run(cmd)))
	m, cmd = m.Update(key("y"))

	require.NotNil(t, cmd)
	assert.True(t, m.copied)
	assert.Equal(t, sections.Report(m.secs), copied)
	assert.True(t, strings.HasPrefix(copied, "== "+sections.TitlePremises+" =="))

	m, _ = m.Update(clearCopiedMsg{})
	assert.False(t, m.copied)
}

func TestAnalyze_Open(t *testing.T) {
	m := newAnalyze(&fakeAnalyzer{}, nil)

	m.Open(history.Entry{ID: uuid.New(), Text: "salvo", Raw: json.RawMessage(sampleBody)})

	assert.Equal(t, session.Success, m.State())
	assert.Equal(t, "salvo", m.editor.Value())
	assert.False(t, m.Capturing())
	assert.Contains(t, m.View(), "Sócrates é mortal")
}
