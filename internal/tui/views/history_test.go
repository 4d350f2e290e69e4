package views

import (
	"context"
	"encoding/json"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/pnc/internal/tui/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedHistory(t *testing.T, store *fakeStore) HistoryModel {
	t.Helper()
	m := NewHistoryModel(store, theme.Dark(), nil)
	m.SetSize(100, 40)
	msgs := run(m.Load())
	require.Len(t, msgs, 1)
	m, _ = m.Update(msgs[0])
	return m
}

func TestHistory_Disabled(t *testing.T) {
	m := NewHistoryModel(nil, theme.Dark(), nil)
	assert.Nil(t, m.Load())
	assert.Contains(t, m.View(), "Histórico desativado")
}

func TestHistory_Empty(t *testing.T) {
	m := loadedHistory(t, &fakeStore{})
	assert.Contains(t, m.View(), "Nenhuma análise salva")
}

func TestHistory_NavigateAndOpen(t *testing.T) {
	store := &fakeStore{}
	for _, text := range []string{"primeiro", "segundo", "terceiro"} {
		_, err := store.Save(context.Background(), text, json.RawMessage(`{}`))
		require.NoError(t, err)
	}
	m := loadedHistory(t, store)

	view := m.View()
	assert.Contains(t, view, "3 análises")
	assert.Contains(t, view, "▸ "+store.saved[2].ID.String()[:8], "newest first and selected")

	m, _ = m.Update(key("j"))
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	msgs := run(cmd)
	require.Len(t, msgs, 1)
	open, ok := msgs[0].(OpenEntryMsg)
	require.True(t, ok)
	assert.Equal(t, "segundo", open.Entry.Text)
}

func TestHistory_Delete(t *testing.T) {
	store := &fakeStore{}
	kept, _ := store.Save(context.Background(), "fica", json.RawMessage(`{}`))
	dropped, _ := store.Save(context.Background(), "sai", json.RawMessage(`{}`))
	m := loadedHistory(t, store)

	m, cmd := m.Update(key("d"))
	msgs := run(cmd)
	require.Len(t, msgs, 1)
	m, cmd = m.Update(msgs[0])
	msgs = run(cmd)
	require.Len(t, msgs, 1)
	m, _ = m.Update(msgs[0])

	assert.Equal(t, []string{dropped.ID.String()}, store.deleted)
	e, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, kept.ID, e.ID)
}

func TestHistory_ReloadsAfterSave(t *testing.T) {
	store := &fakeStore{}
	m := loadedHistory(t, store)

	e, _ := store.Save(context.Background(), "novo", json.RawMessage(`{}`))
	m, cmd := m.Update(EntrySavedMsg{Entry: e})
	msgs := run(cmd)
	require.Len(t, msgs, 1)
	m, _ = m.Update(msgs[0])

	got, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "novo", got.Text)
}
