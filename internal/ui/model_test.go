package ui

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nconklindev/manifest/internal/manifest"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type constSource int64

func (c constSource) Int64N(int64) int64 { return int64(c) }

func newTestModel(t *testing.T) (Model, string) {
	t.Helper()
	out := t.TempDir()
	m := InitialModel(Options{
		StartDir:   t.TempDir(),
		OutputDir:  out,
		Normalizer: manifest.NewNormalizer(manifest.WithSource(constSource(1))),
	})
	return m, out
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func rows(n int) []manifest.RawRow {
	out := make([]manifest.RawRow, n)
	for i := range out {
		out[i] = manifest.RawRow{"Reference": "ORD7", "ISBN": string(rune('a' + i)), "Qty": i}
	}
	return out
}

func loaded(t *testing.T, n int) Model {
	t.Helper()
	m, _ := newTestModel(t)
	m.selectedFile = "orders.xlsx"
	m, _ = send(t, m, fileLoadedMsg{path: "orders.xlsx", rows: rows(n)})
	return m
}

func recordISBNs(m Model) []string {
	var out []string
	for _, rec := range m.store.Records() {
		out = append(out, rec.ISBN)
	}
	return out
}

func TestFileLoaded(t *testing.T) {
	m := loaded(t, 3)

	assert.Equal(t, statePreview, m.state)
	assert.Equal(t, 3, m.store.Len())
	assert.Len(t, m.table.Rows(), 3)
	assert.Equal(t, "File processed successfully", m.status.text)
	assert.True(t, m.keys.Export.Enabled())

	recs := m.store.Records()
	assert.Equal(t, manifest.TrackingPrefix+"1000000000001", recs[2].TrackingRef)
	assert.Equal(t, "00003", recs[2].LineNumber)
	assert.Contains(t, m.View(), "T1.MORD7.PBS")
}

func TestFileLoaded_FromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.csv")
	require.NoError(t, os.WriteFile(path, []byte("Reference,ISBN,qty\nR5,111,0\nR5,222,\n"), 0o644))

	m, _ := newTestModel(t)
	msg := loadFile(path)()
	m, _ = send(t, m, msg)

	require.Equal(t, statePreview, m.state)
	recs := m.store.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, "0", recs[0].Quantity)
	assert.Equal(t, "0", recs[1].Quantity, "blank quantity cell")
}

func TestFileLoaded_ErrorKeepsStore(t *testing.T) {
	m := loaded(t, 2)

	m, _ = send(t, m, fileLoadedMsg{path: "bad.xlsx", err: errors.New("zip: not a valid zip file")})
	assert.Equal(t, stateError, m.state)
	assert.Equal(t, 2, m.store.Len(), "a failed read commits nothing")
	assert.Contains(t, m.View(), "not a valid zip file")

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, stateFilePicker, m.state)
}

func TestFileLoaded_NoRowsKeepsBatch(t *testing.T) {
	m := loaded(t, 2)
	before := m.store.Records()

	m, _ = send(t, m, fileLoadedMsg{path: "/tmp/empty.xlsx", rows: nil})

	assert.Equal(t, statePreview, m.state)
	assert.Equal(t, before, m.store.Records(), "an empty sheet leaves the batch alone")
	assert.Len(t, m.table.Rows(), 2)
	assert.Equal(t, "No rows found in empty.xlsx", m.status.text)
	assert.Equal(t, statusWarning, m.status.kind)
	assert.True(t, m.keys.Export.Enabled())
}

func TestFileLoaded_NoRowsNothingLoaded(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = send(t, m, fileLoadedMsg{path: "/tmp/empty.xlsx", rows: nil})

	assert.Equal(t, stateFilePicker, m.state)
	assert.False(t, m.store.HasData())
	assert.Equal(t, "No rows found in empty.xlsx", m.status.text)
	assert.False(t, m.keys.Export.Enabled())
}

func TestDeleteRow(t *testing.T) {
	m := loaded(t, 3)
	m, _ = send(t, m, keyPress("down"))
	m, _ = send(t, m, keyPress("d"))

	assert.Equal(t, []string{"a", "c"}, recordISBNs(m))
	assert.Equal(t, "Row deleted", m.status.text)
	for i, rec := range m.store.Records() {
		assert.Equal(t, manifest.LineNumber(i+1), rec.LineNumber)
	}
}

func TestDeleteRow_LastKeepsCursorInBounds(t *testing.T) {
	m := loaded(t, 2)
	m, _ = send(t, m, keyPress("down"))
	m, _ = send(t, m, keyPress("d"))

	assert.Equal(t, 0, m.table.Cursor())
	m, _ = send(t, m, keyPress("d"))
	assert.False(t, m.store.HasData())
	assert.False(t, m.keys.Delete.Enabled())
}

func TestDeleteSelected(t *testing.T) {
	m := loaded(t, 5)
	m, _ = send(t, m, keyPress("down"))
	m, _ = send(t, m, keyPress(" "))
	m, _ = send(t, m, keyPress("down"))
	m, _ = send(t, m, keyPress("down"))
	m, _ = send(t, m, keyPress(" "))
	require.Equal(t, map[int]bool{1: true, 3: true}, m.selected)

	m, _ = send(t, m, keyPress("x"))

	assert.Equal(t, []string{"a", "c", "e"}, recordISBNs(m))
	assert.Equal(t, "Deleted 2 row(s)", m.status.text)
	assert.Empty(t, m.selected)
}

func TestDeleteSelected_NoneSelected(t *testing.T) {
	m := loaded(t, 2)
	m, _ = send(t, m, keyPress("x"))

	assert.Equal(t, 2, m.store.Len())
	assert.Equal(t, "No rows selected", m.status.text)
	assert.Equal(t, statusWarning, m.status.kind)
}

func TestToggleAll(t *testing.T) {
	m := loaded(t, 3)
	m, _ = send(t, m, keyPress("a"))
	assert.Len(t, m.selected, 3)

	m, _ = send(t, m, keyPress("a"))
	assert.Empty(t, m.selected)
}

func TestExport(t *testing.T) {
	m, out := newTestModel(t)
	m, _ = send(t, m, fileLoadedMsg{path: "orders.xlsx", rows: rows(2)})

	_, cmd := send(t, m, keyPress("e"))
	require.NotNil(t, cmd)
	msg := cmd()
	exported, ok := msg.(exportedMsg)
	require.True(t, ok)
	require.NoError(t, exported.err)

	m, _ = send(t, m, exported)
	path := filepath.Join(out, "T1.MORD7.PBS")
	assert.Equal(t, "Saved "+path, m.status.text)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	want, err := m.store.Serialize()
	require.NoError(t, err)
	assert.Equal(t, want, string(data))
}

func TestExported_NoData(t *testing.T) {
	m := loaded(t, 1)
	m, _ = send(t, m, exportedMsg{err: manifest.ErrNoData})

	assert.Equal(t, "No data to download", m.status.text)
	assert.Equal(t, statusWarning, m.status.kind)
}

func TestClear(t *testing.T) {
	m := loaded(t, 3)
	m, _ = send(t, m, keyPress("c"))

	assert.Equal(t, stateFilePicker, m.state)
	assert.False(t, m.store.HasData())
	assert.Equal(t, "All data cleared", m.status.text)
	assert.False(t, m.keys.Clear.Enabled())
}

func TestStatusExpires(t *testing.T) {
	m := loaded(t, 1)
	id := m.status.id

	m, _ = send(t, m, clearStatusMsg{id: id - 1})
	assert.NotEmpty(t, m.status.text, "stale timers leave newer messages alone")

	m, _ = send(t, m, clearStatusMsg{id: id})
	assert.Empty(t, m.status.text)
}
