package cli

import (
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/logle/pkg/analyzer/mail"
	"github.com/matzehuels/logle/pkg/ast"
	"github.com/matzehuels/logle/pkg/graph"
)

func pickerGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	if err := g.Initialize(mail.Schema()); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"alice", "bob", "carol"} {
		if _, err := g.FindOrAddNode(ast.Tag(mail.TagUser, ast.String(name))); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func press(m NodePickerModel, keys ...tea.KeyMsg) (NodePickerModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(NodePickerModel)
	}
	return m, cmd
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyMark  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func TestNodePicker_MarkAndConfirm(t *testing.T) {
	m := NewNodePickerModel(pickerGraph(t), []int64{0})
	if len(m.Items) != 3 || m.Items[1].Value != `"bob"` || m.Items[1].Tag != mail.TagUser {
		t.Fatalf("Items = %+v", m.Items)
	}

	// Unmark the preset alice, mark carol.
	m, _ = press(m, keyMark, keyDown, keyDown, keyMark)
	m, cmd := press(m, keyEnter)
	if !m.Done || m.Cancelled || cmd == nil {
		t.Fatalf("enter should confirm and quit: done=%v cancelled=%v", m.Done, m.Cancelled)
	}
	if got := m.Selection(); !slices.Equal(got, []int64{2}) {
		t.Errorf("Selection() = %v, want [2]", got)
	}
}

func TestNodePicker_Cancel(t *testing.T) {
	m, cmd := press(NewNodePickerModel(pickerGraph(t), nil), keyMark, keyEsc)
	if !m.Cancelled || m.Done || cmd == nil {
		t.Errorf("esc should cancel: done=%v cancelled=%v", m.Done, m.Cancelled)
	}
}

func TestNodePicker_CursorBounds(t *testing.T) {
	m := NewNodePickerModel(pickerGraph(t), nil)
	m.Height = 2

	m, _ = press(m, keyUp)
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d after up at top, want 0", m.Cursor)
	}
	m, _ = press(m, keyDown, keyDown, keyDown)
	if m.Cursor != 2 || m.Offset != 1 {
		t.Errorf("Cursor, Offset = %d, %d; want 2, 1", m.Cursor, m.Offset)
	}
}

func TestNodePicker_View(t *testing.T) {
	m, _ := press(NewNodePickerModel(pickerGraph(t), nil), keyDown, keyMark)
	view := m.View()
	for _, want := range []string{"Select nodes to delete", `"carol"`, "[x]", "1 marked"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}

func TestNodePicker_Empty(t *testing.T) {
	g := graph.New()
	if err := g.Initialize(mail.Schema()); err != nil {
		t.Fatal(err)
	}
	m, _ := press(NewNodePickerModel(g, nil), keyDown, keyMark, keyEnter)
	if !m.Done || len(m.Selection()) != 0 {
		t.Errorf("empty picker: done=%v selection=%v", m.Done, m.Selection())
	}
}
