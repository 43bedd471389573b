package cli

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/logle/pkg/ast"
	"github.com/matzehuels/logle/pkg/graph"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listMarkedStyle   = lipgloss.NewStyle().Foreground(colorYellow)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// pickItem is one node row in the picker.
type pickItem struct {
	ID    int64
	Tag   string
	Value string
}

// NodePickerModel is the bubbletea model for marking nodes to delete.
type NodePickerModel struct {
	Items     []pickItem
	Marked    map[int64]bool
	Cursor    int
	Offset    int
	Height    int
	Done      bool
	Cancelled bool
}

// NewNodePickerModel lists the nodes of g in creation order with the ids in
// preset already marked.
func NewNodePickerModel(g *graph.Graph, preset []int64) NodePickerModel {
	m := NodePickerModel{Marked: make(map[int64]bool), Height: 15}
	for n := range g.Nodes() {
		m.Items = append(m.Items, pickItem{
			ID:    int64(n.ID),
			Tag:   n.Label.Tag,
			Value: ast.Format(n.Label.Value),
		})
	}
	for _, id := range preset {
		m.Marked[id] = true
	}
	return m
}

func (m NodePickerModel) Init() tea.Cmd {
	return nil
}

func (m NodePickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Cancelled = true
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "x":
			if len(m.Items) > 0 {
				id := m.Items[m.Cursor].ID
				if m.Marked[id] {
					delete(m.Marked, id)
				} else {
					m.Marked[id] = true
				}
			}
		case "enter":
			m.Done = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m NodePickerModel) View() string {
	var b strings.Builder

	b.WriteString(listSelectedStyle.Render("Select nodes to delete"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space mark  ⏎ render  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Items))
	var rows [][]string
	for i := m.Offset; i < end; i++ {
		it := m.Items[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := "[ ]"
		if m.Marked[it.ID] {
			mark = "[x]"
		}
		rows = append(rows, []string{cursor, mark, strconv.FormatInt(it.ID, 10), it.Tag, it.Value})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(listDimStyle).
		Headers("", "", "ID", "Tag", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return listHeaderStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Items) {
				return lipgloss.NewStyle()
			}
			switch {
			case idx == m.Cursor:
				return listSelectedStyle
			case m.Marked[m.Items[idx].ID]:
				return listMarkedStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d marked", m.Cursor+1, len(m.Items), len(m.Marked))))
	return b.String()
}

// Selection returns the marked ids in ascending order.
func (m NodePickerModel) Selection() []int64 {
	ids := make([]int64, 0, len(m.Marked))
	for id := range m.Marked {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// pickNodes runs the picker on the command's terminal. The list is drawn on
// stderr so a graph rendered to stdout stays clean. Quitting without
// confirming returns context.Canceled.
func pickNodes(cmd *cobra.Command, g *graph.Graph, preset []int64) ([]int64, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(NewNodePickerModel(g, preset),
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.ErrOrStderr()),
	)
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	m, ok := final.(NodePickerModel)
	if !ok || !m.Done {
		return nil, context.Canceled
	}
	return m.Selection(), nil
}
