package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agentdeck/agentdeck/internal/models"
	"github.com/agentdeck/agentdeck/internal/workspace"
)

// indentWidth is the per-level indent applied to nested rows.
const indentWidth = 2

// Row is one visible line of the tree projection.
type Row struct {
	Name     string
	Path     string
	IsDir    bool
	Depth    int
	Expanded bool
}

// Flatten projects the tree snapshot and expansion state into the ordered
// list of visible rows. Pure: identical inputs produce identical output,
// sibling order is preserved from the snapshot, and children appear only
// under expanded directories. Depth is unbounded.
func Flatten(nodes []models.FileNode, expansion *workspace.ExpansionState) []Row {
	var rows []Row
	flattenInto(&rows, nodes, expansion, 0)
	return rows
}

func flattenInto(rows *[]Row, nodes []models.FileNode, expansion *workspace.ExpansionState, depth int) {
	for i := range nodes {
		n := &nodes[i]
		expanded := n.IsDir() && expansion.IsExpanded(n.Path)
		*rows = append(*rows, Row{
			Name:     n.Name,
			Path:     n.Path,
			IsDir:    n.IsDir(),
			Depth:    depth,
			Expanded: expanded,
		})
		if expanded {
			flattenInto(rows, n.Children, expansion, depth+1)
		}
	}
}

// RowLabel renders the plain-text form of a row: indent, chevron or bullet,
// name. Shared between the styled TUI renderer and the one-shot tree
// command.
func RowLabel(row Row) string {
	indent := strings.Repeat(" ", row.Depth*indentWidth)
	switch {
	case row.IsDir && row.Expanded:
		return indent + "▾ " + row.Name + "/"
	case row.IsDir:
		return indent + "▸ " + row.Name + "/"
	default:
		return indent + "  " + row.Name
	}
}

// RenderRows renders rows into styled terminal lines. cursor is the index
// of the focused row (-1 for none), previewedPath marks the file whose body
// is open in the preview pane. Pure over its inputs.
func RenderRows(rows []Row, cursor int, previewedPath string, theme Theme, width int) []string {
	lines := make([]string, len(rows))

	normal := lipgloss.NewStyle().Foreground(theme.NormalText)
	dir := lipgloss.NewStyle().Foreground(theme.DirectoryColor)
	previewed := lipgloss.NewStyle().Foreground(theme.PreviewedColor)
	selected := lipgloss.NewStyle().
		Foreground(theme.SelectedForeground).
		Background(theme.SelectedBackground).
		Bold(true)

	for i, row := range rows {
		label := RowLabel(row)
		if width > 0 && lipgloss.Width(label) > width {
			label = truncate(label, width)
		}

		style := normal
		switch {
		case i == cursor:
			style = selected
			if width > 0 {
				label += strings.Repeat(" ", max(0, width-lipgloss.Width(label)))
			}
		case row.IsDir:
			style = dir
		case row.Path == previewedPath:
			style = previewed
		}
		lines[i] = style.Render(label)
	}

	return lines
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}
