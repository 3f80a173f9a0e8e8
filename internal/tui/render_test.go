package tui

import (
	"reflect"
	"strings"
	"testing"

	"github.com/agentdeck/agentdeck/internal/models"
	"github.com/agentdeck/agentdeck/internal/workspace"
)

func sampleTree() []models.FileNode {
	return []models.FileNode{
		{
			Name: "out",
			Path: "/out",
			Kind: models.KindDirectory,
			Children: []models.FileNode{
				{Name: "report.md", Path: "/out/report.md", Kind: models.KindFile},
				{
					Name: "logs",
					Path: "/out/logs",
					Kind: models.KindDirectory,
					Children: []models.FileNode{
						{Name: "run.log", Path: "/out/logs/run.log", Kind: models.KindFile},
					},
				},
			},
		},
		{Name: "notes.txt", Path: "/notes.txt", Kind: models.KindFile},
	}
}

func rowPaths(rows []Row) []string {
	paths := make([]string, len(rows))
	for i, r := range rows {
		paths[i] = r.Path
	}
	return paths
}

func TestFlattenCollapsedShowsOnlyTopLevel(t *testing.T) {
	rows := Flatten(sampleTree(), workspace.NewExpansionState())

	want := []string{"/out", "/notes.txt"}
	if got := rowPaths(rows); !reflect.DeepEqual(got, want) {
		t.Fatalf("rows = %v, want %v", got, want)
	}
}

func TestFlattenExpandedDirectoriesShowChildrenInOrder(t *testing.T) {
	exp := workspace.NewExpansionState()
	exp.Expand("/out")
	exp.Expand("/out/logs")

	rows := Flatten(sampleTree(), exp)

	want := []string{"/out", "/out/report.md", "/out/logs", "/out/logs/run.log", "/notes.txt"}
	if got := rowPaths(rows); !reflect.DeepEqual(got, want) {
		t.Fatalf("rows = %v, want %v", got, want)
	}

	depths := map[string]int{
		"/out":              0,
		"/out/report.md":    1,
		"/out/logs":         1,
		"/out/logs/run.log": 2,
		"/notes.txt":        0,
	}
	for _, r := range rows {
		if r.Depth != depths[r.Path] {
			t.Errorf("depth of %s = %d, want %d", r.Path, r.Depth, depths[r.Path])
		}
	}
}

func TestFlattenSkipsChildrenOfCollapsedNestedDirectory(t *testing.T) {
	exp := workspace.NewExpansionState()
	exp.Expand("/out")
	// /out/logs stays collapsed.

	rows := Flatten(sampleTree(), exp)

	for _, r := range rows {
		if r.Path == "/out/logs/run.log" {
			t.Fatal("child of collapsed directory is visible")
		}
	}
}

func TestFlattenIsPure(t *testing.T) {
	exp := workspace.NewExpansionState()
	exp.Expand("/out")
	tree := sampleTree()

	first := Flatten(tree, exp)
	second := Flatten(tree, exp)

	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical inputs produced different projections")
	}
}

func TestRowLabel(t *testing.T) {
	cases := []struct {
		row  Row
		want string
	}{
		{Row{Name: "out", IsDir: true, Expanded: true}, "▾ out/"},
		{Row{Name: "out", IsDir: true}, "▸ out/"},
		{Row{Name: "notes.txt"}, "  notes.txt"},
		{Row{Name: "run.log", Depth: 2}, "      run.log"},
	}
	for _, tc := range cases {
		if got := RowLabel(tc.row); got != tc.want {
			t.Errorf("RowLabel(%+v) = %q, want %q", tc.row, got, tc.want)
		}
	}
}

func TestRenderRowsMarksCursorAndPreviewed(t *testing.T) {
	rows := []Row{
		{Name: "a.txt", Path: "/a.txt"},
		{Name: "b.txt", Path: "/b.txt"},
	}

	lines := RenderRows(rows, 1, "/a.txt", DefaultTheme, 40)

	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(lines))
	}
	for i, r := range rows {
		if !strings.Contains(lines[i], r.Name) {
			t.Errorf("line %d %q does not contain %q", i, lines[i], r.Name)
		}
	}
}

func TestRenderRowsTruncatesToWidth(t *testing.T) {
	rows := []Row{{Name: strings.Repeat("x", 50), Path: "/long"}}

	lines := RenderRows(rows, -1, "", DefaultTheme, 10)

	if got := len([]rune(stripANSI(lines[0]))); got > 10 {
		t.Fatalf("rendered width = %d, want <= 10", got)
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
