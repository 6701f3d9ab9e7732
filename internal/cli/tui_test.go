package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/nodeweave/pkg/graph"
	"github.com/matzehuels/nodeweave/pkg/nodes"
)

func browserScene(t *testing.T) (*graph.Scene, *graph.Node, *graph.Node) {
	t.Helper()
	s := graph.New(graph.WithRegistry(nodes.NewRegistry()))
	a, err := s.NewNode(nodes.TypeVarFloat, "speed", graph.Point{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.NewNode(nodes.TypeGeneric, "sum", graph.Point{X: 300})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Connect(a.Outputs[0], b.Inputs[0]); err != nil {
		t.Fatal(err)
	}
	return s, a, b
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNodeBrowserNavigation(t *testing.T) {
	s, _, _ := browserScene(t)
	var m tea.Model = NewNodeBrowserModel("test", s)

	steps := []struct {
		key    string
		cursor int
	}{
		{"up", 0},
		{"down", 1},
		{"down", 1},
		{"k", 0},
		{"j", 1},
	}
	for _, st := range steps {
		m, _ = m.Update(key(st.key))
		if got := m.(NodeBrowserModel).Cursor; got != st.cursor {
			t.Fatalf("after %s cursor = %d, want %d", st.key, got, st.cursor)
		}
	}

	m, _ = m.Update(key("enter"))
	if !m.(NodeBrowserModel).Details {
		t.Error("enter did not open details")
	}
	view := m.View()
	if !strings.Contains(view, "speed #") || !strings.Contains(view, "[2/2]") {
		t.Errorf("View() missing connection or position:\n%s", view)
	}

	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("q did not quit")
	}
}

func TestConnections(t *testing.T) {
	s, a, b := browserScene(t)

	got := connections(s, a)
	if !strings.Contains(got, "sum #") {
		t.Errorf("connections(speed) = %q, want peer sum", got)
	}
	got = connections(s, b)
	if !strings.Contains(got, "unconnected") {
		t.Errorf("connections(sum) = %q, want an unconnected socket", got)
	}
}

func TestParseNodeType(t *testing.T) {
	reg := nodes.NewRegistry()
	tests := []struct {
		in      string
		want    graph.NodeType
		wantErr bool
	}{
		{"Undefined", nodes.TypeGeneric, false},
		{"float", nodes.TypeVarFloat, false},
		{"4", nodes.TypeVarString, false},
		{"99", 0, true},
		{"matrix", 0, true},
	}
	for _, tt := range tests {
		got, err := parseNodeType(reg, tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseNodeType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseNodeType(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		t    time.Time
		want string
	}{
		{time.Time{}, "—"},
		{now.Add(-30 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-2 * 24 * time.Hour), "2d ago"},
		{now.Add(-30 * 24 * time.Hour), "Feb 8, 2025"},
	}
	for _, tt := range tests {
		if got := formatRelativeTime(tt.t, now); got != tt.want {
			t.Errorf("formatRelativeTime(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}
}
