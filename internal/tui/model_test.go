package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	mdwerror "github.com/msto63/lavoisier/foundation/core/error"
	"github.com/msto63/lavoisier/internal/lavoisier/catalog"
	"github.com/msto63/lavoisier/internal/lavoisier/service"
	"github.com/msto63/lavoisier/internal/lavoisier/store"
)

type fakeBackend struct {
	balanced map[string]string
	records  []*store.Record
}

func (f *fakeBackend) Balance(ctx context.Context, equation string) (*service.BalanceResult, error) {
	if out, ok := f.balanced[equation]; ok {
		return &service.BalanceResult{Equation: equation, Balanced: out, Elements: []string{"H", "O"}}, nil
	}
	return nil, mdwerror.New("cannot parse equation").
		WithCode(mdwerror.CodeSyntax).
		WithDetail("column", 3)
}

func (f *fakeBackend) Examples(ctx context.Context) ([]catalog.Example, error) {
	return []catalog.Example{
		{Name: "water", Equation: "H2 + O2 = H2O"},
		{Name: "ozone", Equation: "O2 -> O3"},
	}, nil
}

func (f *fakeBackend) History(ctx context.Context, filter store.Filter) ([]*store.Record, error) {
	return f.records, nil
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	backend := &fakeBackend{
		balanced: map[string]string{"H2 + O2 -> H2O": "2H2 + O2 -> 2H2O"},
		records: []*store.Record{
			{Timestamp: time.Now(), Equation: "H2 -> O2", Status: store.StatusFailed, ErrorCode: "ALL_ZERO", Source: "cli"},
		},
	}
	m := New(Config{
		Backend:  backend,
		Settings: NewSettingsStore(filepath.Join(t.TempDir(), "tui.json")),
	})
	return update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

// press sends a key and returns the command for inspection
func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func TestModel_Balance(t *testing.T) {
	m := newTestModel(t)
	m = typeText(t, m, "H2 + O2 -> H2O")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.loading || cmd == nil {
		t.Fatal("Enter did not start balancing")
	}
	if m.input.Value() != "" {
		t.Errorf("input not cleared: %q", m.input.Value())
	}

	m = update(t, m, m.balance("H2 + O2 -> H2O")())
	if m.loading {
		t.Error("still loading after the result arrived")
	}
	if len(m.entries) != 1 || m.entries[0].Result == nil {
		t.Fatalf("entries = %+v", m.entries)
	}
	if view := m.View(); !strings.Contains(view, "2H2 + O2 -> 2H2O") {
		t.Errorf("View() does not show the balanced equation:\n%s", view)
	}
}

func TestModel_ErrorShowsCaret(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, m.balance("H2 ) O2")())

	out := renderEntry(m.entries[0])
	if !strings.Contains(out, "[SYNTAX]") {
		t.Errorf("entry misses the error code:\n%s", out)
	}
	if !strings.Contains(out, "    ^") {
		t.Errorf("entry misses the caret:\n%s", out)
	}
}

func TestModel_EmptyInputIgnored(t *testing.T) {
	m := newTestModel(t)
	m = typeText(t, m, "   ")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.loading || cmd != nil {
		t.Error("blank input started balancing")
	}
}

func TestModel_InputHistory(t *testing.T) {
	m := newTestModel(t)
	for _, eq := range []string{"A -> A", "B -> B"} {
		m = typeText(t, m, eq)
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		m.loading = false
	}
	m = typeText(t, m, "draft")

	steps := []struct {
		key  tea.KeyType
		want string
	}{
		{tea.KeyUp, "B -> B"},
		{tea.KeyUp, "A -> A"},
		{tea.KeyUp, "A -> A"},
		{tea.KeyDown, "B -> B"},
		{tea.KeyDown, "draft"},
	}
	for i, s := range steps {
		m, _ = press(t, m, tea.KeyMsg{Type: s.key})
		if got := m.input.Value(); got != s.want {
			t.Errorf("step %d: input = %q, want %q", i, got, s.want)
		}
	}

	// Persisted for the next session
	again := New(Config{Backend: &fakeBackend{}, Settings: m.config.Settings})
	if diff := cmp.Diff([]string{"A -> A", "B -> B"}, again.inputHistory); diff != "" {
		t.Errorf("persisted history mismatch (-want +got):\n%s", diff)
	}
}

func TestModel_Examples(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, m.loadExamples())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlE})
	if m.input.Value() != "H2 + O2 = H2O" {
		t.Errorf("input = %q", m.input.Value())
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlE})
	if m.input.Value() != "O2 -> O3" {
		t.Errorf("input = %q", m.input.Value())
	}
}

func TestModel_HistoryView(t *testing.T) {
	m := newTestModel(t)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.view != ViewHistory || cmd == nil {
		t.Fatal("Tab did not switch to the history view")
	}
	m = update(t, m, m.loadHistory())
	if view := m.View(); !strings.Contains(view, "ALL_ZERO") {
		t.Errorf("history view misses the record:\n%s", view)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.view != ViewBalance || !m.input.Focused() {
		t.Error("Tab did not return to the focused balance view")
	}
}

func TestModel_ClearAndQuit(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, m.balance("H2 + O2 -> H2O")())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	if len(m.entries) != 0 {
		t.Error("Ctrl+L did not clear the entries")
	}

	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("Esc returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Esc did not quit")
	}
}

func TestSettingsStore(t *testing.T) {
	s := NewSettingsStore(filepath.Join(t.TempDir(), "nested", "tui.json"))
	if got := s.LoadInputHistory(); len(got) != 0 {
		t.Errorf("fresh store history = %v", got)
	}

	history := make([]string, maxInputHistory+5)
	for i := range history {
		history[i] = strings.Repeat("x", i+1)
	}
	if err := s.SaveInputHistory(history); err != nil {
		t.Fatalf("SaveInputHistory() error = %v", err)
	}
	got := s.LoadInputHistory()
	if len(got) != maxInputHistory || got[0] != history[5] {
		t.Errorf("loaded %d entries, first %q", len(got), got[0])
	}

	disabled := NewSettingsStore("")
	if err := disabled.SaveInputHistory([]string{"x"}); err != nil {
		t.Errorf("disabled store Save() error = %v", err)
	}
}
