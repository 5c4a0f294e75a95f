// ============================================================================
// Lavoisier - Chemical Equation Balancer
// ============================================================================
//
// Package:     tui
// Description: Bubbletea model of the interactive balancer
// Author:      Mike Stoffels
// Created:     2025-12-13
// License:     MIT
// ============================================================================

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	mdwerror "github.com/msto63/lavoisier/foundation/core/error"
	"github.com/msto63/lavoisier/internal/lavoisier/catalog"
	"github.com/msto63/lavoisier/internal/lavoisier/store"
)

// View represents different views in the TUI
type View int

const (
	ViewBalance View = iota
	ViewHistory
)

// Config holds TUI configuration
type Config struct {
	Backend      Backend
	Settings     *SettingsStore // nil disables input history persistence
	HistoryLimit int
	Timeout      time.Duration
	Title        string // shown in the header, e.g. "local" or the server address
}

// Model is the main TUI model
type Model struct {
	// State
	view    View
	width   int
	height  int
	ready   bool
	loading bool

	// Components
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	// Balance view
	entries      []Entry
	examples     []catalog.Example
	exampleIndex int

	// Input history
	inputHistory []string
	historyIndex int // -1 while editing a new input
	currentInput string

	// History view
	records    []*store.Record
	historyErr error

	config Config
}

// New creates a new TUI model
func New(cfg Config) Model {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 50
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Settings == nil {
		cfg.Settings = NewSettingsStore("")
	}

	ti := textinput.New()
	ti.Placeholder = "H2 + O2 -> H2O"
	ti.Prompt = "› "
	ti.CharLimit = 4096
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	return Model{
		view:         ViewBalance,
		input:        ti,
		spinner:      sp,
		inputHistory: cfg.Settings.LoadInputHistory(),
		historyIndex: -1,
		config:       cfg,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.loadExamples,
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if next, cmd, handled := m.handleKeyPress(msg); handled {
			return next, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3 // title + tabs
		footerHeight := 5 // input box + status bar + help
		viewportHeight := msg.Height - headerHeight - footerHeight
		if viewportHeight < 1 {
			viewportHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(msg.Width, viewportHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = viewportHeight
		}
		m.input.Width = msg.Width - 6
		m.updateViewportContent()

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case balanceResultMsg:
		m.loading = false
		m.entries = append(m.entries, Entry{
			Input:     msg.input,
			Result:    msg.result,
			Err:       msg.err,
			Timestamp: time.Now(),
		})
		m.updateViewportContent()
		m.viewport.GotoBottom()

	case examplesLoadedMsg:
		if msg.err == nil {
			m.examples = msg.examples
		}

	case historyLoadedMsg:
		m.loading = false
		m.records = msg.records
		m.historyErr = msg.err
		m.updateViewportContent()
		m.viewport.GotoTop()
	}

	if m.view == ViewBalance {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKeyPress handles keys the model owns. Unhandled keys fall through
// to the input and the viewport.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit, true

	case tea.KeyTab:
		if m.view == ViewBalance {
			m.view = ViewHistory
			m.input.Blur()
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.loadHistory), true
		}
		m.view = ViewBalance
		m.updateViewportContent()
		m.viewport.GotoBottom()
		cmd := m.input.Focus()
		return m, cmd, true

	case tea.KeyCtrlL:
		m.entries = nil
		m.updateViewportContent()
		return m, nil, true
	}

	if m.view != ViewBalance {
		if msg.Type == tea.KeyRunes && string(msg.Runes) == "r" {
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.loadHistory), true
		}
		return m, nil, false
	}

	switch msg.Type {
	case tea.KeyEnter:
		input := strings.TrimSpace(m.input.Value())
		if input == "" || m.loading {
			return m, nil, true
		}
		m.addToHistory(input)
		m.input.Reset()
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.balance(input)), true

	case tea.KeyUp:
		m.navigateHistory(1)
		return m, nil, true

	case tea.KeyDown:
		m.navigateHistory(-1)
		return m, nil, true

	case tea.KeyCtrlE:
		if len(m.examples) > 0 {
			ex := m.examples[m.exampleIndex%len(m.examples)]
			m.exampleIndex++
			m.input.SetValue(ex.Equation)
			m.input.CursorEnd()
		}
		return m, nil, true
	}
	return m, nil, false
}

// addToHistory appends input unless it repeats the last entry
func (m *Model) addToHistory(input string) {
	m.historyIndex = -1
	m.currentInput = ""
	if n := len(m.inputHistory); n > 0 && m.inputHistory[n-1] == input {
		return
	}
	m.inputHistory = append(m.inputHistory, input)
	_ = m.config.Settings.SaveInputHistory(m.inputHistory)
}

// navigateHistory moves through earlier inputs, step 1 is older
func (m *Model) navigateHistory(step int) {
	if len(m.inputHistory) == 0 {
		return
	}
	if m.historyIndex == -1 {
		if step < 0 {
			return
		}
		m.currentInput = m.input.Value()
	}

	next := m.historyIndex + step
	switch {
	case next < 0:
		m.historyIndex = -1
		m.input.SetValue(m.currentInput)
	case next >= len(m.inputHistory):
		return
	default:
		m.historyIndex = next
		m.input.SetValue(m.inputHistory[len(m.inputHistory)-1-next])
	}
	m.input.CursorEnd()
}

func (m Model) balance(input string) tea.Cmd {
	backend, timeout := m.config.Backend, m.config.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		result, err := backend.Balance(ctx, input)
		return balanceResultMsg{input: input, result: result, err: err}
	}
}

func (m Model) loadExamples() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), m.config.Timeout)
	defer cancel()
	examples, err := m.config.Backend.Examples(ctx)
	return examplesLoadedMsg{examples: examples, err: err}
}

func (m Model) loadHistory() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), m.config.Timeout)
	defer cancel()
	records, err := m.config.Backend.History(ctx, store.Filter{Limit: m.config.HistoryLimit})
	return historyLoadedMsg{records: records, err: err}
}

func (m *Model) updateViewportContent() {
	if !m.ready {
		return
	}
	if m.view == ViewHistory {
		m.viewport.SetContent(m.renderHistory())
		return
	}
	m.viewport.SetContent(m.renderEntries())
}

// View renders the model
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	if m.view == ViewBalance {
		b.WriteString(FocusedInputStyle.Width(m.width - 2).Render(m.input.View()))
		b.WriteString("\n")
	}
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) renderHeader() string {
	title := RenderTitle("Lavoisier")
	if m.config.Title != "" {
		title += " " + SubtitleStyle.Render(m.config.Title)
	}

	tabs := []string{"Balance", "History"}
	rendered := make([]string, len(tabs))
	for i, t := range tabs {
		if View(i) == m.view {
			rendered[i] = ActiveTabStyle.Render(t)
		} else {
			rendered[i] = TabStyle.Render(t)
		}
	}
	return title + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderEntries() string {
	if len(m.entries) == 0 {
		return SubtitleStyle.Render("Type an equation and press Enter. Ctrl+E inserts an example.")
	}

	var b strings.Builder
	for i, e := range m.entries {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(renderEntry(e))
	}
	return b.String()
}

// renderEntry renders one attempt. Syntax errors point at the offending
// column.
func renderEntry(e Entry) string {
	var b strings.Builder
	b.WriteString(PromptStyle.Render("› ") + e.Input + "\n")

	if e.Err != nil {
		code := mdwerror.GetCode(e.Err)
		var me *mdwerror.Error
		if errors.As(e.Err, &me) {
			if col, ok := me.Detail("column"); ok {
				if n, ok := toInt(col); ok && n > 0 {
					b.WriteString(CaretStyle.Render(strings.Repeat(" ", n+1)+"^") + "\n")
				}
			}
		}
		b.WriteString(RenderError(fmt.Sprintf("[%s] %s", code, e.Err.Error())) + "\n")
		return b.String()
	}

	r := e.Result
	b.WriteString("  " + BalancedStyle.Render(r.Balanced) + "\n")
	details := fmt.Sprintf("  elements %s · %s", strings.Join(r.Elements, " "), r.Duration.Round(time.Microsecond))
	if r.Cached {
		details += " · cached"
	}
	b.WriteString(DetailStyle.Render(details) + "\n")
	for _, w := range r.Warnings {
		b.WriteString(WarningStyle.Render("  ! "+w) + "\n")
	}
	return b.String()
}

func (m Model) renderHistory() string {
	if m.historyErr != nil {
		return RenderError(m.historyErr.Error())
	}
	if len(m.records) == 0 {
		return SubtitleStyle.Render("No balancing attempts recorded yet.")
	}

	var b strings.Builder
	for _, r := range m.records {
		ts := DetailStyle.Render(r.Timestamp.Local().Format("2006-01-02 15:04:05"))
		var outcome string
		if r.Status == store.StatusBalanced {
			outcome = StatusOKStyle.Render(r.Balanced)
		} else {
			outcome = StatusErrorStyle.Render(r.ErrorCode)
		}
		fmt.Fprintf(&b, "%s  %-8s %s\n    %s\n", ts, r.Source, r.Equation, outcome)
	}
	return b.String()
}

func (m Model) renderStatusBar() string {
	var status string
	switch {
	case m.loading:
		status = m.spinner.View() + " working"
	case m.view == ViewHistory:
		status = fmt.Sprintf("%d records", len(m.records))
	default:
		status = fmt.Sprintf("%d equations · %d examples", len(m.entries), len(m.examples))
	}
	return StatusBarStyle.Width(m.width).Render(status)
}

func (m Model) renderHelp() string {
	if m.view == ViewHistory {
		return RenderHelp("tab: balance · r: reload · ↑/↓ pgup/pgdn: scroll · esc: quit")
	}
	return RenderHelp("enter: balance · ↑/↓: input history · ctrl+e: example · ctrl+l: clear · tab: history · esc: quit")
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// Run starts the TUI
func Run(cfg Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
