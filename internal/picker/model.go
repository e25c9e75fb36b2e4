package picker

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dshills/suggestmsg/internal/suggest"
)

// pickerState represents the current state of the picker's state machine.
type pickerState int

const (
	stateIdle      pickerState = iota // Initial state before first fetch
	stateLoading                      // Request in flight
	stateLoaded                       // Candidates available (len > 0)
	stateEmpty                        // Request succeeded with 0 candidates
	stateError                        // Request failed
	stateCancelled                    // User dismissed the picker
)

// fetchDoneMsg is sent when a load finishes.
type fetchDoneMsg struct {
	requestID uint64
	items     []suggest.Candidate
	err       error
}

// initMsg triggers the first fetch through Update.
type initMsg struct{}

// Model is the Bubble Tea model for choosing a commit message.
type Model struct {
	state     pickerState
	items     []suggest.Candidate
	selection int // -1 when empty
	err       error
	prefix    string

	// requestID is bumped on every fetch and on dismissal. A fetchDoneMsg
	// with any other ID is stale.
	requestID uint64
	attempt   int
	load      suggest.LoadFunc
	parent    context.Context

	spinner spinner.Model

	width  int
	height int

	result string
	chosen bool

	cancelFetch context.CancelFunc
}

// NewModel creates a picker that obtains candidates from load. Requests run
// under ctx.
func NewModel(ctx context.Context, load suggest.LoadFunc) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle
	return Model{
		state:     stateIdle,
		selection: -1,
		load:      load,
		parent:    ctx,
		spinner:   s,
	}
}

// WithPrefix sets the prefix shown in the header.
func (m Model) WithPrefix(prefix string) Model {
	m.prefix = prefix
	return m
}

// Result returns the chosen label and whether one was chosen. An accepted
// label may be empty.
func (m Model) Result() (string, bool) {
	return m.result, m.chosen
}

// Empty reports whether the last request succeeded with no candidates.
func (m Model) Empty() bool {
	return m.state == stateEmpty
}

// Err returns the error of the last request, if it failed.
func (m Model) Err() error {
	if m.state == stateError {
		return m.err
	}
	return nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return initMsg{} }
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case fetchDoneMsg:
		return m.handleFetchDone(msg)

	case spinner.TickMsg:
		if m.state != stateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case initMsg:
		return m, tea.Batch(m.startFetch(), m.spinner.Tick)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c", "q":
		m.state = stateCancelled
		m.cancelInflight()
		m.requestID++
		return m, tea.Quit

	case "enter":
		if m.state == stateLoading || m.state == stateIdle {
			return m, nil
		}
		switch {
		case m.selection >= 0 && m.selection < len(m.items):
			m.result = m.items[m.selection].Label
			m.chosen = true
		case m.state != stateEmpty:
			m.state = stateCancelled
		}
		m.cancelInflight()
		return m, tea.Quit

	case "up", "k":
		if m.state == stateLoaded && m.selection > 0 {
			m.selection--
		}
		return m, nil

	case "down", "j":
		if m.state == stateLoaded && m.selection < len(m.items)-1 {
			m.selection++
		}
		return m, nil

	case "r":
		if m.state == stateLoading {
			return m, nil
		}
		m.attempt++
		return m, tea.Batch(m.startFetch(), m.spinner.Tick)
	}

	return m, nil
}

func (m Model) handleFetchDone(msg fetchDoneMsg) (tea.Model, tea.Cmd) {
	if msg.requestID != m.requestID || m.state == stateCancelled {
		return m, nil
	}
	m.cancelInflight()

	if msg.err != nil {
		m.state = stateError
		m.err = msg.err
		m.items = nil
		m.selection = -1
		return m, tea.Quit
	}

	m.items = msg.items
	if len(m.items) == 0 {
		m.state = stateEmpty
		m.selection = -1
	} else {
		m.state = stateLoaded
		m.selection = 0
	}
	return m, nil
}

// startFetch cancels any in-flight request, bumps requestID and returns a
// command that performs the load.
func (m *Model) startFetch() tea.Cmd {
	m.cancelInflight()
	m.requestID++
	m.state = stateLoading

	parent := m.parent
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	m.cancelFetch = cancel

	reqID := m.requestID
	attempt := m.attempt
	load := m.load
	return func() tea.Msg {
		items, err := load(ctx, attempt)
		return fetchDoneMsg{requestID: reqID, items: items, err: err}
	}
}

func (m *Model) cancelInflight() {
	if m.cancelFetch != nil {
		m.cancelFetch()
		m.cancelFetch = nil
	}
}

// --- View rendering ---

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	countStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	spinnerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
)

const helpLine = "↑/↓ move • enter accept • r regenerate • esc cancel"

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	title := "Pick a commit message"
	if m.prefix != "" {
		title += fmt.Sprintf(" (prefix %q)", m.prefix)
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteRune('\n')

	b.WriteString(m.viewContent())
	b.WriteRune('\n')

	b.WriteString(dimStyle.Render(helpLine))
	b.WriteRune('\n')
	return b.String()
}

func (m Model) viewContent() string {
	switch m.state {
	case stateIdle, stateLoading:
		return m.spinner.View() + " " + dimStyle.Render("Asking for suggestions...")

	case stateEmpty:
		return dimStyle.Render("No suggestions returned. Press r to try again.")

	case stateError:
		msg := "Error"
		if m.err != nil {
			msg = fmt.Sprintf("Error: %s", m.err)
		}
		return errorStyle.Render(msg)

	case stateCancelled:
		return dimStyle.Render("Cancelled")

	case stateLoaded:
		return m.viewList()

	default:
		return ""
	}
}

func (m Model) viewList() string {
	var b strings.Builder
	maxItems := m.listHeight()
	for i, item := range m.items {
		if i >= maxItems {
			break
		}
		count := fmt.Sprintf("  %d×", item.Count)
		display := StripANSI(item.Label)
		if m.width > 0 {
			display = MiddleTruncate(display, m.width-2-len(count))
		}

		if i == m.selection {
			b.WriteString(selectedStyle.Render("> " + display))
		} else {
			b.WriteString(normalStyle.Render("  " + display))
		}
		b.WriteString(countStyle.Render(count))
		if i < len(m.items)-1 && i < maxItems-1 {
			b.WriteRune('\n')
		}
	}
	return b.String()
}

// listHeight returns the number of visible rows (terminal height minus the
// title and help lines).
func (m Model) listHeight() int {
	const chrome = 2
	h := m.height - chrome
	if h < 1 {
		h = 20
	}
	return h
}
