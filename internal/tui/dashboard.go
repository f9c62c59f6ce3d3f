package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/manav03panchal/brewlog/internal/model"
	"github.com/manav03panchal/brewlog/internal/output"
	"github.com/manav03panchal/brewlog/internal/store"
)

// tickMsg is sent when the timer ticks.
type tickMsg time.Time

// mode is what the dashboard is currently reading keys for.
type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeConfirmDelete
	modeEdit
)

// DashboardModel is the main bubbletea model for the dashboard.
type DashboardModel struct {
	store   *store.Store
	methods []string

	// View settings
	filter      store.Filter
	sort        store.Sort
	defaultSort store.Sort
	methodIdx   int // 0 is "all", i+1 is methods[i]

	// Derived data
	brews []*model.Brew

	// UI state
	mode       mode
	cursor     int
	search     []rune
	draft      model.BrewFields
	width      int
	height     int
	err        error
	message    string
	messageExp time.Time

	now             func() time.Time
	refreshInterval time.Duration
}

// DashboardConfig holds configuration for the dashboard.
type DashboardConfig struct {
	Store           *store.Store
	Methods         []string
	Sort            store.Sort
	RefreshInterval time.Duration
	Now             func() time.Time

	// Initial terminal size, until the first WindowSizeMsg arrives.
	Width  int
	Height int
}

// NewDashboardModel creates a new dashboard model.
func NewDashboardModel(config DashboardConfig) *DashboardModel {
	if config.RefreshInterval == 0 {
		config.RefreshInterval = time.Second
	}
	if config.Sort.Key == "" {
		config.Sort = store.DefaultSort
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	m := &DashboardModel{
		store:           config.Store,
		methods:         config.Methods,
		filter:          store.Filter{Method: store.MethodAll},
		sort:            config.Sort,
		defaultSort:     config.Sort,
		width:           config.Width,
		height:          config.Height,
		now:             config.Now,
		refreshInterval: config.RefreshInterval,
	}
	m.refresh()
	return m
}

// Init initializes the model.
func (m *DashboardModel) Init() tea.Cmd {
	return m.tickCmd()
}

// Update handles messages and updates the model.
func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		// Clear expired messages
		if !m.messageExp.IsZero() && m.now().After(m.messageExp) {
			m.message = ""
			m.messageExp = time.Time{}
		}
		return m, m.tickCmd()
	}

	return m, nil
}

// handleKeyPress dispatches keyboard input by mode.
func (m *DashboardModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.mode {
	case modeSearch:
		m.handleSearchKey(msg)
		return m, nil
	case modeConfirmDelete:
		m.handleConfirmKey(msg)
		return m, nil
	case modeEdit:
		m.handleEditKey(msg)
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.brews)-1 {
			m.cursor++
		}

	case "m":
		m.cycleMethod()

	case "+", "=":
		m.setMinScore(m.filter.MinScore + 1)

	case "-":
		m.setMinScore(m.filter.MinScore - 1)

	case "s":
		if m.sort.Key == store.SortByCreatedAt {
			m.sort.Key = store.SortByScore
		} else {
			m.sort.Key = store.SortByCreatedAt
		}
		m.refresh()

	case "o":
		m.sort = m.sort.Toggle()
		m.refresh()

	case "/":
		m.mode = modeSearch
		m.search = []rune(m.filter.Keyword)

	case "r":
		m.filter = store.Filter{Method: store.MethodAll}
		m.methodIdx = 0
		m.sort = m.defaultSort
		m.refresh()
		m.setMessage("Filters reset", time.Second)

	case "e":
		m.beginEdit()

	case "d":
		if m.selected() != nil {
			m.mode = modeConfirmDelete
		}
	}

	return m, nil
}

func (m *DashboardModel) handleSearchKey(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEnter:
		m.mode = modeBrowse
	case tea.KeyEsc:
		m.search = nil
		m.mode = modeBrowse
	case tea.KeyBackspace:
		if len(m.search) > 0 {
			m.search = m.search[:len(m.search)-1]
		}
	case tea.KeySpace:
		m.search = append(m.search, ' ')
	case tea.KeyRunes:
		m.search = append(m.search, msg.Runes...)
	default:
		return
	}
	m.filter.Keyword = string(m.search)
	m.refresh()
}

func (m *DashboardModel) handleConfirmKey(msg tea.KeyMsg) {
	m.mode = modeBrowse
	if msg.String() != "y" {
		m.setMessage("Delete cancelled", time.Second)
		return
	}

	b := m.selected()
	if b == nil {
		return
	}
	ok, err := m.store.Delete(b.ID)
	if err != nil {
		m.err = err
		return
	}
	if ok {
		m.setMessage("Deleted "+b.Bean, 2*time.Second)
	}
	m.refresh()
}

func (m *DashboardModel) beginEdit() {
	b := m.selected()
	if b == nil || !m.store.BeginEdit(b.ID) {
		return
	}
	m.draft = b.Fields()
	m.mode = modeEdit
}

func (m *DashboardModel) handleEditKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "<", ",":
		m.draft.Score = clampScore(m.draft.Score - 0.5)
	case ">", ".":
		m.draft.Score = clampScore(m.draft.Score + 0.5)
	case "enter":
		saved, err := m.store.Submit(m.draft)
		m.mode = modeBrowse
		if err != nil {
			m.store.CancelEdit()
			m.err = err
			return
		}
		m.setMessage(fmt.Sprintf("Saved %s (%s)", saved.Bean, output.FormatScore(saved.Score)), 2*time.Second)
		m.refresh()
	case "esc":
		m.store.CancelEdit()
		m.mode = modeBrowse
	}
}

func (m *DashboardModel) cycleMethod() {
	m.methodIdx = (m.methodIdx + 1) % (len(m.methods) + 1)
	if m.methodIdx == 0 {
		m.filter.Method = store.MethodAll
	} else {
		m.filter.Method = m.methods[m.methodIdx-1]
	}
	m.refresh()
}

func (m *DashboardModel) setMinScore(score float64) {
	if score < 0 {
		score = 0
	}
	if score > model.MaxScore {
		score = model.MaxScore
	}
	m.filter.MinScore = score
	m.refresh()
}

func clampScore(score float64) float64 {
	if score < model.MinScore {
		return model.MinScore
	}
	if score > model.MaxScore {
		return model.MaxScore
	}
	return score
}

// refresh recomputes the visible brews and keeps the cursor in range.
func (m *DashboardModel) refresh() {
	m.brews = m.store.View(m.filter, m.sort)
	if m.cursor >= len(m.brews) {
		m.cursor = len(m.brews) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.err = nil
}

func (m *DashboardModel) selected() *model.Brew {
	if m.cursor < 0 || m.cursor >= len(m.brews) {
		return nil
	}
	return m.brews[m.cursor]
}

// View renders the dashboard.
func (m *DashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var sections []string

	sections = append(sections, m.renderHeader())

	if m.err != nil {
		sections = append(sections, StyleError.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	if prompt := m.renderPrompt(); prompt != "" {
		sections = append(sections, prompt)
	} else if m.message != "" {
		sections = append(sections, StyleWarning.Render(m.message))
	}

	avg, ok := m.store.Average()
	stats := &StatsComponent{
		Total:   m.store.Len(),
		Shown:   len(m.brews),
		Average: avg,
		HasData: ok,
		Filter:  m.filter,
		Sort:    m.sort,
		Width:   m.width,
	}
	sections = append(sections, stats.View())

	// Each brew takes two lines; leave room for the header, stats and help.
	rows := (m.height - 12) / 2
	list := &BrewsComponent{
		Brews:     m.brews,
		Cursor:    m.cursor,
		EditingID: m.store.EditingID(),
		Width:     m.width,
		Height:    rows,
	}
	sections = append(sections, list.View())

	sections = append(sections, HelpBar(m.mode == modeEdit))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *DashboardModel) renderPrompt() string {
	switch m.mode {
	case modeSearch:
		return StyleHelpKey.Render("Search: ") + string(m.search) + "▏"
	case modeConfirmDelete:
		if b := m.selected(); b != nil {
			return StyleWarning.Render(fmt.Sprintf("Delete %s? (y/n)", b.Bean))
		}
	case modeEdit:
		line := StyleEditing.Render("Editing "+m.draft.Bean) + "  score " + StyleScore.Render(output.FormatScore(m.draft.Score))
		return line + "  " + ScoreBar(m.draft.Score, 20)
	}
	return ""
}

// renderHeader renders the dashboard header.
func (m *DashboardModel) renderHeader() string {
	title := StyleTitle.Render("Brewlog")
	now := m.now().Format("Mon Jan 2, 15:04")
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", StyleSubtitle.Render(now)) + "\n"
}

// setMessage sets a temporary message.
func (m *DashboardModel) setMessage(msg string, duration time.Duration) {
	m.message = msg
	m.messageExp = m.now().Add(duration)
}

// tickCmd returns a command that sends a tick message.
func (m *DashboardModel) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Run starts the dashboard TUI.
func Run(config DashboardConfig) error {
	p := tea.NewProgram(NewDashboardModel(config), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
