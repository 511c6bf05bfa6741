package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-lander/internal/registry"
	"github.com/vovakirdan/tui-lander/internal/storage"
)

// Browser layout constants
const (
	minWidthForSidebar = 90  // Minimum width to show the controller sidebar
	sidebarWidth       = 24  // Width of the controller sidebar
	maxRecords         = 200 // Max episodes to load per controller
)

// EpisodeSource is the read side of the episode store.
type EpisodeSource interface {
	RecentEpisodes(controller string, limit int) ([]storage.EpisodeRecord, error)
	GetControllerStats(controller string) (*storage.ControllerStats, error)
}

// BrowserKeyMap defines the key bindings for the episode browser.
type BrowserKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Next key.Binding
	Prev key.Binding
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k BrowserKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Next, k.Prev, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k BrowserKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Next, k.Prev, k.Quit}}
}

// DefaultBrowserKeyMap returns default key bindings.
func DefaultBrowserKeyMap() BrowserKeyMap {
	return BrowserKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab/l", "next controller"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab/h", "prev controller"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// BrowserModel is the Bubble Tea model for browsing stored episodes.
type BrowserModel struct {
	controllers []registry.ControllerInfo
	cursor      int
	source      EpisodeSource
	records     []storage.EpisodeRecord
	stats       *storage.ControllerStats
	loadErr     error
	table       table.Model
	help        help.Model
	keys        BrowserKeyMap
	width       int
	height      int
	quitting    bool
}

// NewBrowserModel creates a browser over the given controllers.
func NewBrowserModel(source EpisodeSource, controllers []registry.ControllerInfo, width, height int) BrowserModel {
	m := BrowserModel{
		controllers: controllers,
		source:      source,
		help:        help.New(),
		keys:        DefaultBrowserKeyMap(),
		width:       width,
		height:      height,
	}
	m.table = m.createTable()
	if len(m.controllers) > 0 {
		m.load()
	}
	return m
}

func (m *BrowserModel) showSidebar() bool { return m.width >= minWidthForSidebar }

// createTable creates the episode table sized to the window.
func (m *BrowserModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Seed", Width: 20},
		{Title: "Outcome", Width: 10},
		{Title: "Pad", Width: 4},
		{Title: "Steps", Width: 6},
		{Title: "Reward", Width: 9},
		{Title: "Played", Width: 12},
	}
	if m.width > 0 && m.width < 80 {
		columns[1].Width = 10
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-12, 5)), // Header, summary and help
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// load fetches the records and stats of the selected controller.
func (m *BrowserModel) load() {
	id := m.controllers[m.cursor].ID
	m.records, m.stats, m.loadErr = nil, nil, nil

	if m.source == nil {
		m.updateRows()
		return
	}
	records, err := m.source.RecentEpisodes(id, maxRecords)
	if err != nil {
		m.loadErr = err
	}
	m.records = records
	if stats, err := m.source.GetControllerStats(id); err == nil {
		m.stats = stats
	}
	m.updateRows()
}

// updateRows refreshes the table from the loaded records.
func (m *BrowserModel) updateRows() {
	rows := make([]table.Row, len(m.records))
	for i, r := range m.records {
		rows[i] = table.Row{
			strconv.FormatInt(r.ID, 10),
			strconv.FormatInt(r.Seed, 10),
			r.Outcome,
			yesNo(r.PadContact),
			strconv.Itoa(r.Steps),
			fmt.Sprintf("%.1f", r.Reward),
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Selected returns the ID of the selected controller, or "" with none.
func (m BrowserModel) Selected() string {
	if len(m.controllers) == 0 {
		return ""
	}
	return m.controllers[m.cursor].ID
}

// Records returns the loaded episodes of the selected controller.
func (m BrowserModel) Records() []storage.EpisodeRecord { return m.records }

// Init initializes the browser model.
func (m BrowserModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the browser.
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Next):
			if n := len(m.controllers); n > 0 {
				m.cursor = (m.cursor + 1) % n
				m.load()
			}
			return m, nil

		case key.Matches(msg, m.keys.Prev):
			if n := len(m.controllers); n > 0 {
				m.cursor = (m.cursor + n - 1) % n
				m.load()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateRows()
		m.help.Width = msg.Width
		return m, nil
	}

	// Scrolling and everything else goes to the table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the browser.
func (m BrowserModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := "EPISODES"
	if len(m.controllers) > 0 {
		title = fmt.Sprintf("EPISODES - %s", m.controllers[m.cursor].Title)
	}
	b.WriteString(m.center(titleStyle.Render(title)))
	b.WriteString("\n\n")

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Render(m.renderContent())

	if m.showSidebar() {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", panel))
	} else {
		b.WriteString(m.center(m.renderTabs()))
		b.WriteString("\n\n")
		b.WriteString(m.center(panel))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m BrowserModel) center(s string) string {
	if m.width <= 0 {
		return s
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, s)
}

// renderSidebar lists the controllers with the cursor on the selected one.
func (m BrowserModel) renderSidebar() string {
	var sb strings.Builder
	sb.WriteString("Controllers\n")
	sb.WriteString(strings.Repeat("-", sidebarWidth-4))
	sb.WriteString("\n")

	for i, c := range m.controllers {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		sb.WriteString(style.Render(cursor + c.ID))
		sb.WriteString("\n")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1).
		Render(sb.String())
}

// renderTabs shows the controllers as a single line of tabs.
func (m BrowserModel) renderTabs() string {
	active := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(m.controllers))
	for i, c := range m.controllers {
		if i == m.cursor {
			tabs[i] = active.Render(c.ID)
		} else {
			tabs[i] = dimStyle.Render(" " + c.ID + " ")
		}
	}
	line := strings.Join(tabs, " ")
	if m.width > 0 && lipgloss.Width(line) > m.width-4 && len(m.controllers) > 0 {
		line = fmt.Sprintf("< %s >", m.controllers[m.cursor].ID)
	}
	return line
}

// renderContent renders the summary line and the table, or an empty message.
func (m BrowserModel) renderContent() string {
	empty := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case len(m.controllers) == 0:
		return empty.Render("No controllers registered.")
	case m.loadErr != nil:
		return empty.Render("Cannot load episodes:\n" + m.loadErr.Error())
	case len(m.records) == 0:
		return empty.Render("No episodes recorded yet.\nRun a session to record some!")
	}

	var sb strings.Builder
	if s := m.stats; s != nil {
		fmt.Fprintf(&sb, "%d episodes  landed %s  success %s  avg reward %.1f\n\n",
			s.Episodes, pct(s.LandingRate()), pct(s.SuccessRate()), s.AvgReward)
	}
	sb.WriteString(m.table.View())
	return sb.String()
}

// RunBrowser runs the episode browser until the user quits.
func RunBrowser(source EpisodeSource, controllers []registry.ControllerInfo, width, height int) error {
	p := tea.NewProgram(
		NewBrowserModel(source, controllers, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
