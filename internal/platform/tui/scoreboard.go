package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/digger/internal/registry"
	"github.com/vovakirdan/digger/internal/storage"
)

const scoreboardRuns = 50

// runView selects which runs the scoreboard lists.
type runView int

const (
	viewBest runView = iota
	viewRecent
)

func (v runView) String() string {
	if v == viewRecent {
		return "Recent runs"
	}
	return "Best runs"
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextGame key.Binding
	PrevGame key.Binding
	Toggle   key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextGame, k.Toggle, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.NextGame, k.PrevGame, k.Toggle},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		NextGame: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next variant")),
		PrevGame: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab", "prev variant")),
		Toggle:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "best/recent")),
		Back:     key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardModel lists stored runs per variant.
type ScoreboardModel struct {
	games      []registry.GameInfo
	gameCursor int
	view       runView
	store      *storage.Store
	runs       []storage.Run
	stats      *storage.GameStats
	table      table.Model
	help       help.Model
	keys       ScoreboardKeyMap
	width      int
	height     int
	quitting   bool
	goingBack  bool
}

// NewScoreboardModel creates a scoreboard showing the first variant's best runs.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		games:  registry.List(),
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.help.Width = width
	m.table = m.newTable()
	m.load()
	return m
}

func (m *ScoreboardModel) newTable() table.Model {
	whenWidth := max(m.width-52, 12)
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 4},
			{Title: "Money", Width: 9},
			{Title: "Waste", Width: 6},
			{Title: "Outcome", Width: 12},
			{Title: "Time", Width: 8},
			{Title: "When", Width: min(whenWidth, 18)},
		}),
		table.WithFocused(true),
		table.WithHeight(max(m.height-12, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("94")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func (m *ScoreboardModel) gameID() string {
	if len(m.games) == 0 {
		return ""
	}
	return m.games[m.gameCursor].ID
}

// load fetches the runs and stats of the selected variant.
func (m *ScoreboardModel) load() {
	m.runs, m.stats = nil, nil
	id := m.gameID()
	if m.store != nil && id != "" {
		var err error
		if m.view == viewRecent {
			m.runs, err = m.store.RecentRuns(id, scoreboardRuns)
		} else {
			m.runs, err = m.store.TopRuns(id, scoreboardRuns)
		}
		if err != nil {
			logger.Warn("could not load runs", "game", id, "err", err)
		}
		if stats, err := m.store.GetGameStats(id); err == nil {
			m.stats = stats
		}
	}

	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		rows[i] = table.Row{
			strconv.Itoa(i + 1),
			"$" + humanize.Comma(int64(r.Money)),
			strconv.Itoa(r.Waste),
			r.Outcome,
			r.Duration.Round(time.Second).String(),
			humanize.Time(r.CreatedAt),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextGame), key.Matches(msg, m.keys.PrevGame):
			if n := len(m.games); n > 0 {
				step := 1
				if key.Matches(msg, m.keys.PrevGame) {
					step = n - 1
				}
				m.gameCursor = (m.gameCursor + step) % n
				m.load()
			}
			return m, nil

		case key.Matches(msg, m.keys.Toggle):
			m.view = 1 - m.view
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table = m.newTable()
		m.load()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

var (
	sbTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	sbActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("94")).Padding(0, 1)
	sbTabStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	sbDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	sbBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	tabs := make([]string, 0, len(m.games))
	for i, g := range m.games {
		if i == m.gameCursor {
			tabs = append(tabs, sbActiveStyle.Render(g.Title))
		} else {
			tabs = append(tabs, sbTabStyle.Render(g.Title))
		}
	}

	var body string
	if len(m.runs) == 0 {
		body = sbDimStyle.Italic(true).Padding(1, 2).Render("No runs recorded yet.\nDig something up to get on the board!")
	} else {
		body = m.table.View()
	}

	parts := []string{
		sbTitleStyle.Render("SCOREBOARD"),
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		sbDimStyle.Render(m.view.String()),
		sbBoxStyle.Render(body),
	}
	if summary := m.summary(); summary != "" {
		parts = append(parts, summary)
	}
	parts = append(parts, m.help.View(m.keys))

	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, lipgloss.JoinVertical(lipgloss.Center, parts...))
}

// summary renders the aggregate stats of the selected variant.
func (m ScoreboardModel) summary() string {
	if m.stats == nil || m.stats.GamesCount == 0 {
		return ""
	}
	fields := []string{
		humanize.Comma(int64(m.stats.GamesCount)) + " runs",
		fmt.Sprintf("%d won", m.stats.Wins),
		"best $" + humanize.Comma(int64(m.stats.HighScore)),
		fmt.Sprintf("avg $%.1f", m.stats.AvgScore),
	}
	if m.stats.TotalWaste > 0 {
		fields = append(fields, humanize.Comma(m.stats.TotalWaste)+" waste")
	}
	fields = append(fields, "last "+humanize.Time(m.stats.LastPlayed))
	return sbDimStyle.Render(strings.Join(fields, "  ·  "))
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
