package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/digger/internal/core"
	"github.com/vovakirdan/digger/internal/registry"
	"github.com/vovakirdan/digger/internal/storage"
)

// MenuItem is one variant in the picker.
type MenuItem struct {
	GameID string
	Title  string
	Runs   int // Recorded runs
	Best   int // Best recorded money
}

var (
	menuLogoStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("94"))
	menuItemStyle   = lipgloss.NewStyle().Padding(0, 2)
	menuCursorStyle = lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("94"))
	menuHintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// MenuModel lets the player pick a variant or open the scoreboard.
type MenuModel struct {
	items          []MenuItem
	cursor         int
	config         core.RuntimeConfig
	keyMapper      *KeyMapper
	quitting       bool
	selected       *MenuItem
	openScoreboard bool
}

// NewMenuModel lists the registered variants with their stored records.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig) MenuModel {
	var stats map[string]*storage.GameStats
	if store != nil {
		var err error
		if stats, err = store.GetAllGamesStats(); err != nil {
			logger.Warn("could not load stats", "err", err)
		}
	}

	games := registry.List()
	items := make([]MenuItem, len(games))
	for i, g := range games {
		items[i] = MenuItem{GameID: g.ID, Title: g.Title}
		if st, ok := stats[g.ID]; ok {
			items[i].Runs = st.GamesCount
			items[i].Best = st.HighScore
		}
	}

	return MenuModel{items: items, config: cfg, keyMapper: NewKeyMapper()}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height

	case tea.KeyMsg:
		switch m.keyMapper.MapKeyToMenuAction(msg) {
		case MenuActionQuit:
			m.quitting = true
			return m, tea.Quit
		case MenuActionUp:
			m.cursor = max(m.cursor-1, 0)
		case MenuActionDown:
			m.cursor = max(min(m.cursor+1, len(m.items)-1), 0)
		case MenuActionSelect:
			if len(m.items) > 0 {
				item := m.items[m.cursor]
				m.selected = &item
				return m, tea.Quit
			}
		case MenuActionScoreboard:
			m.openScoreboard = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (it MenuItem) label() string {
	if it.Runs == 0 {
		return it.Title
	}
	return fmt.Sprintf("%s   best $%s in %s runs", it.Title, humanize.Comma(int64(it.Best)), humanize.Comma(int64(it.Runs)))
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	lines := []string{
		"",
		menuLogoStyle.Render("D I G G E R"),
		menuHintStyle.Render("fly, dig, refuel"),
		"",
	}
	for i, it := range m.items {
		style := menuItemStyle
		if i == m.cursor {
			style = menuCursorStyle
		}
		lines = append(lines, style.Render(it.label()))
	}
	lines = append(lines, "", menuHintStyle.Render("↑/↓ choose · enter play · tab scores · q quit"))

	return lipgloss.PlaceHorizontal(m.config.ScreenW, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, lines...))
}

// Selected returns the chosen variant, or nil.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the runtime config, updated by resizes.
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// MenuResult is the outcome of a standalone menu program.
type MenuResult struct {
	GameID          string
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu until the player picks something.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig) (MenuResult, error) {
	final, err := tea.NewProgram(NewMenuModel(store, cfg), tea.WithAltScreen()).Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := final.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{Config: m.Config()}
	switch {
	case m.WantsScoreboard():
		result.WantsScoreboard = true
	case m.IsQuitting(), m.Selected() == nil:
		result.Quit = true
	default:
		result.GameID = m.Selected().GameID
	}
	return result, nil
}
