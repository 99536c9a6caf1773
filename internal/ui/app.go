// Package ui provides terminal user interface components for the streaks app.
package ui

import (
	"fmt"
	"time"

	"streaks/internal/config"
	"streaks/internal/events"
	"streaks/internal/listing"
	"streaks/internal/stats"
	"streaks/internal/storage"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

// PaneID identifies a pane in the app layout.
type PaneID int

const (
	PaneTrackers PaneID = iota
	PaneStats
)

// LayoutMode selects how the panes are arranged.
type LayoutMode int

const (
	// LayoutWide places the panes side by side.
	LayoutWide LayoutMode = iota
	// LayoutNarrow stacks the panes vertically.
	LayoutNarrow
)

const statusTTL = 4 * time.Second

// tickMsg drives periodic housekeeping such as status expiry.
type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// confirmDeleteState records a pending delete awaiting confirmation.
type confirmDeleteState struct {
	id   uuid.UUID
	name string
}

// AppConfig holds runtime settings for the app model.
type AppConfig struct {
	Keys                  *config.KeysConfig
	ConfirmDeletions      bool
	NarrowLayoutThreshold int
	SearchDebounce        time.Duration
}

// DefaultAppConfig returns the default app settings.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Keys:                  &config.KeysConfig{},
		ConfirmDeletions:      true,
		NarrowLayoutThreshold: 80,
		SearchDebounce:        listing.DefaultSearchDebounce,
	}
}

// App is the root Bubble Tea model.
type App struct {
	storage     *storage.Storage
	listEngine  *listing.Engine
	statsEngine *stats.Engine
	styles      *Styles
	cfg         *AppConfig

	trackersPane *TrackersPane
	statsPane    *StatsPane
	helpOverlay  *HelpOverlay
	confirmDel   *confirmDeleteState

	activePane PaneID
	layout     LayoutMode
	width      int
	height     int

	status      string
	statusErr   bool
	statusUntil time.Time

	quitting bool

	keys     GlobalKeyMap
	helpKeys HelpKeyMap
}

// NewApp creates the root model.
func NewApp(store *storage.Storage, listEngine *listing.Engine, statsEngine *stats.Engine, styles *Styles, cfg *AppConfig) *App {
	if cfg == nil {
		cfg = DefaultAppConfig()
	}
	if cfg.Keys == nil {
		cfg.Keys = &config.KeysConfig{}
	}

	return &App{
		storage:      store,
		listEngine:   listEngine,
		statsEngine:  statsEngine,
		styles:       styles,
		cfg:          cfg,
		trackersPane: NewTrackersPaneWithKeys(listEngine, store, styles, cfg.Keys, cfg.SearchDebounce),
		statsPane:    NewStatsPane(statsEngine, styles),
		helpOverlay:  NewHelpOverlay(styles),
		activePane:   PaneTrackers,
		keys:         NewGlobalKeyMap(cfg.Keys),
		helpKeys:     DefaultHelpKeyMap(),
	}
}

// Init starts the initial data loads and the housekeeping tick.
func (a *App) Init() tea.Cmd {
	a.trackersPane.SetFocused(true)
	return tea.Batch(
		a.trackersPane.RefreshCmd(),
		a.statsPane.LoadStatsCmd(),
		tickCmd(),
	)
}

// SetStatus shows a transient message in the status bar.
func (a *App) SetStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
	a.statusUntil = a.storage.Now().Add(statusTTL)
}

// Update routes messages to overlays and panes.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		return a, nil

	case tickMsg:
		if a.status != "" && a.storage.Now().After(a.statusUntil) {
			a.status = ""
			a.statusErr = false
		}
		return a, tickCmd()
	}

	// Modal overlays consume input first
	if a.helpOverlay.Update(msg) {
		return a, nil
	}

	if a.confirmDel != nil {
		return a.updateConfirmDelete(msg)
	}

	// Async results go to the panes, then trigger follow-up loads for
	// anything a mutation invalidated.
	switch msg := msg.(type) {
	case listRefreshedMsg:
		return a, a.trackersPane.Update(msg)

	case statsCalculatedMsg:
		return a, a.statsPane.Update(msg)

	case searchDebouncedMsg:
		return a, a.trackersPane.Update(msg)

	case trackerAddedMsg:
		if msg.err != nil {
			a.SetStatus("Add failed: "+msg.err.Error(), true)
			return a, a.trackersPane.RefreshCmd()
		}
		a.SetStatus(fmt.Sprintf("Added %q", msg.tracker.Name), false)
		return a, tea.Batch(a.trackersPane.Update(msg), a.statsPane.LoadStatsCmd())

	case trackerUpdatedMsg:
		if msg.err != nil {
			a.SetStatus("Update failed: "+msg.err.Error(), true)
			return a, a.trackersPane.RefreshCmd()
		}
		a.SetStatus(fmt.Sprintf("Updated %q", msg.name), false)
		return a, tea.Batch(a.trackersPane.Update(msg), a.statsPane.LoadStatsCmd())

	case trackerToggledMsg:
		if msg.err != nil {
			a.SetStatus("Toggle failed: "+msg.err.Error(), true)
			return a, a.trackersPane.RefreshCmd()
		}
		return a, tea.Batch(a.trackersPane.Update(msg), a.statsPane.LoadStatsCmd())

	case trackerPinnedMsg:
		if msg.err != nil {
			a.SetStatus("Pin failed: "+msg.err.Error(), true)
			return a, a.trackersPane.RefreshCmd()
		}
		return a, a.trackersPane.Update(msg)

	case trackerDeletedMsg:
		if msg.err != nil {
			a.SetStatus("Delete failed: "+msg.err.Error(), true)
			return a, a.trackersPane.RefreshCmd()
		}
		a.SetStatus(fmt.Sprintf("Deleted %q", msg.name), false)
		return a, tea.Batch(a.trackersPane.Update(msg), a.statsPane.LoadStatsCmd())
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		// Text input captures everything except its own confirm/cancel keys.
		if !a.trackersPane.InInputMode() {
			switch {
			case key.Matches(keyMsg, a.keys.Quit):
				a.quitting = true
				a.listEngine.Close()
				a.statsEngine.Close()
				return a, tea.Quit

			case key.Matches(keyMsg, a.keys.Help):
				a.helpOverlay.Toggle()
				return a, nil

			case key.Matches(keyMsg, a.keys.NextPane):
				a.focusPane(a.nextPane())
				return a, nil

			case key.Matches(keyMsg, a.keys.Pane1):
				a.focusPane(PaneTrackers)
				return a, nil

			case key.Matches(keyMsg, a.keys.Pane2):
				a.focusPane(PaneStats)
				return a, nil
			}

			// Intercept delete for the confirmation dialog.
			if a.cfg.ConfirmDeletions && a.activePane == PaneTrackers &&
				key.Matches(keyMsg, a.trackersPane.keys.Delete) {
				if item := a.trackersPane.SelectedItem(); item != nil {
					a.confirmDel = &confirmDeleteState{id: item.ID, name: item.Title}
				}
				return a, nil
			}
		}
	}

	// Everything else goes to the active pane
	switch a.activePane {
	case PaneTrackers:
		return a, a.trackersPane.Update(msg)
	case PaneStats:
		return a, a.statsPane.Update(msg)
	}
	return a, nil
}

// updateConfirmDelete handles the y/n confirmation dialog.
func (a *App) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}

	switch keyMsg.String() {
	case "y", "Y", "enter":
		pending := *a.confirmDel
		a.confirmDel = nil
		return a, deleteTrackerCmd(a.listEngine, pending.id, pending.name)
	case "n", "N", "esc", "q":
		a.confirmDel = nil
	}
	return a, nil
}

func (a *App) nextPane() PaneID {
	if a.activePane == PaneTrackers {
		return PaneStats
	}
	return PaneTrackers
}

func (a *App) focusPane(id PaneID) {
	a.activePane = id
	a.trackersPane.SetFocused(id == PaneTrackers)
	a.statsPane.SetFocused(id == PaneStats)
}

// updateLayout recomputes pane sizes for the current terminal dimensions.
func (a *App) updateLayout() {
	if a.width < a.cfg.NarrowLayoutThreshold {
		a.layout = LayoutNarrow
	} else {
		a.layout = LayoutWide
	}

	// Title bar, status bar, and help bar take one row each.
	chromeHeight := 3
	contentHeight := max(6, a.height-chromeHeight)

	switch a.layout {
	case LayoutWide:
		trackersWidth := a.width * 3 / 5
		statsWidth := a.width - trackersWidth - 2
		a.trackersPane.SetSize(trackersWidth, contentHeight)
		a.statsPane.SetSize(statsWidth, contentHeight)
	case LayoutNarrow:
		trackersHeight := contentHeight * 2 / 3
		a.trackersPane.SetSize(a.width-2, trackersHeight)
		a.statsPane.SetSize(a.width-2, contentHeight-trackersHeight)
	}

	a.helpOverlay.SetSize(a.width, a.height)
}

// View renders the whole screen.
func (a *App) View() string {
	if a.quitting {
		return ""
	}

	if a.helpOverlay.IsVisible() {
		return a.helpOverlay.View()
	}

	title := a.renderTitleBar()

	var panes string
	switch a.layout {
	case LayoutNarrow:
		panes = lipgloss.JoinVertical(lipgloss.Left, a.trackersPane.View(), a.statsPane.View())
	default:
		panes = lipgloss.JoinHorizontal(lipgloss.Top, a.trackersPane.View(), a.statsPane.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, panes, a.renderStatusBar(), a.renderHelpBar())
}

func (a *App) renderTitleBar() string {
	done, total := a.trackersPane.CompletionRate()
	left := a.styles.TitleStyle.Render(" streaks ")
	date := a.styles.DateStyle.Render(a.listEngine.Date().Format("Monday, Jan 2 2006"))
	progress := a.styles.StatLabelStyle.Render(fmt.Sprintf("%d/%d done", done, total))
	return lipgloss.JoinHorizontal(lipgloss.Center, left, "  ", date, "  ", progress)
}

func (a *App) renderStatusBar() string {
	if a.confirmDel != nil {
		return a.styles.ErrorStyle.Render(fmt.Sprintf(" Delete %q and all its history? (y/n) ", a.confirmDel.name))
	}
	if a.status == "" {
		return ""
	}
	if a.statusErr {
		return a.styles.ErrorStyle.Render(" " + a.status + " ")
	}
	return a.styles.StatusStyle.Render(" " + a.status + " ")
}

func (a *App) renderHelpBar() string {
	if a.trackersPane.InInputMode() {
		return a.styles.HelpStyle.Render(" enter confirm · esc cancel ")
	}
	switch a.activePane {
	case PaneTrackers:
		var pairs []string
		for _, b := range a.trackersPane.keys.ShortHelp() {
			pairs = append(pairs, b.Help().Key, b.Help().Desc)
		}
		pairs = append(pairs, "?", "help", "q", "quit")
		return " " + a.styles.RenderHelp(pairs...)
	default:
		return " " + a.styles.RenderHelp("tab", "switch pane", "?", "help", "q", "quit")
	}
}

// Run wires the engines to storage and starts the TUI.
func Run(cfg *config.Config) error {
	store, err := storage.New(cfg.GetDataDir())
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}

	bus := events.NewBus()
	bus.Wire(store)

	cache := stats.NewCache(cfg.GetDataDir(), cfg.CacheExpiration())
	statsEngine := stats.NewEngine(store, cache, bus)
	listEngine := listing.NewEngine(store)

	styles := NewStyles(cfg)
	app := NewApp(store, listEngine, statsEngine, styles, &AppConfig{
		Keys:                  &cfg.Keys,
		ConfirmDeletions:      cfg.UX.ConfirmDeletions,
		NarrowLayoutThreshold: cfg.UX.NarrowLayoutThreshold,
		SearchDebounce:        cfg.SearchDebounce(),
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
