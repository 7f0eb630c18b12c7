package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tomasvidal/trackseek/internal/models"
	"github.com/tomasvidal/trackseek/internal/services"
	"github.com/tomasvidal/trackseek/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SourceInputView ViewState = iota
	TrackListView
	ConfirmView
	ResolveView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	catalog      services.CatalogService
	engine       *tasks.ResolveEngine
	width        int
	height       int
	input        textinput.Model
	sourceKind   string
	sourceID     string
	sourceName   string
	tracks       []models.TrackDescriptor
	trackList    list.Model
	progressChan chan tasks.ProgressUpdate
	resolveDone  chan resolveCompleteMsg
	progress     tasks.ProgressUpdate
	result       *tasks.BatchResult
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, catalog services.CatalogService, engine *tasks.ResolveEngine) *Model {
	input := textinput.New()
	input.Placeholder = "catalog album or playlist ID"
	input.Focus()

	return &Model{
		ctx:        ctx,
		view:       SourceInputView,
		catalog:    catalog,
		engine:     engine,
		input:      input,
		sourceKind: models.SourceAlbum,
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.trackList.Width() == 0 {
			m.trackList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SourceInputView:
			return m.handleSourceInputKeys(msg)
		case TrackListView:
			return m.handleTrackListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case sourceFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = SourceInputView
			return m, nil
		}
		m.err = nil
		m.sourceName = msg.name
		m.tracks = msg.tracks
		items := make([]list.Item, len(msg.tracks))
		for i, track := range msg.tracks {
			items[i] = trackItem{descriptor: track}
		}
		m.trackList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.trackList.Title = fmt.Sprintf("Tracks in '%s'", msg.name)
		m.trackList.SetSize(m.width-4, m.height-8)
		m.view = TrackListView
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case resolveCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	if m.view == TrackListView {
		var cmd tea.Cmd
		m.trackList, cmd = m.trackList.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case SourceInputView:
		return m.renderSourceInput()
	case TrackListView:
		return m.renderTrackList()
	case ConfirmView:
		return m.renderConfirm()
	case ResolveView:
		return m.renderResolve()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleSourceInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab":
		if m.sourceKind == models.SourceAlbum {
			m.sourceKind = models.SourcePlaylist
		} else {
			m.sourceKind = models.SourceAlbum
		}
		return m, nil
	case "enter":
		id := m.input.Value()
		if id == "" {
			return m, nil
		}
		m.sourceID = id
		return m, m.fetchSource(id)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = SourceInputView
		return m, nil
	case "enter":
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = TrackListView
		return m, nil
	case "y":
		m.view = ResolveView
		return m, m.startResolve()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = SourceInputView
		m.input.SetValue("")
		m.input.Focus()
		m.tracks = nil
		m.result = nil
		m.err = nil
		return m, textinput.Blink
	}
	return m, nil
}

func (m *Model) fetchSource(id string) tea.Cmd {
	return func() tea.Msg {
		if m.sourceKind == models.SourceAlbum {
			album, err := m.catalog.Album(m.ctx, id)
			if err != nil {
				return sourceFetchedMsg{err: err}
			}
			return sourceFetchedMsg{name: album.Name, tracks: album.Tracks}
		}

		playlist, err := m.catalog.Playlist(m.ctx, id)
		if err != nil {
			return sourceFetchedMsg{err: err}
		}
		return sourceFetchedMsg{name: playlist.Name, tracks: playlist.Tracks}
	}
}

func (m *Model) startResolve() tea.Cmd {
	progressCh := make(chan tasks.ProgressUpdate, 50)
	m.progressChan = progressCh

	done := make(chan resolveCompleteMsg, 1)
	go func() {
		var result *tasks.BatchResult
		var err error
		if m.sourceKind == models.SourceAlbum {
			result, err = m.engine.ResolveAlbum(m.ctx, progressCh, m.sourceID, tasks.ResolveOpts{})
		} else {
			result, err = m.engine.ResolvePlaylist(m.ctx, progressCh, m.sourceID, tasks.ResolveOpts{})
		}
		done <- resolveCompleteMsg{result: result, err: err}
		close(progressCh)
	}()
	m.resolveDone = done

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return nil
		}

		update, ok := <-m.progressChan
		if !ok {
			return <-m.resolveDone
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderSourceInput() string {
	title := styles.title.Render("Resolve a catalog source")
	kind := fmt.Sprintf("Source kind: %s", styles.ok.Render(m.sourceKind))

	var errLine string
	if m.err != nil {
		errLine = styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n"
	}

	helpKeys := []key.Binding{m.keys.toggle, m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n\n%s\n\n%s", title, errLine, kind, m.input.View(), helpView)
}

func (m *Model) renderTrackList() string {
	resolveKey := key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "resolve"),
	)
	helpKeys := []key.Binding{resolveKey, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.trackList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Resolve '%s' to YouTube Music?", m.sourceName))
	info := fmt.Sprintf("\nSource: %s (%s)\nTracks: %d\n", m.sourceName, m.sourceKind, len(m.tracks))

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderResolve() string {
	title := styles.title.Render("Resolving Tracks")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchSource:
		phase = "Fetching source..."
	case tasks.ResolveTracks:
		phase = fmt.Sprintf("Resolving tracks (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.Persist:
		phase = "Saving resolutions..."
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Resolution failed: %v\n\nPress r to retry, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to retry, q to quit")
	}

	title := styles.ok.Render("✓ Resolution Complete!")
	info := fmt.Sprintf(
		"\nSource: %s (%d tracks)\nMatched: %d/%d (%.1f%%)",
		m.result.SourceName,
		m.result.Total,
		m.result.Matched,
		m.result.Total,
		m.result.MatchPercentage,
	)

	var failed string
	if m.result.Missed+m.result.Transient > 0 {
		failed = fmt.Sprintf("\n\n%s", styles.warn.Render(fmt.Sprintf("Unresolved %d tracks:", m.result.Missed+m.result.Transient)))
		for _, outcome := range m.result.Outcomes {
			if !outcome.Matched() {
				failed += fmt.Sprintf("\n  • %s - %s", outcome.Descriptor.PrimaryArtist(), outcome.Descriptor.Name)
			}
		}
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, failed, helpView)
}
