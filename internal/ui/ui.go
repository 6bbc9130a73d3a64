package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/muse/internal/models"
	"github.com/desertthunder/muse/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	AnalysisView ViewState = iota
	SyncView
	ResultView
)

// Model represents the TUI application state: analyze the library,
// watch the sync run, review the result.
type Model struct {
	ctx    context.Context
	view   ViewState
	engine *tasks.SyncEngine
	userID string
	force  bool

	width  int
	height int

	spinner  spinner.Model
	bar      progress.Model
	analysis models.SyncAnalysis
	latest   tasks.ProgressUpdate
	result   *models.SyncResult
	err      error

	progressChan chan tasks.ProgressUpdate
	help         help.Model
	keys         keyMap
}

// NewModel creates a TUI model bound to a sync engine. The model
// registers its progress listener immediately, so the engine must not
// be running yet.
func NewModel(ctx context.Context, engine *tasks.SyncEngine, userID string) *Model {
	ch := make(chan tasks.ProgressUpdate, 64)
	engine.AddProgressListener(func(update tasks.ProgressUpdate) {
		select {
		case ch <- update:
		default:
			// Drop rather than stall the sync on a slow terminal.
		}
	})

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.accent))

	return &Model{
		ctx:          ctx,
		view:         AnalysisView,
		engine:       engine,
		userID:       userID,
		spinner:      sp,
		bar:          progress.New(progress.WithDefaultGradient()),
		progressChan: ch,
		help:         help.New(),
		keys:         newKeyMap(),
	}
}

// Init fetches the pre-sync analysis.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetchAnalysis(), m.spinner.Tick)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = min(msg.Width-8, 60)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case AnalysisView:
			return m.handleAnalysisKeys(msg)
		case SyncView:
			return m.handleSyncKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case analysisMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.analysis = msg.analysis
		return m, nil

	case progressMsg:
		m.latest = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case syncDoneMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		return m, nil
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case AnalysisView:
		return m.renderAnalysis()
	case SyncView:
		return m.renderSync()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleAnalysisKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.force):
		m.force = !m.force
		return m, nil
	case key.Matches(msg, m.keys.start):
		m.view = SyncView
		m.latest = tasks.ProgressUpdate{}
		return m, m.startSync()
	}
	return m, nil
}

func (m *Model) handleSyncKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.engine.Stop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.stop):
		m.engine.Stop()
		return m, nil
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.restart):
		m.view = AnalysisView
		m.result = nil
		m.err = nil
		return m, m.fetchAnalysis()
	}
	return m, nil
}

func (m *Model) fetchAnalysis() tea.Cmd {
	return func() tea.Msg {
		analysis, err := m.engine.Analyze(m.userID)
		return analysisMsg{analysis: analysis, err: err}
	}
}

func (m *Model) startSync() tea.Cmd {
	run := func() tea.Msg {
		result, err := m.engine.Start(m.ctx, m.userID, tasks.SyncOpts{ForceResync: m.force})
		return syncDoneMsg{result: result, err: err}
	}
	return tea.Batch(run, m.waitForProgress(), m.spinner.Tick)
}

// waitForProgress blocks on the listener channel until the next update.
func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		return progressMsg(<-m.progressChan)
	}
}

func (m *Model) renderAnalysis() string {
	title := styles.title.Render("muse sync")

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Liked tracks:            %d\n", m.analysis.TotalTracks))
	b.WriteString(fmt.Sprintf("Missing audio features:  %d\n", m.analysis.NeedsAudioFeatures))
	b.WriteString(fmt.Sprintf("Missing lyric data:      %d\n", m.analysis.NeedsLyricData))
	b.WriteString(fmt.Sprintf("Stale lyric data:        %d\n", m.analysis.StaleLyricData))

	status := ""
	if m.analysis.Clean() && !m.force {
		status = styles.ok.Render("Library is up to date.")
	}
	if m.force {
		status = styles.warn.Render("Force resync enabled: all tracks will be refreshed.")
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.start, m.keys.force, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n%s\n\n%s", title, b.String(), status, helpView)
}

func (m *Model) renderSync() string {
	title := styles.title.Render("Syncing library")

	phase := m.latest.Phase.String()
	if phase == "" {
		phase = "starting"
	}
	header := fmt.Sprintf("%s %s", m.spinner.View(), styles.accent.Render(phase))

	var bar string
	if m.latest.Total > 0 {
		bar = m.bar.ViewAs(float64(m.latest.Completed) / float64(m.latest.Total))
	}

	step := m.latest.CurrentStep

	var errLines string
	if n := len(m.latest.Errors); n > 0 {
		recent := m.latest.Errors
		if n > 3 {
			recent = recent[n-3:]
		}
		errLines = styles.warn.Render(fmt.Sprintf("%d failed:", n))
		for _, e := range recent {
			errLines += "\n  • " + e
		}
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.stop, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n\n%s\n%s\n\n%s\n\n%s", title, header, bar, step, errLines, helpView)
}

func (m *Model) renderResult() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.restart, m.keys.quit})

	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s",
			styles.err.Render(fmt.Sprintf("Sync failed: %v", m.err)), helpView)
	}
	if m.result == nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render("No result available"), helpView)
	}

	var title string
	switch {
	case m.result.Stopped:
		title = styles.warn.Render("Sync stopped")
	default:
		title = styles.ok.Render("✓ Sync complete")
	}

	info := fmt.Sprintf(
		"\nAudio features: %d synced, %d failed (of %d)\nLyric data:     %d synced, %d failed (of %d)",
		m.result.Spotify.Synced, m.result.Spotify.Failed, m.result.Spotify.Total,
		m.result.Genius.Synced, m.result.Genius.Failed, m.result.Genius.Total,
	)

	var failed string
	if len(m.result.Errors) > 0 {
		failed = fmt.Sprintf("\n\n%s", styles.warn.Render(fmt.Sprintf("%d tracks failed:", len(m.result.Errors))))
		show := m.result.Errors
		if len(show) > 10 {
			show = show[:10]
		}
		for _, e := range show {
			failed += "\n  • " + e
		}
	}

	return fmt.Sprintf("%s%s%s\n\n%s", title, info, failed, helpView)
}
