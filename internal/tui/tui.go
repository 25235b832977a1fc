// Package tui is the terminal front end for browsing record sets. It owns no
// state of its own beyond cursors and layout; every load, filter, search, and
// export runs inside the session, and results arrive back as Bubble Tea
// messages pumped from the session's event channel.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shuvrobasu/repo-view-extract/internal/session"
)

// ViewState represents which screen is active.
type ViewState int

const (
	ViewBrowse ViewState = iota
	ViewDetail
	ViewFilter
	ViewSearch
	ViewStats
)

// Config holds configuration passed from the CLI layer.
type Config struct {
	// Path is the record dump (or directory, with FromDir) to load at start.
	Path    string
	FromDir bool

	// ExportDir is where selected records are written.
	ExportDir string
}

// sessionMsg wraps one session event for the Bubble Tea loop.
type sessionMsg struct {
	event session.Event
}

// Model is the top-level Bubble Tea model.
type Model struct {
	state  ViewState
	config Config
	sess   *session.Session
	width  int
	height int

	browse browseModel
	detail detailModel
	filter filterModel
	search searchModel
	stats  statsModel
}

// New creates a new TUI model over the given session.
func New(cfg Config, sess *session.Session) Model {
	return Model{
		state:  ViewBrowse,
		config: cfg,
		sess:   sess,
		browse: newBrowseModel(sess, cfg.ExportDir),
		filter: newFilterModel(sess),
		search: newSearchModel(sess),
	}
}

func (m Model) Init() tea.Cmd {
	return m.browse.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.detail.resize(msg.Width, msg.Height)
		return m, nil

	case sessionMsg:
		// Session events land here regardless of the active screen.
		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.browse, cmd = m.browse.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		m.filter, cmd, _ = m.filter.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case ViewBrowse:
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.String() {
			case "q":
				return m, tea.Quit
			case "enter":
				if idx, ok := m.browse.selectedIndex(); ok {
					m.detail = newDetailModel(m.sess, idx)
					m.detail.resize(m.width, m.height)
					m.state = ViewDetail
				}
				return m, nil
			case "f":
				m.filter.open()
				m.state = ViewFilter
				return m, nil
			case "/":
				m.search.open()
				m.state = ViewSearch
				return m, nil
			case "S":
				m.stats = newStatsModel(m.sess)
				m.state = ViewStats
				return m, nil
			}
		}
		m.browse, cmd = m.browse.Update(msg)

	case ViewDetail:
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.String() {
			case "q", "esc":
				m.state = ViewBrowse
				return m, nil
			}
		}
		m.detail, cmd = m.detail.Update(msg)

	case ViewFilter:
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			m.state = ViewBrowse
			return m, nil
		}
		var done bool
		m.filter, cmd, done = m.filter.Update(msg)
		if done {
			m.state = ViewBrowse
		}

	case ViewSearch:
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			m.state = ViewBrowse
			return m, nil
		}
		var done bool
		m.search, cmd, done = m.search.Update(msg)
		if done {
			m.state = ViewBrowse
		}

	case ViewStats:
		if _, ok := msg.(tea.KeyMsg); ok {
			m.state = ViewBrowse
		}
	}

	return m, cmd
}

func (m Model) View() string {
	switch m.state {
	case ViewBrowse:
		return m.browse.View(m.width, m.height)
	case ViewDetail:
		return m.detail.View(m.width, m.height)
	case ViewFilter:
		return m.filter.View(m.width, m.height)
	case ViewSearch:
		return m.search.View(m.width, m.height)
	case ViewStats:
		return m.stats.View(m.width, m.height)
	}
	return ""
}

// Run starts the TUI program. It creates the session, kicks off the initial
// load, and pumps session events into the program until it exits.
func Run(cfg Config) error {
	sess := session.New()
	defer sess.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	model := New(cfg, sess)
	p := tea.NewProgram(model, tea.WithAltScreen())

	go func() {
		for ev := range sess.Events() {
			p.Send(sessionMsg{event: ev})
		}
	}()

	if cfg.Path != "" {
		sess.Load(ctx, cfg.Path, cfg.FromDir)
	}

	_, err := p.Run()
	return err
}
