package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shuvrobasu/repo-view-extract/internal/quality"
	"github.com/shuvrobasu/repo-view-extract/internal/session"
	"github.com/shuvrobasu/repo-view-extract/pkg/types"
)

type detailModel struct {
	sess  *session.Session
	index int

	viewport    viewport.Model
	entry       types.MetricsEntry
	record      types.Record
	initialized bool
}

// newDetailModel builds the detail screen for one record. Opening it promotes
// the record to the full metrics tier.
func newDetailModel(sess *session.Session, index int) detailModel {
	m := detailModel{sess: sess, index: index}
	m.entry = sess.Cache.GetOrCompute(index, types.TierFull)
	m.record, _ = sess.Store.Record(index)
	return m
}

func (m *detailModel) resize(width, height int) {
	if m.sess == nil {
		return
	}
	vpHeight := height - lipgloss.Height(m.header(width)) - 2
	if vpHeight < 5 {
		vpHeight = 5
	}
	if !m.initialized {
		m.viewport = viewport.New(width, vpHeight)
		m.viewport.SetContent(m.highlighted(width))
		m.initialized = true
		return
	}
	m.viewport.Width = width
	m.viewport.Height = vpHeight
}

func (m detailModel) Update(msg tea.Msg) (detailModel, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m detailModel) View(width, height int) string {
	if !m.initialized {
		return ""
	}
	return m.header(width) + "\n" + m.viewport.View() + "\n" +
		helpStyle.Render("  ↑/↓ scroll • esc back") + "\n"
}

func (m detailModel) header(width int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  "+m.entry.FullName) + "\n")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("  %s • %s", m.record.RepoName, m.record.Path)) + "\n\n")

	b.WriteString(fmt.Sprintf("  Size: %s   Lines: %d   License: %s   Copies: %d\n",
		m.entry.SizeLabel, m.entry.Lines, m.record.License, m.record.Copies))
	typeLabel := m.entry.TypeLabel
	if typeLabel == "" {
		typeLabel = "-"
	}
	b.WriteString(fmt.Sprintf("  Type: %s\n", typeLabel))
	b.WriteString(fmt.Sprintf("  Quality: %s %d%% (%d/%d)\n\n",
		starStyle.Render(types.StarString(m.entry.Stars)),
		m.entry.QualityPct, m.entry.QualityScore, quality.MaxScore))

	b.WriteString(m.checklist(width))
	return b.String()
}

// checklist renders the full criteria list in two columns, passed criteria
// first.
func (m detailModel) checklist(width int) string {
	names := make([]string, 0, len(m.entry.Checklist))
	for name := range m.entry.Checklist {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		pi, pj := m.entry.Checklist[names[i]], m.entry.Checklist[names[j]]
		if pi != pj {
			return pi
		}
		return names[i] < names[j]
	})

	cells := make([]string, 0, len(names))
	for _, name := range names {
		if m.entry.Checklist[name] {
			cells = append(cells, successStyle.Render("✓ ")+name)
		} else {
			cells = append(cells, errorStyle.Render("✗ ")+name)
		}
	}

	var b strings.Builder
	for i := 0; i < len(cells); i += 2 {
		b.WriteString("  " + padCell(cells[i], 34))
		if i+1 < len(cells) {
			b.WriteString(cells[i+1])
		}
		b.WriteString("\n")
	}
	return b.String()
}

// highlighted renders the record content with syntax highlighting and line
// numbers; plain text on any highlighter failure.
func (m detailModel) highlighted(width int) string {
	var buf strings.Builder
	content := m.record.Content
	if err := quick.Highlight(&buf, content, "python", "terminal256", "monokai"); err == nil {
		content = buf.String()
	}
	return numberLines(content)
}

// numberLines prefixes each line with a right-aligned line number.
func numberLines(content string) string {
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	numWidth := len(fmt.Sprintf("%d", len(lines)))
	var b strings.Builder
	for i, l := range lines {
		b.WriteString(dimStyle.Render(fmt.Sprintf("%*d ", numWidth, i+1)))
		b.WriteString(l)
		b.WriteString("\n")
	}
	return b.String()
}

// padCell pads styled text to a display width, counting only visible runes.
func padCell(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
