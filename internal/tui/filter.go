package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shuvrobasu/repo-view-extract/internal/classify"
	"github.com/shuvrobasu/repo-view-extract/internal/query"
	"github.com/shuvrobasu/repo-view-extract/internal/session"
	"github.com/shuvrobasu/repo-view-extract/pkg/types"
)

// qualityStep is how far the quality row moves per keypress.
const qualityStep = 10

type filterModel struct {
	sess *session.Session

	labels   []string
	selected map[string]bool

	cursor      int
	sizeEnabled bool
	minIdx      int // index into types.SizeOptions, -1 for none
	maxIdx      int
	minQuality  int

	preview    *query.Result
	previewing bool
}

func newFilterModel(sess *session.Session) filterModel {
	return filterModel{
		sess:     sess,
		labels:   classify.Labels(),
		selected: make(map[string]bool),
		minIdx:   -1,
		maxIdx:   -1,
	}
}

// rows beyond the label list.
func (m filterModel) rowCount() int { return len(m.labels) + 4 }

func (m *filterModel) open() {
	m.cursor = 0
	m.requestPreview()
}

// spec assembles the current form state into a filter spec.
func (m filterModel) spec() types.FilterSpec {
	spec := types.FilterSpec{MinQualityPct: m.minQuality}
	for _, label := range m.labels {
		if m.selected[label] {
			spec.Labels = append(spec.Labels, label)
		}
	}
	if m.sizeEnabled {
		spec.SizeEnabled = true
		if m.minIdx >= 0 {
			spec.MinSize = types.SizeOptions[m.minIdx].Bytes
		}
		if m.maxIdx >= 0 {
			spec.MaxSize = types.SizeOptions[m.maxIdx].Bytes
		}
	}
	return spec
}

func (m *filterModel) requestPreview() {
	m.previewing = true
	m.sess.EvaluateFilter(context.Background(), m.spec(), false)
}

func (m filterModel) Update(msg tea.Msg) (filterModel, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case sessionMsg:
		if res, ok := msg.event.(session.FilterResult); ok && !res.Applied {
			m.preview = res.Result
			m.previewing = false
		}
		return m, nil, false

	case tea.KeyMsg:
		changed := false
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < m.rowCount()-1 {
				m.cursor++
			}
		case " ":
			changed = m.toggle()
		case "left", "h":
			changed = m.adjust(-1)
		case "right", "l":
			changed = m.adjust(1)
		case "x":
			m.selected = make(map[string]bool)
			m.sizeEnabled = false
			m.minIdx, m.maxIdx = -1, -1
			m.minQuality = 0
			changed = true
		case "enter":
			m.sess.EvaluateFilter(context.Background(), m.spec(), true)
			return m, nil, true
		}
		if changed {
			m.requestPreview()
		}
	}
	return m, nil, false
}

// toggle flips the boolean under the cursor.
func (m *filterModel) toggle() bool {
	switch {
	case m.cursor < len(m.labels):
		label := m.labels[m.cursor]
		m.selected[label] = !m.selected[label]
		return true
	case m.cursor == len(m.labels):
		m.sizeEnabled = !m.sizeEnabled
		return true
	}
	return false
}

// adjust moves the option under the cursor left or right.
func (m *filterModel) adjust(delta int) bool {
	last := len(types.SizeOptions) - 1
	switch m.cursor {
	case len(m.labels) + 1:
		m.minIdx = clampInt(m.minIdx+delta, -1, last)
		return true
	case len(m.labels) + 2:
		m.maxIdx = clampInt(m.maxIdx+delta, -1, last)
		return true
	case len(m.labels) + 3:
		m.minQuality = clampInt(m.minQuality+delta*qualityStep, 0, 100)
		return true
	}
	return false
}

func (m filterModel) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  Filter") + "\n\n")

	row := func(i int, text string) {
		cursor := "  "
		style := rowStyle
		if i == m.cursor {
			cursor = "▸ "
			style = selectedStyle
		}
		b.WriteString("  " + cursor + style.Render(text) + "\n")
	}

	for i, label := range m.labels {
		mark := "[ ]"
		if m.selected[label] {
			mark = "[x]"
		}
		row(i, fmt.Sprintf("%s %s", mark, label))
	}
	b.WriteString("\n")

	mark := "[ ]"
	if m.sizeEnabled {
		mark = "[x]"
	}
	row(len(m.labels), fmt.Sprintf("%s size filter", mark))
	row(len(m.labels)+1, fmt.Sprintf("min size: %s", sizeLabel(m.minIdx, "none")))
	row(len(m.labels)+2, fmt.Sprintf("max size: %s", sizeLabel(m.maxIdx, "unbounded")))
	row(len(m.labels)+3, fmt.Sprintf("min quality: %d%%", m.minQuality))

	b.WriteString("\n")
	switch {
	case m.previewing:
		b.WriteString(dimStyle.Render("  evaluating...") + "\n")
	case m.preview != nil:
		b.WriteString(successStyle.Render(fmt.Sprintf("  %d of %d records match",
			len(m.preview.Matches), m.preview.Total)) + "\n")
		b.WriteString(dimStyle.Render("  " + starSummary(m.preview.QualityDist)) + "\n")
	default:
		b.WriteString("\n\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("  ↑/↓ move • space toggle • ←/→ adjust • x reset • enter apply • esc cancel") + "\n")
	return b.String()
}

func sizeLabel(idx int, fallback string) string {
	if idx < 0 || idx >= len(types.SizeOptions) {
		return fallback
	}
	return types.SizeOptions[idx].Label
}

func starSummary(dist map[int]int) string {
	return fmt.Sprintf("★ %d • ★★ %d • ★★★ %d", dist[1], dist[2], dist[3])
}

func clampInt(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
