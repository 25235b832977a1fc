package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/shuvrobasu/repo-view-extract/internal/metrics"
	"github.com/shuvrobasu/repo-view-extract/internal/session"
	"github.com/shuvrobasu/repo-view-extract/internal/view"
	"github.com/shuvrobasu/repo-view-extract/pkg/types"
)

// sortOrder maps the number keys to columns.
var sortOrder = []view.SortKey{
	view.SortName, view.SortSize, view.SortLines, view.SortType, view.SortQuality,
}

type browseModel struct {
	sess      *session.Session
	exportDir string
	spinner   spinner.Model

	cursor int // row within the current page

	loading     bool
	loadDone    int64
	loadTotal   int64
	indexing    bool
	indexDone   int
	indexTotal  int
	exporting   bool
	exportDone  int64
	exportTotal int64
	status      string
	statusIsErr bool
}

func newBrowseModel(sess *session.Session, exportDir string) browseModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = selectedStyle
	return browseModel{
		sess:      sess,
		exportDir: exportDir,
		spinner:   sp,
		loading:   true,
	}
}

// selectedIndex resolves the cursor to a record index in the store.
func (m browseModel) selectedIndex() (int, bool) {
	window := m.sess.View.Current()
	if m.cursor < 0 || m.cursor >= len(window) {
		return 0, false
	}
	return window[m.cursor], true
}

func (m browseModel) Update(msg tea.Msg) (browseModel, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionMsg:
		return m.handleEvent(msg.event)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.sess.View.Current())-1 {
				m.cursor++
			}
		case "left", "h", "pgup":
			m.sess.View.Page(m.sess.View.CurrentPage() - 1)
			m.cursor = 0
		case "right", "l", "pgdown":
			m.sess.View.Page(m.sess.View.CurrentPage() + 1)
			m.cursor = 0
		case "home", "g":
			m.sess.View.Page(0)
			m.cursor = 0
		case "end", "G":
			m.sess.View.Page(m.sess.View.PageCount() - 1)
			m.cursor = 0
		case "1", "2", "3", "4", "5":
			key := sortOrder[int(msg.String()[0]-'1')]
			current, ascending := m.sess.View.Sort()
			if current == key {
				ascending = !ascending
			} else {
				ascending = true
			}
			m.sess.View.SetSort(key, ascending)
			m.cursor = 0
		case "c":
			m.sess.ClearFilter()
			m.cursor = 0
		case "e":
			if !m.exporting && m.sess.View.Len() > 0 {
				m.exporting = true
				m.exportDone, m.exportTotal = 0, int64(m.sess.View.Len())
				m.sess.Export(context.Background(), m.exportDir, m.sess.View.Matches())
			}
		}
	}
	return m, nil
}

func (m browseModel) handleEvent(ev session.Event) (browseModel, tea.Cmd) {
	switch ev := ev.(type) {
	case session.LoadProgress:
		m.loading = true
		m.loadDone, m.loadTotal = ev.Done, ev.Total
	case session.Loaded:
		m.loading = false
		m.cursor = 0
		m.status = fmt.Sprintf("loaded %d records from %s", ev.Records, ev.Path)
		m.statusIsErr = false
	case session.LoadFailed:
		m.loading = false
		m.status = fmt.Sprintf("load failed: %v", ev.Err)
		m.statusIsErr = true
	case session.IndexProgress:
		m.indexing = true
		m.indexDone, m.indexTotal = ev.Processed, ev.Total
	case session.IndexCompleted:
		m.indexing = false
		m.status = fmt.Sprintf("scan complete: %d records in %s",
			ev.Stats.Processed, ev.Stats.Duration.Round(time.Millisecond))
		m.statusIsErr = false
	case session.IndexCancelled:
		m.indexing = false
	case session.FilterResult:
		if ev.Applied {
			m.cursor = 0
			m.status = fmt.Sprintf("filter: %d of %d records match", len(ev.Result.Matches), ev.Result.Total)
			m.statusIsErr = false
		}
	case session.SearchResult:
		m.cursor = 0
		m.status = fmt.Sprintf("search %q in %s: %d matches", ev.Spec.Term, ev.Spec.Field, ev.Matches)
		m.statusIsErr = false
	case session.FilterCleared:
		m.cursor = 0
		m.status = fmt.Sprintf("filter cleared, %d records", ev.Records)
		m.statusIsErr = false
	case session.ExportProgress:
		m.exportDone, m.exportTotal = ev.Done, ev.Total
	case session.ExportDone:
		m.exporting = false
		if ev.Err != nil {
			m.status = fmt.Sprintf("export failed: %v", ev.Err)
			m.statusIsErr = true
		} else {
			m.status = fmt.Sprintf("exported %d files to %s (%d skipped, %d failed)",
				ev.Result.Exported, ev.Dir, ev.Result.Skipped, ev.Result.Failed)
			m.statusIsErr = false
		}
	}
	return m, nil
}

func (m browseModel) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  Record Browser") + "\n")

	if m.loading {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("  %s Loading records...\n", m.spinner.View()))
		if m.loadTotal > 0 {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  %s / %s",
				humanize.Bytes(uint64(m.loadDone)), humanize.Bytes(uint64(m.loadTotal)))) + "\n")
		}
		return b.String()
	}

	sortKey, ascending := m.sess.View.Sort()
	arrow := "▲"
	if !ascending {
		arrow = "▼"
	}
	marker := func(key view.SortKey) string {
		if key == sortKey {
			return arrow
		}
		return " "
	}
	b.WriteString(headerStyle.Render(fmt.Sprintf("  %-34s %10s %7s %-24s %s",
		"Name "+marker(view.SortName),
		"Size "+marker(view.SortSize),
		"Lines "+marker(view.SortLines),
		"Type "+marker(view.SortType),
		"Quality "+marker(view.SortQuality))) + "\n")

	window := m.sess.View.Current()
	for i, idx := range window {
		line := rowLine(displayEntry(m.sess.Cache, idx))
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("▸"+line[1:]) + "\n")
		} else {
			b.WriteString(rowStyle.Render(line) + "\n")
		}
	}
	if len(window) == 0 {
		b.WriteString(dimStyle.Render("  no records match") + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.statusBar(width))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("  ↑/↓ row • ←/→ page • 1-5 sort • enter detail • f filter • / search • S stats • c clear • e export • q quit") + "\n")
	return b.String()
}

// displayEntry fetches a row's metrics without running the scan on the
// render path: cached entries are used as-is, missing ones get only the
// cheap basic tier. Deeper fields fill in as the background indexer
// reaches them; each IndexProgress event re-renders the list.
func displayEntry(cache *metrics.Cache, idx int) types.MetricsEntry {
	if entry, ok := cache.Peek(idx); ok {
		return entry
	}
	return cache.GetOrCompute(idx, types.TierBasic)
}

// rowLine formats one record row, with placeholders for fields the scan
// hasn't computed yet.
func rowLine(entry types.MetricsEntry) string {
	if entry.Tier < types.TierScanned {
		return fmt.Sprintf("  %-34s %10s %7s %-24s %s",
			entry.Name, entry.SizeLabel, "...", "...", "...")
	}
	return fmt.Sprintf("  %-34s %10s %7d %-24s %s %3d%%",
		entry.Name, entry.SizeLabel, entry.Lines, entry.TypeLabel,
		starStyle.Render(types.StarString(entry.Stars)), entry.QualityPct)
}

func (m browseModel) statusBar(width int) string {
	parts := []string{
		fmt.Sprintf("page %d/%d", m.sess.View.CurrentPage()+1, m.sess.View.PageCount()),
		fmt.Sprintf("%d/%d records", m.sess.View.Len(), m.sess.Store.Len()),
	}
	if m.indexing && m.indexTotal > 0 {
		parts = append(parts, fmt.Sprintf("%s scanning %d/%d", m.spinner.View(), m.indexDone, m.indexTotal))
	}
	if m.exporting && m.exportTotal > 0 {
		parts = append(parts, fmt.Sprintf("exporting %d/%d", m.exportDone, m.exportTotal))
	}
	if m.status != "" {
		if m.statusIsErr {
			parts = append(parts, errorStyle.Render(m.status))
		} else {
			parts = append(parts, m.status)
		}
	}
	bar := " " + strings.Join(parts, " • ")
	if width > 0 {
		return statusBarStyle.Width(width).Render(bar)
	}
	return statusBarStyle.Render(bar)
}
