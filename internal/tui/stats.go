package tui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/shuvrobasu/repo-view-extract/internal/session"
	"github.com/shuvrobasu/repo-view-extract/internal/store"
)

// statsRows is how many distribution entries each column shows.
const statsRows = 12

type statsModel struct {
	stats store.Statistics
}

func newStatsModel(sess *session.Session) statsModel {
	return statsModel{stats: sess.Store.Statistics()}
}

func (m statsModel) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  Statistics") + "\n\n")

	b.WriteString(fmt.Sprintf("  Records: %s\n", humanize.Comma(int64(m.stats.TotalRecords))))
	b.WriteString(fmt.Sprintf("  Total size: %s\n", humanize.Bytes(uint64(m.stats.TotalBytes))))
	b.WriteString(fmt.Sprintf("  Average size: %s\n\n", humanize.Bytes(uint64(m.stats.AverageBytes))))

	b.WriteString(headerStyle.Render("  Licenses") + "\n")
	b.WriteString(renderCounts(m.stats.Licenses))
	b.WriteString("\n")
	b.WriteString(headerStyle.Render("  Extensions") + "\n")
	b.WriteString(renderCounts(m.stats.Extensions))

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("  any key to go back") + "\n")
	return b.String()
}

func renderCounts(counts []store.CountedKey) string {
	var b strings.Builder
	n := len(counts)
	if n > statsRows {
		n = statsRows
	}
	for _, c := range counts[:n] {
		b.WriteString(rowStyle.Render(fmt.Sprintf("    %-30s %8s", c.Key, humanize.Comma(int64(c.Count)))) + "\n")
	}
	if len(counts) > statsRows {
		b.WriteString(dimStyle.Render(fmt.Sprintf("    ... and %d more", len(counts)-statsRows)) + "\n")
	}
	return b.String()
}
