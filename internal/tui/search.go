package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/shuvrobasu/repo-view-extract/pkg/types"
)

// searchFields is the tab order of searchable record fields.
var searchFields = []types.SearchField{
	types.SearchRepoName, types.SearchPath, types.SearchContent,
}

type searchModel struct {
	sess          searchRunner
	input         textinput.Model
	fieldIdx      int
	caseSensitive bool
}

// searchRunner is the slice of the session the search screen needs.
type searchRunner interface {
	Search(ctx context.Context, spec types.SearchSpec)
}

func newSearchModel(sess searchRunner) searchModel {
	ti := textinput.New()
	ti.Placeholder = "substring to find..."
	ti.CharLimit = 500
	return searchModel{sess: sess, input: ti}
}

func (m *searchModel) open() {
	m.input.Reset()
	m.input.Focus()
}

func (m searchModel) Update(msg tea.Msg) (searchModel, tea.Cmd, bool) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab":
			m.fieldIdx = (m.fieldIdx + 1) % len(searchFields)
			return m, nil, false
		case "ctrl+t":
			m.caseSensitive = !m.caseSensitive
			return m, nil, false
		case "enter":
			term := strings.TrimSpace(m.input.Value())
			if term == "" {
				return m, nil, false
			}
			m.sess.Search(context.Background(), types.SearchSpec{
				Field:         searchFields[m.fieldIdx],
				Term:          term,
				CaseSensitive: m.caseSensitive,
			})
			return m, nil, true
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd, false
}

func (m searchModel) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  Search") + "\n\n")

	for i, field := range searchFields {
		cursor := "  "
		style := rowStyle
		if i == m.fieldIdx {
			cursor = "▸ "
			style = selectedStyle
		}
		b.WriteString("  " + cursor + style.Render(string(field)) + "\n")
	}

	caseLabel := "ignore case"
	if m.caseSensitive {
		caseLabel = "match case"
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %s", caseLabel)) + "\n\n")
	b.WriteString("  " + m.input.View() + "\n\n")
	b.WriteString(helpStyle.Render("  tab field • ctrl+t case • enter search • esc cancel") + "\n")
	return b.String()
}
