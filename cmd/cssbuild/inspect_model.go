package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type inspectState int

const (
	stateList inspectState = iota
	stateDetail
)

var (
	styleBase = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			Padding(0, 1)

	styleHelp = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)

	styleDetail = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(1, 3).
			MarginLeft(2)

	styleDetailTitle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("214"))

	styleProperty = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))
)

type inspectModel struct {
	table  table.Model
	rules  []renderedRule
	source string
	size   int
	state  inspectState
}

func newInspectModel(source string, rules []renderedRule, size int) inspectModel {
	columns := []table.Column{
		{Title: "CONTEXT", Width: 36},
		{Title: "SELECTOR", Width: 36},
		{Title: "DECL", Width: 6},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(ruleRows(rules)),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true).
		Foreground(lipgloss.Color("99"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return inspectModel{
		table:  t,
		rules:  rules,
		source: source,
		size:   size,
		state:  stateList,
	}
}

func ruleRows(rules []renderedRule) []table.Row {
	rows := make([]table.Row, len(rules))
	for i, r := range rules {
		rows[i] = table.Row{r.Context, r.Selector, fmt.Sprintf("%d", len(r.Declarations))}
	}
	return rows
}

func (m inspectModel) Init() tea.Cmd {
	return nil
}

func (m inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case stateList:
		return m.updateList(msg)
	case stateDetail:
		return m.updateDetail(msg)
	}
	return m, nil
}

func (m inspectModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "enter":
			if len(m.rules) > 0 {
				m.state = stateDetail
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m inspectModel) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc", "enter", "q":
			m.state = stateList
		}
	}
	return m, nil
}

func (m inspectModel) selected() (renderedRule, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rules) {
		return renderedRule{}, false
	}
	return m.rules[idx], true
}

func (m inspectModel) View() string {
	title := styleTitle.Render(fmt.Sprintf("%s  %d rules, %d bytes", m.source, len(m.rules), m.size))
	tableView := styleBase.Render(m.table.View())

	if m.state == stateDetail {
		if r, ok := m.selected(); ok {
			var b strings.Builder
			heading := r.Selector
			if r.Context != "" {
				heading = r.Context + "  " + heading
			}
			b.WriteString(styleDetailTitle.Render(heading))
			b.WriteString("\n")
			for _, d := range r.Declarations {
				b.WriteString("\n" + styleProperty.Render(d) + ";")
			}
			help := styleHelp.Render("esc / enter  back")
			return title + "\n" + tableView + "\n" + styleDetail.Render(b.String()) + "\n" + help
		}
	}

	var help string
	if len(m.rules) == 0 {
		help = styleHelp.Render("No rules.  q  quit")
	} else {
		help = styleHelp.Render("↑/↓  navigate    enter  declarations    q  quit")
	}
	return title + "\n" + tableView + "\n" + help
}
