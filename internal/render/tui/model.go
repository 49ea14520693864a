// Package tui is a terminal rendering surface for the dashboard.
package tui

import (
	"fmt"
	"strings"

	"SignalDash/internal/domain/models"
	"SignalDash/internal/service/signallog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// projectionMsg carries one (partial) projection into the program.
type projectionMsg struct {
	p models.Projection
}

const sparkBlocks = "▁▂▃▄▅▆▇█"

// Model merges projections and lets the user narrow the signal list. Filtering is a
// view concern only; nothing flows back to the dashboard core.
type Model struct {
	view models.Projection

	asset     string
	search    textinput.Model
	searching bool

	help  help.Model
	width int
}

// New returns a model with no data and no filters.
func New() Model {
	ti := textinput.New()
	ti.Placeholder = "asset, direction or timeframe"
	ti.Prompt = "/ "
	ti.CharLimit = 64
	return Model{
		asset:  signallog.AllAssets,
		search: ti,
		help:   help.New(),
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case projectionMsg:
		m.view.Merge(msg.p)
		// the selected asset may have scrolled out of the visible log
		if !m.hasAsset(m.asset) {
			m.asset = signallog.AllAssets
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Search):
			m.searching = true
			return m, m.search.Focus()
		case key.Matches(msg, keys.NextAsset):
			m.asset = m.cycleAsset(1)
		case key.Matches(msg, keys.PrevAsset):
			m.asset = m.cycleAsset(-1)
		case key.Matches(msg, keys.Clear):
			m.asset = signallog.AllAssets
			m.search.SetValue("")
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Cancel):
		m.searching = false
		m.search.SetValue("")
		m.search.Blur()
		return m, nil
	case key.Matches(msg, keys.Accept):
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

// Rows returns the visible signal rows after the asset filter and search query.
func (m Model) Rows() []models.SignalRow {
	if m.view.Signals == nil {
		return nil
	}
	query := m.search.Value()
	var out []models.SignalRow
	for _, row := range m.view.Signals.Rows {
		if signallog.MatchesAsset(row.Event, m.asset) && signallog.Matches(row.Event, query) {
			out = append(out, row)
		}
	}
	return out
}

func (m Model) Asset() string { return m.asset }

func (m Model) assets() []string {
	if m.view.Signals == nil {
		return nil
	}
	events := make([]models.SignalEvent, 0, len(m.view.Signals.Rows))
	for _, row := range m.view.Signals.Rows {
		events = append(events, row.Event)
	}
	return signallog.Assets(events)
}

func (m Model) hasAsset(asset string) bool {
	if asset == signallog.AllAssets {
		return true
	}
	for _, a := range m.assets() {
		if a == asset {
			return true
		}
	}
	return false
}

// cycleAsset steps through "all" followed by the assets in the visible log.
func (m Model) cycleAsset(step int) string {
	options := append([]string{signallog.AllAssets}, m.assets()...)
	cur := 0
	for i, a := range options {
		if a == m.asset {
			cur = i
			break
		}
	}
	next := (cur + step + len(options)) % len(options)
	return options[next]
}

func (m Model) View() string {
	var b strings.Builder

	header := titleStyle.Render("Trading Signal Dashboard")
	if m.view.Clock != "" {
		header += labelStyle.Render("  " + m.view.Clock)
	}
	if m.view.Phase == models.PhaseDegraded {
		header += degradedStyle.Render("  DEGRADED")
	} else if m.view.Phase != "" {
		header += labelStyle.Render("  " + string(m.view.Phase))
	}
	b.WriteString(header + "\n")

	top := lipgloss.JoinHorizontal(lipgloss.Top, m.connectionPanel(), m.performancePanel())
	b.WriteString(top + "\n")
	b.WriteString(m.signalsPanel() + "\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.profitPanel(), m.distributionPanel()) + "\n")
	if notes := m.notificationsView(); notes != "" {
		b.WriteString(notes + "\n")
	}
	if m.searching {
		b.WriteString(m.search.View() + "\n")
	}
	b.WriteString(helpStyle.Render(m.help.View(keys)))
	return b.String()
}

func (m Model) connectionPanel() string {
	c := m.view.Connection
	if c == nil {
		return panelStyle.Render(panelTitleStyle.Render("Connection") + "\nloading…")
	}
	lines := []string{
		panelTitleStyle.Render("Connection"),
		c.Status,
		c.Authentication,
		labelStyle.Render("Messages: ") + c.MessageCount,
		labelStyle.Render("Last activity: ") + c.LastActivity,
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) performancePanel() string {
	p := m.view.Performance
	if p == nil {
		return panelStyle.Render(panelTitleStyle.Render("Performance") + "\nloading…")
	}
	lines := []string{
		panelTitleStyle.Render("Performance"),
		labelStyle.Render("Total signals: ") + p.TotalSignals,
		labelStyle.Render("Winning: ") + p.WinningSignals + labelStyle.Render("  Losing: ") + p.LosingSignals,
		labelStyle.Render("Win rate: ") + p.WinRate,
		labelStyle.Render("Total profit: ") + p.TotalProfit,
		labelStyle.Render("Active assets: ") + p.ActiveAssets,
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) signalsPanel() string {
	title := fmt.Sprintf("Live Signals [asset: %s]", m.asset)
	if q := m.search.Value(); q != "" {
		title += fmt.Sprintf(" [search: %s]", q)
	}
	lines := []string{panelTitleStyle.Render(title)}

	rows := m.Rows()
	if len(rows) == 0 {
		lines = append(lines, labelStyle.Render("no signals"))
	}
	for _, r := range rows {
		dir := directionStyle(r.Direction).Render(fmt.Sprintf("%-4s", r.Direction))
		line := fmt.Sprintf("%s  %-10s %s  %-4s %6s", r.Time, r.Asset, dir, r.Timeframe, r.Confidence)
		if r.Highlight {
			line = highlightStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) profitPanel() string {
	lines := []string{panelTitleStyle.Render("Profit")}
	if m.view.Charts == nil || len(m.view.Charts.Profit) == 0 {
		lines = append(lines, labelStyle.Render("no data"))
		return panelStyle.Render(strings.Join(lines, "\n"))
	}
	pts := m.view.Charts.Profit
	values := make([]float64, len(pts))
	for i, p := range pts {
		values[i] = p.Value.InexactFloat64()
	}
	last := pts[len(pts)-1]
	lines = append(lines, sparkline(values), labelStyle.Render(pts[0].Label+" → "+last.Label+"  $"+last.Value.StringFixed(2)))
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) distributionPanel() string {
	lines := []string{panelTitleStyle.Render("Distribution")}
	var d models.Distribution
	if m.view.Charts != nil {
		d = m.view.Charts.Distribution
	}
	total := d.Total()
	for _, item := range []struct {
		name  string
		count int
	}{{"CALL", d.Call}, {"PUT", d.Put}, {"HOLD", d.Hold}} {
		width := 0
		if total > 0 {
			width = item.count * 20 / total
		}
		bar := directionStyle(item.name).Render(strings.Repeat("█", width))
		lines = append(lines, fmt.Sprintf("%-4s %s %d", item.name, bar, item.count))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) notificationsView() string {
	if m.view.Notifications == nil || len(m.view.Notifications.Items) == 0 {
		return ""
	}
	var lines []string
	for _, n := range m.view.Notifications.Items {
		style := infoNoteStyle
		if n.Severity == models.SeverityError {
			style = errorNoteStyle
		}
		lines = append(lines, style.Render("• "+n.Message))
	}
	return strings.Join(lines, "\n")
}

// sparkline scales values onto block characters between their min and max.
func sparkline(values []float64) string {
	blocks := []rune(sparkBlocks)
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	var b strings.Builder
	for _, v := range values {
		i := len(blocks) / 2
		if hi > lo {
			i = int((v - lo) / (hi - lo) * float64(len(blocks)-1))
		}
		b.WriteRune(blocks[i])
	}
	return b.String()
}
