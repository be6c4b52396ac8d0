package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/CosmoTheDev/scamshield/internal/controller"
	"github.com/CosmoTheDev/scamshield/models"
	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	chartTrend = iota
	chartCategories
)

// TrendsModel renders the stats charts. Each activation creates a new
// explorer, so stats are fetched once per visit.
type TrendsModel struct {
	ctx     context.Context
	newCtrl func() *controller.TrendsExplorer
	ctrl    *controller.TrendsExplorer
	chart   int
	cursor  int
	notice  string
	width   int
	height  int
}

func NewTrendsModel(ctx context.Context, newCtrl func() *controller.TrendsExplorer) TrendsModel {
	return TrendsModel{ctx: ctx, newCtrl: newCtrl}
}

func (m TrendsModel) Init() tea.Cmd { return nil }

// Activate mounts the view and starts loading the snapshot.
func (m TrendsModel) Activate() TrendsModel {
	m.ctrl = m.newCtrl()
	m.ctrl.Load(m.ctx)
	m.chart, m.cursor, m.notice = chartTrend, 0, ""
	return m
}

func (m TrendsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || m.ctrl == nil {
		return m, nil
	}
	st := m.ctrl.State()
	if st.Loading {
		return m, nil
	}
	if st.Detail.Open {
		if key.String() == "esc" || key.String() == "backspace" {
			m.ctrl.CloseDetail()
		}
		return m, nil
	}
	if st.Snapshot == nil {
		return m, nil
	}

	switch key.String() {
	case "left", "h":
		m.chart, m.cursor = chartTrend, 0
	case "right", "l":
		m.chart, m.cursor = chartCategories, 0
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < m.rows(st.Snapshot)-1 {
			m.cursor++
		}
	case "enter":
		var err error
		if m.chart == chartTrend {
			err = m.ctrl.SelectTrendPoint(m.ctx, m.cursor)
		} else {
			err = m.ctrl.SelectCategory(m.ctx, m.cursor)
		}
		m.notice = ""
		if err != nil {
			m.notice = err.Error()
		}
	}
	return m, nil
}

func (m TrendsModel) rows(s *models.TrendsSnapshot) int {
	if m.chart == chartTrend {
		return len(s.Trend)
	}
	return len(s.Categories)
}

func (m *TrendsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

func (m TrendsModel) View() string {
	w := max(20, m.width-2)
	if m.ctrl == nil {
		return ""
	}
	st := m.ctrl.State()
	if st.Loading {
		return panelStyle.Width(w).Render("Loading trends...")
	}
	if st.Detail.Open {
		return m.renderDetail(st.Detail, w)
	}
	if st.Snapshot == nil {
		return panelStyle.Width(w).Render(dimStyle.Render("Trends are unavailable right now."))
	}
	s := *st.Snapshot

	cardW := 22
	counters := lipgloss.JoinHorizontal(lipgloss.Top,
		renderCounter("Total reports", fmt.Sprintf("%d", s.TotalReports), infoStyle, cardW),
		renderCounter("Avg / day (7d)", s.AverageDailyString(), cautionStyle, cardW),
		renderCounter("Categories", fmt.Sprintf("%d", len(s.Categories)), infoStyle, cardW),
	)

	barW := max(10, w-40)
	var trend, cats strings.Builder
	highest := s.MaxTrendCount()
	for i, p := range s.Trend {
		n := 0
		if highest > 0 {
			n = p.Count * barW / highest
		}
		row := fmt.Sprintf("%s %s %d", p.Date, infoStyle.Render(strings.Repeat("█", n)), p.Count)
		trend.WriteString(m.renderRow(chartTrend, i, row))
	}
	for i, c := range s.Categories {
		share := s.CategoryShare(i)
		n := int(share * float64(barW))
		row := fmt.Sprintf("%-14s %s %d (%.0f%%)", c.Name, cautionStyle.Render(strings.Repeat("█", n)), c.Value, share*100)
		cats.WriteString(m.renderRow(chartCategories, i, row))
	}

	trendHeader, catHeader := dimStyle.Render("Daily reports"), dimStyle.Render("By category")
	if m.chart == chartTrend {
		trendHeader = panelHeaderStyle.Render("Daily reports")
	} else {
		catHeader = panelHeaderStyle.Render("By category")
	}

	parts := []string{
		counters,
		panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			trendHeader, strings.TrimRight(trend.String(), "\n"),
			"",
			catHeader, strings.TrimRight(cats.String(), "\n"),
			"",
			dimStyle.Render("left/right chart  up/down select  enter show reports"),
		)),
	}
	if m.notice != "" {
		parts = append(parts, errorStyle.Render(m.notice))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m TrendsModel) renderRow(chart, idx int, row string) string {
	if chart == m.chart && idx == m.cursor {
		return selectedRowStyle.Render(row) + "\n"
	}
	return "  " + row + "\n"
}

func (m TrendsModel) renderDetail(d controller.DetailView, w int) string {
	body := infoStyle.Render("Loading reports...")
	if !d.Loading {
		body = renderReportList(d.Reports, w-6, max(3, m.height-10))
	}
	return modalStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		panelHeaderStyle.Render(d.Title),
		"",
		body,
		"",
		lipgloss.JoinHorizontal(lipgloss.Left, keycapStyle.Render("esc"), " ", dimStyle.Render("close")),
	))
}
