package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/CosmoTheDev/scamshield/internal/controller"
	"github.com/CosmoTheDev/scamshield/models"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const tickerInterval = 250 * time.Millisecond

type tickerMsg struct{}

// ScanModel is the search box, the scan result and the live ticker. The
// ticker polls only while no result is on screen.
type ScanModel struct {
	ctx     context.Context
	scan    *controller.ScanController
	newFeed func() *controller.LiveFeedPoller
	feed    *controller.LiveFeedPoller
	active  bool
	input   textinput.Model
	offset  int
	width   int
	height  int
}

func NewScanModel(ctx context.Context, scan *controller.ScanController, newFeed func() *controller.LiveFeedPoller) ScanModel {
	in := textinput.New()
	in.Placeholder = "Phone number, UPI ID, URL or message text"
	in.Prompt = "› "
	in.CharLimit = 2000
	in.Focus()
	return ScanModel{ctx: ctx, scan: scan, newFeed: newFeed, input: in}
}

func (m ScanModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickerInterval, func(time.Time) tea.Msg { return tickerMsg{} })
}

func (m ScanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tickerMsg:
		m.offset++
		return m.syncFeed(), tickCmd()

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if m.scan.Submit(m.ctx, m.input.Value()) {
				m.input.Blur()
			}
			return m.syncFeed(), nil
		case "esc":
			m.scan.Clear()
			m.input.SetValue("")
			focus := m.input.Focus()
			return m.syncFeed(), focus
		}
		if !m.input.Focused() {
			focus := m.input.Focus()
			m.input, cmd = m.input.Update(msg)
			return m, tea.Batch(focus, cmd)
		}
	}
	m.input, cmd = m.input.Update(msg)
	return m.syncFeed(), cmd
}

// SetActive mounts or unmounts the view.
func (m ScanModel) SetActive(active bool) ScanModel {
	m.active = active
	return m.syncFeed()
}

// syncFeed tears the poller down while a scan is shown or the view is not
// mounted, and starts a fresh one when the search box is back on screen.
func (m ScanModel) syncFeed() ScanModel {
	st := m.scan.State()
	want := m.active && !st.Loading && st.Result == nil
	switch {
	case !want && m.feed != nil:
		m.feed.Stop()
		m.feed = nil
	case want && m.feed == nil && m.newFeed != nil:
		m.feed = m.newFeed()
		_ = m.feed.Start(m.ctx)
	}
	return m
}

// capturing reports whether the search box is taking keystrokes.
func (m ScanModel) capturing() bool {
	return m.input.Focused()
}

func (m *ScanModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.input.Width = max(20, w-10)
}

func (m ScanModel) View() string {
	st := m.scan.State()
	w := max(20, m.width-2)

	search := panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		panelHeaderStyle.Render("Check before you pay"),
		m.input.View(),
		dimStyle.Render("enter scan  esc clear"),
	))

	var body string
	switch {
	case st.Loading:
		body = panelStyle.Width(w).Render(infoStyle.Render("Scanning " + st.Query + "..."))
	case st.Result != nil:
		body = m.renderResult(*st.Result, w)
	default:
		body = m.renderTicker(w)
	}
	return lipgloss.JoinVertical(lipgloss.Left, search, body)
}

func (m ScanModel) renderResult(r models.ScanResult, w int) string {
	style := resultStyle(r)
	cardW := 16
	if m.width >= 100 {
		cardW = 20
	}
	counters := lipgloss.JoinHorizontal(lipgloss.Top,
		renderCounter("Risk score", fmt.Sprintf("%d", r.RiskScore), scoreStyle(r.RiskScore), cardW),
		renderCounter("Reports", fmt.Sprintf("%d", r.ReportCount), infoStyle, cardW),
		renderCounter("Confidence", fmt.Sprintf("%d%%", r.ConfidenceScore), infoStyle, cardW),
		renderCounter("Status", r.Status(), style, cardW),
	)

	reasons := make([]string, 0, len(r.Reasons))
	for _, reason := range r.Reasons {
		reasons = append(reasons, "• "+reason)
	}
	if len(reasons) == 0 {
		reasons = append(reasons, dimStyle.Render("No risk signals."))
	}

	header := lipgloss.JoinHorizontal(lipgloss.Left,
		style.Render(strings.ToUpper(string(r.Level))),
		"  ",
		panelHeaderStyle.Render(truncate(r.QueriedValue, max(10, w-30))),
	)
	if r.Fallback {
		header = lipgloss.JoinHorizontal(lipgloss.Left, offlineStyle.Render("OFFLINE"), "  ",
			panelHeaderStyle.Render(truncate(r.QueriedValue, max(10, w-30))))
	}

	parts := []string{
		header,
		"",
		counters,
		"",
		panelHeaderStyle.Render("Why"),
		strings.Join(reasons, "\n"),
	}
	if r.ActionAdvice != "" {
		parts = append(parts, "", style.Render(r.ActionAdvice))
	}
	if len(r.Reports) > 0 {
		parts = append(parts, "", panelHeaderStyle.Render("Community reports"),
			renderReportList(r.Reports, w, max(3, m.height-24)))
	}
	if r.ScanID != "" {
		parts = append(parts, "", dimStyle.Render("scan "+r.ScanID))
	}
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m ScanModel) renderTicker(w int) string {
	if m.feed == nil {
		return ""
	}
	st := m.feed.State()
	text := dimStyle.Render("Waiting for reports...")
	if len(st.Records) > 0 {
		text = lipgloss.NewStyle().Foreground(ink).Render(tickerLine(st.Records, m.offset, max(10, w-6)))
	}
	updated := "never"
	if !st.LastUpdated.IsZero() {
		updated = st.LastUpdated.Format("15:04:05")
	}
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Left,
			criticalStyle.Render("●"), " ", panelHeaderStyle.Render("Live reports"),
			"   ", dimStyle.Render("updated "+updated),
		),
		text,
	))
}
