package tui

import (
	"context"
	"fmt"

	"github.com/CosmoTheDev/scamshield/internal/session"
	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HistoryModel lists what happened during this session.
type HistoryModel struct {
	store  *session.Store
	scans  []session.ScanEntry
	subs   []session.SubmissionEntry
	counts session.Counts
	err    error
	width  int
	height int
}

type historyLoadedMsg struct {
	scans  []session.ScanEntry
	subs   []session.SubmissionEntry
	counts session.Counts
	err    error
}

func NewHistoryModel(store *session.Store) HistoryModel {
	return HistoryModel{store: store}
}

func (h HistoryModel) Init() tea.Cmd { return nil }

func (h HistoryModel) loadCmd() tea.Cmd {
	if h.store == nil {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		var msg historyLoadedMsg
		if msg.scans, msg.err = h.store.RecentScans(ctx, 50); msg.err != nil {
			return msg
		}
		if msg.subs, msg.err = h.store.RecentSubmissions(ctx, 50); msg.err != nil {
			return msg
		}
		msg.counts, msg.err = h.store.Counts(ctx)
		return msg
	}
}

func (h HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		h.scans, h.subs, h.counts, h.err = msg.scans, msg.subs, msg.counts, msg.err
	case tea.KeyMsg:
		if msg.String() == "r" {
			return h, h.loadCmd()
		}
	}
	return h, nil
}

func (h *HistoryModel) SetSize(w, hh int) {
	h.width = w
	h.height = hh
}

func (h HistoryModel) View() string {
	w := max(20, h.width-2)
	if h.err != nil {
		return panelStyle.Width(w).Render(errorStyle.Render("Could not read session history: " + h.err.Error()))
	}

	cardW := 16
	summary := lipgloss.JoinHorizontal(lipgloss.Top,
		renderCounter("Scans", fmt.Sprintf("%d", h.counts.Scans), infoStyle, cardW),
		renderCounter("Offline", fmt.Sprintf("%d", h.counts.Fallbacks), offlineStyle, cardW),
		renderCounter("Reports", fmt.Sprintf("%d", h.counts.Submissions), infoStyle, cardW),
		renderCounter("Accepted", fmt.Sprintf("%d", h.counts.Accepted), safeStyle, cardW),
	)

	limit := max(3, (h.height-14)/2)
	scanRows := ""
	for i, s := range h.scans {
		if i >= limit {
			break
		}
		level := scoreStyle(s.RiskScore).Render(s.Level)
		if s.Fallback {
			level = offlineStyle.Render("Offline")
		}
		scanRows += lipgloss.JoinHorizontal(lipgloss.Left,
			lipgloss.NewStyle().Width(10).Foreground(slate).Render(clock(s.ScannedAt)),
			lipgloss.NewStyle().Width(36).Foreground(ink).Render(truncate(s.QueriedValue, 34)),
			lipgloss.NewStyle().Width(10).Render(level),
			dimStyle.Render(fmt.Sprintf("score %d", s.RiskScore)),
		) + "\n"
	}
	if scanRows == "" {
		scanRows = dimStyle.Render("No scans yet.\n")
	}

	subRows := ""
	for i, s := range h.subs {
		if i >= limit {
			break
		}
		outcome := errorStyle.Render("failed")
		if s.Accepted {
			outcome = safeStyle.Render("accepted")
		}
		subRows += lipgloss.JoinHorizontal(lipgloss.Left,
			lipgloss.NewStyle().Width(10).Foreground(slate).Render(clock(s.SubmittedAt)),
			lipgloss.NewStyle().Width(36).Foreground(ink).Render(truncate(s.Value, 34)),
			lipgloss.NewStyle().Width(14).Foreground(accent).Render(s.Category),
			outcome,
		) + "\n"
	}
	if subRows == "" {
		subRows = dimStyle.Render("No reports submitted yet.\n")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Padding(0, 1).Render(summary),
		panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			panelHeaderStyle.Render("Scans this session"),
			scanRows,
			panelHeaderStyle.Render("Reports this session"),
			subRows,
			lipgloss.JoinHorizontal(lipgloss.Left, keycapStyle.Render("r"), " ", dimStyle.Render("refresh")),
		)),
	)
}

// clock extracts HH:MM:SS from an RFC 3339 timestamp.
func clock(ts string) string {
	if len(ts) >= 19 {
		return ts[11:19]
	}
	return ts
}
