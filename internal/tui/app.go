package tui

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/CosmoTheDev/scamshield/internal/config"
	"github.com/CosmoTheDev/scamshield/internal/controller"
	"github.com/CosmoTheDev/scamshield/internal/session"
	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Tab represents a TUI navigation tab.
type Tab int

const (
	TabScan Tab = iota
	TabReport
	TabTrends
	TabHistory
)

var tabNames = []string{"Scan", "Report", "Trends", "History"}
var tabTinyNames = []string{"S", "R", "T", "H"}

// Backend is everything the TUI needs from the ScamShield service.
type Backend interface {
	controller.Scanner
	controller.ReportSubmitter
	controller.TrendsSource
}

// changedMsg asks for a re-render after a controller changed state.
type changedMsg struct{}

// App is the root bubbletea model.
type App struct {
	ctx       context.Context
	cfg       *config.Config
	program   *tea.Program
	width     int
	height    int
	activeTab Tab
	scan      ScanModel
	report    ReportModel
	trends    TrendsModel
	history   HistoryModel
}

// NewApp creates the TUI application. store may be nil.
func NewApp(ctx context.Context, cfg *config.Config, backend Backend, store *session.Store) *App {
	a := &App{ctx: ctx, cfg: cfg}

	hooks := controller.Hooks{OnChange: a.notify}
	if store != nil {
		hooks.Recorder = store
	}
	sched := controller.CronScheduler{Logger: slog.Default()}

	a.scan = NewScanModel(ctx, controller.NewScanController(backend, hooks), func() *controller.LiveFeedPoller {
		return controller.NewLiveFeedPoller(backend, cfg.Feed, sched, hooks)
	})
	a.report = NewReportModel(ctx, controller.NewReportSubmitController(backend, hooks))
	a.trends = NewTrendsModel(ctx, func() *controller.TrendsExplorer {
		return controller.NewTrendsExplorer(backend, cfg.Trends, hooks)
	})
	a.history = NewHistoryModel(store)
	return a
}

// Run starts the bubbletea program and blocks until it exits.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	a.program = p
	a.scan = a.scan.SetActive(true)
	_, err := p.Run()
	a.scan = a.scan.SetActive(false)
	return err
}

// notify runs on controller goroutines and on the event loop itself, so the
// send must not block.
func (a *App) notify() {
	if p := a.program; p != nil {
		go p.Send(changedMsg{})
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.scan.Init(),
		a.report.Init(),
	)
}

func (a *App) capturing() bool {
	switch a.activeTab {
	case TabScan:
		return a.scan.capturing()
	case TabReport:
		return a.report.capturing()
	}
	return false
}

func (a *App) setTab(t Tab) tea.Cmd {
	if t == a.activeTab {
		return nil
	}
	if a.activeTab == TabScan {
		a.scan = a.scan.SetActive(false)
	}
	a.activeTab = t
	switch t {
	case TabScan:
		a.scan = a.scan.SetActive(true)
	case TabTrends:
		a.trends = a.trends.Activate()
	case TabHistory:
		return a.history.loadCmd()
	}
	return nil
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		contentW := msg.Width - 2
		if contentW < 20 {
			contentW = 20
		}
		contentH := msg.Height - 7
		if contentH < 8 {
			contentH = 8
		}
		a.scan.SetSize(contentW, contentH)
		a.report.SetSize(contentW, contentH)
		a.trends.SetSize(contentW, contentH)
		a.history.SetSize(contentW, contentH)
		return a, nil

	case changedMsg:
		a.scan = a.scan.syncFeed()
		if a.activeTab == TabHistory {
			return a, a.history.loadCmd()
		}
		return a, nil

	case tickerMsg:
		newScan, cmd := a.scan.Update(msg)
		a.scan = newScan.(ScanModel)
		return a, cmd

	case historyLoadedMsg:
		newHistory, cmd := a.history.Update(msg)
		a.history = newHistory.(HistoryModel)
		return a, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "tab":
			return a, a.setTab((a.activeTab + 1) % Tab(len(tabNames)))
		case "shift+tab":
			return a, a.setTab((a.activeTab + Tab(len(tabNames)) - 1) % Tab(len(tabNames)))
		}
		if !a.capturing() {
			switch msg.String() {
			case "q":
				return a, tea.Quit
			case "1", "2", "3", "4":
				return a, a.setTab(Tab(msg.String()[0] - '1'))
			}
		}
	}

	// Delegate to active view.
	switch a.activeTab {
	case TabScan:
		newScan, cmd := a.scan.Update(msg)
		a.scan = newScan.(ScanModel)
		cmds = append(cmds, cmd)
	case TabReport:
		newReport, cmd := a.report.Update(msg)
		a.report = newReport.(ReportModel)
		cmds = append(cmds, cmd)
	case TabTrends:
		newTrends, cmd := a.trends.Update(msg)
		a.trends = newTrends.(TrendsModel)
		cmds = append(cmds, cmd)
	case TabHistory:
		newHistory, cmd := a.history.Update(msg)
		a.history = newHistory.(HistoryModel)
		cmds = append(cmds, cmd)
	}

	return a, tea.Batch(cmds...)
}

// View implements tea.Model.
func (a *App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	nav := a.renderTabs()

	var content string
	switch a.activeTab {
	case TabScan:
		content = a.scan.View()
	case TabReport:
		content = a.report.View()
	case TabTrends:
		content = a.trends.View()
	case TabHistory:
		content = a.history.View()
	}

	contentBox := lipgloss.NewStyle().
		Width(a.width).
		Padding(0, 1).
		MaxHeight(max(1, a.height-4)).
		Render(content)

	help := "tab next  shift+tab prev  1-4 jump  q quit"
	if a.capturing() {
		help = "tab next  shift+tab prev  ctrl+c quit"
	}
	status := lipgloss.NewStyle().
		Width(a.width).
		Padding(0, 1).
		Foreground(slateDim).
		Render(help)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		nav,
		contentBox,
		status,
	)
}

func (a *App) renderHeader() string {
	row := lipgloss.JoinHorizontal(lipgloss.Left,
		titleStyle.Render("scamshield"),
		"  ",
		dimStyle.Render("community scam risk checker"),
		"  ",
		mutedBadgeStyle.Render(" "+a.cfg.API.BaseURL+" "),
	)
	return lipgloss.NewStyle().
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(line).
		Width(a.width).
		Padding(0, 1).
		Render(row)
}

func (a *App) renderTabs() string {
	rendered := a.renderTabLabels(tabNames)
	maxWidth := a.width - 2
	if maxWidth < 10 {
		maxWidth = 10
	}
	if lipgloss.Width(rendered) > maxWidth {
		rendered = a.renderTabLabels(tabTinyNames)
	}

	return lipgloss.NewStyle().
		Width(a.width).
		Padding(0, 1).
		Foreground(slate).
		Render(rendered)
}

func (a *App) renderTabLabels(labels []string) string {
	parts := make([]string, 0, len(labels))
	for i, name := range labels {
		label := fmt.Sprintf("%d:%s", i+1, name)
		if Tab(i) == a.activeTab {
			parts = append(parts, lipgloss.NewStyle().Bold(true).Foreground(accent).Render(label))
		} else {
			parts = append(parts, dimStyle.Render(label))
		}
		if i < len(labels)-1 {
			parts = append(parts, dimStyle.Render("  ·  "))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, parts...)
}
