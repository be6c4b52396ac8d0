package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/CosmoTheDev/scamshield/internal/controller"
	"github.com/CosmoTheDev/scamshield/models"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	fieldValue = iota
	fieldType
	fieldDescription
	fieldCount
)

// ReportModel is the report form. The controller owns the draft; the inputs
// mirror it.
type ReportModel struct {
	ctx         context.Context
	ctrl        *controller.ReportSubmitController
	value       textinput.Model
	description textinput.Model
	focus       int
	// typeTouched stops auto-detection once the user picks a type.
	typeTouched bool
	notice      string
	width       int
	height      int
}

func NewReportModel(ctx context.Context, ctrl *controller.ReportSubmitController) ReportModel {
	value := textinput.New()
	value.Placeholder = "+91 98765 43210, name@bank, https://..."
	value.Prompt = ""
	value.CharLimit = 500

	desc := textinput.New()
	desc.Placeholder = "What happened?"
	desc.Prompt = ""
	desc.CharLimit = 2000

	m := ReportModel{ctx: ctx, ctrl: ctrl, value: value, description: desc}
	return m.focusField(fieldValue)
}

func (m ReportModel) Init() tea.Cmd { return nil }

func (m ReportModel) focusField(f int) ReportModel {
	m.focus = (f + fieldCount) % fieldCount
	m.value.Blur()
	m.description.Blur()
	switch m.focus {
	case fieldValue:
		m.value.Focus()
	case fieldDescription:
		m.description.Focus()
	}
	return m
}

func (m ReportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	st := m.ctrl.State()
	switch st.Status {
	case controller.StatusLoading:
		return m, nil
	case controller.StatusSuccess:
		if key.String() == "n" || key.String() == "enter" {
			m.ctrl.SubmitAnother()
			m.value.SetValue("")
			m.description.SetValue("")
			m.typeTouched = false
			m.notice = ""
			return m.focusField(fieldValue), nil
		}
		return m, nil
	}

	switch key.String() {
	case "up":
		return m.focusField(m.focus - 1), nil
	case "down":
		return m.focusField(m.focus + 1), nil
	case "enter":
		if m.focus != fieldDescription {
			return m.focusField(m.focus + 1), nil
		}
		m.notice = ""
		if err := m.ctrl.Submit(m.ctx); err != nil {
			m.notice = submitNotice(err)
		}
		return m, nil
	}

	if m.focus == fieldType {
		switch key.String() {
		case "left", "h":
			m.typeTouched = true
			_ = m.ctrl.SetType(cycleCategory(st.Draft.Type, -1))
		case "right", "l", " ":
			m.typeTouched = true
			_ = m.ctrl.SetType(cycleCategory(st.Draft.Type, 1))
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == fieldValue {
		m.value, cmd = m.value.Update(msg)
		_ = m.ctrl.SetValue(m.value.Value())
		if !m.typeTouched && strings.TrimSpace(m.value.Value()) != "" {
			_ = m.ctrl.SetType(models.DetectCategory(m.value.Value()))
		}
	} else {
		m.description, cmd = m.description.Update(msg)
		_ = m.ctrl.SetDescription(m.description.Value())
	}
	return m, cmd
}

func submitNotice(err error) string {
	switch {
	case errors.Is(err, controller.ErrEmptyDraft):
		return "Fill in the scammer details and a description."
	case errors.Is(err, models.ErrDraftValueRequired):
		return "Scammer details are required."
	case errors.Is(err, models.ErrDraftDescriptionRequired):
		return "A description is required."
	default:
		return err.Error()
	}
}

func cycleCategory(c models.Category, step int) models.Category {
	idx := 0
	for i, cat := range models.Categories {
		if cat == c {
			idx = i
		}
	}
	n := len(models.Categories)
	return models.Categories[((idx+step)%n+n)%n]
}

// capturing reports whether a text field has focus.
func (m ReportModel) capturing() bool {
	st := m.ctrl.State()
	if st.Status == controller.StatusSuccess || st.Status == controller.StatusLoading {
		return false
	}
	return m.focus != fieldType
}

func (m *ReportModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.value.Width = max(20, w-24)
	m.description.Width = max(20, w-24)
}

func (m ReportModel) View() string {
	st := m.ctrl.State()
	w := max(20, m.width-2)

	if st.Status == controller.StatusSuccess {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			safeStyle.Render("Report submitted"),
			"",
			dimStyle.Render("Thank you. Your report helps protect others."),
			"",
			lipgloss.JoinHorizontal(lipgloss.Left, keycapStyle.Render("n"), " ", dimStyle.Render("submit another")),
		))
	}

	types := make([]string, 0, len(models.Categories))
	for _, c := range models.Categories {
		if c == st.Draft.Type {
			types = append(types, activeTabStyle.Render(c.Label()))
		} else {
			types = append(types, tabStyle.Render(c.Label()))
		}
	}

	rows := []string{
		panelHeaderStyle.Render("Report a scam"),
		"",
		m.fieldRow(fieldValue, "Scammer details", m.value.View()),
		m.fieldRow(fieldType, "Type", lipgloss.JoinHorizontal(lipgloss.Center, types...)),
		m.fieldRow(fieldDescription, "Description", m.description.View()),
		"",
	}

	switch st.Status {
	case controller.StatusLoading:
		rows = append(rows, infoStyle.Render("Submitting..."))
	case controller.StatusError:
		rows = append(rows, errorStyle.Render("Submission failed. Your report was kept; press enter on the description to retry."))
	}
	if m.notice != "" {
		rows = append(rows, errorStyle.Render(m.notice))
	}
	rows = append(rows, "", dimStyle.Render("up/down move  left/right change type  enter next/submit"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m ReportModel) fieldRow(field int, label, content string) string {
	cursor := " "
	labelStyle := dimStyle
	if field == m.focus {
		cursor = "▌"
		labelStyle = lipgloss.NewStyle().Foreground(accent)
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		lipgloss.NewStyle().Width(2).Foreground(accent).Render(cursor),
		labelStyle.Width(18).Render(label),
		content,
	)
}
