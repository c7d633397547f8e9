package ui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-exoplanets/internal/catalog"
)

// FilterApplyMsg asks the root model to send a filter request.
type FilterApplyMsg struct {
	Criteria catalog.Criteria
}

// FilterCloseMsg closes the filter panel.
type FilterCloseMsg struct{}

// slider is one numeric filter field. Disabled fields impose no constraint.
type slider struct {
	label   string
	unit    string
	min     float64
	max     float64
	step    float64
	value   float64
	enabled bool
}

func (s *slider) adjust(dir float64) {
	v := s.value + dir*s.step
	v = math.Max(s.min, math.Min(s.max, v))
	// Snap to the step grid to avoid accumulated float error.
	s.value = math.Round(v/s.step) * s.step
	s.enabled = true
}

func (s slider) ptr() *float64 {
	if !s.enabled {
		return nil
	}
	v := s.value
	return &v
}

const (
	fieldMaxDistance = iota
	fieldTelescope
	fieldWavelength
	fieldESI
	fieldMethod
	fieldCount
)

// FilterPanelModel edits filter criteria.
type FilterPanelModel struct {
	sliders [fieldMethod]slider

	methodIdx     int
	methodEnabled bool

	cursor int
}

// NewFilterPanelModel creates a panel with every field disabled.
func NewFilterPanelModel() FilterPanelModel {
	return FilterPanelModel{
		sliders: [fieldMethod]slider{
			fieldMaxDistance: {label: "Max distance", unit: "ly", min: 0, max: 1000, step: 10, value: 20},
			fieldTelescope:   {label: "Telescope Ø", unit: "m", min: 0, max: 20, step: 0.5, value: 6},
			fieldWavelength:  {label: "Wavelength", unit: "µm", min: 0, max: 5, step: 0.1, value: 1},
			fieldESI:         {label: "ESI ≥", unit: "", min: 0, max: 1, step: 0.05, value: 0.5},
		},
	}
}

// Criteria returns the criteria for the enabled fields.
func (m FilterPanelModel) Criteria() catalog.Criteria {
	c := catalog.Criteria{
		MaxDistance:       m.sliders[fieldMaxDistance].ptr(),
		TelescopeDiameter: m.sliders[fieldTelescope].ptr(),
		Wavelength:        m.sliders[fieldWavelength].ptr(),
		ESIThreshold:      m.sliders[fieldESI].ptr(),
	}
	if m.methodEnabled {
		method := catalog.DiscoveryMethods[m.methodIdx]
		c.DiscoveryMethod = &method
	}
	return c
}

// Update handles panel keys.
func (m FilterPanelModel) Update(msg tea.Msg) (FilterPanelModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "tab", "down", "j":
		m.cursor = (m.cursor + 1) % fieldCount
	case "shift+tab", "up", "k":
		m.cursor = (m.cursor + fieldCount - 1) % fieldCount
	case "left", "h":
		m.adjust(-1)
	case "right", "l":
		m.adjust(1)
	case " ", "space":
		m.toggle()
	case "enter":
		criteria := m.Criteria()
		return m, func() tea.Msg { return FilterApplyMsg{Criteria: criteria} }
	case "esc", "f":
		return m, func() tea.Msg { return FilterCloseMsg{} }
	}
	return m, nil
}

func (m *FilterPanelModel) adjust(dir float64) {
	if m.cursor == fieldMethod {
		n := len(catalog.DiscoveryMethods)
		m.methodIdx = (m.methodIdx + int(dir) + n) % n
		m.methodEnabled = true
		return
	}
	m.sliders[m.cursor].adjust(dir)
}

func (m *FilterPanelModel) toggle() {
	if m.cursor == fieldMethod {
		m.methodEnabled = !m.methodEnabled
		return
	}
	m.sliders[m.cursor].enabled = !m.sliders[m.cursor].enabled
}

// View renders the panel.
func (m FilterPanelModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(14)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	offStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cursorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)

	b.WriteString(titleStyle.Render("Filter"))
	b.WriteString("\n")

	row := func(idx int, label, value string, enabled bool) {
		marker := "  "
		if idx == m.cursor {
			marker = cursorStyle.Render("▶ ")
		}
		b.WriteString(marker)
		b.WriteString(labelStyle.Render(label))
		if enabled {
			b.WriteString(valueStyle.Render(value))
		} else {
			b.WriteString(offStyle.Render("off"))
		}
		b.WriteString("\n")
	}

	for i, s := range m.sliders {
		value := fmt.Sprintf("%s %s", formatSliderValue(s), s.unit)
		row(i, s.label, strings.TrimSpace(value)+"  "+sliderBar(s, 12), s.enabled)
	}
	row(fieldMethod, "Method", "◂ "+string(catalog.DiscoveryMethods[m.methodIdx])+" ▸", m.methodEnabled)

	b.WriteString(offStyle.Render("tab: field  ←/→: adjust  space: on/off  enter: apply  esc: close"))
	b.WriteString("\n")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("60")).
		Padding(0, 1).
		Render(b.String())
}

func formatSliderValue(s slider) string {
	if s.step >= 1 {
		return fmt.Sprintf("%.0f", s.value)
	}
	return fmt.Sprintf("%.2f", s.value)
}

func sliderBar(s slider, width int) string {
	frac := (s.value - s.min) / (s.max - s.min)
	filled := int(math.Round(frac * float64(width)))
	return strings.Repeat("━", filled) + "●" + strings.Repeat("─", width-filled)
}
