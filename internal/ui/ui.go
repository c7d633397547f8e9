// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-exoplanets/internal/camera"
	"github.com/litescript/ls-exoplanets/internal/catalog"
	"github.com/litescript/ls-exoplanets/internal/logging"
	"github.com/litescript/ls-exoplanets/internal/scene"
	"github.com/litescript/ls-exoplanets/internal/state"
	"github.com/litescript/ls-exoplanets/internal/version"
)

const (
	// animInterval is one animation frame. Scene time advances by exactly
	// this much per frame.
	animInterval = 33 * time.Millisecond

	filterTimeout = 30 * time.Second

	headerLines = 3
	footerLines = 2
)

// Filterer sends filter requests to the catalog service.
type Filterer interface {
	Filter(ctx context.Context, criteria catalog.Criteria) ([]string, error)
}

// Msg types for Bubble Tea
type (
	// AnimTickMsg advances the scene by one frame.
	AnimTickMsg time.Time

	// CatalogLoadedMsg delivers a catalog fetch result.
	CatalogLoadedMsg struct {
		Result catalog.FetchResult
		Source state.Source
	}

	// FilterResultMsg delivers the response to filter request Seq.
	FilterResultMsg struct {
		Seq   uint64
		Names []string
		Err   error
	}
)

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	state    *state.Manager
	filterer Filterer
	composer *scene.Composer
	log      *logging.Logger

	// UI state
	width      int
	height     int
	ready      bool
	paused     bool
	showFilter bool
	elapsed    time.Duration
	animTick   int

	// Sub-models
	sceneView   SceneViewModel
	filterPanel FilterPanelModel

	snapshot state.Snapshot
}

// New creates a new root UI model. log may be nil.
func New(stateMgr *state.Manager, filterer Filterer, composer *scene.Composer, cam *camera.Controller, log *logging.Logger) Model {
	if log == nil {
		log = logging.Discard()
	}
	m := Model{
		state:       stateMgr,
		filterer:    filterer,
		composer:    composer,
		log:         log.With("component", "ui"),
		sceneView:   NewSceneViewModel(cam).SetOrigin(headerLines),
		filterPanel: NewFilterPanelModel(),
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return animTickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.showFilter {
			var cmd tea.Cmd
			m.filterPanel, cmd = m.filterPanel.Update(msg)
			cmds = append(cmds, cmd)
			break
		}

		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "f":
			m.showFilter = true
			m.layout()
		case "x":
			m.state.ResetFilter()
			m.log.Info("filter reset")
			m.refresh()
		case "p":
			m.paused = !m.paused
		default:
			cmds = append(cmds, m.updateSceneView(msg))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++
		if !m.paused {
			m.elapsed += animInterval
		}
		m.recompose()

	case CatalogLoadedMsg:
		m.state.Update(msg.Result, msg.Source)
		if msg.Result.Error != nil {
			m.log.Warn("catalog fetch failed: %v", msg.Result.Error)
		} else {
			m.log.Info("catalog loaded from %s: %d rows", msg.Source, len(msg.Result.Rows))
		}
		m.refresh()

	case FilterApplyMsg:
		m.showFilter = false
		m.layout()
		cmds = append(cmds, m.applyFilter(msg.Criteria))

	case FilterCloseMsg:
		m.showFilter = false
		m.layout()

	case FilterResultMsg:
		if msg.Err != nil {
			m.state.FailFilter(msg.Seq, msg.Err)
			m.log.Warn("filter #%d failed: %v", msg.Seq, msg.Err)
		} else if !m.state.CompleteFilter(msg.Seq, msg.Names) {
			m.log.Debug("filter #%d superseded, dropped", msg.Seq)
		}
		m.refresh()

	default:
		cmds = append(cmds, m.updateSceneView(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) updateSceneView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.sceneView, cmd = m.sceneView.Update(msg)
	return cmd
}

// applyFilter issues a filter request. Empty criteria still go to the
// service, which applies its default distance range.
func (m *Model) applyFilter(criteria catalog.Criteria) tea.Cmd {
	seq := m.state.BeginFilter()
	m.snapshot = m.state.Snapshot()
	m.log.Debug("filter #%d requested", seq)

	filterer := m.filterer
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), filterTimeout)
		defer cancel()
		names, err := filterer.Filter(ctx, criteria)
		return FilterResultMsg{Seq: seq, Names: names, Err: err}
	}
}

// refresh pulls a new snapshot from the state manager and recomposes.
func (m *Model) refresh() {
	m.snapshot = m.state.Snapshot()
	m.recompose()
}

func (m *Model) recompose() {
	rs := m.composer.Compose(m.snapshot.Systems, m.elapsed)
	m.sceneView = m.sceneView.UpdateRender(rs)
}

// layout distributes the terminal between the scene and the filter panel.
func (m *Model) layout() {
	contentHeight := m.height - headerLines - footerLines
	sceneWidth := m.width
	if m.showFilter {
		sceneWidth -= lipgloss.Width(m.filterPanel.View())
	}
	if sceneWidth < 0 {
		sceneWidth = 0
	}
	m.sceneView = m.sceneView.SetSize(sceneWidth, contentHeight)
}

// Elapsed returns the simulated time driving the orbits.
func (m Model) Elapsed() time.Duration {
	return m.elapsed
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	content := m.sceneView.View()
	if m.showFilter {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, m.filterPanel.View())
	}

	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	title := "✦ LS-EXOPLANETS"
	runes := []rune(title)

	var b strings.Builder
	b.WriteString("  ")
	for i, r := range runes {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(gradientColor(i, len(runes)))).Bold(true)
		b.WriteString(style.Render(string(r)))
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render(fmt.Sprintf("  v%s", version.Version)))
	b.WriteString("\n")
	b.WriteString(muted.Render("  Exoplanet Catalog · Interactive Star Map"))
	b.WriteString("\n")
	return b.String()
}

// Nebula gradient stops: blue, purple, magenta, pink.
var gradientStops = []colorful.Color{
	{R: 59 / 255.0, G: 130 / 255.0, B: 246 / 255.0},
	{R: 139 / 255.0, G: 92 / 255.0, B: 246 / 255.0},
	{R: 217 / 255.0, G: 70 / 255.0, B: 239 / 255.0},
	{R: 236 / 255.0, G: 72 / 255.0, B: 153 / 255.0},
}

// gradientColor returns the hex color at position col of width along the
// title gradient.
func gradientColor(col, width int) string {
	if width <= 1 {
		return gradientStops[0].Hex()
	}
	t := float64(col) / float64(width-1) * float64(len(gradientStops)-1)
	i := int(t)
	if i >= len(gradientStops)-1 {
		return gradientStops[len(gradientStops)-1].Hex()
	}
	return gradientStops[i].BlendLab(gradientStops[i+1], t-float64(i)).Clamped().Hex()
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	snap := m.snapshot
	var status string
	switch {
	case snap.LastError != nil:
		status = errorStyle.Render("ERROR: " + snap.LastError.Error())
	case snap.RowCount == 0 && snap.LastFetch.IsZero():
		status = accentStyle.Render(spinner) + dimStyle.Render(" Loading catalog...")
	default:
		status = dimStyle.Render(fmt.Sprintf("%d systems · %d planets · %s",
			snap.Systems.Len(), snap.Systems.PlanetCount(), snap.Source))
		if snap.FetchDuration > 0 {
			status += dimStyle.Render(" (" + snap.FetchDuration.Round(time.Millisecond).String() + ")")
		}
	}

	switch {
	case snap.FilterPending:
		status += "  " + accentStyle.Render(spinner) + dimStyle.Render(" filtering")
	case snap.FilterActive:
		status += "  " + accentStyle.Render(fmt.Sprintf("filter: %d matches", snap.FilterMatches))
	}
	if m.paused {
		status += "  " + accentStyle.Render("⏸ paused")
	}

	help := "+/-: zoom | drag: rotate | r: reset | o: overview | j/k: focus | l: labels | f: filter | x: clear | p: pause | q: quit"
	if m.showFilter {
		help = "tab: field | ←/→: adjust | space: on/off | enter: apply | esc: close"
	}

	footer := "  " + status + "\n  " + dimStyle.Render(help)

	if n := len(snap.Events); n > 0 {
		last := snap.Events[n-1]
		line := fmt.Sprintf("%s %s", last.Timestamp.Format("15:04:05"), last.Type)
		if last.Detail != "" {
			line += ": " + last.Detail
		}
		footer += "  " + dimStyle.Render("| "+line)
	}

	return footer
}

func animTickCmd() tea.Cmd {
	return tea.Tick(animInterval, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

