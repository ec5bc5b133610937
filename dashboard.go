package main

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ramborogers/netninja/report"
	"github.com/ramborogers/netninja/scanner"
	"github.com/ramborogers/netninja/views"
	"github.com/rs/zerolog/log"
)

// reportSource collects a full status report
type reportSource interface {
	Collect(ctx context.Context) (*report.Report, error)
}

// trafficSource samples interface counters
type trafficSource func(ctx context.Context) (scanner.TrafficSample, error)

type reportMsg struct {
	report *report.Report
	err    error
}

type trafficMsg struct {
	sample scanner.TrafficSample
	err    error
}

// refreshTickMsg carries the generation of the report that scheduled it;
// ticks from superseded generations are dropped.
type refreshTickMsg struct{ gen int }
type trafficTickMsg struct{}
type tickMsg time.Time

// dashboardModel is the bubbletea model behind `monitor`
type dashboardModel struct {
	ctx             context.Context
	reports         reportSource
	traffic         trafficSource
	refreshInterval time.Duration
	trafficInterval time.Duration

	view        *views.DashboardView
	frame       int
	refreshing  bool
	refreshGen  int
	lastRefresh time.Time
	lastSample  *scanner.TrafficSample
	lastErr     error
}

func newDashboardModel(ctx context.Context, reports reportSource, traffic trafficSource, refresh, trafficEvery time.Duration) *dashboardModel {
	return &dashboardModel{
		ctx:             ctx,
		reports:         reports,
		traffic:         traffic,
		refreshInterval: refresh,
		trafficInterval: trafficEvery,
		view:            views.NewDashboardView(views.NewStyles(), version),
	}
}

func (m *dashboardModel) collectCmd() tea.Cmd {
	return func() tea.Msg {
		r, err := m.reports.Collect(m.ctx)
		return reportMsg{report: r, err: err}
	}
}

func (m *dashboardModel) sampleCmd() tea.Cmd {
	return func() tea.Msg {
		s, err := m.traffic(m.ctx)
		return trafficMsg{sample: s, err: err}
	}
}

func (m *dashboardModel) refreshTick() tea.Cmd {
	gen := m.refreshGen
	return tea.Tick(m.refreshInterval, func(time.Time) tea.Msg {
		return refreshTickMsg{gen: gen}
	})
}

func (m *dashboardModel) trafficTick() tea.Cmd {
	return tea.Tick(m.trafficInterval, func(time.Time) tea.Msg {
		return trafficTickMsg{}
	})
}

// Animation speed of the refresh indicator
func tick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init implements tea.Model
func (m *dashboardModel) Init() tea.Cmd {
	m.refreshing = true
	return tea.Batch(m.collectCmd(), m.sampleCmd(), tick())
}

// Update implements tea.Model
func (m *dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.view.SetDimensions(msg.Width, msg.Height)
		return m, nil

	case tickMsg:
		m.frame++
		return m, tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			if !m.refreshing {
				m.refreshing = true
				return m, m.collectCmd()
			}
		case "tab":
			m.view.SetFocus(m.view.Focus().Next())
		case "up", "k":
			m.scroll(-1)
		case "down", "j":
			m.scroll(1)
		}
		return m, nil

	case refreshTickMsg:
		if msg.gen != m.refreshGen || m.refreshing {
			return m, nil
		}
		m.refreshing = true
		return m, m.collectCmd()

	case reportMsg:
		m.refreshing = false
		m.lastErr = msg.err
		if msg.err != nil {
			log.Warn().Err(msg.err).Msg("dashboard refresh failed")
		} else {
			m.lastRefresh = msg.report.CollectedAt
			m.view.SetReport(msg.report)
		}
		m.refreshGen++
		return m, m.refreshTick()

	case trafficTickMsg:
		return m, m.sampleCmd()

	case trafficMsg:
		if msg.err != nil {
			m.view.SetTraffic(nil, msg.err)
		} else {
			if m.lastSample != nil {
				m.view.SetTraffic(scanner.Rates(*m.lastSample, msg.sample), nil)
			}
			sample := msg.sample
			m.lastSample = &sample
		}
		return m, m.trafficTick()
	}

	return m, nil
}

func (m *dashboardModel) scroll(delta int) {
	var table *views.TableView
	switch m.view.Focus() {
	case views.PanePorts:
		table = m.view.Ports
	case views.PanePeers:
		table = m.view.Peers
	default:
		return
	}
	if delta < 0 {
		table.ScrollUp()
	} else {
		table.ScrollDown()
	}
}

// View implements tea.Model
func (m *dashboardModel) View() string {
	m.view.Header.SetFrame(m.frame)
	m.view.Header.SetRefresh(m.lastRefresh, m.refreshing)
	return m.view.Render()
}
