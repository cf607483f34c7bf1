package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/karoux/oscsync/internal/config"
	"github.com/karoux/oscsync/internal/discovery"
	"github.com/karoux/oscsync/internal/service"
	"github.com/karoux/oscsync/internal/ui"
)

// Messages for async pipeline events
type serviceMsg discovery.ServiceRecord
type paramsMsg map[string]any

// watchKeyMap defines key bindings for the watch dashboard
type watchKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Refetch key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k watchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Refetch, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k watchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Refetch, k.Quit},
	}
}

var watchKeys = watchKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Refetch: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refetch"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// serviceItem wraps a ServiceRecord for use with bubbles/list
type serviceItem struct {
	rec discovery.ServiceRecord
}

// FilterValue implements list.Item
func (s serviceItem) FilterValue() string {
	return s.rec.InstanceName + " " + s.rec.ID
}

// Title returns the instance name for list display
func (s serviceItem) Title() string {
	return s.rec.InstanceName
}

// Description returns the resolved endpoint for list display
func (s serviceItem) Description() string {
	addr := "(unresolved)"
	if s.rec.Address != nil {
		addr = s.rec.Address.String()
	}
	return fmt.Sprintf("%s:%d  %s", addr, s.rec.Port, s.rec.ServiceType)
}

// model is the watch dashboard state
type model struct {
	svc      *service.Service
	instance string

	spinner  spinner.Model
	services list.Model
	params   map[string]any
	synced   bool
	keys     watchKeyMap
	help     help.Model
	width    int
}

func newModel(svc *service.Service, instance string) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ui.WarningColor)

	delegate := list.NewDefaultDelegate()
	services := list.New(nil, delegate, ui.MinTerminalWidth, 10)
	services.Title = "Discovered services"
	services.SetShowHelp(false)
	services.SetShowStatusBar(false)
	services.SetFilteringEnabled(false)

	return model{
		svc:      svc,
		instance: instance,
		spinner:  sp,
		services: services,
		params:   map[string]any{},
		keys:     watchKeys,
		help:     help.New(),
		width:    ui.GetTerminalWidth(),
	}
}

// Init implements tea.Model
func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refetch):
			go m.svc.Syncer().Refetch()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if m.width > ui.MaxContentWidth {
			m.width = ui.MaxContentWidth
		}
		m.services.SetSize(m.width-4, 10)
		return m, nil

	case serviceMsg:
		return m, m.services.InsertItem(len(m.services.Items()), serviceItem{rec: discovery.ServiceRecord(msg)})

	case paramsMsg:
		m.params = msg
		m.synced = len(msg) > 0
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.services, cmd = m.services.Update(msg)
	return m, cmd
}

// View implements tea.Model
func (m model) View() string {
	var b strings.Builder

	header := ui.TitleStyle.Render("oscsync watch") + "\n" +
		ui.StatusStyle.Render(fmt.Sprintf("advertising as %s (query port %d)", m.instance, m.svc.QueryPort()))
	b.WriteString(ui.HeaderBorderStyle(m.width).Render(header))
	b.WriteString("\n\n")

	if m.synced {
		host, port := m.svc.Syncer().Peer()
		b.WriteString("  " + ui.PeerLiveStyle.Render(fmt.Sprintf("synchronized with %s:%d", host, port)) + "\n\n")
	} else {
		b.WriteString(fmt.Sprintf("  %s browsing for peers...\n\n", m.spinner.View()))
	}

	b.WriteString(m.services.View())
	b.WriteString("\n")

	if len(m.params) > 0 {
		b.WriteString(ui.TitleStyle.Render(fmt.Sprintf("Parameters (%d)", len(m.params))) + "\n")
		for _, path := range sortedKeys(m.params) {
			b.WriteString(ui.ParamKeyStyle.Render(path) + " = " +
				ui.ParamValueStyle.Render(fmt.Sprintf("%v", m.params[path])) + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Run builds the pipeline, starts it, and drives the dashboard until the
// user quits. The pipeline is torn down on every exit path.
func Run(cfg *config.Config) error {
	var p *tea.Program

	svc, err := service.New(service.Options{
		Config: cfg,
		OnUpdate: func(params map[string]any) {
			if p != nil {
				p.Send(paramsMsg(params))
			}
		},
		OnService: func(rec discovery.ServiceRecord) {
			if p != nil {
				p.Send(serviceMsg(rec))
			}
		},
	})
	if err != nil {
		return err
	}
	defer svc.Close()

	p = tea.NewProgram(newModel(svc, cfg.InstanceName), tea.WithAltScreen())

	if err := svc.Start(); err != nil {
		return err
	}

	_, err = p.Run()
	return err
}
