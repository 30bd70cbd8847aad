// Package tui is the interactive admin for spaces and users.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/csrent/csrent-cli/internal/admin"
	"github.com/csrent/csrent-cli/internal/api"
	"github.com/csrent/csrent-cli/internal/buildinfo"
	"github.com/csrent/csrent-cli/internal/resource"
)

const DefaultNoticeTTL = 3 * time.Second

type Config struct {
	Client    api.Client
	Logger    *slog.Logger
	NoticeTTL time.Duration
	// Start selects the initial tab: "spaces" (default) or "users".
	Start string
}

// Model owns one manager per resource. It replaces the page-level
// singletons of a browser admin with a value passed to the program.
type Model struct {
	keys keyMap
	help help.Model

	spaces *manager[resource.Space]
	users  *manager[resource.User]
	panels []panel
	active int

	width  int
	height int
}

func New(ctx context.Context, cfg Config) Model {
	ttl := cfg.NoticeTTL
	if ttl <= 0 {
		ttl = DefaultNoticeTTL
	}
	spaces := newManager(ctx,
		admin.New[resource.Space](resource.Spaces, cfg.Logger),
		api.NewResource[resource.Space](cfg.Client, resource.SpaceKind),
		ttl)
	users := newManager(ctx,
		admin.New[resource.User](resource.Users, cfg.Logger),
		api.NewResource[resource.User](cfg.Client, resource.UserKind),
		ttl)

	h := help.New()
	h.Styles = helpStyles()

	m := Model{
		keys:   defaultKeyMap(),
		help:   h,
		spaces: spaces,
		users:  users,
		panels: []panel{spaces, users},
	}
	if strings.EqualFold(strings.TrimSpace(cfg.Start), resource.UserKind.Plural) {
		m.active = 1
	}
	return m
}

// Run blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	p := tea.NewProgram(New(ctx, cfg),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.panels))
	for _, p := range m.panels {
		cmds = append(cmds, p.init())
	}
	return tea.Batch(cmds...)
}

func (m Model) current() panel { return m.panels[m.active] }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, m.broadcast(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if !m.current().capturing() {
			switch {
			case key.Matches(msg, m.keys.Quit):
				return m, tea.Quit
			case key.Matches(msg, m.keys.Spaces):
				m.active = 0
				return m, nil
			case key.Matches(msg, m.keys.Users):
				m.active = 1
				return m, nil
			case key.Matches(msg, m.keys.Help):
				m.help.ShowAll = !m.help.ShowAll
				return m, nil
			}
		}
		return m, m.current().handleKey(msg)

	case tea.MouseMsg:
		return m, m.current().handleMouse(msg, m.width, m.height)
	}
	return m, m.broadcast(msg)
}

func (m Model) broadcast(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.panels))
	for _, p := range m.panels {
		cmds = append(cmds, p.update(msg))
	}
	return batch(cmds...)
}

func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	if out, ok := m.current().overlay(m.width, m.height); ok {
		return out
	}

	tabs := make([]string, 0, len(m.panels)+1)
	tabs = append(tabs, titleStyle.Render("csrent"))
	for i, p := range m.panels {
		label := p.title()
		if n := p.count(); n > 0 {
			label += " (" + itoa(n) + ")"
		}
		style := inactiveTab
		if i == m.active {
			style = activeTab
		}
		tabs = append(tabs, style.Render(itoa(i+1)+" "+label))
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if version := mutedStyle.Render(buildinfo.Current().Inline()); lipgloss.Width(header)+lipgloss.Width(version)+1 <= m.width {
		gap := strings.Repeat(" ", m.width-lipgloss.Width(header)-lipgloss.Width(version))
		header += gap + version
	}

	bodyH := maxInt(5, m.height-3)
	body := lipgloss.NewStyle().MaxHeight(bodyH).Render(m.current().view(m.width, bodyH))
	footer := m.help.View(m.keys)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
