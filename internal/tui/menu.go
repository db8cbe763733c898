// internal/tui/menu.go
//
// Terminal rendition of the activities selection widget.
// It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: the list of activities and the cursor
// 2. Update: key presses move the cursor, enter chooses, q/esc dismisses
// 3. View: branding header plus the list
//
// Only activity names are displayed; the script path travels with the item.

package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kingrea/activity-menu/activities"
)

const (
	defaultWidth  = 60
	defaultHeight = 20
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	captionStyle = lipgloss.NewStyle().Faint(true).Italic(true)
	frameStyle   = lipgloss.NewStyle().Padding(1, 2)
)

// Branding is rendered above the menu, the terminal stand-in for a sidebar logo.
type Branding struct {
	Title   string
	Caption string
}

// View renders the branding block, or "" when empty.
func (b Branding) View() string {
	var parts []string
	if t := strings.TrimSpace(b.Title); t != "" {
		parts = append(parts, titleStyle.Render(t))
	}
	if c := strings.TrimSpace(b.Caption); c != "" {
		parts = append(parts, captionStyle.Render(c))
	}
	if len(parts) == 0 {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Selector implements activities.Selector with a bubbletea program. The last
// choice per widget key is remembered and becomes the cursor position the
// next time the same key is presented.
type Selector struct {
	branding Branding
	options  []tea.ProgramOption

	mu   sync.Mutex
	last map[string]string
}

// NewSelector returns a Selector. Program options (input/output, alt screen)
// are passed to every bubbletea program it starts.
func NewSelector(branding Branding, opts ...tea.ProgramOption) *Selector {
	return &Selector{branding: branding, options: opts, last: map[string]string{}}
}

// Select runs the menu until the user chooses or dismisses it. A disabled
// widget cannot be interacted with and resolves to its default option.
func (s *Selector) Select(ctx context.Context, req activities.SelectRequest) (activities.Option, bool, error) {
	if len(req.Options) == 0 {
		return activities.Option{}, false, nil
	}
	index := s.initialIndex(req)
	if req.Disabled {
		return req.Options[index], true, nil
	}
	model := newMenuModel(req, index, s.branding)
	opts := append([]tea.ProgramOption{tea.WithContext(ctx)}, s.options...)
	final, err := tea.NewProgram(model, opts...).Run()
	if err != nil {
		return activities.Option{}, false, fmt.Errorf("tui: run menu: %w", err)
	}
	result, ok := final.(*menuModel)
	if !ok || !result.chosen {
		return activities.Option{}, false, nil
	}
	s.remember(req.Key, result.choice.Name)
	return result.choice, true, nil
}

func (s *Selector) initialIndex(req activities.SelectRequest) int {
	s.mu.Lock()
	name, ok := s.last[req.Key]
	s.mu.Unlock()
	if ok {
		for idx, opt := range req.Options {
			if opt.Name == name {
				return idx
			}
		}
	}
	if req.Index < 0 || req.Index >= len(req.Options) {
		return 0
	}
	return req.Index
}

func (s *Selector) remember(key, name string) {
	if key == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last[key] = name
}

// activityItem implements list.Item for one activity
type activityItem struct {
	option activities.Option
}

func (i activityItem) Title() string       { return i.option.Name }
func (i activityItem) Description() string { return "" }
func (i activityItem) FilterValue() string { return i.option.Name }

type menuModel struct {
	list     list.Model
	branding Branding
	choice   activities.Option
	chosen   bool
}

func newMenuModel(req activities.SelectRequest, index int, branding Branding) *menuModel {
	items := make([]list.Item, len(req.Options))
	for i, opt := range req.Options {
		items[i] = activityItem{option: opt}
	}
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	menu := list.New(items, delegate, defaultWidth, defaultHeight)
	menu.Title = strings.Trim(strings.TrimSpace(req.Label), "*")
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)
	menu.Select(index)
	return &menuModel{list: menu, branding: branding}
}

// Init is called once when the program starts.
func (m *menuModel) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received.
func (m *menuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(max(0, msg.Width-4), max(0, msg.Height-4-lipgloss.Height(m.branding.View())))
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "enter":
			if item, ok := m.list.SelectedItem().(activityItem); ok {
				m.choice = item.option
				m.chosen = true
			}
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the branding and the list.
func (m *menuModel) View() string {
	header := m.branding.View()
	if header == "" {
		return frameStyle.Render(m.list.View())
	}
	return frameStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, "", m.list.View()))
}
