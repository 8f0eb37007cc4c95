// Package home holds the selection screens: languages, then levels.
package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/scribe/internal/router"
	"github.com/abhisek/scribe/internal/screen"
	"github.com/abhisek/scribe/internal/screens/practice"
	"github.com/abhisek/scribe/internal/script"
	"github.com/abhisek/scribe/internal/ui/components"
	"github.com/abhisek/scribe/internal/ui/theme"
)

const banner = `┌─┐┌─┐┬─┐┬┌┐ ┌─┐
└─┐│  ├┬┘│├┴┐├┤
└─┘└─┘┴└─┴└─┘└─┘`

// HomeScreen lists the languages in the catalog.
type HomeScreen struct {
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the language menu. The language keyed by preferred starts
// selected, and its level menu opens on preferredLevel.
func New(cfg practice.Config, preferred, preferredLevel string) *HomeScreen {
	langs := cfg.Catalog.Languages()
	items := make([]components.MenuItem, 0, len(langs)+1)
	selected := 0
	for i, lang := range langs {
		if lang.Key == preferred {
			selected = i
		}
		levelKey := ""
		if lang.Key == preferred {
			levelKey = preferredLevel
		}
		items = append(items, components.MenuItem{
			Label:  lang.Name,
			Detail: fmt.Sprintf("%s script", lang.Script),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: NewLevels(cfg, lang, levelKey)}
				}
			},
		})
	}
	items = append(items, components.MenuItem{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }})

	menu := components.NewMenu(items)
	menu.Selected = selected
	return &HomeScreen{menu: menu}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	sections := []string{
		lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(banner),
		theme.Subtitle.Render("Handwriting practice with model feedback"),
		theme.Title.Render("Choose a language"),
		h.menu.View(),
	}
	return center(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

// LevelsScreen lists the levels of one language.
type LevelsScreen struct {
	language script.Language
	menu     components.Menu
}

var _ screen.Screen = (*LevelsScreen)(nil)

// NewLevels creates the level menu for lang.
func NewLevels(cfg practice.Config, lang script.Language, preferred string) *LevelsScreen {
	items := make([]components.MenuItem, 0, len(lang.Levels))
	selected := 0
	for i, level := range lang.Levels {
		if level.Key == preferred {
			selected = i
		}
		items = append(items, components.MenuItem{
			Label:  level.Name,
			Detail: fmt.Sprintf("%d characters", len(level.Characters)),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: practice.New(cfg, lang.Key, level.Key)}
				}
			},
		})
	}
	menu := components.NewMenu(items)
	menu.Selected = selected
	return &LevelsScreen{language: lang, menu: menu}
}

func (l *LevelsScreen) Init() tea.Cmd {
	return nil
}

func (l *LevelsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	l.menu, cmd = l.menu.Update(msg)
	return l, cmd
}

func (l *LevelsScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(l.language.Name))
	b.WriteString("  ")
	b.WriteString(theme.Subtitle.Render(l.language.Direction))
	b.WriteString("\n\n")
	b.WriteString(l.menu.View())

	if sel := l.menu.Selected; sel < len(l.language.Levels) {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(l.language.Levels[sel].Description))
		b.WriteString("\n")
	}
	if len(l.language.Focus) > 0 {
		b.WriteString("\n")
		b.WriteString(theme.Subtitle.Render("Focus: " + strings.Join(l.language.Focus, ", ")))
	}
	return center(b.String(), width, height)
}

func (l *LevelsScreen) Title() string {
	return l.language.Name
}

func center(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
