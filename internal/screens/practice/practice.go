// Package practice is the drawing screen: a mouse canvas for the current
// character with live feedback next to it.
package practice

import (
	"context"
	"errors"
	"time"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	sess "github.com/abhisek/scribe/internal/practice"
	"github.com/abhisek/scribe/internal/raster"
	"github.com/abhisek/scribe/internal/screen"
	"github.com/abhisek/scribe/internal/script"
	"github.com/abhisek/scribe/internal/stroke"
	"github.com/abhisek/scribe/internal/ui/layout"
	"github.com/abhisek/scribe/internal/ui/theme"
)

// Runner executes analysis jobs. *practice.Analyzer implements it.
type Runner interface {
	Run(ctx context.Context, job sess.Job) sess.Completion
}

// Config holds what the screen needs beyond the selection.
type Config struct {
	Catalog    *script.Catalog
	Runner     Runner
	Quiescence time.Duration
	Raster     raster.Options
}

var errNoRunner = errors.New("no model provider configured")

type keyMap struct {
	Undo    key.Binding
	Clear   key.Binding
	Next    key.Binding
	Prev    key.Binding
	Level   key.Binding
	Analyze key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Undo:    key.NewBinding(key.WithKeys("u", "ctrl+z"), key.WithHelp("u", "Undo")),
		Clear:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "Clear")),
		Next:    key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n/p", "Next/Prev")),
		Prev:    key.NewBinding(key.WithKeys("p", "left")),
		Level:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("Tab", "Level")),
		Analyze: key.NewBinding(key.WithKeys("a", "enter"), key.WithHelp("a", "Analyze")),
	}
}

// Screen implements screen.Screen for a practice session.
type Screen struct {
	cfg     Config
	session *sess.Session
	keys    keyMap
	spinner spinner.Model
	canvas  canvasRect
	errMsg  string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates a practice screen for the given language and level.
func New(cfg Config, language, level string) *Screen {
	s := &Screen{
		cfg:  cfg,
		keys: defaultKeys(),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(theme.Glyph),
		),
	}
	session, err := sess.NewSession(cfg.Catalog, sess.Options{
		Language:   language,
		Level:      level,
		Quiescence: cfg.Quiescence,
		Viewport:   stroke.Identity(float64(s.canvasSize()), float64(s.canvasSize())),
	})
	if err != nil {
		s.errMsg = err.Error()
		return s
	}
	s.session = session
	return s
}

// Session exposes the underlying practice session.
func (s *Screen) Session() *sess.Session { return s.session }

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	if s.session == nil {
		return "Practice"
	}
	return s.session.Language().Name + " › " + s.session.Level().Name
}

func (s *Screen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Mouse", Description: "Draw"}}
	for _, b := range []key.Binding{s.keys.Undo, s.keys.Clear, s.keys.Next, s.keys.Level, s.keys.Analyze} {
		h := b.Help()
		hints = append(hints, layout.KeyHint{Key: h.Key, Description: h.Desc})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.session == nil {
		return s, nil
	}

	switch msg := msg.(type) {
	case tea.MouseClickMsg:
		if msg.Button != tea.MouseLeft || !s.canvas.contains(msg.X, msg.Y) {
			return s, nil
		}
		x, y := cellCenter(msg.X, msg.Y)
		return s, s.handle(s.session.Down(x, y))

	case tea.MouseMotionMsg:
		if !s.session.Drawing() {
			return s, nil
		}
		if !s.canvas.contains(msg.X, msg.Y) {
			return s, s.handle(s.session.Leave())
		}
		x, y := cellCenter(msg.X, msg.Y)
		return s, s.handle(s.session.Move(x, y))

	case tea.MouseReleaseMsg:
		return s, s.handle(s.session.Up())

	case tea.KeyPressMsg:
		return s.handleKey(msg)

	case quiescedMsg:
		return s, s.handle(s.session.Fire(msg.Token))

	case analysisDoneMsg:
		return s, s.handle(s.session.Complete(msg.Completion))

	case spinner.TickMsg:
		if !s.session.Analyzing() {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch {
	case key.Matches(msg, s.keys.Undo):
		return s, s.handle(s.session.Undo())
	case key.Matches(msg, s.keys.Clear):
		return s, s.handle(s.session.Clear())
	case key.Matches(msg, s.keys.Next):
		return s, s.handle(s.session.NextCharacter())
	case key.Matches(msg, s.keys.Prev):
		return s, s.handle(s.session.PrevCharacter())
	case key.Matches(msg, s.keys.Level):
		return s, s.nextLevel()
	case key.Matches(msg, s.keys.Analyze):
		return s, s.handle(s.session.AnalyzeNow())
	}
	return s, nil
}

// nextLevel cycles through the levels of the current language.
func (s *Screen) nextLevel() tea.Cmd {
	lang := s.session.Language()
	if len(lang.Levels) < 2 {
		return nil
	}
	next := 0
	for i, l := range lang.Levels {
		if l.Key == s.session.Level().Key {
			next = (i + 1) % len(lang.Levels)
			break
		}
	}
	events, err := s.session.Select(lang.Key, lang.Levels[next].Key)
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	return s.handle(events)
}

// handle turns session events into commands.
func (s *Screen) handle(events []sess.Event) tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range events {
		switch e := e.(type) {
		case sess.TimerArmed:
			token := e.Token
			cmds = append(cmds, tea.Tick(e.After, func(time.Time) tea.Msg {
				return quiescedMsg{Token: token}
			}))
		case sess.AnalysisStarted:
			cmds = append(cmds, s.run(e.Job), s.spinner.Tick)
		}
	}
	return tea.Batch(cmds...)
}

func (s *Screen) run(job sess.Job) tea.Cmd {
	runner := s.cfg.Runner
	return func() tea.Msg {
		if runner == nil {
			return analysisDoneMsg{Completion: sess.Completion{Epoch: job.Epoch, Err: errNoRunner}}
		}
		return analysisDoneMsg{Completion: runner.Run(context.Background(), job)}
	}
}

func cellCenter(x, y int) (float64, float64) {
	return float64(x) + 0.5, float64(y) + 0.5
}
