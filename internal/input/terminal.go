package input

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// TerminalSource feeds a State from tcell events. A terminal reports no key
// releases, so a key counts as down for the frame in which its event (or
// auto-repeat) arrives.
type TerminalSource struct {
	*State
	events chan tcell.Event
	quit   bool
	resize bool
}

// NewTerminalSource starts pumping screen events into a buffered channel.
// The pump stops when the screen is finalised.
func NewTerminalSource(screen tcell.Screen) *TerminalSource {
	s := &TerminalSource{
		State:  NewState(),
		events: make(chan tcell.Event, 128),
	}
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(s.events)
				return
			}
			s.events <- ev
		}
	}()
	return s
}

// Poll starts a new input frame and applies every event received since the
// previous call without blocking.
func (s *TerminalSource) Poll() {
	s.BeginFrame()
	s.resize = false
	for {
		select {
		case ev, ok := <-s.events:
			if !ok {
				s.quit = true
				return
			}
			s.Apply(ev)
		default:
			return
		}
	}
}

// Apply folds one tcell event into the state.
func (s *TerminalSource) Apply(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			s.quit = true
			return
		}
		s.Press(KeyOf(ev))
	case *tcell.EventMouse:
		x, y := ev.Position()
		s.MoveMouse(float64(x), float64(y))
		btn := ev.Buttons()
		if btn&tcell.WheelUp != 0 {
			s.Scroll(1)
		}
		if btn&tcell.WheelDown != 0 {
			s.Scroll(-1)
		}
	case *tcell.EventResize:
		s.resize = true
	}
}

// Quit reports Ctrl-C or a closed screen.
func (s *TerminalSource) Quit() bool { return s.quit }

// Resized reports a terminal resize during the last Poll.
func (s *TerminalSource) Resized() bool { return s.resize }

// KeyOf names a tcell key event.
func KeyOf(ev *tcell.EventKey) Key {
	if ev.Key() == tcell.KeyRune {
		return Key(strings.ToLower(string(ev.Rune())))
	}
	if name, ok := tcell.KeyNames[ev.Key()]; ok {
		return ParseKey(name)
	}
	return ""
}
