// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies a processed input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseLeave
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    Key
	Width  int
	Height int
	MouseX int
	MouseY int
	Button uint8
}

// Input handles all input processing.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events and converts them to viewer events.
// Returns true if the viewer should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0] // Clear previous events

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			switch e.Event {
			case sdl.WINDOWEVENT_RESIZED, sdl.WINDOWEVENT_SIZE_CHANGED:
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			case sdl.WINDOWEVENT_LEAVE:
				i.events = append(i.events, Event{Type: EventMouseLeave})
			}

		case *sdl.KeyboardEvent:
			ev := Event{Key: keyFor(e.Keysym.Scancode)}
			if e.Type == sdl.KEYDOWN {
				ev.Type = EventKeyDown
			} else {
				ev.Type = EventKeyUp
			}
			i.events = append(i.events, ev)

		case *sdl.MouseMotionEvent:
			i.events = append(i.events, Event{
				Type:   EventMouseMove,
				MouseX: int(e.X),
				MouseY: int(e.Y),
			})

		case *sdl.MouseButtonEvent:
			ev := Event{
				MouseX: int(e.X),
				MouseY: int(e.Y),
				Button: e.Button,
			}
			if e.Type == sdl.MOUSEBUTTONDOWN {
				ev.Type = EventMouseDown
			} else {
				ev.Type = EventMouseUp
			}
			i.events = append(i.events, ev)
		}
	}

	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(k Key) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == k {
			return true
		}
	}
	return false
}

func keyFor(sc sdl.Scancode) Key {
	switch sc {
	case sdl.SCANCODE_LEFT, sdl.SCANCODE_PAGEUP:
		return KeyLeft
	case sdl.SCANCODE_RIGHT, sdl.SCANCODE_PAGEDOWN, sdl.SCANCODE_SPACE:
		return KeyRight
	case sdl.SCANCODE_HOME:
		return KeyHome
	case sdl.SCANCODE_END:
		return KeyEnd
	case sdl.SCANCODE_ESCAPE:
		return KeyEscape
	case sdl.SCANCODE_F12:
		return KeyScreenshot
	case sdl.SCANCODE_0, sdl.SCANCODE_KP_0:
		return Digit(0)
	}
	if sc >= sdl.SCANCODE_1 && sc <= sdl.SCANCODE_9 {
		return Digit(int(sc-sdl.SCANCODE_1) + 1)
	}
	if sc >= sdl.SCANCODE_KP_1 && sc <= sdl.SCANCODE_KP_9 {
		return Digit(int(sc-sdl.SCANCODE_KP_1) + 1)
	}
	return KeyNone
}
