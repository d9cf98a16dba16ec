package window

import "fmt"

// EventKind is the closed set of window events the frame loop reacts to.
type EventKind int

const (
	// EventOther is any platform event the loop does not handle.
	EventOther EventKind = iota

	// EventClose is a close request from the window manager.
	EventClose

	// EventKeyPress is a keyboard key transition. Key and Action are set.
	EventKeyPress

	// EventFramebufferResized is a framebuffer size change. Width and Height are set and may be zero.
	EventFramebufferResized

	// EventMoved is a window position change. X and Y are set.
	EventMoved
)

func (k EventKind) String() string {
	switch k {
	case EventOther:
		return "other"
	case EventClose:
		return "close"
	case EventKeyPress:
		return "key"
	case EventFramebufferResized:
		return "framebuffer-resized"
	case EventMoved:
		return "moved"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Action is the state transition of a key. Values match GLFW.
type Action int

const (
	ActionRelease Action = iota
	ActionPress
	ActionRepeat
)

// Event is one window event. Only the fields documented for its Kind are meaningful.
type Event struct {
	Kind   EventKind
	Key    uint32
	Action Action
	Width  int
	Height int
	X      int
	Y      int
}

// CloseEvent returns an EventClose event.
func CloseEvent() Event {
	return Event{Kind: EventClose}
}

// KeyEvent returns an EventKeyPress event.
func KeyEvent(key uint32, action Action) Event {
	return Event{Kind: EventKeyPress, Key: key, Action: action}
}

// ResizeEvent returns an EventFramebufferResized event.
func ResizeEvent(width, height int) Event {
	return Event{Kind: EventFramebufferResized, Width: width, Height: height}
}

// MoveEvent returns an EventMoved event.
func MoveEvent(x, y int) Event {
	return Event{Kind: EventMoved, X: x, Y: y}
}
