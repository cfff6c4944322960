package orrery

import "fmt"

// Key is a normalized keyboard key code. Printable keys use their lowercase
// ASCII value ('a' = 97, '1' = 49); navigation keys use large codes outside
// the tracked range.
type Key uint32

// Key codes understood by the engine and the bundled backends.
const (
	KeyUnknown   Key = 0
	KeyBackspace Key = 8
	KeyTab       Key = 9
	KeyEnter     Key = 13
	KeyEscape    Key = 27
	KeySpace     Key = 32
	Key0         Key = '0'
	Key1         Key = '1'
	Key2         Key = '2'
	Key3         Key = '3'
	Key4         Key = '4'
	Key5         Key = '5'
	Key6         Key = '6'
	Key7         Key = '7'
	Key8         Key = '8'
	Key9         Key = '9'
	KeyA         Key = 'a'
	KeyD         Key = 'd'
	KeyF         Key = 'f'
	KeyR         Key = 'r'
	KeyS         Key = 's'
	KeyW         Key = 'w'
	KeyDelete    Key = 127

	// Navigation keys sit above MaxKeys: they are dispatched to listeners
	// but never tracked as held.
	KeyRight Key = 1<<30 | 79
	KeyLeft  Key = 1<<30 | 80
	KeyDown  Key = 1<<30 | 81
	KeyUp    Key = 1<<30 | 82
)

// MouseButton identifies a mouse button. Zero is reserved.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota + 1 // primary (left) mouse button
	MouseButtonMiddle                        // middle mouse button (wheel click)
	MouseButtonRight                         // secondary (right) mouse button
)

// Tracked input ranges. Held-state queries outside these ranges panic.
const (
	MaxKeys         = 322
	MaxMouseButtons = 4
)

// EventKind identifies a normalized input event.
type EventKind uint8

const (
	EventQuit            EventKind = iota // window close / quit request
	EventKeyDown                          // key pressed (or auto-repeated)
	EventKeyUp                            // key released
	EventMouseButtonDown                  // mouse button pressed
	EventMouseButtonUp                    // mouse button released
	EventMouseMotion                      // cursor moved
)

func (k EventKind) String() string {
	switch k {
	case EventQuit:
		return "quit"
	case EventKeyDown:
		return "key-down"
	case EventKeyUp:
		return "key-up"
	case EventMouseButtonDown:
		return "mouse-button-down"
	case EventMouseButtonUp:
		return "mouse-button-up"
	case EventMouseMotion:
		return "mouse-motion"
	default:
		return fmt.Sprintf("EventKind(%d)", uint8(k))
	}
}

// InputEvent is a single normalized event produced by an InputSource.
// Only the fields relevant to Kind are meaningful.
type InputEvent struct {
	Kind   EventKind
	Key    Key
	Repeat bool
	Button MouseButton
	X, Y   int // cursor position in window pixels
	DX, DY int // cursor movement since the previous motion event
}

// Outcome is the result of a simulation step. Terminal outcomes end the run.
type Outcome uint8

const (
	OutcomeContinue Outcome = iota // keep simulating
	OutcomeWin                     // the player collected enough goals
	OutcomeDefeat                  // the player collided with a hazard
)

// Terminal reports whether the outcome ends the simulation.
func (o Outcome) Terminal() bool {
	return o != OutcomeContinue
}

// ExitCode maps the outcome to a process status code.
func (o Outcome) ExitCode() int {
	if o == OutcomeDefeat {
		return 1
	}
	return 0
}

func (o Outcome) String() string {
	switch o {
	case OutcomeContinue:
		return "continue"
	case OutcomeWin:
		return "win"
	case OutcomeDefeat:
		return "defeat"
	default:
		return fmt.Sprintf("Outcome(%d)", uint8(o))
	}
}

// NodeKind selects the per-frame behavior of a Node.
type NodeKind uint8

const (
	NodePlain  NodeKind = iota // default orientation update only
	NodePlayer                 // counts goals, wins at a threshold
	NodeEnemy                  // chases the player, defeats on contact
	NodeGoal                   // collected by the player on contact
)

func (k NodeKind) String() string {
	switch k {
	case NodePlain:
		return "plain"
	case NodePlayer:
		return "player"
	case NodeEnemy:
		return "enemy"
	case NodeGoal:
		return "goal"
	default:
		return fmt.Sprintf("NodeKind(%d)", uint8(k))
	}
}
