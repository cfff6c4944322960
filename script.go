package orrery

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// scriptStep is a single action in an input script.
type scriptStep struct {
	Action string `yaml:"action"`
	Key    string `yaml:"key,omitempty"`
	Button string `yaml:"button,omitempty"`
	DX     int    `yaml:"dx,omitempty"`
	DY     int    `yaml:"dy,omitempty"`
	Frames int    `yaml:"frames,omitempty"`

	key    Key
	button MouseButton
}

// script is the top-level YAML structure of an input script.
type script struct {
	Steps []scriptStep `yaml:"steps"`
}

// ScriptRunner replays a scripted input sequence through the engine's
// injection queue, one step at a time. Attach it with Engine.SetScript.
//
// Supported actions: press, release, tap (key), click, drag (button),
// move (dx, dy), wait (frames) and quit.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a YAML input script.
func LoadScript(data []byte) (*ScriptRunner, error) {
	var s script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse input script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, errors.New("parse input script: no steps")
	}
	for i := range s.Steps {
		if err := s.Steps[i].resolve(); err != nil {
			return nil, fmt.Errorf("parse input script: step %d: %w", i, err)
		}
	}
	return &ScriptRunner{steps: s.Steps}, nil
}

func (st *scriptStep) resolve() error {
	switch st.Action {
	case "press", "release", "tap":
		k, ok := ParseKey(st.Key)
		if !ok {
			return fmt.Errorf("unknown key %q", st.Key)
		}
		st.key = k
	case "click", "drag":
		b, ok := parseMouseButton(st.Button)
		if !ok {
			return fmt.Errorf("unknown button %q", st.Button)
		}
		st.button = b
	case "move", "wait", "quit":
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	return nil
}

// SetScript attaches runner to the engine. Its next step is taken at the
// start of every ProcessInput.
func (e *Engine) SetScript(runner *ScriptRunner) {
	e.script = runner
}

// Done reports whether every step has been executed and delivered.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame.
func (r *ScriptRunner) step(e *Engine) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(e.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "press":
		e.InjectKeyDown(st.key)
	case "release":
		e.InjectKeyUp(st.key)
	case "tap":
		e.InjectKeyTap(st.key)
	case "click":
		e.InjectMouseButton(st.button, true)
		e.InjectMouseButton(st.button, false)
	case "drag":
		e.InjectDrag(st.button, st.DX, st.DY, st.Frames)
	case "move":
		e.InjectMouseMotion(st.DX, st.DY)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "quit":
		e.InjectQuit()
	}
}

var namedKeys = map[string]Key{
	"escape":    KeyEscape,
	"esc":       KeyEscape,
	"space":     KeySpace,
	"enter":     KeyEnter,
	"tab":       KeyTab,
	"backspace": KeyBackspace,
	"delete":    KeyDelete,
	"up":        KeyUp,
	"down":      KeyDown,
	"left":      KeyLeft,
	"right":     KeyRight,
}

// ParseKey maps a key name to its code: a single letter or digit, or one of
// escape, space, enter, tab, backspace, delete, up, down, left, right.
func ParseKey(name string) (Key, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if len(name) == 1 {
		c := name[0]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			return Key(c), true
		}
		return KeyUnknown, false
	}
	k, ok := namedKeys[name]
	return k, ok
}

func parseMouseButton(name string) (MouseButton, bool) {
	switch strings.ToLower(name) {
	case "", "left":
		return MouseButtonLeft, true
	case "middle":
		return MouseButtonMiddle, true
	case "right":
		return MouseButtonRight, true
	}
	return 0, false
}
