package orrery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Held state ---

func TestHeldState(t *testing.T) {
	tests := []struct {
		name   string
		events []InputEvent
		key    Key
		want   bool
	}{
		{"untouched", nil, KeyW, false},
		{"pressed", []InputEvent{keyDown(KeyW)}, KeyW, true},
		{"released", []InputEvent{keyDown(KeyW), keyUp(KeyW)}, KeyW, false},
		{"other key", []InputEvent{keyDown(KeyA)}, KeyW, false},
		{"repeat down", []InputEvent{keyDown(KeyW), keyDown(KeyW)}, KeyW, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in Input
			for _, ev := range tt.events {
				in.Dispatch(ev)
			}
			assert.Equal(t, tt.want, in.IsKeyPressed(tt.key))
		})
	}
}

func TestMouseButtonHeldState(t *testing.T) {
	var in Input
	in.Dispatch(InputEvent{Kind: EventMouseButtonDown, Button: MouseButtonRight})
	assert.True(t, in.IsMouseButtonPressed(MouseButtonRight))
	assert.False(t, in.IsMouseButtonPressed(MouseButtonLeft))
	in.Dispatch(InputEvent{Kind: EventMouseButtonUp, Button: MouseButtonRight})
	assert.False(t, in.IsMouseButtonPressed(MouseButtonRight))
}

func TestOutOfRangeKeyIsDispatchedNotTracked(t *testing.T) {
	var in Input
	var got []Key
	in.RegisterKeyInputListener(NewKeyListener(func(_ bool, ev InputEvent) {
		got = append(got, ev.Key)
	}))
	in.Dispatch(keyDown(KeyUp))
	assert.Equal(t, []Key{KeyUp}, got)
}

func TestHeldStateQueryPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func(in *Input)
	}{
		{"key at MaxKeys", func(in *Input) { in.IsKeyPressed(MaxKeys) }},
		{"navigation key", func(in *Input) { in.IsKeyPressed(KeyLeft) }},
		{"button at MaxMouseButtons", func(in *Input) { in.IsMouseButtonPressed(MaxMouseButtons) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in Input
			assert.Panics(t, func() { tt.fn(&in) })
		})
	}
}

// --- Listener registry ---

func TestListenersRunInRegistrationOrder(t *testing.T) {
	var in Input
	var order []int
	for i := range 3 {
		in.RegisterKeyInputListener(NewKeyListener(func(bool, InputEvent) {
			order = append(order, i)
		}))
	}
	in.Dispatch(keyDown(KeyA))
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestKeyListenerPressedFlag(t *testing.T) {
	var in Input
	var flags []bool
	in.RegisterKeyInputListener(NewKeyListener(func(pressed bool, _ InputEvent) {
		flags = append(flags, pressed)
	}))
	in.Dispatch(keyDown(KeyS))
	in.Dispatch(keyUp(KeyS))
	assert.Equal(t, []bool{true, false}, flags)
}

func TestDuplicateRegistrationFiresTwice(t *testing.T) {
	var in Input
	calls := 0
	l := NewMouseMotionListener(func(InputEvent) { calls++ })
	in.RegisterMouseMotionListener(l)
	in.RegisterMouseMotionListener(l)

	in.Dispatch(InputEvent{Kind: EventMouseMotion, DX: 1})
	assert.Equal(t, 2, calls)

	in.UnregisterMouseMotionListener(l)
	calls = 0
	in.Dispatch(InputEvent{Kind: EventMouseMotion, DX: 1})
	assert.Equal(t, 1, calls, "after one unregister")
}

func TestUnregisterAbsentIsNoOp(t *testing.T) {
	var in Input
	in.RegisterMouseButtonListener(NewMouseButtonListener(func(InputEvent) {}))
	in.UnregisterMouseButtonListener(NewMouseButtonListener(func(InputEvent) {}))
	_, buttons, _ := in.ListenerCounts()
	assert.Equal(t, 1, buttons)
}

func TestEventsRouteByKind(t *testing.T) {
	var in Input
	var keys, buttons, motion int
	in.RegisterKeyInputListener(NewKeyListener(func(bool, InputEvent) { keys++ }))
	in.RegisterMouseButtonListener(NewMouseButtonListener(func(InputEvent) { buttons++ }))
	in.RegisterMouseMotionListener(NewMouseMotionListener(func(InputEvent) { motion++ }))

	in.Dispatch(keyDown(KeyA))
	in.Dispatch(InputEvent{Kind: EventMouseButtonDown, Button: MouseButtonLeft})
	in.Dispatch(InputEvent{Kind: EventMouseMotion})
	in.Dispatch(InputEvent{Kind: EventMouseMotion})
	in.Dispatch(InputEvent{Kind: EventQuit})

	assert.Equal(t, 1, keys)
	assert.Equal(t, 1, buttons)
	assert.Equal(t, 2, motion)
}

// --- Reentrancy ---

func TestSelfUnregisterDuringDispatch(t *testing.T) {
	var in Input
	var calls []string
	var once *KeyListener
	once = NewKeyListener(func(bool, InputEvent) {
		calls = append(calls, "once")
		in.UnregisterKeyInputListener(once)
	})
	in.RegisterKeyInputListener(once)
	in.RegisterKeyInputListener(NewKeyListener(func(bool, InputEvent) {
		calls = append(calls, "after")
	}))

	in.Dispatch(keyDown(KeyA))
	in.Dispatch(keyDown(KeyA))

	require.Equal(t, []string{"once", "after", "after"}, calls)
}

func TestRegisterDuringDispatchTakesEffectNextPass(t *testing.T) {
	var in Input
	added := 0
	late := 0
	in.RegisterKeyInputListener(NewKeyListener(func(bool, InputEvent) {
		if added == 0 {
			added++
			in.RegisterKeyInputListener(NewKeyListener(func(bool, InputEvent) { late++ }))
		}
	}))

	in.Dispatch(keyDown(KeyA))
	assert.Zero(t, late, "late listener ran during the pass that added it")
	in.Dispatch(keyDown(KeyA))
	assert.Equal(t, 1, late)
}

func TestClearResetsEverything(t *testing.T) {
	var in Input
	in.RegisterKeyInputListener(NewKeyListener(func(bool, InputEvent) {}))
	in.RegisterMouseButtonListener(NewMouseButtonListener(func(InputEvent) {}))
	in.RegisterMouseMotionListener(NewMouseMotionListener(func(InputEvent) {}))
	in.Dispatch(keyDown(KeyW))
	in.Dispatch(InputEvent{Kind: EventMouseButtonDown, Button: MouseButtonLeft})

	in.Clear()

	k, b, m := in.ListenerCounts()
	assert.Zero(t, k+b+m)
	assert.False(t, in.IsKeyPressed(KeyW), "held state should be reset")
	assert.False(t, in.IsMouseButtonPressed(MouseButtonLeft), "held state should be reset")
}

func BenchmarkDispatchKey(b *testing.B) {
	var in Input
	for range 8 {
		in.RegisterKeyInputListener(NewKeyListener(func(bool, InputEvent) {}))
	}
	ev := keyDown(KeyA)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		in.Dispatch(ev)
	}
}
