package orrery

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// debugStats holds per-frame phase timings.
// Only populated when the engine is in debug mode.
type debugStats struct {
	entityTime time.Duration
	animTime   time.Duration
	physTime   time.Duration
	outputTime time.Duration
}

// SetDebugMode enables phase timing logs and the tree checks run by AddChild.
func (e *Engine) SetDebugMode(enabled bool) {
	e.debug = enabled
	e.world.debug = enabled
}

// DebugMode reports whether debug mode is on.
func (e *Engine) DebugMode() bool { return e.debug }

// debugLog logs timings for the frame just rendered.
func (e *Engine) debugLog() {
	if !e.debug {
		return
	}
	s := e.stats
	e.log.Debug("frame",
		zap.Uint64("frame", e.frame),
		zap.Duration("entities", s.entityTime),
		zap.Duration("anims", s.animTime),
		zap.Duration("physics", s.physTime),
		zap.Duration("output", s.outputTime),
		zap.Duration("total", s.entityTime+s.animTime+s.physTime+s.outputTime),
		zap.Int("nodes", e.world.Len()),
		zap.Int("handlers", e.anims.Len()),
		zap.Float64("fps", e.fps.rate))
}

// debugCheckDisposed panics with a descriptive message when a destroyed node
// is used in a tree operation. Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("orrery debug: %s on destroyed node %q (handle was %d)", op, n.name, n.handle))
	}
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func (w *World) debugCheckTreeDepth(n *Node) {
	depth := 0
	for p, ok := n, true; ok; p, ok = p.Parent() {
		depth++
		if depth > debugMaxTreeDepth {
			w.log.Warn("tree depth exceeds threshold",
				zap.String("node", n.name),
				zap.Int("threshold", debugMaxTreeDepth))
			return
		}
	}
}

// fpsCounter averages the update rate over one-second windows.
type fpsCounter struct {
	frames  int
	elapsed float64
	rate    float64
}

func (c *fpsCounter) tick(dt float64) {
	c.frames++
	c.elapsed += dt
	if c.elapsed < 1 {
		return
	}
	c.rate = float64(c.frames) / c.elapsed
	c.frames = 0
	c.elapsed = 0
}
