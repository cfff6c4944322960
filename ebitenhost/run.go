package ebitenhost

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/orrery"
)

// game adapts an engine to ebiten.Game. Ebitengine owns the loop: every tick
// collects input and steps the engine, every draw renders one frame.
type game struct {
	engine *orrery.Engine
	host   *Host
}

func (g *game) Update() error {
	g.host.Collect()
	if !g.engine.Step() {
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.engine.State() != orrery.StateRunning {
		return
	}
	g.host.screen = screen
	g.engine.GenerateOutputs()
	g.host.screen = nil
}

func (g *game) Layout(_, _ int) (int, int) {
	return g.host.width, g.host.height
}

// Run starts an initialized engine inside Ebitengine and blocks until the
// window closes or the engine stops. The engine is shut down before Run
// returns the final outcome.
func Run(engine *orrery.Engine, host *Host) (orrery.Outcome, error) {
	if err := engine.Start(); err != nil {
		return orrery.OutcomeContinue, fmt.Errorf("failed to start engine: %w", err)
	}
	defer engine.Shutdown()
	ebiten.SetTPS(ebiten.DefaultTPS)
	err := ebiten.RunGame(&game{engine: engine, host: host})
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return engine.Outcome(), fmt.Errorf("ebiten: %w", err)
	}
	return engine.Outcome(), nil
}
