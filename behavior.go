package orrery

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// Behavior defaults, matching DefaultConfig().Gameplay.
const (
	DefaultGoalsToWin  = 3
	DefaultEnemySpeed  = 30.0
	DefaultEnemyRadius = 1.0
	DefaultGoalRadius  = 4.0
)

var worldUp = mgl64.Vec3{0, 1, 0}

// Update runs the node's per-frame behavior and reports the outcome.
// Called once per frame by World.Update.
func (n *Node) Update() Outcome {
	switch n.variant() {
	case NodePlayer:
		return n.updatePlayer()
	case NodeEnemy:
		return n.updateEnemy()
	case NodeGoal:
		return n.updateGoal()
	default:
		n.updateOrientation()
		return OutcomeContinue
	}
}

// variant returns the node's kind, or NodePlain when the state that kind
// needs has been cleared.
func (n *Node) variant() NodeKind {
	switch {
	case n.kind == NodePlayer && n.Player == nil,
		n.kind == NodeEnemy && n.Enemy == nil,
		n.kind == NodeGoal && n.Goal == nil:
		return NodePlain
	}
	return n.kind
}

// updateOrientation is the default update: orientation = rotation * forward.
func (n *Node) updateOrientation() {
	n.orient = n.Quat().Rotate(n.forward)
}

// --- Player ---

func (n *Node) updatePlayer() Outcome {
	if n.Player.GoalCount >= n.Player.GoalsToWin {
		return OutcomeWin
	}
	n.updateOrientation()
	return OutcomeContinue
}

// --- Enemy ---

func (n *Node) resolveEnemyTarget() (*Node, bool) {
	if n.world == nil {
		return nil, false
	}
	if p, ok := n.world.Resolve(n.Enemy.target); ok {
		return p, true
	}
	p, ok := n.world.Get(n.Enemy.Target)
	if !ok || p == n {
		n.Enemy.target = NoHandle
		return nil, false
	}
	n.Enemy.target = p.handle
	return p, true
}

func (n *Node) updateEnemy() Outcome {
	player, ok := n.resolveEnemyTarget()
	if !ok {
		return OutcomeContinue
	}

	dir := player.Position().Sub(n.pos)
	dist := dir.Len()
	if dist > 0 {
		n.rot = DirToEuler(dir)
		n.updateOrientation()
		n.UpdateTransform()
		n.vel = dir.Mul(n.Enemy.Speed / dist)
	}

	if dist < n.Enemy.Radius {
		return OutcomeDefeat
	}
	return OutcomeContinue
}

// DirToEuler converts a direction into heading/pitch/bank Euler angles.
// Heading is atan2 over the horizontal components, pitch the arcsine of the
// vertical component, and bank comes from the basis w0 = (-z, x, 0),
// u0 = w0 x dir. Bank is 0 when dir is vertical and the basis degenerates.
// dir must be non-zero.
func DirToEuler(dir mgl64.Vec3) mgl64.Vec3 {
	d := dir.Normalize()
	heading := math.Atan2(d.Z(), d.X())
	pitch := math.Asin(mgl64.Clamp(d.Y(), -1, 1))

	w0 := mgl64.Vec3{-d.Z(), d.X(), 0}
	u0 := w0.Cross(d)
	wl, ul := w0.Len(), u0.Len()
	var bank float64
	if wl > 1e-12 && ul > 1e-12 {
		bank = math.Atan2(w0.Dot(worldUp)/wl, u0.Dot(worldUp)/ul)
	}
	return mgl64.Vec3{heading, pitch, bank}
}

// --- Goal ---

func (n *Node) resolveGoalTarget() (*Node, bool) {
	if n.world == nil {
		return nil, false
	}
	if p, ok := n.world.Resolve(n.Goal.target); ok && p.variant() == NodePlayer {
		return p, true
	}
	p, ok := n.world.Get(n.Goal.Target)
	if !ok || p.variant() != NodePlayer {
		n.Goal.target = NoHandle
		return nil, false
	}
	n.Goal.target = p.handle
	return p, true
}

// updateGoal collects the goal on contact: the player's count goes up and the
// goal destroys itself before returning.
func (n *Node) updateGoal() Outcome {
	n.updateOrientation()
	player, ok := n.resolveGoalTarget()
	if !ok {
		return OutcomeContinue
	}
	if player.Position().Sub(n.pos).Len() < n.Goal.Radius {
		player.Player.GoalCount++
		n.world.log.Debug("goal collected",
			zap.String("goal", n.name),
			zap.String("player", player.name),
			zap.Int("goals", player.Player.GoalCount))
		n.Destroy()
	}
	return OutcomeContinue
}
