package orrery

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainUpdateDerivesOrientation(t *testing.T) {
	n := NewEntity(nil)
	n.SetRotationXYZ(0, math.Pi/2, 0)

	assert.Equal(t, OutcomeContinue, n.Update())
	assertVecNear(t, "orientation", n.Orientation(), mgl64.Vec3{1, 0, 0})
}

func TestPlayerWinsAtGoalCount(t *testing.T) {
	p := NewPlayer(nil, 2)
	assert.Equal(t, OutcomeContinue, p.Update())
	p.Player.GoalCount = 2
	assert.Equal(t, OutcomeWin, p.Update())
	p.Player.GoalCount = 3
	assert.Equal(t, OutcomeWin, p.Update())
}

func TestPlayerZeroGoalsWinsImmediately(t *testing.T) {
	assert.Equal(t, OutcomeWin, NewPlayer(nil, 0).Update())
}

func TestEnemyDefeatsOnContact(t *testing.T) {
	w := NewWorld(nil)
	player := NewPlayer(nil, 3)
	enemy := NewEnemy(nil, "player")
	w.Add("player", player)
	w.Add("enemy", enemy)
	enemy.SetPositionXYZ(0.5, 0, 0)

	assert.Equal(t, OutcomeDefeat, w.Update())
}

func TestEnemyChasesTarget(t *testing.T) {
	w := NewWorld(nil)
	player := NewPlayer(nil, 3)
	enemy := NewEnemy(nil, "player")
	enemy.Enemy.Speed = 30
	w.Add("player", player)
	w.Add("enemy", enemy)
	player.SetPositionXYZ(10, 0, 0)

	assert.Equal(t, OutcomeContinue, enemy.Update())
	assertVecNear(t, "velocity", enemy.Velocity(), mgl64.Vec3{30, 0, 0})
	assert.InDelta(t, 0, enemy.Rotation().X(), epsilon, "heading toward +X")
}

func TestEnemyWithoutTargetIdles(t *testing.T) {
	w := NewWorld(nil)
	enemy := NewEnemy(nil, "nobody")
	w.Add("enemy", enemy)

	assert.Equal(t, OutcomeContinue, w.Update())
	assert.Equal(t, mgl64.Vec3{}, enemy.Velocity())
}

func TestEnemyDoesNotChaseItself(t *testing.T) {
	w := NewWorld(nil)
	enemy := NewEnemy(nil, "enemy")
	w.Add("enemy", enemy)

	assert.Equal(t, OutcomeContinue, enemy.Update())
}

func TestEnemyResolvesTargetLazily(t *testing.T) {
	w := NewWorld(nil)
	enemy := NewEnemy(nil, "player")
	w.Add("enemy", enemy)
	require.Equal(t, OutcomeContinue, w.Update())

	player := NewPlayer(nil, 3)
	w.Add("player", player)
	player.SetPositionXYZ(0, 0, 0.25)

	assert.Equal(t, OutcomeDefeat, enemy.Update())
}

func TestEnemyRetargetsAfterPlayerReplaced(t *testing.T) {
	w := NewWorld(nil)
	first := NewPlayer(nil, 3)
	w.Add("player", first)
	enemy := NewEnemy(nil, "player")
	w.Add("enemy", enemy)
	first.SetPositionXYZ(100, 0, 0)
	enemy.Update()

	first.Destroy()
	second := NewPlayer(nil, 3)
	w.Add("player", second)
	second.SetPositionXYZ(-100, 0, 0)

	enemy.Update()
	assert.Less(t, enemy.Velocity().X(), 0.0)
}

func TestGoalCollectedAndDestroyed(t *testing.T) {
	w := NewWorld(nil)
	player := NewPlayer(nil, 3)
	goal := NewGoal(nil, "player")
	w.Add("player", player)
	w.Add("goal", goal)
	goal.SetPositionXYZ(1, 0, 0)

	assert.Equal(t, OutcomeContinue, w.Update())

	assert.Equal(t, 1, player.Player.GoalCount)
	assert.True(t, goal.IsDisposed())
	_, ok := w.Get("goal")
	assert.False(t, ok)
}

func TestGoalOutOfReach(t *testing.T) {
	w := NewWorld(nil)
	player := NewPlayer(nil, 3)
	goal := NewGoal(nil, "player")
	w.Add("player", player)
	w.Add("goal", goal)
	goal.SetPositionXYZ(DefaultGoalRadius+1, 0, 0)

	w.Update()

	assert.Equal(t, 0, player.Player.GoalCount)
	assert.False(t, goal.IsDisposed())
}

func TestGoalIgnoresNonPlayerTarget(t *testing.T) {
	w := NewWorld(nil)
	w.Add("rock", NewEntity(nil))
	goal := NewGoal(nil, "rock")
	w.Add("goal", goal)

	w.Update()

	assert.False(t, goal.IsDisposed())
}

func TestWinScenario(t *testing.T) {
	w := NewWorld(nil)
	player := NewPlayer(nil, 1)
	w.Add("player", player)
	goal := NewGoal(nil, "player")
	w.Add("goal", goal)

	assert.Equal(t, OutcomeContinue, w.Update(), "goal collected this frame")
	assert.Equal(t, OutcomeWin, w.Update(), "player sees the count next frame")
}

func TestDirToEuler(t *testing.T) {
	e := DirToEuler(mgl64.Vec3{0, 0, 5})
	assert.InDelta(t, math.Pi/2, e.X(), epsilon, "heading")
	assert.InDelta(t, 0, e.Y(), epsilon, "pitch")

	e = DirToEuler(mgl64.Vec3{1, 1, 0})
	assert.InDelta(t, 0, e.X(), epsilon, "heading")
	assert.InDelta(t, math.Pi/4, e.Y(), epsilon, "pitch")
}

func TestDirToEulerVerticalHasNoBank(t *testing.T) {
	e := DirToEuler(mgl64.Vec3{0, -2, 0})
	assert.InDelta(t, -math.Pi/2, e.Y(), epsilon)
	assert.Equal(t, 0.0, e.Z())
	assert.False(t, math.IsNaN(e.X()))
}
