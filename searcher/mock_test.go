package searcher

import (
	"time"

	"avalam/game"

	"github.com/pkg/errors"
)

// mockNode is a scripted game tree. Actions are numbered by child index in
// Action.FromRow.
type mockNode struct {
	id       int
	value    float64 // Evaluation of the position
	score    int     // Final tower count, used by rollouts
	children []*mockNode
}

type mockState struct {
	node   *mockNode
	onPlay func()
}

func (m *mockState) Clone() game.State {
	c := *m
	return &c
}

func (m *mockState) Actions() []game.Action {
	actions := make([]game.Action, len(m.node.children))
	for i := range m.node.children {
		actions[i] = game.Action{FromRow: i}
	}
	return actions
}

func (m *mockState) Play(a game.Action) error {
	if a.FromRow < 0 || a.FromRow >= len(m.node.children) {
		return errors.Wrapf(game.ErrInvalidAction, "no child %d", a.FromRow)
	}
	m.node = m.node.children[a.FromRow]
	if m.onPlay != nil {
		m.onPlay()
	}
	return nil
}

func (m *mockState) IsFinished() bool            { return len(m.node.children) == 0 }
func (m *mockState) Score() int                  { return m.node.score }
func (m *mockState) Hash() game.StateHash        { return game.StateHash(m.node.id) }
func (m *mockState) Rows() int                   { return 0 }
func (m *mockState) Columns() int                { return 0 }
func (m *mockState) Cell(i, j int) int           { return 0 }
func (m *mockState) MaxHeight() int              { return 0 }
func (m *mockState) IsTowerMovable(i, j int) bool { return false }

func mockEvaluate(s game.State) float64 {
	return s.(*mockState).node.value
}

// leaf and branch build scripted trees.
func leaf(value float64) *mockNode {
	return &mockNode{value: value, score: int(value)}
}

func branch(value float64, children ...*mockNode) *mockNode {
	return &mockNode{value: value, children: children}
}

// number gives every node of the tree a distinct id.
func number(root *mockNode) *mockNode {
	next := 0
	var walk func(n *mockNode)
	walk = func(n *mockNode) {
		n.id = next
		next++
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(root)
	return root
}

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// brokenState enumerates an action it then refuses to play.
type brokenState struct {
	mockState
}

func (b *brokenState) Clone() game.State {
	c := *b
	return &c
}

func (b *brokenState) Actions() []game.Action {
	return []game.Action{{FromRow: 99}}
}
