package searcher

import (
	"math"

	"avalam/game"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

const noParent = -1

// node lives in a tree arena and links to its parent and children by index.
// Its rewards are from the perspective of the player who played action.
type node struct {
	parent   int
	depth    int
	action   game.Action
	state    game.State
	untried  []game.Action
	children []int
	visits   int
	rewards  float64
}

type tree struct {
	nodes []node
	role  Role // Side to move at the root
}

func newTree(state game.State, role Role) *tree {
	return &tree{
		nodes: []node{{
			parent:  noParent,
			state:   state,
			untried: state.Actions(),
		}},
		role: role,
	}
}

func (t *tree) root() *node {
	return &t.nodes[0]
}

func (t *tree) size() int {
	return len(t.nodes)
}

// selectThenExpand descends by UCT until a node with untried actions, which
// is expanded, or a terminal node, which is returned as is.
func (t *tree) selectThenExpand(c float64) (int, error) {
	id := 0
	for {
		n := &t.nodes[id]
		if len(n.untried) > 0 { // Expandable node
			return t.expand(id)
		}
		if len(n.children) == 0 { // Terminal node
			return id, nil
		}
		id = t.pickChild(id, c)
	}
}

func (t *tree) expand(id int) (int, error) {
	parent := &t.nodes[id]
	action := parent.untried[len(parent.untried)-1]
	parent.untried = parent.untried[:len(parent.untried)-1]

	state := parent.state.Clone()
	if err := state.Play(action); err != nil {
		return 0, errors.Wrapf(err, "failed to expand action %s", action)
	}

	child := len(t.nodes)
	t.nodes = append(t.nodes, node{
		parent:  id,
		depth:   parent.depth + 1,
		action:  action,
		state:   state,
		untried: state.Actions(),
	})
	// parent may have moved with the append
	t.nodes[id].children = append(t.nodes[id].children, child)
	return child, nil
}

func (t *tree) pickChild(id int, c float64) int {
	n := &t.nodes[id]
	if n.visits == 0 {
		panic("node has children but no visits")
	}

	policy := newUCT(c, float64(n.visits))
	maxChild := -1
	maxScore := math.Inf(-1)
	for _, child := range n.children {
		score := policy.evaluate(t.nodes[child].rewards, float64(t.nodes[child].visits))
		if score > maxScore {
			maxScore = score
			maxChild = child
		}
	}
	return maxChild
}

// backup walks up to the root. reward is from the root player's perspective;
// nodes at odd depth were entered by the root player, the others by the
// opponent, who gets the negated reward.
func (t *tree) backup(id int, reward float64) {
	for id != noParent {
		n := &t.nodes[id]
		n.visits++
		if n.depth%2 == 1 {
			n.rewards += reward
		} else {
			n.rewards -= reward
		}
		id = n.parent
	}
}

// mostVisited returns the root child with the most visits, the first one
// expanded on ties.
func (t *tree) mostVisited() (*node, bool) {
	children := t.root().children
	if len(children) == 0 {
		return nil, false
	}
	best := lo.MaxBy(children, func(a, b int) bool {
		return t.nodes[a].visits > t.nodes[b].visits
	})
	return &t.nodes[best], true
}

// find looks for a node at depth 0 or 2 holding state. Odd depths are
// skipped as the opponent would be the one to move there.
func (t *tree) find(state game.State) (int, bool) {
	hash := state.Hash()
	for id := range t.nodes {
		n := &t.nodes[id]
		if n.depth > 2 {
			continue
		}
		if n.depth%2 == 0 && n.state.Hash() == hash {
			return id, true
		}
	}
	return 0, false
}

// subtree copies the tree rooted at id into a new arena.
func (t *tree) subtree(id int) *tree {
	base := t.nodes[id].depth
	nt := &tree{nodes: make([]node, 0, len(t.nodes)), role: t.role}

	type item struct{ old, parent int }
	queue := []item{{old: id, parent: noParent}}
	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]

		n := t.nodes[it.old]
		children := n.children
		n.parent = it.parent
		n.depth -= base
		n.children = make([]int, 0, len(children))

		newID := len(nt.nodes)
		nt.nodes = append(nt.nodes, n)
		if it.parent != noParent {
			nt.nodes[it.parent].children = append(nt.nodes[it.parent].children, newID)
		}
		for _, child := range children {
			queue = append(queue, item{old: child, parent: newID})
		}
	}
	return nt
}
