package battle

import "container/heap"

// pathNode is one open-set entry. seq breaks f-cost ties by insertion order
// so the search expands nodes in a reproducible sequence.
type pathNode struct {
	pos Position
	f   int
	g   int
	seq int
}

type pathHeap []pathNode

func (h pathHeap) Len() int { return len(h) }
func (h pathHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].seq < h[j].seq
}
func (h pathHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *pathHeap) Push(x any)        { *h = append(*h, x.(pathNode)) }
func (h *pathHeap) Pop() any          { old := *h; n := len(old); it := old[n-1]; *h = old[:n-1]; return it }

// Pathfinder runs A* and BFS queries against a grid plus a walkability
// predicate supplied by the battle state.
type Pathfinder struct {
	Grid          Grid
	MaxIterations int
}

// FindPath returns the cells from start to goal, excluding start and
// including goal, using 4-directional A* with a Manhattan heuristic. An
// unreachable goal, a blocked goal, or an exhausted iteration budget all
// yield an empty path; the caller treats that as "does not move".
func (pf Pathfinder) FindPath(start, goal Position, walkable func(Position) bool) []Position {
	if start == goal {
		return nil
	}
	if !pf.Grid.IsValidPosition(goal) || !walkable(goal) {
		return nil
	}

	open := &pathHeap{{pos: start, f: start.ManhattanTo(goal), g: 0, seq: 0}}
	heap.Init(open)
	cameFrom := map[string]Position{}
	gCost := map[string]int{start.Key(): 0}
	closed := map[string]bool{}
	pushSeq := 1

	maxIter := pf.MaxIterations
	if maxIter <= 0 {
		maxIter = 1000
	}

	var scratch []Position
	for iter := 0; open.Len() > 0 && iter < maxIter; iter++ {
		cur := heap.Pop(open).(pathNode)
		key := cur.pos.Key()
		if closed[key] {
			continue
		}
		closed[key] = true

		if cur.pos == goal {
			return reconstructPath(cameFrom, start, goal)
		}

		scratch = pf.Grid.Neighbors(cur.pos, scratch[:0])
		for _, n := range scratch {
			nk := n.Key()
			if closed[nk] {
				continue
			}
			if !walkable(n) {
				continue
			}
			ng := cur.g + 1
			if known, ok := gCost[nk]; ok && ng >= known {
				continue
			}
			gCost[nk] = ng
			cameFrom[nk] = cur.pos
			heap.Push(open, pathNode{pos: n, f: ng + n.ManhattanTo(goal), g: ng, seq: pushSeq})
			pushSeq++
		}
	}
	return nil
}

func reconstructPath(cameFrom map[string]Position, start, goal Position) []Position {
	var rev []Position
	cur := goal
	for cur != start {
		rev = append(rev, cur)
		prev, ok := cameFrom[cur.Key()]
		if !ok {
			return nil
		}
		cur = prev
	}
	// reverse in place
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}

// MovementRange returns every cell reachable from start within steps moves,
// BFS order, excluding start itself. The walkable predicate must already
// exclude the mover's own cell from collision.
func (pf Pathfinder) MovementRange(start Position, steps int, walkable func(Position) bool) []Position {
	if steps <= 0 {
		return nil
	}
	type frontier struct {
		pos  Position
		dist int
	}
	visited := map[string]bool{start.Key(): true}
	queue := []frontier{{pos: start, dist: 0}}
	var out []Position
	var scratch []Position
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.dist == steps {
			continue
		}
		scratch = pf.Grid.Neighbors(cur.pos, scratch[:0])
		for _, n := range scratch {
			nk := n.Key()
			if visited[nk] || !walkable(n) {
				continue
			}
			visited[nk] = true
			out = append(out, n)
			queue = append(queue, frontier{pos: n, dist: cur.dist + 1})
		}
	}
	return out
}
