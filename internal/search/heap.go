package search

import "container/heap"

// frontierItem is one entry in the priority queue, ordered by ascending
// GenCost with insertion order as the tie-break (§4.6, §5 ordering
// guarantees). Grounded on the teacher's graphs_go/routing.go pqItem /
// priorityQueue, generalized from a single float priority to the search
// state plus a stable tie-break.
type frontierItem struct {
	state     *State
	insertion int
	index     int // heap.Interface bookkeeping
}

type frontier []*frontierItem

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].state.GenCost != f[j].state.GenCost {
		return f[i].state.GenCost < f[j].state.GenCost
	}
	return f[i].insertion < f[j].insertion
}

func (f frontier) Swap(i, j int) {
	f[i], f[j] = f[j], f[i]
	f[i].index = i
	f[j].index = j
}

func (f *frontier) Push(x any) {
	item := x.(*frontierItem)
	item.index = len(*f)
	*f = append(*f, item)
}

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*f = old[:n-1]
	return item
}

// frontierQueue wraps container/heap with typed Push/Pop/Peek.
type frontierQueue struct {
	items     frontier
	nextOrder int
}

func newFrontierQueue() *frontierQueue {
	q := &frontierQueue{}
	heap.Init(&q.items)
	return q
}

func (q *frontierQueue) push(s *State) {
	heap.Push(&q.items, &frontierItem{state: s, insertion: q.nextOrder})
	q.nextOrder++
}

func (q *frontierQueue) pop() *State {
	item := heap.Pop(&q.items).(*frontierItem)
	return item.state
}

func (q *frontierQueue) peek() *State {
	if len(q.items) == 0 {
		return nil
	}
	return q.items[0].state
}

func (q *frontierQueue) len() int { return len(q.items) }
