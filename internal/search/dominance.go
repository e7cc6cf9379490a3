package search

// domKey is the (node, arrival-time-bucket) dominance key of §4.6. Buckets
// are 5 minutes wide; a state is dropped if a prior state reached the
// same key with a generalized cost <= its own.
type domKey struct {
	nodeIndex int
	bucket    int64
}

const bucketWidthMs = 5 * 60 * 1000

func bucketOf(epochMs int64) int64 {
	return epochMs / bucketWidthMs
}

// dominanceTable tracks the best generalized cost seen so far at each
// (node, bucket) key.
type dominanceTable struct {
	best map[domKey]float64
}

func newDominanceTable() *dominanceTable {
	return &dominanceTable{best: make(map[domKey]float64)}
}

// accept reports whether a new state at (nodeIndex, epochMs) with the
// given cost survives dominance, and if so records it as the new best for
// that key.
func (d *dominanceTable) accept(nodeIndex int, epochMs int64, cost float64) bool {
	key := domKey{nodeIndex: nodeIndex, bucket: bucketOf(epochMs)}
	if prev, ok := d.best[key]; ok && prev <= cost {
		return false
	}
	d.best[key] = cost
	return true
}
