package search

import "testing"

// TestDominanceTable_DropsHigherCostSameBucket covers §8 scenario 5: two
// arrivals at the same node within the same 5-minute bucket, the
// higher-cost one must be dropped.
func TestDominanceTable_DropsHigherCostSameBucket(t *testing.T) {
	d := newDominanceTable()

	const epochMs = 1_700_000_000_000
	if !d.accept(1, epochMs, 10.0) {
		t.Fatal("first arrival at an empty key must be accepted")
	}
	if d.accept(1, epochMs+1000, 12.0) {
		t.Fatal("higher-cost arrival in the same 5-minute bucket must be dropped")
	}
}

// TestDominanceTable_AcceptsLowerCostReplacingPrior covers the converse: a
// strictly cheaper arrival in the same bucket replaces the recorded best.
func TestDominanceTable_AcceptsLowerCostReplacingPrior(t *testing.T) {
	d := newDominanceTable()

	const epochMs = 1_700_000_000_000
	if !d.accept(1, epochMs, 10.0) {
		t.Fatal("first arrival must be accepted")
	}
	if !d.accept(1, epochMs, 5.0) {
		t.Fatal("strictly cheaper arrival in the same bucket must be accepted")
	}
	// a third arrival at the old (now-stale) cost must be dropped against
	// the new best of 5.0, not the original 10.0.
	if d.accept(1, epochMs, 8.0) {
		t.Fatal("arrival costlier than the updated best must still be dropped")
	}
}

// TestDominanceTable_AcceptsDifferentBucketsIndependently checks that
// arrivals far enough apart in time to land in different 5-minute buckets
// never dominate one another, even at equal cost.
func TestDominanceTable_AcceptsDifferentBucketsIndependently(t *testing.T) {
	d := newDominanceTable()

	const epochMs = 1_700_000_000_000
	if !d.accept(1, epochMs, 10.0) {
		t.Fatal("first arrival must be accepted")
	}
	if !d.accept(1, epochMs+6*60*1000, 10.0) {
		t.Fatal("arrival a full bucket width later must be accepted independently")
	}
}

// TestDominanceTable_AcceptsDifferentNodesIndependently checks the key is
// (node, bucket), not bucket alone.
func TestDominanceTable_AcceptsDifferentNodesIndependently(t *testing.T) {
	d := newDominanceTable()

	const epochMs = 1_700_000_000_000
	if !d.accept(1, epochMs, 10.0) {
		t.Fatal("first arrival at node 1 must be accepted")
	}
	if !d.accept(2, epochMs, 10.0) {
		t.Fatal("same bucket at a different node must be accepted independently")
	}
}

func TestBucketOf_GroupsWithinFiveMinuteWidth(t *testing.T) {
	base := bucketOf(1_699_999_800_000)
	if bucketOf(1_699_999_800_000+4*60*1000) != base {
		t.Fatal("4 minutes later must fall in the same bucket")
	}
	if bucketOf(1_699_999_800_000+6*60*1000) == base {
		t.Fatal("6 minutes later must fall in a different bucket")
	}
}
