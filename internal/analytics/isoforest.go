package analytics

import (
	"math"
	"math/rand"
	"sort"
)

// Isolation forest over a single feature. Extreme values are isolated by
// few random partitions and therefore receive short average path lengths;
// the anomaly score grows as the path shortens. Ensemble size, subsample
// size and seed are fixed constants so that identical input always yields
// identical scores.
const (
	forestTrees     = 200
	forestSubsample = 256
	forestSeed      = 42
)

// eulerGamma is the Euler-Mascheroni constant used in the average-path
// normalization term.
const eulerGamma = 0.5772156649015329

type isoTree struct {
	split       float64
	left, right *isoTree
	size        int
}

type isolationForest struct {
	trees     []*isoTree
	subsample int
}

// fitForest builds the ensemble on the given values. The caller supplies
// the seeded source; the forest itself holds no randomness after fitting.
func fitForest(values []float64, rng *rand.Rand) *isolationForest {
	subsample := forestSubsample
	if len(values) < subsample {
		subsample = len(values)
	}
	depthLimit := int(math.Ceil(math.Log2(float64(subsample))))
	if depthLimit < 1 {
		depthLimit = 1
	}

	forest := &isolationForest{
		trees:     make([]*isoTree, 0, forestTrees),
		subsample: subsample,
	}
	sample := make([]float64, subsample)
	for i := 0; i < forestTrees; i++ {
		for j, idx := range rng.Perm(len(values))[:subsample] {
			sample[j] = values[idx]
		}
		forest.trees = append(forest.trees, buildTree(sample, 0, depthLimit, rng))
	}
	return forest
}

// buildTree recursively partitions the sample at a uniformly random cut
// between the node's minimum and maximum. A node with a single value, a
// degenerate value range, or at the depth limit becomes a leaf whose size
// feeds the path-length adjustment.
func buildTree(sample []float64, depth, limit int, rng *rand.Rand) *isoTree {
	if len(sample) <= 1 || depth >= limit {
		return &isoTree{size: len(sample)}
	}

	lo, hi := sample[0], sample[0]
	for _, v := range sample[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		return &isoTree{size: len(sample)}
	}

	split := lo + rng.Float64()*(hi-lo)
	var left, right []float64
	for _, v := range sample {
		if v < split {
			left = append(left, v)
		} else {
			right = append(right, v)
		}
	}

	return &isoTree{
		split: split,
		left:  buildTree(left, depth+1, limit, rng),
		right: buildTree(right, depth+1, limit, rng),
		size:  len(sample),
	}
}

// pathLength walks one tree and returns the isolation depth of v, with the
// standard c(n) adjustment at unsplit leaves.
func pathLength(node *isoTree, v float64, depth int) float64 {
	if node.left == nil {
		return float64(depth) + averagePathLength(node.size)
	}
	if v < node.split {
		return pathLength(node.left, v, depth+1)
	}
	return pathLength(node.right, v, depth+1)
}

// averagePathLength is c(n), the expected path length of an unsuccessful
// BST search over n values.
func averagePathLength(n int) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	default:
		fn := float64(n)
		return 2*(math.Log(fn-1)+eulerGamma) - 2*(fn-1)/fn
	}
}

// score returns the anomaly score s(v) = 2^(-E[h(v)]/c(subsample)), in
// (0, 1], where values isolated in few partitions score near 1.
func (f *isolationForest) score(v float64) float64 {
	var total float64
	for _, tree := range f.trees {
		total += pathLength(tree, v, 0)
	}
	mean := total / float64(len(f.trees))

	norm := averagePathLength(f.subsample)
	if norm == 0 {
		return 0.5
	}
	return math.Exp2(-mean / norm)
}

// percentile computes the linearly interpolated q-th percentile of values,
// matching the numpy default, so contamination offsets line up with
// scikit-learn's.
func percentile(values []float64, q float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := q / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	frac := rank - float64(lo)
	if lo+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
