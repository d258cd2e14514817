package ml

import (
	"math/rand"
	"sort"
)

// treeNode is a split node or, when feature is -1, a leaf
type treeNode struct {
	feature   int
	threshold float64
	left      int
	right     int
	value     float64
}

// regressionTree is a CART tree grown to purity with squared-error splits
type regressionTree struct {
	nodes       []treeNode
	importances []float64
}

// fitTree grows a tree on the rows listed in idx. Rows may repeat, which is
// how bootstrap weights enter the impurity.
func fitTree(x [][]float64, y []float64, idx []int, features int, rng *rand.Rand) *regressionTree {
	t := &regressionTree{importances: make([]float64, features)}
	b := &treeBuilder{x: x, y: y, tree: t, rng: rng, features: features}
	b.grow(idx)
	return t
}

// predict walks the tree for one feature row
func (t *regressionTree) predict(row []float64) float64 {
	n := 0
	for t.nodes[n].feature >= 0 {
		if row[t.nodes[n].feature] <= t.nodes[n].threshold {
			n = t.nodes[n].left
		} else {
			n = t.nodes[n].right
		}
	}
	return t.nodes[n].value
}

type treeBuilder struct {
	x        [][]float64
	y        []float64
	tree     *regressionTree
	rng      *rand.Rand
	features int
}

type split struct {
	feature   int
	threshold float64
	pos       int
	score     float64
	order     []int
}

// grow appends the subtree for idx and returns its node index
func (b *treeBuilder) grow(idx []int) int {
	n := float64(len(idx))
	var sum, sumSq float64
	for _, i := range idx {
		sum += b.y[i]
		sumSq += b.y[i] * b.y[i]
	}
	mean := sum / n
	impurity := sumSq/n - mean*mean

	self := len(b.tree.nodes)
	b.tree.nodes = append(b.tree.nodes, treeNode{feature: -1, value: mean})
	if len(idx) < 2 || impurity <= 1e-12*(1+mean*mean) {
		return self
	}

	best, ok := b.bestSplit(idx, sum)
	if !ok {
		return self
	}

	left := best.order[:best.pos]
	right := best.order[best.pos:]

	// weighted impurity decrease, the basis of feature importances
	b.tree.importances[best.feature] += n*impurity - weightedImpurity(b.y, left) - weightedImpurity(b.y, right)

	l := b.grow(left)
	r := b.grow(right)
	b.tree.nodes[self] = treeNode{feature: best.feature, threshold: best.threshold, left: l, right: r, value: mean}
	return self
}

// bestSplit scans every feature, visited in random order, for the cut that
// maximizes sumL²/nL + sumR²/nR, which minimizes the summed squared error.
func (b *treeBuilder) bestSplit(idx []int, total float64) (split, bool) {
	n := len(idx)
	best := split{score: total * total / float64(n)}
	found := false

	for _, f := range b.rng.Perm(b.features) {
		order := append([]int(nil), idx...)
		sort.SliceStable(order, func(i, j int) bool { return b.x[order[i]][f] < b.x[order[j]][f] })

		var sumL float64
		for pos := 1; pos < n; pos++ {
			sumL += b.y[order[pos-1]]
			lo, hi := b.x[order[pos-1]][f], b.x[order[pos]][f]
			if lo == hi {
				continue
			}
			sumR := total - sumL
			score := sumL*sumL/float64(pos) + sumR*sumR/float64(n-pos)
			if score > best.score+1e-12 {
				threshold := lo + (hi-lo)/2
				if threshold == hi {
					threshold = lo
				}
				best = split{feature: f, threshold: threshold, pos: pos, score: score, order: order}
				found = true
			}
		}
	}
	return best, found
}

func weightedImpurity(y []float64, idx []int) float64 {
	var sum, sumSq float64
	for _, i := range idx {
		sum += y[i]
		sumSq += y[i] * y[i]
	}
	return sumSq - sum*sum/float64(len(idx))
}
