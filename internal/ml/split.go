package ml

import (
	"math"
	"math/rand"
	"sort"
)

// Split holds row positions of the training and held-out sets. Held-out
// positions are in table order.
type Split struct {
	Train []int
	Test  []int
}

// TrainTestSplit shuffles 0..n-1 with seed and holds out ceil(ratio·n) rows
func TrainTestSplit(n int, ratio float64, seed int64) Split {
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	testSize := int(math.Ceil(ratio * float64(n)))
	if testSize > n {
		testSize = n
	}

	s := Split{
		Test:  append([]int(nil), perm[:testSize]...),
		Train: append([]int(nil), perm[testSize:]...),
	}
	sort.Ints(s.Test)
	sort.Ints(s.Train)
	return s
}
