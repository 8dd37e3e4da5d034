// Package regression holds the small learners behind the forecasters: a bagged
// regression-tree ensemble, a ridge-regularised linear model and a
// single-variable trend fit.
package regression

import (
	"errors"
	"math"
	"math/rand/v2"
	"sort"
)

// ForestConfig controls the bagged tree ensemble
type ForestConfig struct {
	Trees    int
	Seed     uint64
	MinLeaf  int // minimum samples per leaf, default 1
	MaxDepth int // 0 means unlimited
}

// DefaultForestConfig mirrors a 100-tree bagged regressor with fully grown trees
func DefaultForestConfig() ForestConfig {
	return ForestConfig{Trees: 100, Seed: 42, MinLeaf: 1}
}

// Forest is an ensemble of CART regression trees, each grown on a bootstrap
// sample with every feature considered at every split
type Forest struct {
	trees    []*node
	features int
}

type node struct {
	feature   int
	threshold float64
	value     float64
	left      *node
	right     *node
}

func (n *node) leaf() bool { return n.left == nil }

// FitForest trains the ensemble on rows X and targets y
func FitForest(X [][]float64, y []float64, cfg ForestConfig) (*Forest, error) {
	if len(X) == 0 || len(X) != len(y) {
		return nil, errors.New("regression: need matching, non-empty X and y")
	}
	features := len(X[0])
	for _, row := range X {
		if len(row) != features {
			return nil, errors.New("regression: ragged feature matrix")
		}
	}
	if cfg.Trees <= 0 {
		cfg.Trees = 100
	}
	if cfg.MinLeaf <= 0 {
		cfg.MinLeaf = 1
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	f := &Forest{trees: make([]*node, cfg.Trees), features: features}
	n := len(X)
	for t := range f.trees {
		sample := make([]int, n)
		for i := range sample {
			sample[i] = rng.IntN(n)
		}
		b := &treeBuilder{X: X, y: y, cfg: cfg}
		f.trees[t] = b.grow(sample, 0)
	}
	return f, nil
}

// Predictions returns one prediction per tree
func (f *Forest) Predictions(x []float64) []float64 {
	out := make([]float64, len(f.trees))
	for i, t := range f.trees {
		out[i] = predictTree(t, x)
	}
	return out
}

// Predict returns the ensemble mean
func (f *Forest) Predict(x []float64) float64 {
	mean, _ := f.PredictStats(x)
	return mean
}

// PredictStats returns the mean and population standard deviation of the per-tree predictions
func (f *Forest) PredictStats(x []float64) (mean, std float64) {
	preds := f.Predictions(x)
	for _, p := range preds {
		mean += p
	}
	mean /= float64(len(preds))
	for _, p := range preds {
		std += (p - mean) * (p - mean)
	}
	std = math.Sqrt(std / float64(len(preds)))
	return mean, std
}

func predictTree(n *node, x []float64) float64 {
	for !n.leaf() {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

type treeBuilder struct {
	X   [][]float64
	y   []float64
	cfg ForestConfig
}

func (b *treeBuilder) grow(idx []int, depth int) *node {
	sum, sumSq := 0.0, 0.0
	for _, i := range idx {
		sum += b.y[i]
		sumSq += b.y[i] * b.y[i]
	}
	n := float64(len(idx))
	leaf := &node{value: sum / n}

	if len(idx) < 2*b.cfg.MinLeaf || (b.cfg.MaxDepth > 0 && depth >= b.cfg.MaxDepth) {
		return leaf
	}
	parentSSE := sumSq - sum*sum/n
	if parentSSE <= 1e-12 {
		return leaf
	}

	bestGain, bestFeature, bestThreshold := 0.0, -1, 0.0
	order := make([]int, len(idx))
	for feat := 0; feat < len(b.X[idx[0]]); feat++ {
		copy(order, idx)
		sort.SliceStable(order, func(a, c int) bool { return b.X[order[a]][feat] < b.X[order[c]][feat] })

		leftSum, leftSq := 0.0, 0.0
		for k := 0; k < len(order)-1; k++ {
			yi := b.y[order[k]]
			leftSum += yi
			leftSq += yi * yi

			cur, next := b.X[order[k]][feat], b.X[order[k+1]][feat]
			if cur == next {
				continue
			}
			nl := float64(k + 1)
			nr := n - nl
			if int(nl) < b.cfg.MinLeaf || int(nr) < b.cfg.MinLeaf {
				continue
			}
			rightSum, rightSq := sum-leftSum, sumSq-leftSq
			sse := (leftSq - leftSum*leftSum/nl) + (rightSq - rightSum*rightSum/nr)
			// strict comparison keeps the earliest feature on ties
			if gain := parentSSE - sse; gain > bestGain+1e-12 {
				bestGain, bestFeature, bestThreshold = gain, feat, (cur+next)/2
			}
		}
	}

	if bestFeature < 0 {
		return leaf
	}

	var left, right []int
	for _, i := range idx {
		if b.X[i][bestFeature] <= bestThreshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	leaf.feature = bestFeature
	leaf.threshold = bestThreshold
	leaf.left = b.grow(left, depth+1)
	leaf.right = b.grow(right, depth+1)
	return leaf
}
