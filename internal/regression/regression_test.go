package regression

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitForest_LearnsStepFunction(t *testing.T) {
	var X [][]float64
	var y []float64
	for i := 0; i < 60; i++ {
		x := float64(i)
		X = append(X, []float64{x, float64(i % 3)})
		if x < 30 {
			y = append(y, 10)
		} else {
			y = append(y, 50)
		}
	}

	f, err := FitForest(X, y, DefaultForestConfig())
	require.NoError(t, err)

	assert.InDelta(t, 10, f.Predict([]float64{5, 0}), 1e-9)
	assert.InDelta(t, 50, f.Predict([]float64{55, 1}), 1e-9)

	mean, std := f.PredictStats([]float64{55, 1})
	assert.InDelta(t, 50, mean, 1e-9)
	assert.InDelta(t, 0, std, 1e-9)
	assert.Len(t, f.Predictions([]float64{0, 0}), 100)
}

func TestFitForest_DeterministicForSeed(t *testing.T) {
	var X [][]float64
	var y []float64
	for i := 0; i < 40; i++ {
		X = append(X, []float64{float64(i), math.Sin(float64(i))})
		y = append(y, float64(i)+3*math.Sin(float64(i)))
	}

	cfg := ForestConfig{Trees: 20, Seed: 7}
	a, err := FitForest(X, y, cfg)
	require.NoError(t, err)
	b, err := FitForest(X, y, cfg)
	require.NoError(t, err)

	probe := []float64{17.5, 0.2}
	assert.Equal(t, a.Predictions(probe), b.Predictions(probe))
}

func TestFitForest_RejectsBadInput(t *testing.T) {
	_, err := FitForest(nil, nil, DefaultForestConfig())
	assert.Error(t, err)
	_, err = FitForest([][]float64{{1}, {1, 2}}, []float64{1, 2}, DefaultForestConfig())
	assert.Error(t, err)
}

func TestFitRidge_RecoversLinearRelation(t *testing.T) {
	var X [][]float64
	var y []float64
	for i := 0; i < 100; i++ {
		a, b := float64(i), math.Cos(float64(i)/5)
		X = append(X, []float64{a, b, 1})
		y = append(y, 3+0.5*a-2*b)
	}

	m, err := FitRidge(X, y, 0)
	require.NoError(t, err)
	assert.InDelta(t, 3+0.5*42-2*math.Cos(42.0/5), m.Predict([]float64{42, math.Cos(42.0 / 5), 1}), 1e-4)

	pred := make([]float64, len(y))
	for i := range X {
		pred[i] = m.Predict(X[i])
	}
	score := Score(y, pred)
	assert.Greater(t, score.R2, 0.999)
	assert.Less(t, score.RMSE, 1e-3)
}

func TestFitRidge_PenaltyShrinks(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {4}, {5}}
	y := []float64{2, 4, 6, 8, 10}

	ols, err := FitRidge(X, y, 0)
	require.NoError(t, err)
	ridge, err := FitRidge(X, y, 10)
	require.NoError(t, err)

	assert.Less(t, math.Abs(ridge.Coef[0]), math.Abs(ols.Coef[0]))
	assert.InDelta(t, 6, ridge.Intercept, 1e-9)
}

func TestFitTrend(t *testing.T) {
	tr, err := FitTrend([]float64{0, 1, 2, 3}, []float64{1, 3, 5, 7})
	require.NoError(t, err)
	assert.InDelta(t, 2, tr.Slope, 1e-9)
	assert.InDelta(t, 1, tr.Intercept, 1e-9)
	assert.InDelta(t, 1, tr.R2, 1e-9)
	assert.InDelta(t, 9, tr.At(4), 1e-9)

	flat, err := FitTrend([]float64{0, 1, 2}, []float64{4, 4, 4})
	require.NoError(t, err)
	assert.InDelta(t, 0, flat.Slope, 1e-9)
	assert.Equal(t, 1.0, flat.R2)

	single, err := FitTrend([]float64{0}, []float64{12})
	require.NoError(t, err)
	assert.Equal(t, 12.0, single.At(1))

	_, err = FitTrend(nil, nil)
	assert.Error(t, err)
}

func TestScore(t *testing.T) {
	s := Score([]float64{1, 2, 3}, []float64{1, 2, 4})
	assert.InDelta(t, 1.0/3, s.MAE, 1e-9)
	assert.InDelta(t, math.Sqrt(1.0/3), s.RMSE, 1e-9)
	assert.InDelta(t, 0.5, s.R2, 1e-9)

	assert.Equal(t, 1.0, Score([]float64{5, 5}, []float64{5, 5}).R2)
	assert.Equal(t, 0.0, Score([]float64{5, 5}, []float64{4, 6}).R2)
	assert.Equal(t, 0.0, Clip01(-0.3))
	assert.Equal(t, 1.0, Clip01(1.2))
}
