package regression

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// LinearModel is a linear fit over standardised features
type LinearModel struct {
	Intercept float64
	Coef      []float64
	means     []float64
	scales    []float64
}

// FitRidge fits y ≈ b0 + Σ βj·zj where zj are the standardised columns of X.
// lambda penalises β only; lambda = 0 gives ordinary least squares when the
// design has full rank.
func FitRidge(X [][]float64, y []float64, lambda float64) (*LinearModel, error) {
	n := len(X)
	if n == 0 || n != len(y) {
		return nil, errors.New("regression: need matching, non-empty X and y")
	}
	p := len(X[0])

	m := &LinearModel{means: make([]float64, p), scales: make([]float64, p)}
	col := make([]float64, n)
	for j := 0; j < p; j++ {
		for i := range X {
			if len(X[i]) != p {
				return nil, errors.New("regression: ragged feature matrix")
			}
			col[i] = X[i][j]
		}
		mean, std := stat.PopMeanStdDev(col, nil)
		if std < 1e-12 {
			std = 1
		}
		m.means[j], m.scales[j] = mean, std
	}

	Z := mat.NewDense(n, p, nil)
	for i := range X {
		for j := 0; j < p; j++ {
			Z.Set(i, j, (X[i][j]-m.means[j])/m.scales[j])
		}
	}

	yMean := stat.Mean(y, nil)
	yc := mat.NewVecDense(n, nil)
	for i, v := range y {
		yc.SetVec(i, v-yMean)
	}

	// (ZᵀZ + λI) β = Zᵀ yc; a tiny jitter keeps constant columns positive definite
	gram := mat.NewSymDense(p, nil)
	gram.SymOuterK(1, Z.T())
	for j := 0; j < p; j++ {
		gram.SetSym(j, j, gram.At(j, j)+lambda+1e-9)
	}
	rhs := mat.NewVecDense(p, nil)
	rhs.MulVec(Z.T(), yc)

	var chol mat.Cholesky
	if ok := chol.Factorize(gram); !ok {
		return nil, errors.New("regression: normal equations are not positive definite")
	}
	beta := mat.NewVecDense(p, nil)
	if err := chol.SolveVecTo(beta, rhs); err != nil {
		return nil, fmt.Errorf("regression: solve normal equations: %w", err)
	}

	m.Coef = make([]float64, p)
	for j := range m.Coef {
		m.Coef[j] = beta.AtVec(j)
	}
	m.Intercept = yMean
	return m, nil
}

func (m *LinearModel) Predict(x []float64) float64 {
	out := m.Intercept
	for j, c := range m.Coef {
		out += c * (x[j] - m.means[j]) / m.scales[j]
	}
	return out
}

// Trend is a straight line through (x, y)
type Trend struct {
	Slope     float64
	Intercept float64
	R2        float64
}

// FitTrend fits y = Intercept + Slope·x by least squares
func FitTrend(x, y []float64) (Trend, error) {
	if len(x) != len(y) || len(x) == 0 {
		return Trend{}, errors.New("regression: need matching, non-empty x and y")
	}
	if len(x) == 1 {
		return Trend{Intercept: y[0], R2: 1}, nil
	}

	alpha, beta := stat.LinearRegression(x, y, nil, false)
	t := Trend{Slope: beta, Intercept: alpha}

	if _, variance := stat.PopMeanVariance(y, nil); variance < 1e-12 {
		t.R2 = 1
		for i := range y {
			if math.Abs(alpha+beta*x[i]-y[i]) > 1e-9 {
				t.R2 = 0
				break
			}
		}
		return t, nil
	}
	t.R2 = stat.RSquared(x, y, nil, alpha, beta)
	return t, nil
}

func (t Trend) At(x float64) float64 {
	return t.Intercept + t.Slope*x
}

// FitMetrics summarises in-sample fit quality
type FitMetrics struct {
	R2          float64
	MAE         float64
	RMSE        float64
	ResidualStd float64
}

// Score compares observations with predictions. R² of a constant series is 1
// for a perfect fit and 0 otherwise.
func Score(y, pred []float64) FitMetrics {
	n := len(y)
	if n == 0 || n != len(pred) {
		return FitMetrics{}
	}

	resid := make([]float64, n)
	var absSum, sqSum float64
	for i := range y {
		r := y[i] - pred[i]
		resid[i] = r
		absSum += math.Abs(r)
		sqSum += r * r
	}

	yMean := stat.Mean(y, nil)
	var tot float64
	for _, v := range y {
		tot += (v - yMean) * (v - yMean)
	}

	out := FitMetrics{
		MAE:  absSum / float64(n),
		RMSE: math.Sqrt(sqSum / float64(n)),
	}
	if n > 1 {
		out.ResidualStd = stat.StdDev(resid, nil)
	}
	switch {
	case tot > 1e-12:
		out.R2 = 1 - sqSum/tot
	case sqSum < 1e-12:
		out.R2 = 1
	}
	return out
}

// Clip01 bounds v to [0, 1]
func Clip01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
