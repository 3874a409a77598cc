// Package modeling implements the small numeric toolkit used by the
// regression and clustering services: linear least squares (plain and ridge),
// Lloyd's k-means with k-means++ seeding, feature standardization, and the
// evaluation metrics the training reports are ranked by.
package modeling

import (
	"errors"
	"math"
)

var ErrSingularMatrix = errors.New("modeling: singular design matrix")
var ErrDimensionMismatch = errors.New("modeling: dimension mismatch")

// LinearModel is a fitted linear predictor y = intercept + coef · x.
type LinearModel struct {
	Intercept    float64
	Coefficients []float64
}

// Predict evaluates the model on a single feature row.
func (m *LinearModel) Predict(row []float64) float64 {
	y := m.Intercept
	for i, c := range m.Coefficients {
		y += c * row[i]
	}
	return y
}

// FitLeastSquares fits an ordinary least-squares model via the normal
// equations.
func FitLeastSquares(x [][]float64, y []float64) (*LinearModel, error) {
	return fitLinear(x, y, 0)
}

// FitRidge fits a ridge regression with L2 penalty lambda on the slope
// coefficients. The intercept is not penalized.
func FitRidge(x [][]float64, y []float64, lambda float64) (*LinearModel, error) {
	return fitLinear(x, y, lambda)
}

func fitLinear(x [][]float64, y []float64, lambda float64) (*LinearModel, error) {
	n := len(x)
	if n == 0 || n != len(y) {
		return nil, ErrDimensionMismatch
	}
	p := len(x[0])
	for _, row := range x {
		if len(row) != p {
			return nil, ErrDimensionMismatch
		}
	}

	// Augmented design: leading column of ones for the intercept.
	d := p + 1
	a := make([][]float64, d)
	for i := range a {
		a[i] = make([]float64, d)
	}
	b := make([]float64, d)

	for r := 0; r < n; r++ {
		row := make([]float64, d)
		row[0] = 1
		copy(row[1:], x[r])
		for i := 0; i < d; i++ {
			for j := 0; j < d; j++ {
				a[i][j] += row[i] * row[j]
			}
			b[i] += row[i] * y[r]
		}
	}
	for i := 1; i < d; i++ {
		a[i][i] += lambda
	}

	sol, err := solve(a, b)
	if err != nil {
		return nil, err
	}
	return &LinearModel{Intercept: sol[0], Coefficients: sol[1:]}, nil
}

// solve performs Gaussian elimination with partial pivoting on a copy-free
// system (a and b are consumed).
func solve(a [][]float64, b []float64) ([]float64, error) {
	d := len(a)
	for col := 0; col < d; col++ {
		pivot := col
		for r := col + 1; r < d; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return nil, ErrSingularMatrix
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		for r := col + 1; r < d; r++ {
			f := a[r][col] / a[col][col]
			for c := col; c < d; c++ {
				a[r][c] -= f * a[col][c]
			}
			b[r] -= f * b[col]
		}
	}

	sol := make([]float64, d)
	for r := d - 1; r >= 0; r-- {
		s := b[r]
		for c := r + 1; c < d; c++ {
			s -= a[r][c] * sol[c]
		}
		sol[r] = s / a[r][r]
	}
	return sol, nil
}
