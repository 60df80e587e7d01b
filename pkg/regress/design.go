package regress

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// InterceptName is the label used for the implied intercept term.
const InterceptName = "(Intercept)"

// Model is a fitted regression model, frequentist or Bayesian.
type Model interface {
	// ModelFormula returns the formula the model was fit with.
	ModelFormula() Formula
	// NumObs returns the number of observations used in the fit.
	NumObs() int
}

// designMatrix builds the n x (1+len(terms)) design matrix with a
// leading intercept column, plus the response vector.
func designMatrix(f Formula, d *Frame) (*mat.Dense, *mat.VecDense, error) {
	if d == nil {
		return nil, nil, ErrFrameMustBeSet
	}

	response, err := d.Column(f.Response)
	if err != nil {
		return nil, nil, errors.Wrap(err, "response")
	}

	n := d.Len()
	p := len(f.Terms) + 1
	if n <= p {
		return nil, nil, errors.Wrapf(ErrTooFewRows, "%d rows for %d terms", n, p)
	}

	design := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		design.Set(i, 0, 1)
	}
	for j, term := range f.Terms {
		col, err := d.Column(term)
		if err != nil {
			return nil, nil, errors.Wrap(err, "term")
		}
		design.SetCol(j+1, col)
	}

	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		y.SetVec(i, response[i])
	}

	return design, y, nil
}

// coefNames returns the intercept label followed by the formula terms,
// matching the row order of fitted coefficient tables.
func coefNames(f Formula) []string {
	names := make([]string, 0, len(f.Terms)+1)
	names = append(names, InterceptName)
	names = append(names, f.Terms...)

	return names
}
