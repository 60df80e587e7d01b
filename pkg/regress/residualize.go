package regress

import (
	"github.com/pkg/errors"
)

// Residualize returns a copy of the frame in which the target column is
// replaced by the residuals of its least squares regression on the
// regressor column. The replacement is uncorrelated with the regressor
// by construction; the source frame is left untouched.
func Residualize(d *Frame, target, on string) (*Frame, error) {
	if d == nil {
		return nil, ErrFrameMustBeSet
	}
	if target == on {
		return nil, errors.Wrapf(ErrSameColumn, "column %q", target)
	}

	aux := Formula{Response: target, Terms: []string{on}}
	fit, err := FitOLS(aux, d)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to regress %q on %q", target, on)
	}

	derived, err := d.WithColumn(target, fit.Residuals)
	if err != nil {
		return nil, errors.Wrap(err, "unable to replace column with residuals")
	}

	return derived, nil
}
