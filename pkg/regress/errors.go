package regress

import (
	"github.com/pkg/errors"
)

var (
	ErrFrameMustBeSet  = errors.New("frame must be set")
	ErrColumnNotFound  = errors.New("column not found")
	ErrColumnExists    = errors.New("column already exists")
	ErrColumnEmpty     = errors.New("column must contain at least one value")
	ErrLengthMismatch  = errors.New("column length must match the frame")
	ErrFormulaSyntax   = errors.New("formula must be of the form 'response ~ term + term'")
	ErrDuplicateTerm   = errors.New("term appears more than once")
	ErrResponseAsTerm  = errors.New("response cannot appear as a term")
	ErrTooFewRows      = errors.New("frame must contain more rows than model terms")
	ErrSingularDesign  = errors.New("design matrix is singular")
	ErrInvalidSampling = errors.New("sampling controls are invalid")
	ErrSameColumn      = errors.New("target and regressor must differ")
)
