package experiment

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Paradigm identifies the fitting paradigm of a registered model.
type Paradigm string

const (
	// ParadigmOLS marks frequentist least squares fits.
	ParadigmOLS Paradigm = "lm"
	// ParadigmBayes marks Bayesian posterior-sampling fits.
	ParadigmBayes Paradigm = "brm"
)

const residMarker = "resid"

// Key identifies one fitted model in the registry: paradigm, whether
// the collinear covariate was residualized before fitting, and the grid
// cell. Retrieval is a pure function of these four values.
type Key struct {
	Paradigm     Paradigm
	Residualized bool
	N            int
	Rho          float64
}

// Name renders the key in the legacy string form
// {lm|brm}[_resid]_n{n}_rho{rho}, rho to one decimal place.
func (k Key) Name() string {
	parts := []string{string(k.Paradigm)}
	if k.Residualized {
		parts = append(parts, residMarker)
	}
	parts = append(parts, fmt.Sprintf("n%d", k.N), fmt.Sprintf("rho%.1f", k.Rho))

	return strings.Join(parts, "_")
}

// ParseName inverts Name.
func ParseName(name string) (Key, error) {
	tokens := strings.Split(name, "_")
	if len(tokens) < 3 || len(tokens) > 4 {
		return Key{}, errors.Wrapf(ErrNameSyntax, "name %q", name)
	}

	key := Key{}
	switch Paradigm(tokens[0]) {
	case ParadigmOLS, ParadigmBayes:
		key.Paradigm = Paradigm(tokens[0])
	default:
		return Key{}, errors.Wrapf(ErrNameSyntax, "unknown paradigm %q", tokens[0])
	}

	rest := tokens[1:]
	if len(rest) == 3 {
		if rest[0] != residMarker {
			return Key{}, errors.Wrapf(ErrNameSyntax, "unexpected token %q", rest[0])
		}
		key.Residualized = true
		rest = rest[1:]
	}

	if !strings.HasPrefix(rest[0], "n") {
		return Key{}, errors.Wrapf(ErrNameSyntax, "unexpected token %q", rest[0])
	}
	n, err := strconv.Atoi(strings.TrimPrefix(rest[0], "n"))
	if err != nil {
		return Key{}, errors.Wrapf(ErrNameSyntax, "sample size token %q", rest[0])
	}
	key.N = n

	if !strings.HasPrefix(rest[1], "rho") {
		return Key{}, errors.Wrapf(ErrNameSyntax, "unexpected token %q", rest[1])
	}
	rho, err := strconv.ParseFloat(strings.TrimPrefix(rest[1], "rho"), 64)
	if err != nil {
		return Key{}, errors.Wrapf(ErrNameSyntax, "rho token %q", rest[1])
	}
	key.Rho = rho

	return key, nil
}
