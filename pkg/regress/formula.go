package regress

import (
	"strings"

	"github.com/pkg/errors"
)

// Formula describes a linear model as a response regressed on a set of
// terms. An intercept is always implied.
type Formula struct {
	Response string
	Terms    []string
}

// ParseFormula parses an R-style formula such as "y ~ x1 + x2 + z".
func ParseFormula(s string) (Formula, error) {
	sides := strings.Split(s, "~")
	if len(sides) != 2 {
		return Formula{}, errors.Wrapf(ErrFormulaSyntax, "formula %q", s)
	}

	response := strings.TrimSpace(sides[0])
	if response == "" {
		return Formula{}, errors.Wrapf(ErrFormulaSyntax, "formula %q has no response", s)
	}

	rawTerms := strings.Split(sides[1], "+")
	terms := make([]string, 0, len(rawTerms))
	seen := make(map[string]struct{}, len(rawTerms))

	for _, raw := range rawTerms {
		term := strings.TrimSpace(raw)
		if term == "" {
			return Formula{}, errors.Wrapf(ErrFormulaSyntax, "formula %q has an empty term", s)
		}
		if term == response {
			return Formula{}, errors.Wrapf(ErrResponseAsTerm, "formula %q", s)
		}
		if _, ok := seen[term]; ok {
			return Formula{}, errors.Wrapf(ErrDuplicateTerm, "term %q", term)
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}

	return Formula{Response: response, Terms: terms}, nil
}

// String renders the formula back to its R-style form.
func (f Formula) String() string {
	return f.Response + " ~ " + strings.Join(f.Terms, " + ")
}
