package regress

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormula(t *testing.T) {
	tcs := map[string]struct {
		input   string
		want    Formula
		wantErr error
	}{
		"three terms": {
			input: "y ~ x1 + x2 + z",
			want:  Formula{Response: "y", Terms: []string{"x1", "x2", "z"}},
		},
		"single term": {
			input: "x2~x1",
			want:  Formula{Response: "x2", Terms: []string{"x1"}},
		},
		"no tilde": {
			input:   "y + x1",
			wantErr: ErrFormulaSyntax,
		},
		"two tildes": {
			input:   "y ~ x1 ~ x2",
			wantErr: ErrFormulaSyntax,
		},
		"empty response": {
			input:   " ~ x1",
			wantErr: ErrFormulaSyntax,
		},
		"empty term": {
			input:   "y ~ x1 + ",
			wantErr: ErrFormulaSyntax,
		},
		"duplicate term": {
			input:   "y ~ x1 + x1",
			wantErr: ErrDuplicateTerm,
		},
		"response as term": {
			input:   "y ~ x1 + y",
			wantErr: ErrResponseAsTerm,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			got, err := ParseFormula(tc.input)
			if tc.wantErr != nil {
				assert.True(t, errors.Is(err, tc.wantErr))

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFormulaString(t *testing.T) {
	f, err := ParseFormula("y~x1+x2+z")
	require.NoError(t, err)
	assert.Equal(t, "y ~ x1 + x2 + z", f.String())

	roundTrip, err := ParseFormula(f.String())
	require.NoError(t, err)
	assert.Equal(t, f, roundTrip)
}
