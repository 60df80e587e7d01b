package experiment

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyName(t *testing.T) {
	tcs := map[string]struct {
		key  Key
		want string
	}{
		"ols pre": {
			key:  Key{Paradigm: ParadigmOLS, N: 200, Rho: 0.9},
			want: "lm_n200_rho0.9",
		},
		"ols post": {
			key:  Key{Paradigm: ParadigmOLS, Residualized: true, N: 200, Rho: 0.9},
			want: "lm_resid_n200_rho0.9",
		},
		"bayes pre": {
			key:  Key{Paradigm: ParadigmBayes, N: 50, Rho: 0.2},
			want: "brm_n50_rho0.2",
		},
		"bayes post": {
			key:  Key{Paradigm: ParadigmBayes, Residualized: true, N: 1000, Rho: 0.5},
			want: "brm_resid_n1000_rho0.5",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.key.Name())
		})
	}
}

func TestParseNameRoundTrip(t *testing.T) {
	keys := []Key{
		{Paradigm: ParadigmOLS, N: 200, Rho: 0.9},
		{Paradigm: ParadigmOLS, Residualized: true, N: 200, Rho: 0.9},
		{Paradigm: ParadigmBayes, N: 50, Rho: 0.2},
		{Paradigm: ParadigmBayes, Residualized: true, N: 1000, Rho: 0.5},
	}

	for _, key := range keys {
		got, err := ParseName(key.Name())
		require.NoError(t, err, key.Name())
		assert.Equal(t, key, got)
	}
}

func TestParseNameErrors(t *testing.T) {
	tcs := map[string]string{
		"empty":             "",
		"unknown paradigm":  "glm_n200_rho0.9",
		"missing rho":       "lm_n200",
		"bad resid marker":  "lm_residual_n200_rho0.9",
		"bad sample size":   "lm_nfifty_rho0.9",
		"bad rho":           "lm_n200_rhohigh",
		"too many tokens":   "lm_resid_extra_n200_rho0.9",
		"swapped positions": "lm_rho0.9_n200",
	}

	for name, input := range tcs {
		t.Run(name, func(t *testing.T) {
			_, err := ParseName(input)
			assert.True(t, errors.Is(err, ErrNameSyntax), "got %v", err)
		})
	}
}
