package experiment

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjoliard/deconfound/pkg/regress"
)

func fittedModel(t *testing.T) regress.Model {
	t.Helper()

	frame := regress.NewFrame()
	require.NoError(t, frame.AddColumn("y", []float64{1, 2, 3.1, 4, 5.2, 6, 7.1, 8}))
	require.NoError(t, frame.AddColumn("x", []float64{1, 2, 3, 4, 5, 6, 7, 8}))

	formula, err := regress.ParseFormula("y ~ x")
	require.NoError(t, err)

	fit, err := regress.FitOLS(formula, frame)
	require.NoError(t, err)

	return fit
}

func TestRegistryAddGet(t *testing.T) {
	registry := NewRegistry()
	key := Key{Paradigm: ParadigmOLS, N: 200, Rho: 0.9}
	model := fittedModel(t)

	require.NoError(t, registry.Add(key, model))
	assert.Equal(t, 1, registry.Len())

	got, err := registry.Get(key)
	require.NoError(t, err)
	assert.Same(t, model, got)

	byName, err := registry.GetByName("lm_n200_rho0.9")
	require.NoError(t, err)
	assert.Same(t, model, byName)
}

func TestRegistryErrors(t *testing.T) {
	registry := NewRegistry()
	key := Key{Paradigm: ParadigmOLS, N: 200, Rho: 0.9}

	err := registry.Add(key, nil)
	assert.True(t, errors.Is(err, ErrModelMustBeSet))

	require.NoError(t, registry.Add(key, fittedModel(t)))
	err = registry.Add(key, fittedModel(t))
	assert.True(t, errors.Is(err, ErrModelExists))

	_, err = registry.Get(Key{Paradigm: ParadigmBayes, N: 200, Rho: 0.9})
	assert.True(t, errors.Is(err, ErrModelNotFound))

	_, err = registry.GetByName("brm_n200_rho0.9")
	assert.True(t, errors.Is(err, ErrModelNotFound))
}

func TestRegistryKeysOrder(t *testing.T) {
	registry := NewRegistry()
	model := fittedModel(t)

	keys := []Key{
		{Paradigm: ParadigmBayes, Residualized: true, N: 200, Rho: 0.9},
		{Paradigm: ParadigmOLS, N: 50, Rho: 0.9},
		{Paradigm: ParadigmOLS, N: 50, Rho: 0.2},
		{Paradigm: ParadigmBayes, N: 200, Rho: 0.9},
		{Paradigm: ParadigmOLS, Residualized: true, N: 50, Rho: 0.2},
	}
	for _, key := range keys {
		require.NoError(t, registry.Add(key, model))
	}

	want := []Key{
		{Paradigm: ParadigmOLS, N: 50, Rho: 0.2},
		{Paradigm: ParadigmOLS, Residualized: true, N: 50, Rho: 0.2},
		{Paradigm: ParadigmOLS, N: 50, Rho: 0.9},
		{Paradigm: ParadigmBayes, N: 200, Rho: 0.9},
		{Paradigm: ParadigmBayes, Residualized: true, N: 200, Rho: 0.9},
	}
	assert.Equal(t, want, registry.Keys())
}
