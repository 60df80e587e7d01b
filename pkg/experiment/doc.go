// Package experiment drives the collinearity simulation study. It
// sweeps a grid of sample sizes and collinearity strengths; for each
// grid cell it generates a synthetic dataset, fits a frequentist and a
// Bayesian model on the raw covariates, residualizes the collinear
// covariate, fits the same pair on the derived dataset, and registers
// all four models under deterministic keys.
//
// The run is organised as a staged pipeline wired by channels. Dataset
// generation is a single sequential stage that owns the random stream,
// so the full sequence of generated datasets is a pure function of the
// seed and the grid order even when model fitting runs on concurrent
// workers. The first error cancels the run and is returned from Run.
package experiment
