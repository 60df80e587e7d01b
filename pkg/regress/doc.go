// Package regress provides the regression building blocks used by the
// collinearity experiment: a small named-column data frame, an R-style
// formula parser, ordinary least squares fitting, Bayesian linear
// regression via a conjugate Gibbs sampler, and residualization of one
// covariate against another.
//
// Both fitting routines accept the same formula and frame, so a model
// pair (frequentist and Bayesian) can be fit on identical inputs and
// compared coefficient by coefficient. All fits are immutable once
// returned.
package regress
