package experiment

import (
	"github.com/mjoliard/deconfound/pkg/experiment/measure"
	"github.com/mjoliard/deconfound/pkg/regress"
)

const defaultSeed = 123

type config struct {
	seed           uint64
	sampling       regress.Sampling
	fitConcurrency int
	generator      *Generator
	measure        measure.Measure
	svgFileName    string
}

// Option configures a run.
type Option func(cfg *config)

// WithSeed sets the seed of the run's shared generation stream. The
// sampler seeds stay governed by the sampling controls.
func WithSeed(seed uint64) Option {
	return func(cfg *config) {
		cfg.seed = seed
	}
}

// WithSampling overrides the posterior sampler controls.
func WithSampling(s regress.Sampling) Option {
	return func(cfg *config) {
		cfg.sampling = s
	}
}

// WithFitConcurrency sets the number of concurrent fitting workers.
// Generation stays sequential regardless, so concurrency does not
// affect the generated datasets.
func WithFitConcurrency(workers int) Option {
	return func(cfg *config) {
		cfg.fitConcurrency = workers
	}
}

// WithGenerator replaces the default dataset generator, e.g. to change
// the noise scale or the true coefficients.
func WithGenerator(g *Generator) Option {
	return func(cfg *config) {
		cfg.generator = g
	}
}

// WithMeasure records per-stage timings into the given measure.
func WithMeasure(m measure.Measure) Option {
	return func(cfg *config) {
		cfg.measure = m
	}
}

// WithDrawer writes the executed plan graph to the given dot/SVG file
// after the run, decorated with timings when a measure is attached.
func WithDrawer(svgFileName string) Option {
	return func(cfg *config) {
		cfg.svgFileName = svgFileName
	}
}

func newConfig(opts ...Option) (*config, error) {
	cfg := &config{
		seed:           defaultSeed,
		sampling:       regress.DefaultSampling(),
		fitConcurrency: 1,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.fitConcurrency < 1 {
		return nil, ErrConcurrency
	}
	if cfg.generator == nil {
		cfg.generator = NewGenerator(cfg.seed)
	}

	return cfg, nil
}
