package experiment

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/mjoliard/deconfound/pkg/experiment/drawer"
	"github.com/mjoliard/deconfound/pkg/experiment/measure"
	"github.com/mjoliard/deconfound/pkg/regress"
)

const (
	stageStart    = "start"
	stageCells    = "cells"
	stageGenerate = "generate"
	stageFit      = "fit"
	stageRegister = "register"
	stageEnd      = "end"
)

// cellSeedStride spaces the per-cell sampler seeds so chains of
// different cells never share a stream.
const cellSeedStride = 64

// baseFormula is the model fit in every cell, before and after the
// transform: the residualized dataset keeps the x2 column name, so the
// same formula applies to both.
var baseFormula = regress.Formula{
	Response: ColResponse,
	Terms:    []string{ColX1, ColX2, ColZ},
}

type cellData struct {
	Cell
	frame *regress.Frame
}

type cellModels struct {
	Cell
	olsPre    *regress.OLSFit
	olsPost   *regress.OLSFit
	bayesPre  *regress.BayesFit
	bayesPost *regress.BayesFit
}

type runner struct {
	cfg       *config
	errcList  *errorChans
	registry  *Registry
	plan      *drawer.SVGDrawer
	startTime time.Time
}

// Run sweeps the grid and returns the registry holding the four fitted
// models of every cell. The first error aborts the run.
func Run(ctx context.Context, grid Grid, opts ...Option) (*Registry, error) {
	err := grid.Validate()
	if err != nil {
		return nil, errors.Wrap(err, "invalid grid")
	}

	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "unable to apply run option")
	}

	run := &runner{
		cfg:       cfg,
		errcList:  &errorChans{},
		registry:  NewRegistry(),
		startTime: time.Now(),
	}

	if cfg.svgFileName != "" {
		run.plan = drawer.NewSVGDrawer(cfg.svgFileName)
		err = run.setupPlan()
		if err != nil {
			return nil, errors.Wrap(err, "unable to set up plan drawing")
		}
	}
	run.setupMeasure()

	dCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	cells := run.emitCells(dCtx, grid.Cells())
	datasets := run.generate(dCtx, cells)
	fitted := run.fit(dCtx, datasets)
	run.register(dCtx, fitted)

	err = waitForStages(run.errcList.list...)
	if err != nil {
		return nil, err
	}

	err = run.finishRun()
	if err != nil {
		return nil, err
	}

	return run.registry, nil
}

func (r *runner) setupPlan() error {
	stages := []string{stageStart, stageCells, stageGenerate, stageFit, stageRegister, stageEnd}
	for _, stage := range stages {
		err := r.plan.AddStage(stage)
		if err != nil {
			return err
		}
	}
	for i := 1; i < len(stages); i++ {
		err := r.plan.AddLink(stages[i-1], stages[i])
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *runner) setupMeasure() {
	if r.cfg.measure == nil {
		return
	}
	r.cfg.measure.AddMetric(stageCells, 1)
	r.cfg.measure.AddMetric(stageGenerate, 1)
	r.cfg.measure.AddMetric(stageFit, r.cfg.fitConcurrency)
	r.cfg.measure.AddMetric(stageRegister, 1)
}

func (r *runner) metric(stage string) measure.Metric {
	if r.cfg.measure == nil {
		return nil
	}

	return r.cfg.measure.GetMetric(stage)
}

// emitCells is the root stage: it feeds the grid cells downstream in
// their fixed nested order.
func (r *runner) emitCells(ctx context.Context, cells []Cell) <-chan Cell {
	out := make(chan Cell)
	errC := make(chan error, 1)
	r.errcList.add(newErrorChan(stageCells, errC))

	go func() {
		defer func() {
			close(out)
			close(errC)
		}()
		for _, cell := range cells {
			select {
			case <-ctx.Done():
				errC <- ctx.Err()

				return
			case out <- cell:
			}
		}
	}()

	return out
}

// generate runs on a single goroutine that owns the random stream:
// the generated datasets depend only on the seed and the grid order.
func (r *runner) generate(ctx context.Context, in <-chan Cell) <-chan cellData {
	out := make(chan cellData)
	errC := make(chan error, 1)
	r.errcList.add(newErrorChan(stageGenerate, errC))
	mt := r.metric(stageGenerate)

	go func() {
		defer func() {
			close(out)
			close(errC)
		}()
	outer:
		for {
			start := time.Now()
			select {
			case <-ctx.Done():
				errC <- ctx.Err()

				return
			case cell, ok := <-in:
				if !ok {
					break outer
				}
				startFn := time.Now()
				frame, err := r.cfg.generator.Dataset(cell.N, cell.Rho)
				if err != nil {
					errC <- errors.Wrapf(err, "cell n=%d rho=%.1f", cell.N, cell.Rho)

					return
				}
				endFn := time.Since(startFn)

				select {
				case <-ctx.Done():
					errC <- ctx.Err()

					return
				case out <- cellData{Cell: cell, frame: frame}:
					if mt != nil {
						mt.AddDuration(endFn)
						mt.AddWaitDuration(stageCells, time.Since(start)-endFn)
					}
				}
			}
		}
	}()

	return out
}

// fit runs the model fitting workers. Each worker drains cells and
// produces the cell's four models; a worker error cancels the others.
func (r *runner) fit(ctx context.Context, in <-chan cellData) <-chan cellModels {
	out := make(chan cellModels)
	errC := make(chan error, 1)
	r.errcList.add(newErrorChan(stageFit, errC))

	go func() {
		defer func() {
			close(out)
			close(errC)
		}()
		errGrp, dCtx := errgroup.WithContext(ctx)
		errGrp.SetLimit(r.cfg.fitConcurrency)
		for goIdx := 0; goIdx < r.cfg.fitConcurrency; goIdx++ {
			localGoIdx := goIdx
			errGrp.Go(func() error {
				return r.fitWorker(dCtx, localGoIdx, in, out)
			})
		}
		err := errGrp.Wait()
		if err != nil {
			errC <- err
		}
	}()

	return out
}

func (r *runner) fitWorker(ctx context.Context, goIdx int, in <-chan cellData, out chan<- cellModels) error {
	mt := r.metric(stageFit)
outer:
	for {
		start := time.Now()
		select {
		case <-ctx.Done():
			return errors.Wrapf(ctx.Err(), "go routine %d:", goIdx)
		case data, ok := <-in:
			if !ok {
				break outer
			}
			startFn := time.Now()
			models, err := r.fitCell(data)
			if err != nil {
				return errors.Wrapf(err, "go routine %d:", goIdx)
			}
			endFn := time.Since(startFn)

			select {
			case <-ctx.Done():
				return errors.Wrapf(ctx.Err(), "go routine %d:", goIdx)
			case out <- models:
				if mt != nil {
					mt.AddDuration(endFn)
					mt.AddWaitDuration(stageGenerate, time.Since(start)-endFn)
				}
			}
		}
	}

	return nil
}

// fitCell produces the cell's four models: the pre-transform pair on
// the raw covariates, then the post-transform pair on the dataset with
// x2 replaced by its residual against x1.
func (r *runner) fitCell(data cellData) (cellModels, error) {
	sampling := r.cfg.sampling
	sampling.Seed += uint64(data.Index) * cellSeedStride

	olsPre, err := regress.FitOLS(baseFormula, data.frame)
	if err != nil {
		return cellModels{}, errors.Wrapf(err, "pre-transform least squares fit n=%d rho=%.1f", data.N, data.Rho)
	}

	bayesPre, err := regress.FitBayes(baseFormula, data.frame, sampling)
	if err != nil {
		return cellModels{}, errors.Wrapf(err, "pre-transform posterior fit n=%d rho=%.1f", data.N, data.Rho)
	}

	derived, err := regress.Residualize(data.frame, ColX2, ColX1)
	if err != nil {
		return cellModels{}, errors.Wrapf(err, "residualization n=%d rho=%.1f", data.N, data.Rho)
	}

	olsPost, err := regress.FitOLS(baseFormula, derived)
	if err != nil {
		return cellModels{}, errors.Wrapf(err, "post-transform least squares fit n=%d rho=%.1f", data.N, data.Rho)
	}

	bayesPost, err := regress.FitBayes(baseFormula, derived, sampling)
	if err != nil {
		return cellModels{}, errors.Wrapf(err, "post-transform posterior fit n=%d rho=%.1f", data.N, data.Rho)
	}

	return cellModels{
		Cell:      data.Cell,
		olsPre:    olsPre,
		olsPost:   olsPost,
		bayesPre:  bayesPre,
		bayesPost: bayesPost,
	}, nil
}

// register is the sink stage: it stores each cell's four models under
// their deterministic keys.
func (r *runner) register(ctx context.Context, in <-chan cellModels) {
	errC := make(chan error, 1)
	r.errcList.add(newErrorChan(stageRegister, errC))
	mt := r.metric(stageRegister)

	go func() {
		defer close(errC)
	outer:
		for {
			start := time.Now()
			select {
			case <-ctx.Done():
				errC <- ctx.Err()

				break outer
			case models, ok := <-in:
				if !ok {
					break outer
				}
				startFn := time.Now()
				err := r.registerCell(models)
				if err != nil {
					errC <- err

					break outer
				}
				if mt != nil {
					mt.AddDuration(time.Since(startFn))
					mt.AddWaitDuration(stageFit, time.Since(start))
				}
			}
		}
		if mt != nil {
			mt.SetTotalDuration(time.Since(r.startTime))
		}
	}()
}

func (r *runner) registerCell(models cellModels) error {
	entries := []struct {
		key   Key
		model regress.Model
	}{
		{Key{Paradigm: ParadigmOLS, N: models.N, Rho: models.Rho}, models.olsPre},
		{Key{Paradigm: ParadigmBayes, N: models.N, Rho: models.Rho}, models.bayesPre},
		{Key{Paradigm: ParadigmOLS, Residualized: true, N: models.N, Rho: models.Rho}, models.olsPost},
		{Key{Paradigm: ParadigmBayes, Residualized: true, N: models.N, Rho: models.Rho}, models.bayesPost},
	}

	for _, entry := range entries {
		err := r.registry.Add(entry.key, entry.model)
		if err != nil {
			return errors.Wrap(err, "unable to register model")
		}
	}

	return nil
}

func (r *runner) finishRun() error {
	if r.plan == nil {
		return nil
	}

	if r.cfg.measure != nil {
		err := r.plan.SetTotalTime(stageEnd, r.startTime)
		if err != nil {
			return errors.Wrap(err, "unable to set total time")
		}
		err = r.plan.AddMeasure(r.cfg.measure)
		if err != nil {
			return errors.Wrap(err, "unable to add measure to plan")
		}
	}

	err := r.plan.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw plan")
	}

	return nil
}
