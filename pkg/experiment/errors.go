package experiment

import (
	"sync"

	"github.com/pkg/errors"
)

var (
	ErrGridEmpty      = errors.New("grid must contain at least one sample size and one rho")
	ErrSampleSize     = errors.New("sample size must be positive")
	ErrModelExists    = errors.New("model already registered")
	ErrModelNotFound  = errors.New("model not found")
	ErrNameSyntax     = errors.New("name must be of the form {lm|brm}[_resid]_n{n}_rho{rho}")
	ErrConcurrency    = errors.New("fit concurrency must be positive")
	ErrModelMustBeSet = errors.New("model must be set")
)

type errorChans struct {
	mu   sync.Mutex
	list []*errorChan
}

func (ec *errorChans) add(errChan *errorChan) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.list = append(ec.list, errChan)
}

type errorChan struct {
	c    <-chan error
	name string
}

func newErrorChan(name string, c <-chan error) *errorChan {
	return &errorChan{
		c:    c,
		name: name,
	}
}

// mergeErrors merges the per-stage error channels.
// Based on https://blog.golang.org/pipelines.
func mergeErrors(cs ...*errorChan) <-chan error {
	var wg sync.WaitGroup
	// The output channel must hold one error per stage so no sender
	// blocks after waitForStages returns early.
	out := make(chan error, len(cs))

	output := func(c *errorChan) {
		defer wg.Done()
		if c.c == nil {
			return
		}
		for n := range c.c {
			out <- errors.Wrap(n, c.name)
		}
	}
	wg.Add(len(cs))
	for _, c := range cs {
		go output(c)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

// waitForStages waits for results from all stage error channels and
// returns on the first error.
func waitForStages(errs ...*errorChan) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}

	return nil
}
