package harness

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/crucible-dev/crucible/packages/testerr"
)

const (
	// DefaultConcurrency is the worker bound applied when parallel
	// execution is requested without one.
	DefaultConcurrency = 5
)

// Config controls one scheduler run.
type Config struct {
	// MaxConcurrency bounds the number of in-flight drivers. 1 forces
	// strictly sequential, in-order execution; values below 1 mean
	// unbounded.
	MaxConcurrency int

	// ModeFilter restricts dispatch to tests whose effective mode
	// matches. ModeAll (the zero-config default) dispatches everything.
	ModeFilter Mode

	// Pace throttles dispatches per second. Zero disables pacing.
	Pace float64

	// AllowFatal recovers a panicking driver and records it as a test
	// failure instead of letting it take the whole run down.
	AllowFatal bool

	// ScratchRoot is where per-test arenas are created. Empty means the
	// system temp dir.
	ScratchRoot string
}

// Runner executes a descriptor list against one set of run options.
type Runner struct {
	opts   *Options
	config *Config
}

// NewRunner creates a runner. A nil config means strictly sequential
// execution with no mode filter.
func NewRunner(opts *Options, cfg *Config) *Runner {
	if opts == nil {
		opts = &Options{}
	}
	if cfg == nil {
		cfg = &Config{MaxConcurrency: 1, ModeFilter: ModeAll}
	}
	return &Runner{opts: opts, config: cfg}
}

// Run dispatches the descriptors across the worker pool and returns one
// outcome per descriptor, indexed by original position regardless of
// completion order. Once dispatched a test runs to completion; there is
// no timeout and no mid-test cancellation, so a hung driver stalls its
// slot indefinitely.
func (r *Runner) Run(descs []Descriptor) []Outcome {
	outcomes := make([]Outcome, len(descs))

	var limiter *rate.Limiter
	if r.config.Pace > 0 {
		limiter = rate.NewLimiter(rate.Limit(r.config.Pace), 1)
	}

	maxc := r.config.MaxConcurrency

	var wg sync.WaitGroup
	var sem chan struct{}
	if maxc > 1 {
		sem = make(chan struct{}, maxc)
	}

	for i := range descs {
		d := &descs[i]
		mode := ResolveMode(d, r.opts)

		// Skips are recorded immediately, never dispatched.
		if mode == ModeSkip {
			outcomes[i] = Outcome{Index: i, Name: d.Msg, Verdict: VerdictSkipped, WIP: d.WIP}
			continue
		}
		if skip, reason := r.filteredOut(mode); skip {
			outcomes[i] = Outcome{Index: i, Name: d.Msg, Verdict: VerdictSkipped, SkipReason: reason, WIP: d.WIP}
			continue
		}

		if limiter != nil {
			_ = limiter.Wait(context.Background())
		}

		if maxc == 1 {
			outcomes[i] = r.runOne(i, d, mode)
			continue
		}

		wg.Add(1)
		if sem != nil {
			sem <- struct{}{} // acquire a worker slot
		}
		go func(idx int, d *Descriptor, mode Mode) {
			defer wg.Done()
			if sem != nil {
				defer func() { <-sem }()
			}
			outcomes[idx] = r.runOne(idx, d, mode)
		}(i, d, mode)
	}

	wg.Wait()
	return outcomes
}

func (r *Runner) filteredOut(mode Mode) (bool, string) {
	filter := r.config.ModeFilter
	if filter == ModeAll {
		return false, ""
	}
	if mode != filter {
		return true, "not selected by mode filter " + filter.String()
	}
	return false, ""
}

// runOne executes a single driver inside a fresh scratch arena and
// classifies its result.
func (r *Runner) runOne(idx int, d *Descriptor, mode Mode) Outcome {
	out := Outcome{Index: idx, Name: d.Msg, WIP: d.WIP}

	scratch, err := newScratch(r.config.ScratchRoot, r.opts.ProgName, idx)
	if err != nil {
		out.Verdict = Classify(mode, err)
		out.Err = err
		return out
	}
	defer scratch.release()

	start := time.Now()
	err = r.invokeDriver(d, scratch)
	out.Duration = time.Since(start)

	out.Verdict = Classify(mode, err)
	if err != nil {
		out.Err = err
	}
	return out
}

// invokeDriver runs the descriptor's driver, recovering a panic as a
// test failure when the run is configured to tolerate fatal tests.
func (r *Runner) invokeDriver(d *Descriptor, scratch *Scratch) (err error) {
	if r.config.AllowFatal {
		defer func() {
			if rec := recover(); rec != nil {
				err = testerr.Newf(testerr.CodeTestFailed, "driver panicked: %v", rec)
			}
		}()
	}
	return d.invoke(r.opts, scratch)
}
