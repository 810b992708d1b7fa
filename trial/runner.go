// Package trial runs a fixed number of independent, identically-shaped
// optimizer trials concurrently and hands back their results for the
// caller to rank deterministically. Concurrency here only parallelizes
// independent work; the ranking/selection the caller performs afterward
// (e.g. sort-by-objective-then-take-median) stays sequential and
// deterministic, same as if the trials had run one at a time.
package trial

import (
	"context"
	"sort"

	channerics "github.com/niceyeti/channerics/channels"

	"fleetsim/atomic_float"
)

// Result pairs a trial's seed with whatever value its run produced.
type Result struct {
	Seed  int64
	Value interface{}
}

// TrialFunc runs one trial given its seed and returns a result value plus
// the scalar score used for the diagnostic running sum.
type TrialFunc func(seed int64) (value interface{}, score float64, err error)

// Runner fans a fixed number of trials out across goroutines, one
// single-result channel per trial, merged via channerics.Merge exactly the
// way the teacher's Train function fans in its per-worker episode channels
// (reinforcement/learning.go's agent_worker pool). A semaphore caps how
// many trials actually run at once.
type Runner struct {
	Trials      int
	BaseSeed    int64
	Concurrency int

	// Sum accumulates a running total of each trial's reported scalar
	// score, purely as a diagnostic (e.g. for logging mean trial quality).
	// It is never used to pick the winning trial — that selection stays a
	// deterministic sort over Results performed by the caller.
	Sum *atomic_float.AtomicFloat64
}

// NewRunner builds a Runner with a fresh diagnostic accumulator.
func NewRunner(trials int, baseSeed int64, concurrency int) *Runner {
	return &Runner{
		Trials:      trials,
		BaseSeed:    baseSeed,
		Concurrency: concurrency,
		Sum:         atomic_float.NewAtomicFloat64(0),
	}
}

type outcome struct {
	res Result
	err error
}

// Run executes all trials concurrently, returning one Result per trial,
// sorted by seed (ascending) so output order is deterministic regardless
// of completion order. The first trial error cancels the rest and is
// returned.
func (r *Runner) Run(ctx context.Context, fn TrialFunc) ([]Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	limit := r.Concurrency
	if limit <= 0 || limit > r.Trials {
		limit = r.Trials
	}
	sem := make(chan struct{}, limit)

	chans := make([]<-chan outcome, 0, r.Trials)
	for t := 0; t < r.Trials; t++ {
		seed := r.BaseSeed + int64(t)
		ch := make(chan outcome, 1)
		chans = append(chans, ch)

		go func() {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				ch <- outcome{err: ctx.Err()}
				close(ch)
				return
			}
			defer func() { <-sem }()

			select {
			case <-ctx.Done():
				ch <- outcome{err: ctx.Err()}
				close(ch)
				return
			default:
			}

			value, score, err := fn(seed)
			if err != nil {
				ch <- outcome{err: err}
				close(ch)
				return
			}
			r.Sum.AtomicAdd(score)
			ch <- outcome{res: Result{Seed: seed, Value: value}}
			close(ch)
		}()
	}

	merged := channerics.Merge(ctx.Done(), chans...)

	results := make([]Result, 0, r.Trials)
	for o := range merged {
		if o.err != nil {
			cancel()
			return nil, o.err
		}
		results = append(results, o.res)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Seed < results[j].Seed })
	return results, nil
}

// MeanScore returns the diagnostic running sum divided by the trial count.
func (r *Runner) MeanScore() float64 {
	if r.Trials == 0 {
		return 0
	}
	return r.Sum.AtomicRead() / float64(r.Trials)
}
