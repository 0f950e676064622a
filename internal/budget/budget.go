// Package budget handles splitting a total evaluation budget across
// agent invocations and tracking cumulative spend.
package budget

import (
	"sync"

	"github.com/pkg/errors"
)

// CallsPerTrial is the number of billed invocations a single trial
// makes: control run, treatment run, and one judging call.
const CallsPerTrial = 3

// PerRun divides the total budget evenly across every invocation the
// evaluation will make (CallsPerTrial per trial).
func PerRun(totalUSD float64, trials int) (float64, error) {
	if trials < 1 {
		return 0, errors.Errorf("trial count must be at least 1, got %d", trials)
	}
	if totalUSD <= 0 {
		return 0, errors.Errorf("budget must be positive, got %.2f", totalUSD)
	}
	return totalUSD / float64(trials*CallsPerTrial), nil
}

// Tracker accumulates spend against a fixed total. Each invocation is
// charged at its full per-run cap, so the tracker is an upper bound on
// actual spend and never under-reports.
type Tracker struct {
	mu    sync.Mutex
	total float64
	spent float64
}

func NewTracker(totalUSD float64) *Tracker {
	return &Tracker{total: totalUSD}
}

func (t *Tracker) Charge(usd float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.spent += usd
}

func (t *Tracker) Spent() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.spent
}

// CanAfford reports whether usd more spend still fits in the total.
// A small tolerance absorbs float drift from repeated division.
func (t *Tracker) CanAfford(usd float64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	const eps = 1e-9
	return t.spent+usd <= t.total+eps
}
