package output

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/crucible-dev/crucible/packages/core/harness"
	"github.com/crucible-dev/crucible/packages/testerr"
)

// Result is one test's line in the report.
type Result struct {
	// Number is the test's 1-based position in the program's suite.
	Number     int             `json:"number"`
	Name       string          `json:"name"`
	Verdict    harness.Verdict `json:"-"`
	VerdictStr string          `json:"verdict"`
	Detail     string          `json:"detail,omitempty"`
	SkipReason string          `json:"skipReason,omitempty"`
	WIP        string          `json:"wip,omitempty"`
	DurationMs int64           `json:"durationMs"`
}

// DurationStats summarizes driver latencies across the run.
type DurationStats struct {
	P50Ms int64 `json:"p50Ms"`
	P95Ms int64 `json:"p95Ms"`
	P99Ms int64 `json:"p99Ms"`
	MaxMs int64 `json:"maxMs"`
}

// Report is the ordered aggregation of one run's outcomes.
type Report struct {
	ProgName string   `json:"progName"`
	Results  []Result `json:"results"`

	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	XFailed int `json:"xfailed"`
	XPassed int `json:"xpassed"`
	Skipped int `json:"skipped"`

	DurationMs int64          `json:"durationMs"`
	Stats      *DurationStats `json:"stats,omitempty"`
}

// BuildReport assembles a report from the scheduler's outcomes,
// preserving their order. numbers maps each outcome to its 1-based
// position in the full suite; nil means the outcomes already cover the
// whole suite in order.
func BuildReport(progName string, outcomes []harness.Outcome, numbers []int, elapsed time.Duration) *Report {
	r := &Report{
		ProgName:   progName,
		Results:    make([]Result, 0, len(outcomes)),
		DurationMs: elapsed.Milliseconds(),
	}

	// Latencies recorded in microseconds for precision.
	hist := hdrhistogram.New(1, int64(time.Hour/time.Microsecond), 3)
	ran := 0

	for i, o := range outcomes {
		num := i + 1
		if numbers != nil {
			num = numbers[i]
		}

		res := Result{
			Number:     num,
			Name:       o.Name,
			Verdict:    o.Verdict,
			VerdictStr: o.Verdict.String(),
			SkipReason: o.SkipReason,
			WIP:        o.WIP,
			DurationMs: o.Duration.Milliseconds(),
		}
		if o.Err != nil {
			res.Detail = testerr.Chain(o.Err)
		}
		r.Results = append(r.Results, res)

		switch o.Verdict {
		case harness.VerdictPassed:
			r.Passed++
		case harness.VerdictFailed:
			r.Failed++
		case harness.VerdictXFailed:
			r.XFailed++
		case harness.VerdictXPassed:
			r.XPassed++
		case harness.VerdictSkipped:
			r.Skipped++
		}

		if o.Verdict != harness.VerdictSkipped {
			// Sub-microsecond runs still count: clamp into the
			// histogram's trackable range.
			us := o.Duration.Microseconds()
			if us < 1 {
				us = 1
			}
			if err := hist.RecordValue(us); err != nil {
				_ = hist.RecordValue(hist.HighestTrackableValue())
			}
			ran++
		}
	}

	if ran > 0 {
		r.Stats = &DurationStats{
			P50Ms: hist.ValueAtQuantile(50) / 1000,
			P95Ms: hist.ValueAtQuantile(95) / 1000,
			P99Ms: hist.ValueAtQuantile(99) / 1000,
			MaxMs: hist.Max() / 1000,
		}
	}

	return r
}

// Unexpected reports whether at least one outcome requires a non-zero
// process exit.
func (r *Report) Unexpected() bool {
	return r.Failed > 0 || r.XPassed > 0
}

// Total is the number of reported tests.
func (r *Report) Total() int {
	return len(r.Results)
}
