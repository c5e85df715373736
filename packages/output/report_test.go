package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crucible-dev/crucible/packages/core/harness"
	"github.com/crucible-dev/crucible/packages/testerr"
)

func sampleOutcomes() []harness.Outcome {
	return []harness.Outcome{
		{Index: 0, Name: "alpha", Verdict: harness.VerdictPassed, Duration: 5 * time.Millisecond},
		{Index: 1, Name: "beta", Verdict: harness.VerdictFailed,
			Err: testerr.New(testerr.CodeTestFailed, "boom"), Duration: 7 * time.Millisecond},
		{Index: 2, Name: "gamma", Verdict: harness.VerdictXFailed,
			Err: testerr.New(testerr.CodeIO, "expected trouble"), Duration: 2 * time.Millisecond},
		{Index: 3, Name: "delta", Verdict: harness.VerdictSkipped, SkipReason: "windows only"},
		{Index: 4, Name: "epsilon", Verdict: harness.VerdictXPassed, Duration: time.Millisecond},
	}
}

func TestBuildReport_CountsAndOrder(t *testing.T) {
	r := BuildReport("selfcheck", sampleOutcomes(), nil, 20*time.Millisecond)

	assert.Equal(t, "selfcheck", r.ProgName)
	assert.Equal(t, 5, r.Total())
	assert.Equal(t, 1, r.Passed)
	assert.Equal(t, 1, r.Failed)
	assert.Equal(t, 1, r.XFailed)
	assert.Equal(t, 1, r.XPassed)
	assert.Equal(t, 1, r.Skipped)
	assert.Equal(t, int64(20), r.DurationMs)

	names := []string{"alpha", "beta", "gamma", "delta", "epsilon"}
	for i, res := range r.Results {
		assert.Equal(t, names[i], res.Name)
		assert.Equal(t, i+1, res.Number)
	}

	assert.Contains(t, r.Results[1].Detail, "boom")
	assert.Equal(t, "windows only", r.Results[3].SkipReason)

	require.NotNil(t, r.Stats)
	assert.GreaterOrEqual(t, r.Stats.MaxMs, r.Stats.P50Ms)
}

func TestBuildReport_SubsetNumbering(t *testing.T) {
	outcomes := []harness.Outcome{
		{Index: 0, Name: "third", Verdict: harness.VerdictPassed},
		{Index: 1, Name: "seventh", Verdict: harness.VerdictPassed},
	}

	r := BuildReport("selfcheck", outcomes, []int{3, 7}, time.Millisecond)

	require.Len(t, r.Results, 2)
	assert.Equal(t, 3, r.Results[0].Number)
	assert.Equal(t, 7, r.Results[1].Number)
}

func TestReport_Unexpected(t *testing.T) {
	allGood := BuildReport("p", []harness.Outcome{
		{Verdict: harness.VerdictPassed},
		{Verdict: harness.VerdictXFailed},
		{Verdict: harness.VerdictSkipped},
	}, nil, 0)
	assert.False(t, allGood.Unexpected())

	withFailure := BuildReport("p", []harness.Outcome{
		{Verdict: harness.VerdictFailed, Err: testerr.New(testerr.CodeTestFailed, "x")},
	}, nil, 0)
	assert.True(t, withFailure.Unexpected())

	// A stale expected-failure annotation flags the run too.
	withXPass := BuildReport("p", []harness.Outcome{
		{Verdict: harness.VerdictXPassed},
	}, nil, 0)
	assert.True(t, withXPass.Unexpected())
}

func TestConsoleFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true), WithVerbose(true))

	f.FormatHeader("1.2.3")
	f.FormatReport(BuildReport("selfcheck", sampleOutcomes(), nil, 15*time.Millisecond))

	out := buf.String()
	assert.Contains(t, out, "crucible 1.2.3")
	assert.Contains(t, out, "Suite: selfcheck")
	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "expected failure")
	assert.Contains(t, out, "unexpectedly passed")
	assert.Contains(t, out, "windows only")
	assert.Contains(t, out, "1 passed")
	assert.Contains(t, out, "1 failed")
	assert.Contains(t, out, "5 total")
	assert.Contains(t, out, "Latency:")
}

func TestConsoleFormatter_Quiet(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true), WithQuiet(true))

	f.FormatHeader("1.2.3")
	f.FormatReport(BuildReport("selfcheck", sampleOutcomes(), nil, 0))

	out := buf.String()
	assert.NotContains(t, out, "Suite:")
	assert.Contains(t, out, "Tests:")
}

func TestTAPFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewTAPFormatter(TAPWithWriter(&buf))

	f.FormatHeader("1.2.3")
	f.FormatReport(BuildReport("selfcheck", sampleOutcomes(), nil, 0))

	out := buf.String()
	assert.Contains(t, out, "TAP version 13\n")
	assert.Contains(t, out, "1..5\n")
	assert.Contains(t, out, "ok 1 - alpha\n")
	assert.Contains(t, out, "not ok 2 - beta\n")
	assert.Contains(t, out, "not ok 3 - gamma # TODO expected failure\n")
	assert.Contains(t, out, "ok 4 - delta # SKIP windows only\n")
	assert.Contains(t, out, "ok 5 - epsilon # TODO unexpectedly passed\n")
	assert.Contains(t, out, "severity: error")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf))

	f.FormatHeader("1.2.3")
	f.FormatReport(BuildReport("selfcheck", sampleOutcomes(), nil, 9*time.Millisecond))

	var decoded struct {
		Version string `json:"version"`
		Report
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "1.2.3", decoded.Version)
	assert.Equal(t, "selfcheck", decoded.ProgName)
	assert.Len(t, decoded.Results, 5)
	assert.Equal(t, "FAIL", decoded.Results[1].VerdictStr)
	assert.Equal(t, 1, decoded.XPassed)
}

func TestBuildReport_InstantTestsStayInStats(t *testing.T) {
	outcomes := []harness.Outcome{
		{Index: 0, Name: "instant", Verdict: harness.VerdictPassed, Duration: 0},
		{Index: 1, Name: "slow", Verdict: harness.VerdictPassed, Duration: 2 * time.Millisecond},
	}

	r := BuildReport("selfcheck", outcomes, nil, 2*time.Millisecond)

	require.NotNil(t, r.Stats)
	// The instant test is recorded, so the median sits on it rather
	// than on the slow one.
	assert.Equal(t, int64(0), r.Stats.P50Ms)
	assert.Equal(t, int64(2), r.Stats.MaxMs)
}
