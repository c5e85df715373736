package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/crucible-dev/crucible/packages/core/harness"
)

// Formatter is implemented by all report formatters.
type Formatter interface {
	FormatHeader(version string)
	FormatReport(r *Report)
	FormatError(err error)
}

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	quiet   bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithQuiet(q bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.quiet = q
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	if f.quiet {
		return
	}
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("crucible"), version)
}

func (f *ConsoleFormatter) FormatReport(r *Report) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	if !f.quiet {
		fmt.Fprintf(f.writer, "\n%s\n\n", bold("Suite: "+r.ProgName))

		for _, res := range r.Results {
			f.formatResult(&res, green, red, yellow, cyan)
		}
	}

	fmt.Fprintf(f.writer, "\nTests: ")
	if r.Passed > 0 {
		fmt.Fprintf(f.writer, "%s, ", green(fmt.Sprintf("%d passed", r.Passed)))
	}
	if r.Failed > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d failed", r.Failed)))
	}
	if r.XFailed > 0 {
		fmt.Fprintf(f.writer, "%s, ", yellow(fmt.Sprintf("%d expected failures", r.XFailed)))
	}
	if r.XPassed > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d unexpectedly passed", r.XPassed)))
	}
	if r.Skipped > 0 {
		fmt.Fprintf(f.writer, "%s, ", yellow(fmt.Sprintf("%d skipped", r.Skipped)))
	}
	fmt.Fprintf(f.writer, "%d total\n", r.Total())
	fmt.Fprintf(f.writer, "Time:  %dms\n", r.DurationMs)

	if f.verbose && r.Stats != nil {
		fmt.Fprintf(f.writer, "Latency: p50 %dms, p95 %dms, p99 %dms, max %dms\n",
			r.Stats.P50Ms, r.Stats.P95Ms, r.Stats.P99Ms, r.Stats.MaxMs)
	}
	fmt.Fprintf(f.writer, "\n")
}

func (f *ConsoleFormatter) formatResult(res *Result, green, red, yellow, cyan func(a ...interface{}) string) {
	switch res.Verdict {
	case harness.VerdictSkipped:
		fmt.Fprintf(f.writer, "  %s %3d %s", yellow("-"), res.Number, res.Name)
		if res.SkipReason != "" {
			fmt.Fprintf(f.writer, " (%s)", res.SkipReason)
		}
		fmt.Fprintf(f.writer, "\n")
		return

	case harness.VerdictPassed:
		fmt.Fprintf(f.writer, "  %s %3d %s %s\n", green("✓"), res.Number, res.Name,
			cyan(fmt.Sprintf("(%dms)", res.DurationMs)))

	case harness.VerdictXFailed:
		fmt.Fprintf(f.writer, "  %s %3d %s (expected failure)\n", yellow("✗"), res.Number, res.Name)
		if f.verbose && res.Detail != "" {
			f.indent(res.Detail)
		}

	case harness.VerdictXPassed:
		fmt.Fprintf(f.writer, "  %s %3d %s %s\n", red("✓"), res.Number, res.Name,
			red("(unexpectedly passed; expected-failure marking is stale)"))

	case harness.VerdictFailed:
		fmt.Fprintf(f.writer, "  %s %3d %s\n", red("✗"), res.Number, res.Name)
		if res.Detail != "" {
			f.indent(res.Detail)
		}
	}

	if res.WIP != "" && f.verbose {
		fmt.Fprintf(f.writer, "      work in progress: %s\n", res.WIP)
	}
}

func (f *ConsoleFormatter) indent(detail string) {
	for _, line := range strings.Split(detail, "\n") {
		fmt.Fprintf(f.writer, "      %s\n", line)
	}
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}
