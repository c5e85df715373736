package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/crucible-dev/crucible/packages/core/harness"
)

// TAPFormatter formats the report in TAP (Test Anything Protocol)
// format. XFAIL results map to TODO directives, the protocol's notion
// of an expected failure.
type TAPFormatter struct {
	writer io.Writer
}

type TAPOption func(*TAPFormatter)

func NewTAPFormatter(opts ...TAPOption) *TAPFormatter {
	f := &TAPFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func TAPWithWriter(w io.Writer) TAPOption {
	return func(f *TAPFormatter) {
		f.writer = w
	}
}

func (f *TAPFormatter) FormatHeader(version string) {
	// Header is part of FormatReport; TAP has no preamble of its own.
}

func (f *TAPFormatter) FormatReport(r *Report) {
	fmt.Fprintf(f.writer, "TAP version 13\n")
	fmt.Fprintf(f.writer, "1..%d\n", r.Total())

	for i, res := range r.Results {
		num := i + 1

		switch res.Verdict {
		case harness.VerdictSkipped:
			reason := res.SkipReason
			if reason == "" {
				reason = "SKIP"
			}
			fmt.Fprintf(f.writer, "ok %d - %s # SKIP %s\n", num, res.Name, reason)

		case harness.VerdictPassed:
			fmt.Fprintf(f.writer, "ok %d - %s\n", num, res.Name)

		case harness.VerdictXFailed:
			fmt.Fprintf(f.writer, "not ok %d - %s # TODO expected failure\n", num, res.Name)

		case harness.VerdictXPassed:
			fmt.Fprintf(f.writer, "ok %d - %s # TODO unexpectedly passed\n", num, res.Name)

		case harness.VerdictFailed:
			fmt.Fprintf(f.writer, "not ok %d - %s\n", num, res.Name)
			if res.Detail != "" {
				fmt.Fprintf(f.writer, "  ---\n")
				fmt.Fprintf(f.writer, "  message: %s\n", escapeYAML(res.Detail))
				fmt.Fprintf(f.writer, "  severity: error\n")
				fmt.Fprintf(f.writer, "  ...\n")
			}
		}
	}

	fmt.Fprintln(f.writer)
}

func (f *TAPFormatter) FormatError(err error) {
	fmt.Fprintf(f.writer, "Bail out! %v\n", err)
}

func escapeYAML(s string) string {
	s = strings.ReplaceAll(s, "\n", " / ")
	if strings.ContainsAny(s, ":\"'[]{}#&*!|>%@`") {
		s = strings.ReplaceAll(s, "\"", "\\\"")
		return "\"" + s + "\""
	}
	return s
}
