package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// JSONFormatter emits the report as a single JSON document.
type JSONFormatter struct {
	writer  io.Writer
	version string
}

type jsonEnvelope struct {
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	*Report
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatHeader(version string) {
	f.version = version
}

func (f *JSONFormatter) FormatReport(r *Report) {
	env := jsonEnvelope{
		Version:   f.version,
		Timestamp: time.Now().UTC(),
		Report:    r,
	}
	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(env); err != nil {
		fmt.Fprintf(os.Stderr, "warning: encoding JSON report failed: %v\n", err)
	}
}

func (f *JSONFormatter) FormatError(err error) {
	_ = json.NewEncoder(f.writer).Encode(map[string]string{"error": err.Error()})
}
