package logging

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// SourceFormatter wraps another logrus.Formatter and adds the caller
// as `x_file_source="file.go:42"`.
type SourceFormatter struct {
	Underlying logrus.Formatter
	// AddSpace appends an extra newline after every entry, useful for text output.
	AddSpace bool
}

// Format renders a single log entry.
func (f *SourceFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	if entry.HasCaller() {
		entry.Data["x_file_source"] = fmt.Sprintf("%s:%d", filepath.Base(entry.Caller.File), entry.Caller.Line)
	}

	formatted, err := f.Underlying.Format(entry)
	if err != nil {
		return nil, err
	}

	if f.AddSpace {
		return append(formatted, '\n'), nil
	}
	return formatted, nil
}
