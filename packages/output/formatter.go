package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/abdul-hamid-achik/getman/packages/executor"
	"github.com/abdul-hamid-achik/getman/packages/http"
)

// Formatter writes the outcome of one send.
type Formatter interface {
	FormatReport(req *http.Request, report *executor.Report)
	FormatError(req *http.Request, err error)
}

// Formats lists the accepted --output values.
var Formats = []string{"text", "console", "json"}

// New returns the formatter for format, writing to w. Verbose console output
// adds the request line and timing above each report.
func New(format string, w io.Writer, noColor, verbose bool) (Formatter, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return NewTextFormatter(w), nil
	case "console":
		return NewConsoleFormatter(WithWriter(w), WithNoColor(noColor), WithVerbose(verbose)), nil
	case "json":
		return NewJSONFormatter(WithJSONWriter(w)), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// TextFormatter prints exactly what the response panel shows.
type TextFormatter struct {
	writer io.Writer
}

func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

func (f *TextFormatter) FormatReport(_ *http.Request, report *executor.Report) {
	fmt.Fprintln(f.writer, report.String())
}

func (f *TextFormatter) FormatError(_ *http.Request, err error) {
	fmt.Fprintln(f.writer, executor.ErrorText(err))
}
