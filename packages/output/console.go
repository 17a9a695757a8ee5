package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/abdul-hamid-achik/getman/packages/executor"
	"github.com/abdul-hamid-achik/getman/packages/http"
)

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
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

// WithVerbose adds the request line and timing above the report.
func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func statusColor(code int) *color.Color {
	switch {
	case http.IsServerError(code):
		return color.New(color.FgRed, color.Bold)
	case http.IsClientError(code):
		return color.New(color.FgYellow, color.Bold)
	case http.IsRedirect(code):
		return color.New(color.FgCyan, color.Bold)
	default:
		return color.New(color.FgGreen, color.Bold)
	}
}

func (f *ConsoleFormatter) FormatReport(req *http.Request, report *executor.Report) {
	bold := color.New(color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	if f.verbose && req != nil {
		fmt.Fprintf(f.writer, "%s %s %s\n\n", bold(req.Method), req.URL, faint(fmt.Sprintf("(%dms)", report.Duration.Milliseconds())))
	}

	fmt.Fprintf(f.writer, "%s %s\n\n", bold("Status:"), statusColor(report.StatusCode).Sprint(report.Status))

	fmt.Fprintf(f.writer, "%s\n", bold("Headers:"))
	for _, h := range report.Headers {
		fmt.Fprintf(f.writer, "%s: %s\n", cyan(h.Name), h.Value)
	}

	fmt.Fprintf(f.writer, "\n%s\n", bold("Body:"))
	fmt.Fprintln(f.writer, report.Body)
}

func (f *ConsoleFormatter) FormatError(_ *http.Request, err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintln(f.writer, red(executor.ErrorText(err)))
}
