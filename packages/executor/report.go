package executor

import (
	"bytes"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/abdul-hamid-achik/getman/packages/http"
)

// Width 0 keeps every array element and object member on its own line.
var prettyOptions = &pretty.Options{Width: 0, Indent: "  "}

// Report is the formatted summary of one HTTP response.
type Report struct {
	Status     string
	StatusCode int
	Headers    []http.HeaderField
	// Body is already pretty-printed when the payload was valid JSON.
	Body     string
	IsJSON   bool
	Duration time.Duration
}

// NewReport builds a Report from a client response.
func NewReport(resp *http.Response) *Report {
	r := &Report{
		Status:     resp.StatusLine(),
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Duration:   resp.Duration,
	}

	if resp.BodyErr != nil {
		r.Body = resp.BodyErr.Error()
		return r
	}

	r.Body, r.IsJSON = PrettyBody(resp.Body)
	return r
}

// String renders the report in the response panel layout.
func (r *Report) String() string {
	var sb strings.Builder
	sb.WriteString("Status: ")
	sb.WriteString(r.Status)
	sb.WriteString("\n\nHeaders:\n")
	sb.WriteString(http.FormatHeaders(r.Headers))
	sb.WriteString("\nBody:\n")
	sb.WriteString(r.Body)
	return sb.String()
}

// PrettyBody indents body when it parses as JSON and returns it unchanged
// otherwise. The second result reports whether body was JSON.
func PrettyBody(body []byte) (string, bool) {
	if !gjson.ValidBytes(body) {
		return string(body), false
	}
	out := pretty.PrettyOptions(body, prettyOptions)
	return string(bytes.TrimRight(out, "\n")), true
}
