package output

import (
	"encoding/json"
	"io"
	"os"

	"github.com/abdul-hamid-achik/getman/packages/executor"
	"github.com/abdul-hamid-achik/getman/packages/http"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	Request  *JSONRequest  `json:"request,omitempty"`
	Response *JSONResponse `json:"response,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// JSONRequest represents request details
type JSONRequest struct {
	Method  string       `json:"method"`
	URL     string       `json:"url"`
	Headers []JSONHeader `json:"headers,omitempty"`
	Body    string       `json:"body,omitempty"`
}

// JSONResponse represents response details
type JSONResponse struct {
	StatusCode int          `json:"statusCode"`
	Status     string       `json:"status"`
	Headers    []JSONHeader `json:"headers"`
	// Body holds the decoded document for JSON payloads and a string otherwise.
	Body     any     `json:"body"`
	Duration float64 `json:"duration"`
}

type JSONHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// JSONFormatter formats results as a JSON document
type JSONFormatter struct {
	writer io.Writer
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

func WithJSONWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func jsonHeaders(fields []http.HeaderField) []JSONHeader {
	out := make([]JSONHeader, 0, len(fields))
	for _, h := range fields {
		out = append(out, JSONHeader{Name: h.Name, Value: h.Value})
	}
	return out
}

func jsonRequest(req *http.Request) *JSONRequest {
	if req == nil {
		return nil
	}
	return &JSONRequest{
		Method:  req.Method,
		URL:     req.URL,
		Headers: jsonHeaders(req.Headers),
		Body:    req.Body,
	}
}

func (f *JSONFormatter) FormatReport(req *http.Request, report *executor.Report) {
	var body any = report.Body
	if report.IsJSON {
		body = json.RawMessage(report.Body)
	}

	f.write(JSONOutput{
		Request: jsonRequest(req),
		Response: &JSONResponse{
			StatusCode: report.StatusCode,
			Status:     report.Status,
			Headers:    jsonHeaders(report.Headers),
			Body:       body,
			Duration:   float64(report.Duration.Microseconds()) / 1000,
		},
	})
}

func (f *JSONFormatter) FormatError(req *http.Request, err error) {
	f.write(JSONOutput{
		Request: jsonRequest(req),
		Error:   executor.ErrorText(err),
	})
}

func (f *JSONFormatter) write(out JSONOutput) {
	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}
