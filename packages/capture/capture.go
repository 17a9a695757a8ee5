package capture

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/abdul-hamid-achik/getman/packages/executor"
	"github.com/abdul-hamid-achik/getman/packages/http"
)

type Source string

const (
	SourceStatus Source = "status"
	SourceHeader Source = "header"
	SourceBody   Source = "body"
)

// Query is a parsed extraction expression.
type Query struct {
	Source Source
	Path   string
}

// ParseQuery parses expressions such as "body.data.0.id" or "header.etag".
func ParseQuery(expr string) (Query, error) {
	expr = strings.TrimSpace(expr)
	source, path, _ := strings.Cut(expr, ".")

	switch Source(source) {
	case SourceStatus:
		if path != "" {
			return Query{}, fmt.Errorf("status takes no path: %q", expr)
		}
		return Query{Source: SourceStatus}, nil
	case SourceHeader:
		if path == "" {
			return Query{}, fmt.Errorf("header query needs a name: %q", expr)
		}
		return Query{Source: SourceHeader, Path: path}, nil
	case SourceBody:
		return Query{Source: SourceBody, Path: path}, nil
	default:
		return Query{}, fmt.Errorf("unknown query source %q (want status, header or body)", source)
	}
}

type Extractor struct {
	report   *executor.Report
	bodyJSON gjson.Result
}

func NewExtractor(report *executor.Report) *Extractor {
	e := &Extractor{
		report: report,
	}
	if report.IsJSON {
		e.bodyJSON = gjson.Parse(report.Body)
	}
	return e
}

// Extract returns the value q selects as display text.
func (e *Extractor) Extract(q Query) (string, bool) {
	switch q.Source {
	case SourceStatus:
		return strconv.Itoa(e.report.StatusCode), true
	case SourceHeader:
		return http.Lookup(e.report.Headers, q.Path)
	case SourceBody:
		return e.extractFromBody(q.Path)
	default:
		return "", false
	}
}

func (e *Extractor) extractFromBody(path string) (string, bool) {
	if path == "" {
		return e.report.Body, true
	}
	if !e.bodyJSON.Exists() {
		return "", false
	}

	result := e.bodyJSON.Get(path)
	if !result.Exists() {
		return "", false
	}
	if result.Type == gjson.String {
		return result.Str, true
	}
	return result.Raw, true
}

// Extract parses expr and applies it to report.
func Extract(report *executor.Report, expr string) (string, error) {
	q, err := ParseQuery(expr)
	if err != nil {
		return "", err
	}
	value, ok := NewExtractor(report).Extract(q)
	if !ok {
		return "", fmt.Errorf("no value at %q", expr)
	}
	return value, nil
}
