// Package curl turns curl command lines into getman requests.
package curl

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/getman/packages/http"
)

// Converter converts curl commands to requests.
type Converter struct {
	implicitPost bool
}

// Option is a functional option for Converter.
type Option func(*Converter)

// WithImplicitPost controls whether a data flag without -X switches GET to
// POST, as curl itself does.
func WithImplicitPost(enabled bool) Option {
	return func(c *Converter) {
		c.implicitPost = enabled
	}
}

// NewConverter creates a new curl converter.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		implicitPost: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ParsedCurl represents a parsed curl command.
type ParsedCurl struct {
	Method    string
	URL       string
	Headers   []http.HeaderField
	Body      string
	BasicAuth string
}

// Request converts the parsed command into a request. Basic credentials
// become a raw Authorization header.
func (p *ParsedCurl) Request() *http.Request {
	req := http.NewRequest(p.Method, p.URL).SetBody(p.Body)
	if p.BasicAuth != "" {
		encoded := base64.StdEncoding.EncodeToString([]byte(p.BasicAuth))
		req.AddHeader("Authorization", "Basic "+encoded)
	}
	for _, h := range p.Headers {
		req.AddHeader(h.Name, h.Value)
	}
	return req
}

// Convert parses curlCmd and returns the equivalent request.
func (c *Converter) Convert(curlCmd string) (*http.Request, error) {
	parsed, err := c.Parse(curlCmd)
	if err != nil {
		return nil, err
	}
	return parsed.Request(), nil
}

// Parse parses a curl command string into a ParsedCurl struct.
func (c *Converter) Parse(curlCmd string) (*ParsedCurl, error) {
	parsed := &ParsedCurl{
		Method: "GET",
	}
	explicitMethod := false

	// Line continuations from copied shell snippets
	curlCmd = strings.ReplaceAll(curlCmd, "\\\n", " ")
	curlCmd = strings.TrimSpace(curlCmd)

	if curlCmd == "curl" {
		return nil, fmt.Errorf("no URL specified")
	}
	curlCmd = strings.TrimPrefix(curlCmd, "curl ")

	tokens := tokenize(curlCmd)

	value := func(i int) (string, error) {
		if i+1 < len(tokens) {
			return tokens[i+1], nil
		}
		return "", fmt.Errorf("missing value for %s", tokens[i])
	}

	i := 0
	for i < len(tokens) {
		token := tokens[i]

		switch {
		case token == "-X" || token == "--request":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.Method = strings.ToUpper(v)
			explicitMethod = true
			i += 2

		case token == "-H" || token == "--header":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.Headers = append(parsed.Headers, http.ParseHeaders(v)...)
			i += 2

		case token == "-d" || token == "--data" || token == "--data-raw" || token == "--data-binary" || token == "--json":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			if parsed.Body != "" {
				parsed.Body += "&"
			}
			parsed.Body += v
			if token == "--json" {
				parsed.Headers = append(parsed.Headers,
					http.HeaderField{Name: "Content-Type", Value: "application/json"},
					http.HeaderField{Name: "Accept", Value: "application/json"})
			}
			if c.implicitPost && !explicitMethod {
				parsed.Method = "POST"
			}
			i += 2

		case token == "-u" || token == "--user":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.BasicAuth = v
			i += 2

		case token == "-A" || token == "--user-agent":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.Headers = append(parsed.Headers, http.HeaderField{Name: "User-Agent", Value: v})
			i += 2

		case token == "-e" || token == "--referer":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.Headers = append(parsed.Headers, http.HeaderField{Name: "Referer", Value: v})
			i += 2

		case token == "-b" || token == "--cookie":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.Headers = append(parsed.Headers, http.HeaderField{Name: "Cookie", Value: v})
			i += 2

		case token == "--url":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.URL = v
			i += 2

		case strings.HasPrefix(token, "-"):
			// Skip unknown flags with potential values
			if i+1 < len(tokens) && !strings.HasPrefix(tokens[i+1], "-") && !isURL(tokens[i+1]) {
				i += 2
			} else {
				i++
			}

		default:
			if parsed.URL == "" && isURL(token) {
				parsed.URL = token
			}
			i++
		}
	}

	if parsed.URL == "" {
		return nil, fmt.Errorf("no URL found in curl command")
	}

	return parsed, nil
}

// tokenize splits a curl command into tokens, respecting quotes.
func tokenize(cmd string) []string {
	var tokens []string
	var current strings.Builder
	inSingleQuote := false
	inDoubleQuote := false
	escaped := false

	for _, r := range cmd {
		if escaped {
			current.WriteRune(r)
			escaped = false
			continue
		}

		switch r {
		case '\\':
			if inSingleQuote {
				current.WriteRune(r)
			} else {
				escaped = true
			}
		case '\'':
			if !inDoubleQuote {
				inSingleQuote = !inSingleQuote
			} else {
				current.WriteRune(r)
			}
		case '"':
			if !inSingleQuote {
				inDoubleQuote = !inDoubleQuote
			} else {
				current.WriteRune(r)
			}
		case ' ', '\t', '\n':
			if inSingleQuote || inDoubleQuote {
				current.WriteRune(r)
			} else if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
