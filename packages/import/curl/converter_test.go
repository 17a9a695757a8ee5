package curl

import (
	"testing"

	"github.com/abdul-hamid-achik/getman/packages/http"
)

func TestParse_SimpleGet(t *testing.T) {
	converter := NewConverter()

	parsed, err := converter.Parse(`curl https://api.example.com/users`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parsed.Method != "GET" {
		t.Errorf("expected method GET, got %s", parsed.Method)
	}
	if parsed.URL != "https://api.example.com/users" {
		t.Errorf("expected URL https://api.example.com/users, got %s", parsed.URL)
	}
}

func TestParse_PostWithData(t *testing.T) {
	converter := NewConverter()

	parsed, err := converter.Parse(`curl -X POST https://api.example.com/users -d '{"name":"John"}'`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parsed.Method != "POST" {
		t.Errorf("expected method POST, got %s", parsed.Method)
	}
	if parsed.Body != `{"name":"John"}` {
		t.Errorf("expected body {\"name\":\"John\"}, got %s", parsed.Body)
	}
}

func TestParse_WithHeaders(t *testing.T) {
	converter := NewConverter()

	parsed, err := converter.Parse(`curl -H "Content-Type: application/json" -H "Authorization: Bearer token123" https://api.example.com/users`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []http.HeaderField{
		{Name: "Content-Type", Value: "application/json"},
		{Name: "Authorization", Value: "Bearer token123"},
	}
	if len(parsed.Headers) != len(want) {
		t.Fatalf("expected %d headers, got %d", len(want), len(parsed.Headers))
	}
	for i, h := range want {
		if parsed.Headers[i] != h {
			t.Errorf("header %d: expected %v, got %v", i, h, parsed.Headers[i])
		}
	}
}

func TestParse_WithBasicAuth(t *testing.T) {
	converter := NewConverter()

	parsed, err := converter.Parse(`curl -u admin:password123 https://api.example.com/admin`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parsed.BasicAuth != "admin:password123" {
		t.Errorf("expected basicAuth admin:password123, got %s", parsed.BasicAuth)
	}

	req := parsed.Request()
	if got := header(req, "Authorization"); got != "Basic YWRtaW46cGFzc3dvcmQxMjM=" {
		t.Errorf("expected encoded Authorization header, got %q", got)
	}
}

func TestParse_ImplicitPost(t *testing.T) {
	converter := NewConverter()

	parsed, err := converter.Parse(`curl -d "name=John" https://api.example.com/users`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parsed.Method != "POST" {
		t.Errorf("expected implicit POST method, got %s", parsed.Method)
	}
}

func TestParse_ExplicitMethodKeptWithData(t *testing.T) {
	converter := NewConverter()

	parsed, err := converter.Parse(`curl -X GET -d "q=1" https://api.example.com/search`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parsed.Method != "GET" {
		t.Errorf("expected GET to survive a data flag, got %s", parsed.Method)
	}
	if parsed.Body != "q=1" {
		t.Errorf("expected body q=1, got %s", parsed.Body)
	}
}

func TestParse_NoImplicitPost(t *testing.T) {
	converter := NewConverter(WithImplicitPost(false))

	parsed, err := converter.Parse(`curl -d "a=1" https://api.example.com`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parsed.Method != "GET" {
		t.Errorf("expected GET, got %s", parsed.Method)
	}
}

func TestParse_MultipleDataJoined(t *testing.T) {
	converter := NewConverter()

	parsed, err := converter.Parse(`curl -d a=1 -d b=2 https://api.example.com`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parsed.Body != "a=1&b=2" {
		t.Errorf("expected a=1&b=2, got %s", parsed.Body)
	}
}

func TestParse_JSONFlag(t *testing.T) {
	converter := NewConverter()

	req, err := converter.Convert(`curl --json '{"a":1}' https://api.example.com`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if req.Method != "POST" {
		t.Errorf("expected POST, got %s", req.Method)
	}
	if header(req, "Content-Type") != "application/json" {
		t.Errorf("expected JSON content type, got %q", header(req, "Content-Type"))
	}
}

func TestParse_LineContinuations(t *testing.T) {
	converter := NewConverter()

	parsed, err := converter.Parse("curl -X PUT \\\n  -H 'X-A: 1' \\\n  https://api.example.com/items/1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parsed.Method != "PUT" || parsed.URL != "https://api.example.com/items/1" {
		t.Errorf("unexpected parse result: %+v", parsed)
	}
}

func TestParse_SkipsUnknownFlags(t *testing.T) {
	converter := NewConverter()

	parsed, err := converter.Parse(`curl -k -L --compressed -o out.json https://api.example.com`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parsed.URL != "https://api.example.com" {
		t.Errorf("expected URL, got %s", parsed.URL)
	}
}

func TestParse_Errors(t *testing.T) {
	converter := NewConverter()

	for _, cmd := range []string{
		`curl`,
		`curl -X POST`,
		`curl -H`,
		`curl example.com`,
	} {
		if _, err := converter.Parse(cmd); err == nil {
			t.Errorf("expected error for %q", cmd)
		}
	}
}

func TestConvert(t *testing.T) {
	converter := NewConverter()

	req, err := converter.Convert(`curl -X POST -H "Content-Type: application/json" -d '{"name":"John"}' https://api.example.com/users`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if req.Method != "POST" || req.URL != "https://api.example.com/users" {
		t.Errorf("unexpected request line: %s %s", req.Method, req.URL)
	}
	if header(req, "Content-Type") != "application/json" {
		t.Error("expected converted request to carry header")
	}
	if req.Body != `{"name":"John"}` {
		t.Errorf("unexpected body %q", req.Body)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{
			input:    `-X POST -d "hello world"`,
			expected: []string{"-X", "POST", "-d", "hello world"},
		},
		{
			input:    `-H 'Content-Type: application/json'`,
			expected: []string{"-H", "Content-Type: application/json"},
		},
		{
			input:    `-d '{"key": "value"}'`,
			expected: []string{"-d", `{"key": "value"}`},
		},
		{
			input:    `-d 'a\nb'`,
			expected: []string{"-d", `a\nb`},
		},
	}

	for _, tt := range tests {
		tokens := tokenize(tt.input)
		if len(tokens) != len(tt.expected) {
			t.Errorf("tokenize(%q): got %d tokens, expected %d", tt.input, len(tokens), len(tt.expected))
			continue
		}
		for i, tok := range tokens {
			if tok != tt.expected[i] {
				t.Errorf("tokenize(%q)[%d]: got %q, expected %q", tt.input, i, tok, tt.expected[i])
			}
		}
	}
}

func header(req *http.Request, name string) string {
	v, _ := http.Lookup(req.Headers, name)
	return v
}
