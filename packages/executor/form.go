package executor

import (
	"github.com/abdul-hamid-achik/getman/packages/http"
)

// Form is the raw text a front end collects before a send.
type Form struct {
	Method  string
	URL     string
	Headers string
	Body    string
}

// Spec builds the request for the current form contents. The body is
// attached whenever it is non-empty, whatever the method.
func (f Form) Spec() *http.Request {
	return http.NewRequest(f.Method, f.URL).
		AddHeaderBlock(f.Headers).
		SetBody(f.Body)
}
