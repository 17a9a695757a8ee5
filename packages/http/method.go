package http

import (
	"errors"
)

// ErrInvalidMethod is returned for any method outside the supported set.
// Its message is shown to the user as-is.
var ErrInvalidMethod = errors.New("Invalid HTTP method")

// Methods lists the supported request methods in display order.
var Methods = []string{"GET", "POST", "PUT", "DELETE", "PATCH"}

// ParseMethod validates method. Matching is exact: "get" is not accepted.
func ParseMethod(method string) (string, error) {
	for _, m := range Methods {
		if m == method {
			return m, nil
		}
	}
	return "", ErrInvalidMethod
}
