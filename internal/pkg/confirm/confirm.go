// Package confirm guards destructive console actions behind an explicit operator acknowledgement.
package confirm

import (
	"errors"
	"net/http"
	"strings"
)

// Header carries the operator's acknowledgement of a destructive action.
const Header = "X-Confirm"

var ErrRequired = errors.New("this action is destructive and must be explicitly confirmed")

// Require returns ErrRequired unless confirmed is set.
func Require(confirmed bool) error {
	if !confirmed {
		return ErrRequired
	}
	return nil
}

// FromRequest reads the acknowledgement from the X-Confirm header or the confirm query parameter.
func FromRequest(r *http.Request) bool {
	v := r.Header.Get(Header)
	if v == "" {
		v = r.URL.Query().Get("confirm")
	}
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes"
}
