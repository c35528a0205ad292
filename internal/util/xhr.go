package util

import "net/http"

// IsXHR reports whether the request was flagged by in-page script, which
// expects a bare status instead of a redirect.
func IsXHR(r *http.Request) bool {
	return r.Header.Get("X-Requested-With") == "XMLHttpRequest"
}
