package instrumentation

import "strings"

// Operation labels for Google API metrics.
const (
	OperationList   = "list"
	OperationGet    = "get"
	OperationCreate = "create"
	OperationUpdate = "update"
)

// unknownLabel replaces values that cannot be reduced to a bounded set.
const unknownLabel = "unknown"

// ExtractUserDomain returns the domain of an email address, the only part of
// a user identity that may appear in a label.
//
//	ExtractUserDomain("jane@example.com")  // "example.com"
//	ExtractUserDomain("invalid")           // "unknown"
func ExtractUserDomain(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" || strings.Contains(domain, "@") {
		return unknownLabel
	}
	return strings.ToLower(domain)
}

// RouteLabel returns the route pattern for HTTP metrics. Requests that did
// not match a route share one label so probing unknown paths cannot grow the
// series count.
func RouteLabel(pattern string) string {
	if pattern == "" {
		return "unmatched"
	}
	return pattern
}

// statusOf maps an error to a status label.
func statusOf(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}
