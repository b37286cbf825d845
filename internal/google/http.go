package google

import (
	"net/http"

	"golang.org/x/oauth2"
)

// NewHTTPClient returns a client that attaches the bearer token from ts and a
// JSON content type to every request.
//
// The token source is consulted on every request and never cached here, so a
// login or logout takes effect immediately. HTTP/2 is disabled on the base
// transport to avoid the stream errors seen against some Google endpoints.
func NewHTTPClient(ts oauth2.TokenSource) *http.Client {
	base := &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		ForceAttemptHTTP2: false,
	}

	return &http.Client{
		Transport: &oauth2.Transport{
			Source: ts,
			Base:   &jsonTransport{base: base},
		},
	}
}

// jsonTransport sets Content-Type: application/json when the request has none.
type jsonTransport struct {
	base http.RoundTripper
}

func (t *jsonTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Content-Type") != "" {
		return t.base.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("Content-Type", "application/json")
	return t.base.RoundTrip(r)
}
