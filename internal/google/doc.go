// Package google provides OAuth2 token acquisition and shared HTTP plumbing for
// the Google APIs used by glance.
//
// TokenClient is the Go counterpart of the provider's browser token client: it
// runs the interactive consent flow over a loopback redirect, performs silent
// refreshes with a stored refresh token and revokes tokens. IdentityClient
// fetches the user's profile for a freshly issued token.
//
// NewHTTPClient builds the authenticated client every service package uses, and
// NormalizeError converts any failure into an *APIError.
package google
