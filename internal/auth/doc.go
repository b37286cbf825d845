// Package auth drives the Google sign-in lifecycle and keeps the credential
// store current.
//
// The Orchestrator owns a token client built once by a Loader. Login asks for
// consent, Refresh asks silently, and both commit a credential only after the
// user's identity was fetched with the new token. At most one token request
// is in flight: a caller asking with the same prompt joins it, a caller
// asking with a different prompt gets ErrRequestPending.
//
// Logout revokes the token with the provider and always clears local state,
// even when revocation fails.
//
//	Unauthenticated --login--> Authenticated --expiry--> Stale
//	Stale --refresh--> RefreshPending --ok--> Authenticated
//	                                  --fail--> Stale
package auth
