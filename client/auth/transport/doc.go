// Package transport implements the request gateway: an http.RoundTripper that
// attaches the current access token as a bearer credential and, when a request
// carrying a token is rejected with 401 Unauthorized, asks the credentials
// owner for exactly one refresh before replaying the request.
//
// A failed refresh propagates the original 401 response; a replay that is
// rejected again expires the session. Every other status passes through
// unmodified, without retry or backoff.
package transport
