// Package api implements a typed client for the MyCoach REST backend.
//
// The client does not manage credentials itself: authenticated calls are expected
// to go through the transport.RoundTripper which injects the bearer token and
// refreshes it on 401. Every non 2xx response is returned as *schema.Error whose
// kind matches one of the schema sentinel errors via errors.Is.
package api
