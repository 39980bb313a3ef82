// Package mock provides an in-memory MyCoach backend that facilitates unit
// testing of the session manager, request gateway and REST client.
//
// The backend reproduces the REST contract (paths, payloads, error bodies)
// and exposes hooks to force 401 responses, reject refreshes and count calls,
// so tests can drive the refresh-and-retry flow without a real server.
package mock
