// Package store defines the credential store used by the session manager to keep
// the access token, refresh token and cached user profile across process restarts.
//
// A missing key is reported as absent, never as an error. The in-memory store
// suits tests and one-shot commands; FileStore and SecretStore persist a JSON
// snapshot with afs (the latter encrypted with scy) and RedisStore shares
// credentials between processes.
package store
