// Package session implements the session manager: the sole owner and mutator of
// the in-memory session (access token, refresh token, user profile), mirrored to
// a store.Store for durability.
//
// The Manager performs login, registration, token refresh, logout and profile
// fetch against the backend, and implements transport.Credentials so that the
// request gateway can attach its token and ask for a refresh on 401.
//
//	manager := session.New("https://api.example.com/api", session.WithStore(aStore))
//	if err := manager.Login(ctx, email, password); err != nil { ... }
//	workouts, err := manager.API().Workouts(ctx)
package session
