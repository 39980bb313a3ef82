// Package mycoach provides a client for the MyCoach fitness coaching backend.
//
// A client owns a credential store, a session manager and a request gateway:
// every api call carries the session bearer token, and a 401 triggers a single
// token refresh followed by a replay of the request, or a logout when the
// refresh or the replay is rejected.
//
// Example:
//
//	cfg, err := config.Load("mycoach.yaml")
//	if err != nil { ... }
//	client, err := mycoach.NewClient(ctx, &mycoach.Options{Config: cfg})
//	if err != nil { ... }
//	defer client.Close()
//	if err = client.Session().Login(ctx, email, password); err != nil { ... }
//	workouts, err := client.API().Workouts(ctx)
package mycoach
