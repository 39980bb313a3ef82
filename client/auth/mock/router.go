package mock

import (
	"context"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
)

type contextKey string

const accountKey contextKey = "account"

func (b *Backend) router() *mux.Router {
	root := mux.NewRouter()
	r := root.PathPrefix(b.Prefix).Subrouter()
	r.Use(b.recordMiddleware)

	r.HandleFunc("/auth/token/", b.tokenHandler).Methods(http.MethodPost)
	r.HandleFunc("/auth/token/refresh/", b.refreshHandler).Methods(http.MethodPost)
	r.HandleFunc("/auth/register/", b.registerHandler).Methods(http.MethodPost)
	r.HandleFunc("/core/health/", b.healthHandler).Methods(http.MethodGet)

	protected := r.NewRoute().Subrouter()
	protected.Use(b.authMiddleware)
	protected.HandleFunc("/users/profile/", b.profileHandler).Methods(http.MethodGet)
	protected.HandleFunc("/users/profile/", b.updateProfileHandler).Methods(http.MethodPut)
	protected.HandleFunc("/users/profile/stats/", b.statsHandler).Methods(http.MethodGet)
	protected.HandleFunc("/machines/machines/", listHandler(b, &b.machines)).Methods(http.MethodGet)
	protected.HandleFunc("/machines/muscle-groups/", listHandler(b, &b.muscleGroups)).Methods(http.MethodGet)
	protected.HandleFunc("/machines/labels/", listHandler(b, &b.labels)).Methods(http.MethodGet)
	protected.HandleFunc("/workouts/workouts/", listHandler(b, &b.workouts)).Methods(http.MethodGet)
	protected.HandleFunc("/workouts/workouts/", b.createWorkoutHandler).Methods(http.MethodPost)
	protected.HandleFunc("/workouts/workouts/{id:[0-9]+}/", b.updateWorkoutHandler).Methods(http.MethodPut)
	protected.HandleFunc("/workouts/workouts/{id:[0-9]+}/", b.deleteWorkoutHandler).Methods(http.MethodDelete)
	protected.HandleFunc("/workouts/start-workout/", b.startWorkoutHandler).Methods(http.MethodPost)
	protected.HandleFunc("/workouts/complete-workout/", b.completeWorkoutHandler).Methods(http.MethodPost)
	protected.HandleFunc("/workouts/exercises/", listHandler(b, &b.exercises)).Methods(http.MethodGet)
	protected.HandleFunc("/workouts/exercises/", b.createExerciseHandler).Methods(http.MethodPost)
	protected.HandleFunc("/calendar/events/", listHandler(b, &b.events)).Methods(http.MethodGet)
	protected.HandleFunc("/calendar/plans/", listHandler(b, &b.plans)).Methods(http.MethodGet)
	protected.HandleFunc("/calendar/plans/", b.createPlanHandler).Methods(http.MethodPost)
	return root
}

func (b *Backend) recordMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		next.ServeHTTP(w, r)
	})
}

// authMiddleware mirrors JWT authentication: missing, invalid, revoked or forced tokens yield 401
func (b *Backend) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, b.Prefix)
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")
		if b.takeForced(path) || b.isRevoked(token) {
			writeTokenNotValid(w)
			return
		}
		subject, err := b.parseJWT(token, accessTokenType)
		if err != nil {
			writeTokenNotValid(w)
			return
		}
		acc := b.lookup(subject)
		if acc == nil {
			writeTokenNotValid(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), accountKey, acc)))
	})
}

func (b *Backend) isRevoked(token string) bool {
	revoked, _ := b.revoked.Get(token)
	return revoked
}

func writeTokenNotValid(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type", "code": "token_not_valid"})
}

func writeJSON(w http.ResponseWriter, status int, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if value != nil {
		_ = json.NewEncoder(w).Encode(value)
	}
}

func decode(r *http.Request, target interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
