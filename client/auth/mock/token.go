package mock

import (
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/viant/mycoach/schema"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// tokenHandler handles POST /auth/token/
func (b *Backend) tokenHandler(w http.ResponseWriter, r *http.Request) {
	var credentials schema.Credentials
	if err := decode(r, &credentials); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "JSON parse error"})
		return
	}
	acc := b.lookup(credentials.Email)
	if acc == nil || bcrypt.CompareHashAndPassword(acc.hash, []byte(credentials.Password)) != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "No active account found with the given credentials"})
		return
	}
	access, refresh, err := b.issuePair(acc.profile.Email)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, &schema.TokenPair{Access: access, Refresh: refresh})
}

// refreshHandler handles POST /auth/token/refresh/
func (b *Backend) refreshHandler(w http.ResponseWriter, r *http.Request) {
	var request schema.RefreshRequest
	if err := decode(r, &request); err != nil || request.Refresh == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"refresh": {"This field is required."}})
		return
	}
	b.mu.Lock()
	reject := b.rejectRefresh
	b.mu.Unlock()
	subject, err := b.parseJWT(request.Refresh, refreshTokenType)
	if reject || err != nil || b.lookup(subject) == nil {
		writeTokenNotValid(w)
		return
	}
	access, err := b.createJWT(subject, accessTokenType, b.AccessTTL)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": err.Error()})
		return
	}
	response := &schema.RefreshResponse{Access: access}
	if b.RotateRefresh {
		if response.Refresh, err = b.createJWT(subject, refreshTokenType, refreshTTL); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, response)
}

// registerHandler handles POST /auth/register/
func (b *Backend) registerHandler(w http.ResponseWriter, r *http.Request) {
	var request schema.RegisterRequest
	if err := decode(r, &request); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "JSON parse error"})
		return
	}
	details := map[string][]string{}
	if _, err := mail.ParseAddress(request.Email); err != nil {
		details["email"] = append(details["email"], "Enter a valid email address.")
	} else if b.lookup(request.Email) != nil {
		details["email"] = append(details["email"], "A user with this email already exists.")
	}
	if len(request.Password) < minPasswordLength {
		details["password"] = append(details["password"], "Ensure this field has at least 6 characters.")
	}
	if strings.TrimSpace(request.FirstName) == "" {
		details["first_name"] = append(details["first_name"], "This field may not be blank.")
	}
	if strings.TrimSpace(request.LastName) == "" {
		details["last_name"] = append(details["last_name"], "This field may not be blank.")
	}
	if len(details) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "Invalid data", "details": details})
		return
	}
	profile, err := b.AddUser(request.Email, request.Password, request.FirstName, request.LastName)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Account creation failed", "details": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, &schema.RegisterResponse{Message: "Account created", User: profile})
}

func (b *Backend) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, &schema.Health{Status: "healthy", Message: "MyCoach API is running successfully", Version: "1.0.0"})
}

func currentAccount(r *http.Request) *account {
	acc, _ := r.Context().Value(accountKey).(*account)
	return acc
}

func (b *Backend) profileHandler(w http.ResponseWriter, r *http.Request) {
	acc := currentAccount(r)
	b.mu.Lock()
	profile := acc.profile
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, &profile)
}

func (b *Backend) updateProfileHandler(w http.ResponseWriter, r *http.Request) {
	var update schema.ProfileUpdate
	if err := decode(r, &update); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "JSON parse error"})
		return
	}
	acc := currentAccount(r)
	b.mu.Lock()
	if update.FirstName != nil {
		acc.profile.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		acc.profile.LastName = *update.LastName
	}
	profile := acc.profile
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, &schema.ProfileUpdateResponse{Message: "Profile updated", User: &profile})
}

func (b *Backend) statsHandler(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	total, completed := len(b.workouts), 0
	for _, workout := range b.workouts {
		if workout.Completed {
			completed++
		}
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total_workouts":     total,
		"completed_workouts": completed,
		"generated_at":       time.Now().UTC().Format(time.RFC3339),
	})
}
