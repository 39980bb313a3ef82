package schema

import "time"

type (
	// Credentials represents POST /auth/token/ payload
	Credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	// TokenPair represents POST /auth/token/ response
	TokenPair struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}

	// RefreshRequest represents POST /auth/token/refresh/ payload
	RefreshRequest struct {
		Refresh string `json:"refresh"`
	}

	// RefreshResponse represents POST /auth/token/refresh/ response, refresh is only set when the backend rotates it
	RefreshResponse struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh,omitempty"`
	}

	// RegisterRequest represents new account data
	RegisterRequest struct {
		Email     string   `json:"email"`
		Password  string   `json:"password"`
		FirstName string   `json:"first_name"`
		LastName  string   `json:"last_name"`
		Weight    *float64 `json:"weight,omitempty"`
		Height    *float64 `json:"height,omitempty"`
		Objective string   `json:"objective,omitempty"`
	}

	// RegisterResponse represents created account record
	RegisterResponse struct {
		Message string       `json:"message,omitempty"`
		User    *UserProfile `json:"user,omitempty"`
	}

	// UserProfile represents authenticated user snapshot; it is replaced wholesale, never mutated
	UserProfile struct {
		ID         int        `json:"id"`
		Email      string     `json:"email"`
		FirstName  string     `json:"first_name"`
		LastName   string     `json:"last_name"`
		DateJoined *time.Time `json:"date_joined,omitempty"`
	}

	// ProfileUpdate represents PUT /users/profile/ partial payload
	ProfileUpdate struct {
		FirstName *string `json:"first_name,omitempty"`
		LastName  *string `json:"last_name,omitempty"`
	}

	// ProfileUpdateResponse represents PUT /users/profile/ response
	ProfileUpdateResponse struct {
		Message string       `json:"message,omitempty"`
		User    *UserProfile `json:"user,omitempty"`
	}
)

// FullName returns user display name
func (u *UserProfile) FullName() string {
	if u == nil {
		return ""
	}
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
