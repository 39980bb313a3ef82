package schema

import (
	"encoding/json"
	"time"
)

// Workout statuses
const (
	WorkoutPlanned    = "planned"
	WorkoutInProgress = "in_progress"
	WorkoutCompleted  = "completed"
	WorkoutSkipped    = "skipped"
)

type (
	// MuscleGroup represents targeted muscle group
	MuscleGroup struct {
		ID             int    `json:"id"`
		Name           string `json:"name"`
		Description    string `json:"description,omitempty"`
		AnatomicalZone string `json:"anatomical_zone,omitempty"`
	}

	// Label represents machine category tag
	Label struct {
		ID          int    `json:"id"`
		Name        string `json:"name"`
		Color       string `json:"color,omitempty"`
		Description string `json:"description,omitempty"`
		IsPrimary   bool   `json:"is_primary,omitempty"`
	}

	// Machine represents gym equipment
	Machine struct {
		ID              int    `json:"id"`
		Name            string `json:"name"`
		MuscleGroup     string `json:"muscle_group,omitempty"`
		Instructions    string `json:"instructions,omitempty"`
		MachineType     string `json:"machine_type,omitempty"`
		Brand           string `json:"brand,omitempty"`
		DifficultyLevel int    `json:"difficulty_level,omitempty"`
	}

	// Exercise represents a machine exercise within a workout
	Exercise struct {
		ID      int      `json:"id,omitempty"`
		Machine *Machine `json:"machine,omitempty"`
		Sets    int      `json:"sets"`
		Reps    int      `json:"reps"`
		Weight  float64  `json:"weight"`
		RPE     *int     `json:"rpe,omitempty"`
	}

	// Workout represents a training session
	Workout struct {
		ID              int         `json:"id,omitempty"`
		Name            string      `json:"name"`
		Date            string      `json:"date,omitempty"`
		Status          string      `json:"status,omitempty"`
		Exercises       []*Exercise `json:"exercises,omitempty"`
		DurationMinutes *int        `json:"duration_minutes,omitempty"`
		Completed       bool        `json:"completed"`
	}

	// StartWorkoutRequest represents POST /workouts/start-workout/ payload
	StartWorkoutRequest struct {
		WorkoutID int `json:"workout_id"`
	}

	// CompleteWorkoutRequest represents POST /workouts/complete-workout/ payload
	CompleteWorkoutRequest struct {
		WorkoutID             int    `json:"workout_id"`
		ActualDurationMinutes *int   `json:"actual_duration_minutes,omitempty"`
		DifficultyFelt        *int   `json:"difficulty_felt,omitempty"`
		Satisfaction          *int   `json:"satisfaction,omitempty"`
		Notes                 string `json:"notes,omitempty"`
	}

	// CalendarEvent represents scheduled calendar entry
	CalendarEvent struct {
		ID        int      `json:"id"`
		Title     string   `json:"title"`
		StartDate string   `json:"start_date"`
		EndDate   string   `json:"end_date"`
		Workout   *Workout `json:"workout,omitempty"`
	}

	// Plan represents a scheduled workout plan
	Plan struct {
		ID              int        `json:"id,omitempty"`
		Title           string     `json:"title"`
		Description     string     `json:"description,omitempty"`
		ScheduledDate   *time.Time `json:"scheduled_date,omitempty"`
		DurationMinutes int        `json:"duration_minutes,omitempty"`
		RepeatType      string     `json:"repeat_type,omitempty"`
		IsActive        bool       `json:"is_active"`
	}

	// UserStats represents GET /users/profile/stats/ response, its shape is backend defined
	UserStats map[string]json.RawMessage

	// Health represents GET /core/health/ response
	Health struct {
		Status  string `json:"status"`
		Message string `json:"message,omitempty"`
		Version string `json:"version,omitempty"`
	}
)
