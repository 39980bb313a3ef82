package mock

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/viant/mycoach/schema"
)

func listHandler[T any](b *Backend, items *[]*T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		ret := append([]*T{}, *items...)
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, ret)
	}
}

func (b *Backend) createWorkoutHandler(w http.ResponseWriter, r *http.Request) {
	workout := &schema.Workout{}
	if err := decode(r, workout); err != nil || workout.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"name": {"This field is required."}})
		return
	}
	b.mu.Lock()
	workout.ID = len(b.workouts) + 1
	if workout.Status == "" {
		workout.Status = schema.WorkoutPlanned
	}
	b.workouts = append(b.workouts, workout)
	b.mu.Unlock()
	writeJSON(w, http.StatusCreated, workout)
}

// findWorkout returns workout index or -1; caller holds the lock
func (b *Backend) findWorkout(id int) int {
	for i, workout := range b.workouts {
		if workout.ID == id {
			return i
		}
	}
	return -1
}

func (b *Backend) updateWorkoutHandler(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	workout := &schema.Workout{}
	if err := decode(r, workout); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "JSON parse error"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	index := b.findWorkout(id)
	if index == -1 {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	workout.ID = id
	b.workouts[index] = workout
	writeJSON(w, http.StatusOK, workout)
}

func (b *Backend) deleteWorkoutHandler(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	b.mu.Lock()
	defer b.mu.Unlock()
	index := b.findWorkout(id)
	if index == -1 {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	b.workouts = append(b.workouts[:index], b.workouts[index+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) transitionWorkout(w http.ResponseWriter, workoutID int, apply func(workout *schema.Workout)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	index := b.findWorkout(workoutID)
	if index == -1 {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	apply(b.workouts[index])
	writeJSON(w, http.StatusOK, b.workouts[index])
}

func (b *Backend) startWorkoutHandler(w http.ResponseWriter, r *http.Request) {
	var request schema.StartWorkoutRequest
	if err := decode(r, &request); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "JSON parse error"})
		return
	}
	b.transitionWorkout(w, request.WorkoutID, func(workout *schema.Workout) {
		workout.Status = schema.WorkoutInProgress
	})
}

func (b *Backend) completeWorkoutHandler(w http.ResponseWriter, r *http.Request) {
	var request schema.CompleteWorkoutRequest
	if err := decode(r, &request); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "JSON parse error"})
		return
	}
	b.transitionWorkout(w, request.WorkoutID, func(workout *schema.Workout) {
		workout.Status = schema.WorkoutCompleted
		workout.Completed = true
		if request.ActualDurationMinutes != nil {
			workout.DurationMinutes = request.ActualDurationMinutes
		}
	})
}

func (b *Backend) createExerciseHandler(w http.ResponseWriter, r *http.Request) {
	exercise := &schema.Exercise{}
	if err := decode(r, exercise); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "JSON parse error"})
		return
	}
	b.mu.Lock()
	exercise.ID = len(b.exercises) + 1
	b.exercises = append(b.exercises, exercise)
	b.mu.Unlock()
	writeJSON(w, http.StatusCreated, exercise)
}

func (b *Backend) createPlanHandler(w http.ResponseWriter, r *http.Request) {
	plan := &schema.Plan{}
	if err := decode(r, plan); err != nil || plan.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"title": {"This field is required."}})
		return
	}
	b.mu.Lock()
	plan.ID = len(b.plans) + 1
	b.plans = append(b.plans, plan)
	b.mu.Unlock()
	writeJSON(w, http.StatusCreated, plan)
}
