package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/viant/mycoach/schema"
)

const (
	PathWorkouts        = "/workouts/workouts/"
	PathStartWorkout    = "/workouts/start-workout/"
	PathCompleteWorkout = "/workouts/complete-workout/"
	PathExercises       = "/workouts/exercises/"
)

func workoutPath(id int) string {
	return PathWorkouts + strconv.Itoa(id) + "/"
}

// Workouts lists user workouts
func (c *Client) Workouts(ctx context.Context) ([]*schema.Workout, error) {
	return list[schema.Workout](ctx, c, PathWorkouts)
}

// CreateWorkout creates workout
func (c *Client) CreateWorkout(ctx context.Context, workout *schema.Workout) (*schema.Workout, error) {
	return post[schema.Workout](ctx, c, PathWorkouts, workout)
}

// UpdateWorkout replaces workout
func (c *Client) UpdateWorkout(ctx context.Context, id int, workout *schema.Workout) (*schema.Workout, error) {
	return call[schema.Workout](ctx, c, http.MethodPut, workoutPath(id), workout, nil)
}

// DeleteWorkout deletes workout
func (c *Client) DeleteWorkout(ctx context.Context, id int) error {
	_, err := call[struct{}](ctx, c, http.MethodDelete, workoutPath(id), nil, nil)
	return err
}

// StartWorkout marks workout in progress
func (c *Client) StartWorkout(ctx context.Context, workoutID int) (*schema.Workout, error) {
	return post[schema.Workout](ctx, c, PathStartWorkout, &schema.StartWorkoutRequest{WorkoutID: workoutID})
}

// CompleteWorkout marks workout completed
func (c *Client) CompleteWorkout(ctx context.Context, request *schema.CompleteWorkoutRequest) (*schema.Workout, error) {
	return post[schema.Workout](ctx, c, PathCompleteWorkout, request)
}

// Exercises lists exercises
func (c *Client) Exercises(ctx context.Context) ([]*schema.Exercise, error) {
	return list[schema.Exercise](ctx, c, PathExercises)
}

// CreateExercise creates exercise
func (c *Client) CreateExercise(ctx context.Context, exercise *schema.Exercise) (*schema.Exercise, error) {
	return post[schema.Exercise](ctx, c, PathExercises, exercise)
}
