package api

import (
	"context"

	"github.com/viant/mycoach/schema"
)

const (
	PathMachines     = "/machines/machines/"
	PathMuscleGroups = "/machines/muscle-groups/"
	PathLabels       = "/machines/labels/"
)

// Machines lists machines
func (c *Client) Machines(ctx context.Context) ([]*schema.Machine, error) {
	return list[schema.Machine](ctx, c, PathMachines)
}

// MuscleGroups lists muscle groups
func (c *Client) MuscleGroups(ctx context.Context) ([]*schema.MuscleGroup, error) {
	return list[schema.MuscleGroup](ctx, c, PathMuscleGroups)
}

// Labels lists machine labels
func (c *Client) Labels(ctx context.Context) ([]*schema.Label, error) {
	return list[schema.Label](ctx, c, PathLabels)
}

func list[T any](ctx context.Context, c *Client, path string) ([]*T, error) {
	ret, err := get[[]*T](ctx, c, path)
	if err != nil {
		return nil, err
	}
	return *ret, nil
}
