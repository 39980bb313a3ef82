package api

import (
	"context"

	"github.com/viant/mycoach/schema"
)

const (
	PathCalendarEvents = "/calendar/events/"
	PathPlans          = "/calendar/plans/"
)

// CalendarEvents lists calendar events
func (c *Client) CalendarEvents(ctx context.Context) ([]*schema.CalendarEvent, error) {
	return list[schema.CalendarEvent](ctx, c, PathCalendarEvents)
}

// Plans lists workout plans
func (c *Client) Plans(ctx context.Context) ([]*schema.Plan, error) {
	return list[schema.Plan](ctx, c, PathPlans)
}

// CreatePlan creates workout plan
func (c *Client) CreatePlan(ctx context.Context, plan *schema.Plan) (*schema.Plan, error) {
	return post[schema.Plan](ctx, c, PathPlans, plan)
}
