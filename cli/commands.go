package cli

import (
	"errors"
	"fmt"

	"github.com/jessevdk/go-flags"
	"github.com/viant/mycoach/schema"
)

var errPasswordRequired = errors.New("password is required, use --password or MYCOACH_PASSWORD")

type command struct {
	name  string
	short string
	long  string
	data  flags.Commander
}

func commands(app *App) []*command {
	return []*command{
		{name: "login", short: "log in and persist tokens", data: &Login{app: app}},
		{name: "logout", short: "clear persisted session", data: &Logout{app: app}},
		{name: "register", short: "create account", data: &Register{app: app}},
		{name: "whoami", short: "show authenticated user", data: &WhoAmI{app: app}},
		{name: "token", short: "print access token", data: &Token{app: app}},
		{name: "health", short: "check backend health", data: &Health{app: app}},
		{name: "machines", short: "list machines", long: "list machines, muscle groups or labels", data: &Machines{app: app}},
		{name: "workouts", short: "list workouts", data: &Workouts{app: app}},
		{name: "exercises", short: "list exercises", data: &Exercises{app: app}},
		{name: "start-workout", short: "start workout", data: &StartWorkout{app: app}},
		{name: "complete-workout", short: "complete workout", data: &CompleteWorkout{app: app}},
		{name: "events", short: "list calendar events", data: &Events{app: app}},
		{name: "plans", short: "list workout plans", data: &Plans{app: app}},
		{name: "stats", short: "show user statistics", data: &Stats{app: app}},
	}
}

// Login logs in
type Login struct {
	app      *App
	Email    string `short:"u" long:"email" description:"account email" required:"true"`
	Password string `short:"p" long:"password" env:"MYCOACH_PASSWORD" description:"account password, defaults to MYCOACH_PASSWORD"`
}

func (c *Login) Execute(args []string) error {
	if c.Password == "" {
		return errPasswordRequired
	}
	client, err := c.app.Client()
	if err != nil {
		return err
	}
	manager := client.Session()
	if err = manager.Login(c.app.ctx, c.Email, c.Password); err != nil {
		return err
	}
	manager.Wait()
	user, err := manager.EnsureProfile(c.app.ctx)
	if err != nil {
		return err
	}
	return c.app.print(user)
}

// Logout logs out
type Logout struct {
	app *App
}

func (c *Logout) Execute(args []string) error {
	client, err := c.app.Client()
	if err != nil {
		return err
	}
	client.Session().Logout()
	return c.app.print(map[string]string{"status": "logged out"})
}

// Register creates account
type Register struct {
	app       *App
	Email     string   `short:"u" long:"email" description:"account email" required:"true"`
	Password  string   `short:"p" long:"password" env:"MYCOACH_PASSWORD" description:"account password, defaults to MYCOACH_PASSWORD"`
	FirstName string   `short:"f" long:"first-name" description:"first name" required:"true"`
	LastName  string   `short:"n" long:"last-name" description:"last name" required:"true"`
	Weight    *float64 `long:"weight" description:"weight in kg"`
	Height    *float64 `long:"height" description:"height in cm"`
	Objective string   `long:"objective" description:"training objective"`
}

func (c *Register) Execute(args []string) error {
	if c.Password == "" {
		return errPasswordRequired
	}
	client, err := c.app.Client()
	if err != nil {
		return err
	}
	response, err := client.Session().Register(c.app.ctx, &schema.RegisterRequest{
		Email:     c.Email,
		Password:  c.Password,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Weight:    c.Weight,
		Height:    c.Height,
		Objective: c.Objective,
	})
	if err != nil {
		return err
	}
	return c.app.print(response)
}

// WhoAmI prints current user
type WhoAmI struct {
	app *App
}

func (c *WhoAmI) Execute(args []string) error {
	client, err := c.app.Client()
	if err != nil {
		return err
	}
	user, err := client.Session().EnsureProfile(c.app.ctx)
	if err != nil {
		return err
	}
	return c.app.print(user)
}

// Token prints access token
type Token struct {
	app     *App
	Refresh bool `short:"r" long:"refresh" description:"refresh access token first"`
}

func (c *Token) Execute(args []string) error {
	client, err := c.app.Client()
	if err != nil {
		return err
	}
	manager := client.Session()
	if c.Refresh {
		if err = manager.Refresh(c.app.ctx); err != nil {
			return err
		}
	}
	token := manager.OAuthToken()
	if token == nil {
		return errors.New("not logged in")
	}
	return c.app.print(token)
}

// Health prints backend health
type Health struct {
	app *App
}

func (c *Health) Execute(args []string) error {
	client, err := c.app.Client()
	if err != nil {
		return err
	}
	health, err := client.API().Health(c.app.ctx)
	if err != nil {
		return err
	}
	return c.app.print(health)
}

// Machines lists machines
type Machines struct {
	app          *App
	MuscleGroups bool `short:"m" long:"muscle-groups" description:"list muscle groups instead"`
	Labels       bool `long:"labels" description:"list labels instead"`
}

func (c *Machines) Execute(args []string) error {
	client, err := c.app.Client()
	if err != nil {
		return err
	}
	var result interface{}
	switch {
	case c.MuscleGroups:
		result, err = client.API().MuscleGroups(c.app.ctx)
	case c.Labels:
		result, err = client.API().Labels(c.app.ctx)
	default:
		result, err = client.API().Machines(c.app.ctx)
	}
	if err != nil {
		return err
	}
	return c.app.print(result)
}

// Workouts lists workouts
type Workouts struct {
	app *App
}

func (c *Workouts) Execute(args []string) error {
	client, err := c.app.Client()
	if err != nil {
		return err
	}
	workouts, err := client.API().Workouts(c.app.ctx)
	if err != nil {
		return err
	}
	return c.app.print(workouts)
}

// Exercises lists exercises
type Exercises struct {
	app *App
}

func (c *Exercises) Execute(args []string) error {
	client, err := c.app.Client()
	if err != nil {
		return err
	}
	exercises, err := client.API().Exercises(c.app.ctx)
	if err != nil {
		return err
	}
	return c.app.print(exercises)
}

// StartWorkout starts workout
type StartWorkout struct {
	app *App
	ID  int `short:"i" long:"id" description:"workout id" required:"true"`
}

func (c *StartWorkout) Execute(args []string) error {
	client, err := c.app.Client()
	if err != nil {
		return err
	}
	workout, err := client.API().StartWorkout(c.app.ctx, c.ID)
	if err != nil {
		return err
	}
	return c.app.print(workout)
}

// CompleteWorkout completes workout
type CompleteWorkout struct {
	app          *App
	ID           int    `short:"i" long:"id" description:"workout id" required:"true"`
	Duration     *int   `short:"d" long:"duration" description:"actual duration in minutes"`
	Difficulty   *int   `long:"difficulty" description:"felt difficulty, 1-10"`
	Satisfaction *int   `long:"satisfaction" description:"satisfaction, 1-10"`
	Notes        string `long:"notes" description:"session notes"`
}

func (c *CompleteWorkout) Execute(args []string) error {
	for name, value := range map[string]*int{"difficulty": c.Difficulty, "satisfaction": c.Satisfaction} {
		if value != nil && (*value < 1 || *value > 10) {
			return fmt.Errorf("%v must be between 1 and 10", name)
		}
	}
	client, err := c.app.Client()
	if err != nil {
		return err
	}
	workout, err := client.API().CompleteWorkout(c.app.ctx, &schema.CompleteWorkoutRequest{
		WorkoutID:             c.ID,
		ActualDurationMinutes: c.Duration,
		DifficultyFelt:        c.Difficulty,
		Satisfaction:          c.Satisfaction,
		Notes:                 c.Notes,
	})
	if err != nil {
		return err
	}
	return c.app.print(workout)
}

// Events lists calendar events
type Events struct {
	app *App
}

func (c *Events) Execute(args []string) error {
	client, err := c.app.Client()
	if err != nil {
		return err
	}
	events, err := client.API().CalendarEvents(c.app.ctx)
	if err != nil {
		return err
	}
	return c.app.print(events)
}

// Plans lists workout plans
type Plans struct {
	app *App
}

func (c *Plans) Execute(args []string) error {
	client, err := c.app.Client()
	if err != nil {
		return err
	}
	plans, err := client.API().Plans(c.app.ctx)
	if err != nil {
		return err
	}
	return c.app.print(plans)
}

// Stats prints user statistics
type Stats struct {
	app *App
}

func (c *Stats) Execute(args []string) error {
	client, err := c.app.Client()
	if err != nil {
		return err
	}
	stats, err := client.API().Stats(c.app.ctx)
	if err != nil {
		return err
	}
	return c.app.print(stats)
}
