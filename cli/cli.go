// Package cli implements the mycoach command line front-end.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/jessevdk/go-flags"
	"github.com/viant/mycoach"
	"github.com/viant/mycoach/config"
)

// App holds state shared by commands of a single invocation
type App struct {
	ctx     context.Context
	options *Options
	stdout  io.Writer
	client  *mycoach.Client
}

// Client returns lazily created client
func (a *App) Client() (*mycoach.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	cfg, err := config.Load(a.options.ConfigURL)
	if err != nil {
		return nil, err
	}
	if a.options.Endpoint != "" {
		cfg.Endpoint = a.options.Endpoint
	}
	if a.options.LogLevel != "" {
		cfg.Log.Level = a.options.LogLevel
	}
	if a.client, err = mycoach.NewClient(a.ctx, &mycoach.Options{Config: cfg}); err != nil {
		return nil, err
	}
	return a.client, nil
}

func (a *App) print(value interface{}) error {
	encoder := json.NewEncoder(a.stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func (a *App) close() error {
	if a.client == nil {
		return nil
	}
	_ = a.client.Logger().Sync()
	return a.client.Close()
}

// Run runs command line with output to stdout
func Run(args []string) error {
	return RunWithOutput(context.Background(), args, os.Stdout)
}

// RunWithOutput runs command line writing command results as JSON to stdout
func RunWithOutput(ctx context.Context, args []string, stdout io.Writer) (err error) {
	app := &App{ctx: ctx, options: &Options{}, stdout: stdout}
	parser := flags.NewParser(app.options, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "mycoach"
	for _, cmd := range commands(app) {
		if _, err = parser.AddCommand(cmd.name, cmd.short, cmd.long, cmd.data); err != nil {
			return err
		}
	}
	defer func() {
		if cErr := app.close(); err == nil {
			err = cErr
		}
	}()
	_, err = parser.ParseArgs(args)
	return err
}
