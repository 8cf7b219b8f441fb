package find

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/modelserve/mserve/cmd/mserve/rest"
	"github.com/modelserve/mserve/cmd/mserve/subcommands/common"
	"github.com/modelserve/mserve/pkg/api/types/applications"
	apierr "github.com/modelserve/mserve/pkg/api/types/errors"
	"github.com/youta-t/flarc"
)

type Flag struct {
	Name string `flag:"name" alias:"n" metavar:"APPLICATION_NAME" help:"Name of the Application to be found."`
}

type Option struct {
	find func(ctx context.Context, client rest.Client, name string) ([]applications.Detail, error)
}

func WithFind(
	find func(ctx context.Context, client rest.Client, name string) ([]applications.Detail, error),
) func(*Option) *Option {
	return func(o *Option) *Option {
		o.find = find
		return o
	}
}

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{
		find: RunFindApplication,
	}
	for _, o := range options {
		option = o(option)
	}

	return flarc.NewCommand(
		"Display Applications.",
		Flag{},
		flarc.Args{},
		common.NewTask(Task(option.find)),
	)
}

func Task(
	find func(ctx context.Context, client rest.Client, name string) ([]applications.Detail, error),
) common.Task[Flag] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		client rest.Client,
		cl flarc.Commandline[Flag],
		params []any,
	) error {
		apps, err := find(ctx, client, cl.Flags().Name)
		if err != nil {
			return fmt.Errorf("failed to find Applications: %w", err)
		}

		enc := json.NewEncoder(cl.Stdout())
		enc.SetIndent("", "    ")
		return enc.Encode(apps)
	}
}

// RunFindApplication finds the application named name, or lists all if name is empty.
//
// Missing application is not an error, but an empty result.
func RunFindApplication(ctx context.Context, client rest.Client, name string) ([]applications.Detail, error) {
	if name == "" {
		return client.ListApplications(ctx)
	}
	app, err := client.FindApplication(ctx, name)
	if errors.Is(err, apierr.ErrNotFound) {
		return []applications.Detail{}, nil
	} else if err != nil {
		return nil, err
	}
	return []applications.Detail{app}, nil
}
