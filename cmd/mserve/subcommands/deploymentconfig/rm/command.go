package rm

import (
	"context"
	"fmt"
	"log"

	"github.com/modelserve/mserve/cmd/mserve/rest"
	"github.com/modelserve/mserve/cmd/mserve/subcommands/common"
	"github.com/youta-t/flarc"
)

type Option struct {
	remove func(ctx context.Context, client rest.Client, name string) error
}

func WithRemove(remove func(ctx context.Context, client rest.Client, name string) error) func(*Option) *Option {
	return func(o *Option) *Option {
		o.remove = remove
		return o
	}
}

const (
	ARG_CONFIGURATION_NAME = "CONFIGURATION_NAME"
)

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{
		remove: RunRemoveDeploymentConfiguration,
	}
	for _, o := range options {
		option = o(option)
	}

	return flarc.NewCommand(
		"Delete a DeploymentConfiguration.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_CONFIGURATION_NAME, Required: true,
				Help: "Name of the DeploymentConfiguration to be deleted.",
			},
		},
		common.NewTask(Task(option.remove)),
	)
}

func Task(remove func(ctx context.Context, client rest.Client, name string) error) common.Task[struct{}] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		client rest.Client,
		cl flarc.Commandline[struct{}],
		params []any,
	) error {
		name := cl.Args()[ARG_CONFIGURATION_NAME][0]
		if err := remove(ctx, client, name); err != nil {
			return fmt.Errorf("failed to delete deployment configuration %s: %w", name, err)
		}
		logger.Printf("deleted: DeploymentConfiguration %s", name)
		return nil
	}
}

func RunRemoveDeploymentConfiguration(ctx context.Context, client rest.Client, name string) error {
	return client.DeleteDeploymentConfiguration(ctx, name)
}
