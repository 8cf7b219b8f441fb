package find

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/modelserve/mserve/cmd/mserve/rest"
	"github.com/modelserve/mserve/cmd/mserve/subcommands/common"
	"github.com/modelserve/mserve/pkg/api/types/deploymentconfigs"
	apierr "github.com/modelserve/mserve/pkg/api/types/errors"
	"github.com/youta-t/flarc"
)

type Flag struct {
	Name string `flag:"name" alias:"n" metavar:"CONFIGURATION_NAME" help:"Name of the DeploymentConfiguration to be found."`
}

type Option struct {
	find func(ctx context.Context, client rest.Client, name string) ([]deploymentconfigs.Detail, error)
}

func WithFind(
	find func(ctx context.Context, client rest.Client, name string) ([]deploymentconfigs.Detail, error),
) func(*Option) *Option {
	return func(o *Option) *Option {
		o.find = find
		return o
	}
}

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{
		find: RunFindDeploymentConfiguration,
	}
	for _, o := range options {
		option = o(option)
	}

	return flarc.NewCommand(
		"Display DeploymentConfigurations.",
		Flag{},
		flarc.Args{},
		common.NewTask(Task(option.find)),
	)
}

func Task(
	find func(ctx context.Context, client rest.Client, name string) ([]deploymentconfigs.Detail, error),
) common.Task[Flag] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		client rest.Client,
		cl flarc.Commandline[Flag],
		params []any,
	) error {
		found, err := find(ctx, client, cl.Flags().Name)
		if err != nil {
			return fmt.Errorf("failed to find DeploymentConfigurations: %w", err)
		}

		enc := json.NewEncoder(cl.Stdout())
		enc.SetIndent("", "    ")
		return enc.Encode(found)
	}
}

// RunFindDeploymentConfiguration finds the deployment configuration named name, or lists all if name is empty.
//
// Missing deployment configuration is not an error, but an empty result.
func RunFindDeploymentConfiguration(ctx context.Context, client rest.Client, name string) ([]deploymentconfigs.Detail, error) {
	if name == "" {
		return client.ListDeploymentConfigurations(ctx)
	}
	dc, err := client.FindDeploymentConfiguration(ctx, name)
	if errors.Is(err, apierr.ErrNotFound) {
		return []deploymentconfigs.Detail{}, nil
	} else if err != nil {
		return nil, err
	}
	return []deploymentconfigs.Detail{dc}, nil
}
