package find

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/modelserve/mserve/cmd/mserve/rest"
	"github.com/modelserve/mserve/cmd/mserve/subcommands/common"
	"github.com/modelserve/mserve/pkg/api/types/models"
	"github.com/youta-t/flarc"
)

type Flag struct {
	Name string `flag:"name" alias:"n" metavar:"MODEL_NAME" help:"Name of Models to be found."`
}

type Option struct {
	find func(ctx context.Context, client rest.Client, name string) ([]models.Version, error)
}

func WithFind(
	find func(ctx context.Context, client rest.Client, name string) ([]models.Version, error),
) func(*Option) *Option {
	return func(o *Option) *Option {
		o.find = find
		return o
	}
}

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{
		find: RunFindModel,
	}
	for _, o := range options {
		option = o(option)
	}

	return flarc.NewCommand(
		"Display versions of Models.",
		Flag{},
		flarc.Args{},
		common.NewTask(Task(option.find)),
		flarc.WithDescription(`
Display versions of Models registered in the cluster.

If --name is given, only versions of the Model are displayed.
`),
	)
}

func Task(
	find func(ctx context.Context, client rest.Client, name string) ([]models.Version, error),
) common.Task[Flag] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		client rest.Client,
		cl flarc.Commandline[Flag],
		params []any,
	) error {
		name := cl.Flags().Name
		versions, err := find(ctx, client, name)
		if err != nil {
			return fmt.Errorf("failed to find Models: %w", err)
		}

		enc := json.NewEncoder(cl.Stdout())
		enc.SetIndent("", "    ")
		if err := enc.Encode(versions); err != nil {
			return err
		}
		return nil
	}
}

// RunFindModel lists model versions.
//
// When name is not empty, versions of other models are excluded.
func RunFindModel(ctx context.Context, client rest.Client, name string) ([]models.Version, error) {
	versions, err := client.ListModelVersions(ctx)
	if err != nil {
		return nil, err
	}

	found := make([]models.Version, 0, len(versions))
	for _, v := range versions {
		if name == "" || v.Name == name {
			found = append(found, v)
		}
	}
	return found, nil
}
