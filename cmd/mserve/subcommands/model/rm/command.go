package rm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/modelserve/mserve/cmd/mserve/rest"
	"github.com/modelserve/mserve/cmd/mserve/subcommands/common"
	apierr "github.com/modelserve/mserve/pkg/api/types/errors"
	"github.com/youta-t/flarc"
)

type Option struct {
	remove func(ctx context.Context, client rest.Client, id int64) error
}

func WithRemove(remove func(ctx context.Context, client rest.Client, id int64) error) func(*Option) *Option {
	return func(o *Option) *Option {
		o.remove = remove
		return o
	}
}

const (
	ARG_MODEL_VERSION_ID = "MODEL_VERSION_ID"
)

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{
		remove: RunRemoveModel,
	}
	for _, o := range options {
		option = o(option)
	}

	return flarc.NewCommand(
		"Delete a version of a Model.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_MODEL_VERSION_ID, Required: true,
				Help: "Id of the Model version to be deleted. Try `mserve model find` to get it.",
			},
		},
		common.NewTask(Task(option.remove)),
	)
}

func Task(remove func(ctx context.Context, client rest.Client, id int64) error) common.Task[struct{}] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		client rest.Client,
		cl flarc.Commandline[struct{}],
		params []any,
	) error {
		arg := cl.Args()[ARG_MODEL_VERSION_ID][0]
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s should be integer: %s", flarc.ErrUsage, ARG_MODEL_VERSION_ID, arg)
		}

		if err := remove(ctx, client, id); err != nil {
			if errors.Is(err, apierr.ErrNotFound) {
				return fmt.Errorf("model version id=%d is not found: %w", id, err)
			}
			return fmt.Errorf("failed to delete model version id=%d: %w", id, err)
		}
		logger.Printf("deleted: Model version id=%d", id)
		return nil
	}
}

func RunRemoveModel(ctx context.Context, client rest.Client, id int64) error {
	return client.DeleteModelVersion(ctx, id)
}
