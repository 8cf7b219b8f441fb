package common

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/modelserve/mserve/cmd/mserve/config/profiles"
	"github.com/modelserve/mserve/cmd/mserve/rest"
	"github.com/youta-t/flarc"
)

type TaskWithCommonFlag[T any] func(
	ctx context.Context,
	logger *log.Logger,
	commonFlag CommonFlags,
	cl flarc.Commandline[T],
	params []any,
) error

// NewTaskWithCommonFlag extracts CommonFlags from params,
// and passes them to task with a logger prefixed by the command name.
func NewTaskWithCommonFlag[T any](task TaskWithCommonFlag[T]) flarc.Task[T] {
	return func(ctx context.Context, cl flarc.Commandline[T], pos []any) error {
		var commonFlag CommonFlags
		found := false
		newpos := make([]any, 0, len(pos))
		for _, p := range pos {
			switch v := p.(type) {
			case CommonFlags:
				found = true
				commonFlag = v
			default:
				newpos = append(newpos, p)
			}
		}
		if !found {
			return errors.New("programming error: common flags not found")
		}

		logger := log.New(cl.Stderr(), "", log.LstdFlags)
		logger.SetPrefix(fmt.Sprintf("[%s] ", cl.Fullname()))

		return task(ctx, logger, commonFlag, cl, newpos)
	}
}

type Task[T any] func(
	ctx context.Context,
	logger *log.Logger,
	client rest.Client,
	cl flarc.Commandline[T],
	params []any,
) error

// NewTask loads the profile selected by CommonFlags,
// and passes task a client for the cluster of the profile.
func NewTask[T any](task Task[T]) flarc.Task[T] {
	return NewTaskWithCommonFlag(func(
		ctx context.Context,
		logger *log.Logger,
		commonFlag CommonFlags,
		cl flarc.Commandline[T],
		params []any,
	) error {
		store, err := profiles.LoadProfileStore(commonFlag.ProfileStore)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf(
					"%w: profile store (%s) is not found. Please try `mserve init` first. Ask your admin to get a profile",
					err, commonFlag.ProfileStore,
				)
			}
			return fmt.Errorf(
				"%w: failed to load profile store (%s)",
				err, commonFlag.ProfileStore,
			)
		}
		prof, ok := store[commonFlag.Profile]
		if !ok {
			return fmt.Errorf(
				"profile '%s' not found in the profile store (%s)",
				commonFlag.Profile, commonFlag.ProfileStore,
			)
		}

		client, err := rest.NewClient(prof, rest.WithUploadProgress(cl.Stderr()))
		if err != nil {
			if errors.Is(err, profiles.ErrTokenExpired) {
				return fmt.Errorf(
					"%w: profile %s (in %s). Ask your admin to get a new token",
					err, commonFlag.Profile, commonFlag.ProfileStore,
				)
			}
			return fmt.Errorf(
				"%w: failed to create client. Your profile (%s in %s) can be broken.\n\nRemove it and try `mserve init` again. Ask your admin to get a profile",
				err, commonFlag.Profile, commonFlag.ProfileStore,
			)
		}
		return task(ctx, logger, client, cl, params)
	})
}
