package init

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/modelserve/mserve/cmd/mserve/config/profiles"
	"github.com/modelserve/mserve/cmd/mserve/subcommands/common"
	"github.com/youta-t/flarc"
	"gopkg.in/yaml.v3"
)

const ARG_PROFILE_FILE = "PROFILE_FILE"

type Option struct {
	// directory where ProfileMarker is written
	markerDir string
}

func WithMarkerDir(dir string) func(*Option) *Option {
	return func(o *Option) *Option {
		o.markerDir = dir
		return o
	}
}

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{markerDir: "."}
	for _, o := range options {
		option = o(option)
	}

	return flarc.NewCommand(
		"Initialize this directory to work with a model serving cluster.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_PROFILE_FILE, Required: true,
				Help: "filepath to a profile file, which you received from your admin.",
			},
		},
		common.NewTaskWithCommonFlag(Task(option.markerDir)),
		flarc.WithDescription(`
Register a new profile into your profile store.

"profile" is a file which tells where the cluster is and how to authenticate.
"{{ .Command }}" registers the given profile into your profile store,
and writes "`+common.ProfileMarker+`" in the current directory to use the profile here.

The name of the profile is given by "--profile" (default: current filepath).
`),
	)
}

func Task(markerDir string) common.TaskWithCommonFlag[struct{}] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		cf common.CommonFlags,
		cl flarc.Commandline[struct{}],
		params []any,
	) error {
		profFile := cl.Args()[ARG_PROFILE_FILE][0]

		store, err := profiles.LoadProfileStore(cf.ProfileStore)
		if errors.Is(err, profiles.ErrProfileStoreNotFound) {
			// ok. it is the first profile.
			store = profiles.ProfileStore{}
		} else if err != nil {
			return fmt.Errorf("failed to load profile store (%s): %w", cf.ProfileStore, err)
		}

		newProf := new(profiles.Profile)
		{
			content, err := os.ReadFile(profFile)
			if err != nil {
				return fmt.Errorf("failed to read profile file (%s): %w", profFile, err)
			}
			if err := yaml.Unmarshal(content, newProf); err != nil {
				return fmt.Errorf("failed to parse profile file (%s): %w", profFile, err)
			}
		}
		if err := newProf.Verify(); err != nil {
			return fmt.Errorf("%s: %w", profFile, err)
		}

		store[cf.Profile] = newProf
		if err := store.Save(cf.ProfileStore); err != nil {
			return fmt.Errorf("failed to save profile store (%s): %w", cf.ProfileStore, err)
		}
		logger.Printf("profile %s is saved to %s", cf.Profile, cf.ProfileStore)

		marker := filepath.Join(markerDir, common.ProfileMarker)
		if err := os.WriteFile(marker, []byte(cf.Profile), os.FileMode(0600)); err != nil {
			return fmt.Errorf("failed to write %s: %w", marker, err)
		}
		return nil
	}
}
