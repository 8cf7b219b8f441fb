package application

import (
	application_find "github.com/modelserve/mserve/cmd/mserve/subcommands/application/find"
	application_rm "github.com/modelserve/mserve/cmd/mserve/subcommands/application/rm"
	"github.com/youta-t/flarc"
)

func New() (flarc.Command, error) {
	find, err := application_find.New()
	if err != nil {
		return nil, err
	}

	rm, err := application_rm.New()
	if err != nil {
		return nil, err
	}

	return flarc.NewCommandGroup(
		"Manipulate Applications.",
		struct{}{},
		flarc.WithSubcommand("find", find),
		flarc.WithSubcommand("rm", rm),
	)
}
