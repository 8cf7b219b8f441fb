package model

import (
	model_find "github.com/modelserve/mserve/cmd/mserve/subcommands/model/find"
	model_rm "github.com/modelserve/mserve/cmd/mserve/subcommands/model/rm"
	"github.com/youta-t/flarc"
)

func New() (flarc.Command, error) {
	find, err := model_find.New()
	if err != nil {
		return nil, err
	}

	rm, err := model_rm.New()
	if err != nil {
		return nil, err
	}

	return flarc.NewCommandGroup(
		"Manipulate Models.",
		struct{}{},
		flarc.WithSubcommand("find", find),
		flarc.WithSubcommand("rm", rm),
	)
}
