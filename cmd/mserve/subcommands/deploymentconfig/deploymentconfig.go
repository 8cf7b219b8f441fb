package deploymentconfig

import (
	deploymentconfig_find "github.com/modelserve/mserve/cmd/mserve/subcommands/deploymentconfig/find"
	deploymentconfig_rm "github.com/modelserve/mserve/cmd/mserve/subcommands/deploymentconfig/rm"
	"github.com/youta-t/flarc"
)

func New() (flarc.Command, error) {
	find, err := deploymentconfig_find.New()
	if err != nil {
		return nil, err
	}

	rm, err := deploymentconfig_rm.New()
	if err != nil {
		return nil, err
	}

	return flarc.NewCommandGroup(
		"Manipulate DeploymentConfigurations.",
		struct{}{},
		flarc.WithSubcommand("find", find),
		flarc.WithSubcommand("rm", rm),
	)
}
