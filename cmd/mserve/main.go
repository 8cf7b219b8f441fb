package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"

	"github.com/modelserve/mserve/cmd/mserve/subcommands/application"
	subapply "github.com/modelserve/mserve/cmd/mserve/subcommands/apply"
	"github.com/modelserve/mserve/cmd/mserve/subcommands/common"
	"github.com/modelserve/mserve/cmd/mserve/subcommands/deploymentconfig"
	subinit "github.com/modelserve/mserve/cmd/mserve/subcommands/init"
	"github.com/modelserve/mserve/cmd/mserve/subcommands/logger"
	"github.com/modelserve/mserve/cmd/mserve/subcommands/model"
	subver "github.com/modelserve/mserve/cmd/mserve/subcommands/version"
	"github.com/modelserve/mserve/pkg/utils/try"
	"github.com/youta-t/flarc"
)

func main() {
	name := path.Base(os.Args[0])
	logger := logger.Default()
	logger.SetPrefix(fmt.Sprintf("[%s] ", name))

	ctx, cancel := signal.NotifyContext(
		context.Background(), os.Interrupt, os.Kill,
	)
	defer cancel()

	cf := try.To(common.Flags(".")).OrFatal(logger)
	init := try.To(subinit.New()).OrFatal(logger)
	apply := try.To(subapply.New()).OrFatal(logger)
	model := try.To(model.New()).OrFatal(logger)
	app := try.To(application.New()).OrFatal(logger)
	dc := try.To(deploymentconfig.New()).OrFatal(logger)
	version := try.To(subver.New()).OrFatal(logger)

	mserve := try.To(
		flarc.NewCommandGroup(
			"Model serving commandline interface",
			cf,
			flarc.WithSubcommand("init", init),
			flarc.WithSubcommand("apply", apply),
			flarc.WithSubcommand("model", model),
			flarc.WithSubcommand("application", app),
			flarc.WithSubcommand("deploymentconfig", dc),
			flarc.WithSubcommand("version", version),
		),
	).OrFatal(logger)

	os.Exit(flarc.Run(ctx, mserve, flarc.WithHelp(true)))
}
