package apply

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/modelserve/mserve/cmd/mserve/rest"
	"github.com/modelserve/mserve/cmd/mserve/subcommands/common"
	mapply "github.com/modelserve/mserve/pkg/apply"
	"github.com/modelserve/mserve/pkg/utils/args"
	"github.com/youta-t/flarc"
)

type Flag struct {
	Recursive        bool        `flag:"recursive" alias:"R" help:"Read manifests in subdirectories of given directories."`
	IgnoreMonitoring bool        `flag:"ignore-monitoring" help:"Neither check the monitoring backend nor register metrics of Models."`
	Async            bool        `flag:"async" help:"Do not wait for Models to be released."`
	NoTrainingData   bool        `flag:"no-training-data" help:"Do not upload training data of Models."`
	WaitProfiling    bool        `flag:"wait-profiling" help:"Wait for profiling of training data to finish."`
	Retries          *args.Limit `flag:"retries" metavar:"N|inf" help:"How many times to poll status of Models after the first one."`
	PollInterval     string      `flag:"poll-interval" metavar:"duration" help:"Interval between polls, like 5s or 1m."`
	Verbose          bool        `flag:"verbose" alias:"v" help:"Log progress of each document."`
}

const (
	ARG_MANIFEST = "MANIFEST"
)

type ApplyFunc func(
	ctx context.Context,
	logger logr.Logger,
	cluster mapply.Cluster,
	options mapply.Options,
	inputs []string,
) (*mapply.Report, error)

type Option struct {
	apply ApplyFunc
}

func WithApply(apply ApplyFunc) func(*Option) *Option {
	return func(o *Option) *Option {
		o.apply = apply
		return o
	}
}

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{
		apply: RunApply,
	}
	for _, opt := range options {
		option = opt(option)
	}

	defaultRetries := args.Unbounded()
	return flarc.NewCommand(
		"Apply manifests of Models, Applications, DeploymentConfigurations and HostSelectors.",
		Flag{
			Retries:      &defaultRetries,
			PollInterval: mapply.DefaultPollInterval.String(),
		},
		flarc.Args{
			{
				Name: ARG_MANIFEST, Required: true, Repeatable: true,
				Help: `Manifest files (.yaml or .yml) or directories containing them. "-" reads stdin.`,
			},
		},
		common.NewTask(Task(option.apply)),
		flarc.WithDescription(`
Apply manifests to the cluster, in the order given.

A manifest file can contain multiple documents separated by "---".
Documents are applied one by one, and a document can refer resources applied before
in the same invocation, like {{ "{{ this.model.iris }}" }} or {{ "{{ this.model.iris:1 }}" }}.
(":N" picks the N-th most recent one, starting from 0.)

When a document fails, the rest of its file is skipped, and the next file is applied.
Resources applied before the failure are kept.

The result is written to stdout as JSON.

Example
-------

Apply all manifests in a directory tree:

	{{ .Command }} -R ./manifests

Apply a manifest from stdin without waiting for Models:

	cat model.yaml | {{ .Command }} --async -
`),
	)
}

func Task(apply ApplyFunc) common.Task[Flag] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		client rest.Client,
		cl flarc.Commandline[Flag],
		params []any,
	) error {
		flags := cl.Flags()

		options := mapply.DefaultOptions()
		options.Recursive = flags.Recursive
		options.IgnoreMonitoring = flags.IgnoreMonitoring
		options.Async = flags.Async
		options.NoTrainingData = flags.NoTrainingData
		options.WaitProfiling = flags.WaitProfiling
		options.Stdin = cl.Stdin()
		if flags.Retries != nil {
			options.Retries = *flags.Retries
		}
		if flags.PollInterval != "" {
			d, err := time.ParseDuration(flags.PollInterval)
			if err != nil || d <= 0 {
				return fmt.Errorf("%w: --poll-interval should be positive duration: %s", flarc.ErrUsage, flags.PollInterval)
			}
			options.PollInterval = d
		}

		verbosity := 0
		if flags.Verbose {
			verbosity = 1
		}
		lgr := stdr.NewWithOptions(logger, stdr.Options{Verbosity: &verbosity})

		report, err := apply(ctx, lgr, client, options, cl.Args()[ARG_MANIFEST])
		if report != nil {
			enc := json.NewEncoder(cl.Stdout())
			enc.SetIndent("", "    ")
			if err := enc.Encode(report); err != nil {
				return err
			}
		}
		if err != nil {
			if errors.Is(err, mapply.ErrApplicationApply) {
				logger.Println("nothing is applied.")
			}
			return err
		}
		if err := report.Err(); err != nil {
			return fmt.Errorf("some manifests are not applied:\n%w", err)
		}
		return nil
	}
}

func RunApply(
	ctx context.Context,
	logger logr.Logger,
	cluster mapply.Cluster,
	options mapply.Options,
	inputs []string,
) (*mapply.Report, error) {
	return mapply.NewOrchestrator(cluster, options, logger).Apply(ctx, inputs)
}
