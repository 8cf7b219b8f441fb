package apply

import (
	"io"
	"time"

	"github.com/modelserve/mserve/pkg/utils/args"
	"github.com/modelserve/mserve/pkg/utils/retry"
)

// Options tunes an apply.
type Options struct {
	// IgnoreMonitoring skips the monitoring pre-check and metric spec creation.
	IgnoreMonitoring bool

	// Recursive collects manifests in subdirectories of input directories.
	Recursive bool

	// Async does not wait for model versions to be released, nor for profiling.
	Async bool

	// NoTrainingData skips uploading training data of models.
	NoTrainingData bool

	// WaitProfiling waits for training data profiling to finish.
	WaitProfiling bool

	// Retries limits polls of a model version status (or profiling status)
	// after the first one.
	Retries args.Limit

	// PollInterval is an interval between polls.
	PollInterval time.Duration

	// Stdin is read when "-" is given as an input.
	Stdin io.Reader
}

const DefaultPollInterval = 5 * time.Second

// DefaultOptions returns Options waiting for builds without limit.
func DefaultOptions() Options {
	return Options{
		Retries:      args.Unbounded(),
		PollInterval: DefaultPollInterval,
	}
}

func (o Options) backoff() retry.Backoff {
	interval := o.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return retry.Limited(retry.StaticBackoff(interval), o.Retries.Value(), o.Retries.IsUnbounded())
}
