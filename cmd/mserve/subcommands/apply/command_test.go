package apply_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/modelserve/mserve/cmd/mserve/rest/mock"
	apply_cmd "github.com/modelserve/mserve/cmd/mserve/subcommands/apply"
	"github.com/modelserve/mserve/cmd/mserve/subcommands/internal/commandline"
	"github.com/modelserve/mserve/cmd/mserve/subcommands/logger"
	"github.com/modelserve/mserve/pkg/api/types/hostselectors"
	"github.com/modelserve/mserve/pkg/apply"
	"github.com/modelserve/mserve/pkg/manifest"
	"github.com/modelserve/mserve/pkg/utils/args"
	"github.com/modelserve/mserve/pkg/utils/pointer"
	"github.com/youta-t/flarc"
)

func TestApplyCommand(t *testing.T) {
	type When struct {
		flag   apply_cmd.Flag
		args   []string
		report *apply.Report
		err    error
	}
	type Then struct {
		options apply.Options
		err     error
		// report is true when the report should be written to stdout.
		report bool
	}

	theory := func(when When, then Then) func(*testing.T) {
		return func(t *testing.T) {
			stdin := strings.NewReader("")
			called := false
			fake := func(
				ctx context.Context,
				logger logr.Logger,
				cluster apply.Cluster,
				options apply.Options,
				inputs []string,
			) (*apply.Report, error) {
				called = true
				if options.Stdin != stdin {
					t.Error("stdin is not passed")
				}
				options.Stdin = nil
				if options != then.options {
					t.Errorf("wrong options: (actual, expected) = (%+v, %+v)", options, then.options)
				}
				if strings.Join(inputs, ",") != strings.Join(when.args, ",") {
					t.Errorf("wrong inputs: (actual, expected) = (%v, %v)", inputs, when.args)
				}
				return when.report, when.err
			}

			stdout := new(bytes.Buffer)
			err := apply_cmd.Task(fake)(
				context.Background(),
				logger.Null(),
				mock.New(t),
				commandline.MockCommandline[apply_cmd.Flag]{
					Fullname_: "mserve apply",
					Stdin_:    stdin,
					Stdout_:   stdout,
					Stderr_:   new(bytes.Buffer),
					Flags_:    when.flag,
					Args_:     map[string][]string{apply_cmd.ARG_MANIFEST: when.args},
				},
				[]any{},
			)

			if then.err == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			} else if !errors.Is(err, then.err) {
				t.Fatalf("unexpected error: (actual, expected) = (%v, %v)", err, then.err)
			}

			if then.err != nil && errors.Is(then.err, flarc.ErrUsage) {
				if called {
					t.Error("apply is called for wrong usage")
				}
				return
			}

			if !then.report {
				if stdout.Len() != 0 {
					t.Errorf("unexpected output: %s", stdout.String())
				}
				return
			}
			var actual struct {
				Sources []map[string]any `json:"sources"`
			}
			if err := json.Unmarshal(stdout.Bytes(), &actual); err != nil {
				t.Fatalf("output is not json: %s", stdout.String())
			}
			if len(actual.Sources) != len(when.report.Sources) {
				t.Errorf("unexpected report: %s", stdout.String())
			}
		}
	}

	defaultOptions := apply.DefaultOptions()

	t.Run("it applies with default options", theory(
		When{
			flag: apply_cmd.Flag{
				Retries:      pointer.Ref(args.Unbounded()),
				PollInterval: "5s",
			},
			args:   []string{"./manifests", "-"},
			report: &apply.Report{Sources: []apply.SourceResult{{Source: "./manifests/model.yaml"}}},
		},
		Then{options: defaultOptions, report: true},
	))

	t.Run("it passes flags as options", theory(
		When{
			flag: apply_cmd.Flag{
				Recursive:        true,
				IgnoreMonitoring: true,
				Async:            true,
				NoTrainingData:   true,
				WaitProfiling:    true,
				Retries:          pointer.Ref(args.NewLimit(3)),
				PollInterval:     "100ms",
			},
			args:   []string{"model.yaml"},
			report: &apply.Report{},
		},
		Then{
			options: apply.Options{
				Recursive:        true,
				IgnoreMonitoring: true,
				Async:            true,
				NoTrainingData:   true,
				WaitProfiling:    true,
				Retries:          args.NewLimit(3),
				PollInterval:     100 * time.Millisecond,
			},
			report: true,
		},
	))

	t.Run("when a source fails, it writes the report and returns error", theory(
		When{
			flag: apply_cmd.Flag{Retries: pointer.Ref(args.Unbounded()), PollInterval: "5s"},
			args: []string{"broken.yaml"},
			report: &apply.Report{Sources: []apply.SourceResult{
				{Source: "broken.yaml", Err: manifest.ErrMalformedManifest},
			}},
		},
		Then{options: defaultOptions, report: true, err: manifest.ErrMalformedManifest},
	))

	t.Run("when monitoring is not reachable, it returns the error", theory(
		When{
			flag: apply_cmd.Flag{Retries: pointer.Ref(args.Unbounded()), PollInterval: "5s"},
			args: []string{"model.yaml"},
			err:  apply.ErrApplicationApply,
		},
		Then{options: defaultOptions, report: false, err: apply.ErrApplicationApply},
	))

	for _, interval := range []string{"five seconds", "-1s", "0s"} {
		t.Run("poll interval "+interval+" is wrong usage", theory(
			When{
				flag: apply_cmd.Flag{Retries: pointer.Ref(args.Unbounded()), PollInterval: interval},
				args: []string{"model.yaml"},
			},
			Then{err: flarc.ErrUsage},
		))
	}
}

func TestRunApply(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "hostselector.yaml")
	if err := os.WriteFile(manifestPath, []byte(`
kind: HostSelector
name: gpu
node-selector:
  accelerator: nvidia
`), 0o644); err != nil {
		t.Fatal(err)
	}

	client := mock.New(t)
	client.Impl.CreateHostSelector = func(ctx context.Context, spec hostselectors.Spec) (hostselectors.Detail, error) {
		return hostselectors.Detail{Id: 1, Spec: spec}, nil
	}

	options := apply.DefaultOptions()
	report, err := apply_cmd.RunApply(context.Background(), logr.Discard(), client, options, []string{manifestPath})
	if err != nil {
		t.Fatal(err)
	}
	if err := report.Err(); err != nil {
		t.Fatal(err)
	}

	if len(client.Calls.CreateHostSelector) != 1 {
		t.Fatalf("unexpected calls: %+v", client.Calls.CreateHostSelector)
	}
	spec := client.Calls.CreateHostSelector[0]
	if spec.Name != "gpu" || spec.NodeSelector["accelerator"] != "nvidia" {
		t.Errorf("unexpected spec: %+v", spec)
	}
	if client.Calls.PingMonitoring != 0 {
		t.Error("monitoring is checked without models")
	}

	result, ok := report.Of(manifestPath)
	if !ok || len(result.Submitted) != 1 || result.Submitted[0].HostSelector == nil {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestApplyCommand_Verbosity(t *testing.T) {
	run := func(verbose bool) bool {
		enabled := false
		fake := func(
			ctx context.Context,
			logger logr.Logger,
			cluster apply.Cluster,
			options apply.Options,
			inputs []string,
		) (*apply.Report, error) {
			enabled = logger.V(1).Enabled()
			return &apply.Report{}, nil
		}

		err := apply_cmd.Task(fake)(
			context.Background(),
			logger.Null(),
			mock.New(t),
			commandline.MockCommandline[apply_cmd.Flag]{
				Fullname_: "mserve apply",
				Stdin_:    strings.NewReader(""),
				Stdout_:   new(bytes.Buffer),
				Stderr_:   new(bytes.Buffer),
				Flags_: apply_cmd.Flag{
					Retries:      pointer.Ref(args.Unbounded()),
					PollInterval: "5s",
					Verbose:      verbose,
				},
				Args_: map[string][]string{apply_cmd.ARG_MANIFEST: {"model.yaml"}},
			},
			[]any{},
		)
		if err != nil {
			t.Fatal(err)
		}
		return enabled
	}

	if !run(true) {
		t.Error("--verbose does not enable V(1) logs")
	}
	if run(false) {
		t.Error("V(1) logs are enabled after a verbose run without --verbose")
	}
}
