package apply_test

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/modelserve/mserve/pkg/api/types/metrics"
	"github.com/modelserve/mserve/pkg/api/types/models"
	"github.com/modelserve/mserve/pkg/apply"
	"github.com/modelserve/mserve/pkg/manifest"
	"github.com/modelserve/mserve/pkg/utils/args"
	"github.com/modelserve/mserve/pkg/utils/pointer"
)

func testOptions() apply.Options {
	opts := apply.DefaultOptions()
	opts.PollInterval = time.Millisecond
	return opts
}

func pythonRuntime() *models.Image {
	return &models.Image{Repository: "runtime-python", Tag: "3.8"}
}

func TestSubmitModel(t *testing.T) {
	t.Run("it uploads a model and waits until released", func(t *testing.T) {
		ctx := context.Background()
		cluster := newFakeCluster()
		cluster.statuses = []models.Status{
			models.StatusAssembling, models.StatusAssembling, models.StatusReleased,
		}
		testee := apply.NewSubmitter(cluster, apply.NewContext(), testOptions(), logr.Discard())

		actual, err := testee.SubmitModel(ctx, &manifest.Model{
			Name: "claims", Runtime: pythonRuntime(), Payload: []string{"src"},
		}, "/path/to/manifests")
		if err != nil {
			t.Fatal(err)
		}
		if actual.ModelVersion == nil || actual.ModelVersion.Status != models.StatusReleased {
			t.Errorf("unexpected model version: %+v", actual.ModelVersion)
		}
		expectedCalls := []string{
			"UploadModel(claims)",
			"GetModelVersion(1)",
			"GetModelVersion(1)",
			"GetModelVersion(1)",
		}
		if !slices.Equal(cluster.calls, expectedCalls) {
			t.Errorf("unexpected calls: (actual, expected) = (%v, %v)", cluster.calls, expectedCalls)
		}
		if up := cluster.uploads[0]; up.BaseDir != "/path/to/manifests" || !slices.Equal(up.Payload, []string{"src"}) {
			t.Errorf("unexpected upload: %+v", up)
		}
	})

	t.Run("async submission does not wait", func(t *testing.T) {
		ctx := context.Background()
		cluster := newFakeCluster()
		opts := testOptions()
		opts.Async = true
		testee := apply.NewSubmitter(cluster, apply.NewContext(), opts, logr.Discard())

		actual, err := testee.SubmitModel(ctx, &manifest.Model{Name: "claims", Runtime: pythonRuntime()}, ".")
		if err != nil {
			t.Fatal(err)
		}
		if actual.ModelVersion.Status != models.StatusAssembling {
			t.Errorf("unexpected status: %s", actual.ModelVersion.Status)
		}
		if !slices.Equal(cluster.calls, []string{"UploadModel(claims)"}) {
			t.Errorf("unexpected calls: %v", cluster.calls)
		}
	})

	t.Run("failed build is a remote submission error", func(t *testing.T) {
		ctx := context.Background()
		cluster := newFakeCluster()
		cluster.statuses = []models.Status{models.StatusFailed}
		testee := apply.NewSubmitter(cluster, apply.NewContext(), testOptions(), logr.Discard())

		actual, err := testee.SubmitModel(ctx, &manifest.Model{Name: "claims", Runtime: pythonRuntime()}, ".")
		if !errors.Is(err, apply.ErrRemoteSubmission) {
			t.Errorf("unexpected error: %v", err)
		}
		if actual.ModelVersion == nil {
			t.Error("uploaded model version is not reported")
		}
	})

	t.Run("build not finished in retries is a timeout", func(t *testing.T) {
		ctx := context.Background()
		cluster := newFakeCluster()
		cluster.statuses = []models.Status{models.StatusAssembling}
		opts := testOptions()
		opts.Retries = args.NewLimit(2)
		testee := apply.NewSubmitter(cluster, apply.NewContext(), opts, logr.Discard())

		_, err := testee.SubmitModel(ctx, &manifest.Model{Name: "claims", Runtime: pythonRuntime()}, ".")
		if !errors.Is(err, apply.ErrTimeout) {
			t.Errorf("unexpected error: %v", err)
		}
		polls := 0
		for _, c := range cluster.calls {
			if c == "GetModelVersion(1)" {
				polls += 1
			}
		}
		if polls != 3 {
			t.Errorf("unexpected polls: (actual, expected) = (%d, %d)", polls, 3)
		}
	})

	t.Run("training data is uploaded, and profiling is waited if requested", func(t *testing.T) {
		ctx := context.Background()
		cluster := newFakeCluster()
		cluster.profilings = []models.ProfilingStatus{models.ProfilingProcessing, models.ProfilingSuccess}
		opts := testOptions()
		opts.WaitProfiling = true
		testee := apply.NewSubmitter(cluster, apply.NewContext(), opts, logr.Discard())

		_, err := testee.SubmitModel(ctx, &manifest.Model{
			Name: "claims", Runtime: pythonRuntime(), TrainingData: "s3://bucket/train.csv",
		}, ".")
		if err != nil {
			t.Fatal(err)
		}
		expectedCalls := []string{
			"UploadModel(claims)",
			"GetModelVersion(1)",
			"UploadTrainingData(1)",
			"GetProfilingStatus(1)",
			"GetProfilingStatus(1)",
		}
		if !slices.Equal(cluster.calls, expectedCalls) {
			t.Errorf("unexpected calls: (actual, expected) = (%v, %v)", cluster.calls, expectedCalls)
		}
		if cluster.trainingData[0].Location != "s3://bucket/train.csv" {
			t.Errorf("unexpected training data: %+v", cluster.trainingData)
		}
	})

	t.Run("training data is not uploaded when disabled", func(t *testing.T) {
		ctx := context.Background()
		cluster := newFakeCluster()
		opts := testOptions()
		opts.NoTrainingData = true
		testee := apply.NewSubmitter(cluster, apply.NewContext(), opts, logr.Discard())

		if _, err := testee.SubmitModel(ctx, &manifest.Model{
			Name: "claims", Runtime: pythonRuntime(), TrainingData: "s3://bucket/train.csv",
		}, "."); err != nil {
			t.Fatal(err)
		}
		if len(cluster.trainingData) != 0 {
			t.Errorf("training data is uploaded: %+v", cluster.trainingData)
		}
	})

	t.Run("metric specs refer the monitoring model", func(t *testing.T) {
		ctx := context.Background()
		cluster := newFakeCluster()
		monitor := cluster.addVersion("ks")
		testee := apply.NewSubmitter(cluster, apply.NewContext(), testOptions(), logr.Discard())

		actual, err := testee.SubmitModel(ctx, &manifest.Model{
			Name: "claims", Runtime: pythonRuntime(),
			Monitoring: []manifest.Metric{
				{Name: "drift", MonitoringModel: "ks:1", Threshold: 0.5, Operator: metrics.Less},
			},
		}, ".")
		if err != nil {
			t.Fatal(err)
		}
		if len(cluster.metricSpecs) != 1 {
			t.Fatalf("unexpected metric specs: %+v", cluster.metricSpecs)
		}
		spec := cluster.metricSpecs[0]
		if spec.ModelVersionId != actual.ModelVersion.Id ||
			spec.Config.ModelVersionId != monitor.Id ||
			spec.Config.Threshold != 0.5 ||
			spec.Config.Operator != metrics.Less {
			t.Errorf("unexpected metric spec: %+v", spec)
		}
		if len(actual.Metrics) != 1 {
			t.Errorf("unexpected metrics: %+v", actual.Metrics)
		}
	})

	t.Run("unknown monitoring model fails before upload", func(t *testing.T) {
		ctx := context.Background()
		cluster := newFakeCluster()
		testee := apply.NewSubmitter(cluster, apply.NewContext(), testOptions(), logr.Discard())

		_, err := testee.SubmitModel(ctx, &manifest.Model{
			Name: "claims", Runtime: pythonRuntime(),
			Monitoring: []manifest.Metric{
				{Name: "drift", MonitoringModel: "missing:1", Threshold: 1, Operator: metrics.Less},
			},
		}, ".")
		if !errors.Is(err, apply.ErrUnresolvedReference) {
			t.Errorf("unexpected error: %v", err)
		}
		if len(cluster.uploads) != 0 {
			t.Errorf("model is uploaded: %+v", cluster.uploads)
		}
	})

	t.Run("monitoring is skipped when ignored", func(t *testing.T) {
		ctx := context.Background()
		cluster := newFakeCluster()
		opts := testOptions()
		opts.IgnoreMonitoring = true
		testee := apply.NewSubmitter(cluster, apply.NewContext(), opts, logr.Discard())

		if _, err := testee.SubmitModel(ctx, &manifest.Model{
			Name: "claims", Runtime: pythonRuntime(),
			Monitoring: []manifest.Metric{
				{Name: "drift", MonitoringModel: "missing:1", Threshold: 1, Operator: metrics.Less},
			},
		}, "."); err != nil {
			t.Fatal(err)
		}
		if len(cluster.metricSpecs) != 0 {
			t.Errorf("metric specs are created: %+v", cluster.metricSpecs)
		}
	})
}

func TestSubmitApplication(t *testing.T) {
	t.Run("applying the same application twice replaces it", func(t *testing.T) {
		ctx := context.Background()
		cluster := newFakeCluster()
		cluster.addVersion("claims")
		app := &manifest.Application{
			Name:     "app",
			Singular: &manifest.Singular{Model: "claims:1"},
		}

		first := apply.NewSubmitter(cluster, apply.NewContext(), testOptions(), logr.Discard())
		if _, err := first.SubmitApplication(ctx, app); err != nil {
			t.Fatal(err)
		}
		cluster.calls = nil

		second := apply.NewSubmitter(cluster, apply.NewContext(), testOptions(), logr.Discard())
		actual, err := second.SubmitApplication(ctx, app)
		if err != nil {
			t.Fatal(err)
		}

		expectedCalls := []string{
			"FindModelVersion(claims:1)",
			"FindApplication(app)",
			"DeleteApplication(app)",
			"CreateApplication(app)",
		}
		if !slices.Equal(cluster.calls, expectedCalls) {
			t.Errorf("unexpected calls: (actual, expected) = (%v, %v)", cluster.calls, expectedCalls)
		}
		if len(cluster.apps) != 1 {
			t.Errorf("unexpected applications: %+v", cluster.apps)
		}
		if cluster.apps["app"].Id != actual.Application.Id {
			t.Errorf("remaining application is not the new one: %+v", cluster.apps["app"])
		}
	})

	t.Run("pipeline is converted into execution graph", func(t *testing.T) {
		ctx := context.Background()
		cluster := newFakeCluster()
		v1 := cluster.addVersion("claims")
		v2 := cluster.addVersion("claims")
		post := cluster.addVersion("post")

		actx := apply.NewContext()
		actx.AddModelVersion(v2)
		testee := apply.NewSubmitter(cluster, actx, testOptions(), logr.Discard())
		if _, err := testee.SubmitDeploymentConfiguration(ctx, &manifest.DeploymentConfiguration{Name: "cpu"}); err != nil {
			t.Fatal(err)
		}

		actual, err := testee.SubmitApplication(ctx, &manifest.Application{
			Name: "app",
			Pipeline: []manifest.Stage{
				{
					{Model: "{{this.model.claims}}", Weight: pointer.Ref(70), DeploymentConfiguration: "cpu"},
					{Model: "claims:1", Weight: pointer.Ref(30)},
				},
				{{Model: "post"}},
			},
		})
		if err != nil {
			t.Fatal(err)
		}
		stages := actual.Application.ExecutionGraph.Stages
		if len(stages) != 2 {
			t.Fatalf("unexpected stages: %+v", stages)
		}
		if v := stages[0].Variants[0]; v.ModelVersionId != v2.Id || v.Weight != 70 || v.DeploymentConfigurationName != "cpu" {
			t.Errorf("unexpected variant: %+v", v)
		}
		if v := stages[0].Variants[1]; v.ModelVersionId != v1.Id || v.Weight != 30 || v.DeploymentConfigurationName != "" {
			t.Errorf("unexpected variant: %+v", v)
		}
		if v := stages[1].Variants[0]; v.ModelVersionId != post.Id || v.Weight != 100 {
			t.Errorf("unexpected variant: %+v", v)
		}
	})

	t.Run("missing template reference does not fall back to the cluster", func(t *testing.T) {
		ctx := context.Background()
		cluster := newFakeCluster()
		cluster.addVersion("claims")
		testee := apply.NewSubmitter(cluster, apply.NewContext(), testOptions(), logr.Discard())

		_, err := testee.SubmitApplication(ctx, &manifest.Application{
			Name:     "app",
			Singular: &manifest.Singular{Model: "{{this.model.claims}}"},
		})
		if !errors.Is(err, apply.ErrUnresolvedReference) {
			t.Errorf("unexpected error: %v", err)
		}
		if len(cluster.calls) != 0 {
			t.Errorf("unexpected calls: %v", cluster.calls)
		}
	})

	t.Run("missing deployment configuration is unresolved", func(t *testing.T) {
		ctx := context.Background()
		cluster := newFakeCluster()
		cluster.addVersion("claims")
		testee := apply.NewSubmitter(cluster, apply.NewContext(), testOptions(), logr.Discard())

		_, err := testee.SubmitApplication(ctx, &manifest.Application{
			Name:     "app",
			Singular: &manifest.Singular{Model: "claims", DeploymentConfiguration: "missing"},
		})
		if !errors.Is(err, apply.ErrUnresolvedReference) {
			t.Errorf("unexpected error: %v", err)
		}
		if len(cluster.apps) != 0 {
			t.Errorf("application is created: %+v", cluster.apps)
		}
	})

	t.Run("out of range index is a resolution error", func(t *testing.T) {
		ctx := context.Background()
		cluster := newFakeCluster()
		actx := apply.NewContext()
		actx.AddModelVersion(cluster.addVersion("claims"))
		testee := apply.NewSubmitter(cluster, actx, testOptions(), logr.Discard())

		_, err := testee.SubmitApplication(ctx, &manifest.Application{
			Name:     "app",
			Singular: &manifest.Singular{Model: "{{this.model.claims:1}}"},
		})
		if !errors.Is(err, apply.ErrReferenceResolution) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("failure of the cluster is a remote submission error", func(t *testing.T) {
		ctx := context.Background()
		cluster := newFakeCluster()
		cluster.addVersion("claims")
		cluster.createAppErr = errors.New("fake error")
		testee := apply.NewSubmitter(cluster, apply.NewContext(), testOptions(), logr.Discard())

		_, err := testee.SubmitApplication(ctx, &manifest.Application{
			Name:     "app",
			Singular: &manifest.Singular{Model: "claims"},
		})
		if !errors.Is(err, apply.ErrRemoteSubmission) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestSubmit_Dispatch(t *testing.T) {
	ctx := context.Background()
	cluster := newFakeCluster()
	testee := apply.NewSubmitter(cluster, apply.NewContext(), testOptions(), logr.Discard())

	for _, def := range []manifest.Definition{
		&manifest.DeploymentConfiguration{Name: "dc"},
		&manifest.HostSelector{Name: "gpu", NodeSelector: map[string]string{"accelerator": "t4"}},
	} {
		actual, err := testee.Submit(ctx, def, ".")
		if err != nil {
			t.Fatal(err)
		}
		if actual.Kind != def.Kind() || actual.Name != def.ResourceName() {
			t.Errorf("unexpected result: %+v", actual)
		}
	}
	expectedCalls := []string{"CreateDeploymentConfiguration(dc)", "CreateHostSelector(gpu)"}
	if !slices.Equal(cluster.calls, expectedCalls) {
		t.Errorf("unexpected calls: (actual, expected) = (%v, %v)", cluster.calls, expectedCalls)
	}
}
