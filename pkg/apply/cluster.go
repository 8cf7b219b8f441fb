package apply

import (
	"context"

	"github.com/modelserve/mserve/pkg/api/types/applications"
	"github.com/modelserve/mserve/pkg/api/types/deploymentconfigs"
	"github.com/modelserve/mserve/pkg/api/types/hostselectors"
	"github.com/modelserve/mserve/pkg/api/types/metrics"
	"github.com/modelserve/mserve/pkg/api/types/models"
)

// Cluster is the remote model serving cluster.
//
// Find* methods return an error wrapping errors.ErrNotFound
// (github.com/modelserve/mserve/pkg/api/types/errors) when there are no such resources.
type Cluster interface {
	// FindModelVersion returns the model version with name and version.
	//
	// When version is nil, the latest version of the model is returned.
	FindModelVersion(ctx context.Context, name string, version *int64) (models.Version, error)

	// GetModelVersion returns the model version by its id.
	GetModelVersion(ctx context.Context, id int64) (models.Version, error)

	// UploadModel uploads a model and starts building a new version of the model.
	UploadModel(ctx context.Context, upload models.Upload) (models.Version, error)

	UploadTrainingData(ctx context.Context, data models.TrainingData) error
	GetProfilingStatus(ctx context.Context, modelVersionId int64) (models.Profiling, error)

	FindApplication(ctx context.Context, name string) (applications.Detail, error)
	CreateApplication(ctx context.Context, spec applications.Spec) (applications.Detail, error)
	DeleteApplication(ctx context.Context, name string) error

	FindDeploymentConfiguration(ctx context.Context, name string) (deploymentconfigs.Detail, error)
	CreateDeploymentConfiguration(ctx context.Context, spec deploymentconfigs.Spec) (deploymentconfigs.Detail, error)

	CreateHostSelector(ctx context.Context, spec hostselectors.Spec) (hostselectors.Detail, error)

	CreateMetricSpec(ctx context.Context, spec metrics.Spec) (metrics.Detail, error)

	// PingMonitoring returns nil if the monitoring backend is reachable.
	PingMonitoring(ctx context.Context) error
}
