package mock

import (
	"context"
	"testing"

	"github.com/modelserve/mserve/cmd/mserve/rest"
	"github.com/modelserve/mserve/pkg/api/types/applications"
	"github.com/modelserve/mserve/pkg/api/types/deploymentconfigs"
	"github.com/modelserve/mserve/pkg/api/types/hostselectors"
	"github.com/modelserve/mserve/pkg/api/types/metrics"
	"github.com/modelserve/mserve/pkg/api/types/models"
)

type FindModelVersionArgs struct {
	Name    string
	Version *int64
}

func New(t *testing.T) *MockClient {
	return &MockClient{t: t}
}

// MockClient is a rest.Client for tests.
//
// Calls are recorded in Calls, and delegated to functions in Impl.
// Calling a method without Impl fails the test.
type MockClient struct {
	t    *testing.T
	Impl struct {
		FindModelVersion              func(ctx context.Context, name string, version *int64) (models.Version, error)
		GetModelVersion               func(ctx context.Context, id int64) (models.Version, error)
		ListModelVersions             func(ctx context.Context) ([]models.Version, error)
		DeleteModelVersion            func(ctx context.Context, id int64) error
		UploadModel                   func(ctx context.Context, upload models.Upload) (models.Version, error)
		UploadTrainingData            func(ctx context.Context, data models.TrainingData) error
		GetProfilingStatus            func(ctx context.Context, modelVersionId int64) (models.Profiling, error)
		FindApplication               func(ctx context.Context, name string) (applications.Detail, error)
		ListApplications              func(ctx context.Context) ([]applications.Detail, error)
		CreateApplication             func(ctx context.Context, spec applications.Spec) (applications.Detail, error)
		DeleteApplication             func(ctx context.Context, name string) error
		FindDeploymentConfiguration   func(ctx context.Context, name string) (deploymentconfigs.Detail, error)
		ListDeploymentConfigurations  func(ctx context.Context) ([]deploymentconfigs.Detail, error)
		CreateDeploymentConfiguration func(ctx context.Context, spec deploymentconfigs.Spec) (deploymentconfigs.Detail, error)
		DeleteDeploymentConfiguration func(ctx context.Context, name string) error
		CreateHostSelector            func(ctx context.Context, spec hostselectors.Spec) (hostselectors.Detail, error)
		CreateMetricSpec              func(ctx context.Context, spec metrics.Spec) (metrics.Detail, error)
		PingMonitoring                func(ctx context.Context) error
	}
	Calls struct {
		FindModelVersion              []FindModelVersionArgs
		GetModelVersion               []int64
		ListModelVersions             int
		DeleteModelVersion            []int64
		UploadModel                   []models.Upload
		UploadTrainingData            []models.TrainingData
		GetProfilingStatus            []int64
		FindApplication               []string
		ListApplications              int
		CreateApplication             []applications.Spec
		DeleteApplication             []string
		FindDeploymentConfiguration   []string
		ListDeploymentConfigurations  int
		CreateDeploymentConfiguration []deploymentconfigs.Spec
		DeleteDeploymentConfiguration []string
		CreateHostSelector            []hostselectors.Spec
		CreateMetricSpec              []metrics.Spec
		PingMonitoring                int
	}
}

var _ rest.Client = &MockClient{}

func (m *MockClient) FindModelVersion(ctx context.Context, name string, version *int64) (models.Version, error) {
	m.t.Helper()

	m.Calls.FindModelVersion = append(m.Calls.FindModelVersion, FindModelVersionArgs{Name: name, Version: version})
	if m.Impl.FindModelVersion == nil {
		m.t.Fatal("FindModelVersion is not ready to be called")
	}
	return m.Impl.FindModelVersion(ctx, name, version)
}

func (m *MockClient) GetModelVersion(ctx context.Context, id int64) (models.Version, error) {
	m.t.Helper()

	m.Calls.GetModelVersion = append(m.Calls.GetModelVersion, id)
	if m.Impl.GetModelVersion == nil {
		m.t.Fatal("GetModelVersion is not ready to be called")
	}
	return m.Impl.GetModelVersion(ctx, id)
}

func (m *MockClient) ListModelVersions(ctx context.Context) ([]models.Version, error) {
	m.t.Helper()

	m.Calls.ListModelVersions += 1
	if m.Impl.ListModelVersions == nil {
		m.t.Fatal("ListModelVersions is not ready to be called")
	}
	return m.Impl.ListModelVersions(ctx)
}

func (m *MockClient) DeleteModelVersion(ctx context.Context, id int64) error {
	m.t.Helper()

	m.Calls.DeleteModelVersion = append(m.Calls.DeleteModelVersion, id)
	if m.Impl.DeleteModelVersion == nil {
		m.t.Fatal("DeleteModelVersion is not ready to be called")
	}
	return m.Impl.DeleteModelVersion(ctx, id)
}

func (m *MockClient) UploadModel(ctx context.Context, upload models.Upload) (models.Version, error) {
	m.t.Helper()

	m.Calls.UploadModel = append(m.Calls.UploadModel, upload)
	if m.Impl.UploadModel == nil {
		m.t.Fatal("UploadModel is not ready to be called")
	}
	return m.Impl.UploadModel(ctx, upload)
}

func (m *MockClient) UploadTrainingData(ctx context.Context, data models.TrainingData) error {
	m.t.Helper()

	m.Calls.UploadTrainingData = append(m.Calls.UploadTrainingData, data)
	if m.Impl.UploadTrainingData == nil {
		m.t.Fatal("UploadTrainingData is not ready to be called")
	}
	return m.Impl.UploadTrainingData(ctx, data)
}

func (m *MockClient) GetProfilingStatus(ctx context.Context, modelVersionId int64) (models.Profiling, error) {
	m.t.Helper()

	m.Calls.GetProfilingStatus = append(m.Calls.GetProfilingStatus, modelVersionId)
	if m.Impl.GetProfilingStatus == nil {
		m.t.Fatal("GetProfilingStatus is not ready to be called")
	}
	return m.Impl.GetProfilingStatus(ctx, modelVersionId)
}

func (m *MockClient) FindApplication(ctx context.Context, name string) (applications.Detail, error) {
	m.t.Helper()

	m.Calls.FindApplication = append(m.Calls.FindApplication, name)
	if m.Impl.FindApplication == nil {
		m.t.Fatal("FindApplication is not ready to be called")
	}
	return m.Impl.FindApplication(ctx, name)
}

func (m *MockClient) ListApplications(ctx context.Context) ([]applications.Detail, error) {
	m.t.Helper()

	m.Calls.ListApplications += 1
	if m.Impl.ListApplications == nil {
		m.t.Fatal("ListApplications is not ready to be called")
	}
	return m.Impl.ListApplications(ctx)
}

func (m *MockClient) CreateApplication(ctx context.Context, spec applications.Spec) (applications.Detail, error) {
	m.t.Helper()

	m.Calls.CreateApplication = append(m.Calls.CreateApplication, spec)
	if m.Impl.CreateApplication == nil {
		m.t.Fatal("CreateApplication is not ready to be called")
	}
	return m.Impl.CreateApplication(ctx, spec)
}

func (m *MockClient) DeleteApplication(ctx context.Context, name string) error {
	m.t.Helper()

	m.Calls.DeleteApplication = append(m.Calls.DeleteApplication, name)
	if m.Impl.DeleteApplication == nil {
		m.t.Fatal("DeleteApplication is not ready to be called")
	}
	return m.Impl.DeleteApplication(ctx, name)
}

func (m *MockClient) FindDeploymentConfiguration(ctx context.Context, name string) (deploymentconfigs.Detail, error) {
	m.t.Helper()

	m.Calls.FindDeploymentConfiguration = append(m.Calls.FindDeploymentConfiguration, name)
	if m.Impl.FindDeploymentConfiguration == nil {
		m.t.Fatal("FindDeploymentConfiguration is not ready to be called")
	}
	return m.Impl.FindDeploymentConfiguration(ctx, name)
}

func (m *MockClient) ListDeploymentConfigurations(ctx context.Context) ([]deploymentconfigs.Detail, error) {
	m.t.Helper()

	m.Calls.ListDeploymentConfigurations += 1
	if m.Impl.ListDeploymentConfigurations == nil {
		m.t.Fatal("ListDeploymentConfigurations is not ready to be called")
	}
	return m.Impl.ListDeploymentConfigurations(ctx)
}

func (m *MockClient) CreateDeploymentConfiguration(ctx context.Context, spec deploymentconfigs.Spec) (deploymentconfigs.Detail, error) {
	m.t.Helper()

	m.Calls.CreateDeploymentConfiguration = append(m.Calls.CreateDeploymentConfiguration, spec)
	if m.Impl.CreateDeploymentConfiguration == nil {
		m.t.Fatal("CreateDeploymentConfiguration is not ready to be called")
	}
	return m.Impl.CreateDeploymentConfiguration(ctx, spec)
}

func (m *MockClient) DeleteDeploymentConfiguration(ctx context.Context, name string) error {
	m.t.Helper()

	m.Calls.DeleteDeploymentConfiguration = append(m.Calls.DeleteDeploymentConfiguration, name)
	if m.Impl.DeleteDeploymentConfiguration == nil {
		m.t.Fatal("DeleteDeploymentConfiguration is not ready to be called")
	}
	return m.Impl.DeleteDeploymentConfiguration(ctx, name)
}

func (m *MockClient) CreateHostSelector(ctx context.Context, spec hostselectors.Spec) (hostselectors.Detail, error) {
	m.t.Helper()

	m.Calls.CreateHostSelector = append(m.Calls.CreateHostSelector, spec)
	if m.Impl.CreateHostSelector == nil {
		m.t.Fatal("CreateHostSelector is not ready to be called")
	}
	return m.Impl.CreateHostSelector(ctx, spec)
}

func (m *MockClient) CreateMetricSpec(ctx context.Context, spec metrics.Spec) (metrics.Detail, error) {
	m.t.Helper()

	m.Calls.CreateMetricSpec = append(m.Calls.CreateMetricSpec, spec)
	if m.Impl.CreateMetricSpec == nil {
		m.t.Fatal("CreateMetricSpec is not ready to be called")
	}
	return m.Impl.CreateMetricSpec(ctx, spec)
}

func (m *MockClient) PingMonitoring(ctx context.Context) error {
	m.t.Helper()

	m.Calls.PingMonitoring += 1
	if m.Impl.PingMonitoring == nil {
		m.t.Fatal("PingMonitoring is not ready to be called")
	}
	return m.Impl.PingMonitoring(ctx)
}
