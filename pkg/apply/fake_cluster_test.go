package apply_test

import (
	"context"
	"fmt"

	"github.com/modelserve/mserve/pkg/api/types/applications"
	"github.com/modelserve/mserve/pkg/api/types/deploymentconfigs"
	apierr "github.com/modelserve/mserve/pkg/api/types/errors"
	"github.com/modelserve/mserve/pkg/api/types/hostselectors"
	"github.com/modelserve/mserve/pkg/api/types/metrics"
	"github.com/modelserve/mserve/pkg/api/types/models"
	"github.com/modelserve/mserve/pkg/apply"
)

// fakeCluster is an in-memory Cluster recording calls.
type fakeCluster struct {
	calls []string

	nextId   int64
	versions []models.Version
	apps     map[string]applications.Detail
	dcs      map[string]deploymentconfigs.Detail
	hosts    map[string]hostselectors.Detail

	uploads      []models.Upload
	trainingData []models.TrainingData
	metricSpecs  []metrics.Spec

	// statuses are returned by GetModelVersion in order. After that, the last one is repeated.
	// Empty means Released.
	statuses []models.Status

	// profilings are returned by GetProfilingStatus like statuses. Empty means Success.
	profilings []models.ProfilingStatus

	monitoringErr error
	createAppErr  error
}

var _ apply.Cluster = &fakeCluster{}

func newFakeCluster() *fakeCluster {
	return &fakeCluster{
		apps:  map[string]applications.Detail{},
		dcs:   map[string]deploymentconfigs.Detail{},
		hosts: map[string]hostselectors.Detail{},
	}
}

func (f *fakeCluster) record(method string, arg any) {
	f.calls = append(f.calls, fmt.Sprintf("%s(%v)", method, arg))
}

func (f *fakeCluster) id() int64 {
	f.nextId += 1
	return f.nextId
}

// addVersion registers a model version as if it is built before.
func (f *fakeCluster) addVersion(name string) models.Version {
	var latest int64
	for _, v := range f.versions {
		if v.Name == name && latest < v.Version {
			latest = v.Version
		}
	}
	v := models.Version{Id: f.id(), Name: name, Version: latest + 1, Status: models.StatusReleased}
	f.versions = append(f.versions, v)
	return v
}

func (f *fakeCluster) FindModelVersion(_ context.Context, name string, version *int64) (models.Version, error) {
	if version == nil {
		f.record("FindModelVersion", name)
	} else {
		f.record("FindModelVersion", fmt.Sprintf("%s:%d", name, *version))
	}
	var found *models.Version
	for i := range f.versions {
		v := f.versions[i]
		if v.Name != name {
			continue
		}
		if version != nil && v.Version == *version {
			return v, nil
		}
		if version == nil && (found == nil || found.Version < v.Version) {
			found = &v
		}
	}
	if found == nil {
		return models.Version{}, apierr.ErrNotFound
	}
	return *found, nil
}

func (f *fakeCluster) GetModelVersion(_ context.Context, id int64) (models.Version, error) {
	f.record("GetModelVersion", id)
	for i, v := range f.versions {
		if v.Id != id {
			continue
		}
		status := models.StatusReleased
		if 0 < len(f.statuses) {
			status = f.statuses[0]
			if 1 < len(f.statuses) {
				f.statuses = f.statuses[1:]
			}
		}
		f.versions[i].Status = status
		return f.versions[i], nil
	}
	return models.Version{}, apierr.ErrNotFound
}

func (f *fakeCluster) UploadModel(_ context.Context, upload models.Upload) (models.Version, error) {
	f.record("UploadModel", upload.Spec.Name)
	f.uploads = append(f.uploads, upload)
	v := f.addVersion(upload.Spec.Name)
	v.Status = models.StatusAssembling
	f.versions[len(f.versions)-1] = v
	return v, nil
}

func (f *fakeCluster) UploadTrainingData(_ context.Context, data models.TrainingData) error {
	f.record("UploadTrainingData", data.ModelVersionId)
	f.trainingData = append(f.trainingData, data)
	return nil
}

func (f *fakeCluster) GetProfilingStatus(_ context.Context, id int64) (models.Profiling, error) {
	f.record("GetProfilingStatus", id)
	status := models.ProfilingSuccess
	if 0 < len(f.profilings) {
		status = f.profilings[0]
		if 1 < len(f.profilings) {
			f.profilings = f.profilings[1:]
		}
	}
	return models.Profiling{ModelVersionId: id, Status: status}, nil
}

func (f *fakeCluster) FindApplication(_ context.Context, name string) (applications.Detail, error) {
	f.record("FindApplication", name)
	a, ok := f.apps[name]
	if !ok {
		return applications.Detail{}, apierr.ErrNotFound
	}
	return a, nil
}

func (f *fakeCluster) CreateApplication(_ context.Context, spec applications.Spec) (applications.Detail, error) {
	f.record("CreateApplication", spec.Name)
	if f.createAppErr != nil {
		return applications.Detail{}, f.createAppErr
	}
	if _, ok := f.apps[spec.Name]; ok {
		return applications.Detail{}, fmt.Errorf("application %s already exists", spec.Name)
	}
	a := applications.Detail{Id: f.id(), Spec: spec, Status: applications.StatusReady}
	f.apps[spec.Name] = a
	return a, nil
}

func (f *fakeCluster) DeleteApplication(_ context.Context, name string) error {
	f.record("DeleteApplication", name)
	if _, ok := f.apps[name]; !ok {
		return apierr.ErrNotFound
	}
	delete(f.apps, name)
	return nil
}

func (f *fakeCluster) FindDeploymentConfiguration(_ context.Context, name string) (deploymentconfigs.Detail, error) {
	f.record("FindDeploymentConfiguration", name)
	d, ok := f.dcs[name]
	if !ok {
		return deploymentconfigs.Detail{}, apierr.ErrNotFound
	}
	return d, nil
}

func (f *fakeCluster) CreateDeploymentConfiguration(_ context.Context, spec deploymentconfigs.Spec) (deploymentconfigs.Detail, error) {
	f.record("CreateDeploymentConfiguration", spec.Name)
	d := deploymentconfigs.Detail{Id: f.id(), Spec: spec}
	f.dcs[spec.Name] = d
	return d, nil
}

func (f *fakeCluster) CreateHostSelector(_ context.Context, spec hostselectors.Spec) (hostselectors.Detail, error) {
	f.record("CreateHostSelector", spec.Name)
	h := hostselectors.Detail{Id: f.id(), Spec: spec}
	f.hosts[spec.Name] = h
	return h, nil
}

func (f *fakeCluster) CreateMetricSpec(_ context.Context, spec metrics.Spec) (metrics.Detail, error) {
	f.record("CreateMetricSpec", spec.Name)
	f.metricSpecs = append(f.metricSpecs, spec)
	return metrics.Detail{Id: fmt.Sprintf("metric-%d", f.id()), Spec: spec}, nil
}

func (f *fakeCluster) PingMonitoring(context.Context) error {
	f.record("PingMonitoring", "")
	return f.monitoringErr
}
