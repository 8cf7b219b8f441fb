package apply

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/modelserve/mserve/pkg/api/types/applications"
	"github.com/modelserve/mserve/pkg/api/types/deploymentconfigs"
	apierr "github.com/modelserve/mserve/pkg/api/types/errors"
	"github.com/modelserve/mserve/pkg/api/types/hostselectors"
	"github.com/modelserve/mserve/pkg/api/types/metrics"
	"github.com/modelserve/mserve/pkg/api/types/models"
	"github.com/modelserve/mserve/pkg/manifest"
)

// Submitted is a resource created by submitting a definition.
//
// One of ModelVersion, Application, DeploymentConfiguration or HostSelector is set
// according to Kind.
type Submitted struct {
	Kind manifest.Kind `json:"kind"`
	Name string        `json:"name"`

	ModelVersion            *models.Version           `json:"modelVersion,omitempty"`
	Application             *applications.Detail      `json:"application,omitempty"`
	DeploymentConfiguration *deploymentconfigs.Detail `json:"deploymentConfiguration,omitempty"`
	HostSelector            *hostselectors.Detail     `json:"hostSelector,omitempty"`

	// Metrics are metric specs created for ModelVersion.
	Metrics []metrics.Detail `json:"metrics,omitempty"`
}

// created reports whether any resource has been created in the cluster.
func (s Submitted) created() bool {
	return s.ModelVersion != nil ||
		s.Application != nil ||
		s.DeploymentConfiguration != nil ||
		s.HostSelector != nil
}

// Submitter submits definitions to the cluster.
type Submitter struct {
	cluster Cluster
	context *Context
	options Options
	logger  logr.Logger
}

// NewSubmitter creates a Submitter.
//
// References in definitions are resolved with actx first, and then with the cluster.
func NewSubmitter(cluster Cluster, actx *Context, options Options, logger logr.Logger) *Submitter {
	return &Submitter{cluster: cluster, context: actx, options: options, logger: logger}
}

// Submit submits def to the cluster.
//
// Relative payload paths of models are resolved against baseDir.
//
// The caller is responsible to register the result into the Context.
func (s *Submitter) Submit(ctx context.Context, def manifest.Definition, baseDir string) (Submitted, error) {
	d := &dispatcher{ctx: ctx, submitter: s, baseDir: baseDir}
	err := def.Accept(d)
	return d.result, err
}

type dispatcher struct {
	ctx       context.Context
	submitter *Submitter
	baseDir   string
	result    Submitted
}

var _ manifest.Visitor = &dispatcher{}

func (d *dispatcher) VisitModel(m *manifest.Model) error {
	r, err := d.submitter.SubmitModel(d.ctx, m, d.baseDir)
	d.result = r
	return err
}

func (d *dispatcher) VisitApplication(a *manifest.Application) error {
	r, err := d.submitter.SubmitApplication(d.ctx, a)
	d.result = r
	return err
}

func (d *dispatcher) VisitDeploymentConfiguration(c *manifest.DeploymentConfiguration) error {
	r, err := d.submitter.SubmitDeploymentConfiguration(d.ctx, c)
	d.result = r
	return err
}

func (d *dispatcher) VisitHostSelector(h *manifest.HostSelector) error {
	r, err := d.submitter.SubmitHostSelector(d.ctx, h)
	d.result = r
	return err
}

func remote(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrRemoteSubmission, err)
}

// resolveModelVersion resolves a model reference.
//
// Template references are looked up only in the Context.
// Others are "name:version" or "name" (latest) in the cluster.
func (s *Submitter) resolveModelVersion(ctx context.Context, ref string) (models.Version, error) {
	if r, ok := ParseReference(ref); ok {
		if r.Kind != RefModel {
			return models.Version{}, fmt.Errorf("%w: %s is not a model", ErrUnresolvedReference, ref)
		}
		v, err := s.context.ResolveModelVersion(ref)
		if err != nil {
			return models.Version{}, err
		}
		if v == nil {
			return models.Version{}, fmt.Errorf(
				"%w: %s: no models are submitted before with the name", ErrUnresolvedReference, ref,
			)
		}
		return *v, nil
	}

	name, version := splitNameVersion(ref)
	v, err := s.cluster.FindModelVersion(ctx, name, version)
	if errors.Is(err, apierr.ErrNotFound) {
		return models.Version{}, fmt.Errorf("%w: model version %s is not found", ErrUnresolvedReference, ref)
	} else if err != nil {
		return models.Version{}, remote(err)
	}
	return v, nil
}

// resolveDeploymentConfiguration resolves a deployment configuration reference into its name.
func (s *Submitter) resolveDeploymentConfiguration(ctx context.Context, ref string) (string, error) {
	if r, ok := ParseReference(ref); ok {
		if r.Kind != RefDeploymentConfiguration {
			return "", fmt.Errorf("%w: %s is not a deployment configuration", ErrUnresolvedReference, ref)
		}
		dc, err := s.context.ResolveDeploymentConfiguration(ref)
		if err != nil {
			return "", err
		}
		if dc == nil {
			return "", fmt.Errorf(
				"%w: %s: no deployment configurations are submitted before with the name",
				ErrUnresolvedReference, ref,
			)
		}
		return dc.Name, nil
	}

	dc, err := s.cluster.FindDeploymentConfiguration(ctx, ref)
	if errors.Is(err, apierr.ErrNotFound) {
		return "", fmt.Errorf("%w: deployment configuration %s is not found", ErrUnresolvedReference, ref)
	} else if err != nil {
		return "", remote(err)
	}
	return dc.Name, nil
}
