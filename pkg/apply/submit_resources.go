package apply

import (
	"context"
	"fmt"

	"github.com/modelserve/mserve/pkg/manifest"
)

// SubmitDeploymentConfiguration creates a deployment configuration.
//
// Whether an existing one is kept or not is up to the cluster.
func (s *Submitter) SubmitDeploymentConfiguration(ctx context.Context, d *manifest.DeploymentConfiguration) (Submitted, error) {
	result := Submitted{Kind: manifest.KindDeploymentConfiguration, Name: d.Name}
	created, err := s.cluster.CreateDeploymentConfiguration(ctx, d.ToSpec())
	if err != nil {
		return result, fmt.Errorf("deployment configuration %s: %w", d.Name, remote(err))
	}
	result.DeploymentConfiguration = &created
	s.logger.V(1).Info("deployment configuration created", "deploymentConfiguration", created.Name)
	return result, nil
}

// SubmitHostSelector creates a host selector.
func (s *Submitter) SubmitHostSelector(ctx context.Context, h *manifest.HostSelector) (Submitted, error) {
	result := Submitted{Kind: manifest.KindHostSelector, Name: h.Name}
	created, err := s.cluster.CreateHostSelector(ctx, h.ToSpec())
	if err != nil {
		return result, fmt.Errorf("host selector %s: %w", h.Name, remote(err))
	}
	result.HostSelector = &created
	s.logger.V(1).Info("host selector created", "hostSelector", created.Name)
	return result, nil
}
