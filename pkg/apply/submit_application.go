package apply

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelserve/mserve/pkg/api/types/applications"
	apierr "github.com/modelserve/mserve/pkg/api/types/errors"
	"github.com/modelserve/mserve/pkg/manifest"
)

// SubmitApplication creates an application.
//
// When an application with the same name exists, it is deleted and created again.
func (s *Submitter) SubmitApplication(ctx context.Context, a *manifest.Application) (Submitted, error) {
	result := Submitted{Kind: manifest.KindApplication, Name: a.Name}

	graph, err := s.executionGraph(ctx, a)
	if err != nil {
		return result, fmt.Errorf("application %s: %w", a.Name, err)
	}

	if _, err := s.cluster.FindApplication(ctx, a.Name); err == nil {
		s.logger.V(1).Info("replacing existing application", "application", a.Name)
		if err := s.cluster.DeleteApplication(ctx, a.Name); err != nil {
			return result, fmt.Errorf("application %s: %w", a.Name, remote(err))
		}
	} else if !errors.Is(err, apierr.ErrNotFound) {
		return result, fmt.Errorf("application %s: %w", a.Name, remote(err))
	}

	created, err := s.cluster.CreateApplication(ctx, applications.Spec{
		Name:           a.Name,
		ExecutionGraph: graph,
		Metadata:       a.Metadata,
	})
	if err != nil {
		return result, fmt.Errorf("application %s: %w", a.Name, remote(err))
	}
	result.Application = &created
	s.logger.V(1).Info("application created", "application", created.Name, "id", created.Id)
	return result, nil
}

func (s *Submitter) executionGraph(ctx context.Context, a *manifest.Application) (applications.ExecutionGraph, error) {
	if a.Singular != nil {
		v, err := s.variant(ctx, a.Singular.Model, 100, a.Singular.DeploymentConfiguration)
		if err != nil {
			return applications.ExecutionGraph{}, err
		}
		return applications.ExecutionGraph{
			Stages: []applications.Stage{{Variants: []applications.Variant{v}}},
		}, nil
	}

	if len(a.Pipeline) == 0 {
		return applications.ExecutionGraph{}, fmt.Errorf(
			"%w: either singular or pipeline is required", manifest.ErrMalformedManifest,
		)
	}

	graph := applications.ExecutionGraph{}
	for nth, stage := range a.Pipeline {
		weights, err := stage.Weights()
		if err != nil {
			return graph, fmt.Errorf("%w: stage #%d: %w", manifest.ErrMalformedManifest, nth, err)
		}
		variants := make([]applications.Variant, 0, len(stage))
		for i, variant := range stage {
			v, err := s.variant(ctx, variant.Model, weights[i], variant.DeploymentConfiguration)
			if err != nil {
				return graph, fmt.Errorf("stage #%d: %w", nth, err)
			}
			variants = append(variants, v)
		}
		graph.Stages = append(graph.Stages, applications.Stage{Variants: variants})
	}
	return graph, nil
}

func (s *Submitter) variant(ctx context.Context, model string, weight int, deploymentConfiguration string) (applications.Variant, error) {
	mv, err := s.resolveModelVersion(ctx, model)
	if err != nil {
		return applications.Variant{}, err
	}
	v := applications.Variant{ModelVersionId: mv.Id, Weight: weight}
	if deploymentConfiguration == "" {
		return v, nil
	}
	dc, err := s.resolveDeploymentConfiguration(ctx, deploymentConfiguration)
	if err != nil {
		return applications.Variant{}, err
	}
	v.DeploymentConfigurationName = dc
	return v, nil
}
