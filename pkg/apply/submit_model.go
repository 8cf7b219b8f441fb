package apply

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelserve/mserve/pkg/api/types/metrics"
	"github.com/modelserve/mserve/pkg/api/types/models"
	"github.com/modelserve/mserve/pkg/manifest"
	"github.com/modelserve/mserve/pkg/utils/retry"
)

// SubmitModel uploads a model and builds a new version of it.
//
// Unless Async, it waits for the version to be released.
// Then training data is uploaded, and metric specs are created.
func (s *Submitter) SubmitModel(ctx context.Context, m *manifest.Model, baseDir string) (Submitted, error) {
	result := Submitted{Kind: manifest.KindModel, Name: m.Name}

	monitors := map[string]models.Version{}
	if !s.options.IgnoreMonitoring {
		for _, metric := range m.Monitoring {
			mv, err := s.resolveModelVersion(ctx, metric.MonitoringModel)
			if err != nil {
				return result, fmt.Errorf("model %s: metric %s: %w", m.Name, metric.Name, err)
			}
			monitors[metric.Name] = mv
		}
	}

	version, err := s.cluster.UploadModel(ctx, models.Upload{
		Spec:    m.ToSpec(),
		BaseDir: baseDir,
		Payload: m.Payload,
	})
	if err != nil {
		return result, fmt.Errorf("model %s: %w", m.Name, remote(err))
	}
	result.ModelVersion = &version
	s.logger.V(1).Info("model uploaded", "model", version.Ref(), "id", version.Id)

	if !s.options.Async {
		released, err := s.waitRelease(ctx, version)
		if err != nil {
			return result, err
		}
		version = released
		result.ModelVersion = &version
	}

	if m.TrainingData != "" && !s.options.NoTrainingData {
		if err := s.uploadTrainingData(ctx, version, m.TrainingData); err != nil {
			return result, err
		}
	}

	if s.options.IgnoreMonitoring {
		return result, nil
	}
	for _, metric := range m.Monitoring {
		created, err := s.cluster.CreateMetricSpec(ctx, metrics.Spec{
			Name:           metric.Name,
			ModelVersionId: version.Id,
			Config: metrics.Config{
				ModelVersionId: monitors[metric.Name].Id,
				Threshold:      metric.Threshold,
				Operator:       metric.Operator,
			},
		})
		if err != nil {
			return result, fmt.Errorf("model %s: metric %s: %w", version.Ref(), metric.Name, remote(err))
		}
		result.Metrics = append(result.Metrics, created)
		s.logger.V(1).Info("metric spec created", "model", version.Ref(), "metric", metric.Name)
	}
	return result, nil
}

func (s *Submitter) waitRelease(ctx context.Context, version models.Version) (models.Version, error) {
	s.logger.V(1).Info("waiting for model to be released", "model", version.Ref())
	latest, err := retry.Blocking(ctx, s.options.backoff(), func() (models.Version, error) {
		v, err := s.cluster.GetModelVersion(ctx, version.Id)
		if err != nil {
			return v, remote(err)
		}
		switch v.Status {
		case models.StatusReleased:
			return v, nil
		case models.StatusFailed:
			return v, fmt.Errorf("%w: model %s: build failed", ErrRemoteSubmission, v.Ref())
		default:
			return v, retry.ErrRetry
		}
	})
	if errors.Is(err, retry.ErrExhausted) {
		return latest, fmt.Errorf(
			"%w: model %s is not released in %s retries", ErrTimeout, version.Ref(), s.options.Retries,
		)
	}
	return latest, err
}

func (s *Submitter) uploadTrainingData(ctx context.Context, version models.Version, location string) error {
	if err := s.cluster.UploadTrainingData(ctx, models.TrainingData{
		ModelVersionId: version.Id, Location: location,
	}); err != nil {
		return fmt.Errorf("model %s: training data: %w", version.Ref(), remote(err))
	}
	s.logger.V(1).Info("training data uploaded", "model", version.Ref(), "location", location)

	if !s.options.WaitProfiling || s.options.Async {
		return nil
	}

	_, err := retry.Blocking(ctx, s.options.backoff(), func() (models.Profiling, error) {
		p, err := s.cluster.GetProfilingStatus(ctx, version.Id)
		if err != nil {
			return p, remote(err)
		}
		switch p.Status {
		case models.ProfilingSuccess:
			return p, nil
		case models.ProfilingFailure:
			return p, fmt.Errorf("%w: model %s: profiling failed", ErrRemoteSubmission, version.Ref())
		default:
			return p, retry.ErrRetry
		}
	})
	if errors.Is(err, retry.ErrExhausted) {
		return fmt.Errorf(
			"%w: profiling of model %s is not done in %s retries", ErrTimeout, version.Ref(), s.options.Retries,
		)
	}
	return err
}
