package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/modelserve/mserve/pkg/api/types/metrics"
)

func (c *client) CreateMetricSpec(ctx context.Context, spec metrics.Spec) (metrics.Detail, error) {
	return postJson[metrics.Detail](
		ctx, c, c.apipath("monitoring", "metricspec"), spec,
		fmt.Sprintf("metric %s of model version id=%d is rejected by server", spec.Name, spec.ModelVersionId),
	)
}

func (c *client) PingMonitoring(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, c.apipath("monitoring", "health"), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpclient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return discardResponse(resp, MessageFor{
		Status4xx: "monitoring is not available",
		Status5xx: "monitoring is not healthy",
	})
}
