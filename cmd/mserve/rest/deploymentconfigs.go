package rest

import (
	"context"
	"net/url"

	"github.com/modelserve/mserve/pkg/api/types/deploymentconfigs"
	"github.com/modelserve/mserve/pkg/api/types/hostselectors"
)

func (c *client) FindDeploymentConfiguration(ctx context.Context, name string) (deploymentconfigs.Detail, error) {
	return getJson[deploymentconfigs.Detail](
		ctx, c, c.apipath("deployment_configuration", url.PathEscape(name)),
		"deployment configuration "+name+" is not found",
	)
}

func (c *client) ListDeploymentConfigurations(ctx context.Context) ([]deploymentconfigs.Detail, error) {
	dcs, err := getJson[[]deploymentconfigs.Detail](
		ctx, c, c.apipath("deployment_configuration"), "invalid request",
	)
	if err != nil {
		return nil, err
	}
	if dcs == nil {
		dcs = []deploymentconfigs.Detail{}
	}
	return dcs, nil
}

func (c *client) CreateDeploymentConfiguration(ctx context.Context, spec deploymentconfigs.Spec) (deploymentconfigs.Detail, error) {
	return postJson[deploymentconfigs.Detail](
		ctx, c, c.apipath("deployment_configuration"), spec,
		"deployment configuration "+spec.Name+" is rejected by server",
	)
}

func (c *client) DeleteDeploymentConfiguration(ctx context.Context, name string) error {
	return c.deleteResource(
		ctx, c.apipath("deployment_configuration", url.PathEscape(name)),
		"deployment configuration "+name+" is not found",
	)
}

func (c *client) CreateHostSelector(ctx context.Context, spec hostselectors.Spec) (hostselectors.Detail, error) {
	return postJson[hostselectors.Detail](
		ctx, c, c.apipath("hostselector"), spec,
		"host selector "+spec.Name+" is rejected by server",
	)
}
