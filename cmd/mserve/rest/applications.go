package rest

import (
	"context"
	"net/url"

	"github.com/modelserve/mserve/pkg/api/types/applications"
)

func (c *client) FindApplication(ctx context.Context, name string) (applications.Detail, error) {
	return getJson[applications.Detail](
		ctx, c, c.apipath("application", url.PathEscape(name)),
		"application "+name+" is not found",
	)
}

func (c *client) ListApplications(ctx context.Context) ([]applications.Detail, error) {
	apps, err := getJson[[]applications.Detail](ctx, c, c.apipath("application"), "invalid request")
	if err != nil {
		return nil, err
	}
	if apps == nil {
		apps = []applications.Detail{}
	}
	return apps, nil
}

func (c *client) CreateApplication(ctx context.Context, spec applications.Spec) (applications.Detail, error) {
	return postJson[applications.Detail](
		ctx, c, c.apipath("application"), spec,
		"application "+spec.Name+" is rejected by server",
	)
}

func (c *client) DeleteApplication(ctx context.Context, name string) error {
	return c.deleteResource(
		ctx, c.apipath("application", url.PathEscape(name)),
		"application "+name+" is not found",
	)
}
