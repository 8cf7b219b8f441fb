package rest

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/modelserve/mserve/cmd/mserve/config/profiles"
	"github.com/modelserve/mserve/pkg/api/types/applications"
	"github.com/modelserve/mserve/pkg/api/types/deploymentconfigs"
	"github.com/modelserve/mserve/pkg/api/types/models"
	"github.com/modelserve/mserve/pkg/apply"
)

// Client talks to a model serving cluster over its HTTP API.
type Client interface {
	apply.Cluster

	// ListModelVersions returns all model versions in the cluster.
	ListModelVersions(ctx context.Context) ([]models.Version, error)

	// DeleteModelVersion deletes a model version by its id.
	DeleteModelVersion(ctx context.Context, id int64) error

	// ListApplications returns all applications in the cluster.
	ListApplications(ctx context.Context) ([]applications.Detail, error)

	// ListDeploymentConfigurations returns all deployment configurations in the cluster.
	ListDeploymentConfigurations(ctx context.Context) ([]deploymentconfigs.Detail, error)

	// DeleteDeploymentConfiguration deletes a deployment configuration by its name.
	DeleteDeploymentConfiguration(ctx context.Context, name string) error
}

type client struct {
	httpclient  *http.Client
	api         string
	token       string
	progressOut io.Writer
}

type Option func(*client)

// WithUploadProgress shows progress bars of model uploads to w.
func WithUploadProgress(w io.Writer) Option {
	return func(c *client) {
		c.progressOut = w
	}
}

// NewClient creates a new client for the cluster described by the profile.
//
// # Returns
//
// - Client: created client
//
// - error: If given profile is invalid, an error wrapping profiles.ErrProfileInvalid
// (or profiles.ErrTokenExpired) is returned.
func NewClient(prof *profiles.Profile, options ...Option) (Client, error) {
	if err := prof.Verify(); err != nil {
		return nil, err
	}
	httpclient := new(http.Client)

	if prof.Cert.CA != "" {
		hc, err := trustCa(httpclient, []string{prof.Cert.CA})
		if err != nil {
			return nil, err
		}
		httpclient = hc
	}

	c := &client{
		httpclient: httpclient,
		api:        strings.TrimSuffix(prof.ApiRoot, "/"),
		token:      prof.Token,
	}
	for _, o := range options {
		o(c)
	}
	return c, nil
}

// build URL with path
func (c *client) apipath(path ...string) string {
	elems := make([]string, 0, len(path)+1)
	elems = append(elems, c.api)
	for _, p := range path {
		elems = append(elems, strings.Trim(p, "/"))
	}
	return strings.Join(elems, "/")
}

func (c *client) newRequest(ctx context.Context, method string, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func trustCa(hc *http.Client, cacerts []string) (*http.Client, error) {
	if len(cacerts) <= 0 {
		return hc, nil
	}

	if hc.Transport == nil {
		hc.Transport = http.DefaultTransport
	}

	tran, ok := hc.Transport.(*http.Transport)
	if !ok {
		return nil, fmt.Errorf("failed to add ca cert")
	}
	tran = tran.Clone()

	tcc := tran.TLSClientConfig.Clone()
	if tcc == nil {
		tcc = &tls.Config{}
	}

	rootcas := tcc.RootCAs
	if rootcas == nil {
		rootcas = x509.NewCertPool()
		tcc.RootCAs = rootcas
	}
	for _, ca := range cacerts {
		bin, err := base64.StdEncoding.DecodeString(ca)
		if err != nil {
			return nil, err
		}

		if !rootcas.AppendCertsFromPEM(bin) {
			return nil, fmt.Errorf("failed to add cert")
		}
	}

	tran.TLSClientConfig = tcc
	hc.Transport = tran
	return hc, nil
}
