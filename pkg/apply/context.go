package apply

import (
	"fmt"

	"github.com/modelserve/mserve/pkg/api/types/applications"
	"github.com/modelserve/mserve/pkg/api/types/deploymentconfigs"
	"github.com/modelserve/mserve/pkg/api/types/models"
)

// candidates is an ordered multimap from names to values.
//
// Values of a name are kept in the order added; index 0 addresses the last one.
type candidates[T any] struct {
	byName map[string][]T
}

func (c *candidates[T]) add(name string, v T) {
	if c.byName == nil {
		c.byName = map[string][]T{}
	}
	c.byName[name] = append(c.byName[name], v)
}

func (c *candidates[T]) lookup(ref Reference) (*T, error) {
	found := c.byName[ref.Name]
	if ref.Index == nil {
		if len(found) == 0 {
			return nil, nil
		}
		v := found[len(found)-1]
		return &v, nil
	}

	if len(found) <= *ref.Index {
		return nil, fmt.Errorf(
			"%w: %s: index out of range (%d candidates)",
			ErrReferenceResolution, ref, len(found),
		)
	}
	v := found[len(found)-1-*ref.Index]
	return &v, nil
}

// Context holds resources submitted in an apply, so that later documents can refer them
// with template references.
//
// A Context lives for one apply.
type Context struct {
	modelVersions            candidates[models.Version]
	applications             candidates[applications.Detail]
	deploymentConfigurations candidates[deploymentconfigs.Detail]
}

func NewContext() *Context {
	return &Context{}
}

func (c *Context) AddModelVersion(v models.Version) {
	c.modelVersions.add(v.Name, v)
}

func (c *Context) AddApplication(a applications.Detail) {
	c.applications.add(a.Name, a)
}

func (c *Context) AddDeploymentConfiguration(d deploymentconfigs.Detail) {
	c.deploymentConfigurations.add(d.Name, d)
}

// ResolveModelVersion resolves a template reference to a model version in the Context.
//
// # Returns
//
// - *models.Version: found model version. nil if ref is not a model template reference
// or no model versions have the name.
//
// - error: ErrReferenceResolution when the index is out of range.
func (c *Context) ResolveModelVersion(ref string) (*models.Version, error) {
	r, ok := ParseReference(ref)
	if !ok || r.Kind != RefModel {
		return nil, nil
	}
	return c.modelVersions.lookup(r)
}

// ResolveApplication is ResolveModelVersion for applications.
func (c *Context) ResolveApplication(ref string) (*applications.Detail, error) {
	r, ok := ParseReference(ref)
	if !ok || r.Kind != RefApplication {
		return nil, nil
	}
	return c.applications.lookup(r)
}

// ResolveDeploymentConfiguration is ResolveModelVersion for deployment configurations.
func (c *Context) ResolveDeploymentConfiguration(ref string) (*deploymentconfigs.Detail, error) {
	r, ok := ParseReference(ref)
	if !ok || r.Kind != RefDeploymentConfiguration {
		return nil, nil
	}
	return c.deploymentConfigurations.lookup(r)
}

// Register adds the resource in s into the Context.
//
// Host selectors are not registered since no references address them.
func (c *Context) Register(s Submitted) {
	if s.ModelVersion != nil {
		c.AddModelVersion(*s.ModelVersion)
	}
	if s.Application != nil {
		c.AddApplication(*s.Application)
	}
	if s.DeploymentConfiguration != nil {
		c.AddDeploymentConfiguration(*s.DeploymentConfiguration)
	}
}
