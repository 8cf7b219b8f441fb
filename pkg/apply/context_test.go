package apply_test

import (
	"errors"
	"testing"

	"github.com/modelserve/mserve/pkg/api/types/applications"
	"github.com/modelserve/mserve/pkg/api/types/deploymentconfigs"
	"github.com/modelserve/mserve/pkg/api/types/models"
	"github.com/modelserve/mserve/pkg/apply"
)

func TestContext_ResolveModelVersion(t *testing.T) {
	first := models.Version{Id: 1, Name: "m", Version: 1}
	second := models.Version{Id: 2, Name: "m", Version: 2}
	other := models.Version{Id: 3, Name: "other", Version: 1}

	newContext := func() *apply.Context {
		actx := apply.NewContext()
		actx.AddModelVersion(first)
		actx.AddModelVersion(other)
		actx.AddModelVersion(second)
		return actx
	}

	type Then struct {
		version *models.Version
		err     error
	}
	theory := func(ref string, then Then) func(*testing.T) {
		return func(t *testing.T) {
			actual, err := newContext().ResolveModelVersion(ref)
			if then.err != nil {
				if !errors.Is(err, then.err) {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if then.version == nil {
				if actual != nil {
					t.Errorf("unexpected version: %+v", actual)
				}
				return
			}
			if actual == nil || !actual.Equal(*then.version) {
				t.Errorf("unexpected version: (actual, expected) = (%+v, %+v)", actual, then.version)
			}
		}
	}

	t.Run("bare name resolves the most recent one", theory(
		"{{this.model.m}}", Then{version: &second},
	))
	t.Run("index 0 is the most recent one", theory(
		"{{this.model.m:0}}", Then{version: &second},
	))
	t.Run("index 1 is the one before the most recent", theory(
		"{{this.model.m:1}}", Then{version: &first},
	))
	t.Run("index out of range is an error", theory(
		"{{this.model.m:2}}", Then{err: apply.ErrReferenceResolution},
	))
	t.Run("index for missing name is an error", theory(
		"{{this.model.missing:0}}", Then{err: apply.ErrReferenceResolution},
	))
	t.Run("missing bare name is not found", theory(
		"{{this.model.missing}}", Then{},
	))
	t.Run("non-template is not resolved", theory(
		"m:1", Then{},
	))
	t.Run("template of other kind is not resolved", theory(
		"{{this.application.m}}", Then{},
	))
}

func TestContext_Register(t *testing.T) {
	actx := apply.NewContext()
	actx.Register(apply.Submitted{
		Application: &applications.Detail{Id: 1, Spec: applications.Spec{Name: "app"}},
	})
	actx.Register(apply.Submitted{
		DeploymentConfiguration: &deploymentconfigs.Detail{Spec: deploymentconfigs.Spec{Name: "dc"}},
	})

	app, err := actx.ResolveApplication("{{this.application.app}}")
	if err != nil {
		t.Fatal(err)
	}
	if app == nil || app.Id != 1 {
		t.Errorf("unexpected application: %+v", app)
	}

	dc, err := actx.ResolveDeploymentConfiguration("{{this.deployment_configuration.dc:0}}")
	if err != nil {
		t.Fatal(err)
	}
	if dc == nil || dc.Name != "dc" {
		t.Errorf("unexpected deployment configuration: %+v", dc)
	}
}
