package manifest

// Kind discriminates resource definitions in manifest documents.
type Kind string

const (
	KindModel                   Kind = "Model"
	KindApplication             Kind = "Application"
	KindDeploymentConfiguration Kind = "DeploymentConfiguration"
	KindHostSelector            Kind = "HostSelector"
)

// Definition is a typed resource definition parsed from a manifest document.
//
// Implementations are *Model, *Application, *DeploymentConfiguration and *HostSelector.
// No other types can implement Definition.
type Definition interface {
	Kind() Kind

	// ResourceName returns the name of the resource, unique within its kind.
	ResourceName() string

	// Accept calls the method of v for the concrete type of the definition.
	Accept(v Visitor) error

	sealed()
}

// Visitor has one method per kind of Definition.
type Visitor interface {
	VisitModel(*Model) error
	VisitApplication(*Application) error
	VisitDeploymentConfiguration(*DeploymentConfiguration) error
	VisitHostSelector(*HostSelector) error
}

func (*Model) Kind() Kind                   { return KindModel }
func (*Application) Kind() Kind             { return KindApplication }
func (*DeploymentConfiguration) Kind() Kind { return KindDeploymentConfiguration }
func (*HostSelector) Kind() Kind            { return KindHostSelector }

func (m *Model) ResourceName() string                   { return m.Name }
func (a *Application) ResourceName() string             { return a.Name }
func (d *DeploymentConfiguration) ResourceName() string { return d.Name }
func (h *HostSelector) ResourceName() string            { return h.Name }

func (m *Model) Accept(v Visitor) error                   { return v.VisitModel(m) }
func (a *Application) Accept(v Visitor) error             { return v.VisitApplication(a) }
func (d *DeploymentConfiguration) Accept(v Visitor) error { return v.VisitDeploymentConfiguration(d) }
func (h *HostSelector) Accept(v Visitor) error            { return v.VisitHostSelector(h) }

func (*Model) sealed()                   {}
func (*Application) sealed()             {}
func (*DeploymentConfiguration) sealed() {}
func (*HostSelector) sealed()            {}
