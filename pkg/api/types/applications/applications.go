package applications

import (
	"maps"
	"slices"
)

// Variant routes a share of traffic of a stage to a model version.
type Variant struct {
	ModelVersionId int64 `json:"modelVersionId"`

	// Weight is a percentage of traffic, 0..100.
	Weight int `json:"weight"`

	// DeploymentConfigurationName is the name of deployment configuration
	// applied to servables of the variant. Empty means the cluster default.
	DeploymentConfigurationName string `json:"deploymentConfigurationName,omitempty"`
}

type Stage struct {
	Variants []Variant `json:"modelVariants"`
}

func (s Stage) Equal(o Stage) bool {
	return slices.Equal(s.Variants, o.Variants)
}

// ExecutionGraph is an ordered list of stages. A singular application has one stage
// with one variant.
type ExecutionGraph struct {
	Stages []Stage `json:"stages"`
}

func (g ExecutionGraph) Equal(o ExecutionGraph) bool {
	return slices.EqualFunc(g.Stages, o.Stages, Stage.Equal)
}

// Spec is a request body to create an application.
type Spec struct {
	Name           string            `json:"name"`
	ExecutionGraph ExecutionGraph    `json:"executionGraph"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

type Status string

const (
	StatusAssembling Status = "Assembling"
	StatusReady      Status = "Ready"
	StatusFailed     Status = "Failed"
)

type Detail struct {
	Id int64 `json:"id"`

	Spec
	// props in Spec will be flattened in json.

	Status Status `json:"status,omitempty"`
}

func (d Detail) Equal(o Detail) bool {
	return d.Id == o.Id &&
		d.Name == o.Name &&
		d.ExecutionGraph.Equal(o.ExecutionGraph) &&
		maps.Equal(d.Metadata, o.Metadata) &&
		d.Status == o.Status
}
