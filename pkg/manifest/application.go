package manifest

import (
	"errors"
	"fmt"
)

// Application is a definition of an application routing requests through model versions.
//
// Exactly one of Singular or Pipeline is present.
//
//	kind: Application
//	name: claims-app
//	pipeline:
//	  - - model: "{{this.model.claims}}"
//	      weight: 80
//	      deployment-configuration: "{{this.deployment_configuration.cpu-small}}"
//	    - model: claims:1
//	      weight: 20
//	  - - model: postprocess:3
type Application struct {
	Name     string            `json:"name" validate:"required"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Singular *Singular         `json:"singular,omitempty"`
	Pipeline []Stage           `json:"pipeline,omitempty" validate:"dive,min=1,dive"`
}

// Singular is an application with a single model version.
type Singular struct {
	Model                   string `json:"model" validate:"required"`
	DeploymentConfiguration string `json:"deployment-configuration,omitempty"`
}

// Stage is a list of variants sharing traffic.
type Stage []Variant

type Variant struct {
	Model string `json:"model" validate:"required"`

	// Weight is a percentage of traffic. It may be omitted for the only variant of a stage.
	Weight                  *int   `json:"weight,omitempty" validate:"omitempty,min=0,max=100"`
	DeploymentConfiguration string `json:"deployment-configuration,omitempty"`
}

// Weights returns the weight of each variant.
//
// The only variant without weight takes whole of traffic.
// Otherwise, every variant should have weight, and the sum should be 100.
func (s Stage) Weights() ([]int, error) {
	if len(s) == 1 && s[0].Weight == nil {
		return []int{100}, nil
	}

	weights := make([]int, 0, len(s))
	sum := 0
	for nth, v := range s {
		if v.Weight == nil {
			return nil, fmt.Errorf("variant #%d has no weight", nth)
		}
		weights = append(weights, *v.Weight)
		sum += *v.Weight
	}
	if sum != 100 {
		return nil, fmt.Errorf("sum of weights should be 100, but %d", sum)
	}
	return weights, nil
}

func (p *Parser) normalizeApplication(a *Application) error {
	switch {
	case a.Singular != nil && a.Pipeline != nil:
		return errors.New("both singular and pipeline are present, but only one is allowed")
	case a.Singular == nil && a.Pipeline == nil:
		return errors.New("either singular or pipeline is required")
	}

	if a.Singular != nil {
		return nil
	}
	if len(a.Pipeline) == 0 {
		return errors.New("pipeline has no stages")
	}
	for nth, stage := range a.Pipeline {
		if _, err := stage.Weights(); err != nil {
			return fmt.Errorf("stage #%d: %w", nth, err)
		}
	}
	return nil
}
