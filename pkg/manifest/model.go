package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/modelserve/mserve/pkg/api/types/metrics"
	"github.com/modelserve/mserve/pkg/api/types/models"
)

// Model is a definition of a model version to be built.
//
//	kind: Model
//	name: claims
//	runtime: "hydrosphere/serving-runtime-python-3.8:3.0.0"
//	install-command: "pip install -r requirements.txt"
//	payload:
//	  - "src/"
//	  - "requirements.txt"
//	signature:
//	  inputs:
//	    x: {shape: [-1, 2], type: float64, profile: numerical}
//	  outputs:
//	    y: {shape: scalar, type: int64}
//	training-data: s3://bucket/claims/train.csv
//	monitoring:
//	  - name: ks
//	    monitoring-model: ks-metric:1
//	    threshold: 0.05
//	    operator: Less
type Model struct {
	Name           string            `json:"name" validate:"required"`
	Runtime        *models.Image     `json:"runtime" validate:"required"`
	Payload        []string          `json:"payload,omitempty"`
	Signature      *Signature        `json:"signature,omitempty"`
	InstallCommand string            `json:"install-command,omitempty"`
	TrainingData   string            `json:"training-data,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	Monitoring     []Metric          `json:"monitoring,omitempty" validate:"dive"`
}

type Signature struct {
	Inputs  map[string]Field `json:"inputs,omitempty" validate:"dive"`
	Outputs map[string]Field `json:"outputs,omitempty" validate:"dive"`
}

// Field is a tensor declaration in a signature.
type Field struct {
	Shape *Shape       `json:"shape" validate:"required"`
	DType models.DType `json:"type" validate:"dtype"`

	// Profile is upper-cased by Parser. Unknown profiles are replaced with NONE.
	Profile models.Profile `json:"profile,omitempty"`
}

// Metric declares a metric spec monitoring the model.
type Metric struct {
	Name string `json:"name" validate:"required"`

	// MonitoringModel is a reference to the model version calculating the metric.
	MonitoringModel string           `json:"monitoring-model" validate:"required"`
	Threshold       float64          `json:"threshold"`
	Operator        metrics.Operator `json:"operator" validate:"operator"`
}

// Shape is the shape of a tensor: "scalar", or list of dimensions where -1 means unbound.
type Shape struct {
	// Dims is nil for scalar.
	Dims []int64
}

func Scalar() *Shape {
	return &Shape{}
}

func Dims(d ...int64) *Shape {
	if d == nil {
		d = []int64{}
	}
	return &Shape{Dims: d}
}

func (s Shape) IsScalar() bool {
	return s.Dims == nil
}

func (s Shape) Equal(o Shape) bool {
	return s.IsScalar() == o.IsScalar() && slices.Equal(s.Dims, o.Dims)
}

func (s Shape) String() string {
	if s.IsScalar() {
		return "scalar"
	}
	return fmt.Sprint(s.Dims)
}

const scalar = "scalar"

func (s Shape) MarshalJSON() ([]byte, error) {
	if s.IsScalar() {
		return json.Marshal(scalar)
	}
	return json.Marshal(s.Dims)
}

func (s *Shape) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return errors.New(`shape should be "scalar" or list of integers: null`)
	}

	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		if str != scalar {
			return fmt.Errorf(`shape should be "scalar" or list of integers: %q`, str)
		}
		s.Dims = nil
		return nil
	}

	dims := []int64{}
	if err := json.Unmarshal(b, &dims); err != nil {
		return fmt.Errorf(`shape should be "scalar" or list of integers: %s`, string(b))
	}
	for _, d := range dims {
		if d < -1 {
			return fmt.Errorf("dimension should be -1 (unbound) or non-negative: %d", d)
		}
	}
	s.Dims = dims
	return nil
}

// ToSpec converts the definition to a model upload metadata.
//
// Signature fields are sorted by name.
func (m *Model) ToSpec() models.Spec {
	spec := models.Spec{
		Name:           m.Name,
		InstallCommand: m.InstallCommand,
		Metadata:       m.Metadata,
	}
	if m.Runtime != nil {
		spec.Runtime = *m.Runtime
	}
	if m.Signature != nil {
		spec.Signature = models.Signature{
			Inputs:  toFields(m.Signature.Inputs),
			Outputs: toFields(m.Signature.Outputs),
		}
	}
	return spec
}

func toFields(fields map[string]Field) []models.Field {
	names := make([]string, 0, len(fields))
	for n := range fields {
		names = append(names, n)
	}
	slices.Sort(names)

	ret := make([]models.Field, 0, len(names))
	for _, n := range names {
		f := fields[n]
		profile := f.Profile
		if profile == "" {
			profile = models.ProfileNone
		}
		var shape []int64
		if f.Shape != nil {
			shape = f.Shape.Dims
		}
		if shape == nil {
			shape = []int64{}
		}
		ret = append(ret, models.Field{
			Name: n, Shape: shape, DType: f.DType, Profile: profile,
		})
	}
	return ret
}

// HasMonitoring reports whether the model declares any metric.
func (m *Model) HasMonitoring() bool {
	return 0 < len(m.Monitoring)
}

func (p *Parser) normalizeModel(m *Model) error {
	if m.Runtime == nil || m.Runtime.Repository == "" {
		return errors.New("runtime should be an image reference")
	}
	if m.Signature == nil {
		return nil
	}
	normalize := func(direction string, fields map[string]Field) {
		for name, f := range fields {
			if f.Profile == "" {
				continue
			}
			profile, ok := models.ParseProfile(string(f.Profile))
			if !ok {
				p.logger.Info(
					"unknown profile, NONE is used instead",
					"model", m.Name, "field", direction+"."+name, "profile", f.Profile,
				)
			}
			f.Profile = profile
			fields[name] = f
		}
	}
	normalize("inputs", m.Signature.Inputs)
	normalize("outputs", m.Signature.Outputs)

	if len(m.Signature.Inputs) == 0 && len(m.Signature.Outputs) == 0 {
		return errors.New("signature has no fields")
	}
	return nil
}
