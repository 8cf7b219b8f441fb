package models

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Status is the build state of a model version on the cluster.
type Status string

const (
	StatusAssembling Status = "Assembling"
	StatusReleased   Status = "Released"
	StatusFailed     Status = "Failed"
)

// IsTerminal reports whether the build pipeline will not change the status anymore.
func (s Status) IsTerminal() bool {
	return s == StatusReleased || s == StatusFailed
}

// DType is an element type of tensor.
type DType string

const (
	String     DType = "string"
	Bool       DType = "bool"
	Float16    DType = "float16"
	Float32    DType = "float32"
	Float64    DType = "float64"
	Int8       DType = "int8"
	Int16      DType = "int16"
	Int32      DType = "int32"
	Int64      DType = "int64"
	Uint8      DType = "uint8"
	Uint16     DType = "uint16"
	Uint32     DType = "uint32"
	Uint64     DType = "uint64"
	Complex64  DType = "complex64"
	Complex128 DType = "complex128"
)

var dtypes = []DType{
	String, Bool,
	Float16, Float32, Float64,
	Int8, Int16, Int32, Int64,
	Uint8, Uint16, Uint32, Uint64,
	Complex64, Complex128,
}

// ParseDType returns DType named s.
//
// Unknown name is an error.
func ParseDType(s string) (DType, error) {
	d := DType(s)
	if !slices.Contains(dtypes, d) {
		return "", fmt.Errorf("unknown dtype: %q", s)
	}
	return d, nil
}

// Profile is a hint how the monitoring profiler treats values of a field.
type Profile string

const (
	ProfileNone        Profile = "NONE"
	ProfileNumerical   Profile = "NUMERICAL"
	ProfileCategorical Profile = "CATEGORICAL"
	ProfileText        Profile = "TEXT"
	ProfileImage       Profile = "IMAGE"
	ProfileVideo       Profile = "VIDEO"
	ProfileAudio       Profile = "AUDIO"
)

var profiles = []Profile{
	ProfileNone, ProfileNumerical, ProfileCategorical,
	ProfileText, ProfileImage, ProfileVideo, ProfileAudio,
}

// ParseProfile returns Profile named s, case-insensitively.
//
// When s is not a known profile, it returns (ProfileNone, false).
func ParseProfile(s string) (Profile, bool) {
	p := Profile(strings.ToUpper(s))
	if !slices.Contains(profiles, p) {
		return ProfileNone, false
	}
	return p, true
}

// Field is a named tensor in a model signature.
type Field struct {
	Name string `json:"name"`

	// Shape is a list of dimensions. -1 means unbound.
	//
	// Empty Shape means a scalar.
	Shape   []int64 `json:"shape"`
	DType   DType   `json:"dtype"`
	Profile Profile `json:"profile"`
}

func (f Field) Equal(o Field) bool {
	return f.Name == o.Name &&
		slices.Equal(f.Shape, o.Shape) &&
		f.DType == o.DType &&
		f.Profile == o.Profile
}

// IsScalar reports whether the field is zero-rank.
func (f Field) IsScalar() bool {
	return len(f.Shape) == 0
}

type Signature struct {
	Inputs  []Field `json:"inputs"`
	Outputs []Field `json:"outputs"`
}

func (s Signature) Equal(o Signature) bool {
	eq := func(a, b Field) bool { return a.Equal(b) }
	return slices.EqualFunc(s.Inputs, o.Inputs, eq) &&
		slices.EqualFunc(s.Outputs, o.Outputs, eq)
}

// Spec is the metadata part of a model upload request.
type Spec struct {
	Name           string            `json:"name"`
	Runtime        Image             `json:"runtime"`
	Signature      Signature         `json:"signature"`
	InstallCommand string            `json:"installCommand,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// Upload is a model upload request.
type Upload struct {
	Spec Spec

	// BaseDir is the directory which Payload paths are relative to.
	BaseDir string

	// Payload is a list of files and directories to be archived and uploaded.
	Payload []string
}

// Version is a model version registered in the cluster.
type Version struct {
	Id        int64             `json:"id"`
	Name      string            `json:"name"`
	Version   int64             `json:"version"`
	Runtime   Image             `json:"runtime"`
	Image     *Image            `json:"image,omitempty"`
	Signature Signature         `json:"signature"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Status    Status            `json:"status"`
}

func (v Version) Equal(o Version) bool {
	return v.Id == o.Id &&
		v.Name == o.Name &&
		v.Version == o.Version &&
		v.Runtime.Equal(&o.Runtime) &&
		v.Image.Equal(o.Image) &&
		v.Signature.Equal(o.Signature) &&
		maps.Equal(v.Metadata, o.Metadata) &&
		v.Status == o.Status
}

// Ref returns "name:version" form of the model version.
func (v Version) Ref() string {
	return fmt.Sprintf("%s:%d", v.Name, v.Version)
}

// ProfilingStatus is the state of training data profiling for a model version.
type ProfilingStatus string

const (
	ProfilingNotRegistered ProfilingStatus = "NotRegistered"
	ProfilingProcessing    ProfilingStatus = "Processing"
	ProfilingSuccess       ProfilingStatus = "Success"
	ProfilingFailure       ProfilingStatus = "Failure"
)

func (p ProfilingStatus) IsTerminal() bool {
	return p == ProfilingSuccess || p == ProfilingFailure
}

type Profiling struct {
	ModelVersionId int64           `json:"modelVersionId"`
	Status         ProfilingStatus `json:"status"`
}

// TrainingData is a request to let the cluster fetch and profile training data.
type TrainingData struct {
	ModelVersionId int64 `json:"modelVersionId"`

	// Location is URI of the training data, like "s3://bucket/path/to/data.csv".
	Location string `json:"location"`
}
