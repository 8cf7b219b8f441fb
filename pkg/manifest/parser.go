package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-playground/validator/v10"
	"github.com/modelserve/mserve/pkg/api/types/metrics"
	"github.com/modelserve/mserve/pkg/api/types/models"
)

const keyKind = "kind"

// Parser turns raw manifest documents into Definitions.
type Parser struct {
	logger   logr.Logger
	validate *validator.Validate
}

// NewParser creates a Parser.
//
// logger receives warnings about lenient normalizations, like unknown profiles.
func NewParser(logger logr.Logger) *Parser {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("dtype", func(fl validator.FieldLevel) bool {
		_, err := models.ParseDType(fl.Field().String())
		return err == nil
	})
	v.RegisterValidation("operator", func(fl validator.FieldLevel) bool {
		_, err := metrics.ParseOperator(fl.Field().String())
		return err == nil
	})

	return &Parser{logger: logger, validate: v}
}

// KindOf returns the kind of raw document.
//
// When "kind" is missing or not recognized, it returns ErrUnknownKind.
func KindOf(raw map[string]any) (Kind, error) {
	k, ok := raw[keyKind]
	if !ok {
		return "", fmt.Errorf(`%w: "kind" is missing`, ErrUnknownKind)
	}
	s, ok := k.(string)
	if !ok {
		return "", fmt.Errorf(`%w: "kind" should be string: %v`, ErrUnknownKind, k)
	}
	switch kind := Kind(s); kind {
	case KindModel, KindApplication, KindDeploymentConfiguration, KindHostSelector:
		return kind, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Parse converts a raw document into a Definition.
//
// # Returns
//
// - Definition: *Model, *Application, *DeploymentConfiguration or *HostSelector.
//
// - error: ErrUnknownKind when "kind" is missing or unknown.
// ErrMalformedManifest when the document is not valid as the kind.
func (p *Parser) Parse(raw map[string]any) (Definition, error) {
	kind, err := KindOf(raw)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindModel:
		return parseAs(p, raw, new(Model), p.normalizeModel)
	case KindApplication:
		return parseAs(p, raw, new(Application), p.normalizeApplication)
	case KindDeploymentConfiguration:
		return parseAs(p, raw, new(DeploymentConfiguration), p.normalizeDeploymentConfiguration)
	case KindHostSelector:
		return parseAs(p, raw, new(HostSelector), func(*HostSelector) error { return nil })
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func parseAs[D Definition](p *Parser, raw map[string]any, def D, normalize func(D) error) (Definition, error) {
	body := maps.Clone(raw)
	delete(body, keyKind)

	buf, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedManifest, def.Kind(), err)
	}
	dec := json.NewDecoder(bytes.NewReader(buf))
	dec.DisallowUnknownFields()
	if err := dec.Decode(def); err != nil {
		return nil, malformed(def, err)
	}
	if err := p.validate.Struct(def); err != nil {
		return nil, malformed(def, err)
	}
	if err := normalize(def); err != nil {
		return nil, malformed(def, err)
	}
	return def, nil
}

func malformed(def Definition, cause error) error {
	if name := def.ResourceName(); name != "" {
		return fmt.Errorf("%w: %s %q: %w", ErrMalformedManifest, def.Kind(), name, cause)
	}
	return fmt.Errorf("%w: %s: %w", ErrMalformedManifest, def.Kind(), cause)
}
