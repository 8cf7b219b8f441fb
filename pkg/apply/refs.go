package apply

import (
	"fmt"
	"strconv"
	"strings"
)

// RefKind is the kind part of template references.
type RefKind string

const (
	RefModel                   RefKind = "model"
	RefApplication             RefKind = "application"
	RefDeploymentConfiguration RefKind = "deployment_configuration"
)

// Reference points a resource submitted earlier in the same apply.
//
// The textual form is "{{this.<kind>.<name>}}" or "{{this.<kind>.<name>:<index>}}".
type Reference struct {
	Kind RefKind
	Name string

	// Index selects a candidate among ones with the same name.
	// 0 is the most recently submitted. nil means the most recent one.
	Index *int
}

func (r Reference) String() string {
	if r.Index == nil {
		return fmt.Sprintf("{{this.%s.%s}}", r.Kind, r.Name)
	}
	return fmt.Sprintf("{{this.%s.%s:%d}}", r.Kind, r.Name, *r.Index)
}

// ParseReference parses s as a template reference.
//
// Spaces just inside the braces are allowed, like "{{ this.model.claims }}".
//
// # Returns
//
// - Reference: parsed reference.
//
// - bool: false if s is not a template reference.
// Malformed templates and ones with unknown kinds are not template references.
func ParseReference(s string) (Reference, bool) {
	body, ok := strings.CutPrefix(strings.TrimSpace(s), "{{")
	if !ok {
		return Reference{}, false
	}
	if body, ok = strings.CutSuffix(body, "}}"); !ok {
		return Reference{}, false
	}
	if body, ok = strings.CutPrefix(strings.TrimSpace(body), "this."); !ok {
		return Reference{}, false
	}

	kind, selector, ok := strings.Cut(body, ".")
	if !ok {
		return Reference{}, false
	}
	ref := Reference{Kind: RefKind(kind)}
	switch ref.Kind {
	case RefModel, RefApplication, RefDeploymentConfiguration:
	default:
		return Reference{}, false
	}

	name, index, hasIndex := strings.Cut(selector, ":")
	if name == "" || strings.ContainsAny(name, " {}") {
		return Reference{}, false
	}
	ref.Name = name

	if hasIndex {
		i, err := strconv.Atoi(index)
		if err != nil || i < 0 {
			return Reference{}, false
		}
		ref.Index = &i
	}
	return ref, true
}

// splitNameVersion splits external model reference "name:version" or "name".
//
// When the version part is not an integer, the whole is treated as a name.
func splitNameVersion(ref string) (string, *int64) {
	name, version, ok := strings.Cut(ref, ":")
	if !ok {
		return ref, nil
	}
	v, err := strconv.ParseInt(version, 10, 64)
	if err != nil {
		return ref, nil
	}
	return name, &v
}
