package metrics

import (
	"fmt"
	"slices"
)

// Operator compares a metric value with a threshold.
type Operator string

const (
	Eq        Operator = "Eq"
	NotEq     Operator = "NotEq"
	Greater   Operator = "Greater"
	Less      Operator = "Less"
	GreaterEq Operator = "GreaterEq"
	LessEq    Operator = "LessEq"
)

var operators = []Operator{Eq, NotEq, Greater, Less, GreaterEq, LessEq}

func ParseOperator(s string) (Operator, error) {
	op := Operator(s)
	if !slices.Contains(operators, op) {
		return "", fmt.Errorf("unknown operator: %q (one of %v)", s, operators)
	}
	return op, nil
}

type Config struct {
	// ModelVersionId is the id of the monitoring model version which calculates the metric.
	ModelVersionId int64    `json:"modelVersionId"`
	Threshold      float64  `json:"threshold"`
	Operator       Operator `json:"thresholdCmpOperator"`
}

// Spec is a request body to create a metric spec.
type Spec struct {
	Name string `json:"name"`

	// ModelVersionId is the id of the model version being monitored.
	ModelVersionId int64  `json:"modelVersionId"`
	Config         Config `json:"config"`
}

type Detail struct {
	Id string `json:"id"`

	Spec
	// props in Spec will be flattened in json.
}
