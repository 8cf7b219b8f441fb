package args

import (
	"fmt"
	"strconv"
)

// Limit is a count which may be unbounded, like "retry N times" or "retry forever".
//
// The textual form is a non-negative integer or "inf".
type Limit struct {
	n         uint
	unbounded bool
}

func (l Limit) String() string {
	if l.unbounded {
		return "inf"
	}
	return fmt.Sprintf("%v", l.n)
}

// Value returns the count.
//
// For unbounded Limit, it is meaningless (always 0).
func (l Limit) Value() uint {
	return l.n
}

// IsUnbounded returns whether the Limit has no upper bound.
func (l Limit) IsUnbounded() bool {
	return l.unbounded
}

// NewLimit creates a new bounded Limit.
func NewLimit(value uint) Limit {
	return Limit{n: value}
}

// Unbounded creates a Limit without upper bound.
func Unbounded() Limit {
	return Limit{unbounded: true}
}

func (l Limit) Equal(other Limit) bool {
	if l.unbounded || other.unbounded {
		return l.unbounded == other.unbounded
	}
	return l.n == other.n
}

// Set sets the value of the limit.
//
// Compliant with the flag.Value interface.
func (l *Limit) Set(s string) error {
	if s == "inf" {
		l.n = 0
		l.unbounded = true
		return nil
	}

	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf(`the value should be non-negative integer or "inf": %v`, s)
	}
	l.n = uint(v)
	l.unbounded = false
	return nil
}
