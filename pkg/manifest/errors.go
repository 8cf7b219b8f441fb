package manifest

import (
	"errors"
	"fmt"
)

// ErrMalformedManifest is returned when a document is structurally invalid.
var ErrMalformedManifest = errors.New("malformed manifest")

// ErrUnknownKind is returned when "kind" of a document is missing or not recognized.
//
// It is also an ErrMalformedManifest.
var ErrUnknownKind = fmt.Errorf("%w: unknown kind", ErrMalformedManifest)
