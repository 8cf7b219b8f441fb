package manifest

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Decode reads a stream of YAML documents separated with "---".
//
// Empty documents are skipped.
//
// When a document cannot be decoded, Decode returns documents read before it together
// with an ErrMalformedManifest.
func Decode(r io.Reader) ([]map[string]any, error) {
	dec := yaml.NewDecoder(r)
	docs := []map[string]any{}
	for nth := 0; ; nth++ {
		var doc map[string]any
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return docs, nil
			}
			return docs, fmt.Errorf("%w: document #%d: %w", ErrMalformedManifest, nth, err)
		}
		if doc == nil {
			continue
		}
		docs = append(docs, doc)
	}
}
