package manifest

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Serialize converts a Definition into a raw manifest document.
//
// Serialize(Parse(doc)) equals doc when doc is normalized:
//
//   - profiles are upper-cased
//   - runtime has a tag. An untagged runtime is serialized with ":latest".
//   - monitoring thresholds are floats, even if they are integral.
//   - other values have the types Parse produces.
func Serialize(def Definition) (map[string]any, error) {
	buf, err := json.Marshal(def)
	if err != nil {
		return nil, err
	}

	// JSON is YAML. Decoding with yaml gives ints for integral numbers, as Decode does.
	doc := map[string]any{}
	if err := yaml.Unmarshal(buf, &doc); err != nil {
		return nil, err
	}
	doc[keyKind] = string(def.Kind())

	if m, ok := def.(*Model); ok {
		keepThresholdsFloat(m, doc)
	}
	return doc, nil
}

// keepThresholdsFloat puts thresholds back as float64.
// JSON does not tell 1.0 from 1, so yaml decodes integral thresholds as int.
func keepThresholdsFloat(m *Model, doc map[string]any) {
	metrics, ok := doc["monitoring"].([]any)
	if !ok {
		return
	}
	for i, item := range metrics {
		entry, ok := item.(map[string]any)
		if !ok || len(m.Monitoring) <= i {
			continue
		}
		entry["threshold"] = m.Monitoring[i].Threshold
	}
}
