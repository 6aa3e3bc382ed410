package topograph

import (
	"encoding/json"

	yaml "github.com/geofffranks/yaml"
)

// DumpYAML renders a NetworkDefinition as YAML, for the "dump" CLI verb's
// debug view of a merged (and possibly patched) definition before
// elaboration, per spec.md §6.4. Grounded on the teacher's use of
// geofffranks/yaml for its own document dumps.
func DumpYAML(def *NetworkDefinition) (string, error) {
	encoded, err := json.Marshal(def)
	if err != nil {
		return "", wrapErr(ErrJSON, err, "encoding definition")
	}
	var tree interface{}
	if err := json.Unmarshal(encoded, &tree); err != nil {
		return "", wrapErr(ErrJSON, err, "decoding definition")
	}
	out, err := yaml.Marshal(tree)
	if err != nil {
		return "", wrapErr(ErrJSON, err, "rendering YAML")
	}
	return string(out), nil
}
