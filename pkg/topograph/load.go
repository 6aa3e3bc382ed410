package topograph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cppforlife/go-patch/patch"
	"github.com/hashicorp/go-multierror"
	yaml "gopkg.in/yaml.v3"
)

// LoadFiles reads and parses every named JSON file, collecting per-file
// parse failures into one aggregate error rather than stopping at the
// first, then merges the results in argument order, per spec.md §6.4.
//
// Grounded on the teacher's multi-document merge front-end in
// cmd/graft/main.go (cumulative *multierror.Error across input documents).
func LoadFiles(paths []string) (*NetworkDefinition, error) {
	var result *multierror.Error
	var defs []*NetworkDefinition

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			result = multierror.Append(result, wrapErr(ErrFileOpen, err, "%s", path))
			continue
		}
		def, err := ParseNetworkDefinition(data)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", path, err))
			continue
		}
		defs = append(defs, def)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	return MergeDefinitions(defs)
}

// MergeDefinitions concatenates each definition's module catalogue in
// order. The "network" entry may appear at most once across all inputs —
// a second one, whether in the same file or another one in the batch, is
// rejected the same way ParseNetworkDefinition already rejects duplicates
// within a single file. A batch with no network entry merges without
// error; Elaborate reports it as ErrNoNetwork.
func MergeDefinitions(defs []*NetworkDefinition) (*NetworkDefinition, error) {
	merged := &NetworkDefinition{}
	for _, d := range defs {
		merged.Modules = append(merged.Modules, d.Modules...)
		if d.Network != nil {
			if merged.Network != nil {
				return nil, newErr(ErrToken, "multiple \"network\" entries across input files")
			}
			merged.Network = d.Network
		}
	}
	return merged, nil
}

// ApplyPatch applies a go-patch overlay document (YAML, per go-patch
// convention) to a merged NetworkDefinition, by round-tripping through the
// same generic interface{} tree go-patch operates on, then re-decoding as
// a NetworkDefinition. This is the supplemented "--patch" CLI flag of
// spec.md §6.4.
func ApplyPatch(def *NetworkDefinition, patchData []byte) (*NetworkDefinition, error) {
	var opDefs []patch.OpDefinition
	if err := yaml.Unmarshal(patchData, &opDefs); err != nil {
		return nil, wrapErr(ErrJSON, err, "patch document")
	}
	ops, err := patch.NewOpsFromDefinitions(opDefs)
	if err != nil {
		return nil, wrapErr(ErrJSON, err, "patch document")
	}

	encoded, err := json.Marshal(def)
	if err != nil {
		return nil, wrapErr(ErrJSON, err, "re-encoding merged definition")
	}
	var tree interface{}
	if err := json.Unmarshal(encoded, &tree); err != nil {
		return nil, wrapErr(ErrJSON, err, "re-decoding merged definition")
	}

	patched, err := ops.Apply(tree)
	if err != nil {
		return nil, wrapErr(ErrJSON, err, "applying patch")
	}

	asJSON, err := json.Marshal(patched)
	if err != nil {
		return nil, wrapErr(ErrJSON, err, "re-encoding patched definition")
	}
	return ParseNetworkDefinition(asJSON)
}
