package topograph

import (
	"bufio"
	"bytes"
	"os"

	"github.com/gonvenience/ytbx"
	"github.com/homeport/dyff/pkg/dyff"
	yaml "gopkg.in/yaml.v3"
)

type edgeDoc struct {
	To         string `yaml:"to"`
	Attributes string `yaml:"attributes,omitempty"`
}

type nodeDoc struct {
	Name  string    `yaml:"name"`
	Type  string    `yaml:"type"`
	Edges []edgeDoc `yaml:"edges,omitempty"`
}

func nodeTypeName(t NodeType) string {
	switch t {
	case NodeNode:
		return "node"
	case NodeGate:
		return "gate"
	default:
		return "retired"
	}
}

// graphToYAML renders a compacted graph as a list of node documents, the
// shape diffed by DiffGraphs.
func graphToYAML(g *Graph) ([]byte, error) {
	nodes := make([]nodeDoc, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		nd := nodeDoc{Name: n.Name, Type: nodeTypeName(n.Type)}
		for _, e := range n.Adj {
			ed := edgeDoc{To: g.Nodes[e.Dst].Name}
			if e.Attributes != nil {
				ed.Attributes = *e.Attributes
			}
			nd.Edges = append(nd.Edges, ed)
		}
		nodes = append(nodes, nd)
	}
	return yaml.Marshal(nodes)
}

// DiffGraphs renders a, b as YAML node lists and produces a human-readable
// semantic diff between them, for the "diff" CLI verb of spec.md §6.4.
// Grounded directly on the teacher's own diffFiles() in cmd/graft/main.go:
// ytbx.LoadFiles + dyff.CompareInputFiles + dyff.HumanReport.
func DiffGraphs(a, b *Graph) (output string, different bool, err error) {
	ay, err := graphToYAML(a)
	if err != nil {
		return "", false, err
	}
	by, err := graphToYAML(b)
	if err != nil {
		return "", false, err
	}

	pathA, err := writeTempYAML("topograph-diff-a-*.yml", ay)
	if err != nil {
		return "", false, wrapErr(ErrFileOpen, err, "writing first topology")
	}
	defer os.Remove(pathA)
	pathB, err := writeTempYAML("topograph-diff-b-*.yml", by)
	if err != nil {
		return "", false, wrapErr(ErrFileOpen, err, "writing second topology")
	}
	defer os.Remove(pathB)

	from, to, err := ytbx.LoadFiles(pathA, pathB)
	if err != nil {
		return "", false, wrapErr(ErrJSON, err, "loading topologies")
	}

	report, err := dyff.CompareInputFiles(from, to)
	if err != nil {
		return "", false, wrapErr(ErrJSON, err, "comparing topologies")
	}

	reportWriter := &dyff.HumanReport{
		Report:            report,
		DoNotInspectCerts: true,
		OmitHeader:        true,
	}

	var buf bytes.Buffer
	out := bufio.NewWriter(&buf)
	if err := reportWriter.WriteReport(out); err != nil {
		return "", false, wrapErr(ErrJSON, err, "rendering diff")
	}
	out.Flush()
	return buf.String(), len(report.Diffs) > 0, nil
}

func writeTempYAML(pattern string, data []byte) (string, error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
