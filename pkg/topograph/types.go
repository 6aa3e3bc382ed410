package topograph

import (
	"encoding/json"
	"fmt"
)

// RawParam is an unevaluated (name, expression) pair, per spec.md §3.
type RawParam struct {
	Name  string
	Value string
}

// UnmarshalJSON decodes the single-key object form {"<name>": "<expr>"}.
func (p *RawParam) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if len(m) != 1 {
		return fmt.Errorf("param object must have exactly one key, got %d", len(m))
	}
	for k, v := range m {
		p.Name = k
		p.Value = v
	}
	return nil
}

// MarshalJSON encodes p back as {"<name>": "<expr>"}.
func (p RawParam) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{p.Name: p.Value})
}

// Gate is a named hook-point; Size is an unevaluated expression (0 ⇒ scalar
// gate, >0 ⇒ indexed vector), per spec.md §3.
type Gate struct {
	Name string
	Size string
}

// UnmarshalJSON decodes the single-key object form {"<name>": "<size-expr>"}.
func (g *Gate) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if len(m) != 1 {
		return fmt.Errorf("gate object must have exactly one key, got %d", len(m))
	}
	for k, v := range m {
		g.Name = k
		g.Size = v
	}
	return nil
}

// MarshalJSON encodes g back as {"<name>": "<size-expr>"}.
func (g Gate) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{g.Name: g.Size})
}

// ProductKind names the graph-product variant of a Product submodule ref.
type ProductKind string

const (
	ProductCartesian      ProductKind = "cartesian"
	ProductTensor         ProductKind = "tensor"
	ProductLexicographical ProductKind = "lexicographical"
	ProductStrong         ProductKind = "strong"
	ProductRoot           ProductKind = "root"
)

// SubmoduleRef is the tagged union of spec.md §3: Plain, Product, or
// Conditional. Exactly one of the Plain/Product/Conditional fields is set;
// Kind records which.
type SubmoduleRef struct {
	Kind SubmoduleKind

	// Plain
	Name    string
	Module  string
	Size    *string
	Params  []RawParam

	// Product
	ProductOf ProductKind
	A, B      *SubmoduleRef
	Root      string

	// Conditional
	Condition string
	Then      *SubmoduleRef
	Else      *SubmoduleRef
}

// SubmoduleKind discriminates the SubmoduleRef union.
type SubmoduleKind int

const (
	SubmPlain SubmoduleKind = iota
	SubmProduct
	SubmConditional
)

// UnmarshalJSON decodes a SubmoduleRef per the schema of spec.md §6.1: a
// Plain ref has "name"/"module", a Conditional ref has "if", a Product ref
// has one of cartesian/tensor/lexicographical/strong or "root"+"rooted".
//
// Each tagged union in this package implements UnmarshalJSON by peeking at
// the object's keys directly rather than running a generic parser — this
// structural decoding is the spec's explicitly out-of-scope, opaque layer.
func (s *SubmoduleRef) UnmarshalJSON(data []byte) error {
	var peek map[string]json.RawMessage
	if err := json.Unmarshal(data, &peek); err != nil {
		return err
	}

	if raw, ok := peek["if"]; ok {
		s.Kind = SubmConditional
		if err := json.Unmarshal(raw, &s.Condition); err != nil {
			return fmt.Errorf("submodule if: %w", err)
		}
		thenRaw, ok := peek["then"]
		if !ok {
			return fmt.Errorf("conditional submodule missing \"then\"")
		}
		s.Then = &SubmoduleRef{}
		if err := json.Unmarshal(thenRaw, s.Then); err != nil {
			return fmt.Errorf("submodule then: %w", err)
		}
		if elseRaw, ok := peek["else"]; ok {
			s.Else = &SubmoduleRef{}
			if err := json.Unmarshal(elseRaw, s.Else); err != nil {
				return fmt.Errorf("submodule else: %w", err)
			}
		}
		return nil
	}

	for _, kind := range []ProductKind{ProductCartesian, ProductTensor, ProductLexicographical, ProductStrong} {
		if raw, ok := peek[string(kind)]; ok {
			var pair []*SubmoduleRef
			if err := json.Unmarshal(raw, &pair); err != nil {
				return fmt.Errorf("submodule %s: %w", kind, err)
			}
			if len(pair) != 2 {
				return fmt.Errorf("submodule %s expects exactly two operands, got %d", kind, len(pair))
			}
			s.Kind = SubmProduct
			s.ProductOf = kind
			s.A, s.B = pair[0], pair[1]
			return nil
		}
	}

	if raw, ok := peek["rooted"]; ok {
		var pair []*SubmoduleRef
		if err := json.Unmarshal(raw, &pair); err != nil {
			return fmt.Errorf("submodule rooted: %w", err)
		}
		if len(pair) != 2 {
			return fmt.Errorf("submodule rooted expects exactly two operands, got %d", len(pair))
		}
		rootRaw, ok := peek["root"]
		if !ok {
			return fmt.Errorf("root product missing \"root\"")
		}
		if err := json.Unmarshal(rootRaw, &s.Root); err != nil {
			return fmt.Errorf("submodule root: %w", err)
		}
		s.Kind = SubmProduct
		s.ProductOf = ProductRoot
		s.A, s.B = pair[0], pair[1]
		return nil
	}

	// Plain
	var plain struct {
		Name   string     `json:"name"`
		Module string     `json:"module"`
		Size   *string    `json:"size"`
		Params []RawParam `json:"params"`
	}
	if err := json.Unmarshal(data, &plain); err != nil {
		return fmt.Errorf("plain submodule: %w", err)
	}
	if plain.Name == "" || plain.Module == "" {
		return fmt.Errorf("plain submodule requires \"name\" and \"module\"")
	}
	s.Kind = SubmPlain
	s.Name = plain.Name
	s.Module = plain.Module
	s.Size = plain.Size
	s.Params = plain.Params
	return nil
}

// MarshalJSON encodes s back into the schema UnmarshalJSON accepts, the
// inverse mapping used by dump/diff and by patch re-encoding.
func (s SubmoduleRef) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case SubmConditional:
		m := map[string]interface{}{"if": s.Condition, "then": s.Then}
		if s.Else != nil {
			m["else"] = s.Else
		}
		return json.Marshal(m)
	case SubmProduct:
		if s.ProductOf == ProductRoot {
			return json.Marshal(map[string]interface{}{
				"rooted": []*SubmoduleRef{s.A, s.B},
				"root":   s.Root,
			})
		}
		return json.Marshal(map[string]interface{}{string(s.ProductOf): []*SubmoduleRef{s.A, s.B}})
	default:
		return json.Marshal(struct {
			Name   string     `json:"name"`
			Module string     `json:"module"`
			Size   *string    `json:"size,omitempty"`
			Params []RawParam `json:"params,omitempty"`
		}{s.Name, s.Module, s.Size, s.Params})
	}
}

// ConnKind discriminates the Connection union.
type ConnKind int

const (
	ConnPlain ConnKind = iota
	ConnLoop
	ConnConditional
	ConnAllMatch
)

// Connection is the tagged union of spec.md §3: Plain, Loop, Conditional,
// or All-match.
type Connection struct {
	Kind ConnKind

	// Plain
	From, To   string
	Attributes *string

	// Loop
	Var        string
	Start, End string
	Body       *Connection

	// Conditional
	Condition string
	Then      *Connection
	Else      *Connection

	// All-match
	Regex string
}

// UnmarshalJSON decodes a Connection per spec.md §6.1.
func (c *Connection) UnmarshalJSON(data []byte) error {
	var peek map[string]json.RawMessage
	if err := json.Unmarshal(data, &peek); err != nil {
		return err
	}

	if raw, ok := peek["loop"]; ok {
		c.Kind = ConnLoop
		if err := json.Unmarshal(raw, &c.Var); err != nil {
			return fmt.Errorf("connection loop: %w", err)
		}
		startRaw, hasStart := peek["start"]
		endRaw, hasEnd := peek["end"]
		connRaw, hasConn := peek["conn"]
		if !hasStart || !hasEnd || !hasConn {
			return fmt.Errorf("loop connection requires \"start\", \"end\" and \"conn\"")
		}
		if err := json.Unmarshal(startRaw, &c.Start); err != nil {
			return fmt.Errorf("connection start: %w", err)
		}
		if err := json.Unmarshal(endRaw, &c.End); err != nil {
			return fmt.Errorf("connection end: %w", err)
		}
		c.Body = &Connection{}
		if err := json.Unmarshal(connRaw, c.Body); err != nil {
			return fmt.Errorf("connection conn: %w", err)
		}
		return nil
	}

	if raw, ok := peek["if"]; ok {
		c.Kind = ConnConditional
		if err := json.Unmarshal(raw, &c.Condition); err != nil {
			return fmt.Errorf("connection if: %w", err)
		}
		thenRaw, ok := peek["then"]
		if !ok {
			return fmt.Errorf("conditional connection missing \"then\"")
		}
		c.Then = &Connection{}
		if err := json.Unmarshal(thenRaw, c.Then); err != nil {
			return fmt.Errorf("connection then: %w", err)
		}
		if elseRaw, ok := peek["else"]; ok {
			c.Else = &Connection{}
			if err := json.Unmarshal(elseRaw, c.Else); err != nil {
				return fmt.Errorf("connection else: %w", err)
			}
		}
		return nil
	}

	if raw, ok := peek["all-match"]; ok {
		c.Kind = ConnAllMatch
		if err := json.Unmarshal(raw, &c.Regex); err != nil {
			return fmt.Errorf("connection all-match: %w", err)
		}
		if attrsRaw, ok := peek["attributes"]; ok {
			var attrs string
			if err := json.Unmarshal(attrsRaw, &attrs); err != nil {
				return fmt.Errorf("connection attributes: %w", err)
			}
			c.Attributes = &attrs
		}
		return nil
	}

	var plain struct {
		From       string  `json:"from"`
		To         string  `json:"to"`
		Attributes *string `json:"attributes"`
	}
	if err := json.Unmarshal(data, &plain); err != nil {
		return fmt.Errorf("plain connection: %w", err)
	}
	if plain.From == "" || plain.To == "" {
		return fmt.Errorf("plain connection requires \"from\" and \"to\"")
	}
	c.Kind = ConnPlain
	c.From = plain.From
	c.To = plain.To
	c.Attributes = plain.Attributes
	return nil
}

// MarshalJSON encodes c back into the schema UnmarshalJSON accepts.
func (c Connection) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case ConnLoop:
		return json.Marshal(map[string]interface{}{
			"loop": c.Var, "start": c.Start, "end": c.End, "conn": c.Body,
		})
	case ConnConditional:
		m := map[string]interface{}{"if": c.Condition, "then": c.Then}
		if c.Else != nil {
			m["else"] = c.Else
		}
		return json.Marshal(m)
	case ConnAllMatch:
		m := map[string]interface{}{"all-match": c.Regex}
		if c.Attributes != nil {
			m["attributes"] = *c.Attributes
		}
		return json.Marshal(m)
	default:
		return json.Marshal(struct {
			From       string  `json:"from"`
			To         string  `json:"to"`
			Attributes *string `json:"attributes,omitempty"`
		}{c.From, c.To, c.Attributes})
	}
}

// Replace is a regex-matched node substitution, per spec.md §3.
type Replace struct {
	Regex     string
	Submodule *SubmoduleRef
}

// UnmarshalJSON decodes {"nodes": regex, "with": SubmoduleRef}.
func (r *Replace) UnmarshalJSON(data []byte) error {
	var raw struct {
		Nodes string        `json:"nodes"`
		With  *SubmoduleRef `json:"with"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Nodes == "" || raw.With == nil {
		return fmt.Errorf("replace requires \"nodes\" and \"with\"")
	}
	r.Regex = raw.Nodes
	r.Submodule = raw.With
	return nil
}

// MarshalJSON encodes r back as {"nodes": regex, "with": SubmoduleRef}.
func (r Replace) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Nodes string        `json:"nodes"`
		With  *SubmoduleRef `json:"with"`
	}{r.Regex, r.Submodule})
}

// ModuleKind discriminates a simple (leaf) module from a compound
// (container) one.
type ModuleKind int

const (
	ModuleSimple ModuleKind = iota
	ModuleCompound
)

// Module is a named template: either a simple leaf with gates, or a
// compound container of submodules/connections/replacements, per
// spec.md §3.
type Module struct {
	Name        string
	Kind        ModuleKind
	Attributes  *string
	Params      []RawParam
	Gates       []Gate
	Submodules  []SubmoduleRef
	Connections []Connection
	Replace     []Replace
}

// Network is the elaboration entry point: the root module name plus
// top-level parameter bindings, per spec.md §3.
type Network struct {
	Module string
	Params []RawParam
}

// NetworkDefinition is the full deserialized input: the module catalogue
// plus the (at most one) network entry, per spec.md §3.
type NetworkDefinition struct {
	Modules []Module
	Network *Network
}

// entry is the top-level tagged-union envelope of spec.md §6.1: each JSON
// array element has exactly one of "module", "simplemodule", "network".
type entry struct {
	Module       *moduleJSON  `json:"module"`
	SimpleModule *moduleJSON  `json:"simplemodule"`
	Network      *networkJSON `json:"network"`
}

type moduleJSON struct {
	Name        string         `json:"name"`
	Attributes  *string        `json:"attributes"`
	Params      []RawParam     `json:"params"`
	Gates       []Gate         `json:"gates"`
	Submodules  []SubmoduleRef `json:"submodules"`
	Connections []Connection   `json:"connections"`
	Replace     []Replace      `json:"replace"`
}

type networkJSON struct {
	Module string     `json:"module"`
	Params []RawParam `json:"params"`
}

// ParseNetworkDefinition decodes one JSON input file's top-level array into
// a NetworkDefinition. Multiple files are combined with MergeDefinitions.
func ParseNetworkDefinition(data []byte) (*NetworkDefinition, error) {
	var entries []entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, wrapErr(ErrJSON, err, "%s", err.Error())
	}

	def := &NetworkDefinition{}
	for i, e := range entries {
		switch {
		case e.Module != nil && e.SimpleModule != nil:
			return nil, newErr(ErrToken, "entry %d has both \"module\" and \"simplemodule\"", i)
		case e.Module != nil:
			def.Modules = append(def.Modules, moduleFromJSON(*e.Module, ModuleCompound))
		case e.SimpleModule != nil:
			def.Modules = append(def.Modules, moduleFromJSON(*e.SimpleModule, ModuleSimple))
		case e.Network != nil:
			if def.Network != nil {
				return nil, newErr(ErrToken, "multiple \"network\" entries")
			}
			def.Network = &Network{Module: e.Network.Module, Params: e.Network.Params}
		default:
			return nil, newErr(ErrToken, "entry %d has none of \"module\", \"simplemodule\", \"network\"", i)
		}
	}
	return def, nil
}

// MarshalJSON encodes def back into the top-level tagged-union array
// schema of spec.md §6.1, the inverse of ParseNetworkDefinition. Used by
// the "dump" CLI verb and by patch re-encoding.
func (def NetworkDefinition) MarshalJSON() ([]byte, error) {
	entries := make([]interface{}, 0, len(def.Modules)+1)
	for _, m := range def.Modules {
		mj := moduleJSON{
			Name: m.Name, Attributes: m.Attributes, Params: m.Params,
			Gates: m.Gates, Submodules: m.Submodules,
			Connections: m.Connections, Replace: m.Replace,
		}
		if m.Kind == ModuleSimple {
			entries = append(entries, map[string]interface{}{"simplemodule": mj})
		} else {
			entries = append(entries, map[string]interface{}{"module": mj})
		}
	}
	if def.Network != nil {
		entries = append(entries, map[string]interface{}{
			"network": networkJSON{Module: def.Network.Module, Params: def.Network.Params},
		})
	}
	return json.Marshal(entries)
}

func moduleFromJSON(m moduleJSON, kind ModuleKind) Module {
	return Module{
		Name:        m.Name,
		Kind:        kind,
		Attributes:  m.Attributes,
		Params:      m.Params,
		Gates:       m.Gates,
		Submodules:  m.Submodules,
		Connections: m.Connections,
		Replace:     m.Replace,
	}
}
