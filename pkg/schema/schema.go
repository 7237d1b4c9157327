// Package schema loads form definitions from YAML and builds the matching
// control trees.
//
// A schema document is a tree of nodes. A node is either a leaf:
//
//	value: ""
//	disabled: false
//	validators: [required, email]
//
// a group:
//
//	group:
//	  name: {value: "", validators: [required]}
//	  age:  {value: 0, validators: ["min=18"]}
//
// or an array:
//
//	array:
//	  - value: ""
//	  - value: ""
//
// Bare scalars and bare sequences are shorthand for leaf and array nodes,
// so `name: ""` and `tags: [a, b]` work inside a group mapping. Validator
// names resolve through the validators package: stock names first
// ("required", "minlength=2", "pattern=[a-z]+"), any other name as a
// go-playground/validator tag expression ("email", "uuid4", "oneof=a b").
package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	formerrors "github.com/go-drift/forms/pkg/errors"
	"github.com/go-drift/forms/pkg/forms"
	"github.com/go-drift/forms/pkg/forms/validators"
)

// Node is one control definition within a schema document.
type Node struct {
	// Value is a leaf node's initial value.
	Value any
	// Disabled exempts the control from validation at construction.
	Disabled bool
	// Validators names the control's validators, in order.
	Validators []string
	// Group holds a group node's children by name.
	Group map[string]*Node
	// Array holds an array node's children in order.
	Array []*Node
}

// rawNode is Node's explicit YAML mapping form.
type rawNode struct {
	Value      any              `yaml:"value"`
	Disabled   bool             `yaml:"disabled"`
	Validators []string         `yaml:"validators"`
	Group      map[string]*Node `yaml:"group"`
	Array      []*Node          `yaml:"array"`
}

// UnmarshalYAML accepts the explicit mapping form plus the scalar and
// sequence shorthands.
func (n *Node) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&n.Value)
	case yaml.SequenceNode:
		return node.Decode(&n.Array)
	case yaml.MappingNode:
		var raw rawNode
		if err := node.Decode(&raw); err != nil {
			return err
		}
		n.Value = raw.Value
		n.Disabled = raw.Disabled
		n.Validators = raw.Validators
		n.Group = raw.Group
		n.Array = raw.Array
		return nil
	default:
		return fmt.Errorf("line %d: unsupported YAML node kind", node.Line)
	}
}

// Schema is a parsed form definition.
type Schema struct {
	// Root is the document's top-level node, usually a group.
	Root *Node
}

// Parse reads a schema from YAML source.
func Parse(data []byte) (*Schema, error) {
	var root Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse form schema: %w", err)
	}
	return &Schema{Root: &root}, nil
}

// Load reads a schema file.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read form schema: %w", err)
	}
	return Parse(data)
}

// Build constructs the control tree the schema describes.
func (s *Schema) Build() (forms.Control, error) {
	if s == nil || s.Root == nil {
		return nil, &formerrors.SchemaError{Path: "", Reason: "schema has no root node"}
	}
	return buildNode(s.Root, "")
}

func buildNode(n *Node, path string) (forms.Control, error) {
	if n == nil {
		return nil, &formerrors.SchemaError{Path: path, Reason: "node is empty"}
	}
	if n.Group != nil && n.Array != nil {
		return nil, &formerrors.SchemaError{Path: path, Reason: "node declares both group and array"}
	}
	if (n.Group != nil || n.Array != nil) && n.Value != nil {
		return nil, &formerrors.SchemaError{Path: path, Reason: "composite node declares a value"}
	}

	vs, err := namedValidators(n.Validators, path)
	if err != nil {
		return nil, err
	}

	switch {
	case n.Group != nil:
		children := make(map[string]forms.Control, len(n.Group))
		for name, child := range n.Group {
			built, err := buildNode(child, join(path, name))
			if err != nil {
				return nil, err
			}
			children[name] = built
		}
		g := forms.NewGroup(children, vs...)
		if n.Disabled {
			g.Disable()
		}
		return g, nil

	case n.Array != nil:
		children := make([]forms.Control, len(n.Array))
		for i, child := range n.Array {
			built, err := buildNode(child, join(path, fmt.Sprint(i)))
			if err != nil {
				return nil, err
			}
			children[i] = built
		}
		a := forms.NewArray(children, vs...)
		if n.Disabled {
			a.Disable()
		}
		return a, nil

	default:
		return forms.NewField(forms.State{Value: n.Value, Disabled: n.Disabled}, vs...), nil
	}
}

func namedValidators(names []string, path string) ([]forms.Validator, error) {
	if len(names) == 0 {
		return nil, nil
	}
	vs := make([]forms.Validator, 0, len(names))
	for _, name := range names {
		v, err := validators.Named(name)
		if err != nil {
			return nil, &formerrors.SchemaError{Path: path, Reason: "unresolvable validator", Err: err}
		}
		vs = append(vs, v)
	}
	return vs, nil
}

func join(path, segment string) string {
	if path == "" {
		return segment
	}
	return path + forms.PathDelimiter + segment
}
