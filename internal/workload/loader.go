// Package workload ingests workload documents: YAML files declaring
// bindings, activity-level params, and a set of operation templates.
// Field order inside an op is significant, so ops are decoded through
// yaml.Node rather than plain maps.
package workload

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"cyclebind/internal/activity"
	"cyclebind/internal/bindings"
	"cyclebind/internal/command"
	"cyclebind/internal/logging"
	"cyclebind/internal/template"
)

// Reserved keys inside an op entry. Anything else is treated as an op
// field when no explicit fields block is present.
const (
	keyName     = "name"
	keyFields   = "fields"
	keyParams   = "params"
	keyBindings = "bindings"
	keyStmt     = "stmt"
)

// Document is one loaded workload file.
type Document struct {
	Description string
	Bindings    map[string]string
	Params      map[string]any
	Ops         []*template.OpTemplate
}

// Load reads and parses a workload document from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("workload: read %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("workload: %s: %w", path, err)
	}
	logging.Workload("Loaded workload %s: %d ops, %d bindings", path, len(doc.Ops), len(doc.Bindings))
	return doc, nil
}

// Parse parses a workload document from YAML bytes.
func Parse(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("top level must be a mapping")
	}

	doc := &Document{
		Bindings: map[string]string{},
		Params:   map[string]any{},
	}

	var opsNode *yaml.Node
	for i := 0; i+1 < len(top.Content); i += 2 {
		key, val := top.Content[i].Value, top.Content[i+1]
		switch key {
		case "description":
			doc.Description = val.Value
		case keyBindings:
			if err := val.Decode(&doc.Bindings); err != nil {
				return nil, fmt.Errorf("bindings: %w", err)
			}
		case keyParams:
			if err := val.Decode(&doc.Params); err != nil {
				return nil, fmt.Errorf("params: %w", err)
			}
		case "ops":
			opsNode = val
		default:
			return nil, fmt.Errorf("unknown top-level key %q", key)
		}
	}

	if opsNode == nil {
		return nil, fmt.Errorf("document has no ops")
	}
	if err := doc.parseOps(opsNode); err != nil {
		return nil, err
	}
	return doc, nil
}

func (d *Document) parseOps(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		for i, entry := range node.Content {
			op, err := d.parseOp(fmt.Sprintf("op%d", i+1), entry)
			if err != nil {
				return err
			}
			d.Ops = append(d.Ops, op)
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			op, err := d.parseOp(node.Content[i].Value, node.Content[i+1])
			if err != nil {
				return err
			}
			d.Ops = append(d.Ops, op)
		}
	default:
		return fmt.Errorf("ops must be a sequence or a mapping")
	}
	return nil
}

func (d *Document) parseOp(defaultName string, node *yaml.Node) (*template.OpTemplate, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("op %q must be a mapping", defaultName)
	}

	name := defaultName
	stmt := ""
	opParams := map[string]any{}
	opBindings := map[string]string{}
	fields := template.NewFieldMap()
	var fieldsNode *yaml.Node

	// First pass picks off reserved keys; remaining keys become fields
	// only when no explicit fields block exists.
	inline := template.NewFieldMap()
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i].Value, node.Content[i+1]
		switch key {
		case keyName:
			name = val.Value
		case keyStmt:
			stmt = val.Value
		case keyFields:
			fieldsNode = val
		case keyParams:
			if err := val.Decode(&opParams); err != nil {
				return nil, fmt.Errorf("op %q params: %w", name, err)
			}
		case keyBindings:
			if err := val.Decode(&opBindings); err != nil {
				return nil, fmt.Errorf("op %q bindings: %w", name, err)
			}
		default:
			var v any
			if err := val.Decode(&v); err != nil {
				return nil, fmt.Errorf("op %q field %q: %w", name, key, err)
			}
			inline.Set(key, v)
		}
	}

	if fieldsNode != nil {
		if fieldsNode.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("op %q fields must be a mapping", name)
		}
		for i := 0; i+1 < len(fieldsNode.Content); i += 2 {
			key, val := fieldsNode.Content[i].Value, fieldsNode.Content[i+1]
			var v any
			if err := val.Decode(&v); err != nil {
				return nil, fmt.Errorf("op %q field %q: %w", name, key, err)
			}
			fields.Set(key, v)
		}
	} else {
		fields = inline
	}

	// Op-level bindings extend and override document-level ones.
	merged := make(map[string]string, len(d.Bindings)+len(opBindings))
	for k, v := range d.Bindings {
		merged[k] = v
	}
	for k, v := range opBindings {
		merged[k] = v
	}

	op := template.NewOpTemplate(name, fields, merged, opParams)
	if stmt != "" {
		op.SetStatement(stmt)
	}
	return op, nil
}

// ActivityConfig builds the activity-level configuration from the
// document's params block.
func (d *Document) ActivityConfig() *activity.Config {
	return activity.NewConfig(d.Params)
}

// Op returns the named op, or nil.
func (d *Document) Op(name string) *template.OpTemplate {
	for _, op := range d.Ops {
		if op.Name() == name {
			return op
		}
	}
	return nil
}

// CompileAll compiles every op in the document against reg. It fails
// on the first op that cannot compile, naming it.
func (d *Document) CompileAll(reg *bindings.Registry) ([]*command.CompiledCommand, error) {
	acfg := d.ActivityConfig()
	out := make([]*command.CompiledCommand, 0, len(d.Ops))
	for _, op := range d.Ops {
		c, err := command.CompileWith(reg, op, acfg)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
