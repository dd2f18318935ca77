// Package model loads entity model definitions.
//
// Models are CUE files declaring the entity types the compiler may treat
// as cursor roots, with their properties and property types:
//
//	entities: {
//		Person: {
//			name: "string"
//			age:  "number"
//		}
//	}
//
// The model feeds the compiler's symbol table; without it (or explicit
// --entities flags) no call site qualifies for rewriting.
package model

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Valid property type names.
var validTypes = map[string]bool{
	"string":  true,
	"number":  true,
	"boolean": true,
}

// Entity is one declared entity type.
type Entity struct {
	Name       string
	Properties []Property
}

// Property is a declared entity property.
type Property struct {
	Name string
	Type string
}

// Model is a set of entity declarations in source order.
type Model struct {
	Entities []Entity
}

// EntityNames returns the declared entity type names in source order.
func (m *Model) EntityNames() []string {
	names := make([]string, 0, len(m.Entities))
	for _, e := range m.Entities {
		names = append(names, e.Name)
	}
	return names
}

// Load reads and parses a CUE entity model file.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	return Parse(data, path)
}

// Parse parses CUE entity model source. The filename is used in error
// positions only.
func Parse(data []byte, filename string) (*Model, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}

	entitiesVal := v.LookupPath(cue.ParsePath("entities"))
	if !entitiesVal.Exists() {
		return nil, fmt.Errorf("parse model: missing \"entities\" declaration")
	}

	iter, err := entitiesVal.Fields()
	if err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}

	m := &Model{}
	for iter.Next() {
		entity, err := parseEntity(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		m.Entities = append(m.Entities, entity)
	}
	if len(m.Entities) == 0 {
		return nil, fmt.Errorf("parse model: no entities declared")
	}
	return m, nil
}

func parseEntity(name string, v cue.Value) (Entity, error) {
	iter, err := v.Fields()
	if err != nil {
		return Entity{}, fmt.Errorf("entity %s: %w", name, err)
	}

	entity := Entity{Name: name}
	for iter.Next() {
		propName := iter.Label()
		typeName, err := iter.Value().String()
		if err != nil {
			return Entity{}, fmt.Errorf("entity %s: property %s: type must be a string", name, propName)
		}
		if !validTypes[typeName] {
			return Entity{}, fmt.Errorf("entity %s: property %s: invalid type %q (want string, number or boolean)", name, propName, typeName)
		}
		entity.Properties = append(entity.Properties, Property{Name: propName, Type: typeName})
	}
	return entity, nil
}
