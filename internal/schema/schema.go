// Package schema describes the shape of Tixte API resources so scripts can
// discover field names for --query and --template expressions without
// consulting the API docs.
package schema

import (
	"fmt"
	"sort"
)

// Schema is a JSON Schema-like description of a resource or field.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
}

// Lookup returns the schema for a resource name.
func Lookup(name string) (*Schema, error) {
	s, ok := catalog[name]
	if !ok {
		return nil, fmt.Errorf("unknown resource %q", name)
	}
	return s, nil
}

// Names returns the catalogued resource names, sorted.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Field constructors used by the catalog in resources.go.

func String(desc string) *Schema { return &Schema{Type: "string", Description: desc} }
func Int(desc string) *Schema    { return &Schema{Type: "integer", Description: desc} }
func Bool(desc string) *Schema   { return &Schema{Type: "boolean", Description: desc} }
func Map(desc string) *Schema    { return &Schema{Type: "object", Description: desc} }

func Timestamp(desc string) *Schema {
	return &Schema{Type: "integer", Description: desc + " (Unix timestamp)"}
}

func Enum(desc string, values ...string) *Schema {
	return &Schema{Type: "string", Description: desc, Enum: values}
}

func Array(items *Schema, desc string) *Schema {
	return &Schema{Type: "array", Description: desc, Items: items}
}

func Object(desc string, props map[string]*Schema, required ...string) *Schema {
	return &Schema{Type: "object", Description: desc, Properties: props, Required: required}
}
