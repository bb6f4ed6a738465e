// Package dmmf holds the data model meta format: the introspected description of a Prisma
// schema that Prisma hands to generators.
package dmmf

import (
	"encoding/json"
	"fmt"
	"os"
)

// FieldKind classifies a model field.
type FieldKind string

const (
	KindScalar      FieldKind = "scalar"
	KindObject      FieldKind = "object"
	KindEnum        FieldKind = "enum"
	KindUnsupported FieldKind = "unsupported"
)

// Field describes a single model field.
type Field struct {
	Name            string    `json:"name"`
	Kind            FieldKind `json:"kind"`
	Type            string    `json:"type"`
	IsList          bool      `json:"isList"`
	IsRequired      bool      `json:"isRequired"`
	IsUnique        bool      `json:"isUnique"`
	IsID            bool      `json:"isId"`
	IsReadOnly      bool      `json:"isReadOnly,omitempty"`
	IsUpdatedAt     bool      `json:"isUpdatedAt,omitempty"`
	HasDefaultValue bool      `json:"hasDefaultValue"`
	// Default is the raw default value or function descriptor, if any.
	Default            json.RawMessage `json:"default,omitempty"`
	RelationName       string          `json:"relationName,omitempty"`
	RelationFromFields []string        `json:"relationFromFields,omitempty"`
	RelationToFields   []string        `json:"relationToFields,omitempty"`
	Documentation      string          `json:"documentation,omitempty"`
}

// Model describes one data model.
type Model struct {
	Name          string  `json:"name"`
	DBName        *string `json:"dbName"`
	Fields        []Field `json:"fields"`
	Documentation string  `json:"documentation,omitempty"`
}

// EnumValue is one member of an enum.
type EnumValue struct {
	Name   string  `json:"name"`
	DBName *string `json:"dbName"`
}

// Enum describes a schema enum.
type Enum struct {
	Name   string      `json:"name"`
	Values []EnumValue `json:"values"`
	DBName *string     `json:"dbName,omitempty"`
}

// Datamodel is the model section of a document.
type Datamodel struct {
	Models []Model `json:"models"`
	Enums  []Enum  `json:"enums"`
}

// Document is the root of a DMMF payload. Only the datamodel section is decoded.
type Document struct {
	Datamodel Datamodel `json:"datamodel"`
}

// ModelNames returns the model names in schema order.
func (d *Document) ModelNames() []string {
	if d == nil {
		return nil
	}
	names := make([]string, 0, len(d.Datamodel.Models))
	for _, m := range d.Datamodel.Models {
		names = append(names, m.Name)
	}
	return names
}

// Models returns the models in schema order. A nil document has none.
func (d *Document) Models() []Model {
	if d == nil {
		return nil
	}
	return d.Datamodel.Models
}

// Parse decodes a DMMF JSON document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode dmmf: %w", err)
	}
	return &doc, nil
}

// Load reads and decodes a DMMF JSON file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dmmf: %w", err)
	}
	return Parse(data)
}
