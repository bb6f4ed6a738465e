// Package schema reads Prisma schema files without the Prisma engines.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/TechXTT/prisma-factory/pkg/dmmf"
)

var (
	ErrNoBlocks          = errors.New("no model, enum, generator or datasource blocks found")
	ErrUnterminatedBlock = errors.New("unterminated block")
)

var (
	blockRe    = regexp.MustCompile(`^(model|enum|generator|datasource|view|type)\s+(\w+)\s*\{\s*(\})?\s*$`)
	mapRe      = regexp.MustCompile(`@@?map\(\s*(?:name:\s*)?"([^"]*)"\s*\)`)
	relNameRe  = regexp.MustCompile(`@relation\(\s*(?:name:\s*)?"([^"]*)"`)
	relListRe  = regexp.MustCompile(`(fields|references):\s*\[([^\]]*)\]`)
	defaultRe  = regexp.MustCompile(`@default\(`)
	funcCallRe = regexp.MustCompile(`^(\w+)\((.*)\)$`)
)

var scalarTypes = map[string]bool{
	"String":   true,
	"Boolean":  true,
	"Int":      true,
	"BigInt":   true,
	"Float":    true,
	"Decimal":  true,
	"DateTime": true,
	"Json":     true,
	"Bytes":    true,
}

// Block is one top-level block of a schema file.
type Block struct {
	Kind string
	Name string
	// Line is the 1-based line of the block header.
	Line int
	// Lines holds the body with comments stripped. Doc comments (///) are kept.
	Lines []string
}

// ParseBlocks splits a schema into its top-level blocks.
func ParseBlocks(input []byte) ([]Block, error) {
	var (
		blocks  []Block
		current *Block
	)
	for i, raw := range strings.Split(string(input), "\n") {
		trimmed := strings.TrimSpace(raw)
		if current == nil {
			if strings.HasPrefix(trimmed, "//") {
				continue
			}
			m := blockRe.FindStringSubmatch(stripComment(trimmed))
			if m == nil {
				continue
			}
			b := Block{Kind: m[1], Name: m[2], Line: i + 1}
			if m[3] != "" {
				blocks = append(blocks, b)
				continue
			}
			current = &b
			continue
		}
		if strings.HasPrefix(trimmed, "///") {
			current.Lines = append(current.Lines, trimmed)
			continue
		}
		line := strings.TrimSpace(stripComment(trimmed))
		if line == "}" {
			blocks = append(blocks, *current)
			current = nil
			continue
		}
		if line != "" {
			current.Lines = append(current.Lines, line)
		}
	}
	if current != nil {
		return nil, fmt.Errorf("%w: %s %s at line %d", ErrUnterminatedBlock, current.Kind, current.Name, current.Line)
	}
	if len(blocks) == 0 {
		return nil, ErrNoBlocks
	}
	return blocks, nil
}

// Parse reads a Prisma schema into a document holding its models and enums in declaration
// order.
func Parse(input []byte) (*dmmf.Document, error) {
	blocks, err := ParseBlocks(input)
	if err != nil {
		return nil, err
	}

	enums := map[string]bool{}
	for _, b := range blocks {
		if b.Kind == "enum" {
			enums[b.Name] = true
		}
	}

	doc := &dmmf.Document{}
	doc.Datamodel.Models = []dmmf.Model{}
	doc.Datamodel.Enums = []dmmf.Enum{}
	for _, b := range blocks {
		switch b.Kind {
		case "model":
			doc.Datamodel.Models = append(doc.Datamodel.Models, parseModel(b, enums))
		case "enum":
			doc.Datamodel.Enums = append(doc.Datamodel.Enums, parseEnum(b))
		}
	}
	return doc, nil
}

func parseModel(b Block, enums map[string]bool) dmmf.Model {
	model := dmmf.Model{Name: b.Name, Fields: []dmmf.Field{}}
	var doc []string
	for _, line := range b.Lines {
		if strings.HasPrefix(line, "///") {
			doc = append(doc, strings.TrimSpace(strings.TrimPrefix(line, "///")))
			continue
		}
		if strings.HasPrefix(line, "@@") {
			if m := mapRe.FindStringSubmatch(line); m != nil && strings.HasPrefix(line, "@@map") {
				name := m[1]
				model.DBName = &name
			}
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}
		f := parseField(parts[0], parts[1], line, enums)
		f.Documentation = strings.Join(doc, "\n")
		doc = nil
		model.Fields = append(model.Fields, f)
	}
	for i := range model.Fields {
		f := &model.Fields[i]
		if f.Kind == dmmf.KindObject && f.RelationName == "" {
			f.RelationName = defaultRelationName(b.Name, f.Type)
		}
	}
	return model
}

func parseField(name, ptype, line string, enums map[string]bool) dmmf.Field {
	f := dmmf.Field{Name: name, IsRequired: true}
	attrs := strings.TrimSpace(strings.TrimSpace(strings.TrimPrefix(line, name))[len(ptype):])
	if strings.HasSuffix(ptype, "?") {
		f.IsRequired = false
		ptype = strings.TrimSuffix(ptype, "?")
	}
	if strings.HasSuffix(ptype, "[]") {
		f.IsList = true
		ptype = strings.TrimSuffix(ptype, "[]")
	}
	f.Type = ptype
	switch {
	case scalarTypes[ptype]:
		f.Kind = dmmf.KindScalar
	case enums[ptype]:
		f.Kind = dmmf.KindEnum
	case strings.HasPrefix(ptype, "Unsupported("):
		f.Kind = dmmf.KindUnsupported
	default:
		f.Kind = dmmf.KindObject
	}

	f.IsID = hasAttr(attrs, "@id")
	f.IsUnique = hasAttr(attrs, "@unique")
	f.IsUpdatedAt = hasAttr(attrs, "@updatedAt")
	if loc := defaultRe.FindStringIndex(attrs); loc != nil {
		if expr, ok := balanced(attrs[loc[1]:]); ok {
			f.HasDefaultValue = true
			f.Default = defaultValue(expr)
		}
	}
	if f.IsUpdatedAt {
		f.HasDefaultValue = true
	}
	if strings.Contains(attrs, "@relation") {
		if m := relNameRe.FindStringSubmatch(attrs); m != nil {
			f.RelationName = m[1]
		}
		for _, m := range relListRe.FindAllStringSubmatch(attrs, -1) {
			list := splitList(m[2])
			if m[1] == "fields" {
				f.RelationFromFields = list
			} else {
				f.RelationToFields = list
			}
		}
	}
	return f
}

func parseEnum(b Block) dmmf.Enum {
	e := dmmf.Enum{Name: b.Name, Values: []dmmf.EnumValue{}}
	for _, line := range b.Lines {
		if strings.HasPrefix(line, "///") {
			continue
		}
		if strings.HasPrefix(line, "@@") {
			if m := mapRe.FindStringSubmatch(line); m != nil {
				name := m[1]
				e.DBName = &name
			}
			continue
		}
		parts := strings.Fields(line)
		v := dmmf.EnumValue{Name: parts[0]}
		if m := mapRe.FindStringSubmatch(line); m != nil {
			name := m[1]
			v.DBName = &name
		}
		e.Values = append(e.Values, v)
	}
	return e
}

// hasAttr reports whether attrs carries attr as a whole word, so @id does not match @idx.
func hasAttr(attrs, attr string) bool {
	for _, tok := range strings.Fields(attrs) {
		if tok == attr || strings.HasPrefix(tok, attr+"(") {
			return true
		}
	}
	return false
}

// balanced returns the text up to the parenthesis closing an already opened one.
func balanced(s string) (string, bool) {
	depth := 1
	inQuote := false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\\' && inQuote:
			i++
		case c == '"':
			inQuote = !inQuote
		case inQuote:
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return s[:i], true
			}
		}
	}
	return "", false
}

// defaultValue encodes a @default expression the way DMMF does: function calls become
// {"name": ..., "args": [...]}, JSON literals are kept, anything else is a string.
func defaultValue(expr string) json.RawMessage {
	expr = strings.TrimSpace(expr)
	if m := funcCallRe.FindStringSubmatch(expr); m != nil {
		args := []any{}
		for _, a := range splitList(m[2]) {
			args = append(args, a)
		}
		data, _ := json.Marshal(map[string]any{"name": m[1], "args": args})
		return data
	}
	if json.Valid([]byte(expr)) {
		return json.RawMessage(expr)
	}
	data, _ := json.Marshal(expr)
	return data
}

func defaultRelationName(a, b string) string {
	names := []string{a, b}
	sort.Strings(names)
	return names[0] + "To" + names[1]
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// stripComment removes a trailing // comment that is not inside a string literal.
func stripComment(line string) string {
	inQuote := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			if inQuote {
				i++
			}
		case '"':
			inQuote = !inQuote
		case '/':
			if !inQuote && i+1 < len(line) && line[i+1] == '/' {
				return strings.TrimRight(line[:i], " \t")
			}
		}
	}
	return line
}
