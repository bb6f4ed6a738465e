package schema

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	assignRe = regexp.MustCompile(`^(\w+)\s*=\s*(.+)$`)
	envRe    = regexp.MustCompile(`^env\(\s*"([^"]+)"\s*\)$`)
)

// Value is the right-hand side of a generator or datasource assignment.
type Value struct {
	// Raw is the text as written in the schema.
	Raw string
	// Literal is the unquoted string, set when Raw is a string literal.
	Literal string
	// EnvVar is the variable name, set when Raw is env("NAME").
	EnvVar string
	// Quoted reports whether Raw is a string literal, including "".
	Quoted bool
}

// ConfigBlock is a generator or datasource block.
type ConfigBlock struct {
	Name   string
	Config map[string]Value
}

// Get returns the value for key and whether it was set.
func (b ConfigBlock) Get(key string) (Value, bool) {
	v, ok := b.Config[key]
	return v, ok
}

// Generators returns the generator blocks in declaration order.
func Generators(input []byte) ([]ConfigBlock, error) {
	return configBlocks(input, "generator")
}

// Datasources returns the datasource blocks in declaration order.
func Datasources(input []byte) ([]ConfigBlock, error) {
	return configBlocks(input, "datasource")
}

func configBlocks(input []byte, kind string) ([]ConfigBlock, error) {
	blocks, err := ParseBlocks(input)
	if err != nil {
		return nil, err
	}
	var out []ConfigBlock
	for _, b := range blocks {
		if b.Kind != kind {
			continue
		}
		cb := ConfigBlock{Name: b.Name, Config: map[string]Value{}}
		for _, line := range b.Lines {
			m := assignRe.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			cb.Config[m[1]] = parseValue(strings.TrimSpace(m[2]))
		}
		out = append(out, cb)
	}
	return out, nil
}

func parseValue(raw string) Value {
	v := Value{Raw: raw}
	if m := envRe.FindStringSubmatch(raw); m != nil {
		v.EnvVar = m[1]
		return v
	}
	if s, err := strconv.Unquote(raw); err == nil && strings.HasPrefix(raw, `"`) {
		v.Literal, v.Quoted = s, true
	}
	return v
}
