// Package tsfile builds TypeScript source files from structured declarations.
//
// A SourceFile collects import and function declarations and only turns them into text in
// Render, so callers can inspect what was generated independently of formatting.
package tsfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

var (
	ErrEmptyModuleSpecifier = errors.New("tsfile: empty module specifier")
	ErrInvalidIdentifier    = errors.New("tsfile: invalid identifier")
	ErrParameterIndex       = errors.New("tsfile: parameter index out of range")
)

var identifierRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// QuoteKind selects the string delimiter used for module specifiers.
type QuoteKind string

const (
	QuoteSingle QuoteKind = "'"
	QuoteDouble QuoteKind = `"`
)

// ImportDeclaration is a named import: import { A, B } from 'module'.
type ImportDeclaration struct {
	ModuleSpecifier string
	NamedImports    []string
}

// Option configures a SourceFile.
type Option func(*SourceFile)

// WithIndent sets the indentation unit for function bodies.
func WithIndent(indent string) Option {
	return func(f *SourceFile) { f.indent = indent }
}

// WithQuote sets the quote kind for module specifiers.
func WithQuote(q QuoteKind) Option {
	return func(f *SourceFile) { f.quote = q }
}

// WithHeader sets a leading comment block written verbatim before the imports.
func WithHeader(header string) Option {
	return func(f *SourceFile) { f.header = header }
}

// SourceFile is a TypeScript file under construction. It is not safe for concurrent use.
type SourceFile struct {
	path      string
	indent    string
	quote     QuoteKind
	header    string
	imports   []ImportDeclaration
	functions []*Function
}

// New returns an empty source file that Save writes to path.
func New(path string, opts ...Option) *SourceFile {
	f := &SourceFile{
		path:   path,
		indent: "    ",
		quote:  QuoteSingle,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Path returns the file path passed to New.
func (f *SourceFile) Path() string {
	return f.path
}

// AddImportDeclarations appends decls in order. Nothing is appended if any declaration is
// rejected.
func (f *SourceFile) AddImportDeclarations(decls []ImportDeclaration) error {
	for _, d := range decls {
		if d.ModuleSpecifier == "" {
			return ErrEmptyModuleSpecifier
		}
	}
	for _, d := range decls {
		f.imports = append(f.imports, ImportDeclaration{
			ModuleSpecifier: d.ModuleSpecifier,
			NamedImports:    append([]string(nil), d.NamedImports...),
		})
	}
	return nil
}

// AddFunction appends a function declaration and returns its handle. Duplicate names are
// accepted.
func (f *SourceFile) AddFunction(s FunctionStructure) (*Function, error) {
	if !identifierRe.MatchString(s.Name) {
		return nil, fmt.Errorf("%w: function name %q", ErrInvalidIdentifier, s.Name)
	}
	fn := NewFunction(s)
	f.functions = append(f.functions, fn)
	return fn, nil
}

// Imports returns the import declarations in append order.
func (f *SourceFile) Imports() []ImportDeclaration {
	out := make([]ImportDeclaration, len(f.imports))
	for i, d := range f.imports {
		out[i] = ImportDeclaration{
			ModuleSpecifier: d.ModuleSpecifier,
			NamedImports:    append([]string(nil), d.NamedImports...),
		}
	}
	return out
}

// Functions returns the function handles in append order.
func (f *SourceFile) Functions() []*Function {
	return append([]*Function(nil), f.functions...)
}

// Save renders the file and writes it to its path, creating parent directories.
func (f *SourceFile) Save() error {
	out, err := f.Render()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(f.path, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	return nil
}
