package tsfile

import (
	"bytes"
	"strings"
	"text/template"
)

type sourceTemplateData struct {
	Header    string
	Indent    string
	Quote     QuoteKind
	Imports   []ImportDeclaration
	Functions []*Function
}

var sourceTmpl = template.Must(template.
	New("source").
	Funcs(template.FuncMap{
		"join":   strings.Join,
		"quote":  quote,
		"params": formatParams,
		"body":   indentBody,
	}).
	Parse(sourceTemplate))

// Render serialises the file. Imports come first in append order, then functions, each
// separated by a blank line.
func (f *SourceFile) Render() ([]byte, error) {
	data := sourceTemplateData{
		Header:    strings.TrimRight(f.header, "\n"),
		Indent:    f.indent,
		Quote:     f.quote,
		Imports:   f.imports,
		Functions: f.functions,
	}
	var buf bytes.Buffer
	if err := sourceTmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func quote(q QuoteKind, s string) string {
	r := strings.NewReplacer(`\`, `\\`, string(q), `\`+string(q))
	return string(q) + r.Replace(s) + string(q)
}

func formatParams(params []Parameter) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		s := p.Name
		if p.HasQuestionToken {
			s += "?"
		}
		if p.Type != "" {
			s += ": " + p.Type
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", ")
}

// indentBody indents each non-empty line and terminates every line with a newline.
func indentBody(body, indent string) string {
	if body == "" {
		return ""
	}
	var b strings.Builder
	for _, l := range strings.Split(body, "\n") {
		if l != "" {
			b.WriteString(indent)
			b.WriteString(l)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

const sourceTemplate = `{{- with .Header }}{{ . }}
{{ end -}}
{{ range .Imports }}import { {{ join .NamedImports ", " }} } from {{ quote $.Quote .ModuleSpecifier }};
{{ end -}}
{{ range $i, $fn := .Functions }}{{ if or $i $.Imports }}
{{ end }}{{ if $fn.IsExported }}export {{ end }}function {{ $fn.Name }}({{ params $fn.Parameters }}){{ with $fn.ReturnType }}: {{ . }}{{ end }} {
{{ body $fn.BodyText $.Indent }}}
{{ end -}}
`
