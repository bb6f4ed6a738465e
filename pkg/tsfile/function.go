package tsfile

import (
	"fmt"
	"strings"
)

// FunctionStructure is the initial shape of a function declaration.
type FunctionStructure struct {
	Name       string
	Parameters []Parameter
	ReturnType string
	BodyText   string
	IsExported bool
}

// Parameter is a single function parameter.
type Parameter struct {
	Name             string
	Type             string
	HasQuestionToken bool
}

// Function is a handle to a function declaration in a SourceFile.
type Function struct {
	name       string
	params     []Parameter
	returnType string
	body       string
	exported   bool
}

// NewFunction returns a detached function handle. SourceFile.AddFunction uses it; test doubles
// can too.
func NewFunction(s FunctionStructure) *Function {
	fn := &Function{
		name:       s.Name,
		params:     append([]Parameter(nil), s.Parameters...),
		returnType: s.ReturnType,
		exported:   s.IsExported,
	}
	fn.SetBodyText(s.BodyText)
	return fn
}

func (fn *Function) Name() string { return fn.name }

func (fn *Function) ReturnType() string { return fn.returnType }

func (fn *Function) BodyText() string { return fn.body }

func (fn *Function) IsExported() bool { return fn.exported }

// Parameters returns a copy of the parameter list.
func (fn *Function) Parameters() []Parameter {
	return append([]Parameter(nil), fn.params...)
}

// InsertParameters inserts params before position index. index may equal the current
// parameter count to append.
func (fn *Function) InsertParameters(index int, params []Parameter) error {
	if index < 0 || index > len(fn.params) {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrParameterIndex, index, len(fn.params))
	}
	out := make([]Parameter, 0, len(fn.params)+len(params))
	out = append(out, fn.params[:index]...)
	out = append(out, params...)
	out = append(out, fn.params[index:]...)
	fn.params = out
	return nil
}

// SetBodyText replaces the body. Trailing whitespace on every line and surrounding blank lines
// are dropped.
func (fn *Function) SetBodyText(text string) {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t\r")
	}
	fn.body = strings.Trim(strings.Join(lines, "\n"), "\n")
}

func (fn *Function) SetReturnType(t string) { fn.returnType = t }

func (fn *Function) SetIsExported(exported bool) { fn.exported = exported }
