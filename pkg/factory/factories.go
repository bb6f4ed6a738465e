// Package factory emits TypeScript factory functions for the models of a Prisma schema.
//
// Each generated function delegates to createFactory from the prisma-factory runtime package:
//
//	export function createUserFactory(requiredAttrs?: Partial<User>): CreateFactoryReturn<Prisma.UserCreateInput, User> {
//	    return createFactory<Prisma.UserCreateInput, User>('User', requiredAttrs);
//	}
package factory

import (
	"fmt"

	"github.com/TechXTT/prisma-factory/pkg/dmmf"
	"github.com/TechXTT/prisma-factory/pkg/tsfile"
)

const (
	// RuntimeModule provides createFactory and CreateFactoryReturn.
	RuntimeModule = "prisma-factory"
	// DefaultClientModule provides the Prisma namespace and model types.
	DefaultClientModule = "@prisma/client"
)

// Options configures generation.
type Options struct {
	// Client, when set, replaces DefaultClientModule and is passed verbatim to every
	// createFactory call as { client: <Client> }.
	Client string
}

// Target is the file factories are appended to. *tsfile.SourceFile implements it.
type Target interface {
	AddImportDeclarations(decls []tsfile.ImportDeclaration) error
	AddFunction(s tsfile.FunctionStructure) (*tsfile.Function, error)
}

// GenerateFactories appends the imports and one exported factory per model to target, in
// schema order. Errors from target are returned as is.
func GenerateFactories(target Target, doc *dmmf.Document, opts Options) error {
	if err := AddImports(target, doc, opts); err != nil {
		return err
	}
	_, err := AddFactoryFunctions(target, doc, opts)
	return err
}

// AddImports appends the runtime import and the client-type import.
func AddImports(target Target, doc *dmmf.Document, opts Options) error {
	clientModule := DefaultClientModule
	if opts.Client != "" {
		clientModule = opts.Client
	}
	clientImports := append([]string{"Prisma"}, doc.ModelNames()...)

	return target.AddImportDeclarations([]tsfile.ImportDeclaration{
		{
			ModuleSpecifier: RuntimeModule,
			NamedImports:    []string{"createFactory", "CreateFactoryReturn"},
		},
		{
			ModuleSpecifier: clientModule,
			NamedImports:    clientImports,
		},
	})
}

// AddFactoryFunctions appends one factory per model and returns their handles.
func AddFactoryFunctions(target Target, doc *dmmf.Document, opts Options) ([]*tsfile.Function, error) {
	models := doc.Models()
	fns := make([]*tsfile.Function, 0, len(models))
	for _, m := range models {
		fn, err := AddModelFactoryFunction(target, m, opts)
		if err != nil {
			return fns, err
		}
		fns = append(fns, fn)
	}
	return fns, nil
}

// AddModelFactoryFunction appends create<Model>Factory for model.
func AddModelFactoryFunction(target Target, model dmmf.Model, opts Options) (*tsfile.Function, error) {
	fn, err := target.AddFunction(tsfile.FunctionStructure{Name: FunctionName(model.Name)})
	if err != nil {
		return nil, err
	}

	if err := fn.InsertParameters(0, []tsfile.Parameter{
		{Name: "requiredAttrs", Type: fmt.Sprintf("Partial<%s>", model.Name), HasQuestionToken: true},
	}); err != nil {
		return nil, err
	}

	fn.SetBodyText(bodyText(model.Name, opts))
	fn.SetReturnType(fmt.Sprintf("CreateFactoryReturn<%s>", typeArgs(model.Name)))
	fn.SetIsExported(true)
	return fn, nil
}

// FunctionName returns the factory name for a model.
func FunctionName(model string) string {
	return "create" + model + "Factory"
}

func typeArgs(model string) string {
	return fmt.Sprintf("Prisma.%sCreateInput, %s", model, model)
}

func bodyText(model string, opts Options) string {
	if opts.Client != "" {
		return fmt.Sprintf("return createFactory<%s>('%s', requiredAttrs, { client: %s });", typeArgs(model), model, opts.Client)
	}
	return fmt.Sprintf("return createFactory<%s>('%s', requiredAttrs);", typeArgs(model), model)
}
