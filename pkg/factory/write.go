package factory

import (
	"fmt"

	"github.com/TechXTT/prisma-factory/pkg/dmmf"
	"github.com/TechXTT/prisma-factory/pkg/tsfile"
)

// Header is written at the top of every generated file.
const Header = "// Code generated by prisma-factory. DO NOT EDIT."

// WriteFile generates the factories for doc into a new TypeScript file at path.
func WriteFile(doc *dmmf.Document, path string, opts Options, fileOpts ...tsfile.Option) error {
	f := tsfile.New(path, append([]tsfile.Option{tsfile.WithHeader(Header)}, fileOpts...)...)
	if err := GenerateFactories(f, doc, opts); err != nil {
		return fmt.Errorf("generate factories: %w", err)
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
