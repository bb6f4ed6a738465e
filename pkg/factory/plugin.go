package factory

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/TechXTT/prisma-factory/pkg/generatorhelper"
)

const (
	PrettyName    = "Prisma Factory"
	DefaultOutput = "node_modules/@generated/prisma-factory"
	OutputFile    = "index.ts"
)

// Plugin answers `prisma generate` requests by writing <output>/index.ts.
type Plugin struct {
	Version string
	Logger  *slog.Logger
}

func (p *Plugin) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

// OnManifest implements generatorhelper.Handler.
func (p *Plugin) OnManifest(_ context.Context, _ generatorhelper.GeneratorConfig) (generatorhelper.Manifest, error) {
	return generatorhelper.Manifest{
		PrettyName:    PrettyName,
		DefaultOutput: DefaultOutput,
		Version:       p.Version,
	}, nil
}

// OnGenerate implements generatorhelper.Handler.
func (p *Plugin) OnGenerate(_ context.Context, opts generatorhelper.GeneratorOptions) error {
	path := filepath.Join(OutputDir(opts), OutputFile)
	genOpts := Options{Client: opts.Generator.ConfigString("client")}
	if err := WriteFile(opts.DMMF, path, genOpts); err != nil {
		return err
	}
	p.logger().Info("generated factories", "models", len(opts.DMMF.Models()), "path", path)
	return nil
}

// OutputDir resolves the generator output. A relative output is taken relative to the schema
// file, and DefaultOutput relative to the working directory. Prisma normally sends an absolute
// path already.
func OutputDir(opts generatorhelper.GeneratorOptions) string {
	if opts.Generator.Output == nil || opts.Generator.Output.Value == "" {
		return DefaultOutput
	}
	out := opts.Generator.Output.Value
	if !filepath.IsAbs(out) && opts.SchemaPath != "" {
		out = filepath.Join(filepath.Dir(opts.SchemaPath), out)
	}
	return out
}
