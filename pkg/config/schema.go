package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/TechXTT/prisma-factory/pkg/internal/schema"
)

// FromSchema reads the named generator block and the first datasource url of a Prisma
// schema. The generator output directory is resolved against the schema directory and gets
// index.ts appended. Environment references are resolved after loading .env from the working
// directory and from the schema directory; variables already set are not overridden.
func FromSchema(schemaFile, generatorName string) (*Config, error) {
	data, err := os.ReadFile(schemaFile)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	schemaDir := filepath.Dir(schemaFile)
	loadEnv(".env", filepath.Join(schemaDir, ".env"))

	cfg := &Config{Schema: schemaFile}

	gens, err := schema.Generators(data)
	if err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", schemaFile, err)
	}
	for _, g := range gens {
		if g.Name != generatorName {
			continue
		}
		if v, ok := g.Get("output"); ok {
			if out := resolve(v); out != "" {
				if !filepath.IsAbs(out) {
					out = filepath.Join(schemaDir, out)
				}
				cfg.Output = filepath.Join(out, "index.ts")
			}
		}
		if v, ok := g.Get("client"); ok {
			cfg.Client = resolve(v)
		}
		break
	}

	sources, err := schema.Datasources(data)
	if err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", schemaFile, err)
	}
	if len(sources) > 0 {
		if v, ok := sources[0].Get("url"); ok {
			cfg.DatabaseURL = resolve(v)
		}
	}
	return cfg, nil
}

func loadEnv(files ...string) {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		// a malformed .env must not block generation; Prisma reports it on its own
		_ = godotenv.Load(f)
	}
}

func resolve(v schema.Value) string {
	switch {
	case v.EnvVar != "":
		return os.Getenv(v.EnvVar)
	case v.Quoted:
		return v.Literal
	default:
		return v.Raw
	}
}
