// Package config holds the settings for factory generation.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSchemaPath = "prisma/schema.prisma"
	DefaultOutput     = "generated/factories/index.ts"
	DefaultGenerator  = "factories"
	DefaultDBSchema   = "public"
)

var (
	ErrConflictingSources = errors.New("dmmf and database sources are mutually exclusive")
	ErrNoSource           = errors.New("no schema source configured")
	ErrNoDatabaseURL      = errors.New("database source selected but no database url configured")
	ErrNoOutput           = errors.New("no output path configured")
)

// Source identifies where models are read from.
type Source string

const (
	SourceSchema   Source = "schema"
	SourceDMMF     Source = "dmmf"
	SourceDatabase Source = "database"
)

// Config holds all settings for generate and watch.
type Config struct {
	Schema      string `yaml:"schema,omitempty"`
	DMMF        string `yaml:"dmmf,omitempty"`
	FromDB      bool   `yaml:"fromDb,omitempty"`
	DatabaseURL string `yaml:"databaseUrl,omitempty"`
	DBSchema    string `yaml:"dbSchema,omitempty"`
	Output      string `yaml:"output,omitempty"`
	Client      string `yaml:"client,omitempty"`
	Generator   string `yaml:"generator,omitempty"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Schema:    DefaultSchemaPath,
		DBSchema:  DefaultDBSchema,
		Output:    DefaultOutput,
		Generator: DefaultGenerator,
	}
}

// Load reads a Config from a YAML file. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes the Config to a YAML file.
func (c *Config) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}

// Merge copies the set fields of o over c. FromDB is only ever switched on.
func (c *Config) Merge(o *Config) *Config {
	if o == nil {
		return c
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.Schema, o.Schema)
	set(&c.DMMF, o.DMMF)
	set(&c.DatabaseURL, o.DatabaseURL)
	set(&c.DBSchema, o.DBSchema)
	set(&c.Output, o.Output)
	set(&c.Client, o.Client)
	set(&c.Generator, o.Generator)
	if o.FromDB {
		c.FromDB = true
	}
	return c
}

// Source reports which schema source the configuration selects.
func (c *Config) Source() Source {
	switch {
	case c.DMMF != "":
		return SourceDMMF
	case c.FromDB:
		return SourceDatabase
	default:
		return SourceSchema
	}
}

// Validate checks that exactly one source is usable and an output is set.
func (c *Config) Validate() error {
	if c.DMMF != "" && c.FromDB {
		return ErrConflictingSources
	}
	switch c.Source() {
	case SourceDatabase:
		if c.DatabaseURL == "" {
			return ErrNoDatabaseURL
		}
	case SourceSchema:
		if c.Schema == "" {
			return ErrNoSource
		}
	}
	if c.Output == "" {
		return ErrNoOutput
	}
	return nil
}
