package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/TechXTT/prisma-factory/pkg/config"
	"github.com/TechXTT/prisma-factory/pkg/dmmf"
	"github.com/TechXTT/prisma-factory/pkg/factory"
	"github.com/TechXTT/prisma-factory/pkg/internal/introspect"
	"github.com/TechXTT/prisma-factory/pkg/internal/schema"
	"github.com/TechXTT/prisma-factory/pkg/watch"
)

var ErrWatchDatabase = errors.New("watch needs a schema or dmmf source")

type generateOptions struct {
	configFile string
	flags      config.Config
}

func (o *generateOptions) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.configFile, "config", "", "YAML config file")
	f.StringVar(&o.flags.Schema, "schema", "", "Prisma schema path (default "+config.DefaultSchemaPath+")")
	f.StringVar(&o.flags.DMMF, "dmmf", "", "Read models from a DMMF JSON file instead of the schema")
	f.BoolVar(&o.flags.FromDB, "from-db", false, "Read models from the database instead of the schema")
	f.StringVar(&o.flags.DatabaseURL, "database-url", "", "Postgres URL (default: datasource url of the schema)")
	f.StringVar(&o.flags.DBSchema, "db-schema", "", "Postgres schema to introspect (default "+config.DefaultDBSchema+")")
	f.StringVarP(&o.flags.Output, "output", "o", "", "Output file (default "+config.DefaultOutput+")")
	f.StringVar(&o.flags.Client, "client", "", "Module passed as the factory client option")
	f.StringVar(&o.flags.Generator, "generator", "", "Name of the generator block to read (default "+config.DefaultGenerator+")")
}

// resolve layers flags over the config file over the schema's generator block over defaults.
func (o *generateOptions) resolve(logger *slog.Logger) (*config.Config, error) {
	var fileCfg *config.Config
	if o.configFile != "" {
		c, err := config.Load(o.configFile)
		if err != nil {
			return nil, err
		}
		fileCfg = c
	}

	probe := config.Default().Merge(fileCfg).Merge(&o.flags)
	var schemaCfg *config.Config
	if _, err := os.Stat(probe.Schema); err == nil {
		c, err := config.FromSchema(probe.Schema, probe.Generator)
		if err != nil {
			return nil, err
		}
		schemaCfg = c
	} else {
		logger.Debug("schema not found, skipping generator block", "schema", probe.Schema)
	}

	cfg := config.Default().Merge(schemaCfg).Merge(fileCfg).Merge(&o.flags)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDocument(ctx context.Context, cfg *config.Config) (*dmmf.Document, error) {
	switch cfg.Source() {
	case config.SourceDMMF:
		return dmmf.Load(cfg.DMMF)
	case config.SourceDatabase:
		db, err := introspect.Connect(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		defer db.Close()
		return introspect.Introspect(ctx, db, cfg.DBSchema)
	default:
		data, err := os.ReadFile(cfg.Schema)
		if err != nil {
			return nil, fmt.Errorf("read schema: %w", err)
		}
		doc, err := schema.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse schema %s: %w", cfg.Schema, err)
		}
		return doc, nil
	}
}

func generate(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	doc, err := loadDocument(ctx, cfg)
	if err != nil {
		return err
	}
	logger.Debug("parsed schema", "source", cfg.Source(), "models", len(doc.Models()))

	if err := factory.WriteFile(doc, cfg.Output, factory.Options{Client: cfg.Client}); err != nil {
		return err
	}
	logger.Info("generated factories", "models", len(doc.Models()), "path", cfg.Output)
	return nil
}

// NewGenerateCmd builds the `generate` command.
func NewGenerateCmd(g *globalOptions) *cobra.Command {
	o := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the factory file once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.resolve(g.logger)
			if err != nil {
				return err
			}
			return generate(cmd.Context(), cfg, g.logger)
		},
	}
	o.register(cmd)
	return cmd
}

// NewWatchCmd builds the `watch` command. It generates once, then again on every change of
// the schema or DMMF file.
func NewWatchCmd(g *globalOptions) *cobra.Command {
	o := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the factory file whenever the schema changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.resolve(g.logger)
			if err != nil {
				return err
			}
			path := cfg.Schema
			switch cfg.Source() {
			case config.SourceDatabase:
				return ErrWatchDatabase
			case config.SourceDMMF:
				path = cfg.DMMF
			}

			ctx := cmd.Context()
			run := func() error { return generate(ctx, cfg, g.logger) }
			if err := run(); err != nil {
				g.logger.Error("generate failed", "err", err)
			}
			return watch.Run(ctx, path, run, g.logger)
		},
	}
	o.register(cmd)
	return cmd
}
