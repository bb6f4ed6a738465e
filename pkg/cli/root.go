package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/TechXTT/prisma-factory/pkg/factory"
	"github.com/TechXTT/prisma-factory/pkg/generatorhelper"
)

// Version is overridden at build time with -ldflags "-X".
var Version = "v0.1.0"

func help() string {
	return `prisma-factory generates a create<Model>Factory function for every model of a Prisma schema.

It runs either as a Prisma generator, started by ` + "`prisma generate`" + `, or standalone
from a schema file, a DMMF JSON document or a live Postgres database.

Add it to schema.prisma:

  generator factories {
    provider = "prisma-factory"
    output   = "../generated/factories"
    client   = "@prisma/client"
  }

Settings are taken from flags, then --config, then the generator block, then defaults.`
}

type globalOptions struct {
	verbose bool
	logger  *slog.Logger
}

func (o *globalOptions) setupLogger(cmd *cobra.Command) {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	o.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// NewVersionCmd builds the `version` command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(Version)
		},
	}
}

// NewServeCmd builds the `serve` command, which speaks the Prisma generator protocol on
// stdin and stderr.
func NewServeCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as a Prisma generator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd, g)
		},
	}
}

func serve(cmd *cobra.Command, g *globalOptions) error {
	s := &generatorhelper.Server{
		Handler: &factory.Plugin{Version: Version, Logger: g.logger},
		Logger:  g.logger,
	}
	return s.Serve(cmd.Context(), cmd.InOrStdin(), cmd.ErrOrStderr())
}

// NewRootCmd builds the top-level `prisma-factory` command. Started by Prisma without
// arguments, it serves the generator protocol.
func NewRootCmd() *cobra.Command {
	g := &globalOptions{}
	root := &cobra.Command{
		Use:           "prisma-factory",
		Short:         "Generate prisma-factory functions from a Prisma schema",
		Long:          help(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			g.setupLogger(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if os.Getenv(generatorhelper.InvocationEnv) != "" {
				return serve(cmd, g)
			}
			return cmd.Help()
		},
	}
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Enable debug logging")
	root.AddCommand(NewGenerateCmd(g))
	root.AddCommand(NewWatchCmd(g))
	root.AddCommand(NewServeCmd(g))
	root.AddCommand(NewVersionCmd())
	return root
}
