package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/annomics/annomics-mcp/internal/annotate"
	"github.com/annomics/annomics-mcp/internal/genomes"
	"github.com/annomics/annomics-mcp/internal/logging"
	"github.com/annomics/annomics-mcp/internal/server"
)

type rootFlags struct {
	script   string
	rscript  string
	auditDir string
	logLevel string
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "annomics-mcp",
		Short: "MCP server exposing the annomics genomic annotation pipeline",
		Long: "annomics-mcp speaks newline-delimited JSON over stdin/stdout and drives\n" +
			"the R annotation pipeline as an external process, one supervised job per\n" +
			"tools/call request.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.script, "script", "",
		"path to the annotation R script (default: $ANNOMICS_SCRIPT or the standard locations)")
	cmd.Flags().StringVar(&flags.rscript, "rscript", "",
		"Rscript executable (default: $ANNOMICS_RSCRIPT or Rscript on PATH)")
	cmd.Flags().StringVar(&flags.auditDir, "audit-dir", "",
		"directory for NDJSON job audit logs (disabled when empty)")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "info",
		"log level: debug, info, warn, error")

	cmd.AddCommand(newGenomesCmd())
	return cmd
}

func runServe(cmd *cobra.Command, flags rootFlags) error {
	logger := logging.New(os.Stderr, flags.logLevel)
	slog.SetDefault(logger)

	script := flags.script
	if script == "" {
		script = os.Getenv("ANNOMICS_SCRIPT")
	}
	scriptPath, err := annotate.FindScript(script)
	if err != nil {
		return err
	}

	rscript := flags.rscript
	if rscript == "" {
		rscript = os.Getenv("ANNOMICS_RSCRIPT")
	}
	opts := []annotate.RunnerOption{annotate.WithLogger(logger)}
	if rscript != "" {
		opts = append(opts, annotate.WithRscriptBin(rscript))
	}
	if flags.auditDir != "" {
		opts = append(opts, annotate.WithAuditDir(flags.auditDir))
	}

	runner, err := annotate.NewRunner(scriptPath, opts...)
	if err != nil {
		return err
	}

	srv, err := server.New(runner, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("annomics-mcp serving on stdio", "script", scriptPath)
	return srv.Serve(ctx, os.Stdin, os.Stdout)
}

func newGenomesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "genomes",
		Short: "List supported genome builds",
		Run: func(cmd *cobra.Command, args []string) {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "BUILD\tDESCRIPTION\tSPECIES\tASSEMBLY\tANNOTATIONS")
			for _, g := range genomes.All() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					g.Name, g.Description, g.Species, g.Assembly, strings.Join(g.Annotations, ","))
			}
			tw.Flush()
		},
	}
}
