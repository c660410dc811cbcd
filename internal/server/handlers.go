// Package server assembles the tool registry: it binds the annotation
// runner, the genome registry, BED validation, and result reporting to the
// named tools exposed over the protocol.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/annomics/annomics-mcp/internal/annotate"
	"github.com/annomics/annomics-mcp/internal/bedfile"
	"github.com/annomics/annomics-mcp/internal/genomes"
	"github.com/annomics/annomics-mcp/internal/mcp"
	"github.com/annomics/annomics-mcp/internal/report"
)

const bedPreviewLines = 5

// Service holds the collaborators the tool handlers need. The runner is
// passed in explicitly so independent sessions never share hidden state.
type Service struct {
	runner *annotate.Runner
	logger *slog.Logger
}

// New builds a ready-to-serve MCP server exposing the full tool set.
func New(runner *annotate.Runner, logger *slog.Logger) (*mcp.Server, error) {
	reg, err := NewRegistry(runner, logger)
	if err != nil {
		return nil, err
	}
	return mcp.NewServer(reg, logger), nil
}

// NewRegistry registers every tool against a fresh registry.
func NewRegistry(runner *annotate.Runner, logger *slog.Logger) (*mcp.Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	svc := &Service{runner: runner, logger: logger}

	reg := mcp.NewRegistry()
	tools := []mcp.Tool{
		{
			Name:        "annotate_genomic_regions",
			Description: "Annotate genomic regions from BED files with CpG and genic features",
			InputSchema: annotateSchema(),
			Handler:     svc.handleAnnotate,
		},
		{
			Name:        "list_supported_genomes",
			Description: "List all supported genome builds and their details",
			InputSchema: json.RawMessage(listGenomesSchema),
			Handler:     svc.handleListGenomes,
		},
		{
			Name:        "validate_bed_format",
			Description: "Validate BED file format and structure",
			InputSchema: json.RawMessage(validateBedSchema),
			Handler:     svc.handleValidateBed,
		},
		{
			Name:        "get_annotation_summary",
			Description: "Get summary of annotation results from an output directory",
			InputSchema: json.RawMessage(summarySchema),
			Handler:     svc.handleSummary,
		},
		{
			Name:        "create_comparison_report",
			Description: "Render a PDF report comparing multiple annotation result directories",
			InputSchema: json.RawMessage(comparisonSchema),
			Handler:     svc.handleComparison,
		},
	}
	for _, t := range tools {
		if err := reg.Register(t); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func (s *Service) handleAnnotate(ctx context.Context, args map[string]any) (*mcp.Response, error) {
	spec, err := annotate.BuildJobSpec(args)
	if err != nil {
		var verr *annotate.ValidationError
		if errors.As(err, &verr) {
			return mcp.TextErrorResponsef("Error: %s", verr.Msg), nil
		}
		return nil, err
	}

	outcome, err := s.runner.Run(ctx, spec)
	if err != nil {
		var toErr *annotate.TimeoutError
		var procErr *annotate.ProcessError
		switch {
		case errors.As(err, &toErr):
			return mcp.TextErrorResponsef(
				"Annotation timed out after %s. The pipeline process was terminated; no results are reported.",
				toErr.Timeout), nil
		case errors.As(err, &procErr):
			return mcp.TextErrorResponsef("Annotation failed with exit code %d:\n\n%s",
				procErr.ExitCode, procErr.Stderr), nil
		default:
			return nil, err
		}
	}

	manifest := annotate.ScanOutputDir(spec.OutputDir)
	return mcp.TextResponse(formatAnnotateResult(spec, outcome, manifest)), nil
}

func formatAnnotateResult(spec annotate.JobSpec, outcome *annotate.Outcome, m annotate.Manifest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Genomic annotation completed successfully.\n\n")
	fmt.Fprintf(&b, "Input: %s\n", strings.Join(spec.InputFiles, ", "))
	fmt.Fprintf(&b, "Genome build: %s\n", spec.GenomeBuild)
	fmt.Fprintf(&b, "Output directory: %s\n", outcome.OutputDir)
	fmt.Fprintf(&b, "Duration: %s\n\n", outcome.Duration.Round(time.Millisecond))
	fmt.Fprintf(&b, "Generated files:\n")
	fmt.Fprintf(&b, "- Annotation files: %d\n", len(m.AnnotationFiles))
	fmt.Fprintf(&b, "- Summary files: %d\n", len(m.SummaryFiles))
	fmt.Fprintf(&b, "- Combined files: %d\n", len(m.CombinedFiles))
	fmt.Fprintf(&b, "- Plot files: %d\n", len(m.PlotFiles))

	if len(m.AnnotationFiles) > 0 {
		fmt.Fprintf(&b, "\nKey output files:\n")
		for _, f := range firstN(m.AnnotationFiles, 5) {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}
	if len(m.PlotFiles) > 0 {
		fmt.Fprintf(&b, "\nVisualizations created: %s\n", strings.Join(firstN(m.PlotFiles, 3), ", "))
	}
	return b.String()
}

func (s *Service) handleListGenomes(ctx context.Context, args map[string]any) (*mcp.Response, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Supported genome builds\n\n")
	for _, g := range genomes.All() {
		fmt.Fprintf(&b, "%s: %s\n", g.Name, g.Description)
		fmt.Fprintf(&b, "  Species: %s\n", g.Species)
		fmt.Fprintf(&b, "  Assembly: %s\n", g.Assembly)
		fmt.Fprintf(&b, "  Annotations: %s\n", strings.Join(g.Annotations, ", "))
	}
	fmt.Fprintf(&b, "\nUse any of these build names in the genome_build parameter of annotate_genomic_regions.\n")
	return mcp.TextResponse(b.String()), nil
}

func (s *Service) handleValidateBed(ctx context.Context, args map[string]any) (*mcp.Response, error) {
	path := args["file_path"].(string)
	if _, err := os.Stat(path); err != nil {
		return mcp.TextErrorResponsef("File not found: %s", path), nil
	}

	format, err := bedfile.Detect(path)
	if err != nil {
		return mcp.TextErrorResponsef("Validation error: %v", err), nil
	}
	if format == bedfile.Unknown {
		return mcp.TextErrorResponsef(
			"File %s does not look like a BED file: no data line with at least 3 tab-separated columns.", path), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "BED file validation results\n\n")
	fmt.Fprintf(&b, "File: %s\n", path)
	fmt.Fprintf(&b, "Detected format: %s\n\n", format)
	if preview, err := bedfile.Preview(path, bedPreviewLines); err == nil && len(preview) > 0 {
		fmt.Fprintf(&b, "Preview (first %d lines):\n", len(preview))
		for _, line := range preview {
			fmt.Fprintf(&b, "  %s\n", line)
		}
	}
	fmt.Fprintf(&b, "\nThis file can be used with the annotate_genomic_regions tool.\n")
	return mcp.TextResponse(b.String()), nil
}

func (s *Service) handleSummary(ctx context.Context, args map[string]any) (*mcp.Response, error) {
	dir := args["results_directory"].(string)
	summary, err := report.Summarize(dir)
	if err != nil {
		return mcp.TextErrorResponsef("%v", err), nil
	}
	return mcp.TextResponse(summary.Render()), nil
}

func (s *Service) handleComparison(ctx context.Context, args map[string]any) (*mcp.Response, error) {
	raw := args["results_directories"].([]any)
	dirs := make([]string, 0, len(raw))
	for _, item := range raw {
		dirs = append(dirs, item.(string))
	}
	outPath := args["output_path"].(string)

	if err := report.WriteComparison(dirs, outPath); err != nil {
		return mcp.TextErrorResponsef("Comparison report failed: %v", err), nil
	}
	return mcp.TextResponse(fmt.Sprintf("Comparison report for %d result directories written to %s\n",
		len(dirs), outPath)), nil
}

func firstN(items []string, n int) []string {
	if len(items) < n {
		return items
	}
	return items[:n]
}
