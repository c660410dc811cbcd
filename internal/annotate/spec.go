// Package annotate drives the external R annotation pipeline: it turns a
// loosely-typed argument bag into an immutable JobSpec, supervises one
// Rscript process per job with a wall-clock deadline, and classifies the
// files the pipeline leaves behind.
package annotate

import (
	"fmt"
	"strings"
	"time"

	"github.com/annomics/annomics-mcp/internal/genomes"
)

const (
	// DefaultTimeout bounds a job when the caller does not supply one.
	DefaultTimeout = 300 * time.Second

	// defaultPattern is the pipeline's built-in file match glob; the flag is
	// only emitted when the caller overrides it.
	defaultPattern = "*.bed"
)

var validPlotFormats = map[string]struct{}{"png": {}, "pdf": {}, "svg": {}}

// JobSpec is the validated, normalized description of one annotation job.
// Built once per dispatch and never mutated afterwards.
type JobSpec struct {
	InputFiles   []string
	GenomeBuild  string
	OutputDir    string
	SampleName   string
	IncludeCpG   bool
	IncludeGenic bool
	PlotFormats  []string
	Combine      bool
	Pattern      string
	Timeout      time.Duration
}

// BuildJobSpec validates rawArgs and materializes a JobSpec, applying the
// declared defaults for optional fields. It fails with *ValidationError when
// a required field is absent, the genome build is unknown, or the input list
// normalizes to empty. It never touches the filesystem; whether the inputs
// exist is discovered when the pipeline runs.
func BuildJobSpec(rawArgs map[string]any) (JobSpec, error) {
	inputs, err := normalizeInputFiles(rawArgs["input_files"])
	if err != nil {
		return JobSpec{}, err
	}

	build, err := stringArg(rawArgs, "genome_build", true)
	if err != nil {
		return JobSpec{}, err
	}
	if !genomes.IsSupported(build) {
		return JobSpec{}, validationErrorf("unsupported genome build %q; available: %s",
			build, strings.Join(genomes.Names(), ", "))
	}

	outDir, err := stringArg(rawArgs, "output_directory", true)
	if err != nil {
		return JobSpec{}, err
	}

	sample, err := stringArg(rawArgs, "sample_name", false)
	if err != nil {
		return JobSpec{}, err
	}

	pattern, err := stringArg(rawArgs, "pattern", false)
	if err != nil {
		return JobSpec{}, err
	}
	if pattern == "" {
		pattern = defaultPattern
	}

	formats, err := normalizePlotFormats(rawArgs["plot_formats"])
	if err != nil {
		return JobSpec{}, err
	}

	includeCpG, err := boolArg(rawArgs, "include_cpg", true)
	if err != nil {
		return JobSpec{}, err
	}
	includeGenic, err := boolArg(rawArgs, "include_genic", true)
	if err != nil {
		return JobSpec{}, err
	}
	combine, err := boolArg(rawArgs, "combine_analysis", false)
	if err != nil {
		return JobSpec{}, err
	}

	timeout, err := timeoutArg(rawArgs)
	if err != nil {
		return JobSpec{}, err
	}

	return JobSpec{
		InputFiles:   inputs,
		GenomeBuild:  build,
		OutputDir:    outDir,
		SampleName:   sample,
		IncludeCpG:   includeCpG,
		IncludeGenic: includeGenic,
		PlotFormats:  formats,
		Combine:      combine,
		Pattern:      pattern,
		Timeout:      timeout,
	}, nil
}

// CommandArgs serializes the spec into the R script's command-line contract.
// The script path itself is prepended by the Runner.
func (s JobSpec) CommandArgs() []string {
	args := []string{
		"-i", strings.Join(s.InputFiles, ","),
		"-g", s.GenomeBuild,
		"-o", s.OutputDir,
		"--formats", strings.Join(s.PlotFormats, ","),
	}
	if s.SampleName != "" {
		args = append(args, "-n", s.SampleName)
	}
	if s.Pattern != defaultPattern {
		args = append(args, "--pattern", s.Pattern)
	}
	if s.Combine {
		args = append(args, "--combine")
	}
	return args
}

// normalizeInputFiles accepts a single path, a comma-joined string, or an
// array of paths and returns a canonical ordered slice.
func normalizeInputFiles(v any) ([]string, error) {
	if v == nil {
		return nil, validationErrorf("missing required argument %q", "input_files")
	}
	var raw []string
	switch t := v.(type) {
	case string:
		raw = strings.Split(t, ",")
	case []string:
		raw = t
	case []any:
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, validationErrorf("input_files entries must be strings, got %T", item)
			}
			raw = append(raw, s)
		}
	default:
		return nil, validationErrorf("input_files must be a string or array of strings, got %T", v)
	}

	files := make([]string, 0, len(raw))
	for _, f := range raw {
		if f = strings.TrimSpace(f); f != "" {
			files = append(files, f)
		}
	}
	if len(files) == 0 {
		return nil, validationErrorf("input_files is empty after normalization")
	}
	return files, nil
}

func normalizePlotFormats(v any) ([]string, error) {
	if v == nil {
		return []string{"png", "pdf"}, nil
	}
	items, ok := v.([]any)
	if !ok {
		if direct, ok := v.([]string); ok {
			items = make([]any, len(direct))
			for i, s := range direct {
				items[i] = s
			}
		} else {
			return nil, validationErrorf("plot_formats must be an array of strings, got %T", v)
		}
	}
	formats := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, validationErrorf("plot_formats entries must be strings, got %T", item)
		}
		if _, valid := validPlotFormats[s]; !valid {
			return nil, validationErrorf("unsupported plot format %q; available: pdf, png, svg", s)
		}
		formats = append(formats, s)
	}
	if len(formats) == 0 {
		return nil, validationErrorf("plot_formats is empty")
	}
	return formats, nil
}

func stringArg(args map[string]any, key string, required bool) (string, error) {
	v, present := args[key]
	if !present || v == nil {
		if required {
			return "", validationErrorf("missing required argument %q", key)
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", validationErrorf("%s must be a string, got %T", key, v)
	}
	if required && strings.TrimSpace(s) == "" {
		return "", validationErrorf("missing required argument %q", key)
	}
	return s, nil
}

func boolArg(args map[string]any, key string, def bool) (bool, error) {
	v, present := args[key]
	if !present || v == nil {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, validationErrorf("%s must be a boolean, got %T", key, v)
	}
	return b, nil
}

func timeoutArg(args map[string]any) (time.Duration, error) {
	v, present := args["timeout"]
	if !present || v == nil {
		return DefaultTimeout, nil
	}
	var secs float64
	switch t := v.(type) {
	case float64: // encoding/json decodes numbers to float64
		secs = t
	case int:
		secs = float64(t)
	default:
		return 0, validationErrorf("timeout must be an integer, got %T", v)
	}
	if secs != float64(int64(secs)) {
		return 0, validationErrorf("timeout must be a whole number of seconds, got %v", secs)
	}
	if secs <= 0 {
		return 0, validationErrorf("timeout must be positive, got %v", secs)
	}
	return time.Duration(secs) * time.Second, nil
}

// String renders the spec compactly for logs.
func (s JobSpec) String() string {
	return fmt.Sprintf("job{inputs=%d genome=%s out=%s timeout=%s}",
		len(s.InputFiles), s.GenomeBuild, s.OutputDir, s.Timeout)
}
