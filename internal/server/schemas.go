package server

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/annomics/annomics-mcp/internal/genomes"
)

// Input schemas for the exposed tools. The schemas check shape and types;
// genome_build membership is left to the job builder so rejections name the
// offending value. The supported builds are rendered into the description
// from the registry so the two can never drift apart.

func annotateSchema() json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{
	"type": "object",
	"properties": {
		"input_files": {
			"type": ["string", "array"],
			"items": {"type": "string"},
			"description": "Single BED file path, comma-separated list, or array of file paths"
		},
		"genome_build": {
			"type": "string",
			"description": "Target genome build (%s)"
		},
		"output_directory": {
			"type": "string",
			"description": "Output directory path"
		},
		"sample_name": {
			"type": "string",
			"description": "Optional sample name for output files"
		},
		"include_cpg": {
			"type": "boolean",
			"description": "Include CpG island annotations",
			"default": true
		},
		"include_genic": {
			"type": "boolean",
			"description": "Include genic feature annotations",
			"default": true
		},
		"plot_formats": {
			"type": "array",
			"items": {"type": "string", "enum": ["png", "pdf", "svg"]},
			"description": "Output plot formats",
			"default": ["png", "pdf"]
		},
		"combine_analysis": {
			"type": "boolean",
			"description": "Create combined analysis for multiple files",
			"default": false
		},
		"pattern": {
			"type": "string",
			"description": "File match glob for directory inputs"
		},
		"timeout": {
			"type": "integer",
			"minimum": 1,
			"description": "Execution timeout in seconds",
			"default": 300
		}
	},
	"required": ["input_files", "genome_build", "output_directory"],
	"additionalProperties": false
}`, strings.Join(genomes.Names(), ", ")))
}

const listGenomesSchema = `{
	"type": "object",
	"properties": {},
	"additionalProperties": false
}`

const validateBedSchema = `{
	"type": "object",
	"properties": {
		"file_path": {
			"type": "string",
			"description": "Path to BED file to validate"
		}
	},
	"required": ["file_path"],
	"additionalProperties": false
}`

const summarySchema = `{
	"type": "object",
	"properties": {
		"results_directory": {
			"type": "string",
			"description": "Path to annotation results directory"
		},
		"sample_name": {
			"type": "string",
			"description": "Specific sample name (optional, defaults to all samples)"
		}
	},
	"required": ["results_directory"],
	"additionalProperties": false
}`

const comparisonSchema = `{
	"type": "object",
	"properties": {
		"results_directories": {
			"type": "array",
			"items": {"type": "string"},
			"minItems": 1,
			"description": "Result directories to compare"
		},
		"output_path": {
			"type": "string",
			"description": "Output path for the comparison report PDF"
		}
	},
	"required": ["results_directories", "output_path"],
	"additionalProperties": false
}`
