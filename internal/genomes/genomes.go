// Package genomes holds the static registry of genome builds the annotation
// pipeline understands. The registry is data, not code: it is parsed once at
// init from the embedded genomes.yaml and is immutable afterwards, so it is
// safe for concurrent read-only access.
package genomes

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed genomes.yaml
var registryYAML []byte

// Build describes one supported genome build.
type Build struct {
	Name            string   `yaml:"name" json:"name"`
	Description     string   `yaml:"description" json:"description"`
	Species         string   `yaml:"species" json:"species"`
	Assembly        string   `yaml:"assembly" json:"assembly"`
	ChromosomeStyle string   `yaml:"chromosome_style" json:"chromosome_style"`
	Annotations     []string `yaml:"annotations" json:"annotations"`
}

type registryFile struct {
	Builds []Build `yaml:"builds"`
}

var (
	builds []Build
	byName map[string]Build
)

func init() {
	var file registryFile
	if err := yaml.Unmarshal(registryYAML, &file); err != nil {
		panic(fmt.Sprintf("genomes: parse embedded registry: %v", err))
	}
	if len(file.Builds) == 0 {
		panic("genomes: embedded registry is empty")
	}
	builds = file.Builds
	byName = make(map[string]Build, len(builds))
	for _, b := range builds {
		if _, dup := byName[b.Name]; dup {
			panic(fmt.Sprintf("genomes: duplicate build %q in registry", b.Name))
		}
		byName[b.Name] = b
	}
}

// Get returns the build for name.
func Get(name string) (Build, bool) {
	b, ok := byName[name]
	return b, ok
}

// IsSupported reports whether name is a known genome build.
func IsSupported(name string) bool {
	_, ok := byName[name]
	return ok
}

// All returns every registered build in registry order.
func All() []Build {
	out := make([]Build, len(builds))
	copy(out, builds)
	return out
}

// Names returns the sorted list of supported build identifiers.
func Names() []string {
	out := make([]string, 0, len(builds))
	for _, b := range builds {
		out = append(out, b.Name)
	}
	sort.Strings(out)
	return out
}
