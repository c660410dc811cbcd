package annotate

import (
	"fmt"
	"os"
	"path/filepath"
)

// scriptName is the annotation pipeline entry point shipped alongside the
// server.
const scriptName = "annotate_genomic_segments.R"

// FindScript resolves the annotation script path. An explicit path (flag or
// ANNOMICS_SCRIPT) wins; otherwise a fixed candidate list is probed: the
// container layout under /app, then scripts/ relative to the working
// directory and the executable.
func FindScript(explicit string) (string, error) {
	var candidates []string
	if explicit != "" {
		candidates = []string{explicit}
	} else {
		candidates = append(candidates, filepath.Join("/app", "scripts", scriptName))
		candidates = append(candidates, filepath.Join("scripts", scriptName))
		if exe, err := os.Executable(); err == nil {
			candidates = append(candidates, filepath.Join(filepath.Dir(exe), "scripts", scriptName))
		}
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return "", &EnvironmentError{Msg: fmt.Sprintf("annotation script not found in any of %v", candidates)}
}
