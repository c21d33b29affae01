package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/hanzitree/pkg/pipeline"
)

// stdoutPath as an output path writes a single artifact to stdout.
const stdoutPath = "-"

// basePath strips a known format extension from output, or falls back to
// fallback when output is empty.
func basePath(output, fallback string) string {
	if output == "" {
		return fallback
	}
	longest := ""
	for _, ext := range pipeline.Extensions {
		if strings.HasSuffix(output, ext) && len(ext) > len(longest) {
			longest = ext
		}
	}
	return strings.TrimSuffix(output, longest)
}

// outputPaths maps each format to the file it is written to. A single
// format with an explicit output goes exactly there; otherwise files are
// named base + the format's extension.
func outputPaths(output, fallback string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, fallback)
	for _, f := range formats {
		paths[f] = base + pipeline.Extensions[f]
	}
	return paths
}

// writeArtifacts writes each rendered format and prints the paths.
func writeArtifacts(artifacts map[string][]byte, formats []string, paths map[string]string) error {
	for _, f := range formats {
		data, ok := artifacts[f]
		if !ok {
			return fmt.Errorf("no %s output produced", f)
		}
		path := paths[f]
		if path == stdoutPath {
			if _, err := stdout.Write(data); err != nil {
				return err
			}
			continue
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}
