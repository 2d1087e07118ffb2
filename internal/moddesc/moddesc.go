// Package moddesc reads .mod descriptor files. Descriptors use the same
// script grammar as game data, so this package is a thin typed view over the
// generic tree parser.
package moddesc

import (
	"fmt"
	"os"

	"pdxmill/internal/diag"
	"pdxmill/internal/script"
)

// Descriptor is the metadata of one mod.
type Descriptor struct {
	Name             string
	Path             string
	Version          string
	SupportedVersion string
	Tags             []string
	Dependencies     []string
}

// Parse reads a descriptor from source text. Unknown keys are ignored
// without diagnostics: descriptors routinely carry launcher-specific keys.
func Parse(src string) (*Descriptor, []diag.Diagnostic) {
	root, diags := script.Parse(src)
	d := &Descriptor{}
	for _, e := range root.Entries {
		if e.Key == nil {
			continue
		}
		switch e.Key.Str {
		case "name":
			d.Name = e.Value.String()
		case "path", "archive":
			d.Path = e.Value.String()
		case "version":
			d.Version = e.Value.String()
		case "supported_version":
			d.SupportedVersion = e.Value.String()
		case "tags":
			d.Tags = itemStrings(e.Value)
		case "dependencies":
			d.Dependencies = itemStrings(e.Value)
		}
	}
	return d, diags
}

// Load reads and parses a descriptor file.
func Load(path string) (*Descriptor, []diag.Diagnostic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read mod descriptor: %w", err)
	}
	d, diags := Parse(string(data))
	return d, diags, nil
}

func itemStrings(n *script.Node) []string {
	items := n.Items()
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.String())
	}
	return out
}
