package rime

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config patch file names, written into the user-data directory.
const (
	tonePatchFile      = "tone.custom.yaml"
	correctorPatchFile = "corrector.custom.yaml"
)

// patchDoc is the shape of a *.custom.yaml override file: a single
// "patch" mapping from setting path to value.
type patchDoc struct {
	Patch map[string]any `yaml:"patch"`
}

// Settings are the user settings that feed the config patches.
type Settings struct {
	// ToneScheme selects the tone input scheme ("longpress" or "vxq").
	ToneScheme string

	// EnableCorrector turns on the fuzzy-input corrector.
	EnableCorrector bool
}

// patchDocs returns the override files derived from the settings.
func patchDocs(s Settings) map[string]patchDoc {
	return map[string]patchDoc{
		tonePatchFile: {Patch: map[string]any{
			"tone_input/scheme": s.ToneScheme,
		}},
		correctorPatchFile: {Patch: map[string]any{
			"corrector/enabled": s.EnableCorrector,
		}},
	}
}

// writePatches regenerates the config patch files in dir. Prior versions
// are deleted before regeneration. Failures are returned per file so the
// caller can log and proceed; patch writing is best-effort and never
// blocks engine initialization.
func writePatches(dir string, s Settings) []error {
	var errs []error

	for name, doc := range patchDocs(s) {
		path := filepath.Join(dir, name)

		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("remove stale %s: %w", name, err))
			continue
		}

		data, err := yaml.Marshal(doc)
		if err != nil {
			errs = append(errs, fmt.Errorf("encode %s: %w", name, err))
			continue
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			errs = append(errs, fmt.Errorf("write %s: %w", name, err))
		}
	}

	return errs
}
