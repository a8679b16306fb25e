// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package detect

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/plagiasure/detection-engine/pkg/types"
)

// ResultFile is the on-disk representation of one detection run. A
// detection can be saved to a file and reloaded later without re-querying
// the provider APIs.
type ResultFile struct {
	Input   InputSummary          `yaml:"input"`
	Config  ResultFileConfig      `yaml:"config"`
	Result  types.DetectionResult `yaml:"result"`
	Summary RunSummary            `yaml:"summary"`
}

// InputSummary stores an identifying excerpt of the checked document
// rather than the full text.
type InputSummary struct {
	Excerpt string `yaml:"excerpt"`
	Length  int    `yaml:"length"`
}

// ResultFileConfig stores the detection settings that produced the result.
type ResultFileConfig struct {
	MaxHighlights int           `yaml:"max_highlights"`
	ProbeDelay    time.Duration `yaml:"probe_delay"`
}

// RunSummary stores result statistics and a timestamp.
type RunSummary struct {
	Highlights     int       `yaml:"highlights"`
	Sources        int       `yaml:"sources"`
	ProviderErrors []string  `yaml:"provider_errors,omitempty"`
	Timestamp      time.Time `yaml:"timestamp"`
}

const excerptLen = 200

// WriteResultFile saves a detection run to a YAML file.
func WriteResultFile(path, text string, cfg types.DetectConfig, result types.DetectionResult) error {
	rf := ResultFile{
		Input: InputSummary{
			Excerpt: Excerpt(text),
			Length:  len(text),
		},
		Config: ResultFileConfig{
			MaxHighlights: cfg.MaxHighlights,
			ProbeDelay:    cfg.ProbeDelay,
		},
		Result: result,
		Summary: RunSummary{
			Highlights:     len(result.Highlights),
			Sources:        len(result.Sources),
			ProviderErrors: result.ProviderErrors,
			Timestamp:      time.Now(),
		},
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling result file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResultFile loads a previously saved detection run from disk.
func ReadResultFile(path string) (*ResultFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	var rf ResultFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing result file: %w", err)
	}
	return &rf, nil
}

// Excerpt returns the first 200 characters of text for display and storage.
func Excerpt(text string) string {
	if len(text) <= excerptLen {
		return text
	}
	return text[:excerptLen]
}
