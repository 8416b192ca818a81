// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"
)

// Sidecar is the YAML bookkeeping written next to each Markdown file. It
// records where the document came from and what the run produced, not
// bibliographic metadata.
type Sidecar struct {
	DOI           string    `yaml:"doi"`
	Publisher     string    `yaml:"publisher"`
	Title         string    `yaml:"title"`
	SourceURL     string    `yaml:"source_url"`
	Figures       int       `yaml:"figures"`
	ImagesFetched int       `yaml:"images_fetched"`
	ImagesFailed  int       `yaml:"images_failed,omitempty"`
	ScrapedAt     time.Time `yaml:"scraped_at"`
}

// WriteSidecar writes the sidecar YAML to path.
func WriteSidecar(sc Sidecar, path string) error {
	data, err := yaml.Marshal(&sc)
	if err != nil {
		return fmt.Errorf("marshaling sidecar: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
