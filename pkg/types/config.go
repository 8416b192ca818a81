package types

import "time"

// HTTPConfig holds shared HTTP settings used by everything that talks to a
// publisher site.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-scrape/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ScrapeConfig holds settings for a scrape run.
type ScrapeConfig struct {
	HTTPConfig `yaml:",inline"`

	// OutputDir is where the Markdown file and the images/ directory are
	// written (default "./output").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// CookiesFile is an optional path to a browser-extension JSON cookie
	// export used to authenticate against paywalled pages.
	CookiesFile string `json:"cookies_file,omitempty" yaml:"cookies_file,omitempty"`

	// ProxyTemplate rewrites landing URLs through an institutional proxy.
	// Placeholders: %u full encoded URL, %h host, %p path.
	ProxyTemplate string `json:"proxy_template,omitempty" yaml:"proxy_template,omitempty"`

	// ImageWorkers is the number of concurrent image downloads (default 4).
	ImageWorkers int `json:"image_workers" yaml:"image_workers"`

	// ImageRetries is the number of retry attempts per image after the
	// first try fails with a retryable error (default 3).
	ImageRetries int `json:"image_retries" yaml:"image_retries"`

	// ImageRate caps image requests per second against the publisher
	// (default 4).
	ImageRate float64 `json:"image_rate" yaml:"image_rate"`

	// Verbose enables per-step progress output.
	Verbose bool `json:"verbose" yaml:"verbose"`
}

// ArchiveConfig holds settings for the scrape archive.
type ArchiveConfig struct {
	// Dir is the directory holding archive.db (default "./output").
	Dir string `json:"dir" yaml:"dir"`

	// Disabled skips archive recording entirely.
	Disabled bool `json:"disabled" yaml:"disabled"`
}

// Config groups all tool configuration.
type Config struct {
	Scrape  ScrapeConfig  `json:"scrape" yaml:"scrape"`
	Archive ArchiveConfig `json:"archive" yaml:"archive"`
}
