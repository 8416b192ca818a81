package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meshintel/paper-scrape/internal/archive"
	"github.com/meshintel/paper-scrape/internal/browser"
	"github.com/meshintel/paper-scrape/internal/doi"
	"github.com/meshintel/paper-scrape/internal/scrape"
	"github.com/meshintel/paper-scrape/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultOutputDir = "./output"
)

func init() {
	f := rootCmd.Flags()
	f.String("output-dir", defaultOutputDir, "directory for the Markdown file and images/")
	f.String("cookies", "", "browser-extension JSON cookie export for authenticated access")
	f.String("proxy", "", "institutional proxy template (%u encoded URL, %h host, %p path)")
	f.Bool("no-proxy", false, "bypass any configured proxy template")
	f.Duration("timeout", defaultTimeout, "HTTP request timeout")
	f.String("user-agent", browser.DefaultUserAgent, "User-Agent header for page and image requests")
	f.Int("image-workers", 0, "concurrent image downloads (default 4, max 8)")
	f.Int("image-retries", 0, "retries per failed image download (default 3)")
	f.Float64("image-rate", 0, "max image requests per second (default 4)")
	f.Bool("no-archive", false, "skip the metadata sidecar and archive.db record")
	f.BoolP("verbose", "v", false, "per-step progress output")

	_ = viper.BindPFlag("output_dir", f.Lookup("output-dir"))
	_ = viper.BindPFlag("cookies", f.Lookup("cookies"))
	_ = viper.BindPFlag("proxy", f.Lookup("proxy"))
	_ = viper.BindPFlag("timeout", f.Lookup("timeout"))
	_ = viper.BindPFlag("user_agent", f.Lookup("user-agent"))
	_ = viper.BindPFlag("image_workers", f.Lookup("image-workers"))
	_ = viper.BindPFlag("image_retries", f.Lookup("image-retries"))
	_ = viper.BindPFlag("image_rate", f.Lookup("image-rate"))
	_ = viper.BindPFlag("verbose", f.Lookup("verbose"))
}

// scrapeConfig assembles the run configuration. Precedence is flags over
// environment over config file; the proxy template and cookie file also
// fall back to .secrets/ entries.
func scrapeConfig(cmd *cobra.Command) types.ScrapeConfig {
	cfg := types.ScrapeConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("timeout"),
			UserAgent: viper.GetString("user_agent"),
		},
		OutputDir:     viper.GetString("output_dir"),
		CookiesFile:   secretDefault("cookies-file", viper.GetString("cookies")),
		ProxyTemplate: secretDefault("proxy-url", viper.GetString("proxy")),
		ImageWorkers:  viper.GetInt("image_workers"),
		ImageRetries:  viper.GetInt("image_retries"),
		ImageRate:     viper.GetFloat64("image_rate"),
		Verbose:       viper.GetBool("verbose"),
	}
	if noProxy, _ := cmd.Flags().GetBool("no-proxy"); noProxy {
		cfg.ProxyTemplate = ""
	}
	return cfg
}

func archiveConfig(cmd *cobra.Command, cfg types.ScrapeConfig) types.ArchiveConfig {
	noArchive, _ := cmd.Flags().GetBool("no-archive")
	dir := viper.GetString("archive_dir")
	if dir == "" {
		dir = cfg.OutputDir
	}
	return types.ArchiveConfig{Dir: dir, Disabled: noArchive}
}

func runScrape(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	res, err := doi.Resolve(args[0])
	if err != nil {
		return err
	}

	cfg := scrapeConfig(cmd)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := browser.NewHTTPSession(cfg)
	if err != nil {
		return err
	}
	defer session.Close()

	result, err := scrape.Run(ctx, session, session.Client(), res, cfg, os.Stdout)
	if err != nil {
		return err
	}

	recordRun(ctx, archiveConfig(cmd, cfg), result)

	sum := result.Images
	fmt.Printf("Done: %d blocks, %d figures, %d images (%d downloaded, %d reused, %d failed)\n",
		len(result.Document.Blocks), len(result.Document.Figures()),
		sum.Total, sum.Downloaded, sum.Reused, sum.Failed)
	return nil
}

// recordRun writes the metadata sidecar and the archive record.
// Bookkeeping failures warn and never fail a run that already produced
// its Markdown.
func recordRun(ctx context.Context, acfg types.ArchiveConfig, result *scrape.RunResult) {
	if acfg.Disabled {
		return
	}

	scrapedAt := time.Now()
	doc := result.Document
	fetched := result.Images.Downloaded + result.Images.Reused

	sc := archive.Sidecar{
		DOI:           result.Resolution.DOI,
		Publisher:     result.Resolution.PublisherKey,
		Title:         doc.Title,
		SourceURL:     result.SourceURL,
		Figures:       len(doc.Figures()),
		ImagesFetched: fetched,
		ImagesFailed:  result.Images.Failed,
		ScrapedAt:     scrapedAt,
	}
	sidecarPath := strings.TrimSuffix(result.MarkdownPath, ".md") + ".meta.yaml"
	if err := archive.WriteSidecar(sc, sidecarPath); err != nil {
		fmt.Fprintf(os.Stderr, "warning: sidecar write failed: %v\n", err)
	}

	store, err := archive.Open(acfg.Dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: archive open failed: %v\n", err)
		return
	}
	defer store.Close()

	rec := archive.Record{
		DOI:           result.Resolution.DOI,
		PublisherKey:  result.Resolution.PublisherKey,
		Title:         doc.Title,
		MarkdownPath:  result.MarkdownPath,
		FigureCount:   len(doc.Figures()),
		ImagesFetched: fetched,
		ScrapedAt:     scrapedAt,
	}
	if err := store.Put(ctx, rec); err != nil {
		fmt.Fprintf(os.Stderr, "warning: archive record failed: %v\n", err)
	}
}
