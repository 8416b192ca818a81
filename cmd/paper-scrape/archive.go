package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meshintel/paper-scrape/internal/archive"
	"github.com/meshintel/paper-scrape/internal/doi"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Inspect past scrape runs",
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived scrape runs, most recent first",
	RunE:  runArchiveList,
}

var archiveShowCmd = &cobra.Command{
	Use:   "show <doi>",
	Short: "Show the archive record for a DOI",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchiveShow,
}

func init() {
	archiveCmd.PersistentFlags().String("dir", "", "archive directory (default: the output directory)")
	archiveCmd.AddCommand(archiveListCmd)
	archiveCmd.AddCommand(archiveShowCmd)
	rootCmd.AddCommand(archiveCmd)
}

func openArchive(cmd *cobra.Command) (*archive.Store, error) {
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		dir = viper.GetString("archive_dir")
	}
	if dir == "" {
		dir = viper.GetString("output_dir")
	}
	return archive.Open(dir)
}

func runArchiveList(cmd *cobra.Command, args []string) error {
	store, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	recs, err := store.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("archive is empty")
		return nil
	}
	for _, rec := range recs {
		fmt.Printf("%s  %-30s %-9s %s\n",
			rec.ScrapedAt.Local().Format("2006-01-02 15:04"),
			rec.DOI, rec.PublisherKey, rec.Title)
	}
	return nil
}

func runArchiveShow(cmd *cobra.Command, args []string) error {
	store, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	// Accept anything the scrape command accepts: a bare DOI, a
	// publisher URL, or pasted text containing one.
	key := args[0]
	if extracted, err := doi.Extract(key); err == nil {
		key = extracted
	}

	rec, err := store.Get(cmd.Context(), key)
	if err != nil {
		return err
	}
	fmt.Printf("DOI:       %s\n", rec.DOI)
	fmt.Printf("Publisher: %s\n", rec.PublisherKey)
	fmt.Printf("Title:     %s\n", rec.Title)
	fmt.Printf("Markdown:  %s\n", rec.MarkdownPath)
	fmt.Printf("Figures:   %d\n", rec.FigureCount)
	fmt.Printf("Images:    %d\n", rec.ImagesFetched)
	fmt.Printf("Scraped:   %s\n", rec.ScrapedAt.Local().Format(time.RFC3339))
	return nil
}
