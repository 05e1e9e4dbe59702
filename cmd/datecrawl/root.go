package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for datecrawl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datecrawl",
		Short: "Collect news articles published on a given date",
		Long: `datecrawl collects the articles that a set of news sites published on one
calendar date.

Each site in the seed file is navigated by pagination, infinite scroll or a
"Load More" button until the target date shows up on the page. The article
links found there are fetched, and every article dated on the target day is
written to scraped_article_<DD-MM-YYYY>.csv.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON lines")

	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
