package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/nao1215/datecrawl/internal/article"
	"github.com/nao1215/datecrawl/internal/config"
	"github.com/nao1215/datecrawl/internal/database"
	"github.com/nao1215/datecrawl/internal/fetch"
	internallog "github.com/nao1215/datecrawl/internal/log"
	"github.com/nao1215/datecrawl/internal/model"
	"github.com/nao1215/datecrawl/internal/pipeline"
	"github.com/nao1215/datecrawl/internal/render"
	"github.com/nao1215/datecrawl/internal/report"
	"github.com/nao1215/datecrawl/internal/seed"
	"github.com/spf13/cobra"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Collect the articles published on a date",
		Long: `Crawl reads the seed file, navigates every site back to the target date,
collects the article links on the page where navigation stopped, and keeps the
articles published on the target date.

The seed file is a CSV with page_url and navigation_type columns.
navigation_type is one of pagination, infinite_scroll or load_more.

The article CSV is always written, even when no article matched. A failing
site is logged and skipped; it never stops the run.

Examples:
  # Today's articles from site_urls.csv
  datecrawl crawl

  # A specific date and seed file
  datecrawl crawl --date 2024-05-01 --seeds sites.csv

  # Write into a directory, keep a Markdown summary, archive the run
  datecrawl crawl -o out --summary out/summary.md --archive

  # Route requests through a SOCKS5 proxy, at most 2 requests/s per host
  datecrawl crawl --proxy 127.0.0.1:1080 --rate 2

Site profile file (.datecrawl) example:
  sites:
    news.example.com:
      dateSelector: "span.published"
      nextSelector: "li.next > a"
    www.example.org:
      loadMoreText: "Show more"
      cookie: "consent=yes"`,
		Args: cobra.NoArgs,
		RunE: runCrawlCmd,
	}

	cmd.Flags().StringP("date", "d", "",
		"Target date in YYYY-MM-DD form (default: today)")
	cmd.Flags().StringP("seeds", "s", config.DefaultSeedFile,
		"Seed CSV file with page_url and navigation_type columns")
	cmd.Flags().StringP("output-dir", "o", config.DefaultOutputDir,
		"Directory the article CSV is written to")
	cmd.Flags().String("summary", "",
		"Write a Markdown run summary to this file")
	cmd.Flags().BoolP("json", "j", false,
		"Print the run summary as JSON")

	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Number of sites navigated concurrently")
	cmd.Flags().Duration("pacing", config.DefaultPacing,
		"Pause after each site before a worker takes the next one")
	cmd.Flags().Duration("settle", config.DefaultSettleDelay,
		"Wait after each scroll or click for new content")
	cmd.Flags().Int("max-steps", config.DefaultMaxSteps,
		"Maximum pages, scrolls or clicks per site (0 = unbounded)")
	cmd.Flags().Int("filter-workers", config.DefaultFilterWorkers,
		"Number of articles extracted concurrently")

	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each HTTP request")
	cmd.Flags().Duration("browser-timeout", config.DefaultBrowserTimeout,
		"Timeout for each browser operation")
	cmd.Flags().String("browser", "",
		"Path to a Chromium binary (default: detect or download)")
	cmd.Flags().Bool("show-browser", false,
		"Run the browser with a visible window")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with every request")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum response body size in bytes")
	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy address (host:port)")
	cmd.Flags().Float64("rate", 0,
		"Maximum requests per second per host (0 = unlimited)")

	cmd.Flags().StringP("config", "c", "",
		"Site profile file (default: .datecrawl in current or home directory, then XDG config.yaml)")
	cmd.Flags().Bool("archive", false,
		"Save the run and its articles to the SQLite archive")
	cmd.Flags().String("db-dir", "",
		"Archive directory (default: XDG data directory)")

	return cmd
}

func runCrawlCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd, time.Now())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose, cfg.LogJSON)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runCrawl(ctx, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getLogJSONFlag retrieves the log-json flag from the command or its parent.
func getLogJSONFlag(cmd *cobra.Command) bool {
	v, err := cmd.Flags().GetBool("log-json")
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetBool("log-json")
		if err != nil {
			return false
		}
	}
	return v
}

// buildConfig creates a Config from cobra command flags. now supplies the
// default target date and is read exactly once per run.
func buildConfig(cmd *cobra.Command, now time.Time) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	dateFlag, err := flags.GetString("date")
	if err != nil {
		return nil, err
	}
	if dateFlag == "" {
		cfg.Target = model.DateOf(now)
	} else if cfg.Target, err = model.ParseDate(dateFlag); err != nil {
		return nil, err
	}

	if cfg.SeedFile, err = flags.GetString("seeds"); err != nil {
		return nil, err
	}
	if cfg.OutputDir, err = flags.GetString("output-dir"); err != nil {
		return nil, err
	}
	if cfg.SummaryFile, err = flags.GetString("summary"); err != nil {
		return nil, err
	}
	if cfg.JSONOutput, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.Workers, err = flags.GetInt("workers"); err != nil {
		return nil, err
	}
	if cfg.Pacing, err = flags.GetDuration("pacing"); err != nil {
		return nil, err
	}
	if cfg.SettleDelay, err = flags.GetDuration("settle"); err != nil {
		return nil, err
	}
	if cfg.MaxSteps, err = flags.GetInt("max-steps"); err != nil {
		return nil, err
	}
	if cfg.FilterWorkers, err = flags.GetInt("filter-workers"); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.BrowserTimeout, err = flags.GetDuration("browser-timeout"); err != nil {
		return nil, err
	}
	if cfg.BrowserBin, err = flags.GetString("browser"); err != nil {
		return nil, err
	}
	if cfg.ShowBrowser, err = flags.GetBool("show-browser"); err != nil {
		return nil, err
	}
	if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
		return nil, err
	}
	if cfg.MaxBodySize, err = flags.GetInt64("max-body-size"); err != nil {
		return nil, err
	}
	if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
		return nil, err
	}
	if cfg.Rate, err = flags.GetFloat64("rate"); err != nil {
		return nil, err
	}
	if cfg.Archive, err = flags.GetBool("archive"); err != nil {
		return nil, err
	}
	if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
		return nil, err
	}
	if cfg.DBDir == "" {
		cfg.DBDir = config.XDGDataDir()
	}
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.LogJSON = getLogJSONFlag(cmd)

	// An explicit --config must exist; otherwise run with no profiles.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load site profile file %s: %w", configPath, err)
		}
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	default:
		cfg.SiteConfigs = &config.File{Sites: make(map[string]config.SiteConfig)}
	}

	return cfg, nil
}

// setupLogger creates the secure logger for the run.
func setupLogger(w io.Writer, verbose, jsonLogs bool) *slog.Logger {
	if jsonLogs {
		return internallog.NewSecureJSONLogger(w, verbose)
	}
	return internallog.NewSecureLogger(w, verbose)
}

// newFetchClient builds the HTTP client from cfg.
func newFetchClient(cfg *config.Config) (*fetch.Client, error) {
	opts := []fetch.Option{
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
	}
	if cfg.ProxyAddress != "" {
		opts = append(opts, fetch.WithProxy(cfg.ProxyAddress))
	}
	if cfg.Rate > 0 {
		opts = append(opts, fetch.WithRateLimit(cfg.Rate, config.DefaultRateBurst))
	}
	return fetch.NewClient(opts...)
}

// newLauncher builds the browser launcher from cfg.
func newLauncher(cfg *config.Config) *render.RodLauncher {
	return render.NewRodLauncher(
		render.WithBrowserBin(cfg.BrowserBin),
		render.WithHeadless(!cfg.ShowBrowser),
		render.WithBrowserUserAgent(cfg.UserAgent),
		render.WithPageTimeout(cfg.BrowserTimeout),
	)
}

// runCrawl executes one crawl run. out receives the run summary and progress
// goes to progress.
func runCrawl(ctx context.Context, cfg *config.Config, out, progress io.Writer, logger *slog.Logger) error {
	seeds, rowErrs, err := seed.Load(cfg.SeedFile)
	if err != nil {
		return err
	}
	for _, re := range rowErrs {
		logger.Warn("skipping seed row", "file", cfg.SeedFile, "line", re.Line, "error", re.Err)
	}

	client, err := newFetchClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create HTTP client: %w", err)
	}

	resolver := pipeline.NewProfileResolver(cfg, client, newLauncher(cfg),
		pipeline.WithResolverLogger(logger),
	)

	orchestrator := pipeline.NewOrchestrator(
		func() *pipeline.Pipeline {
			return pipeline.DefaultPipeline(resolver, pipeline.WithLogger(logger))
		},
		pipeline.WithOrchestratorLogger(logger),
		pipeline.WithWorkers(cfg.Workers),
		pipeline.WithPacing(cfg.Pacing),
	)

	summary := model.NewRunSummary(cfg.Target, time.Now())
	fmt.Fprintf(progress, "Crawling %d site(s) for articles published on %s...\n", len(seeds), cfg.Target)

	var mu sync.Mutex
	links, runs, runErr := orchestrator.RunWithCallback(ctx, seeds, cfg.Target, func(run *model.SeedRun, index int) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(progress, "[%d/%d] %s: %s, %d link(s)\n",
			index+1, len(seeds), run.Seed.PageURL, run.Outcome, len(run.Links))
	})

	var records []model.ArticleRecord
	if runErr == nil && links.Len() > 0 {
		fmt.Fprintf(progress, "Filtering %d link(s) for articles published on %s...\n", links.Len(), cfg.Target)
		filter := article.NewFilter(
			article.NewHTMLExtractor(resolver),
			article.WithWorkers(cfg.FilterWorkers),
			article.WithLogger(logger),
		)
		records = filter.Filter(ctx, links.Links(), cfg.Target)
	}

	outputPath, err := report.WriteFile(cfg.OutputDir, cfg.Target, records)
	if err != nil {
		return err
	}

	summary.SeedRuns = runs
	summary.Seeds = len(seeds)
	for _, run := range runs {
		if run.Failed() {
			summary.FailedSeeds++
		}
	}
	summary.Links = links.Len()
	summary.Records = len(records)
	summary.OutputPath = outputPath
	summary.FinishedAt = time.Now()

	if err := writeSummary(cfg, out, summary); err != nil {
		return err
	}

	if cfg.Archive {
		if err := archiveRun(ctx, cfg.DBDir, summary, records); err != nil {
			logger.Error("failed to archive run", "dir", cfg.DBDir, "error", err)
		}
	}

	if runErr != nil {
		return fmt.Errorf("crawl interrupted: %w", runErr)
	}
	return nil
}

// writeSummary prints the summary to out and writes the Markdown summary file
// when one was requested.
func writeSummary(cfg *config.Config, out io.Writer, summary *model.RunSummary) error {
	var w report.Writer = report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose))
	if cfg.JSONOutput {
		w = report.NewJSONWriter(out, report.WithPrettyPrint())
	}
	if _, err := w.Write(summary); err != nil {
		return fmt.Errorf("failed to write run summary: %w", err)
	}

	if cfg.SummaryFile == "" {
		return nil
	}
	if dir := filepath.Dir(cfg.SummaryFile); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create summary directory: %w", err)
		}
	}
	f, err := os.OpenFile(cfg.SummaryFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600) //nolint:gosec // user-chosen path
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	if _, err := report.NewMarkdownWriter(f).Write(summary); err != nil {
		return fmt.Errorf("failed to write summary file: %w", err)
	}
	return nil
}

// archiveRun saves the run and its records to the SQLite archive.
func archiveRun(ctx context.Context, dbDir string, summary *model.RunSummary, records []model.ArticleRecord) error {
	// The crawl context may already be cancelled; the archive write should still land.
	ctx = context.WithoutCancel(ctx)

	archive, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return err
	}

	err = archive.SaveRun(ctx, summary)
	if err == nil {
		_, err = archive.SaveArticles(ctx, summary.ID, records)
	}
	return errors.Join(err, archive.Close())
}
