package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/datecrawl/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/datecrawl.yaml
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a site profile file",
		Long: `Init writes a commented .datecrawl site profile file.

Site profiles tell the navigators how a particular site marks dates, where its
"next page" link lives and what its "Load More" button says. They can also
carry cookies and headers for sites that need them.

Examples:
  # Create .datecrawl in the current directory
  datecrawl init

  # Write the file somewhere else
  datecrawl init -o profiles/news.yaml

  # Overwrite an existing file
  datecrawl init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the site profile file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite an existing file")

	return cmd
}

func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("site profile file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/datecrawl.yaml")
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Profiles may hold cookies, so keep the file private.
	if err := os.WriteFile(outputPath, content, 0o600); err != nil {
		return fmt.Errorf("failed to write site profile file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created site profile file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to describe sites that differ from the defaults:")
	fmt.Fprintln(out, "  - date and next-page selectors")
	fmt.Fprintln(out, "  - load-more button text")
	fmt.Fprintln(out, "  - cookies and headers")
	return nil
}
