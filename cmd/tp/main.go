// Package main provides the tp CLI entry point.
package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	configPath  string
	verbose     bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tp",
	Short: "Parse GROBID TEI XML into structured documents",
	Long: `tp turns scholarly PDFs into structured documents.

PDFs are converted to TEI XML by a GROBID server, and the TEI is parsed
into sections, paragraphs with inline citation markers, the article's own
bibliographic record, keywords and the cited works. All commands output
JSON by default; use --human for summaries.

Environment Variables:
  GROBID_URL           GROBID server URL (default http://localhost:8070)
  TEIPARSE_LISTEN      Address for "tp serve"
  TEIPARSE_CACHE       Path of the TEI cache database
  TEIPARSE_LOG_LEVEL   debug, info, warn or error`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

func init() {
	// Load .env file if present (for GROBID_URL and friends)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/teiparse/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output")
	rootCmd.Version = Version
}

func setupLogging(cmd *cobra.Command, args []string) error {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg := mustLoadConfig()
	level := cfg.Level()
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	return nil
}
