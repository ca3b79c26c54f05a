package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wilsvd/teiparse/internal/config"
)

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the TEI cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show TEI cache statistics",
	Args:  cobra.NoArgs,
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached TEI document",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

// CacheStatsResponse is the output of "tp cache stats".
type CacheStatsResponse struct {
	Path     string `json:"path"`
	Entries  int    `json:"entries"`
	TEIBytes int64  `json:"tei_bytes"`
	WithDOI  int    `json:"with_doi"`
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	c := mustOpenCache(cfg)
	if c == nil {
		exitWithError(ExitConfigError, "no cache configured (set cache_path or %s)", config.EnvCache)
	}
	defer c.Close()

	st, err := c.Stats()
	if err != nil {
		exitWithError(ExitError, "reading cache: %v", err)
	}

	if humanOutput {
		fmt.Printf("Cache: %s\n", cfg.CachePath)
		fmt.Printf("  Entries:  %d (%d with DOI)\n", st.Entries, st.WithDOI)
		fmt.Printf("  TEI size: %s\n", formatBytes(st.TEIBytes))
		return nil
	}
	return outputJSON(CacheStatsResponse{
		Path:     cfg.CachePath,
		Entries:  st.Entries,
		TEIBytes: st.TEIBytes,
		WithDOI:  st.WithDOI,
	})
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	c := mustOpenCache(cfg)
	if c == nil {
		exitWithError(ExitConfigError, "no cache configured (set cache_path or %s)", config.EnvCache)
	}
	defer c.Close()

	n, err := c.Clear()
	if err != nil {
		exitWithError(ExitError, "clearing cache: %v", err)
	}

	if humanOutput {
		fmt.Printf("Removed %d cached documents\n", n)
		return nil
	}
	return outputJSON(StatusResponse{Status: "cleared", Detail: fmt.Sprintf("%d entries removed", n)})
}
