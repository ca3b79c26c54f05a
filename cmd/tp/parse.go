package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/wilsvd/teiparse/internal/storage"
	"github.com/wilsvd/teiparse/internal/tei"
)

var (
	parseJSONL   string
	parseCompact bool
	parseJobs    int
)

func init() {
	parseCmd.Flags().StringVar(&parseJSONL, "jsonl", "", "Also archive each parsed document to this JSONL file")
	parseCmd.Flags().BoolVar(&parseCompact, "compact", false, "Write compact JSON")
	parseCmd.Flags().IntVarP(&parseJobs, "jobs", "j", runtime.NumCPU(), "Files parsed in parallel")
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse <tei.xml>...",
	Short: "Parse TEI XML files produced by GROBID",
	Long: `Parse one or more TEI XML files into structured documents.

With one file the document is written as a JSON object; with several,
as an array of {file, document, error} results.

Examples:
  tp parse paper.tei.xml
  tp parse --jsonl archive.jsonl out/*.tei.xml
  tp parse --human paper.tei.xml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	parser := mustNewParser()
	results := parseFiles(parser, args, parseJobs)

	failed := 0
	var lastErr error
	for i := range results {
		r := &results[i]
		if r.err != nil {
			failed++
			lastErr = r.err
			r.Error = r.err.Error()
			continue
		}
		if parseJSONL != "" {
			rec := storage.Record{Source: r.File, ParsedAt: time.Now().UTC(), Document: r.Document}
			if _, err := storage.Upsert(parseJSONL, rec); err != nil {
				exitWithError(ExitError, "archiving %s: %v", r.File, err)
			}
		}
	}

	if len(args) == 1 && lastErr != nil {
		exitWithError(exitCode(lastErr), "%v", lastErr)
	}

	switch {
	case humanOutput:
		for _, r := range results {
			if r.err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", r.File, r.err)
				continue
			}
			printDocumentHuman(r.File, r.Document)
			fmt.Println()
		}
	case len(args) == 1:
		writeJSON(results[0].Document)
	default:
		out := make([]ParseResult, len(results))
		for i, r := range results {
			out[i] = r.ParseResult
		}
		writeJSON(out)
	}

	if failed > 0 {
		log.Warn().Int("failed", failed).Int("total", len(args)).Msg("some files did not parse")
		os.Exit(exitCode(lastErr))
	}
	return nil
}

type parseOutcome struct {
	ParseResult
	err error
}

// parseFiles parses every path with at most jobs files in flight. Results
// keep the order of paths.
func parseFiles(parser *tei.Parser, paths []string, jobs int) []parseOutcome {
	if jobs < 1 {
		jobs = 1
	}
	results := make([]parseOutcome, len(paths))
	sem := make(chan struct{}, jobs)
	var wg sync.WaitGroup

	for i, path := range paths {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, path string) {
			defer wg.Done()
			defer func() { <-sem }()

			results[i].File = filepath.Clean(path)
			data, err := os.ReadFile(path)
			if err != nil {
				results[i].err = fmt.Errorf("reading %s: %w", path, err)
				return
			}
			doc, err := parser.Parse(data)
			if err != nil {
				results[i].err = err
				return
			}
			results[i].Document = doc
			log.Debug().Str("file", path).Int("sections", len(doc.Sections)).Int("citations", len(doc.Citations)).Msg("parsed")
		}(i, path)
	}
	wg.Wait()
	return results
}

func writeJSON(v interface{}) {
	if parseCompact {
		outputJSONCompact(v)
		return
	}
	outputJSON(v)
}
