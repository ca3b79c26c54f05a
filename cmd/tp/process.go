package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/wilsvd/teiparse/internal/storage"
)

var processJSONL string

func init() {
	processCmd.Flags().StringVar(&processJSONL, "jsonl", "", "Also archive the parsed document to this JSONL file")
	rootCmd.AddCommand(processCmd)
}

var processCmd = &cobra.Command{
	Use:   "process <pdf>",
	Short: "Convert a PDF with GROBID and parse the result",
	Long: `Convert a PDF to TEI XML with the configured GROBID server and parse it.

The PDF is checked locally first. When a TEI cache is configured, a PDF
(or another copy of the same article, matched by DOI) is only sent to
GROBID once.

Examples:
  tp process paper.pdf
  GROBID_URL=http://grobid:8070 tp process --human paper.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	svc := newService(cfg)
	if svc.Cache != nil {
		defer svc.Cache.Close()
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		exitWithError(ExitError, "reading %s: %v", path, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	doc, err := svc.ProcessPDF(ctx, filepath.Base(path), data)
	if err != nil {
		exitWithError(exitCode(err), "%v", err)
	}

	if processJSONL != "" {
		rec := storage.Record{Source: filepath.Clean(path), ParsedAt: time.Now().UTC(), Document: doc}
		if _, err := storage.Upsert(processJSONL, rec); err != nil {
			exitWithError(ExitError, "archiving %s: %v", path, err)
		}
	}

	if humanOutput {
		printDocumentHuman(path, doc)
		return nil
	}
	return outputJSON(doc)
}
