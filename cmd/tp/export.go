package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wilsvd/teiparse/internal/document"
	"github.com/wilsvd/teiparse/internal/export"
	"github.com/wilsvd/teiparse/internal/storage"
)

var (
	exportBibtex    bool
	exportFromJSONL string
	exportKeys      string
	exportDOI       string
)

func init() {
	exportCmd.Flags().BoolVar(&exportBibtex, "bibtex", false, "Export to BibTeX format")
	exportCmd.Flags().StringVar(&exportFromJSONL, "from-jsonl", "", "Export documents archived in this JSONL file instead of parsing TEI")
	exportCmd.Flags().StringVar(&exportDOI, "doi", "", "With --from-jsonl, export only the archived article with this DOI")
	exportCmd.Flags().StringVar(&exportKeys, "keys", "", "Export only these cited works (comma-separated citation keys)")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [tei.xml...]",
	Short: "Export parsed documents and their cited works to BibTeX",
	Long: `Export a document's own record and its cited works to BibTeX.

Examples:
  tp export --bibtex paper.tei.xml > refs.bib
  tp export --bibtex --keys b0,b4 paper.tei.xml
  tp export --bibtex --from-jsonl archive.jsonl
  tp export --bibtex --from-jsonl archive.jsonl --doi 10.1234/abc`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	if !exportBibtex {
		exitWithError(ExitError, "--bibtex flag is required")
	}
	if (exportFromJSONL == "") == (len(args) == 0) {
		exitWithError(ExitError, "give either TEI files or --from-jsonl")
	}

	var docs []*document.Document
	if exportFromJSONL != "" {
		records, err := storage.ReadAll(exportFromJSONL)
		if err != nil {
			exitWithError(ExitError, "reading %s: %v", exportFromJSONL, err)
		}
		if exportDOI != "" {
			idx, found := storage.FindByDOI(records, exportDOI)
			if !found {
				exitWithError(ExitDataError, "no archived article with DOI %s", exportDOI)
			}
			records = records[idx : idx+1]
		}
		for _, r := range records {
			docs = append(docs, r.Document)
		}
	} else {
		for _, r := range parseFiles(mustNewParser(), args, parseJobs) {
			if r.err != nil {
				exitWithError(exitCode(r.err), "%s: %v", r.File, r.err)
			}
			docs = append(docs, r.Document)
		}
	}

	var keep map[string]bool
	if exportKeys != "" {
		keep = make(map[string]bool)
		for _, k := range strings.Split(exportKeys, ",") {
			keep[strings.TrimSpace(k)] = true
		}
	}

	var entries []string
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		if keep != nil {
			filtered := *doc
			filtered.Citations = make(map[string]document.Citation)
			for k, c := range doc.Citations {
				if keep[k] {
					filtered.Citations[k] = c
				}
			}
			doc = &filtered
		}
		entries = append(entries, export.DocumentToBibTeX(doc))
	}

	fmt.Fprint(os.Stdout, strings.Join(entries, "\n"))
	return nil
}
