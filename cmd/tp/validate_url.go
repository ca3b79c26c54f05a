package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wilsvd/teiparse/internal/service"
)

func init() {
	rootCmd.AddCommand(validateURLCmd)
}

var validateURLCmd = &cobra.Command{
	Use:   "validate-url <url>",
	Short: "Check that a URL serves a PDF",
	Long: `Send a HEAD request to a URL and check it answers 200 with a PDF
content type.

Examples:
  tp validate-url https://arxiv.org/pdf/2106.01234`,
	Args: cobra.ExactArgs(1),
	RunE: runValidateURL,
}

func runValidateURL(cmd *cobra.Command, args []string) error {
	svc := &service.Service{}
	err := svc.ValidatePDFURL(context.Background(), args[0])

	var ue *service.URLError
	switch {
	case err == nil:
	case errors.As(err, &ue):
		exitWithError(ExitDataError, "%s (status %d)", ue.Detail, ue.StatusCode)
	default:
		exitWithError(ExitUnavailable, "%v", err)
	}

	if humanOutput {
		fmt.Printf("PDF URL is valid: %s\n", args[0])
		return nil
	}
	return outputJSON(StatusResponse{Status: "valid", Detail: "PDF URL is valid"})
}
