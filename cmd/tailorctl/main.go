// Command tailorctl runs the tailoring, rendering and extraction pipelines from
// the command line against the same configuration as the API server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"resume-tailor/internal/bootstrap"
	"resume-tailor/internal/shared/config"
	"resume-tailor/internal/shared/telemetry"
)

var rootCmd = &cobra.Command{
	Use:           "tailorctl",
	Short:         "Resume tailoring toolkit",
	Long:          "tailorctl tailors resumes to job descriptions, renders PDFs, extracts resume text and inspects the application history.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadApp builds the application the way the server does, logging to the console.
func loadApp() (*bootstrap.App, error) {
	cfg := config.Load()
	telemetry.Configure("console")
	return bootstrap.Build(cfg)
}
