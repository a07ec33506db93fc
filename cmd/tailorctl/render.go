package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"resume-tailor/internal/render"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a plain-text resume or cover letter to PDF",
	RunE:  runRender,
}

var (
	renderInputFile  string
	renderOutputFile string
	renderKind       string
)

func init() {
	renderCmd.Flags().StringVarP(&renderInputFile, "in", "i", "", "Path to plain-text input (required)")
	renderCmd.Flags().StringVarP(&renderOutputFile, "out", "o", "", "Path to output PDF (required)")
	renderCmd.Flags().StringVarP(&renderKind, "kind", "k", string(render.KindResume), "Document kind: resume or coverLetter")

	if err := renderCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}
	if err := renderCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	text, err := os.ReadFile(renderInputFile)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	pdf, err := render.New(render.DefaultStyle()).Render(render.Kind(renderKind), string(text))
	if err != nil {
		return err
	}
	if err := os.WriteFile(renderOutputFile, pdf, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", renderOutputFile, len(pdf))
	return nil
}
