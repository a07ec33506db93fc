package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"resume-tailor/internal/extract"
	"resume-tailor/internal/tailoring"
)

var tailorCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Tailor a resume to a job description",
	Long:  "Extracts the base resume, asks the configured model for a tailored resume and cover letter, records a PENDING history entry and writes the results to the output directory.",
	RunE:  runTailor,
}

var (
	tailorResumeFile string
	tailorJDFile     string
	tailorOutDir     string
	tailorPDF        bool
)

func init() {
	tailorCmd.Flags().StringVarP(&tailorResumeFile, "resume", "r", "", "Path to base resume (pdf, docx or text) (required)")
	tailorCmd.Flags().StringVarP(&tailorJDFile, "jd", "j", "", "Path to job description text file (required)")
	tailorCmd.Flags().StringVarP(&tailorOutDir, "out", "o", ".", "Output directory")
	tailorCmd.Flags().BoolVar(&tailorPDF, "pdf", false, "Also render Resume.pdf and CoverLetter.pdf")

	if err := tailorCmd.MarkFlagRequired("resume"); err != nil {
		panic(fmt.Sprintf("failed to mark resume flag as required: %v", err))
	}
	if err := tailorCmd.MarkFlagRequired("jd"); err != nil {
		panic(fmt.Sprintf("failed to mark jd flag as required: %v", err))
	}

	rootCmd.AddCommand(tailorCmd)
}

func runTailor(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	resumeText, err := readResume(ctx, tailorResumeFile)
	if err != nil {
		return err
	}
	jd, err := os.ReadFile(tailorJDFile)
	if err != nil {
		return fmt.Errorf("failed to read job description: %w", err)
	}

	app, err := loadApp()
	if err != nil {
		return err
	}
	defer app.Close()

	res, err := app.TailorService.Tailor(ctx, tailoring.Request{
		BaseResume:     resumeText,
		JobDescription: string(jd),
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(tailorOutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	files := map[string][]byte{
		"resume.txt":       []byte(res.TailoredResume),
		"cover_letter.txt": []byte(res.CoverLetter),
	}
	if tailorPDF {
		if files["Resume.pdf"], err = app.Renderer.Resume(res.TailoredResume); err != nil {
			return err
		}
		if files["CoverLetter.pdf"], err = app.Renderer.CoverLetter(res.CoverLetter); err != nil {
			return err
		}
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(tailorOutDir, name), data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "entry %s (%d attempt(s)) written to %s\n", res.EntryID, res.Attempts, tailorOutDir)
	return nil
}

func readResume(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read resume: %w", err)
	}
	text, err := extract.Text(ctx, data, "", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("failed to extract resume text: %w", err)
	}
	return text, nil
}
