package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"resume-tailor/internal/shared/storage/object"
)

var archiveExtracted bool

var archiveCmd = &cobra.Command{
	Use:   "archive <key>",
	Short: "Print an archived upload, or its extracted text with --extracted",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp()
		if err != nil {
			return err
		}
		defer app.Close()
		if app.Store == nil {
			return errors.New("no object store configured (OBJECT_STORE=none)")
		}
		return copyArchived(context.Background(), app.Store, args[0], archiveExtracted, cmd.OutOrStdout())
	},
}

func copyArchived(ctx context.Context, store object.Store, key string, extracted bool, w io.Writer) error {
	if extracted {
		key = object.ExtractedKey(key)
	}
	rc, err := store.Open(ctx, key)
	if err != nil {
		return fmt.Errorf("open %s: %w", key, err)
	}
	defer rc.Close()
	if _, err := io.Copy(w, rc); err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	return nil
}

func init() {
	archiveCmd.Flags().BoolVar(&archiveExtracted, "extracted", false, "print the extracted text stored next to the upload")
	rootCmd.AddCommand(archiveCmd)
}
