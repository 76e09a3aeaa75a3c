package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"labdesk/internal/catalog"
	"labdesk/internal/fileutil"
	"labdesk/internal/transfer"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every project as a JSON array",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(cmd, func(c context.Context, cat *catalog.Catalog) error {
				target := strings.TrimSpace(output)
				if target == "" || target == "-" {
					_, err := transfer.Export(c, cat.Store(), cmd.OutOrStdout())
					return err
				}

				var count int
				err := fileutil.WriteFileVerified(target, 0o644, func(w io.Writer) error {
					var err error
					count, err = transfer.Export(c, cat.Store(), w)
					return err
				})
				if err != nil {
					return fmt.Errorf("write %s: %w", target, err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d projects to %s\n", count, target)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination file (stdout when omitted)")
	return cmd
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Add projects from an export, skipping ids already stored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			var r io.Reader
			if args[0] == "-" {
				r = cmd.InOrStdin()
			} else {
				file, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open %s: %w", args[0], err)
				}
				defer file.Close()
				r = file
			}

			return ctx.withCatalog(cmd, func(c context.Context, cat *catalog.Catalog) error {
				importer := transfer.Importer{
					Catalog:  cat,
					LockPath: cfg.ImportLockPath(),
					Logger:   logger,
				}
				report, err := importer.Import(c, r)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d projects, skipped %d existing\n", len(report.Added), len(report.Skipped))
				return nil
			})
		},
	}
}
