package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"labdesk/internal/catalog"
)

var errVerifyFailed = errors.New("hash verification failed")

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Recompute every stored hash and report mismatches",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(cmd, func(c context.Context, cat *catalog.Catalog) error {
				mismatches, err := cat.Verify(c)
				if err != nil {
					return err
				}
				if asJSON {
					if err := writeJSON(cmd, buildMismatchViews(mismatches)); err != nil {
						return err
					}
				} else {
					writeVerifyReport(cmd, mismatches)
				}
				if len(mismatches) > 0 {
					return fmt.Errorf("%w: %d mismatches", errVerifyFailed, len(mismatches))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON")
	return cmd
}

type mismatchView struct {
	ProjectID string `json:"project_id"`
	Title     string `json:"title"`
	Subject   string `json:"subject"`
	Stored    string `json:"stored"`
	Computed  string `json:"computed"`
}

func buildMismatchViews(mismatches []catalog.Mismatch) []mismatchView {
	views := make([]mismatchView, 0, len(mismatches))
	for _, m := range mismatches {
		views = append(views, mismatchView{
			ProjectID: m.ProjectID,
			Title:     m.Title,
			Subject:   m.Subject(),
			Stored:    m.Stored,
			Computed:  m.Computed,
		})
	}
	return views
}

func writeVerifyReport(cmd *cobra.Command, mismatches []catalog.Mismatch) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	if len(mismatches) == 0 {
		fmt.Fprintln(out, renderStatusLine("Hashes", statusOK, "all stored hashes match", colorize))
		return
	}
	rows := make([][]string, 0, len(mismatches))
	for _, m := range mismatches {
		rows = append(rows, []string{
			m.ProjectID,
			truncate(m.Title, maxTitleWidth),
			m.Subject(),
			shortHash(m.Stored),
			shortHash(m.Computed),
		})
	}
	fmt.Fprintln(out, renderTable([]string{"ID", "Title", "Entry", "Stored", "Computed"}, rows, nil))
	fmt.Fprintln(out, renderStatusLine("Hashes", statusError, fmt.Sprintf("%d mismatches", len(mismatches)), colorize))
}
