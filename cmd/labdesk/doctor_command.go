package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"labdesk/internal/config"
	"labdesk/internal/preflight"
	"labdesk/internal/store"
)

var errDoctorFailed = errors.New("doctor found problems")

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check directories and store connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			for _, line := range renderSectionHeader("Configuration", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderStatusLine("Backend", statusInfo, cfg.Store.Backend, colorize))
			fmt.Fprintln(out, renderStatusLine("Table", statusInfo, cfg.Store.Table, colorize))
			fmt.Fprintln(out, renderStatusLine("Hash excludes", statusInfo, cfg.Fingerprint.ExcludeField, colorize))

			var results []preflight.Result
			s, openErr := ctx.openStore()
			if openErr != nil {
				results = preflight.RunAll(cmd.Context(), cfg, nil)
				results = append(results, preflight.Result{
					Name:   fmt.Sprintf("Store (%s)", cfg.Store.Backend),
					Detail: openErr.Error(),
				})
			} else {
				results = runPreflight(cmd.Context(), cfg, s)
			}

			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Checks", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, line := range preflightLines(results, colorize) {
				fmt.Fprintln(out, line)
			}
			if preflight.Failed(results) {
				return errDoctorFailed
			}
			return nil
		},
	}
}

func runPreflight(ctx context.Context, cfg *config.Config, s store.Store) []preflight.Result {
	defer s.Close()
	return preflight.RunAll(ctx, cfg, s)
}
