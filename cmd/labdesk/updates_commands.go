package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"labdesk/internal/catalog"
	"labdesk/internal/project"
)

func newUpdatesCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "updates",
		Short: "Edit a project's update log",
	}
	cmd.AddCommand(newUpdatesAddCommand(ctx))
	cmd.AddCommand(newUpdatesEditCommand(ctx))
	cmd.AddCommand(newUpdatesRemoveCommand(ctx))
	return cmd
}

type updateFlags struct {
	title   string
	content string
	date    string
}

func (f *updateFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Update title")
	cmd.Flags().StringVar(&f.content, "content", "", "Update body")
	cmd.Flags().StringVar(&f.date, "date", "", "Update date (RFC 3339 or YYYY-MM-DD)")
}

func (f *updateFlags) apply(cmd *cobra.Command, u *project.Update) {
	if cmd.Flags().Changed("title") {
		u.Title = f.title
	}
	if cmd.Flags().Changed("content") {
		u.Content = f.content
	}
	if cmd.Flags().Changed("date") {
		u.Date = strings.TrimSpace(f.date)
	}
}

func newUpdatesAddCommand(ctx *commandContext) *cobra.Command {
	var fields updateFlags

	cmd := &cobra.Command{
		Use:   "add <project-id>",
		Short: "Append an update entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var entry project.Update
			fields.apply(cmd, &entry)
			return ctx.withCatalog(cmd, func(c context.Context, cat *catalog.Catalog) error {
				result, err := cat.Edit(c, args[0], func(p *project.Project) error {
					updates, err := cat.UpdateLog().Add(p.Updates, entry)
					if err != nil {
						return err
					}
					p.Updates = updates
					return nil
				})
				if err != nil {
					return err
				}
				writeResult(cmd.OutOrStdout(), "Updated", result.Project, result.Unchanged)
				return nil
			})
		},
	}
	fields.bind(cmd)
	return cmd
}

func newUpdatesEditCommand(ctx *commandContext) *cobra.Command {
	var fields updateFlags

	cmd := &cobra.Command{
		Use:   "edit <project-id> <number>",
		Short: "Change an update entry (numbers as shown by `labdesk show`)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseEntryNumber(args[1])
			if err != nil {
				return err
			}
			return ctx.withCatalog(cmd, func(c context.Context, cat *catalog.Catalog) error {
				result, err := cat.Edit(c, args[0], func(p *project.Project) error {
					if idx >= len(p.Updates) {
						return fmt.Errorf("update %d out of range (only %d entries exist)", idx+1, len(p.Updates))
					}
					entry := p.Updates[idx]
					fields.apply(cmd, &entry)
					updates, err := cat.UpdateLog().Replace(p.Updates, idx, entry)
					if err != nil {
						return err
					}
					p.Updates = updates
					return nil
				})
				if err != nil {
					return err
				}
				writeResult(cmd.OutOrStdout(), "Updated", result.Project, result.Unchanged)
				return nil
			})
		},
	}
	fields.bind(cmd)
	return cmd
}

func newUpdatesRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <project-id> <number>",
		Short: "Remove an update entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseEntryNumber(args[1])
			if err != nil {
				return err
			}
			return ctx.withCatalog(cmd, func(c context.Context, cat *catalog.Catalog) error {
				result, err := cat.Edit(c, args[0], func(p *project.Project) error {
					if idx >= len(p.Updates) {
						return fmt.Errorf("update %d out of range (only %d entries exist)", idx+1, len(p.Updates))
					}
					updates, err := cat.UpdateLog().Remove(p.Updates, idx)
					if err != nil {
						return err
					}
					p.Updates = updates
					return nil
				})
				if err != nil {
					return err
				}
				writeResult(cmd.OutOrStdout(), "Updated", result.Project, result.Unchanged)
				return nil
			})
		},
	}
}

// parseEntryNumber converts a 1-based entry number into an index.
func parseEntryNumber(value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid update number %q", value)
	}
	if n < 1 {
		return 0, fmt.Errorf("invalid update number: %d", n)
	}
	return n - 1, nil
}
