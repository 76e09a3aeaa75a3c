package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"labdesk/internal/catalog"
	"labdesk/internal/project"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var search string
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects, most recently modified first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(cmd, func(c context.Context, cat *catalog.Catalog) error {
				projects, err := cat.List(c, search)
				if err != nil {
					return err
				}
				if asJSON {
					if projects == nil {
						projects = []project.Project{}
					}
					return writeJSON(cmd, projects)
				}
				out := cmd.OutOrStdout()
				if len(projects) == 0 {
					fmt.Fprintln(out, "No projects found")
					return nil
				}
				headers := []string{"ID", "Title", "Status", "Featured", "Tags", "Hash", "Modified"}
				fmt.Fprintln(out, renderTable(headers, buildProjectListRows(projects), nil))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Filter by title, description or tag")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON")
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one project with its links and updates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(cmd, func(c context.Context, cat *catalog.Catalog) error {
				p, err := cat.Get(c, args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, p)
				}
				writeProjectDetail(cmd.OutOrStdout(), p)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON")
	return cmd
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize projects by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(cmd, func(c context.Context, cat *catalog.Catalog) error {
				stats, err := cat.Stats(c)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, stats)
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Metric", "Count"}, buildStatsRows(stats), []columnAlignment{alignLeft, alignRight}))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON")
	return cmd
}

func newAddCommand(ctx *commandContext) *cobra.Command {
	var fields projectFlags
	var id string
	var withDefaultLinks bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a project",
		Long: "Create a project from --file and/or field flags. The id is generated when " +
			"omitted, the slug is derived from the title and the status defaults to draft.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var draft project.Project
			if err := fields.apply(cmd, &draft); err != nil {
				return err
			}
			if cmd.Flags().Changed("id") {
				draft.ID = strings.TrimSpace(id)
			}
			if withDefaultLinks {
				draft.Links = project.WithDefaultLinks(draft.Links)
			}
			return ctx.withCatalog(cmd, func(c context.Context, cat *catalog.Catalog) error {
				p, err := cat.Add(c, draft)
				if err != nil {
					return err
				}
				writeResult(cmd.OutOrStdout(), "Added", p, false)
				return nil
			})
		},
	}
	fields.bind(cmd)
	cmd.Flags().StringVar(&id, "id", "", "Project id (generated when omitted)")
	cmd.Flags().BoolVar(&withDefaultLinks, "default-links", false, "Add empty slots for the default link keys")
	return cmd
}

func newEditCommand(ctx *commandContext) *cobra.Command {
	var fields projectFlags
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change project fields",
		Long: "Apply --file and/or field flags to a stored project. Nothing is written " +
			"when the resulting content hash matches the stored one.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(cmd, func(c context.Context, cat *catalog.Catalog) error {
				if dryRun {
					return previewEdit(c, cmd, cat, args[0], &fields)
				}
				result, err := cat.Edit(c, args[0], func(p *project.Project) error {
					return fields.apply(cmd, p)
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
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report whether the edit would change the project without saving")
	return cmd
}

func previewEdit(ctx context.Context, cmd *cobra.Command, cat *catalog.Catalog, id string, fields *projectFlags) error {
	stored, err := cat.Get(ctx, id)
	if err != nil {
		return err
	}
	draft := stored.Clone()
	if err := fields.apply(cmd, &draft); err != nil {
		return err
	}
	sealed, err := cat.Seal(draft)
	if err != nil {
		return err
	}
	dirty, err := cat.Dirty(sealed, stored)
	if err != nil {
		return err
	}
	if dirty {
		fmt.Fprintf(cmd.OutOrStdout(), "%s would change (dry run, nothing saved)\n", id)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "No changes to %s\n", id)
	}
	return nil
}

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a project",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(cmd, func(c context.Context, cat *catalog.Catalog) error {
				if err := cat.Delete(c, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}
