package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"labdesk/internal/catalog"
	"labdesk/internal/project"
)

func newLinksCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "links",
		Short: "Edit a project's links",
	}
	cmd.AddCommand(newLinksSetCommand(ctx))
	cmd.AddCommand(newLinksRemoveCommand(ctx))
	cmd.AddCommand(newLinksDefaultsCommand(ctx))
	return cmd
}

func newLinksSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <project-id> <key> [url]",
		Short: "Set a link (an omitted url leaves an empty slot)",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.TrimSpace(args[1])
			value := ""
			if len(args) == 3 {
				value = strings.TrimSpace(args[2])
			}
			if err := project.ValidateLink(key, value); err != nil {
				return err
			}
			return editLinks(ctx, cmd, args[0], func(links map[string]string) error {
				links[key] = value
				return nil
			})
		},
	}
}

func newLinksRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <project-id> <key>",
		Short: "Remove a link",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.TrimSpace(args[1])
			return editLinks(ctx, cmd, args[0], func(links map[string]string) error {
				if _, ok := links[key]; !ok {
					return fmt.Errorf("link %q not set", key)
				}
				delete(links, key)
				return nil
			})
		},
	}
}

func newLinksDefaultsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "defaults <project-id>",
		Short: "Add empty slots for " + strings.Join(project.DefaultLinkKeys, ", "),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editLinks(ctx, cmd, args[0], func(links map[string]string) error {
				for k, v := range project.WithDefaultLinks(links) {
					links[k] = v
				}
				return nil
			})
		},
	}
}

func editLinks(ctx *commandContext, cmd *cobra.Command, id string, fn func(map[string]string) error) error {
	return ctx.withCatalog(cmd, func(c context.Context, cat *catalog.Catalog) error {
		result, err := cat.Edit(c, id, func(p *project.Project) error {
			links := make(map[string]string, len(p.Links))
			for k, v := range p.Links {
				links[k] = v
			}
			if err := fn(links); err != nil {
				return err
			}
			p.Links = links
			return nil
		})
		if err != nil {
			return err
		}
		writeResult(cmd.OutOrStdout(), "Updated", result.Project, result.Unchanged)
		return nil
	})
}
