package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"labdesk/internal/project"
)

const maxTitleWidth = 40

func buildProjectListRows(projects []project.Project) [][]string {
	if len(projects) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			p.ID,
			truncate(p.Title, maxTitleWidth),
			formatStatusLabel(string(p.Status)),
			yesNo(p.Featured),
			strings.Join(p.Tags, ", "),
			shortHash(p.Hash),
			formatDisplayTime(p.LastModified),
		})
	}
	return rows
}

func buildStatsRows(stats project.Stats) [][]string {
	rows := [][]string{
		{"Total", fmt.Sprintf("%d", stats.Total)},
		{"Featured", fmt.Sprintf("%d", stats.Featured)},
		{"Active", fmt.Sprintf("%d", stats.Active)},
		{"Draft", fmt.Sprintf("%d", stats.Draft)},
	}
	for _, key := range stats.StatusKeys() {
		rows = append(rows, []string{"Status: " + formatStatusLabel(key), fmt.Sprintf("%d", stats.ByStatus[key])})
	}
	return rows
}

func writeProjectDetail(out io.Writer, p project.Project) {
	fmt.Fprintf(out, "ID:            %s\n", p.ID)
	fmt.Fprintf(out, "Title:         %s\n", p.Title)
	fmt.Fprintf(out, "Slug:          %s\n", p.Slug)
	fmt.Fprintf(out, "Status:        %s\n", formatStatusLabel(string(p.Status)))
	fmt.Fprintf(out, "Featured:      %s\n", yesNo(p.Featured))
	fmt.Fprintf(out, "Hash:          %s\n", p.Hash)
	fmt.Fprintf(out, "Last modified: %s\n", formatDisplayTime(p.LastModified))
	if p.LastUpdated != "" {
		fmt.Fprintf(out, "Last updated:  %s\n", p.LastUpdated)
	}
	if len(p.Tags) > 0 {
		fmt.Fprintf(out, "Tags:          %s\n", strings.Join(p.Tags, ", "))
	}
	if p.Image != "" {
		fmt.Fprintf(out, "Image:         %s\n", p.Image)
	}
	if p.Summary != "" {
		fmt.Fprintf(out, "Summary:       %s\n", p.Summary)
	}
	if p.Description != "" {
		fmt.Fprintf(out, "\n%s\n", p.Description)
	}

	if len(p.Links) > 0 {
		keys := make([]string, 0, len(p.Links))
		for k := range p.Links {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		rows := make([][]string, 0, len(keys))
		for _, k := range keys {
			rows = append(rows, []string{k, p.Links[k]})
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderTable([]string{"Link", "URL"}, rows, nil))
	}

	if len(p.Updates) > 0 {
		rows := make([][]string, 0, len(p.Updates))
		for i, u := range p.Updates {
			rows = append(rows, []string{
				fmt.Sprintf("%d", i+1),
				formatDisplayTime(u.Date),
				truncate(u.Title, maxTitleWidth),
				shortHash(u.Hash),
			})
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderTable([]string{"#", "Date", "Title", "Hash"}, rows, []columnAlignment{alignRight}))
	}

	for _, issue := range p.Issues {
		fmt.Fprintf(out, "warning: %s column could not be decoded: %v\n", issue.Column, issue.Err)
	}
}

func writeResult(out io.Writer, verb string, p project.Project, unchanged bool) {
	if unchanged {
		fmt.Fprintf(out, "No changes to %s (hash %s)\n", p.ID, p.Hash)
		return
	}
	fmt.Fprintf(out, "%s %s (hash %s)\n", verb, p.ID, p.Hash)
}
