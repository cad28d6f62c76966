package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/client/services"
	"github.com/dustin/go-humanize"
)

// renderTasks lays tasks out as a table. The CREATED BY column appears only
// for admins and only when at least one task carries an owner.
func renderTasks(tasks []models.Task, admin bool) string {
	if len(tasks) == 0 {
		return "No tasks yet"
	}

	withOwner := false
	if admin {
		for _, t := range tasks {
			if t.CreatedBy != nil {
				withOwner = true
				break
			}
		}
	}

	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)

	header := "ID\tTITLE\tSTATUS\tCREATED"
	if withOwner {
		header += "\tCREATED BY"
	}
	fmt.Fprintln(tw, header)

	for _, t := range tasks {
		created := "-"
		if !t.CreatedAt.IsZero() {
			created = humanize.Time(t.CreatedAt.Time)
		}
		row := fmt.Sprintf("%d\t%s\t%s\t%s", t.ID, t.Title, t.Status, created)
		if withOwner {
			owner := "-"
			if t.CreatedBy != nil {
				owner = *t.CreatedBy
			}
			row += "\t" + owner
		}
		fmt.Fprintln(tw, row)
	}
	_ = tw.Flush()

	return strings.TrimRight(b.String(), "\n")
}

func printForm(m services.Modal, f models.Form) {
	printlnFn(fmt.Sprintf("%s: title=%q status=%s", m, f.Title, f.Status))
	if f.Description != "" {
		printlnFn(f.Description)
	}
}

func formatNotification(n models.Notification) string {
	return fmt.Sprintf("[%s] %s", n.Severity, n.Message)
}
