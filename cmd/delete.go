package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/emrgen/pagepurge/internal/service"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(deletePageCmd())
	rootCmd.AddCommand(checkPageCmd())
}

func deletePageCmd() *cobra.Command {
	var ns int
	var title string
	var actor string
	var force bool

	var required = []string{"ns", "title", "actor"}

	command := &cobra.Command{
		Use:     "delete",
		Short:   "permanently delete a page",
		Long:    `permanently delete a page with its revisions, links, history and files; this cannot be undone`,
		Example: "pagepurge delete --ns 0 --title Foo --actor Admin",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			ctx := context.Background()
			app, err := loadApp(ctx)
			if err != nil {
				logrus.Error(err)
				return
			}
			defer app.Close()

			ref, err := app.Purge.Resolve(ctx, ns, title)
			if err != nil {
				color.Red("%s: %v", title, err)
				return
			}

			if !force && !confirm(fmt.Sprintf("permanently delete page %d %q in namespace %d?", ref.ID, ref.Title, ref.Namespace)) {
				color.Yellow("aborted")
				return
			}

			report, err := app.Purge.Submit(ctx, actor, ns, title)
			if err != nil {
				color.Red("%v", err)
				return
			}

			printReport(report)
			color.Green("page %d permanently deleted", report.Page.ID)
		},
	}

	command.Flags().IntVarP(&ns, "ns", "n", 0, "namespace id (required)")
	command.Flags().StringVarP(&title, "title", "t", "", "page title (required)")
	command.Flags().StringVarP(&actor, "actor", "a", "", "acting user name (required)")
	command.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")

	command.Flags().SortFlags = false

	return command
}

func checkPageCmd() *cobra.Command {
	var ns int
	var title string

	var required = []string{"ns", "title"}

	command := &cobra.Command{
		Use:     "check",
		Short:   "check whether a page can be permanently deleted",
		Example: "pagepurge check --ns 0 --title Foo",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			ctx := context.Background()
			app, err := loadApp(ctx)
			if err != nil {
				logrus.Error(err)
				return
			}
			defer app.Close()

			ok, err := app.Purge.IsDeletable(ctx, ns, title)
			if err != nil {
				logrus.Error(err)
				return
			}

			if ok {
				color.Green("%s can be permanently deleted", title)
			} else {
				color.Red("%s cannot be permanently deleted", title)
			}
		},
	}

	command.Flags().IntVarP(&ns, "ns", "n", 0, "namespace id (required)")
	command.Flags().StringVarP(&title, "title", "t", "", "page title (required)")

	command.Flags().SortFlags = false

	return command
}

func confirm(question string) bool {
	color.Magenta("%s [y/N] ", question)

	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func printReport(report *service.Report) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Table", "Rows"})
	for _, name := range report.Tables() {
		table.Append([]string{name, strconv.FormatInt(report.Rows[name], 10)})
	}
	table.SetFooter([]string{"Total", strconv.FormatInt(report.TotalRows(), 10)})
	table.Render()

	printField("Revisions", fmt.Sprintf("%d current, %d archived", report.Revisions, report.ArchivedRevisions))
	printField("Content", fmt.Sprintf("%d removed, %d kept", report.ContentDeleted, report.ContentKept))
	if report.UnmappedAddresses > 0 {
		printField("Unmapped", strconv.FormatInt(report.UnmappedAddresses, 10))
	}
	if report.ExternalBlobs > 0 {
		printField("External", strconv.Itoa(report.ExternalBlobs))
	}
	if report.FileStatus != "" {
		printField("File", fmt.Sprintf("%s, %d archived objects removed", report.FileStatus, len(report.FileKeysCleaned)))
	}
	if len(report.Categories) > 0 {
		printField("Categories", strings.Join(report.Categories, ", "))
	}
}
