package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/outlines/internal/store"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show the compliance audit log",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, done, err := serviceFor(cmd)
		if err != nil {
			return err
		}
		defer done()

		opts := store.QueryOpts{}
		opts.CourseID, _ = cmd.Flags().GetString("course")
		opts.After, _ = cmd.Flags().GetInt64("after")
		opts.Limit, _ = cmd.Flags().GetInt("limit")

		events, err := svc.Audit(cmd.Context(), opts)
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(events)
		}
		for _, e := range events {
			fmt.Printf("%6d  %s  %-16s  %-18s  %-12s  %s\n",
				e.Sequence, e.CreatedAt.Local().Format("2006-01-02 15:04"), e.CourseID, e.Kind, e.Actor, detail(e.Detail))
		}
		return nil
	},
}

var justificationCmd = &cobra.Command{
	Use:   "justification",
	Short: "Inspect non-match justifications",
}

var justificationListCmd = &cobra.Command{
	Use:   "list <course-id>",
	Short: "List the justifications submitted for a course, oldest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, done, err := serviceFor(cmd)
		if err != nil {
			return err
		}
		defer done()

		js, err := svc.Justifications(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(js) == 0 {
			fmt.Println("No justifications.")
			return nil
		}
		for _, j := range js {
			fmt.Printf("%s  %s  %s\n", j.SubmittedAt.Local().Format("2006-01-02 15:04"), j.ID, j.ReasonCode.Label())
			fmt.Printf("    %s\n", j.Text)
		}
		return nil
	},
}

func init() {
	auditCmd.Flags().String("course", "", "Only events for this course")
	auditCmd.Flags().Int64("after", 0, "Only events after this sequence number")
	auditCmd.Flags().Int("limit", 50, "Maximum events to show (0 = all)")
	auditCmd.Flags().Bool("json", false, "Print events as JSON")

	justificationCmd.AddCommand(justificationListCmd)
}

func detail(d map[string]string) string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + d[k]
	}
	return strings.Join(parts, " ")
}
