package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/outlines/internal/api"
	"github.com/abhisek/outlines/internal/ccn"
)

var matchCmd = &cobra.Command{
	Use:   "match <course-id>",
	Short: "Find the CCN standard that best matches a stored course",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, done, err := serviceFor(cmd)
		if err != nil {
			return err
		}
		defer done()

		course, err := svc.Course(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		profile := course.Profile()

		if all, _ := cmd.Flags().GetBool("all"); all {
			ranked, err := svc.Rank(profile)
			if err != nil {
				return err
			}
			fmt.Printf("%-12s  %-44s  %10s  %s\n", "ID", "Title", "Confidence", "Alignment")
			rule(84)
			for _, r := range ranked {
				fmt.Printf("%-12s  %-44s  %9.0f%%  %s\n", r.Standard.ID, truncate(r.Standard.Title, 44), r.Confidence*100, r.Alignment)
			}
			return nil
		}

		result, err := svc.Match(cmd.Context(), profile)
		if err != nil {
			return err
		}
		if result == nil {
			fmt.Println("No matching CCN standard.")
			return nil
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(api.CandidateFromResult(*result))
		}
		printMatch(*result)
		return nil
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare <course-id> <standard-id>",
	Short: "Compare a stored course against a standard requirement by requirement",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, done, err := serviceFor(cmd)
		if err != nil {
			return err
		}
		defer done()

		cmp, err := svc.Compare(cmd.Context(), api.CompareRequest{
			StandardID: args[1],
			Course:     api.MatchRequest{CourseID: args[0]},
		})
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(cmp)
		}

		fmt.Printf("%s vs %s: %d%% aligned\n", args[0], cmp.StandardID, cmp.AlignmentScorePercent)
		fmt.Printf("Units: %s\n", mark(cmp.UnitsMatch))
		fmt.Println("\nStudent learning outcomes:")
		printRequirements(cmp.SLOMatches)
		fmt.Println("\nContent:")
		printRequirements(cmp.ContentMatches)
		for _, e := range append(append([]string{}, cmp.ExtraSLOs...), cmp.ExtraContent...) {
			fmt.Println("  +", e)
		}
		return nil
	},
}

func init() {
	matchCmd.Flags().Bool("all", false, "Rank every standard instead of reporting the best match")
	matchCmd.Flags().Bool("json", false, "Print the match as JSON")
	compareCmd.Flags().Bool("json", false, "Print the comparison as JSON")
}

func printMatch(r ccn.MatchResult) {
	fmt.Printf("%s  %s\n", r.Standard.ID, r.Standard.Title)
	fmt.Printf("Confidence: %.0f%% (%s)\n", r.Confidence*100, r.Alignment)
	for _, reason := range r.Reasons {
		fmt.Println("  -", reason)
	}
}

func printRequirements(matches []ccn.RequirementMatch) {
	for _, m := range matches {
		fmt.Printf("  %s %s\n", mark(m.Matched), m.Requirement)
	}
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}
