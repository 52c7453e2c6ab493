package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/outlines/internal/catalog"
	"github.com/abhisek/outlines/internal/ccn"
)

var standardCmd = &cobra.Command{
	Use:   "standard",
	Short: "Browse the CCN standards catalog",
}

var standardListCmd = &cobra.Command{
	Use:   "list",
	Short: "List standards (optionally filtered by discipline)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := openCatalog(cmd)
		if err != nil {
			return err
		}

		standards := cat.Standards()
		if d, _ := cmd.Flags().GetString("discipline"); d != "" {
			standards = cat.Discipline(d)
			if len(standards) == 0 {
				return fmt.Errorf("no standards found for discipline %q", d)
			}
		}

		fmt.Printf("%-12s  %-10s  %-44s  %5s\n", "ID", "Discipline", "Title", "Units")
		rule(78)
		for _, s := range standards {
			fmt.Printf("%-12s  %-10s  %-44s  %5g\n", s.ID, s.Discipline, truncate(s.Title, 44), s.MinimumUnits)
		}
		fmt.Printf("\n%d standards (catalog %s)\n", len(standards), cat.Version())
		return nil
	},
}

var standardShowCmd = &cobra.Command{
	Use:   "show <standard-id>",
	Short: "Show one standard's requirements",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := openCatalog(cmd)
		if err != nil {
			return err
		}
		s, ok := cat.Lookup(args[0])
		if !ok {
			return fmt.Errorf("standard %q not found in catalog %s", args[0], cat.Version())
		}
		printStandard(s)
		return nil
	},
}

func init() {
	standardListCmd.Flags().String("discipline", "", "Filter by discipline (e.g. ENGL)")

	standardCmd.AddCommand(standardListCmd)
	standardCmd.AddCommand(standardShowCmd)
}

func openCatalog(cmd *cobra.Command) (*catalog.Catalog, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return catalog.Open(cfg.CatalogPath)
}

func printStandard(s ccn.Standard) {
	fmt.Printf("%s  %s\n", s.ID, s.Title)
	fmt.Printf("Discipline: %s   Minimum units: %g\n", s.Discipline, s.MinimumUnits)
	if s.Descriptor != "" {
		fmt.Printf("\n%s\n", s.Descriptor)
	}
	fmt.Println("\nStudent learning outcomes:")
	for _, r := range s.SLORequirements {
		fmt.Println("  -", r)
	}
	fmt.Println("\nContent:")
	for _, r := range s.ContentRequirements {
		fmt.Println("  -", r)
	}
}
