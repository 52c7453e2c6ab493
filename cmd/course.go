package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/outlines/internal/cbcode"
	"github.com/abhisek/outlines/internal/service"
)

var courseCmd = &cobra.Command{
	Use:   "course",
	Short: "Import and inspect course outlines",
}

var courseImportCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Import course outlines from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read course file: %w", err)
		}
		courses, err := service.ParseCourses(data)
		if err != nil {
			return err
		}

		svc, done, err := serviceFor(cmd)
		if err != nil {
			return err
		}
		defer done()

		if err := svc.ImportCourses(cmd.Context(), courses, localActor()); err != nil {
			return err
		}
		fmt.Printf("Imported %d courses\n", len(courses))
		return nil
	},
}

var courseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored courses",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, done, err := serviceFor(cmd)
		if err != nil {
			return err
		}
		defer done()

		courses, err := svc.Courses(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("%-16s  %-12s  %-40s  %5s  %-12s  %s\n",
			"ID", "Course", "Title", "Units", "CCN", "CB codes")
		rule(110)
		for _, c := range courses {
			status := "incomplete"
			if cbcode.Complete(c.Codes) {
				status = "complete"
			}
			fmt.Printf("%-16s  %-12s  %-40s  %5g  %-12s  %s\n",
				c.ID, c.SubjectCode+" "+c.Number, truncate(c.Title, 40), c.Units,
				orDash(c.CCNStandardID), status)
		}
		fmt.Printf("\n%d courses\n", len(courses))
		return nil
	},
}

var courseShowCmd = &cobra.Command{
	Use:   "show <course-id>",
	Short: "Show one course with its CB codes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, done, err := serviceFor(cmd)
		if err != nil {
			return err
		}
		defer done()

		c, err := svc.Course(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(service.CourseDTO(*c))
		}

		fmt.Printf("%s %s  %s\n", c.SubjectCode, c.Number, c.Title)
		fmt.Printf("Units: %g   CCN: %s\n", c.Units, orDash(c.CCNStandardID))
		if len(c.Outcomes) > 0 {
			fmt.Println("\nOutcomes:")
			for _, o := range c.Outcomes {
				fmt.Println("  -", o.Text)
			}
		}
		if len(c.Topics) > 0 {
			fmt.Println("\nTopics:")
			for _, t := range c.Topics {
				fmt.Println("  -", t.Title)
			}
		}

		fmt.Println("\nCB codes:")
		for _, q := range cbcode.Visible(c.Codes) {
			def, _ := q.Code.Definition()
			v, ok := c.Codes.Get(q.Code)
			value := "(unanswered)"
			if ok {
				value = v + "  " + def.OptionLabel(v)
			}
			lock := ""
			if c.Codes.IsLocked(q.Code) {
				lock = "  [locked]"
			}
			fmt.Printf("  %-5s %-30s %s%s\n", strings.ToUpper(string(q.Code)), def.Label, value, lock)
		}
		return nil
	},
}

func init() {
	courseShowCmd.Flags().Bool("json", false, "Print the course as JSON")

	courseCmd.AddCommand(courseImportCmd)
	courseCmd.AddCommand(courseListCmd)
	courseCmd.AddCommand(courseShowCmd)
}

// serviceFor is the common setup of read-only local commands.
func serviceFor(cmd *cobra.Command) (*service.Service, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	log, err := newLogger(cfg, false)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	svc, closeStore, err := openService(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return svc, func() {
		closeStore()
		log.Sync()
	}, nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
