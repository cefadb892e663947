package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rc-project/rc/internal/doctor"
	"github.com/rc-project/rc/pkg/color"
)

var (
	doctorStrict bool
)

var doctorCmd = &cobra.Command{
	Use:   "doctor <rc>",
	Short: "Check container health",
	Long: `Check container health.

Runs diagnostic checks on the container and reports any issues.
Use --strict to also read every file in the container.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, opts, err := loadOptions()
		if err != nil {
			return err
		}

		doc := doctor.NewDoctor(args[0], opts)
		result, err := doc.Check(doctorStrict)
		if err != nil {
			return fmt.Errorf("doctor: %w", err)
		}

		if jsonOutput {
			if err := outputJSON(result); err != nil {
				return err
			}
		} else if len(result.Findings) == 0 {
			fmt.Println(color.Success("Container is healthy."))
		} else {
			fmt.Printf("Findings (%d):\n", len(result.Findings))
			rows := make([][]string, 0, len(result.Findings))
			for _, f := range result.Findings {
				rows = append(rows, []string{severity(f.Severity), f.Category, f.Path, f.Description})
			}
			fmt.Println(renderTable([]string{"Severity", "Category", "Path", "Description"}, rows, nil))
		}

		if !result.Healthy {
			return errUnhealthy
		}
		return nil
	},
}

func severity(s string) string {
	switch s {
	case doctor.SeverityCritical, doctor.SeverityError:
		return color.Error(s)
	case doctor.SeverityWarning:
		return color.Warning(s)
	}
	return color.Dim(s)
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorStrict, "strict", false, "read every file to catch corrupt entries")
	rootCmd.AddCommand(doctorCmd)
}
