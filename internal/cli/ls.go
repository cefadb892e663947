package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls <rc> [dir]",
	Short: "List files in a container",
	Long: `List files under dir, or the whole container, relative to dir and
in path order.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := ""
		if len(args) == 2 {
			dir = args[1]
		}

		c, err := openContainer(args[0])
		if err != nil {
			return err
		}
		defer c.Close()

		acc, err := c.Accessor()
		if err != nil {
			return err
		}
		files, err := acc.List(dir)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(files)
		}
		for _, f := range files {
			fmt.Println(f)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)
}
