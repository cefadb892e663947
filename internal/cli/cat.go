package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

var catCmd = &cobra.Command{
	Use:   "cat <rc> <file>",
	Short: "Print a file from a container",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openContainer(args[0])
		if err != nil {
			return err
		}
		defer c.Close()

		acc, err := c.Accessor()
		if err != nil {
			return err
		}
		s, err := acc.Open(args[1])
		if err != nil {
			return err
		}
		defer s.Close()

		_, err = io.Copy(os.Stdout, s)
		return err
	},
}

func init() {
	rootCmd.AddCommand(catCmd)
}
