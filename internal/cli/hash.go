package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rc-project/rc/internal/integrity"
	"github.com/rc-project/rc/pkg/color"
)

var hashShort bool

var hashCmd = &cobra.Command{
	Use:   "hash <rc> [dir]",
	Short: "Print BLAKE3 digests of container files",
	Long: `Print the BLAKE3 digest of every file under dir, or the whole container,
followed by a root digest over all entries. The root digest is the same for
a directory container and an archive of it.`,
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
		tree, err := integrity.DigestTree(acc, dir)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(tree)
		}
		rows := make([][]string, 0, len(tree.Entries))
		for _, e := range tree.Entries {
			d := string(e.Digest)
			if hashShort {
				d = e.Digest.Short()
			}
			rows = append(rows, []string{d, humanize.Bytes(uint64(e.Size)), e.Path})
		}
		fmt.Println(renderTable(
			[]string{"Digest", "Size", "Path"},
			rows,
			[]columnAlignment{alignLeft, alignRight, alignLeft},
		))
		fmt.Printf("%s  %d files, %s\n", color.Header(string(tree.Root)), len(tree.Entries), humanize.Bytes(uint64(tree.Size)))
		return nil
	},
}

func init() {
	hashCmd.Flags().BoolVar(&hashShort, "short", false, "print abbreviated digests")
	rootCmd.AddCommand(hashCmd)
}
