package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rc-project/rc/pkg/color"
	"github.com/rc-project/rc/pkg/pathutil"
	"github.com/rc-project/rc/pkg/progress"
)

var addCmd = &cobra.Command{
	Use:   "add <rc> <src> [dest]",
	Short: "Copy external files into a container",
	Long: `Copy a file or a directory tree into a container.

dest defaults to the base name of src. A directory is added recursively
under dest. An archive is rewritten once for the whole batch.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		src := args[1]
		dest := filepath.Base(src)
		if len(args) == 3 {
			dest = args[2]
		}

		files, err := collectFiles(src, dest)
		if err != nil {
			return err
		}

		cfg, opts, err := loadOptions()
		if err != nil {
			return err
		}
		term := progress.NewAutoTerminal("add", len(files))
		if !cfg.Progress || jsonOutput {
			term.SetEnabled(false)
		}
		opts.Progress = term.Callback()

		c, err := openContainerWith(args[0], opts)
		if err != nil {
			return err
		}
		defer c.Close()

		if err := c.AddFiles(files); err != nil {
			return err
		}
		term.Done("")

		added := make([]string, 0, len(files))
		for d := range files {
			added = append(added, d)
		}
		sort.Strings(added)

		if jsonOutput {
			return outputJSON(map[string]any{"added": added})
		}
		fmt.Printf("Added %d files to %s\n", len(added), color.Path(c.Path()))
		return nil
	},
}

// collectFiles maps container destinations to source files. A directory
// src is walked and every regular file is placed under dest.
func collectFiles(src, dest string) (map[string]string, error) {
	if pathutil.Escapes(dest) {
		return nil, fmt.Errorf("destination %q escapes the container", dest)
	}
	info, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", src, err)
	}
	if !info.IsDir() {
		return map[string]string{pathutil.Normalize(dest): src}, nil
	}

	files := make(map[string]string)
	err = filepath.WalkDir(src, func(p string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !e.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		files[pathutil.Join(dest, filepath.ToSlash(rel))] = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", src, err)
	}
	return files, nil
}

func init() {
	rootCmd.AddCommand(addCmd)
}
