package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rc-project/rc/pkg/accessor"
	"github.com/rc-project/rc/pkg/color"
	"github.com/rc-project/rc/pkg/errclass"
	"github.com/rc-project/rc/pkg/fsutil"
	"github.com/rc-project/rc/pkg/pathutil"
	"github.com/rc-project/rc/pkg/progress"
)

var (
	extractProject string
	extractExt     string
	extractOut     string
)

var extractCmd = &cobra.Command{
	Use:   "extract <rc>",
	Short: "Copy container files to a directory",
	Long: `Copy container files to a directory.

With --project only the files under that project's path are copied, relative
to the project directory. --ext takes a comma separated list of extensions.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if extractOut == "" {
			return fmt.Errorf("--out is required")
		}
		cfg, opts, err := loadOptions()
		if err != nil {
			return err
		}
		exts := splitList(extractExt)

		c, err := openContainerWith(args[0], opts)
		if err != nil {
			return err
		}
		defer c.Close()

		var streams map[string]*accessor.Stream
		if extractProject != "" {
			content, err := c.GetProjectContent(extractProject, exts...)
			if err != nil {
				return err
			}
			if content == nil {
				p, err := c.Project(extractProject)
				if err != nil {
					return err
				}
				if p == nil {
					return errclass.ErrNotFound.WithMessagef("project %s not found", extractProject)
				}
			} else {
				streams = content.Streams
			}
		} else {
			acc, err := c.Accessor()
			if err != nil {
				return err
			}
			streams, err = acc.OpenAll("", exts...)
			if err != nil {
				return err
			}
		}

		paths := make([]string, 0, len(streams))
		for p := range streams {
			paths = append(paths, p)
		}
		sort.Strings(paths)

		term := progress.NewAutoTerminal("extract", len(paths))
		if !cfg.Progress || jsonOutput {
			term.SetEnabled(false)
		}
		prog := progress.New("extract", len(paths), term.Callback())

		if err := os.MkdirAll(extractOut, 0755); err != nil {
			return fmt.Errorf("create %s: %w", extractOut, err)
		}
		var total int64
		for i, rel := range paths {
			n, err := extractFile(extractOut, rel, streams[rel])
			if err != nil {
				closeStreams(streams, paths[i+1:])
				return err
			}
			total += n
			term.AddBytes(n)
			prog.Increment(rel)
		}
		term.Done("")

		if jsonOutput {
			return outputJSON(map[string]any{
				"out":   extractOut,
				"files": paths,
				"bytes": total,
			})
		}
		fmt.Printf("Extracted %d files (%s) to %s\n", len(paths), humanize.Bytes(uint64(total)), color.Path(extractOut))
		return nil
	},
}

// extractFile copies s to out/rel and closes s.
func extractFile(out, rel string, s *accessor.Stream) (int64, error) {
	defer s.Close()
	target := filepath.Join(out, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return 0, fmt.Errorf("create parent of %s: %w", rel, err)
	}
	if err := pathutil.ValidatePathSafety(out, target); err != nil {
		return 0, err
	}
	var n int64
	err := fsutil.AtomicWriteFunc(target, 0644, func(w io.Writer) error {
		var err error
		n, err = io.Copy(w, s)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("extract %s: %w", rel, err)
	}
	return n, nil
}

func closeStreams(streams map[string]*accessor.Stream, paths []string) {
	for _, p := range paths {
		streams[p].Close()
	}
}

// splitList splits a comma separated flag value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func init() {
	extractCmd.Flags().StringVar(&extractProject, "project", "", "project identifier (default: whole container)")
	extractCmd.Flags().StringVar(&extractExt, "ext", "", "comma separated file extensions to extract")
	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "", "output directory")
	rootCmd.AddCommand(extractCmd)
}
