package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rc-project/rc/internal/integrity"
	"github.com/rc-project/rc/pkg/color"
)

var infoCmd = &cobra.Command{
	Use:   "info <rc>",
	Short: "Show container information",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openContainer(args[0])
		if err != nil {
			return err
		}
		defer c.Close()

		m, err := c.Manifest()
		if err != nil {
			return err
		}
		acc, err := c.Accessor()
		if err != nil {
			return err
		}
		digest, err := integrity.ManifestDigest(m)
		if err != nil {
			return err
		}
		res := m.Resource()

		projects := make([]map[string]any, 0, len(m.Projects))
		for _, p := range m.Projects {
			projects = append(projects, map[string]any{
				"identifier": p.Identifier,
				"title":      p.Title,
				"path":       p.Path,
				"sort":       p.Sort,
			})
		}

		info := map[string]any{
			"path":            c.Path(),
			"storage":         acc.Kind(),
			"root":            acc.Root(),
			"conformsto":      m.DublinCore.ConformsTo,
			"resource":        res,
			"language":        m.DublinCore.Language.Identifier,
			"format":          m.DublinCore.Format,
			"project_count":   len(m.Projects),
			"projects":        projects,
			"manifest_digest": digest,
		}

		if jsonOutput {
			return outputJSON(info)
		}

		fmt.Printf("Container: %s\n", color.Path(c.Path()))
		fmt.Printf("  Storage: %s\n", acc.Kind())
		if acc.Root() != "" {
			fmt.Printf("  Root: %s\n", acc.Root())
		}
		fmt.Printf("  Identifier: %s\n", res.Slug)
		fmt.Printf("  Title: %s\n", res.Title)
		fmt.Printf("  Type: %s\n", res.Type)
		fmt.Printf("  Conforms to: %s\n", m.DublinCore.ConformsTo)
		fmt.Printf("  Language: %s\n", m.DublinCore.Language.Identifier)
		if res.Version != "" {
			fmt.Printf("  Version: %s\n", res.Version)
		}
		fmt.Printf("  Manifest digest: %s\n", color.Dim(digest.Short()))
		fmt.Printf("  Projects: %d\n", len(m.Projects))
		if len(m.Projects) > 0 {
			rows := make([][]string, 0, len(m.Projects))
			for _, p := range m.Projects {
				rows = append(rows, []string{strconv.Itoa(p.Sort), color.Project(p.Identifier), p.Path, p.Title})
			}
			fmt.Println(renderTable(
				[]string{"Sort", "Identifier", "Path", "Title"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
			))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
