package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rc-project/rc/pkg/color"
	"github.com/rc-project/rc/pkg/errclass"
	"github.com/rc-project/rc/pkg/model"
	"github.com/rc-project/rc/pkg/pathutil"
	"github.com/rc-project/rc/pkg/rc"
)

var (
	initIdentifier string
	initTitle      string
	initType       string
	initFormat     string
	initLanguage   string
)

var initCmd = &cobra.Command{
	Use:   "init <rc>",
	Short: "Create a new resource container",
	Long: `Create a new resource container at <rc>.

A path ending in .zip creates an archive, anything else a directory.
Only manifest.yaml is written; add content with "rc add".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		if err := pathutil.ValidateSlug(initIdentifier); err != nil {
			return fmt.Errorf("identifier: %w", err)
		}
		_, opts, err := loadOptions()
		if err != nil {
			return err
		}

		c, err := rc.Create(path, func(c *rc.Container) error {
			acc, err := c.Accessor()
			if err != nil {
				return err
			}
			if acc.FileExists(model.ManifestFile) {
				return errclass.ErrNameInvalid.WithMessagef("%s already contains a manifest", path)
			}
			m := model.NewManifest()
			m.DublinCore.Identifier = initIdentifier
			m.DublinCore.Title = initTitle
			m.DublinCore.Type = initType
			m.DublinCore.Format = initFormat
			m.DublinCore.Language.Identifier = initLanguage
			return c.SetManifest(m)
		}, opts)
		if err != nil {
			return err
		}
		defer c.Close()

		if err := c.Write(); err != nil {
			return fmt.Errorf("write container: %w", err)
		}

		if jsonOutput {
			conforms, _ := c.ConformsTo()
			return outputJSON(map[string]any{
				"path":       c.Path(),
				"identifier": initIdentifier,
				"conformsto": conforms,
			})
		}
		fmt.Printf("Created resource container %s\n", color.Success(path))
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initIdentifier, "identifier", "", "resource identifier (required)")
	initCmd.Flags().StringVar(&initTitle, "title", "", "resource title")
	initCmd.Flags().StringVar(&initType, "type", "book", "resource type")
	initCmd.Flags().StringVar(&initFormat, "format", "text/usfm", "content MIME type")
	initCmd.Flags().StringVar(&initLanguage, "language", "en", "language identifier")
	initCmd.MarkFlagRequired("identifier")
	rootCmd.AddCommand(initCmd)
}
