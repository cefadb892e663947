package cli

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/rc-project/rc/pkg/color"
)

var (
	jsonOutput bool
	configPath string
	noColor    bool
	lenient    bool
	rootCmd    = &cobra.Command{
		Use:   "rc",
		Short: "rc - resource container tool",
		Long: `rc inspects and edits resource containers: a manifest.yaml plus content
files, stored either as a plain directory or as a zip archive.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// errUnhealthy makes the process exit non-zero after output was already
// printed.
var errUnhealthy = errors.New("container is not healthy")

func init() {
	setupRootFlags(rootCmd)
}

func setupRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $RC_CONFIG or the user config dir)")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	cmd.PersistentFlags().BoolVar(&lenient, "lenient", false, "open containers without the manifest and version checks")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		color.Init(noColor)
	}
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmtErr("%v", err)
		os.Exit(1)
	}
}

// outputJSON prints v as JSON if --json flag is set, otherwise does nothing.
func outputJSON(v any) error {
	if !jsonOutput {
		return nil
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
