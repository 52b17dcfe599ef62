package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version. It is
// typically called by the main package with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the pcbclean CLI and returns an error if any command
// fails. Logging defaults to info level on stderr; --verbose (-v)
// switches to debug level. The logger is attached to the context and
// accessible to all commands.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:   "pcbclean",
		Short: "pcbclean checks and repairs the copper of KiCad boards",
		Long: `pcbclean loads a .kicad_pcb file and runs consistency passes over its
copper: duplicate and redundant via removal, null and duplicate trace
removal, collinear trace merging, short-circuit removal and dangling
track removal. It reports every change it would make; the board file is
never written.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("pcbclean %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newCleanCmd())
	root.AddCommand(newNetsCmd())

	return root.ExecuteContext(ctx)
}
