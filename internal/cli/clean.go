package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/NoelAshdown/kicad-devel/pkg/kicad/pcb"
	"github.com/NoelAshdown/kicad-devel/pkg/kicad/tracks"
)

// newCleanCmd creates the clean command.
func newCleanCmd() *cobra.Command {
	var (
		configPath string
		jsonOut    bool
		check      bool
		vias       bool
		merge      bool
		shorts     bool
		dangling   bool
	)

	cmd := &cobra.Command{
		Use:   "clean <board.kicad_pcb>",
		Short: "Run the copper consistency passes and report the changes",
		Long: `Clean loads the board and runs the selected cleanup passes over its
copper. Changes are reported, not written back: the command is a dry run
against the file by design.

Pass selection comes from a .pcbclean.toml next to the board (or the
file given with --config), overridden by any pass flags set explicitly.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := findConfig(configPath, args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("vias") {
				cfg.Cleanup.Vias = vias
			}
			if flags.Changed("merge") {
				cfg.Cleanup.Merge = merge
			}
			if flags.Changed("shorts") {
				cfg.Cleanup.Shorts = shorts
			}
			if flags.Changed("dangling") {
				cfg.Cleanup.Dangling = dangling
			}
			return runClean(cmd, args[0], cfg.Options(), jsonOut, check)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "configuration file (default: .pcbclean.toml next to the board)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "write the change list as JSON to stdout")
	cmd.Flags().BoolVar(&check, "check", false, "exit with an error when the board needs changes")
	cmd.Flags().BoolVar(&vias, "vias", true, "remove duplicate and redundant vias")
	cmd.Flags().BoolVar(&merge, "merge", true, "remove null/duplicate traces and merge collinear ones")
	cmd.Flags().BoolVar(&shorts, "shorts", false, "remove traces and vias shorting other nets")
	cmd.Flags().BoolVar(&dangling, "dangling", true, "remove dangling tracks")

	return cmd
}

func runClean(cmd *cobra.Command, path string, opts tracks.Options, jsonOut, check bool) error {
	logger := loggerFromContext(cmd.Context())

	board, err := pcb.ParseFile(path)
	if err != nil {
		return fmt.Errorf("failed to load board: %w", err)
	}
	logger.Debug("board loaded",
		"tracks", board.Tracks.Len(),
		"nets", len(board.Nets),
		"footprints", len(board.Footprints),
		"zones", len(board.Zones))

	if !opts.Any() {
		logger.Warn("no cleanup passes enabled, nothing to do")
		return nil
	}

	changes := &tracks.ChangeLog{}
	modified := board.NewCleaner(changes).Cleanup(opts)

	for _, ch := range changes.Changes {
		if net, ok := board.NetMap.GetByNumber(ch.NetCode); ok && net.Name != "" {
			logger.Debug(ch.Op, "kind", ch.Kind, "net", net.Name, "at", formatPoint(ch.Start))
		} else {
			logger.Debug(ch.Op, "kind", ch.Kind, "net", ch.NetCode, "at", formatPoint(ch.Start))
		}
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(changes.Changes); err != nil {
			return fmt.Errorf("failed to encode changes: %w", err)
		}
	}

	if !modified {
		logger.Info("board copper is consistent, no changes needed")
		return nil
	}

	removed := changes.Removals()
	logger.Info("cleanup finished",
		"removed", removed,
		"modified", len(changes.Changes)-removed,
		"remaining", board.Tracks.Len())

	if check {
		return fmt.Errorf("board needs %d changes", len(changes.Changes))
	}
	return nil
}

// formatPoint renders a board location in millimeters for log output.
func formatPoint(p tracks.Point) string {
	return fmt.Sprintf("(%.3f, %.3f)", float64(p.X)*pcb.NanometersToMM, float64(p.Y)*pcb.NanometersToMM)
}
