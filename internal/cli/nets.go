package cli

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/NoelAshdown/kicad-devel/pkg/kicad/pcb"
	"github.com/NoelAshdown/kicad-devel/pkg/kicad/tracks"
)

// newNetsCmd creates the nets command.
func newNetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nets <board.kicad_pcb> [net name]",
		Short: "List the board's nets and their routed copper",
		Long: `Nets lists every net of the board with its pad, trace and via counts
and its routed length. With a net name it shows that net in detail,
including vias that overlap another via of the net without sharing its
exact position.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := pcb.ParseFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to load board: %w", err)
			}
			if len(args) == 2 {
				return showNet(cmd, board, args[1])
			}
			return listNets(cmd, board)
		},
	}
	return cmd
}

func listNets(cmd *cobra.Command, board *pcb.Board) error {
	names := board.GetAllNetNames()
	sort.Strings(names)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NET\tPADS\tTRACES\tVIAS\tLENGTH (mm)")
	for _, name := range names {
		if name == "" {
			continue
		}
		info := board.GetNetInfo(name)
		if info == nil {
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.3f\n",
			name, len(info.Pads), info.Traces, info.Vias,
			info.Length*pcb.NanometersToMM)
	}
	return w.Flush()
}

func showNet(cmd *cobra.Command, board *pcb.Board, name string) error {
	logger := loggerFromContext(cmd.Context())

	info := board.GetNetInfo(name)
	if info == nil {
		return fmt.Errorf("no net named %q", name)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "net %d %q\n", info.Net.Number, info.Net.Name)
	fmt.Fprintf(out, "  pads:   %d\n", len(info.Pads))
	fmt.Fprintf(out, "  traces: %d\n", info.Traces)
	fmt.Fprintf(out, "  vias:   %d\n", info.Vias)
	fmt.Fprintf(out, "  length: %.3f mm\n", info.Length*pcb.NanometersToMM)

	// Walk the net's vias and flag near misses: a via inside another's
	// radius that does not land on it exactly is a drawing defect.
	board.Tracks.ScanNet(board.Tracks.FirstInNet(info.Net.Number), func(it *tracks.Item) bool {
		if it.Kind() != tracks.Via {
			return false
		}
		for _, bad := range board.Tracks.BadConnectedVias(info.Net.Number, it.Start()) {
			logger.Warn("via overlaps another via without sharing its position",
				"at", formatPoint(it.Start()),
				"offender", formatPoint(bad.Start()))
		}
		return false
	})

	return nil
}
