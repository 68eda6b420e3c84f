package cmd

import (
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/safetylens-cli/internal/incident"
	"github.com/KaramelBytes/safetylens-cli/internal/output"
)

var (
	incFlags  viewFlags
	incOffset int
	incLimit  int
)

var incidentsCmd = &cobra.Command{
	Use:   "incidents <file>",
	Short: "List the incidents that pass the filter, in row order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		s, err := openSession(path, incFlags.sheet)
		if isEmpty(err, path) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := incFlags.apply(s); err != nil {
			return err
		}
		snap := s.Snapshot()
		l := output.Listing{
			Name:     snap.Name,
			Filter:   snap.Filter.Describe(),
			Selected: lo.Map(snap.Selected, func(i incident.Incident, _ int) string { return i.ID }),
			Page:     output.Paginate(snap.Visible, incOffset, incLimit),
		}
		return emit(incFlags.format, incFlags.output, &l, "incidents")
	},
}

func init() {
	rootCmd.AddCommand(incidentsCmd)
	incFlags.register(incidentsCmd)
	incidentsCmd.Flags().IntVar(&incOffset, "offset", 0, "skip this many incidents")
	incidentsCmd.Flags().IntVar(&incLimit, "limit", 50, "show at most this many incidents (0 = all)")
}
