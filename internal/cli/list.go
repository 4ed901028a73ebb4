package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	var sorted bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored reports",
		Long: `Print every stored report in file order, or ordered by reporter name
with --sorted. The data file is not modified.`,
		Example: `  relatos list
  relatos list --sorted --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, sorted, cmd)
		},
	}

	cmd.Flags().BoolVar(&sorted, "sorted", false, "order by reporter name")

	return cmd
}

func runList(rootOpts *RootOptions, sorted bool, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}

	a, _, err := loadReadOnly(rootOpts)
	if err != nil {
		return out.Fail(GetExitCode(err), "list", err)
	}

	if sorted {
		a.svc.Sort()
	}
	reports := a.svc.Reports()

	return out.Success(reports, func(w io.Writer) {
		if len(reports) == 0 {
			fmt.Fprintln(w, "No reports found.")
			return
		}
		for i, r := range reports {
			fmt.Fprintf(w, "%d. %s (%s) at %.6f, %.6f: %s\n",
				i+1, r.Name, r.NationalID, r.Latitude, r.Longitude, r.Description)
		}
	})
}
