package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/disaster-report-registry/internal/domain"
)

// NewFindCommand creates the find command.
func NewFindCommand(rootOpts *RootOptions) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "find",
		Short: "Look up a report by national ID",
		Long: `Print the first stored report with the given 11-digit national ID.

Exit codes:
  0 - Report found
  1 - No report with that ID
  2 - Malformed ID or unreadable data file`,
		Example: `  relatos find --id 12345678901`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(rootOpts, id, cmd)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "national ID (11 digits)")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func runFind(rootOpts *RootOptions, id string, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}

	a, _, err := loadReadOnly(rootOpts)
	if err != nil {
		return out.Fail(GetExitCode(err), "find", err)
	}

	r, ok, err := a.svc.FindByID(id)
	if err != nil {
		return out.Fail(ExitCommandError, "find", err)
	}
	if !ok {
		return out.Fail(ExitFailure, "find", fmt.Errorf("no report with national ID %s", id))
	}

	return out.Success(r, func(w io.Writer) { writeReport(w, r) })
}

func writeReport(w io.Writer, r domain.Report) {
	fmt.Fprintf(w, "Name: %s\n", r.Name)
	fmt.Fprintf(w, "National ID: %s\n", r.NationalID)
	fmt.Fprintf(w, "Description: %s\n", r.Description)
	fmt.Fprintf(w, "Location: %.6f, %.6f\n", r.Latitude, r.Longitude)
}
