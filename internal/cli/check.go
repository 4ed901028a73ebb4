package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// checkResult is the JSON shape of a data file check.
type checkResult struct {
	Path      string `json:"path"`
	Missing   bool   `json:"missing"`
	Loaded    int    `json:"loaded"`
	StoppedAt int    `json:"stopped_at,omitempty"`
	Error     string `json:"error,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the data file loads completely",
		Long: `Read the data file the same way startup does and report how many
reports load. Loading stops at the first malformed line; anything after it
would be lost on the next save.

Exit codes:
  0 - Every line loaded, or no data file exists yet
  1 - Loading stopped at a malformed line
  2 - Unreadable data file`,
		Example: `  relatos check
  relatos check --file backup.txt --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, cmd)
		},
	}

	return cmd
}

func runCheck(rootOpts *RootOptions, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}

	a, res, err := loadReadOnly(rootOpts)
	if err != nil {
		return out.Fail(GetExitCode(err), "check", err)
	}

	result := checkResult{
		Path:      a.svc.Path(),
		Missing:   res.Missing,
		Loaded:    res.Loaded,
		StoppedAt: res.StoppedAt,
	}
	if res.Err != nil {
		result.Error = res.Err.Error()
	}

	if err := out.Success(result, func(w io.Writer) {
		switch {
		case res.Missing:
			fmt.Fprintf(w, "%s: no data file yet\n", result.Path)
		case res.StoppedAt > 0:
			fmt.Fprintf(w, "%s: %d reports loaded, stopped at line %d (%s)\n",
				result.Path, res.Loaded, res.StoppedAt, result.Error)
		default:
			fmt.Fprintf(w, "%s: %d reports loaded\n", result.Path, res.Loaded)
		}
	}); err != nil {
		return err
	}

	if res.StoppedAt > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%s is malformed at line %d", result.Path, res.StoppedAt))
	}
	return nil
}
