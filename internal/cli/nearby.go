package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/disaster-report-registry/internal/command"
	"github.com/couchcryptid/disaster-report-registry/internal/store"
)

// NearbyOptions holds flags for the nearby command.
type NearbyOptions struct {
	Latitude  float64
	Longitude float64
}

// nearbyResult is the JSON shape of one match.
type nearbyResult struct {
	Position    int     `json:"position"`
	Name        string  `json:"name"`
	NationalID  string  `json:"national_id"`
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DistanceKm  float64 `json:"distance_km"`
}

// NewNearbyCommand creates the nearby command.
func NewNearbyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NearbyOptions{}

	cmd := &cobra.Command{
		Use:   "nearby",
		Short: "List reports within 10 km of a point",
		Long: `List every stored report whose great-circle distance from the given
point is at most 10 km, in file order.

Exit codes:
  0 - At least one report found
  1 - No reports in range
  2 - Invalid coordinates or unreadable data file`,
		Example: `  relatos nearby --lat -23.5505 --lon -46.6333
  relatos nearby --lat -23.5505 --lon -46.6333 --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNearby(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.Latitude, "lat", 0, "latitude in decimal degrees")
	cmd.Flags().Float64Var(&opts.Longitude, "lon", 0, "longitude in decimal degrees")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")

	return cmd
}

func runNearby(rootOpts *RootOptions, opts *NearbyOptions, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}

	a, _, err := loadReadOnly(rootOpts)
	if err != nil {
		return out.Fail(GetExitCode(err), "nearby", err)
	}

	matches, err := a.svc.FindNearby(opts.Latitude, opts.Longitude)
	if err != nil {
		return out.Fail(ExitCommandError, "nearby", err)
	}

	results := make([]nearbyResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, nearbyResult{
			Position:    m.Position,
			Name:        m.Report.Name,
			NationalID:  m.Report.NationalID,
			Description: m.Report.Description,
			Latitude:    m.Report.Latitude,
			Longitude:   m.Report.Longitude,
			DistanceKm:  m.DistanceKm,
		})
	}

	if err := out.Success(results, func(w io.Writer) { writeMatches(w, matches) }); err != nil {
		return err
	}
	if len(matches) == 0 {
		return NewExitError(ExitFailure, "no reports in range")
	}
	return nil
}

func writeMatches(w io.Writer, matches []store.Match) {
	if len(matches) == 0 {
		fmt.Fprintln(w, "No reports found.")
		return
	}
	fmt.Fprintf(w, "Reports within %.0f km:\n", command.NearbyRadiusKm)
	for _, m := range matches {
		fmt.Fprintf(w, "%d. %s (%s) %.2f km: %s\n",
			m.Position+1, m.Report.Name, m.Report.NationalID, m.DistanceKm, m.Report.Description)
	}
}
