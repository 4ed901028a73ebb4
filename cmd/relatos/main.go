// Command relatos records disaster-incident reports and answers proximity,
// lookup, and ordering queries over them.
//
// Usage:
//
//	relatos                                  # interactive menu
//	relatos nearby --lat -23.55 --lon -46.63
//	relatos find --id 12345678901 --format json
//	relatos list --sorted
//	relatos check --file backup.txt
package main

import (
	"os"

	"github.com/couchcryptid/disaster-report-registry/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		cli.Report(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
