// Package ldmtool is a small cobra-based front end over package
// diskgroup and package dmtable, mirroring the teacher's per-command
// cobra.Command wiring in retroio/cmd.
package ldmtool

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ldmtool",
	Short: "Inspect Windows dynamic disks and emit device-mapper tables",
}

// Execute runs the CLI; main.go's only job is to call this and exit.
func Execute() error {
	return rootCmd.Execute()
}
