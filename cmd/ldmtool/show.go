package ldmtool

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:                   "show DEVICE...",
	Short:                 "Print the assembled disk group topology found across one or more devices",
	Args:                  cobra.MinimumNArgs(1),
	DisableFlagsInUseLine: true,
	Run: func(cmd *cobra.Command, args []string) {
		b, err := buildFromDevices(args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		for _, g := range b.Groups() {
			fmt.Print(g.String())
		}
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
