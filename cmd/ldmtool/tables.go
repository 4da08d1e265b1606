package ldmtool

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hillu/libldm-go/dmtable"
)

var tablesCmd = &cobra.Command{
	Use:                   "tables DEVICE...",
	Short:                 "Emit device-mapper tables for every volume found across one or more devices",
	Args:                  cobra.MinimumNArgs(1),
	DisableFlagsInUseLine: true,
	Run: func(cmd *cobra.Command, args []string) {
		b, err := buildFromDevices(args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		for _, g := range b.Groups() {
			for _, v := range g.Volumes {
				tables, err := dmtable.EmitVolume(v)
				if err != nil {
					fmt.Printf("volume %s: %v\n", v.Name, err)
					continue
				}
				for _, t := range tables {
					fmt.Printf("# %s\n%s", t.Name, t.Body)
				}
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(tablesCmd)
}
