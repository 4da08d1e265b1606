package main

import (
	"fmt"
	"os"

	"github.com/hillu/libldm-go/cmd/ldmtool"
)

func main() {
	if err := ldmtool.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
