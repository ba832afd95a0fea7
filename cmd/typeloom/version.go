// Version command for the typeloom CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/typeloom/typeloom/pkg/typeloom"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the typeloom version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("typeloom", typeloom.Version)
	},
}
