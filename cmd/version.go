package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X github.com/randofan/varsitylink/cmd.version=...".
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the varsitylink build version",
	Run: func(_ *cobra.Command, _ []string) {
		printVersion(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "%s %s\n", app, version)
}
