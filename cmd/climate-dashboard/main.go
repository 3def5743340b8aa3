package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "climate-dashboard",
	Short: "Explore climate scenario projections by region",
	Long: `climate-dashboard serves an interactive comparison of temperature and
precipitation projections under the standard emissions scenarios.

Configuration is read from the environment and an optional .env file.`,
	// main reports the returned error once.
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
