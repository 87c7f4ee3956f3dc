package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pincoapp/pinco/internal/build"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "pinco",
		Short:   "A location-pinning social service",
		Long:    "Pinco is a location-pinning social service: users drop geo-tagged pins and engage with them through tags, bookmarks, and likes.",
		Version: fmt.Sprintf("%s (%s, %s)", build.Version, build.Commit, build.Branch),
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
