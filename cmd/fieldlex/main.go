package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "fieldlex",
	Short:         "Field vocabulary collection client",
	Long:          "Collect regional-language word equivalents in the field and sync them to the central service, with an offline-first queue for flaky connectivity.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(loginCmd, submitCmd, syncCmd, queueCmd, importCmd, submissionsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
