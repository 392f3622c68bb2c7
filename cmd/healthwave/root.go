package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "healthwave",
	Short: "Healthwave runs batch health surveys over VK chat",
	Long: `Healthwave messages a list of respondents, walks each through a short
health questionnaire and appends every completed answer set to a Google
Sheet. Waves are started from chat with "!start <ids-file> <sheet-url>".`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
