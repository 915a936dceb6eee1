// Package main is the entry point for the cultivation API server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cultivation-api",
	Short: "Cultivation game state service",
	Long:  `Cultivation API serves the progression, beast, sect and secret realm engines over HTTP.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
