package main

import (
	"context"
	"fmt"
	"os"

	"github.com/adrianliechti/libretto/pkg/otel"

	"github.com/spf13/cobra"
)

var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "libretto",
	Short: "Extract shell and head data from pressure vessel booklets",
	Long: `Reads scanned PDF booklets, finds the page with the materials table
and extracts thickness and material quality of shell and head.`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return otel.Setup(cmd.Context(), "libretto", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the YAML config file")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
