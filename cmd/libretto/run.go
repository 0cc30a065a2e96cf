package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/adrianliechti/libretto/config"
	"github.com/adrianliechti/libretto/pkg/document"
	"github.com/adrianliechti/libretto/pkg/pipeline"

	"github.com/spf13/cobra"
)

var (
	inputPath  string
	outputPath string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process every PDF in a folder",
	Long: `Processes all PDF files of the input folder in name order and writes
one row per file to an Excel workbook. Press Ctrl+C to stop after the
current file; rows done so far are still written.`,
	RunE: runBatch,
}

func init() {
	runCmd.Flags().StringVarP(&inputPath, "input", "i", "", "folder containing the PDF files")
	runCmd.Flags().StringVarP(&outputPath, "output", "o", "risultato.xlsx", "path of the Excel file to write")

	runCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(runCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Parse(configPath)

	if err != nil {
		return err
	}

	defer cfg.Close()

	p, err := cfg.Pipeline()

	if err != nil {
		return err
	}

	sources, err := document.Folder(inputPath)

	if err != nil {
		return err
	}

	token := pipeline.NewToken()

	signals := make(chan os.Signal, 2)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	defer signal.Stop(signals)

	go func() {
		<-signals
		cmd.PrintErrln("stopping after the current file...")
		token.Cancel()

		<-signals
		os.Exit(130)
	}()

	result, runErr := p.Run(ctx, sources, &pipeline.RunOptions{
		Token: token,

		Progress: func(done, total int) error {
			cmd.Printf("(%d/%d) %s\n", done, total, sources[done-1].Name)
			return nil
		},
	})

	if runErr != nil && !errors.Is(runErr, pipeline.ErrCanceled) {
		return runErr
	}

	f, err := os.Create(outputPath)

	if err != nil {
		return err
	}

	defer f.Close()

	if err := result.WriteXLSX(f); err != nil {
		return err
	}

	cmd.Printf("%d rows written to %s\n", result.Len(), outputPath)

	if runErr != nil {
		return fmt.Errorf("batch stopped: %w", runErr)
	}

	return nil
}
