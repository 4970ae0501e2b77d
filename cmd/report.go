package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/civicstack/maturity-cli/internal/benchmark"
	"github.com/civicstack/maturity-cli/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export stored results to CSV, JSON, or XLSX",
	Long: `Export every organization's stored result for a survey. The XLSX format
adds a benchmark summary sheet alongside the per-organization rows.`,
	RunE: runReport,
}

func init() {
	f := reportCmd.Flags()
	f.String("survey", "", "survey id (required)")
	f.String("format", "csv", "output format: csv, json, or xlsx")
	f.String("output", "", "output file (default stdout; required for xlsx)")
	_ = reportCmd.MarkFlagRequired("survey")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	surveyID, _ := cmd.Flags().GetString("survey")
	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")

	if format == "xlsx" && outputPath == "" {
		return eris.New("report: xlsx output requires --output")
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	survey, results, orgs, responses, err := loadCorpus(ctx, st, surveyID)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No results found. Run 'score --save' first.")
		return nil
	}

	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return eris.Wrapf(err, "report: create %s", outputPath)
		}
		defer f.Close() //nolint:errcheck
		out = f
	}

	switch format {
	case "csv":
		err = report.WriteResultsCSV(out, survey, results)
	case "json":
		err = report.WriteResultsJSON(out, results)
	case "xlsx":
		bench := benchmark.Compute(survey, results, orgs, responses)
		err = report.WriteResultsXLSX(out, survey, results, bench)
	default:
		return eris.Errorf("report: unknown format %q", format)
	}
	if err != nil {
		return err
	}

	if outputPath != "" {
		zap.L().Info("report: wrote export",
			zap.String("format", format),
			zap.String("path", outputPath),
			zap.Int("results", len(results)),
		)
	}
	return nil
}
