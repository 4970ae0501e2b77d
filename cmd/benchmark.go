package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/civicstack/maturity-cli/internal/benchmark"
	"github.com/civicstack/maturity-cli/internal/model"
	"github.com/civicstack/maturity-cli/internal/report"
	"github.com/civicstack/maturity-cli/internal/store"
)

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Compute corpus-wide benchmark statistics",
	Long: `Compute descriptive statistics across all organizations' results:
overall mean/median/stddev, maturity distribution, domain averages, sector
and size cohort analysis, stakeholder engagement, and top performers.

Benchmarks are recomputed from stored results on every run; the optional
output file is a cache for reporting tools, not authoritative state.`,
	RunE: runBenchmark,
}

func init() {
	f := benchmarkCmd.Flags()
	f.String("survey", "", "survey id (required)")
	f.Bool("json", false, "emit the full benchmark as JSON")
	f.String("output", "", "write benchmark JSON to this file")
	_ = benchmarkCmd.MarkFlagRequired("survey")

	rootCmd.AddCommand(benchmarkCmd)
}

func runBenchmark(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	surveyID, _ := cmd.Flags().GetString("survey")
	asJSON, _ := cmd.Flags().GetBool("json")
	outputPath, _ := cmd.Flags().GetString("output")

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

	bench := benchmark.Compute(survey, results, orgs, responses)

	if asJSON {
		if err := report.WriteBenchmarkJSON(os.Stdout, bench); err != nil {
			return err
		}
	} else {
		printBenchmark(bench)
	}

	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return eris.Wrapf(err, "benchmark: create %s", outputPath)
		}
		defer f.Close() //nolint:errcheck
		if err := report.WriteBenchmarkJSON(f, bench); err != nil {
			return err
		}
		zap.L().Info("benchmark: wrote cache file", zap.String("path", outputPath))
	}
	return nil
}

// loadCorpus fetches everything the corpus-wide commands need: the survey
// schema, all results, organization profiles, and completed responses.
func loadCorpus(ctx context.Context, st store.Store, surveyID string) (*model.Survey, []model.Result, []model.Organization, []model.Response, error) {
	survey, err := st.GetSurvey(ctx, surveyID)
	if err != nil {
		return nil, nil, nil, nil, eris.Wrapf(err, "load survey %s", surveyID)
	}
	results, err := st.ListResults(ctx, surveyID)
	if err != nil {
		return nil, nil, nil, nil, eris.Wrap(err, "list results")
	}
	orgs, err := st.ListOrganizations(ctx)
	if err != nil {
		return nil, nil, nil, nil, eris.Wrap(err, "list organizations")
	}
	responses, err := st.ListResponses(ctx, surveyID, store.ResponseFilter{CompletedOnly: true})
	if err != nil {
		return nil, nil, nil, nil, eris.Wrap(err, "list responses")
	}
	return survey, results, orgs, responses, nil
}

func printBenchmark(b *benchmark.Benchmark) {
	fmt.Printf("Survey:        %s\n", b.SurveyID)
	fmt.Printf("Organizations: %d\n", b.OrganizationCount)
	fmt.Printf("Mean:          %.2f\n", b.OverallMetrics.Mean)
	fmt.Printf("Median:        %.2f\n", b.OverallMetrics.Median)
	fmt.Printf("Std dev:       %.2f\n", b.OverallMetrics.StdDev)

	fmt.Println("\nMaturity distribution:")
	levels := make([]string, 0, len(b.MaturityDistribution))
	for id := range b.MaturityDistribution {
		levels = append(levels, id)
	}
	sort.Strings(levels)
	for _, id := range levels {
		fmt.Printf("  %-12s %d\n", id, b.MaturityDistribution[id])
	}

	fmt.Println("\nDomain averages:")
	domains := make([]string, 0, len(b.DomainAverages))
	for id := range b.DomainAverages {
		domains = append(domains, id)
	}
	sort.Strings(domains)
	for _, id := range domains {
		fmt.Printf("  %-20s %.2f\n", id, b.DomainAverages[id])
	}

	if len(b.TopPerformers) > 0 {
		fmt.Printf("\nTop performers: %s\n", strings.Join(b.TopPerformers, ", "))
	}
}
