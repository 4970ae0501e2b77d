package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/civicstack/maturity-cli/internal/analysis"
	"github.com/civicstack/maturity-cli/internal/benchmark"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compare one organization against the benchmark corpus",
	Long: `Produce a comparative analysis for a single organization: percentile rank,
per-domain percentiles and cohort deltas, strengths and weaknesses, tailored
recommendations, peers performing better, and a tier action plan.`,
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.String("survey", "", "survey id (required)")
	f.String("org", "", "organization id (required)")
	f.Bool("json", false, "emit the full analysis as JSON")
	_ = analyzeCmd.MarkFlagRequired("survey")
	_ = analyzeCmd.MarkFlagRequired("org")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	surveyID, _ := cmd.Flags().GetString("survey")
	orgID, _ := cmd.Flags().GetString("org")
	asJSON, _ := cmd.Flags().GetBool("json")

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	survey, results, orgs, responses, err := loadCorpus(ctx, st, surveyID)
	if err != nil {
		return err
	}

	bench := benchmark.Compute(survey, results, orgs, responses)
	a, err := analysis.Analyze(survey, orgID, orgs, results, bench)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	}

	printAnalysis(a)
	return nil
}

func printAnalysis(a *analysis.Analysis) {
	fmt.Printf("Organization: %s\n", a.OrganizationID)
	fmt.Printf("Score:        %.2f (%s)\n", a.OverallScore, a.MaturityLevelID)
	fmt.Printf("Percentile:   %.0f\n", a.PercentileRank)
	fmt.Printf("Corpus:       mean %.2f, median %.2f, stddev %.2f\n",
		a.Corpus.Mean, a.Corpus.Median, a.Corpus.StdDev)

	fmt.Println("\nDomains (score / percentile / vs sector / vs size):")
	domains := make([]string, 0, len(a.Domains))
	for id := range a.Domains {
		domains = append(domains, id)
	}
	sort.Strings(domains)
	for _, id := range domains {
		d := a.Domains[id]
		fmt.Printf("  %-20s %.2f  %3.0f  %+.2f  %+.2f\n",
			id, d.Score, d.Percentile, d.SectorDelta, d.SizeDelta)
	}

	if len(a.Strengths) > 0 {
		fmt.Printf("\nStrengths:  %s\n", strings.Join(a.Strengths, ", "))
	}
	if len(a.Weaknesses) > 0 {
		fmt.Printf("Weaknesses: %s\n", strings.Join(a.Weaknesses, ", "))
	}

	if len(a.Recommendations) > 0 {
		fmt.Println("\nRecommendations:")
		for _, rec := range a.Recommendations {
			fmt.Printf("  - %s\n", rec)
		}
	}

	if len(a.Peers.Similar) > 0 {
		fmt.Printf("\nSimilar peers:    %s\n", strings.Join(a.Peers.Similar, ", "))
	}
	if len(a.Peers.BetterPerforming) > 0 {
		fmt.Printf("Better performing: %s\n", strings.Join(a.Peers.BetterPerforming, ", "))
	}
	if len(a.Peers.PotentialMentors) > 0 {
		fmt.Printf("Potential mentors: %s\n", strings.Join(a.Peers.PotentialMentors, ", "))
	}

	fmt.Printf("\nAction plan (%s, budget $%.0f):\n", a.ActionPlan.EstimatedTime, a.ActionPlan.EstimatedBudget)
	printPlanPhase("Short term", a.ActionPlan.ShortTerm)
	printPlanPhase("Medium term", a.ActionPlan.MediumTerm)
	printPlanPhase("Long term", a.ActionPlan.LongTerm)
}

func printPlanPhase(label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("  %s:\n", label)
	for _, item := range items {
		fmt.Printf("    - %s\n", item)
	}
}
